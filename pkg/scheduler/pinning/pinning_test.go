package pinning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lunban/lunban/pkg/model"
)

const testReferenceDate = "2019-12-30"

// fakePatternSource 以服务点+班次类型为键返回固定候选列表并记录调用次数
type fakePatternSource struct {
	candidates map[string][]*model.PatternCandidate
	err        error
	calls      int
}

func (f *fakePatternSource) LoadRotationPatterns(_ context.Context, location string, _ int, _ time.Weekday, shiftType model.ShiftType) ([]*model.PatternCandidate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates[location+"/"+string(shiftType)], nil
}

func pinEmployee(name string) *model.Employee {
	return &model.Employee{
		ID:       uuid.New(),
		Name:     name,
		Gender:   model.GenderFemale,
		Contract: model.ContractPermanent,
	}
}

func pinInstance(location string, typ model.ShiftType, date string) *model.ShiftInstance {
	tpl := &model.ShiftTemplate{
		ID:        uuid.New(),
		Location:  location,
		Region:    "北区",
		Type:      typ,
		Weekday:   model.Weekday(date),
		StartTime: "08:00",
		EndTime:   "16:00",
		Headcount: 1,
		Priority:  3,
		Active:    true,
	}
	return model.NewShiftInstance(tpl, date, testReferenceDate)
}

func pinSolution(employees []*model.Employee, instances ...*model.ShiftInstance) *model.RosterSolution {
	solution := model.NewRosterSolution("北区", "2020-01-06", "2020-01-12")
	solution.Employees = employees
	for _, inst := range instances {
		solution.Instances = append(solution.Instances, inst)
		solution.Assignments = append(solution.Assignments, model.NewAssignment(inst, 0))
	}
	return solution
}

func TestPreprocessor_PinsMatchingCandidate(t *testing.T) {
	emp := pinEmployee("张三")
	// 2020-01-06 位于基准后第1周，周期内周序为1
	solution := pinSolution([]*model.Employee{emp},
		pinInstance("蓝屋", model.ShiftDay, "2020-01-06"))
	source := &fakePatternSource{candidates: map[string][]*model.PatternCandidate{
		"蓝屋/DAY": {{EmployeeID: emp.ID}},
	}}

	pinned, err := New(source).Pin(context.Background(), solution)
	if err != nil {
		t.Fatalf("Pin 返回错误: %v", err)
	}
	if pinned != 1 {
		t.Errorf("钉住数 = %d, want 1", pinned)
	}
	a := solution.Assignments[0]
	if a.Employee != emp || !a.Pinned {
		t.Errorf("分配未被钉住: employee=%v pinned=%v", a.Employee, a.Pinned)
	}
}

func TestPreprocessor_SkipsCycleBoundaryWeek(t *testing.T) {
	emp := pinEmployee("张三")
	// 2019-12-30 即基准周，周期内周序为0，不适用任何班型
	solution := pinSolution([]*model.Employee{emp},
		pinInstance("蓝屋", model.ShiftDay, "2019-12-30"))
	source := &fakePatternSource{candidates: map[string][]*model.PatternCandidate{
		"蓝屋/DAY": {{EmployeeID: emp.ID}},
	}}

	pinned, err := New(source).Pin(context.Background(), solution)
	if err != nil {
		t.Fatalf("Pin 返回错误: %v", err)
	}
	if pinned != 0 {
		t.Errorf("钉住数 = %d, want 0", pinned)
	}
	if source.calls != 0 {
		t.Errorf("边界周不应查询班型，实际查询 %d 次", source.calls)
	}
}

func TestPreprocessor_SkipsUnavailableCandidate(t *testing.T) {
	unavailable := pinEmployee("张三")
	available := pinEmployee("李四")
	solution := pinSolution([]*model.Employee{unavailable, available},
		pinInstance("蓝屋", model.ShiftDay, "2020-01-06"))
	source := &fakePatternSource{candidates: map[string][]*model.PatternCandidate{
		"蓝屋/DAY": {
			{EmployeeID: unavailable.ID, Unavailable: true},
			{EmployeeID: available.ID},
		},
	}}

	pinned, _ := New(source).Pin(context.Background(), solution)
	if pinned != 1 {
		t.Fatalf("钉住数 = %d, want 1", pinned)
	}
	if got := solution.Assignments[0].Employee; got != available {
		t.Errorf("钉住员工 = %v, want 李四", got)
	}
}

func TestPreprocessor_RejectsOverWeeklyCap(t *testing.T) {
	maxHours := 8
	emp := pinEmployee("张三")
	emp.MaxHours = &maxHours

	// 同一 ISO 周内两个8小时班，上限仅8小时，第二个必须放弃
	solution := pinSolution([]*model.Employee{emp},
		pinInstance("蓝屋", model.ShiftDay, "2020-01-06"),
		pinInstance("蓝屋", model.ShiftDay, "2020-01-07"))
	source := &fakePatternSource{candidates: map[string][]*model.PatternCandidate{
		"蓝屋/DAY": {{EmployeeID: emp.ID}},
	}}

	pinned, _ := New(source).Pin(context.Background(), solution)
	if pinned != 1 {
		t.Errorf("钉住数 = %d, want 1", pinned)
	}
	if solution.Assignments[1].Employee != nil {
		t.Errorf("超出周工时上限仍被钉住")
	}
}

func TestPreprocessor_SameDayLocationConflict(t *testing.T) {
	emp := pinEmployee("张三")
	// 同日同服务点两个实例，同一员工只可钉住其一
	solution := pinSolution([]*model.Employee{emp},
		pinInstance("蓝屋", model.ShiftDay, "2020-01-06"),
		pinInstance("蓝屋", model.ShiftDay, "2020-01-06"))
	source := &fakePatternSource{candidates: map[string][]*model.PatternCandidate{
		"蓝屋/DAY": {{EmployeeID: emp.ID}},
	}}

	pinned, _ := New(source).Pin(context.Background(), solution)
	if pinned != 1 {
		t.Errorf("钉住数 = %d, want 1", pinned)
	}
}

func TestPreprocessor_LeavesAssignedSlots(t *testing.T) {
	holder := pinEmployee("张三")
	other := pinEmployee("李四")
	solution := pinSolution([]*model.Employee{holder, other},
		pinInstance("蓝屋", model.ShiftDay, "2020-01-06"))
	solution.Assignments[0].Employee = holder
	source := &fakePatternSource{candidates: map[string][]*model.PatternCandidate{
		"蓝屋/DAY": {{EmployeeID: other.ID}},
	}}

	pinned, _ := New(source).Pin(context.Background(), solution)
	if pinned != 0 {
		t.Errorf("钉住数 = %d, want 0", pinned)
	}
	a := solution.Assignments[0]
	if a.Employee != holder || a.Pinned {
		t.Errorf("已分配单元被改动: employee=%v pinned=%v", a.Employee, a.Pinned)
	}
}

func TestPreprocessor_PatternErrorFailOpen(t *testing.T) {
	emp := pinEmployee("张三")
	solution := pinSolution([]*model.Employee{emp},
		pinInstance("蓝屋", model.ShiftDay, "2020-01-06"))
	source := &fakePatternSource{err: errors.New("数据库连接失败")}

	pinned, err := New(source).Pin(context.Background(), solution)
	if err != nil {
		t.Fatalf("班型数据异常不应阻断钉排: %v", err)
	}
	if pinned != 0 {
		t.Errorf("钉住数 = %d, want 0", pinned)
	}
	if solution.Assignments[0].Employee != nil {
		t.Errorf("查询失败仍被钉住")
	}
}

package optimizer

import (
	"testing"

	"github.com/google/uuid"

	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/constraint"
	"github.com/lunban/lunban/pkg/scheduler/constraint/builtin"
)

func testEmployee(name string, contract model.ContractType) *model.Employee {
	return &model.Employee{
		ID:       uuid.New(),
		Name:     name,
		Gender:   model.GenderFemale,
		Contract: contract,
	}
}

func testInstance(location string, typ model.ShiftType, date string) *model.ShiftInstance {
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
	return model.NewShiftInstance(tpl, date, "2019-12-30")
}

func testSolution(employees []*model.Employee, dates ...string) *model.RosterSolution {
	solution := model.NewRosterSolution("北区", "2025-01-06", "2025-01-12")
	solution.Employees = employees
	for _, date := range dates {
		inst := testInstance("蓝屋", model.ShiftDay, date)
		solution.Instances = append(solution.Instances, inst)
		solution.Assignments = append(solution.Assignments, model.NewAssignment(inst, 0))
	}
	return solution
}

func newTracker(solution *model.RosterSolution) *constraint.Tracker {
	return constraint.NewTracker(builtin.NewDefaultManager(), constraint.NewContext(solution, nil))
}

func TestMove_ApplyUndoRestoresScore(t *testing.T) {
	emp := testEmployee("张三", model.ContractPermanent)
	solution := testSolution([]*model.Employee{emp}, "2025-01-06")
	tracker := newTracker(solution)

	before := tracker.Score()
	m := &Move{Kind: MoveChange, Assignment: solution.Assignments[0], Employee: emp}
	if !m.Doable() {
		t.Fatal("移动应可执行")
	}

	after := m.Apply(tracker)
	if after == before {
		t.Fatal("移动未改变分数")
	}
	m.Undo(tracker)
	if got := tracker.Score(); got != before {
		t.Errorf("撤销后分数 = %v, want %v", got, before)
	}
	if solution.Assignments[0].Employee != nil {
		t.Errorf("撤销后员工引用未恢复")
	}
}

func TestMove_Doable(t *testing.T) {
	permanent := testEmployee("张三", model.ContractPermanent)
	flexible := testEmployee("李四", model.ContractFlexible)
	restricted := testEmployee("王五", model.ContractPermanent)
	restricted.RestrictedLocations = []string{"蓝屋"}

	solution := testSolution([]*model.Employee{permanent, flexible, restricted}, "2025-01-06")
	a := solution.Assignments[0]

	tests := []struct {
		name string
		move *Move
		want bool
	}{
		{"钉住单元不可动", &Move{Kind: MoveChange, Assignment: &model.Assignment{Pinned: true}, Employee: permanent}, false},
		{"同员工为空操作", &Move{Kind: MoveChange, Assignment: a, Employee: nil}, false},
		{"通用重排可执行", &Move{Kind: MoveChange, Assignment: a, Employee: permanent}, true},
		{"换人要求原持有者为灵活用工", &Move{Kind: MoveSwap, Assignment: a, Employee: permanent}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.move.Doable(); got != tt.want {
				t.Errorf("Doable() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("换人移动的目标准入", func(t *testing.T) {
		a.Employee = flexible
		defer func() { a.Employee = nil }()

		if m := (&Move{Kind: MoveSwap, Assignment: a, Employee: permanent}); !m.Doable() {
			t.Errorf("灵活用工换正式员工应可执行")
		}
		if m := (&Move{Kind: MoveSwap, Assignment: a, Employee: restricted}); m.Doable() {
			t.Errorf("目标员工被服务点限制时不应可执行")
		}
		if m := (&Move{Kind: MoveSwap, Assignment: a, Employee: flexible}); m.Doable() {
			t.Errorf("目标为同一员工时不应可执行")
		}
	})
}

func TestTabuList_FIFOEviction(t *testing.T) {
	tabu := NewTabuList(2)
	tabu.Add(1)
	tabu.Add(2)
	tabu.Add(3) // 淘汰最早的 1

	if tabu.Contains(1) {
		t.Errorf("最早的键应被淘汰")
	}
	if !tabu.Contains(2) || !tabu.Contains(3) {
		t.Errorf("后加入的键应保留")
	}

	tabu.Add(2) // 重复添加不挤占容量
	if !tabu.Contains(3) {
		t.Errorf("重复添加不应引起淘汰")
	}

	tabu.Clear()
	if tabu.Contains(2) || tabu.Contains(3) {
		t.Errorf("清空后不应包含任何键")
	}
}

func TestFilters(t *testing.T) {
	permanent := testEmployee("张三", model.ContractPermanent)
	flexible := testEmployee("李四", model.ContractFlexible)
	inst := testInstance("蓝屋", model.ShiftDay, "2025-01-06")

	empty := model.NewAssignment(inst, 0)
	pinned := model.NewAssignment(inst, 0)
	pinned.Employee = permanent
	pinned.Pinned = true
	permHeld := model.NewAssignment(inst, 0)
	permHeld.Employee = permanent
	flexHeld := model.NewAssignment(inst, 0)
	flexHeld.Employee = flexible

	tests := []struct {
		name       string
		assignment *model.Assignment
		unpinned   bool
		flexEmpty  bool
	}{
		{"空缺单元", empty, true, true},
		{"钉住单元", pinned, false, false},
		{"正式员工持有", permHeld, true, false},
		{"灵活用工持有", flexHeld, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllUnpinned(tt.assignment); got != tt.unpinned {
				t.Errorf("AllUnpinned = %v, want %v", got, tt.unpinned)
			}
			if got := FlexibleOrEmpty(tt.assignment); got != tt.flexEmpty {
				t.Errorf("FlexibleOrEmpty = %v, want %v", got, tt.flexEmpty)
			}
		})
	}
}

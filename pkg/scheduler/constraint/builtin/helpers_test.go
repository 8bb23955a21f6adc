package builtin

import (
	"github.com/google/uuid"

	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/constraint"
)

const testReferenceDate = "2019-12-30"

// testEmployee 构造测试员工
func testEmployee(name string, contract model.ContractType) *model.Employee {
	return &model.Employee{
		ID:       uuid.New(),
		Name:     name,
		Gender:   model.GenderFemale,
		Contract: contract,
	}
}

// testInstance 构造测试班次实例
func testInstance(location string, typ model.ShiftType, date, start, end string) *model.ShiftInstance {
	tpl := &model.ShiftTemplate{
		ID:        uuid.New(),
		Location:  location,
		Region:    "北区",
		Type:      typ,
		StartTime: start,
		EndTime:   end,
		Headcount: 1,
		Priority:  5,
		Active:    true,
	}
	return model.NewShiftInstance(tpl, date, testReferenceDate)
}

// dayShift 构造8小时白班实例
func dayShift(location, date string) *model.ShiftInstance {
	return testInstance(location, model.ShiftDay, date, "08:00", "16:00")
}

// assigned 构造已分配的需求单元
func assigned(inst *model.ShiftInstance, emp *model.Employee) *model.Assignment {
	a := model.NewAssignment(inst, 0)
	a.Employee = emp
	return a
}

// buildContext 用给定分配构造评分上下文
func buildContext(employees []*model.Employee, assignments []*model.Assignment) *constraint.Context {
	solution := model.NewRosterSolution("北区", "2025-01-06", "2025-01-19")
	solution.Employees = employees
	seen := make(map[uuid.UUID]bool)
	for _, a := range assignments {
		if !seen[a.Instance.ID] {
			seen[a.Instance.ID] = true
			solution.Instances = append(solution.Instances, a.Instance)
		}
	}
	solution.Assignments = assignments
	return constraint.NewContext(solution, nil)
}

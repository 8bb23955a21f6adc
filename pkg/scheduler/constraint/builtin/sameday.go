// Package builtin 提供内置约束实现
package builtin

import (
	"fmt"

	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/constraint"
)

// SameDayConstraint 同日班次组合约束（硬）
// 合法组合：单班；多个机动班且服务点互不相同；
// 恰好两个非机动班且为同服务点的长日班+留宿夜班；其余组合均不合法
type SameDayConstraint struct {
	*BaseConstraint
}

// NewSameDayConstraint 创建同日班次组合约束
func NewSameDayConstraint() *SameDayConstraint {
	return &SameDayConstraint{
		BaseConstraint: NewBaseConstraint("invalid_same_day", constraint.CategoryHard),
	}
}

// EvaluateEmployee 评估单个员工
func (c *SameDayConstraint) EvaluateEmployee(ctx *constraint.Context, emp *model.Employee) (constraint.Score, []constraint.Violation) {
	var score constraint.Score
	var violations []constraint.Violation

	byDate := make(map[string][]*model.Assignment)
	for _, a := range ctx.EmployeeAssignments(emp.ID) {
		byDate[a.Date()] = append(byDate[a.Date()], a)
	}

	for date, assignments := range byDate {
		if ValidSameDay(assignments) {
			continue
		}
		impact := constraint.Score{Hard: -ctx.Config.Weights.InvalidSameDay}
		score = score.Add(impact)
		violations = append(violations, constraint.Violation{
			Constraint: c.Name(),
			Category:   c.Category(),
			EmployeeID: emp.ID,
			Date:       date,
			Message:    fmt.Sprintf("员工 %s 在 %s 的 %d 个班次组合不合法", emp.Name, date, len(assignments)),
			Impact:     impact,
		})
	}
	return score, violations
}

// ValidSameDay 检查同一员工同一日期的一组分配是否为合法组合
func ValidSameDay(assignments []*model.Assignment) bool {
	if len(assignments) <= 1 {
		return true
	}

	floating := 0
	for _, a := range assignments {
		if a.Type() == model.ShiftFloating {
			floating++
		}
	}

	// 全部为机动班：服务点必须互不相同
	if floating == len(assignments) {
		locations := make(map[string]bool)
		for _, a := range assignments {
			if locations[a.Location()] {
				return false
			}
			locations[a.Location()] = true
		}
		return true
	}

	// 机动班与非机动班混排不合法
	if floating > 0 {
		return false
	}

	// 恰好两个非机动班：仅允许同服务点的长日班+留宿夜班
	if len(assignments) == 2 {
		a, b := assignments[0], assignments[1]
		if a.Location() != b.Location() {
			return false
		}
		return (a.Type() == model.ShiftLongDay && b.Type() == model.ShiftSleepIn) ||
			(a.Type() == model.ShiftSleepIn && b.Type() == model.ShiftLongDay)
	}

	return false
}

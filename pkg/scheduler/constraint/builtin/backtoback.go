// Package builtin 提供内置约束实现
package builtin

import (
	"fmt"

	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/constraint"
)

// BackToBackConstraint 隔日班次衔接约束（硬）
// 仅检查相邻两个日历日的班次类型组合；同日组合由同日约束处理
type BackToBackConstraint struct {
	*BaseConstraint
}

// NewBackToBackConstraint 创建隔日班次衔接约束
func NewBackToBackConstraint() *BackToBackConstraint {
	return &BackToBackConstraint{
		BaseConstraint: NewBaseConstraint("back_to_back", constraint.CategoryHard),
	}
}

// EvaluateEmployee 评估单个员工
func (c *BackToBackConstraint) EvaluateEmployee(ctx *constraint.Context, emp *model.Employee) (constraint.Score, []constraint.Violation) {
	var score constraint.Score
	var violations []constraint.Violation

	byDate := make(map[string][]*model.Assignment)
	for _, a := range ctx.EmployeeAssignments(emp.ID) {
		byDate[a.Date()] = append(byDate[a.Date()], a)
	}

	for date, todays := range byDate {
		nexts := byDate[model.NextDate(date)]
		if len(nexts) == 0 {
			continue
		}
		for _, a := range todays {
			for _, b := range nexts {
				if ctx.Config.IsForbiddenNextDay(a.Type(), b.Type()) {
					impact := constraint.Score{Hard: -ctx.Config.Weights.BackToBack}
					score = score.Add(impact)
					violations = append(violations, constraint.Violation{
						Constraint: c.Name(),
						Category:   c.Category(),
						EmployeeID: emp.ID,
						Date:       b.Date(),
						Location:   b.Location(),
						Message:    fmt.Sprintf("员工 %s 在 %s 的 %s 之后次日不得排 %s", emp.Name, date, a.Type(), b.Type()),
						Impact:     impact,
					})
				}
			}
		}
	}
	return score, violations
}

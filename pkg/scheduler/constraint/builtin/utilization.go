// Package builtin 提供内置约束实现
package builtin

import (
	"fmt"

	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/constraint"
)

// UtilizationConstraint 工时利用约束（软）
// 奖励灵活用工被使用（优先消化灵活人力而非压榨正式员工）；
// 奖励总工时贴近合同上下限中点（±5h/±10h/±20h 递减档位）；
// 总工时超过合同下限 1.3 倍后按超出小时数平方惩罚
type UtilizationConstraint struct {
	*BaseConstraint
}

// NewUtilizationConstraint 创建工时利用约束
func NewUtilizationConstraint() *UtilizationConstraint {
	return &UtilizationConstraint{
		BaseConstraint: NewBaseConstraint("hours_utilization", constraint.CategorySoft),
	}
}

// EvaluateEmployee 评估单个员工
func (c *UtilizationConstraint) EvaluateEmployee(ctx *constraint.Context, emp *model.Employee) (constraint.Score, []constraint.Violation) {
	var score constraint.Score
	var violations []constraint.Violation
	w := ctx.Config.Weights

	assignments := ctx.EmployeeAssignments(emp.ID)
	if len(assignments) == 0 {
		return score, nil
	}

	// 灵活用工被使用的奖励（按分配计）
	if emp.IsFlexible() {
		score.Soft += int64(len(assignments)) * w.FlexibleUsed
	}

	total := ctx.TotalMinutes(emp.ID)

	// 贴近目标工时（上下限中点）的档位奖励
	minMin, hasMin := emp.MinMinutes()
	maxMin, hasMax := emp.MaxMinutes()
	if hasMin && hasMax {
		target := (minMin + maxMin) / 2
		diff := total - target
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff <= 5*60:
			score.Soft += w.TargetBand5h
		case diff <= 10*60:
			score.Soft += w.TargetBand10h
		case diff <= 20*60:
			score.Soft += w.TargetBand20h
		}
	}

	// 超载保护：超过合同下限的 1.3 倍后平方惩罚
	if hasMin {
		threshold := int(float64(minMin) * ctx.Config.OverloadFactor)
		if total > threshold {
			excessHours := int64((total - threshold) / 60)
			if excessHours > 0 {
				impact := constraint.Score{Soft: -excessHours * excessHours * w.OverloadQuad}
				score = score.Add(impact)
				violations = append(violations, constraint.Violation{
					Constraint: c.Name(),
					Category:   c.Category(),
					EmployeeID: emp.ID,
					Message:    fmt.Sprintf("员工 %s 总工时超过下限 %.1f 倍阈值 %d 小时", emp.Name, ctx.Config.OverloadFactor, excessHours),
					Impact:     impact,
				})
			}
		}
	}

	return score, violations
}

// Package builtin 提供内置约束实现
package builtin

import (
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/constraint"
)

// PreferenceConstraint 偏好奖励约束（软）
// 对已排分配给予基础奖励，并叠加偏好星期、偏好班次类型、
// 模板优先级×班次类型权重、员工服务点偏好权重的奖励
type PreferenceConstraint struct {
	*BaseConstraint
}

// NewPreferenceConstraint 创建偏好奖励约束
func NewPreferenceConstraint() *PreferenceConstraint {
	return &PreferenceConstraint{
		BaseConstraint: NewBaseConstraint("assignment_preference", constraint.CategorySoft),
	}
}

// EvaluateEmployee 评估单个员工
// 奖励项不生成违反详情，只贡献分数
func (c *PreferenceConstraint) EvaluateEmployee(ctx *constraint.Context, emp *model.Employee) (constraint.Score, []constraint.Violation) {
	var soft int64
	w := ctx.Config.Weights

	for _, a := range ctx.EmployeeAssignments(emp.ID) {
		soft += w.Filled

		if emp.IsDayPreferred(model.Weekday(a.Date())) {
			soft += w.PreferredDay
		}
		if emp.IsShiftTypePreferred(a.Type()) {
			soft += w.PreferredShift
		}

		// 优先级越高（数值越小）奖励越大，与班次类型权重相乘
		priority := a.Instance.Template.Priority
		if priority < 1 {
			priority = 1
		}
		if priority > 10 {
			priority = 10
		}
		soft += w.PriorityBase * int64(11-priority) * ctx.Config.ShiftTypeWeights[a.Type()]

		soft += w.LocationPref * int64(emp.LocationPreference(a.Location()))
	}

	return constraint.Score{Soft: soft}, nil
}

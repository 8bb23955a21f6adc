// Package builtin 提供内置约束实现
package builtin

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/constraint"
)

// GenderConstraint 性别要求约束（硬）
// 模板要求特定性别时，分配员工的性别必须匹配
type GenderConstraint struct {
	*BaseConstraint
}

// NewGenderConstraint 创建性别要求约束
func NewGenderConstraint() *GenderConstraint {
	return &GenderConstraint{
		BaseConstraint: NewBaseConstraint("gender_mismatch", constraint.CategoryHard),
	}
}

// EvaluateEmployee 评估单个员工
func (c *GenderConstraint) EvaluateEmployee(ctx *constraint.Context, emp *model.Employee) (constraint.Score, []constraint.Violation) {
	var score constraint.Score
	var violations []constraint.Violation

	for _, a := range ctx.EmployeeAssignments(emp.ID) {
		tpl := a.Instance.Template
		if tpl.RequiresGender() && tpl.RequiredGender != emp.Gender {
			impact := constraint.Score{Hard: -ctx.Config.Weights.GenderMismatch}
			score = score.Add(impact)
			violations = append(violations, constraint.Violation{
				Constraint: c.Name(),
				Category:   c.Category(),
				EmployeeID: emp.ID,
				Date:       a.Date(),
				Location:   a.Location(),
				Message:    fmt.Sprintf("员工 %s 性别不满足 %s %s 班次要求", emp.Name, a.Date(), a.Location()),
				Impact:     impact,
			})
		}
	}
	return score, violations
}

// RestrictionConstraint 员工限制约束（硬）
// 分配不得落在员工限制的星期、班次类型或服务点上
type RestrictionConstraint struct {
	*BaseConstraint
}

// NewRestrictionConstraint 创建员工限制约束
func NewRestrictionConstraint() *RestrictionConstraint {
	return &RestrictionConstraint{
		BaseConstraint: NewBaseConstraint("employee_restriction", constraint.CategoryHard),
	}
}

// EvaluateEmployee 评估单个员工
func (c *RestrictionConstraint) EvaluateEmployee(ctx *constraint.Context, emp *model.Employee) (constraint.Score, []constraint.Violation) {
	var score constraint.Score
	var violations []constraint.Violation

	for _, a := range ctx.EmployeeAssignments(emp.ID) {
		reasons := restrictionReasons(emp, a)
		for _, reason := range reasons {
			impact := constraint.Score{Hard: -ctx.Config.Weights.Restriction}
			score = score.Add(impact)
			violations = append(violations, constraint.Violation{
				Constraint: c.Name(),
				Category:   c.Category(),
				EmployeeID: emp.ID,
				Date:       a.Date(),
				Location:   a.Location(),
				Message:    fmt.Sprintf("员工 %s 在 %s：%s", emp.Name, a.Date(), reason),
				Impact:     impact,
			})
		}
	}
	return score, violations
}

// restrictionReasons 列出一个分配违反的限制项
func restrictionReasons(emp *model.Employee, a *model.Assignment) []string {
	var reasons []string
	if emp.IsDayRestricted(model.Weekday(a.Date())) {
		reasons = append(reasons, "被排在限制星期")
	}
	if emp.IsShiftTypeRestricted(a.Type()) {
		reasons = append(reasons, fmt.Sprintf("被排了限制班次类型 %s", a.Type()))
	}
	if emp.IsLocationRestricted(a.Location()) {
		reasons = append(reasons, fmt.Sprintf("被排到限制服务点 %s", a.Location()))
	}
	return reasons
}

// DuplicateInstanceConstraint 同实例重复分配约束（硬）
// 同一员工不得在同一个班次实例上占用多个需求单元
type DuplicateInstanceConstraint struct {
	*BaseConstraint
}

// NewDuplicateInstanceConstraint 创建同实例重复分配约束
func NewDuplicateInstanceConstraint() *DuplicateInstanceConstraint {
	return &DuplicateInstanceConstraint{
		BaseConstraint: NewBaseConstraint("duplicate_instance", constraint.CategoryHard),
	}
}

// EvaluateEmployee 评估单个员工
func (c *DuplicateInstanceConstraint) EvaluateEmployee(ctx *constraint.Context, emp *model.Employee) (constraint.Score, []constraint.Violation) {
	var score constraint.Score
	var violations []constraint.Violation

	counts := make(map[uuid.UUID]int)
	dates := make(map[uuid.UUID]string)
	locations := make(map[uuid.UUID]string)
	for _, a := range ctx.EmployeeAssignments(emp.ID) {
		counts[a.Instance.ID]++
		dates[a.Instance.ID] = a.Date()
		locations[a.Instance.ID] = a.Location()
	}

	for instID, count := range counts {
		if count > 1 {
			impact := constraint.Score{Hard: -int64(count-1) * ctx.Config.Weights.DuplicateInstance}
			score = score.Add(impact)
			violations = append(violations, constraint.Violation{
				Constraint: c.Name(),
				Category:   c.Category(),
				EmployeeID: emp.ID,
				Date:       dates[instID],
				Location:   locations[instID],
				Message:    fmt.Sprintf("员工 %s 在 %s %s 的同一班次实例被排 %d 次", emp.Name, dates[instID], locations[instID], count),
				Impact:     impact,
			})
		}
	}
	return score, violations
}

// Package builtin 提供内置约束实现
package builtin

import (
	"fmt"

	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/constraint"
)

// DailyTypeCapConstraint 每班次类型单日工时上限约束（硬）
type DailyTypeCapConstraint struct {
	*BaseConstraint
}

// NewDailyTypeCapConstraint 创建单日工时上限约束
func NewDailyTypeCapConstraint() *DailyTypeCapConstraint {
	return &DailyTypeCapConstraint{
		BaseConstraint: NewBaseConstraint("daily_type_cap", constraint.CategoryHard),
	}
}

// EvaluateEmployee 评估单个员工
func (c *DailyTypeCapConstraint) EvaluateEmployee(ctx *constraint.Context, emp *model.Employee) (constraint.Score, []constraint.Violation) {
	var score constraint.Score
	var violations []constraint.Violation

	type dayType struct {
		date string
		typ  model.ShiftType
	}
	minutes := make(map[dayType]int)
	for _, a := range ctx.EmployeeAssignments(emp.ID) {
		minutes[dayType{a.Date(), a.Type()}] += a.Minutes()
	}

	for key, total := range minutes {
		limit, ok := ctx.Config.DailyTypeCapMinutes[key.typ]
		if !ok {
			continue
		}
		if excess := total - limit; excess > 0 {
			impact := constraint.Score{Hard: -int64(excess) * ctx.Config.Weights.DailyTypeCap}
			score = score.Add(impact)
			violations = append(violations, constraint.Violation{
				Constraint: c.Name(),
				Category:   c.Category(),
				EmployeeID: emp.ID,
				Date:       key.date,
				Message:    fmt.Sprintf("员工 %s 在 %s 的 %s 类型工时超限 %d 分钟", emp.Name, key.date, key.typ, excess),
				Impact:     impact,
			})
		}
	}
	return score, violations
}

// WeeklyHoursConstraint 周工时上下限约束（类硬软约束）
// 周工时超出合同上限或不足合同下限时按分钟数惩罚；
// 未设置上下限的员工对相应规则豁免
type WeeklyHoursConstraint struct {
	*BaseConstraint
}

// NewWeeklyHoursConstraint 创建周工时约束
func NewWeeklyHoursConstraint() *WeeklyHoursConstraint {
	return &WeeklyHoursConstraint{
		BaseConstraint: NewBaseConstraint("weekly_hours", constraint.CategorySoft),
	}
}

// EvaluateEmployee 评估单个员工
func (c *WeeklyHoursConstraint) EvaluateEmployee(ctx *constraint.Context, emp *model.Employee) (constraint.Score, []constraint.Violation) {
	var score constraint.Score
	var violations []constraint.Violation

	maxMin, hasMax := emp.MaxMinutes()
	minMin, hasMin := emp.MinMinutes()
	if !hasMax && !hasMin {
		return score, nil
	}

	minutesByWeek := make(map[string]int)
	for _, a := range ctx.EmployeeAssignments(emp.ID) {
		minutesByWeek[model.ISOWeek(a.Date())] += a.Minutes()
	}

	for _, week := range weeksInRange(ctx.Solution.StartDate, ctx.Solution.EndDate) {
		minutes := minutesByWeek[week]
		if hasMax {
			if excess := minutes - maxMin; excess > 0 {
				impact := constraint.Score{Soft: -int64(excess) * ctx.Config.Weights.OverMaxPerMinute}
				score = score.Add(impact)
				violations = append(violations, constraint.Violation{
					Constraint: c.Name(),
					Category:   c.Category(),
					EmployeeID: emp.ID,
					Date:       week,
					Message:    fmt.Sprintf("员工 %s 在 %s 超出周工时上限 %d 分钟", emp.Name, week, excess),
					Impact:     impact,
				})
			}
		}
		if hasMin {
			if shortfall := minMin - minutes; shortfall > 0 {
				impact := constraint.Score{Soft: -int64(shortfall) * ctx.Config.Weights.UnderMinPerMinute}
				score = score.Add(impact)
				violations = append(violations, constraint.Violation{
					Constraint: c.Name(),
					Category:   c.Category(),
					EmployeeID: emp.ID,
					Date:       week,
					Message:    fmt.Sprintf("员工 %s 在 %s 不足周工时下限 %d 分钟", emp.Name, week, shortfall),
					Impact:     impact,
				})
			}
		}
	}
	return score, violations
}

// weeksInRange 列出日期范围触及的所有 ISO 周（升序）
func weeksInRange(startDate, endDate string) []string {
	var weeks []string
	seen := make(map[string]bool)
	for d := startDate; d != "" && d <= endDate; d = model.NextDate(d) {
		week := model.ISOWeek(d)
		if !seen[week] {
			seen[week] = true
			weeks = append(weeks, week)
		}
	}
	return weeks
}

// LocationWeekConstraint 每周同服务点出勤天数约束（类硬软约束）
// 员工一周内在同一服务点应至少出勤2天、至多5天
type LocationWeekConstraint struct {
	*BaseConstraint
}

// NewLocationWeekConstraint 创建服务点出勤天数约束
func NewLocationWeekConstraint() *LocationWeekConstraint {
	return &LocationWeekConstraint{
		BaseConstraint: NewBaseConstraint("location_week_days", constraint.CategorySoft),
	}
}

// EvaluateEmployee 评估单个员工
func (c *LocationWeekConstraint) EvaluateEmployee(ctx *constraint.Context, emp *model.Employee) (constraint.Score, []constraint.Violation) {
	var score constraint.Score
	var violations []constraint.Violation

	type locWeek struct {
		location string
		week     string
	}
	days := make(map[locWeek]map[string]bool)
	for _, a := range ctx.EmployeeAssignments(emp.ID) {
		key := locWeek{a.Location(), model.ISOWeek(a.Date())}
		if days[key] == nil {
			days[key] = make(map[string]bool)
		}
		days[key][a.Date()] = true
	}

	for key, dates := range days {
		count := len(dates)
		if count == 1 {
			impact := constraint.Score{Soft: -ctx.Config.Weights.SingleDayLocation}
			score = score.Add(impact)
			violations = append(violations, constraint.Violation{
				Constraint: c.Name(),
				Category:   c.Category(),
				EmployeeID: emp.ID,
				Date:       key.week,
				Location:   key.location,
				Message:    fmt.Sprintf("员工 %s 在 %s 的 %s 仅出勤1天", emp.Name, key.week, key.location),
				Impact:     impact,
			})
		}
		if count > 5 {
			impact := constraint.Score{Soft: -int64(count-5) * ctx.Config.Weights.ExcessDaysLocation}
			score = score.Add(impact)
			violations = append(violations, constraint.Violation{
				Constraint: c.Name(),
				Category:   c.Category(),
				EmployeeID: emp.ID,
				Date:       key.week,
				Location:   key.location,
				Message:    fmt.Sprintf("员工 %s 在 %s 的 %s 出勤 %d 天，超过5天", emp.Name, key.week, key.location, count),
				Impact:     impact,
			})
		}
	}
	return score, violations
}

package builtin

import (
	"testing"

	"github.com/lunban/lunban/pkg/model"
)

func intPtr(v int) *int { return &v }

func TestWeeklyHoursConstraint_OverMax(t *testing.T) {
	emp := testEmployee("张三", model.ContractPermanent)
	emp.MaxHours = intPtr(16)

	// 同一 ISO 周内三个8小时班，共24小时，超上限8小时=480分钟
	assignments := []*model.Assignment{
		assigned(dayShift("蓝屋", "2025-01-06"), emp),
		assigned(dayShift("蓝屋", "2025-01-07"), emp),
		assigned(dayShift("蓝屋", "2025-01-08"), emp),
	}
	ctx := buildContext([]*model.Employee{emp}, assignments)

	c := NewWeeklyHoursConstraint()
	score, violations := c.EvaluateEmployee(ctx, emp)

	want := -int64(480) * ctx.Config.Weights.OverMaxPerMinute
	if score.Soft != want {
		t.Errorf("Soft = %d, want %d", score.Soft, want)
	}
	if len(violations) != 1 {
		t.Errorf("违反详情数 = %d, want 1", len(violations))
	}
}

func TestWeeklyHoursConstraint_UnderMin(t *testing.T) {
	emp := testEmployee("张三", model.ContractPermanent)
	emp.MinHours = intPtr(16)

	// 求解周期覆盖两个 ISO 周；第一周8小时欠8小时，第二周完全空欠16小时
	assignments := []*model.Assignment{
		assigned(dayShift("蓝屋", "2025-01-06"), emp),
	}
	ctx := buildContext([]*model.Employee{emp}, assignments)

	c := NewWeeklyHoursConstraint()
	score, violations := c.EvaluateEmployee(ctx, emp)

	want := -int64(480+960) * ctx.Config.Weights.UnderMinPerMinute
	if score.Soft != want {
		t.Errorf("Soft = %d, want %d", score.Soft, want)
	}
	if len(violations) != 2 {
		t.Errorf("违反详情数 = %d, want 2", len(violations))
	}
}

func TestWeeklyHoursConstraint_NoLimitsExempt(t *testing.T) {
	emp := testEmployee("张三", model.ContractFlexible)

	assignments := []*model.Assignment{
		assigned(dayShift("蓝屋", "2025-01-06"), emp),
	}
	ctx := buildContext([]*model.Employee{emp}, assignments)

	c := NewWeeklyHoursConstraint()
	score, violations := c.EvaluateEmployee(ctx, emp)
	if score.Soft != 0 || len(violations) != 0 {
		t.Errorf("未设置上下限的员工应豁免，Soft = %d, violations = %d", score.Soft, len(violations))
	}
}

func TestDailyTypeCapConstraint(t *testing.T) {
	emp := testEmployee("张三", model.ContractPermanent)

	// 同日两个白班共16小时，超过12小时上限240分钟（组合本身由同日约束另行处理）
	assignments := []*model.Assignment{
		assigned(dayShift("蓝屋", "2025-01-06"), emp),
		assigned(testInstance("红屋", model.ShiftDay, "2025-01-06", "14:00", "22:00"), emp),
	}
	ctx := buildContext([]*model.Employee{emp}, assignments)

	c := NewDailyTypeCapConstraint()
	score, violations := c.EvaluateEmployee(ctx, emp)

	want := -int64(240) * ctx.Config.Weights.DailyTypeCap
	if score.Hard != want {
		t.Errorf("Hard = %d, want %d", score.Hard, want)
	}
	if len(violations) != 1 {
		t.Errorf("违反详情数 = %d, want 1", len(violations))
	}
}

func TestLocationWeekConstraint(t *testing.T) {
	emp := testEmployee("张三", model.ContractPermanent)

	// 蓝屋一周仅1天（单日惩罚），红屋一周2天（合规）
	assignments := []*model.Assignment{
		assigned(dayShift("蓝屋", "2025-01-06"), emp),
		assigned(dayShift("红屋", "2025-01-07"), emp),
		assigned(dayShift("红屋", "2025-01-08"), emp),
	}
	ctx := buildContext([]*model.Employee{emp}, assignments)

	c := NewLocationWeekConstraint()
	score, violations := c.EvaluateEmployee(ctx, emp)

	if want := -ctx.Config.Weights.SingleDayLocation; score.Soft != want {
		t.Errorf("Soft = %d, want %d", score.Soft, want)
	}
	if len(violations) != 1 {
		t.Errorf("违反详情数 = %d, want 1", len(violations))
	}
	if violations[0].Location != "蓝屋" {
		t.Errorf("违反服务点 = %q", violations[0].Location)
	}
}

func TestLocationWeekConstraint_ExcessDays(t *testing.T) {
	emp := testEmployee("张三", model.ContractPermanent)

	// 蓝屋一周6天，超5天1天
	var assignments []*model.Assignment
	for d := "2025-01-06"; d <= "2025-01-11"; d = model.NextDate(d) {
		assignments = append(assignments, assigned(dayShift("蓝屋", d), emp))
	}
	ctx := buildContext([]*model.Employee{emp}, assignments)

	c := NewLocationWeekConstraint()
	score, _ := c.EvaluateEmployee(ctx, emp)

	if want := -ctx.Config.Weights.ExcessDaysLocation; score.Soft != want {
		t.Errorf("Soft = %d, want %d", score.Soft, want)
	}
}

package optimizer

import (
	"context"
	"testing"
	"time"

	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/constraint"
)

func optimizerConfig() *Config {
	cfg := DefaultConfig()
	cfg.MaxIterations = 2000
	cfg.MaxTime = 5 * time.Second
	cfg.Seed = 42
	return cfg
}

func TestOptimize_NeverWorsensScore(t *testing.T) {
	employees := []*model.Employee{
		testEmployee("张三", model.ContractPermanent),
		testEmployee("李四", model.ContractPermanent),
		testEmployee("王五", model.ContractFlexible),
	}
	solution := testSolution(employees,
		"2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09")
	tracker := newTracker(solution)
	initial := tracker.Score()

	best, err := New(optimizerConfig()).Optimize(context.Background(), tracker, nil)
	if err != nil {
		t.Fatalf("Optimize 返回错误: %v", err)
	}
	if initial.Better(best) {
		t.Errorf("优化后分数 %v 劣于初始分数 %v", best, initial)
	}
	if got := tracker.Score(); got != best {
		t.Errorf("恢复后评分器分数 %v 与返回的最优分 %v 不一致", got, best)
	}
}

func TestOptimize_FillsEmptySlots(t *testing.T) {
	employees := []*model.Employee{
		testEmployee("张三", model.ContractPermanent),
		testEmployee("李四", model.ContractPermanent),
	}
	solution := testSolution(employees, "2025-01-06", "2025-01-07")
	tracker := newTracker(solution)

	best, err := New(optimizerConfig()).Optimize(context.Background(), tracker, nil)
	if err != nil {
		t.Fatalf("Optimize 返回错误: %v", err)
	}
	// 空缺惩罚远大于任何软约束收益，充足人力下不应留有空缺
	if solution.Unassigned() != 0 {
		t.Errorf("优化后仍有 %d 个空缺", solution.Unassigned())
	}
	if !best.Feasible() {
		t.Errorf("优化结果不可行: %v", best)
	}
}

func TestOptimize_PinnedSlotsUntouched(t *testing.T) {
	pinnedEmp := testEmployee("张三", model.ContractPermanent)
	other := testEmployee("李四", model.ContractPermanent)
	solution := testSolution([]*model.Employee{pinnedEmp, other},
		"2025-01-06", "2025-01-07")
	solution.Assignments[0].Employee = pinnedEmp
	solution.Assignments[0].Pinned = true
	tracker := newTracker(solution)

	if _, err := New(optimizerConfig()).Optimize(context.Background(), tracker, nil); err != nil {
		t.Fatalf("Optimize 返回错误: %v", err)
	}
	if solution.Assignments[0].Employee != pinnedEmp {
		t.Errorf("钉住的分配被优化器改动")
	}
}

func TestOptimize_CancelledContext(t *testing.T) {
	employees := []*model.Employee{testEmployee("张三", model.ContractPermanent)}
	solution := testSolution(employees, "2025-01-06")
	tracker := newTracker(solution)
	initial := tracker.Score()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	best, err := New(optimizerConfig()).Optimize(ctx, tracker, nil)
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if best != initial {
		t.Errorf("取消时应返回初始最优 %v, got %v", initial, best)
	}
	if got := tracker.Score(); got != initial {
		t.Errorf("取消后评分器未恢复: %v", got)
	}
}

func TestOptimize_ReportsImprovements(t *testing.T) {
	employees := []*model.Employee{
		testEmployee("张三", model.ContractPermanent),
		testEmployee("李四", model.ContractPermanent),
	}
	solution := testSolution(employees, "2025-01-06", "2025-01-07")
	tracker := newTracker(solution)
	initial := tracker.Score()

	var reported []constraint.Score
	best, err := New(optimizerConfig()).Optimize(context.Background(), tracker, func(s constraint.Score) {
		reported = append(reported, s)
	})
	if err != nil {
		t.Fatalf("Optimize 返回错误: %v", err)
	}
	if len(reported) == 0 {
		t.Fatal("发现更优解时应触发回调")
	}
	prev := initial
	for i, s := range reported {
		if !s.Better(prev) {
			t.Errorf("第 %d 次回调的分数 %v 未优于上一个 %v", i, s, prev)
		}
		prev = s
	}
	if reported[len(reported)-1] != best {
		t.Errorf("最后一次回调 %v 应等于最终最优分 %v", reported[len(reported)-1], best)
	}
}

func TestBoltzmannProbability(t *testing.T) {
	tests := []struct {
		name        string
		delta       float64
		temperature float64
		wantOne     bool
		wantZero    bool
	}{
		{"改进必然接受", -10, 100, true, false},
		{"持平必然接受", 0, 100, true, false},
		{"温度归零后拒绝", 10, 0, false, true},
		{"高温下概率介于0和1", 10, 100, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := boltzmannProbability(tt.delta, tt.temperature)
			if tt.wantOne && p != 1.0 {
				t.Errorf("p = %v, want 1.0", p)
			}
			if tt.wantZero && p != 0.0 {
				t.Errorf("p = %v, want 0.0", p)
			}
			if !tt.wantOne && !tt.wantZero && (p <= 0 || p >= 1) {
				t.Errorf("p = %v, 应在 (0,1) 区间", p)
			}
		})
	}
}

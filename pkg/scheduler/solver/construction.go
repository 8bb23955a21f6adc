// Package solver 提供构造启发式求解器
package solver

import (
	"context"
	"sort"
	"time"

	"github.com/lunban/lunban/pkg/logger"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/constraint"
)

// ConstructionSolver 构造启发式求解器
// 按难度排序逐个填充未排需求单元，每个单元只填一次，不回溯；
// 先用正式合同员工跑一遍，再用灵活用工补余下空缺
type ConstructionSolver struct {
	logger *logger.SolverLogger
}

// NewConstructionSolver 创建构造求解器
func NewConstructionSolver() *ConstructionSolver {
	return &ConstructionSolver{logger: logger.NewSolverLogger()}
}

// Construct 执行构造，返回本次填充的需求单元数
// 已钉住或已分配的单元不再改动
func (s *ConstructionSolver) Construct(ctx context.Context, tracker *constraint.Tracker) (int, error) {
	start := time.Now()
	schedCtx := tracker.Context()
	solution := schedCtx.Solution

	slots := make([]*model.Assignment, 0, len(solution.Assignments))
	for _, a := range solution.Assignments {
		if !a.IsAssigned() {
			slots = append(slots, a)
		}
	}
	SortByDifficulty(slots)

	filled := 0
	for _, pass := range []model.ContractType{model.ContractPermanent, model.ContractFlexible} {
		for _, a := range slots {
			if err := ctx.Err(); err != nil {
				return filled, err
			}
			if a.IsAssigned() {
				continue
			}
			if s.fillSlot(tracker, a, pass) {
				filled++
			}
		}
	}

	score := tracker.Score()
	s.logger.PhaseComplete("construction", score.Hard, score.Soft, time.Since(start))
	return filled, nil
}

// fillSlot 为一个需求单元挑选最强的合格候选
func (s *ConstructionSolver) fillSlot(tracker *constraint.Tracker, a *model.Assignment, pass model.ContractType) bool {
	schedCtx := tracker.Context()
	inst := a.Instance
	week := model.ISOWeek(inst.Date)

	var candidates []*model.Employee
	for _, emp := range schedCtx.Solution.Employees {
		if emp.Contract != pass {
			continue
		}
		if !constraint.Eligible(emp, inst) {
			continue
		}
		if !constraint.WithinWeeklyCap(emp, schedCtx.MinutesInWeek(emp.ID, week), inst.Minutes) {
			continue
		}
		candidates = append(candidates, emp)
	}
	SortByStrength(candidates)

	before := tracker.Score()
	for _, emp := range candidates {
		after := tracker.Set(a, emp)
		if after.Hard < before.Hard {
			// 硬约束恶化（重复实例/同日组合/隔日衔接等），换下一个候选
			tracker.Set(a, nil)
			continue
		}
		return true
	}
	return false
}

// SortByDifficulty 按填充难度排序需求单元
// 优先级小者（更紧急）在前；有性别要求者在前；日期早者在前；实例键定序
func SortByDifficulty(slots []*model.Assignment) {
	sort.SliceStable(slots, func(i, j int) bool {
		ti, tj := slots[i].Instance.Template, slots[j].Instance.Template
		if ti.Priority != tj.Priority {
			return ti.Priority < tj.Priority
		}
		if ti.RequiresGender() != tj.RequiresGender() {
			return ti.RequiresGender()
		}
		if slots[i].Date() != slots[j].Date() {
			return slots[i].Date() < slots[j].Date()
		}
		if slots[i].Instance.Key() != slots[j].Instance.Key() {
			return slots[i].Instance.Key() < slots[j].Instance.Key()
		}
		return slots[i].Slot < slots[j].Slot
	})
}

// SortByStrength 按员工强度排序候选（强者在前）
// 正式合同优先；限制权重小者优先；可用性权重大者优先；
// 合同上限高者优先；最后按员工ID定序
func SortByStrength(candidates []*model.Employee) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return StrongerThan(candidates[i], candidates[j])
	})
}

// StrongerThan 比较两名员工的强度
func StrongerThan(a, b *model.Employee) bool {
	if ra, rb := contractRank(a.Contract), contractRank(b.Contract); ra != rb {
		return ra < rb
	}
	if wa, wb := a.RestrictionWeight(), b.RestrictionWeight(); wa != wb {
		return wa < wb
	}
	if wa, wb := a.AvailabilityWeight(), b.AvailabilityWeight(); wa != wb {
		return wa > wb
	}
	if ma, mb := maxHoursOrZero(a), maxHoursOrZero(b); ma != mb {
		return ma > mb
	}
	return a.ID.String() < b.ID.String()
}

// contractRank 合同类型排名（正式 > 灵活 > 其他）
func contractRank(c model.ContractType) int {
	switch c {
	case model.ContractPermanent:
		return 0
	case model.ContractFlexible:
		return 1
	default:
		return 2
	}
}

// maxHoursOrZero 获取合同上限（未设置按0处理）
func maxHoursOrZero(e *model.Employee) int {
	if e.MaxHours == nil {
		return 0
	}
	return *e.MaxHours
}

// Package optimizer 提供局部搜索优化器
package optimizer

import (
	"fmt"
	"math/rand"

	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/constraint"
)

// Filter 选择过滤器：决定哪些需求单元可被移动触碰
type Filter func(a *model.Assignment) bool

// AllUnpinned 第一阶段过滤器：除钉住外全部可动
func AllUnpinned(a *model.Assignment) bool {
	return !a.Pinned
}

// FlexibleOrEmpty 第二阶段过滤器：保护已定型的正式合同分配，
// 只允许触碰灵活用工持有或未排的单元
func FlexibleOrEmpty(a *model.Assignment) bool {
	if a.Pinned {
		return false
	}
	return a.Employee == nil || a.Employee.IsFlexible()
}

// MoveKind 移动类型
type MoveKind string

const (
	MoveChange MoveKind = "change" // 通用单变量重排
	MoveSwap   MoveKind = "swap"   // 灵活→正式 换人移动
)

// Move 一次候选移动
// Apply 记录原员工引用，Undo 恢复，逆操作始终良定义
type Move struct {
	Kind       MoveKind
	Assignment *model.Assignment
	Employee   *model.Employee // 目标员工，nil 表示置空

	prev    *model.Employee
	applied bool
}

// Doable 检查移动是否可执行
func (m *Move) Doable() bool {
	if m.Assignment == nil || m.Assignment.Pinned {
		return false
	}
	if m.Assignment.Employee == m.Employee {
		return false
	}
	if m.Kind == MoveSwap {
		// 换人移动要求：原持有者为灵活用工，目标为通过准入检查的正式员工
		if m.Assignment.Employee == nil || !m.Assignment.Employee.IsFlexible() {
			return false
		}
		if m.Employee == nil || !m.Employee.IsPermanent() {
			return false
		}
		if !constraint.Eligible(m.Employee, m.Assignment.Instance) {
			return false
		}
	}
	return true
}

// Apply 执行移动并返回更新后的总分
func (m *Move) Apply(t *constraint.Tracker) constraint.Score {
	m.prev = m.Assignment.Employee
	m.applied = true
	return t.Set(m.Assignment, m.Employee)
}

// Undo 撤销移动
func (m *Move) Undo(t *constraint.Tracker) {
	if !m.applied {
		return
	}
	t.Set(m.Assignment, m.prev)
	m.applied = false
}

// String 描述移动
func (m *Move) String() string {
	return fmt.Sprintf("%s@%s", m.Kind, m.Assignment.Instance.Key())
}

// Generator 候选移动生成器
type Generator struct {
	rng *rand.Rand
}

// NewGenerator 创建移动生成器
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate 生成一个候选移动（不可构造时返回 nil）
// 约六成通用重排，四成换人移动；换人不可构造时退回通用重排
func (g *Generator) Generate(solution *model.RosterSolution, filter Filter) *Move {
	mutable := g.mutable(solution, filter)
	if len(mutable) == 0 {
		return nil
	}

	if g.rng.Float64() < 0.4 {
		if m := g.swapMove(solution, mutable); m != nil {
			return m
		}
	}
	return g.changeMove(solution, mutable)
}

// mutable 列出过滤器允许触碰的需求单元
func (g *Generator) mutable(solution *model.RosterSolution, filter Filter) []*model.Assignment {
	var out []*model.Assignment
	for _, a := range solution.Assignments {
		if filter(a) {
			out = append(out, a)
		}
	}
	return out
}

// changeMove 构造通用单变量重排移动（候选含置空）
func (g *Generator) changeMove(solution *model.RosterSolution, mutable []*model.Assignment) *Move {
	a := mutable[g.rng.Intn(len(mutable))]

	candidates := make([]*model.Employee, 0, len(solution.Employees)+1)
	for _, emp := range solution.Employees {
		if emp != a.Employee && constraint.Eligible(emp, a.Instance) {
			candidates = append(candidates, emp)
		}
	}
	if a.Employee != nil {
		candidates = append(candidates, nil)
	}
	if len(candidates) == 0 {
		return nil
	}

	m := &Move{
		Kind:       MoveChange,
		Assignment: a,
		Employee:   candidates[g.rng.Intn(len(candidates))],
	}
	if !m.Doable() {
		return nil
	}
	return m
}

// swapMove 构造灵活→正式换人移动
func (g *Generator) swapMove(solution *model.RosterSolution, mutable []*model.Assignment) *Move {
	var flexHeld []*model.Assignment
	for _, a := range mutable {
		if a.Employee != nil && a.Employee.IsFlexible() {
			flexHeld = append(flexHeld, a)
		}
	}
	if len(flexHeld) == 0 {
		return nil
	}
	a := flexHeld[g.rng.Intn(len(flexHeld))]

	var permanents []*model.Employee
	for _, emp := range solution.Employees {
		if emp.IsPermanent() && emp != a.Employee && constraint.Eligible(emp, a.Instance) {
			permanents = append(permanents, emp)
		}
	}
	if len(permanents) == 0 {
		return nil
	}

	m := &Move{
		Kind:       MoveSwap,
		Assignment: a,
		Employee:   permanents[g.rng.Intn(len(permanents))],
	}
	if !m.Doable() {
		return nil
	}
	return m
}

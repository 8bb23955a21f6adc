// Package constraint 定义约束评分接口和管理器
package constraint

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lunban/lunban/pkg/model"
)

// Manager 约束管理器
// 汇总所有注册约束的员工级贡献，加上未排空缺惩罚与结构性超员检查
type Manager struct {
	constraints []Constraint
	mu          sync.RWMutex
}

// NewManager 创建约束管理器
func NewManager() *Manager {
	return &Manager{constraints: make([]Constraint, 0)}
}

// Register 注册约束
func (m *Manager) Register(c Constraint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.constraints {
		if existing.Name() == c.Name() {
			m.constraints[i] = c // 替换
			return
		}
	}
	m.constraints = append(m.constraints, c)

	// 硬约束在前，同类别按名称排序保证确定性
	sort.Slice(m.constraints, func(i, j int) bool {
		ci, cj := m.constraints[i], m.constraints[j]
		if ci.Category() != cj.Category() {
			return ci.Category() == CategoryHard
		}
		return ci.Name() < cj.Name()
	})
}

// GetAll 获取所有约束
func (m *Manager) GetAll() []Constraint {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Constraint, len(m.constraints))
	copy(result, m.constraints)
	return result
}

// Count 返回约束数量
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.constraints)
}

// EvaluateEmployee 评估单个员工在所有约束下的分数贡献
func (m *Manager) EvaluateEmployee(ctx *Context, emp *model.Employee) Score {
	var total Score
	for _, c := range m.GetAll() {
		s, _ := c.EvaluateEmployee(ctx, emp)
		total = total.Add(s)
	}
	return total
}

// Evaluate 评估整个方案
// 与增量评估按构造保持一致：总分 = 未排惩罚 + 结构分 + Σ员工分
func (m *Manager) Evaluate(ctx *Context) Score {
	total := m.UnassignedScore(ctx).Add(m.StructuralScore(ctx))
	for _, emp := range ctx.Solution.Employees {
		total = total.Add(m.EvaluateEmployee(ctx, emp))
	}
	return total
}

// UnassignedScore 计算未排空缺惩罚
func (m *Manager) UnassignedScore(ctx *Context) Score {
	return Score{Soft: -int64(ctx.Unassigned()) * ctx.Config.Weights.UnassignedSlot}
}

// StructuralScore 计算结构性硬约束分（实例需求单元数超出模板人数）
// 需求单元集合在搜索期间不变，此项只需在构建时计算一次
func (m *Manager) StructuralScore(ctx *Context) Score {
	counts := make(map[string]int)
	for _, a := range ctx.Solution.Assignments {
		counts[a.Instance.ID.String()]++
	}
	var hard int64
	for _, inst := range ctx.Solution.Instances {
		if excess := counts[inst.ID.String()] - inst.Template.Headcount; excess > 0 {
			hard -= int64(excess) * ctx.Config.Weights.Overfill
		}
	}
	return Score{Hard: hard}
}

// Violations 汇总全部约束违反详情（用于推送与评分解释）
func (m *Manager) Violations(ctx *Context) []Violation {
	var out []Violation

	// 未排空缺
	for _, a := range ctx.Solution.Assignments {
		if !a.IsAssigned() {
			out = append(out, Violation{
				Constraint: "unassigned_slot",
				Category:   CategorySoft,
				Date:       a.Date(),
				Location:   a.Location(),
				Message:    fmt.Sprintf("%s %s 班次空缺一个需求单元", a.Date(), a.Location()),
				Impact:     Score{Soft: -ctx.Config.Weights.UnassignedSlot},
			})
		}
	}

	// 结构性超员
	counts := make(map[string]int)
	for _, a := range ctx.Solution.Assignments {
		counts[a.Instance.ID.String()]++
	}
	for _, inst := range ctx.Solution.Instances {
		if excess := counts[inst.ID.String()] - inst.Template.Headcount; excess > 0 {
			out = append(out, Violation{
				Constraint: "instance_overfill",
				Category:   CategoryHard,
				Date:       inst.Date,
				Location:   inst.Location(),
				Message:    fmt.Sprintf("%s %s 需求单元超出模板人数 %d 个", inst.Date, inst.Location(), excess),
				Impact:     Score{Hard: -int64(excess) * ctx.Config.Weights.Overfill},
			})
		}
	}

	for _, c := range m.GetAll() {
		for _, emp := range ctx.Solution.Employees {
			_, details := c.EvaluateEmployee(ctx, emp)
			out = append(out, details...)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Constraint < out[j].Constraint
	})
	return out
}

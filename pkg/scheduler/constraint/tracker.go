// Package constraint 定义约束评分接口和管理器
package constraint

import (
	"github.com/google/uuid"

	"github.com/lunban/lunban/pkg/model"
)

// Tracker 增量评分器
// 缓存每个员工的分数贡献；变更一个分配只重算新旧两名员工与未排计数，
// 结果与全量评估按构造保持一致
type Tracker struct {
	manager *Manager
	ctx     *Context

	perEmployee map[uuid.UUID]Score
	structural  Score
	total       Score
}

// NewTracker 创建增量评分器并完成首次全量计算
func NewTracker(manager *Manager, ctx *Context) *Tracker {
	t := &Tracker{
		manager:     manager,
		ctx:         ctx,
		perEmployee: make(map[uuid.UUID]Score, len(ctx.Solution.Employees)),
		structural:  manager.StructuralScore(ctx),
	}
	total := t.structural.Add(manager.UnassignedScore(ctx))
	for _, emp := range ctx.Solution.Employees {
		s := manager.EvaluateEmployee(ctx, emp)
		t.perEmployee[emp.ID] = s
		total = total.Add(s)
	}
	t.total = total
	return t
}

// Context 返回评分上下文
func (t *Tracker) Context() *Context {
	return t.ctx
}

// Score 返回当前总分
func (t *Tracker) Score() Score {
	return t.total
}

// Set 变更一个分配的员工并增量更新总分，返回更新后的总分
// 撤销即以原员工再次调用 Set
func (t *Tracker) Set(a *model.Assignment, emp *model.Employee) Score {
	old := a.Employee
	if old == emp {
		return t.total
	}

	t.total = t.total.Sub(t.manager.UnassignedScore(t.ctx))
	t.ctx.Assign(a, emp)
	t.total = t.total.Add(t.manager.UnassignedScore(t.ctx))

	t.rescore(old)
	t.rescore(emp)
	return t.total
}

// rescore 重算单个员工的缓存贡献
func (t *Tracker) rescore(emp *model.Employee) {
	if emp == nil {
		return
	}
	fresh := t.manager.EvaluateEmployee(t.ctx, emp)
	t.total = t.total.Sub(t.perEmployee[emp.ID]).Add(fresh)
	t.perEmployee[emp.ID] = fresh
}

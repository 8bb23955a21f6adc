// Package constraint 定义约束评分接口和管理器
package constraint

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/lunban/lunban/pkg/model"
)

// Category 约束类别
type Category string

const (
	CategoryHard Category = "hard" // 硬约束（必须满足）
	CategorySoft Category = "soft" // 软约束（尽量满足）
)

// Score 两级评分：硬约束分与软约束分
// 硬约束分为非正数，0 表示可行；软约束分可正（奖励）可负（惩罚）
type Score struct {
	Hard int64 `json:"hard"`
	Soft int64 `json:"soft"`
}

// Feasible 检查是否可行（硬约束全部满足）
func (s Score) Feasible() bool {
	return s.Hard == 0
}

// Add 分数相加
func (s Score) Add(o Score) Score {
	return Score{Hard: s.Hard + o.Hard, Soft: s.Soft + o.Soft}
}

// Sub 分数相减
func (s Score) Sub(o Score) Score {
	return Score{Hard: s.Hard - o.Hard, Soft: s.Soft - o.Soft}
}

// Better 按字典序比较（硬约束优先）
func (s Score) Better(o Score) bool {
	if s.Hard != o.Hard {
		return s.Hard > o.Hard
	}
	return s.Soft > o.Soft
}

// String 格式化分数
func (s Score) String() string {
	return fmt.Sprintf("%dhard/%dsoft", s.Hard, s.Soft)
}

// Violation 约束违反详情
type Violation struct {
	Constraint string    `json:"constraint"`
	Category   Category  `json:"category"`
	EmployeeID uuid.UUID `json:"employee_id,omitempty"`
	Date       string    `json:"date,omitempty"`
	Location   string    `json:"location,omitempty"`
	Message    string    `json:"message"`
	Impact     Score     `json:"impact"`
}

// Constraint 约束接口
// 所有约束按员工分解评估，便于单步移动后的增量重算
type Constraint interface {
	// Name 返回约束名称
	Name() string

	// Category 返回约束类别
	Category() Category

	// EvaluateEmployee 评估单个员工的分数贡献及违反详情
	EvaluateEmployee(ctx *Context, emp *model.Employee) (Score, []Violation)
}

// Context 评分上下文
// 持有求解方案及按员工索引的分配缓存；索引随移动增量维护
type Context struct {
	Solution *model.RosterSolution
	Config   *Config

	byEmployee map[uuid.UUID]map[uuid.UUID]*model.Assignment
	unassigned int
}

// NewContext 创建评分上下文并建立索引
func NewContext(solution *model.RosterSolution, cfg *Config) *Context {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	ctx := &Context{
		Solution:   solution,
		Config:     cfg,
		byEmployee: make(map[uuid.UUID]map[uuid.UUID]*model.Assignment),
	}
	for _, a := range solution.Assignments {
		if a.Employee != nil {
			ctx.index(a)
		} else {
			ctx.unassigned++
		}
	}
	return ctx
}

// index 将分配加入员工索引
func (c *Context) index(a *model.Assignment) {
	m, ok := c.byEmployee[a.Employee.ID]
	if !ok {
		m = make(map[uuid.UUID]*model.Assignment)
		c.byEmployee[a.Employee.ID] = m
	}
	m[a.ID] = a
}

// Assign 变更一个分配的员工引用并维护索引
// emp 为 nil 表示置空（未排）
func (c *Context) Assign(a *model.Assignment, emp *model.Employee) {
	if a.Employee != nil {
		delete(c.byEmployee[a.Employee.ID], a.ID)
	} else {
		c.unassigned--
	}
	a.Employee = emp
	if emp != nil {
		c.index(a)
	} else {
		c.unassigned++
	}
}

// Unassigned 返回当前未分配的需求单元数
func (c *Context) Unassigned() int {
	return c.unassigned
}

// EmployeeAssignments 获取员工当前的全部分配（按日期与实例键排序，保证确定性）
func (c *Context) EmployeeAssignments(empID uuid.UUID) []*model.Assignment {
	m := c.byEmployee[empID]
	if len(m) == 0 {
		return nil
	}
	out := make([]*model.Assignment, 0, len(m))
	for _, a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date() != out[j].Date() {
			return out[i].Date() < out[j].Date()
		}
		return out[i].Instance.Key() < out[j].Instance.Key()
	})
	return out
}

// MinutesInWeek 计算员工在某 ISO 周的已排分钟数
func (c *Context) MinutesInWeek(empID uuid.UUID, isoWeek string) int {
	minutes := 0
	for _, a := range c.byEmployee[empID] {
		if model.ISOWeek(a.Date()) == isoWeek {
			minutes += a.Minutes()
		}
	}
	return minutes
}

// TotalMinutes 计算员工在整个求解周期的已排分钟数
func (c *Context) TotalMinutes(empID uuid.UUID) int {
	minutes := 0
	for _, a := range c.byEmployee[empID] {
		minutes += a.Minutes()
	}
	return minutes
}

// Package model 定义排班引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// Assignment 排班分配（一个班次实例的一个人力需求单元）
// 模板需要 K 人时，对应实例生成 K 个 Assignment
type Assignment struct {
	// 合成键，独立于数据库身份，用于搜索过程中的比较与哈希
	ID       uuid.UUID      `json:"id"`
	Instance *ShiftInstance `json:"instance"`
	Slot     int            `json:"slot"` // 实例内的需求序号（0 起）

	// 规划变量：可为空（未排）；被钉住后优化器不得改动
	Employee *Employee `json:"employee,omitempty"`
	Pinned   bool      `json:"pinned"`
}

// NewAssignment 创建指定实例的需求单元
func NewAssignment(instance *ShiftInstance, slot int) *Assignment {
	return &Assignment{
		ID:       uuid.New(),
		Instance: instance,
		Slot:     slot,
	}
}

// IsAssigned 检查是否已分配员工
func (a *Assignment) IsAssigned() bool {
	return a.Employee != nil
}

// Date 返回班次日期
func (a *Assignment) Date() string {
	return a.Instance.Date
}

// Location 返回班次服务点
func (a *Assignment) Location() string {
	return a.Instance.Location()
}

// Type 返回班次类型
func (a *Assignment) Type() ShiftType {
	return a.Instance.Type()
}

// Minutes 返回班次分钟数
func (a *Assignment) Minutes() int {
	return a.Instance.Minutes
}

// RosterSolution 一次求解的完整排班方案
// 每个 SolveRequest 新建一份，求解期间由求解器独占
type RosterSolution struct {
	ID          uuid.UUID        `json:"id"`
	Region      string           `json:"region"`
	StartDate   string           `json:"start_date"`
	EndDate     string           `json:"end_date"`
	Employees   []*Employee      `json:"employees"`
	Instances   []*ShiftInstance `json:"instances"`
	Assignments []*Assignment    `json:"assignments"`
}

// NewRosterSolution 创建空的排班方案
func NewRosterSolution(region, startDate, endDate string) *RosterSolution {
	return &RosterSolution{
		ID:        uuid.New(),
		Region:    region,
		StartDate: startDate,
		EndDate:   endDate,
	}
}

// Unassigned 统计未分配的需求单元数
func (s *RosterSolution) Unassigned() int {
	count := 0
	for _, a := range s.Assignments {
		if !a.IsAssigned() {
			count++
		}
	}
	return count
}

// EmployeeByID 按ID查找员工
func (s *RosterSolution) EmployeeByID(id uuid.UUID) *Employee {
	for _, e := range s.Employees {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// SolveRequest 求解请求
// 由外部调用方创建，触发器恰好消费一次
type SolveRequest struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	Region      string        `json:"region" db:"region"`
	StartDate   string        `json:"start_date" db:"start_date"`
	EndDate     string        `json:"end_date" db:"end_date"`
	CreatedBy   string        `json:"created_by" db:"created_by"`
	Status      RequestStatus `json:"status" db:"status"`
	CompletedAt *time.Time    `json:"completed_at,omitempty" db:"completed_at"`
	RosterID    *uuid.UUID    `json:"roster_id,omitempty" db:"roster_id"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}

// IsCompleted 检查请求是否已完成
func (r *SolveRequest) IsCompleted() bool {
	return r.Status == RequestCompleted
}

// PatternCandidate 轮换班型匹配出的候选员工
type PatternCandidate struct {
	EmployeeID  uuid.UUID `json:"employee_id" db:"employee_id"`
	Unavailable bool      `json:"unavailable" db:"unavailable"`
}

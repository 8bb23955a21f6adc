// Package model 定义排班引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// Employee 员工
// 求解期间视为只读快照；外部管理层只在两次求解之间修改员工数据
type Employee struct {
	ID     uuid.UUID `json:"id" db:"id"`
	Name   string    `json:"name" db:"name"`
	Gender Gender    `json:"gender" db:"gender"`

	// 合同约束
	Contract ContractType `json:"contract" db:"contract"`
	MinHours *int         `json:"min_hours,omitempty" db:"min_hours"` // 合同最小工时
	MaxHours *int         `json:"max_hours,omitempty" db:"max_hours"` // 合同最大工时（空值表示不受限）
	RestDays int          `json:"rest_days" db:"rest_days"`

	// 区域与服务点偏好
	PreferredRegion     string         `json:"preferred_region,omitempty" db:"preferred_region"`
	PreferredLocations  map[string]int `json:"preferred_locations,omitempty" db:"preferred_locations"` // 服务点 -> 偏好权重 0-100
	RestrictedLocations []string       `json:"restricted_locations,omitempty" db:"restricted_locations"`

	// 工作日与班次偏好
	PreferredDays        []time.Weekday `json:"preferred_days,omitempty" db:"preferred_days"`
	RestrictedDays       []time.Weekday `json:"restricted_days,omitempty" db:"restricted_days"`
	PreferredShiftTypes  []ShiftType    `json:"preferred_shift_types,omitempty" db:"preferred_shift_types"`
	RestrictedShiftTypes []ShiftType    `json:"restricted_shift_types,omitempty" db:"restricted_shift_types"`

	Skills []string `json:"skills,omitempty" db:"skills"`

	// 轮换班型参数
	Rotation *RotationParams `json:"rotation,omitempty" db:"rotation"`
}

// RotationParams 轮换班型参数
type RotationParams struct {
	DaysOn  int  `json:"days_on"`
	DaysOff int  `json:"days_off"`
	WeekOn  int  `json:"week_on"`
	WeekOff int  `json:"week_off"`
	Invert  bool `json:"invert"`
}

// IsPermanent 检查是否正式合同员工
func (e *Employee) IsPermanent() bool {
	return e.Contract == ContractPermanent
}

// IsFlexible 检查是否灵活用工员工
func (e *Employee) IsFlexible() bool {
	return e.Contract == ContractFlexible
}

// HasSkill 检查员工是否具备某技能
func (e *Employee) HasSkill(skill string) bool {
	for _, s := range e.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// HasSkills 检查员工是否具备全部技能
func (e *Employee) HasSkills(skills []string) bool {
	for _, s := range skills {
		if !e.HasSkill(s) {
			return false
		}
	}
	return true
}

// IsDayRestricted 检查某星期是否被限制
func (e *Employee) IsDayRestricted(day time.Weekday) bool {
	for _, d := range e.RestrictedDays {
		if d == day {
			return true
		}
	}
	return false
}

// IsDayPreferred 检查某星期是否为偏好
func (e *Employee) IsDayPreferred(day time.Weekday) bool {
	for _, d := range e.PreferredDays {
		if d == day {
			return true
		}
	}
	return false
}

// IsShiftTypeRestricted 检查某班次类型是否被限制
func (e *Employee) IsShiftTypeRestricted(t ShiftType) bool {
	for _, st := range e.RestrictedShiftTypes {
		if st == t {
			return true
		}
	}
	return false
}

// IsShiftTypePreferred 检查某班次类型是否为偏好
func (e *Employee) IsShiftTypePreferred(t ShiftType) bool {
	for _, st := range e.PreferredShiftTypes {
		if st == t {
			return true
		}
	}
	return false
}

// IsLocationRestricted 检查某服务点是否被限制
func (e *Employee) IsLocationRestricted(location string) bool {
	for _, l := range e.RestrictedLocations {
		if l == location {
			return true
		}
	}
	return false
}

// LocationPreference 获取服务点偏好权重（0-100，未设置为0）
func (e *Employee) LocationPreference(location string) int {
	if e.PreferredLocations == nil {
		return 0
	}
	return e.PreferredLocations[location]
}

// MaxMinutes 获取合同最大工时对应的分钟数（未设置返回 false）
func (e *Employee) MaxMinutes() (int, bool) {
	if e.MaxHours == nil {
		return 0, false
	}
	return *e.MaxHours * 60, true
}

// MinMinutes 获取合同最小工时对应的分钟数（未设置返回 false）
func (e *Employee) MinMinutes() (int, bool) {
	if e.MinHours == nil {
		return 0, false
	}
	return *e.MinHours * 60, true
}

// RestrictionWeight 计算限制权重（用于候选排序，越小越宽松）
// 限制服务点×5 + 限制星期×3 + 限制班次×2
func (e *Employee) RestrictionWeight() int {
	return len(e.RestrictedLocations)*5 + len(e.RestrictedDays)*3 + len(e.RestrictedShiftTypes)*2
}

// AvailabilityWeight 计算可用性权重（用于候选排序，越大越灵活）
// 偏好服务点×5 + 偏好星期×3 + 偏好班次×2
func (e *Employee) AvailabilityWeight() int {
	return len(e.PreferredLocations)*5 + len(e.PreferredDays)*3 + len(e.PreferredShiftTypes)*2
}

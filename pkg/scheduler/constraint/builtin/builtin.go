// Package builtin 提供内置约束实现
package builtin

import (
	"github.com/lunban/lunban/pkg/scheduler/constraint"
)

// RegisterDefaultConstraints 注册全部内置约束到管理器
// 未排空缺与实例超员由管理器自身处理，不在此注册
func RegisterDefaultConstraints(manager *constraint.Manager) {
	// 硬约束
	manager.Register(NewDuplicateInstanceConstraint())
	manager.Register(NewGenderConstraint())
	manager.Register(NewRestrictionConstraint())
	manager.Register(NewDailyTypeCapConstraint())
	manager.Register(NewSameDayConstraint())
	manager.Register(NewBackToBackConstraint())

	// 软约束
	manager.Register(NewWeeklyHoursConstraint())
	manager.Register(NewLocationWeekConstraint())
	manager.Register(NewPreferenceConstraint())
	manager.Register(NewUtilizationConstraint())
}

// NewDefaultManager 创建注册好全部内置约束的管理器
func NewDefaultManager() *constraint.Manager {
	m := constraint.NewManager()
	RegisterDefaultConstraints(m)
	return m
}

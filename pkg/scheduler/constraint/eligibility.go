// Package constraint 定义约束评分接口和管理器
package constraint

import (
	"github.com/lunban/lunban/pkg/model"
)

// Eligible 检查员工是否满足某班次实例的准入条件
// 与限制类硬约束使用同一套判定：限制星期/班次类型/服务点、性别要求、技能要求
// 钉排预处理、构造启发式与交换移动共用此判定
func Eligible(emp *model.Employee, inst *model.ShiftInstance) bool {
	if emp == nil || inst == nil {
		return false
	}
	tpl := inst.Template

	if emp.IsDayRestricted(model.Weekday(inst.Date)) {
		return false
	}
	if emp.IsShiftTypeRestricted(tpl.Type) {
		return false
	}
	if emp.IsLocationRestricted(tpl.Location) {
		return false
	}
	if tpl.RequiresGender() && tpl.RequiredGender != emp.Gender {
		return false
	}
	if !emp.HasSkills(tpl.RequiredSkills) {
		return false
	}
	return true
}

// WithinWeeklyCap 检查在已排分钟数基础上追加一个班次是否仍在合同上限内
// 未设置上限的员工不受限（数据缺失按规则不适用处理）
func WithinWeeklyCap(emp *model.Employee, weekMinutes, addMinutes int) bool {
	maxMin, ok := emp.MaxMinutes()
	if !ok {
		return true
	}
	return weekMinutes+addMinutes <= maxMin
}

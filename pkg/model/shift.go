// Package model 定义排班引擎的核心数据模型
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ShiftTemplate 班次模板（周期性需求定义）
type ShiftTemplate struct {
	ID             uuid.UUID    `json:"id" db:"id"`
	Location       string       `json:"location" db:"location"`
	Region         string       `json:"region" db:"region"`
	Type           ShiftType    `json:"type" db:"type"`
	Weekday        time.Weekday `json:"weekday" db:"weekday"`
	StartTime      string       `json:"start_time" db:"start_time"` // HH:MM
	EndTime        string       `json:"end_time" db:"end_time"`     // HH:MM
	BreakMinutes   int          `json:"break_minutes" db:"break_minutes"`
	Headcount      int          `json:"headcount" db:"headcount"`
	RequiredGender Gender       `json:"required_gender" db:"required_gender"`
	RequiredSkills []string     `json:"required_skills,omitempty" db:"required_skills"`
	Priority       int          `json:"priority" db:"priority"` // 1 最紧急
	Active         bool         `json:"active" db:"active"`
}

// RequiresGender 检查模板是否有性别要求
func (t *ShiftTemplate) RequiresGender() bool {
	return t.RequiredGender != "" && t.RequiredGender != GenderAny
}

// IsOvernight 检查是否跨日班次（结束时刻早于开始时刻）
func (t *ShiftTemplate) IsOvernight() bool {
	start, err1 := time.Parse(TimeLayout, t.StartTime)
	end, err2 := time.Parse(TimeLayout, t.EndTime)
	if err1 != nil || err2 != nil {
		return false
	}
	return !end.After(start)
}

// WorkMinutes 计算模板净工作分钟数（扣除休息时间）
func (t *ShiftTemplate) WorkMinutes() int {
	minutes := MinutesBetween(t.StartTime, t.EndTime) - t.BreakMinutes
	if minutes < 0 {
		return 0
	}
	return minutes
}

// ShiftInstance 班次实例（模板在某日期的具体发生）
type ShiftInstance struct {
	ID         uuid.UUID      `json:"id"`
	Template   *ShiftTemplate `json:"template"`
	Date       string         `json:"date"`     // YYYY-MM-DD
	EndDate    string         `json:"end_date"` // 跨日班次为次日
	WeekNumber int            `json:"week_number"`
	Minutes    int            `json:"minutes"`
}

// NewShiftInstance 由模板在指定日期展开班次实例
// referenceDate 为绝对周数的基准日期（周一）
func NewShiftInstance(template *ShiftTemplate, date, referenceDate string) *ShiftInstance {
	endDate := date
	if template.IsOvernight() {
		endDate = NextDate(date)
	}
	return &ShiftInstance{
		ID:         uuid.New(),
		Template:   template,
		Date:       date,
		EndDate:    endDate,
		WeekNumber: WeekNumber(referenceDate, date),
		Minutes:    template.WorkMinutes(),
	}
}

// Hours 返回班次时长（小时）
func (i *ShiftInstance) Hours() float64 {
	return float64(i.Minutes) / 60.0
}

// Location 返回班次服务点
func (i *ShiftInstance) Location() string {
	return i.Template.Location
}

// Type 返回班次类型
func (i *ShiftInstance) Type() ShiftType {
	return i.Template.Type
}

// Key 返回用于确定性排序的实例键
func (i *ShiftInstance) Key() string {
	return fmt.Sprintf("%s/%s/%s/%s", i.Date, i.Template.Location, i.Template.Type, i.Template.ID)
}

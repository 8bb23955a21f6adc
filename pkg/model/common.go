// Package model 定义排班引擎的核心数据模型
package model

import (
	"fmt"
	"time"
)

// DateLayout 日期格式
const DateLayout = "2006-01-02"

// TimeLayout 时刻格式
const TimeLayout = "15:04"

// ShiftType 班次类型
type ShiftType string

const (
	ShiftDay         ShiftType = "DAY"          // 日班
	ShiftLongDay     ShiftType = "LONG_DAY"     // 长日班
	ShiftWakingNight ShiftType = "WAKING_NIGHT" // 夜班（清醒）
	ShiftSleepIn     ShiftType = "SLEEP_IN"     // 夜班（留宿）
	ShiftFloating    ShiftType = "FLOATING"     // 机动班
)

// ContractType 合同类型
type ContractType string

const (
	ContractPermanent ContractType = "PERMANENT" // 正式合同
	ContractFlexible  ContractType = "FLEXIBLE"  // 灵活用工
)

// Gender 性别
type Gender string

const (
	GenderAny    Gender = "ANY"
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// RequestStatus 求解请求状态
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestSolving   RequestStatus = "solving"
	RequestCompleted RequestStatus = "completed"
)

// ParseDate 解析 YYYY-MM-DD 日期
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("无效日期 %q: %w", date, err)
	}
	return t, nil
}

// NextDate 获取后一天日期
func NextDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, 1).Format(DateLayout)
}

// PrevDate 获取前一天日期
func PrevDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DateLayout)
}

// CountDays 计算日期范围的天数（含首尾）
func CountDays(startDate, endDate string) int {
	start, err1 := time.Parse(DateLayout, startDate)
	end, err2 := time.Parse(DateLayout, endDate)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Weekday 获取日期的星期
func Weekday(date string) time.Weekday {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Sunday
	}
	return t.Weekday()
}

// ISOWeek 获取日期所在的 ISO 周标识（如 2025-W02）
func ISOWeek(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// WeekNumber 计算日期相对基准日期的绝对周数
// 基准日期应为周一；同一周内的日期返回相同周数
func WeekNumber(referenceDate, date string) int {
	ref, err1 := time.Parse(DateLayout, referenceDate)
	d, err2 := time.Parse(DateLayout, date)
	if err1 != nil || err2 != nil {
		return 0
	}
	days := int(d.Sub(ref).Hours() / 24)
	if days < 0 {
		return (days - 6) / 7
	}
	return days / 7
}

// MinutesBetween 计算两个 HH:MM 时刻之间的分钟数（结束早于开始视为跨日）
func MinutesBetween(startTime, endTime string) int {
	start, err1 := time.Parse(TimeLayout, startTime)
	end, err2 := time.Parse(TimeLayout, endTime)
	if err1 != nil || err2 != nil {
		return 0
	}
	minutes := int(end.Sub(start).Minutes())
	if minutes <= 0 {
		minutes += 24 * 60
	}
	return minutes
}

// Package stats 提供排班结果统计分析功能
package stats

import (
	"sort"

	"github.com/lunban/lunban/pkg/model"
)

// RosterStats 排班结果统计
type RosterStats struct {
	// 整体填充情况
	TotalSlots      int     `json:"total_slots"`      // 总需求单元数
	AssignedSlots   int     `json:"assigned_slots"`   // 已分配单元数
	PinnedSlots     int     `json:"pinned_slots"`     // 轮换模式钉住单元数
	OverallFillRate float64 `json:"overall_fill_rate"` // 整体填充率 (%)

	// 按日期统计
	DailyFill map[string]DayFill `json:"daily_fill"` // 每日填充情况

	// 按班次类型统计
	ShiftTypeFillRate map[string]float64 `json:"shift_type_fill_rate"` // 按班次类型填充率

	// 按地点统计
	LocationFillRate map[string]float64 `json:"location_fill_rate"` // 按地点填充率

	// 员工工时
	EmployeeHours []EmployeeHours `json:"employee_hours"` // 各员工周期内工时

	// 灵活用工使用情况
	FlexibleSlots   int     `json:"flexible_slots"`   // 灵活用工持有单元数
	FlexibleMinutes int     `json:"flexible_minutes"` // 灵活用工总分钟数
	FlexibleShare   float64 `json:"flexible_share"`   // 灵活用工占已分配单元比例 (%)

	// 未填充单元清单
	UnassignedSlots []UnassignedSlot `json:"unassigned_slots"` // 未分配单元
}

// DayFill 每日填充情况
type DayFill struct {
	Date       string  `json:"date"`
	TotalSlots int     `json:"total_slots"`
	Assigned   int     `json:"assigned"`
	FillRate   float64 `json:"fill_rate"`
	StaffCount int     `json:"staff_count"`
	TotalHours float64 `json:"total_hours"`
}

// EmployeeHours 员工工时统计
type EmployeeHours struct {
	EmployeeID   string             `json:"employee_id"`
	EmployeeName string             `json:"employee_name"`
	Contract     string             `json:"contract"`
	Slots        int                `json:"slots"`
	TotalHours   float64            `json:"total_hours"`
	WeeklyHours  map[string]float64 `json:"weekly_hours"` // ISO 周 -> 小时
}

// UnassignedSlot 未分配单元
type UnassignedSlot struct {
	Date      string `json:"date"`
	Location  string `json:"location"`
	ShiftType string `json:"shift_type"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Slot      int    `json:"slot"`
}

// Analyzer 排班统计分析器
type Analyzer struct{}

// NewAnalyzer 创建统计分析器
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze 分析排班方案
func (s *Analyzer) Analyze(solution *model.RosterSolution) *RosterStats {
	result := &RosterStats{
		DailyFill:         make(map[string]DayFill),
		ShiftTypeFillRate: make(map[string]float64),
		LocationFillRate:  make(map[string]float64),
	}
	if solution == nil || len(solution.Assignments) == 0 {
		result.OverallFillRate = 100
		return result
	}

	dailyStats := make(map[string]*DayFill)
	dailyStaff := make(map[string]map[string]struct{})

	typeTotals := make(map[string]int)
	typeAssigned := make(map[string]int)
	locTotals := make(map[string]int)
	locAssigned := make(map[string]int)

	type empAgg struct {
		emp     *model.Employee
		slots   int
		minutes int
		weekly  map[string]int
	}
	perEmployee := make(map[string]*empAgg)

	for _, a := range solution.Assignments {
		result.TotalSlots++
		if a.Pinned {
			result.PinnedSlots++
		}

		date := a.Date()
		day, exists := dailyStats[date]
		if !exists {
			day = &DayFill{Date: date}
			dailyStats[date] = day
			dailyStaff[date] = make(map[string]struct{})
		}
		day.TotalSlots++

		shiftType := string(a.Type())
		location := a.Location()
		typeTotals[shiftType]++
		locTotals[location]++

		if !a.IsAssigned() {
			result.UnassignedSlots = append(result.UnassignedSlots, UnassignedSlot{
				Date:      date,
				Location:  location,
				ShiftType: shiftType,
				StartTime: a.Instance.Template.StartTime,
				EndTime:   a.Instance.Template.EndTime,
				Slot:      a.Slot,
			})
			continue
		}

		result.AssignedSlots++
		typeAssigned[shiftType]++
		locAssigned[location]++

		day.Assigned++
		day.TotalHours += float64(a.Minutes()) / 60.0
		dailyStaff[date][a.Employee.ID.String()] = struct{}{}

		agg, ok := perEmployee[a.Employee.ID.String()]
		if !ok {
			agg = &empAgg{emp: a.Employee, weekly: make(map[string]int)}
			perEmployee[a.Employee.ID.String()] = agg
		}
		agg.slots++
		agg.minutes += a.Minutes()
		agg.weekly[model.ISOWeek(date)] += a.Minutes()

		if a.Employee.IsFlexible() {
			result.FlexibleSlots++
			result.FlexibleMinutes += a.Minutes()
		}
	}

	if result.TotalSlots > 0 {
		result.OverallFillRate = ratio(result.AssignedSlots, result.TotalSlots)
	}
	if result.AssignedSlots > 0 {
		result.FlexibleShare = ratio(result.FlexibleSlots, result.AssignedSlots)
	}

	for date, day := range dailyStats {
		if day.TotalSlots > 0 {
			day.FillRate = ratio(day.Assigned, day.TotalSlots)
		}
		day.StaffCount = len(dailyStaff[date])
		result.DailyFill[date] = *day
	}
	for shiftType, total := range typeTotals {
		result.ShiftTypeFillRate[shiftType] = ratio(typeAssigned[shiftType], total)
	}
	for location, total := range locTotals {
		result.LocationFillRate[location] = ratio(locAssigned[location], total)
	}

	for _, agg := range perEmployee {
		weekly := make(map[string]float64, len(agg.weekly))
		for week, minutes := range agg.weekly {
			weekly[week] = float64(minutes) / 60.0
		}
		result.EmployeeHours = append(result.EmployeeHours, EmployeeHours{
			EmployeeID:   agg.emp.ID.String(),
			EmployeeName: agg.emp.Name,
			Contract:     string(agg.emp.Contract),
			Slots:        agg.slots,
			TotalHours:   float64(agg.minutes) / 60.0,
			WeeklyHours:  weekly,
		})
	}
	sort.Slice(result.EmployeeHours, func(i, j int) bool {
		if result.EmployeeHours[i].TotalHours != result.EmployeeHours[j].TotalHours {
			return result.EmployeeHours[i].TotalHours > result.EmployeeHours[j].TotalHours
		}
		return result.EmployeeHours[i].EmployeeID < result.EmployeeHours[j].EmployeeID
	})
	sort.Slice(result.UnassignedSlots, func(i, j int) bool {
		a, b := result.UnassignedSlots[i], result.UnassignedSlots[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Location != b.Location {
			return a.Location < b.Location
		}
		return a.Slot < b.Slot
	})

	return result
}

func ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

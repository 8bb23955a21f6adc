package model

import (
	"testing"
	"time"
)

func dayTemplate(location string, typ ShiftType, start, end string) *ShiftTemplate {
	return &ShiftTemplate{
		Location:  location,
		Type:      typ,
		StartTime: start,
		EndTime:   end,
		Headcount: 1,
		Priority:  5,
		Active:    true,
	}
}

func TestShiftTemplate_IsOvernight(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"白班不跨日", "08:00", "20:00", false},
		{"夜班跨日", "20:00", "08:00", true},
		{"结束等于开始视为跨日", "08:00", "08:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := dayTemplate("蓝屋", ShiftWakingNight, tt.start, tt.end)
			if got := tpl.IsOvernight(); got != tt.want {
				t.Errorf("IsOvernight() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShiftTemplate_WorkMinutes(t *testing.T) {
	tpl := dayTemplate("蓝屋", ShiftDay, "08:00", "16:00")
	tpl.BreakMinutes = 30
	if got := tpl.WorkMinutes(); got != 450 {
		t.Errorf("WorkMinutes() = %d, want 450", got)
	}
}

func TestNewShiftInstance_Overnight(t *testing.T) {
	tpl := dayTemplate("蓝屋", ShiftSleepIn, "21:00", "08:00")
	inst := NewShiftInstance(tpl, "2025-01-06", "2019-12-30")

	if inst.Date != "2025-01-06" {
		t.Errorf("Date = %q", inst.Date)
	}
	if inst.EndDate != "2025-01-07" {
		t.Errorf("跨日班次 EndDate = %q, want 2025-01-07", inst.EndDate)
	}
	if inst.Minutes != 660 {
		t.Errorf("Minutes = %d, want 660", inst.Minutes)
	}
	if inst.WeekNumber != WeekNumber("2019-12-30", "2025-01-06") {
		t.Errorf("WeekNumber = %d", inst.WeekNumber)
	}
}

func TestShiftTemplate_RequiresGender(t *testing.T) {
	tpl := dayTemplate("蓝屋", ShiftDay, "08:00", "16:00")
	if tpl.RequiresGender() {
		t.Error("未设置性别要求时 RequiresGender 应为 false")
	}
	tpl.RequiredGender = GenderAny
	if tpl.RequiresGender() {
		t.Error("ANY 不构成性别要求")
	}
	tpl.RequiredGender = GenderFemale
	if !tpl.RequiresGender() {
		t.Error("FEMALE 应构成性别要求")
	}
}

func TestEmployee_Weights(t *testing.T) {
	emp := &Employee{
		RestrictedLocations:  []string{"红屋"},
		RestrictedDays:       []time.Weekday{time.Saturday, time.Sunday},
		RestrictedShiftTypes: []ShiftType{ShiftWakingNight},
		PreferredLocations:   map[string]int{"蓝屋": 80},
		PreferredDays:        []time.Weekday{time.Monday},
	}

	if got := emp.RestrictionWeight(); got != 1*5+2*3+1*2 {
		t.Errorf("RestrictionWeight() = %d, want 13", got)
	}
	if got := emp.AvailabilityWeight(); got != 1*5+1*3 {
		t.Errorf("AvailabilityWeight() = %d, want 8", got)
	}
}

func TestEmployee_MaxMinutes(t *testing.T) {
	emp := &Employee{}
	if _, ok := emp.MaxMinutes(); ok {
		t.Error("未设置上限时应返回 false")
	}

	hours := 40
	emp.MaxHours = &hours
	minutes, ok := emp.MaxMinutes()
	if !ok || minutes != 2400 {
		t.Errorf("MaxMinutes() = %d, %v, want 2400, true", minutes, ok)
	}
}

// Package constraint 定义约束评分接口和管理器
package constraint

import (
	"github.com/lunban/lunban/pkg/model"
)

// Weights 约束权重配置
// 量级为相对值，可调整，但相对大小关系不应改变：
// 未排空缺的惩罚必须压过其他任何软约束调整
type Weights struct {
	// 硬约束
	DuplicateInstance int64 `json:"duplicate_instance"` // 同一实例重复排同一员工
	GenderMismatch    int64 `json:"gender_mismatch"`
	Restriction       int64 `json:"restriction"` // 限制星期/班次/服务点
	Overfill          int64 `json:"overfill"`    // 实例分配超出需求人数
	DailyTypeCap      int64 `json:"daily_type_cap"` // 每超限分钟
	InvalidSameDay    int64 `json:"invalid_same_day"`
	BackToBack        int64 `json:"back_to_back"`

	// 类硬软约束
	UnassignedSlot     int64 `json:"unassigned_slot"`
	OverMaxPerMinute   int64 `json:"over_max_per_minute"`  // 周工时超上限，每分钟
	UnderMinPerMinute  int64 `json:"under_min_per_minute"` // 周工时欠下限，每分钟
	SingleDayLocation  int64 `json:"single_day_location"`  // 每周同服务点只排1天
	ExcessDaysLocation int64 `json:"excess_days_location"` // 每周同服务点超5天，每天

	// 偏好软约束
	Filled         int64 `json:"filled"`
	PreferredDay   int64 `json:"preferred_day"`
	PreferredShift int64 `json:"preferred_shift"`
	PriorityBase   int64 `json:"priority_base"` // 与班次类型权重相乘
	FlexibleUsed   int64 `json:"flexible_used"`
	TargetBand5h   int64 `json:"target_band_5h"`
	TargetBand10h  int64 `json:"target_band_10h"`
	TargetBand20h  int64 `json:"target_band_20h"`
	OverloadQuad   int64 `json:"overload_quad"` // 每超限小时平方
	LocationPref   int64 `json:"location_pref"` // 与员工服务点偏好权重(0-100)相乘
}

// DefaultWeights 返回默认权重
func DefaultWeights() Weights {
	return Weights{
		DuplicateInstance:  100,
		GenderMismatch:     100,
		Restriction:        50,
		Overfill:           100,
		DailyTypeCap:       1,
		InvalidSameDay:     75,
		BackToBack:         75,

		UnassignedSlot:     100000,
		OverMaxPerMinute:   10,
		UnderMinPerMinute:  2,
		SingleDayLocation:  500,
		ExcessDaysLocation: 200,

		Filled:         100,
		PreferredDay:   30,
		PreferredShift: 30,
		PriorityBase:   1,
		FlexibleUsed:   150,
		TargetBand5h:   300,
		TargetBand10h:  200,
		TargetBand20h:  100,
		OverloadQuad:   10,
		LocationPref:   1,
	}
}

// Config 评分引擎配置
// 显式传入引擎构造函数，不使用进程级可变状态
type Config struct {
	Weights Weights `json:"weights"`

	// 每班次类型的单日分钟上限
	DailyTypeCapMinutes map[model.ShiftType]int `json:"daily_type_cap_minutes"`

	// 班次类型软约束权重（DAY > WAKING_NIGHT > LONG_DAY > FLOATING > SLEEP_IN）
	ShiftTypeWeights map[model.ShiftType]int64 `json:"shift_type_weights"`

	// 隔日禁排表：前一日班次类型 -> 次日禁止的班次类型
	ForbiddenNextDay map[model.ShiftType][]model.ShiftType `json:"forbidden_next_day"`

	// 超载阈值：合同最小工时的倍数
	OverloadFactor float64 `json:"overload_factor"`
}

// DefaultConfig 返回默认评分配置
func DefaultConfig() *Config {
	return &Config{
		Weights: DefaultWeights(),
		DailyTypeCapMinutes: map[model.ShiftType]int{
			model.ShiftDay:         12 * 60,
			model.ShiftLongDay:     15 * 60,
			model.ShiftWakingNight: 12 * 60,
			model.ShiftSleepIn:     14 * 60,
			model.ShiftFloating:    12 * 60,
		},
		ShiftTypeWeights: map[model.ShiftType]int64{
			model.ShiftDay:         50,
			model.ShiftWakingNight: 40,
			model.ShiftLongDay:     30,
			model.ShiftFloating:    20,
			model.ShiftSleepIn:     10,
		},
		ForbiddenNextDay: map[model.ShiftType][]model.ShiftType{
			model.ShiftLongDay:     {model.ShiftDay, model.ShiftWakingNight, model.ShiftFloating},
			model.ShiftDay:         {model.ShiftWakingNight},
			model.ShiftWakingNight: {model.ShiftDay, model.ShiftLongDay},
			model.ShiftSleepIn:     {model.ShiftDay, model.ShiftLongDay, model.ShiftWakingNight},
		},
		OverloadFactor: 1.3,
	}
}

// IsForbiddenNextDay 检查隔日班次组合是否被禁止
func (c *Config) IsForbiddenNextDay(prev, next model.ShiftType) bool {
	for _, t := range c.ForbiddenNextDay[prev] {
		if t == next {
			return true
		}
	}
	return false
}

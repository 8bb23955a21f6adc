// Package pinning 提供钉排预处理器
// 在搜索开始前，按已识别的4周轮换班型贪心锁定已知合理的分配
package pinning

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lunban/lunban/pkg/logger"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/constraint"
)

// PatternSource 轮换班型查询接口（由外部持久层实现）
type PatternSource interface {
	LoadRotationPatterns(ctx context.Context, location string, weekInCycle int, weekday time.Weekday, shiftType model.ShiftType) ([]*model.PatternCandidate, error)
}

// Preprocessor 钉排预处理器
// 单次贪心前向扫描，无回溯；分配按输入顺序处理，相同输入必然得到相同钉排结果
type Preprocessor struct {
	patterns PatternSource
}

// New 创建钉排预处理器
func New(patterns PatternSource) *Preprocessor {
	return &Preprocessor{patterns: patterns}
}

// conflictKey 同员工同日同服务点的冲突键
func conflictKey(empID uuid.UUID, date, location string) string {
	return empID.String() + "/" + date + "/" + location
}

// Pin 对方案执行钉排，返回钉住的分配数
func (p *Preprocessor) Pin(ctx context.Context, solution *model.RosterSolution) (int, error) {
	// 每员工每 ISO 周的累计分钟数，随扫描推进更新
	weekMinutes := make(map[uuid.UUID]map[string]int)
	addMinutes := func(empID uuid.UUID, week string, minutes int) {
		if weekMinutes[empID] == nil {
			weekMinutes[empID] = make(map[string]int)
		}
		weekMinutes[empID][week] += minutes
	}
	for _, a := range solution.Assignments {
		if a.Employee != nil {
			addMinutes(a.Employee.ID, model.ISOWeek(a.Date()), a.Minutes())
		}
	}

	conflicts := make(map[string]bool)
	pinned := 0

	for _, a := range solution.Assignments {
		if err := ctx.Err(); err != nil {
			return pinned, err
		}
		if a.Employee != nil {
			continue
		}

		inst := a.Instance

		// 周期边界周（weekInCycle == 0）不适用任何班型，跳过
		weekInCycle := ((inst.WeekNumber % 4) + 4) % 4
		if weekInCycle == 0 {
			continue
		}

		candidates, err := p.patterns.LoadRotationPatterns(
			ctx, inst.Location(), weekInCycle, model.Weekday(inst.Date), inst.Type())
		if err != nil {
			// 班型数据异常按规则不适用处理，不阻断钉排
			logger.Warn().Err(err).
				Str("location", inst.Location()).
				Str("date", inst.Date).
				Msg("轮换班型查询失败，跳过该分配")
			continue
		}

		week := model.ISOWeek(inst.Date)
		for _, cand := range candidates {
			if cand.Unavailable {
				continue
			}
			emp := solution.EmployeeByID(cand.EmployeeID)
			if emp == nil {
				// 班型引用了不在本次求解快照中的员工，按不适用处理
				continue
			}
			if !constraint.Eligible(emp, inst) {
				continue
			}
			if conflicts[conflictKey(emp.ID, inst.Date, inst.Location())] {
				continue
			}
			if !constraint.WithinWeeklyCap(emp, weekMinutes[emp.ID][week], inst.Minutes) {
				continue
			}

			a.Employee = emp
			a.Pinned = true
			pinned++
			conflicts[conflictKey(emp.ID, inst.Date, inst.Location())] = true
			addMinutes(emp.ID, week, inst.Minutes)
			break
		}
	}

	logger.Info().
		Int("pinned", pinned).
		Int("assignments", len(solution.Assignments)).
		Msg("钉排预处理完成")
	return pinned, nil
}

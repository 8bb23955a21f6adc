// Package trigger 提供求解请求队列的周期触发器
package trigger

import (
	"context"
	"time"

	"github.com/lunban/lunban/internal/metrics"
	"github.com/lunban/lunban/internal/notify"
	"github.com/lunban/lunban/pkg/errors"
	"github.com/lunban/lunban/pkg/logger"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/constraint"
	"github.com/lunban/lunban/pkg/scheduler/constraint/builtin"
	"github.com/lunban/lunban/pkg/scheduler/optimizer"
	"github.com/lunban/lunban/pkg/scheduler/pinning"
	"github.com/lunban/lunban/pkg/scheduler/solver"
	"github.com/lunban/lunban/pkg/stats"
)

// solve 执行完整求解流水线：构建问题 → 钉排 → 构造 → 局部搜索 → 落库
func (s *Service) solve(ctx context.Context, req *model.SolveRequest) error {
	start := time.Now()
	slog := logger.NewSolverLogger()

	solution, err := s.buildSolution(ctx, req)
	if err != nil {
		return err
	}
	slog.StartSolve(req.ID.String(), req.Region, len(solution.Employees), len(solution.Assignments))

	// 钉排预处理：轮换班型匹配的分配固定后不再参与搜索
	pinner := pinning.New(s.roster)
	pinned, err := pinner.Pin(ctx, solution)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "钉排预处理失败")
	}
	metrics.AddPinnedSlots(req.Region, pinned)

	manager := builtin.NewDefaultManager()
	schedCtx := constraint.NewContext(solution, s.scoringCfg)
	tracker := constraint.NewTracker(manager, schedCtx)

	builder := solver.NewConstructionSolver()
	if _, err := builder.Construct(ctx, tracker); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "构造求解失败")
	}

	opt := optimizer.New(&optimizer.Config{
		MaxIterations:    s.cfg.Solver.MaxIterations,
		MaxTime:          s.cfg.Solver.MaxTime,
		InitialTemp:      s.cfg.Solver.InitialTemp,
		CoolingRate:      s.cfg.Solver.CoolingRate,
		TabuSize:         s.cfg.Solver.TabuSize,
		StopOnPlateau:    true,
		PlateauThreshold: s.cfg.Solver.PlateauThreshold,
	})

	onBest := func(score constraint.Score) {
		update := s.buildUpdate(req, solution, manager, schedCtx, score, false)
		if err := s.publisher.Publish(ctx, update); err != nil {
			logger.Warn().Err(err).Msg("发布中间解失败")
		}
	}

	best, err := opt.Optimize(ctx, tracker, onBest)
	if err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		return errors.Wrap(err, errors.CodeInternal, "局部搜索失败")
	}

	if err := s.roster.SaveRoster(ctx, solution); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "保存排班方案失败")
	}
	if err := s.requests.MarkCompleted(ctx, req.ID, solution.ID); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "标记请求完成失败")
	}

	metrics.SetSolutionScore(req.Region, best.Hard, best.Soft)

	rosterStats := stats.NewAnalyzer().Analyze(solution)
	metrics.SetFillRate(req.Region, rosterStats.OverallFillRate)
	logger.Info().
		Str("request_id", req.ID.String()).
		Float64("fill_rate", rosterStats.OverallFillRate).
		Float64("flexible_share", rosterStats.FlexibleShare).
		Int("pinned", rosterStats.PinnedSlots).
		Int("unassigned", len(rosterStats.UnassignedSlots)).
		Msg("排班统计")

	final := s.buildUpdate(req, solution, manager, schedCtx, best, true)
	if err := s.publisher.Publish(ctx, final); err != nil {
		logger.Warn().Err(err).Msg("发布最终解失败")
	}

	slog.SolveComplete(req.ID.String(), best.Hard, best.Soft, time.Since(start))
	return nil
}

// buildSolution 加载求解输入并展开需求单元
// 每个启用模板在周期内每个匹配星期的日期生成一个班次实例，
// 实例按模板人数展开需求单元
func (s *Service) buildSolution(ctx context.Context, req *model.SolveRequest) (*model.RosterSolution, error) {
	employees, err := s.roster.LoadEmployees(ctx, req.Region)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "加载员工失败")
	}
	if len(employees) == 0 {
		return nil, errors.New(errors.CodeNoEmployees, "区域内没有可用员工")
	}

	templates, err := s.roster.LoadShiftTemplates(ctx, req.Region)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "加载班次模板失败")
	}

	solution := model.NewRosterSolution(req.Region, req.StartDate, req.EndDate)
	solution.Employees = employees

	referenceDate := s.cfg.Solver.ReferenceDate
	for date := req.StartDate; date != "" && date <= req.EndDate; date = model.NextDate(date) {
		weekday := model.Weekday(date)
		for _, tpl := range templates {
			if tpl.Weekday != weekday {
				continue
			}
			inst := model.NewShiftInstance(tpl, date, referenceDate)
			solution.Instances = append(solution.Instances, inst)
			for slot := 0; slot < tpl.Headcount; slot++ {
				solution.Assignments = append(solution.Assignments, model.NewAssignment(inst, slot))
			}
		}
	}

	return solution, nil
}

// buildUpdate 组装排班更新事件
func (s *Service) buildUpdate(
	req *model.SolveRequest,
	solution *model.RosterSolution,
	manager *constraint.Manager,
	schedCtx *constraint.Context,
	score constraint.Score,
	final bool,
) *notify.RosterUpdate {
	update := &notify.RosterUpdate{
		RequestID:  req.ID,
		RosterID:   solution.ID,
		Region:     req.Region,
		Actor:      req.CreatedBy,
		Final:      final,
		HardScore:  score.Hard,
		SoftScore:  score.Soft,
		Feasible:   score.Feasible(),
		Unassigned: solution.Unassigned(),
	}
	if final {
		update.Violations = manager.Violations(schedCtx)
	}
	return update
}

// Package trigger 提供求解请求队列的周期触发器
package trigger

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/lunban/lunban/internal/config"
	"github.com/lunban/lunban/internal/metrics"
	"github.com/lunban/lunban/internal/notify"
	"github.com/lunban/lunban/internal/repository"
	"github.com/lunban/lunban/pkg/errors"
	"github.com/lunban/lunban/pkg/logger"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/constraint"
)

// Service 求解触发器
// 周期轮询待处理请求队列；全局同一时刻至多一个求解在进行，
// 触发时若已有求解进行则本轮跳过，请求留在队列中等待下一轮
type Service struct {
	requests  *repository.SolveRequestRepository
	roster    *repository.RosterRepository
	publisher notify.Publisher

	cfg        *config.Config
	scoringCfg *constraint.Config

	// 0 空闲，1 求解中
	active int32
}

// New 创建求解触发器
func New(
	requests *repository.SolveRequestRepository,
	roster *repository.RosterRepository,
	publisher notify.Publisher,
	cfg *config.Config,
) *Service {
	return &Service{
		requests:   requests,
		roster:     roster,
		publisher:  publisher,
		cfg:        cfg,
		scoringCfg: constraint.DefaultConfig(),
	}
}

// Run 启动周期触发循环，阻塞直到上下文取消
func (s *Service) Run(ctx context.Context) {
	interval := s.cfg.Trigger.Interval
	if interval <= 0 {
		interval = 2 * time.Minute
	}

	logger.Info().Dur("interval", interval).Msg("求解触发器启动")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("求解触发器停止")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick 处理一次触发
func (s *Service) tick(ctx context.Context) {
	if pending, err := s.requests.CountByStatus(ctx, model.RequestPending); err == nil {
		metrics.SetPendingRequests(pending)
	}

	if !atomic.CompareAndSwapInt32(&s.active, 0, 1) {
		logger.Debug().Msg("已有求解进行中，本轮跳过")
		return
	}
	defer s.release()

	metrics.SetSolveActive(true)

	req, err := s.requests.DequeueOldestPending(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("取出待处理请求失败")
		return
	}
	if req == nil {
		return
	}

	s.runSolve(ctx, req)
}

// SolveNow 立即对指定请求求解（绕过周期触发，受同一互斥约束）
// 已有求解进行时返回冲突错误，请求保持待处理状态
func (s *Service) SolveNow(ctx context.Context, req *model.SolveRequest) error {
	if !atomic.CompareAndSwapInt32(&s.active, 0, 1) {
		return errors.New(errors.CodeSolveInProgress, "已有求解正在进行")
	}
	defer s.release()

	metrics.SetSolveActive(true)

	if err := s.requests.MarkSolving(ctx, req.ID); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "标记请求求解中失败")
	}
	req.Status = model.RequestSolving

	s.runSolve(ctx, req)
	return nil
}

func (s *Service) release() {
	atomic.StoreInt32(&s.active, 0)
	metrics.SetSolveActive(false)
}

// runSolve 执行求解并处理 panic
// 求解 panic 时请求回退为待处理，下一轮可重新消费
func (s *Service) runSolve(ctx context.Context, req *model.SolveRequest) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Interface("panic", r).
				Str("request_id", req.ID.String()).
				Msg("求解过程异常退出")
			if err := s.requests.MarkPending(ctx, req.ID); err != nil {
				logger.Error().Err(err).Msg("重置请求状态失败")
			}
		}
	}()

	start := time.Now()
	err := s.solve(ctx, req)
	metrics.RecordSolve(req.Region, err == nil, time.Since(start))

	if err != nil {
		logger.Error().Err(err).
			Str("request_id", req.ID.String()).
			Str("region", req.Region).
			Msg("求解失败")
		if rbErr := s.requests.MarkPending(ctx, req.ID); rbErr != nil {
			logger.Error().Err(rbErr).Msg("重置请求状态失败")
		}
	}
}

// ValidateRequest 校验求解请求
// 区域必填；起止日期合法且结束不早于开始；周期含两端不超过配置上限
func (s *Service) ValidateRequest(req *model.SolveRequest) error {
	if req.Region == "" {
		return errors.New(errors.CodeValidationFail, "区域不能为空")
	}

	start, err := model.ParseDate(req.StartDate)
	if err != nil {
		return errors.New(errors.CodeValidationFail, "开始日期格式无效").WithCause(err)
	}
	end, err := model.ParseDate(req.EndDate)
	if err != nil {
		return errors.New(errors.CodeValidationFail, "结束日期格式无效").WithCause(err)
	}

	if end.Before(start) {
		return errors.New(errors.CodeInvalidTimeRange, "结束日期早于开始日期")
	}

	maxDays := s.cfg.Solver.MaxRangeDays
	if maxDays <= 0 {
		maxDays = 30
	}
	if model.CountDays(req.StartDate, req.EndDate) > maxDays {
		return errors.New(errors.CodeInvalidTimeRange, "求解周期超出上限")
	}

	return nil
}

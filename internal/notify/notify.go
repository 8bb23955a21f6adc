// Package notify 提供排班结果发布通知
package notify

import (
	"context"

	"github.com/google/uuid"

	"github.com/lunban/lunban/pkg/logger"
	"github.com/lunban/lunban/pkg/scheduler/constraint"
)

// RosterUpdate 排班更新事件
// 求解过程中每次发现更优解发布一次，求解结束后发布最终状态
type RosterUpdate struct {
	RequestID   uuid.UUID             `json:"request_id"`
	RosterID    uuid.UUID             `json:"roster_id"`
	Region      string                `json:"region"`
	Actor       string                `json:"actor"` // 发起求解的调用方
	Final       bool                  `json:"final"`
	HardScore   int64                 `json:"hard_score"`
	SoftScore   int64                 `json:"soft_score"`
	Feasible    bool                  `json:"feasible"`
	Unassigned  int                   `json:"unassigned"`
	Violations  []constraint.Violation `json:"violations,omitempty"`
}

// Publisher 排班更新发布接口
type Publisher interface {
	Publish(ctx context.Context, update *RosterUpdate) error
}

// LogPublisher 以结构化日志形式发布排班更新
type LogPublisher struct{}

// NewLogPublisher 创建日志发布器
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

// Publish 发布排班更新
func (p *LogPublisher) Publish(ctx context.Context, update *RosterUpdate) error {
	logger.Info().
		Str("request_id", update.RequestID.String()).
		Str("roster_id", update.RosterID.String()).
		Str("region", update.Region).
		Str("actor", update.Actor).
		Bool("final", update.Final).
		Int64("hard", update.HardScore).
		Int64("soft", update.SoftScore).
		Bool("feasible", update.Feasible).
		Int("unassigned", update.Unassigned).
		Int("violations", len(update.Violations)).
		Msg("排班更新")
	return nil
}

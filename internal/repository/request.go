// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lunban/lunban/pkg/model"
)

// SolveRequestRepository 求解请求仓储
type SolveRequestRepository struct {
	db DB
}

// NewSolveRequestRepository 创建求解请求仓储
func NewSolveRequestRepository(db DB) *SolveRequestRepository {
	return &SolveRequestRepository{db: db}
}

// Create 创建求解请求（初始状态 pending）
func (r *SolveRequestRepository) Create(ctx context.Context, req *model.SolveRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.Status = model.RequestPending
	req.CreatedAt = time.Now()

	query := `
		INSERT INTO solve_requests (id, region, start_date, end_date, created_by, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.Region, req.StartDate, req.EndDate, req.CreatedBy, req.Status, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建求解请求失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取求解请求
func (r *SolveRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SolveRequest, error) {
	query := `
		SELECT id, region, start_date, end_date, created_by, status, completed_at, roster_id, created_at
		FROM solve_requests
		WHERE id = $1
	`

	return scanRequest(r.db.QueryRowContext(ctx, query, id))
}

// List 查询求解请求列表
func (r *SolveRequestRepository) List(ctx context.Context, filter ListFilter) ([]*model.SolveRequest, int, error) {
	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.Region != "" {
		conditions = append(conditions, fmt.Sprintf("region = $%d", argIdx))
		args = append(args, filter.Region)
		argIdx++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM solve_requests %s", where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("统计求解请求失败: %w", err)
	}

	dir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		dir = "ASC"
	}
	query := fmt.Sprintf(`
		SELECT id, region, start_date, end_date, created_by, status, completed_at, roster_id, created_at
		FROM solve_requests
		%s
		ORDER BY created_at %s
		LIMIT $%d OFFSET $%d
	`, where, dir, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询求解请求列表失败: %w", err)
	}
	defer rows.Close()

	var requests []*model.SolveRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}

	return requests, total, rows.Err()
}

// DequeueOldestPending 取出最早的待处理请求并标记为求解中
// 单条 UPDATE 完成取出与状态迁移，避免触发器重复消费
func (r *SolveRequestRepository) DequeueOldestPending(ctx context.Context) (*model.SolveRequest, error) {
	query := `
		UPDATE solve_requests SET status = $1
		WHERE id = (
			SELECT id FROM solve_requests
			WHERE status = $2
			ORDER BY created_at ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, region, start_date, end_date, created_by, status, completed_at, roster_id, created_at
	`

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, model.RequestSolving, model.RequestPending))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return req, err
}

// MarkSolving 标记请求进入求解
func (r *SolveRequestRepository) MarkSolving(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, model.RequestSolving)
}

// MarkPending 将请求回退为待处理（求解失败时）
func (r *SolveRequestRepository) MarkPending(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, model.RequestPending)
}

// MarkCompleted 标记请求完成并关联生成的排班方案
func (r *SolveRequestRepository) MarkCompleted(ctx context.Context, id, rosterID uuid.UUID) error {
	query := `
		UPDATE solve_requests SET status = $2, roster_id = $3, completed_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, model.RequestCompleted, rosterID, time.Now())
	if err != nil {
		return fmt.Errorf("标记请求完成失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("求解请求不存在")
	}

	return nil
}

// CountByStatus 按状态统计请求数
func (r *SolveRequestRepository) CountByStatus(ctx context.Context, status model.RequestStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM solve_requests WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("统计请求状态失败: %w", err)
	}
	return count, nil
}

func (r *SolveRequestRepository) setStatus(ctx context.Context, id uuid.UUID, status model.RequestStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE solve_requests SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("更新请求状态失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("求解请求不存在")
	}

	return nil
}

// scanRequest 扫描单行求解请求
func scanRequest(row Scanner) (*model.SolveRequest, error) {
	var req model.SolveRequest
	var completedAt sql.NullTime
	var rosterID uuid.NullUUID

	err := row.Scan(
		&req.ID, &req.Region, &req.StartDate, &req.EndDate, &req.CreatedBy,
		&req.Status, &completedAt, &rosterID, &req.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("扫描求解请求失败: %w", err)
	}

	if completedAt.Valid {
		req.CompletedAt = &completedAt.Time
	}
	if rosterID.Valid {
		id := rosterID.UUID
		req.RosterID = &id
	}

	return &req, nil
}

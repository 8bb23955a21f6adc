package trigger

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/lunban/lunban/internal/config"
	"github.com/lunban/lunban/internal/repository"
	"github.com/lunban/lunban/pkg/errors"
	"github.com/lunban/lunban/pkg/model"
	"github.com/lunban/lunban/pkg/scheduler/constraint"
)

func testService() *Service {
	cfg := &config.Config{}
	cfg.Solver.MaxRangeDays = 30
	return &Service{cfg: cfg, scoringCfg: constraint.DefaultConfig()}
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name     string
		req      *model.SolveRequest
		wantCode errors.Code
	}{
		{
			"合法请求",
			&model.SolveRequest{Region: "北区", StartDate: "2025-01-06", EndDate: "2025-01-19"},
			"",
		},
		{
			"起止同日合法",
			&model.SolveRequest{Region: "北区", StartDate: "2025-01-06", EndDate: "2025-01-06"},
			"",
		},
		{
			"区域为空",
			&model.SolveRequest{StartDate: "2025-01-06", EndDate: "2025-01-19"},
			errors.CodeValidationFail,
		},
		{
			"开始日期格式无效",
			&model.SolveRequest{Region: "北区", StartDate: "2025/01/06", EndDate: "2025-01-19"},
			errors.CodeValidationFail,
		},
		{
			"结束日期格式无效",
			&model.SolveRequest{Region: "北区", StartDate: "2025-01-06", EndDate: "19-01-2025"},
			errors.CodeValidationFail,
		},
		{
			"结束早于开始",
			&model.SolveRequest{Region: "北区", StartDate: "2025-01-10", EndDate: "2025-01-05"},
			errors.CodeInvalidTimeRange,
		},
		{
			"恰好30天合法",
			&model.SolveRequest{Region: "北区", StartDate: "2025-01-01", EndDate: "2025-01-30"},
			"",
		},
		{
			"超出30天上限",
			&model.SolveRequest{Region: "北区", StartDate: "2025-01-01", EndDate: "2025-01-31"},
			errors.CodeInvalidTimeRange,
		},
	}

	s := testService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.ValidateRequest(tt.req)
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("ValidateRequest() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("ValidateRequest() = %v, want 错误码 %s", err, tt.wantCode)
			}
		})
	}
}

func TestValidateRequest_DefaultMaxRange(t *testing.T) {
	s := testService()
	s.cfg.Solver.MaxRangeDays = 0 // 未配置时按30天处理

	req := &model.SolveRequest{Region: "北区", StartDate: "2025-01-01", EndDate: "2025-02-15"}
	if err := s.ValidateRequest(req); !errors.Is(err, errors.CodeInvalidTimeRange) {
		t.Errorf("ValidateRequest() = %v, want 错误码 %s", err, errors.CodeInvalidTimeRange)
	}
}

// queueDriver 记录执行过的SQL的桩驱动
// COUNT 查询返回固定的待处理数，其余查询返回空结果集
type queueDriver struct{}

func (queueDriver) Open(string) (driver.Conn, error) { return &queueConn{}, nil }

type queueConn struct{}

func (*queueConn) Prepare(query string) (driver.Stmt, error) {
	recordQuery(query)
	return &queueStmt{query: query}, nil
}
func (*queueConn) Close() error              { return nil }
func (*queueConn) Begin() (driver.Tx, error) { return nil, sql.ErrTxDone }

type queueStmt struct {
	query string
}

func (*queueStmt) Close() error  { return nil }
func (*queueStmt) NumInput() int { return -1 }
func (s *queueStmt) Exec([]driver.Value) (driver.Result, error) {
	return driver.RowsAffected(1), nil
}
func (s *queueStmt) Query([]driver.Value) (driver.Rows, error) {
	if strings.Contains(s.query, "COUNT(*)") {
		return &queueRows{
			cols: []string{"count"},
			vals: [][]driver.Value{{int64(2)}},
		}, nil
	}
	return &queueRows{cols: []string{"id", "region", "start_date", "end_date",
		"created_by", "status", "completed_at", "roster_id", "created_at"}}, nil
}

type queueRows struct {
	cols []string
	vals [][]driver.Value
	idx  int
}

func (r *queueRows) Columns() []string { return r.cols }
func (r *queueRows) Close() error      { return nil }
func (r *queueRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.vals) {
		return io.EOF
	}
	copy(dest, r.vals[r.idx])
	r.idx++
	return nil
}

var (
	registerStubOnce sync.Once
	queryLogMu       sync.Mutex
	queryLog         []string
)

func recordQuery(query string) {
	queryLogMu.Lock()
	defer queryLogMu.Unlock()
	queryLog = append(queryLog, query)
}

func queuedService(t *testing.T) *Service {
	t.Helper()
	registerStubOnce.Do(func() { sql.Register("queuestub", queueDriver{}) })
	db, err := sql.Open("queuestub", "")
	if err != nil {
		t.Fatalf("打开桩数据库失败: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	queryLogMu.Lock()
	queryLog = nil
	queryLogMu.Unlock()

	s := testService()
	s.requests = repository.NewSolveRequestRepository(db)
	return s
}

func queryIssued(substr string) bool {
	queryLogMu.Lock()
	defer queryLogMu.Unlock()
	for _, q := range queryLog {
		if strings.Contains(q, substr) {
			return true
		}
	}
	return false
}

func TestTick_SkipsWhileSolving(t *testing.T) {
	s := queuedService(t)
	s.active = 1 // 另一请求的求解正在进行

	s.tick(context.Background())

	// 忙时仍更新待处理队列深度
	if !queryIssued("COUNT(*)") {
		t.Errorf("本轮应统计待处理请求数")
	}
	// 队列中的请求保持待处理，不取出、不启动第二个求解
	if queryIssued("UPDATE") {
		t.Errorf("已有求解进行中时不应取出请求")
	}
	if s.active != 1 {
		t.Errorf("跳过的一轮不应清除忙标志")
	}
}

func TestTick_DequeuesWhenIdle(t *testing.T) {
	s := queuedService(t)

	s.tick(context.Background())

	if !queryIssued("FOR UPDATE SKIP LOCKED") {
		t.Errorf("空闲时应尝试取出最早的待处理请求")
	}
	if s.active != 0 {
		t.Errorf("队列为空时忙标志应已释放")
	}
}

func TestSolveNow_RejectsWhileSolving(t *testing.T) {
	s := testService()
	s.active = 1 // 模拟另一求解进行中

	req := &model.SolveRequest{Region: "北区", StartDate: "2025-01-06", EndDate: "2025-01-12"}
	err := s.SolveNow(context.Background(), req)
	if !errors.Is(err, errors.CodeSolveInProgress) {
		t.Errorf("SolveNow() = %v, want 错误码 %s", err, errors.CodeSolveInProgress)
	}
	if req.Status == model.RequestSolving {
		t.Errorf("被拒绝的请求不应进入求解中状态")
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() 返回错误: %v", err)
	}

	if cfg.App.Name != "lunban" || cfg.App.Port != 7031 {
		t.Errorf("App 默认值 = %+v", cfg.App)
	}
	if cfg.Trigger.Interval != 2*time.Minute || !cfg.Trigger.Enabled {
		t.Errorf("Trigger 默认值 = %+v", cfg.Trigger)
	}
	if cfg.Solver.MaxIterations != 20000 || cfg.Solver.MaxRangeDays != 30 {
		t.Errorf("Solver 默认值 = %+v", cfg.Solver)
	}
	if cfg.Solver.ReferenceDate != "2019-12-30" {
		t.Errorf("基准日期 = %s", cfg.Solver.ReferenceDate)
	}
	if cfg.Database.SlowQueryThreshold != 100*time.Millisecond {
		t.Errorf("慢查询阈值默认值 = %v", cfg.Database.SlowQueryThreshold)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("默认环境应为 development")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("TRIGGER_INTERVAL", "30s")
	t.Setenv("TRIGGER_ENABLED", "false")
	t.Setenv("SOLVER_MAX_ITERATIONS", "5000")
	t.Setenv("SOLVER_COOLING_RATE", "0.995")
	t.Setenv("DB_SLOW_QUERY_THRESHOLD", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() 返回错误: %v", err)
	}

	if !cfg.IsProduction() {
		t.Errorf("环境 = %s, want production", cfg.App.Env)
	}
	if cfg.App.Port != 8080 {
		t.Errorf("端口 = %d, want 8080", cfg.App.Port)
	}
	if cfg.Trigger.Interval != 30*time.Second || cfg.Trigger.Enabled {
		t.Errorf("Trigger 覆盖失败: %+v", cfg.Trigger)
	}
	if cfg.Solver.MaxIterations != 5000 || cfg.Solver.CoolingRate != 0.995 {
		t.Errorf("Solver 覆盖失败: %+v", cfg.Solver)
	}
	if cfg.Database.SlowQueryThreshold != 250*time.Millisecond {
		t.Errorf("慢查询阈值覆盖失败: %v", cfg.Database.SlowQueryThreshold)
	}
}

func TestLoad_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("APP_PORT", "不是数字")
	t.Setenv("TRIGGER_INTERVAL", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() 返回错误: %v", err)
	}
	if cfg.App.Port != 7031 {
		t.Errorf("非法端口应回落默认值, got %d", cfg.App.Port)
	}
	if cfg.Trigger.Interval != 2*time.Minute {
		t.Errorf("非法时长应回落默认值, got %v", cfg.Trigger.Interval)
	}
}

func TestDatabaseDSN(t *testing.T) {
	db := DatabaseConfig{
		Host: "db.internal", Port: 5433, User: "roster",
		Password: "secret", Name: "rosterdb", SSLMode: "require",
	}
	want := "host=db.internal port=5433 user=roster password=secret dbname=rosterdb sslmode=require"
	if got := db.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

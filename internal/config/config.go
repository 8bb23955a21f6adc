// Package config 提供配置管理
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Trigger  TriggerConfig  `yaml:"trigger"`
	Solver   SolverConfig   `yaml:"solver"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	Name               string        `yaml:"name"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"conn_max_lifetime"`
	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold"` // 超过即记录慢查询日志
}

// DSN 返回数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// TriggerConfig 求解触发器配置
type TriggerConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"` // 待处理请求轮询间隔
}

// SolverConfig 求解器配置
type SolverConfig struct {
	MaxIterations    int           `yaml:"max_iterations"`
	MaxTime          time.Duration `yaml:"max_time"`
	InitialTemp      float64       `yaml:"initial_temp"`
	CoolingRate      float64       `yaml:"cooling_rate"`
	TabuSize         int           `yaml:"tabu_size"`
	PlateauThreshold int           `yaml:"plateau_threshold"`
	ReferenceDate    string        `yaml:"reference_date"` // 绝对周编号的基准周一
	MaxRangeDays     int           `yaml:"max_range_days"` // 求解周期最大天数（含两端）
}

// MetricsConfig 监控配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "lunban"),
			Env:      getEnv("APP_ENV", "development"),
			Port:     getEnvInt("APP_PORT", 7031),
			LogLevel: getEnv("APP_LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			Name:               getEnv("DB_NAME", "lunban"),
			User:               getEnv("DB_USER", "lunban"),
			Password:           getEnv("DB_PASSWORD", "lunban123"),
			SSLMode:            getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:    getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			SlowQueryThreshold: getEnvDuration("DB_SLOW_QUERY_THRESHOLD", 100*time.Millisecond),
		},
		Trigger: TriggerConfig{
			Enabled:  getEnvBool("TRIGGER_ENABLED", true),
			Interval: getEnvDuration("TRIGGER_INTERVAL", 2*time.Minute),
		},
		Solver: SolverConfig{
			MaxIterations:    getEnvInt("SOLVER_MAX_ITERATIONS", 20000),
			MaxTime:          getEnvDuration("SOLVER_MAX_TIME", 60*time.Second),
			InitialTemp:      getEnvFloat("SOLVER_INITIAL_TEMP", 100.0),
			CoolingRate:      getEnvFloat("SOLVER_COOLING_RATE", 0.999),
			TabuSize:         getEnvInt("SOLVER_TABU_SIZE", 200),
			PlateauThreshold: getEnvInt("SOLVER_PLATEAU_THRESHOLD", 2000),
			ReferenceDate:    getEnv("SOLVER_REFERENCE_DATE", "2019-12-30"),
			MaxRangeDays:     getEnvInt("SOLVER_MAX_RANGE_DAYS", 30),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	return cfg, nil
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// IsTest 检查是否为测试环境
func (c *Config) IsTest() bool {
	return c.App.Env == "test"
}

// 辅助函数
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	DB        DBConfig        `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Salary    SalaryConfig    `yaml:"salary"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	HTTPPort        string        `yaml:"http_port"`
	GRPCPort        string        `yaml:"grpc_port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DBConfig struct {
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Name         string `yaml:"name"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// SalaryConfig holds the process-wide payroll defaults. Import batches and
// rows may override the overtime rate.
type SalaryConfig struct {
	BaseHours        int    `yaml:"base_hours"`
	OvertimeInterval int    `yaml:"overtime_interval"`
	OvertimeRate     string `yaml:"overtime_rate"`
}

type RateLimitConfig struct {
	Rate string `yaml:"rate"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type TelemetryConfig struct {
	ServiceName  string `yaml:"service_name"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{HTTPPort: "8080", GRPCPort: "50052", ShutdownTimeout: 10 * time.Second},
		Redis: RedisConfig{
			Host:      "localhost",
			Port:      "6379",
			ReportTTL: REPORT_CACHE_TTL,
		},
		DB: DBConfig{
			Driver:       "postgres",
			Host:         "localhost",
			Port:         "5432",
			User:         "postgres",
			Name:         "catering",
			MaxOpenConns: 20,
			MaxIdleConns: 5,
		},
		Salary:    SalaryConfig{BaseHours: 4, OvertimeInterval: 10, OvertimeRate: "50"},
		RateLimit: RateLimitConfig{Rate: "100-M"},
		Log:       LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Telemetry: TelemetryConfig{ServiceName: "catering-gateway"},
	}
}

// LoadConfig reads .env, then the optional YAML file named by CONFIG_FILE,
// then applies environment overrides.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			slog.Warn("config file ignored", "path", path, "error", err)
		}
	}

	envOverride(&cfg.Server.HTTPPort, "HTTP_PORT")
	envOverride(&cfg.Server.GRPCPort, "GRPC_PORT")
	envOverrideDuration(&cfg.Server.ShutdownTimeout, "SHUTDOWN_TIMEOUT")

	envOverride(&cfg.Redis.Host, "REDIS_HOST")
	envOverride(&cfg.Redis.Port, "REDIS_PORT")
	envOverride(&cfg.Redis.Password, "REDIS_PASSWORD")
	envOverrideInt(&cfg.Redis.DB, "REDIS_DB")
	envOverrideDuration(&cfg.Redis.ReportTTL, "REPORT_CACHE_TTL")

	envOverride(&cfg.DB.Driver, "DB_DRIVER")
	envOverride(&cfg.DB.DSN, "DB_DSN")
	envOverride(&cfg.DB.Host, "DB_HOST")
	envOverride(&cfg.DB.Port, "DB_PORT")
	envOverride(&cfg.DB.User, "DB_USER")
	envOverride(&cfg.DB.Password, "DB_PASSWORD")
	envOverride(&cfg.DB.Name, "DB_NAME")
	envOverrideInt(&cfg.DB.MaxOpenConns, "DB_MAX_OPEN_CONNS")
	envOverrideInt(&cfg.DB.MaxIdleConns, "DB_MAX_IDLE_CONNS")

	envOverride(&cfg.Auth.JWTSecret, "JWT_SECRET")

	envOverrideInt(&cfg.Salary.BaseHours, "SALARY_BASE_HOURS")
	envOverrideInt(&cfg.Salary.OvertimeInterval, "SALARY_OVERTIME_INTERVAL")
	envOverride(&cfg.Salary.OvertimeRate, "SALARY_OVERTIME_RATE")

	envOverride(&cfg.RateLimit.Rate, "RATE_LIMIT")

	envOverride(&cfg.Log.Level, "LOG_LEVEL")
	envOverride(&cfg.Log.File, "LOG_FILE")

	envOverride(&cfg.Telemetry.ServiceName, "OTEL_SERVICE_NAME")
	envOverride(&cfg.Telemetry.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	envOverrideBool(&cfg.Telemetry.Insecure, "OTEL_EXPORTER_OTLP_INSECURE")

	return cfg
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envOverride(dst *string, key string) {
	*dst = getEnv(key, *dst)
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envOverrideBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func envOverrideDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	SLA          SLAConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr              string
	Password          string
	DB                int
	StatusCacheTTLSec int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// SLAConfig carries the service-level agreement table and business calendar.
// It is read at load time and handed to the calculator explicitly; nothing
// in the SLA engine reaches for process-wide state.
type SLAConfig struct {
	CriticalHours int
	HighHours     int
	MediumHours   int
	LowHours      int

	WorkStartHour int
	WorkEndHour   int
	// WorkingDays uses Go weekday numbering (Sunday=0).
	WorkingDays []time.Weekday

	MonitorIntervalSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	workingDays, err := parseWeekdays(getEnv("SLA_WORKING_DAYS", "1,2,3,4,5"))
	if err != nil {
		return nil, fmt.Errorf("invalid SLA_WORKING_DAYS: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:              getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:          os.Getenv("REDIS_PASSWORD"),
			DB:                redisDB,
			StatusCacheTTLSec: getEnvAsInt("REDIS_STATUS_CACHE_TTL_SECONDS", 300),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
		SLA: SLAConfig{
			CriticalHours:          getEnvAsInt("SLA_CRITICAL_HOURS", 2),
			HighHours:              getEnvAsInt("SLA_HIGH_HOURS", 8),
			MediumHours:            getEnvAsInt("SLA_MEDIUM_HOURS", 24),
			LowHours:               getEnvAsInt("SLA_LOW_HOURS", 72),
			WorkStartHour:          getEnvAsInt("SLA_WORK_START_HOUR", 9),
			WorkEndHour:            getEnvAsInt("SLA_WORK_END_HOUR", 18),
			WorkingDays:            workingDays,
			MonitorIntervalSeconds: getEnvAsInt("SLA_MONITOR_INTERVAL_SECONDS", 300),
		},
	}

	if cfg.SLA.WorkStartHour < 0 || cfg.SLA.WorkEndHour > 24 || cfg.SLA.WorkStartHour >= cfg.SLA.WorkEndHour {
		return nil, fmt.Errorf("invalid business hours: start=%d end=%d", cfg.SLA.WorkStartHour, cfg.SLA.WorkEndHour)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// StatusCacheTTL returns the catalog cache lifetime.
func (r RedisConfig) StatusCacheTTL() time.Duration {
	if r.StatusCacheTTLSec <= 0 {
		return 0
	}
	return time.Duration(r.StatusCacheTTLSec) * time.Second
}

// MonitorInterval returns the SLA sweep period.
func (s SLAConfig) MonitorInterval() time.Duration {
	if s.MonitorIntervalSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(s.MonitorIntervalSeconds) * time.Second
}

func parseWeekdays(value string) ([]time.Weekday, error) {
	parts := strings.Split(value, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		if n < 0 || n > 6 {
			return nil, fmt.Errorf("weekday out of range: %d", n)
		}
		days = append(days, time.Weekday(n))
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no working days configured")
	}
	return days, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

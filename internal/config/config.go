package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Engine    EngineConfig
	Monitor   MonitorConfig
	Scheduler SchedulerConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	App       AppConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host         string
	Port         string
	TimeoutRead  time.Duration
	TimeoutWrite time.Duration
	TimeoutIdle  time.Duration
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// JWTConfig holds token validation configuration. Tokens are issued by the
// host HR platform; this service only validates them.
type JWTConfig struct {
	Secret string
	Issuer string
}

// EngineConfig holds the scoring and anomaly-detection thresholds
type EngineConfig struct {
	ImpulsiveFloorMs       int     // responses faster than this are "too fast to have read the question"
	ImpulsiveRatio         float64 // fraction of fast responses that triggers the flag
	MonotonyRunLength      int     // straight-lining run length threshold
	SocialDesirabilityRate float64 // fraction of ideal-extreme SD answers that triggers the flag
	InconsistencyThreshold int     // cross-validation violations before inconsistent_reporting
	FlagPenalty            float64 // points subtracted from the overall score per anomaly flag
}

// MonitorConfig holds live alert monitor tuning
type MonitorConfig struct {
	AlertCooldown       time.Duration
	ExpectedPerQuestion time.Duration // planned answering time per question
	MaxAlerts           int
}

// SchedulerConfig holds the abandonment sweeper configuration
type SchedulerConfig struct {
	InactivityWindow time.Duration // in_progress assessments idle longer than this are abandoned
	SweepInterval    time.Duration
	EnableSweeper    bool
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Duration time.Duration
}

// AppConfig holds general application configuration
type AppConfig struct {
	Env     string
	Name    string
	Version string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env if present; godotenv never overrides already-set variables
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			Port:         getEnv("SERVER_PORT", "8080"),
			TimeoutRead:  getDurationEnv("SERVER_TIMEOUT_READ", 15*time.Second),
			TimeoutWrite: getDurationEnv("SERVER_TIMEOUT_WRITE", 15*time.Second),
			TimeoutIdle:  getDurationEnv("SERVER_TIMEOUT_IDLE", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "pir"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "pir_db"),
			SSLMode:         getEnv("DB_SSLMODE", "prefer"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			Issuer: getEnv("JWT_ISSUER", ""),
		},
		Engine: EngineConfig{
			ImpulsiveFloorMs:       getIntEnv("ENGINE_IMPULSIVE_FLOOR_MS", 2000),
			ImpulsiveRatio:         getFloatEnv("ENGINE_IMPULSIVE_RATIO", 0.20),
			MonotonyRunLength:      getIntEnv("ENGINE_MONOTONY_RUN_LENGTH", 6),
			SocialDesirabilityRate: getFloatEnv("ENGINE_SOCIAL_DESIRABILITY_RATE", 0.80),
			InconsistencyThreshold: getIntEnv("ENGINE_INCONSISTENCY_THRESHOLD", 2),
			FlagPenalty:            getFloatEnv("ENGINE_FLAG_PENALTY", 5),
		},
		Monitor: MonitorConfig{
			AlertCooldown:       getDurationEnv("MONITOR_ALERT_COOLDOWN", 30*time.Second),
			ExpectedPerQuestion: getDurationEnv("MONITOR_EXPECTED_PER_QUESTION", 30*time.Second),
			MaxAlerts:           getIntEnv("MONITOR_MAX_ALERTS", 10),
		},
		Scheduler: SchedulerConfig{
			InactivityWindow: getDurationEnv("SCHEDULER_INACTIVITY_WINDOW", 72*time.Hour),
			SweepInterval:    getDurationEnv("SCHEDULER_SWEEP_INTERVAL", 15*time.Minute),
			EnableSweeper:    getBoolEnv("SCHEDULER_ENABLE_SWEEPER", true),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:   getSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getSliceEnv("CORS_ALLOWED_HEADERS", []string{"Accept", "Authorization", "Content-Type"}),
			ExposedHeaders:   getSliceEnv("CORS_EXPOSED_HEADERS", []string{"Link"}),
			AllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getIntEnv("CORS_MAX_AGE", 300),
		},
		RateLimit: RateLimitConfig{
			Enabled:  getBoolEnv("RATE_LIMIT_ENABLED", true),
			Requests: getIntEnv("RATE_LIMIT_REQUESTS", 100),
			Duration: getDurationEnv("RATE_LIMIT_DURATION", 1*time.Minute),
		},
		App: AppConfig{
			Env:     getEnv("APP_ENV", "development"),
			Name:    getEnv("APP_NAME", "PIR-Integrity"),
			Version: getEnv("APP_VERSION", "1.0.0"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Database.Password == "" && c.App.Env == "production" {
		return fmt.Errorf("DB_PASSWORD is required in production")
	}
	if c.Engine.MonotonyRunLength < 2 {
		return fmt.Errorf("ENGINE_MONOTONY_RUN_LENGTH must be at least 2")
	}
	if c.Engine.ImpulsiveRatio <= 0 || c.Engine.ImpulsiveRatio >= 1 {
		return fmt.Errorf("ENGINE_IMPULSIVE_RATIO must be between 0 and 1")
	}
	if c.Engine.SocialDesirabilityRate <= 0 || c.Engine.SocialDesirabilityRate >= 1 {
		return fmt.Errorf("ENGINE_SOCIAL_DESIRABILITY_RATE must be between 0 and 1")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, v := range parts {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Engine.ImpulsiveFloorMs != 2000 {
		t.Errorf("Expected impulsive floor 2000ms, got %d", cfg.Engine.ImpulsiveFloorMs)
	}
	if cfg.Engine.ImpulsiveRatio != 0.20 {
		t.Errorf("Expected impulsive ratio 0.20, got %f", cfg.Engine.ImpulsiveRatio)
	}
	if cfg.Engine.MonotonyRunLength != 6 {
		t.Errorf("Expected monotony run length 6, got %d", cfg.Engine.MonotonyRunLength)
	}
	if cfg.Engine.SocialDesirabilityRate != 0.80 {
		t.Errorf("Expected SD rate 0.80, got %f", cfg.Engine.SocialDesirabilityRate)
	}
	if cfg.Engine.InconsistencyThreshold != 2 {
		t.Errorf("Expected inconsistency threshold 2, got %d", cfg.Engine.InconsistencyThreshold)
	}
	if cfg.Engine.FlagPenalty != 5 {
		t.Errorf("Expected flag penalty 5, got %f", cfg.Engine.FlagPenalty)
	}
	if cfg.Monitor.AlertCooldown != 30*time.Second {
		t.Errorf("Expected alert cooldown 30s, got %v", cfg.Monitor.AlertCooldown)
	}
	if cfg.Monitor.MaxAlerts != 10 {
		t.Errorf("Expected max alerts 10, got %d", cfg.Monitor.MaxAlerts)
	}
	if cfg.Scheduler.InactivityWindow != 72*time.Hour {
		t.Errorf("Expected inactivity window 72h, got %v", cfg.Scheduler.InactivityWindow)
	}
	if !cfg.Scheduler.EnableSweeper {
		t.Error("Expected sweeper enabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ENGINE_IMPULSIVE_FLOOR_MS", "1500")
	t.Setenv("MONITOR_ALERT_COOLDOWN", "45s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Engine.ImpulsiveFloorMs != 1500 {
		t.Errorf("Expected impulsive floor 1500, got %d", cfg.Engine.ImpulsiveFloorMs)
	}
	if cfg.Monitor.AlertCooldown != 45*time.Second {
		t.Errorf("Expected cooldown 45s, got %v", cfg.Monitor.AlertCooldown)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("Expected trimmed origin list, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			JWT: JWTConfig{Secret: "s"},
			Engine: EngineConfig{
				MonotonyRunLength:      6,
				ImpulsiveRatio:         0.2,
				SocialDesirabilityRate: 0.8,
			},
			App: AppConfig{Env: "development"},
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("Expected valid config, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Missing JWT secret", func(c *Config) { c.JWT.Secret = "" }},
		{"Missing DB password in production", func(c *Config) { c.App.Env = "production" }},
		{"Monotony run too short", func(c *Config) { c.Engine.MonotonyRunLength = 1 }},
		{"Impulsive ratio at zero", func(c *Config) { c.Engine.ImpulsiveRatio = 0 }},
		{"Impulsive ratio at one", func(c *Config) { c.Engine.ImpulsiveRatio = 1 }},
		{"SD rate out of range", func(c *Config) { c.Engine.SocialDesirabilityRate = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

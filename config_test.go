package authkit

import (
	"testing"
	"time"
)

func validTestConfig() Config {
	cfg := defaultConfig()
	cfg.API.BaseURL = "https://auth.example.com"
	return cfg
}

func TestDefaultConfigValidatesWithBaseURL(t *testing.T) {
	cfg := validTestConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config with base URL must validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "valid",
			mutate:    func(*Config) {},
			wantValid: true,
		},
		{
			name:      "missing base url",
			mutate:    func(c *Config) { c.API.BaseURL = "" },
			wantValid: false,
		},
		{
			name:      "relative base url",
			mutate:    func(c *Config) { c.API.BaseURL = "/auth" },
			wantValid: false,
		},
		{
			name:      "zero timeout",
			mutate:    func(c *Config) { c.API.Timeout = 0 },
			wantValid: false,
		},
		{
			name:      "negative refresh threshold",
			mutate:    func(c *Config) { c.Token.RefreshThreshold = -time.Hour },
			wantValid: false,
		},
		{
			name:      "zero cache ttl",
			mutate:    func(c *Config) { c.Cache.TTL = 0 },
			wantValid: false,
		},
		{
			name:      "zero scheduler interval",
			mutate:    func(c *Config) { c.Scheduler.Interval = 0 },
			wantValid: false,
		},
		{
			name: "interval at threshold",
			mutate: func(c *Config) {
				c.Token.RefreshThreshold = time.Hour
				c.Scheduler.Interval = time.Hour
			},
			wantValid: false,
		},
		{
			name: "interval above threshold allowed when scheduler disabled",
			mutate: func(c *Config) {
				c.Scheduler.Enabled = false
				c.Token.RefreshThreshold = time.Hour
				c.Scheduler.Interval = 2 * time.Hour
			},
			wantValid: true,
		},
		{
			name: "interval below threshold",
			mutate: func(c *Config) {
				c.Token.RefreshThreshold = time.Hour
				c.Scheduler.Interval = 10 * time.Minute
			},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantValid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.wantValid && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := defaultConfig()

	if cfg.API.Timeout != 10*time.Second {
		t.Fatalf("API timeout = %v", cfg.API.Timeout)
	}
	if cfg.Token.RefreshThreshold != 2*time.Hour {
		t.Fatalf("refresh threshold = %v", cfg.Token.RefreshThreshold)
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Fatalf("cache TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Scheduler.Interval != 30*time.Minute {
		t.Fatalf("scheduler interval = %v", cfg.Scheduler.Interval)
	}
	if !cfg.Scheduler.Enabled {
		t.Fatal("scheduler must default on")
	}
	if cfg.Metrics.Enabled {
		t.Fatal("metrics must default off")
	}
	// The default interval must leave refresh headroom.
	if cfg.Scheduler.Interval >= cfg.Token.RefreshThreshold {
		t.Fatal("default interval must stay below the refresh threshold")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("AUTHKIT_API_BASE_URL", "https://auth.example.com")
	t.Setenv("AUTHKIT_API_TIMEOUT", "5s")
	t.Setenv("AUTHKIT_REFRESH_THRESHOLD", "1h")
	t.Setenv("AUTHKIT_CACHE_TTL", "12h")
	t.Setenv("AUTHKIT_SCHEDULER_ENABLED", "false")
	t.Setenv("AUTHKIT_METRICS_ENABLED", "true")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}

	if cfg.API.BaseURL != "https://auth.example.com" {
		t.Fatalf("base URL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Fatalf("timeout = %v", cfg.API.Timeout)
	}
	if cfg.Token.RefreshThreshold != time.Hour {
		t.Fatalf("threshold = %v", cfg.Token.RefreshThreshold)
	}
	if cfg.Cache.TTL != 12*time.Hour {
		t.Fatalf("TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Scheduler.Enabled {
		t.Fatal("scheduler must be disabled by env")
	}
	if !cfg.Metrics.Enabled {
		t.Fatal("metrics must be enabled by env")
	}

	// Unset variables keep their defaults.
	if cfg.Scheduler.Interval != 30*time.Minute {
		t.Fatalf("interval = %v, want default", cfg.Scheduler.Interval)
	}
	if cfg.Cache.RedisPrefix != "ak" {
		t.Fatalf("redis prefix = %q, want default", cfg.Cache.RedisPrefix)
	}
}

func TestConfigFromEnvUnparsable(t *testing.T) {
	t.Setenv("AUTHKIT_API_TIMEOUT", "soon")

	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("unparsable duration must error")
	}
}

package authkit

import (
	"errors"
	"net/url"
	"time"

	"github.com/verazapp/authkit/cache"
	"github.com/verazapp/authkit/scheduler"
	"github.com/verazapp/authkit/token"
)

// Config holds every tunable of the session client. Instances are
// configured during initialization and treated as immutable afterwards.
type Config struct {
	API       APIConfig
	Token     TokenConfig
	Cache     CacheConfig
	Scheduler SchedulerConfig
	Metrics   MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig configures the HTTP surface toward the auth service.
type APIConfig struct {
	// BaseURL is the service root; the /auth segment is appended per call.
	BaseURL string `env:"AUTHKIT_API_BASE_URL"`
	// Timeout bounds each request when no custom http.Client is supplied.
	Timeout time.Duration `env:"AUTHKIT_API_TIMEOUT"`
	// UserAgent is sent on every request when non-empty.
	UserAgent string `env:"AUTHKIT_API_USER_AGENT"`
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig configures structural credential validation.
type TokenConfig struct {
	// RefreshThreshold is the remaining lifetime below which a live token
	// is reported as expiring soon.
	RefreshThreshold time.Duration `env:"AUTHKIT_REFRESH_THRESHOLD"`
}

/*
====================================
CACHE CONFIG
====================================
*/

// CacheConfig configures snapshot persistence.
type CacheConfig struct {
	// TTL is the single time-to-live for the whole cached snapshot.
	TTL time.Duration `env:"AUTHKIT_CACHE_TTL"`
	// RedisPrefix namespaces keys when a Redis store is used.
	RedisPrefix string `env:"AUTHKIT_CACHE_REDIS_PREFIX"`
	// Dir selects a file-backed store rooted at this directory when no
	// explicit store or Redis client is supplied. Empty means in-memory.
	Dir string `env:"AUTHKIT_CACHE_DIR"`
}

/*
====================================
SCHEDULER CONFIG
====================================
*/

// SchedulerConfig configures the background refresh loop.
type SchedulerConfig struct {
	// Enabled starts the loop at Build. The loop is inert while the
	// session is not authenticated, so leaving it on costs one timer.
	Enabled bool `env:"AUTHKIT_SCHEDULER_ENABLED"`
	// Interval is the tick period. It must stay below the token refresh
	// threshold or a token could expire between ticks.
	Interval time.Duration `env:"AUTHKIT_SCHEDULER_INTERVAL"`
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig configures the in-process metrics system.
type MetricsConfig struct {
	Enabled                 bool `env:"AUTHKIT_METRICS_ENABLED"`
	EnableLatencyHistograms bool `env:"AUTHKIT_METRICS_LATENCY"`
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration every Builder starts from.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout:   10 * time.Second,
			UserAgent: "authkit/1",
		},
		Token: TokenConfig{
			RefreshThreshold: token.DefaultRefreshThreshold,
		},
		Cache: CacheConfig{
			TTL:         cache.DefaultTTL,
			RedisPrefix: "ak",
		},
		Scheduler: SchedulerConfig{
			Enabled:  true,
			Interval: scheduler.DefaultInterval,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("API BaseURL is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || !u.IsAbs() {
		return errors.New("API BaseURL must be an absolute URL")
	}
	if c.API.Timeout <= 0 {
		return errors.New("API Timeout must be > 0")
	}

	if c.Token.RefreshThreshold <= 0 {
		return errors.New("Token RefreshThreshold must be > 0")
	}

	if c.Cache.TTL <= 0 {
		return errors.New("Cache TTL must be > 0")
	}

	if c.Scheduler.Interval <= 0 {
		return errors.New("Scheduler Interval must be > 0")
	}
	if c.Scheduler.Enabled && c.Scheduler.Interval >= c.Token.RefreshThreshold {
		return errors.New("Scheduler Interval must be below Token RefreshThreshold")
	}

	return nil
}

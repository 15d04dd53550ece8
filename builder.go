package authkit

import (
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/verazapp/authkit/api"
	"github.com/verazapp/authkit/cache"
	"github.com/verazapp/authkit/scheduler"
	"github.com/verazapp/authkit/state"
	"github.com/verazapp/authkit/token"
)

// Builder assembles a Client. Construction is allocation-only; no I/O
// happens until Client methods run. A Builder is single-use.
type Builder struct {
	config     Config
	httpClient *http.Client
	redis      *redis.Client
	store      cache.Store

	built bool
}

// New creates a Builder preloaded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL sets the auth service root without replacing the rest of
// the configuration.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithHTTPClient overrides the transport used for auth requests.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithRedis selects a Redis-backed persistent store for the snapshot
// cache and the durable token.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithStore selects a custom persistent store. Takes precedence over
// WithRedis and the file-store configuration.
func (b *Builder) WithStore(store cache.Store) *Builder {
	b.store = store
	return b
}

// WithMetricsEnabled toggles the in-process metrics system.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the check-latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, wires every component, and returns
// the Client. When the scheduler is enabled its loop starts immediately;
// it stays inert until a session exists.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := b.store
	if store == nil {
		switch {
		case b.redis != nil:
			store = cache.NewRedisStore(b.redis, cfg.Cache.RedisPrefix)
		case cfg.Cache.Dir != "":
			fs, err := cache.NewFileStore(cfg.Cache.Dir)
			if err != nil {
				return nil, err
			}
			store = fs
		default:
			store = cache.NewMemoryStore()
		}
	}

	apiClient, err := api.New(api.Config{
		BaseURL:    cfg.API.BaseURL,
		HTTPClient: b.httpClient,
		Timeout:    cfg.API.Timeout,
		UserAgent:  cfg.API.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	client := &Client{
		config:  cfg,
		codec:   token.NewCodec(cfg.Token.RefreshThreshold),
		cache:   cache.New(store, cfg.Cache.TTL),
		tokens:  cache.NewTokenStore(store),
		state:   state.New(),
		api:     apiClient,
		metrics: NewMetrics(cfg.Metrics),
	}
	client.scheduler = scheduler.New(client, cfg.Scheduler.Interval)

	if cfg.Scheduler.Enabled {
		client.scheduler.Start()
	}

	b.built = true

	return client, nil
}

package authkit

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/verazapp/authkit/api"
	"github.com/verazapp/authkit/cache"
	"github.com/verazapp/authkit/scheduler"
	"github.com/verazapp/authkit/state"
	"github.com/verazapp/authkit/token"
)

// Client orchestrates the session lifecycle. It is the only writer to the
// in-memory state and the persistent stores; everything else reads.
//
// Each public method completes its state and cache writes before
// returning, so a caller observing the returned value also observes the
// matching state. Two concurrent CheckStatus calls may both reach the
// network; that is redundant work, not a correctness problem, because
// both converge to the same terminal state.
type Client struct {
	config    Config
	codec     *token.Codec
	cache     *cache.Cache
	tokens    *cache.TokenStore
	state     *state.State
	api       *api.Client
	metrics   *Metrics
	scheduler *scheduler.Scheduler

	// epoch is bumped by every teardown. Responses carry the epoch that
	// was current when their request was issued; a response from an older
	// epoch is discarded so it can never re-authenticate a session that
	// was signed out while it was in flight.
	epoch atomic.Uint64
}

// State returns the reactive session state for read access and
// subscriptions.
func (c *Client) State() *state.State {
	return c.state
}

// Close stops the refresh scheduler. It does not touch session state.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.scheduler.Stop()
}

// MetricsSnapshot returns a point-in-time copy of all metrics.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

func (c *Client) metricInc(id MetricID) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Inc(id)
}

// SignIn exchanges credentials for a session. A 2xx response that is
// missing the user or carries a token that is not live is treated as a
// failure; the transport result alone never authenticates. On any failure
// the session is torn down completely and the result carries a message
// derived from the response (or from the HTTP status code when the server
// sent none).
func (c *Client) SignIn(ctx context.Context, usernameOrEmail, password string) (SignInResult, error) {
	return c.establish(ctx, MetricSignInSuccess, MetricSignInFailure, func() (*api.AuthResponse, error) {
		return c.api.SignIn(ctx, usernameOrEmail, password)
	})
}

// SignUp registers a new account and, on success, signs it in. Terminal
// handling is identical to SignIn.
func (c *Client) SignUp(ctx context.Context, username, email, password string) (SignInResult, error) {
	return c.establish(ctx, MetricSignUpSuccess, MetricSignUpFailure, func() (*api.AuthResponse, error) {
		return c.api.SignUp(ctx, username, email, password)
	})
}

func (c *Client) establish(ctx context.Context, okMetric, failMetric MetricID, call func() (*api.AuthResponse, error)) (SignInResult, error) {
	epoch := c.epoch.Load()
	c.state.SetStatus(StatusChecking)

	resp, err := call()
	if err != nil {
		c.metricInc(failMetric)
		if c.epoch.Load() != epoch {
			c.metricInc(MetricStaleResponseDropped)
			return SignInResult{Status: StatusNotAuthenticated, Message: messageOf(err)}, ErrSessionSuperseded
		}
		c.clearAll(ctx)
		return SignInResult{Status: StatusNotAuthenticated, Message: messageOf(err)}, sentinelOf(err)
	}

	if resp.User == nil || !c.codec.IsLive(resp.Token) {
		c.metricInc(failMetric)
		if c.epoch.Load() != epoch {
			c.metricInc(MetricStaleResponseDropped)
			return SignInResult{Status: StatusNotAuthenticated, Message: ErrIncompleteResponse.Error()}, ErrSessionSuperseded
		}
		c.clearAll(ctx)
		return SignInResult{Status: StatusNotAuthenticated, Message: "Authentication response incomplete"}, ErrIncompleteResponse
	}

	if c.epoch.Load() != epoch {
		c.metricInc(MetricStaleResponseDropped)
		return SignInResult{Status: StatusNotAuthenticated, Message: ErrSessionSuperseded.Error()}, ErrSessionSuperseded
	}

	c.adopt(ctx, resp)
	c.metricInc(okMetric)
	return SignInResult{Status: StatusAuthenticated, Message: resp.Message}, nil
}

// SignOut tears the session down locally and removes both persisted
// entries. The backend is notified best-effort; its answer is ignored.
// Idempotent. The false return mirrors CheckStatus so guard-style
// callers can treat both uniformly.
func (c *Client) SignOut(ctx context.Context) bool {
	tok := c.state.Token()
	c.clearAll(ctx)
	c.metricInc(MetricSignOut)

	if tok != "" {
		if err := c.api.SignOut(ctx, tok); err != nil {
			log.Print("authkit: backend sign-out notification failed")
		}
	}
	return false
}

// CheckStatus reports whether a verified session exists, establishing one
// if it can. The answer comes from three tiers, cheapest first:
//
//  1. a snapshot-cache entry still inside its TTL, holding an
//     authenticated status and a live token, is adopted without any
//     network traffic;
//  2. a live token alongside an already-known user is re-trusted
//     structurally, and a fresh cache entry is synthesized;
//  3. otherwise the backend verifies the token.
//
// Any terminal failure clears everything and returns false. With no token
// at all the call is equivalent to SignOut.
func (c *Client) CheckStatus(ctx context.Context) bool {
	if c.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() {
			c.metrics.Observe(MetricCheckLatency, time.Since(start))
		}()
	}

	if c.state.Token() == "" {
		if persisted := c.tokens.Load(ctx); persisted != "" {
			c.state.SetToken(persisted)
		}
	}

	tok := c.state.Token()
	if tok == "" {
		c.clearAll(ctx)
		return false
	}

	c.state.SetStatus(StatusChecking)

	if snap := c.cache.GetValid(ctx); snap != nil &&
		snap.Status == StatusAuthenticated && snap.User != nil && c.codec.IsLive(snap.Token) {
		c.state.SetAll(snap.User, snap.Token, StatusAuthenticated)
		c.metricInc(MetricCheckCacheHit)
		return true
	}

	if user := c.state.User(); user != nil && c.codec.IsLive(tok) {
		c.state.SetStatus(StatusAuthenticated)
		if err := c.cache.Save(ctx, state.Snapshot{Status: StatusAuthenticated, User: user, Token: tok}); err != nil {
			log.Print("authkit: snapshot cache write failed")
		}
		c.metricInc(MetricCheckLocalTrust)
		return true
	}

	epoch := c.epoch.Load()
	resp, err := c.api.CheckStatus(ctx, tok)
	if err != nil || resp.User == nil || !c.codec.IsLive(resp.Token) {
		c.metricInc(MetricCheckFailure)
		if c.epoch.Load() != epoch {
			c.metricInc(MetricStaleResponseDropped)
			return false
		}
		c.clearAll(ctx)
		return false
	}
	if c.epoch.Load() != epoch {
		c.metricInc(MetricStaleResponseDropped)
		return false
	}

	c.adopt(ctx, resp)
	c.metricInc(MetricCheckNetworkSuccess)
	return true
}

// RefreshToken exchanges the current token for a fresh one. With no token
// held it is a no-op returning false. A failed exchange tears the session
// down; the scheduler treats that as final and the next CheckStatus
// starts from scratch.
func (c *Client) RefreshToken(ctx context.Context) bool {
	tok := c.state.Token()
	if tok == "" {
		return false
	}

	epoch := c.epoch.Load()
	resp, err := c.api.Refresh(ctx, tok)
	if err != nil || resp.User == nil || !c.codec.IsLive(resp.Token) {
		c.metricInc(MetricRefreshFailure)
		if c.epoch.Load() != epoch {
			c.metricInc(MetricStaleResponseDropped)
			return false
		}
		c.clearAll(ctx)
		return false
	}
	if c.epoch.Load() != epoch {
		c.metricInc(MetricStaleResponseDropped)
		return false
	}

	c.adopt(ctx, resp)
	c.metricInc(MetricRefreshSuccess)
	return true
}

// TokenExpiringSoon reports whether the currently held token is live but
// inside the refresh window.
func (c *Client) TokenExpiringSoon() bool {
	return c.codec.ExpiresSoon(c.state.Token())
}

// Authenticated reports whether a verified session is currently held.
func (c *Client) Authenticated() bool {
	return c.state.IsAuthenticated()
}

// adopt installs a verified backend response as the current session:
// state first, then the durable token, then the snapshot cache. Store
// writes are best-effort; a persistence failure degrades restart behavior
// but never the live session.
func (c *Client) adopt(ctx context.Context, resp *api.AuthResponse) {
	c.state.SetAll(resp.User, resp.Token, StatusAuthenticated)
	if err := c.tokens.Save(ctx, resp.Token); err != nil {
		log.Print("authkit: durable token write failed")
	}
	if err := c.cache.Save(ctx, state.Snapshot{Status: StatusAuthenticated, User: resp.User, Token: resp.Token}); err != nil {
		log.Print("authkit: snapshot cache write failed")
	}
}

// clearAll is the single teardown routine every failure path converges
// on. It bumps the session epoch first so any response still in flight is
// recognized as stale.
func (c *Client) clearAll(ctx context.Context) {
	c.epoch.Add(1)
	c.state.Clear()
	if err := c.cache.Clear(ctx); err != nil {
		log.Print("authkit: snapshot cache clear failed")
	}
	if err := c.tokens.Clear(ctx); err != nil {
		log.Print("authkit: durable token clear failed")
	}
}

func messageOf(err error) string {
	var se *api.StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return api.MessageForCode(0)
}

func sentinelOf(err error) error {
	var se *api.StatusError
	if !errors.As(err, &se) {
		return ErrConnection
	}
	switch {
	case se.Code == 400 || se.Code == 401:
		return ErrInvalidCredentials
	case se.Code == 403:
		return ErrAccountBlocked
	case se.Code == 409:
		return ErrUserAlreadyExists
	case se.Code == 422:
		return ErrRegistrationInvalid
	case se.Code == 429:
		return ErrTooManyAttempts
	case se.Code >= 500:
		return ErrServerUnavailable
	case se.Code == 0:
		return ErrConnection
	default:
		return ErrAuthFailed
	}
}

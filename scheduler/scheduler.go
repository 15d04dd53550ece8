// Package scheduler drives periodic token refresh. It owns no session
// logic: each tick it asks the session whether a refresh is warranted and
// fires at most one attempt. A failed attempt is logged and forgotten:
// the next tick is the retry, with no backoff and no cap, because the
// session converges to signed-out on persistent failure anyway.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultInterval is the tick period. It is deliberately well under the
// codec's expiring-soon threshold so a token always gets several refresh
// opportunities before it dies.
const DefaultInterval = 30 * time.Minute

// Session is the surface the scheduler needs from the session client.
type Session interface {
	// Authenticated reports whether there is a session worth refreshing.
	Authenticated() bool
	// TokenExpiringSoon reports whether the current token is inside the
	// refresh window.
	TokenExpiringSoon() bool
	// RefreshToken attempts one refresh and reports success.
	RefreshToken(ctx context.Context) bool
}

// Scheduler runs the refresh loop. Start is idempotent; Stop is safe to
// call at any time, including before Start and twice in a row.
type Scheduler struct {
	session  Session
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a stopped Scheduler. A non-positive interval selects
// [DefaultInterval].
func New(session Session, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{session: session, interval: interval}
}

// Start launches the tick loop. A running loop is cancelled first, so
// calling Start twice leaves exactly one loop.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop cancels the loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Scheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if !s.session.Authenticated() {
		return
	}
	if !s.session.TokenExpiringSoon() {
		return
	}
	if !s.session.RefreshToken(ctx) {
		log.Print("authkit: scheduled token refresh failed")
	}
}

package state

import (
	"sync"
	"time"
)

// State is the in-memory source of truth for the current session: the
// user, the bearer token, and the tri-state status. Reads are synchronous
// snapshots; mutations are last-write-wins and notify subscribers after the
// write completes. The session client is the only intended writer.
type State struct {
	mu     sync.RWMutex
	user   *User
	token  string
	status Status

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// New creates a State in the not-authenticated ground state.
func New() *State {
	return &State{
		status: StatusNotAuthenticated,
		subs:   make(map[int]func(Snapshot)),
	}
}

// User returns a copy of the current user, or nil when no user is set.
func (s *State) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

// Token returns the current bearer token, or the empty string.
func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Status returns the current session status.
func (s *State) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Snapshot returns the full current state as one consistent tuple.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Status:        s.status,
		User:          s.user.Clone(),
		Token:         s.token,
		LastCheckedAt: time.Now(),
	}
}

// IsAuthenticated reports whether the session is usable: status is
// authenticated AND a token AND a user are present. The three conditions
// are checked together so a partially written state never reads as
// authenticated.
func (s *State) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status == StatusAuthenticated && s.token != "" && s.user != nil
}

// IsAdmin reports whether the current user carries an administrative role
// (ADMIN or MANAGER). False when no user is set.
func (s *State) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return false
	}
	return s.user.HasRole(RoleAdmin) || s.user.HasRole(RoleManager)
}

// SetUser replaces the current user.
func (s *State) SetUser(u *User) {
	s.mu.Lock()
	s.user = u.Clone()
	s.mu.Unlock()
	s.notify()
}

// SetToken replaces the current token.
func (s *State) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.notify()
}

// SetStatus replaces the current status.
func (s *State) SetStatus(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
	s.notify()
}

// SetAll replaces user, token, and status in one atomic write. This is the
// transition every successful sign-in, check, and refresh goes through.
func (s *State) SetAll(u *User, token string, status Status) {
	s.mu.Lock()
	s.user = u.Clone()
	s.token = token
	s.status = status
	s.mu.Unlock()
	s.notify()
}

// Clear resets the state to the ground state: no user, no token,
// not-authenticated. Idempotent.
func (s *State) Clear() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.status = StatusNotAuthenticated
	s.mu.Unlock()
	s.notify()
}

// Subscribe registers fn to be called synchronously after every mutation
// with a snapshot of the new state. The returned function cancels the
// subscription and is safe to call more than once.
func (s *State) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *State) notify() {
	snap := s.Snapshot()

	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

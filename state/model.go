package state

import (
	"encoding/json"
	"fmt"
	"time"
)

// Roles with administrative reach. Role names are defined by the auth
// backend; these two gate the admin-only surfaces.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
)

// Status is the tri-state session status. There is no fourth value: every
// failure path collapses to StatusNotAuthenticated.
type Status uint8

const (
	// StatusNotAuthenticated is the ground state: no verified session.
	StatusNotAuthenticated Status = iota
	// StatusChecking is the transient state while a verification is in flight.
	StatusChecking
	// StatusAuthenticated means a live token and a user are both present.
	StatusAuthenticated
)

const (
	statusNotAuthenticatedName = "not-authenticated"
	statusCheckingName         = "checking"
	statusAuthenticatedName    = "authenticated"
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusChecking:
		return statusCheckingName
	case StatusAuthenticated:
		return statusAuthenticatedName
	default:
		return statusNotAuthenticatedName
	}
}

// MarshalJSON encodes the status as its wire name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a wire name into a status. Unknown names are an
// error so a corrupted cache entry is detected instead of silently mapping
// to the ground state.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus maps a wire name to a Status.
func ParseStatus(name string) (Status, error) {
	switch name {
	case statusNotAuthenticatedName:
		return StatusNotAuthenticated, nil
	case statusCheckingName:
		return StatusChecking, nil
	case statusAuthenticatedName:
		return StatusAuthenticated, nil
	default:
		return StatusNotAuthenticated, fmt.Errorf("unknown session status %q", name)
	}
}

// User is the account behind the current session as reported by the auth
// backend. It is owned by State while it represents the session's user;
// reads hand out copies so no caller can mutate it in place.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Roles     []string  `json:"roles"`
	Perms     []string  `json:"perms"`
}

// Clone returns a deep copy of the user, or nil for a nil receiver.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	if u.Roles != nil {
		out.Roles = append([]string(nil), u.Roles...)
	}
	if u.Perms != nil {
		out.Perms = append([]string(nil), u.Perms...)
	}
	return &out
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Snapshot is one authentication state as a value: status, user, token,
// and the instant it was last verified.
type Snapshot struct {
	Status        Status
	User          *User
	Token         string
	LastCheckedAt time.Time
}

package authkit

import (
	"github.com/verazapp/authkit/state"
)

// User is the account behind the current session.
type User = state.User

// Status is the tri-state session status.
type Status = state.Status

// Snapshot is one authentication state as a value.
type Snapshot = state.Snapshot

// AuthState is the reactive in-memory session state.
type AuthState = state.State

const (
	// StatusNotAuthenticated is the ground state: no verified session.
	StatusNotAuthenticated = state.StatusNotAuthenticated
	// StatusChecking is the transient state while verification is in flight.
	StatusChecking = state.StatusChecking
	// StatusAuthenticated means a live token and a user are both present.
	StatusAuthenticated = state.StatusAuthenticated
)

const (
	// RoleAdmin is the administrator role name.
	RoleAdmin = state.RoleAdmin
	// RoleManager is the manager role name, treated as administrative.
	RoleManager = state.RoleManager
)

// SignInResult is the typed outcome of SignIn and SignUp. Status is
// StatusAuthenticated exactly when the session was established; otherwise
// Message says why in terms fit for an end user.
type SignInResult struct {
	Status  Status
	Message string
}

// Package authkit maintains an authenticated session against a remote
// auth REST service: sign-in, sign-up, sign-out, status checks, and
// background token refresh, with a persisted snapshot cache in front of
// the network.
//
// The package is designed for concurrent consumers: Client methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build], and the in-memory [state.State] is single-writer (only
// the Client mutates it).
//
// # Architecture boundaries
//
// authkit is the public surface. It exposes [Client], [Builder], [Config],
// and value types (SignInResult, MetricsSnapshot, re-exported state
// types). Each concern lives in its own subpackage: token for structural
// credential validation, cache for snapshot persistence, state for the
// reactive session state, api for the HTTP surface, scheduler for the
// refresh loop. None of them import each other's internals.
//
// # Failure contract
//
// Nothing below Client panics or leaks transport errors. Every terminal
// failure (bad credentials, server error, corrupted cache, dead token)
// converges on the same clear-everything routine that resets the state
// and wipes both persistent stores. Partial authentication state is
// never left behind.
//
// # Check order
//
// CheckStatus is the hot path; route guards call it on every protected
// navigation. It answers from three tiers: a valid cached snapshot, then
// local structural trust in an already-verified token, then the network.
// A token that was never verified locally always goes to the network.
package authkit

// Package middleware exposes HTTP middleware guards built on top of the
// authkit session client.
//
// # Guards
//
//   - [RequireSession] admits requests only while a verified session exists.
//   - [RequireAdmin] additionally requires an administrative role.
//
// Each guard consults the client, injects the session user into the
// request context on success, and rejects with a bare status code
// otherwise.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into client calls. It makes no
// authentication decisions of its own; pass or reject is delegated to
// the session client and its state.
package middleware

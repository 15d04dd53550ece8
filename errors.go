package authkit

import "errors"

var (
	// ErrInvalidCredentials is returned when the backend rejects the
	// supplied credentials (HTTP 400/401).
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountBlocked is returned when the account is blocked (HTTP 403).
	ErrAccountBlocked = errors.New("account blocked")
	// ErrUserAlreadyExists is returned when sign-up hits a duplicate
	// identity (HTTP 409).
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrRegistrationInvalid is returned when sign-up data fails backend
	// validation (HTTP 422).
	ErrRegistrationInvalid = errors.New("registration data invalid")
	// ErrTooManyAttempts is returned when the backend throttles the
	// caller (HTTP 429).
	ErrTooManyAttempts = errors.New("too many attempts")
	// ErrServerUnavailable is returned on backend-side failures
	// (HTTP 5xx).
	ErrServerUnavailable = errors.New("auth server unavailable")
	// ErrConnection is returned when no HTTP response was produced at
	// all: connection refused, DNS failure, timeout.
	ErrConnection = errors.New("connection error")
	// ErrAuthFailed is the fallback for any other non-success response.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrIncompleteResponse is returned when a 2xx auth response is
	// missing the user or carries a token that is not live. The call is
	// treated as a failure even though the transport succeeded.
	ErrIncompleteResponse = errors.New("auth response missing user or live token")
	// ErrSessionSuperseded is returned when a response arrived after the
	// session it belonged to was already torn down. The response is
	// discarded; it must never re-authenticate a signed-out session.
	ErrSessionSuperseded = errors.New("session superseded before response arrived")
)

package api

import (
	"encoding/json"
	"fmt"
)

// StatusError is any non-success outcome of an auth endpoint call. Code 0
// means the request never produced an HTTP response (connection refused,
// DNS failure, timeout). Message is always populated: the server's own
// message when it sent one, otherwise the client-side mapping.
type StatusError struct {
	Code    int
	Message string
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("auth api: %s (status %d)", e.Message, e.Code)
}

// MessageForCode maps an HTTP status code to the message shown when the
// server did not supply its own.
func MessageForCode(code int) string {
	switch code {
	case 400, 401:
		return "Invalid credentials"
	case 403:
		return "Account blocked"
	case 409:
		return "User already exists"
	case 422:
		return "Registration data invalid"
	case 429:
		return "Too many attempts, wait"
	case 500:
		return "Internal server error"
	case 0:
		return "Connection error"
	default:
		return "Authentication request failed"
	}
}

type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func newStatusError(code int, body []byte) *StatusError {
	msg := MessageForCode(code)
	if len(body) > 0 {
		var env errorEnvelope
		if err := json.Unmarshal(body, &env); err == nil {
			if env.Message != "" {
				msg = env.Message
			} else if env.Error != "" {
				msg = env.Error
			}
		}
	}
	return &StatusError{Code: code, Message: msg}
}

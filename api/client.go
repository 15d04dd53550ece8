// Package api is the HTTP client for the remote auth service. It speaks
// the five /auth endpoints and nothing else; interpreting the responses is
// the session client's job. Failures come back as a *StatusError carrying
// the HTTP status code and a human-readable message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/verazapp/authkit/state"
)

const (
	defaultTimeout = 10 * time.Second

	// Response bodies are small JSON envelopes; cap reads defensively.
	maxResponseBytes = 1 << 20
)

// Config configures the API client.
type Config struct {
	// BaseURL is the service root, e.g. "https://api.example.com". The
	// /auth path segment is appended by the client.
	BaseURL string
	// HTTPClient overrides the transport. Nil selects a client with
	// Timeout applied.
	HTTPClient *http.Client
	// Timeout is used only when HTTPClient is nil.
	Timeout time.Duration
	// UserAgent is sent on every request when non-empty.
	UserAgent string
}

// Client calls the remote auth endpoints. Safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
}

// AuthResponse is the success envelope every auth endpoint returns.
type AuthResponse struct {
	User    *state.User `json:"user"`
	Token   string      `json:"token"`
	Message string      `json:"message"`
}

type signInRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// New creates a Client. The base URL must be absolute.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, errors.New("api: base URL required")
	}
	u, err := url.Parse(base)
	if err != nil || !u.IsAbs() {
		return nil, errors.New("api: base URL must be absolute")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: cfg.UserAgent,
	}, nil
}

// SignIn exchanges credentials for a user and token.
func (c *Client) SignIn(ctx context.Context, usernameOrEmail, password string) (*AuthResponse, error) {
	return c.do(ctx, http.MethodPost, "/auth/sign-in", signInRequest{
		UsernameOrEmail: usernameOrEmail,
		Password:        password,
	}, "")
}

// SignUp registers a new account and, on success, returns it signed in.
func (c *Client) SignUp(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	return c.do(ctx, http.MethodPost, "/auth/sign-up", signUpRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, "")
}

// CheckStatus verifies the bearer token with the backend.
func (c *Client) CheckStatus(ctx context.Context, tok string) (*AuthResponse, error) {
	return c.do(ctx, http.MethodGet, "/auth/check-status", nil, tok)
}

// Refresh exchanges the bearer token for a fresh one.
func (c *Client) Refresh(ctx context.Context, tok string) (*AuthResponse, error) {
	return c.do(ctx, http.MethodPost, "/auth/refresh", nil, tok)
}

// SignOut notifies the backend that the session is over. The response is
// ignored beyond transport success; local teardown never depends on it.
func (c *Client) SignOut(ctx context.Context, tok string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/sign-out", nil, tok)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body any, tok string) (*AuthResponse, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &StatusError{Code: 0, Message: MessageForCode(0)}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &StatusError{Code: 0, Message: MessageForCode(0)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &StatusError{Code: 0, Message: MessageForCode(0)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &StatusError{Code: 0, Message: MessageForCode(0)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newStatusError(resp.StatusCode, data)
	}

	var out AuthResponse
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, &StatusError{Code: resp.StatusCode, Message: "Malformed authentication response"}
		}
	}
	return &out, nil
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func authOK(t *testing.T, w http.ResponseWriter, message string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{
		"user": map[string]any{
			"id":       "user-1",
			"username": "alice",
			"email":    "alice@example.com",
			"isActive": true,
			"roles":    []string{"ADMIN"},
			"perms":    []string{"user.read"},
		},
		"token":   "h.p.s",
		"message": message,
	})
	require.NoError(t, err)
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL, UserAgent: "authkit-test"})
	require.NoError(t, err)
	return client
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: ""})
	require.Error(t, err)

	_, err = New(Config{BaseURL: "/relative"})
	require.Error(t, err)
}

func TestSignInRequestShape(t *testing.T) {
	var gotPath, gotMethod, gotContentType, gotRequestID string
	var gotBody map[string]string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		authOK(t, w, "Signed in")
	}))

	resp, err := client.SignIn(context.Background(), "alice@example.com", "pw")
	require.NoError(t, err)

	require.Equal(t, "/auth/sign-in", gotPath)
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "application/json", gotContentType)
	require.NotEmpty(t, gotRequestID)
	require.Equal(t, "alice@example.com", gotBody["usernameOrEmail"])
	require.Equal(t, "pw", gotBody["password"])

	require.NotNil(t, resp.User)
	require.Equal(t, "alice", resp.User.Username)
	require.Equal(t, "h.p.s", resp.Token)
	require.Equal(t, "Signed in", resp.Message)
}

func TestSignUpRequestShape(t *testing.T) {
	var gotBody map[string]string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/sign-up", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		authOK(t, w, "Registered")
	}))

	_, err := client.SignUp(context.Background(), "alice", "alice@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "alice", gotBody["username"])
	require.Equal(t, "alice@example.com", gotBody["email"])
	require.Equal(t, "pw", gotBody["password"])
}

func TestCheckStatusSendsBearer(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/check-status", r.URL.Path)
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		authOK(t, w, "Still valid")
	}))

	resp, err := client.CheckStatus(context.Background(), "tok-123")
	require.NoError(t, err)
	require.NotNil(t, resp.User)
}

func TestRefreshSendsBearer(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/refresh", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		authOK(t, w, "Refreshed")
	}))

	_, err := client.Refresh(context.Background(), "tok-123")
	require.NoError(t, err)
}

func TestSignOutIgnoresBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/sign-out", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.SignOut(context.Background(), "tok-123"))
}

func TestErrorMappingByStatusCode(t *testing.T) {
	tests := []struct {
		code    int
		message string
	}{
		{400, "Invalid credentials"},
		{401, "Invalid credentials"},
		{403, "Account blocked"},
		{409, "User already exists"},
		{422, "Registration data invalid"},
		{429, "Too many attempts, wait"},
		{500, "Internal server error"},
		{502, "Authentication request failed"},
	}

	for _, tt := range tests {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.code)
		}))

		_, err := client.SignIn(context.Background(), "a", "b")
		require.Error(t, err)

		var se *StatusError
		require.ErrorAs(t, err, &se)
		require.Equal(t, tt.code, se.Code)
		require.Equal(t, tt.message, se.Message)
	}
}

func TestServerMessageWinsOverMapping(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad password, friend"}`))
	}))

	_, err := client.SignIn(context.Background(), "a", "b")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "Bad password, friend", se.Message)
}

func TestConnectionFailureIsCodeZero(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close() // nothing listening anymore

	client, err := New(Config{BaseURL: addr})
	require.NoError(t, err)

	_, err = client.SignIn(context.Background(), "a", "b")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, 0, se.Code)
	require.Equal(t, "Connection error", se.Message)
}

func TestMalformedSuccessBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))

	_, err := client.SignIn(context.Background(), "a", "b")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusOK, se.Code)
	require.Equal(t, "Malformed authentication response", se.Message)
}

func TestUserAgentHeader(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "authkit-test", r.Header.Get("User-Agent"))
		authOK(t, w, "ok")
	}))

	_, err := client.CheckStatus(context.Background(), "tok")
	require.NoError(t, err)
}

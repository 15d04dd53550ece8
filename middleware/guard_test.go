package middleware_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authkit "github.com/verazapp/authkit"
	"github.com/verazapp/authkit/middleware"
)

func mintToken(t *testing.T, ttl time.Duration) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]any{
		"sub": "user-1",
		"exp": time.Now().Add(ttl).Unix(),
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func newGuardedClient(t *testing.T, roles []string, signIn bool) *authkit.Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{
				"id":       "user-1",
				"username": "alice",
				"email":    "alice@example.com",
				"isActive": true,
				"roles":    roles,
			},
			"token":   mintToken(t, 6*time.Hour),
			"message": "ok",
		})
		if err != nil {
			t.Errorf("encode: %v", err)
		}
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := authkit.DefaultConfig()
	cfg.API.BaseURL = server.URL
	cfg.Scheduler.Enabled = false

	client, err := authkit.New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(client.Close)

	if signIn {
		if _, err := client.SignIn(context.Background(), "alice@example.com", "pw"); err != nil {
			t.Fatalf("sign in: %v", err)
		}
	}
	return client
}

func serveGuarded(guard func(http.Handler) http.Handler) *httptest.ResponseRecorder {
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	return rec
}

func TestRequireSessionAdmitsAuthenticated(t *testing.T) {
	client := newGuardedClient(t, []string{"USER"}, true)

	rec := serveGuarded(middleware.RequireSession(client))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireSessionRejectsAnonymous(t *testing.T) {
	// No sign-in and no token: the guard's status check fails locally.
	client := newGuardedClient(t, []string{"USER"}, false)

	rec := serveGuarded(middleware.RequireSession(client))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireSessionInjectsUser(t *testing.T) {
	client := newGuardedClient(t, []string{"USER"}, true)

	var gotUser *authkit.User
	handler := middleware.RequireSession(client)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = middleware.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	if gotUser == nil || gotUser.Username != "alice" {
		t.Fatalf("context user = %+v", gotUser)
	}
}

func TestRequireAdminRejectsPlainUser(t *testing.T) {
	client := newGuardedClient(t, []string{"USER"}, true)

	rec := serveGuarded(middleware.RequireAdmin(client))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireAdminAdmitsAdminAndManager(t *testing.T) {
	for _, role := range []string{"ADMIN", "MANAGER"} {
		client := newGuardedClient(t, []string{role}, true)

		rec := serveGuarded(middleware.RequireAdmin(client))
		if rec.Code != http.StatusOK {
			t.Fatalf("role %s: status = %d", role, rec.Code)
		}
	}
}

func TestNilClientRejects(t *testing.T) {
	rec := serveGuarded(middleware.RequireSession(nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

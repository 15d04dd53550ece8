package middleware

import (
	"context"
	"net/http"

	authkit "github.com/verazapp/authkit"
)

type sessionUserContextKey struct{}

// UserFromContext returns the session user injected by a guard.
func UserFromContext(ctx context.Context) (*authkit.User, bool) {
	u, ok := ctx.Value(sessionUserContextKey{}).(*authkit.User)
	return u, ok
}

// RequireSession admits a request only when the client holds a verified
// session, establishing one through CheckStatus if possible. The session
// user is injected into the request context.
func RequireSession(client *authkit.Client) func(http.Handler) http.Handler {
	return guard(client, func(*authkit.User) bool { return true })
}

// RequireAdmin admits a request only when the session user carries an
// administrative role.
func RequireAdmin(client *authkit.Client) func(http.Handler) http.Handler {
	return guard(client, func(u *authkit.User) bool {
		return u.HasRole(authkit.RoleAdmin) || u.HasRole(authkit.RoleManager)
	})
}

func guard(client *authkit.Client, allow func(*authkit.User) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if !client.Authenticated() && !client.CheckStatus(r.Context()) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			user := client.State().User()
			if user == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !allow(user) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), sessionUserContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

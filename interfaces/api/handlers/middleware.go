package handlers

import (
	"context"
	"net/http"
	"strings"

	"importsvc/application"
	"importsvc/domain/users"
)

type contextKey string

const userContextKey contextKey = "current_user"

// RequireAuth parses the Authorization bearer token, resolves the user, and
// stores it on the request context. Requests without a valid token get a 401.
func RequireAuth(authService application.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, "missing or malformed authorization header")
				return
			}

			user, err := authService.Authenticate(r.Context(), token)
			if err != nil {
				writeServiceError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the authenticated user stored by RequireAuth. The
// second return is false on routes that skipped the middleware.
func CurrentUser(ctx context.Context) (*users.User, bool) {
	user, ok := ctx.Value(userContextKey).(*users.User)
	return user, ok
}

package handlers

import (
	"context"
	"net/http"
	"strings"

	"contentplanner/internal/models"
	"contentplanner/internal/service"
)

type contextKey string

const userContextKey contextKey = "user"

// WithUser - stores the authenticated user in ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext - user placed by AuthMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok && user != nil
}

// AuthMiddleware - resolves the bearer token and rejects the request with 401
// before any handler runs when it is missing or invalid.
func AuthMiddleware(authService service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, "Not authenticated", http.StatusUnauthorized)
				return
			}

			// "Bearer <token>", scheme is case-insensitive
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				WriteError(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}

			user, err := authService.ResolveIdentity(r.Context(), parts[1])
			if err != nil {
				status := statusFor(err)
				if status == http.StatusInternalServerError {
					WriteError(w, "Internal server error", status)
					return
				}
				WriteError(w, err.Error(), status)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"garagelog/internal/model"
	"garagelog/internal/service"
	"garagelog/internal/util"

	"github.com/rs/zerolog"
)

// contextKey avoids context collisions with other packages.
type contextKey string

const (
	// AuthUIDContextKey holds the verified identity-provider subject.
	AuthUIDContextKey = contextKey("auth_uid")
	// UserContextKey holds the resolved *model.User.
	UserContextKey = contextKey("user")
)

// AuthMiddleware verifies the bearer token and stores the verified subject
// in the request context. It does not require a local user to exist yet,
// so the sync endpoint can run behind it.
func AuthMiddleware(jwtSecret string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header missing", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}
			claims, err := util.ValidateJWT(parts[1], jwtSecret)
			if err != nil {
				logger.Warn().Err(err).Msg("Token validation failed")
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), AuthUIDContextKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser resolves the local user for the verified subject and threads
// it into the context. Requests from subjects that never synced get 404.
func RequireUser(users service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authUID, ok := r.Context().Value(AuthUIDContextKey).(string)
			if !ok || authUID == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			user, err := users.GetByAuthUID(r.Context(), authUID)
			if err != nil {
				if errors.Is(err, service.ErrNotFound) {
					http.Error(w, "User not registered", http.StatusNotFound)
					return
				}
				http.Error(w, "Failed to resolve user", http.StatusInternalServerError)
				return
			}
			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the resolved user threaded in by RequireUser.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(UserContextKey).(*model.User)
	return u, ok && u != nil
}

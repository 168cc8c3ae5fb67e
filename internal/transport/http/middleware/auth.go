package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Rahanur19/youStream/internal/httputil"
	"github.com/Rahanur19/youStream/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "user_id"
)

// TokenValidator verifies an access token and returns the user it belongs to.
type TokenValidator interface {
	ValidateAccess(ctx context.Context, accessToken string) (string, error)
}

// AuthMiddleware rejects requests without a valid access token.
// Checks the Authorization header first, then falls back to the cookie.
func AuthMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := tokens.ValidateAccess(r.Context(), AccessToken(r))
			if err != nil {
				// A token for a deleted account is just an invalid token
				if errors.Is(err, model.ErrNotFound) {
					err = model.ErrTokenInvalid
				}
				httputil.WriteServiceError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// AccessToken extracts the bearer token or the access token cookie.
func AccessToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token
			}
		}
	}

	if cookie, err := r.Cookie(model.AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// WithUserID stores the authenticated user's ID in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserIDFromContext extracts the user ID from the request context
// Returns the user ID and true if found, or "" and false if not found
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type contextKey string

const UserIDKey contextKey = "userID"

var (
	errMissingToken = errors.New("missing authorization header")
	errBadFormat    = errors.New("invalid authorization format")
)

func (s *Service) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.Authenticate(r)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, errMissingToken) || errors.Is(err, errBadFormat) {
				msg = err.Error()
			}
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": msg})
			return
		}

		ctx := WithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authenticate returns the user behind the request's bearer token. Browsers
// cannot set headers on WebSocket upgrades, so a "token" query parameter is
// accepted as well.
func (s *Service) Authenticate(r *http.Request) (string, error) {
	token := r.URL.Query().Get("token")
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", errBadFormat
		}
		token = parts[1]
	}
	if token == "" {
		return "", errMissingToken
	}
	return s.ValidateToken(token)
}

// WithUserID stores the authenticated user in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Dosada05/tournament-registration/services"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"
	tokenContextKey   contextKey = "session_token"
)

// TokenValidator проверяет токен сессии администратора.
type TokenValidator interface {
	ValidateToken(token string) (*services.SessionClaims, error)
}

// Authenticate пропускает запрос дальше только с действующим Bearer-токеном.
func Authenticate(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "authentication required")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w, "invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, claims)
			ctx = context.WithValue(ctx, tokenContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

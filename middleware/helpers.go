package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/Dosada05/tournament-registration/services"
)

var errNoSession = errors.New("session not found in context")

func GetSessionFromContext(ctx context.Context) (*services.SessionClaims, error) {
	claims, ok := ctx.Value(sessionContextKey).(*services.SessionClaims)
	if !ok || claims == nil {
		return nil, errNoSession
	}
	return claims, nil
}

// GetTokenFromContext returns the raw token Authenticate accepted, for sign-out.
func GetTokenFromContext(ctx context.Context) (string, error) {
	token, ok := ctx.Value(tokenContextKey).(string)
	if !ok || token == "" {
		return "", errNoSession
	}
	return token, nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}` + "\n"))
}

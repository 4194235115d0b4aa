// Package middleware holds the HTTP middleware of the reference upstream
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/courtside/internal/server/handlers"
	"github.com/iudanet/courtside/internal/server/jwt"
)

// TokenValidator validates bearer tokens
type TokenValidator interface {
	Validate(token string) (*jwt.Claims, error)
}

// AuthMiddleware создает middleware для проверки JWT токена.
// Subject токена кладется в контекст запроса.
func AuthMiddleware(logger *slog.Logger, validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header", "path", r.URL.Path)
				unauthorized(logger, w, "missing token")
				return
			}

			// Ожидаем формат: "Bearer <token>"
			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				logger.Warn("Invalid Authorization header format", "path", r.URL.Path)
				unauthorized(logger, w, "invalid token format")
				return
			}

			claims, err := validator.Validate(strings.TrimSpace(token))
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				unauthorized(logger, w, "invalid token")
				return
			}

			logger.Debug("Request authenticated", "subject", claims.Subject)

			next.ServeHTTP(w, r.WithContext(handlers.WithSubject(r.Context(), claims.Subject)))
		})
	}
}

func unauthorized(logger *slog.Logger, w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="courtside"`)
	handlers.SendError(logger, w, handlers.CodeUnauthorized, message, http.StatusUnauthorized)
}

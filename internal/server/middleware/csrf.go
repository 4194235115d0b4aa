package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iudanet/courtside/internal/server/handlers"
	"github.com/iudanet/courtside/pkg/api"
)

// CSRFChecker verifies anti-forgery tokens
type CSRFChecker interface {
	CheckCSRF(ctx context.Context, subject, token string) error
}

// CSRFMiddleware требует валидный X-CSRF-Token на каждый изменяющий запрос.
// Должен стоять после AuthMiddleware.
func CSRFMiddleware(logger *slog.Logger, checker CSRFChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			subject, ok := handlers.GetSubject(r.Context())
			if !ok {
				handlers.SendError(logger, w, handlers.CodeUnauthorized, "missing subject", http.StatusUnauthorized)
				return
			}

			if err := checker.CheckCSRF(r.Context(), subject, r.Header.Get(api.HeaderCSRFToken)); err != nil {
				logger.Warn("CSRF check failed",
					"method", r.Method,
					"path", r.URL.Path,
					"subject", subject,
					"error", err,
				)
				handlers.SendError(logger, w, handlers.CodeForbidden, err.Error(), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Package handlers serves the reference upstream API
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/courtside/pkg/api"
)

// Коды ошибок в теле ErrorResponse
const (
	CodeInvalidJSON          = "invalid_json"
	CodeValidation           = "validation"
	CodeNotFound             = "not_found"
	CodeUnauthorized         = "unauthorized"
	CodeForbidden            = "forbidden"
	CodeIdempotencyKeyReused = "idempotency_key_reused"
	CodeRateLimited          = "rate_limited"
	CodeInternal             = "internal_error"
	CodeUnavailable          = "unavailable"
)

// contextKey тип для ключей контекста
type contextKey string

// SubjectKey ключ для хранения subject токена в контексте
const SubjectKey contextKey = "subject"

// WithSubject returns ctx carrying the authenticated subject
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, SubjectKey, subject)
}

// GetSubject извлекает subject из контекста запроса
func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(SubjectKey).(string)
	return subject, ok && subject != ""
}

// SendJSON пишет JSON ответ с заданным статусом
func SendJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// SendError отправляет JSON ответ с ошибкой
func SendError(logger *slog.Logger, w http.ResponseWriter, code, message string, statusCode int) {
	SendJSON(logger, w, api.ErrorResponse{Error: code, Message: message}, statusCode)
}

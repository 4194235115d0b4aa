package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/courtside/internal/models"
	"github.com/iudanet/courtside/internal/server/storage"
	"github.com/iudanet/courtside/internal/validation"
	"github.com/iudanet/courtside/pkg/api"
)

// DefaultCSRFTTL время жизни выданного csrf токена
const DefaultCSRFTTL = 30 * time.Minute

const maxAuthBody = 4 << 10

//go:generate moq -out issuer_mock.go . TokenIssuer

// TokenIssuer signs bearer tokens
type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, int64, error)
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger    *slog.Logger
	tokens    storage.TokenStorage
	issuer    TokenIssuer
	now       func() time.Time
	csrfTTL   time.Duration
	devTokens bool
}

// AuthOptions configures AuthHandler
type AuthOptions struct {
	CSRFTTL   time.Duration
	DevTokens bool // разрешить выпуск токенов без учетных данных
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, tokens storage.TokenStorage, issuer TokenIssuer, opts AuthOptions) *AuthHandler {
	if opts.CSRFTTL <= 0 {
		opts.CSRFTTL = DefaultCSRFTTL
	}
	return &AuthHandler{
		logger:    logger,
		tokens:    tokens,
		issuer:    issuer,
		now:       time.Now,
		csrfTTL:   opts.CSRFTTL,
		devTokens: opts.DevTokens,
	}
}

// CSRF обрабатывает GET /api/v1/auth/csrf.
// Требует bearer токен; ответ никогда не кэшируется.
func (h *AuthHandler) CSRF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	w.Header().Set("Cache-Control", "no-store")

	subject, ok := GetSubject(ctx)
	if !ok {
		SendError(h.logger, w, CodeUnauthorized, "missing subject", http.StatusUnauthorized)
		return
	}

	value, err := randomToken()
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate csrf token", slog.Any("error", err))
		SendError(h.logger, w, CodeInternal, "internal server error", http.StatusInternalServerError)
		return
	}

	now := h.now().UTC()
	token := &models.CSRFToken{
		Token:     value,
		OwnerID:   subject,
		CreatedAt: now,
		ExpiresAt: now.Add(h.csrfTTL),
	}
	if err := h.tokens.SaveCSRFToken(ctx, token); err != nil {
		h.logger.ErrorContext(ctx, "failed to save csrf token", slog.Any("error", err))
		SendError(h.logger, w, CodeInternal, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.DebugContext(ctx, "csrf token issued", slog.String("subject", subject))

	SendJSON(h.logger, w, api.CSRFTokenResponse{
		Token:     value,
		ExpiresIn: int64(h.csrfTTL.Seconds()),
	}, http.StatusOK)
}

// DevToken обрабатывает POST /api/v1/auth/dev-token.
// Выпускает токен для любого subject, только если сервер запущен с dev_tokens.
func (h *AuthHandler) DevToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.devTokens {
		SendError(h.logger, w, CodeNotFound, "dev tokens are disabled", http.StatusNotFound)
		return
	}

	var req api.DevTokenRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAuthBody)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode dev token request", slog.Any("error", err))
		SendError(h.logger, w, CodeInvalidJSON, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateSubject(req.Subject); err != nil {
		SendError(h.logger, w, CodeValidation, err.Error(), http.StatusBadRequest)
		return
	}
	if req.TTLSeconds < 0 {
		SendError(h.logger, w, CodeValidation, "ttl_seconds must not be negative", http.StatusBadRequest)
		return
	}

	token, expiresIn, err := h.issuer.Issue(req.Subject, time.Duration(req.TTLSeconds)*time.Second)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue token", slog.Any("error", err))
		SendError(h.logger, w, CodeInternal, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "dev token issued",
		slog.String("subject", req.Subject),
		slog.Int64("expires_in", expiresIn))

	w.Header().Set("Cache-Control", "no-store")
	SendJSON(h.logger, w, api.TokenResponse{AccessToken: token, ExpiresIn: expiresIn}, http.StatusOK)
}

// CheckCSRF verifies that token was issued to subject and has not expired
func (h *AuthHandler) CheckCSRF(ctx context.Context, subject, token string) error {
	if token == "" {
		return fmt.Errorf("missing %s header", api.HeaderCSRFToken)
	}

	stored, err := h.tokens.GetCSRFToken(ctx, token)
	if err != nil {
		return fmt.Errorf("csrf token: %w", err)
	}
	if !stored.IsValidFor(subject, h.now()) {
		return fmt.Errorf("csrf token expired or issued to another subject")
	}
	return nil
}

// randomToken генерирует случайные 32 байта в base64
func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

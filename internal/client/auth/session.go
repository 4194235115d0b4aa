package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/courtside/internal/client/api"
	"github.com/iudanet/courtside/internal/client/storage"
	pkgapi "github.com/iudanet/courtside/pkg/api"
)

var (
	// ErrNoSession indicates that no bearer token was provided yet
	ErrNoSession = fmt.Errorf("no stored session: %w", api.ErrAuthExpired)

	// ErrTokenExpired indicates that the stored bearer token is past its exp claim
	ErrTokenExpired = fmt.Errorf("bearer token expired: %w", api.ErrAuthExpired)
)

// expiryLeeway - токен считается истекшим чуть раньше exp, чтобы не отправлять
// запрос, который сервер гарантированно отклонит
const expiryLeeway = 5 * time.Second

// Session хранит bearer токен, выданный внешним сервисом авторизации.
// Courtside не выпускает токены, а только проверяет срок их действия.
type Session struct {
	store  storage.AuthStorage
	logger *slog.Logger
	now    func() time.Time
}

// NewSession создает сессию поверх хранилища
func NewSession(store storage.AuthStorage, logger *slog.Logger) *Session {
	return &Session{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// SetToken сохраняет новый bearer токен. Для JWT извлекаются sub и exp,
// подпись не проверяется - это задача upstream.
func (s *Session) SetToken(ctx context.Context, token string) (*storage.AuthData, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	data := &storage.AuthData{
		AccessToken: token,
		SavedAt:     s.now().Unix(),
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Непрозрачный токен: срок действия неизвестен, о нем сообщит сервер (401)
		s.logger.Debug("Bearer token is not a JWT, expiry unknown", "error", err)
	} else {
		data.Subject = claims.Subject
		if claims.ExpiresAt != nil {
			data.ExpiresAt = claims.ExpiresAt.Unix()
		}
	}

	if data.ExpiresAt != 0 && s.expired(data.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	if err := s.store.SaveAuth(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("Session updated", "subject", data.Subject, "expires_at", data.ExpiresAt)
	return data, nil
}

// Token возвращает действующий bearer токен.
// Ошибки ErrNoSession и ErrTokenExpired оборачивают api.ErrAuthExpired.
func (s *Session) Token(ctx context.Context) (string, error) {
	data, err := s.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("failed to read session: %w", err)
	}

	if data.ExpiresAt != 0 && s.expired(data.ExpiresAt) {
		return "", ErrTokenExpired
	}

	return data.AccessToken, nil
}

// Info returns the stored session without validating it
func (s *Session) Info(ctx context.Context) (*storage.AuthData, error) {
	return s.store.GetAuth(ctx)
}

// Describe returns the session state for display. No session is not an error.
func (s *Session) Describe(ctx context.Context) (pkgapi.SessionInfo, error) {
	data, err := s.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return pkgapi.SessionInfo{}, nil
		}
		return pkgapi.SessionInfo{}, fmt.Errorf("failed to read session: %w", err)
	}

	info := pkgapi.SessionInfo{Authenticated: true, Subject: data.Subject}
	if data.ExpiresAt != 0 {
		exp := time.Unix(data.ExpiresAt, 0).UTC()
		info.ExpiresAt = &exp
		info.Expired = s.expired(data.ExpiresAt)
	}
	return info, nil
}

// Clear удаляет сохраненный токен. Отсутствие токена не ошибка.
func (s *Session) Clear(ctx context.Context) error {
	err := s.store.DeleteAuth(ctx)
	if err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *Session) expired(expiresAt int64) bool {
	return !s.now().Add(expiryLeeway).Before(time.Unix(expiresAt, 0))
}

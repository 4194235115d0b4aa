package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/courtside/internal/models"
	"github.com/iudanet/courtside/internal/server/storage"
)

// SaveCSRFToken stores a new csrf token
// If token with same token value exists, it will be replaced
func (s *Storage) SaveCSRFToken(ctx context.Context, token *models.CSRFToken) error {
	query := `
		INSERT OR REPLACE INTO csrf_tokens (token, owner_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		token.Token,
		token.OwnerID,
		toUnix(token.ExpiresAt),
		toUnix(token.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save csrf token: %w", err)
	}

	return nil
}

// GetCSRFToken retrieves csrf token by token value
func (s *Storage) GetCSRFToken(ctx context.Context, token string) (*models.CSRFToken, error) {
	query := `
		SELECT token, owner_id, expires_at, created_at
		FROM csrf_tokens
		WHERE token = ?
	`

	var (
		t                    models.CSRFToken
		expiresAt, createdAt int64
	)

	err := s.db.QueryRowContext(ctx, query, token).Scan(
		&t.Token,
		&t.OwnerID,
		&expiresAt,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get csrf token: %w", err)
	}

	t.ExpiresAt = fromUnix(expiresAt)
	t.CreatedAt = fromUnix(createdAt)
	return &t, nil
}

// DeleteExpiredTokens removes all tokens expired at now
func (s *Storage) DeleteExpiredTokens(ctx context.Context, now time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM csrf_tokens WHERE expires_at <= ?`, toUnix(now))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

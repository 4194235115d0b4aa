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

// GetIdempotencyRecord retrieves the stored response for owner and key
func (s *Storage) GetIdempotencyRecord(ctx context.Context, owner, key string) (*models.IdempotencyRecord, error) {
	query := `
		SELECT owner_id, key, method, path, status_code, body, created_at
		FROM idempotency_records
		WHERE owner_id = ? AND key = ?
	`

	var (
		rec       models.IdempotencyRecord
		createdAt int64
	)

	err := s.db.QueryRowContext(ctx, query, owner, key).Scan(
		&rec.OwnerID,
		&rec.Key,
		&rec.Method,
		&rec.Path,
		&rec.StatusCode,
		&rec.Body,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get idempotency record: %w", err)
	}

	rec.CreatedAt = fromUnix(createdAt)
	return &rec, nil
}

// SaveIdempotencyRecord stores the response, keeping an existing record for the same key
func (s *Storage) SaveIdempotencyRecord(ctx context.Context, rec *models.IdempotencyRecord) error {
	query := `
		INSERT OR IGNORE INTO idempotency_records (owner_id, key, method, path, status_code, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.OwnerID,
		rec.Key,
		rec.Method,
		rec.Path,
		rec.StatusCode,
		rec.Body,
		toUnix(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save idempotency record: %w", err)
	}

	return nil
}

// DeleteIdempotencyRecordsBefore removes records created before t
func (s *Storage) DeleteIdempotencyRecordsBefore(ctx context.Context, t time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM idempotency_records WHERE created_at < ?`, toUnix(t))
	if err != nil {
		return 0, fmt.Errorf("failed to delete idempotency records: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

// Package storage defines persistence contracts of the reference upstream
package storage

import (
	"context"
	"time"

	"github.com/iudanet/courtside/internal/models"
)

// ResourceStorage defines interface for collection documents.
// Every lookup is scoped to the owning subject.
type ResourceStorage interface {
	// CreateResource assigns the next id, stores it into r.ID and saves the document
	CreateResource(ctx context.Context, r *models.Resource) error

	// GetResource returns ErrResourceNotFound if the document doesn't exist
	GetResource(ctx context.Context, owner string, collection models.Collection, id int64) (*models.Resource, error)

	// ListResources returns documents in id order, empty slice if none
	ListResources(ctx context.Context, owner string, collection models.Collection) ([]*models.Resource, error)

	// UpdateResource replaces the document data.
	// Returns ErrResourceNotFound if the document doesn't exist
	UpdateResource(ctx context.Context, r *models.Resource) error

	// DeleteResource returns ErrResourceNotFound if the document doesn't exist
	DeleteResource(ctx context.Context, owner string, collection models.Collection, id int64) error
}

// IdempotencyStorage keeps responses of writes sent with Idempotency-Key
type IdempotencyStorage interface {
	// GetIdempotencyRecord returns ErrRecordNotFound if the key was never stored
	GetIdempotencyRecord(ctx context.Context, owner, key string) (*models.IdempotencyRecord, error)

	// SaveIdempotencyRecord stores the response. The first record for a key wins.
	SaveIdempotencyRecord(ctx context.Context, rec *models.IdempotencyRecord) error

	// DeleteIdempotencyRecordsBefore removes records created before t
	// Returns number of deleted records
	DeleteIdempotencyRecordsBefore(ctx context.Context, t time.Time) (int, error)
}

// TokenStorage defines interface for csrf token persistence
type TokenStorage interface {
	SaveCSRFToken(ctx context.Context, token *models.CSRFToken) error

	// GetCSRFToken returns ErrTokenNotFound if token doesn't exist
	GetCSRFToken(ctx context.Context, token string) (*models.CSRFToken, error)

	// DeleteExpiredTokens removes all expired tokens
	// Returns number of deleted tokens
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int, error)
}

package storage

import (
	"context"
	"time"

	"github.com/iudanet/courtside/internal/models"
)

// Store is the durable key-value contract: named collections, single-record
// transactions and an ordered, restartable read of the sync queue.
type Store interface {
	// Get returns the raw value stored under key
	// Returns ErrEntityNotFound if the key does not exist
	Get(ctx context.Context, collection models.Collection, key string) ([]byte, error)

	// Put stores value under key, overwriting any previous value.
	// The sync queue collection is rejected with ErrQueueReadOnly.
	Put(ctx context.Context, collection models.Collection, key string, value []byte) error

	// Delete removes the key. Deleting a missing key is not an error.
	// The sync queue collection is rejected with ErrQueueReadOnly.
	Delete(ctx context.Context, collection models.Collection, key string) error

	// ListQueue returns all queued actions ordered by id ascending.
	// Every call is a fresh read, not a live cursor.
	ListQueue(ctx context.Context) ([]*models.QueuedAction, error)
}

//go:generate moq -out queue_mock.go . QueueStorage

// QueueStorage defines the queue operations used by the sync manager
type QueueStorage interface {
	// SaveAction stores or updates a queued action
	SaveAction(ctx context.Context, action *models.QueuedAction) error

	// GetAction retrieves a queued action by id
	// Returns ErrActionNotFound if action doesn't exist
	GetAction(ctx context.Context, id string) (*models.QueuedAction, error)

	// DeleteAction removes a queued action
	// Returns ErrActionNotFound if action doesn't exist
	DeleteAction(ctx context.Context, id string) error

	// ListQueue returns all queued actions ordered by id ascending
	ListQueue(ctx context.Context) ([]*models.QueuedAction, error)

	// PurgeSynced removes synced actions whose retention window has passed
	// and returns how many were removed
	PurgeSynced(ctx context.Context, now time.Time, retention time.Duration) (int, error)

	// LastActionID returns the highest stored action id, or "" for an empty queue
	LastActionID(ctx context.Context) (string, error)
}

//go:generate moq -out entity_mock.go . EntityStorage

// EntityStorage defines typed access to cached server entities
type EntityStorage interface {
	// SaveEntity stores or overwrites a cached entity
	SaveEntity(ctx context.Context, entity *models.CachedEntity) error

	// GetEntity retrieves a cached entity
	// Returns ErrEntityNotFound if entity doesn't exist
	GetEntity(ctx context.Context, collection models.Collection, id string) (*models.CachedEntity, error)

	// ListEntities returns all cached entities of a collection ordered by id
	ListEntities(ctx context.Context, collection models.Collection) ([]*models.CachedEntity, error)

	// ClearEntities removes every cached entity from all entity collections
	ClearEntities(ctx context.Context) error
}

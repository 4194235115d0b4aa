package storage

import (
	"errors"
	"fmt"
)

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no authentication data exists
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrEntityNotFound indicates that no cached entity exists for the key
	ErrEntityNotFound = errors.New("cached entity not found")

	// ErrActionNotFound indicates that queued action was not found
	ErrActionNotFound = errors.New("queued action not found")

	// ErrUnknownCollection indicates that the collection is not part of the schema
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrQueueReadOnly indicates a generic write to the sync queue collection.
	// Queue records are written only through QueueStorage.
	ErrQueueReadOnly = errors.New("sync queue is read-only through the generic store")

	// ErrCacheMiss indicates that no cached response exists for the key
	ErrCacheMiss = errors.New("cache miss")

	// ErrStaleGeneration indicates that a response was fetched under a cache
	// generation that is no longer current and must not be admitted
	ErrStaleGeneration = errors.New("stale cache generation")

	// ErrStorageUnavailable indicates that the host denied storage access or
	// quota is exceeded. Enqueue callers must surface it to the user.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = fmt.Errorf("storage is closed: %w", ErrStorageUnavailable)
)

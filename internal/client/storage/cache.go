package storage

import (
	"context"
	"net/http"
	"time"
)

// CacheName identifies one of the two versioned response caches
type CacheName string

const (
	CacheStatic  CacheName = "static"  // неизменяемые ассеты
	CacheDynamic CacheName = "dynamic" // снимки ответов API
)

// CachedResponse is a stored HTTP response snapshot
type CachedResponse struct {
	StoredAt   time.Time   `json:"stored_at"`
	Header     http.Header `json:"header"`
	URL        string      `json:"url"`
	Generation string      `json:"generation"` // поколение кэша, в котором получен ответ
	Body       []byte      `json:"body"`
	StatusCode int         `json:"status_code"`
}

//go:generate moq -out cachestorage_mock.go . CacheStorage

// CacheStorage defines the versioned response caches used by the interception layer
type CacheStorage interface {
	// GetResponse returns the snapshot stored under key in the current generation
	// Returns ErrCacheMiss if nothing is stored
	GetResponse(ctx context.Context, cache CacheName, key string) (*CachedResponse, error)

	// PutResponse stores resp under key. resp.Generation must equal the current
	// generation, otherwise ErrStaleGeneration is returned and nothing is written
	PutResponse(ctx context.Context, cache CacheName, key string, resp *CachedResponse) error

	// CacheGeneration returns the current cache generation identifier
	CacheGeneration(ctx context.Context) (string, error)

	// ActivateGeneration discards every prior-generation entry and makes gen
	// current in a single transaction
	ActivateGeneration(ctx context.Context, gen string) error

	// ClearCaches empties both caches of the current generation
	ClearCaches(ctx context.Context) error
}

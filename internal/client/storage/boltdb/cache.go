package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/courtside/internal/client/storage"
)

// DefaultGeneration is the cache generation of a freshly created database
const DefaultGeneration = "1"

var (
	keyCacheGeneration = []byte("cache_generation")
	cachePrefix        = []byte("cache:")
)

// cacheBucket returns the bucket name "cache:<name>:<generation>"
func cacheBucket(name storage.CacheName, gen string) []byte {
	return []byte(fmt.Sprintf("cache:%s:%s", name, gen))
}

// currentGeneration читает поколение кэша из metadata
func currentGeneration(tx *bbolt.Tx) string {
	bucket := tx.Bucket(bucketMetadata)
	if bucket == nil {
		return DefaultGeneration
	}
	gen := bucket.Get(keyCacheGeneration)
	if gen == nil {
		return DefaultGeneration
	}
	return string(gen)
}

// CacheGeneration returns the current cache generation identifier
func (s *Storage) CacheGeneration(ctx context.Context) (string, error) {
	var gen string
	err := s.view(func(tx *bbolt.Tx) error {
		gen = currentGeneration(tx)
		return nil
	})
	return gen, err
}

// GetResponse returns the snapshot stored under key in the current generation
func (s *Storage) GetResponse(ctx context.Context, cache storage.CacheName, key string) (*storage.CachedResponse, error) {
	var resp *storage.CachedResponse

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(cacheBucket(cache, currentGeneration(tx)))
		if bucket == nil {
			return storage.ErrCacheMiss
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return storage.ErrCacheMiss
		}

		resp = &storage.CachedResponse{}
		if err := json.Unmarshal(data, resp); err != nil {
			return fmt.Errorf("failed to unmarshal cached response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// PutResponse stores resp under key. A response fetched under another
// generation is rejected with ErrStaleGeneration.
func (s *Storage) PutResponse(ctx context.Context, cache storage.CacheName, key string, resp *storage.CachedResponse) error {
	return s.update(func(tx *bbolt.Tx) error {
		gen := currentGeneration(tx)
		if resp.Generation != gen {
			return fmt.Errorf("%w: response generation %q, current %q", storage.ErrStaleGeneration, resp.Generation, gen)
		}

		bucket, err := tx.CreateBucketIfNotExists(cacheBucket(cache, gen))
		if err != nil {
			return fmt.Errorf("failed to open %s cache: %w", cache, err)
		}

		data, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("failed to marshal cached response: %w", err)
		}

		if err := bucket.Put([]byte(key), data); err != nil {
			return fmt.Errorf("failed to save cached response: %w", err)
		}
		return nil
	})
}

// ActivateGeneration drops every cache bucket and makes gen current.
// Everything happens in one transaction, so readers observe either the
// old generation or the new empty one, never a mix.
func (s *Storage) ActivateGeneration(ctx context.Context, gen string) error {
	if gen == "" {
		return fmt.Errorf("empty cache generation")
	}

	return s.update(func(tx *bbolt.Tx) error {
		if currentGeneration(tx) == gen {
			return nil
		}

		// Собираем имена, удалять во время обхода нельзя
		var stale [][]byte
		err := tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			if bytes.HasPrefix(name, cachePrefix) {
				stale = append(stale, append([]byte(nil), name...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, name := range stale {
			if err := tx.DeleteBucket(name); err != nil {
				return fmt.Errorf("failed to drop %s: %w", name, err)
			}
		}

		for _, name := range []storage.CacheName{storage.CacheStatic, storage.CacheDynamic} {
			if _, err := tx.CreateBucket(cacheBucket(name, gen)); err != nil {
				return fmt.Errorf("failed to create %s cache: %w", name, err)
			}
		}

		meta := tx.Bucket(bucketMetadata)
		if meta == nil {
			return fmt.Errorf("metadata bucket not found")
		}
		if err := meta.Put(keyCacheGeneration, []byte(gen)); err != nil {
			return fmt.Errorf("failed to save cache generation: %w", err)
		}
		return nil
	})
}

// ClearCaches empties both caches of the current generation
func (s *Storage) ClearCaches(ctx context.Context) error {
	return s.update(func(tx *bbolt.Tx) error {
		gen := currentGeneration(tx)
		for _, cache := range []storage.CacheName{storage.CacheStatic, storage.CacheDynamic} {
			name := cacheBucket(cache, gen)
			if tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return fmt.Errorf("failed to drop %s cache: %w", cache, err)
				}
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return fmt.Errorf("failed to create %s cache: %w", cache, err)
			}
		}
		return nil
	})
}

package boltdb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"syscall"
	"time"

	"go.etcd.io/bbolt"
	bolterrors "go.etcd.io/bbolt/errors"

	"github.com/iudanet/courtside/internal/client/storage"
	"github.com/iudanet/courtside/internal/models"
)

var (
	// BoltDB bucket names
	bucketAuth     = []byte("auth")
	bucketMetadata = []byte("metadata")
	bucketQueue    = []byte(models.CollectionSyncQueue)
)

var (
	_ storage.Store           = (*Storage)(nil)
	_ storage.QueueStorage    = (*Storage)(nil)
	_ storage.EntityStorage   = (*Storage)(nil)
	_ storage.CacheStorage    = (*Storage)(nil)
	_ storage.AuthStorage     = (*Storage)(nil)
	_ storage.MetadataStorage = (*Storage)(nil)
)

// openTimeout ограничивает ожидание файловой блокировки, если БД держит другой процесс
const openTimeout = 2 * time.Second

// Storage represents BoltDB storage implementation for client
type Storage struct {
	db *bbolt.DB
	mu sync.RWMutex // защищает db от закрытия во время транзакций
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", mapError(err))
	}

	s := &Storage{db: db}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", mapError(err))
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketAuth, bucketMetadata, bucketQueue} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}

		// Коллекции кэшированных сущностей
		for _, c := range models.EntityCollections {
			if _, err := tx.CreateBucketIfNotExists([]byte(c)); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", c, err)
			}
		}

		// Кэши текущего поколения
		gen := currentGeneration(tx)
		for _, name := range []storage.CacheName{storage.CacheStatic, storage.CacheDynamic} {
			if _, err := tx.CreateBucketIfNotExists(cacheBucket(name, gen)); err != nil {
				return fmt.Errorf("failed to create %s cache bucket: %w", name, err)
			}
		}

		return nil
	})
}

// update runs fn in a read-write transaction and maps host level failures
func (s *Storage) update(fn func(tx *bbolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return mapError(s.db.Update(fn))
}

// view runs fn in a read-only transaction and maps host level failures
func (s *Storage) view(fn func(tx *bbolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return mapError(s.db.View(fn))
}

// mapError приводит отказы хоста (закрытая БД, read-only, нет места) к ErrStorageUnavailable.
// Остальные ошибки возвращаются без изменений.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, bolterrors.ErrDatabaseNotOpen):
		return storage.ErrStorageClosed
	case errors.Is(err, bolterrors.ErrDatabaseReadOnly),
		errors.Is(err, bolterrors.ErrTimeout),
		errors.Is(err, syscall.ENOSPC),
		errors.Is(err, syscall.EDQUOT),
		errors.Is(err, syscall.EACCES),
		errors.Is(err, syscall.EROFS):
		return fmt.Errorf("%w: %w", storage.ErrStorageUnavailable, err)
	default:
		return err
	}
}

// entityBucket returns the bucket of a known collection
func entityBucket(tx *bbolt.Tx, collection models.Collection) (*bbolt.Bucket, error) {
	if collection != models.CollectionSyncQueue {
		if _, ok := models.ParseCollection(string(collection)); !ok {
			return nil, fmt.Errorf("%w: %q", storage.ErrUnknownCollection, collection)
		}
	}

	bucket := tx.Bucket([]byte(collection))
	if bucket == nil {
		return nil, fmt.Errorf("%s bucket not found", collection)
	}
	return bucket, nil
}

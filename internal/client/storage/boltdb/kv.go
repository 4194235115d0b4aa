package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/courtside/internal/client/storage"
	"github.com/iudanet/courtside/internal/models"
)

// Get returns a copy of the raw value stored under key
func (s *Storage) Get(ctx context.Context, collection models.Collection, key string) ([]byte, error) {
	var value []byte

	err := s.view(func(tx *bbolt.Tx) error {
		bucket, err := entityBucket(tx, collection)
		if err != nil {
			return err
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return storage.ErrEntityNotFound
		}

		// Значение валидно только внутри транзакции
		value = make([]byte, len(data))
		copy(value, data)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Put stores value under key in a single transaction
func (s *Storage) Put(ctx context.Context, collection models.Collection, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("empty key")
	}

	if collection == models.CollectionSyncQueue {
		return fmt.Errorf("%w: put %s", storage.ErrQueueReadOnly, key)
	}

	return s.update(func(tx *bbolt.Tx) error {
		bucket, err := entityBucket(tx, collection)
		if err != nil {
			return err
		}

		if err := bucket.Put([]byte(key), value); err != nil {
			return fmt.Errorf("failed to put %s/%s: %w", collection, key, err)
		}
		return nil
	})
}

// Delete removes key from collection. Missing keys are ignored
func (s *Storage) Delete(ctx context.Context, collection models.Collection, key string) error {
	if collection == models.CollectionSyncQueue {
		return fmt.Errorf("%w: delete %s", storage.ErrQueueReadOnly, key)
	}

	return s.update(func(tx *bbolt.Tx) error {
		bucket, err := entityBucket(tx, collection)
		if err != nil {
			return err
		}

		if err := bucket.Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete %s/%s: %w", collection, key, err)
		}
		return nil
	})
}

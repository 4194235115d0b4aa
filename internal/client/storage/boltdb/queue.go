package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/courtside/internal/client/storage"
	"github.com/iudanet/courtside/internal/models"
)

// SaveAction stores or updates a queued action.
// The action id is the bbolt key, so byte order of keys is enqueue order.
func (s *Storage) SaveAction(ctx context.Context, action *models.QueuedAction) error {
	if _, _, err := models.ParseActionID(action.ID); err != nil {
		return fmt.Errorf("invalid action: %w", err)
	}

	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}

		data, err := json.Marshal(action)
		if err != nil {
			return fmt.Errorf("failed to marshal action: %w", err)
		}

		if err := bucket.Put([]byte(action.ID), data); err != nil {
			return fmt.Errorf("failed to save action: %w", err)
		}

		return nil
	})
}

// GetAction retrieves a queued action by id
func (s *Storage) GetAction(ctx context.Context, id string) (*models.QueuedAction, error) {
	var action *models.QueuedAction

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrActionNotFound
		}

		action = &models.QueuedAction{}
		if err := json.Unmarshal(data, action); err != nil {
			return fmt.Errorf("failed to unmarshal action: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return action, nil
}

// DeleteAction removes a queued action
func (s *Storage) DeleteAction(ctx context.Context, id string) error {
	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}

		if bucket.Get([]byte(id)) == nil {
			return storage.ErrActionNotFound
		}

		if err := bucket.Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to delete action: %w", err)
		}

		return nil
	})
}

// ListQueue returns all queued actions ordered by id ascending.
// Each call reads a fresh snapshot.
func (s *Storage) ListQueue(ctx context.Context) ([]*models.QueuedAction, error) {
	var actions []*models.QueuedAction

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}

		// ForEach обходит ключи в порядке байтов, что совпадает с порядком id
		return bucket.ForEach(func(k, v []byte) error {
			var action models.QueuedAction
			if err := json.Unmarshal(v, &action); err != nil {
				return fmt.Errorf("failed to unmarshal action %s: %w", k, err)
			}
			actions = append(actions, &action)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return actions, nil
}

// PurgeSynced removes synced actions whose retention window has passed.
// Pending, syncing and failed actions are never touched.
func (s *Storage) PurgeSynced(ctx context.Context, now time.Time, retention time.Duration) (int, error) {
	purged := 0

	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}

		// Удалять ключи во время ForEach нельзя - собираем их заранее
		var expired [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var action models.QueuedAction
			if err := json.Unmarshal(v, &action); err != nil {
				return fmt.Errorf("failed to unmarshal action %s: %w", k, err)
			}
			if action.RetentionExpired(now, retention) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return fmt.Errorf("failed to purge action %s: %w", k, err)
			}
		}
		purged = len(expired)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return purged, nil
}

// LastActionID returns the highest stored action id, or "" when the queue is empty
func (s *Storage) LastActionID(ctx context.Context) (string, error) {
	var id string

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}

		k, _ := bucket.Cursor().Last()
		id = string(k)
		return nil
	})
	if err != nil {
		return "", err
	}

	return id, nil
}

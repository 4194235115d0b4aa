package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/courtside/internal/client/storage"
	"github.com/iudanet/courtside/internal/models"
)

// SaveEntity stores or overwrites a cached entity
func (s *Storage) SaveEntity(ctx context.Context, entity *models.CachedEntity) error {
	if entity.ID == "" {
		return fmt.Errorf("entity id is required")
	}
	if _, ok := models.ParseCollection(string(entity.Collection)); !ok {
		return fmt.Errorf("%w: %q", storage.ErrUnknownCollection, entity.Collection)
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return s.Put(ctx, entity.Collection, entity.ID, data)
}

// GetEntity retrieves a cached entity
func (s *Storage) GetEntity(ctx context.Context, collection models.Collection, id string) (*models.CachedEntity, error) {
	if _, ok := models.ParseCollection(string(collection)); !ok {
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownCollection, collection)
	}

	data, err := s.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}

	entity := &models.CachedEntity{}
	if err := json.Unmarshal(data, entity); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity: %w", err)
	}

	return entity, nil
}

// ListEntities returns all cached entities of a collection ordered by id
func (s *Storage) ListEntities(ctx context.Context, collection models.Collection) ([]*models.CachedEntity, error) {
	if _, ok := models.ParseCollection(string(collection)); !ok {
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownCollection, collection)
	}

	var entities []*models.CachedEntity

	err := s.view(func(tx *bbolt.Tx) error {
		bucket, err := entityBucket(tx, collection)
		if err != nil {
			return err
		}

		return bucket.ForEach(func(k, v []byte) error {
			var entity models.CachedEntity
			if err := json.Unmarshal(v, &entity); err != nil {
				return fmt.Errorf("failed to unmarshal entity %s: %w", k, err)
			}
			entities = append(entities, &entity)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return entities, nil
}

// ClearEntities empties every entity collection. The sync queue is kept.
func (s *Storage) ClearEntities(ctx context.Context) error {
	return s.update(func(tx *bbolt.Tx) error {
		for _, c := range models.EntityCollections {
			name := []byte(c)
			if tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return fmt.Errorf("failed to drop %s bucket: %w", c, err)
				}
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", c, err)
			}
		}
		return nil
	})
}

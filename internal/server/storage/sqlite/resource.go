package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/courtside/internal/models"
	"github.com/iudanet/courtside/internal/server/storage"
)

// CreateResource stores a new document and sets r.ID
func (s *Storage) CreateResource(ctx context.Context, r *models.Resource) error {
	query := `
		INSERT INTO resources (collection, owner_id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		string(r.Collection),
		r.OwnerID,
		[]byte(r.Data),
		toUnix(r.CreatedAt),
		toUnix(r.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert resource: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get resource id: %w", err)
	}
	r.ID = id

	return nil
}

// GetResource retrieves a single document
func (s *Storage) GetResource(ctx context.Context, owner string, collection models.Collection, id int64) (*models.Resource, error) {
	query := `
		SELECT id, collection, owner_id, data, created_at, updated_at
		FROM resources
		WHERE id = ? AND collection = ? AND owner_id = ?
	`

	r, err := scanResource(s.db.QueryRowContext(ctx, query, id, string(collection), owner))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}

	return r, nil
}

// ListResources retrieves every document of the collection owned by owner
func (s *Storage) ListResources(ctx context.Context, owner string, collection models.Collection) ([]*models.Resource, error) {
	query := `
		SELECT id, collection, owner_id, data, created_at, updated_at
		FROM resources
		WHERE owner_id = ? AND collection = ?
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, owner, string(collection))
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	resources := make([]*models.Resource, 0)
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return resources, nil
}

// UpdateResource replaces the document data
func (s *Storage) UpdateResource(ctx context.Context, r *models.Resource) error {
	query := `
		UPDATE resources
		SET data = ?, updated_at = ?
		WHERE id = ? AND collection = ? AND owner_id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		[]byte(r.Data),
		toUnix(r.UpdatedAt),
		r.ID,
		string(r.Collection),
		r.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
	}

	return requireAffected(result, storage.ErrResourceNotFound)
}

// DeleteResource deletes a document
func (s *Storage) DeleteResource(ctx context.Context, owner string, collection models.Collection, id int64) error {
	query := `DELETE FROM resources WHERE id = ? AND collection = ? AND owner_id = ?`

	result, err := s.db.ExecContext(ctx, query, id, string(collection), owner)
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}

	return requireAffected(result, storage.ErrResourceNotFound)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResource(row scanner) (*models.Resource, error) {
	var (
		r                    models.Resource
		collection           string
		data                 []byte
		createdAt, updatedAt int64
	)

	if err := row.Scan(&r.ID, &collection, &r.OwnerID, &data, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	r.Collection = models.Collection(collection)
	r.Data = data
	r.CreatedAt = fromUnix(createdAt)
	r.UpdatedAt = fromUnix(updatedAt)
	return &r, nil
}

// requireAffected возвращает notFound, если запрос не затронул ни одной строки
func requireAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

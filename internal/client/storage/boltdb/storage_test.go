package boltdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
	bolterrors "go.etcd.io/bbolt/errors"

	"github.com/iudanet/courtside/internal/client/storage"
	"github.com/iudanet/courtside/internal/models"
)

// createTestStorage создает временное BoltDB хранилище
func createTestStorage(t *testing.T) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "courtside_test.db")
	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func allBuckets() [][]byte {
	names := [][]byte{bucketAuth, bucketMetadata, bucketQueue}
	for _, c := range models.EntityCollections {
		names = append(names, []byte(c))
	}
	names = append(names,
		cacheBucket(storage.CacheStatic, DefaultGeneration),
		cacheBucket(storage.CacheDynamic, DefaultGeneration),
	)
	return names
}

func TestNew_Success(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "testdb.db")

	ctx := context.Background()
	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() {
		require.NoError(t, store.Close())
	}()

	// Проверяем что файл БД действительно создан
	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	// Проверяем, что бакеты существуют
	err = store.db.View(func(tx *bbolt.Tx) error {
		for _, b := range allBuckets() {
			if tx.Bucket(b) == nil {
				return fmt.Errorf("bucket %s: %w", b, os.ErrNotExist)
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	ctx := context.Background()
	// Путь с нулевым символом дает ошибку открытия
	invalidPath := string([]byte{0})
	store, err := New(ctx, invalidPath)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNew_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	store, err := New(ctx, dbPath)
	require.NoError(t, err)

	action := &models.QueuedAction{ID: models.FormatActionID(1, 0), Method: models.MethodCreate, Status: models.StatusPending}
	require.NoError(t, store.SaveAction(ctx, action))
	require.NoError(t, store.ActivateGeneration(ctx, "7"))
	require.NoError(t, store.Close())

	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.GetAction(ctx, action.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)

	gen, err := store.CacheGeneration(ctx)
	require.NoError(t, err)
	assert.Equal(t, "7", gen)
}

func TestClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "testdb.db")

	ctx := context.Background()
	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)

	err = store.Close()
	assert.NoError(t, err)

	// После закрытия поле db должно стать nil
	assert.Nil(t, store.db)

	// Второй вызов Close ничего не делает
	err = store.Close()
	assert.NoError(t, err)
}

func TestClosedStorage_Unavailable(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	err = store.SaveAction(ctx, &models.QueuedAction{ID: models.FormatActionID(1, 0)})
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, err, storage.ErrStorageUnavailable)

	_, err = store.ListQueue(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
}

func TestClose_ConcurrentWithTransactions(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, filepath.Join(t.TempDir(), "closing.db"))
	require.NoError(t, err)
	require.NoError(t, store.SaveAction(ctx, &models.QueuedAction{ID: models.FormatActionID(1, 0)}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := store.ListQueue(ctx)
				if err != nil {
					// После закрытия - только ErrStorageClosed
					assert.ErrorIs(t, err, storage.ErrStorageClosed)
					return
				}
			}
		}()
	}

	require.NoError(t, store.Close())
	wg.Wait()

	_, err = store.ListQueue(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestInitBuckets_CreatesBuckets(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "testdb.db")

	// Открываем БД вручную без создания бакетов
	db, err := bbolt.Open(dbPath, 0600, nil)
	require.NoError(t, err)
	defer db.Close()

	store := &Storage{db: db}

	err = store.initBuckets()
	assert.NoError(t, err)

	err = db.View(func(tx *bbolt.Tx) error {
		for _, b := range allBuckets() {
			if tx.Bucket(b) == nil {
				return fmt.Errorf("bucket %s: %w", b, os.ErrNotExist)
			}
		}
		return nil
	})
	assert.NoError(t, err)

	// Повторный вызов идемпотентен
	assert.NoError(t, store.initBuckets())
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantUnavailable bool
	}{
		{name: "nil", err: nil},
		{name: "closed database", err: bolterrors.ErrDatabaseNotOpen, wantUnavailable: true},
		{name: "read only", err: bolterrors.ErrDatabaseReadOnly, wantUnavailable: true},
		{name: "lock timeout", err: bolterrors.ErrTimeout, wantUnavailable: true},
		{name: "disk full", err: &os.PathError{Op: "write", Path: "db", Err: syscall.ENOSPC}, wantUnavailable: true},
		{name: "quota", err: fmt.Errorf("grow: %w", syscall.EDQUOT), wantUnavailable: true},
		{name: "domain error", err: storage.ErrActionNotFound},
		{name: "plain error", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.wantUnavailable, errors.Is(got, storage.ErrStorageUnavailable))
			if !tt.wantUnavailable {
				assert.Equal(t, tt.err, got)
			}
		})
	}
}

package boltdb

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/courtside/internal/client/storage"
	"github.com/iudanet/courtside/internal/models"
)

func TestEntities_SaveGetOverwrite(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	entity := &models.CachedEntity{
		FetchedAt:  time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC),
		Collection: models.CollectionGames,
		ID:         "5",
		SourceURL:  "http://upstream/api/games/5",
		Data:       json.RawMessage(`{"id":5,"home":"Lakers"}`),
	}
	require.NoError(t, store.SaveEntity(ctx, entity))

	got, err := store.GetEntity(ctx, models.CollectionGames, "5")
	require.NoError(t, err)
	assert.Equal(t, entity.SourceURL, got.SourceURL)
	assert.True(t, entity.FetchedAt.Equal(got.FetchedAt))
	assert.JSONEq(t, string(entity.Data), string(got.Data))

	entity.Data = json.RawMessage(`{"id":5,"home":"Celtics"}`)
	require.NoError(t, store.SaveEntity(ctx, entity))

	got, err = store.GetEntity(ctx, models.CollectionGames, "5")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":5,"home":"Celtics"}`, string(got.Data))

	// Другая коллекция с тем же id не затрагивается
	_, err = store.GetEntity(ctx, models.CollectionShots, "5")
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)
}

func TestEntities_UnknownCollection(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	err := store.SaveEntity(ctx, &models.CachedEntity{Collection: "referees", ID: "1"})
	assert.ErrorIs(t, err, storage.ErrUnknownCollection)

	_, err = store.GetEntity(ctx, models.CollectionSyncQueue, "1")
	assert.ErrorIs(t, err, storage.ErrUnknownCollection)

	_, err = store.ListEntities(ctx, "referees")
	assert.ErrorIs(t, err, storage.ErrUnknownCollection)
}

func TestEntities_ListAndClear(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	for _, id := range []string{"2", "1", "3"} {
		require.NoError(t, store.SaveEntity(ctx, &models.CachedEntity{
			Collection: models.CollectionPlayers,
			ID:         id,
			Data:       json.RawMessage(`{}`),
		}))
	}
	queued := newAction(1, 0, models.StatusPending)
	require.NoError(t, store.SaveAction(ctx, queued))

	players, err := store.ListEntities(ctx, models.CollectionPlayers)
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, "1", players[0].ID)
	assert.Equal(t, "3", players[2].ID)

	require.NoError(t, store.ClearEntities(ctx))

	players, err = store.ListEntities(ctx, models.CollectionPlayers)
	require.NoError(t, err)
	assert.Empty(t, players)

	// Очередь очисткой кэша не затрагивается
	_, err = store.GetAction(ctx, queued.ID)
	assert.NoError(t, err)
}

func TestKV_GetPutDelete(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	_, err := store.Get(ctx, models.CollectionTeams, "9")
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)

	require.NoError(t, store.Put(ctx, models.CollectionTeams, "9", []byte(`{"name":"Bulls"}`)))

	value, err := store.Get(ctx, models.CollectionTeams, "9")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Bulls"}`, string(value))

	require.NoError(t, store.Delete(ctx, models.CollectionTeams, "9"))
	_, err = store.Get(ctx, models.CollectionTeams, "9")
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)

	// Удаление отсутствующего ключа - не ошибка
	assert.NoError(t, store.Delete(ctx, models.CollectionTeams, "9"))

	assert.Error(t, store.Put(ctx, models.CollectionTeams, "", []byte(`{}`)))
	assert.ErrorIs(t, store.Put(ctx, "referees", "1", []byte(`{}`)), storage.ErrUnknownCollection)
}

func TestKV_QueueCollection(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	action := newAction(10, 0, models.StatusPending)
	require.NoError(t, store.SaveAction(ctx, action))

	raw, err := store.Get(ctx, models.CollectionSyncQueue, action.ID)
	require.NoError(t, err)

	var decoded models.QueuedAction
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, action.ID, decoded.ID)

	// Очередь меняется только через QueueStorage
	err = store.Put(ctx, models.CollectionSyncQueue, action.ID, []byte(`{"status":"synced"}`))
	assert.ErrorIs(t, err, storage.ErrQueueReadOnly)
	err = store.Delete(ctx, models.CollectionSyncQueue, action.ID)
	assert.ErrorIs(t, err, storage.ErrQueueReadOnly)

	stored, err := store.GetAction(ctx, action.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

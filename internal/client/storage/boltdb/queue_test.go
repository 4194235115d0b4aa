package boltdb

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/courtside/internal/client/storage"
	"github.com/iudanet/courtside/internal/models"
)

func newAction(nanos int64, counter int, status models.ActionStatus) *models.QueuedAction {
	return &models.QueuedAction{
		ID:           models.FormatActionID(nanos, counter),
		Method:       models.MethodCreate,
		ResourcePath: "/api/shots",
		Payload:      json.RawMessage(`{"gameId":5,"x":10,"y":20,"result":"goal"}`),
		EnqueuedAt:   time.Unix(0, nanos).UTC(),
		Status:       status,
	}
}

func TestQueue_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	action := newAction(100, 0, models.StatusPending)
	require.NoError(t, store.SaveAction(ctx, action))

	got, err := store.GetAction(ctx, action.ID)
	require.NoError(t, err)
	assert.Equal(t, action.ID, got.ID)
	assert.Equal(t, action.ResourcePath, got.ResourcePath)
	assert.JSONEq(t, string(action.Payload), string(got.Payload))
	assert.Equal(t, models.StatusPending, got.Status)

	// Обновление статуса
	got.Status = models.StatusSyncing
	require.NoError(t, store.SaveAction(ctx, got))
	got, err = store.GetAction(ctx, action.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSyncing, got.Status)

	require.NoError(t, store.DeleteAction(ctx, action.ID))

	_, err = store.GetAction(ctx, action.ID)
	assert.ErrorIs(t, err, storage.ErrActionNotFound)

	err = store.DeleteAction(ctx, action.ID)
	assert.ErrorIs(t, err, storage.ErrActionNotFound)
}

func TestQueue_SaveAction_InvalidID(t *testing.T) {
	store := createTestStorage(t)

	err := store.SaveAction(context.Background(), &models.QueuedAction{ID: "shot-1"})
	assert.Error(t, err)
}

func TestQueue_ListQueue_Ordered(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	gen, err := models.NewIDGenerator("")
	require.NoError(t, err)

	ids := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		ids = append(ids, gen.Next())
	}

	// Сохраняем в случайном порядке - чтение все равно по возрастанию id
	shuffled := append([]string(nil), ids...)
	rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	for _, id := range shuffled {
		require.NoError(t, store.SaveAction(ctx, &models.QueuedAction{ID: id, Status: models.StatusPending}))
	}

	actions, err := store.ListQueue(ctx)
	require.NoError(t, err)
	require.Len(t, actions, len(ids))
	for i, a := range actions {
		assert.Equal(t, ids[i], a.ID)
	}

	// Каждый вызов - новое чтение
	require.NoError(t, store.DeleteAction(ctx, ids[0]))
	actions, err = store.ListQueue(ctx)
	require.NoError(t, err)
	assert.Len(t, actions, len(ids)-1)
}

func TestQueue_ListQueue_Empty(t *testing.T) {
	store := createTestStorage(t)

	actions, err := store.ListQueue(context.Background())
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestQueue_PurgeSynced_RetentionBoundary(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	const retention = 7 * 24 * time.Hour
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	ago := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	exactly := newAction(1, 0, models.StatusSynced)
	exactly.SyncedAt = ago(retention)

	almost := newAction(2, 0, models.StatusSynced)
	almost.SyncedAt = ago(retention - time.Second)

	oldPending := newAction(3, 0, models.StatusPending)
	oldPending.EnqueuedAt = now.Add(-30 * 24 * time.Hour)

	oldFailed := newAction(4, 0, models.StatusFailed)
	oldFailed.FailedAt = ago(30 * 24 * time.Hour)

	for _, a := range []*models.QueuedAction{exactly, almost, oldPending, oldFailed} {
		require.NoError(t, store.SaveAction(ctx, a))
	}

	purged, err := store.PurgeSynced(ctx, now, retention)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = store.GetAction(ctx, exactly.ID)
	assert.ErrorIs(t, err, storage.ErrActionNotFound)

	actions, err := store.ListQueue(ctx)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	assert.Equal(t, almost.ID, actions[0].ID)
	assert.Equal(t, oldPending.ID, actions[1].ID)
	assert.Equal(t, oldFailed.ID, actions[2].ID)
}

func TestQueue_LastActionID(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	id, err := store.LastActionID(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	for _, a := range []*models.QueuedAction{
		newAction(300, 0, models.StatusPending),
		newAction(100, 0, models.StatusSynced),
		newAction(300, 2, models.StatusFailed),
	} {
		require.NoError(t, store.SaveAction(ctx, a))
	}

	id, err = store.LastActionID(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.FormatActionID(300, 2), id)
}

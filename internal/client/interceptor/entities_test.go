package interceptor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/courtside/internal/models"
)

func TestResourcePath(t *testing.T) {
	tests := []struct {
		path           string
		wantCollection models.Collection
		wantID         string
		wantOK         bool
	}{
		{"/api/games", models.CollectionGames, "", true},
		{"/api/games/", models.CollectionGames, "", true},
		{"/api/games/42", models.CollectionGames, "42", true},
		{"/api/players/p-7", models.CollectionPlayers, "p-7", true},
		{"/api/games/42/shots", "", "", false},
		{"/api/scoreboard", "", "", false},
		{"/api/syncQueue/1", "", "", false},
		{"/static/games/1", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			collection, id, ok := resourcePath("/api/", tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCollection, collection)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestExtractEntities_Object(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	entities := extractEntities(models.CollectionGames, "5", []byte(` {"id":5,"home":"A"} `), "http://x/api/games/5", now)
	require.Len(t, entities, 1)
	assert.Equal(t, "5", entities[0].ID)
	assert.Equal(t, models.CollectionGames, entities[0].Collection)
	assert.Equal(t, now, entities[0].FetchedAt)
	assert.Equal(t, "http://x/api/games/5", entities[0].SourceURL)
	assert.JSONEq(t, `{"id":5,"home":"A"}`, string(entities[0].Data))
}

func TestExtractEntities_ObjectWithoutIDUsesPath(t *testing.T) {
	entities := extractEntities(models.CollectionTeams, "lakers", []byte(`{"name":"Lakers"}`), "", time.Now())
	require.Len(t, entities, 1)
	assert.Equal(t, "lakers", entities[0].ID)

	assert.Empty(t, extractEntities(models.CollectionTeams, "", []byte(`{"name":"Lakers"}`), "", time.Now()))
}

func TestExtractEntities_Array(t *testing.T) {
	body := []byte(`[{"id":1},{"id":"two"},{"noid":true},3,{"id":{"nested":1}}]`)

	entities := extractEntities(models.CollectionShots, "", body, "", time.Now())
	require.Len(t, entities, 2)
	assert.Equal(t, "1", entities[0].ID)
	assert.Equal(t, "two", entities[1].ID)

	// Массив по пути конкретной сущности не разбирается
	assert.Empty(t, extractEntities(models.CollectionShots, "1", body, "", time.Now()))
}

func TestExtractEntities_NotJSON(t *testing.T) {
	assert.Empty(t, extractEntities(models.CollectionEvents, "1", []byte("<html>"), "", time.Now()))
	assert.Empty(t, extractEntities(models.CollectionEvents, "1", nil, "", time.Now()))
	assert.Empty(t, extractEntities(models.CollectionEvents, "", []byte("[broken"), "", time.Now()))
}

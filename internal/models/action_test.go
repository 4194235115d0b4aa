package models

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodFromHTTP(t *testing.T) {
	tests := []struct {
		name    string
		verb    string
		want    ActionMethod
		wantErr bool
	}{
		{name: "post is create", verb: http.MethodPost, want: MethodCreate},
		{name: "put is update", verb: http.MethodPut, want: MethodUpdate},
		{name: "patch is update", verb: http.MethodPatch, want: MethodUpdate},
		{name: "delete", verb: http.MethodDelete, want: MethodDelete},
		{name: "lower case verb", verb: "post", want: MethodCreate},
		{name: "get is not a write", verb: http.MethodGet, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MethodFromHTTP(tt.verb)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueuedAction_HTTPMethod(t *testing.T) {
	tests := []struct {
		name   string
		action QueuedAction
		want   string
	}{
		{name: "create", action: QueuedAction{Method: MethodCreate}, want: http.MethodPost},
		{name: "update", action: QueuedAction{Method: MethodUpdate}, want: http.MethodPut},
		{name: "delete", action: QueuedAction{Method: MethodDelete}, want: http.MethodDelete},
		{name: "original verb wins", action: QueuedAction{Method: MethodUpdate, Verb: http.MethodPatch}, want: http.MethodPatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.action.HTTPMethod())
		})
	}
}

func TestQueuedAction_IsOutstanding(t *testing.T) {
	assert.True(t, (&QueuedAction{Status: StatusPending}).IsOutstanding())
	assert.True(t, (&QueuedAction{Status: StatusSyncing}).IsOutstanding())
	assert.True(t, (&QueuedAction{Status: StatusFailed}).IsOutstanding())
	assert.False(t, (&QueuedAction{Status: StatusSynced}).IsOutstanding())
}

func TestQueuedAction_RetentionExpired(t *testing.T) {
	const retention = 7 * 24 * time.Hour
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	at := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	tests := []struct {
		name   string
		action QueuedAction
		want   bool
	}{
		{
			name:   "synced exactly at the boundary",
			action: QueuedAction{Status: StatusSynced, SyncedAt: at(retention)},
			want:   true,
		},
		{
			name:   "synced one nanosecond before the boundary",
			action: QueuedAction{Status: StatusSynced, SyncedAt: at(retention - time.Nanosecond)},
			want:   false,
		},
		{
			name:   "synced long ago",
			action: QueuedAction{Status: StatusSynced, SyncedAt: at(30 * 24 * time.Hour)},
			want:   true,
		},
		{
			name:   "pending never expires",
			action: QueuedAction{Status: StatusPending, SyncedAt: at(30 * 24 * time.Hour)},
			want:   false,
		},
		{
			name:   "failed never expires",
			action: QueuedAction{Status: StatusFailed, SyncedAt: at(30 * 24 * time.Hour)},
			want:   false,
		},
		{
			name:   "synced without timestamp",
			action: QueuedAction{Status: StatusSynced},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.action.RetentionExpired(now, retention))
		})
	}
}

func TestQueuedAction_Clone(t *testing.T) {
	syncedAt := time.Now()
	original := &QueuedAction{
		ID:           FormatActionID(100, 1),
		Method:       MethodCreate,
		ResourcePath: "/api/shots",
		Payload:      json.RawMessage(`{"gameId":5}`),
		Status:       StatusSynced,
		SyncedAt:     &syncedAt,
		RetryCount:   2,
	}

	clone := original.Clone()
	assert.Equal(t, original, clone)

	// Изменение оригинала не должно влиять на копию
	original.Payload[2] = 'X'
	*original.SyncedAt = syncedAt.Add(time.Hour)
	assert.Equal(t, `{"gameId":5}`, string(clone.Payload))
	assert.Equal(t, syncedAt, *clone.SyncedAt)
}

func TestQueuedAction_LocalRef(t *testing.T) {
	action := &QueuedAction{ID: FormatActionID(42, 0)}
	assert.Equal(t, "local:0000000000000000042-000000", action.LocalRef())
}

func TestParseLocalRef(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID string
		wantOK bool
	}{
		{name: "placeholder", input: "local:0000000000000000042-000003", wantID: "0000000000000000042-000003", wantOK: true},
		{name: "free text", input: "local:derby rematch"},
		{name: "empty id", input: "local:"},
		{name: "no prefix", input: "0000000000000000042-000003"},
		{name: "trailing text", input: "local:0000000000000000042-000003x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ParseLocalRef(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestContainsLocalRef(t *testing.T) {
	ref := (&QueuedAction{ID: FormatActionID(42, 1)}).LocalRef()

	assert.True(t, ContainsLocalRef([]byte(`{"gameId":"`+ref+`"}`)))
	assert.True(t, ContainsLocalRef([]byte(`/api/games/`+ref+`/shots`)))
	assert.True(t, ContainsLocalRef([]byte(`{"note":"local:later","gameId":"`+ref+`"}`)))
	assert.False(t, ContainsLocalRef([]byte(`{"note":"local:derby rematch"}`)))
	assert.False(t, ContainsLocalRef([]byte(`{"note":"local:"}`)))
	assert.False(t, ContainsLocalRef(nil))
}

func TestQueuedAction_JSON(t *testing.T) {
	action := QueuedAction{
		ID:                FormatActionID(1, 0),
		Method:            MethodCreate,
		ResourcePath:      "/api/shots",
		Payload:           json.RawMessage(`{"gameId":"local:x"}`),
		Status:            StatusPending,
		DependsOnActionID: "x",
	}

	data, err := json.Marshal(action)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"depends_on_action_id":"x"`)
	assert.NotContains(t, string(data), "synced_at")
}

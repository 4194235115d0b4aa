package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIdempotencyRecord_Matches(t *testing.T) {
	rec := &IdempotencyRecord{Method: "POST", Path: "/api/games"}

	assert.True(t, rec.Matches("POST", "/api/games"))
	assert.False(t, rec.Matches("PUT", "/api/games"))
	assert.False(t, rec.Matches("POST", "/api/shots"))
}

func TestCSRFToken_IsValidFor(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := &CSRFToken{Token: "t", OwnerID: "scorer", ExpiresAt: now.Add(time.Minute)}

	tests := []struct {
		now   time.Time
		name  string
		owner string
		want  bool
	}{
		{name: "valid", owner: "scorer", now: now, want: true},
		{name: "other owner", owner: "coach", now: now, want: false},
		{name: "expired", owner: "scorer", now: now.Add(time.Minute), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, token.IsValidFor(tt.owner, tt.now))
		})
	}
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCollection(t *testing.T) {
	for _, c := range EntityCollections {
		got, ok := ParseCollection(string(c))
		assert.True(t, ok, c)
		assert.Equal(t, c, got)
	}

	_, ok := ParseCollection(string(CollectionSyncQueue))
	assert.False(t, ok, "queue is not an entity collection")

	_, ok = ParseCollection("referees")
	assert.False(t, ok)
}

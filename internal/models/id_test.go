package models

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGenerator_Monotonic(t *testing.T) {
	g, err := NewIDGenerator("")
	require.NoError(t, err)

	// Замораживаем часы - порядок должен держаться за счет счетчика
	frozen := time.Unix(1700000000, 0)
	g.now = func() time.Time { return frozen }

	ids := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		ids = append(ids, g.Next())
	}

	assert.True(t, sort.StringsAreSorted(ids))
	for i := 1; i < len(ids); i++ {
		assert.NotEqual(t, ids[i-1], ids[i])
	}
}

func TestIDGenerator_ClockGoesBackwards(t *testing.T) {
	g, err := NewIDGenerator("")
	require.NoError(t, err)

	current := time.Unix(1700000000, 500)
	g.now = func() time.Time { return current }
	first := g.Next()

	current = current.Add(-time.Hour)
	second := g.Next()

	assert.Less(t, first, second)
}

func TestIDGenerator_Seed(t *testing.T) {
	seed := FormatActionID(time.Now().Add(time.Hour).UnixNano(), 7)

	g, err := NewIDGenerator(seed)
	require.NoError(t, err)

	next := g.Next()
	assert.Greater(t, next, seed)
}

func TestIDGenerator_CounterOverflow(t *testing.T) {
	g, err := NewIDGenerator(FormatActionID(1000, maxIDCounter))
	require.NoError(t, err)
	g.now = func() time.Time { return time.Unix(0, 10) }

	next := g.Next()
	assert.Equal(t, FormatActionID(1001, 0), next)
}

func TestNewIDGenerator_InvalidSeed(t *testing.T) {
	_, err := NewIDGenerator("not-an-id")
	assert.Error(t, err)
}

func TestParseActionID(t *testing.T) {
	nanos, counter, err := ParseActionID(FormatActionID(123456789, 42))
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), nanos)
	assert.Equal(t, 42, counter)

	for _, bad := range []string{"", "123-1", "abcdefghijklmnopqrs-000001", "0000000000000000001-00000x"} {
		_, _, err := ParseActionID(bad)
		assert.Error(t, err, bad)
	}
}

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "", want: slog.LevelInfo},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: " error ", want: slog.LevelError},
		{in: "trace", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Config{Level: "warn", Format: FormatJSON}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("Drain cycle started", "trigger", "online")
	logger.Warn("Transient replay failure, drain stopped", "action_id", "0000000000000000001-000000")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "0000000000000000001-000000", record["action_id"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Config{Level: "debug"}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug("Task fired", "task", "courtside-sync")
	assert.Contains(t, buf.String(), "task=courtside-sync")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "agent.log")

	var stderr bytes.Buffer
	logger, closer, err := New(Config{Level: "info", Format: FormatText, File: path, MaxSizeMB: 1}, &stderr)
	require.NoError(t, err)

	logger.Info("Agent started", "listen", "127.0.0.1:7070")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Agent started")
	assert.Empty(t, stderr.String())
}

func TestNew_InvalidConfig(t *testing.T) {
	_, _, err := New(Config{Format: "xml"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, _, err = New(Config{Level: "loud"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
}

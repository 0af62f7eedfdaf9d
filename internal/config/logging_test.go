package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerToJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LoggingConfig{Level: "warn", Format: "json"})

	logger.Info().Msg("dropped")
	logger.Warn().Str("component", "test").Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	require.Equal(t, "kept", entry["message"])
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "eventhub", entry["service"])
	require.Equal(t, "test", entry["component"])
}

func TestNewLoggerToUnknownLevel(t *testing.T) {
	logger := NewLoggerTo(&bytes.Buffer{}, LoggingConfig{Level: "loud"})
	require.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

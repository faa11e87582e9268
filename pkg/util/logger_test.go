package util

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]LogLevel{
		"":       LevelInfo,
		"debug":  LevelDebug,
		" WARN ": LevelWarn,
		"error":  LevelError,
		"Info":   LevelInfo,
	} {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLogLevel("trace")
	assert.Error(t, err)
	assert.Equal(t, slog.LevelInfo, ParseLevel("trace"))
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
}

func TestParseLogFormat(t *testing.T) {
	f, err := ParseLogFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseLogFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseLogFormat("yaml")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LevelWarn, Format: FormatJSON, Output: &buf})

	logger.Info("dropped")
	logger.Warn("kept", "file", "a.ts")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "a.ts", record["file"])

	buf.Reset()
	NewLogger(LoggerConfig{Level: LevelInfo, Format: FormatText, Output: &buf}).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

package mcplog

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, path string) []LogEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if scanner.Text() == "" {
			continue
		}
		var e LogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e), "line %d", len(entries)+1)
		entries = append(entries, e)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestSanitizeParams(t *testing.T) {
	long := strings.Repeat("x", 200)

	tests := []struct {
		name  string
		input map[string]any
		want  map[string]any
	}{
		{"nil", nil, map[string]any{}},
		{"short string", map[string]any{"path": "src/lib/Button.svelte"}, map[string]any{"path": "src/lib/Button.svelte"}},
		{"long string", map[string]any{"source": long}, map[string]any{"source_len": 200}},
		{"at the limit", map[string]any{"lang": strings.Repeat("a", maxLoggedString)}, map[string]any{"lang": strings.Repeat("a", maxLoggedString)}},
		{"bool and nil", map[string]any{"summary_only": true, "extra": nil}, map[string]any{"summary_only": true, "extra": nil}},
		{"any list", map[string]any{"root": "src", "include": []any{"lib/**", "routes/**"}}, map[string]any{"root": "src", "include_count": 2}},
		{"string list", map[string]any{"exclude": []string{"a", "b", "c"}}, map[string]any{"exclude_count": 3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeParams(tc.input))
		})
	}
}

func TestResponseBytes(t *testing.T) {
	assert.Zero(t, ResponseBytes(nil))
	assert.Greater(t, ResponseBytes(mcp.NewToolResultText(`{"files":[]}`)), len(`{"files":[]}`))
}

func TestFormatTook(t *testing.T) {
	assert.Equal(t, "2ms", FormatTook(2*time.Millisecond))
	assert.Equal(t, "1.5s", FormatTook(1500*time.Millisecond))
}

func TestNewEntry(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	req := toolRequest("extract_source", map[string]any{"path": "a.ts", "source": strings.Repeat("x", 100)})

	entry := NewEntry(req, start, 1500*time.Millisecond, mcp.NewToolResultError("boom"), nil)
	assert.Equal(t, "2024-05-01T12:00:00Z", entry.Ts)
	assert.Equal(t, "extract_source", entry.Tool)
	assert.Equal(t, map[string]any{"path": "a.ts", "source_len": 100}, entry.Params)
	assert.EqualValues(t, 1500, entry.DurationMs)
	assert.Equal(t, "1.5s", entry.Took)
	assert.True(t, entry.IsError)
	assert.Nil(t, entry.Error)

	entry = NewEntry(req, start, time.Millisecond, nil, errors.New("handler failed"))
	assert.False(t, entry.IsError)
	assert.Zero(t, entry.ResponseBytes)
	require.NotNil(t, entry.Error)
	assert.Equal(t, "handler failed", *entry.Error)
}

func TestLogger_WriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)
	assert.Equal(t, path, logger.Path())

	entries := []LogEntry{
		{Tool: "extract_file", Params: map[string]any{"path": "a.ts"}, DurationMs: 5, Took: "5ms", ResponseBytes: 100},
		{Tool: "extract_source", Params: map[string]any{"path": "B.svelte", "source_len": 1200}, DurationMs: 42, Took: "0.042s"},
		{Tool: "highlight", Params: map[string]any{"lang": "ts"}, DurationMs: 3, Took: "3ms", IsError: true},
	}
	for _, e := range entries {
		require.NoError(t, logger.Write(e))
	}
	require.NoError(t, logger.Close())

	got := readEntries(t, path)
	require.Len(t, got, len(entries))
	for i, e := range entries {
		assert.Equal(t, e.Tool, got[i].Tool)
		assert.Equal(t, e.DurationMs, got[i].DurationMs)
		assert.Equal(t, e.IsError, got[i].IsError)
	}
}

func TestLogger_Record(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	orig := Now
	Now = func() time.Time { return start.Add(7 * time.Millisecond) }
	defer func() { Now = orig }()

	path := filepath.Join(t.TempDir(), "calls.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)

	req := toolRequest("highlight", map[string]any{"code": "let x = 1"})
	require.NoError(t, logger.Record(req, start, mcp.NewToolResultText("<pre></pre>"), nil))
	require.NoError(t, logger.Close())

	got := readEntries(t, path)
	require.Len(t, got, 1)
	assert.Equal(t, "highlight", got[0].Tool)
	assert.EqualValues(t, 7, got[0].DurationMs)
	assert.Equal(t, "7ms", got[0].Took)
	assert.Equal(t, "let x = 1", got[0].Params["code"])
}

func TestLogger_Concurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)

	const goroutines = 50
	const writesEach = 10

	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range writesEach {
				_ = logger.Write(LogEntry{Tool: "extract_directory"})
			}
		}()
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	assert.Len(t, readEntries(t, path), goroutines*writesEach)
}

func TestNewLogger_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "mcp.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)
	defer logger.Close()

	assert.FileExists(t, path)
}

func TestNewLogger_EmptyPath(t *testing.T) {
	logger, err := NewLogger("")
	require.NoError(t, err)
	assert.Nil(t, logger)

	assert.NoError(t, logger.Write(LogEntry{Tool: "extract_file"}))
	assert.NoError(t, logger.Record(toolRequest("extract_file", nil), time.Now(), nil, nil))
	assert.NoError(t, logger.Close())
	assert.Empty(t, logger.Path())
}

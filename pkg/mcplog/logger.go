// Package mcplog appends one JSON line per MCP tool call to a log file.
package mcplog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gnana997/extractinator/pkg/util"
	"github.com/mark3labs/mcp-go/mcp"
)

// maxLoggedString is the longest string argument logged verbatim. Source
// text and code to highlight are logged by length only.
const maxLoggedString = 64

// LogEntry is one line of the tool-call log.
type LogEntry struct {
	Ts            string         `json:"ts"`
	Tool          string         `json:"tool"`
	Params        map[string]any `json:"params"`
	DurationMs    int64          `json:"duration_ms"`
	Took          string         `json:"took"`
	ResponseBytes int            `json:"response_bytes"`

	// IsError is set when the tool answered with an error result
	IsError bool `json:"is_error"`

	// Error is the error returned by the handler itself, if any
	Error *string `json:"error"`
}

// NewEntry describes a finished call that started at start and took elapsed.
func NewEntry(req mcp.CallToolRequest, start time.Time, elapsed time.Duration, result *mcp.CallToolResult, err error) LogEntry {
	entry := LogEntry{
		Ts:            start.UTC().Format(time.RFC3339),
		Tool:          req.Params.Name,
		Params:        SanitizeParams(req.GetArguments()),
		DurationMs:    elapsed.Milliseconds(),
		Took:          FormatTook(elapsed),
		ResponseBytes: ResponseBytes(result),
		IsError:       result != nil && result.IsError,
	}
	if err != nil {
		msg := err.Error()
		entry.Error = &msg
	}
	return entry
}

// Logger writes LogEntry lines to a file. It is safe for concurrent use,
// and a nil *Logger discards everything.
type Logger struct {
	mu   sync.Mutex
	path string
	f    *os.File
	enc  *json.Encoder
}

// NewLogger opens path for appending, creating it and its parent
// directories as needed. An empty path returns a nil Logger.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return &Logger{path: path, f: f, enc: json.NewEncoder(f)}, nil
}

// Path is the file being written, or "" for a nil Logger.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Write appends entry as one line.
func (l *Logger) Write(entry LogEntry) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Record writes the entry for a call that started at start and has just
// returned result and err.
func (l *Logger) Record(req mcp.CallToolRequest, start time.Time, result *mcp.CallToolResult, err error) error {
	if l == nil {
		return nil
	}
	return l.Write(NewEntry(req, start, Now().Sub(start), result, err))
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// SanitizeParams returns a copy of args fit for logging. Strings longer
// than maxLoggedString become "<key>_len" and lists become "<key>_count".
func SanitizeParams(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		key, val := sanitize(k, v)
		out[key] = val
	}
	return out
}

func sanitize(key string, v any) (string, any) {
	switch v := v.(type) {
	case string:
		if len(v) > maxLoggedString {
			return key + "_len", len(v)
		}
	case []any:
		return key + "_count", len(v)
	case []string:
		return key + "_count", len(v)
	}
	return key, v
}

// ResponseBytes is the JSON size of a result's content, 0 for a nil result.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// FormatTook renders a call duration the way extraction logs do.
func FormatTook(d time.Duration) string {
	return util.FormatDuration(d)
}

// Now is the clock used by Record; tests replace it.
var Now = time.Now

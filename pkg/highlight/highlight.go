// Package highlight renders code as syntax-highlighted HTML.
//
// A single Highlighter is shared by the process (see Default). Themes are
// resolved once and remembered; languages resolve through chroma's lexer
// registry with "ts" accepted for TypeScript.
package highlight

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/gnana997/extractinator/pkg/util"
)

// DefaultLang is the language used when Options.Lang is empty.
const DefaultLang = "svelte"

// Options selects the language and theme of a Highlight call.
type Options struct {
	// Lang defaults to "svelte"
	Lang string `yaml:"lang" json:"lang,omitempty"`

	// Theme defaults to "serendipity"
	Theme string `yaml:"theme" json:"theme,omitempty"`
}

// WithDefaults fills empty fields with DefaultLang and DefaultTheme and
// resolves language aliases.
func (o Options) WithDefaults() Options {
	if o.Lang == "" {
		o.Lang = DefaultLang
	}
	if o.Lang == "ts" {
		o.Lang = "typescript"
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	return o
}

// Highlighter renders code with chroma.
//
// **Thread Safety:** safe for concurrent use.
type Highlighter struct {
	logger *slog.Logger

	mu     sync.RWMutex
	themes map[string]*chroma.Style
}

var (
	defaultOnce        sync.Once
	defaultHighlighter *Highlighter
)

// Default returns the process-wide Highlighter, creating it on first use.
func Default() *Highlighter {
	defaultOnce.Do(func() {
		defaultHighlighter = New(slog.Default())
	})
	return defaultHighlighter
}

// New creates a Highlighter with the default theme loaded.
func New(logger *slog.Logger) *Highlighter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Highlighter{
		logger: logger,
		themes: map[string]*chroma.Style{DefaultTheme: serendipity},
	}
}

// LoadedThemes returns the names of the themes resolved so far, sorted.
func (h *Highlighter) LoadedThemes() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.themes))
	for name := range h.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// theme resolves a theme by name. Unknown themes fall back to the default.
func (h *Highlighter) theme(name string) *chroma.Style {
	h.mu.RLock()
	style, ok := h.themes[name]
	h.mu.RUnlock()
	if ok {
		return style
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if style, ok := h.themes[name]; ok {
		return style
	}
	style, ok = styles.Registry[strings.ToLower(name)]
	if !ok {
		h.logger.Warn("unknown theme, using default", "theme", name, "default", DefaultTheme)
		return serendipity
	}
	h.themes[name] = style
	h.logger.Debug("theme loaded", "theme", name)
	return style
}

func lexer(lang string) chroma.Lexer {
	l := lexers.Get(lang)
	if l == nil {
		l = lexers.Fallback
	}
	return chroma.Coalesce(l)
}

// Highlight renders text as HTML. Notation comments are removed and the
// lines they mark are highlighted. When rendering fails the error is
// logged and text is returned unchanged.
func (h *Highlighter) Highlight(text string, opts Options) string {
	out, err := h.Render(text, opts)
	if err != nil {
		h.logger.Error("highlight failed", "lang", opts.Lang, "error", err)
		return text
	}
	return out
}

// Render is Highlight with the error returned instead of logged.
func (h *Highlighter) Render(text string, opts Options) (string, error) {
	start := time.Now()
	opts = opts.WithDefaults()

	clean, marks := Notations(text)
	style := h.theme(opts.Theme)

	iterator, err := lexer(opts.Lang).Tokenise(nil, clean)
	if err != nil {
		return "", fmt.Errorf("failed to tokenise %s: %w", opts.Lang, err)
	}

	formatter := html.New(
		html.WithClasses(false),
		html.TabWidth(2),
		html.HighlightLines(lineRanges(marks)),
	)

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", fmt.Errorf("failed to format %s: %w", opts.Lang, err)
	}

	h.logger.Debug("highlighted",
		"lang", opts.Lang,
		"theme", opts.Theme,
		"bytes", len(text),
		"took", util.FormatDuration(time.Since(start)))

	return buf.String(), nil
}

// Highlight renders text with the Default highlighter.
func Highlight(text string, opts Options) string {
	return Default().Highlight(text, opts)
}

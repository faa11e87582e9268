package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// poolKey names one grammar: a language plus, for TypeScript, the TSX
// variant.
type poolKey struct {
	lang  Language
	isTSX bool
}

func grammarKey(lang Language, isTSX bool) poolKey {
	return poolKey{lang: lang, isTSX: isTSX && lang == LanguageTypeScript}
}

func (k poolKey) String() string {
	if k.isTSX {
		return "tsx"
	}
	return k.lang.String()
}

var grammars = map[poolKey]func() unsafe.Pointer{
	{lang: LanguageTypeScript}:              ts_typescript.LanguageTypescript,
	{lang: LanguageTypeScript, isTSX: true}: ts_typescript.LanguageTSX,
	{lang: LanguageJavaScript}:              ts_javascript.Language,
}

// ParserManager hands out tree-sitter parsers for the script grammars.
//
// One pool per grammar is built on first use and holds at most
// getDefaultPoolSize() parsers, so that many goroutines can parse the
// same grammar at once. Callers own the trees Parse returns and must
// close them; the manager itself must be closed with Close.
//
// Example:
//
//	manager := NewParserManager(logger)
//	defer manager.Close()
//
//	tree, err := manager.Parse([]byte("export const x = 1;"), LanguageTypeScript, false)
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type ParserManager struct {
	mutex sync.RWMutex
	pools map[poolKey]*parserPool

	logger *slog.Logger

	parses atomic.Int64
	broken atomic.Int64
}

// NewParserManager creates a ParserManager. A nil logger uses slog.Default().
func NewParserManager(logger *slog.Logger) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParserManager{
		pools:  make(map[poolKey]*parserPool),
		logger: logger,
	}
}

// Parse parses source with the given grammar. isTSX is ignored for
// JavaScript.
//
// A tree with ERROR nodes is still returned; whether a partial tree is
// acceptable is up to the caller.
func (pm *ParserManager) Parse(source []byte, lang Language, isTSX bool) (*ts.Tree, error) {
	key := grammarKey(lang, isTSX)
	pool, err := pm.pool(key)
	if err != nil {
		return nil, err
	}
	pm.parses.Add(1)

	parser, err := pool.get()
	if err != nil {
		return nil, err
	}
	tree := parser.Parse(source, nil)
	pool.put(parser)

	if tree == nil {
		return nil, fmt.Errorf("%s parser returned no tree", key)
	}
	if tree.RootNode().HasError() {
		pm.broken.Add(1)
		pm.logger.Debug("parse tree contains errors", "grammar", key.String(), "bytes", len(source))
	}
	return tree, nil
}

// ParseFile parses a module file, picking the grammar from its extension.
func (pm *ParserManager) ParseFile(source []byte, filePath string) (*ts.Tree, error) {
	lang := DetectLanguage(filePath)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}
	return pm.Parse(source, lang, IsTSXFile(filePath))
}

// pool returns the pool for key, building it on first use.
func (pm *ParserManager) pool(key poolKey) (*parserPool, error) {
	pm.mutex.RLock()
	pool, ok := pm.pools[key]
	pm.mutex.RUnlock()
	if ok {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	if pool, ok = pm.pools[key]; ok {
		return pool, nil
	}

	ptr, err := pm.GetLanguagePointer(key.lang, key.isTSX)
	if err != nil {
		return nil, err
	}
	limit := getDefaultPoolSize()
	pool = newParserPool(key, ts.NewLanguage(ptr), limit, pm.logger)
	pm.pools[key] = pool

	pm.logger.Debug("created parser pool", "grammar", key.String(), "limit", limit)
	return pool, nil
}

// GetLanguagePointer returns the raw tree-sitter grammar. QueryManager
// compiles its queries against it so they match the trees Parse builds.
func (pm *ParserManager) GetLanguagePointer(lang Language, isTSX bool) (unsafe.Pointer, error) {
	grammar, ok := grammars[grammarKey(lang, isTSX)]
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	return grammar(), nil
}

// Close closes every pool. The manager cannot be used afterwards.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	closed := 0
	for _, pool := range pm.pools {
		closed += pool.close()
	}
	pm.logger.Debug("closed parser manager",
		"pools", len(pm.pools),
		"parsers_closed", closed,
		"parses", pm.parses.Load(),
		"trees_with_errors", pm.broken.Load())

	pm.pools = make(map[poolKey]*parserPool)
	return nil
}

// ParserStats reports parser usage.
type ParserStats struct {
	// ParsersCreated counts parsers built across all pools
	ParsersCreated int

	// ParsesCalled counts Parse calls that reached a pool
	ParsesCalled int

	// TreesWithErrors counts trees that came back with ERROR nodes
	TreesWithErrors int
}

// GetStats returns parser usage statistics.
func (pm *ParserManager) GetStats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	created := 0
	for _, pool := range pm.pools {
		created += int(pool.built.Load())
	}
	return ParserStats{
		ParsersCreated:  created,
		ParsesCalled:    int(pm.parses.Load()),
		TreesWithErrors: int(pm.broken.Load()),
	}
}

// Package queries compiles, caches and runs the tree-sitter queries the
// component front end uses on script blocks.
package queries

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/extractinator/pkg/parser"
	"github.com/gnana997/extractinator/pkg/parser/queries/events"
	"github.com/gnana997/extractinator/pkg/parser/queries/imports"
)

// QueryType names a query set.
type QueryType int

const (
	// QueryTypeEvents finds event dispatchers and dispatch calls
	QueryTypeEvents QueryType = iota
	// QueryTypeImports finds import statements
	QueryTypeImports
)

func (qt QueryType) String() string {
	if name, ok := queryNames[qt]; ok {
		return name
	}
	return fmt.Sprintf("QueryType(%d)", int(qt))
}

var queryNames = map[QueryType]string{
	QueryTypeEvents:  "events",
	QueryTypeImports: "imports",
}

// sources holds the query text per set and language. TS and TSX share
// text but compile separately, since a query is bound to its grammar.
var sources = map[QueryType]map[parser.Language]string{
	QueryTypeEvents: {
		parser.LanguageTypeScript: events.TSQueries,
		parser.LanguageJavaScript: events.JSQueries,
	},
	QueryTypeImports: {
		parser.LanguageTypeScript: imports.TSQueries,
		parser.LanguageJavaScript: imports.JSQueries,
	},
}

type queryKey struct {
	qtype QueryType
	lang  parser.Language
	isTSX bool
}

// QueryManager compiles each query on first use and keeps it for the
// life of the manager. It is safe for concurrent use.
//
//	qm := NewQueryManager(parserManager, logger)
//	defer qm.Close()
//
//	matches, err := qm.Run(tree, source, parser.LanguageTypeScript, false, QueryTypeEvents)
type QueryManager struct {
	parserManager *parser.ParserManager
	logger        *slog.Logger

	mutex    sync.RWMutex
	compiled map[queryKey]*ts.Query
}

// NewQueryManager creates a QueryManager compiling against pm's grammars.
// A nil logger uses slog.Default().
func NewQueryManager(pm *parser.ParserManager, logger *slog.Logger) *QueryManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryManager{
		parserManager: pm,
		logger:        logger,
		compiled:      make(map[queryKey]*ts.Query),
	}
}

// GetQuery returns the compiled qtype query for a grammar.
func (qm *QueryManager) GetQuery(lang parser.Language, isTSX bool, qtype QueryType) (*ts.Query, error) {
	key := queryKey{qtype: qtype, lang: lang, isTSX: isTSX && lang == parser.LanguageTypeScript}

	qm.mutex.RLock()
	q, ok := qm.compiled[key]
	qm.mutex.RUnlock()
	if ok {
		return q, nil
	}

	qm.mutex.Lock()
	defer qm.mutex.Unlock()
	if q, ok = qm.compiled[key]; ok {
		return q, nil
	}
	q, err := qm.compile(key)
	if err != nil {
		return nil, err
	}
	qm.compiled[key] = q
	return q, nil
}

func (qm *QueryManager) compile(key queryKey) (*ts.Query, error) {
	set, ok := sources[key.qtype]
	if !ok {
		return nil, fmt.Errorf("unknown query type: %s", key.qtype)
	}
	text, ok := set[key.lang]
	if !ok {
		return nil, fmt.Errorf("no %s queries for %s", key.qtype, key.lang)
	}

	ptr, err := qm.parserManager.GetLanguagePointer(key.lang, key.isTSX)
	if err != nil {
		return nil, err
	}
	q, qerr := ts.NewQuery(ts.NewLanguage(ptr), text)
	if qerr != nil {
		return nil, fmt.Errorf("compile %s query for %s: %s", key.qtype, key.lang, qerr.Message)
	}

	qm.logger.Debug("compiled query", "type", key.qtype.String(), "language", key.lang.String(), "isTSX", key.isTSX)
	return q, nil
}

// Run executes the qtype query for a grammar on tree.
func (qm *QueryManager) Run(tree *ts.Tree, source []byte, lang parser.Language, isTSX bool, qtype QueryType) ([]QueryMatch, error) {
	q, err := qm.GetQuery(lang, isTSX, qtype)
	if err != nil {
		return nil, err
	}
	return Execute(tree, q, source)
}

// Execute runs a compiled query on tree and returns the matches in
// document order. Capture nodes borrow from tree and are valid while it
// is open.
func Execute(tree *ts.Tree, q *ts.Query, source []byte) ([]QueryMatch, error) {
	if tree == nil || q == nil {
		return nil, fmt.Errorf("execute query: nil tree or query")
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	names := q.CaptureNames()
	var matches []QueryMatch
	iter := cursor.Matches(q, tree.RootNode(), source)
	for m := iter.Next(); m != nil; m = iter.Next() {
		match := QueryMatch{Pattern: int(m.PatternIndex)}
		for _, c := range m.Captures {
			node := c.Node
			capture := QueryCapture{Node: &node, Text: node.Utf8Text(source)}
			if int(c.Index) < len(names) {
				capture.Name = names[c.Index]
			}
			pos := node.StartPosition()
			capture.Line, capture.Column = int(pos.Row)+1, int(pos.Column)+1
			match.Captures = append(match.Captures, capture)
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// Close frees every compiled query.
func (qm *QueryManager) Close() error {
	qm.mutex.Lock()
	defer qm.mutex.Unlock()

	qm.logger.Debug("closing query manager", "queries_compiled", len(qm.compiled))
	for key, q := range qm.compiled {
		q.Close()
		delete(qm.compiled, key)
	}
	return nil
}

// QueryMatch is one match of one pattern.
type QueryMatch struct {
	// Pattern is the index of the matching pattern in the query text
	Pattern  int
	Captures []QueryCapture
}

// Capture returns the first capture called name.
func (m QueryMatch) Capture(name string) (QueryCapture, bool) {
	for _, c := range m.Captures {
		if c.Name == name {
			return c, true
		}
	}
	return QueryCapture{}, false
}

// QueryCapture is one captured node. Capture names are written
// "category.field", e.g. "dispatch.event".
type QueryCapture struct {
	Name string
	Node *ts.Node
	Text string

	// Line and Column locate the node start, both 1-based
	Line   int
	Column int
}

// Category is the part of the name before the first dot.
func (c QueryCapture) Category() string {
	category, _, _ := strings.Cut(c.Name, ".")
	return category
}

// Field is the part of the name after the first dot, or "".
func (c QueryCapture) Field() string {
	_, field, _ := strings.Cut(c.Name, ".")
	return field
}

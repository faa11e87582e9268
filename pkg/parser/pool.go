package parser

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// parserPool lends out parsers bound to one grammar.
//
// slots holds one token per parser that may still be built. get takes
// an idle parser when there is one, otherwise spends a token to build a
// new parser, and once the tokens are gone it waits for a put.
type parserPool struct {
	key     poolKey
	grammar *ts.Language
	idle    chan *ts.Parser
	slots   chan struct{}
	built   atomic.Int32
	logger  *slog.Logger
}

func newParserPool(key poolKey, grammar *ts.Language, limit int, logger *slog.Logger) *parserPool {
	p := &parserPool{
		key:     key,
		grammar: grammar,
		idle:    make(chan *ts.Parser, limit),
		slots:   make(chan struct{}, limit),
		logger:  logger,
	}
	for range limit {
		p.slots <- struct{}{}
	}
	return p
}

func (p *parserPool) get() (*ts.Parser, error) {
	select {
	case parser := <-p.idle:
		return parser, nil
	default:
	}

	select {
	case parser := <-p.idle:
		return parser, nil
	case <-p.slots:
		parser, err := p.build()
		if err != nil {
			p.slots <- struct{}{}
			return nil, err
		}
		return parser, nil
	}
}

func (p *parserPool) build() (*ts.Parser, error) {
	parser := ts.NewParser()
	if parser == nil {
		return nil, fmt.Errorf("failed to create parser")
	}
	if err := parser.SetLanguage(p.grammar); err != nil {
		parser.Close()
		return nil, fmt.Errorf("failed to set %s grammar: %w", p.key, err)
	}

	n := p.built.Add(1)
	p.logger.Debug("built parser", "grammar", p.key.String(), "built", n)
	return parser, nil
}

// put hands a parser back. A parser that does not fit is closed.
func (p *parserPool) put(parser *ts.Parser) {
	if parser == nil {
		return
	}
	select {
	case p.idle <- parser:
	default:
		parser.Close()
		p.logger.Warn("parser pool overflow, closing parser", "grammar", p.key.String())
	}
}

// close closes every idle parser and reports how many there were. The
// pool must not be used afterwards.
func (p *parserPool) close() int {
	close(p.idle)
	n := 0
	for parser := range p.idle {
		parser.Close()
		n++
	}
	return n
}

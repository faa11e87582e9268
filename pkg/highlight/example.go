package highlight

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/gnana997/extractinator/pkg/ir"
)

// Block is one rendered code block of an example.
type Block struct {
	Lang string `json:"lang"`
	Code string `json:"code"`
	HTML string `json:"html"`
}

// CodeBlocks finds the fenced code blocks of a markdown body. A body
// without fences is a single block in defaultLang.
func CodeBlocks(body, defaultLang string) []Block {
	src := []byte(body)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		var code bytes.Buffer
		lines := fence.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			code.Write(line.Value(src))
		}
		lang := string(fence.Language(src))
		if lang == "" {
			lang = defaultLang
		}
		blocks = append(blocks, Block{Lang: lang, Code: strings.TrimRight(code.String(), "\n")})
		return ast.WalkSkipChildren, nil
	})

	if len(blocks) == 0 && strings.TrimSpace(body) != "" {
		blocks = append(blocks, Block{Lang: defaultLang, Code: body})
	}
	return blocks
}

// HighlightExample renders the code blocks of an @example.
func (h *Highlighter) HighlightExample(ex ir.Example, opts Options) []Block {
	opts = opts.WithDefaults()
	blocks := CodeBlocks(ex.Content, opts.Lang)
	for i := range blocks {
		blocks[i].HTML = h.Highlight(blocks[i].Code, Options{Lang: blocks[i].Lang, Theme: opts.Theme})
	}
	return blocks
}

// HighlightComment renders every example of c.
func (h *Highlighter) HighlightComment(c *ir.Comment, opts Options) []Block {
	if c == nil {
		return nil
	}
	var out []Block
	for _, ex := range c.Examples {
		out = append(out, h.HighlightExample(ex, opts)...)
	}
	return out
}

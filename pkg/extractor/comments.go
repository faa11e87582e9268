package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/extractinator/pkg/ir"
	"github.com/gnana997/extractinator/pkg/tsdoc"
)

// docComment is a raw documentation comment and its file offset.
type docComment struct {
	raw    string
	offset int
}

// docComment finds the doc comment attached to a statement or member.
//
// A comment attaches when it is the previous sibling, starts with "/**",
// is not trailing the statement before it, and at most MaxCommentGap
// blank lines separate the two. Failing that, a doc comment on the same
// line right after the node attaches.
func (sc *scope) docComment(node *ts.Node) *docComment {
	if node == nil {
		return nil
	}
	if prev := node.PrevSibling(); prev != nil && prev.Kind() == "comment" {
		text := sc.s.text(prev)
		between := sc.s.src[prev.EndByte():node.StartByte()]
		if isDocComment(text) && !trailsPrevious(prev) && blankLines(between) <= sc.f.opts.MaxCommentGap {
			return &docComment{raw: text, offset: sc.s.offset(prev)}
		}
	}
	next := node.NextSibling()
	if next != nil && (next.Kind() == ";" || next.Kind() == ",") {
		next = next.NextSibling()
	}
	if next != nil && next.Kind() == "comment" && next.StartPosition().Row == node.EndPosition().Row {
		if text := sc.s.text(next); isDocComment(text) {
			return &docComment{raw: text, offset: sc.s.offset(next)}
		}
	}
	return nil
}

// trailsPrevious reports whether comment sits on the same line as the
// end of the node before it.
func trailsPrevious(comment *ts.Node) bool {
	prev := comment.PrevSibling()
	return prev != nil && prev.Kind() != "comment" && prev.EndPosition().Row == comment.StartPosition().Row
}

// enclosingStatement walks up from node to the nearest statement whose
// parent is a block or the program.
func enclosingStatement(node *ts.Node) *ts.Node {
	for n := node; n != nil; n = n.Parent() {
		parent := n.Parent()
		if parent == nil {
			return n
		}
		switch parent.Kind() {
		case "program", "statement_block":
			return n
		}
	}
	return nil
}

// parseDoc parses a doc comment and reports its issues as
// MalformedComment diagnostics on the line they occur.
func (sc *scope) parseDoc(doc *docComment, opts tsdoc.Options) *ir.Comment {
	if doc == nil {
		return nil
	}
	return parseComment(sc.f, doc.raw, doc.offset, opts)
}

func parseComment(f *file, raw string, offset int, opts tsdoc.Options) *ir.Comment {
	comment, issues := tsdoc.ParseWith(raw, opts)
	start := f.lines.position(offset)
	for _, issue := range issues {
		d := f.report(ir.MalformedComment, offset, "", "%s", issue.Message)
		if issue.Line > 0 {
			d.Position = ir.Position{Line: start.Line + issue.Line, Column: 1}
		}
	}
	return comment
}

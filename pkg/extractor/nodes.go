package extractor

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// findChildByKind returns the first direct child of the given kind.
func findChildByKind(node *ts.Node, kind string) *ts.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

func hasChildKind(node *ts.Node, kind string) bool {
	return findChildByKind(node, kind) != nil
}

// namedChildren returns the named children of node, comments excluded.
func namedChildren(node *ts.Node) []*ts.Node {
	if node == nil {
		return nil
	}
	var out []*ts.Node
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// firstError returns the first ERROR or MISSING node in document order.
func firstError(node *ts.Node) *ts.Node {
	if node == nil || !node.HasError() && !node.IsMissing() {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstError(node.Child(i)); found != nil {
			return found
		}
	}
	return node
}

func isStringLiteral(node *ts.Node) bool {
	return node != nil && (node.Kind() == "string" || node.Kind() == "template_string")
}

// unquoteString strips one pair of matching quotes.
func unquoteString(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// normalizeSpace collapses runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// isDocComment reports whether a comment node's text is a "/** */" doc
// comment. "/**/" is an empty block comment.
func isDocComment(text string) bool {
	return strings.HasPrefix(text, "/**") && text != "/**/"
}

// blankLines counts the empty lines in the whitespace between two nodes.
func blankLines(between []byte) int {
	n := 0
	for _, c := range between {
		if c == '\n' {
			n++
		}
	}
	return max(n-1, 0)
}

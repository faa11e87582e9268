package extractor

import (
	"fmt"
	"sort"

	"github.com/gnana997/extractinator/pkg/ir"
)

// lineIndex maps byte offsets to 1-based line/column positions.
type lineIndex struct {
	starts []int
}

func newLineIndex(src []byte) *lineIndex {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (li *lineIndex) position(offset int) ir.Position {
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	line = max(line, 0)
	return ir.Position{Line: line + 1, Column: offset - li.starts[line] + 1}
}

// file collects the diagnostics of one extraction.
type file struct {
	path  string
	lines *lineIndex
	opts  Options
	diags []ir.Diagnostic
}

func (f *file) report(kind ir.DiagnosticKind, offset int, name string, format string, args ...any) *ir.Diagnostic {
	f.diags = append(f.diags, ir.Diagnostic{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		FilePath: f.path,
		Position: f.lines.position(offset),
		Name:     name,
	})
	return &f.diags[len(f.diags)-1]
}

// collection detects duplicate names within one output collection.
type collection struct {
	f     *file
	label string
	seen  map[string]int
}

func (f *file) collection(label string) *collection {
	return &collection{f: f, label: label, seen: make(map[string]int)}
}

// admit records name declared at offset. A name seen before is reported
// as a DuplicateName referencing the first declaration, and admit
// returns false.
func (c *collection) admit(name string, offset int) bool {
	first, dup := c.seen[name]
	if !dup {
		c.seen[name] = offset
		return true
	}
	d := c.f.report(ir.DuplicateName, offset, name, "duplicate %s %q", c.label, name)
	d.Related = []ir.Position{c.f.lines.position(first)}
	return false
}

func (c *collection) has(name string) bool {
	_, ok := c.seen[name]
	return ok
}

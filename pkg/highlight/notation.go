package highlight

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// MarkKind is the kind of a notation comment.
type MarkKind string

const (
	MarkHighlight MarkKind = "highlight"
	MarkFocus     MarkKind = "focus"
	MarkAdded     MarkKind = "++"
	MarkRemoved   MarkKind = "--"
)

// Mark is a line annotated by a notation comment such as
// "// [!code highlight]".
type Mark struct {
	// Line is 1-based
	Line int
	Kind MarkKind
}

var notation = regexp.MustCompile(`\s*(?://|/\*|<!--)\s*\[!code (highlight|hl|focus|\+\+|--)(?::(\d+))?\]\s*(?:\*/|-->)?\s*$`)

// Notations removes notation comments from text and reports the lines
// they marked. "[!code highlight:3]" marks the line and the two after it.
func Notations(text string) (string, []Mark) {
	lines := strings.Split(text, "\n")
	var marks []Mark
	for i, line := range lines {
		m := notation.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		kind := MarkKind(line[m[2]:m[3]])
		if kind == "hl" {
			kind = MarkHighlight
		}
		count := 1
		if m[4] >= 0 {
			if n, err := strconv.Atoi(line[m[4]:m[5]]); err == nil && n > 0 {
				count = n
			}
		}
		for n := 0; n < count && i+n < len(lines); n++ {
			marks = append(marks, Mark{Line: i + n + 1, Kind: kind})
		}
		lines[i] = line[:m[0]]
	}
	return strings.Join(lines, "\n"), marks
}

// lineRanges turns marks into chroma's highlighted line ranges.
func lineRanges(marks []Mark) [][2]int {
	sorted := append([]Mark(nil), marks...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Line < sorted[j].Line })

	var ranges [][2]int
	for _, m := range sorted {
		if n := len(ranges); n > 0 && ranges[n-1][1] >= m.Line-1 {
			ranges[n-1][1] = max(ranges[n-1][1], m.Line)
			continue
		}
		ranges = append(ranges, [2]int{m.Line, m.Line})
	}
	return ranges
}

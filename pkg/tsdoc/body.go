package tsdoc

import "strings"

// splitBody strips the comment delimiters and per-line decoration and
// returns one entry per raw line, so that index i is line i of raw.
// terminated is false when a delimited comment is missing its closer.
func splitBody(raw string) (lines []string, terminated bool) {
	body := raw
	block := false
	terminated = true

	switch {
	case strings.HasPrefix(raw, "/*"):
		block = true
		body = strings.TrimPrefix(strings.TrimPrefix(raw, "/*"), "*")
		if len(raw) >= 4 && strings.HasSuffix(body, "*/") {
			body = strings.TrimSuffix(body, "*/")
		} else {
			terminated = false
		}
	case strings.HasPrefix(raw, "<!--"):
		body = strings.TrimPrefix(raw, "<!--")
		if strings.HasSuffix(body, "-->") {
			body = strings.TrimSuffix(body, "-->")
		} else {
			terminated = false
		}
	}

	lines = strings.Split(body, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}

	if block && starred(lines) {
		for i, l := range lines {
			t := strings.TrimLeft(l, " \t")
			if i > 0 || strings.HasPrefix(t, "*") {
				t = strings.TrimPrefix(t, "*")
			}
			lines[i] = strings.TrimPrefix(t, " ")
		}
		return lines, terminated
	}

	lines[0] = strings.TrimLeft(lines[0], " \t")
	dedent(lines[1:])
	return lines, terminated
}

// starred reports whether every non-empty continuation line starts with "*".
func starred(lines []string) bool {
	found := false
	for _, l := range lines[1:] {
		t := strings.TrimLeft(l, " \t")
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, "*") {
			return false
		}
		found = true
	}
	return found || len(lines) == 1
}

func dedent(lines []string) {
	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return
	}
	for i, l := range lines {
		if len(l) >= indent {
			lines[i] = l[indent:]
		} else {
			lines[i] = strings.TrimLeft(l, " \t")
		}
	}
}

// stripMarker removes marker from the start of the first non-empty line.
func stripMarker(lines []string, marker string) {
	if marker == "" {
		return
	}
	for i, l := range lines {
		t := strings.TrimLeft(l, " \t")
		if t == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(t, marker); ok && (rest == "" || isSpace(rest[0])) {
			lines[i] = strings.TrimLeft(rest, " \t")
		}
		return
	}
}

// trimBlank drops leading and trailing blank lines.
func trimBlank(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isFence(line string) bool {
	t := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(t, "```") || strings.HasPrefix(t, "~~~")
}

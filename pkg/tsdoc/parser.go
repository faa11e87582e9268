package tsdoc

import (
	"fmt"
	"strings"

	"github.com/gnana997/extractinator/pkg/ir"
)

// Issue is a problem found while parsing a comment.
type Issue struct {
	// Line is the 0-based line of raw the problem starts on
	Line    int
	Message string
}

// Options adjusts parsing.
type Options struct {
	// Marker is removed from the start of the body before parsing,
	// e.g. "@component" for Svelte component comments
	Marker string
}

// section is the run of text owned by one block tag. The summary
// section has an empty tag.
type section struct {
	tag       string
	line      int
	lines     []string
	malformed string
}

// Parse parses a raw documentation comment. raw may include its
// delimiters ("/** */" or "<!-- -->") or be a bare body.
//
// Example:
//
//	c, issues := tsdoc.Parse("/** Says hi.\n * @param name - who to greet */")
//	// c.Summary == "Says hi."
//	// c.Params[0] == ir.Param{Name: "name", Description: "who to greet"}
func Parse(raw string) (*ir.Comment, []Issue) {
	return ParseWith(raw, Options{})
}

// ParseWith parses raw using opts.
func ParseWith(raw string, opts Options) (*ir.Comment, []Issue) {
	c := &ir.Comment{Raw: raw}
	lines, terminated := splitBody(raw)
	stripMarker(lines, opts.Marker)

	if !terminated {
		c.Remarks = strings.TrimSpace(strings.Join(lines, "\n"))
		return c, []Issue{{Line: 0, Message: "unterminated comment"}}
	}

	p := &commentParser{comment: c}
	for _, s := range p.sections(lines) {
		p.apply(s)
	}
	return c, p.issues
}

type commentParser struct {
	comment *ir.Comment
	issues  []Issue
}

func (p *commentParser) issue(line int, format string, args ...any) {
	p.issues = append(p.issues, Issue{Line: line, Message: fmt.Sprintf(format, args...)})
}

// sections splits the body into tag sections. Modifier tags are consumed
// here and do not open a section. A code fence that is never closed is
// reported and read as plain text, so later tags still open sections.
func (p *commentParser) sections(lines []string) []section {
	out, open := p.split(lines, len(lines))
	if open < 0 {
		return out
	}
	p.issue(open, "unterminated code fence")
	out, _ = p.split(lines, open)
	return out
}

// split does the work of sections, honoring fences only on lines before
// fenceLimit. open is the line of the fence left unclosed, or -1.
func (p *commentParser) split(lines []string, fenceLimit int) (sections []section, open int) {
	current := &section{line: 0}
	out := []*section{current}
	fenced := false
	open = -1

	for i, l := range lines {
		if i < fenceLimit && isFence(l) {
			fenced = !fenced
			if fenced {
				open = i
			}
			current.lines = append(current.lines, l)
			continue
		}
		if fenced {
			current.lines = append(current.lines, l)
			continue
		}

		rest := l
		var buf strings.Builder
		for {
			at, name, end := nextTag(rest)
			if at < 0 {
				buf.WriteString(rest)
				break
			}
			buf.WriteString(rest[:at])

			if ir.IsModifier(name) && (end == len(rest) || isSpace(rest[end])) {
				p.comment.Modifiers.Set(name)
				rest = strings.TrimLeft(rest[end:], " \t")
				continue
			}

			current.lines = append(current.lines, buf.String())
			buf.Reset()

			current = &section{tag: name, line: i}
			if end < len(rest) && !isSpace(rest[end]) && rest[end] != '{' {
				end = tagEnd(rest, at)
				current.tag = rest[at+1 : end]
				current.malformed = fmt.Sprintf("malformed tag %q", rest[at:end])
			}
			out = append(out, current)
			rest = strings.TrimLeft(rest[end:], " \t")
		}
		current.lines = append(current.lines, buf.String())
	}

	sections = make([]section, len(out))
	for i, s := range out {
		sections[i] = *s
	}
	if !fenced {
		open = -1
	}
	return sections, open
}

// nextTag finds the next block tag in s. A tag is an '@' at the start of
// s or after whitespace, followed by a letter, and outside inline code
// and inline tags. It returns the index of '@', the tag name and the
// index just past the name, or at < 0 if there is none.
func nextTag(s string) (at int, name string, end int) {
	braces := 0
	code := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '`':
			code = !code
		case code:
		case c == '{':
			braces++
		case c == '}':
			if braces > 0 {
				braces--
			}
		case c == '@' && braces == 0 && (i == 0 || isSpace(s[i-1])):
			j := i + 1
			for j < len(s) && isTagChar(s[j], j == i+1) {
				j++
			}
			if j > i+1 {
				return i, s[i+1 : j], j
			}
		}
	}
	return -1, "", -1
}

// tagEnd returns the index of the first whitespace after the tag at at.
func tagEnd(s string, at int) int {
	for j := at; j < len(s); j++ {
		if isSpace(s[j]) {
			return j
		}
	}
	return len(s)
}

func isTagChar(c byte, first bool) bool {
	if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
		return true
	}
	return !first && c >= '0' && c <= '9'
}

// apply stores one section into the comment.
func (p *commentParser) apply(s section) {
	c := p.comment

	if s.malformed != "" {
		p.issue(s.line, "%s", s.malformed)
		appendPara(&c.Remarks, strings.TrimSpace("@"+s.tag+" "+joinText(s.lines)))
		return
	}

	if s.tag == "example" {
		p.applyExample(s)
		return
	}

	text := joinText(s.lines)
	links, ok := scanLinks(text)
	if !ok {
		p.issue(s.line, "unterminated inline tag")
		if s.tag != "" {
			text = strings.TrimSpace("@" + s.tag + " " + text)
		}
		appendPara(&c.Remarks, text)
		return
	}
	c.Links = append(c.Links, links...)

	switch s.tag {
	case "":
		c.Summary = text
	case "remarks":
		appendPara(&c.Remarks, text)
	case "param", "typeParam", "template":
		param, ok := parseParam(text)
		if !ok {
			p.issue(s.line, "@%s is missing a name", s.tag)
			appendPara(&c.Remarks, strings.TrimSpace("@"+s.tag+" "+text))
			return
		}
		if s.tag == "param" {
			c.Params = append(c.Params, param)
		} else {
			c.TypeParams = append(c.TypeParams, param)
		}
	case "returns", "return":
		appendPara(&c.Returns, text)
	case "defaultValue", "default":
		appendPara(&c.DefaultValue, text)
	case "see":
		c.SeeBlocks = append(c.SeeBlocks, text)
	case "note":
		c.Notes = append(c.Notes, text)
	default:
		c.CustomBlocks = append(c.CustomBlocks, ir.CustomBlock{TagName: s.tag, Content: text})
	}
}

func (p *commentParser) applyExample(s section) {
	ex := ir.Example{}
	first := ""
	if len(s.lines) > 0 {
		first = strings.TrimSpace(s.lines[0])
	}
	body := trimBlank(s.lines[min(1, len(s.lines)):])

	if len(body) == 0 {
		ex.Content = first
	} else {
		ex.Content = strings.Join(body, "\n")
		if name, title, ok := strings.Cut(first, " - "); ok {
			ex.Name = strings.TrimSpace(name)
			ex.Title = strings.TrimSpace(title)
		} else {
			ex.Title = first
		}
	}

	links, ok := scanLinks(ex.Content)
	if !ok {
		p.issue(s.line, "unterminated inline tag")
		appendPara(&p.comment.Remarks, strings.TrimSpace("@example "+joinText(s.lines)))
		return
	}
	p.comment.Links = append(p.comment.Links, links...)
	p.comment.Examples = append(p.comment.Examples, ex)
}

// parseParam parses "name - description", accepting an optional leading
// {type} and an optional [name=default] form.
func parseParam(text string) (ir.Param, bool) {
	rest := strings.TrimSpace(text)

	if strings.HasPrefix(rest, "{") {
		end := matchBrace(rest)
		if end < 0 {
			return ir.Param{}, false
		}
		rest = strings.TrimSpace(rest[end+1:])
	}
	if rest == "" {
		return ir.Param{}, false
	}

	var name string
	if rest[0] == '[' {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return ir.Param{}, false
		}
		name, _, _ = strings.Cut(rest[1:end], "=")
		rest = rest[end+1:]
	} else {
		end := strings.IndexFunc(rest, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' })
		if end < 0 {
			end = len(rest)
		}
		name = rest[:end]
		rest = rest[end:]
	}

	name = strings.TrimSpace(name)
	if name == "" || name[0] == '-' {
		return ir.Param{}, false
	}

	desc := strings.TrimSpace(rest)
	desc = strings.TrimSpace(strings.TrimPrefix(desc, "-"))
	return ir.Param{Name: name, Description: desc}, true
}

// matchBrace returns the index of the brace closing s[0], or -1.
func matchBrace(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func joinText(lines []string) string {
	return strings.TrimSpace(strings.Join(trimBlank(lines), "\n"))
}

func appendPara(dst *string, text string) {
	if text == "" {
		return
	}
	if *dst != "" {
		*dst += "\n\n"
	}
	*dst += text
}

package svelte

import "strings"

// Attribute is one attribute of a markup element as written in source.
type Attribute struct {
	// Name keeps its source case (the html tokenizer lowercases names)
	Name string

	// Value is the attribute value without quotes or expression braces
	Value string

	// Bare is set for a valueless attribute such as <slot disabled>
	Bare bool

	// Quoted is set when the value was written in quotes
	Quoted bool

	// Expression is set when the value is a single {expression}
	Expression bool

	// Shorthand is set for {name}, which means name={name}
	Shorthand bool

	// Spread is set for {...props}; Value holds the spread expression
	Spread bool
}

// Attr returns the attribute with the given name.
func (e *Element) Attr(name string) (Attribute, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// parseTag reads the element name and attributes from the raw (masked)
// text of a start tag.
func parseTag(raw string) (name string, attrs []Attribute, selfClosing bool) {
	s := strings.TrimPrefix(raw, "<")
	i := 0
	for i < len(s) && !isTagSpace(s[i]) && s[i] != '>' && s[i] != '/' {
		i++
	}
	name = s[:i]

	for i < len(s) {
		for i < len(s) && isTagSpace(s[i]) {
			i++
		}
		if i >= len(s) || s[i] == '>' {
			break
		}
		if s[i] == '/' {
			selfClosing = true
			i++
			continue
		}

		start := i
		for i < len(s) && !isTagSpace(s[i]) && s[i] != '=' && s[i] != '>' {
			i++
		}
		key := s[start:i]
		if strings.HasSuffix(key, "/") && i < len(s) && s[i] == '>' {
			key = strings.TrimSuffix(key, "/")
			selfClosing = true
		}

		j := i
		for j < len(s) && isTagSpace(s[j]) {
			j++
		}
		if j >= len(s) || s[j] != '=' {
			attrs = append(attrs, newAttribute(key, "", false, false))
			continue
		}

		i = j + 1
		for i < len(s) && isTagSpace(s[i]) {
			i++
		}
		if i < len(s) && (s[i] == '"' || s[i] == '\'') {
			q := s[i]
			end := strings.IndexByte(s[i+1:], q)
			if end < 0 {
				attrs = append(attrs, newAttribute(key, s[i+1:], true, true))
				break
			}
			attrs = append(attrs, newAttribute(key, s[i+1:i+1+end], true, true))
			i += end + 2
			continue
		}

		start = i
		for i < len(s) && !isTagSpace(s[i]) && s[i] != '>' {
			i++
		}
		value := s[start:i]
		// <slot x={y}/> is x={y} followed by a self-closing slash
		if strings.HasSuffix(value, "/") && i < len(s) && s[i] == '>' {
			value = strings.TrimSuffix(value, "/")
			selfClosing = true
		}
		attrs = append(attrs, newAttribute(key, value, true, false))
	}

	return name, attrs, selfClosing
}

func newAttribute(key, value string, hasValue, quoted bool) Attribute {
	key = unmask(key)
	value = unmask(value)

	if !hasValue && strings.HasPrefix(key, "{") && strings.HasSuffix(key, "}") {
		inner := strings.TrimSpace(key[1 : len(key)-1])
		if rest, ok := strings.CutPrefix(inner, "..."); ok {
			return Attribute{Name: inner, Value: strings.TrimSpace(rest), Spread: true}
		}
		return Attribute{Name: inner, Value: inner, Shorthand: true, Expression: true}
	}

	if !hasValue {
		return Attribute{Name: key, Bare: true}
	}

	a := Attribute{Name: key, Value: value, Quoted: quoted}
	t := strings.TrimSpace(value)
	if strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}") && strings.Count(t, "{") == 1 {
		a.Expression = true
		a.Value = strings.TrimSpace(t[1 : len(t)-1])
	} else if !quoted && strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}") && matchingBrace(t) == len(t)-1 {
		a.Expression = true
		a.Value = strings.TrimSpace(t[1 : len(t)-1])
	}
	return a
}

// matchingBrace returns the index of the brace closing s[0].
func matchingBrace(s string) int {
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

func isTagSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

package svelte

import "bytes"

// The html tokenizer knows nothing about Svelte expressions, so a '>'
// or whitespace inside {...} would end a tag or split an attribute.
// Before tokenizing, those bytes are swapped for control bytes of the
// same length; offsets are preserved and unmask restores the text.
var (
	maskFrom = []byte{' ', '\t', '\n', '\r', '<', '>'}
	maskTo   = []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
)

// mask returns a copy of src with markup expressions masked. Script and
// style bodies and HTML comments are left untouched.
func mask(src []byte) []byte {
	out := bytes.Clone(src)
	i := 0
	for i < len(src) {
		switch {
		case bytes.HasPrefix(src[i:], []byte("<!--")):
			end := bytes.Index(src[i+4:], []byte("-->"))
			if end < 0 {
				return out
			}
			i += 4 + end + 3
		case isRawOpen(src[i:], "script"), isRawOpen(src[i:], "style"):
			name := "script"
			if isRawOpen(src[i:], "style") {
				name = "style"
			}
			end := indexFold(src[i:], "</"+name)
			if end < 0 {
				return out
			}
			i += end + 2 + len(name)
		case src[i] == '{':
			i = maskExpression(src, out, i)
		default:
			i++
		}
	}
	return out
}

// maskExpression masks the expression opening at src[start] and returns
// the index just past its closing brace.
func maskExpression(src, out []byte, start int) int {
	depth := 0
	var quote byte
	for j := start; j < len(src); j++ {
		c := src[j]
		if quote != 0 {
			switch c {
			case '\\':
				j++
			case quote:
				quote = 0
			}
			if k := bytes.IndexByte(maskFrom, c); k >= 0 {
				out[j] = maskTo[k]
			}
			continue
		}

		switch c {
		case '"', '\'', '`':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j + 1
			}
		default:
			if k := bytes.IndexByte(maskFrom, c); k >= 0 {
				out[j] = maskTo[k]
			}
		}
	}
	return len(src)
}

func unmask(s string) string {
	b := []byte(s)
	for i, c := range b {
		if k := bytes.IndexByte(maskTo, c); k >= 0 {
			b[i] = maskFrom[k]
		}
	}
	return string(b)
}

// isRawOpen reports whether s starts with an opening tag called name.
func isRawOpen(s []byte, name string) bool {
	if len(s) < len(name)+2 || s[0] != '<' {
		return false
	}
	if !bytes.EqualFold(s[1:1+len(name)], []byte(name)) {
		return false
	}
	switch s[1+len(name)] {
	case ' ', '\t', '\n', '\r', '>', '/':
		return true
	}
	return false
}

// indexFold is an ASCII case-insensitive bytes.Index.
func indexFold(s []byte, sub string) int {
	n := len(sub)
	for i := 0; i+n <= len(s); i++ {
		if bytes.EqualFold(s[i:i+n], []byte(sub)) {
			return i
		}
	}
	return -1
}

package tsdoc

import (
	"strings"

	"github.com/gnana997/extractinator/pkg/ir"
)

var linkTags = map[string]bool{
	"link":      true,
	"linkcode":  true,
	"linkplain": true,
}

// scanLinks returns the inline link tags of text in order. ok is false
// when an inline tag is opened but never closed.
func scanLinks(text string) (links []ir.Link, ok bool) {
	rest := text
	for {
		start := strings.Index(rest, "{@")
		if start < 0 {
			return links, true
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return links, false
		}
		inner := rest[start+2 : start+end]
		rest = rest[start+end+1:]

		tag, body, _ := strings.Cut(inner, " ")
		tag = strings.TrimSpace(tag)
		if !linkTags[tag] {
			continue
		}
		if link, valid := parseLink(body); valid {
			links = append(links, link)
		}
	}
}

// parseLink parses the body of {@link target | text} or {@link target text}.
func parseLink(body string) (ir.Link, bool) {
	body = strings.TrimSpace(body)
	if body == "" {
		return ir.Link{}, false
	}

	if target, text, found := strings.Cut(body, "|"); found {
		target = strings.TrimSpace(target)
		text = strings.TrimSpace(text)
		if text == "" {
			text = target
		}
		return ir.Link{Text: text, Target: target}, target != ""
	}

	fields := strings.Fields(body)
	link := ir.Link{Target: fields[0], Text: fields[0]}
	if len(fields) > 1 {
		link.Text = strings.Join(fields[1:], " ")
	}
	return link, true
}

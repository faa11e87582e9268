// Package svelte splits a Svelte component into the pieces the extractor
// needs: its instance and module scripts, the @component comment, the
// rendered <slot> elements and the on: directives of the markup.
//
// Markup is scanned with the golang.org/x/net/html tokenizer after
// Svelte expressions have been masked; all offsets refer to the
// original source.
package svelte

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// ScriptContext tells instance scripts from module scripts.
type ScriptContext int

const (
	// ContextInstance is a plain <script>, run once per component instance
	ContextInstance ScriptContext = iota
	// ContextModule is <script context="module"> (or <script module>)
	ContextModule
)

func (c ScriptContext) String() string {
	if c == ContextModule {
		return "module"
	}
	return "instance"
}

// Script is one top-level <script> block.
type Script struct {
	Context ScriptContext

	// Lang is the lang attribute as written, e.g. "ts"
	Lang string

	// Content is the script body, a sub-slice of the component source
	Content []byte

	// Offset is the byte offset of Content within the component source
	Offset int

	// TagOffset is the byte offset of the opening <script tag
	TagOffset int
}

// Element is a markup start tag.
type Element struct {
	// Name keeps its source case, so components stay distinguishable
	// from DOM elements
	Name        string
	Attrs       []Attribute
	Offset      int
	Depth       int
	SelfClosing bool
}

// IsComponent reports whether the element is a component rather than
// a DOM or special svelte: element.
func (e *Element) IsComponent() bool {
	switch e.Name {
	case "svelte:component", "svelte:self":
		return true
	}
	if strings.HasPrefix(e.Name, "svelte:") {
		return false
	}
	if strings.Contains(e.Name, ".") {
		return true
	}
	r, _ := utf8.DecodeRuneInString(e.Name)
	return unicode.IsUpper(r)
}

// Comment is an HTML comment, Raw including its delimiters.
type Comment struct {
	Raw    string
	Offset int
}

// Slot is a rendered <slot> element.
type Slot struct {
	Element

	// Comment is the HTML comment right before the slot, separated from
	// it only by whitespace
	Comment *Comment

	// Gap is the number of blank lines between Comment and the slot
	Gap int
}

// Directive is an on:event directive.
type Directive struct {
	Event     string
	Modifiers []string

	// Element is the name of the element carrying the directive
	Element   string
	Component bool

	// HasHandler is false for bare forwarding directives like on:click
	HasHandler bool
	Offset     int
}

// Issue is a structural problem found in the markup.
type Issue struct {
	Offset  int
	Message string
}

// Document is the scanned component.
type Document struct {
	Instance         *Script
	Module           *Script
	ComponentComment *Comment
	Slots            []Slot
	Directives       []Directive
	Issues           []Issue
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Parse scans a component source. It never fails: markup the tokenizer
// cannot make sense of is skipped.
func Parse(src []byte) *Document {
	s := &scanner{src: src, doc: &Document{}}
	s.run()
	return s.doc
}

type scanner struct {
	src []byte
	doc *Document

	depth   int
	content bool
	rawTag  string
	script  *Script

	pending    *Comment
	pendingEnd int
}

func (s *scanner) run() {
	z := html.NewTokenizer(bytes.NewReader(mask(s.src)))
	offset := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return
		}
		raw := z.Raw()
		start, end := offset, offset+len(raw)
		offset = end

		switch tt {
		case html.CommentToken:
			s.comment(start, end)

		case html.TextToken:
			s.text(start, end)

		case html.StartTagToken, html.SelfClosingTagToken:
			name, attrs, selfClosing := parseTag(string(raw))
			s.startTag(Element{
				Name:        name,
				Attrs:       attrs,
				Offset:      start,
				Depth:       s.depth,
				SelfClosing: selfClosing || tt == html.SelfClosingTagToken,
			}, end)

		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == s.rawTag {
				s.rawTag = ""
				s.script = nil
			}
			if s.depth > 0 {
				s.depth--
			}
			s.pending = nil

		default:
			s.pending = nil
		}
	}
}

func (s *scanner) comment(start, end int) {
	c := &Comment{Raw: string(s.src[start:end]), Offset: start}
	if s.depth == 0 && !s.content && s.doc.ComponentComment == nil && isComponentComment(c.Raw) {
		s.doc.ComponentComment = c
		s.pending = nil
		return
	}
	s.pending = c
	s.pendingEnd = end
}

func (s *scanner) text(start, end int) {
	switch {
	case s.rawTag == "script" && s.script != nil:
		s.script.Content = s.src[start:end]
		s.script.Offset = start
		return
	case s.rawTag != "":
		return
	}

	if len(bytes.TrimSpace(s.src[start:end])) == 0 {
		return
	}
	s.pending = nil
	if s.depth == 0 {
		s.content = true
	}
}

func (s *scanner) startTag(el Element, end int) {
	lower := strings.ToLower(el.Name)

	switch lower {
	case "script":
		s.rawTag = "script"
		if el.Depth == 0 {
			s.addScript(el, end)
		}
	case "style":
		s.rawTag = "style"
	default:
		if el.Depth == 0 {
			s.content = true
		}
	}

	if lower == "slot" {
		slot := Slot{Element: el}
		if s.pending != nil {
			slot.Comment = s.pending
			slot.Gap = blankLines(s.src[s.pendingEnd:el.Offset])
		}
		s.doc.Slots = append(s.doc.Slots, slot)
	}

	for _, a := range el.Attrs {
		if event, ok := strings.CutPrefix(a.Name, "on:"); ok {
			parts := strings.Split(event, "|")
			s.doc.Directives = append(s.doc.Directives, Directive{
				Event:      parts[0],
				Modifiers:  parts[1:],
				Element:    el.Name,
				Component:  el.IsComponent(),
				HasHandler: !a.Bare,
				Offset:     el.Offset,
			})
		}
	}

	s.pending = nil
	if !el.SelfClosing && !voidElements[lower] {
		s.depth++
	}
}

func (s *scanner) addScript(el Element, end int) {
	script := &Script{Context: ContextInstance, TagOffset: el.Offset, Offset: end}
	if a, ok := el.Attr("context"); ok && a.Value == "module" {
		script.Context = ContextModule
	}
	if a, ok := el.Attr("module"); ok && a.Bare {
		script.Context = ContextModule
	}
	if a, ok := el.Attr("lang"); ok {
		script.Lang = a.Value
	}

	slot := &s.doc.Instance
	if script.Context == ContextModule {
		slot = &s.doc.Module
	}
	if *slot != nil {
		s.doc.Issues = append(s.doc.Issues, Issue{
			Offset:  el.Offset,
			Message: "duplicate " + script.Context.String() + " script ignored",
		})
		s.script = nil
		return
	}
	*slot = script
	s.script = script
}

func isComponentComment(raw string) bool {
	body := strings.TrimPrefix(raw, "<!--")
	rest, ok := strings.CutPrefix(strings.TrimSpace(body), "@component")
	return ok && (rest == "" || unicode.IsSpace(rune(rest[0])) || strings.HasPrefix(rest, "-->"))
}

// blankLines counts the empty lines in the whitespace between two constructs.
func blankLines(between []byte) int {
	n := bytes.Count(between, []byte("\n")) - 1
	return max(n, 0)
}

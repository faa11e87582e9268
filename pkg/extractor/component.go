package extractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gnana997/extractinator/pkg/ir"
	"github.com/gnana997/extractinator/pkg/parser"
	"github.com/gnana997/extractinator/pkg/parser/queries"
	"github.com/gnana997/extractinator/pkg/svelte"
	"github.com/gnana997/extractinator/pkg/tsdoc"
)

const (
	propsType  = "$$Props"
	eventsType = "$$Events"
	slotsType  = "$$Slots"

	dispatcherFactory = "createEventDispatcher"
	anyEventType      = "CustomEvent<any>"
)

// component assembles a ComponentFile from the scanned markup and the
// scopes of its scripts. Either scope may be nil.
type component struct {
	x        *Extractor
	f        *file
	doc      *svelte.Document
	instance *scope
	module   *scope
	out      *ir.ComponentFile
}

func (x *Extractor) extractComponent(f *file, info ir.FileInfo, source []byte) (*ir.ComponentFile, error) {
	doc := svelte.Parse(source)

	c := &component{
		x:   x,
		f:   f,
		doc: doc,
		out: &ir.ComponentFile{
			FileInfo:      info,
			ComponentName: componentName(info.FileName),
			Props:         []ir.Bit{},
			Events:        []ir.Bit{},
			Slots:         []ir.SlotBit{},
			Exports:       []ir.Bit{},
		},
	}

	for _, issue := range doc.Issues {
		f.report(ir.UnsupportedConstruct, issue.Offset, "", "%s", issue.Message)
	}
	if cc := doc.ComponentComment; cc != nil {
		c.out.Comment = parseComment(f, cc.Raw, cc.Offset, tsdoc.Options{Marker: "@component"})
	}

	if doc.Module != nil {
		s, err := x.parseComponentScript(f, doc.Module)
		if err != nil {
			return nil, err
		}
		defer s.tree.Close()
		c.module = x.newScope(f, s, nil)
	}
	if doc.Instance != nil {
		s, err := x.parseComponentScript(f, doc.Instance)
		if err != nil {
			return nil, err
		}
		defer s.tree.Close()
		c.instance = x.newScope(f, s, c.module)
	}

	c.props()
	c.events()
	c.slots()
	c.exports()

	x.logger.Debug("component extracted",
		"component", c.out.ComponentName,
		"props", len(c.out.Props),
		"events", len(c.out.Events),
		"slots", len(c.out.Slots),
		"exports", len(c.out.Exports))

	return c.out, nil
}

func (x *Extractor) parseComponentScript(f *file, s *svelte.Script) (*script, error) {
	return x.parseScript(f, s.Content, s.Offset, parser.ScriptLanguage(s.Lang), false)
}

// componentName is the file name without its extension.
func componentName(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

// props turns the exports of the instance script into props. Members of
// $$Props override the inferred types and add props not exported.
func (c *component) props() {
	sc := c.instance
	if sc == nil {
		return
	}

	declared := sc.typeMembers(propsType)
	byName := make(map[string]member, len(declared))
	for _, m := range declared {
		byName[m.name] = m
	}

	names := c.f.collection("prop")
	for _, e := range sc.exports() {
		if e.isDefault {
			c.f.report(ir.UnsupportedConstruct, e.offset, "", "component instance scripts cannot have a default export")
			continue
		}
		if e.decl.kind == declInterface || e.decl.kind == declTypeAlias {
			c.f.report(ir.UnsupportedConstruct, e.offset, e.name, "type %q exported from the instance script is not a prop", e.name)
			continue
		}
		names.admit(e.name, e.offset)

		m, typed := byName[e.name]
		if !typed {
			c.out.Props = append(c.out.Props, sc.bit(e.name, e.decl))
			continue
		}
		bit := ir.Bit{Name: e.name, Type: m.typ, Comment: sc.comment(e.decl)}
		if bit.Comment == nil {
			bit.Comment = sc.parseDoc(m.doc, tsdoc.Options{})
		}
		c.out.Props = append(c.out.Props, bit)
	}

	for _, m := range declared {
		if names.has(m.name) {
			continue
		}
		names.admit(m.name, m.offset)
		c.out.Props = append(c.out.Props, ir.Bit{Name: m.name, Type: m.typ, Comment: sc.parseDoc(m.doc, tsdoc.Options{})})
	}
}

type eventSource int

const (
	eventsDeclared eventSource = iota
	eventsTyped
	eventsDispatched
	eventsForwarded
)

// eventSet merges events from all sources. The first source to name an
// event wins; later sources may only fill in a missing comment.
type eventSet struct {
	c      *component
	names  *collection
	source map[string]eventSource
	index  map[string]int
}

func (es *eventSet) add(src eventSource, sc *scope, name, typ string, doc *docComment, offset int) {
	if prev, seen := es.source[name]; seen {
		if prev != src || src >= eventsDispatched {
			if i := es.index[name]; es.c.out.Events[i].Comment == nil && doc != nil {
				es.c.out.Events[i].Comment = sc.parseDoc(doc, tsdoc.Options{})
			}
			return
		}
	} else {
		es.source[name] = src
		es.index[name] = len(es.c.out.Events)
	}
	es.names.admit(name, offset)

	bit := ir.Bit{Name: name, Type: typ}
	if sc != nil {
		bit.Comment = sc.parseDoc(doc, tsdoc.Options{})
	}
	es.c.out.Events = append(es.c.out.Events, bit)
}

// events collects, in order: $$Events members, the type argument of
// createEventDispatcher, dispatch calls and forwarded on: directives.
func (c *component) events() {
	es := &eventSet{
		c:      c,
		names:  c.f.collection("event"),
		source: make(map[string]eventSource),
		index:  make(map[string]int),
	}

	if sc := c.instance; sc != nil {
		for _, m := range sc.typeMembers(eventsType) {
			es.add(eventsDeclared, sc, m.name, m.typ, m.doc, m.offset)
		}
		c.dispatchedEvents(es)
	}

	for _, d := range c.doc.Directives {
		if d.HasHandler {
			continue
		}
		es.add(eventsForwarded, nil, d.Event, forwardedType(d), nil, d.Offset)
	}
}

func (c *component) dispatchedEvents(es *eventSet) {
	sc := c.instance
	matches, err := c.x.queryManager.Run(sc.s.tree, sc.s.src, sc.s.lang, sc.s.isTSX, queries.QueryTypeEvents)
	if err != nil {
		c.x.logger.Warn("event query failed", "file", c.f.path, "error", err)
		return
	}

	dispatchers := make(map[string]bool)
	for _, m := range matches {
		factory, ok := m.Capture("dispatcher.factory")
		if !ok || factory.Text != dispatcherFactory {
			continue
		}
		name, _ := m.Capture("dispatcher.name")
		dispatchers[name.Text] = true

		call := factory.Node.Parent()
		targs := call.ChildByFieldName("type_arguments")
		if targs == nil {
			continue
		}
		for _, mb := range sc.members(targs.NamedChild(0)) {
			es.add(eventsTyped, sc, mb.name, "CustomEvent<"+mb.typ+">", mb.doc, mb.offset)
		}
	}

	for _, m := range matches {
		fn, ok := m.Capture("dispatch.function")
		if !ok || !dispatchers[fn.Text] {
			continue
		}
		event, _ := m.Capture("dispatch.event")
		call, _ := m.Capture("dispatch.call")
		doc := sc.docComment(enclosingStatement(call.Node))
		es.add(eventsDispatched, sc, unquoteString(event.Text), anyEventType, doc, sc.s.offset(event.Node))
	}
}

// forwardedType is the event type of a bare on:event directive.
func forwardedType(d svelte.Directive) string {
	switch {
	case d.Component:
		return anyEventType
	case d.Element == "svelte:window":
		return fmt.Sprintf("WindowEventMap[%q]", d.Event)
	case d.Element == "svelte:document":
		return fmt.Sprintf("DocumentEventMap[%q]", d.Event)
	default:
		return fmt.Sprintf("HTMLElementEventMap[%q]", d.Event)
	}
}

// slots collects rendered <slot> elements, merging those that share a
// name, then applies $$Slots and the default slot policy.
func (c *component) slots() {
	index := make(map[string]int)
	slot := func(name string) *ir.SlotBit {
		i, ok := index[name]
		if !ok {
			i = len(c.out.Slots)
			index[name] = i
			c.out.Slots = append(c.out.Slots, ir.SlotBit{Name: name, Props: []ir.Bit{}})
		}
		return &c.out.Slots[i]
	}

	for _, el := range c.doc.Slots {
		name := ir.DefaultSlotName
		if a, ok := el.Attr("name"); ok && a.Value != "" {
			name = a.Value
		}
		sb := slot(name)
		if sb.Comment == nil && el.Comment != nil && el.Gap <= c.f.opts.MaxCommentGap {
			sb.Comment = parseComment(c.f, el.Comment.Raw, el.Comment.Offset, tsdoc.Options{})
		}
		c.slotProps(sb, el)
	}

	if sc := c.instance; sc != nil {
		for _, m := range sc.typeMembers(slotsType) {
			sb := slot(m.name)
			if sb.Comment == nil {
				sb.Comment = sc.parseDoc(m.doc, tsdoc.Options{})
			}
			for _, p := range sc.members(m.typeNode) {
				if i := propIndex(sb.Props, p.name); i >= 0 {
					sb.Props[i].Type = p.typ
					if sb.Props[i].Comment == nil {
						sb.Props[i].Comment = sc.parseDoc(p.doc, tsdoc.Options{})
					}
					continue
				}
				sb.Props = append(sb.Props, ir.Bit{Name: p.name, Type: p.typ, Comment: sc.parseDoc(p.doc, tsdoc.Options{})})
			}
		}
	}

	if c.f.opts.SynthesizeDefaultSlot == SlotAlways {
		slot(ir.DefaultSlotName)
	}
}

// slotProps adds the attributes of a slot element as props. Attributes
// already present from another element of the same name are kept.
func (c *component) slotProps(sb *ir.SlotBit, el svelte.Slot) {
	seen := c.f.collection("slot prop")
	for _, a := range el.Attrs {
		if a.Name == "name" || a.Name == "slot" || strings.Contains(a.Name, ":") {
			continue
		}
		if a.Spread {
			c.f.report(ir.UnsupportedConstruct, el.Offset, sb.Name, "spread props on slot %q are not listed", sb.Name)
			continue
		}
		if !seen.admit(a.Name, el.Offset) || propIndex(sb.Props, a.Name) >= 0 {
			continue
		}

		typ, ok := c.attributeType(a)
		if !ok {
			c.f.report(ir.UnresolvedType, el.Offset, a.Name, "cannot determine the type of slot prop %q", a.Name)
			typ = unknownType
		}
		sb.Props = append(sb.Props, ir.Bit{Name: a.Name, Type: typ})
	}
}

func (c *component) attributeType(a svelte.Attribute) (string, bool) {
	switch {
	case a.Expression:
		return c.inferSnippet(a.Value)
	case a.Bare:
		return "boolean", true
	default:
		return "string", true
	}
}

// inferSnippet infers the type of a markup expression against the
// bindings of the instance script.
func (c *component) inferSnippet(expr string) (string, bool) {
	outer := c.instance
	if outer == nil {
		outer = c.module
	}
	lang := parser.LanguageTypeScript
	if outer != nil {
		lang = outer.s.lang
	}

	src := []byte("(" + expr + ")")
	tree, err := c.x.parserManager.Parse(src, lang, false)
	if err != nil {
		return "", false
	}
	defer tree.Close()

	root := tree.RootNode()
	stmt := root.NamedChild(0)
	if root.HasError() || stmt == nil || stmt.Kind() != "expression_statement" {
		return "", false
	}

	sc := &scope{
		x:       c.x,
		f:       c.f,
		s:       &script{src: src, lang: lang, tree: tree},
		locals:  map[string]*declaration{},
		imports: map[string]importBinding{},
		parent:  outer,
	}
	return sc.infer(stmt.NamedChild(0), false)
}

func propIndex(props []ir.Bit, name string) int {
	for i, p := range props {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// exports lists the module script exports of the component.
func (c *component) exports() {
	sc := c.module
	if sc == nil {
		return
	}
	names := c.f.collection("export")
	for _, e := range sc.exports() {
		if e.isDefault {
			c.f.report(ir.UnsupportedConstruct, e.offset, "", "component module scripts cannot have a default export")
			continue
		}
		names.admit(e.name, e.offset)
		c.out.Exports = append(c.out.Exports, sc.bit(e.name, e.decl))
	}
}

package extractor

import (
	"fmt"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/extractinator/pkg/ir"
	"github.com/gnana997/extractinator/pkg/parser"
	"github.com/gnana997/extractinator/pkg/parser/queries"
	"github.com/gnana997/extractinator/pkg/tsdoc"
)

type declKind int

const (
	declVariable declKind = iota
	declFunction
	declSignature
	declClass
	declInterface
	declTypeAlias
	declEnum
	declNamespace
)

// declaration is one top-level binding of a script.
type declaration struct {
	name   string
	kind   declKind
	offset int

	// node is the declaring node: variable_declarator, function_declaration,
	// interface_declaration and so on
	node *ts.Node

	typ      string
	resolved bool

	// pending variables and functions are typed on first use, once every
	// top-level binding is known; resolving marks a lookup in progress
	pending   bool
	resolving bool
	constant  bool

	// collapsed marks overload signatures and implementations folded into
	// the first signature of the same name
	collapsed bool

	doc    *docComment
	parsed *ir.Comment
	done   bool
}

// importBinding is a name brought in by an import statement.
type importBinding struct {
	source string

	// imported is "default", "*" or the exported name
	imported string
}

func (b importBinding) typ() string {
	switch b.imported {
	case "*":
		return fmt.Sprintf("typeof import('%s')", b.source)
	default:
		return fmt.Sprintf("typeof import('%s').%s", b.source, b.imported)
	}
}

// script is one parsed TypeScript or JavaScript source: a module file or
// the content of a component <script> block.
type script struct {
	src   []byte
	base  int
	lang  parser.Language
	isTSX bool
	tree  *ts.Tree
}

func (s *script) root() *ts.Node {
	return s.tree.RootNode()
}

func (s *script) text(node *ts.Node) string {
	if node == nil {
		return ""
	}
	return node.Utf8Text(s.src)
}

func (s *script) offset(node *ts.Node) int {
	return s.base + int(node.StartByte())
}

// scope holds the top-level bindings of a script.
type scope struct {
	x *Extractor
	f *file
	s *script

	locals  map[string]*declaration
	imports map[string]importBinding

	// parent is consulted for names the scope does not bind; the instance
	// script of a component sees its module script
	parent *scope

	// byNode maps a declaration statement to the bindings it introduced
	byNode map[uintptr][]*declaration
}

func (x *Extractor) newScope(f *file, s *script, parent *scope) *scope {
	sc := &scope{
		x:       x,
		f:       f,
		s:       s,
		parent:  parent,
		locals:  make(map[string]*declaration),
		imports: make(map[string]importBinding),
		byNode:  make(map[uintptr][]*declaration),
	}
	sc.collectImports()
	sc.collectLocals()
	return sc
}

func (sc *scope) collectImports() {
	matches, err := sc.x.queryManager.Run(sc.s.tree, sc.s.src, sc.s.lang, sc.s.isTSX, queries.QueryTypeImports)
	if err != nil {
		sc.x.logger.Warn("import query failed", "file", sc.f.path, "error", err)
		return
	}
	for _, m := range matches {
		stmt, ok := m.Capture("import.statement")
		if !ok {
			continue
		}
		source, _ := m.Capture("import.source")
		sc.addImport(stmt.Node, unquoteString(source.Text))
	}
}

func (sc *scope) addImport(stmt *ts.Node, source string) {
	clause := findChildByKind(stmt, "import_clause")
	for _, part := range namedChildren(clause) {
		switch part.Kind() {
		case "identifier":
			sc.imports[sc.s.text(part)] = importBinding{source: source, imported: "default"}
		case "namespace_import":
			if id := findChildByKind(part, "identifier"); id != nil {
				sc.imports[sc.s.text(id)] = importBinding{source: source, imported: "*"}
			}
		case "named_imports":
			for _, spec := range namedChildren(part) {
				if spec.Kind() != "import_specifier" {
					continue
				}
				name := sc.s.text(spec.ChildByFieldName("name"))
				local := name
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					local = sc.s.text(alias)
				}
				sc.imports[local] = importBinding{source: source, imported: unquoteString(name)}
			}
		}
	}
}

// collectLocals records every top-level declaration, exported or not,
// so that exports and initializers can refer to them.
func (sc *scope) collectLocals() {
	for _, stmt := range namedChildren(sc.s.root()) {
		switch stmt.Kind() {
		case "export_statement":
			if decl := stmt.ChildByFieldName("declaration"); decl != nil {
				sc.declare(decl, stmt)
			}
		case "expression_statement":
			// a top-level namespace parses as an expression
			if inner := stmt.NamedChild(0); inner != nil && inner.Kind() == "internal_module" {
				sc.declare(inner, stmt)
			}
		default:
			sc.declare(stmt, stmt)
		}
	}
}

// declare records the bindings of a declaration node. stmt is the
// statement its doc comment attaches to.
func (sc *scope) declare(node, stmt *ts.Node) []*declaration {
	var decls []*declaration
	doc := sc.docComment(stmt)

	switch node.Kind() {
	case "ambient_declaration":
		if inner := node.NamedChild(0); inner != nil {
			return sc.declare(inner, stmt)
		}
	case "lexical_declaration", "variable_declaration":
		constant := node.Child(0) != nil && node.Child(0).Kind() == "const"
		for _, d := range namedChildren(node) {
			if d.Kind() != "variable_declarator" {
				continue
			}
			name := d.ChildByFieldName("name")
			if name == nil || name.Kind() != "identifier" {
				continue
			}
			decls = append(decls, &declaration{
				name:     sc.s.text(name),
				kind:     declVariable,
				offset:   sc.s.offset(name),
				node:     d,
				doc:      doc,
				pending:  true,
				constant: constant,
			})
		}
	case "function_declaration", "generator_function_declaration", "function_signature":
		decl := sc.named(node, declFunction, doc)
		if node.Kind() == "function_signature" {
			decl.kind = declSignature
		}
		decl.pending = true
		decls = append(decls, decl)
	case "class_declaration", "abstract_class_declaration":
		decl := sc.named(node, declClass, doc)
		decl.typ, decl.resolved = "typeof "+decl.name, true
		decls = append(decls, decl)
	case "interface_declaration":
		decl := sc.named(node, declInterface, doc)
		decl.typ, decl.resolved = normalizeSpace(sc.s.text(node.ChildByFieldName("body"))), true
		decls = append(decls, decl)
	case "type_alias_declaration":
		decl := sc.named(node, declTypeAlias, doc)
		decl.typ, decl.resolved = normalizeSpace(sc.s.text(node.ChildByFieldName("value"))), true
		decls = append(decls, decl)
	case "enum_declaration":
		decl := sc.named(node, declEnum, doc)
		decl.typ, decl.resolved = "typeof "+decl.name, true
		decls = append(decls, decl)
	case "internal_module", "module":
		decl := sc.named(node, declNamespace, doc)
		decl.typ, decl.resolved = "typeof "+decl.name, true
		decls = append(decls, decl)
	}

	for _, d := range decls {
		if d.name == "" {
			continue
		}
		prev, seen := sc.locals[d.name]
		switch {
		case !seen:
			sc.locals[d.name] = d
		case prev.kind == declSignature && (d.kind == declSignature || d.kind == declFunction):
			d.collapsed = true
		}
	}
	if len(decls) > 0 {
		sc.byNode[stmt.Id()] = append(sc.byNode[stmt.Id()], decls...)
	}
	return decls
}

func (sc *scope) named(node *ts.Node, kind declKind, doc *docComment) *declaration {
	d := &declaration{kind: kind, node: node, doc: doc, offset: sc.s.offset(node)}
	if name := node.ChildByFieldName("name"); name != nil {
		d.name = sc.s.text(name)
		d.offset = sc.s.offset(name)
	}
	return d
}

// lookup resolves a local or imported name to its type.
func (sc *scope) lookup(name string) (string, bool) {
	if d, ok := sc.locals[name]; ok {
		return sc.typeOf(d)
	}
	if b, ok := sc.imports[name]; ok {
		return b.typ(), true
	}
	if sc.parent != nil {
		return sc.parent.lookup(name)
	}
	return "", false
}

// typeOf returns the type of d, resolving a pending declaration. A
// declaration whose initializer refers back to itself is unresolved.
func (sc *scope) typeOf(d *declaration) (string, bool) {
	if !d.pending {
		return d.typ, d.resolved
	}
	if d.resolving {
		return "", false
	}
	d.resolving = true
	switch d.kind {
	case declVariable:
		d.typ, d.resolved = sc.variableType(d.node, d.constant)
	default:
		d.typ, d.resolved = sc.functionType(d.node), true
	}
	d.pending, d.resolving = false, false
	return d.typ, d.resolved
}

// comment parses the doc comment of d once, reporting comment issues
// the first time.
func (sc *scope) comment(d *declaration) *ir.Comment {
	if !d.done {
		d.done = true
		d.parsed = sc.parseDoc(d.doc, tsdoc.Options{})
	}
	return d.parsed
}

// bit renders d as a Bit named name, reporting an unresolved type.
func (sc *scope) bit(name string, d *declaration) ir.Bit {
	typ, resolved := sc.typeOf(d)
	if !resolved {
		sc.f.report(ir.UnresolvedType, d.offset, name, "cannot determine the type of %q", name)
		typ = unknownType
	}
	return ir.Bit{Name: name, Type: typ, Comment: sc.comment(d)}
}

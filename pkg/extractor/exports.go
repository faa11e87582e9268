package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/extractinator/pkg/ir"
)

// export is one exported name of a script, in source order.
type export struct {
	name      string
	decl      *declaration
	isDefault bool
	offset    int
}

// exports walks the export statements of the script.
func (sc *scope) exports() []export {
	var out []export
	for _, stmt := range namedChildren(sc.s.root()) {
		if stmt.Kind() == "export_statement" {
			out = append(out, sc.exportStatement(stmt)...)
		}
	}
	return out
}

func (sc *scope) exportStatement(stmt *ts.Node) []export {
	isDefault := hasChildKind(stmt, "default")
	source := stmt.ChildByFieldName("source")

	if decl := stmt.ChildByFieldName("declaration"); decl != nil {
		sc.reportDestructuring(decl)
		var out []export
		for _, d := range sc.byNode[stmt.Id()] {
			if d.collapsed {
				continue
			}
			e := export{name: d.name, decl: d, offset: d.offset, isDefault: isDefault}
			if e.name == "" {
				e.name = ir.DefaultExportName
			}
			out = append(out, e)
		}
		return out
	}

	if value := stmt.ChildByFieldName("value"); value != nil && isDefault {
		return []export{{
			name:      ir.DefaultExportName,
			decl:      sc.defaultValue(stmt, value),
			isDefault: true,
			offset:    sc.s.offset(value),
		}}
	}

	if clause := findChildByKind(stmt, "export_clause"); clause != nil {
		return sc.exportClause(stmt, clause, source)
	}

	if ns := findChildByKind(stmt, "namespace_export"); ns != nil && source != nil {
		name := ns.NamedChild(0)
		if name == nil {
			return nil
		}
		d := &declaration{
			name:     unquoteString(sc.s.text(name)),
			offset:   sc.s.offset(name),
			typ:      importBinding{source: unquoteString(sc.s.text(source)), imported: "*"}.typ(),
			resolved: true,
			doc:      sc.docComment(stmt),
		}
		return []export{{name: d.name, decl: d, offset: d.offset}}
	}

	if hasChildKind(stmt, "*") && source != nil {
		sc.f.report(ir.UnsupportedConstruct, sc.s.offset(stmt), "",
			"names re-exported by %s are not listed", normalizeSpace(sc.s.text(stmt)))
		return nil
	}

	sc.f.report(ir.UnsupportedConstruct, sc.s.offset(stmt), "", "unsupported export form %q", normalizeSpace(sc.s.text(stmt)))
	return nil
}

// defaultValue builds the declaration behind "export default <expr>".
func (sc *scope) defaultValue(stmt, value *ts.Node) *declaration {
	doc := sc.docComment(stmt)
	if value.Kind() == "identifier" {
		if local, ok := sc.locals[sc.s.text(value)]; ok {
			if doc == nil {
				return local
			}
			typ, resolved := sc.typeOf(local)
			return &declaration{name: local.name, offset: local.offset, typ: typ, resolved: resolved, doc: doc}
		}
	}

	d := &declaration{name: ir.DefaultExportName, offset: sc.s.offset(value), doc: doc}
	d.typ, d.resolved = sc.infer(value, false)
	if !d.resolved && value.Kind() == "class" {
		d.typ, d.resolved = "typeof "+ir.DefaultExportName, true
	}
	return d
}

func (sc *scope) exportClause(stmt, clause, source *ts.Node) []export {
	doc := sc.docComment(stmt)
	from := ""
	if source != nil {
		from = unquoteString(sc.s.text(source))
	}

	var out []export
	for _, spec := range namedChildren(clause) {
		if spec.Kind() != "export_specifier" {
			continue
		}
		nameNode := spec.ChildByFieldName("name")
		local := unquoteString(sc.s.text(nameNode))
		name := local
		if alias := spec.ChildByFieldName("alias"); alias != nil {
			name = unquoteString(sc.s.text(alias))
		}

		at := sc.s.offset(nameNode)
		var d *declaration
		switch {
		case from != "":
			d = &declaration{name: local, offset: at, typ: importBinding{source: from, imported: local}.typ(), resolved: true}
		case sc.locals[local] != nil:
			d = sc.locals[local]
		default:
			d = &declaration{name: local, offset: at}
			d.typ, d.resolved = sc.lookup(local)
		}
		if doc != nil && d.doc == nil {
			typ, resolved := sc.typeOf(d)
			d = &declaration{name: d.name, offset: at, typ: typ, resolved: resolved, doc: doc}
		}

		out = append(out, export{
			name:      name,
			decl:      d,
			isDefault: name == ir.DefaultExportName,
			offset:    sc.s.offset(spec),
		})
	}
	return out
}

// reportDestructuring flags exported bindings introduced by destructuring
// patterns, which produce no Bit.
func (sc *scope) reportDestructuring(decl *ts.Node) {
	switch decl.Kind() {
	case "lexical_declaration", "variable_declaration":
	default:
		return
	}
	for _, d := range namedChildren(decl) {
		if d.Kind() != "variable_declarator" {
			continue
		}
		if name := d.ChildByFieldName("name"); name != nil && name.Kind() != "identifier" {
			sc.f.report(ir.UnsupportedConstruct, sc.s.offset(name), "",
				"destructured export %s is not listed", normalizeSpace(sc.s.text(name)))
		}
	}
}

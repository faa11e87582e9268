package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// member is a property of an object type or interface body.
type member struct {
	name   string
	typ    string
	offset int
	doc    *docComment

	// typeNode is the written type, unwrapped from its annotation
	typeNode *ts.Node
}

// typeMembers returns the members of the interface or object type alias
// bound to name, e.g. $$Props.
func (sc *scope) typeMembers(name string) []member {
	return sc.namedMembers(name, 0)
}

// maxTypeDepth bounds alias chains such as "type A = B; type B = A".
const maxTypeDepth = 8

func (sc *scope) namedMembers(name string, depth int) []member {
	if sc == nil || depth > maxTypeDepth {
		return nil
	}
	d, ok := sc.locals[name]
	if !ok {
		return nil
	}
	switch d.kind {
	case declInterface:
		return sc.objectMembers(d.node.ChildByFieldName("body"), depth)
	case declTypeAlias:
		return sc.objectMembers(d.node.ChildByFieldName("value"), depth)
	}
	return nil
}

// members lists the property and method signatures of an object type.
// Any other type node yields no members.
func (sc *scope) members(body *ts.Node) []member {
	return sc.objectMembers(body, 0)
}

func (sc *scope) objectMembers(body *ts.Node, depth int) []member {
	if body == nil {
		return nil
	}
	if body.Kind() == "type_annotation" {
		body = body.NamedChild(0)
	}
	if body == nil {
		return nil
	}
	switch body.Kind() {
	case "type_identifier":
		return sc.namedMembers(sc.s.text(body), depth+1)
	case "object_type", "interface_body":
	default:
		return nil
	}

	var out []member
	for _, m := range namedChildren(body) {
		name := m.ChildByFieldName("name")
		if name == nil {
			continue
		}
		mb := member{
			name:   unquoteString(sc.s.text(name)),
			offset: sc.s.offset(name),
			doc:    sc.docComment(m),
		}
		switch m.Kind() {
		case "property_signature":
			ann := m.ChildByFieldName("type")
			mb.typ = sc.annotation(ann)
			if ann != nil {
				mb.typeNode = ann.NamedChild(0)
			}
			if mb.typ == "" {
				mb.typ = "any"
			}
		case "method_signature":
			mb.typ = sc.functionType(m)
		default:
			continue
		}
		out = append(out, mb)
	}
	return out
}

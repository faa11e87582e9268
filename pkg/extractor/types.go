package extractor

import (
	"fmt"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// unknownType stands in for types that cannot be determined.
const unknownType = "unknown"

// builtinCalls are conversion functions whose result type is fixed.
var builtinCalls = map[string]string{
	"String":  "string",
	"Number":  "number",
	"Boolean": "boolean",
	"Symbol":  "symbol",
	"BigInt":  "bigint",
}

// annotation returns the type written in a type_annotation node, without
// its leading colon.
func (sc *scope) annotation(node *ts.Node) string {
	if node == nil {
		return ""
	}
	text := strings.TrimSpace(sc.s.text(node))
	text = strings.TrimPrefix(text, ":")
	return normalizeSpace(text)
}

// variableType resolves the type of a variable_declarator. Without an
// annotation it is inferred from the initializer; const bindings of
// primitive literals keep the literal type.
func (sc *scope) variableType(d *ts.Node, constant bool) (string, bool) {
	if t := sc.annotation(d.ChildByFieldName("type")); t != "" {
		return t, true
	}
	value := d.ChildByFieldName("value")
	if value == nil {
		return "any", true
	}
	return sc.infer(value, constant)
}

// functionType renders a function-like node as an arrow type, e.g.
// "(name: string, count?: number) => void".
func (sc *scope) functionType(fn *ts.Node) string {
	var b strings.Builder
	if tp := fn.ChildByFieldName("type_parameters"); tp != nil {
		b.WriteString(normalizeSpace(sc.s.text(tp)))
	}
	if single := fn.ChildByFieldName("parameter"); single != nil {
		b.WriteString("(" + sc.s.text(single) + ": any)")
	} else {
		b.WriteString(sc.parameters(fn.ChildByFieldName("parameters")))
	}
	b.WriteString(" => ")
	b.WriteString(sc.returnType(fn))
	return b.String()
}

func (sc *scope) parameters(params *ts.Node) string {
	var parts []string
	for _, p := range namedChildren(params) {
		parts = append(parts, sc.parameter(p))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (sc *scope) parameter(p *ts.Node) string {
	switch p.Kind() {
	case "required_parameter", "optional_parameter":
		pattern := p.ChildByFieldName("pattern")
		name := normalizeSpace(sc.s.text(pattern))
		value := p.ChildByFieldName("value")
		optional := p.Kind() == "optional_parameter" || value != nil

		typ := sc.annotation(p.ChildByFieldName("type"))
		switch {
		case typ != "":
		case pattern != nil && pattern.Kind() == "rest_pattern":
			typ = "any[]"
		case value != nil:
			typ = sc.widened(value)
		default:
			typ = "any"
		}
		if optional && !strings.HasPrefix(name, "...") {
			name += "?"
		}
		return name + ": " + typ

	case "assignment_pattern":
		name := normalizeSpace(sc.s.text(p.ChildByFieldName("left")))
		return name + "?: " + sc.widened(p.ChildByFieldName("right"))

	case "rest_pattern":
		return sc.s.text(p) + ": any[]"

	default:
		return normalizeSpace(sc.s.text(p)) + ": any"
	}
}

func (sc *scope) widened(expr *ts.Node) string {
	if t, ok := sc.infer(expr, false); ok {
		return t
	}
	return "any"
}

// returnType is the annotated return type, or one inferred from the
// body: void without a valued return, any otherwise.
func (sc *scope) returnType(fn *ts.Node) string {
	if rt := sc.annotation(fn.ChildByFieldName("return_type")); rt != "" {
		return rt
	}

	generator := strings.Contains(fn.Kind(), "generator") || hasChildKind(fn, "*")
	async := hasChildKind(fn, "async")
	if generator {
		if async {
			return "AsyncGenerator"
		}
		return "Generator"
	}

	ret := "any"
	if body := fn.ChildByFieldName("body"); body != nil {
		switch {
		case body.Kind() != "statement_block":
			ret = sc.widened(body)
		case !hasValuedReturn(body):
			ret = "void"
		}
	}
	if async {
		return "Promise<" + ret + ">"
	}
	return ret
}

// hasValuedReturn reports whether a function body returns a value,
// ignoring nested functions.
func hasValuedReturn(node *ts.Node) bool {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "return_statement":
			if len(namedChildren(child)) > 0 {
				return true
			}
		case "function_declaration", "function_expression", "arrow_function",
			"generator_function", "generator_function_declaration", "class_declaration", "class", "method_definition":
			continue
		default:
			if hasValuedReturn(child) {
				return true
			}
		}
	}
	return false
}

// infer determines the type of an expression. literal keeps primitive
// literals narrow, as for const bindings.
func (sc *scope) infer(expr *ts.Node, literal bool) (string, bool) {
	if expr == nil {
		return "", false
	}
	text := sc.s.text(expr)

	switch expr.Kind() {
	case "true", "false":
		if literal {
			return text, true
		}
		return "boolean", true

	case "number":
		if strings.HasSuffix(text, "n") {
			return "bigint", true
		}
		if literal {
			return text, true
		}
		return "number", true

	case "string":
		if literal {
			inner := unquoteString(text)
			if !strings.Contains(inner, `"`) {
				return `"` + inner + `"`, true
			}
			return text, true
		}
		return "string", true

	case "template_string":
		return "string", true
	case "null":
		return "null", true
	case "undefined":
		return "undefined", true
	case "regex":
		return "RegExp", true

	case "unary_expression":
		op := sc.s.text(expr.ChildByFieldName("operator"))
		arg := expr.ChildByFieldName("argument")
		switch op {
		case "!", "delete":
			return "boolean", true
		case "typeof":
			return "string", true
		case "void":
			return "undefined", true
		}
		if arg != nil && arg.Kind() == "number" {
			if literal && op == "-" {
				return "-" + sc.s.text(arg), true
			}
			return "number", true
		}
		return "number", true

	case "parenthesized_expression", "non_null_expression":
		if inner := namedChildren(expr); len(inner) > 0 {
			return sc.infer(inner[0], literal)
		}

	case "as_expression":
		parts := namedChildren(expr)
		if len(parts) == 0 {
			break
		}
		if hasChildKind(expr, "const") {
			return sc.infer(parts[0], true)
		}
		if len(parts) > 1 {
			return normalizeSpace(sc.s.text(parts[len(parts)-1])), true
		}

	case "satisfies_expression":
		parts := namedChildren(expr)
		if len(parts) == 0 {
			break
		}
		if t, ok := sc.infer(parts[0], literal); ok {
			return t, true
		}
		if len(parts) > 1 {
			return normalizeSpace(sc.s.text(parts[len(parts)-1])), true
		}

	case "type_assertion":
		if targs := findChildByKind(expr, "type_arguments"); targs != nil {
			return normalizeSpace(strings.TrimSuffix(strings.TrimPrefix(sc.s.text(targs), "<"), ">")), true
		}

	case "new_expression":
		ctor := expr.ChildByFieldName("constructor")
		if ctor == nil {
			break
		}
		return sc.s.text(ctor) + normalizeSpace(sc.s.text(expr.ChildByFieldName("type_arguments"))), true

	case "array":
		return sc.arrayType(expr), true

	case "object":
		return sc.objectType(expr), true

	case "arrow_function", "function_expression", "function", "generator_function":
		return sc.functionType(expr), true

	case "class":
		if name := expr.ChildByFieldName("name"); name != nil {
			return "typeof " + sc.s.text(name), true
		}

	case "identifier":
		if text == "undefined" {
			return "undefined", true
		}
		return sc.lookup(text)

	case "binary_expression":
		return sc.binaryType(expr)

	case "ternary_expression":
		a, okA := sc.infer(expr.ChildByFieldName("consequence"), false)
		b, okB := sc.infer(expr.ChildByFieldName("alternative"), false)
		switch {
		case okA && okB && a == b:
			return a, true
		case okA && okB:
			return a + " | " + b, true
		}

	case "call_expression":
		if t, ok := builtinCalls[sc.s.text(expr.ChildByFieldName("function"))]; ok {
			return t, true
		}
	}
	return "", false
}

func (sc *scope) binaryType(expr *ts.Node) (string, bool) {
	op := sc.s.text(expr.ChildByFieldName("operator"))
	switch op {
	case "==", "===", "!=", "!==", "<", "<=", ">", ">=", "instanceof", "in":
		return "boolean", true
	case "-", "*", "/", "%", "**", "<<", ">>", ">>>", "&", "|", "^":
		return "number", true
	}

	left, okL := sc.infer(expr.ChildByFieldName("left"), false)
	right, okR := sc.infer(expr.ChildByFieldName("right"), false)
	switch op {
	case "+":
		if left == "string" || right == "string" {
			return "string", true
		}
		if okL && okR && left == "number" && right == "number" {
			return "number", true
		}
	case "&&", "||", "??":
		if okL && okR && left == right {
			return left, true
		}
	}
	return "", false
}

// arrayType is T[] for uniform elements, (A | B)[] for mixed ones and
// any[] when empty or unresolvable.
func (sc *scope) arrayType(expr *ts.Node) string {
	var types []string
	seen := make(map[string]bool)
	for _, el := range namedChildren(expr) {
		t, ok := sc.infer(el, false)
		if !ok || el.Kind() == "spread_element" {
			return "any[]"
		}
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	switch len(types) {
	case 0:
		return "any[]"
	case 1:
		if strings.ContainsAny(types[0], " |&") {
			return "(" + types[0] + ")[]"
		}
		return types[0] + "[]"
	default:
		return "(" + strings.Join(types, " | ") + ")[]"
	}
}

// objectType renders an object literal as an object type. Members whose
// type cannot be inferred are any.
func (sc *scope) objectType(expr *ts.Node) string {
	var members []string
	for _, m := range namedChildren(expr) {
		switch m.Kind() {
		case "pair":
			key := sc.s.text(m.ChildByFieldName("key"))
			t, ok := sc.infer(m.ChildByFieldName("value"), false)
			if !ok {
				t = "any"
			}
			members = append(members, fmt.Sprintf("%s: %s", key, t))
		case "shorthand_property_identifier":
			name := sc.s.text(m)
			t, ok := sc.lookup(name)
			if !ok {
				t = "any"
			}
			members = append(members, fmt.Sprintf("%s: %s", name, t))
		case "method_definition":
			key := sc.s.text(m.ChildByFieldName("name"))
			members = append(members, fmt.Sprintf("%s: %s", key, sc.functionType(m)))
		}
	}
	if len(members) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(members, "; ") + " }"
}

// # internal/parser/python.go
package parser

import (
	"strings"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// PythonExtractor turns a parsed Python tree into FileFacts. The whole tree
// is walked, so nested function and class definitions are all collected;
// variables are restricted to module-top-level assignments.
type PythonExtractor struct{}

func (e *PythonExtractor) Extract(root *sitter.Node, source []byte, facts *FileFacts) {
	e.walk(root, source, facts)
	e.extractModuleVariables(root, source, facts)
}

func (e *PythonExtractor) walk(node *sitter.Node, source []byte, facts *FileFacts) {
	switch node.Kind() {
	case "decorated_definition":
		e.extractDecorated(node, source, facts, "")
		return
	case "function_definition":
		e.extractFunction(node, source, facts, "", nil)
		return
	case "class_definition":
		e.extractClass(node, source, facts, nil)
		return
	case "import_statement":
		e.extractImport(node, source, facts)
	case "import_from_statement":
		e.extractFromImport(node, source, facts)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, facts)
	}
}

func (e *PythonExtractor) extractDecorated(node *sitter.Node, source []byte, facts *FileFacts, owner string) *Function {
	var decorators []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "decorator" {
			continue
		}
		for j := uint(0); j < child.ChildCount(); j++ {
			expr := child.Child(j)
			if expr.IsNamed() {
				decorators = append(decorators, e.renderName(expr, source))
				break
			}
		}
	}

	def := node.ChildByFieldName("definition")
	if def == nil {
		return nil
	}

	switch def.Kind() {
	case "function_definition":
		return e.extractFunction(def, source, facts, owner, decorators)
	case "class_definition":
		e.extractClass(def, source, facts, decorators)
	}
	return nil
}

func (e *PythonExtractor) extractFunction(node *sitter.Node, source []byte, facts *FileFacts, owner string, decorators []string) *Function {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	fn := Function{
		Name:       e.text(nameNode, source),
		StartLine:  int(node.StartPosition().Row) + 1,
		EndLine:    int(node.EndPosition().Row) + 1,
		Decorators: decorators,
		IsMethod:   owner != "",
		Class:      owner,
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		if node.Child(i).Kind() == "async" {
			fn.IsAsync = true
			break
		}
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		fn.Params = e.extractParams(params, source)
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.Returns = e.text(ret, source)
	}

	body := node.ChildByFieldName("body")
	if body != nil {
		fn.Doc = e.docstring(body, source)
	}

	idx := len(facts.Functions)
	facts.Functions = append(facts.Functions, fn)

	// Nested definitions inside the body are plain functions, not methods.
	if body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			e.walk(body.Child(i), source, facts)
		}
	}

	return &facts.Functions[idx]
}

func (e *PythonExtractor) extractParams(params *sitter.Node, source []byte) []Param {
	var out []Param

	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		switch child.Kind() {
		case "identifier":
			out = append(out, Param{Name: e.text(child, source)})
		case "typed_parameter":
			p := Param{}
			for j := uint(0); j < child.ChildCount(); j++ {
				if sub := child.Child(j); sub.Kind() == "identifier" {
					p.Name = e.text(sub, source)
					break
				}
			}
			if typ := child.ChildByFieldName("type"); typ != nil {
				p.Annotation = e.text(typ, source)
			}
			if p.Name != "" {
				out = append(out, p)
			}
		case "default_parameter", "typed_default_parameter":
			p := Param{}
			if name := child.ChildByFieldName("name"); name != nil {
				p.Name = e.text(name, source)
			}
			if typ := child.ChildByFieldName("type"); typ != nil {
				p.Annotation = e.text(typ, source)
			}
			if p.Name != "" {
				out = append(out, p)
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			out = append(out, Param{Name: e.text(child, source)})
		}
	}

	return out
}

func (e *PythonExtractor) extractClass(node *sitter.Node, source []byte, facts *FileFacts, decorators []string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	cls := Class{
		Name:       e.text(nameNode, source),
		StartLine:  int(node.StartPosition().Row) + 1,
		EndLine:    int(node.EndPosition().Row) + 1,
		Decorators: decorators,
	}

	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		for i := uint(0); i < supers.ChildCount(); i++ {
			child := supers.Child(i)
			if !child.IsNamed() || child.Kind() == "keyword_argument" {
				continue
			}
			cls.Bases = append(cls.Bases, e.renderName(child, source))
		}
	}

	body := node.ChildByFieldName("body")
	if body != nil {
		cls.Doc = e.docstring(body, source)

		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			switch child.Kind() {
			case "function_definition":
				if fn := e.extractFunction(child, source, facts, cls.Name, nil); fn != nil {
					cls.Methods = append(cls.Methods, *fn)
				}
			case "decorated_definition":
				if fn := e.extractDecorated(child, source, facts, cls.Name); fn != nil {
					cls.Methods = append(cls.Methods, *fn)
				}
			default:
				e.walk(child, source, facts)
			}
		}
	}

	facts.Classes = append(facts.Classes, cls)
}

func (e *PythonExtractor) extractImport(node *sitter.Node, source []byte, facts *FileFacts) {
	line := int(node.StartPosition().Row) + 1

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case "dotted_name", "identifier":
			facts.Imports = append(facts.Imports, Import{
				Module: e.text(child, source),
				Kind:   ImportPlain,
				Line:   line,
			})
		case "aliased_import":
			imp := Import{Kind: ImportPlain, Line: line}
			if name := child.ChildByFieldName("name"); name != nil {
				imp.Module = e.text(name, source)
			}
			if alias := child.ChildByFieldName("alias"); alias != nil {
				imp.Alias = e.text(alias, source)
			}
			facts.Imports = append(facts.Imports, imp)
		}
	}
}

func (e *PythonExtractor) extractFromImport(node *sitter.Node, source []byte, facts *FileFacts) {
	imp := Import{
		Kind: ImportFrom,
		Line: int(node.StartPosition().Row) + 1,
	}
	seenImport := false

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case "import":
			seenImport = true
		case "relative_import":
			// Leading dots are kept; they encode the relative level.
			imp.Module = e.text(child, source)
		case "dotted_name", "identifier":
			if seenImport {
				imp.Items = append(imp.Items, e.text(child, source))
			} else if imp.Module == "" {
				imp.Module = e.text(child, source)
			}
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				imp.Items = append(imp.Items, e.text(name, source))
			}
		case "wildcard_import":
			imp.Kind = ImportWildcard
			imp.Items = append(imp.Items, "*")
		}
	}

	facts.Imports = append(facts.Imports, imp)
}

func (e *PythonExtractor) extractModuleVariables(root *sitter.Node, source []byte, facts *FileFacts) {
	for i := uint(0); i < root.ChildCount(); i++ {
		stmt := root.Child(i)
		if stmt.Kind() != "expression_statement" {
			continue
		}

		expr := stmt.Child(0)
		if expr == nil || expr.Kind() != "assignment" {
			continue
		}

		left := expr.ChildByFieldName("left")
		if left == nil || left.Kind() != "identifier" {
			continue
		}

		name := e.text(left, source)
		v := Variable{
			Name:       name,
			Line:       int(expr.StartPosition().Row) + 1,
			IsConstant: isConstantName(name),
		}
		if typ := expr.ChildByFieldName("type"); typ != nil {
			v.Annotation = e.text(typ, source)
		}
		if right := expr.ChildByFieldName("right"); right != nil {
			v.Value = e.text(right, source)
		}

		facts.Variables = append(facts.Variables, v)
	}
}

// docstring returns the literal text of a leading string expression in a
// definition body, without quotes.
func (e *PythonExtractor) docstring(body *sitter.Node, source []byte) string {
	first := body.NamedChild(0)
	if first == nil || first.Kind() != "expression_statement" {
		return ""
	}

	str := first.Child(0)
	if str == nil || str.Kind() != "string" {
		return ""
	}

	var b strings.Builder
	for i := uint(0); i < str.ChildCount(); i++ {
		if child := str.Child(i); child.Kind() == "string_content" {
			b.WriteString(e.text(child, source))
		}
	}
	return strings.TrimSpace(b.String())
}

// renderName renders a decorator or base-class expression as its literal
// source text, unwrapping calls to their callee and falling back to the
// node kind if nothing renders.
func (e *PythonExtractor) renderName(node *sitter.Node, source []byte) string {
	switch node.Kind() {
	case "call":
		if fn := node.ChildByFieldName("function"); fn != nil {
			return e.text(fn, source)
		}
	}
	if text := strings.TrimSpace(e.text(node, source)); text != "" {
		return text
	}
	return node.Kind()
}

func (e *PythonExtractor) text(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

func isConstantName(name string) bool {
	hasLetter := false
	for _, r := range name {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter && strings.Contains(name, "_")
}

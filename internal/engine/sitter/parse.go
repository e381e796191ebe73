package sitter

import (
	"strings"

	tree_sitter "github.com/smacker/go-tree-sitter"

	"github.com/apiscope-hq/apiscope/internal/engine"
)

// importRef records one imported binding: the module specifier it comes from
// and its name in that module.
type importRef struct {
	source     string
	remoteName string
}

type exportSpec struct {
	local string
	alias string
}

// exportDirective is one export statement: either a list of specs over local
// or re-exported names, or a star re-export.
type exportDirective struct {
	specs  []exportSpec
	source string
	star   bool
}

// parsedFile is the syntactic summary of one source file before linking.
type parsedFile struct {
	path    string
	decls   map[string]engine.Element
	imports map[string]importRef
	exports []exportDirective
}

// parseFile extracts declarations, imports and export directives from a
// parsed syntax tree.
func parseFile(root *tree_sitter.Node, src []byte, path string) *parsedFile {
	pf := &parsedFile{
		path:    path,
		decls:   make(map[string]engine.Element),
		imports: make(map[string]importRef),
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		switch node.Type() {
		case "class_declaration", "function_declaration",
			"generator_function_declaration",
			"lexical_declaration", "variable_declaration":
			pf.addDeclaration(node, src, docFor(node, src))

		case "import_statement":
			pf.addImport(node, src)

		case "export_statement":
			pf.addExport(node, src)
		}
	}

	return pf
}

func (pf *parsedFile) addDeclaration(node *tree_sitter.Node, src []byte, doc string) []string {
	switch node.Type() {
	case "class_declaration":
		if cls := parseClass(node, src, pf.path, doc); cls != nil {
			pf.decls[cls.name] = cls
			return []string{cls.name}
		}

	case "function_declaration", "generator_function_declaration":
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return nil
		}
		fn := &functionElement{
			element: element{
				kind:     engine.KindFunction,
				name:     nameNode.Content(src),
				doc:      doc,
				location: pf.path,
			},
			params: parseParams(node.ChildByFieldName("parameters"), src),
		}
		pf.decls[fn.name] = fn
		return []string{fn.name}

	case "lexical_declaration", "variable_declaration":
		isConst := node.ChildCount() > 0 && node.Child(0).Type() == "const"
		var names []string
		for i := 0; i < int(node.NamedChildCount()); i++ {
			decl := node.NamedChild(i)
			if decl.Type() != "variable_declarator" {
				continue
			}
			nameNode := decl.ChildByFieldName("name")
			if nameNode == nil || nameNode.Type() != "identifier" {
				continue
			}
			v := &variableElement{
				element: element{
					kind:     engine.KindVariable,
					name:     nameNode.Content(src),
					doc:      doc,
					location: pf.path,
				},
				isConst: isConst,
			}
			pf.decls[v.name] = v
			names = append(names, v.name)
		}
		return names
	}
	return nil
}

func (pf *parsedFile) addImport(node *tree_sitter.Node, src []byte) {
	source := stringContent(node.ChildByFieldName("source"), src)
	if source == "" {
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		clause := node.NamedChild(i)
		if clause.Type() != "import_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			item := clause.NamedChild(j)
			switch item.Type() {
			case "identifier": // default import
				name := item.Content(src)
				pf.imports[name] = importRef{source: source, remoteName: "default"}
			case "named_imports":
				for k := 0; k < int(item.NamedChildCount()); k++ {
					spec := item.NamedChild(k)
					if spec.Type() != "import_specifier" {
						continue
					}
					remote := contentOf(spec.ChildByFieldName("name"), src)
					local := contentOf(spec.ChildByFieldName("alias"), src)
					if local == "" {
						local = remote
					}
					if local != "" {
						pf.imports[local] = importRef{source: source, remoteName: remote}
					}
				}
			}
		}
	}
}

func (pf *parsedFile) addExport(node *tree_sitter.Node, src []byte) {
	if decl := node.ChildByFieldName("declaration"); decl != nil {
		names := pf.addDeclaration(decl, src, docFor(node, src))
		if len(names) == 0 {
			return
		}
		d := exportDirective{}
		for _, name := range names {
			d.specs = append(d.specs, exportSpec{local: name, alias: name})
		}
		pf.exports = append(pf.exports, d)
		return
	}

	d := exportDirective{source: stringContent(node.ChildByFieldName("source"), src)}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "*":
			d.star = true
		case "export_clause":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				spec := child.NamedChild(j)
				if spec.Type() != "export_specifier" {
					continue
				}
				local := contentOf(spec.ChildByFieldName("name"), src)
				alias := contentOf(spec.ChildByFieldName("alias"), src)
				if alias == "" {
					alias = local
				}
				if local != "" {
					d.specs = append(d.specs, exportSpec{local: local, alias: alias})
				}
			}
		}
	}
	if d.star || len(d.specs) > 0 {
		pf.exports = append(pf.exports, d)
	}
}

func parseClass(node *tree_sitter.Node, src []byte, path, doc string) *classElement {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	cls := &classElement{
		element: element{
			kind:     engine.KindClass,
			name:     nameNode.Content(src),
			doc:      doc,
			location: path,
		},
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "class_heritage" {
			for j := 0; j < int(child.NamedChildCount()); j++ {
				h := child.NamedChild(j)
				if h.Type() == "identifier" || h.Type() == "member_expression" {
					cls.superName = h.Content(src)
					break
				}
			}
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return cls
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		parseClassMember(cls, body.NamedChild(i), src)
	}
	return cls
}

func parseClassMember(cls *classElement, node *tree_sitter.Node, src []byte) {
	doc := docFor(node, src)

	switch node.Type() {
	case "method_definition":
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil || nameNode.Type() == "computed_property_name" {
			return
		}
		name := normalizePrivate(nameNode.Content(src))

		var static, getter, setter bool
		for i := 0; i < int(node.ChildCount()); i++ {
			switch node.Child(i).Type() {
			case "static":
				static = true
			case "get":
				getter = true
			case "set":
				setter = true
			}
		}

		base := element{name: name, doc: doc, location: cls.location}
		switch {
		case getter || setter:
			base.kind = engine.KindAccessor
			cls.accessors = append(cls.accessors, &accessorElement{
				element: base,
				static:  static,
				getter:  getter,
			})
		case name == engine.UnnamedConstructor:
			base.kind = engine.KindConstructor
			cls.ctors = append(cls.ctors, &constructorElement{
				element: base,
				params:  parseParams(node.ChildByFieldName("parameters"), src),
			})
		default:
			base.kind = engine.KindMethod
			cls.methods = append(cls.methods, &methodElement{
				element: base,
				static:  static,
				params:  parseParams(node.ChildByFieldName("parameters"), src),
			})
		}

	case "field_definition", "public_field_definition":
		nameNode := node.ChildByFieldName("property")
		if nameNode == nil || nameNode.Type() == "computed_property_name" {
			return
		}
		var static bool
		for i := 0; i < int(node.ChildCount()); i++ {
			if node.Child(i).Type() == "static" {
				static = true
			}
		}
		cls.fields = append(cls.fields, &fieldElement{
			element: element{
				kind:     engine.KindField,
				name:     normalizePrivate(nameNode.Content(src)),
				doc:      doc,
				location: cls.location,
			},
			static: static,
		})
	}
}

func parseParams(node *tree_sitter.Node, src []byte) []engine.Parameter {
	if node == nil {
		return nil
	}
	var params []engine.Parameter
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "identifier":
			params = append(params, &parameter{name: child.Content(src)})
		case "assignment_pattern":
			left := child.ChildByFieldName("left")
			right := child.ChildByFieldName("right")
			if left == nil {
				continue
			}
			p := &parameter{name: left.Content(src), optional: true}
			if right != nil {
				p.hasDefault = true
				p.defSource = right.Content(src)
			}
			params = append(params, p)
		case "rest_pattern":
			params = append(params, &parameter{
				name:     strings.TrimPrefix(child.Content(src), "..."),
				optional: true,
			})
		}
	}
	return params
}

// docFor returns the cleaned doc comment immediately preceding a node,
// or the empty string.
func docFor(node *tree_sitter.Node, src []byte) string {
	prev := node.PrevNamedSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	text := prev.Content(src)
	if !strings.HasPrefix(text, "/**") {
		return ""
	}
	return cleanDoc(text)
}

func cleanDoc(text string) string {
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimSuffix(text, "*/")
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// normalizePrivate maps hash-private names onto the underscore convention so
// one private-name check covers both.
func normalizePrivate(name string) string {
	if strings.HasPrefix(name, "#") {
		return "_" + name[1:]
	}
	return name
}

func contentOf(node *tree_sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}
	return node.Content(src)
}

func stringContent(node *tree_sitter.Node, src []byte) string {
	s := contentOf(node, src)
	return strings.Trim(s, `"'`+"`")
}

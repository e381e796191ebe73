package sitter

import "github.com/apiscope-hq/apiscope/internal/engine"

// element is the common identity of every syntactic element.
type element struct {
	kind     engine.ElementKind
	name     string
	doc      string
	location string
}

func (e *element) Kind() engine.ElementKind { return e.kind }
func (e *element) Name() string             { return e.name }
func (e *element) Documentation() string    { return e.doc }
func (e *element) Location() string         { return e.location }

// classElement is a syntactically extracted class.
type classElement struct {
	element
	superName  string
	superclass engine.Type
	ctors      []engine.ConstructorElement
	fields     []engine.FieldElement
	accessors  []engine.AccessorElement
	methods    []engine.MethodElement
}

func (c *classElement) IsAbstract() bool                              { return false }
func (c *classElement) TypeParameters() []engine.TypeParameterElement { return nil }
func (c *classElement) Superclass() engine.Type                       { return c.superclass }
func (c *classElement) Interfaces() []engine.Type                     { return nil }
func (c *classElement) Mixins() []engine.Type                         { return nil }
func (c *classElement) Constructors() []engine.ConstructorElement     { return c.ctors }
func (c *classElement) Fields() []engine.FieldElement                 { return c.fields }
func (c *classElement) Accessors() []engine.AccessorElement           { return c.accessors }
func (c *classElement) Methods() []engine.MethodElement               { return c.methods }

// InterfaceMembers folds the superclass chain into the complete interface.
// Syntax gives no override information beyond names; the extraction core
// deduplicates by name, so declared members simply come first.
func (c *classElement) InterfaceMembers() []engine.Element {
	visited := make(map[*classElement]bool)
	var out []engine.Element
	for cur := c; cur != nil && !visited[cur]; {
		visited[cur] = true
		for _, m := range cur.methods {
			out = append(out, m)
		}
		for _, a := range cur.accessors {
			out = append(out, a)
		}
		for _, f := range cur.fields {
			out = append(out, f)
		}
		next, _ := superclassOf(cur)
		cur = next
	}
	return out
}

func superclassOf(c *classElement) (*classElement, bool) {
	if c.superclass == nil {
		return nil, false
	}
	parent, ok := c.superclass.Element().(*classElement)
	return parent, ok
}

type constructorElement struct {
	element
	params []engine.Parameter
}

func (c *constructorElement) IsConst() bool                  { return false }
func (c *constructorElement) Parameters() []engine.Parameter { return c.params }

type methodElement struct {
	element
	static bool
	params []engine.Parameter
}

func (m *methodElement) IsStatic() bool                 { return m.static }
func (m *methodElement) IsOperator() bool               { return false }
func (m *methodElement) ReturnType() engine.Type        { return nil }
func (m *methodElement) Parameters() []engine.Parameter { return m.params }

type accessorElement struct {
	element
	static bool
	getter bool
}

func (a *accessorElement) IsStatic() bool             { return a.static }
func (a *accessorElement) IsGetter() bool             { return a.getter }
func (a *accessorElement) ReturnType() engine.Type    { return nil }
func (a *accessorElement) ParameterType() engine.Type { return nil }
func (a *accessorElement) Variable() engine.Element   { return nil }

type fieldElement struct {
	element
	static bool
}

func (f *fieldElement) IsStatic() bool    { return f.static }
func (f *fieldElement) IsConst() bool     { return false }
func (f *fieldElement) IsFinal() bool     { return false }
func (f *fieldElement) IsLate() bool      { return false }
func (f *fieldElement) Type() engine.Type { return nil }

type variableElement struct {
	element
	isConst bool
}

func (v *variableElement) Type() engine.Type { return nil }
func (v *variableElement) IsConst() bool     { return v.isConst }
func (v *variableElement) IsFinal() bool     { return false }
func (v *variableElement) IsLate() bool      { return false }

type functionElement struct {
	element
	params []engine.Parameter
}

func (f *functionElement) ReturnType() engine.Type                       { return nil }
func (f *functionElement) Parameters() []engine.Parameter                { return f.params }
func (f *functionElement) TypeParameters() []engine.TypeParameterElement { return nil }

// classType is a nominal type over a syntactic class or stub element.
type classType struct {
	el engine.Element
}

func (t *classType) Kind() engine.TypeKind          { return engine.TypeInterface }
func (t *classType) Nullable() bool                 { return false }
func (t *classType) Element() engine.Element        { return t.el }
func (t *classType) TypeArguments() []engine.Type   { return nil }
func (t *classType) ReturnType() engine.Type        { return nil }
func (t *classType) Parameters() []engine.Parameter { return nil }
func (t *classType) Bound() engine.Type             { return nil }

func (t *classType) Display(bool) string {
	if t.el == nil {
		return engine.UnresolvedDisplay
	}
	return t.el.Name()
}

type parameter struct {
	name       string
	optional   bool
	hasDefault bool
	defSource  string
}

func (p *parameter) Name() string               { return p.name }
func (p *parameter) Type() engine.Type          { return nil }
func (p *parameter) IsOptional() bool           { return p.optional }
func (p *parameter) IsNamed() bool              { return false }
func (p *parameter) IsRequired() bool           { return !p.optional }
func (p *parameter) HasDefaultValue() bool      { return p.hasDefault }
func (p *parameter) DefaultValueSource() string { return p.defSource }

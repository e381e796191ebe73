// Package enginetest provides a deterministic in-memory implementation of
// the engine interfaces for tests. Libraries and elements are assembled
// programmatically; Resolve never touches the filesystem.
package enginetest

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/apiscope-hq/apiscope/internal/engine"
)

// Engine is an in-memory engine.Engine.
type Engine struct {
	libraries map[string]*Library
	failures  map[string]error
}

// New creates an empty engine.
func New() *Engine {
	return &Engine{
		libraries: make(map[string]*Library),
		failures:  make(map[string]error),
	}
}

// AddLibrary registers an empty library under the given file path.
func (e *Engine) AddLibrary(path string) *Library {
	lib := &Library{path: path, exports: make(map[string]engine.Element)}
	e.libraries[path] = lib
	return lib
}

// FailPath makes Resolve return err for the given path.
func (e *Engine) FailPath(path string, err error) {
	e.failures[path] = err
}

// Resolve implements engine.Engine.
func (e *Engine) Resolve(_ context.Context, path string) (engine.Library, error) {
	if err, ok := e.failures[path]; ok {
		return nil, err
	}
	lib, ok := e.libraries[path]
	if !ok {
		return nil, fmt.Errorf("no library registered for %s", path)
	}
	return lib, nil
}

// Library is an in-memory export namespace.
type Library struct {
	path    string
	exports map[string]engine.Element
}

func (l *Library) Path() string { return l.path }

func (l *Library) ExportedNames() []string {
	names := make([]string, 0, len(l.exports))
	for name := range l.exports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *Library) Export(name string) engine.Element { return l.exports[name] }

// AddExport binds an element under a visible name; the name may differ from
// the element's declared name (aliased re-export).
func (l *Library) AddExport(name string, el engine.Element) *Library {
	l.exports[name] = el
	return l
}

// ExportAll adds every given element under its own declared name.
func (l *Library) ExportAll(els ...engine.Element) *Library {
	for _, el := range els {
		l.exports[el.Name()] = el
	}
	return l
}

// Elem carries the identity every fake element shares.
type Elem struct {
	kind     engine.ElementKind
	name     string
	doc      string
	location string
}

func (e *Elem) Kind() engine.ElementKind { return e.kind }
func (e *Elem) Name() string             { return e.name }
func (e *Elem) Documentation() string    { return e.doc }
func (e *Elem) Location() string         { return e.location }

// SetDoc attaches a documentation string.
func (e *Elem) SetDoc(doc string) { e.doc = doc }

// SetLocation overrides the declaring location, e.g. to place a member in
// the foundation library.
func (e *Elem) SetLocation(location string) { e.location = location }

// Class is a fake class element.
type Class struct {
	Elem
	abstract   bool
	typeParams []engine.TypeParameterElement
	superclass engine.Type
	interfaces []engine.Type
	mixins     []engine.Type
	ctors      []engine.ConstructorElement
	fields     []engine.FieldElement
	accessors  []engine.AccessorElement
	methods    []engine.MethodElement
	inherited  []engine.Element
}

// NewClass creates a class declared at location.
func NewClass(name, location string) *Class {
	return &Class{Elem: Elem{kind: engine.KindClass, name: name, location: location}}
}

func (c *Class) IsAbstract() bool                              { return c.abstract }
func (c *Class) TypeParameters() []engine.TypeParameterElement { return c.typeParams }
func (c *Class) Superclass() engine.Type                       { return c.superclass }
func (c *Class) Interfaces() []engine.Type                     { return c.interfaces }
func (c *Class) Mixins() []engine.Type                         { return c.mixins }
func (c *Class) Constructors() []engine.ConstructorElement     { return c.ctors }
func (c *Class) Fields() []engine.FieldElement                 { return c.fields }
func (c *Class) Accessors() []engine.AccessorElement           { return c.accessors }
func (c *Class) Methods() []engine.MethodElement               { return c.methods }

// InterfaceMembers returns the complete interface: the class's own declared
// members followed by everything recorded as inherited.
func (c *Class) InterfaceMembers() []engine.Element {
	var out []engine.Element
	for _, m := range c.methods {
		out = append(out, m)
	}
	for _, a := range c.accessors {
		out = append(out, a)
	}
	for _, f := range c.fields {
		out = append(out, f)
	}
	return append(out, c.inherited...)
}

func (c *Class) SetAbstract(v bool)             { c.abstract = v }
func (c *Class) SetSuperclass(t engine.Type)    { c.superclass = t }
func (c *Class) AddInterface(t engine.Type)     { c.interfaces = append(c.interfaces, t) }
func (c *Class) AddMixin(t engine.Type)         { c.mixins = append(c.mixins, t) }
func (c *Class) AddInherited(el engine.Element) { c.inherited = append(c.inherited, el) }

// InheritFrom records every declared member of parent as inherited, the way
// a real engine folds ancestors into the complete interface.
func (c *Class) InheritFrom(parent *Class) {
	c.inherited = append(c.inherited, parent.InterfaceMembers()...)
}

// AddTypeParameter declares a generic type parameter; bound may be nil.
func (c *Class) AddTypeParameter(name string, bound engine.Type) *TypeParam {
	tp := &TypeParam{
		Elem:  Elem{kind: engine.KindTypeParameter, name: name, location: c.location},
		bound: bound,
	}
	c.typeParams = append(c.typeParams, tp)
	return tp
}

// AddConstructor declares a constructor. Use engine.UnnamedConstructor for
// the unnamed one.
func (c *Class) AddConstructor(name string, params ...engine.Parameter) *Constructor {
	ctor := &Constructor{
		Elem:   Elem{kind: engine.KindConstructor, name: name, location: c.location},
		params: params,
	}
	c.ctors = append(c.ctors, ctor)
	return ctor
}

// AddField declares an instance field.
func (c *Class) AddField(name string, t engine.Type) *Field {
	f := &Field{
		Elem: Elem{kind: engine.KindField, name: name, location: c.location},
		typ:  t,
	}
	c.fields = append(c.fields, f)
	return f
}

// AddGetter declares an explicit getter.
func (c *Class) AddGetter(name string, t engine.Type) *Accessor {
	a := newAccessor(name, c.location, true, t)
	c.accessors = append(c.accessors, a)
	return a
}

// AddSetter declares an explicit setter.
func (c *Class) AddSetter(name string, t engine.Type) *Accessor {
	a := newAccessor(name, c.location, false, t)
	c.accessors = append(c.accessors, a)
	return a
}

// AddMethod declares an instance method.
func (c *Class) AddMethod(name string, ret engine.Type, params ...engine.Parameter) *Method {
	m := &Method{
		Elem:   Elem{kind: engine.KindMethod, name: name, location: c.location},
		ret:    ret,
		params: params,
	}
	c.methods = append(c.methods, m)
	return m
}

// Enum is a fake enum element: class-like plus declared values.
type Enum struct {
	Class
	values []engine.Element
}

// NewEnum creates an enum declared at location.
func NewEnum(name, location string) *Enum {
	e := &Enum{Class: Class{Elem: Elem{kind: engine.KindEnum, name: name, location: location}}}
	return e
}

func (e *Enum) Values() []engine.Element { return e.values }

// AddValue declares an enum constant.
func (e *Enum) AddValue(name, doc string) {
	e.values = append(e.values, &Elem{
		kind:     engine.KindField,
		name:     name,
		doc:      doc,
		location: e.location,
	})
}

// Constructor is a fake constructor element.
type Constructor struct {
	Elem
	isConst bool
	params  []engine.Parameter
}

func (c *Constructor) IsConst() bool                  { return c.isConst }
func (c *Constructor) Parameters() []engine.Parameter { return c.params }
func (c *Constructor) SetConst(v bool)                { c.isConst = v }

// Method is a fake method element.
type Method struct {
	Elem
	static   bool
	operator bool
	ret      engine.Type
	params   []engine.Parameter
}

func (m *Method) IsStatic() bool                 { return m.static }
func (m *Method) IsOperator() bool               { return m.operator }
func (m *Method) ReturnType() engine.Type        { return m.ret }
func (m *Method) Parameters() []engine.Parameter { return m.params }
func (m *Method) SetStatic(v bool)               { m.static = v }
func (m *Method) SetOperator(v bool)             { m.operator = v }

// Accessor is a fake getter or setter element.
type Accessor struct {
	Elem
	static   bool
	getter   bool
	typ      engine.Type
	variable engine.Element
}

func newAccessor(name, location string, getter bool, t engine.Type) *Accessor {
	return &Accessor{
		Elem:   Elem{kind: engine.KindAccessor, name: name, location: location},
		getter: getter,
		typ:    t,
	}
}

func (a *Accessor) IsStatic() bool               { return a.static }
func (a *Accessor) IsGetter() bool               { return a.getter }
func (a *Accessor) ReturnType() engine.Type      { return a.typ }
func (a *Accessor) ParameterType() engine.Type   { return a.typ }
func (a *Accessor) Variable() engine.Element     { return a.variable }
func (a *Accessor) SetStatic(v bool)             { a.static = v }
func (a *Accessor) SetVariable(v engine.Element) { a.variable = v }

// NewTopLevelAccessor creates an accessor backed by a top-level variable,
// the shape engines report for implicit variable accessors.
func NewTopLevelAccessor(name, location string, getter bool, backing engine.Element) *Accessor {
	a := newAccessor(name, location, getter, nil)
	a.variable = backing
	return a
}

// Field is a fake field element.
type Field struct {
	Elem
	static  bool
	isConst bool
	isFinal bool
	isLate  bool
	typ     engine.Type
}

func (f *Field) IsStatic() bool    { return f.static }
func (f *Field) IsConst() bool     { return f.isConst }
func (f *Field) IsFinal() bool     { return f.isFinal }
func (f *Field) IsLate() bool      { return f.isLate }
func (f *Field) Type() engine.Type { return f.typ }
func (f *Field) SetStatic(v bool)  { f.static = v }
func (f *Field) SetConst(v bool)   { f.isConst = v }
func (f *Field) SetFinal(v bool)   { f.isFinal = v }
func (f *Field) SetLate(v bool)    { f.isLate = v }

// Variable is a fake top-level variable element.
type Variable struct {
	Elem
	typ     engine.Type
	isConst bool
	isFinal bool
	isLate  bool
}

// NewVariable creates a top-level variable declared at location.
func NewVariable(name, location string, t engine.Type) *Variable {
	return &Variable{
		Elem: Elem{kind: engine.KindVariable, name: name, location: location},
		typ:  t,
	}
}

func (v *Variable) Type() engine.Type { return v.typ }
func (v *Variable) IsConst() bool     { return v.isConst }
func (v *Variable) IsFinal() bool     { return v.isFinal }
func (v *Variable) IsLate() bool      { return v.isLate }
func (v *Variable) SetConst(b bool)   { v.isConst = b }
func (v *Variable) SetFinal(b bool)   { v.isFinal = b }
func (v *Variable) SetLate(b bool)    { v.isLate = b }

// Function is a fake top-level function element.
type Function struct {
	Elem
	ret        engine.Type
	params     []engine.Parameter
	typeParams []engine.TypeParameterElement
}

// NewFunction creates a top-level function declared at location.
func NewFunction(name, location string, ret engine.Type, params ...engine.Parameter) *Function {
	return &Function{
		Elem:   Elem{kind: engine.KindFunction, name: name, location: location},
		ret:    ret,
		params: params,
	}
}

func (f *Function) ReturnType() engine.Type                       { return f.ret }
func (f *Function) Parameters() []engine.Parameter                { return f.params }
func (f *Function) TypeParameters() []engine.TypeParameterElement { return f.typeParams }

// AddTypeParameter declares a generic type parameter; bound may be nil.
func (f *Function) AddTypeParameter(name string, bound engine.Type) *TypeParam {
	tp := &TypeParam{
		Elem:  Elem{kind: engine.KindTypeParameter, name: name, location: f.location},
		bound: bound,
	}
	f.typeParams = append(f.typeParams, tp)
	return tp
}

// Extension is a fake extension element.
type Extension struct {
	Elem
	onType    engine.Type
	fields    []engine.FieldElement
	accessors []engine.AccessorElement
	methods   []engine.MethodElement
}

// NewExtension creates an extension over onType declared at location.
func NewExtension(name, location string, onType engine.Type) *Extension {
	return &Extension{
		Elem:   Elem{kind: engine.KindExtension, name: name, location: location},
		onType: onType,
	}
}

func (e *Extension) OnType() engine.Type                 { return e.onType }
func (e *Extension) Fields() []engine.FieldElement       { return e.fields }
func (e *Extension) Accessors() []engine.AccessorElement { return e.accessors }
func (e *Extension) Methods() []engine.MethodElement     { return e.methods }

// AddMethod declares an extension method.
func (e *Extension) AddMethod(name string, ret engine.Type, params ...engine.Parameter) *Method {
	m := &Method{
		Elem:   Elem{kind: engine.KindMethod, name: name, location: e.location},
		ret:    ret,
		params: params,
	}
	e.methods = append(e.methods, m)
	return m
}

// AddGetter declares an extension getter.
func (e *Extension) AddGetter(name string, t engine.Type) *Accessor {
	a := newAccessor(name, e.location, true, t)
	e.accessors = append(e.accessors, a)
	return a
}

// TypeParam is a fake declared type parameter.
type TypeParam struct {
	Elem
	bound engine.Type
}

func (tp *TypeParam) Bound() engine.Type { return tp.bound }

// fakeType implements engine.Type.
type fakeType struct {
	kind       engine.TypeKind
	nullable   bool
	element    engine.Element
	args       []engine.Type
	ret        engine.Type
	params     []engine.Parameter
	bound      engine.Type
	unresolved bool
}

func (t *fakeType) Kind() engine.TypeKind          { return t.kind }
func (t *fakeType) Nullable() bool                 { return t.nullable }
func (t *fakeType) Element() engine.Element        { return t.element }
func (t *fakeType) TypeArguments() []engine.Type   { return t.args }
func (t *fakeType) ReturnType() engine.Type        { return t.ret }
func (t *fakeType) Parameters() []engine.Parameter { return t.params }
func (t *fakeType) Bound() engine.Type             { return t.bound }

func (t *fakeType) Display(withNullability bool) string {
	if t.unresolved {
		return engine.UnresolvedDisplay
	}
	var s string
	switch t.kind {
	case engine.TypeDynamic:
		return "dynamic"
	case engine.TypeVoid:
		return "void"
	case engine.TypeNever:
		return "Never"
	case engine.TypeInvalid:
		return engine.UnresolvedDisplay
	case engine.TypeFunction:
		s = "Function"
	default:
		if t.element != nil {
			s = t.element.Name()
		}
		if len(t.args) > 0 {
			parts := make([]string, 0, len(t.args))
			for _, a := range t.args {
				parts = append(parts, a.Display(withNullability))
			}
			s += "<" + strings.Join(parts, ", ") + ">"
		}
	}
	if withNullability && t.nullable {
		s += "?"
	}
	return s
}

// Dyn returns the dynamic type.
func Dyn() engine.Type { return &fakeType{kind: engine.TypeDynamic} }

// VoidT returns the void type.
func VoidT() engine.Type { return &fakeType{kind: engine.TypeVoid} }

// NeverT returns the never type.
func NeverT() engine.Type { return &fakeType{kind: engine.TypeNever} }

// Invalid returns an invalid/unresolved type; its display is the unresolved
// sentinel. el may be nil.
func Invalid(el engine.Element) engine.Type {
	return &fakeType{kind: engine.TypeInvalid, element: el, unresolved: true}
}

// ClassT returns a nominal type over el with the given type arguments.
func ClassT(el engine.Element, args ...engine.Type) engine.Type {
	return &fakeType{kind: engine.TypeInterface, element: el, args: args}
}

// NullableClassT returns a nullable nominal type over el.
func NullableClassT(el engine.Element, args ...engine.Type) engine.Type {
	return &fakeType{kind: engine.TypeInterface, element: el, args: args, nullable: true}
}

// UnresolvedClassT returns a nominal type whose display rendering failed but
// whose element is still resolvable.
func UnresolvedClassT(el engine.Element) engine.Type {
	return &fakeType{kind: engine.TypeInterface, element: el, unresolved: true}
}

// FuncT returns a function type.
func FuncT(ret engine.Type, params ...engine.Parameter) engine.Type {
	return &fakeType{kind: engine.TypeFunction, ret: ret, params: params}
}

// ParamRefT returns a reference to a declared type parameter.
func ParamRefT(tp *TypeParam) engine.Type {
	return &fakeType{kind: engine.TypeParamRef, element: tp, bound: tp.bound}
}

// fakeParam implements engine.Parameter.
type fakeParam struct {
	name       string
	typ        engine.Type
	optional   bool
	named      bool
	required   bool
	hasDefault bool
	defSource  string
}

func (p *fakeParam) Name() string               { return p.name }
func (p *fakeParam) Type() engine.Type          { return p.typ }
func (p *fakeParam) IsOptional() bool           { return p.optional }
func (p *fakeParam) IsNamed() bool              { return p.named }
func (p *fakeParam) IsRequired() bool           { return p.required }
func (p *fakeParam) HasDefaultValue() bool      { return p.hasDefault }
func (p *fakeParam) DefaultValueSource() string { return p.defSource }

// Param returns a required positional parameter.
func Param(name string, t engine.Type) engine.Parameter {
	return &fakeParam{name: name, typ: t, required: true}
}

// OptionalParam returns an optional positional parameter with a default.
func OptionalParam(name string, t engine.Type, defSource string) engine.Parameter {
	return &fakeParam{name: name, typ: t, optional: true, hasDefault: defSource != "", defSource: defSource}
}

// NamedParam returns a named parameter.
func NamedParam(name string, t engine.Type, required bool) engine.Parameter {
	return &fakeParam{name: name, typ: t, named: true, required: required, optional: !required}
}

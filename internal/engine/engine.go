// Package engine defines the narrow interface between the extraction core
// and the semantic analysis engine that resolves source files into symbol
// and type information. The core never parses source itself; it consumes
// resolved handles through these interfaces. Implementations must be
// idempotent and side-effect-free on the source tree.
package engine

import "context"

// ElementKind identifies the category of a resolved element.
type ElementKind string

const (
	KindClass         ElementKind = "class"
	KindEnum          ElementKind = "enum"
	KindFunction      ElementKind = "function"
	KindVariable      ElementKind = "variable"
	KindAccessor      ElementKind = "accessor"
	KindExtension     ElementKind = "extension"
	KindConstructor   ElementKind = "constructor"
	KindMethod        ElementKind = "method"
	KindField         ElementKind = "field"
	KindTypeParameter ElementKind = "typeParameter"
	KindOther         ElementKind = "other"
)

// UnnamedConstructor is the reserved placeholder token an engine may use for
// the unnamed constructor. Extraction normalizes it to the empty string.
const UnnamedConstructor = "constructor"

// UnresolvedDisplay is the sentinel an engine's display renderer returns for
// a type it could not resolve.
const UnresolvedDisplay = "?unresolved?"

// Engine resolves source files into semantic handles.
type Engine interface {
	// Resolve returns the resolved library for a source file, or an error
	// when the file cannot be resolved. A per-file resolution error is
	// recoverable for callers; it does not poison other files.
	Resolve(ctx context.Context, path string) (Library, error)
}

// Library is a resolved source file together with its export namespace:
// the names visible to importers of the file, with the engine's own
// export/hide semantics already applied.
type Library interface {
	// Path returns the source file path this library was resolved from.
	Path() string
	// ExportedNames returns the visible names in sorted order.
	ExportedNames() []string
	// Export returns the element bound to a visible name, or nil.
	Export(name string) Element
}

// Element is a resolved declaration handle. Concrete capabilities are
// discovered by asserting to the narrower interfaces below.
type Element interface {
	Kind() ElementKind
	Name() string
	Documentation() string
	// Location returns the canonical declaring-location URI. Foundation
	// library locations use the "builtin:" scheme.
	Location() string
}

// Key is the explicit identity of a declaration: two handles with equal keys
// refer to the same underlying declaration, even across export namespaces
// and re-export aliases.
type Key struct {
	Location string
	Name     string
	Kind     ElementKind
}

// KeyOf returns the identity key for an element handle.
func KeyOf(e Element) Key {
	return Key{Location: e.Location(), Name: e.Name(), Kind: e.Kind()}
}

// TypeKind identifies the shape of a resolved type.
type TypeKind int

const (
	TypeDynamic TypeKind = iota
	TypeVoid
	TypeNever
	TypeInvalid
	TypeInterface
	TypeFunction
	TypeParamRef
)

// Type is a resolved type handle.
type Type interface {
	Kind() TypeKind
	// Display renders the type for humans. It returns UnresolvedDisplay
	// when the type could not be resolved.
	Display(withNullability bool) string
	Nullable() bool
	// Element returns the declaring element for interface and
	// type-parameter kinds, nil otherwise.
	Element() Element
	// TypeArguments returns generic arguments for interface kinds.
	TypeArguments() []Type
	// ReturnType returns the return type for function kinds, nil otherwise.
	ReturnType() Type
	// Parameters returns the parameter list for function kinds.
	Parameters() []Parameter
	// Bound returns the declared bound for type-parameter kinds, nil when
	// unbounded.
	Bound() Type
}

// Parameter is a resolved formal parameter.
type Parameter interface {
	Name() string
	Type() Type
	IsOptional() bool
	IsNamed() bool
	IsRequired() bool
	HasDefaultValue() bool
	DefaultValueSource() string
}

// TypeParameterElement is a declared generic type parameter.
type TypeParameterElement interface {
	Element
	// Bound returns the declared bound, nil when unbounded.
	Bound() Type
}

// ClassLike is implemented by class and enum element handles.
type ClassLike interface {
	Element
	IsAbstract() bool
	TypeParameters() []TypeParameterElement
	// Superclass returns the immediate superclass type, nil when the
	// element extends only the foundation root.
	Superclass() Type
	Interfaces() []Type
	Mixins() []Type
	Constructors() []ConstructorElement
	Fields() []FieldElement
	Accessors() []AccessorElement
	Methods() []MethodElement
	// InterfaceMembers returns the complete interface of the element:
	// declared and inherited members combined.
	InterfaceMembers() []Element
}

// EnumLike is implemented by enum element handles.
type EnumLike interface {
	ClassLike
	// Values returns the declared enum constants in declaration order.
	Values() []Element
}

// ConstructorElement is a declared constructor handle.
type ConstructorElement interface {
	Element
	IsConst() bool
	Parameters() []Parameter
}

// MethodElement is a declared method or operator handle.
type MethodElement interface {
	Element
	IsStatic() bool
	IsOperator() bool
	ReturnType() Type
	Parameters() []Parameter
}

// AccessorElement is an explicit getter or setter handle.
type AccessorElement interface {
	Element
	IsStatic() bool
	IsGetter() bool
	// ReturnType is meaningful for getters, ParameterType for setters.
	ReturnType() Type
	ParameterType() Type
	// Variable returns the top-level variable declaration this accessor
	// backs, nil for class members and synthetic-free accessors.
	Variable() Element
}

// FieldElement is a declared field handle.
type FieldElement interface {
	Element
	IsStatic() bool
	IsConst() bool
	IsFinal() bool
	IsLate() bool
	Type() Type
}

// VariableLike is a top-level variable declaration handle.
type VariableLike interface {
	Element
	Type() Type
	IsConst() bool
	IsFinal() bool
	IsLate() bool
}

// FunctionLike is a top-level function declaration handle.
type FunctionLike interface {
	Element
	ReturnType() Type
	Parameters() []Parameter
	TypeParameters() []TypeParameterElement
}

// ExtensionLike is an extension declaration handle.
type ExtensionLike interface {
	Element
	OnType() Type
	Fields() []FieldElement
	Accessors() []AccessorElement
	Methods() []MethodElement
}

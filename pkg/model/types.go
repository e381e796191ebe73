// Package model defines the API surface model - a structured, serializable
// representation of a package's public API: its classes, enums, functions,
// variables and extensions, with full member and type detail. This is what
// the extraction engine produces and what the CLI and API server emit as JSON.
package model

// TypeKind discriminates the variants of a TypeRef.
type TypeKind string

const (
	// TypeKindClass is a nominal class or interface type.
	TypeKindClass TypeKind = "class"
	// TypeKindFunction is a function type.
	TypeKindFunction TypeKind = "function"
	// TypeKindGeneric is a reference to a declared type parameter.
	TypeKindGeneric TypeKind = "generic"
	// TypeKindDynamic is the unknown/untyped type.
	TypeKindDynamic TypeKind = "dynamic"
	// TypeKindVoid is the void/empty type. Never-types and invalid or
	// unresolved types degrade to this kind rather than failing extraction.
	TypeKindVoid TypeKind = "void"
)

// FunctionTypeName is the fixed name carried by function-kind TypeRefs.
// It is a discriminant marker, not user data.
const FunctionTypeName = "Function"

// TypeRef is the structural representation of a type reference.
// Kind selects the variant; the remaining fields are populated per kind:
//
//	class:    Name, DefiningModule, Nullable, TypeArguments
//	function: Name (always FunctionTypeName), ReturnType, Parameters, Nullable
//	generic:  Name, Bound, Nullable
//	dynamic:  no fields
//	void:     no fields
//
// Recursion through TypeArguments, ReturnType, Parameters and Bound is finite
// in well-formed inputs but bounded only by the source's actual nesting.
type TypeRef struct {
	Kind           TypeKind    `json:"kind"`
	Name           string      `json:"name,omitempty"`
	DefiningModule string      `json:"definingModule,omitempty"`
	Nullable       bool        `json:"nullable"`
	TypeArguments  []TypeRef   `json:"typeArguments,omitempty"`
	ReturnType     *TypeRef    `json:"returnType,omitempty"`
	Parameters     []Parameter `json:"parameters,omitempty"`
	Bound          *TypeRef    `json:"bound,omitempty"`
}

// Dynamic returns the dynamic type.
func Dynamic() TypeRef {
	return TypeRef{Kind: TypeKindDynamic}
}

// Void returns the void/empty type.
func Void() TypeRef {
	return TypeRef{Kind: TypeKindVoid}
}

// Parameter represents a function, method or constructor parameter.
// DisplayType is a human-readable rendering kept alongside the structural
// Type; both are derived independently from the same source type.
type Parameter struct {
	Name               string   `json:"name"`
	Type               *TypeRef `json:"type,omitempty"`
	DisplayType        string   `json:"displayType,omitempty"`
	IsOptional         bool     `json:"isOptional"`
	IsNamed            bool     `json:"isNamed"`
	HasDefaultValue    bool     `json:"hasDefaultValue"`
	IsRequired         bool     `json:"isRequired,omitempty"`
	DefaultValueSource string   `json:"defaultValueSource,omitempty"`
}

// TypeParameter represents a declared generic type parameter.
type TypeParameter struct {
	Name         string   `json:"name"`
	Bound        *TypeRef `json:"bound,omitempty"`
	DisplayBound string   `json:"displayBound,omitempty"`
}

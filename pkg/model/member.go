package model

// MemberKind discriminates the variants of a Member.
type MemberKind string

const (
	MemberKindConstructor MemberKind = "constructor"
	MemberKindMethod      MemberKind = "method"
	MemberKindOperator    MemberKind = "operator"
	MemberKindGetter      MemberKind = "getter"
	MemberKindSetter      MemberKind = "setter"
	MemberKindField       MemberKind = "field"
)

// Member represents a single member of a class-like element.
// Kind selects the variant; the remaining fields are populated per kind:
//
//	constructor:     Name, Location, IsConst, Parameters
//	method/operator: Name, Location, IsStatic, ReturnType, Parameters
//	getter:          Name, Location, IsStatic, ReturnType
//	setter:          Name, Location, IsStatic, ParameterType
//	field:           Name, Location, IsStatic, Type, IsFinal, IsLate, IsConst
//
// Name never starts with the private marker; extraction enforces this.
// The unnamed constructor carries an empty Name.
type Member struct {
	Kind          MemberKind  `json:"kind"`
	Name          string      `json:"name"`
	Location      string      `json:"location,omitempty"`
	IsStatic      bool        `json:"isStatic,omitempty"`
	IsConst       bool        `json:"isConst,omitempty"`
	IsFinal       bool        `json:"isFinal,omitempty"`
	IsLate        bool        `json:"isLate,omitempty"`
	ReturnType    *TypeRef    `json:"returnType,omitempty"`
	ParameterType *TypeRef    `json:"parameterType,omitempty"`
	Type          *TypeRef    `json:"type,omitempty"`
	Parameters    []Parameter `json:"parameters,omitempty"`
}

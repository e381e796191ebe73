package model

import (
	"encoding/json"
	"fmt"
)

// Element type discriminant values as they appear on the wire.
const (
	ElementTypeClass     = "class"
	ElementTypeEnum      = "enum"
	ElementTypeFunction  = "function"
	ElementTypeVariable  = "variable"
	ElementTypeExtension = "extension"
)

// Element is a top-level declaration of the public API surface. The variant
// set is closed: ClassElement, EnumElement, FunctionElement, VariableElement
// and ExtensionElement. Dispatch with a type switch; the JSON encoding
// carries the variant in an "elementType" field.
type Element interface {
	// ElementType returns the wire discriminant for this variant.
	ElementType() string
	// ElementName returns the declared name.
	ElementName() string
	// DeclaredIn returns the canonical declaring location.
	DeclaredIn() string
}

// ElementBase carries the fields common to every element variant.
// ImportableFrom is the sorted, deduplicated set of public entry paths
// through which the element is reachable; DefinedIn is the single canonical
// declaring location, independent of how many entry points re-export it.
type ElementBase struct {
	Name           string   `json:"name"`
	Documentation  string   `json:"documentation,omitempty"`
	ImportableFrom []string `json:"importableFrom"`
	DefinedIn      string   `json:"definedIn"`
}

// ElementName implements Element.
func (b ElementBase) ElementName() string { return b.Name }

// DeclaredIn implements Element.
func (b ElementBase) DeclaredIn() string { return b.DefinedIn }

// ClassElement describes a class or interface declaration.
type ClassElement struct {
	ElementBase
	TypeParameters  []TypeParameter `json:"typeParameters,omitempty"`
	IsAbstract      bool            `json:"isAbstract"`
	SuperclassChain []string        `json:"superclassChain,omitempty"`
	SuperclassTypes []TypeRef       `json:"superclassTypes,omitempty"`
	Interfaces      []string        `json:"interfaces,omitempty"`
	Mixins          []string        `json:"mixins,omitempty"`
	Members         []Member        `json:"members"`
}

func (ClassElement) ElementType() string { return ElementTypeClass }

// EnumValue is a single declared enum constant.
type EnumValue struct {
	Name          string `json:"name"`
	Documentation string `json:"documentation,omitempty"`
}

// EnumElement describes an enum declaration.
type EnumElement struct {
	ElementBase
	Values     []EnumValue `json:"values"`
	Members    []Member    `json:"members,omitempty"`
	Interfaces []string    `json:"interfaces,omitempty"`
	Mixins     []string    `json:"mixins,omitempty"`
}

func (EnumElement) ElementType() string { return ElementTypeEnum }

// FunctionElement describes a top-level function declaration.
type FunctionElement struct {
	ElementBase
	ReturnType     *TypeRef        `json:"returnType,omitempty"`
	TypeParameters []TypeParameter `json:"typeParameters,omitempty"`
	Parameters     []Parameter     `json:"parameters,omitempty"`
}

func (FunctionElement) ElementType() string { return ElementTypeFunction }

// VariableElement describes a top-level variable declaration. A variable and
// its accessor pair collapse to exactly one VariableElement.
type VariableElement struct {
	ElementBase
	Type    *TypeRef `json:"type,omitempty"`
	IsConst bool     `json:"isConst"`
	IsFinal bool     `json:"isFinal"`
	IsLate  bool     `json:"isLate"`
}

func (VariableElement) ElementType() string { return ElementTypeVariable }

// ExtensionElement describes an extension declaration.
type ExtensionElement struct {
	ElementBase
	OnType  *TypeRef `json:"onType,omitempty"`
	Members []Member `json:"members"`
}

func (ExtensionElement) ElementType() string { return ElementTypeExtension }

// AnalysisResult is the complete extracted API surface: a flat collection of
// identity-unique elements. The same underlying declaration, even if exported
// from N entry points, appears exactly once with ImportableFrom of size N.
type AnalysisResult struct {
	Elements []Element `json:"elements"`
}

func marshalElement(e Element) ([]byte, error) {
	inner, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	// Splice the discriminant in front of the variant's own fields.
	out := make([]byte, 0, len(inner)+32)
	out = append(out, '{')
	out = append(out, fmt.Sprintf("%q:%q", "elementType", e.ElementType())...)
	if len(inner) > 2 {
		out = append(out, ',')
		out = append(out, inner[1:len(inner)-1]...)
	}
	out = append(out, '}')
	return out, nil
}

// MarshalJSON encodes the result with per-element discriminants.
func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	raws := make([]json.RawMessage, 0, len(r.Elements))
	for _, e := range r.Elements {
		raw, err := marshalElement(e)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return json.Marshal(struct {
		Elements []json.RawMessage `json:"elements"`
	}{raws})
}

// UnmarshalJSON decodes elements by their "elementType" discriminant.
func (r *AnalysisResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Elements []json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Elements = make([]Element, 0, len(raw.Elements))
	for _, m := range raw.Elements {
		el, err := UnmarshalElement(m)
		if err != nil {
			return err
		}
		r.Elements = append(r.Elements, el)
	}
	return nil
}

// UnmarshalElement decodes a single element from its JSON encoding, selecting
// the variant by the "elementType" field.
func UnmarshalElement(data []byte) (Element, error) {
	var head struct {
		ElementType string `json:"elementType"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to read element discriminant: %w", err)
	}
	switch head.ElementType {
	case ElementTypeClass:
		var e ClassElement
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return e, nil
	case ElementTypeEnum:
		var e EnumElement
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return e, nil
	case ElementTypeFunction:
		var e FunctionElement
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return e, nil
	case ElementTypeVariable:
		var e VariableElement
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return e, nil
	case ElementTypeExtension:
		var e ExtensionElement
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown element type: %q", head.ElementType)
	}
}

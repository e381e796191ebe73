package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// composite fixture covering every element, member and type variant once.
func fixtureResult() AnalysisResult {
	itemType := TypeRef{Kind: TypeKindClass, Name: "Item", DefiningModule: "mypkg/lib/index.js"}
	boundType := TypeRef{Kind: TypeKindClass, Name: "Num", DefiningModule: "builtin:Num"}
	genericType := TypeRef{Kind: TypeKindGeneric, Name: "T", Bound: &boundType}
	voidType := Void()
	callback := TypeRef{
		Kind:       TypeKindFunction,
		Name:       FunctionTypeName,
		Nullable:   true,
		ReturnType: &voidType,
		Parameters: []Parameter{
			{Name: "err", Type: &itemType, DisplayType: "Item", IsOptional: true, HasDefaultValue: true, DefaultValueSource: "null"},
		},
	}

	return AnalysisResult{Elements: []Element{
		ClassElement{
			ElementBase: ElementBase{
				Name:           "Repository",
				Documentation:  "Stores items.",
				ImportableFrom: []string{"mypkg/lib/index.js"},
				DefinedIn:      "lib/repository.js",
			},
			TypeParameters:  []TypeParameter{{Name: "T", Bound: &boundType, DisplayBound: "Num"}},
			IsAbstract:      true,
			SuperclassChain: []string{"Store"},
			SuperclassTypes: []TypeRef{{Kind: TypeKindClass, Name: "Store", DefiningModule: "mypkg/lib/index.js"}},
			Interfaces:      []string{"Closable"},
			Members: []Member{
				{Kind: MemberKindConstructor, Name: "", Location: "lib/repository.js", IsConst: true},
				{Kind: MemberKindMethod, Name: "save", Location: "lib/repository.js", ReturnType: &voidType,
					Parameters: []Parameter{{Name: "item", Type: &genericType, DisplayType: "T"}}},
				{Kind: MemberKindOperator, Name: "==", Location: "lib/repository.js", ReturnType: &itemType},
				{Kind: MemberKindGetter, Name: "length", Location: "lib/repository.js", ReturnType: &itemType},
				{Kind: MemberKindSetter, Name: "capacity", Location: "lib/repository.js", ParameterType: &itemType},
				{Kind: MemberKindField, Name: "isOpen", Location: "lib/repository.js", Type: &itemType, IsFinal: true},
			},
		},
		EnumElement{
			ElementBase: ElementBase{Name: "Status", ImportableFrom: []string{"mypkg/lib/index.js"}, DefinedIn: "lib/status.js"},
			Values:      []EnumValue{{Name: "open", Documentation: "Still running."}, {Name: "closed"}},
		},
		FunctionElement{
			ElementBase: ElementBase{Name: "connect", ImportableFrom: []string{"mypkg/lib/index.js"}, DefinedIn: "lib/net.js"},
			ReturnType:  &callback,
			Parameters:  []Parameter{{Name: "host", Type: &itemType, DisplayType: "Item", IsNamed: true, IsRequired: true}},
		},
		VariableElement{
			ElementBase: ElementBase{Name: "version", ImportableFrom: []string{"mypkg/lib/index.js"}, DefinedIn: "lib/version.js"},
			Type:        &itemType,
			IsConst:     true,
		},
		ExtensionElement{
			ElementBase: ElementBase{Name: "Pretty", ImportableFrom: []string{"mypkg/lib/index.js"}, DefinedIn: "lib/pretty.js"},
			OnType:      &itemType,
			Members:     []Member{{Kind: MemberKindMethod, Name: "indent", Location: "lib/pretty.js", ReturnType: &voidType}},
		},
	}}
}

func TestAnalysisResultRoundTrip(t *testing.T) {
	original := fixtureResult()

	encoded, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded AnalysisResult
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Len(t, decoded.Elements, len(original.Elements))

	for i, el := range decoded.Elements {
		assert.Equal(t, original.Elements[i], el, "element %d", i)
	}

	reencoded, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(encoded), string(reencoded))
}

func TestElementDiscriminantsOnWire(t *testing.T) {
	encoded, err := json.Marshal(fixtureResult())
	require.NoError(t, err)

	var raw struct {
		Elements []map[string]any `json:"elements"`
	}
	require.NoError(t, json.Unmarshal(encoded, &raw))
	require.Len(t, raw.Elements, 5)

	assert.Equal(t, "class", raw.Elements[0]["elementType"])
	assert.Equal(t, "enum", raw.Elements[1]["elementType"])
	assert.Equal(t, "function", raw.Elements[2]["elementType"])
	assert.Equal(t, "variable", raw.Elements[3]["elementType"])
	assert.Equal(t, "extension", raw.Elements[4]["elementType"])
}

func TestUnmarshalElementUnknownType(t *testing.T) {
	_, err := UnmarshalElement([]byte(`{"elementType":"module","name":"x"}`))
	assert.Error(t, err)
}

func TestUnmarshalElementVariant(t *testing.T) {
	el, err := UnmarshalElement([]byte(`{"elementType":"variable","name":"v","importableFrom":["p/lib/a.js"],"definedIn":"lib/v.js","type":{"kind":"dynamic","nullable":false},"isConst":true,"isFinal":false,"isLate":false}`))
	require.NoError(t, err)

	v, ok := el.(VariableElement)
	require.True(t, ok)
	assert.Equal(t, "v", v.Name)
	assert.True(t, v.IsConst)
	require.NotNil(t, v.Type)
	assert.Equal(t, TypeKindDynamic, v.Type.Kind)
}

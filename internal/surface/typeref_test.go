package surface

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiscope-hq/apiscope/internal/config"
	"github.com/apiscope-hq/apiscope/internal/engine"
	"github.com/apiscope-hq/apiscope/internal/engine/enginetest"
	"github.com/apiscope-hq/apiscope/pkg/model"
)

func newTestBuilder(index *exportIndex) *typeBuilder {
	if index == nil {
		index = &exportIndex{byName: map[string][]indexEntry{}}
	}
	return newTypeBuilder(config.DefaultConventions(), index, zerolog.Nop())
}

func TestBuildPrimitiveKinds(t *testing.T) {
	b := newTestBuilder(nil)

	assert.Equal(t, model.TypeKindDynamic, b.build(enginetest.Dyn()).Kind)
	assert.Equal(t, model.TypeKindDynamic, b.build(nil).Kind)
	assert.Equal(t, model.TypeKindVoid, b.build(enginetest.VoidT()).Kind)
	assert.Equal(t, model.TypeKindVoid, b.build(enginetest.NeverT()).Kind)
	// Invalid types degrade to void instead of propagating errors.
	assert.Equal(t, model.TypeKindVoid, b.build(enginetest.Invalid(nil)).Kind)
}

func TestBuildClassTypeWithArguments(t *testing.T) {
	list := enginetest.NewClass("List", "builtin:List")
	item := enginetest.NewClass("Item", "lib/item.js")

	b := newTestBuilder(nil)
	ref := b.build(enginetest.ClassT(list, enginetest.NullableClassT(item)))

	assert.Equal(t, model.TypeKindClass, ref.Kind)
	assert.Equal(t, "List", ref.Name)
	assert.Equal(t, "builtin:List", ref.DefiningModule)
	require.Len(t, ref.TypeArguments, 1)
	assert.Equal(t, "Item", ref.TypeArguments[0].Name)
	assert.True(t, ref.TypeArguments[0].Nullable)
}

func TestBuildGenericTypeWithBound(t *testing.T) {
	num := enginetest.NewClass("Num", "builtin:Num")
	cls := enginetest.NewClass("Box", "lib/box.js")
	tp := cls.AddTypeParameter("T", enginetest.ClassT(num))

	b := newTestBuilder(nil)
	ref := b.build(enginetest.ParamRefT(tp))

	assert.Equal(t, model.TypeKindGeneric, ref.Kind)
	assert.Equal(t, "T", ref.Name)
	require.NotNil(t, ref.Bound)
	assert.Equal(t, "Num", ref.Bound.Name)
}

func TestBuildFunctionType(t *testing.T) {
	b := newTestBuilder(nil)
	ref := b.build(enginetest.FuncT(enginetest.VoidT(),
		enginetest.Param("x", enginetest.Dyn()),
		enginetest.NamedParam("verbose", enginetest.Dyn(), false),
	))

	assert.Equal(t, model.TypeKindFunction, ref.Kind)
	assert.Equal(t, model.FunctionTypeName, ref.Name)
	require.NotNil(t, ref.ReturnType)
	assert.Equal(t, model.TypeKindVoid, ref.ReturnType.Kind)
	require.Len(t, ref.Parameters, 2)
	assert.Equal(t, "x", ref.Parameters[0].Name)
	assert.True(t, ref.Parameters[1].IsNamed)
	assert.True(t, ref.Parameters[1].IsOptional)
}

func TestDefiningModuleResolvedThroughEntryIndex(t *testing.T) {
	item := enginetest.NewClass("Item", "lib/item.js")
	index := &exportIndex{byName: map[string][]indexEntry{
		"Item": {
			{path: "mypkg/lib/index.js", key: engine.KeyOf(item)},
		},
	}}

	b := newTestBuilder(index)
	ref := b.build(enginetest.ClassT(item))
	assert.Equal(t, "mypkg/lib/index.js", ref.DefiningModule)
}

func TestDefiningModuleFirstMatchWins(t *testing.T) {
	item := enginetest.NewClass("Item", "lib/item.js")
	other := enginetest.NewClass("Item", "lib/other_item.js")
	index := &exportIndex{byName: map[string][]indexEntry{
		"Item": {
			{path: "mypkg/lib/a.js", key: engine.KeyOf(other)},
			{path: "mypkg/lib/b.js", key: engine.KeyOf(item)},
			{path: "mypkg/lib/c.js", key: engine.KeyOf(item)},
		},
	}}

	// The first entry binding the SAME declaration wins; a same-named but
	// distinct declaration earlier in entry order is not a match.
	b := newTestBuilder(index)
	ref := b.build(enginetest.ClassT(item))
	assert.Equal(t, "mypkg/lib/b.js", ref.DefiningModule)
}

func TestDefiningModuleFallsBackToOwnLocation(t *testing.T) {
	item := enginetest.NewClass("Item", "lib/item.js")
	b := newTestBuilder(nil)
	ref := b.build(enginetest.ClassT(item))
	assert.Equal(t, "lib/item.js", ref.DefiningModule)
}

func TestDefiningModuleNeverLocalForFoundationAndExternal(t *testing.T) {
	obj := enginetest.NewClass("Object", "builtin:Object")
	stream := enginetest.NewClass("Stream", "node:stream")
	index := &exportIndex{byName: map[string][]indexEntry{
		"Object": {{path: "mypkg/lib/index.js", key: engine.KeyOf(obj)}},
		"Stream": {{path: "mypkg/lib/index.js", key: engine.KeyOf(stream)}},
	}}

	b := newTestBuilder(index)
	assert.Equal(t, "builtin:Object", b.build(enginetest.ClassT(obj)).DefiningModule)
	assert.Equal(t, "node:stream", b.build(enginetest.ClassT(stream)).DefiningModule)
}

func TestDisplayFallsBackToElementName(t *testing.T) {
	item := enginetest.NewClass("Item", "lib/item.js")
	b := newTestBuilder(nil)

	assert.Equal(t, "Item", b.display(enginetest.UnresolvedClassT(item)))
	// No element to fall back on: the sentinel stays.
	assert.Equal(t, engine.UnresolvedDisplay, b.display(enginetest.Invalid(nil)))
}

func TestDisplayRendersNullability(t *testing.T) {
	item := enginetest.NewClass("Item", "lib/item.js")
	b := newTestBuilder(nil)
	assert.Equal(t, "Item?", b.display(enginetest.NullableClassT(item)))
}

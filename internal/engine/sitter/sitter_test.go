package sitter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiscope-hq/apiscope/internal/engine"
)

func writeSource(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestResolveExportsAndDeclarations(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, map[string]string{
		"lib/index.js": `
/** A counter. */
export class Counter {
  constructor(start = 0) {}

  /** Current value. */
  get value() {}

  set value(v) {}

  increment(by = 1) {}

  #reset() {}

  static fromJSON(json) {}
}

/** Builds counters. */
export function makeCounter(start, ...rest) {}

export const VERSION = "1.0.0";

let hidden = 1;
`,
	})

	eng := NewEngine()
	lib, err := eng.Resolve(context.Background(), filepath.Join(root, "lib/index.js"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Counter", "VERSION", "makeCounter"}, lib.ExportedNames())
	assert.Nil(t, lib.Export("hidden"))

	cls, ok := lib.Export("Counter").(engine.ClassLike)
	require.True(t, ok)
	assert.Equal(t, engine.KindClass, cls.Kind())
	assert.Equal(t, "A counter.", cls.Documentation())

	require.Len(t, cls.Constructors(), 1)
	ctor := cls.Constructors()[0]
	assert.Equal(t, engine.UnnamedConstructor, ctor.Name())
	require.Len(t, ctor.Parameters(), 1)
	assert.True(t, ctor.Parameters()[0].HasDefaultValue())
	assert.Equal(t, "0", ctor.Parameters()[0].DefaultValueSource())

	require.Len(t, cls.Accessors(), 2)
	assert.True(t, cls.Accessors()[0].IsGetter())
	assert.Equal(t, "Current value.", cls.Accessors()[0].Documentation())
	assert.False(t, cls.Accessors()[1].IsGetter())

	require.Len(t, cls.Methods(), 3)
	names := []string{cls.Methods()[0].Name(), cls.Methods()[1].Name(), cls.Methods()[2].Name()}
	assert.Equal(t, []string{"increment", "_reset", "fromJSON"}, names)
	assert.True(t, cls.Methods()[2].IsStatic())

	fn, ok := lib.Export("makeCounter").(engine.FunctionLike)
	require.True(t, ok)
	require.Len(t, fn.Parameters(), 2)
	assert.True(t, fn.Parameters()[0].IsRequired())
	assert.True(t, fn.Parameters()[1].IsOptional())

	v, ok := lib.Export("VERSION").(engine.VariableLike)
	require.True(t, ok)
	assert.True(t, v.IsConst())
}

func TestResolveReexportsAndAliases(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, map[string]string{
		"lib/base.js": `
export class Base {
  ping() {}
}
export const shared = 1;
`,
		"lib/index.js": `
export * from './base.js';
`,
		"lib/legacy.js": `
export { Base as LegacyBase } from './base.js';
`,
	})

	eng := NewEngine()
	ctx := context.Background()

	index, err := eng.Resolve(ctx, filepath.Join(root, "lib/index.js"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Base", "shared"}, index.ExportedNames())

	legacy, err := eng.Resolve(ctx, filepath.Join(root, "lib/legacy.js"))
	require.NoError(t, err)
	require.NotNil(t, legacy.Export("LegacyBase"))

	// Same underlying declaration regardless of the visible name.
	assert.Equal(t,
		engine.KeyOf(index.Export("Base")),
		engine.KeyOf(legacy.Export("LegacyBase")))
}

func TestResolveExtendsAcrossFiles(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, map[string]string{
		"lib/base.js": `
export class Base {
  ping() {}
  get size() {}
}
`,
		"lib/derived.js": `
import { Base } from './base.js';

export class Derived extends Base {
  pong() {}
}
`,
	})

	eng := NewEngine()
	lib, err := eng.Resolve(context.Background(), filepath.Join(root, "lib/derived.js"))
	require.NoError(t, err)

	cls, ok := lib.Export("Derived").(engine.ClassLike)
	require.True(t, ok)
	require.NotNil(t, cls.Superclass())
	assert.Equal(t, "Base", cls.Superclass().Element().Name())

	// Complete interface: own members first, then the chain's.
	members := cls.InterfaceMembers()
	var names []string
	for _, m := range members {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{"pong", "ping", "size"}, names)
}

func TestResolveExternalSuperclass(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, map[string]string{
		"lib/stream.js": `
import { Readable } from 'stream';

export class LineReader extends Readable {
  readLine() {}
}
`,
	})

	eng := NewEngine()
	lib, err := eng.Resolve(context.Background(), filepath.Join(root, "lib/stream.js"))
	require.NoError(t, err)

	cls := lib.Export("LineReader").(engine.ClassLike)
	super := cls.Superclass()
	require.NotNil(t, super)
	assert.Equal(t, "node:stream", super.Element().Location())
}

func TestResolveUnreadableFileFails(t *testing.T) {
	eng := NewEngine()
	_, err := eng.Resolve(context.Background(), filepath.Join(t.TempDir(), "missing.js"))
	assert.Error(t, err)
}

func TestResolveCachesByPath(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, map[string]string{
		"lib/a.js": `export class A {}`,
	})

	eng := NewEngine()
	ctx := context.Background()
	path := filepath.Join(root, "lib/a.js")

	first, err := eng.Resolve(ctx, path)
	require.NoError(t, err)
	second, err := eng.Resolve(ctx, path)
	require.NoError(t, err)
	assert.Same(t, first.Export("A"), second.Export("A"))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConventionsMissingFile(t *testing.T) {
	conv, err := LoadConventions(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultConventions(), conv)
}

func TestLoadConventionsOverrides(t *testing.T) {
	root := t.TempDir()
	yaml := `
source_dir: src
private_dir: _private
generated_suffixes: [".bundle.js"]
package_name: override
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ConventionsFile), []byte(yaml), 0o644))

	conv, err := LoadConventions(root)
	require.NoError(t, err)

	assert.Equal(t, "src", conv.SourceDir)
	assert.Equal(t, "_private", conv.PrivateDir)
	assert.Equal(t, []string{".bundle.js"}, conv.GeneratedSuffixes)
	assert.Equal(t, "override", conv.PackageName)

	// Untouched fields keep their defaults.
	assert.Equal(t, ".js", conv.SourceExt)
	assert.Equal(t, "package.json", conv.Manifest)
	assert.Equal(t, []string{"builtin:"}, conv.FoundationSchemes)
}

func TestLoadConventionsInvalidYAML(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConventionsFile), []byte("{not yaml"), 0o644))

	_, err := LoadConventions(root)
	assert.Error(t, err)
}

func TestIsFoundationAndExternal(t *testing.T) {
	conv := DefaultConventions()

	assert.True(t, conv.IsFoundation("builtin:core/object"))
	assert.False(t, conv.IsFoundation("lib/base.js"))
	assert.True(t, conv.IsExternal("node:stream"))
	assert.False(t, conv.IsExternal("builtin:core/object"))
}

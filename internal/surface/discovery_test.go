package surface

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiscope-hq/apiscope/internal/config"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestPublicFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":                `{"name":"mypkg"}`,
		"lib/index.js":                "",
		"lib/util.js":                 "",
		"lib/schema.gen.js":           "",
		"lib/bundle.min.js":           "",
		"lib/README.md":               "",
		"lib/internal/secret.js":      "",
		"lib/deep/internal/hidden.js": "",
		"lib/deep/visible.js":         "",
	})

	conv := config.DefaultConventions()
	files, err := PublicFiles(root, conv)
	require.NoError(t, err)

	rel := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"lib/deep/visible.js", "lib/index.js", "lib/util.js"}, rel)
}

func TestPublicFilesMissingSourceDir(t *testing.T) {
	root := t.TempDir()
	_, err := PublicFiles(root, config.DefaultConventions())
	assert.Error(t, err)
}

func TestPublicFilesCustomConventions(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/a.mjs":      "",
		"src/priv/b.mjs": "",
		"src/c.gen.mjs":  "",
	})

	conv := config.DefaultConventions()
	conv.SourceDir = "src"
	conv.SourceExt = ".mjs"
	conv.PrivateDir = "priv"
	conv.GeneratedSuffixes = []string{".gen.mjs"}

	files, err := PublicFiles(root, conv)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.mjs", filepath.Base(files[0]))
}

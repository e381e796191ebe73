package fetch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoDirName(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"https URL", "https://github.com/owner/mypkg", "mypkg", false},
		{"https URL with .git", "https://github.com/owner/mypkg.git", "mypkg", false},
		{"trailing slash", "https://github.com/owner/mypkg/", "mypkg", false},
		{"SSH URL", "git@github.com:owner/mypkg.git", "mypkg", false},
		{"local path", "/srv/git/mypkg", "mypkg", false},
		{"invalid SSH format", "git@", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repoDirName(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// newSourceRepo initializes a git repository with a single committed file and
// returns its path and the commit SHA.
func newSourceRepo(t *testing.T) (string, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "mypkg")

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"mypkg"}`), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("package.json")
	require.NoError(t, err)

	hash, err := wt.Commit("initial import", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "tester",
			Email: "tester@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return dir, hash.String()
}

func TestCloneFromLocalRepo(t *testing.T) {
	src, sha := newSourceRepo(t)
	f := NewFetcher(t.TempDir())

	result, err := f.Clone(context.Background(), src, "")
	require.NoError(t, err)

	assert.Equal(t, sha, result.CommitSHA)
	assert.FileExists(t, filepath.Join(result.Path, "package.json"))
}

func TestCloneReplacesExistingClone(t *testing.T) {
	src, _ := newSourceRepo(t)
	f := NewFetcher(t.TempDir())

	first, err := f.Clone(context.Background(), src, "")
	require.NoError(t, err)

	// A stale file in the old clone must not survive a re-clone.
	stale := filepath.Join(first.Path, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	second, err := f.Clone(context.Background(), src, "")
	require.NoError(t, err)
	assert.Equal(t, first.Path, second.Path)
	assert.NoFileExists(t, stale)
}

func TestCloneMissingRepo(t *testing.T) {
	f := NewFetcher(t.TempDir())

	_, err := f.Clone(context.Background(), filepath.Join(t.TempDir(), "nope"), "")
	assert.Error(t, err)
}

package fetch

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog/log"
)

// Fetcher clones package repositories into local storage so their source
// trees can be analyzed.
type Fetcher struct {
	baseDir string
}

// NewFetcher creates a fetcher that clones under baseDir
func NewFetcher(baseDir string) *Fetcher {
	return &Fetcher{baseDir: baseDir}
}

// CloneResult contains the result of a clone operation
type CloneResult struct {
	Path      string
	CommitSHA string
	Branch    string
}

// repoDirName derives a stable directory name from a repository URL
func repoDirName(rawURL string) (string, error) {
	trimmed := rawURL
	if strings.HasPrefix(trimmed, "git@") {
		parts := strings.SplitN(trimmed, ":", 2)
		if len(parts) != 2 {
			return "", fmt.Errorf("invalid SSH URL format: %s", rawURL)
		}
		trimmed = parts[1]
	} else if parsed, err := url.Parse(trimmed); err == nil && parsed.Path != "" {
		trimmed = parsed.Path
	}

	name := filepath.Base(strings.TrimSuffix(strings.Trim(trimmed, "/"), ".git"))
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("cannot derive repository name from %s", rawURL)
	}
	return name, nil
}

// Clone does a shallow clone of the repository at rawURL. An existing clone
// of the same repository is replaced. If branch is empty the remote default
// branch is used.
func (f *Fetcher) Clone(ctx context.Context, rawURL, branch string) (*CloneResult, error) {
	name, err := repoDirName(rawURL)
	if err != nil {
		return nil, err
	}
	repoDir := filepath.Join(f.baseDir, name)

	if _, err := os.Stat(repoDir); err == nil {
		log.Debug().Str("path", repoDir).Msg("removing existing clone")
		if err := os.RemoveAll(repoDir); err != nil {
			return nil, fmt.Errorf("failed to remove existing directory: %w", err)
		}
	}
	if err := os.MkdirAll(f.baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	log.Info().
		Str("url", rawURL).
		Str("path", repoDir).
		Msg("cloning repository")

	cloneOpts := &git.CloneOptions{
		URL:   rawURL,
		Depth: 1, // Shallow clone for faster download
	}
	if branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(branch)
		cloneOpts.SingleBranch = true
	}

	repo, err := git.PlainCloneContext(ctx, repoDir, false, cloneOpts)
	if err != nil {
		// If the branch doesn't exist, retry on the default branch
		if strings.Contains(err.Error(), "reference not found") && branch != "" {
			log.Debug().Str("branch", branch).Msg("branch not found, trying default")
			cloneOpts.ReferenceName = ""
			cloneOpts.SingleBranch = false
			repo, err = git.PlainCloneContext(ctx, repoDir, false, cloneOpts)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to clone: %w", err)
		}
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	result := &CloneResult{
		Path:      repoDir,
		CommitSHA: head.Hash().String(),
		Branch:    head.Name().Short(),
	}

	log.Info().
		Str("commit", result.CommitSHA[:8]).
		Str("branch", result.Branch).
		Msg("clone complete")

	return result, nil
}

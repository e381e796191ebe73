// Package surface implements the API-surface extraction engine: it decides
// which files form the public surface of a package, aggregates their export
// namespaces into an identity-deduplicated element set, and converts each
// element into the serializable model in pkg/model.
package surface

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apiscope-hq/apiscope/internal/config"
)

// privatePrefix marks names that are not part of the public surface.
const privatePrefix = "_"

func isPrivateName(name string) bool {
	return strings.HasPrefix(name, privatePrefix)
}

// PublicFiles returns the sorted set of files that form the public surface
// of the package rooted at root. A file is excluded when any directory
// between the source dir and the file is the private-directory convention
// name, or when its name carries a generated-artifact suffix.
func PublicFiles(root string, conv *config.Conventions) ([]string, error) {
	srcRoot := filepath.Join(root, conv.SourceDir)

	var files []string
	err := filepath.WalkDir(srcRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != srcRoot && d.Name() == conv.PrivateDir {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if !strings.HasSuffix(name, conv.SourceExt) {
			return nil
		}
		for _, suffix := range conv.GeneratedSuffixes {
			if strings.HasSuffix(name, suffix) {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan source dir: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

package surface

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/apiscope-hq/apiscope/internal/engine"
)

// exportEntry is one identity-unique element together with every entry path
// it is reachable from.
type exportEntry struct {
	element engine.Element
	paths   map[string]struct{}
}

func (e *exportEntry) sortedPaths() []string {
	paths := make([]string, 0, len(e.paths))
	for p := range e.paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// indexEntry is one (entry path, bound element) pair of the name index.
type indexEntry struct {
	path string
	key  engine.Key
}

// exportIndex maps a visible name to the entries exporting it, in entry-file
// order. Entry files are visited in sorted order, so first-match lookups
// tie-break lexicographically.
type exportIndex struct {
	byName map[string][]indexEntry
}

func (x *exportIndex) lookup(name string) []indexEntry {
	return x.byName[name]
}

// aggregator scans export namespaces and groups elements by identity.
type aggregator struct {
	eng         engine.Engine
	packageName string
	root        string
	log         zerolog.Logger
}

// aggregate resolves every entry file and returns the identity→paths map
// plus the name index used for defining-module attribution. Per-file
// resolution failures are logged and skipped; they never abort the run.
func (a *aggregator) aggregate(ctx context.Context, files []string) (map[engine.Key]*exportEntry, *exportIndex) {
	entries := make(map[engine.Key]*exportEntry)
	index := &exportIndex{byName: make(map[string][]indexEntry)}

	for _, file := range files {
		lib, err := a.eng.Resolve(ctx, file)
		if err != nil {
			a.log.Warn().Str("file", file).Err(err).Msg("failed to resolve entry file, skipping")
			continue
		}

		importPath := a.importablePath(file)
		for _, name := range lib.ExportedNames() {
			if isPrivateName(name) {
				continue
			}
			el := lib.Export(name)
			if el == nil {
				continue
			}

			// A top-level accessor collapses onto the variable it backs,
			// so a variable and its accessor pair yield one entry.
			if el.Kind() == engine.KindAccessor {
				if acc, ok := el.(engine.AccessorElement); ok {
					if v := acc.Variable(); v != nil {
						el = v
					}
				}
			}

			key := engine.KeyOf(el)
			entry, ok := entries[key]
			if !ok {
				entry = &exportEntry{element: el, paths: make(map[string]struct{})}
				entries[key] = entry
			}
			entry.paths[importPath] = struct{}{}

			index.byName[name] = append(index.byName[name], indexEntry{path: importPath, key: key})
		}
	}

	return entries, index
}

// importablePath computes the path consumers import a file from:
// the package name followed by the file's path relative to the package root.
func (a *aggregator) importablePath(file string) string {
	rel, err := filepath.Rel(a.root, file)
	if err != nil {
		rel = file
	}
	return a.packageName + "/" + filepath.ToSlash(rel)
}

package surface

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/apiscope-hq/apiscope/internal/config"
	"github.com/apiscope-hq/apiscope/internal/engine"
	"github.com/apiscope-hq/apiscope/pkg/model"
)

// Analyzer is the top-level entry point of the extraction core. Each call to
// ExtractAPISurface owns its own identity map and produces an independent
// result; concurrent calls against different roots share nothing.
type Analyzer struct {
	eng  engine.Engine
	conv *config.Conventions
}

// New creates an analyzer over the given engine. A nil conventions value
// selects the defaults.
func New(eng engine.Engine, conv *config.Conventions) *Analyzer {
	if conv == nil {
		conv = config.DefaultConventions()
	}
	return &Analyzer{eng: eng, conv: conv}
}

// ExtractAPISurface extracts the public API surface of the package rooted at
// root. A missing root or manifest aborts before any extraction. Per-file
// resolution failures and type anomalies are logged and recovered; any other
// internal failure surfaces as a single terminal error, since silently
// incomplete output would be worse than an explicit abort.
func (a *Analyzer) ExtractAPISurface(ctx context.Context, root string) (res *model.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("internal failure during extraction: %v", r)
		}
	}()

	runLog := log.With().
		Str("component", "surface").
		Str("run_id", uuid.NewString()).
		Str("root", root).
		Logger()

	packageName, err := a.validateRoot(root)
	if err != nil {
		return nil, err
	}

	files, err := PublicFiles(root, a.conv)
	if err != nil {
		return nil, err
	}
	runLog.Info().Int("files", len(files)).Str("package", packageName).Msg("discovered public surface")

	agg := &aggregator{
		eng:         a.eng,
		packageName: packageName,
		root:        root,
		log:         runLog,
	}
	entries, index := agg.aggregate(ctx, files)

	types := newTypeBuilder(a.conv, index, runLog)
	x := newExtractor(a.conv, types, runLog)

	keys := make([]engine.Key, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		if keys[i].Location != keys[j].Location {
			return keys[i].Location < keys[j].Location
		}
		return keys[i].Kind < keys[j].Kind
	})

	elements := make([]model.Element, 0, len(entries))
	for _, key := range keys {
		entry := entries[key]
		el := x.extract(entry.element, entry.sortedPaths())
		if el == nil {
			continue
		}
		elements = append(elements, el)
	}

	sort.SliceStable(elements, func(i, j int) bool {
		if elements[i].ElementName() != elements[j].ElementName() {
			return elements[i].ElementName() < elements[j].ElementName()
		}
		return elements[i].DeclaredIn() < elements[j].DeclaredIn()
	})

	runLog.Info().Int("elements", len(elements)).Msg("extraction complete")
	return &model.AnalysisResult{Elements: elements}, nil
}

// validateRoot performs the fatal input checks and returns the package name.
func (a *Analyzer) validateRoot(root string) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("package root %s does not exist: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("package root %s is not a directory", root)
	}

	manifestPath := filepath.Join(root, a.conv.Manifest)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return "", fmt.Errorf("package manifest %s is missing: %w", manifestPath, err)
	}

	if a.conv.PackageName != "" {
		return a.conv.PackageName, nil
	}
	var manifest struct {
		Name string `json:"name"`
	}
	if jsonErr := json.Unmarshal(data, &manifest); jsonErr == nil && manifest.Name != "" {
		return manifest.Name, nil
	}
	return filepath.Base(root), nil
}

package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConventionsFile is the per-package configuration file name.
const ConventionsFile = ".apiscope.yaml"

// Conventions describes the source-layout and naming conventions a package
// follows. Everything here has a default; an .apiscope.yaml at the package
// root overrides individual fields.
type Conventions struct {
	// Directory under the package root holding the public surface
	SourceDir string `yaml:"source_dir,omitempty"`

	// Source file extension
	SourceExt string `yaml:"source_ext,omitempty"`

	// Directory name that marks everything below it as private,
	// at any depth between SourceDir and the file
	PrivateDir string `yaml:"private_dir,omitempty"`

	// File name suffixes marking generated artifacts
	GeneratedSuffixes []string `yaml:"generated_suffixes,omitempty"`

	// Package manifest file name; extraction fails fatally without it
	Manifest string `yaml:"manifest,omitempty"`

	// Package name override; defaults to the manifest's name field
	PackageName string `yaml:"package_name,omitempty"`

	// Location URI schemes of the foundation library. Members declared
	// there are excluded from reported surfaces, and types declared there
	// are never attributed to a local entry file.
	FoundationSchemes []string `yaml:"foundation_schemes,omitempty"`

	// Location URI schemes of external ecosystem frameworks. Types from
	// these keep their own canonical location as defining module.
	ExternalSchemes []string `yaml:"external_schemes,omitempty"`
}

// DefaultConventions returns the conventions for a plain JavaScript package.
func DefaultConventions() *Conventions {
	return &Conventions{
		SourceDir:         "lib",
		SourceExt:         ".js",
		PrivateDir:        "internal",
		GeneratedSuffixes: []string{".gen.js", ".min.js"},
		Manifest:          "package.json",
		FoundationSchemes: []string{"builtin:"},
		ExternalSchemes:   []string{"node:"},
	}
}

// LoadConventions reads the conventions for the package rooted at root.
// A missing .apiscope.yaml is not an error; defaults apply. Fields left
// empty in the file keep their defaults.
func LoadConventions(root string) (*Conventions, error) {
	conv := DefaultConventions()

	data, err := os.ReadFile(filepath.Join(root, ConventionsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return conv, nil
		}
		return nil, err
	}

	var file Conventions
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	conv.merge(&file)
	return conv, nil
}

func (c *Conventions) merge(o *Conventions) {
	if o.SourceDir != "" {
		c.SourceDir = o.SourceDir
	}
	if o.SourceExt != "" {
		c.SourceExt = o.SourceExt
	}
	if o.PrivateDir != "" {
		c.PrivateDir = o.PrivateDir
	}
	if len(o.GeneratedSuffixes) > 0 {
		c.GeneratedSuffixes = o.GeneratedSuffixes
	}
	if o.Manifest != "" {
		c.Manifest = o.Manifest
	}
	if o.PackageName != "" {
		c.PackageName = o.PackageName
	}
	if len(o.FoundationSchemes) > 0 {
		c.FoundationSchemes = o.FoundationSchemes
	}
	if len(o.ExternalSchemes) > 0 {
		c.ExternalSchemes = o.ExternalSchemes
	}
}

// IsFoundation reports whether a location URI belongs to the foundation
// library.
func (c *Conventions) IsFoundation(location string) bool {
	return hasAnyPrefix(location, c.FoundationSchemes)
}

// IsExternal reports whether a location URI belongs to an external
// ecosystem framework.
func (c *Conventions) IsExternal(location string) bool {
	return hasAnyPrefix(location, c.ExternalSchemes)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if len(s) >= len(p) && s[:len(p)] == p {
			return true
		}
	}
	return false
}

// Package sitter implements a best-effort syntactic engine over tree-sitter
// JavaScript parsing. It resolves what syntax alone can resolve: classes with
// their members and extends chains, functions, variables, and export/import
// wiring across relative modules. Everything untyped is dynamic; bare module
// specifiers become external node: locations. A semantic engine can replace
// it behind the same interface without touching the extraction core.
package sitter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	tree_sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/apiscope-hq/apiscope/internal/engine"
)

// Engine resolves JavaScript files syntactically. Resolved libraries are
// cached per path, so repeated resolution of shared modules is free and
// element identity is stable across entry files.
type Engine struct {
	parser *tree_sitter.Parser

	mu      sync.Mutex
	cache   map[string]*library
	loading map[string]bool
}

// NewEngine creates a JavaScript engine.
func NewEngine() *Engine {
	parser := tree_sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	return &Engine{
		parser:  parser,
		cache:   make(map[string]*library),
		loading: make(map[string]bool),
	}
}

// Resolve implements engine.Engine.
func (e *Engine) Resolve(ctx context.Context, path string) (engine.Library, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolve(ctx, filepath.Clean(path))
}

func (e *Engine) resolve(ctx context.Context, path string) (*library, error) {
	if lib, ok := e.cache[path]; ok {
		return lib, nil
	}
	if e.loading[path] {
		return nil, fmt.Errorf("import cycle through %s", path)
	}
	e.loading[path] = true
	defer delete(e.loading, path)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	tree, err := e.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	defer tree.Close()

	pf := parseFile(tree.RootNode(), content, path)

	for _, el := range pf.decls {
		if cls, ok := el.(*classElement); ok && cls.superName != "" {
			cls.superclass = e.linkSuperclass(ctx, pf, cls.superName)
		}
	}

	lib := &library{path: path, exports: make(map[string]engine.Element)}
	for _, d := range pf.exports {
		if err := e.applyExport(ctx, pf, lib, d); err != nil {
			return nil, err
		}
	}

	e.cache[path] = lib
	return lib, nil
}

func (e *Engine) applyExport(ctx context.Context, pf *parsedFile, lib *library, d exportDirective) error {
	if d.source == "" {
		for _, spec := range d.specs {
			if el := e.lookupLocal(ctx, pf, spec.local); el != nil {
				lib.exports[spec.alias] = el
			}
		}
		return nil
	}

	target, err := e.resolveSource(ctx, pf, d.source)
	if err != nil {
		return fmt.Errorf("failed to resolve re-export %q: %w", d.source, err)
	}
	if target == nil {
		// Bare specifier re-export; nothing local to attribute.
		return nil
	}
	if d.star {
		for _, name := range target.ExportedNames() {
			lib.exports[name] = target.Export(name)
		}
		return nil
	}
	for _, spec := range d.specs {
		if el := target.Export(spec.local); el != nil {
			lib.exports[spec.alias] = el
		}
	}
	return nil
}

// lookupLocal finds a name among the file's own declarations, falling back
// to its imports.
func (e *Engine) lookupLocal(ctx context.Context, pf *parsedFile, name string) engine.Element {
	if el, ok := pf.decls[name]; ok {
		return el
	}
	imp, ok := pf.imports[name]
	if !ok {
		return nil
	}
	target, err := e.resolveSource(ctx, pf, imp.source)
	if err != nil || target == nil {
		return nil
	}
	return target.Export(imp.remoteName)
}

// resolveSource resolves a module specifier relative to the current file.
// Bare specifiers are external ecosystem modules and resolve to nil.
func (e *Engine) resolveSource(ctx context.Context, pf *parsedFile, source string) (*library, error) {
	if !strings.HasPrefix(source, "./") && !strings.HasPrefix(source, "../") {
		return nil, nil
	}
	return e.resolve(ctx, filepath.Join(filepath.Dir(pf.path), source))
}

// linkSuperclass binds a class's extends clause. Unresolvable names become
// stub elements so the chain still carries a name; bare module imports keep
// their external location.
func (e *Engine) linkSuperclass(ctx context.Context, pf *parsedFile, name string) engine.Type {
	if el, ok := pf.decls[name]; ok {
		return &classType{el: el}
	}
	if imp, ok := pf.imports[name]; ok {
		if target, err := e.resolveSource(ctx, pf, imp.source); err == nil && target != nil {
			if el := target.Export(imp.remoteName); el != nil {
				return &classType{el: el}
			}
		}
		if !strings.HasPrefix(imp.source, ".") {
			return &classType{el: &element{
				kind:     engine.KindClass,
				name:     name,
				location: "node:" + imp.source,
			}}
		}
	}
	return &classType{el: &element{
		kind:     engine.KindClass,
		name:     name,
		location: "unresolved:" + name,
	}}
}

// library is a resolved file's export namespace.
type library struct {
	path    string
	exports map[string]engine.Element
}

func (l *library) Path() string { return l.path }

func (l *library) ExportedNames() []string {
	names := make([]string, 0, len(l.exports))
	for name := range l.exports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *library) Export(name string) engine.Element { return l.exports[name] }

package surface

import (
	"github.com/rs/zerolog"

	"github.com/apiscope-hq/apiscope/internal/config"
	"github.com/apiscope-hq/apiscope/internal/engine"
	"github.com/apiscope-hq/apiscope/pkg/model"
)

// typeBuilder converts resolved type handles into the structural model.
// It is scoped to a single extraction run: defining-module lookups are
// memoized per declared type and never shared across runs.
type typeBuilder struct {
	conv  *config.Conventions
	index *exportIndex
	log   zerolog.Logger

	definingModules map[engine.Key]string
}

func newTypeBuilder(conv *config.Conventions, index *exportIndex, log zerolog.Logger) *typeBuilder {
	return &typeBuilder{
		conv:            conv,
		index:           index,
		log:             log,
		definingModules: make(map[engine.Key]string),
	}
}

// build converts a type handle recursively. A nil handle means the source
// carried no type annotation and resolves to dynamic. Invalid and unresolved
// types degrade to the void/empty type rather than failing the run; they
// typically indicate an unresolved dependency, not a structural defect.
func (b *typeBuilder) build(t engine.Type) model.TypeRef {
	if t == nil {
		return model.Dynamic()
	}

	switch t.Kind() {
	case engine.TypeDynamic:
		return model.Dynamic()

	case engine.TypeVoid, engine.TypeNever, engine.TypeInvalid:
		return model.Void()

	case engine.TypeParamRef:
		ref := model.TypeRef{
			Kind:     model.TypeKindGeneric,
			Nullable: t.Nullable(),
		}
		if el := t.Element(); el != nil {
			ref.Name = el.Name()
		}
		if bound := t.Bound(); bound != nil {
			built := b.build(bound)
			ref.Bound = &built
		}
		return ref

	case engine.TypeFunction:
		ref := model.TypeRef{
			Kind:       model.TypeKindFunction,
			Name:       model.FunctionTypeName,
			Nullable:   t.Nullable(),
			Parameters: b.parameters(t.Parameters()),
		}
		if ret := t.ReturnType(); ret != nil {
			built := b.build(ret)
			ref.ReturnType = &built
		}
		return ref

	case engine.TypeInterface:
		ref := model.TypeRef{
			Kind:     model.TypeKindClass,
			Nullable: t.Nullable(),
		}
		if el := t.Element(); el != nil {
			ref.Name = el.Name()
			ref.DefiningModule = b.definingModule(el)
		} else {
			ref.Name = t.Display(false)
		}
		for _, arg := range t.TypeArguments() {
			ref.TypeArguments = append(ref.TypeArguments, b.build(arg))
		}
		return ref

	default:
		return model.Dynamic()
	}
}

func (b *typeBuilder) buildPtr(t engine.Type) *model.TypeRef {
	ref := b.build(t)
	return &ref
}

// display renders a type for humans. When the engine's renderer returns the
// unresolved sentinel, the bare declared name is substituted if the type's
// element is resolvable; otherwise the sentinel stays and a diagnostic is
// emitted.
func (b *typeBuilder) display(t engine.Type) string {
	if t == nil {
		return "dynamic"
	}
	s := t.Display(true)
	if s != engine.UnresolvedDisplay {
		return s
	}
	if el := t.Element(); el != nil && el.Name() != "" {
		return el.Name()
	}
	b.log.Warn().Msg("type display could not be resolved")
	return s
}

// definingModule resolves which public entry file a nominal type should be
// attributed to. Foundation and external-ecosystem types keep their own
// canonical location. For everything else the name index is searched in
// entry-file order; the first entry binding the same underlying declaration
// (declaring location + name, not display name) wins. When no entry exports
// the type, its own declaring location is used.
func (b *typeBuilder) definingModule(el engine.Element) string {
	location := el.Location()
	if b.conv.IsFoundation(location) || b.conv.IsExternal(location) {
		return location
	}

	key := engine.KeyOf(el)
	if module, ok := b.definingModules[key]; ok {
		return module
	}

	module := location
	for _, entry := range b.index.lookup(el.Name()) {
		if entry.key.Location == location && entry.key.Name == el.Name() {
			module = entry.path
			break
		}
	}
	b.definingModules[key] = module
	return module
}

func (b *typeBuilder) parameters(params []engine.Parameter) []model.Parameter {
	if len(params) == 0 {
		return nil
	}
	out := make([]model.Parameter, 0, len(params))
	for _, p := range params {
		out = append(out, model.Parameter{
			Name:               p.Name(),
			Type:               b.buildPtr(p.Type()),
			DisplayType:        b.display(p.Type()),
			IsOptional:         p.IsOptional(),
			IsNamed:            p.IsNamed(),
			HasDefaultValue:    p.HasDefaultValue(),
			IsRequired:         p.IsRequired(),
			DefaultValueSource: p.DefaultValueSource(),
		})
	}
	return out
}

func (b *typeBuilder) typeParameters(tps []engine.TypeParameterElement) []model.TypeParameter {
	if len(tps) == 0 {
		return nil
	}
	out := make([]model.TypeParameter, 0, len(tps))
	for _, tp := range tps {
		param := model.TypeParameter{Name: tp.Name()}
		if bound := tp.Bound(); bound != nil {
			param.Bound = b.buildPtr(bound)
			param.DisplayBound = b.display(bound)
		}
		out = append(out, param)
	}
	return out
}

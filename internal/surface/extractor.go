package surface

import (
	"github.com/rs/zerolog"

	"github.com/apiscope-hq/apiscope/internal/config"
	"github.com/apiscope-hq/apiscope/internal/engine"
	"github.com/apiscope-hq/apiscope/pkg/model"
)

// extractor converts identity-deduplicated element handles into model
// elements, dispatching by element category.
type extractor struct {
	conv    *config.Conventions
	types   *typeBuilder
	members *memberResolver
	log     zerolog.Logger
}

func newExtractor(conv *config.Conventions, types *typeBuilder, log zerolog.Logger) *extractor {
	return &extractor{
		conv:    conv,
		types:   types,
		members: newMemberResolver(conv, types),
		log:     log,
	}
}

// extract returns the model element for a handle, or nil when the category
// is unsupported. Unsupported categories are ignored, not errors.
func (x *extractor) extract(el engine.Element, importableFrom []string) model.Element {
	switch el.Kind() {
	case engine.KindClass:
		if cls, ok := el.(engine.ClassLike); ok {
			return x.class(cls, importableFrom)
		}
	case engine.KindEnum:
		if en, ok := el.(engine.EnumLike); ok {
			return x.enum(en, importableFrom)
		}
	case engine.KindFunction:
		if fn, ok := el.(engine.FunctionLike); ok {
			return x.function(fn, importableFrom)
		}
	case engine.KindVariable:
		if v, ok := el.(engine.VariableLike); ok {
			return x.variable(v, importableFrom)
		}
	case engine.KindExtension:
		if ext, ok := el.(engine.ExtensionLike); ok {
			return x.extension(ext, importableFrom)
		}
	}
	return nil
}

// base populates the fields every element carries. DefinedIn is the
// element's own declaring location, independent of how many entry points
// re-export it.
func (x *extractor) base(el engine.Element, importableFrom []string) model.ElementBase {
	return model.ElementBase{
		Name:           el.Name(),
		Documentation:  el.Documentation(),
		ImportableFrom: importableFrom,
		DefinedIn:      el.Location(),
	}
}

func (x *extractor) class(cls engine.ClassLike, importableFrom []string) model.Element {
	chain, chainTypes := x.superclassChain(cls)
	return model.ClassElement{
		ElementBase:     x.base(cls, importableFrom),
		TypeParameters:  x.types.typeParameters(cls.TypeParameters()),
		IsAbstract:      cls.IsAbstract(),
		SuperclassChain: chain,
		SuperclassTypes: chainTypes,
		Interfaces:      x.typeNames(cls.Interfaces()),
		Mixins:          x.typeNames(cls.Mixins()),
		Members:         x.members.Resolve(cls),
	}
}

func (x *extractor) enum(en engine.EnumLike, importableFrom []string) model.Element {
	values := make([]model.EnumValue, 0, len(en.Values()))
	for _, v := range en.Values() {
		if isPrivateName(v.Name()) {
			continue
		}
		values = append(values, model.EnumValue{
			Name:          v.Name(),
			Documentation: v.Documentation(),
		})
	}
	return model.EnumElement{
		ElementBase: x.base(en, importableFrom),
		Values:      values,
		Members:     x.members.Resolve(en),
		Interfaces:  x.typeNames(en.Interfaces()),
		Mixins:      x.typeNames(en.Mixins()),
	}
}

func (x *extractor) function(fn engine.FunctionLike, importableFrom []string) model.Element {
	return model.FunctionElement{
		ElementBase:    x.base(fn, importableFrom),
		ReturnType:     x.types.buildPtr(fn.ReturnType()),
		TypeParameters: x.types.typeParameters(fn.TypeParameters()),
		Parameters:     x.types.parameters(fn.Parameters()),
	}
}

func (x *extractor) variable(v engine.VariableLike, importableFrom []string) model.Element {
	return model.VariableElement{
		ElementBase: x.base(v, importableFrom),
		Type:        x.types.buildPtr(v.Type()),
		IsConst:     v.IsConst(),
		IsFinal:     v.IsFinal(),
		IsLate:      v.IsLate(),
	}
}

func (x *extractor) extension(ext engine.ExtensionLike, importableFrom []string) model.Element {
	return model.ExtensionElement{
		ElementBase: x.base(ext, importableFrom),
		OnType:      x.types.buildPtr(ext.OnType()),
		Members:     x.members.ResolveDeclared(ext),
	}
}

// superclassChain walks the superclass relation up to, and excluding, the
// foundation root, returning parallel name and type lists. A visited set
// bounds the walk: syntactically valid sources can declare a cyclic extends
// relation, and revisiting a declaration would never terminate.
func (x *extractor) superclassChain(cls engine.ClassLike) ([]string, []model.TypeRef) {
	var names []string
	var types []model.TypeRef
	visited := map[engine.Key]bool{engine.KeyOf(cls): true}
	for t := cls.Superclass(); t != nil; {
		el := t.Element()
		if el == nil || x.conv.IsFoundation(el.Location()) {
			break
		}
		key := engine.KeyOf(el)
		if visited[key] {
			break
		}
		visited[key] = true
		names = append(names, el.Name())
		types = append(types, x.types.build(t))
		parent, ok := el.(engine.ClassLike)
		if !ok {
			break
		}
		t = parent.Superclass()
	}
	return names, types
}

func (x *extractor) typeNames(types []engine.Type) []string {
	if len(types) == 0 {
		return nil
	}
	names := make([]string, 0, len(types))
	for _, t := range types {
		if el := t.Element(); el != nil && el.Name() != "" {
			names = append(names, el.Name())
			continue
		}
		names = append(names, x.types.display(t))
	}
	return names
}

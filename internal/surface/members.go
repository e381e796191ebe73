package surface

import (
	"github.com/apiscope-hq/apiscope/internal/config"
	"github.com/apiscope-hq/apiscope/internal/engine"
	"github.com/apiscope-hq/apiscope/pkg/model"
)

// memberSource is the declared member surface shared by class-like and
// extension elements.
type memberSource interface {
	Fields() []engine.FieldElement
	Accessors() []engine.AccessorElement
	Methods() []engine.MethodElement
}

// memberResolver produces the ordered member list of a class-like element:
// declared constructors first, then the merged field/accessor/method set,
// then inherited-only members from the element's complete interface.
//
// Merge rules per name:
//  1. field with both accessors, or a getter/setter pair without a field,
//     collapses to a single field record
//  2. field with exactly one accessor is reported as that accessor; the
//     backing field is suppressed
//  3. field with no accessors is reported as a field
//  4. non-accessor methods are reported as method/operator records
//  5. complete-interface members not covered above are inherited-only and
//     appended last
//
// Private names and members declared in the foundation library are excluded
// at every step.
type memberResolver struct {
	conv  *config.Conventions
	types *typeBuilder
}

func newMemberResolver(conv *config.Conventions, types *typeBuilder) *memberResolver {
	return &memberResolver{conv: conv, types: types}
}

// excluded reports whether a member element must not appear in any surface.
func (r *memberResolver) excluded(el engine.Element) bool {
	return isPrivateName(el.Name()) || r.conv.IsFoundation(el.Location())
}

// Resolve returns the full member list of a class-like element.
func (r *memberResolver) Resolve(cls engine.ClassLike) []model.Member {
	emitted := make(map[string]bool)
	members := r.constructors(cls, emitted)
	members = append(members, r.resolveDeclared(cls, emitted)...)
	members = append(members, r.inherited(cls, emitted)...)
	if members == nil {
		members = []model.Member{}
	}
	return members
}

// ResolveDeclared returns the merged declared member set only. Extensions
// have no constructors and no inheritance, so this is their whole surface.
func (r *memberResolver) ResolveDeclared(src memberSource) []model.Member {
	members := r.resolveDeclared(src, make(map[string]bool))
	if members == nil {
		members = []model.Member{}
	}
	return members
}

func (r *memberResolver) constructors(cls engine.ClassLike, emitted map[string]bool) []model.Member {
	var out []model.Member
	for _, ctor := range cls.Constructors() {
		name := ctor.Name()
		if name == engine.UnnamedConstructor {
			name = ""
		}
		if isPrivateName(name) || r.conv.IsFoundation(ctor.Location()) {
			continue
		}
		out = append(out, model.Member{
			Kind:       model.MemberKindConstructor,
			Name:       name,
			Location:   ctor.Location(),
			IsConst:    ctor.IsConst(),
			Parameters: r.types.parameters(ctor.Parameters()),
		})
		if name != "" {
			emitted[name] = true
		}
	}
	return out
}

func (r *memberResolver) resolveDeclared(src memberSource, emitted map[string]bool) []model.Member {
	var out []model.Member

	getters := make(map[string]engine.AccessorElement)
	setters := make(map[string]engine.AccessorElement)
	for _, acc := range src.Accessors() {
		if acc.IsGetter() {
			getters[acc.Name()] = acc
		} else {
			setters[acc.Name()] = acc
		}
	}

	for _, field := range src.Fields() {
		name := field.Name()
		if emitted[name] || r.excluded(field) {
			continue
		}
		getter, hasGetter := getters[name]
		setter, hasSetter := setters[name]
		switch {
		case hasGetter && hasSetter:
			// Accessors over a field are redundant machinery; the field wins.
			out = append(out, r.fieldMember(field))
		case hasGetter:
			out = append(out, r.getterMember(getter))
		case hasSetter:
			out = append(out, r.setterMember(setter))
		default:
			out = append(out, r.fieldMember(field))
		}
		emitted[name] = true
	}

	for _, acc := range src.Accessors() {
		name := acc.Name()
		if emitted[name] || r.excluded(acc) {
			continue
		}
		getter, hasGetter := getters[name]
		_, hasSetter := setters[name]
		switch {
		case hasGetter && hasSetter:
			// A free getter/setter pair is one property, not two members.
			out = append(out, r.accessorPairMember(getter))
		case hasGetter:
			out = append(out, r.getterMember(getter))
		default:
			out = append(out, r.setterMember(acc))
		}
		emitted[name] = true
	}

	for _, method := range src.Methods() {
		name := method.Name()
		if emitted[name] || r.excluded(method) {
			continue
		}
		out = append(out, r.methodMember(method))
		emitted[name] = true
	}

	return out
}

// inherited appends members of the complete interface that were not already
// emitted as declared. Classification uses the emitted-name set, never
// recomputation, so a declared member is never double-reported as inherited.
func (r *memberResolver) inherited(cls engine.ClassLike, emitted map[string]bool) []model.Member {
	var out []model.Member

	// Inherited accessor pairs collapse like declared ones, so gather
	// accessors per name before emitting anything.
	inhGetters := make(map[string]engine.AccessorElement)
	inhSetters := make(map[string]engine.AccessorElement)
	var accessorOrder []string
	seenAccessor := make(map[string]bool)

	for _, m := range cls.InterfaceMembers() {
		name := m.Name()
		if emitted[name] || r.excluded(m) {
			continue
		}
		switch el := m.(type) {
		case engine.AccessorElement:
			if !seenAccessor[name] {
				seenAccessor[name] = true
				accessorOrder = append(accessorOrder, name)
			}
			if el.IsGetter() {
				inhGetters[name] = el
			} else {
				inhSetters[name] = el
			}
		case engine.MethodElement:
			out = append(out, r.methodMember(el))
			emitted[name] = true
		case engine.FieldElement:
			out = append(out, r.fieldMember(el))
			emitted[name] = true
		}
	}

	for _, name := range accessorOrder {
		if emitted[name] {
			continue
		}
		getter, hasGetter := inhGetters[name]
		setter, hasSetter := inhSetters[name]
		switch {
		case hasGetter && hasSetter:
			out = append(out, r.accessorPairMember(getter))
		case hasGetter:
			out = append(out, r.getterMember(getter))
		case hasSetter:
			out = append(out, r.setterMember(setter))
		}
		emitted[name] = true
	}

	return out
}

func (r *memberResolver) fieldMember(field engine.FieldElement) model.Member {
	return model.Member{
		Kind:     model.MemberKindField,
		Name:     field.Name(),
		Location: field.Location(),
		IsStatic: field.IsStatic(),
		Type:     r.types.buildPtr(field.Type()),
		IsFinal:  field.IsFinal(),
		IsLate:   field.IsLate(),
		IsConst:  field.IsConst(),
	}
}

// accessorPairMember renders a getter/setter pair as the single field
// record they amount to.
func (r *memberResolver) accessorPairMember(getter engine.AccessorElement) model.Member {
	return model.Member{
		Kind:     model.MemberKindField,
		Name:     getter.Name(),
		Location: getter.Location(),
		IsStatic: getter.IsStatic(),
		Type:     r.types.buildPtr(getter.ReturnType()),
	}
}

func (r *memberResolver) getterMember(getter engine.AccessorElement) model.Member {
	return model.Member{
		Kind:       model.MemberKindGetter,
		Name:       getter.Name(),
		Location:   getter.Location(),
		IsStatic:   getter.IsStatic(),
		ReturnType: r.types.buildPtr(getter.ReturnType()),
	}
}

func (r *memberResolver) setterMember(setter engine.AccessorElement) model.Member {
	return model.Member{
		Kind:          model.MemberKindSetter,
		Name:          setter.Name(),
		Location:      setter.Location(),
		IsStatic:      setter.IsStatic(),
		ParameterType: r.types.buildPtr(setter.ParameterType()),
	}
}

func (r *memberResolver) methodMember(method engine.MethodElement) model.Member {
	kind := model.MemberKindMethod
	if method.IsOperator() {
		kind = model.MemberKindOperator
	}
	return model.Member{
		Kind:       kind,
		Name:       method.Name(),
		Location:   method.Location(),
		IsStatic:   method.IsStatic(),
		ReturnType: r.types.buildPtr(method.ReturnType()),
		Parameters: r.types.parameters(method.Parameters()),
	}
}

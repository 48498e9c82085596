package factory

import (
	"github.com/viant/metamodel/facet"
	"github.com/viant/metamodel/interaction"
	"github.com/viant/metamodel/introspect"
)

const (
	DomainObject = "domain-object"
	TypeDefaults = "type-defaults"
)

// DomainObjects installs type level facets declared on the domainObject marker tag
type DomainObjects struct {
	base
}

// ProcessType parses domainObject tag
func (d *DomainObjects) ProcessType(ctx *TypeContext) []facet.Facet {
	value, ok := ctx.Type.Tag.Lookup(introspect.DomainObjectTag)
	if !ok {
		return nil
	}
	annotation, issues := ParseAnnotation(value)
	report(ctx.Context, d.name, "", issues)
	return annotation.TypeFacets(ctx.Context, d.name, facet.Explicit(d.name))
}

// TypeFacets converts annotation into object facets
func (a *Annotation) TypeFacets(ctx *Context, factory string, origin facet.Origin) []facet.Facet {
	var ret []facet.Facet
	if a.Named != "" {
		ret = append(ret, facet.NewNamed(a.Named, origin))
	}
	if a.DescribedAs != "" {
		ret = append(ret, facet.NewDescribedAs(a.DescribedAs, origin))
	}
	if a.Plural != "" {
		ret = append(ret, facet.NewPlural(a.Plural, origin))
	}
	if a.Editing != nil {
		ret = append(ret, facet.NewEditing(*a.Editing, a.EditingReason, origin))
	}
	if a.Hidden != nil {
		ret = append(ret, facet.NewHidden(*a.Hidden, origin))
	}
	if len(a.Roles) > 0 {
		ret = append(ret, facet.NewRoles(a.Roles, origin))
	}
	if a.Prototyping {
		ret = append(ret, facet.NewPrototyping(origin))
	}
	if a.DomainEvent != "" {
		if rType := resolveType(ctx, factory, "", "domainEvent", a.DomainEvent); rType != nil {
			ret = append(ret, facet.NewDomainEvent(rType, origin))
		}
	}
	for _, unsupported := range []struct {
		set bool
		key string
	}{{a.MaxLength != nil, "maxLength"}, {a.Mandatory != nil, "mandatory"}, {a.Regex != nil, "regex"}, {a.TypeOf != "", "typeOf"}, {a.Semantics != "", "semantics"}} {
		if unsupported.set {
			ctx.Failf(factory, "", "%v is not supported on a domain object", unsupported.key)
		}
	}
	return ret
}

// NewDomainObjects creates domain object factory
func NewDomainObjects() Factory {
	return &DomainObjects{base: base{name: DomainObject, features: []facet.Feature{facet.FeatureObject},
		kinds: []facet.Kind{facet.KindNamed, facet.KindDescribedAs, facet.KindPlural, facet.KindEditing, facet.KindHidden, facet.KindRoles, facet.KindPrototyping, facet.KindDomainEvent}}}
}

// MemberDefaults propagates type level editing policy and domain event defaults to members
type MemberDefaults struct {
	base
}

// Process installs member defaults with type precedence
func (d *MemberDefaults) Process(ctx *MemberContext) []facet.Facet {
	var ret []facet.Facet
	origin := facet.TypeLevel(d.name)
	if ctx.Feature() == facet.FeatureProperty || ctx.Feature() == facet.FeatureCollection {
		if editing, ok := facet.Lookup[*facet.Editing](ctx.Object, facet.KindEditing); ok && !editing.Enabled {
			ret = append(ret, facet.NewDisabled(interaction.Anywhere, editing.Reason, origin))
		}
	}
	value, ok := ctx.Type.Tag.Lookup(introspect.DomainObjectTag)
	if !ok {
		return ret
	}
	annotation, _ := ParseAnnotation(value)
	event := ""
	switch ctx.Feature() {
	case facet.FeatureProperty:
		event = annotation.PropertyEvent
	case facet.FeatureCollection:
		event = annotation.CollectionEvent
	case facet.FeatureAction:
		event = annotation.ActionEvent
	}
	if event != "" {
		if rType := resolveType(ctx.Context, d.name, ctx.ID(), "domainEvent", event); rType != nil {
			ret = append(ret, facet.NewDomainEvent(rType, origin))
		}
	}
	return ret
}

// NewTypeDefaults creates type defaults factory
func NewTypeDefaults() Factory {
	return &MemberDefaults{base: base{name: TypeDefaults, features: facet.MemberFeatures(),
		kinds: []facet.Kind{facet.KindDisabled, facet.KindDomainEvent}}}
}

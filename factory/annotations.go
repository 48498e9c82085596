package factory

import (
	"github.com/viant/metamodel/facet"
	"github.com/viant/metamodel/introspect"
	"reflect"
)

const (
	PropertyAnnotation   = "property-annotation"
	CollectionAnnotation = "collection-annotation"
	ActionAnnotation     = "action-annotation"
	ParameterAnnotation  = "parameter-annotation"
)

var annotationKinds = []facet.Kind{
	facet.KindMaxLength, facet.KindMandatory, facet.KindRegex, facet.KindHidden, facet.KindDisabled,
	facet.KindNamed, facet.KindDescribedAs, facet.KindRoles, facet.KindPrototyping, facet.KindSemantics,
	facet.KindTypeOf, facet.KindDomainEvent,
}

// Annotations installs explicit facets declared with a member or parameter tag
type Annotations struct {
	base
	tagNames []string
}

// Process parses tag values declared on a member, a mixin method has priority over mixin type
func (a *Annotations) Process(ctx *MemberContext) []facet.Facet {
	var ret []facet.Facet
	for _, tag := range a.tags(ctx) {
		for _, tagName := range a.tagNames {
			value, ok := tag.Lookup(tagName)
			if !ok {
				continue
			}
			annotation, issues := ParseAnnotation(value)
			report(ctx.Context, a.name, ctx.ID(), issues)
			ret = append(ret, annotation.Facets(ctx, a.name, facet.Explicit(a.name))...)
		}
	}
	return ret
}

func (a *Annotations) tags(ctx *MemberContext) []reflect.StructTag {
	ret := []reflect.StructTag{ctx.Tag()}
	if ctx.Param == nil && ctx.Member.Source == introspect.SourceMixin && ctx.Member.MixinTag != "" {
		ret = append(ret, ctx.Member.MixinTag)
	}
	return ret
}

func newAnnotations(name string, feature facet.Feature, tagNames ...string) *Annotations {
	return &Annotations{base: base{name: name, features: []facet.Feature{feature}, kinds: annotationKinds}, tagNames: tagNames}
}

// NewPropertyAnnotations creates property tag factory
func NewPropertyAnnotations() Factory {
	return newAnnotations(PropertyAnnotation, facet.FeatureProperty, introspect.PropertyTag)
}

// NewCollectionAnnotations creates collection tag factory, property tag on collection typed member is honoured too
func NewCollectionAnnotations() Factory {
	return newAnnotations(CollectionAnnotation, facet.FeatureCollection, introspect.CollectionTag, introspect.PropertyTag)
}

// NewActionAnnotations creates action tag factory
func NewActionAnnotations() Factory {
	return newAnnotations(ActionAnnotation, facet.FeatureAction, introspect.ActionTag)
}

// NewParameterAnnotations creates action parameter tag factory
func NewParameterAnnotations() Factory {
	return newAnnotations(ParameterAnnotation, facet.FeatureActionParameter, introspect.ParameterTag)
}

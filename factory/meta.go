package factory

import (
	"github.com/viant/metamodel/facet"
	"github.com/viant/metamodel/introspect"
	"reflect"
	"strings"
)

const MetaAnnotation = "meta-annotation"

// MetaAnnotations installs facets from named annotation bundles referenced with meta tag
type MetaAnnotations struct {
	base
}

// Process applies member level bundles
func (m *MetaAnnotations) Process(ctx *MemberContext) []facet.Facet {
	var ret []facet.Facet
	for _, annotation := range m.bundles(ctx.Context, ctx.ID(), ctx.Tag()) {
		ret = append(ret, annotation.Facets(ctx, m.name, facet.Meta(m.name))...)
	}
	return ret
}

// ProcessType applies bundles referenced by type marker field
func (m *MetaAnnotations) ProcessType(ctx *TypeContext) []facet.Facet {
	var ret []facet.Facet
	for _, annotation := range m.bundles(ctx.Context, "", ctx.Type.Tag) {
		ret = append(ret, annotation.TypeFacets(ctx.Context, m.name, facet.Meta(m.name))...)
	}
	return ret
}

func (m *MetaAnnotations) bundles(ctx *Context, member string, tag reflect.StructTag) []*Annotation {
	value, ok := tag.Lookup(introspect.MetaTag)
	if !ok {
		return nil
	}
	var ret []*Annotation
	for _, name := range strings.FieldsFunc(value, func(r rune) bool { return r == '|' || r == ',' }) {
		name = strings.TrimSpace(name)
		bundle, ok := ctx.Meta[name]
		if !ok {
			ctx.Failf(m.name, member, "unknown meta annotation %v", name)
			continue
		}
		annotation, issues := ParseAnnotation(bundle)
		report(ctx, m.name, member, issues)
		ret = append(ret, annotation)
	}
	return ret
}

// NewMetaAnnotations creates meta annotation factory
func NewMetaAnnotations() Factory {
	return &MetaAnnotations{base: base{name: MetaAnnotation,
		features: []facet.Feature{facet.FeatureObject, facet.FeatureProperty, facet.FeatureCollection, facet.FeatureAction, facet.FeatureActionParameter},
		kinds:    append(append([]facet.Kind{}, annotationKinds...), facet.KindPlural, facet.KindEditing)}}
}

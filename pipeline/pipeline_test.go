package pipeline

import (
	"context"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/metamodel/diag"
	"github.com/viant/metamodel/facet"
	"github.com/viant/metamodel/factory"
	"github.com/viant/metamodel/interaction"
	"github.com/viant/metamodel/introspect"
	"reflect"
	"testing"
)

type order struct {
	Reference string `property:"maxLength=12"`
	Lines     []string
}

type stubFactory struct {
	name     string
	features []facet.Feature
	produce  func() []facet.Facet
	calls    int
}

func (s *stubFactory) Name() string              { return s.name }
func (s *stubFactory) Features() []facet.Feature { return s.features }
func (s *stubFactory) Kinds() []facet.Kind       { return []facet.Kind{facet.KindHidden} }
func (s *stubFactory) Process(ctx *factory.MemberContext) []facet.Facet {
	s.calls++
	return s.produce()
}

func names(factories []factory.Factory) []string {
	var ret []string
	for _, f := range factories {
		ret = append(ret, f.Name())
	}
	return ret
}

func TestDefault_Table(t *testing.T) {
	aPipeline := Default()
	var testCases = []struct {
		description string
		feature     facet.Feature
		expect      []string
	}{
		{
			description: "object",
			feature:     facet.FeatureObject,
			expect:      []string{factory.MetaAnnotation, factory.DomainObject, factory.TitleMethod, factory.ObjectValidation, factory.NamedInference, factory.PluralInference},
		},
		{
			description: "action parameter",
			feature:     facet.FeatureActionParameter,
			expect:      []string{factory.ParameterAnnotation, factory.MetaAnnotation, factory.MandatoryInference, factory.Parseables},
		},
		{
			description: "collection",
			feature:     facet.FeatureCollection,
			expect:      []string{factory.CollectionAnnotation, factory.MetaAnnotation, factory.TypeDefaults, factory.SupportingMethods, factory.TypeOfInference, factory.NamedInference},
		},
	}
	for _, testCase := range testCases {
		if diff := cmp.Diff(testCase.expect, names(aPipeline.For(testCase.feature))); diff != "" {
			t.Errorf("%v: unexpected factories (-want +got):\n%s", testCase.description, diff)
		}
	}
	assert.Len(t, aPipeline.Table(), len(factory.DefaultOrder))
	assert.Contains(t, aPipeline.Contributors(facet.KindTypeOf), factory.TypeOfInference)
}

func TestNew_Errors(t *testing.T) {
	var testCases = []struct {
		description string
		factories   []factory.Factory
	}{
		{description: "no features", factories: []factory.Factory{&stubFactory{name: "a"}}},
		{description: "duplicate", factories: []factory.Factory{
			&stubFactory{name: "a", features: []facet.Feature{facet.FeatureProperty}},
			&stubFactory{name: "a", features: []facet.Feature{facet.FeatureProperty}},
		}},
		{description: "invalid feature", factories: []factory.Factory{&stubFactory{name: "a", features: []facet.Feature{"bogus"}}}},
	}
	for _, testCase := range testCases {
		_, err := New(testCase.factories...)
		assert.Error(t, err, testCase.description)
	}
	_, err := NewFromNames(factory.NewRegistry(), "unknown")
	assert.Error(t, err)
}

func memberContext(t *testing.T, id string) (*factory.MemberContext, *facet.Holder) {
	aType, err := introspect.Introspect(reflect.TypeOf(order{}))
	require.NoError(t, err)
	object := facet.NewHolder(aType.Name, facet.FeatureObject, nil)
	member := aType.Member(id)
	require.NotNil(t, member)
	holder := facet.NewHolder(member.ID, member.Feature, nil)
	ctx := factory.NewContext(aType, object, nil, nil)
	return &factory.MemberContext{Context: ctx, Member: member, Holder: holder}, holder
}

func TestPipeline_ProcessMember(t *testing.T) {
	hidden := &stubFactory{name: "hidden", features: []facet.Feature{facet.FeatureProperty}, produce: func() []facet.Facet {
		return []facet.Facet{facet.NewHidden(interaction.Anywhere, facet.Inferred("hidden", facet.SourceDefault))}
	}}
	skipped := &stubFactory{name: "skipped", features: []facet.Feature{facet.FeatureAction}, produce: func() []facet.Facet { return nil }}
	aPipeline, err := New(factory.NewPropertyAnnotations(), hidden, skipped)
	require.NoError(t, err)

	mCtx, holder := memberContext(t, "reference")
	require.NoError(t, aPipeline.ProcessMember(context.Background(), mCtx, holder))
	assert.True(t, holder.Contains(facet.KindMaxLength))
	assert.True(t, holder.Contains(facet.KindHidden))
	assert.Equal(t, 1, hidden.calls)
	assert.Equal(t, 0, skipped.calls)
}

func TestPipeline_ProcessMember_Panic(t *testing.T) {
	panicking := &stubFactory{name: "panicking", features: []facet.Feature{facet.FeatureProperty}, produce: func() []facet.Facet {
		panic("boom")
	}}
	aPipeline, err := New(panicking)
	require.NoError(t, err)
	mCtx, holder := memberContext(t, "reference")
	err = aPipeline.ProcessMember(context.Background(), mCtx, holder)
	require.Error(t, err)
	assert.True(t, diag.IsStructural(err))
	assert.Contains(t, err.Error(), "panicking")
}

func TestPipeline_ProcessMember_Canceled(t *testing.T) {
	aPipeline := Default()
	mCtx, holder := memberContext(t, "lines")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := aPipeline.ProcessMember(ctx, mCtx, holder)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, holder.Len())
}

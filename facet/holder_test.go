package facet

import (
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/metamodel/interaction"
	"reflect"
	"testing"
)

func TestHolder_AddFacet(t *testing.T) {
	holder := NewHolder("name", FeatureProperty, nil)
	accepted, err := holder.AddFacet(NewMaxLength(255, Inferred("inference", SourceValidateTag)))
	require.Nil(t, err)
	assert.True(t, accepted)

	accepted, err = holder.AddFacet(NewMaxLength(30, Explicit("annotation")))
	require.Nil(t, err)
	assert.True(t, accepted)

	accepted, err = holder.AddFacet(NewMaxLength(10, Inferred("inference", SourceValidateTag)))
	require.Nil(t, err)
	assert.False(t, accepted)

	accepted, err = holder.AddFacetIfPresent(nil)
	require.Nil(t, err)
	assert.False(t, accepted)

	var typedNil *MaxLength
	accepted, err = holder.AddFacetIfPresent(typedNil)
	require.Nil(t, err)
	assert.False(t, accepted)

	maxLength, ok := Lookup[*MaxLength](holder, KindMaxLength)
	require.True(t, ok)
	assert.Equal(t, 30, maxLength.Limit)
	assert.Equal(t, 1, holder.Len())

	_, ok = holder.Facet(KindMandatory)
	assert.False(t, ok, "unset kind has to be absent")

	holder.Freeze()
	_, err = holder.AddFacet(NewMandatory(true, Explicit("annotation")))
	assert.True(t, errors.Is(err, ErrFrozen))
}

func TestHolder_Facet_fallback(t *testing.T) {
	var testCases = []struct {
		description string
		parent      []Facet
		local       []Facet
		expect      Facet
	}{
		{
			description: "no local falls back to supertype",
			parent:      []Facet{NewNamed("Customer Name", Explicit("p"))},
			expect:      NewNamed("Customer Name", Explicit("p")),
		},
		{
			description: "local concrete wins",
			parent:      []Facet{NewNamed("Customer Name", Explicit("p"))},
			local:       []Facet{NewNamed("Client Name", Explicit("l"))},
			expect:      NewNamed("Client Name", Explicit("l")),
		},
		{
			description: "supertype concrete beats local derived",
			parent:      []Facet{NewNamed("Customer Name", Explicit("p"))},
			local:       []Facet{NewNamed("Name", Inferred("l", SourceName))},
			expect:      NewNamed("Customer Name", Explicit("p")),
		},
		{
			description: "local derived beats supertype derived",
			parent:      []Facet{NewNamed("Customer Name", Inferred("p", SourceName))},
			local:       []Facet{NewNamed("Name", Inferred("l", SourceName))},
			expect:      NewNamed("Name", Inferred("l", SourceName)),
		},
		{
			description: "supertype derived used when nothing local",
			parent:      []Facet{NewNamed("Customer Name", Inferred("p", SourceName))},
			expect:      NewNamed("Customer Name", Inferred("p", SourceName)),
		},
	}
	for _, testCase := range testCases {
		parent := NewHolder("name", FeatureProperty, nil)
		for _, f := range testCase.parent {
			_, _ = parent.AddFacet(f)
		}
		parent.Freeze()
		child := NewHolder("name", FeatureProperty, parent)
		for _, f := range testCase.local {
			_, _ = child.AddFacet(f)
		}
		actual, ok := child.Facet(KindNamed)
		require.True(t, ok, testCase.description)
		assert.EqualValues(t, testCase.expect, actual, testCase.description)
		assert.Equal(t, 1, len(child.Facets()), testCase.description)
	}
}

func TestHolder_Facets(t *testing.T) {
	parent := NewHolder("discount", FeatureProperty, nil)
	_, _ = parent.AddFacet(NewTypeOf(reflect.TypeOf(0), Explicit("p")))
	_, _ = parent.AddFacet(NewHidden(interaction.Anywhere, Explicit("p")))
	child := NewHolder("discount", FeatureProperty, parent)
	_, _ = child.AddFacet(NewMaxLength(3, Explicit("c")))
	_, _ = child.AddFacet(NewHidden(interaction.AllTables, Explicit("c")))

	facets := child.Facets()
	require.Equal(t, 3, len(facets))
	assert.Equal(t, KindHidden, facets[0].Kind())
	assert.Equal(t, interaction.AllTables, facets[0].(*Hidden).Where)
	assert.Equal(t, KindMaxLength, facets[1].Kind())
	assert.Equal(t, KindTypeOf, facets[2].Kind())
	_, ok := child.Local(KindTypeOf)
	assert.False(t, ok)
	assert.True(t, child.Contains(KindTypeOf))
}

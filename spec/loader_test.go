package spec

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/metamodel/consent"
	"github.com/viant/metamodel/diag"
	"github.com/viant/metamodel/facet"
	"github.com/viant/metamodel/factory"
	"github.com/viant/metamodel/interaction"
	"github.com/viant/metamodel/pipeline"
	"go.uber.org/goleak"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type party struct {
	Nickname string `property:"maxLength=5"`
	Phone    *string
}

type person struct {
	party
	Name   string `property:"maxLength=10"`
	Orders []*order
}

func (p *person) FullName() string {
	return p.Name + " (" + p.Nickname + ")"
}

func (p *person) MemberTags() map[string]string {
	return map[string]string{
		"Phone":    `property:"maxLength=3"`,
		"FullName": `property:""`,
	}
}

type employee struct {
	*party
	Badge string
}

type order struct {
	Number  string
	Lines   []*line
	Related []interface{} `collection:"typeOf=product"`
}

type line struct {
	Quantity int
}

type product struct {
	Code string
}

type left struct {
	*right
	L string
}

type right struct {
	*left
	R string
}

type vehicle struct {
	Plate string
	Vin   string `property:"-"`
}

func (v *vehicle) Display() string { return v.Plate }

func (v *vehicle) MemberTags() map[string]string {
	return map[string]string{"Display": `property:"maxLength=4"`}
}

type truck struct {
	vehicle
	Load int
}

type fleet struct {
	*vehicle
	Size int
}

type gauge struct {
	Level int
}

func (g *gauge) Reading() int { panic("sensor offline") }

func (g *gauge) MemberTags() map[string]string {
	return map[string]string{"Reading": `property:""`}
}

type invoice struct {
	Total float64
}

type invoiceTotal struct{}

func (i *invoiceTotal) Act() float64 { return 0 }

type invoiceTax struct {
	_       struct{} `property:"named=Tax"`
	Invoice *invoice
}

func (i *invoiceTax) Prop() float64 { return i.Invoice.Total / 10 }

type broken struct {
	Code string `property:"maxLength=abc,describedAs=Product code"`
}

type countingFactory struct {
	calls atomic.Int32
	delay time.Duration
}

func (c *countingFactory) Name() string { return "counting" }

func (c *countingFactory) Features() []facet.Feature {
	return []facet.Feature{facet.FeatureObject}
}

func (c *countingFactory) Kinds() []facet.Kind { return nil }

func (c *countingFactory) ProcessType(ctx *factory.TypeContext) []facet.Facet {
	c.calls.Add(1)
	time.Sleep(c.delay)
	return nil
}

func newLoader(t *testing.T, opts ...Option) *Loader {
	loader, err := NewLoader(append([]Option{WithTypes(reflect.TypeOf(product{}))}, opts...)...)
	require.NoError(t, err)
	return loader
}

func TestLoader_SpecFor(t *testing.T) {
	loader := newLoader(t)
	spec, err := loader.SpecFor(context.Background(), reflect.TypeOf(&person{}))
	require.NoError(t, err)

	again, err := loader.SpecFor(context.Background(), reflect.TypeOf(person{}))
	require.NoError(t, err)
	assert.Same(t, spec, again)

	var ids []string
	for _, member := range spec.Members {
		ids = append(ids, member.ID)
	}
	assert.Equal(t, []string{"nickname", "phone", "name", "orders", "fullName"}, ids)
	assert.Len(t, spec.Properties(), 4)
	assert.Len(t, spec.Collections(), 1)
	assert.Len(t, spec.Actions(), 0)
	assert.True(t, spec.Holder.IsFrozen())
	for _, member := range spec.Members {
		assert.True(t, member.Holder.IsFrozen(), member.ID)
	}
	require.NotNil(t, spec.Super)
	assert.True(t, spec.IsSubtypeOf(reflect.TypeOf(party{})))

	super, ok := loader.Lookup(reflect.TypeOf(party{}))
	require.True(t, ok)
	assert.Same(t, super, spec.Super)
}

func TestLoader_SupertypeFallback(t *testing.T) {
	loader := newLoader(t)
	spec, err := loader.SpecFor(context.Background(), reflect.TypeOf(person{}))
	require.NoError(t, err)

	var testCases = []struct {
		description string
		member      string
		local       bool
		expect      int
	}{
		{description: "inherited from supertype", member: "nickname", local: false, expect: 5},
		{description: "local override wins", member: "phone", local: true, expect: 3},
		{description: "own member", member: "name", local: true, expect: 10},
	}
	for _, testCase := range testCases {
		member, ok := spec.Member(testCase.member)
		require.True(t, ok, testCase.description)
		_, hasLocal := member.Holder.Local(facet.KindMaxLength)
		assert.Equal(t, testCase.local, hasLocal, testCase.description)
		maxLength, ok := facet.Lookup[*facet.MaxLength](member.Holder, facet.KindMaxLength)
		require.True(t, ok, testCase.description)
		assert.Equal(t, testCase.expect, maxLength.Limit, testCase.description)
	}
}

func TestLoader_TypeOf(t *testing.T) {
	loader := newLoader(t)
	spec, err := loader.SpecFor(context.Background(), reflect.TypeOf(order{}))
	require.NoError(t, err)

	var testCases = []struct {
		description string
		member      string
		expect      reflect.Type
		derived     bool
		source      string
	}{
		{description: "inferred from element type", member: "lines", expect: reflect.TypeOf(line{}), derived: true, source: facet.SourceGenerics},
		{description: "explicit annotation", member: "related", expect: reflect.TypeOf(product{}), derived: false, source: facet.SourceExplicit},
	}
	for _, testCase := range testCases {
		member, ok := spec.Member(testCase.member)
		require.True(t, ok, testCase.description)
		assert.Equal(t, facet.FeatureCollection, member.Feature, testCase.description)
		typeOf, ok := facet.Lookup[*facet.TypeOf](member.Holder, facet.KindTypeOf)
		require.True(t, ok, testCase.description)
		assert.Equal(t, testCase.expect, typeOf.Type, testCase.description)
		assert.Equal(t, testCase.derived, facet.IsDerived(typeOf), testCase.description)
		assert.Equal(t, testCase.source, typeOf.Origin().Source, testCase.description)
	}
}

func TestLoader_Concurrent(t *testing.T) {
	defer goleak.VerifyNone(t)
	counting := &countingFactory{delay: 20 * time.Millisecond}
	aPipeline, err := pipeline.New(counting)
	require.NoError(t, err)
	loader := newLoader(t, WithPipeline(aPipeline))

	const callers = 16
	results := make([]*Specification, callers)
	wg := sync.WaitGroup{}
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			spec, err := loader.SpecFor(context.Background(), reflect.TypeOf(product{}))
			assert.NoError(t, err)
			results[i] = spec
		}(i)
	}
	wg.Wait()
	assert.EqualValues(t, 1, counting.calls.Load())
	for _, result := range results {
		assert.Same(t, results[0], result)
	}
}

func TestLoader_StructuralErrors(t *testing.T) {
	var testCases = []struct {
		description string
		rType       reflect.Type
		options     []Option
		expect      string
	}{
		{description: "self embedding", rType: reflect.TypeOf(left{}), expect: "cyclic specification lookup"},
		{description: "duplicate member id", rType: reflect.TypeOf(invoice{}), options: []Option{WithMixin(reflect.TypeOf(invoice{}), reflect.TypeOf(invoiceTotal{}))}, expect: "invoice.total: duplicate member id"},
	}
	for _, testCase := range testCases {
		loader := newLoader(t, testCase.options...)
		_, err := loader.SpecFor(context.Background(), testCase.rType)
		require.Error(t, err, testCase.description)
		assert.True(t, diag.IsStructural(err), testCase.description)
		assert.Contains(t, err.Error(), testCase.expect, testCase.description)
		_, ok := loader.Lookup(testCase.rType)
		assert.False(t, ok, testCase.description)
	}
}

func TestLoader_Deadline(t *testing.T) {
	aPipeline, err := pipeline.New(&countingFactory{delay: 50 * time.Millisecond})
	require.NoError(t, err)
	loader := newLoader(t, WithPipeline(aPipeline), WithTimeout(10*time.Millisecond))
	_, err = loader.SpecFor(context.Background(), reflect.TypeOf(product{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	time.Sleep(100 * time.Millisecond)
	_, ok := loader.Lookup(reflect.TypeOf(product{}))
	assert.False(t, ok)
}

func TestLoader_Invalidate(t *testing.T) {
	loader := newLoader(t)
	spec, err := loader.SpecFor(context.Background(), reflect.TypeOf(person{}))
	require.NoError(t, err)
	_, err = loader.SpecFor(context.Background(), reflect.TypeOf(order{}))
	require.NoError(t, err)

	loader.Invalidate(reflect.TypeOf(party{}))
	_, ok := loader.Lookup(reflect.TypeOf(person{}))
	assert.False(t, ok)
	_, ok = loader.Lookup(reflect.TypeOf(party{}))
	assert.False(t, ok)
	_, ok = loader.Lookup(reflect.TypeOf(order{}))
	assert.True(t, ok)

	rebuilt, err := loader.SpecFor(context.Background(), reflect.TypeOf(person{}))
	require.NoError(t, err)
	assert.NotSame(t, spec, rebuilt)

	loader.Reset()
	assert.Empty(t, loader.Specifications())
}

func TestLoader_Report(t *testing.T) {
	loader := newLoader(t)
	spec, err := loader.SpecFor(context.Background(), reflect.TypeOf(broken{}))
	require.NoError(t, err)
	require.NotEmpty(t, spec.Failures)
	assert.Equal(t, len(spec.Failures), loader.Report().Len())

	member, ok := spec.Member("code")
	require.True(t, ok)
	assert.False(t, member.Holder.Contains(facet.KindMaxLength))
	describedAs, ok := facet.Lookup[*facet.DescribedAs](member.Holder, facet.KindDescribedAs)
	require.True(t, ok)
	assert.Equal(t, "Product code", describedAs.Text)
}

func TestMember_Value(t *testing.T) {
	loader := newLoader(t)
	personSpec, err := loader.SpecFor(context.Background(), reflect.TypeOf(person{}))
	require.NoError(t, err)
	employeeSpec, err := loader.SpecFor(context.Background(), reflect.TypeOf(employee{}))
	require.NoError(t, err)

	aPerson := &person{party: party{Nickname: "bo"}, Name: "Ann"}
	var testCases = []struct {
		description string
		spec        *Specification
		member      string
		target      interface{}
		expect      interface{}
		hasError    bool
	}{
		{description: "promoted field", spec: personSpec, member: "nickname", target: aPerson, expect: "bo"},
		{description: "struct value target", spec: personSpec, member: "name", target: *aPerson, expect: "Ann"},
		{description: "method property", spec: personSpec, member: "fullName", target: aPerson, expect: "Ann (bo)"},
		{description: "nil embedded pointer", spec: employeeSpec, member: "nickname", target: &employee{}, expect: ""},
		{description: "embedded pointer", spec: employeeSpec, member: "nickname", target: &employee{party: &party{Nickname: "ed"}}, expect: "ed"},
		{description: "incompatible target", spec: personSpec, member: "name", target: &order{}, hasError: true},
	}
	for _, testCase := range testCases {
		member, ok := testCase.spec.Member(testCase.member)
		require.True(t, ok, testCase.description)
		actual, err := member.Value(testCase.target)
		if testCase.hasError {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestSpecification_Validate(t *testing.T) {
	loader := newLoader(t)
	spec, err := loader.SpecFor(context.Background(), reflect.TypeOf(person{}))
	require.NoError(t, err)
	evaluator := consent.New()

	verdict := spec.Validate(evaluator, interaction.NewContext(interaction.WithTarget(&person{party: party{Nickname: "toolong"}, Name: "Alexander The Great"})))
	assert.Equal(t, []string{"nickname: Length of 7 exceeds maximum of 5", "name: Length of 19 exceeds maximum of 10"}, verdict.Reasons())

	verdict = spec.Validate(evaluator, interaction.NewContext(interaction.WithTarget(&person{party: party{Nickname: "bo"}, Name: "Ann"})))
	assert.True(t, verdict.Allowed())
}

func TestMember_Value_mixin(t *testing.T) {
	loader := newLoader(t, WithMixin(reflect.TypeOf(invoice{}), reflect.TypeOf(invoiceTax{})))
	spec, err := loader.SpecFor(context.Background(), reflect.TypeOf(invoice{}))
	require.NoError(t, err)
	tax, ok := spec.Member("tax")
	require.True(t, ok)
	assert.Equal(t, facet.FeatureProperty, tax.Feature)
	named, ok := facet.Lookup[*facet.Named](tax.Holder, facet.KindNamed)
	require.True(t, ok)
	assert.Equal(t, "Tax", named.Name)

	actual, err := tax.Value(&invoice{Total: 50})
	require.NoError(t, err)
	assert.Equal(t, 5.0, actual)
}

func TestLoader_InheritedMethodProperty(t *testing.T) {
	loader := newLoader(t)
	vehicleSpec, err := loader.SpecFor(context.Background(), reflect.TypeOf(vehicle{}))
	require.NoError(t, err)
	truckSpec, err := loader.SpecFor(context.Background(), reflect.TypeOf(truck{}))
	require.NoError(t, err)

	for _, spec := range []*Specification{vehicleSpec, truckSpec} {
		display, ok := spec.Member("display")
		require.True(t, ok, spec.Name)
		assert.Equal(t, facet.FeatureProperty, display.Feature, spec.Name)
		maxLength, ok := facet.Lookup[*facet.MaxLength](display.Holder, facet.KindMaxLength)
		require.True(t, ok, spec.Name)
		assert.Equal(t, 4, maxLength.Limit, spec.Name)
		_, ok = spec.Member("vin")
		assert.False(t, ok, spec.Name)
	}
	display, _ := truckSpec.Member("display")
	_, hasLocal := display.Holder.Local(facet.KindMaxLength)
	assert.False(t, hasLocal)
}

func TestMember_Value_method(t *testing.T) {
	loader := newLoader(t)
	truckSpec, err := loader.SpecFor(context.Background(), reflect.TypeOf(truck{}))
	require.NoError(t, err)
	fleetSpec, err := loader.SpecFor(context.Background(), reflect.TypeOf(fleet{}))
	require.NoError(t, err)
	gaugeSpec, err := loader.SpecFor(context.Background(), reflect.TypeOf(gauge{}))
	require.NoError(t, err)

	var testCases = []struct {
		description string
		spec        *Specification
		member      string
		target      interface{}
		expect      interface{}
		hasError    bool
	}{
		{description: "inherited method", spec: truckSpec, member: "display", target: &truck{vehicle: vehicle{Plate: "AB12"}}, expect: "AB12"},
		{description: "method through embedded pointer", spec: fleetSpec, member: "display", target: &fleet{vehicle: &vehicle{Plate: "XY"}}, expect: "XY"},
		{description: "method through nil embedded pointer", spec: fleetSpec, member: "display", target: &fleet{}, expect: ""},
		{description: "panicking getter", spec: gaugeSpec, member: "reading", target: &gauge{}, hasError: true},
	}
	for _, testCase := range testCases {
		member, ok := testCase.spec.Member(testCase.member)
		require.True(t, ok, testCase.description)
		actual, err := member.Value(testCase.target)
		if testCase.hasError {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}

	var verdict *consent.Consent
	require.NotPanics(t, func() {
		verdict = fleetSpec.Validate(consent.New(), interaction.NewContext(interaction.WithTarget(&fleet{Size: 1})))
	})
	assert.Equal(t, []string{"plate: Mandatory", "display: Mandatory"}, verdict.Reasons())
	verdict = gaugeSpec.Validate(consent.New(), interaction.NewContext(interaction.WithTarget(&gauge{Level: 1})))
	assert.False(t, verdict.Allowed())
	assert.Contains(t, verdict.Reasons(), "reading: Internal error: failed to read gauge.Reading: sensor offline")
}

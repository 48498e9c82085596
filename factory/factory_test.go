package factory

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/metamodel/facet"
	"github.com/viant/metamodel/interaction"
	"github.com/viant/metamodel/introspect"
	"github.com/viant/xreflect"
	"reflect"
	"testing"
)

type product struct {
	Code string
}

type customer struct {
	_        struct{} `domainObject:"editing=disabled,plural=Clients"`
	Name     string   `property:"maxLength=abc,named=Full Name"`
	Email    string   `property:"mandatory,maxLength=64" meta:"Short"`
	Orders   []*product
	Wishlist []*product `collection:"typeOf=product"`
	Note     *string    `property:"editing=enabled"`
	Country  string     `validate:"required,maxLength(2)"`
	Locked   bool
}

func (c *customer) HideEmail(actor *interaction.Actor) bool {
	return !actor.HasRole("admin")
}

func (c *customer) DisableName() string {
	if c.Locked {
		return "Locked"
	}
	return ""
}

func (c *customer) ValidateName(name string) string {
	if name == "root" {
		return "Reserved"
	}
	return ""
}

func (c *customer) ChoicesCountry() []string {
	return []string{"US", "PL"}
}

func (c *customer) Title() string {
	return "Customer " + c.Name
}

func (c *customer) Validate() string {
	if c.Locked && c.Note == nil {
		return "Locked customer requires a note"
	}
	return ""
}

func (c *customer) Rename(name string) error {
	c.Name = name
	return nil
}

func (c *customer) ValidateRename(name string) string {
	if name == "" {
		return "Name required"
	}
	return ""
}

type fixture struct {
	aType  *introspect.Type
	ctx    *Context
	object *facet.Holder
}

func newFixture(t *testing.T) *fixture {
	aType, err := introspect.Introspect(reflect.TypeOf(customer{}))
	require.NoError(t, err)
	types := xreflect.NewTypes()
	require.NoError(t, types.Register("product", xreflect.WithReflectType(reflect.TypeOf(product{}))))
	object := facet.NewHolder(aType.Name, facet.FeatureObject, nil)
	ctx := NewContext(aType, object, types, map[string]string{"Short": "maxLength=10,describedAs=short"})
	return &fixture{aType: aType, ctx: ctx, object: object}
}

func (f *fixture) processType(t *testing.T, factory Factory) {
	typeFactory, ok := factory.(TypeFactory)
	require.True(t, ok, factory.Name())
	for _, candidate := range typeFactory.ProcessType(&TypeContext{Context: f.ctx, Holder: f.object}) {
		_, err := f.object.AddFacet(candidate)
		require.NoError(t, err)
	}
}

func (f *fixture) process(t *testing.T, factory Factory, id string) *facet.Holder {
	member := f.aType.Member(id)
	require.NotNil(t, member, id)
	holder := facet.NewHolder(id, member.Feature, nil)
	memberFactory, ok := factory.(MemberFactory)
	require.True(t, ok, factory.Name())
	for _, candidate := range memberFactory.Process(&MemberContext{Context: f.ctx, Member: member, Holder: holder}) {
		_, err := holder.AddFacet(candidate)
		require.NoError(t, err)
	}
	return holder
}

func TestParseAnnotation(t *testing.T) {
	var testCases = []struct {
		description string
		value       string
		issues      int
		verify      func(t *testing.T, annotation *Annotation)
	}{
		{
			description: "flag and pairs",
			value:       "mandatory,maxLength=10",
			verify: func(t *testing.T, annotation *Annotation) {
				require.NotNil(t, annotation.Mandatory)
				assert.True(t, *annotation.Mandatory)
				require.NotNil(t, annotation.MaxLength)
				assert.Equal(t, 10, *annotation.MaxLength)
			},
		},
		{
			description: "malformed value skips only that key",
			value:       "maxLength=abc,named=Foo",
			issues:      1,
			verify: func(t *testing.T, annotation *Annotation) {
				assert.Nil(t, annotation.MaxLength)
				assert.Equal(t, "Foo", annotation.Named)
			},
		},
		{
			description: "placement and roles",
			value:       "hidden=objectForms,roles=admin|clerk",
			verify: func(t *testing.T, annotation *Annotation) {
				require.NotNil(t, annotation.Hidden)
				assert.Equal(t, interaction.ObjectForms, *annotation.Hidden)
				assert.Equal(t, []string{"admin", "clerk"}, annotation.Roles)
			},
		},
		{
			description: "unknown key",
			value:       "colour=red",
			issues:      1,
		},
		{
			description: "semantics",
			value:       "semantics=idempotent",
			verify: func(t *testing.T, annotation *Annotation) {
				assert.Equal(t, facet.SemanticsIdempotent, annotation.Semantics)
			},
		},
	}
	for _, testCase := range testCases {
		annotation, issues := ParseAnnotation(testCase.value)
		assert.Len(t, issues, testCase.issues, testCase.description)
		if testCase.verify != nil {
			testCase.verify(t, annotation)
		}
	}
}

func TestAnnotations_Process(t *testing.T) {
	f := newFixture(t)
	holder := f.process(t, NewPropertyAnnotations(), "name")
	assert.False(t, holder.Contains(facet.KindMaxLength))
	named, ok := facet.Lookup[*facet.Named](holder, facet.KindNamed)
	require.True(t, ok)
	assert.Equal(t, "Full Name", named.Name)
	assert.Equal(t, facet.PrecedenceExplicit, named.Origin().Precedence)
	require.Equal(t, 1, f.ctx.Failures.Len())
	assert.Equal(t, "name", f.ctx.Failures.Items()[0].Member)
	assert.Equal(t, PropertyAnnotation, f.ctx.Failures.Items()[0].Factory)

	holder = f.process(t, NewCollectionAnnotations(), "wishlist")
	typeOf, ok := facet.Lookup[*facet.TypeOf](holder, facet.KindTypeOf)
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(product{}), typeOf.Type)
}

func TestMetaAnnotations_DirectWins(t *testing.T) {
	var testCases = []struct {
		description string
		order       []Factory
	}{
		{description: "meta after direct", order: []Factory{NewPropertyAnnotations(), NewMetaAnnotations()}},
		{description: "meta before direct", order: []Factory{NewMetaAnnotations(), NewPropertyAnnotations()}},
	}
	for _, testCase := range testCases {
		f := newFixture(t)
		member := f.aType.Member("email")
		holder := facet.NewHolder(member.ID, member.Feature, nil)
		for _, factory := range testCase.order {
			for _, candidate := range factory.(MemberFactory).Process(&MemberContext{Context: f.ctx, Member: member, Holder: holder}) {
				_, err := holder.AddFacet(candidate)
				require.NoError(t, err, testCase.description)
			}
		}
		maxLength, ok := facet.Lookup[*facet.MaxLength](holder, facet.KindMaxLength)
		require.True(t, ok, testCase.description)
		assert.Equal(t, 64, maxLength.Limit, testCase.description)
		describedAs, ok := facet.Lookup[*facet.DescribedAs](holder, facet.KindDescribedAs)
		require.True(t, ok, testCase.description)
		assert.Equal(t, "short", describedAs.Text, testCase.description)
		assert.Equal(t, facet.PrecedenceMeta, describedAs.Origin().Precedence, testCase.description)
	}
}

func TestDomainObjects_TypeDefaults(t *testing.T) {
	f := newFixture(t)
	f.processType(t, NewDomainObjects())
	editing, ok := facet.Lookup[*facet.Editing](f.object, facet.KindEditing)
	require.True(t, ok)
	assert.False(t, editing.Enabled)
	plural, ok := facet.Lookup[*facet.Plural](f.object, facet.KindPlural)
	require.True(t, ok)
	assert.Equal(t, "Clients", plural.Name)

	iCtx := interaction.NewContext()
	var testCases = []struct {
		description string
		id          string
		disabled    bool
	}{
		{description: "type level editing disabled", id: "country", disabled: true},
		{description: "member editing enabled stays enabled", id: "note", disabled: false},
	}
	for _, testCase := range testCases {
		member := f.aType.Member(testCase.id)
		holder := facet.NewHolder(member.ID, member.Feature, nil)
		for _, factory := range []Factory{NewPropertyAnnotations(), NewTypeDefaults()} {
			for _, candidate := range factory.(MemberFactory).Process(&MemberContext{Context: f.ctx, Member: member, Holder: holder}) {
				_, _ = holder.AddFacet(candidate)
			}
		}
		disabled, ok := facet.Lookup[*facet.Disabled](holder, facet.KindDisabled)
		require.True(t, ok, testCase.description)
		assert.Equal(t, testCase.disabled, disabled.Disables(iCtx) != "", testCase.description)
	}
}

func TestSupportingMethods(t *testing.T) {
	f := newFixture(t)
	factory := NewSupportingMethods()
	target := &customer{Name: "Bob", Locked: true}

	email := f.process(t, factory, "email")
	hiddenWhen, ok := facet.Lookup[*facet.HiddenWhen](email, facet.KindHiddenWhen)
	require.True(t, ok)
	assert.Equal(t, "Hidden", hiddenWhen.Hides(interaction.NewContext(interaction.WithTarget(target), interaction.WithActor(&interaction.Actor{Name: "joe"}))))
	assert.Equal(t, "", hiddenWhen.Hides(interaction.NewContext(interaction.WithTarget(target), interaction.WithActor(&interaction.Actor{Name: "ann", Roles: []string{"admin"}}))))

	name := f.process(t, factory, "name")
	disabledWhen, ok := facet.Lookup[*facet.DisabledWhen](name, facet.KindDisabledWhen)
	require.True(t, ok)
	assert.Equal(t, "Locked", disabledWhen.Disables(interaction.NewContext(interaction.WithTarget(target))))
	assert.True(t, facet.IsDynamic(disabledWhen))
	validateWhen, ok := facet.Lookup[*facet.ValidateWhen](name, facet.KindValidateWhen)
	require.True(t, ok)
	assert.Equal(t, "Reserved", validateWhen.Invalidates(interaction.NewContext(interaction.WithTarget(*target), interaction.WithValue("root"))))
	assert.Equal(t, "", validateWhen.Invalidates(interaction.NewContext(interaction.WithTarget(target), interaction.WithValue("bob"))))
	assert.Contains(t, validateWhen.Invalidates(interaction.NewContext(interaction.WithTarget(1), interaction.WithValue("bob"))), "Internal error")

	country := f.process(t, factory, "country")
	choices, ok := facet.Lookup[*facet.Choices](country, facet.KindChoices)
	require.True(t, ok)
	values, err := choices.Choices(interaction.NewContext(interaction.WithTarget(target)))
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"US", "PL"}, values)

	rename := f.process(t, factory, "rename")
	validateRename, ok := facet.Lookup[*facet.ValidateWhen](rename, facet.KindValidateWhen)
	require.True(t, ok)
	assert.Equal(t, "Name required", validateRename.Invalidates(interaction.NewContext(interaction.WithTarget(target), interaction.WithArguments(""))))
	assert.Equal(t, 0, f.ctx.Failures.Len())
}

func TestObjectFactories(t *testing.T) {
	f := newFixture(t)
	f.processType(t, NewTitles())
	title, ok := facet.Lookup[*facet.Title](f.object, facet.KindTitle)
	require.True(t, ok)
	text, err := title.Title(&customer{Name: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, "Customer Bob", text)

	aType, err := introspect.Introspect(reflect.TypeOf(product{}))
	require.NoError(t, err)
	ctx := NewContext(aType, facet.NewHolder(aType.Name, facet.FeatureObject, nil), nil, nil)
	assert.Empty(t, NewObjectValidations().(TypeFactory).ProcessType(&TypeContext{Context: ctx, Holder: ctx.Object}))
}

func TestInference(t *testing.T) {
	f := newFixture(t)

	orders := f.process(t, NewTypeOfInferrer(), "orders")
	typeOf, ok := facet.Lookup[*facet.TypeOf](orders, facet.KindTypeOf)
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(product{}), typeOf.Type)
	assert.True(t, facet.IsDerived(typeOf))
	assert.Equal(t, facet.SourceGenerics, typeOf.Origin().Source)

	var mandatoryCases = []struct {
		id       string
		required bool
	}{
		{id: "name", required: true},
		{id: "note", required: false},
	}
	for _, testCase := range mandatoryCases {
		holder := f.process(t, NewMandatoryInferrer(), testCase.id)
		mandatory, ok := facet.Lookup[*facet.Mandatory](holder, facet.KindMandatory)
		require.True(t, ok, testCase.id)
		assert.Equal(t, testCase.required, mandatory.Required, testCase.id)
	}

	country := f.process(t, NewValidateTagInferrer(), "country")
	maxLength, ok := facet.Lookup[*facet.MaxLength](country, facet.KindMaxLength)
	require.True(t, ok)
	assert.Equal(t, 2, maxLength.Limit)
	assert.True(t, country.Contains(facet.KindMandatory))

	locked := f.process(t, NewParseableInferrer(), "locked")
	parseable, ok := facet.Lookup[*facet.Parseable](locked, facet.KindParseable)
	require.True(t, ok)
	value, err := parseable.Parse("true")
	require.NoError(t, err)
	assert.Equal(t, true, value)

	rename := f.process(t, NewSemanticsInferrer(), "rename")
	semantics, ok := facet.Lookup[*facet.ActionSemantics](rename, facet.KindSemantics)
	require.True(t, ok)
	assert.Equal(t, facet.SemanticsNonIdempotent, semantics.Semantics)

	f.processType(t, NewNameInferrer())
	f.processType(t, NewPluralInferrer())
	plural, ok := facet.Lookup[*facet.Plural](f.object, facet.KindPlural)
	require.True(t, ok)
	assert.Equal(t, "Customers", plural.Name)
}

func TestPluralize(t *testing.T) {
	var testCases = []struct {
		name   string
		expect string
	}{
		{name: "Order", expect: "Orders"},
		{name: "Category", expect: "Categories"},
		{name: "Day", expect: "Days"},
		{name: "Box", expect: "Boxes"},
		{name: "Address", expect: "Addresses"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, Pluralize(testCase.name), testCase.name)
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	for _, name := range DefaultOrder {
		factory, err := registry.Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, factory.Name())
		assert.NotEmpty(t, factory.Features(), name)
	}
	_, err := registry.Lookup("unknown")
	assert.Error(t, err)
	assert.Len(t, registry.Names(), len(DefaultOrder))
}

package factory

import (
	"github.com/viant/metamodel/diag"
	"github.com/viant/metamodel/facet"
	"github.com/viant/metamodel/introspect"
	"github.com/viant/xreflect"
	"reflect"
)

type (
	// Factory contributes facets for declared features and kinds
	Factory interface {
		Name() string
		Features() []facet.Feature
		Kinds() []facet.Kind
	}

	// MemberFactory processes properties, collections, actions and action parameters
	MemberFactory interface {
		Factory
		Process(ctx *MemberContext) []facet.Facet
	}

	// TypeFactory processes domain type as a whole
	TypeFactory interface {
		Factory
		ProcessType(ctx *TypeContext) []facet.Facet
	}

	// Context represents shared build state of one domain type
	Context struct {
		Type     *introspect.Type
		Object   facet.Reader
		Types    *xreflect.Types
		Meta     map[string]string
		Failures *diag.Failures
	}

	// TypeContext represents type level processing context
	TypeContext struct {
		*Context
		Holder facet.Reader
	}

	// MemberContext represents member or action parameter processing context
	MemberContext struct {
		*Context
		Member *introspect.Member
		Param  *introspect.Param
		Holder facet.Reader
	}

	base struct {
		name     string
		features []facet.Feature
		kinds    []facet.Kind
	}
)

func (b *base) Name() string {
	return b.name
}

func (b *base) Features() []facet.Feature {
	return b.features
}

func (b *base) Kinds() []facet.Kind {
	return b.kinds
}

// Failf registers recoverable validation failure
func (c *Context) Failf(factory, member, format string, args ...interface{}) {
	if c.Failures == nil {
		return
	}
	c.Failures.Addf(c.TypeName(), member, factory, format, args...)
}

// TypeName returns processed type name
func (c *Context) TypeName() string {
	if c.Type == nil {
		return ""
	}
	return c.Type.Name
}

// LookupType resolves type name with registered domain types
func (c *Context) LookupType(name string) (reflect.Type, error) {
	if c.Types == nil {
		c.Types = xreflect.NewTypes()
	}
	return c.Types.Lookup(name)
}

// ID returns processed holder id
func (m *MemberContext) ID() string {
	if m.Param != nil {
		return m.Param.ID
	}
	if m.Member != nil {
		return m.Member.ID
	}
	return ""
}

// Tag returns processed member or parameter tag
func (m *MemberContext) Tag() reflect.StructTag {
	if m.Param != nil {
		return m.Param.Tag
	}
	return m.Member.Tag
}

// Feature returns processed holder feature
func (m *MemberContext) Feature() facet.Feature {
	if m.Param != nil {
		return facet.FeatureActionParameter
	}
	return m.Member.Feature
}

// ValueType returns member value type or parameter type
func (m *MemberContext) ValueType() reflect.Type {
	if m.Param != nil {
		return m.Param.Type
	}
	return m.Member.ValueType()
}

// NewContext creates a shared build context
func NewContext(aType *introspect.Type, object facet.Reader, types *xreflect.Types, meta map[string]string) *Context {
	return &Context{Type: aType, Object: object, Types: types, Meta: meta, Failures: &diag.Failures{}}
}

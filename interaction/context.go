package interaction

import (
	"github.com/google/uuid"
)

type (
	// Mode represents deployment mode an interaction happens in
	Mode string

	// Actor represents pre-resolved identity of the user interacting with an object
	Actor struct {
		Name       string
		Roles      []string
		Attributes map[string]interface{}
	}

	// Context represents an interaction request, every piece of information a facet
	// may need has to be resolved before evaluation starts
	Context struct {
		ID        string
		Target    interface{}
		Actor     *Actor
		Where     Where
		Mode      Mode
		Arguments []interface{}
		value     interface{}
		hasValue  bool
	}

	Option func(c *Context)
)

const (
	ModeProduction  Mode = "production"
	ModePrototyping Mode = "prototyping"
)

// HasRole returns true if actor was granted a role
func (a *Actor) HasRole(role string) bool {
	if a == nil {
		return false
	}
	for _, candidate := range a.Roles {
		if candidate == role {
			return true
		}
	}
	return false
}

// Value returns proposed value
func (c *Context) Value() (interface{}, bool) {
	return c.value, c.hasValue
}

// Attribute returns actor attribute
func (c *Context) Attribute(name string) (interface{}, bool) {
	if c.Actor == nil || c.Actor.Attributes == nil {
		return nil, false
	}
	ret, ok := c.Actor.Attributes[name]
	return ret, ok
}

// Clone returns context copy with options applied
func (c *Context) Clone(opts ...Option) *Context {
	ret := *c
	ret.apply(opts)
	return &ret
}

func (c *Context) apply(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// NewContext creates an interaction context
func NewContext(opts ...Option) *Context {
	ret := &Context{ID: uuid.New().String(), Where: Anywhere, Mode: ModeProduction}
	ret.apply(opts)
	return ret
}

// WithTarget sets target object
func WithTarget(target interface{}) Option {
	return func(c *Context) {
		c.Target = target
	}
}

// WithActor sets actor
func WithActor(actor *Actor) Option {
	return func(c *Context) {
		c.Actor = actor
	}
}

// WithWhere sets placement
func WithWhere(where Where) Option {
	return func(c *Context) {
		c.Where = where
	}
}

// WithMode sets deployment mode
func WithMode(mode Mode) Option {
	return func(c *Context) {
		c.Mode = mode
	}
}

// WithValue sets proposed value
func WithValue(value interface{}) Option {
	return func(c *Context) {
		c.value = value
		c.hasValue = true
	}
}

// WithArguments sets proposed action arguments
func WithArguments(args ...interface{}) Option {
	return func(c *Context) {
		c.Arguments = args
	}
}

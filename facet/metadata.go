package facet

import (
	"fmt"
	"github.com/viant/metamodel/interaction"
	"reflect"
	"strings"
)

// Semantics represents action invocation semantics
type Semantics string

const (
	SemanticsSafe          Semantics = "safe"
	SemanticsIdempotent    Semantics = "idempotent"
	SemanticsNonIdempotent Semantics = "nonIdempotent"
)

// ParseSemantics parses semantics name
func ParseSemantics(text string) (Semantics, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "safe":
		return SemanticsSafe, nil
	case "idempotent":
		return SemanticsIdempotent, nil
	case "nonidempotent", "non_idempotent":
		return SemanticsNonIdempotent, nil
	}
	return "", fmt.Errorf("unsupported semantics: '%s'", text)
}

type (
	// TypeOf element type of collection or action result
	TypeOf struct {
		base
		Type reflect.Type
	}

	// DomainEvent event type published on member interaction
	DomainEvent struct {
		base
		Type reflect.Type
	}

	// Parseable text to value parser
	Parseable struct {
		base
		Type  reflect.Type
		Parse func(text string) (interface{}, error)
	}

	// Named friendly name
	Named struct {
		base
		Name string
	}

	// DescribedAs description
	DescribedAs struct {
		base
		Text string
	}

	// Plural object plural name
	Plural struct {
		base
		Name string
	}

	// ActionSemantics action invocation semantics
	ActionSemantics struct {
		base
		Semantics Semantics
	}

	// Editing object level editing policy
	Editing struct {
		base
		Enabled bool
		Reason  string
	}

	// Title object title provider
	Title struct {
		base
		Method string
		Title  func(target interface{}) (string, error)
	}

	// Choices member choices provider
	Choices struct {
		base
		Method  string
		Choices func(ctx *interaction.Context) ([]interface{}, error)
	}

	// Default member default value provider
	Default struct {
		base
		Method  string
		Default func(ctx *interaction.Context) (interface{}, error)
	}
)

func NewTypeOf(rType reflect.Type, origin Origin) *TypeOf {
	return &TypeOf{base: base{origin: origin}, Type: rType}
}

func (f *TypeOf) Kind() Kind { return KindTypeOf }

func NewDomainEvent(rType reflect.Type, origin Origin) *DomainEvent {
	return &DomainEvent{base: base{origin: origin}, Type: rType}
}

func (f *DomainEvent) Kind() Kind { return KindDomainEvent }

func NewParseable(rType reflect.Type, parse func(text string) (interface{}, error), origin Origin) *Parseable {
	return &Parseable{base: base{origin: origin}, Type: rType, Parse: parse}
}

func (f *Parseable) Kind() Kind { return KindParseable }

func NewNamed(name string, origin Origin) *Named {
	return &Named{base: base{origin: origin}, Name: name}
}

func (f *Named) Kind() Kind { return KindNamed }

func NewDescribedAs(text string, origin Origin) *DescribedAs {
	return &DescribedAs{base: base{origin: origin}, Text: text}
}

func (f *DescribedAs) Kind() Kind { return KindDescribedAs }

func NewPlural(name string, origin Origin) *Plural {
	return &Plural{base: base{origin: origin}, Name: name}
}

func (f *Plural) Kind() Kind { return KindPlural }

func NewActionSemantics(semantics Semantics, origin Origin) *ActionSemantics {
	return &ActionSemantics{base: base{origin: origin}, Semantics: semantics}
}

func (f *ActionSemantics) Kind() Kind { return KindSemantics }

func NewEditing(enabled bool, reason string, origin Origin) *Editing {
	return &Editing{base: base{origin: origin}, Enabled: enabled, Reason: reason}
}

func (f *Editing) Kind() Kind { return KindEditing }

func NewTitle(method string, title func(target interface{}) (string, error), origin Origin) *Title {
	return &Title{base: base{origin: origin}, Method: method, Title: title}
}

func (f *Title) Kind() Kind { return KindTitle }

func NewChoices(method string, choices func(ctx *interaction.Context) ([]interface{}, error), origin Origin) *Choices {
	return &Choices{base: base{origin: origin}, Method: method, Choices: choices}
}

func (f *Choices) Kind() Kind { return KindChoices }

func NewDefault(method string, fn func(ctx *interaction.Context) (interface{}, error), origin Origin) *Default {
	return &Default{base: base{origin: origin}, Method: method, Default: fn}
}

func (f *Default) Kind() Kind { return KindDefault }

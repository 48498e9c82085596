package facet

import (
	"fmt"
	"github.com/viant/metamodel/interaction"
	"regexp"
	"strings"
	"unicode/utf8"
)

type (
	// MaxLength limits text value length
	MaxLength struct {
		base
		Limit int
	}

	// Mandatory flags value as required, Required=false is an explicit optional marker
	Mandatory struct {
		base
		Required bool
	}

	// Regex constrains text value with a pattern
	Regex struct {
		base
		Pattern *regexp.Regexp
		Message string
	}

	// ValidateWhen validates proposed value or arguments with a supporting method
	ValidateWhen struct {
		base
		Method string
		Check  func(ctx *interaction.Context) (string, error)
	}

	// ObjectValidation validates the whole target object
	ObjectValidation struct {
		base
		Check func(ctx *interaction.Context) ([]string, error)
	}
)

func NewMaxLength(limit int, origin Origin) *MaxLength {
	return &MaxLength{base: base{origin: origin}, Limit: limit}
}

func (f *MaxLength) Kind() Kind { return KindMaxLength }

func (f *MaxLength) Invalidates(ctx *interaction.Context) string {
	value, ok := ctx.Value()
	if !ok {
		return ""
	}
	text, ok := asText(value)
	if !ok {
		return ""
	}
	if length := utf8.RuneCountInString(text); length > f.Limit {
		return fmt.Sprintf("Length of %v exceeds maximum of %v", length, f.Limit)
	}
	return ""
}

func NewMandatory(required bool, origin Origin) *Mandatory {
	return &Mandatory{base: base{origin: origin}, Required: required}
}

func (f *Mandatory) Kind() Kind { return KindMandatory }

func (f *Mandatory) Invalidates(ctx *interaction.Context) string {
	if !f.Required {
		return ""
	}
	value, ok := ctx.Value()
	if !ok {
		return ""
	}
	if isEmpty(value) {
		return "Mandatory"
	}
	return ""
}

func NewRegex(pattern *regexp.Regexp, message string, origin Origin) *Regex {
	return &Regex{base: base{origin: origin}, Pattern: pattern, Message: message}
}

func (f *Regex) Kind() Kind { return KindRegex }

func (f *Regex) Invalidates(ctx *interaction.Context) string {
	value, ok := ctx.Value()
	if !ok {
		return ""
	}
	text, ok := asText(value)
	if !ok || text == "" {
		return ""
	}
	if f.Pattern.MatchString(text) {
		return ""
	}
	if f.Message != "" {
		return f.Message
	}
	return fmt.Sprintf("Doesn't match pattern %v", f.Pattern.String())
}

func NewValidateWhen(method string, check func(ctx *interaction.Context) (string, error), origin Origin) *ValidateWhen {
	return &ValidateWhen{base: base{origin: origin}, Method: method, Check: check}
}

func (f *ValidateWhen) Kind() Kind { return KindValidateWhen }

func (f *ValidateWhen) Dynamic() bool { return true }

func (f *ValidateWhen) Invalidates(ctx *interaction.Context) string {
	reason, err := f.Check(ctx)
	if err != nil {
		return internalError(err)
	}
	return reason
}

func NewObjectValidation(check func(ctx *interaction.Context) ([]string, error), origin Origin) *ObjectValidation {
	return &ObjectValidation{base: base{origin: origin}, Check: check}
}

func (f *ObjectValidation) Kind() Kind { return KindObjectValidation }

func (f *ObjectValidation) Dynamic() bool { return true }

func (f *ObjectValidation) Invalidates(ctx *interaction.Context) string {
	reasons, err := f.Check(ctx)
	if err != nil {
		return internalError(err)
	}
	return strings.Join(reasons, "; ")
}

func internalError(err error) string {
	return fmt.Sprintf("Internal error: %v", err)
}

package facet

import (
	"github.com/viant/metamodel/interaction"
)

type (
	// Disabled disables a holder in the given placement, Where=Nowhere explicitly enables it
	Disabled struct {
		base
		Where  interaction.Where
		Reason string
	}

	// DisabledWhen disables a holder when a supporting method returns a reason
	DisabledWhen struct {
		base
		Method string
		Check  func(ctx *interaction.Context) (string, error)
	}
)

func NewDisabled(where interaction.Where, reason string, origin Origin) *Disabled {
	return &Disabled{base: base{origin: origin}, Where: where, Reason: reason}
}

func (f *Disabled) Kind() Kind { return KindDisabled }

func (f *Disabled) Disables(ctx *interaction.Context) string {
	if !f.Where.Covers(ctx.Where) {
		return ""
	}
	if f.Reason != "" {
		return f.Reason
	}
	return "Disabled"
}

func NewDisabledWhen(method string, check func(ctx *interaction.Context) (string, error), origin Origin) *DisabledWhen {
	return &DisabledWhen{base: base{origin: origin}, Method: method, Check: check}
}

func (f *DisabledWhen) Kind() Kind { return KindDisabledWhen }

func (f *DisabledWhen) Dynamic() bool { return true }

func (f *DisabledWhen) Disables(ctx *interaction.Context) string {
	reason, err := f.Check(ctx)
	if err != nil {
		return internalError(err)
	}
	return reason
}

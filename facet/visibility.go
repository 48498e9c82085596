package facet

import (
	"fmt"
	"github.com/viant/metamodel/interaction"
	"strings"
)

type (
	// Hidden hides a holder in the given placement
	Hidden struct {
		base
		Where interaction.Where
	}

	// HiddenWhen hides a holder when a supporting method says so
	HiddenWhen struct {
		base
		Method string
		Check  func(ctx *interaction.Context) (bool, error)
	}

	// Roles restricts visibility to actors with any of the roles
	Roles struct {
		base
		Roles []string
	}

	// Prototyping restricts visibility to prototyping mode
	Prototyping struct {
		base
	}
)

func NewHidden(where interaction.Where, origin Origin) *Hidden {
	return &Hidden{base: base{origin: origin}, Where: where}
}

func (f *Hidden) Kind() Kind { return KindHidden }

func (f *Hidden) Hides(ctx *interaction.Context) string {
	if !f.Where.Covers(ctx.Where) {
		return ""
	}
	if f.Where == interaction.Anywhere || f.Where == interaction.Everywhere {
		return "Always hidden"
	}
	return fmt.Sprintf("Hidden in %v", f.Where)
}

func NewHiddenWhen(method string, check func(ctx *interaction.Context) (bool, error), origin Origin) *HiddenWhen {
	return &HiddenWhen{base: base{origin: origin}, Method: method, Check: check}
}

func (f *HiddenWhen) Kind() Kind { return KindHiddenWhen }

func (f *HiddenWhen) Dynamic() bool { return true }

func (f *HiddenWhen) Hides(ctx *interaction.Context) string {
	hidden, err := f.Check(ctx)
	if err != nil {
		return internalError(err)
	}
	if hidden {
		return "Hidden"
	}
	return ""
}

func NewRoles(roles []string, origin Origin) *Roles {
	return &Roles{base: base{origin: origin}, Roles: roles}
}

func (f *Roles) Kind() Kind { return KindRoles }

func (f *Roles) Hides(ctx *interaction.Context) string {
	for _, role := range f.Roles {
		if ctx.Actor.HasRole(role) {
			return ""
		}
	}
	return fmt.Sprintf("Not authorized, requires one of: %v", strings.Join(f.Roles, ", "))
}

func NewPrototyping(origin Origin) *Prototyping {
	return &Prototyping{base: base{origin: origin}}
}

func (f *Prototyping) Kind() Kind { return KindPrototyping }

func (f *Prototyping) Hides(ctx *interaction.Context) string {
	if ctx.Mode == interaction.ModePrototyping {
		return ""
	}
	return "Available in prototyping mode only"
}

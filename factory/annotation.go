package factory

import (
	"fmt"
	"github.com/viant/metamodel/facet"
	"github.com/viant/metamodel/interaction"
	"github.com/viant/tagly/tags"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Annotation represents parsed annotation vocabulary shared by member, type and meta annotations
type Annotation struct {
	MaxLength       *int
	Mandatory       *bool
	Regex           *regexp.Regexp
	RegexMessage    string
	Hidden          *interaction.Where
	Editing         *bool
	EditingReason   string
	Disabled        *interaction.Where
	Named           string
	DescribedAs     string
	Plural          string
	TypeOf          string
	DomainEvent     string
	Roles           []string
	Prototyping     bool
	Semantics       facet.Semantics
	PropertyEvent   string
	CollectionEvent string
	ActionEvent     string
}

// KeyError represents malformed annotation key or value
type KeyError struct {
	Key    string
	Value  string
	Reason string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("invalid annotation %v='%v': %v", e.Key, e.Value, e.Reason)
}

// ParseAnnotation parses comma separated key=value pairs, malformed pairs are reported
// and skipped, remaining pairs are still applied
func ParseAnnotation(value string) (*Annotation, []*KeyError) {
	ret := &Annotation{}
	var issues []*KeyError
	values := tags.Values(value)
	if first := strings.SplitN(value, ",", 2)[0]; !strings.Contains(first, "=") {
		var name string
		name, values = values.Name()
		if err := ret.update(name, ""); err != nil {
			issues = append(issues, err)
		}
	}
	_ = values.MatchPairs(func(key, value string) error {
		if err := ret.update(key, value); err != nil {
			issues = append(issues, err)
		}
		return nil
	})
	return ret, issues
}

func (a *Annotation) update(key, value string) *KeyError {
	key = strings.TrimSpace(key)
	value = strings.Trim(strings.TrimSpace(value), "'")
	switch strings.ToLower(key) {
	case "":
		return nil
	case "maxlength":
		limit, err := strconv.Atoi(value)
		if err != nil || limit < 0 {
			return &KeyError{Key: key, Value: value, Reason: "expected non negative integer"}
		}
		a.MaxLength = &limit
	case "mandatory", "optional":
		required, err := flag(value)
		if err != nil {
			return &KeyError{Key: key, Value: value, Reason: err.Error()}
		}
		if strings.EqualFold(key, "optional") {
			required = !required
		}
		a.Mandatory = &required
	case "regex":
		expr, err := regexp.Compile(value)
		if err != nil {
			return &KeyError{Key: key, Value: value, Reason: err.Error()}
		}
		a.Regex = expr
	case "regexmessage":
		a.RegexMessage = value
	case "hidden":
		where := interaction.Anywhere
		if value != "" {
			var err error
			if where, err = interaction.ParseWhere(value); err != nil {
				return &KeyError{Key: key, Value: value, Reason: err.Error()}
			}
		}
		a.Hidden = &where
	case "disabled":
		where := interaction.Anywhere
		if value != "" {
			var err error
			if where, err = interaction.ParseWhere(value); err != nil {
				return &KeyError{Key: key, Value: value, Reason: err.Error()}
			}
		}
		a.Disabled = &where
	case "editing":
		var enabled bool
		switch strings.ToLower(value) {
		case "enabled", "true":
			enabled = true
		case "disabled", "false":
		default:
			return &KeyError{Key: key, Value: value, Reason: "expected enabled or disabled"}
		}
		a.Editing = &enabled
	case "editingreason", "disabledreason":
		a.EditingReason = value
	case "named":
		if value == "" {
			return &KeyError{Key: key, Value: value, Reason: "name was empty"}
		}
		a.Named = value
	case "describedas":
		a.DescribedAs = value
	case "plural":
		if value == "" {
			return &KeyError{Key: key, Value: value, Reason: "plural was empty"}
		}
		a.Plural = value
	case "typeof":
		a.TypeOf = value
	case "domainevent":
		a.DomainEvent = value
	case "propertydomainevent":
		a.PropertyEvent = value
	case "collectiondomainevent":
		a.CollectionEvent = value
	case "actiondomainevent":
		a.ActionEvent = value
	case "roles":
		for _, role := range strings.Split(value, "|") {
			if role = strings.TrimSpace(role); role != "" {
				a.Roles = append(a.Roles, role)
			}
		}
		if len(a.Roles) == 0 {
			return &KeyError{Key: key, Value: value, Reason: "roles were empty"}
		}
	case "restrictto":
		if !strings.EqualFold(value, "prototyping") && !strings.EqualFold(value, "noRestriction") {
			return &KeyError{Key: key, Value: value, Reason: "expected prototyping or noRestriction"}
		}
		a.Prototyping = strings.EqualFold(value, "prototyping")
	case "semantics":
		semantics, err := facet.ParseSemantics(value)
		if err != nil {
			return &KeyError{Key: key, Value: value, Reason: err.Error()}
		}
		a.Semantics = semantics
	default:
		return &KeyError{Key: key, Value: value, Reason: "unsupported annotation key"}
	}
	return nil
}

func flag(value string) (bool, error) {
	if value == "" {
		return true, nil
	}
	return strconv.ParseBool(value)
}

// Facets converts annotation into member facets
func (a *Annotation) Facets(ctx *MemberContext, factory string, origin facet.Origin) []facet.Facet {
	var ret []facet.Facet
	if a.MaxLength != nil {
		ret = append(ret, facet.NewMaxLength(*a.MaxLength, origin))
	}
	if a.Mandatory != nil {
		ret = append(ret, facet.NewMandatory(*a.Mandatory, origin))
	}
	if a.Regex != nil {
		ret = append(ret, facet.NewRegex(a.Regex, a.RegexMessage, origin))
	}
	if a.Hidden != nil {
		ret = append(ret, facet.NewHidden(*a.Hidden, origin))
	}
	switch {
	case a.Disabled != nil:
		ret = append(ret, facet.NewDisabled(*a.Disabled, a.EditingReason, origin))
	case a.Editing != nil && *a.Editing:
		ret = append(ret, facet.NewDisabled(interaction.Nowhere, "", origin))
	case a.Editing != nil:
		ret = append(ret, facet.NewDisabled(interaction.Anywhere, a.EditingReason, origin))
	}
	if a.Named != "" {
		ret = append(ret, facet.NewNamed(a.Named, origin))
	}
	if a.DescribedAs != "" {
		ret = append(ret, facet.NewDescribedAs(a.DescribedAs, origin))
	}
	if len(a.Roles) > 0 {
		ret = append(ret, facet.NewRoles(a.Roles, origin))
	}
	if a.Prototyping {
		ret = append(ret, facet.NewPrototyping(origin))
	}
	if a.Semantics != "" {
		if ctx.Feature() == facet.FeatureAction {
			ret = append(ret, facet.NewActionSemantics(a.Semantics, origin))
		} else {
			ctx.Failf(factory, ctx.ID(), "semantics is only supported on actions")
		}
	}
	if a.TypeOf != "" {
		if rType := resolveType(ctx.Context, factory, ctx.ID(), "typeOf", a.TypeOf); rType != nil {
			ret = append(ret, facet.NewTypeOf(rType, origin))
		}
	}
	if a.DomainEvent != "" {
		if rType := resolveType(ctx.Context, factory, ctx.ID(), "domainEvent", a.DomainEvent); rType != nil {
			ret = append(ret, facet.NewDomainEvent(rType, origin))
		}
	}
	return ret
}

func resolveType(ctx *Context, factory, member, key, name string) reflect.Type {
	rType, err := ctx.LookupType(name)
	if err != nil || rType == nil {
		ctx.Failf(factory, member, "unknown %v type %v", key, name)
		return nil
	}
	return rType
}

func report(ctx *Context, factory, member string, issues []*KeyError) {
	for _, issue := range issues {
		ctx.Failf(factory, member, "%v", issue.Error())
	}
}

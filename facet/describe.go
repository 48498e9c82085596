package facet

import (
	"fmt"
	"strings"
)

// Describe returns short human readable facet value
func Describe(f Facet) string {
	switch actual := f.(type) {
	case *MaxLength:
		return fmt.Sprintf("%d", actual.Limit)
	case *Mandatory:
		if actual.Required {
			return "required"
		}
		return "optional"
	case *Regex:
		return actual.Pattern.String()
	case *Hidden:
		return string(actual.Where)
	case *HiddenWhen:
		return actual.Method + "()"
	case *Roles:
		return strings.Join(actual.Roles, "|")
	case *Prototyping:
		return "prototyping only"
	case *Disabled:
		if actual.Reason != "" {
			return fmt.Sprintf("%v: %v", actual.Where, actual.Reason)
		}
		return string(actual.Where)
	case *DisabledWhen:
		return actual.Method + "()"
	case *ValidateWhen:
		return actual.Method + "()"
	case *ObjectValidation:
		return "object"
	case *TypeOf:
		return actual.Type.String()
	case *DomainEvent:
		return actual.Type.String()
	case *Parseable:
		return actual.Type.String()
	case *Named:
		return actual.Name
	case *DescribedAs:
		return actual.Text
	case *Plural:
		return actual.Name
	case *ActionSemantics:
		return string(actual.Semantics)
	case *Editing:
		if actual.Enabled {
			return "enabled"
		}
		return "disabled"
	case *Title:
		return actual.Method + "()"
	case *Choices:
		return actual.Method + "()"
	case *Default:
		return actual.Method + "()"
	case nil:
		return ""
	}
	return fmt.Sprintf("%T", f)
}

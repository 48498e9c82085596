package facet

import (
	"github.com/viant/metamodel/interaction"
	"reflect"
)

type (
	// Facet represents immutable trait value attached to one holder
	Facet interface {
		Kind() Kind
		Origin() Origin
	}

	// Hider facets can veto visibility, empty reason means no veto
	Hider interface {
		Facet
		Hides(ctx *interaction.Context) string
	}

	// Disabler facets can veto usability, empty reason means no veto
	Disabler interface {
		Facet
		Disables(ctx *interaction.Context) string
	}

	// Validator facets can veto validity, empty reason means no veto
	Validator interface {
		Facet
		Invalidates(ctx *interaction.Context) string
	}

	// Dynamic marks facets computing their verdict from the target state
	Dynamic interface {
		Dynamic() bool
	}

	base struct {
		origin Origin
	}
)

// Origin returns facet origin
func (b base) Origin() Origin {
	return b.origin
}

// IsDynamic returns true if facet computes its verdict
func IsDynamic(f Facet) bool {
	if dynamic, ok := f.(Dynamic); ok {
		return dynamic.Dynamic()
	}
	return false
}

// IsDerived returns true for inferred facets
func IsDerived(f Facet) bool {
	return f.Origin().Derived
}

func isNil(f Facet) bool {
	if f == nil {
		return true
	}
	value := reflect.ValueOf(f)
	switch value.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return value.IsNil()
	}
	return false
}

func isEmpty(value interface{}) bool {
	if value == nil {
		return true
	}
	switch actual := value.(type) {
	case string:
		return actual == ""
	case *string:
		return actual == nil || *actual == ""
	}
	rValue := reflect.ValueOf(value)
	switch rValue.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rValue.IsNil()
	}
	return false
}

func asText(value interface{}) (string, bool) {
	switch actual := value.(type) {
	case string:
		return actual, true
	case *string:
		if actual == nil {
			return "", false
		}
		return *actual, true
	case []byte:
		return string(actual), true
	}
	return "", false
}

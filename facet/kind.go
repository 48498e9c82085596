package facet

import "fmt"

// Kind represents trait kind, a holder has at most one winning facet per kind
type Kind string

const (
	KindMaxLength        Kind = "maxLength"
	KindMandatory        Kind = "mandatory"
	KindRegex            Kind = "regex"
	KindHidden           Kind = "hidden"
	KindRoles            Kind = "roles"
	KindPrototyping      Kind = "prototyping"
	KindHiddenWhen       Kind = "hiddenWhen"
	KindDisabled         Kind = "disabled"
	KindDisabledWhen     Kind = "disabledWhen"
	KindValidateWhen     Kind = "validateWhen"
	KindObjectValidation Kind = "objectValidation"
	KindTypeOf           Kind = "typeOf"
	KindDomainEvent      Kind = "domainEvent"
	KindParseable        Kind = "parseable"
	KindNamed            Kind = "named"
	KindDescribedAs      Kind = "describedAs"
	KindPlural           Kind = "plural"
	KindSemantics        Kind = "semantics"
	KindEditing          Kind = "editing"
	KindTitle            Kind = "title"
	KindChoices          Kind = "choices"
	KindDefault          Kind = "default"
)

var kinds = []Kind{
	KindHidden,
	KindRoles,
	KindPrototyping,
	KindHiddenWhen,
	KindDisabled,
	KindDisabledWhen,
	KindMandatory,
	KindMaxLength,
	KindRegex,
	KindValidateWhen,
	KindObjectValidation,
	KindTypeOf,
	KindDomainEvent,
	KindParseable,
	KindNamed,
	KindDescribedAs,
	KindPlural,
	KindSemantics,
	KindEditing,
	KindTitle,
	KindChoices,
	KindDefault,
}

var ordinals = func() map[Kind]int {
	ret := make(map[Kind]int, len(kinds))
	for i, kind := range kinds {
		ret[kind] = i
	}
	return ret
}()

// Kinds returns all known kinds in evaluation order
func Kinds() []Kind {
	ret := make([]Kind, len(kinds))
	copy(ret, kinds)
	return ret
}

// Validate checks if Kind is valid.
func (k Kind) Validate() error {
	if _, ok := ordinals[k]; ok {
		return nil
	}
	return fmt.Errorf("unsupported trait kind %v", k)
}

// Ordinal returns kind position, unknown kinds go last
func (k Kind) Ordinal() int {
	if ret, ok := ordinals[k]; ok {
		return ret
	}
	return len(kinds)
}

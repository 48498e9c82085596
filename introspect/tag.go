package introspect

import (
	"reflect"
	"strings"
)

const (
	PropertyTag     = "property"
	CollectionTag   = "collection"
	ActionTag       = "action"
	ParameterTag    = "parameter"
	DomainObjectTag = "domainObject"
	MetaTag         = "meta"
	ValidateTag     = "validate"
)

type (
	// Annotated supplies struct tag style annotations for members that can not carry a tag (methods, parameters).
	// Keys are Go member names, parameters use Name#index, i.e. PlaceOrder#0
	Annotated interface {
		MemberTags() map[string]string
	}
)

var annotatedType = reflect.TypeOf((*Annotated)(nil)).Elem()

// HasIntent returns feature tag names declared in the tag
func intents(tag reflect.StructTag) []string {
	var ret []string
	for _, name := range []string{PropertyTag, CollectionTag, ActionTag} {
		if _, ok := tag.Lookup(name); ok {
			ret = append(ret, name)
		}
	}
	return ret
}

// IsExcluded returns true for members opted out with a dash
func isExcluded(tag reflect.StructTag) bool {
	for _, name := range []string{PropertyTag, CollectionTag, ActionTag} {
		if value, ok := tag.Lookup(name); ok && strings.TrimSpace(value) == "-" {
			return true
		}
	}
	return false
}

func joinTags(parts ...string) reflect.StructTag {
	var ret []string
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			ret = append(ret, part)
		}
	}
	return reflect.StructTag(strings.Join(ret, " "))
}

func memberTags(rType reflect.Type) (ret map[string]string, err error) {
	ptrType := reflect.PtrTo(rType)
	if !ptrType.Implements(annotatedType) {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()
	annotated := reflect.New(rType).Interface().(Annotated)
	return annotated.MemberTags(), nil
}

// markerTag returns type level tag declared on blank marker field: _ struct{} `domainObject:"..."`
func markerTag(rType reflect.Type) reflect.StructTag {
	var tags []string
	for i := 0; i < rType.NumField(); i++ {
		field := rType.Field(i)
		if field.Name != "_" {
			continue
		}
		if field.Tag != "" {
			tags = append(tags, string(field.Tag))
		}
	}
	return reflect.StructTag(strings.Join(tags, " "))
}

type panicError struct {
	value interface{}
}

func (p *panicError) Error() string {
	return "MemberTags panicked: " + toString(p.value)
}

func toString(value interface{}) string {
	if err, ok := value.(error); ok {
		return err.Error()
	}
	if text, ok := value.(string); ok {
		return text
	}
	return reflect.TypeOf(value).String()
}

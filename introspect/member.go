package introspect

import (
	"github.com/viant/metamodel/facet"
	"reflect"
)

// Source represents reflective shape a member was discovered from
type Source string

const (
	SourceField  Source = "field"
	SourceMethod Source = "method"
	SourceMixin  Source = "mixin"
)

// Support represents supporting method prefix
type Support string

const (
	SupportHide     Support = "Hide"
	SupportDisable  Support = "Disable"
	SupportValidate Support = "Validate"
	SupportChoices  Support = "Choices"
	SupportDefault  Support = "Default"
)

var supports = []Support{SupportHide, SupportDisable, SupportValidate, SupportChoices, SupportDefault}

type (
	// Member represents introspected member with its feature type already fixed
	Member struct {
		ID         string
		Name       string
		Feature    facet.Feature
		Source     Source
		Field      *reflect.StructField
		Method     *reflect.Method
		Mixin      *Mixin
		Tag        reflect.StructTag
		MixinTag   reflect.StructTag
		SuperTag   reflect.StructTag //declared by supertype, drives intent and exclusion of inherited members only
		Promoted   bool
		Params     []*Param
		Supporting map[Support]*reflect.Method
	}

	// Param represents action parameter
	Param struct {
		ID    string
		Index int
		Type  reflect.Type
		Tag   reflect.StructTag
	}

	// Mixin contributes a member to a target type
	Mixin struct {
		Target reflect.Type
		Type   reflect.Type
		Name   string
		Main   *reflect.Method
	}
)

// ValueType returns field type, method or mixin result type
func (m *Member) ValueType() reflect.Type {
	switch m.Source {
	case SourceField:
		return m.Field.Type
	case SourceMethod:
		return resultType(m.Method.Type)
	case SourceMixin:
		if m.Mixin.Main != nil {
			return resultType(m.Mixin.Main.Type)
		}
	}
	return nil
}

// Signature returns method type for methods and mixins
func (m *Member) Signature() reflect.Type {
	switch m.Source {
	case SourceMethod:
		return m.Method.Type
	case SourceMixin:
		if m.Mixin.Main != nil {
			return m.Mixin.Main.Type
		}
	}
	return nil
}

// Support returns supporting method
func (m *Member) Support(support Support) (*reflect.Method, bool) {
	method, ok := m.Supporting[support]
	return method, ok
}

// IsCollectionType returns true for slice/array types other than []byte
func IsCollectionType(rType reflect.Type) bool {
	if rType == nil {
		return false
	}
	for rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	switch rType.Kind() {
	case reflect.Slice:
		return rType.Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	}
	return false
}

// ElemType returns collection element type with pointers removed
func ElemType(rType reflect.Type) reflect.Type {
	for rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	if rType.Kind() == reflect.Slice || rType.Kind() == reflect.Array {
		rType = rType.Elem()
	}
	for rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}

func resultType(signature reflect.Type) reflect.Type {
	if signature.NumOut() == 0 {
		return nil
	}
	return signature.Out(0)
}

// argumentCount returns number of arguments excluding receiver
func argumentCount(signature reflect.Type) int {
	return signature.NumIn() - 1
}

package spec

import (
	"github.com/pkg/errors"
	"github.com/viant/metamodel/facet"
	"github.com/viant/metamodel/introspect"
	"github.com/viant/xunsafe"
	"reflect"
	"unsafe"
)

type (
	// Member represents published member with its frozen facet holder
	Member struct {
		ID       string
		Name     string
		Feature  facet.Feature
		Holder   *facet.Holder
		Params   []*Param
		Source   *introspect.Member
		owner    reflect.Type
		accessor *accessor
	}

	// Param represents action parameter with its frozen facet holder
	Param struct {
		ID     string
		Index  int
		Type   reflect.Type
		Holder *facet.Holder
	}

	accessor struct {
		hops []*hop
		leaf *xunsafe.Field
	}

	hop struct {
		field   *xunsafe.Field
		pointer bool
	}
)

// Param returns parameter by index
func (m *Member) Param(index int) (*Param, bool) {
	if index < 0 || index >= len(m.Params) {
		return nil, false
	}
	return m.Params[index], true
}

// ValueType returns member value type
func (m *Member) ValueType() reflect.Type {
	return m.Source.ValueType()
}

// Value reads property or collection value from target, target has to be owner struct or pointer to it
func (m *Member) Value(target interface{}) (interface{}, error) {
	if m.Feature == facet.FeatureAction {
		return nil, errors.Errorf("%v.%v is an action", m.owner.Name(), m.ID)
	}
	ptr, err := m.pointer(target)
	if err != nil {
		return nil, err
	}
	if m.accessor != nil {
		return m.accessor.value(ptr), nil
	}
	return m.call(reflect.NewAt(m.owner, ptr))
}

// call invokes method or mixin getter, a panic is reported as an error unless it was caused
// by a nil embedded pointer on the promotion path, which reads as zero value like promoted fields do
func (m *Member) call(recv reflect.Value) (ret interface{}, err error) {
	var method reflect.Value
	switch m.Source.Source {
	case introspect.SourceMixin:
		method = mixee(m.Source.Mixin, recv).MethodByName(m.Source.Mixin.Main.Name)
	default:
		method = recv.MethodByName(m.Source.Method.Name)
	}
	if !method.IsValid() {
		return nil, errors.Errorf("failed to lookup %v.%v", m.owner.Name(), m.Name)
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if m.Source.Promoted && hasNilEmbedded(recv.Elem(), m.Source.Method.Name) {
			ret, err = reflect.Zero(m.ValueType()).Interface(), nil
			return
		}
		ret, err = nil, errors.Errorf("failed to read %v.%v: %v", m.owner.Name(), m.Name, r)
	}()
	out := method.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// hasNilEmbedded returns true if an embedded pointer leading to the named method is nil
func hasNilEmbedded(value reflect.Value, name string) bool {
	for value.Kind() == reflect.Struct {
		var next reflect.Value
		for i := 0; i < value.NumField(); i++ {
			field := value.Type().Field(i)
			if !field.Anonymous {
				continue
			}
			if _, ok := reflect.PtrTo(introspect.Normalize(field.Type)).MethodByName(name); ok {
				next = value.Field(i)
				break
			}
		}
		if !next.IsValid() {
			return false
		}
		if next.Kind() == reflect.Ptr {
			if next.IsNil() {
				return true
			}
			next = next.Elem()
		}
		value = next
	}
	return false
}

// mixee creates mixin instance, the first field accepting the target is set to it
func mixee(mixin *introspect.Mixin, recv reflect.Value) reflect.Value {
	ret := reflect.New(mixin.Type)
	for i := 0; i < mixin.Type.NumField(); i++ {
		field := mixin.Type.Field(i)
		if !field.IsExported() {
			continue
		}
		switch {
		case recv.Type().AssignableTo(field.Type):
			ret.Elem().Field(i).Set(recv)
			return ret
		case recv.Elem().Type().AssignableTo(field.Type):
			ret.Elem().Field(i).Set(recv.Elem())
			return ret
		}
	}
	return ret
}

func (m *Member) pointer(target interface{}) (unsafe.Pointer, error) {
	if target == nil {
		return nil, errors.Errorf("target was nil, expected %v", m.owner.String())
	}
	rValue := reflect.ValueOf(target)
	switch {
	case rValue.Type() == reflect.PtrTo(m.owner):
		if rValue.IsNil() {
			return nil, errors.Errorf("target was nil, expected %v", m.owner.String())
		}
		return xunsafe.AsPointer(target), nil
	case rValue.Type() == m.owner:
		addressable := reflect.New(m.owner)
		addressable.Elem().Set(rValue)
		return unsafe.Pointer(addressable.Pointer()), nil
	}
	return nil, errors.Errorf("incompatible target %T, expected %v", target, m.owner.String())
}

func (a *accessor) value(ptr unsafe.Pointer) interface{} {
	for _, step := range a.hops {
		ptr = step.field.Pointer(ptr)
		if step.pointer {
			ptr = xunsafe.DerefPointer(ptr)
		}
		if ptr == nil {
			return reflect.Zero(a.leaf.Type).Interface()
		}
	}
	return a.leaf.Value(ptr)
}

// newAccessor creates field accessor following embedded struct path, nil for method members
func newAccessor(owner reflect.Type, member *introspect.Member) *accessor {
	if member.Source != introspect.SourceField {
		return nil
	}
	ret := &accessor{}
	current := owner
	index := member.Field.Index
	for _, i := range index[:len(index)-1] {
		field := current.Field(i)
		ret.hops = append(ret.hops, &hop{field: xunsafe.NewField(field), pointer: field.Type.Kind() == reflect.Ptr})
		current = introspect.Normalize(field.Type)
	}
	ret.leaf = xunsafe.NewField(current.Field(index[len(index)-1]))
	return ret
}

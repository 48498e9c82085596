package factory

import (
	"fmt"
	"github.com/pkg/errors"
	"github.com/viant/metamodel/facet"
	"github.com/viant/metamodel/interaction"
	"github.com/viant/metamodel/introspect"
	"reflect"
)

const SupportingMethods = "supporting-methods"

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	actorType   = reflect.TypeOf(&interaction.Actor{})
	contextType = reflect.TypeOf(&interaction.Context{})
)

type argument func(ctx *interaction.Context) (reflect.Value, error)

// invoker calls supporting method on interaction target
type invoker struct {
	owner  reflect.Type
	method reflect.Method
	args   []argument
	result reflect.Type
}

// SupportingMethodFactory installs dynamic facets backed by HideX, DisableX, ValidateX, ChoicesX and DefaultX methods
type SupportingMethodFactory struct {
	base
}

// Process binds supporting methods discovered for a member
func (s *SupportingMethodFactory) Process(ctx *MemberContext) []facet.Facet {
	member := ctx.Member
	var ret []facet.Facet
	for support, method := range member.Supporting {
		origin := facet.Supporting(s.name, method.Name)
		inv, err := newInvoker(ctx.Type.Type, *method, support, member)
		if err != nil {
			ctx.Failf(s.name, member.ID, "invalid %v signature: %v", method.Name, err)
			continue
		}
		switch support {
		case introspect.SupportHide:
			ret = append(ret, facet.NewHiddenWhen(method.Name, inv.boolean, origin))
		case introspect.SupportDisable:
			ret = append(ret, facet.NewDisabledWhen(method.Name, inv.text, origin))
		case introspect.SupportValidate:
			ret = append(ret, facet.NewValidateWhen(method.Name, inv.text, origin))
		case introspect.SupportChoices:
			ret = append(ret, facet.NewChoices(method.Name, inv.values, origin))
		case introspect.SupportDefault:
			ret = append(ret, facet.NewDefault(method.Name, inv.value, origin))
		}
	}
	return ret
}

// NewSupportingMethods creates supporting method factory
func NewSupportingMethods() Factory {
	return &SupportingMethodFactory{base: base{name: SupportingMethods, features: facet.MemberFeatures(),
		kinds: []facet.Kind{facet.KindHiddenWhen, facet.KindDisabledWhen, facet.KindValidateWhen, facet.KindChoices, facet.KindDefault}}}
}

func newInvoker(owner reflect.Type, method reflect.Method, support introspect.Support, member *introspect.Member) (*invoker, error) {
	signature := method.Type
	ret := &invoker{owner: owner, method: method}
	for i := 1; i < signature.NumIn(); i++ {
		arg, err := bindArgument(signature.In(i), i-1, signature.NumIn()-1, support, member)
		if err != nil {
			return nil, err
		}
		ret.args = append(ret.args, arg)
	}
	outs := signature.NumOut()
	if outs == 2 && signature.Out(1) == errorType {
		outs = 1
	}
	if outs != 1 {
		return nil, errors.Errorf("expected single result with optional error, but had %v results", signature.NumOut())
	}
	ret.result = signature.Out(0)
	switch support {
	case introspect.SupportHide:
		if ret.result.Kind() != reflect.Bool {
			return nil, errors.Errorf("expected bool result, but had %v", ret.result.String())
		}
	case introspect.SupportDisable, introspect.SupportValidate:
		if ret.result.Kind() != reflect.String {
			return nil, errors.Errorf("expected string result, but had %v", ret.result.String())
		}
	case introspect.SupportChoices:
		if ret.result.Kind() != reflect.Slice && ret.result.Kind() != reflect.Array {
			return nil, errors.Errorf("expected slice result, but had %v", ret.result.String())
		}
	}
	return ret, nil
}

func bindArgument(argType reflect.Type, index, count int, support introspect.Support, member *introspect.Member) (argument, error) {
	switch argType {
	case actorType:
		return func(ctx *interaction.Context) (reflect.Value, error) {
			return reflect.ValueOf(ctx.Actor), nil
		}, nil
	case contextType:
		return func(ctx *interaction.Context) (reflect.Value, error) {
			return reflect.ValueOf(ctx), nil
		}, nil
	}
	if support != introspect.SupportValidate {
		return nil, errors.Errorf("unsupported argument type %v", argType.String())
	}
	if member.Feature == facet.FeatureAction {
		params := member.Params
		if count != len(params) || params[index].Type != argType {
			return nil, errors.Errorf("expected arguments matching %v parameters", member.Name)
		}
		return func(ctx *interaction.Context) (reflect.Value, error) {
			if index >= len(ctx.Arguments) {
				return reflect.Zero(argType), nil
			}
			return convert(ctx.Arguments[index], argType)
		}, nil
	}
	if count != 1 || !member.ValueType().AssignableTo(argType) {
		return nil, errors.Errorf("expected single %v argument", member.ValueType().String())
	}
	return func(ctx *interaction.Context) (reflect.Value, error) {
		value, _ := ctx.Value()
		return convert(value, argType)
	}, nil
}

func convert(value interface{}, argType reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(argType), nil
	}
	rValue := reflect.ValueOf(value)
	if rValue.Type().AssignableTo(argType) {
		return rValue, nil
	}
	if rValue.Type().ConvertibleTo(argType) {
		return rValue.Convert(argType), nil
	}
	return reflect.Value{}, fmt.Errorf("incompatible argument %T, expected %v", value, argType.String())
}

func (i *invoker) receiver(target interface{}) (reflect.Value, error) {
	if target == nil {
		return reflect.Value{}, errors.New("interaction target was nil")
	}
	value := reflect.ValueOf(target)
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return reflect.Value{}, errors.New("interaction target was nil")
		}
		if value.Type().Elem() == i.owner {
			return value, nil
		}
	}
	if value.Type() == i.owner {
		ptr := reflect.New(i.owner)
		ptr.Elem().Set(value)
		return ptr, nil
	}
	return reflect.Value{}, errors.Errorf("incompatible target %T, expected %v", target, i.owner.String())
}

func (i *invoker) call(ctx *interaction.Context) (reflect.Value, error) {
	if ctx == nil {
		return reflect.Value{}, errors.New("interaction context was nil")
	}
	recv, err := i.receiver(ctx.Target)
	if err != nil {
		return reflect.Value{}, err
	}
	in := make([]reflect.Value, 0, len(i.args)+1)
	in = append(in, recv)
	for _, arg := range i.args {
		value, err := arg(ctx)
		if err != nil {
			return reflect.Value{}, err
		}
		in = append(in, value)
	}
	out := i.method.Func.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return reflect.Value{}, out[1].Interface().(error)
	}
	return out[0], nil
}

func (i *invoker) boolean(ctx *interaction.Context) (bool, error) {
	out, err := i.call(ctx)
	if err != nil {
		return false, err
	}
	return out.Bool(), nil
}

func (i *invoker) text(ctx *interaction.Context) (string, error) {
	out, err := i.call(ctx)
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

func (i *invoker) values(ctx *interaction.Context) ([]interface{}, error) {
	out, err := i.call(ctx)
	if err != nil {
		return nil, err
	}
	ret := make([]interface{}, out.Len())
	for j := 0; j < out.Len(); j++ {
		ret[j] = out.Index(j).Interface()
	}
	return ret, nil
}

func (i *invoker) value(ctx *interaction.Context) (interface{}, error) {
	out, err := i.call(ctx)
	if err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

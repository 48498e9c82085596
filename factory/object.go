package factory

import (
	"context"
	"fmt"
	"github.com/viant/govalidator"
	"github.com/viant/metamodel/facet"
	"github.com/viant/metamodel/interaction"
	"github.com/viant/metamodel/introspect"
	"reflect"
)

const (
	TitleMethod      = "title"
	ObjectValidation = "object-validation"
)

// Titles installs object title facet from Title() string method
type Titles struct {
	base
}

// ProcessType binds title method
func (t *Titles) ProcessType(ctx *TypeContext) []facet.Facet {
	method := ctx.Type.Title
	if method == nil {
		return nil
	}
	inv := &invoker{owner: ctx.Type.Type, method: *method}
	return []facet.Facet{facet.NewTitle(method.Name, func(target interface{}) (string, error) {
		recv, err := inv.receiver(target)
		if err != nil {
			return "", err
		}
		return recv.MethodByName(method.Name).Call(nil)[0].String(), nil
	}, facet.Supporting(t.name, method.Name))}
}

// NewTitles creates title factory
func NewTitles() Factory {
	return &Titles{base: base{name: TitleMethod, features: []facet.Feature{facet.FeatureObject}, kinds: []facet.Kind{facet.KindTitle}}}
}

// ObjectValidations installs object validity facet combining Validate() string method with validate tag checks
type ObjectValidations struct {
	base
	validator *govalidator.Service
}

// ProcessType binds object validation
func (o *ObjectValidations) ProcessType(ctx *TypeContext) []facet.Facet {
	method := ctx.Type.Supporting[introspect.SupportValidate]
	tagged := hasValidateTag(ctx.Type.Type)
	if method == nil && !tagged {
		return nil
	}
	inv := &invoker{owner: ctx.Type.Type}
	origin := facet.TypeLevel(o.name)
	if method != nil {
		inv.method = *method
		origin = facet.Supporting(o.name, method.Name)
	}
	validator := o.validator
	return []facet.Facet{facet.NewObjectValidation(func(iCtx *interaction.Context) ([]string, error) {
		recv, err := inv.receiver(iCtx.Target)
		if err != nil {
			return nil, err
		}
		var reasons []string
		if method != nil {
			if reason := recv.MethodByName(method.Name).Call(nil)[0].String(); reason != "" {
				reasons = append(reasons, reason)
			}
		}
		if tagged {
			validation, err := validator.Validate(context.Background(), recv.Interface())
			if err != nil {
				return nil, err
			}
			if validation != nil {
				for _, violation := range validation.Violations {
					reasons = append(reasons, fmt.Sprintf("%v: %v", violation.Location, violation.Message))
				}
			}
		}
		return reasons, nil
	}, origin)}
}

func hasValidateTag(rType reflect.Type) bool {
	for _, field := range reflect.VisibleFields(rType) {
		if _, ok := field.Tag.Lookup(introspect.ValidateTag); ok && field.IsExported() {
			return true
		}
	}
	return false
}

// NewObjectValidations creates object validation factory
func NewObjectValidations() Factory {
	return &ObjectValidations{base: base{name: ObjectValidation, features: []facet.Feature{facet.FeatureObject}, kinds: []facet.Kind{facet.KindObjectValidation}},
		validator: govalidator.New()}
}

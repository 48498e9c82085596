package factory

import (
	"encoding"
	"github.com/viant/metamodel/facet"
	"github.com/viant/metamodel/introspect"
	"github.com/viant/toolbox"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

const (
	TypeOfInference      = "typeof-inference"
	MandatoryInference   = "mandatory-inference"
	ValidateTagInference = "validate-tag-inference"
	NamedInference       = "named-inference"
	Parseables           = "parseable"
	SemanticsInference   = "semantics-inference"
	PluralInference      = "plural-inference"
)

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	maxLengthCheck      = regexp.MustCompile(`^maxLength\((\d+)\)$`)
)

// TypeOfInferrer derives element type of collections and collection returning actions
type TypeOfInferrer struct{ base }

func (f *TypeOfInferrer) Process(ctx *MemberContext) []facet.Facet {
	valueType := ctx.ValueType()
	if !introspect.IsCollectionType(valueType) {
		return nil
	}
	return []facet.Facet{facet.NewTypeOf(introspect.ElemType(valueType), facet.Inferred(f.name, facet.SourceGenerics))}
}

func NewTypeOfInferrer() Factory {
	return &TypeOfInferrer{base{name: TypeOfInference, features: []facet.Feature{facet.FeatureCollectionsAndActions}, kinds: []facet.Kind{facet.KindTypeOf}}}
}

// MandatoryInferrer derives mandatory from value kind, pointer and interface values are optional
type MandatoryInferrer struct{ base }

func (f *MandatoryInferrer) Process(ctx *MemberContext) []facet.Facet {
	valueType := ctx.ValueType()
	if valueType == nil {
		return nil
	}
	required := true
	switch valueType.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		required = false
	}
	return []facet.Facet{facet.NewMandatory(required, facet.Inferred(f.name, facet.SourceSignature))}
}

func NewMandatoryInferrer() Factory {
	return &MandatoryInferrer{base{name: MandatoryInference, features: []facet.Feature{facet.FeatureProperty, facet.FeatureActionParameter}, kinds: []facet.Kind{facet.KindMandatory}}}
}

// ValidateTagInferrer derives facets from validate tag checks: required, maxLength(N)
type ValidateTagInferrer struct{ base }

func (f *ValidateTagInferrer) Process(ctx *MemberContext) []facet.Facet {
	value, ok := ctx.Tag().Lookup(introspect.ValidateTag)
	if !ok {
		return nil
	}
	origin := facet.Inferred(f.name, facet.SourceValidateTag)
	var ret []facet.Facet
	for _, check := range strings.Split(value, ",") {
		check = strings.TrimSpace(check)
		switch {
		case check == "required":
			ret = append(ret, facet.NewMandatory(true, origin))
		case check == "omitempty":
			ret = append(ret, facet.NewMandatory(false, origin))
		case maxLengthCheck.MatchString(check):
			limit, _ := strconv.Atoi(maxLengthCheck.FindStringSubmatch(check)[1])
			ret = append(ret, facet.NewMaxLength(limit, origin))
		}
	}
	return ret
}

func NewValidateTagInferrer() Factory {
	return &ValidateTagInferrer{base{name: ValidateTagInference, features: []facet.Feature{facet.FeatureProperty}, kinds: []facet.Kind{facet.KindMandatory, facet.KindMaxLength}}}
}

// NameInferrer derives friendly names from Go names
type NameInferrer struct{ base }

func (f *NameInferrer) Process(ctx *MemberContext) []facet.Facet {
	if ctx.Param != nil {
		return nil
	}
	return []facet.Facet{facet.NewNamed(introspect.FriendlyName(ctx.Member.Name), facet.Inferred(f.name, facet.SourceName))}
}

func (f *NameInferrer) ProcessType(ctx *TypeContext) []facet.Facet {
	name := ctx.Type.Type.Name()
	if name == "" {
		return nil
	}
	return []facet.Facet{facet.NewNamed(introspect.FriendlyName(name), facet.Inferred(f.name, facet.SourceName))}
}

func NewNameInferrer() Factory {
	return &NameInferrer{base{name: NamedInference, features: []facet.Feature{facet.FeatureObject, facet.FeatureProperty, facet.FeatureCollection, facet.FeatureAction}, kinds: []facet.Kind{facet.KindNamed}}}
}

// ParseableInferrer installs text parsers for TextUnmarshaler implementations and builtin kinds
type ParseableInferrer struct{ base }

func (f *ParseableInferrer) Process(ctx *MemberContext) []facet.Facet {
	valueType := ctx.ValueType()
	if valueType == nil {
		return nil
	}
	elemType := introspect.Normalize(valueType)
	if reflect.PtrTo(elemType).Implements(textUnmarshalerType) {
		return []facet.Facet{facet.NewParseable(valueType, func(text string) (interface{}, error) {
			ptr := reflect.New(elemType)
			if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
				return nil, err
			}
			return adjust(ptr, valueType), nil
		}, facet.Origin{Factory: f.name, Source: facet.SourceType, Precedence: facet.PrecedenceType})}
	}
	switch elemType.Kind() {
	case reflect.Struct, reflect.Slice, reflect.Array, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return nil
	}
	return []facet.Facet{facet.NewParseable(valueType, func(text string) (interface{}, error) {
		ptr := reflect.New(elemType)
		if err := toolbox.DefaultConverter.AssignConverted(ptr.Interface(), text); err != nil {
			return nil, err
		}
		return adjust(ptr, valueType), nil
	}, facet.Inferred(f.name, facet.SourceSignature))}
}

func adjust(ptr reflect.Value, valueType reflect.Type) interface{} {
	if valueType.Kind() == reflect.Ptr {
		return ptr.Interface()
	}
	return ptr.Elem().Interface()
}

func NewParseableInferrer() Factory {
	return &ParseableInferrer{base{name: Parseables, features: []facet.Feature{facet.FeatureProperty, facet.FeatureActionParameter}, kinds: []facet.Kind{facet.KindParseable}}}
}

// SemanticsInferrer derives non idempotent semantics for actions
type SemanticsInferrer struct{ base }

func (f *SemanticsInferrer) Process(ctx *MemberContext) []facet.Facet {
	return []facet.Facet{facet.NewActionSemantics(facet.SemanticsNonIdempotent, facet.Inferred(f.name, facet.SourceDefault))}
}

func NewSemanticsInferrer() Factory {
	return &SemanticsInferrer{base{name: SemanticsInference, features: []facet.Feature{facet.FeatureAction}, kinds: []facet.Kind{facet.KindSemantics}}}
}

// PluralInferrer derives object plural name from its friendly name
type PluralInferrer struct{ base }

func (f *PluralInferrer) ProcessType(ctx *TypeContext) []facet.Facet {
	name := ctx.Type.Type.Name()
	if named, ok := facet.Lookup[*facet.Named](ctx.Holder, facet.KindNamed); ok && named.Name != "" {
		name = named.Name
	} else {
		name = introspect.FriendlyName(name)
	}
	if name == "" {
		return nil
	}
	return []facet.Facet{facet.NewPlural(Pluralize(name), facet.Inferred(f.name, facet.SourceName))}
}

func NewPluralInferrer() Factory {
	return &PluralInferrer{base{name: PluralInference, features: []facet.Feature{facet.FeatureObject}, kinds: []facet.Kind{facet.KindPlural}}}
}

// Pluralize returns english plural of a noun
func Pluralize(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !strings.ContainsAny(lower[len(lower)-2:len(lower)-1], "aeiou"):
		return name[:len(name)-1] + "ies"
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"), strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return name + "es"
	}
	return name + "s"
}

package introspect

import (
	"fmt"
	"github.com/viant/metamodel/diag"
	"github.com/viant/metamodel/facet"
	"reflect"
	"strings"
)

func featureOf(intent string) facet.Feature {
	switch intent {
	case PropertyTag:
		return facet.FeatureProperty
	case CollectionTag:
		return facet.FeatureCollection
	}
	return facet.FeatureAction
}

// inferIntent fixes member feature type before any factory runs
func (t *Type) inferIntent(member *Member) error {
	switch member.Source {
	case SourceField:
		return t.inferFieldIntent(member)
	case SourceMethod:
		declared := declaredIntents(member)
		if len(declared) > 1 {
			return diag.NewStructuralError(t.Name, member.ID, "ambiguous intent, declared as %v", strings.Join(declared, " and "))
		}
		return t.applyIntent(member, declared, member.Method.Type)
	case SourceMixin:
		return t.inferMixinIntent(member)
	}
	return diag.NewStructuralError(t.Name, member.ID, "unsupported member source %v", member.Source)
}

// declaredIntents returns locally declared intents, inherited members fall back to the supertype declaration
func declaredIntents(member *Member) []string {
	if ret := intents(member.Tag); len(ret) > 0 {
		return ret
	}
	return intents(member.SuperTag)
}

func (t *Type) inferFieldIntent(member *Member) error {
	declared := declaredIntents(member)
	for _, intent := range declared {
		if intent == ActionTag {
			return diag.NewStructuralError(t.Name, member.ID, "field can not be declared as action")
		}
	}
	if len(declared) > 1 {
		return diag.NewStructuralError(t.Name, member.ID, "ambiguous intent, declared as %v", strings.Join(declared, " and "))
	}
	member.Feature = facet.FeatureProperty
	if IsCollectionType(member.Field.Type) {
		member.Feature = facet.FeatureCollection
		if len(declared) == 1 && declared[0] == PropertyTag {
			t.Warnings = append(t.Warnings, warning(member, "property annotation on %v typed member, treated as collection", member.Field.Type.String()))
		}
		return nil
	}
	if len(declared) == 1 && declared[0] == CollectionTag {
		return diag.NewStructuralError(t.Name, member.ID, "collection declared on non collection type %v", member.Field.Type.String())
	}
	return nil
}

// inferMixinIntent resolves intent declared on the mixin method and on the mixin type,
// both levels declaring different intents is an ambiguity
func (t *Type) inferMixinIntent(member *Member) error {
	methodLevel := intents(member.Tag)
	typeLevel := intents(member.MixinTag)
	if len(methodLevel) > 1 {
		return diag.NewStructuralError(t.Name, member.ID, "ambiguous mixin method intent, declared as %v", strings.Join(methodLevel, " and "))
	}
	if len(typeLevel) > 1 {
		return diag.NewStructuralError(t.Name, member.ID, "ambiguous mixin type intent, declared as %v", strings.Join(typeLevel, " and "))
	}
	if len(methodLevel) == 1 && len(typeLevel) == 1 && methodLevel[0] != typeLevel[0] {
		return diag.NewStructuralError(t.Name, member.ID, "ambiguous mixin intent, method declares %v, type declares %v", methodLevel[0], typeLevel[0])
	}
	declared := methodLevel
	if len(declared) == 0 {
		declared = typeLevel
	}
	return t.applyIntent(member, declared, member.Mixin.Main.Type)
}

func (t *Type) applyIntent(member *Member, declared []string, signature reflect.Type) error {
	if len(declared) == 0 || declared[0] == ActionTag {
		member.Feature = facet.FeatureAction
		return nil
	}
	if argumentCount(signature) > 0 {
		return diag.NewStructuralError(t.Name, member.ID, "%v can not take arguments", declared[0])
	}
	result := resultType(signature)
	if result == nil || signature.NumOut() > 2 {
		return diag.NewStructuralError(t.Name, member.ID, "%v has to return a value", declared[0])
	}
	member.Feature = featureOf(declared[0])
	isCollection := IsCollectionType(result)
	switch {
	case isCollection && member.Feature == facet.FeatureProperty:
		member.Feature = facet.FeatureCollection
		t.Warnings = append(t.Warnings, warning(member, "property annotation on %v returning member, treated as collection", result.String()))
	case !isCollection && member.Feature == facet.FeatureCollection:
		return diag.NewStructuralError(t.Name, member.ID, "collection declared on non collection type %v", result.String())
	}
	return nil
}

// Warning represents recoverable introspection issue
type Warning struct {
	Member  string
	Message string
}

func warning(member *Member, format string, args ...interface{}) *Warning {
	return &Warning{Member: member.ID, Message: fmt.Sprintf(format, args...)}
}

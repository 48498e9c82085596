package spec

import (
	"fmt"
	"github.com/viant/metamodel/consent"
	"github.com/viant/metamodel/diag"
	"github.com/viant/metamodel/facet"
	"github.com/viant/metamodel/interaction"
	"github.com/viant/metamodel/introspect"
	"reflect"
)

// Specification represents immutable metamodel of one domain type
type Specification struct {
	Type     reflect.Type
	Name     string
	Holder   *facet.Holder
	Super    *Specification
	Members  []*Member
	Failures []*diag.Failure
	index    map[string]int
}

// Member returns member by id
func (s *Specification) Member(id string) (*Member, bool) {
	index, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.Members[index], true
}

// Properties returns property members in declaration order
func (s *Specification) Properties() []*Member {
	return s.filter(facet.FeatureProperty)
}

// Collections returns collection members in declaration order
func (s *Specification) Collections() []*Member {
	return s.filter(facet.FeatureCollection)
}

// Actions returns action members in declaration order
func (s *Specification) Actions() []*Member {
	return s.filter(facet.FeatureAction)
}

func (s *Specification) filter(feature facet.Feature) []*Member {
	var ret []*Member
	for _, member := range s.Members {
		if member.Feature == feature {
			ret = append(ret, member)
		}
	}
	return ret
}

// IsSubtypeOf returns true if supertype chain includes the type
func (s *Specification) IsSubtypeOf(rType reflect.Type) bool {
	rType = introspect.Normalize(rType)
	for super := s.Super; super != nil; super = super.Super {
		if super.Type == rType {
			return true
		}
	}
	return false
}

// Title returns target title, falls back to the friendly type name
func (s *Specification) Title(target interface{}) string {
	if title, ok := facet.Lookup[*facet.Title](s.Holder, facet.KindTitle); ok {
		if ret, err := title.Title(target); err == nil && ret != "" {
			return ret
		}
	}
	if named, ok := facet.Lookup[*facet.Named](s.Holder, facet.KindNamed); ok {
		return named.Name
	}
	return s.Type.Name()
}

// Validate checks every property value of the target and then the object as a whole,
// all vetoes are collected
func (s *Specification) Validate(evaluator *consent.Evaluator, iCtx *interaction.Context) *consent.Consent {
	if iCtx == nil {
		iCtx = interaction.NewContext()
	}
	var reasons []string
	for _, member := range s.Members {
		if member.Feature != facet.FeatureProperty {
			continue
		}
		value, err := member.Value(iCtx.Target)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("%v: Internal error: %v", member.ID, err))
			continue
		}
		verdict := evaluator.Valid(member.Holder, iCtx.Clone(interaction.WithValue(value)))
		for _, reason := range verdict.Reasons() {
			reasons = append(reasons, fmt.Sprintf("%v: %v", member.ID, reason))
		}
	}
	reasons = append(reasons, evaluator.Valid(s.Holder, iCtx).Reasons()...)
	if len(reasons) == 0 {
		return consent.Allow()
	}
	return consent.Veto(reasons...)
}

package factory

import (
	"github.com/pkg/errors"
	"sort"
	"sync"
)

// Constructor creates a factory instance
type Constructor func() Factory

// DefaultOrder lists built-in factories, explicit contributions go before inferred ones
var DefaultOrder = []string{
	PropertyAnnotation,
	CollectionAnnotation,
	ActionAnnotation,
	ParameterAnnotation,
	MetaAnnotation,
	DomainObject,
	TypeDefaults,
	SupportingMethods,
	TitleMethod,
	ObjectValidation,
	TypeOfInference,
	MandatoryInference,
	ValidateTagInference,
	NamedInference,
	Parseables,
	SemanticsInference,
	PluralInference,
}

var builtins = map[string]Constructor{
	PropertyAnnotation:   NewPropertyAnnotations,
	CollectionAnnotation: NewCollectionAnnotations,
	ActionAnnotation:     NewActionAnnotations,
	ParameterAnnotation:  NewParameterAnnotations,
	MetaAnnotation:       NewMetaAnnotations,
	DomainObject:         NewDomainObjects,
	TypeDefaults:         NewTypeDefaults,
	SupportingMethods:    NewSupportingMethods,
	TitleMethod:          NewTitles,
	ObjectValidation:     NewObjectValidations,
	TypeOfInference:      NewTypeOfInferrer,
	MandatoryInference:   NewMandatoryInferrer,
	ValidateTagInference: NewValidateTagInferrer,
	NamedInference:       NewNameInferrer,
	Parseables:           NewParseableInferrer,
	SemanticsInference:   NewSemanticsInferrer,
	PluralInference:      NewPluralInferrer,
}

// Registry represents factory name to constructor table
type Registry struct {
	mux          sync.RWMutex
	constructors map[string]Constructor
}

// Register adds or replaces factory constructor
func (r *Registry) Register(name string, constructor Constructor) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.constructors[name] = constructor
}

// Lookup creates factory by name
func (r *Registry) Lookup(name string) (Factory, error) {
	r.mux.RLock()
	constructor, ok := r.constructors[name]
	r.mux.RUnlock()
	if !ok {
		return nil, errors.Errorf("unknown facet factory: %v", name)
	}
	return constructor(), nil
}

// Names returns registered factory names
func (r *Registry) Names() []string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	var ret = make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// NewRegistry creates a registry with built-in factories
func NewRegistry() *Registry {
	ret := &Registry{constructors: make(map[string]Constructor, len(builtins))}
	for name, constructor := range builtins {
		ret.constructors[name] = constructor
	}
	return ret
}

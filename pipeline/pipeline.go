package pipeline

import (
	"context"
	"fmt"
	"github.com/pkg/errors"
	"github.com/viant/metamodel/diag"
	"github.com/viant/metamodel/facet"
	"github.com/viant/metamodel/factory"
)

type (
	// Pipeline runs facet factories in configured order
	Pipeline struct {
		factories []factory.Factory
		byFeature map[facet.Feature][]factory.Factory
		byKind    map[facet.Kind][]string
	}

	// Entry represents factory position in the pipeline
	Entry struct {
		Index    int
		Name     string
		Features []facet.Feature
		Kinds    []facet.Kind
	}
)

var features = []facet.Feature{facet.FeatureObject, facet.FeatureProperty, facet.FeatureCollection, facet.FeatureAction, facet.FeatureActionParameter}

// Factories returns factories in pipeline order
func (p *Pipeline) Factories() []factory.Factory {
	return p.factories
}

// For returns factories applicable to holder feature
func (p *Pipeline) For(feature facet.Feature) []factory.Factory {
	return p.byFeature[feature]
}

// Contributors returns factory names declared to produce a kind
func (p *Pipeline) Contributors(kind facet.Kind) []string {
	return p.byKind[kind]
}

// Table returns pipeline entries
func (p *Pipeline) Table() []*Entry {
	var ret = make([]*Entry, 0, len(p.factories))
	for i, f := range p.factories {
		ret = append(ret, &Entry{Index: i, Name: f.Name(), Features: f.Features(), Kinds: f.Kinds()})
	}
	return ret
}

// ProcessType runs type factories on the object holder
func (p *Pipeline) ProcessType(ctx context.Context, tCtx *factory.TypeContext, holder *facet.Holder) error {
	for _, f := range p.byFeature[facet.FeatureObject] {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "failed to process %v", tCtx.TypeName())
		}
		typeFactory, ok := f.(factory.TypeFactory)
		if !ok {
			continue
		}
		candidates, err := p.processType(typeFactory, tCtx)
		if err != nil {
			return err
		}
		if err = add(holder, candidates); err != nil {
			return err
		}
	}
	return nil
}

// ProcessMember runs member factories matching holder feature
func (p *Pipeline) ProcessMember(ctx context.Context, mCtx *factory.MemberContext, holder *facet.Holder) error {
	for _, f := range p.byFeature[holder.Feature()] {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "failed to process %v.%v", mCtx.TypeName(), mCtx.ID())
		}
		memberFactory, ok := f.(factory.MemberFactory)
		if !ok {
			continue
		}
		candidates, err := p.processMember(memberFactory, mCtx)
		if err != nil {
			return err
		}
		if err = add(holder, candidates); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) processType(f factory.TypeFactory, tCtx *factory.TypeContext) (ret []facet.Facet, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = diag.NewStructuralError(tCtx.TypeName(), "", "factory %v panicked: %v", f.Name(), r)
		}
	}()
	return f.ProcessType(tCtx), nil
}

func (p *Pipeline) processMember(f factory.MemberFactory, mCtx *factory.MemberContext) (ret []facet.Facet, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = diag.NewStructuralError(mCtx.TypeName(), mCtx.ID(), "factory %v panicked: %v", f.Name(), r)
		}
	}()
	return f.Process(mCtx), nil
}

func add(holder *facet.Holder, candidates []facet.Facet) error {
	for _, candidate := range candidates {
		if _, err := holder.AddFacetIfPresent(candidate); err != nil {
			return err
		}
	}
	return nil
}

// New creates a pipeline, every factory has to declare a supported feature
func New(factories ...factory.Factory) (*Pipeline, error) {
	ret := &Pipeline{byFeature: map[facet.Feature][]factory.Factory{}, byKind: map[facet.Kind][]string{}}
	names := map[string]bool{}
	for _, f := range factories {
		if f == nil {
			return nil, fmt.Errorf("factory was nil")
		}
		if names[f.Name()] {
			return nil, errors.Errorf("duplicate facet factory: %v", f.Name())
		}
		names[f.Name()] = true
		if len(f.Features()) == 0 {
			return nil, errors.Errorf("facet factory %v does not declare features", f.Name())
		}
		_, isType := f.(factory.TypeFactory)
		_, isMember := f.(factory.MemberFactory)
		if !isType && !isMember {
			return nil, errors.Errorf("facet factory %v implements neither type nor member processing", f.Name())
		}
		for _, declared := range f.Features() {
			if err := declared.Validate(); err != nil {
				return nil, errors.Wrapf(err, "invalid facet factory %v", f.Name())
			}
		}
		for _, feature := range features {
			if !matches(f.Features(), feature) {
				continue
			}
			ret.byFeature[feature] = append(ret.byFeature[feature], f)
		}
		for _, kind := range f.Kinds() {
			ret.byKind[kind] = append(ret.byKind[kind], f.Name())
		}
		ret.factories = append(ret.factories, f)
	}
	return ret, nil
}

// NewFromNames creates a pipeline from registered factory names, empty names use default order
func NewFromNames(registry *factory.Registry, names ...string) (*Pipeline, error) {
	if len(names) == 0 {
		names = factory.DefaultOrder
	}
	var factories = make([]factory.Factory, 0, len(names))
	for _, name := range names {
		f, err := registry.Lookup(name)
		if err != nil {
			return nil, err
		}
		factories = append(factories, f)
	}
	return New(factories...)
}

// Default creates a pipeline with built-in factories in default order
func Default() *Pipeline {
	ret, err := NewFromNames(factory.NewRegistry())
	if err != nil {
		panic(err)
	}
	return ret
}

func matches(declared []facet.Feature, feature facet.Feature) bool {
	for _, candidate := range declared {
		if candidate.Matches(feature) {
			return true
		}
	}
	return false
}

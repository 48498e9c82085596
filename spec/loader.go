package spec

import (
	"context"
	"fmt"
	"github.com/pkg/errors"
	"github.com/viant/metamodel/diag"
	"github.com/viant/metamodel/facet"
	"github.com/viant/metamodel/factory"
	"github.com/viant/metamodel/introspect"
	"github.com/viant/metamodel/logging"
	"github.com/viant/metamodel/metric"
	"github.com/viant/metamodel/pipeline"
	"github.com/viant/xreflect"
	"golang.org/x/sync/singleflight"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Loader builds and caches specifications, one build per type at a time
type Loader struct {
	cache      sync.Map
	group      singleflight.Group
	pipeline   atomic.Pointer[pipeline.Pipeline]
	meta       atomic.Pointer[map[string]string]
	types      *xreflect.Types
	mixins     map[reflect.Type][]reflect.Type
	timeout    atomic.Int64
	logger     *logging.Logger
	report     *diag.Report
	lookups    *metric.Counter
	builds     *metric.Counter
	mux        sync.Mutex
	dependants map[reflect.Type]map[reflect.Type]bool
	generation atomic.Uint64
}

// SpecFor returns cached specification or builds it, concurrent callers of the same type share one build
func (l *Loader) SpecFor(ctx context.Context, rType reflect.Type) (*Specification, error) {
	rType = normalize(rType)
	if rType == nil || rType.Kind() != reflect.Struct {
		return nil, errors.Errorf("unsupported domain type: %v", rType)
	}
	if ret, ok := l.Lookup(rType); ok {
		l.lookups.Count(metric.Hit)
		return ret, nil
	}
	l.lookups.Count(metric.Miss)
	if inFlight := chainOf(ctx); inFlight.contains(rType) {
		return nil, diag.NewStructuralError(introspect.TypeName(rType), "", "cyclic specification lookup: %v -> %v", inFlight, rType.String())
	}
	timeout := l.Timeout()
	results := l.group.DoChan(key(rType), func() (interface{}, error) {
		if ret, ok := l.Lookup(rType); ok {
			return ret, nil
		}
		buildCtx, cancel := context.WithTimeout(withChain(context.WithoutCancel(ctx), rType), timeout)
		defer cancel()
		return l.build(buildCtx, rType)
	})
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), "failed to load %v specification", introspect.TypeName(rType))
	case <-timer.C:
		return nil, errors.Wrapf(context.DeadlineExceeded, "failed to load %v specification within %v", introspect.TypeName(rType), timeout)
	case result := <-results:
		if result.Err != nil {
			return nil, result.Err
		}
		return result.Val.(*Specification), nil
	}
}

// Lookup returns published specification without building it
func (l *Loader) Lookup(rType reflect.Type) (*Specification, bool) {
	value, ok := l.cache.Load(normalize(rType))
	if !ok {
		return nil, false
	}
	return value.(*Specification), true
}

// Specifications returns published specifications ordered by name
func (l *Loader) Specifications() []*Specification {
	var ret []*Specification
	l.cache.Range(func(_, value any) bool {
		ret = append(ret, value.(*Specification))
		return true
	})
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].Name < ret[j].Name
	})
	return ret
}

// Invalidate drops specification of the type and of every type built on top of it
func (l *Loader) Invalidate(rType reflect.Type) {
	l.mux.Lock()
	defer l.mux.Unlock()
	l.generation.Add(1)
	pending := []reflect.Type{normalize(rType)}
	visited := map[reflect.Type]bool{}
	for len(pending) > 0 {
		current := pending[0]
		pending = pending[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		l.cache.Delete(current)
		l.report.Remove(introspect.TypeName(current))
		for dependant := range l.dependants[current] {
			pending = append(pending, dependant)
		}
		delete(l.dependants, current)
	}
	l.logger.Debug("invalidated specifications", "type", rType.String(), "count", len(visited))
}

// Reset drops every cached specification
func (l *Loader) Reset() {
	l.mux.Lock()
	defer l.mux.Unlock()
	l.generation.Add(1)
	l.cache.Range(func(key, _ any) bool {
		l.cache.Delete(key)
		return true
	})
	l.dependants = map[reflect.Type]map[reflect.Type]bool{}
	l.report.Reset()
}

// SetPipeline replaces facet factory pipeline and resets cache
func (l *Loader) SetPipeline(aPipeline *pipeline.Pipeline) {
	l.pipeline.Store(aPipeline)
	l.Reset()
}

// SetMetaAnnotations replaces annotation bundles and resets cache
func (l *Loader) SetMetaAnnotations(meta map[string]string) {
	l.meta.Store(&meta)
	l.Reset()
}

// SetTimeout replaces build timeout, builds already in flight keep their deadline
func (l *Loader) SetTimeout(timeout time.Duration) {
	l.timeout.Store(int64(timeout))
}

// Timeout returns build timeout
func (l *Loader) Timeout() time.Duration {
	return time.Duration(l.timeout.Load())
}

// Pipeline returns current pipeline
func (l *Loader) Pipeline() *pipeline.Pipeline {
	return l.pipeline.Load()
}

// Report returns metamodel validation report
func (l *Loader) Report() *diag.Report {
	return l.report
}

func (l *Loader) build(ctx context.Context, rType reflect.Type) (*Specification, error) {
	name := introspect.TypeName(rType)
	ctx = logging.WithTrace(ctx, name)
	generation := l.generation.Load()
	done := l.builds.Track()
	l.logger.Debugc(ctx, "building specification", "type", name)
	ret, failures, err := l.assemble(ctx, rType)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		done(metric.Failed)
		if diag.IsStructural(err) {
			l.logger.Errorc(ctx, "invalid specification", "type", name, "error", err.Error())
		} else {
			l.logger.Warnc(ctx, "failed to build specification", "type", name, "error", err.Error())
		}
		return nil, errors.Wrapf(err, "failed to build %v specification", name)
	}
	done(metric.Built)
	if len(failures) > 0 {
		l.logger.Warnc(ctx, "specification has validation failures", "type", name, "failures", len(failures))
	}
	l.publish(ret, generation)
	return ret, nil
}

func (l *Loader) publish(ret *Specification, generation uint64) {
	l.mux.Lock()
	defer l.mux.Unlock()
	if l.generation.Load() != generation {
		return
	}
	l.report.Put(ret.Name, ret.Failures)
	if ret.Super != nil {
		l.depend(ret.Super.Type, ret.Type)
	}
	l.cache.Store(ret.Type, ret)
}

func (l *Loader) depend(super, rType reflect.Type) {
	dependants, ok := l.dependants[super]
	if !ok {
		dependants = map[reflect.Type]bool{}
		l.dependants[super] = dependants
	}
	dependants[rType] = true
}

func (l *Loader) assemble(ctx context.Context, rType reflect.Type) (*Specification, []*diag.Failure, error) {
	aType, err := introspect.Introspect(rType, introspect.WithMixins(l.mixins[rType]...))
	if err != nil {
		return nil, nil, err
	}
	ret := &Specification{Type: rType, Name: aType.Name, index: map[string]int{}}
	var superHolder *facet.Holder
	if aType.Super != nil {
		if ret.Super, err = l.SpecFor(ctx, aType.Super); err != nil {
			return nil, nil, err
		}
		superHolder = ret.Super.Holder
	}
	aPipeline := l.pipeline.Load()
	ret.Holder = facet.NewHolder(aType.Name, facet.FeatureObject, superHolder)
	fCtx := factory.NewContext(aType, ret.Holder, l.types, *l.meta.Load())
	if err = aPipeline.ProcessType(ctx, &factory.TypeContext{Context: fCtx, Holder: ret.Holder}, ret.Holder); err != nil {
		return nil, nil, err
	}
	for _, source := range aType.Members {
		if _, ok := ret.index[source.ID]; ok {
			return nil, nil, diag.NewStructuralError(aType.Name, source.ID, "duplicate member id, declared by %v", source.Name)
		}
		member, err := l.member(ctx, aPipeline, fCtx, ret.Super, source)
		if err != nil {
			return nil, nil, err
		}
		ret.index[member.ID] = len(ret.Members)
		ret.Members = append(ret.Members, member)
	}
	for _, warning := range aType.Warnings {
		fCtx.Failures.Addf(aType.Name, warning.Member, "introspect", "%v", warning.Message)
	}
	ret.Failures = fCtx.Failures.Items()
	ret.Holder.Freeze()
	for _, member := range ret.Members {
		member.Holder.Freeze()
		for _, param := range member.Params {
			param.Holder.Freeze()
		}
	}
	return ret, ret.Failures, nil
}

func (l *Loader) member(ctx context.Context, aPipeline *pipeline.Pipeline, fCtx *factory.Context, super *Specification, source *introspect.Member) (*Member, error) {
	var inherited *Member
	if super != nil {
		inherited, _ = super.Member(source.ID)
	}
	var parent *facet.Holder
	if inherited != nil && inherited.Feature == source.Feature {
		parent = inherited.Holder
	}
	ret := &Member{
		ID:       source.ID,
		Name:     source.Name,
		Feature:  source.Feature,
		Holder:   facet.NewHolder(source.ID, source.Feature, parent),
		Source:   source,
		owner:    fCtx.Type.Type,
		accessor: newAccessor(fCtx.Type.Type, source),
	}
	if err := aPipeline.ProcessMember(ctx, &factory.MemberContext{Context: fCtx, Member: source, Holder: ret.Holder}, ret.Holder); err != nil {
		return nil, err
	}
	for _, param := range source.Params {
		var parentParam *facet.Holder
		if parent != nil {
			if candidate, ok := inherited.Param(param.Index); ok && candidate.Type == param.Type {
				parentParam = candidate.Holder
			}
		}
		holder := facet.NewHolder(param.ID, facet.FeatureActionParameter, parentParam)
		if err := aPipeline.ProcessMember(ctx, &factory.MemberContext{Context: fCtx, Member: source, Param: param, Holder: holder}, holder); err != nil {
			return nil, err
		}
		ret.Params = append(ret.Params, &Param{ID: param.ID, Index: param.Index, Type: param.Type, Holder: holder})
	}
	return ret, nil
}

func normalize(rType reflect.Type) reflect.Type {
	return introspect.Normalize(rType)
}

func key(rType reflect.Type) string {
	return fmt.Sprintf("%v:%v", rType.PkgPath(), rType.String())
}

// NewLoader creates specification loader
func NewLoader(opts ...Option) (*Loader, error) {
	o := newOptions(opts)
	ret := &Loader{
		types:      xreflect.NewTypes(),
		mixins:     o.mixins,
		logger:     o.logger,
		report:     o.report,
		lookups:    o.metrics.Counter(metric.SpecLookup),
		builds:     o.metrics.Counter(metric.SpecBuild),
		dependants: map[reflect.Type]map[reflect.Type]bool{},
	}
	if ret.mixins == nil {
		ret.mixins = map[reflect.Type][]reflect.Type{}
	}
	meta := o.meta
	if meta == nil {
		meta = map[string]string{}
	}
	ret.meta.Store(&meta)
	ret.timeout.Store(int64(o.timeout))
	ret.pipeline.Store(o.pipeline)
	for _, rType := range o.types {
		rType = normalize(rType)
		if err := ret.types.Register(rType.Name(), xreflect.WithReflectType(rType)); err != nil {
			return nil, errors.Wrapf(err, "failed to register domain type %v", rType.String())
		}
	}
	return ret, nil
}

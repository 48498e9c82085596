package metamodel

import (
	"context"
	_ "embed"
	"github.com/pkg/errors"
	furl "github.com/viant/afs/url"
	"github.com/viant/gmetric"
	"github.com/viant/metamodel/config"
	"github.com/viant/metamodel/consent"
	"github.com/viant/metamodel/diag"
	"github.com/viant/metamodel/facet"
	"github.com/viant/metamodel/factory"
	"github.com/viant/metamodel/interaction"
	"github.com/viant/metamodel/logging"
	"github.com/viant/metamodel/metric"
	"github.com/viant/metamodel/pipeline"
	"github.com/viant/metamodel/reload"
	"github.com/viant/metamodel/spec"
	"github.com/viant/metamodel/warmup"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

//go:embed Version
var Version string

type (
	// Service wires configuration, factory pipeline, specification loader and consent evaluator
	Service struct {
		config    *config.Config
		meta      map[string]string
		registry  *factory.Registry
		loader    *spec.Loader
		evaluator *consent.Evaluator
		logger    *logging.Logger
		metrics   *metric.Service
		mux       sync.Mutex
		watcher   *reload.Watcher
	}

	options struct {
		registry *factory.Registry
		types    []reflect.Type
		mixins   map[reflect.Type][]reflect.Type
		meta     map[string]string
		logger   *logging.Logger
		metrics  *gmetric.Service
	}

	// Option represents service option
	Option func(o *options)
)

// WithRegistry sets facet factory registry
func WithRegistry(registry *factory.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithTypes registers domain types
func WithTypes(types ...reflect.Type) Option {
	return func(o *options) {
		o.types = append(o.types, types...)
	}
}

// WithMixins registers mixins keyed by target type
func WithMixins(mixins map[reflect.Type][]reflect.Type) Option {
	return func(o *options) {
		if o.mixins == nil {
			o.mixins = map[reflect.Type][]reflect.Type{}
		}
		for target, candidates := range mixins {
			o.mixins[target] = append(o.mixins[target], candidates...)
		}
	}
}

// WithMetaAnnotations sets default annotation bundles, configuration bundles of the same name win
func WithMetaAnnotations(meta map[string]string) Option {
	return func(o *options) {
		if o.meta == nil {
			o.meta = map[string]string{}
		}
		for name, value := range meta {
			o.meta[name] = value
		}
	}
}

// WithLogger sets logger
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets gmetric service
func WithMetrics(metrics *gmetric.Service) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}

// Types returns domain types registered with the options
func Types(opts ...Option) []reflect.Type {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o.types
}

// SpecFor returns domain type specification
func (s *Service) SpecFor(ctx context.Context, rType reflect.Type) (*spec.Specification, error) {
	return s.loader.SpecFor(ctx, rType)
}

// Holder returns object holder for empty id, member holder for member id or parameter holder for action#index
func (s *Service) Holder(ctx context.Context, rType reflect.Type, id string) (facet.Reader, error) {
	aSpec, err := s.loader.SpecFor(ctx, rType)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return aSpec.Holder, nil
	}
	memberID, index := id, -1
	if pos := strings.LastIndex(id, "#"); pos != -1 {
		memberID = id[:pos]
		if index, err = strconv.Atoi(id[pos+1:]); err != nil {
			return nil, errors.Wrapf(err, "invalid parameter id %v", id)
		}
	}
	member, ok := aSpec.Member(memberID)
	if !ok {
		return nil, errors.Errorf("unknown member %v.%v", aSpec.Name, memberID)
	}
	if index == -1 {
		return member.Holder, nil
	}
	param, ok := member.Param(index)
	if !ok {
		return nil, errors.Errorf("unknown parameter %v.%v", aSpec.Name, id)
	}
	return param.Holder, nil
}

// Evaluate returns consent for a member interaction
func (s *Service) Evaluate(ctx context.Context, kind interaction.Kind, rType reflect.Type, id string, iCtx *interaction.Context) (*consent.Consent, error) {
	holder, err := s.Holder(ctx, rType, id)
	if err != nil {
		return nil, err
	}
	return s.evaluator.Evaluate(kind, holder, iCtx), nil
}

// Validate checks member values and the target object as a whole
func (s *Service) Validate(ctx context.Context, iCtx *interaction.Context) (*consent.Consent, error) {
	if iCtx == nil || iCtx.Target == nil {
		return nil, errors.New("validation target was nil")
	}
	aSpec, err := s.loader.SpecFor(ctx, reflect.TypeOf(iCtx.Target))
	if err != nil {
		return nil, err
	}
	return aSpec.Validate(s.evaluator, iCtx), nil
}

// Warmup builds specifications ahead of use
func (s *Service) Warmup(ctx context.Context, types ...reflect.Type) (int, error) {
	return warmup.PopulateSpecs(ctx, s.loader, types...)
}

// Report returns metamodel validation report
func (s *Service) Report() *diag.Report {
	return s.loader.Report()
}

// Loader returns specification loader
func (s *Service) Loader() *spec.Loader {
	return s.loader
}

// Evaluator returns consent evaluator
func (s *Service) Evaluator() *consent.Evaluator {
	return s.evaluator
}

// Config returns current configuration
func (s *Service) Config() *config.Config {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.config
}

// Reload applies configuration, the whole specification cache is dropped
func (s *Service) Reload(cfg *config.Config) error {
	cfg.Init()
	mergeMeta(cfg, s.meta)
	if err := cfg.Validate(s.registry); err != nil {
		return err
	}
	aPipeline, err := pipeline.NewFromNames(s.registry, cfg.Factories...)
	if err != nil {
		return err
	}
	s.mux.Lock()
	s.config = cfg
	s.mux.Unlock()
	s.loader.SetTimeout(cfg.BuildTimeout())
	s.loader.SetMetaAnnotations(cfg.MetaAnnotations)
	s.loader.SetPipeline(aPipeline)
	return nil
}

// Watch reloads configuration whenever the file changes
func (s *Service) Watch(ctx context.Context, URL string) error {
	cfg := s.Config()
	watcher, err := reload.New(localPath(URL), cfg.ReloadDebounce(), func(ctx context.Context, path string) error {
		changed, err := config.NewConfigFromURL(ctx, path)
		if err != nil {
			return err
		}
		return s.Reload(changed)
	}, s.logger)
	if err != nil {
		return err
	}
	if err = watcher.Start(ctx); err != nil {
		watcher.Stop()
		return err
	}
	s.mux.Lock()
	previous := s.watcher
	s.watcher = watcher
	s.mux.Unlock()
	if previous != nil {
		previous.Stop()
	}
	return nil
}

func mergeMeta(cfg *config.Config, defaults map[string]string) {
	for name, value := range defaults {
		if _, ok := cfg.MetaAnnotations[name]; !ok {
			cfg.MetaAnnotations[name] = value
		}
	}
}

func localPath(URL string) string {
	if strings.Contains(URL, "://") {
		return furl.Path(URL)
	}
	return URL
}

// Close stops configuration watching
func (s *Service) Close() {
	s.mux.Lock()
	watcher := s.watcher
	s.watcher = nil
	s.mux.Unlock()
	if watcher != nil {
		watcher.Stop()
	}
}

// New creates a metamodel service
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Service, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg.Init()
	mergeMeta(cfg, o.meta)
	if o.registry == nil {
		o.registry = factory.NewRegistry()
	}
	if err := cfg.Validate(o.registry); err != nil {
		return nil, err
	}
	if o.logger == nil {
		o.logger = logging.New(cfg.LogLevel, nil)
	}
	if o.metrics == nil {
		o.metrics = gmetric.New()
	}
	metrics := metric.NewService(o.metrics)
	aPipeline, err := pipeline.NewFromNames(o.registry, cfg.Factories...)
	if err != nil {
		return nil, err
	}
	loaderOptions := []spec.Option{
		spec.WithTypes(o.types...),
		spec.WithPipeline(aPipeline),
		spec.WithMetaAnnotations(cfg.MetaAnnotations),
		spec.WithTimeout(cfg.BuildTimeout()),
		spec.WithLogger(o.logger),
		spec.WithMetrics(metrics),
	}
	for target, mixins := range o.mixins {
		loaderOptions = append(loaderOptions, spec.WithMixin(target, mixins...))
	}
	loader, err := spec.NewLoader(loaderOptions...)
	if err != nil {
		return nil, err
	}
	ret := &Service{
		config:    cfg,
		meta:      o.meta,
		registry:  o.registry,
		loader:    loader,
		evaluator: consent.New(consent.WithLogger(o.logger), consent.WithMetrics(metrics)),
		logger:    o.logger,
		metrics:   metrics,
	}
	o.logger.Infoc(ctx, "metamodel service created", "version", strings.TrimSpace(Version), "factories", len(aPipeline.Factories()))
	return ret, nil
}

// Metrics returns metric service
func (s *Service) Metrics() *metric.Service {
	return s.metrics
}

package spec

import (
	"github.com/viant/metamodel/diag"
	"github.com/viant/metamodel/logging"
	"github.com/viant/metamodel/metric"
	"github.com/viant/metamodel/pipeline"
	"reflect"
	"time"
)

// DefaultTimeout limits single specification build
const DefaultTimeout = 10 * time.Second

type (
	// Option represents loader option
	Option  func(o *options)
	options struct {
		types    []reflect.Type
		mixins   map[reflect.Type][]reflect.Type
		meta     map[string]string
		timeout  time.Duration
		logger   *logging.Logger
		metrics  *metric.Service
		report   *diag.Report
		pipeline *pipeline.Pipeline
	}
)

// WithTypes registers domain types resolvable by name in typeOf and domainEvent annotations
func WithTypes(types ...reflect.Type) Option {
	return func(o *options) {
		o.types = append(o.types, types...)
	}
}

// WithMixin registers mixins contributing members to the target type
func WithMixin(target reflect.Type, mixins ...reflect.Type) Option {
	return func(o *options) {
		if o.mixins == nil {
			o.mixins = map[reflect.Type][]reflect.Type{}
		}
		target = normalize(target)
		o.mixins[target] = append(o.mixins[target], mixins...)
	}
}

// WithMetaAnnotations sets named annotation bundles
func WithMetaAnnotations(meta map[string]string) Option {
	return func(o *options) {
		o.meta = meta
	}
}

// WithTimeout sets build timeout
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithLogger sets logger
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets metric service
func WithMetrics(metrics *metric.Service) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}

// WithReport sets shared validation report
func WithReport(report *diag.Report) Option {
	return func(o *options) {
		o.report = report
	}
}

// WithPipeline sets facet factory pipeline
func WithPipeline(pipeline *pipeline.Pipeline) Option {
	return func(o *options) {
		o.pipeline = pipeline
	}
}

func newOptions(opts []Option) *options {
	ret := &options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.timeout <= 0 {
		ret.timeout = DefaultTimeout
	}
	if ret.logger == nil {
		ret.logger = logging.Nop()
	}
	if ret.report == nil {
		ret.report = diag.NewReport()
	}
	if ret.pipeline == nil {
		ret.pipeline = pipeline.Default()
	}
	return ret
}

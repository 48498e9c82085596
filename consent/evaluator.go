package consent

import (
	"context"
	"fmt"
	"github.com/viant/metamodel/facet"
	"github.com/viant/metamodel/interaction"
	"github.com/viant/metamodel/logging"
	"github.com/viant/metamodel/metric"
	"sort"
	"sync"
)

type (
	// Advisor represents global consent contributor evaluated after holder facets,
	// it returns non empty reason to veto
	Advisor interface {
		Advise(holder facet.Reader, ctx *interaction.Context) string
	}

	// AdvisorFunc adapts a function to Advisor
	AdvisorFunc func(holder facet.Reader, ctx *interaction.Context) string

	// Evaluator computes visibility, usability and validity verdicts
	Evaluator struct {
		mux      sync.RWMutex
		advisors map[interaction.Kind][]Advisor
		logger   *logging.Logger
		counter  *metric.Counter
	}

	// Option represents evaluator option
	Option func(e *Evaluator)

	advice func(ctx *interaction.Context) string
)

func (f AdvisorFunc) Advise(holder facet.Reader, ctx *interaction.Context) string {
	return f(holder, ctx)
}

// WithLogger sets evaluator logger
func WithLogger(logger *logging.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithMetrics sets evaluator metrics
func WithMetrics(metrics *metric.Service) Option {
	return func(e *Evaluator) {
		e.counter = metrics.Counter(metric.Consent)
	}
}

// Register adds global advisor for interaction kind
func (e *Evaluator) Register(kind interaction.Kind, advisor Advisor) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	if advisor == nil {
		return fmt.Errorf("advisor was nil")
	}
	e.mux.Lock()
	defer e.mux.Unlock()
	e.advisors[kind] = append(e.advisors[kind], advisor)
	return nil
}

// Visible evaluates visibility
func (e *Evaluator) Visible(holder facet.Reader, ctx *interaction.Context) *Consent {
	return e.Evaluate(interaction.Visibility, holder, ctx)
}

// Usable evaluates usability
func (e *Evaluator) Usable(holder facet.Reader, ctx *interaction.Context) *Consent {
	return e.Evaluate(interaction.Usability, holder, ctx)
}

// Valid evaluates validity of proposed value or action arguments
func (e *Evaluator) Valid(holder facet.Reader, ctx *interaction.Context) *Consent {
	return e.Evaluate(interaction.Validity, holder, ctx)
}

// Evaluate runs holder advisors of a kind, static facets go before dynamic ones.
// Visibility and usability stop at the first veto, validity collects all reasons.
func (e *Evaluator) Evaluate(kind interaction.Kind, holder facet.Reader, ctx *interaction.Context) *Consent {
	if err := kind.Validate(); err != nil {
		return e.done(Veto(err.Error()))
	}
	if holder == nil {
		return e.done(Veto("No such member"))
	}
	if ctx == nil {
		ctx = interaction.NewContext()
	}
	ret := Allow()
	exhaustive := kind.Exhaustive()
	for _, adv := range e.advices(kind, holder) {
		reason := e.advise(holder, ctx, adv)
		if reason == "" {
			continue
		}
		ret.add(reason)
		if !exhaustive {
			break
		}
	}
	return e.done(ret)
}

func (e *Evaluator) done(ret *Consent) *Consent {
	if ret.Allowed() {
		e.counter.Count(metric.Allowed)
	} else {
		e.counter.Count(metric.Vetoed)
	}
	return ret
}

func (e *Evaluator) advise(holder facet.Reader, ctx *interaction.Context, adv advice) (reason string) {
	defer func() {
		if r := recover(); r != nil {
			reason = fmt.Sprintf("Internal error: %v", r)
			e.logger.Errorc(logging.WithTrace(context.Background(), ctx.ID), "consent advisor panicked", "holder", holder.ID(), "error", fmt.Sprint(r))
		}
	}()
	return adv(ctx)
}

func (e *Evaluator) advices(kind interaction.Kind, holder facet.Reader) []advice {
	var ret []advice
	for _, candidate := range participants(kind, holder) {
		switch kind {
		case interaction.Visibility:
			ret = append(ret, candidate.(facet.Hider).Hides)
		case interaction.Usability:
			ret = append(ret, candidate.(facet.Disabler).Disables)
		case interaction.Validity:
			ret = append(ret, candidate.(facet.Validator).Invalidates)
		}
	}
	e.mux.RLock()
	for _, advisor := range e.advisors[kind] {
		advisor := advisor
		ret = append(ret, func(ctx *interaction.Context) string { return advisor.Advise(holder, ctx) })
	}
	e.mux.RUnlock()
	return ret
}

func participants(kind interaction.Kind, holder facet.Reader) []facet.Facet {
	var ret []facet.Facet
	for _, candidate := range holder.Facets() {
		var ok bool
		switch kind {
		case interaction.Visibility:
			_, ok = candidate.(facet.Hider)
		case interaction.Usability:
			_, ok = candidate.(facet.Disabler)
		case interaction.Validity:
			_, ok = candidate.(facet.Validator)
		}
		if ok {
			ret = append(ret, candidate)
		}
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return !facet.IsDynamic(ret[i]) && facet.IsDynamic(ret[j])
	})
	return ret
}

// Order returns kinds of holder facets taking part in evaluation, in evaluation order
func Order(kind interaction.Kind, holder facet.Reader) []facet.Kind {
	candidates := participants(kind, holder)
	ret := make([]facet.Kind, len(candidates))
	for i, candidate := range candidates {
		ret[i] = candidate.Kind()
	}
	return ret
}

// New creates an evaluator
func New(opts ...Option) *Evaluator {
	ret := &Evaluator{advisors: map[interaction.Kind][]Advisor{}, logger: logging.Nop()}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

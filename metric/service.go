package metric

import (
	"github.com/viant/gmetric"
	"github.com/viant/gmetric/provider"
	"reflect"
	"sync"
	"time"
)

// Event represents counted outcome
type Event string

const (
	Hit     Event = "Hit"
	Miss    Event = "Miss"
	Built   Event = "Built"
	Failed  Event = "Failed"
	Allowed Event = "Allowed"
	Vetoed  Event = "Vetoed"
)

const (
	SpecBuild  = "metamodel.spec.build"
	SpecLookup = "metamodel.spec.lookup"
	Consent    = "metamodel.consent"
)

type location struct{}

// Service creates and caches operation counters
type Service struct {
	metrics  *gmetric.Service
	mux      sync.Mutex
	counters map[string]*Counter
}

// Metrics returns underlying gmetric service
func (s *Service) Metrics() *gmetric.Service {
	if s == nil {
		return nil
	}
	return s.metrics
}

// Counter returns named counter, nil service returns no-op counter
func (s *Service) Counter(name string) *Counter {
	if s == nil || s.metrics == nil {
		return newCounter(nil)
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if ret, ok := s.counters[name]; ok {
		return ret
	}
	var aCounter operation
	if cnt := s.metrics.LookupOperation(name); cnt != nil {
		aCounter = cnt
	} else {
		aCounter = s.metrics.MultiOperationCounter(reflect.TypeOf(location{}).PkgPath(), name, name+" performance", time.Millisecond, time.Minute, 2, provider.NewBasic())
	}
	ret := newCounter(aCounter)
	s.counters[name] = ret
	return ret
}

// NewService creates metric service
func NewService(metrics *gmetric.Service) *Service {
	return &Service{metrics: metrics, counters: map[string]*Counter{}}
}

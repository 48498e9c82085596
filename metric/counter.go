package metric

import (
	"github.com/viant/gmetric/counter"
	"time"
)

type operation interface {
	Begin(started time.Time) counter.OnDone
	IncrementValue(value interface{}) int64
}

// Counter records metamodel events, nil counter or missing operation records nothing
type Counter struct {
	operation operation
}

// Count records event occurrence, returns the event total
func (c *Counter) Count(event Event) int64 {
	if c == nil || c.operation == nil {
		return 0
	}
	return c.operation.IncrementValue(event)
}

// Track starts timing an operation, the returned function records elapsed time with the outcome
func (c *Counter) Track() func(outcome Event) {
	if c == nil || c.operation == nil {
		return func(Event) {}
	}
	onDone := c.operation.Begin(time.Now())
	return func(outcome Event) {
		onDone(time.Now(), outcome)
	}
}

func newCounter(operation operation) *Counter {
	return &Counter{operation: operation}
}

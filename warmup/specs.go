package warmup

import (
	"context"
	"github.com/viant/metamodel/introspect"
	"github.com/viant/metamodel/spec"
	"reflect"
	"sort"
	"strings"
)

type notifierFn func() (string, error)

// Loader represents specification source
type Loader interface {
	SpecFor(ctx context.Context, rType reflect.Type) (*spec.Specification, error)
}

// Error lists types whose specifications could not be built, ordered by type name
type Error struct {
	Types  []string
	Errors []error
}

func (e *Error) Error() string {
	sb := strings.Builder{}
	sb.WriteString("failed to populate specifications")
	for i, name := range e.Types {
		sb.WriteString("; ")
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(e.Errors[i].Error())
	}
	return sb.String()
}

// Unwrap returns build errors
func (e *Error) Unwrap() []error {
	return e.Errors
}

func (e *Error) Len() int           { return len(e.Types) }
func (e *Error) Less(i, j int) bool { return e.Types[i] < e.Types[j] }
func (e *Error) Swap(i, j int) {
	e.Types[i], e.Types[j] = e.Types[j], e.Types[i]
	e.Errors[i], e.Errors[j] = e.Errors[j], e.Errors[i]
}

// PopulateSpecs builds specifications of the types in parallel, returns number of built specifications
func PopulateSpecs(ctx context.Context, loader Loader, types ...reflect.Type) (int, error) {
	if len(types) == 0 {
		return 0, nil
	}
	notifier := make(chan notifierFn, len(types))
	for i := range types {
		go populate(ctx, loader, types[i], notifier)
	}
	built := 0
	failed := &Error{}
	for i := 0; i < len(types); i++ {
		fn := <-notifier
		if name, err := fn(); err != nil {
			failed.Types = append(failed.Types, name)
			failed.Errors = append(failed.Errors, err)
			continue
		}
		built++
	}
	if failed.Len() == 0 {
		return built, nil
	}
	sort.Sort(failed)
	return built, failed
}

func populate(ctx context.Context, loader Loader, rType reflect.Type, notifier chan notifierFn) {
	_, err := loader.SpecFor(ctx, rType)
	notifier <- func() (string, error) {
		return introspect.TypeName(rType), err
	}
}

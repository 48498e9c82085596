package diag

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

type (
	// Failure represents recoverable metamodel validation failure
	Failure struct {
		Type    string
		Member  string
		Factory string
		Message string
	}

	// Failures collects failures of one specification build
	Failures struct {
		items []*Failure
	}

	// Report aggregates failures across specifications
	Report struct {
		mux    sync.RWMutex
		byType map[string][]*Failure
	}
)

func (f *Failure) String() string {
	location := f.Type
	if f.Member != "" {
		location += "#" + f.Member
	}
	if f.Factory != "" {
		return fmt.Sprintf("%v: %v (%v)", location, f.Message, f.Factory)
	}
	return fmt.Sprintf("%v: %v", location, f.Message)
}

// Add appends a failure
func (f *Failures) Add(failure *Failure) {
	f.items = append(f.items, failure)
}

// Addf appends formatted failure
func (f *Failures) Addf(typeName, member, factory, format string, args ...interface{}) {
	f.Add(&Failure{Type: typeName, Member: member, Factory: factory, Message: fmt.Sprintf(format, args...)})
}

// Items returns collected failures
func (f *Failures) Items() []*Failure {
	if f == nil {
		return nil
	}
	return f.items
}

// Len returns failures count
func (f *Failures) Len() int {
	if f == nil {
		return 0
	}
	return len(f.items)
}

// Put replaces failures reported for a type
func (r *Report) Put(typeName string, failures []*Failure) {
	r.mux.Lock()
	defer r.mux.Unlock()
	if len(failures) == 0 {
		delete(r.byType, typeName)
		return
	}
	r.byType[typeName] = failures
}

// Remove drops failures for a type
func (r *Report) Remove(typeName string) {
	r.mux.Lock()
	defer r.mux.Unlock()
	delete(r.byType, typeName)
}

// Reset drops all failures
func (r *Report) Reset() {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.byType = map[string][]*Failure{}
}

// Failures returns all failures ordered by type
func (r *Report) Failures() []*Failure {
	r.mux.RLock()
	defer r.mux.RUnlock()
	var types []string
	for typeName := range r.byType {
		types = append(types, typeName)
	}
	sort.Strings(types)
	var ret []*Failure
	for _, typeName := range types {
		ret = append(ret, r.byType[typeName]...)
	}
	return ret
}

// Len returns failures count
func (r *Report) Len() int {
	r.mux.RLock()
	defer r.mux.RUnlock()
	ret := 0
	for _, failures := range r.byType {
		ret += len(failures)
	}
	return ret
}

// Error renders report, returns empty when no failures
func (r *Report) Error() string {
	failures := r.Failures()
	if len(failures) == 0 {
		return ""
	}
	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("metamodel validation failed with %v issue(s):", len(failures)))
	for _, failure := range failures {
		builder.WriteString("\n  ")
		builder.WriteString(failure.String())
	}
	return builder.String()
}

// NewReport creates a report
func NewReport() *Report {
	return &Report{byType: map[string][]*Failure{}}
}

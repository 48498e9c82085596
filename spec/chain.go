package spec

import (
	"context"
	"reflect"
	"strings"
)

type chainKey struct{}

// chain lists types being built by the current call path, outermost first
type chain []reflect.Type

func (c chain) contains(rType reflect.Type) bool {
	for _, candidate := range c {
		if candidate == rType {
			return true
		}
	}
	return false
}

func (c chain) String() string {
	names := make([]string, 0, len(c))
	for _, rType := range c {
		names = append(names, rType.String())
	}
	return strings.Join(names, " -> ")
}

func chainOf(ctx context.Context) chain {
	ret, _ := ctx.Value(chainKey{}).(chain)
	return ret
}

func withChain(ctx context.Context, rType reflect.Type) context.Context {
	parent := chainOf(ctx)
	next := make(chain, len(parent), len(parent)+1)
	copy(next, parent)
	return context.WithValue(ctx, chainKey{}, append(next, rType))
}

// Package hooks provides typed wrappers over element.Context.
//
// The wrappers only convert values; ordering rules are those of the
// underlying hooks. Call them unconditionally and in the same order on
// every render:
//
//	var Counter = element.Define("Counter", func(ctx element.Context, _ element.Props) element.Node {
//	    count, setCount := hooks.UseState(ctx, 0)
//	    return element.Create("button", element.Props{
//	        "onClick": func() { setCount.Update(func(n int) int { return n + 1 }) },
//	    }, count)
//	})
package hooks

import "github.com/go-drift/fiber/pkg/element"

// Setter updates a state hook of type T.
type Setter[T any] struct {
	dispatch element.Dispatch
}

// Set queues v as the next state.
func (s Setter[T]) Set(v T) {
	s.dispatch(func(any) any { return v })
}

// Update queues fn to compute the next state from the previous one.
func (s Setter[T]) Update(fn func(prev T) T) {
	s.dispatch(func(prev any) any { return fn(as[T](prev)) })
}

// Dispatch returns the untyped dispatch function.
func (s Setter[T]) Dispatch() element.Dispatch {
	return s.dispatch
}

// UseState returns the current state and a stable setter.
func UseState[T any](ctx element.Context, initial T) (T, Setter[T]) {
	state, dispatch := ctx.UseState(func() any { return initial })
	return as[T](state), Setter[T]{dispatch: dispatch}
}

// UseReducer returns the current state and a stable function dispatching
// actions through reducer.
func UseReducer[S, A any](ctx element.Context, reducer func(state S, action A) S, initial S) (S, func(A)) {
	state, dispatch := ctx.UseReducer(func(state, action any) any {
		return reducer(as[S](state), as[A](action))
	}, func() any { return initial })
	return as[S](state), func(action A) { dispatch(action) }
}

// UseEffect runs create after commit whenever deps change. Pass nil deps
// to run after every commit, or Deps() to run once after mount.
func UseEffect(ctx element.Context, create func() func(), deps []any) {
	ctx.UseEffect(element.EffectFunc(create), deps)
}

// Deps builds a dependency list. Deps() with no values is empty but not
// nil.
func Deps(values ...any) []any {
	if values == nil {
		return []any{}
	}
	return values
}

// UseTransition returns whether a transition is pending and a stable
// function starting one.
func UseTransition(ctx element.Context) (bool, func(callback func())) {
	return ctx.UseTransition()
}

// UseRef returns a ref stable across renders, initialized to initial.
func UseRef[T any](ctx element.Context, initial T) *element.Ref {
	return ctx.UseRef(initial)
}

// Current returns ref.Current as T, or the zero value when it holds
// something else.
func Current[T any](ref *element.Ref) T {
	if ref == nil {
		var zero T
		return zero
	}
	return as[T](ref.Current)
}

func as[T any](v any) T {
	t, _ := v.(T)
	return t
}

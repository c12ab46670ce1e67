package element

// RenderFunc renders a function component for the given props.
type RenderFunc func(ctx Context, props Props) Node

// Component is a named function component. Components compare by pointer,
// so define each one once, typically as a package-level variable.
type Component struct {
	name   string
	render RenderFunc
}

// Define creates a function component.
func Define(name string, render RenderFunc) *Component {
	if render == nil {
		panic("element: Define requires a render function")
	}
	return &Component{name: name, render: render}
}

// Name returns the component's display name.
func (c *Component) Name() string {
	if c.name == "" {
		return "Anonymous"
	}
	return c.name
}

// Render invokes the component's render function.
func (c *Component) Render(ctx Context, props Props) Node {
	return c.render(ctx, props)
}

// Dispatch queues a state transition. The action is either the next value
// or an updater of type func(any) any applied to the previous state.
type Dispatch func(action any)

// EffectFunc runs after commit and may return a cleanup function.
type EffectFunc func() (destroy func())

// Context is the hook surface handed to a component for exactly one render.
// Hooks must be called in the same order on every render of a component,
// and a Context must not be used after its render returns.
type Context interface {
	// UseState returns the current state and a stable dispatch function.
	// An initial value of type func() any is invoked once to produce the
	// initial state.
	UseState(initial any) (any, Dispatch)

	// UseReducer is UseState with actions folded through reducer.
	UseReducer(reducer func(state, action any) any, initial any) (any, Dispatch)

	// UseEffect schedules create to run after commit when deps changed.
	// A nil deps slice re-runs the effect after every commit; an empty
	// slice runs it once after mount.
	UseEffect(create EffectFunc, deps []any)

	// UseTransition returns whether a transition is pending and a stable
	// function that runs its callback with updates marked as transitions.
	UseTransition() (bool, func(callback func()))

	// UseRef returns a ref that is stable across renders.
	UseRef(initial any) *Ref
}

// Ref is a mutable box. When passed as an element's "ref" prop, the
// reconciler stores the host instance in Current after commit and clears it
// when the instance is removed.
type Ref struct {
	Current any
}

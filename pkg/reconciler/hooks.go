package reconciler

import (
	"math"
	"reflect"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/lane"
)

// hook is one entry in a function component's hook list.
type hook struct {
	memoizedState any
	updateQueue   *UpdateQueue
	baseState     any
	baseQueue     *StateUpdate
	next          *hook
}

// EffectTag classifies an effect record.
type EffectTag uint8

const (
	// HookHasEffect marks an effect whose deps changed this render.
	HookHasEffect EffectTag = 1 << 0
	// HookPassive marks an effect run by the passive flush.
	HookPassive EffectTag = 1 << 1
)

// Effect is one UseEffect record. Effects of a fiber form a circular list.
type Effect struct {
	Tag     EffectTag
	Create  element.EffectFunc
	Destroy func()
	Deps    []any
	next    *Effect
}

// dispatcher implements the hooks for one phase of a component's life.
type dispatcher interface {
	useReducer(r *hookRenderer, name string, reducer func(state, action any) any, initial any) (any, element.Dispatch)
	useEffect(r *hookRenderer, create element.EffectFunc, deps []any)
	useTransition(r *hookRenderer) (bool, func(callback func()))
	useRef(r *hookRenderer, initial any) *element.Ref
}

type (
	mountDispatcher  struct{}
	updateDispatcher struct{}
)

// hookRenderer is the element.Context of one component render.
type hookRenderer struct {
	rec        *Reconciler
	fiber      *Fiber
	current    *Fiber
	renderLane lane.Lane
	dispatcher dispatcher
	component  string

	workInProgressHook *hook
	currentHook        *hook
	done               bool
}

var _ element.Context = (*hookRenderer)(nil)

// renderWithHooks runs a function component's render for wip.
func (r *Reconciler) renderWithHooks(wip *Fiber, comp *element.Component, renderLane lane.Lane) element.Node {
	h := &hookRenderer{
		rec:        r,
		fiber:      wip,
		current:    wip.Alternate,
		renderLane: renderLane,
		component:  comp.Name(),
	}
	wip.MemoizedState = nil
	wip.UpdateQueue = nil
	if h.current != nil {
		h.dispatcher = updateDispatcher{}
	} else {
		h.dispatcher = mountDispatcher{}
	}
	defer func() { h.done = true }()

	children := comp.Render(h, wip.PendingProps)

	if h.current != nil {
		var remaining *hook
		if h.currentHook == nil {
			remaining, _ = h.current.MemoizedState.(*hook)
		} else {
			remaining = h.currentHook.next
		}
		if remaining != nil {
			panic(&errors.HookError{Component: h.component, Hook: "render", Err: errors.ErrTooFewHooks})
		}
	}
	return children
}

func (h *hookRenderer) enter(name string) {
	if h.done {
		panic(&errors.HookError{Component: h.component, Hook: name, Err: errors.ErrHookOutsideComponent})
	}
}

func (h *hookRenderer) UseState(initial any) (any, element.Dispatch) {
	h.enter("UseState")
	return h.dispatcher.useReducer(h, "UseState", basicStateReducer, initial)
}

func (h *hookRenderer) UseReducer(reducer func(state, action any) any, initial any) (any, element.Dispatch) {
	h.enter("UseReducer")
	return h.dispatcher.useReducer(h, "UseReducer", reducer, initial)
}

func (h *hookRenderer) UseEffect(create element.EffectFunc, deps []any) {
	h.enter("UseEffect")
	h.dispatcher.useEffect(h, create, deps)
}

func (h *hookRenderer) UseTransition() (bool, func(callback func())) {
	h.enter("UseTransition")
	return h.dispatcher.useTransition(h)
}

func (h *hookRenderer) UseRef(initial any) *element.Ref {
	h.enter("UseRef")
	return h.dispatcher.useRef(h, initial)
}

func (h *hookRenderer) mountWorkInProgressHook() *hook {
	hk := &hook{}
	if h.workInProgressHook == nil {
		h.fiber.MemoizedState = hk
	} else {
		h.workInProgressHook.next = hk
	}
	h.workInProgressHook = hk
	return hk
}

// updateWorkInProgressHook clones the next hook of the committed render.
func (h *hookRenderer) updateWorkInProgressHook(name string) *hook {
	var next *hook
	if h.currentHook == nil {
		next, _ = h.current.MemoizedState.(*hook)
	} else {
		next = h.currentHook.next
	}
	if next == nil {
		panic(&errors.HookError{Component: h.component, Hook: name, Err: errors.ErrTooManyHooks})
	}
	h.currentHook = next

	hk := &hook{
		memoizedState: next.memoizedState,
		updateQueue:   next.updateQueue,
		baseState:     next.baseState,
		baseQueue:     next.baseQueue,
	}
	if h.workInProgressHook == nil {
		h.fiber.MemoizedState = hk
	} else {
		h.workInProgressHook.next = hk
	}
	h.workInProgressHook = hk
	return hk
}

// hookValue asserts the type of a hook's memoized state, which only fails
// when hooks were called in a different order than last render.
func hookValue[T any](h *hookRenderer, name string, v any) T {
	t, ok := v.(T)
	if !ok {
		panic(&errors.HookError{Component: h.component, Hook: name, Err: errors.ErrHookOrderChanged})
	}
	return t
}

func (mountDispatcher) useReducer(h *hookRenderer, _ string, reducer func(state, action any) any, initial any) (any, element.Dispatch) {
	hk := h.mountWorkInProgressHook()
	state := initial
	if init, ok := initial.(func() any); ok {
		state = init()
	}
	hk.memoizedState = state
	hk.baseState = state

	queue := createUpdateQueue()
	queue.reducer = reducer
	hk.updateQueue = queue

	rec, fiber := h.rec, h.fiber
	queue.Dispatch = func(action any) {
		rec.dispatchSetState(fiber, queue, action)
	}
	return state, queue.Dispatch
}

func (updateDispatcher) useReducer(h *hookRenderer, name string, reducer func(state, action any) any, _ any) (any, element.Dispatch) {
	hk := h.updateWorkInProgressHook(name)
	queue := hk.updateQueue
	if queue == nil || queue.Dispatch == nil {
		panic(&errors.HookError{Component: h.component, Hook: name, Err: errors.ErrHookOrderChanged})
	}
	// The latest reducer wins so closures over props stay fresh.
	queue.reducer = reducer

	current := h.currentHook
	pending := queue.Shared.Pending
	baseQueue := mergeQueues(current.baseQueue, pending)
	if pending != nil {
		// Kept on the committed hook so an abandoned render loses nothing.
		current.baseQueue = baseQueue
		queue.Shared.Pending = nil
	}

	if baseQueue != nil {
		result := processUpdateQueueWith(reducer, current.baseState, baseQueue, h.renderLane)
		hk.memoizedState = result.MemoizedState
		hk.baseState = result.BaseState
		hk.baseQueue = result.BaseQueue
	}
	return hk.memoizedState, queue.Dispatch
}

func (mountDispatcher) useEffect(h *hookRenderer, create element.EffectFunc, deps []any) {
	hk := h.mountWorkInProgressHook()
	h.fiber.Flags |= PassiveEffect
	hk.memoizedState = h.pushEffect(HookPassive|HookHasEffect, create, nil, deps)
}

func (updateDispatcher) useEffect(h *hookRenderer, create element.EffectFunc, deps []any) {
	hk := h.updateWorkInProgressHook("UseEffect")
	prev := hookValue[*Effect](h, "UseEffect", h.currentHook.memoizedState)
	destroy := prev.Destroy

	if deps != nil && areHookInputsEqual(deps, prev.Deps) {
		hk.memoizedState = h.pushEffect(HookPassive, create, destroy, deps)
		return
	}
	h.fiber.Flags |= PassiveEffect
	hk.memoizedState = h.pushEffect(HookPassive|HookHasEffect, create, destroy, deps)
}

// pushEffect appends an effect to the rendering fiber's effect list.
func (h *hookRenderer) pushEffect(tag EffectTag, create element.EffectFunc, destroy func(), deps []any) *Effect {
	effect := &Effect{Tag: tag, Create: create, Destroy: destroy, Deps: deps}
	queue := h.fiber.UpdateQueue
	if queue == nil {
		queue = createUpdateQueue()
		h.fiber.UpdateQueue = queue
	}
	if queue.LastEffect == nil {
		effect.next = effect
	} else {
		effect.next = queue.LastEffect.next
		queue.LastEffect.next = effect
	}
	queue.LastEffect = effect
	return effect
}

func (mountDispatcher) useTransition(h *hookRenderer) (bool, func(callback func())) {
	isPending, setPending := mountDispatcher{}.useReducer(h, "UseTransition", basicStateReducer, false)
	hk := h.mountWorkInProgressHook()
	rec := h.rec
	start := func(callback func()) {
		rec.startTransition(setPending, callback)
	}
	hk.memoizedState = start
	return isPending.(bool), start
}

func (updateDispatcher) useTransition(h *hookRenderer) (bool, func(callback func())) {
	isPending, _ := updateDispatcher{}.useReducer(h, "UseTransition", basicStateReducer, nil)
	hk := h.updateWorkInProgressHook("UseTransition")
	start := hookValue[func(func())](h, "UseTransition", hk.memoizedState)
	return hookValue[bool](h, "UseTransition", isPending), start
}

func (mountDispatcher) useRef(h *hookRenderer, initial any) *element.Ref {
	hk := h.mountWorkInProgressHook()
	ref := &element.Ref{Current: initial}
	hk.memoizedState = ref
	return ref
}

func (updateDispatcher) useRef(h *hookRenderer, _ any) *element.Ref {
	hk := h.updateWorkInProgressHook("UseRef")
	return hookValue[*element.Ref](h, "UseRef", hk.memoizedState)
}

// dispatchSetState enqueues an action on a state hook and schedules the
// owning root.
func (r *Reconciler) dispatchSetState(fiber *Fiber, queue *UpdateQueue, action any) {
	l := r.requestUpdateLane()
	enqueueUpdate(queue, createUpdate(action, l))
	r.scheduleUpdateOnFiber(fiber, l)
}

// startTransition marks the pending flag, then runs callback with every
// update it dispatches on the transition lane.
func (r *Reconciler) startTransition(setPending element.Dispatch, callback func()) {
	setPending(true)
	prev := r.inTransition
	r.inTransition = true
	defer func() { r.inTransition = prev }()
	callback()
	setPending(false)
}

// areHookInputsEqual compares dependency lists. A nil list on either side
// never matches.
func areHookInputsEqual(next, prev []any) bool {
	if next == nil || prev == nil || len(next) != len(prev) {
		return false
	}
	for i := range next {
		if !sameValue(next[i], prev[i]) {
			return false
		}
	}
	return true
}

// sameValue compares two dependency values. Floats follow SameValue (NaN
// equals NaN, +0 and -0 differ), maps, slices, pointers and channels compare
// by identity, and functions never compare equal.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		return ok && sameFloat(x, y)
	case float32:
		y, ok := b.(float32)
		return ok && sameFloat(float64(x), float64(y))
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Func:
		return false
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if va.Comparable() && vb.Comparable() {
		return a == b
	}
	return false
}

func sameFloat(x, y float64) bool {
	if math.IsNaN(x) && math.IsNaN(y) {
		return true
	}
	if x == 0 && y == 0 {
		return math.Signbit(x) == math.Signbit(y)
	}
	return x == y
}

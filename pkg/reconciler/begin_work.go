package reconciler

import (
	"fmt"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/lane"
)

// beginWork computes wip's children and returns the first one.
func (r *Reconciler) beginWork(wip *Fiber, renderLane lane.Lane) *Fiber {
	switch wip.Tag {
	case HostRoot:
		return r.updateHostRoot(wip, renderLane)
	case HostComponent:
		return r.updateHostComponent(wip)
	case HostText:
		return nil
	case FunctionComponent:
		return r.updateFunctionComponent(wip, renderLane)
	case Fragment:
		return r.updateFragment(wip)
	}
	errors.Report(&errors.ReconcileError{
		Op:    "reconciler.beginWork",
		Kind:  errors.KindUnsupported,
		Fiber: wip.String(),
		Err:   fmt.Errorf("unknown work tag %d", wip.Tag),
	})
	return nil
}

func (r *Reconciler) updateHostRoot(wip *Fiber, renderLane lane.Lane) *Fiber {
	prev, _ := wip.MemoizedState.(*hostRootState)
	if prev == nil {
		prev = &hostRootState{}
	}
	queue := wip.UpdateQueue

	pending := queue.Shared.Pending
	baseQueue := mergeQueues(prev.baseQueue, pending)
	if pending != nil {
		queue.Shared.Pending = nil
		if current := wip.Alternate; current != nil {
			if state, ok := current.MemoizedState.(*hostRootState); ok {
				state.baseQueue = baseQueue
			}
		}
	}

	next := &hostRootState{element: prev.element, baseState: prev.baseState}
	if baseQueue != nil {
		result := processUpdateQueue(prev.baseState, baseQueue, renderLane)
		next.element = result.MemoizedState
		next.baseState = result.BaseState
		next.baseQueue = result.BaseQueue
	}
	wip.MemoizedState = next

	r.reconcileChildren(wip, next.element)
	return wip.Child
}

func (r *Reconciler) updateHostComponent(wip *Fiber) *Fiber {
	markRef(wip)
	r.reconcileChildren(wip, wip.PendingProps.Children())
	return wip.Child
}

func (r *Reconciler) updateFunctionComponent(wip *Fiber, renderLane lane.Lane) *Fiber {
	comp, ok := wip.Type.(*element.Component)
	if !ok || comp == nil {
		errors.Report(&errors.ReconcileError{
			Op:    "reconciler.updateFunctionComponent",
			Kind:  errors.KindUnsupported,
			Fiber: wip.String(),
			Err:   fmt.Errorf("component type %T", wip.Type),
		})
		return nil
	}
	children := r.renderWithHooks(wip, comp, renderLane)
	r.reconcileChildren(wip, children)
	return wip.Child
}

func (r *Reconciler) updateFragment(wip *Fiber) *Fiber {
	r.reconcileChildren(wip, wip.PendingProps.Children())
	return wip.Child
}

func (r *Reconciler) reconcileChildren(wip *Fiber, children element.Node) {
	if current := wip.Alternate; current != nil {
		wip.Child = reconcileChildFibers.reconcile(wip, current.Child, children)
	} else {
		wip.Child = mountChildFibers.reconcile(wip, nil, children)
	}
}

// markRef flags a host fiber whose ref was added or replaced.
func markRef(wip *Fiber) {
	current := wip.Alternate
	ref := wip.Ref
	if (current == nil && ref != nil) || (current != nil && current.Ref != ref) {
		wip.Flags |= Ref
	}
}

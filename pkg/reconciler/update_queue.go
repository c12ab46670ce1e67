package reconciler

import (
	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/lane"
)

// StateUpdate is one queued state transition. Updates form circular lists in
// which the queue holds the tail, so tail.next is the head.
type StateUpdate struct {
	Action any
	Lane   lane.Lane
	next   *StateUpdate
}

// SharedQueue is the part of an update queue shared by a fiber and its
// alternate.
type SharedQueue struct {
	Pending *StateUpdate
}

// UpdateQueue serves the HostRoot fiber and state hooks, which use Shared
// and Dispatch, and function component fibers, which keep their effect
// list in LastEffect.
type UpdateQueue struct {
	Shared   SharedQueue
	Dispatch element.Dispatch

	// LastEffect is the tail of the circular effect list.
	LastEffect *Effect

	reducer func(state, action any) any
}

func createUpdate(action any, l lane.Lane) *StateUpdate {
	return &StateUpdate{Action: action, Lane: l}
}

func createUpdateQueue() *UpdateQueue {
	return &UpdateQueue{}
}

func enqueueUpdate(queue *UpdateQueue, update *StateUpdate) {
	pending := queue.Shared.Pending
	if pending == nil {
		update.next = update
	} else {
		update.next = pending.next
		pending.next = update
	}
	queue.Shared.Pending = update
}

// mergeQueues splices pending after base and returns the new tail. Either
// may be nil.
func mergeQueues(base, pending *StateUpdate) *StateUpdate {
	if pending == nil {
		return base
	}
	if base == nil {
		return pending
	}
	baseFirst := base.next
	pendingFirst := pending.next
	base.next = pendingFirst
	pending.next = baseFirst
	return pending
}

// basicStateReducer applies a func(any) any updater, or replaces the state
// with any other action.
func basicStateReducer(state, action any) any {
	if fn, ok := action.(func(any) any); ok {
		return fn(state)
	}
	return action
}

// updateResult is the outcome of processing an update list for one render.
type updateResult struct {
	// MemoizedState is the state this render shows.
	MemoizedState any
	// BaseState is the state before the first skipped update.
	BaseState any
	// BaseQueue is the tail of the retained list, nil when nothing was
	// skipped.
	BaseQueue *StateUpdate
}

func processUpdateQueue(baseState any, pending *StateUpdate, renderLane lane.Lane) updateResult {
	return processUpdateQueueWith(basicStateReducer, baseState, pending, renderLane)
}

// processUpdateQueueWith folds the updates whose lane matches renderLane
// into baseState. Updates on other lanes are skipped and retained together
// with every update after the first skip, so that a later render replays
// them in their original order. Applied updates retained that way are
// cloned with NoLane, which every later render applies.
func processUpdateQueueWith(reducer func(state, action any) any, baseState any, pending *StateUpdate, renderLane lane.Lane) updateResult {
	result := updateResult{MemoizedState: baseState, BaseState: baseState}
	if pending == nil {
		return result
	}

	var newBaseFirst, newBaseLast *StateUpdate
	newBaseState := baseState
	newState := baseState
	skipped := false

	first := pending.next
	update := first
	for {
		updateLane := update.Lane
		if updateLane != lane.NoLane && !lane.IsSubsetOfLanes(renderLane, updateLane) {
			clone := createUpdate(update.Action, updateLane)
			if newBaseLast == nil {
				newBaseFirst = clone
				newBaseLast = clone
				newBaseState = newState
			} else {
				newBaseLast.next = clone
				newBaseLast = clone
			}
			skipped = true
		} else {
			if newBaseLast != nil {
				clone := createUpdate(update.Action, lane.NoLane)
				newBaseLast.next = clone
				newBaseLast = clone
			}
			newState = reducer(newState, update.Action)
		}
		update = update.next
		if update == first {
			break
		}
	}

	if !skipped {
		newBaseState = newState
	} else {
		newBaseLast.next = newBaseFirst
	}

	result.MemoizedState = newState
	result.BaseState = newBaseState
	result.BaseQueue = newBaseLast
	return result
}

// Package reconciler keeps a host node tree in sync with a tree of element
// descriptors.
//
// # Fibers
//
// Every position in the tree is represented by a Fiber. Each position owns
// at most two fibers: the one reachable from FiberRoot.Current (what the host
// shows) and its Alternate, the work-in-progress copy rebuilt on every
// render. Commit swaps the two by moving FiberRoot.Current.
//
// # Rendering
//
// An update (Root.Render, or a dispatch returned by a state hook) is
// enqueued with a lane describing its urgency and the root is scheduled.
// Sync lane work is batched into a single render flushed from a microtask;
// other lanes are rendered by scheduler callbacks in time slices that yield
// between fibers.
//
// A render walks the work-in-progress tree depth first: beginWork computes
// each fiber's children through the child reconciler, completeWork creates
// host instances on the way back up and bubbles flags so that commit can
// skip untouched subtrees.
//
// # Commit
//
// Commit applies Placement, Update and ChildDeletion flags to the host,
// swaps FiberRoot.Current, attaches refs, and schedules a callback that runs
// passive effects: every cleanup first, then every setup.
//
// # Hosts
//
// The reconciler never touches a rendering backend directly. It drives a
// Host implementation from completeWork and from the commit phase only.
//
// The Reconciler is not safe for concurrent use. Drive it from the goroutine
// that runs its scheduler.
package reconciler

package reconciler

import (
	"time"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/lane"
	"github.com/go-drift/fiber/pkg/scheduler"
)

// renderSession is the state of one render attempt. It survives yields and
// is dropped when the attempt commits, aborts or is superseded.
type renderSession struct {
	root               *FiberRoot
	lane               lane.Lane
	rootWorkInProgress *Fiber
	workInProgress     *Fiber
	// unit is the fiber whose work is running, for diagnostics.
	unit    *Fiber
	started time.Time
	// active is set while a work loop runs on this session.
	active bool
}

type renderStatus uint8

const (
	rootIncomplete renderStatus = iota
	rootCompleted
	rootAborted
)

func (s renderStatus) String() string {
	switch s {
	case rootIncomplete:
		return "yielded"
	case rootCompleted:
		return "completed"
	default:
		return "aborted"
	}
}

// scheduleUpdateOnFiber marks the root owning fiber as having work on l.
// Updates on fibers that are no longer mounted are dropped.
func (r *Reconciler) scheduleUpdateOnFiber(fiber *Fiber, l lane.Lane) {
	root := markUpdateFromFiberToRoot(fiber)
	if root == nil {
		r.logger.Debug("update on unmounted fiber dropped", "fiber", fiber.String(), "lane", l.String())
		return
	}
	r.markRootUpdated(root, l)
	r.ensureRootIsScheduled(root)
}

func markUpdateFromFiberToRoot(fiber *Fiber) *FiberRoot {
	node := fiber
	for node.Return != nil {
		node = node.Return
	}
	if node.Tag == HostRoot {
		root, _ := node.StateNode.(*FiberRoot)
		return root
	}
	return nil
}

func (r *Reconciler) markRootUpdated(root *FiberRoot, l lane.Lane) {
	root.PendingLanes = lane.MergeLanes(root.PendingLanes, l)
	if s := r.session; s != nil && s.root == root {
		root.interleavedLanes = lane.MergeLanes(root.interleavedLanes, l)
	}
}

// markRootFinished clears the rendered lane, keeping lanes that were
// updated while the render was in flight.
func markRootFinished(root *FiberRoot, l lane.Lane) {
	root.PendingLanes = lane.MergeLanes(lane.RemoveLanes(root.PendingLanes, l), root.interleavedLanes)
	root.interleavedLanes = lane.NoLanes
}

// ensureRootIsScheduled makes sure exactly one callback is queued for the
// root's most urgent pending lane.
func (r *Reconciler) ensureRootIsScheduled(root *FiberRoot) {
	updateLane := lane.GetHighestPriorityLane(root.PendingLanes)
	existing := root.CallbackNode

	if updateLane == lane.NoLane {
		if existing != nil {
			r.scheduler.CancelCallback(existing)
		}
		root.CallbackNode = nil
		root.CallbackPriority = lane.NoLane
		return
	}

	if updateLane == root.CallbackPriority {
		return
	}
	if existing != nil {
		r.scheduler.CancelCallback(existing)
	}

	var node *scheduler.Task
	if updateLane == lane.SyncLane {
		r.logger.Debug("scheduling sync render", "root", root.ID)
		r.scheduleSyncCallback(func() { r.performSyncWorkOnRoot(root) })
		r.scheduler.QueueMicrotask(r.flushSyncCallbacks)
	} else {
		priority := lane.ToSchedulerPriority(updateLane)
		r.logger.Debug("scheduling concurrent render", "root", root.ID, "lane", updateLane.String(), "priority", priority.String())
		node = r.scheduler.ScheduleCallback(priority, r.performConcurrentWorkOnRoot(root))
	}
	root.CallbackNode = node
	root.CallbackPriority = updateLane
}

// performSyncWorkOnRoot renders and commits root's sync lane without
// yielding. Passive effects of the previous commit run first so the new
// render sees their cleanups.
func (r *Reconciler) performSyncWorkOnRoot(root *FiberRoot) {
	r.flushPassiveEffects(&root.PendingPassiveEffects)

	nextLane := lane.GetHighestPriorityLane(root.PendingLanes)
	if nextLane != lane.SyncLane {
		r.ensureRootIsScheduled(root)
		return
	}

	switch status := r.renderRoot(root, nextLane, false); status {
	case rootCompleted:
		r.finishRender(root, nextLane)
	case rootAborted:
		r.abortRender(root, nextLane)
	default:
		r.logger.Error("sync render did not complete", "root", root.ID, "status", status.String())
	}
}

// performConcurrentWorkOnRoot returns the scheduler callback rendering
// root's most urgent lane. The callback returns itself while the render
// is incomplete.
func (r *Reconciler) performConcurrentWorkOnRoot(root *FiberRoot) scheduler.Callback {
	var work scheduler.Callback
	work = func(didTimeout bool) scheduler.Callback {
		original := root.CallbackNode
		if r.flushPassiveEffects(&root.PendingPassiveEffects) && root.CallbackNode != original {
			return nil
		}

		nextLane := lane.GetHighestPriorityLane(root.PendingLanes)
		if nextLane == lane.NoLane {
			return nil
		}
		needsSync := nextLane == lane.SyncLane || didTimeout

		switch r.renderRoot(root, nextLane, !needsSync) {
		case rootIncomplete:
			r.ensureRootIsScheduled(root)
			if root.CallbackNode != original {
				return nil
			}
			return work
		case rootCompleted:
			r.finishRender(root, nextLane)
		case rootAborted:
			r.abortRender(root, nextLane)
		}
		return nil
	}
	return work
}

// renderRoot runs the work loop for root at l, resuming the in-flight
// session when it matches and discarding it otherwise.
func (r *Reconciler) renderRoot(root *FiberRoot, l lane.Lane, shouldTimeSlice bool) renderStatus {
	s := r.session
	if s != nil && s.active {
		panic(&errors.ReconcileError{
			Op:   "reconciler.renderRoot",
			Kind: errors.KindRender,
			Err:  errors.ErrRenderInProgress,
		})
	}
	if s == nil || s.root != root || s.lane != l {
		if s != nil {
			r.logger.Debug("discarding render", "root", s.root.ID, "lane", s.lane.String(), "next", l.String())
			rendersTotal.WithLabelValues(s.lane.String(), "discarded").Inc()
		}
		s = r.prepareFreshStack(root, l)
	}

	status := r.workLoop(s, shouldTimeSlice)
	rendersTotal.WithLabelValues(l.String(), status.String()).Inc()
	return status
}

func (r *Reconciler) prepareFreshStack(root *FiberRoot, l lane.Lane) *renderSession {
	root.FinishedWork = nil
	root.FinishedLane = lane.NoLane
	root.interleavedLanes = lane.NoLanes
	wip := CreateWorkInProgress(root.Current, root.Current.PendingProps)
	s := &renderSession{
		root:               root,
		lane:               l,
		rootWorkInProgress: wip,
		workInProgress:     wip,
		started:            time.Now(),
	}
	r.session = s
	r.logger.Debug("render started", "root", root.ID, "lane", l.String())
	return s
}

// workLoop performs units of work until the tree is complete or, when
// time slicing, the scheduler asks to yield. A panic from a component
// aborts the render; hook misuse is re-raised.
func (r *Reconciler) workLoop(s *renderSession, shouldTimeSlice bool) (status renderStatus) {
	s.active = true
	defer func() {
		s.active = false
		recovered := recover()
		if recovered == nil {
			return
		}
		r.session = nil
		if isFatal(recovered) {
			// Let the next update reschedule the root.
			s.root.CallbackNode = nil
			s.root.CallbackPriority = lane.NoLane
			panic(recovered)
		}
		errors.ReportRenderError(&errors.RenderError{
			Root:       s.root.ID,
			Fiber:      s.unit.Path(),
			Lane:       s.lane.String(),
			Recovered:  recovered,
			StackTrace: errors.CaptureStack(),
		})
		status = rootAborted
	}()

	if shouldTimeSlice {
		for s.workInProgress != nil && !r.scheduler.ShouldYield() {
			r.performUnitOfWork(s, s.workInProgress)
		}
	} else {
		for s.workInProgress != nil {
			r.performUnitOfWork(s, s.workInProgress)
		}
	}
	if s.workInProgress != nil {
		r.logger.Debug("render yielded", "root", s.root.ID, "lane", s.lane.String(), "at", s.workInProgress.String())
		return rootIncomplete
	}
	return rootCompleted
}

func isFatal(recovered any) bool {
	switch e := recovered.(type) {
	case *errors.HookError:
		return true
	case *errors.ReconcileError:
		return errors.Is(e, errors.ErrRenderInProgress)
	}
	return false
}

func (r *Reconciler) performUnitOfWork(s *renderSession, fiber *Fiber) {
	s.unit = fiber
	next := r.beginWork(fiber, s.lane)
	fiber.MemoizedProps = fiber.PendingProps
	if next == nil {
		r.completeUnitOfWork(s, fiber)
	} else {
		s.workInProgress = next
	}
}

func (r *Reconciler) completeUnitOfWork(s *renderSession, fiber *Fiber) {
	node := fiber
	for node != nil {
		s.unit = node
		r.completeWork(node)
		if sibling := node.Sibling; sibling != nil {
			s.workInProgress = sibling
			return
		}
		node = node.Return
		s.workInProgress = node
	}
}

// finishRender commits the session's finished tree.
func (r *Reconciler) finishRender(root *FiberRoot, l lane.Lane) {
	s := r.session
	r.session = nil
	root.FinishedWork = s.rootWorkInProgress
	root.FinishedLane = l
	r.commitRoot(root)
	renderDuration.WithLabelValues(l.String()).Observe(time.Since(s.started).Seconds())
}

// abortRender gives up on l after a component panicked. The work in
// progress is already discarded; updates stay in their base queues and are
// replayed by the next render on their lane.
func (r *Reconciler) abortRender(root *FiberRoot, l lane.Lane) {
	markRootFinished(root, l)
	root.CallbackNode = nil
	root.CallbackPriority = lane.NoLane
	r.ensureRootIsScheduled(root)
}

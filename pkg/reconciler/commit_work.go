package reconciler

import (
	"fmt"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/lane"
	"github.com/go-drift/fiber/pkg/scheduler"
)

// commitRoot applies root.FinishedWork to the host and makes it current.
func (r *Reconciler) commitRoot(root *FiberRoot) {
	finishedWork := root.FinishedWork
	if finishedWork == nil {
		return
	}
	finishedLane := root.FinishedLane
	if finishedLane == lane.NoLane {
		r.logger.Error("commit without a finished lane", "root", root.ID)
	}
	r.logger.Debug("commit started", "root", root.ID, "lane", finishedLane.String())

	root.FinishedWork = nil
	root.FinishedLane = lane.NoLane
	markRootFinished(root, finishedLane)
	root.CallbackNode = nil
	root.CallbackPriority = lane.NoLane

	for _, hook := range r.onCommit {
		hook(root, finishedWork)
	}

	pending := &root.PendingPassiveEffects
	if (finishedWork.Flags|finishedWork.SubtreeFlags)&PassiveMask != 0 && !pending.scheduled {
		pending.scheduled = true
		r.scheduler.ScheduleCallback(scheduler.NormalPriority, func(bool) scheduler.Callback {
			pending.scheduled = false
			r.flushPassiveEffects(pending)
			return nil
		})
	}

	const commitMask = MutationMask | PassiveMask | LayoutMask
	if (finishedWork.Flags|finishedWork.SubtreeFlags)&commitMask != 0 {
		r.commitMutationEffects(finishedWork, root)
		root.Current = finishedWork
		r.commitLayoutEffects(finishedWork)
	} else {
		root.Current = finishedWork
	}

	commitsTotal.Inc()
	r.ensureRootIsScheduled(root)
}

// commitMutationEffects visits, children first, every fiber whose subtree
// or own flags need mutation or passive work.
func (r *Reconciler) commitMutationEffects(finishedWork *Fiber, root *FiberRoot) {
	next := finishedWork
	for next != nil {
		child := next.Child
		if next.SubtreeFlags&(MutationMask|PassiveMask) != 0 && child != nil {
			next = child
			continue
		}
		for next != nil {
			r.commitMutationEffectsOnFiber(next, root)
			if next == finishedWork {
				return
			}
			if sibling := next.Sibling; sibling != nil {
				next = sibling
				break
			}
			next = next.Return
		}
	}
}

func (r *Reconciler) commitMutationEffectsOnFiber(f *Fiber, root *FiberRoot) {
	flags := f.Flags

	if flags&Placement != 0 {
		r.commitPlacement(f)
		f.Flags &^= Placement
	}
	if flags&Update != 0 {
		r.commitUpdate(f)
		f.Flags &^= Update
	}
	if flags&ChildDeletion != 0 {
		for _, deleted := range f.Deletions {
			r.commitDeletion(deleted, root)
		}
		f.Deletions = nil
		f.Flags &^= ChildDeletion
	}
	if flags&PassiveEffect != 0 {
		collectPassiveEffects(f, root, false)
		f.Flags &^= PassiveEffect
	}
	if flags&Ref != 0 && f.Tag == HostComponent {
		if current := f.Alternate; current != nil && current.Ref != nil && current.Ref != f.Ref {
			current.Ref.Current = nil
		}
	}
}

// collectPassiveEffects queues a function component's effect list for the
// passive flush, as an unmount or as an update.
func collectPassiveEffects(f *Fiber, root *FiberRoot, unmount bool) {
	if f.Tag != FunctionComponent {
		return
	}
	queue := f.UpdateQueue
	if queue == nil || queue.LastEffect == nil {
		return
	}
	if unmount {
		root.PendingPassiveEffects.Unmount = append(root.PendingPassiveEffects.Unmount, queue)
	} else {
		root.PendingPassiveEffects.Update = append(root.PendingPassiveEffects.Update, queue)
	}
}

func (r *Reconciler) commitUpdate(f *Fiber) {
	switch f.Tag {
	case HostText:
		r.host.CommitTextUpdate(f.StateNode, f.MemoizedProps.String(textContentKey))
	case HostComponent:
		typ, _ := f.Type.(string)
		var oldProps = f.MemoizedProps
		if current := f.Alternate; current != nil {
			oldProps = current.MemoizedProps
		}
		r.host.CommitUpdate(f.StateNode, typ, oldProps, f.MemoizedProps)
	default:
		r.reportCommit("reconciler.commitUpdate", f, fmt.Errorf("update flag on %s fiber", f.Tag))
		return
	}
	hostMutationsTotal.WithLabelValues("update").Inc()
}

func (r *Reconciler) commitPlacement(f *Fiber) {
	parent, ok := r.getHostParent(f)
	if !ok {
		return
	}
	before := getHostSibling(f)
	r.insertOrAppendPlacementNode(f, before, parent)
}

func (r *Reconciler) insertOrAppendPlacementNode(f *Fiber, before, parent Instance) {
	if f.Tag == HostComponent || f.Tag == HostText {
		if before != nil {
			r.host.InsertBefore(parent, f.StateNode, before)
		} else {
			r.host.AppendChild(parent, f.StateNode)
		}
		hostMutationsTotal.WithLabelValues("placement").Inc()
		return
	}
	for child := f.Child; child != nil; child = child.Sibling {
		r.insertOrAppendPlacementNode(child, before, parent)
	}
}

// getHostParent returns the host node f's host nodes live in: the nearest
// host component ancestor, or the root container.
func (r *Reconciler) getHostParent(f *Fiber) (Instance, bool) {
	for parent := f.Return; parent != nil; parent = parent.Return {
		switch parent.Tag {
		case HostComponent:
			return parent.StateNode, true
		case HostRoot:
			if root, ok := parent.StateNode.(*FiberRoot); ok {
				return root.Container, true
			}
		}
	}
	r.reportCommit("reconciler.getHostParent", f, fmt.Errorf("no host parent"))
	return nil, false
}

// getHostSibling finds the host node f must be inserted before: the first
// host node after f, in tree order under the same host parent, that is not
// being placed itself. It returns nil when f goes last.
func getHostSibling(f *Fiber) Instance {
	node := f
findSibling:
	for {
		for node.Sibling == nil {
			parent := node.Return
			if parent == nil || parent.Tag == HostComponent || parent.Tag == HostRoot {
				return nil
			}
			node = parent
		}
		node.Sibling.Return = node.Return
		node = node.Sibling

		for node.Tag != HostText && node.Tag != HostComponent {
			if node.Flags&Placement != 0 || node.Child == nil {
				continue findSibling
			}
			node.Child.Return = node
			node = node.Child
		}
		if node.Flags&Placement == 0 {
			return node.StateNode
		}
	}
}

// commitDeletion unmounts a removed subtree: effects are queued for cleanup,
// refs are cleared, and the subtree's top-level host nodes are detached.
func (r *Reconciler) commitDeletion(childToDelete *Fiber, root *FiberRoot) {
	var hostNodes []*Fiber
	r.commitNestedUnmounts(childToDelete, root, false, &hostNodes)

	if len(hostNodes) > 0 {
		if parent, ok := r.getHostParent(childToDelete); ok {
			for _, node := range hostNodes {
				r.host.RemoveChild(parent, node.StateNode)
				hostMutationsTotal.WithLabelValues("deletion").Inc()
			}
		}
	}
	detachFiber(childToDelete)
}

func (r *Reconciler) commitNestedUnmounts(f *Fiber, root *FiberRoot, insideHost bool, hostNodes *[]*Fiber) {
	isHost := f.Tag == HostComponent || f.Tag == HostText
	switch f.Tag {
	case HostComponent:
		if f.Ref != nil {
			f.Ref.Current = nil
		}
	case FunctionComponent:
		collectPassiveEffects(f, root, true)
	}
	if isHost && !insideHost {
		*hostNodes = append(*hostNodes, f)
	}
	for child := f.Child; child != nil; child = child.Sibling {
		r.commitNestedUnmounts(child, root, insideHost || isHost, hostNodes)
	}
}

// detachFiber unlinks a deleted fiber so updates dispatched from inside its
// subtree no longer reach a root.
func detachFiber(f *Fiber) {
	f.Return = nil
	if alt := f.Alternate; alt != nil {
		alt.Return = nil
	}
}

// commitLayoutEffects attaches refs once the finished tree is current.
func (r *Reconciler) commitLayoutEffects(finishedWork *Fiber) {
	next := finishedWork
	for next != nil {
		child := next.Child
		if next.SubtreeFlags&LayoutMask != 0 && child != nil {
			next = child
			continue
		}
		for next != nil {
			if next.Flags&Ref != 0 {
				if next.Tag == HostComponent && next.Ref != nil {
					next.Ref.Current = next.StateNode
				}
				next.Flags &^= Ref
			}
			if next == finishedWork {
				return
			}
			if sibling := next.Sibling; sibling != nil {
				next = sibling
				break
			}
			next = next.Return
		}
	}
}

// flushPassiveEffects runs collected effects: cleanups of unmounted
// components, then cleanups of every changed effect, then every changed
// effect's setup. It reports whether any effect list was processed.
func (r *Reconciler) flushPassiveEffects(pending *PendingPassiveEffects) bool {
	unmount, update := pending.Unmount, pending.Update
	pending.Unmount, pending.Update = nil, nil
	if len(unmount) == 0 && len(update) == 0 {
		return false
	}

	for _, queue := range unmount {
		forEachEffect(queue, HookPassive, func(e *Effect) {
			if destroy := e.Destroy; destroy != nil {
				e.Destroy = nil
				r.invokeEffect("reconciler.unmountEffect", destroy)
			}
			e.Tag &^= HookHasEffect
		})
	}
	for _, queue := range update {
		forEachEffect(queue, HookPassive|HookHasEffect, func(e *Effect) {
			if destroy := e.Destroy; destroy != nil {
				e.Destroy = nil
				r.invokeEffect("reconciler.destroyEffect", destroy)
			}
		})
	}
	for _, queue := range update {
		forEachEffect(queue, HookPassive|HookHasEffect, func(e *Effect) {
			if e.Create == nil {
				return
			}
			r.invokeEffect("reconciler.createEffect", func() {
				e.Destroy = e.Create()
			})
		})
	}
	passiveFlushesTotal.Inc()

	r.flushSyncCallbacks()
	return true
}

// forEachEffect calls fn for every effect in the list whose tag includes
// all of tags.
func forEachEffect(queue *UpdateQueue, tags EffectTag, fn func(*Effect)) {
	last := queue.LastEffect
	if last == nil {
		return
	}
	effect := last.next
	for {
		if effect.Tag&tags == tags {
			fn(effect)
		}
		if effect == last {
			return
		}
		effect = effect.next
	}
}

// invokeEffect runs one effect callback. A panic is reported and the flush
// continues with the next effect; hook misuse is re-raised.
func (r *Reconciler) invokeEffect(op string, fn func()) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		if isFatal(recovered) {
			panic(recovered)
		}
		errors.ReportPanic(&errors.PanicError{
			Op:         op,
			Value:      recovered,
			StackTrace: errors.CaptureStack(),
		})
	}()
	fn()
}

func (r *Reconciler) reportCommit(op string, f *Fiber, err error) {
	errors.Report(&errors.ReconcileError{
		Op:    op,
		Kind:  errors.KindCommit,
		Fiber: f.String(),
		Err:   err,
	})
}

package reconciler

import (
	"fmt"
	"reflect"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
)

// completeWork creates or diffs wip's host instance once all its children
// are complete, then bubbles their flags.
func (r *Reconciler) completeWork(wip *Fiber) {
	newProps := wip.PendingProps
	current := wip.Alternate

	switch wip.Tag {
	case HostComponent:
		if current != nil && wip.StateNode != nil {
			r.host.UpdateFiberProps(wip.StateNode, newProps)
			if hostPropsChanged(current.MemoizedProps, newProps) {
				wip.Flags |= Update
			}
		} else {
			typ, _ := wip.Type.(string)
			instance := r.host.CreateInstance(typ, newProps)
			r.appendAllChildren(instance, wip)
			wip.StateNode = instance
			r.host.UpdateFiberProps(instance, newProps)
		}
	case HostText:
		content := newProps.String(textContentKey)
		if current != nil && wip.StateNode != nil {
			if current.MemoizedProps.String(textContentKey) != content {
				wip.Flags |= Update
			}
		} else {
			wip.StateNode = r.host.CreateTextInstance(content)
		}
	case HostRoot, FunctionComponent, Fragment:
	default:
		errors.Report(&errors.ReconcileError{
			Op:    "reconciler.completeWork",
			Kind:  errors.KindUnsupported,
			Fiber: wip.String(),
			Err:   fmt.Errorf("unknown work tag %d", wip.Tag),
		})
	}
	bubbleProperties(wip)
}

// appendAllChildren attaches the top-level host nodes below wip to parent.
func (r *Reconciler) appendAllChildren(parent Instance, wip *Fiber) {
	node := wip.Child
	for node != nil {
		if node.Tag == HostComponent || node.Tag == HostText {
			r.host.AppendInitialChild(parent, node.StateNode)
		} else if node.Child != nil {
			node.Child.Return = node
			node = node.Child
			continue
		}
		if node == wip {
			return
		}
		for node.Sibling == nil {
			if node.Return == nil || node.Return == wip {
				return
			}
			node = node.Return
		}
		node.Sibling.Return = node.Return
		node = node.Sibling
	}
}

func bubbleProperties(wip *Fiber) {
	subtreeFlags := NoFlags
	for child := wip.Child; child != nil; child = child.Sibling {
		subtreeFlags |= child.SubtreeFlags
		subtreeFlags |= child.Flags
		child.Return = wip
	}
	wip.SubtreeFlags |= subtreeFlags
}

// hostPropsChanged reports whether any prop other than children differs.
// Function props are stashed with UpdateFiberProps and never count as a
// change.
func hostPropsChanged(oldProps, newProps element.Props) bool {
	for name, next := range newProps {
		if name == element.ChildrenKey {
			continue
		}
		prev, ok := oldProps[name]
		if !ok {
			return true
		}
		if isFunc(prev) && isFunc(next) {
			continue
		}
		if !sameValue(prev, next) {
			return true
		}
	}
	for name := range oldProps {
		if name == element.ChildrenKey {
			continue
		}
		if _, ok := newProps[name]; !ok {
			return true
		}
	}
	return false
}

func isFunc(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

package reconciler

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/lane"
	"github.com/go-drift/fiber/pkg/scheduler"
)

// textContentKey is the props entry holding a HostText fiber's content.
const textContentKey = "content"

// Fiber is the reconciler's mutable record for one position in the tree.
type Fiber struct {
	Tag WorkTag
	// Key is the element key, "" when unkeyed.
	Key string
	// Type is the host tag (string), the *element.Component, or
	// element.Fragment. It is nil for HostRoot and HostText.
	Type any
	// StateNode is the host instance for host fibers and the *FiberRoot for
	// the HostRoot fiber.
	StateNode any
	Ref       *element.Ref

	Return  *Fiber
	Child   *Fiber
	Sibling *Fiber
	Index   int

	PendingProps  element.Props
	MemoizedProps element.Props
	// MemoizedState is the hook list head for function components and a
	// *hostRootState for the HostRoot fiber.
	MemoizedState any
	UpdateQueue   *UpdateQueue

	Flags        Flags
	SubtreeFlags Flags
	Deletions    []*Fiber

	Alternate *Fiber
}

func newFiber(tag WorkTag, pendingProps element.Props, key string) *Fiber {
	return &Fiber{
		Tag:          tag,
		Key:          key,
		PendingProps: pendingProps,
	}
}

// String describes the fiber for diagnostics, e.g. <li key=a> or #text.
func (f *Fiber) String() string {
	if f == nil {
		return "<nil>"
	}
	var name string
	switch f.Tag {
	case HostRoot:
		return "#root"
	case HostText:
		return "#text"
	case HostComponent:
		name, _ = f.Type.(string)
	case FunctionComponent:
		if c, ok := f.Type.(*element.Component); ok {
			name = c.Name()
		}
	case Fragment:
		name = ""
	}
	if f.Key != "" {
		return fmt.Sprintf("<%s key=%s>", name, f.Key)
	}
	return "<" + name + ">"
}

// Path describes the fiber and its ancestors, innermost last.
func (f *Fiber) Path() string {
	var parts []string
	for node := f; node != nil; node = node.Return {
		parts = append(parts, node.String())
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

// PendingPassiveEffects holds the effect lists collected at commit until the
// passive flush runs them.
type PendingPassiveEffects struct {
	Unmount []*UpdateQueue
	Update  []*UpdateQueue

	// scheduled is set while a flush callback is queued for the root.
	scheduled bool
}

// FiberRoot is the top of one mounted tree.
type FiberRoot struct {
	// ID identifies the root in logs and metrics.
	ID        string
	Container Instance
	Current   *Fiber

	FinishedWork *Fiber
	FinishedLane lane.Lane
	PendingLanes lane.Lanes

	CallbackNode     *scheduler.Task
	CallbackPriority lane.Lane

	PendingPassiveEffects PendingPassiveEffects

	// interleavedLanes are lanes updated while a render of this root was in
	// flight. They stay pending after that render commits.
	interleavedLanes lane.Lanes
}

// hostRootState is the HostRoot fiber's memoized state: the rendered
// element plus the unprocessed tail of the root update queue.
type hostRootState struct {
	element   element.Node
	baseState element.Node
	baseQueue *StateUpdate
}

func createFiberRoot(container Instance) *FiberRoot {
	hostRootFiber := newFiber(HostRoot, element.Props{}, "")
	hostRootFiber.UpdateQueue = createUpdateQueue()
	hostRootFiber.MemoizedState = &hostRootState{}
	root := &FiberRoot{
		ID:        uuid.NewString(),
		Container: container,
		Current:   hostRootFiber,
	}
	hostRootFiber.StateNode = root
	return root
}

// CreateWorkInProgress returns the alternate of current prepared to receive
// pendingProps, allocating it on first use. Effect flags and deletions are
// reset; structure and memoized values are copied from current.
func CreateWorkInProgress(current *Fiber, pendingProps element.Props) *Fiber {
	wip := current.Alternate
	if wip == nil {
		wip = newFiber(current.Tag, pendingProps, current.Key)
		wip.StateNode = current.StateNode
		wip.Alternate = current
		current.Alternate = wip
	} else {
		wip.PendingProps = pendingProps
		wip.Flags = NoFlags
		wip.SubtreeFlags = NoFlags
		wip.Deletions = nil
	}
	wip.Type = current.Type
	wip.UpdateQueue = current.UpdateQueue
	wip.Child = current.Child
	wip.MemoizedProps = current.MemoizedProps
	wip.MemoizedState = current.MemoizedState
	wip.Ref = current.Ref
	return wip
}

func createFiberFromElement(el *element.Element) *Fiber {
	var tag WorkTag
	switch el.Type().(type) {
	case string:
		tag = HostComponent
	case *element.Component:
		tag = FunctionComponent
	}
	f := newFiber(tag, el.Props(), el.Key())
	f.Type = el.Type()
	f.Ref = el.Ref()
	return f
}

func createFiberFromFragment(children element.Node, key string) *Fiber {
	f := newFiber(Fragment, fragmentProps(children), key)
	f.Type = element.Fragment
	return f
}

func createFiberFromText(content string) *Fiber {
	return newFiber(HostText, textProps(content), "")
}

func fragmentProps(children element.Node) element.Props {
	return element.Props{element.ChildrenKey: children}
}

func textProps(content string) element.Props {
	return element.Props{textContentKey: content}
}

// isSupportedType reports whether an element type maps to a fiber tag.
func isSupportedType(typ any) bool {
	switch t := typ.(type) {
	case string:
		return t != ""
	case *element.Component:
		return t != nil
	}
	return typ == element.Fragment
}

// WalkFibers visits f and its descendants depth first, stopping a branch
// when visit returns false.
func WalkFibers(f *Fiber, visit func(*Fiber) bool) {
	if f == nil || !visit(f) {
		return
	}
	for child := f.Child; child != nil; child = child.Sibling {
		WalkFibers(child, visit)
	}
}

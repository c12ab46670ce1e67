package reconciler

import (
	"fmt"
	"reflect"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
)

// childReconciler diffs new children against a fiber's current children.
// With trackEffects unset (first mount of a subtree) it records neither
// placements nor deletions, since the whole subtree is inserted at once.
type childReconciler struct {
	trackEffects bool
}

var (
	reconcileChildFibers = &childReconciler{trackEffects: true}
	mountChildFibers     = &childReconciler{trackEffects: false}
)

// childKey identifies a child within its parent: by key when the child has
// one, by position otherwise.
type childKey struct {
	key   string
	index int
	keyed bool
}

func keyOfFiber(f *Fiber) childKey {
	if f.Key != "" {
		return childKey{key: f.Key, keyed: true}
	}
	return childKey{index: f.Index}
}

func keyOfChild(index int, child element.Node) childKey {
	if el, ok := child.(*element.Element); ok && el != nil && el.Key() != "" {
		return childKey{key: el.Key(), keyed: true}
	}
	return childKey{index: index}
}

func (c *childReconciler) deleteChild(returnFiber, child *Fiber) {
	if !c.trackEffects {
		return
	}
	returnFiber.Deletions = append(returnFiber.Deletions, child)
	returnFiber.Flags |= ChildDeletion
}

func (c *childReconciler) deleteRemainingChildren(returnFiber, currentFirstChild *Fiber) {
	if !c.trackEffects {
		return
	}
	for child := currentFirstChild; child != nil; child = child.Sibling {
		c.deleteChild(returnFiber, child)
	}
}

// useFiber reuses current through its alternate.
func useFiber(current *Fiber, pendingProps element.Props) *Fiber {
	clone := CreateWorkInProgress(current, pendingProps)
	clone.Index = 0
	clone.Sibling = nil
	return clone
}

func (c *childReconciler) placeSingleChild(f *Fiber) *Fiber {
	if c.trackEffects && f.Alternate == nil {
		f.Flags |= Placement
	}
	return f
}

func (c *childReconciler) reconcileSingleElement(returnFiber, currentFirstChild *Fiber, el *element.Element) *Fiber {
	key := el.Key()
	for current := currentFirstChild; current != nil; current = current.Sibling {
		if current.Key != key {
			c.deleteChild(returnFiber, current)
			continue
		}
		if current.Type == el.Type() {
			props := el.Props()
			if el.IsFragment() {
				props = fragmentProps(props.Children())
			}
			existing := useFiber(current, props)
			existing.Ref = el.Ref()
			existing.Return = returnFiber
			c.deleteRemainingChildren(returnFiber, current.Sibling)
			return existing
		}
		// Same key, different type: nothing below can match.
		c.deleteRemainingChildren(returnFiber, current)
		break
	}

	var f *Fiber
	if el.IsFragment() {
		f = createFiberFromFragment(el.Props().Children(), key)
	} else {
		f = createFiberFromElement(el)
	}
	f.Return = returnFiber
	return f
}

func (c *childReconciler) reconcileSingleTextNode(returnFiber, currentFirstChild *Fiber, content string) *Fiber {
	for current := currentFirstChild; current != nil; current = current.Sibling {
		if current.Tag == HostText {
			existing := useFiber(current, textProps(content))
			existing.Return = returnFiber
			c.deleteRemainingChildren(returnFiber, current.Sibling)
			return existing
		}
		c.deleteChild(returnFiber, current)
	}
	f := createFiberFromText(content)
	f.Return = returnFiber
	return f
}

// reconcileChildrenArray diffs a list of children. Existing children are
// indexed by key (or position when unkeyed) and reused on a type match. A
// reused fiber whose old index is lower than the highest old index already
// kept in place is moved; everything else stays put.
func (c *childReconciler) reconcileChildrenArray(returnFiber, currentFirstChild *Fiber, children []element.Node) *Fiber {
	existing := make(map[childKey]*Fiber)
	for current := currentFirstChild; current != nil; current = current.Sibling {
		existing[keyOfFiber(current)] = current
	}

	lastPlacedIndex := 0
	var first, last *Fiber
	for i, child := range children {
		f := c.updateFromMap(returnFiber, existing, i, child)
		if f == nil {
			continue
		}
		f.Index = i
		f.Return = returnFiber
		if last == nil {
			first = f
		} else {
			last.Sibling = f
		}
		last = f

		if !c.trackEffects {
			continue
		}
		if current := f.Alternate; current != nil {
			if current.Index < lastPlacedIndex {
				f.Flags |= Placement
				continue
			}
			lastPlacedIndex = current.Index
		} else {
			f.Flags |= Placement
		}
	}

	for current := currentFirstChild; current != nil; current = current.Sibling {
		if existing[keyOfFiber(current)] == current {
			c.deleteChild(returnFiber, current)
		}
	}
	return first
}

// updateFromMap returns the fiber for child at index, reusing and removing
// a matching entry from existing. It returns nil for children that render
// nothing.
func (c *childReconciler) updateFromMap(returnFiber *Fiber, existing map[childKey]*Fiber, index int, child element.Node) *Fiber {
	key := keyOfChild(index, child)
	before := existing[key]

	if text, ok := element.IsText(child); ok {
		if before != nil && before.Tag == HostText {
			delete(existing, key)
			return useFiber(before, textProps(text))
		}
		return createFiberFromText(text)
	}

	if el, ok := child.(*element.Element); ok {
		if !element.IsValidElement(el) || !isSupportedType(el.Type()) {
			reportUnsupported("reconciler.updateFromMap", returnFiber, child)
			return nil
		}
		if el.IsFragment() {
			return c.updateFragment(existing, key, before, el.Props().Children(), el.Key())
		}
		if before != nil && before.Type == el.Type() {
			delete(existing, key)
			f := useFiber(before, el.Props())
			f.Ref = el.Ref()
			return f
		}
		return createFiberFromElement(el)
	}

	if list, ok := asNodeList(child); ok {
		return c.updateFragment(existing, key, before, list, "")
	}

	if !rendersNothing(child) {
		reportUnsupported("reconciler.updateFromMap", returnFiber, child)
	}
	return nil
}

func (c *childReconciler) updateFragment(existing map[childKey]*Fiber, key childKey, current *Fiber, children element.Node, fragmentKey string) *Fiber {
	if current == nil || current.Tag != Fragment {
		return createFiberFromFragment(children, fragmentKey)
	}
	delete(existing, key)
	return useFiber(current, fragmentProps(children))
}

// reconcile is the entry point: it returns the first new child of
// returnFiber, recording placements and deletions on the way.
func (c *childReconciler) reconcile(returnFiber, currentFirstChild *Fiber, newChild element.Node) *Fiber {
	if el, ok := newChild.(*element.Element); ok && el != nil && el.IsFragment() && el.Key() == "" {
		newChild = el.Props().Children()
	}

	if el, ok := newChild.(*element.Element); ok {
		if element.IsValidElement(el) && isSupportedType(el.Type()) {
			return c.placeSingleChild(c.reconcileSingleElement(returnFiber, currentFirstChild, el))
		}
		reportUnsupported("reconciler.reconcileChildFibers", returnFiber, newChild)
	} else if list, ok := asNodeList(newChild); ok {
		return c.reconcileChildrenArray(returnFiber, currentFirstChild, list)
	} else if text, ok := element.IsText(newChild); ok {
		return c.placeSingleChild(c.reconcileSingleTextNode(returnFiber, currentFirstChild, text))
	} else if !rendersNothing(newChild) {
		reportUnsupported("reconciler.reconcileChildFibers", returnFiber, newChild)
	}

	c.deleteRemainingChildren(returnFiber, currentFirstChild)
	return nil
}

// asNodeList converts any slice of children to a []element.Node.
func asNodeList(v element.Node) ([]element.Node, bool) {
	switch list := v.(type) {
	case []element.Node:
		return list, true
	case []*element.Element:
		out := make([]element.Node, len(list))
		for i, el := range list {
			out[i] = el
		}
		return out, true
	case nil, string, []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]element.Node, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func rendersNothing(v element.Node) bool {
	switch v.(type) {
	case nil, bool:
		return true
	}
	return false
}

func reportUnsupported(op string, parent *Fiber, child element.Node) {
	errors.Report(&errors.ReconcileError{
		Op:    op,
		Kind:  errors.KindUnsupported,
		Fiber: parent.String(),
		Err:   fmt.Errorf("unsupported child of type %T", child),
	})
}

package element

import "fmt"

// Node is anything that can appear as a child: *Element, string, numbers,
// []Node, nil or bool.
type Node = any

// Props holds an element's properties. The "children" entry carries nested
// nodes.
type Props map[string]any

// ChildrenKey is the props entry holding nested nodes.
const ChildrenKey = "children"

// Children returns the nested nodes stored in props.
func (p Props) Children() Node {
	if p == nil {
		return nil
	}
	return p[ChildrenKey]
}

// String returns the named prop as a string, or "" if absent.
func (p Props) String(name string) string {
	if p == nil {
		return ""
	}
	switch v := p[name].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

type elementKind uint8

const kindElement elementKind = 1

// marker identifies descriptors built by this package.
const marker = "drift.fiber"

type fragmentType string

// Fragment is the element type that groups children without a host node.
const Fragment fragmentType = "drift.fragment"

// Element is an immutable description of one position in the tree.
type Element struct {
	kind  elementKind
	mark  string
	typ   any
	key   string
	ref   *Ref
	props Props
}

// Type returns the host tag, *Component, or Fragment.
func (e *Element) Type() any { return e.typ }

// Key returns the reconciliation key; "" means unkeyed.
func (e *Element) Key() string { return e.key }

// Ref returns the ref the host instance is attached to, or nil.
func (e *Element) Ref() *Ref { return e.ref }

// Props returns the element's props. Callers must not modify the map.
func (e *Element) Props() Props { return e.props }

// IsFragment reports whether the element is a Fragment wrapper.
func (e *Element) IsFragment() bool {
	return e.typ == Fragment
}

func (e *Element) String() string {
	switch t := e.typ.(type) {
	case string:
		return "<" + t + ">"
	case *Component:
		return "<" + t.Name() + ">"
	case fragmentType:
		return "<>"
	default:
		return fmt.Sprintf("<%T>", t)
	}
}

// Create builds an element from a type, a config and children.
//
// The "key" entry (any value, formatted with fmt) and the "ref" entry
// (*Ref) are lifted out of config. When children are passed they replace
// config["children"]: a single child is stored as is, several are stored as
// a []Node in order.
func Create(typ any, config Props, children ...Node) *Element {
	var key string
	var ref *Ref
	props := make(Props, len(config)+1)
	for name, value := range config {
		switch name {
		case "key":
			if value != nil {
				key = fmt.Sprint(value)
			}
		case "ref":
			if r, ok := value.(*Ref); ok {
				ref = r
			}
		default:
			props[name] = value
		}
	}

	switch len(children) {
	case 0:
	case 1:
		props[ChildrenKey] = children[0]
	default:
		list := make([]Node, len(children))
		copy(list, children)
		props[ChildrenKey] = list
	}

	return &Element{
		kind:  kindElement,
		mark:  marker,
		typ:   typ,
		key:   key,
		ref:   ref,
		props: props,
	}
}

// Frag is shorthand for Create(Fragment, nil, children...).
func Frag(children ...Node) *Element {
	return Create(Fragment, nil, children...)
}

// KeyedFrag creates a keyed Fragment, reconciled as a single fiber.
func KeyedFrag(key string, children ...Node) *Element {
	return Create(Fragment, Props{"key": key}, children...)
}

// IsValidElement reports whether v is an element built by Create.
func IsValidElement(v any) bool {
	e, ok := v.(*Element)
	return ok && e != nil && e.kind == kindElement && e.mark == marker
}

// IsText reports whether v renders as a text node, returning its content.
func IsText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}

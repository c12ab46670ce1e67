package testing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/reconciler"
)

// TextNodeType is the Type of text nodes.
const TextNodeType = "#text"

// ContainerType is the Type of containers made by NewContainer.
const ContainerType = "#root"

// Node is a host node kept in memory.
type Node struct {
	Type     string
	Text     string
	Props    element.Props
	Parent   *Node
	Children []*Node

	// fiberProps are the latest props stashed by UpdateFiberProps.
	fiberProps element.Props
}

// NewContainer returns an empty root container.
func NewContainer() *Node {
	return &Node{Type: ContainerType}
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.Type == TextNodeType
}

// FiberProps returns the props last stashed on n during render.
func (n *Node) FiberProps() element.Props {
	return n.fiberProps
}

// TextContent returns the concatenated text below n.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// String renders n as markup: text as is, nodes as <tag a="b">...</tag>.
// Function props and children are omitted; attributes are sorted.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	if n.IsText() {
		sb.WriteString(n.Text)
		return
	}
	if n.Type == ContainerType {
		for _, c := range n.Children {
			c.write(sb)
		}
		return
	}
	sb.WriteString("<")
	sb.WriteString(n.Type)
	for _, name := range attributeNames(n.Props) {
		fmt.Fprintf(sb, " %s=%q", name, fmt.Sprint(n.Props[name]))
	}
	if len(n.Children) == 0 {
		sb.WriteString("/>")
		return
	}
	sb.WriteString(">")
	for _, c := range n.Children {
		c.write(sb)
	}
	sb.WriteString("</")
	sb.WriteString(n.Type)
	sb.WriteString(">")
}

// attributeNames lists props rendered as attributes, sorted.
func attributeNames(props element.Props) []string {
	var names []string
	for name, value := range props {
		if name == element.ChildrenKey || isHandler(value) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) detach(child *Node) {
	if i := n.indexOf(child); i >= 0 {
		n.Children = append(n.Children[:i], n.Children[i+1:]...)
	}
	child.Parent = nil
}

func (n *Node) label() string {
	if n.IsText() {
		return fmt.Sprintf("%q", n.Text)
	}
	if key := n.Props.String("id"); key != "" {
		return n.Type + "#" + key
	}
	return n.Type
}

// MemoryHost is a reconciler.Host building a tree of *Node. It records
// every mutation in a log.
type MemoryHost struct {
	ops []string
}

var _ reconciler.Host = (*MemoryHost)(nil)

// NewMemoryHost returns an empty host.
func NewMemoryHost() *MemoryHost {
	return &MemoryHost{}
}

// Ops returns the mutation log.
func (h *MemoryHost) Ops() []string {
	return h.ops
}

// ResetOps clears the mutation log.
func (h *MemoryHost) ResetOps() {
	h.ops = nil
}

func (h *MemoryHost) record(format string, args ...any) {
	h.ops = append(h.ops, fmt.Sprintf(format, args...))
}

func (h *MemoryHost) CreateInstance(typ string, props element.Props) reconciler.Instance {
	n := &Node{Type: typ, Props: attributes(props)}
	h.record("create %s", n.label())
	return n
}

func (h *MemoryHost) CreateTextInstance(text string) reconciler.Instance {
	n := &Node{Type: TextNodeType, Text: text}
	h.record("create %s", n.label())
	return n
}

func (h *MemoryHost) AppendInitialChild(parent, child reconciler.Instance) {
	p, c := asNode(parent), asNode(child)
	if c.Parent != nil {
		c.Parent.detach(c)
	}
	c.Parent = p
	p.Children = append(p.Children, c)
}

func (h *MemoryHost) AppendChild(parent, child reconciler.Instance) {
	p, c := asNode(parent), asNode(child)
	if c.Parent != nil {
		c.Parent.detach(c)
	}
	c.Parent = p
	p.Children = append(p.Children, c)
	h.record("append %s to %s", c.label(), p.label())
}

func (h *MemoryHost) InsertBefore(parent, child, before reconciler.Instance) {
	p, c, b := asNode(parent), asNode(child), asNode(before)
	if c.Parent != nil {
		c.Parent.detach(c)
	}
	i := p.indexOf(b)
	if i < 0 {
		panic(fmt.Sprintf("memory host: %s is not a child of %s", b.label(), p.label()))
	}
	c.Parent = p
	p.Children = append(p.Children[:i], append([]*Node{c}, p.Children[i:]...)...)
	h.record("insert %s before %s", c.label(), b.label())
}

func (h *MemoryHost) RemoveChild(parent, child reconciler.Instance) {
	p, c := asNode(parent), asNode(child)
	if p.indexOf(c) < 0 {
		panic(fmt.Sprintf("memory host: %s is not a child of %s", c.label(), p.label()))
	}
	p.detach(c)
	h.record("remove %s from %s", c.label(), p.label())
}

func (h *MemoryHost) CommitTextUpdate(text reconciler.Instance, content string) {
	n := asNode(text)
	n.Text = content
	h.record("text %s", n.label())
}

func (h *MemoryHost) CommitUpdate(instance reconciler.Instance, _ string, _, newProps element.Props) {
	n := asNode(instance)
	n.Props = attributes(newProps)
	h.record("update %s", n.label())
}

func (h *MemoryHost) UpdateFiberProps(instance reconciler.Instance, props element.Props) {
	asNode(instance).fiberProps = props
}

func asNode(v reconciler.Instance) *Node {
	n, ok := v.(*Node)
	if !ok || n == nil {
		panic(fmt.Sprintf("memory host: unexpected instance %T", v))
	}
	return n
}

// attributes copies props without children.
func attributes(props element.Props) element.Props {
	out := make(element.Props, len(props))
	for name, value := range props {
		if name == element.ChildrenKey {
			continue
		}
		out[name] = value
	}
	return out
}

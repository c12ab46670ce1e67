package testing

import (
	"testing"

	"github.com/go-drift/fiber/pkg/element"
)

func TestMemoryHost_Mutations(t *testing.T) {
	h := NewMemoryHost()
	root := NewContainer()

	ul := h.CreateInstance("ul", element.Props{"id": "list", "children": "ignored"}).(*Node)
	a := h.CreateInstance("li", element.Props{"id": "a"}).(*Node)
	b := h.CreateInstance("li", element.Props{"id": "b"}).(*Node)
	text := h.CreateTextInstance("x").(*Node)

	h.AppendInitialChild(a, text)
	h.AppendInitialChild(ul, a)
	h.AppendChild(root, ul)
	h.InsertBefore(ul, b, a)

	if got, want := root.String(), `<ul id="list"><li id="b"/><li id="a">x</li></ul>`; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if b.Parent != ul || text.Parent != a {
		t.Error("parent links not maintained")
	}

	h.AppendChild(ul, b)
	if ul.Children[1] != b {
		t.Error("AppendChild should move an attached node to the end")
	}

	h.CommitTextUpdate(text, "y")
	h.CommitUpdate(a, "li", nil, element.Props{"id": "a", "class": "on"})
	h.RemoveChild(ul, b)

	if got, want := root.String(), `<ul id="list"><li class="on" id="a">y</li></ul>`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if b.Parent != nil {
		t.Error("removed node should be detached")
	}

	want := []string{
		"create ul#list",
		"create li#a",
		"create li#b",
		`create "x"`,
		"append ul#list to #root",
		"insert li#b before li#a",
		"append li#b to ul#list",
		`text "y"`,
		"update li#a",
		"remove li#b from ul#list",
	}
	ops := h.Ops()
	if len(ops) != len(want) {
		t.Fatalf("ops = %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("ops[%d] = %q, want %q", i, ops[i], want[i])
		}
	}

	h.ResetOps()
	if len(h.Ops()) != 0 {
		t.Error("ResetOps should clear the log")
	}
}

func TestMemoryHost_RemoveForeignChildPanics(t *testing.T) {
	h := NewMemoryHost()
	root := NewContainer()
	orphan := h.CreateInstance("div", nil)

	defer func() {
		if recover() == nil {
			t.Error("expected panic removing a node that is not a child")
		}
	}()
	h.RemoveChild(root, orphan)
}

func TestMemoryHost_FiberProps(t *testing.T) {
	h := NewMemoryHost()
	n := h.CreateInstance("button", nil).(*Node)
	props := element.Props{"onClick": func() {}}

	h.UpdateFiberProps(n, props)
	if n.FiberProps()["onClick"] == nil {
		t.Error("expected stashed handler")
	}
	if len(h.Ops()) != 1 {
		t.Errorf("UpdateFiberProps should not be logged, got %v", h.Ops())
	}
}

package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_LiftsKeyAndRef(t *testing.T) {
	ref := &Ref{}
	el := Create("div", Props{"key": 7, "ref": ref, "id": "main"})

	assert.Equal(t, "7", el.Key())
	assert.Same(t, ref, el.Ref())
	assert.Equal(t, "main", el.Props()["id"])
	_, hasKey := el.Props()["key"]
	assert.False(t, hasKey, "key must not remain in props")
	_, hasRef := el.Props()["ref"]
	assert.False(t, hasRef, "ref must not remain in props")
}

func TestCreate_Children(t *testing.T) {
	tests := []struct {
		name     string
		children []Node
		want     Node
	}{
		{"none", nil, nil},
		{"single", []Node{"text"}, "text"},
		{"many", []Node{"a", 1}, []Node{"a", 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := Create("p", nil, tt.children...)
			assert.Equal(t, tt.want, el.Props().Children())
		})
	}
}

func TestCreate_ChildrenOverrideConfig(t *testing.T) {
	el := Create("p", Props{"children": "from config"}, "from args")
	assert.Equal(t, "from args", el.Props().Children())

	el = Create("p", Props{"children": "from config"})
	assert.Equal(t, "from config", el.Props().Children())
}

func TestCreate_DoesNotAliasConfig(t *testing.T) {
	config := Props{"id": "a"}
	el := Create("div", config)
	config["id"] = "b"
	assert.Equal(t, "a", el.Props()["id"])
}

func TestIsValidElement(t *testing.T) {
	assert.True(t, IsValidElement(Create("div", nil)))
	assert.False(t, IsValidElement(&Element{}))
	assert.False(t, IsValidElement("div"))
	assert.False(t, IsValidElement(nil))
	var nilEl *Element
	assert.False(t, IsValidElement(nilEl))
}

func TestFragment(t *testing.T) {
	frag := Frag("a", "b")
	require.True(t, frag.IsFragment())
	assert.Equal(t, "", frag.Key())
	assert.Equal(t, "<>", frag.String())

	keyed := KeyedFrag("k", "a")
	assert.True(t, keyed.IsFragment())
	assert.Equal(t, "k", keyed.Key())

	// A host tag spelled like the marker is still a host tag.
	assert.False(t, Create(string(Fragment), nil).IsFragment())
}

func TestIsText(t *testing.T) {
	tests := []struct {
		in     any
		want   string
		wantOK bool
	}{
		{"hi", "hi", true},
		{42, "42", true},
		{int64(-3), "-3", true},
		{1.5, "1.5", true},
		{true, "", false},
		{nil, "", false},
		{Create("div", nil), "", false},
	}
	for _, tt := range tests {
		got, ok := IsText(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("IsText(%#v) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDefine(t *testing.T) {
	c := Define("Greeting", func(ctx Context, props Props) Node {
		return "hello " + props.String("name")
	})
	assert.Equal(t, "Greeting", c.Name())
	assert.Equal(t, "hello ada", c.Render(nil, Props{"name": "ada"}))
	assert.Equal(t, "<Greeting>", Create(c, nil).String())

	assert.Equal(t, "Anonymous", Define("", func(Context, Props) Node { return nil }).Name())
	assert.Panics(t, func() { Define("nil", nil) })
}

func TestPropsString(t *testing.T) {
	p := Props{"s": "x", "n": 3}
	assert.Equal(t, "x", p.String("s"))
	assert.Equal(t, "3", p.String("n"))
	assert.Equal(t, "", p.String("missing"))
	var empty Props
	assert.Equal(t, "", empty.String("s"))
	assert.Nil(t, empty.Children())
}

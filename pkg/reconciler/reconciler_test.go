package reconciler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/hooks"
	"github.com/go-drift/fiber/pkg/reconciler"
	fibertest "github.com/go-drift/fiber/pkg/testing"
)

func keyedList(keys ...string) *element.Element {
	items := make([]element.Node, len(keys))
	for i, k := range keys {
		items[i] = element.Create("li", element.Props{"key": k, "id": k}, k)
	}
	return element.Create("ul", nil, items)
}

func keysOf(records []fiberRecord) []string {
	keys := make([]string, 0, len(records))
	for _, r := range records {
		keys = append(keys, r.fiber.Key)
	}
	return keys
}

func TestMount_BuildsHostTree(t *testing.T) {
	tester, log := newTester(t)

	require.NoError(t, tester.Render(element.Create("div", nil, element.Create("span", nil, "1"))))

	assert.Equal(t, "<div><span>1</span></div>", tester.String())
	assert.Equal(t, []string{
		`create "1"`,
		"create span",
		"create div",
		"append div to #root",
	}, tester.Host().Ops())

	placed := flagged(log.last(t), reconciler.Placement)
	require.Len(t, placed, 1, "only the top host node is placed")
	assert.Equal(t, "div", placed[0].fiber.Type)
}

func TestUpdate_OnlyChangedTextFlagged(t *testing.T) {
	tester, log := newTester(t)

	var setText hooks.Setter[string]
	App := element.Define("App", func(ctx element.Context, _ element.Props) element.Node {
		text, set := hooks.UseState(ctx, "1")
		setText = set
		return element.Create("div", nil, element.Create("span", nil, text))
	})
	require.NoError(t, tester.Render(element.Create(App, nil)))
	tester.Host().ResetOps()

	require.NoError(t, tester.Act(func() { setText.Set("2") }))

	updated := flagged(log.last(t), reconciler.Update)
	require.Len(t, updated, 1)
	assert.Equal(t, reconciler.HostText, updated[0].fiber.Tag)
	assert.Empty(t, flagged(log.last(t), reconciler.Placement|reconciler.ChildDeletion))

	assert.Equal(t, "<div><span>2</span></div>", tester.String())
	assert.Equal(t, []string{`text "2"`}, tester.Host().Ops())
}

func TestUpdate_HostPropsCommitted(t *testing.T) {
	tester, _ := newTester(t)

	require.NoError(t, tester.Render(element.Create("div", element.Props{"class": "a"}, "x")))
	tester.Host().ResetOps()
	require.NoError(t, tester.Render(element.Create("div", element.Props{"class": "b"}, "x")))

	assert.Equal(t, `<div class="b">x</div>`, tester.String())
	assert.Equal(t, []string{"update div"}, tester.Host().Ops())
}

func TestUpdate_HandlerChangeSkipsHostUpdate(t *testing.T) {
	tester, _ := newTester(t)

	require.NoError(t, tester.Render(element.Create("button", element.Props{"onClick": func() {}}, "go")))
	tester.Host().ResetOps()
	clicked := false
	require.NoError(t, tester.Render(element.Create("button", element.Props{"onClick": func() { clicked = true }}, "go")))

	assert.Empty(t, tester.Host().Ops())
	require.NoError(t, tester.Click(fibertest.ByType("button")))
	assert.True(t, clicked, "the latest handler is reachable from the host node")
}

func TestRerender_SameElementIsIdempotent(t *testing.T) {
	tester, log := newTester(t)

	Item := element.Define("Item", func(ctx element.Context, props element.Props) element.Node {
		n, _ := hooks.UseState(ctx, 1)
		hooks.UseEffect(ctx, func() func() { return nil }, hooks.Deps(n))
		return element.Create("li", nil, props.String("label"), n)
	})
	tree := element.Create("ul", nil,
		element.Create(Item, element.Props{"key": "a", "label": "a"}),
		element.Create(Item, element.Props{"key": "b", "label": "b"}),
	)

	require.NoError(t, tester.Render(tree))
	before := tester.String()
	tester.Host().ResetOps()

	require.NoError(t, tester.Render(tree))

	assert.Empty(t, flagged(log.last(t), reconciler.Placement|reconciler.Update|reconciler.ChildDeletion))
	assert.Empty(t, tester.Host().Ops())
	assert.Equal(t, before, tester.String())
}

func TestKeyed_DeleteFirst(t *testing.T) {
	tester, log := newTester(t)

	require.NoError(t, tester.Render(keyedList("a", "b")))
	tester.Host().ResetOps()
	require.NoError(t, tester.Render(keyedList("b")))

	records := log.last(t)
	deleting := flagged(records, reconciler.ChildDeletion)
	require.Len(t, deleting, 1)
	assert.Equal(t, "ul", deleting[0].fiber.Type)
	require.Len(t, deleting[0].deletions, 1)
	assert.Equal(t, "a", deleting[0].deletions[0].Key)
	assert.Empty(t, flagged(records, reconciler.Placement))

	assert.Equal(t, `<ul><li id="b">b</li></ul>`, tester.String())
	assert.Equal(t, []string{"remove li#a from ul"}, tester.Host().Ops())
}

func TestKeyed_MoveFirstToEnd(t *testing.T) {
	tester, log := newTester(t)

	require.NoError(t, tester.Render(keyedList("A", "B", "C")))
	tester.Host().ResetOps()
	require.NoError(t, tester.Render(keyedList("B", "C", "A")))

	placed := flagged(log.last(t), reconciler.Placement)
	assert.Equal(t, []string{"A"}, keysOf(placed))
	assert.Equal(t, []string{"append li#A to ul"}, tester.Host().Ops())
	assert.Equal(t, `<ul><li id="B">B</li><li id="C">C</li><li id="A">A</li></ul>`, tester.String())
}

// Moving the last item to the front keeps C in place and moves the items
// that now trail it. C is visited first and raises lastPlacedIndex to 2, so
// A (old index 0) and B (old index 1) are both placed. A minimal-move diff
// would move only C; the linear rule never does.
func TestKeyed_MoveLastToFront(t *testing.T) {
	tester, log := newTester(t)

	require.NoError(t, tester.Render(keyedList("A", "B", "C")))
	tester.Host().ResetOps()
	require.NoError(t, tester.Render(keyedList("C", "A", "B")))

	placed := flagged(log.last(t), reconciler.Placement)
	assert.Equal(t, []string{"A", "B"}, keysOf(placed))
	assert.Equal(t, `<ul><li id="C">C</li><li id="A">A</li><li id="B">B</li></ul>`, tester.String())
}

func TestKeyed_ReorderPreservesInstances(t *testing.T) {
	tester, _ := newTester(t)

	require.NoError(t, tester.Render(keyedList("A", "B", "C", "D")))
	ul := tester.Find(fibertest.ByType("ul")).First()
	byID := map[string]*fibertest.Node{}
	for _, li := range ul.Children {
		byID[li.Props.String("id")] = li
	}

	require.NoError(t, tester.Render(keyedList("D", "B", "A", "C")))

	require.Len(t, ul.Children, 4)
	for i, id := range []string{"D", "B", "A", "C"} {
		assert.Same(t, byID[id], ul.Children[i], "position %d", i)
	}
}

func TestKeyed_InsertInMiddle(t *testing.T) {
	tester, log := newTester(t)

	require.NoError(t, tester.Render(keyedList("A", "C")))
	tester.Host().ResetOps()
	require.NoError(t, tester.Render(keyedList("A", "B", "C")))

	assert.Equal(t, []string{"B"}, keysOf(flagged(log.last(t), reconciler.Placement)))
	assert.Equal(t, []string{`create "B"`, "create li#B", "insert li#B before li#C"}, tester.Host().Ops())
}

func TestKeyed_TypeChangeRecreates(t *testing.T) {
	tester, log := newTester(t)

	require.NoError(t, tester.Render(element.Create("section", nil, element.Create("div", element.Props{"key": "x"}))))
	old := tester.Find(fibertest.ByType("div")).First()
	tester.Host().ResetOps()

	require.NoError(t, tester.Render(element.Create("section", nil, element.Create("p", element.Props{"key": "x"}))))

	records := log.last(t)
	deleting := flagged(records, reconciler.ChildDeletion)
	require.Len(t, deleting, 1)
	require.Len(t, deleting[0].deletions, 1)
	assert.Equal(t, "div", deleting[0].deletions[0].Type)
	placed := flagged(records, reconciler.Placement)
	require.Len(t, placed, 1)
	assert.Equal(t, "p", placed[0].fiber.Type)

	assert.Nil(t, old.Parent)
	assert.Equal(t, "<section><p/></section>", tester.String())
	assert.Contains(t, tester.Host().Ops(), "remove div from section")
}

func TestUnkeyed_TypeChangeAtIndex(t *testing.T) {
	tester, _ := newTester(t)

	require.NoError(t, tester.Render(element.Create("div", nil, element.Create("a", nil), "text", element.Create("b", nil))))
	require.NoError(t, tester.Render(element.Create("div", nil, element.Create("a", nil), element.Create("i", nil), element.Create("b", nil))))

	assert.Equal(t, "<div><a/><i/><b/></div>", tester.String())
}

func TestFragments_Flatten(t *testing.T) {
	tester, _ := newTester(t)

	tree := element.Frag(
		element.Create("span", nil, "a"),
		[]element.Node{element.Create("span", nil, "b"), element.Create("span", nil, "c")},
		"tail",
	)
	require.NoError(t, tester.Render(tree))
	assert.Equal(t, "<span>a</span><span>b</span><span>c</span>tail", tester.String())

	tree = element.Frag(
		element.Create("span", nil, "a"),
		[]element.Node{element.Create("span", nil, "c")},
		"tail",
	)
	require.NoError(t, tester.Render(tree))
	assert.Equal(t, "<span>a</span><span>c</span>tail", tester.String())
}

func TestFragments_KeyedFragmentMoves(t *testing.T) {
	tester, _ := newTester(t)

	group := func(key string) *element.Element {
		return element.KeyedFrag(key, element.Create("dt", nil, key), element.Create("dd", nil, key))
	}
	require.NoError(t, tester.Render(element.Create("dl", nil, group("x"), group("y"))))
	require.NoError(t, tester.Render(element.Create("dl", nil, group("y"), group("x"))))

	assert.Equal(t, "<dl><dt>y</dt><dd>y</dd><dt>x</dt><dd>x</dd></dl>", tester.String())
}

func TestComponents_NestedHostPlacement(t *testing.T) {
	tester, _ := newTester(t)

	Wrapper := element.Define("Wrapper", func(_ element.Context, props element.Props) element.Node {
		return props.Children()
	})
	require.NoError(t, tester.Render(element.Create("div", nil,
		element.Create("a", nil),
		element.Create(Wrapper, element.Props{"key": "w"}, element.Create("b", nil)),
	)))
	require.NoError(t, tester.Render(element.Create("div", nil,
		element.Create(Wrapper, element.Props{"key": "w"}, element.Create("b", nil)),
		element.Create("a", nil),
		element.Create(Wrapper, element.Props{"key": "v"}, element.Create("c", nil)),
	)))

	assert.Equal(t, "<div><b/><a/><c/></div>", tester.String())
}

func TestRender_NothingAndBooleans(t *testing.T) {
	tester, _ := newTester(t)

	require.NoError(t, tester.Render(element.Create("div", nil, nil, false, "x", true)))
	assert.Equal(t, "<div>x</div>", tester.String())

	require.NoError(t, tester.Render(nil))
	assert.Equal(t, "", tester.String())
	assert.Empty(t, tester.Container().Children)
}

func TestRender_UnsupportedChildReported(t *testing.T) {
	errs := captureErrors(t)
	tester, _ := newTester(t)

	require.NoError(t, tester.Render(element.Create("div", nil, struct{ X int }{1}, "ok")))

	assert.Equal(t, "<div>ok</div>", tester.String())
	require.NotEmpty(t, errs.errs)
	assert.Equal(t, errors.KindUnsupported, errs.errs[0].Kind)
}

func TestRefs_AttachAndDetach(t *testing.T) {
	tester, _ := newTester(t)

	first := &element.Ref{}
	second := &element.Ref{}
	require.NoError(t, tester.Render(element.Create("input", element.Props{"ref": first})))
	node := tester.Find(fibertest.ByType("input")).First()
	assert.Same(t, node, first.Current)

	require.NoError(t, tester.Render(element.Create("input", element.Props{"ref": second})))
	assert.Nil(t, first.Current)
	assert.Same(t, node, second.Current)

	require.NoError(t, tester.Render(nil))
	assert.Nil(t, second.Current)
}

func TestRefs_NestedUnmountClears(t *testing.T) {
	tester, _ := newTester(t)

	ref := &element.Ref{}
	require.NoError(t, tester.Render(element.Create("div", nil, element.Create("span", element.Props{"ref": ref}))))
	require.NotNil(t, ref.Current)

	require.NoError(t, tester.Render(element.Create("p", nil)))
	assert.Nil(t, ref.Current)
	assert.Equal(t, "<p/>", tester.String())
}

func TestRoot_UnmountRemovesEverything(t *testing.T) {
	tester, _ := newTester(t)

	require.NoError(t, tester.Render(element.Frag(element.Create("a", nil), element.Create("b", nil))))
	require.NoError(t, tester.Act(tester.Root().Unmount))

	assert.Empty(t, tester.Container().Children)
}

func TestRoot_IndependentRoots(t *testing.T) {
	tester, _ := newTester(t)

	other := fibertest.NewContainer()
	second := tester.Reconciler().CreateRoot(other)
	require.NotEqual(t, tester.Root().FiberRoot().ID, second.FiberRoot().ID)

	require.NoError(t, tester.Act(func() {
		tester.Root().Render(element.Create("a", nil))
		second.Render(element.Create("b", nil))
	}))

	assert.Equal(t, "<a/>", tester.String())
	assert.Equal(t, "<b/>", other.String())

	require.NoError(t, tester.Act(second.Unmount))
	assert.Empty(t, other.Children)
	assert.Equal(t, "<a/>", tester.String())
}

// Package element provides the immutable descriptors that describe what a
// tree should look like.
//
// An Element pairs a type with props. The type is a host tag (a string such
// as "div"), a function component created with [Define], or the [Fragment]
// marker. Elements are cheap to build and are created fresh on every render;
// the reconciler consumes them and never mutates them.
//
// # Creating Elements
//
//	el := element.Create("ul", element.Props{"class": "list"},
//	    element.Create("li", element.Props{"key": "a"}, "first"),
//	    element.Create("li", element.Props{"key": "b"}, "second"),
//	)
//
// The "key" and "ref" entries of the config are lifted onto the element and
// removed from its props. Trailing arguments become props["children"].
//
// # Function Components
//
// A component is a named render function. The Context it receives is the
// hook surface for the current render and must not be retained:
//
//	var Counter = element.Define("Counter", func(ctx element.Context, props element.Props) element.Node {
//	    count, setCount := ctx.UseState(0)
//	    return element.Create("button", element.Props{
//	        "onClick": func() { setCount(func(prev any) any { return prev.(int) + 1 }) },
//	    }, count)
//	})
//
// The hooks package offers typed wrappers around Context.
//
// # Children
//
// A Node is anything the reconciler can render: *Element, string, the
// integer and float kinds, []Node (ordered, possibly nested), and nil or bool
// (both render nothing).
package element

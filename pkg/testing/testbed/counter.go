// Package testbed provides fixture components shared by the fiber test suites.
package testbed

import (
	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/hooks"
)

// Counter renders a button showing a count that increments on click.
//
// Props: "initial" (int), "onChange" (func(int)).
var Counter = element.Define("Counter", func(ctx element.Context, props element.Props) element.Node {
	initial, _ := props["initial"].(int)
	onChange, _ := props["onChange"].(func(int))

	count, setCount := hooks.UseState(ctx, initial)
	hooks.UseEffect(ctx, func() func() {
		if onChange != nil {
			onChange(count)
		}
		return nil
	}, hooks.Deps(count))

	return element.Create("button", element.Props{
		"id":      "counter",
		"onClick": func() { setCount.Update(func(n int) int { return n + 1 }) },
	}, count)
})

// List renders a <ul> of keyed <li> items.
//
// Props: "items" ([]string).
var List = element.Define("List", func(ctx element.Context, props element.Props) element.Node {
	items, _ := props["items"].([]string)
	children := make([]element.Node, len(items))
	for i, item := range items {
		children[i] = element.Create("li", element.Props{"key": item}, item)
	}
	return element.Create("ul", nil, children)
})

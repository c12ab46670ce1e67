// Package apps holds the demo applications mounted by fiberdemo.
package apps

import (
	"strings"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/hooks"
)

// Counter shows a count with increment and reset buttons.
//
// Props: "step" (int, default 1).
var Counter = element.Define("Counter", func(ctx element.Context, props element.Props) element.Node {
	step, ok := props["step"].(int)
	if !ok || step == 0 {
		step = 1
	}
	count, setCount := hooks.UseState(ctx, 0)

	return element.Create("div", element.Props{"id": "counter"},
		element.Create("span", element.Props{"id": "value"}, count),
		element.Create("button", element.Props{
			"id":      "inc",
			"onClick": func() { setCount.Update(func(n int) int { return n + step }) },
		}, "+", step),
		element.Create("button", element.Props{
			"id":      "reset",
			"onClick": func() { setCount.Set(0) },
		}, "reset"),
	)
})

// List renders items as keyed list entries.
//
// Props: "items" ([]string).
var List = element.Define("List", func(_ element.Context, props element.Props) element.Node {
	items, _ := props["items"].([]string)
	children := make([]element.Node, len(items))
	for i, item := range items {
		children[i] = element.Create("li", element.Props{"key": item, "id": item}, item)
	}
	return element.Create("ul", nil, children)
})

// Lifecycle reports its effect runs to "log" (func(string)). Its effect
// depends on "label", so relabelling re-runs it.
//
// Props: "name" (string), "label" (string), "log" (func(string)).
var Lifecycle = element.Define("Lifecycle", func(ctx element.Context, props element.Props) element.Node {
	name := props.String("name")
	label := props.String("label")
	log, _ := props["log"].(func(string))

	hooks.UseEffect(ctx, func() func() {
		if log != nil {
			log("create " + name + " (" + label + ")")
		}
		return func() {
			if log != nil {
				log("destroy " + name + " (" + label + ")")
			}
		}
	}, hooks.Deps(label))

	return element.Create("p", element.Props{"id": name}, label)
})

// Search filters "items" ([]string) by a term picked with the filter
// buttons. Filtering runs as a transition; "work" (func()) is called once
// per rendered result to simulate an expensive row.
var Search = element.Define("Search", func(ctx element.Context, props element.Props) element.Node {
	items, _ := props["items"].([]string)
	work, _ := props["work"].(func())

	isPending, startTransition := hooks.UseTransition(ctx)
	selected, setSelected := hooks.UseState(ctx, "")
	filter, setFilter := hooks.UseState(ctx, "")

	pick := func(term string) func() {
		return func() {
			setSelected.Set(term)
			startTransition(func() { setFilter.Set(term) })
		}
	}

	status := "showing " + quote(filter)
	if isPending {
		status = "loading " + quote(selected)
	}

	var results []element.Node
	for _, item := range items {
		if strings.Contains(item, filter) {
			results = append(results, element.Create(result, element.Props{"key": item, "text": item, "work": work}))
		}
	}

	return element.Create("section", nil,
		element.Create("nav", nil,
			element.Create("button", element.Props{"id": "all", "onClick": pick("")}, "all"),
			element.Create("button", element.Props{"id": "an", "onClick": pick("an")}, "an"),
			element.Create("button", element.Props{"id": "er", "onClick": pick("er")}, "er"),
		),
		element.Create("header", nil, status),
		element.Create("ol", nil, results),
	)
})

var result = element.Define("Result", func(_ element.Context, props element.Props) element.Node {
	if work, ok := props["work"].(func()); ok && work != nil {
		work()
	}
	return element.Create("li", nil, props.String("text"))
})

func quote(s string) string {
	if s == "" {
		return "everything"
	}
	return "\"" + s + "\""
}

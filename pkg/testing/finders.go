package testing

import (
	"fmt"
	"strings"
)

// Finder locates nodes in a host tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root *Node) []*Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.description()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.description()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// predicateFinder matches nodes satisfying a predicate.
type predicateFinder struct {
	fn   func(*Node) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *Node) []*Node {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByType returns a finder that matches host nodes with the given tag.
func ByType(tag string) Finder {
	return &predicateFinder{
		fn:   func(n *Node) bool { return n.Type == tag },
		desc: fmt.Sprintf("ByType(%q)", tag),
	}
}

// ByText returns a finder that matches text nodes with exact content.
func ByText(text string) Finder {
	return &predicateFinder{
		fn:   func(n *Node) bool { return n.IsText() && n.Text == text },
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining returns a finder that matches text nodes containing
// substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		fn:   func(n *Node) bool { return n.IsText() && strings.Contains(n.Text, substring) },
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

// ByProp returns a finder that matches nodes whose prop name formats to
// value.
func ByProp(name, value string) Finder {
	return &predicateFinder{
		fn:   func(n *Node) bool { return !n.IsText() && n.Props.String(name) == value },
		desc: fmt.Sprintf("ByProp(%s=%q)", name, value),
	}
}

// ByID is shorthand for ByProp("id", id).
func ByID(id string) Finder {
	return ByProp("id", id)
}

// ByPredicate returns a finder that matches nodes satisfying fn.
func ByPredicate(fn func(*Node) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// descendantFinder finds nodes matching 'matching' below nodes matching
// 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *Node) []*Node {
	var results []*Node
	seen := make(map[*Node]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		for _, child := range ancestor.Children {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches nodes satisfying 'matching' that
// are descendants of nodes matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// collectMatches performs depth-first pre-order traversal, collecting
// nodes that satisfy the predicate.
func collectMatches(root *Node, predicate func(*Node) bool) []*Node {
	var results []*Node
	walkTree(root, func(n *Node) {
		if predicate(n) {
			results = append(results, n)
		}
	})
	return results
}

func walkTree(root *Node, visit func(*Node)) {
	if root == nil {
		return
	}
	visit(root)
	for _, child := range root.Children {
		walkTree(child, visit)
	}
}

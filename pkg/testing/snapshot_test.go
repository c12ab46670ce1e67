package testing

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-drift/fiber/pkg/element"
)

type fakeT struct {
	errors []string
	fatals []string
}

func (f *fakeT) Helper()      {}
func (f *fakeT) Name() string { return "TestFake" }
func (f *fakeT) Errorf(format string, args ...any) {
	f.errors = append(f.errors, format)
}
func (f *fakeT) Fatalf(format string, args ...any) {
	f.fatals = append(f.fatals, format)
}

func TestCaptureSnapshot(t *testing.T) {
	tester := NewTesterWithT(t)
	err := tester.Render(element.Create("ul", element.Props{"class": "menu"},
		element.Create("li", nil, "one"),
		element.Create("li", element.Props{"onClick": func() {}}, "two"),
	))
	if err != nil {
		t.Fatal(err)
	}

	snap := tester.CaptureSnapshot()
	if len(snap.Tree) != 1 {
		t.Fatalf("expected one top-level node, got %d", len(snap.Tree))
	}
	ul := snap.Tree[0]
	if ul.Type != "ul" || ul.Props["class"] != "menu" {
		t.Errorf("unexpected root node %+v", ul)
	}
	if len(ul.Children) != 2 || ul.Children[1].Props != nil {
		t.Errorf("handlers should not be captured: %+v", ul.Children)
	}
	if ul.Children[0].Children[0].Text != "one" {
		t.Errorf("expected text child, got %+v", ul.Children[0].Children[0])
	}
	if len(snap.Ops) == 0 {
		t.Error("expected mutation log in snapshot")
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	tester := NewTesterWithT(t)
	if err := tester.Render(element.Create("p", nil, "hi")); err != nil {
		t.Fatal(err)
	}
	snap := tester.CaptureSnapshot()

	path := filepath.Join(t.TempDir(), "nested", "p.snapshot.json")
	if err := snap.UpdateFile(path); err != nil {
		t.Fatal(err)
	}

	ft := &fakeT{}
	snap.MatchesFile(ft, path)
	if len(ft.errors)+len(ft.fatals) != 0 {
		t.Errorf("expected match, got errors=%v fatals=%v", ft.errors, ft.fatals)
	}

	changed := CaptureSnapshot(tester.Container(), nil)
	changed.Tree[0].Children[0].Text = "bye"
	changed.MatchesFile(ft, path)
	if len(ft.errors) != 1 {
		t.Errorf("expected one mismatch, got %v", ft.errors)
	}
}

func TestSnapshot_MissingFile(t *testing.T) {
	t.Setenv("FIBER_UPDATE_SNAPSHOTS", "")
	ft := &fakeT{}
	(&Snapshot{}).MatchesFile(ft, filepath.Join(t.TempDir(), "missing.json"))
	if len(ft.fatals) != 1 || !strings.Contains(ft.fatals[0], "missing") {
		t.Errorf("expected missing-file failure, got %v", ft.fatals)
	}
}

func TestSnapshot_Diff(t *testing.T) {
	a := &Snapshot{Tree: []*SnapshotNode{{Type: "p"}}}
	b := &Snapshot{Tree: []*SnapshotNode{{Type: "p"}}}
	if d := a.Diff(b); d != "" {
		t.Errorf("expected no diff, got %s", d)
	}
	b.Tree[0].Type = "div"
	d := a.Diff(b)
	if !strings.Contains(d, `-      "type": "div"`) || !strings.Contains(d, `+      "type": "p"`) {
		t.Errorf("unexpected diff:\n%s", d)
	}
}

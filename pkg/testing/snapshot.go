package testing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures a host tree and the mutations that produced it.
type Snapshot struct {
	Tree []*SnapshotNode `json:"tree"`
	Ops  []string        `json:"ops,omitempty"`
}

// SnapshotNode is a serialized host node.
type SnapshotNode struct {
	Type     string            `json:"type"`
	Text     string            `json:"text,omitempty"`
	Props    map[string]string `json:"props,omitempty"`
	Children []*SnapshotNode   `json:"children,omitempty"`
}

// CaptureSnapshot serializes the children of container. Ops may be nil.
func CaptureSnapshot(container *Node, ops []string) *Snapshot {
	snap := &Snapshot{Ops: append([]string(nil), ops...)}
	for _, child := range container.Children {
		snap.Tree = append(snap.Tree, captureNode(child))
	}
	return snap
}

func captureNode(n *Node) *SnapshotNode {
	if n.IsText() {
		return &SnapshotNode{Type: n.Type, Text: n.Text}
	}
	node := &SnapshotNode{Type: n.Type}
	if names := attributeNames(n.Props); len(names) > 0 {
		node.Props = make(map[string]string, len(names))
		for _, name := range names {
			node.Props[name] = fmt.Sprint(n.Props[name])
		}
	}
	for _, child := range n.Children {
		node.Children = append(node.Children, captureNode(child))
	}
	return node
}

// UpdateSnapshotsEnv names the environment variable that rewrites golden
// files instead of comparing against them.
const UpdateSnapshotsEnv = "FIBER_UPDATE_SNAPSHOTS"

// MatchesFile compares the snapshot with the golden file at path and fails t
// with a unified diff on mismatch. With UpdateSnapshotsEnv=1 the file is
// rewritten instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()
	hint := fmt.Sprintf("%s=1 go test -run %s", UpdateSnapshotsEnv, t.Name())

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("snapshot %s: %v", path, err)
		}
		return
	}

	golden, err := loadSnapshot(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		t.Fatalf("snapshot %s missing, create it with %s", path, hint)
	case err != nil:
		t.Fatalf("snapshot %s: %v", path, err)
	default:
		if diff := s.Diff(golden); diff != "" {
			t.Errorf("snapshot %s differs:\n%s\nupdate with %s", path, diff, hint)
		}
	}
}

// UpdateFile writes the snapshot to path, creating parent directories.
func (s *Snapshot) UpdateFile(path string) error {
	data, err := s.MarshalIndent()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a unified diff from other to s, or "" when both serialize
// identically.
func (s *Snapshot) Diff(other *Snapshot) string {
	want, _ := other.MarshalIndent()
	got, _ := s.MarshalIndent()
	if bytes.Equal(want, got) {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(want)),
		B:        difflib.SplitLines(string(got)),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}

// MarshalIndent encodes the snapshot as indented JSON without HTML escaping.
func (s *Snapshot) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return snap, nil
}

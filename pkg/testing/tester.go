package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/reconciler"
	"github.com/go-drift/fiber/pkg/scheduler"
)

// DefaultMaxSteps bounds Flush so a render loop fails the test instead of
// hanging it.
const DefaultMaxSteps = 10000

// ErrNotSettled is returned when Flush exceeds its step budget.
var ErrNotSettled = errors.New("Flush exceeded its step budget: work keeps being scheduled")

// Tester mounts one root into a MemoryHost and drives its scheduler with a
// fake clock.
type Tester struct {
	clock     *FakeClock
	sched     *scheduler.Scheduler
	host      *MemoryHost
	rec       *reconciler.Reconciler
	container *Node
	root      *reconciler.Root
	commits   int
	maxSteps  int
}

type testerConfig struct {
	frameInterval time.Duration
	maxSteps      int
	schedOpts     []scheduler.Option
	recOpts       []reconciler.Option
}

// TesterOption configures a Tester.
type TesterOption func(*testerConfig)

// WithFrameInterval sets the scheduler's time slice.
func WithFrameInterval(d time.Duration) TesterOption {
	return func(c *testerConfig) { c.frameInterval = d }
}

// WithMaxSteps sets the Flush step budget.
func WithMaxSteps(n int) TesterOption {
	return func(c *testerConfig) { c.maxSteps = n }
}

// WithSchedulerOptions passes extra options to the scheduler.
func WithSchedulerOptions(opts ...scheduler.Option) TesterOption {
	return func(c *testerConfig) { c.schedOpts = append(c.schedOpts, opts...) }
}

// WithReconcilerOptions passes extra options to the reconciler.
func WithReconcilerOptions(opts ...reconciler.Option) TesterOption {
	return func(c *testerConfig) { c.recOpts = append(c.recOpts, opts...) }
}

// NewTester creates a tester with an empty root.
// Call Cleanup() when done, or use NewTesterWithT() instead.
func NewTester(opts ...TesterOption) *Tester {
	cfg := testerConfig{
		frameInterval: scheduler.DefaultFrameInterval,
		maxSteps:      DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	clk := NewFakeClock()
	t := &Tester{
		clock:     clk,
		host:      NewMemoryHost(),
		container: NewContainer(),
		maxSteps:  cfg.maxSteps,
	}
	schedOpts := append([]scheduler.Option{
		scheduler.WithClock(clk),
		scheduler.WithFrameInterval(cfg.frameInterval),
	}, cfg.schedOpts...)
	t.sched = scheduler.New(schedOpts...)

	recOpts := append([]reconciler.Option{
		reconciler.WithCommitHook(func(*reconciler.FiberRoot, *reconciler.Fiber) { t.commits++ }),
	}, cfg.recOpts...)
	t.rec = reconciler.New(t.host, t.sched, recOpts...)
	t.root = t.rec.CreateRoot(t.container)
	return t
}

// NewTesterWithT creates a tester that unmounts via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t *testing.T, opts ...TesterOption) *Tester {
	tester := NewTester(opts...)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the root and runs remaining work.
func (t *Tester) Cleanup() {
	if t.root == nil {
		return
	}
	t.root.Unmount()
	_ = t.Flush()
	t.root = nil
}

// Clock returns the fake clock the scheduler reads.
func (t *Tester) Clock() *FakeClock { return t.clock }

// Scheduler returns the scheduler driving the reconciler.
func (t *Tester) Scheduler() *scheduler.Scheduler { return t.sched }

// Host returns the memory host.
func (t *Tester) Host() *MemoryHost { return t.host }

// Reconciler returns the reconciler under test.
func (t *Tester) Reconciler() *reconciler.Reconciler { return t.rec }

// Container returns the root container node.
func (t *Tester) Container() *Node { return t.container }

// Root returns the mounted root.
func (t *Tester) Root() *reconciler.Root { return t.root }

// Commits returns how many trees have been committed.
func (t *Tester) Commits() int { return t.commits }

// Render replaces the root's content and flushes.
func (t *Tester) Render(node element.Node) error {
	return t.Act(func() { t.root.Render(node) })
}

// Act runs fn, then flushes all resulting work.
func (t *Tester) Act(fn func()) error {
	if fn != nil {
		fn()
	}
	return t.Flush()
}

// Step runs microtasks and at most one scheduler task slice.
func (t *Tester) Step() bool {
	return t.sched.Step()
}

// Flush runs scheduler work until idle.
func (t *Tester) Flush() error {
	for i := 0; i < t.maxSteps; i++ {
		if !t.sched.Step() {
			return nil
		}
	}
	return ErrNotSettled
}

// Find evaluates a finder against the container.
func (t *Tester) Find(finder Finder) FinderResult {
	return FinderResult{
		nodes:  finder.Evaluate(t.container),
		finder: finder,
	}
}

// Dispatch fires a synthetic event on the first node matched by finder
// and flushes.
func (t *Tester) Dispatch(finder Finder, eventType string) error {
	result := t.Find(finder)
	if !result.Exists() {
		return errors.New("Dispatch: finder matched no nodes: " + finder.Description())
	}
	return t.Act(func() { DispatchEvent(t.sched, result.First(), eventType) })
}

// Click is shorthand for Dispatch(finder, "click").
func (t *Tester) Click(finder Finder) error {
	return t.Dispatch(finder, "click")
}

// String renders the container's children as markup.
func (t *Tester) String() string {
	return t.container.String()
}

// CaptureSnapshot captures the host tree and mutation log.
func (t *Tester) CaptureSnapshot() *Snapshot {
	return CaptureSnapshot(t.container, t.host.Ops())
}

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-drift/fiber/pkg/config"
	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/reconciler"
	"github.com/go-drift/fiber/pkg/scheduler"
	fibertest "github.com/go-drift/fiber/pkg/testing"
)

// session is one mounted demo: a reconciler over a memory host, driven by a
// scheduler on a simulated clock.
type session struct {
	out       io.Writer
	clock     *fibertest.FakeClock
	sched     *scheduler.Scheduler
	host      *fibertest.MemoryHost
	rec       *reconciler.Reconciler
	container *fibertest.Node
	root      *reconciler.Root
	commits   int
}

func newSession(out io.Writer) *session {
	resolved := settings
	if resolved == nil {
		resolved, _ = (&config.Config{}).Resolve()
	}
	log := logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &session{
		out:       out,
		clock:     fibertest.NewFakeClock(),
		host:      fibertest.NewMemoryHost(),
		container: fibertest.NewContainer(),
	}
	schedOpts := append([]scheduler.Option{
		scheduler.WithClock(s.clock),
		scheduler.WithLogger(log),
	}, resolved.SchedulerOptions()...)
	s.sched = scheduler.New(schedOpts...)
	s.rec = reconciler.New(s.host, s.sched,
		reconciler.WithLogger(log),
		reconciler.WithCommitHook(s.onCommit),
	)
	s.root = s.rec.CreateRoot(s.container)
	return s
}

func (s *session) onCommit(_ *reconciler.FiberRoot, finished *reconciler.Fiber) {
	s.commits++
	var placed, updated, deleted int
	reconciler.WalkFibers(finished, func(f *reconciler.Fiber) bool {
		if f.Flags&reconciler.Placement != 0 {
			placed++
		}
		if f.Flags&reconciler.Update != 0 {
			updated++
		}
		deleted += len(f.Deletions)
		return true
	})
	fmt.Fprintf(s.out, "  commit #%d: %d placed, %d updated, %d deleted\n", s.commits, placed, updated, deleted)
}

// work returns a function advancing the simulated clock by d, standing in
// for an expensive render.
func (s *session) work(d time.Duration) func() {
	return func() { s.clock.Advance(d) }
}

// render replaces the root's content and runs it to completion.
func (s *session) render(title string, node element.Node) {
	s.act(title, func() { s.root.Render(node) })
}

// act runs fn, then all work it scheduled, and prints the outcome.
func (s *session) act(title string, fn func()) {
	s.heading(title)
	fn()
	s.sched.Flush()
	s.print()
}

// click dispatches a click on the node with the given id.
func (s *session) click(id string) error {
	nodes := fibertest.ByID(id).Evaluate(s.container)
	if len(nodes) == 0 {
		return fmt.Errorf("no node with id %q", id)
	}
	fibertest.DispatchEvent(s.sched, nodes[0], "click")
	return nil
}

// step runs one scheduler step and prints the outcome.
func (s *session) step(title string) {
	s.heading(title)
	s.sched.Step()
	s.print()
}

func (s *session) heading(title string) {
	fmt.Fprintf(s.out, "== %s\n", title)
}

func (s *session) print() {
	for _, op := range s.host.Ops() {
		fmt.Fprintf(s.out, "  %s\n", op)
	}
	s.host.ResetOps()
	fmt.Fprintf(s.out, "  tree: %s\n", s.container.String())
}

func (s *session) close() {
	s.root.Unmount()
	s.sched.Flush()
}

func printMetrics(out io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "== metrics")
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "fiber_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			value := m.GetCounter().GetValue()
			if h := m.GetHistogram(); h != nil {
				value = float64(h.GetSampleCount())
			}
			fmt.Fprintf(out, "  %s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), value)
		}
	}
	return nil
}

package reconciler_test

import (
	"sync"
	"testing"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/reconciler"
	fibertest "github.com/go-drift/fiber/pkg/testing"
)

// fiberRecord is a fiber's state as seen right before commit mutates it.
type fiberRecord struct {
	fiber     *reconciler.Fiber
	flags     reconciler.Flags
	deletions []*reconciler.Fiber
}

// commitLog records every finished tree handed to commit.
type commitLog struct {
	commits [][]fiberRecord
}

func (c *commitLog) hook(_ *reconciler.FiberRoot, finished *reconciler.Fiber) {
	var records []fiberRecord
	reconciler.WalkFibers(finished, func(f *reconciler.Fiber) bool {
		records = append(records, fiberRecord{
			fiber:     f,
			flags:     f.Flags,
			deletions: append([]*reconciler.Fiber(nil), f.Deletions...),
		})
		return true
	})
	c.commits = append(c.commits, records)
}

func (c *commitLog) last(t *testing.T) []fiberRecord {
	t.Helper()
	if len(c.commits) == 0 {
		t.Fatal("no commit recorded")
	}
	return c.commits[len(c.commits)-1]
}

// flagged returns the records carrying any of flags.
func flagged(records []fiberRecord, flags reconciler.Flags) []fiberRecord {
	var out []fiberRecord
	for _, r := range records {
		if r.flags&flags != 0 {
			out = append(out, r)
		}
	}
	return out
}

func newTester(t *testing.T, opts ...fibertest.TesterOption) (*fibertest.Tester, *commitLog) {
	t.Helper()
	log := &commitLog{}
	opts = append(opts, fibertest.WithReconcilerOptions(reconciler.WithCommitHook(log.hook)))
	return fibertest.NewTesterWithT(t, opts...), log
}

// captureHandler collects reported errors for one test.
type captureHandler struct {
	mu     sync.Mutex
	errs   []*errors.ReconcileError
	panics []*errors.PanicError
	render []*errors.RenderError
}

func (h *captureHandler) HandleError(err *errors.ReconcileError) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errs = append(h.errs, err)
}

func (h *captureHandler) HandlePanic(err *errors.PanicError) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.panics = append(h.panics, err)
}

func (h *captureHandler) HandleRenderError(err *errors.RenderError) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.render = append(h.render, err)
}

func captureErrors(t *testing.T) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return h
}

// recoverHookError runs fn and returns the *errors.HookError it panicked
// with, or nil.
func recoverHookError(fn func()) (hookErr *errors.HookError) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*errors.HookError)
			if !ok {
				panic(r)
			}
			hookErr = e
		}
	}()
	fn()
	return nil
}

// Package scheduler runs prioritised callbacks cooperatively on a single
// logical thread.
//
// Callbacks are ordered by expiration time, which is derived from their
// priority. A callback may return a continuation to be resumed later; this
// is how long work is sliced: the callback checks ShouldYield between units
// of work and returns a continuation when the frame budget is spent.
//
// Microtasks run after every callback and before the next one, giving
// same-tick batching to anything queued during a callback.
//
// The Scheduler is not safe for concurrent use, with the exception of Post,
// which hands a function to whichever goroutine is driving the scheduler.
package scheduler

import (
	"container/heap"
	"context"
	"log/slog"
	"sync"
	"time"
)

// Callback is a unit of scheduled work. didTimeout reports that the task
// expired before it ran. Returning a non-nil continuation keeps the task
// scheduled with the same priority.
type Callback func(didTimeout bool) Callback

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// DefaultFrameInterval is the time budget of one slice of work.
const DefaultFrameInterval = 5 * time.Millisecond

// Task is a handle to a scheduled callback.
type Task struct {
	id         uint64
	callback   Callback
	priority   Priority
	expiration time.Time
	index      int
	cancelled  bool
}

// Priority returns the task's priority.
func (t *Task) Priority() Priority { return t.priority }

// Cancelled reports whether the task was cancelled.
func (t *Task) Cancelled() bool { return t.cancelled }

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock, typically with a fake clock in tests.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithFrameInterval sets the slice budget consulted by ShouldYield.
func WithFrameInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.frameInterval = d
		}
	}
}

// WithTimeouts sets per-priority expiration budgets.
func WithTimeouts(t Timeouts) Option {
	return func(s *Scheduler) {
		s.timeouts = t
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scheduler is a cooperative priority scheduler.
type Scheduler struct {
	clock         Clock
	frameInterval time.Duration
	timeouts      Timeouts
	logger        *slog.Logger

	queue           taskHeap
	nextID          uint64
	currentPriority Priority
	currentTask     *Task
	frameStart      time.Time

	microtasks         []func()
	flushingMicrotasks bool

	mu    sync.Mutex
	inbox []func()
	wake  chan struct{}
}

// New creates a Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:           systemClock{},
		frameInterval:   DefaultFrameInterval,
		timeouts:        DefaultTimeouts,
		logger:          slog.Default(),
		currentPriority: NormalPriority,
		wake:            make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the scheduler clock's current time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// ScheduleCallback queues cb at the given priority.
func (s *Scheduler) ScheduleCallback(p Priority, cb Callback) *Task {
	if p == NoPriority {
		p = NormalPriority
	}
	s.nextID++
	task := &Task{
		id:         s.nextID,
		callback:   cb,
		priority:   p,
		expiration: s.clock.Now().Add(s.timeouts.forPriority(p)),
		index:      -1,
	}
	heap.Push(&s.queue, task)
	s.signal()
	return task
}

// CancelCallback prevents a scheduled task from running. Cancelling a task
// that already finished or was cancelled is a no-op.
func (s *Scheduler) CancelCallback(task *Task) {
	if task == nil || task.cancelled {
		return
	}
	task.cancelled = true
	task.callback = nil
	if task.index >= 0 {
		heap.Remove(&s.queue, task.index)
	}
}

// ShouldYield reports whether the current slice has used its budget.
func (s *Scheduler) ShouldYield() bool {
	return s.clock.Now().Sub(s.frameStart) >= s.frameInterval
}

// CurrentPriorityLevel returns the priority of the running task, or the
// priority set by RunWithPriority.
func (s *Scheduler) CurrentPriorityLevel() Priority {
	return s.currentPriority
}

// RunWithPriority runs fn with p as the current priority level.
func (s *Scheduler) RunWithPriority(p Priority, fn func()) {
	prev := s.currentPriority
	s.currentPriority = p
	defer func() { s.currentPriority = prev }()
	fn()
}

// QueueMicrotask runs fn after the current task, before any other task.
func (s *Scheduler) QueueMicrotask(fn func()) {
	s.microtasks = append(s.microtasks, fn)
	s.signal()
}

// FlushMicrotasks runs queued microtasks, including any they queue.
func (s *Scheduler) FlushMicrotasks() {
	if s.flushingMicrotasks {
		return
	}
	s.flushingMicrotasks = true
	defer func() { s.flushingMicrotasks = false }()
	for len(s.microtasks) > 0 {
		next := s.microtasks[0]
		s.microtasks[0] = nil
		s.microtasks = s.microtasks[1:]
		next()
	}
}

// HasPendingWork reports whether any task, microtask or posted function is
// waiting.
func (s *Scheduler) HasPendingWork() bool {
	s.mu.Lock()
	posted := len(s.inbox) > 0
	s.mu.Unlock()
	return posted || len(s.microtasks) > 0 || s.queue.Len() > 0
}

// Step runs posted functions, microtasks and at most one task slice.
// It reports whether any work was done.
func (s *Scheduler) Step() bool {
	did := s.drainInbox()
	if len(s.microtasks) > 0 {
		did = true
		s.FlushMicrotasks()
	}
	if s.runNextTask() {
		did = true
		s.FlushMicrotasks()
	}
	return did
}

// Flush runs work until nothing is pending.
func (s *Scheduler) Flush() {
	for s.Step() {
	}
}

// Post hands fn to the goroutine driving the scheduler. It is safe for
// concurrent use.
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	s.inbox = append(s.inbox, fn)
	s.mu.Unlock()
	s.signal()
}

// Run drives the scheduler on the calling goroutine until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		for s.Step() {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		}
	}
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) drainInbox() bool {
	s.mu.Lock()
	posted := s.inbox
	s.inbox = nil
	s.mu.Unlock()
	for _, fn := range posted {
		fn()
		s.FlushMicrotasks()
	}
	return len(posted) > 0
}

// runNextTask pops the most urgent task and runs one slice of it.
func (s *Scheduler) runNextTask() bool {
	if s.queue.Len() == 0 {
		return false
	}
	task := heap.Pop(&s.queue).(*Task)

	now := s.clock.Now()
	s.frameStart = now
	didTimeout := !task.expiration.After(now)

	prevPriority, prevTask := s.currentPriority, s.currentTask
	s.currentPriority, s.currentTask = task.priority, task
	defer func() {
		s.currentPriority, s.currentTask = prevPriority, prevTask
	}()

	cont := task.callback(didTimeout)
	if task.cancelled {
		return true
	}
	if cont != nil {
		task.callback = cont
		heap.Push(&s.queue, task)
		s.logger.Debug("task yielded", "task", task.id, "priority", task.priority)
		return true
	}
	task.callback = nil
	return true
}

// taskHeap orders tasks by expiration, then by scheduling order.
type taskHeap []*Task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if !h[i].expiration.Equal(h[j].expiration) {
		return h[i].expiration.Before(h[j].expiration)
	}
	return h[i].id < h[j].id
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	task := x.(*Task)
	task.index = len(*h)
	*h = append(*h, task)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	task := old[n-1]
	old[n-1] = nil
	task.index = -1
	*h = old[:n-1]
	return task
}

package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestScheduler() (*Scheduler, *manualClock) {
	clk := &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(WithClock(clk), WithFrameInterval(5*time.Millisecond)), clk
}

func TestScheduler_RunsByPriority(t *testing.T) {
	s, _ := newTestScheduler()
	var order []string
	record := func(name string) Callback {
		return func(bool) Callback {
			order = append(order, name)
			return nil
		}
	}

	s.ScheduleCallback(IdlePriority, record("idle"))
	s.ScheduleCallback(NormalPriority, record("normal"))
	s.ScheduleCallback(ImmediatePriority, record("immediate"))
	s.ScheduleCallback(UserBlockingPriority, record("user-blocking"))
	s.ScheduleCallback(NormalPriority, record("normal-2"))
	s.Flush()

	assert.Equal(t, []string{"immediate", "user-blocking", "normal", "normal-2", "idle"}, order)
	assert.False(t, s.HasPendingWork())
}

func TestScheduler_Cancel(t *testing.T) {
	s, _ := newTestScheduler()
	ran := false
	task := s.ScheduleCallback(NormalPriority, func(bool) Callback {
		ran = true
		return nil
	})
	s.CancelCallback(task)
	s.CancelCallback(task)
	s.Flush()

	assert.False(t, ran)
	assert.True(t, task.Cancelled())
}

func TestScheduler_CurrentPriorityDuringTask(t *testing.T) {
	s, _ := newTestScheduler()
	assert.Equal(t, NormalPriority, s.CurrentPriorityLevel())

	var seen Priority
	s.ScheduleCallback(UserBlockingPriority, func(bool) Callback {
		seen = s.CurrentPriorityLevel()
		return nil
	})
	s.Flush()

	assert.Equal(t, UserBlockingPriority, seen)
	assert.Equal(t, NormalPriority, s.CurrentPriorityLevel())
}

func TestScheduler_RunWithPriorityRestores(t *testing.T) {
	s, _ := newTestScheduler()
	s.RunWithPriority(ImmediatePriority, func() {
		assert.Equal(t, ImmediatePriority, s.CurrentPriorityLevel())
		s.RunWithPriority(IdlePriority, func() {
			assert.Equal(t, IdlePriority, s.CurrentPriorityLevel())
		})
		assert.Equal(t, ImmediatePriority, s.CurrentPriorityLevel())
	})
	assert.Equal(t, NormalPriority, s.CurrentPriorityLevel())
}

func TestScheduler_ContinuationAndYield(t *testing.T) {
	s, clk := newTestScheduler()
	remaining := 5
	slices := 0

	var work Callback
	work = func(bool) Callback {
		slices++
		for remaining > 0 {
			remaining--
			clk.Advance(2 * time.Millisecond)
			if s.ShouldYield() {
				return work
			}
		}
		return nil
	}
	s.ScheduleCallback(NormalPriority, work)

	require.True(t, s.Step())
	assert.Equal(t, 1, slices)
	assert.Equal(t, 2, remaining, "first slice should stop after spending its budget")
	assert.True(t, s.HasPendingWork())

	s.Flush()
	assert.Equal(t, 0, remaining)
	assert.Equal(t, 2, slices)
}

func TestScheduler_DidTimeout(t *testing.T) {
	s, clk := newTestScheduler()
	var timedOut []bool
	cb := func(didTimeout bool) Callback {
		timedOut = append(timedOut, didTimeout)
		return nil
	}
	s.ScheduleCallback(ImmediatePriority, cb)
	s.ScheduleCallback(UserBlockingPriority, cb)
	clk.Advance(time.Second)
	s.ScheduleCallback(NormalPriority, cb)
	s.Flush()

	assert.Equal(t, []bool{true, true, false}, timedOut)
}

func TestScheduler_MicrotasksRunBetweenTasks(t *testing.T) {
	s, _ := newTestScheduler()
	var order []string
	s.ScheduleCallback(NormalPriority, func(bool) Callback {
		order = append(order, "task-1")
		s.QueueMicrotask(func() {
			order = append(order, "micro-1")
			s.QueueMicrotask(func() { order = append(order, "micro-2") })
		})
		return nil
	})
	s.ScheduleCallback(NormalPriority, func(bool) Callback {
		order = append(order, "task-2")
		return nil
	})
	s.Flush()

	assert.Equal(t, []string{"task-1", "micro-1", "micro-2", "task-2"}, order)
}

func TestScheduler_PanicRestoresState(t *testing.T) {
	s, _ := newTestScheduler()
	s.ScheduleCallback(UserBlockingPriority, func(bool) Callback {
		panic("boom")
	})
	assert.PanicsWithValue(t, "boom", func() { s.Flush() })
	assert.Equal(t, NormalPriority, s.CurrentPriorityLevel())
	assert.False(t, s.HasPendingWork(), "the panicking task must not be retried")
}

func TestScheduler_PostAndRun(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	var wg sync.WaitGroup
	results := make(chan int, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Post(func() { results <- i })
		}(i)
	}
	wg.Wait()

	seen := map[int]bool{}
	for len(seen) < 10 {
		select {
		case v := <-results:
			seen[v] = true
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for posted functions")
		}
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestParsePriority(t *testing.T) {
	for p := ImmediatePriority; p <= IdlePriority; p++ {
		got, ok := ParsePriority(p.String())
		assert.True(t, ok)
		assert.Equal(t, p, got)
	}
	_, ok := ParsePriority("urgent")
	assert.False(t, ok)
}

package testing

import (
	"testing"
	"time"

	"github.com/go-drift/fiber/pkg/scheduler"
)

var _ scheduler.Clock = (*FakeClock)(nil)

func TestFakeClock_Advance(t *testing.T) {
	clk := NewFakeClock()
	if !clk.Now().Equal(Epoch) {
		t.Fatalf("new clock should start at Epoch")
	}

	clk.Advance(100 * time.Millisecond)
	if got := clk.Elapsed(); got != 100*time.Millisecond {
		t.Errorf("Elapsed() = %v, want 100ms", got)
	}
	if got := clk.Elapsed(); got != 100*time.Millisecond {
		t.Errorf("reading Elapsed should not move the clock, got %v", got)
	}
}

func TestFakeClock_Step(t *testing.T) {
	clk := NewFakeClock()
	clk.SetStep(2 * time.Millisecond)

	first := clk.Now()
	second := clk.Now()
	if d := second.Sub(first); d != 2*time.Millisecond {
		t.Errorf("consecutive reads %v apart, want 2ms", d)
	}

	clk.SetStep(0)
	if !clk.Now().Equal(clk.Now()) {
		t.Error("a zero step should freeze the clock")
	}
}

func TestFakeClock_Set(t *testing.T) {
	clk := NewFakeClock()
	target := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	clk.Set(target)
	if !clk.Now().Equal(target) {
		t.Errorf("expected %v, got %v", target, clk.Now())
	}
}

func TestTester_Clock(t *testing.T) {
	tester := NewTesterWithT(t)
	clk := tester.Clock()

	if clk == nil {
		t.Fatal("expected non-nil clock")
	}

	start := tester.Scheduler().Now()
	clk.Advance(500 * time.Millisecond)
	if tester.Scheduler().Now().Sub(start) != 500*time.Millisecond {
		t.Error("clock advancement not reflected in the scheduler")
	}
}

func TestTester_SteppedClockYields(t *testing.T) {
	tester := NewTesterWithT(t, WithFrameInterval(5*time.Millisecond))
	sched := tester.Scheduler()
	tester.Clock().SetStep(time.Millisecond)
	t.Cleanup(func() { tester.Clock().SetStep(0) })

	checks := 0
	sched.ScheduleCallback(scheduler.NormalPriority, func(bool) scheduler.Callback {
		for !sched.ShouldYield() {
			checks++
		}
		return nil
	})
	tester.Step()

	if checks == 0 || checks > 5 {
		t.Errorf("expected a handful of checks before yielding, got %d", checks)
	}
}

func TestTester_ClockDrivesTimeSlicing(t *testing.T) {
	tester := NewTesterWithT(t, WithFrameInterval(5*time.Millisecond))
	sched := tester.Scheduler()

	slices := 0
	var work scheduler.Callback
	work = func(bool) scheduler.Callback {
		slices++
		for !sched.ShouldYield() {
			tester.Clock().Advance(time.Millisecond)
		}
		if slices < 3 {
			return work
		}
		return nil
	}
	sched.ScheduleCallback(scheduler.NormalPriority, work)

	if err := tester.Flush(); err != nil {
		t.Fatal(err)
	}
	if slices != 3 {
		t.Errorf("expected 3 slices, got %d", slices)
	}
}

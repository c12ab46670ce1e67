package scheduler

import (
	"math"
	"time"
)

// Priority orders scheduled callbacks. Lower values are more urgent.
type Priority int

const (
	NoPriority Priority = iota
	ImmediatePriority
	UserBlockingPriority
	NormalPriority
	LowPriority
	IdlePriority
)

func (p Priority) String() string {
	switch p {
	case ImmediatePriority:
		return "immediate"
	case UserBlockingPriority:
		return "user-blocking"
	case NormalPriority:
		return "normal"
	case LowPriority:
		return "low"
	case IdlePriority:
		return "idle"
	default:
		return "none"
	}
}

// ParsePriority converts a name produced by Priority.String back to a
// Priority.
func ParsePriority(name string) (Priority, bool) {
	for p := ImmediatePriority; p <= IdlePriority; p++ {
		if p.String() == name {
			return p, true
		}
	}
	return NoPriority, false
}

// Timeouts bounds how long a callback may wait before it is considered
// expired. Expired callbacks are told so and should finish without yielding.
type Timeouts struct {
	UserBlocking time.Duration
	Normal       time.Duration
	Low          time.Duration
}

// DefaultTimeouts mirrors the usual browser scheduler budgets.
var DefaultTimeouts = Timeouts{
	UserBlocking: 250 * time.Millisecond,
	Normal:       5 * time.Second,
	Low:          10 * time.Second,
}

// idleTimeout never expires in practice.
const idleTimeout = time.Duration(math.MaxInt32) * time.Millisecond

func (t Timeouts) forPriority(p Priority) time.Duration {
	switch p {
	case ImmediatePriority:
		return -time.Millisecond
	case UserBlockingPriority:
		return t.UserBlocking
	case LowPriority:
		return t.Low
	case IdlePriority:
		return idleTimeout
	default:
		return t.Normal
	}
}

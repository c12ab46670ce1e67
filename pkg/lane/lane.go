// Package lane encodes the relative urgency of pending work as bits in a
// small bitset. A lower bit is more urgent.
package lane

import (
	"strings"

	"github.com/go-drift/fiber/pkg/scheduler"
)

// Lanes is a set of lanes. Lane is a set holding at most one bit.
type Lanes uint32

// Lane is a single priority bit.
type Lane = Lanes

const (
	NoLane              Lane = 0b00000
	SyncLane            Lane = 0b00001
	InputContinuousLane Lane = 0b00010
	DefaultLane         Lane = 0b00100
	TransitionLane      Lane = 0b01000
	IdleLane            Lane = 0b10000

	NoLanes Lanes = 0
)

var laneNames = []struct {
	lane Lane
	name string
}{
	{SyncLane, "Sync"},
	{InputContinuousLane, "InputContinuous"},
	{DefaultLane, "Default"},
	{TransitionLane, "Transition"},
	{IdleLane, "Idle"},
}

func (l Lanes) String() string {
	if l == NoLanes {
		return "NoLane"
	}
	var parts []string
	for _, n := range laneNames {
		if l&n.lane != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "Unknown"
	}
	return strings.Join(parts, "|")
}

// MergeLanes returns the union of a and b.
func MergeLanes(a, b Lanes) Lanes {
	return a | b
}

// RemoveLanes returns set without the lanes in subset.
func RemoveLanes(set, subset Lanes) Lanes {
	return set &^ subset
}

// GetHighestPriorityLane isolates the lowest set bit, which is the most
// urgent lane in the set.
func GetHighestPriorityLane(lanes Lanes) Lane {
	return lanes & -lanes
}

// IsSubsetOfLanes reports whether every lane in subset is also in set.
// NoLane is a subset of every set.
func IsSubsetOfLanes(set, subset Lanes) bool {
	return set&subset == subset
}

// RequestUpdateLane picks the lane for a new update from the ambient
// execution context.
func RequestUpdateLane(inTransition bool, current scheduler.Priority) Lane {
	if inTransition {
		return TransitionLane
	}
	return FromSchedulerPriority(current)
}

// ToSchedulerPriority maps the most urgent lane of lanes to a scheduler
// priority.
func ToSchedulerPriority(lanes Lanes) scheduler.Priority {
	switch GetHighestPriorityLane(lanes) {
	case SyncLane:
		return scheduler.ImmediatePriority
	case InputContinuousLane:
		return scheduler.UserBlockingPriority
	case DefaultLane:
		return scheduler.NormalPriority
	case TransitionLane:
		return scheduler.LowPriority
	default:
		return scheduler.IdlePriority
	}
}

// FromSchedulerPriority maps a scheduler priority to its lane.
func FromSchedulerPriority(p scheduler.Priority) Lane {
	switch p {
	case scheduler.ImmediatePriority:
		return SyncLane
	case scheduler.UserBlockingPriority:
		return InputContinuousLane
	case scheduler.NormalPriority:
		return DefaultLane
	case scheduler.LowPriority:
		return TransitionLane
	default:
		return IdleLane
	}
}

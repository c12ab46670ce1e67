package testing

import (
	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/reconciler"
	"github.com/go-drift/fiber/pkg/scheduler"
)

// Event is a synthetic event delivered to handlers stashed on host nodes.
type Event struct {
	Type string
	// Target is the node the event was dispatched on.
	Target *Node
	// CurrentTarget is the node whose handler is running.
	CurrentTarget *Node

	stopped bool
}

// StopPropagation prevents handlers on further nodes from running.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// EventHandler handles a synthetic event.
type EventHandler func(e *Event)

// eventProps maps a native event type to its bubble and capture handler
// props.
var eventProps = map[string][2]string{
	"click":     {"onClick", "onClickCapture"},
	"input":     {"onInput", "onInputCapture"},
	"mousemove": {"onMouseMove", "onMouseMoveCapture"},
	"scroll":    {"onScroll", "onScrollCapture"},
}

// EventPriority returns the scheduler priority updates dispatched from a
// handler of eventType run at.
func EventPriority(eventType string) scheduler.Priority {
	switch eventType {
	case "click", "keydown", "keyup", "input":
		return scheduler.ImmediatePriority
	case "scroll", "mousemove", "mouseenter", "mouseleave":
		return scheduler.UserBlockingPriority
	default:
		return scheduler.NormalPriority
	}
}

func isHandler(v any) bool {
	switch v.(type) {
	case EventHandler, func(*Event), func():
		return true
	}
	return false
}

// DispatchEvent delivers an event of eventType to target. Capture handlers
// run from the outermost node in, then bubble handlers from target out,
// all at the event type's priority on sched. It reports whether any
// handler ran.
func DispatchEvent(sched reconciler.Scheduler, target *Node, eventType string) bool {
	names, ok := eventProps[eventType]
	if !ok {
		return false
	}
	bubbleName, captureName := names[0], names[1]

	var path []*Node
	for n := target; n != nil; n = n.Parent {
		if n.Type != ContainerType && !n.IsText() {
			path = append(path, n)
		}
	}

	e := &Event{Type: eventType, Target: target}
	handled := false
	sched.RunWithPriority(EventPriority(eventType), func() {
		for i := len(path) - 1; i >= 0 && !e.stopped; i-- {
			if invoke(e, path[i], captureName) {
				handled = true
			}
		}
		for i := 0; i < len(path) && !e.stopped; i++ {
			if invoke(e, path[i], bubbleName) {
				handled = true
			}
		}
	})
	return handled
}

// invoke calls n's handler for prop. A panicking handler is reported and
// still counts as handled.
func invoke(e *Event, n *Node, prop string) (handled bool) {
	defer errors.RecoverWithCallback("testing.DispatchEvent", func(any) { handled = true })
	e.CurrentTarget = n
	switch fn := n.fiberProps[prop].(type) {
	case EventHandler:
		fn(e)
	case func(*Event):
		fn(e)
	case func():
		fn()
	default:
		return false
	}
	return true
}

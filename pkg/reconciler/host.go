package reconciler

import (
	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/scheduler"
)

// Instance is an opaque host node or root container.
type Instance = any

// Host is the narrow interface the reconciler needs from a rendering
// backend. Parents passed to AppendChild, InsertBefore and RemoveChild are
// either host instances or the container a root was created with.
type Host interface {
	// CreateInstance creates a detached host node for a tag.
	CreateInstance(typ string, props element.Props) Instance
	// CreateTextInstance creates a detached text node.
	CreateTextInstance(text string) Instance
	// AppendInitialChild appends to a node that is not yet attached.
	AppendInitialChild(parent, child Instance)
	// AppendChild moves child to the end of parent.
	AppendChild(parent, child Instance)
	// InsertBefore moves child in front of before, both under parent.
	InsertBefore(parent, child, before Instance)
	// RemoveChild detaches child from parent.
	RemoveChild(parent, child Instance)
	// CommitTextUpdate replaces a text node's content.
	CommitTextUpdate(text Instance, content string)
	// CommitUpdate patches a host node whose props changed.
	CommitUpdate(instance Instance, typ string, oldProps, newProps element.Props)
	// UpdateFiberProps stashes the latest props on a host node, where event
	// dispatch can find handlers.
	UpdateFiberProps(instance Instance, props element.Props)
}

// Scheduler is the cooperative scheduler the work loop runs on.
// *scheduler.Scheduler implements it.
type Scheduler interface {
	ScheduleCallback(p scheduler.Priority, cb scheduler.Callback) *scheduler.Task
	CancelCallback(task *scheduler.Task)
	ShouldYield() bool
	CurrentPriorityLevel() scheduler.Priority
	RunWithPriority(p scheduler.Priority, fn func())
	QueueMicrotask(fn func())
}

var _ Scheduler = (*scheduler.Scheduler)(nil)

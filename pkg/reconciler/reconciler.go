package reconciler

import (
	"log/slog"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/lane"
	"github.com/go-drift/fiber/pkg/scheduler"
)

// Reconciler renders element trees into a Host on a Scheduler.
type Reconciler struct {
	host      Host
	scheduler Scheduler
	logger    *slog.Logger
	onCommit  []CommitHook

	session *renderSession

	syncQueue         []func()
	flushingSyncQueue bool
	inTransition      bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger for render and commit diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// CommitHook observes a finished tree right before its mutations are
// applied.
type CommitHook func(root *FiberRoot, finishedWork *Fiber)

// WithCommitHook adds fn to the commit hooks. Hooks run in registration
// order.
func WithCommitHook(fn CommitHook) Option {
	return func(r *Reconciler) {
		if fn != nil {
			r.onCommit = append(r.onCommit, fn)
		}
	}
}

// New creates a Reconciler driving host on sched.
func New(host Host, sched Scheduler, opts ...Option) *Reconciler {
	r := &Reconciler{
		host:      host,
		scheduler: sched,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root is a mounted tree bound to a host container.
type Root struct {
	rec  *Reconciler
	root *FiberRoot
}

// CreateRoot creates an empty root rendering into container.
func (r *Reconciler) CreateRoot(container Instance) *Root {
	root := createFiberRoot(container)
	r.logger.Debug("root created", "root", root.ID)
	return &Root{rec: r, root: root}
}

// Render replaces the root's content with node. The update is on the sync
// lane, so it commits when the current task's microtasks run.
func (rt *Root) Render(node element.Node) {
	rt.rec.UpdateContainer(node, rt.root)
}

// Unmount removes everything the root rendered.
func (rt *Root) Unmount() {
	rt.rec.UpdateContainer(nil, rt.root)
}

// FiberRoot exposes the root's fiber tree for inspection.
func (rt *Root) FiberRoot() *FiberRoot {
	return rt.root
}

// UpdateContainer enqueues node as the next content of root at immediate
// priority.
func (r *Reconciler) UpdateContainer(node element.Node, root *FiberRoot) {
	r.scheduler.RunWithPriority(scheduler.ImmediatePriority, func() {
		hostRootFiber := root.Current
		l := r.requestUpdateLane()
		enqueueUpdate(hostRootFiber.UpdateQueue, createUpdate(node, l))
		r.scheduleUpdateOnFiber(hostRootFiber, l)
	})
}

// StartTransition runs fn with every update it dispatches on the
// transition lane.
func (r *Reconciler) StartTransition(fn func()) {
	prev := r.inTransition
	r.inTransition = true
	defer func() { r.inTransition = prev }()
	fn()
}

// FlushSync runs fn at immediate priority and renders the resulting sync
// work before returning.
func (r *Reconciler) FlushSync(fn func()) {
	if fn != nil {
		r.scheduler.RunWithPriority(scheduler.ImmediatePriority, fn)
	}
	r.flushSyncCallbacks()
}

func (r *Reconciler) requestUpdateLane() lane.Lane {
	return lane.RequestUpdateLane(r.inTransition, r.scheduler.CurrentPriorityLevel())
}

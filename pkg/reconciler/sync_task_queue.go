package reconciler

func (r *Reconciler) scheduleSyncCallback(cb func()) {
	r.syncQueue = append(r.syncQueue, cb)
}

// flushSyncCallbacks runs queued sync work, including work queued while
// flushing. Nested calls return immediately.
func (r *Reconciler) flushSyncCallbacks() {
	if r.flushingSyncQueue || len(r.syncQueue) == 0 {
		return
	}
	r.flushingSyncQueue = true
	defer func() { r.flushingSyncQueue = false }()

	for len(r.syncQueue) > 0 {
		queue := r.syncQueue
		r.syncQueue = nil
		for _, cb := range queue {
			cb()
		}
	}
}

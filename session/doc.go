// Package session holds the per-process state of the upload-and-poll
// workflow.
//
// A Store is created once per application session, started and stopped
// through the component lifecycle, and keyed by job id. Stopping it halts
// every poller it owns. A Manager drives the workflow on top of a Store:
//
//	store := session.NewStore()
//	store.Start(ctx)
//	defer store.Stop(ctx)
//
//	mgr := session.NewManager(store, client)
//	id, err := mgr.Begin(ctx, file, form.Options())
//	err = mgr.Follow(ctx, id, func(v render.View) { ... })
package session

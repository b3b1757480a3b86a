package session

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/audioscript/poller"
	"github.com/kbukum/audioscript/render"
	"github.com/kbukum/audioscript/transcription"
)

// Entry is the state kept for one submitted job.
type Entry struct {
	JobID     string
	FileName  string
	Options   transcription.Options
	CreatedAt time.Time

	poller *poller.Poller

	mu        sync.Mutex
	onView    func(render.View)
	stopRun   context.CancelFunc
	done      chan struct{}
	cancelled bool
}

// Snapshot returns the latest poller snapshot.
func (e *Entry) Snapshot() poller.Snapshot {
	return e.poller.Snapshot()
}

// View projects the latest snapshot.
func (e *Entry) View() render.View {
	return render.Project(e.poller.Snapshot())
}

// Following reports whether a Follow call is currently polling this job.
func (e *Entry) Following() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done != nil
}

// Cancelled reports whether the job was cancelled locally.
func (e *Entry) Cancelled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancelled
}

func (e *Entry) emit(snap poller.Snapshot) {
	e.mu.Lock()
	fn := e.onView
	e.mu.Unlock()
	if fn != nil {
		fn(render.Project(snap))
	}
}

// attach claims the entry for one follower. It returns false when the job
// is already followed or was cancelled.
func (e *Entry) attach(stop context.CancelFunc, onView func(render.View)) (chan struct{}, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done != nil || e.cancelled {
		return nil, false
	}
	e.stopRun, e.onView = stop, onView
	e.done = make(chan struct{})
	return e.done, true
}

func (e *Entry) detach(done chan struct{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done == done {
		e.stopRun, e.onView, e.done = nil, nil, nil
	}
	close(done)
}

// interrupt stops any running follower without waiting for it. It returns
// the channel closed when that follower exits, or nil when none runs.
func (e *Entry) interrupt(markCancelled bool) <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	if markCancelled {
		e.cancelled = true
	}
	if e.stopRun == nil {
		return nil
	}
	e.stopRun()
	return e.done
}

// halt interrupts the follower and waits for it to exit or for ctx to
// expire.
func (e *Entry) halt(ctx context.Context, markCancelled bool) error {
	return wait(ctx, e.interrupt(markCancelled))
}

func wait(ctx context.Context, done <-chan struct{}) error {
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

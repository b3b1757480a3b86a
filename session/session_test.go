package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/audioscript/component"
	"github.com/kbukum/audioscript/errors"
	"github.com/kbukum/audioscript/logger"
	"github.com/kbukum/audioscript/poller"
	"github.com/kbukum/audioscript/render"
	"github.com/kbukum/audioscript/testutil"
	"github.com/kbukum/audioscript/transcription"
)

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func newManager(t *testing.T, svc transcription.Service, popts ...poller.Option) *Manager {
	t.Helper()
	store := NewStore()
	testutil.Start(t, store)
	return NewManager(store, svc, WithLogger(logger.Nop()), WithPollerOptions(popts...))
}

func wavFile() transcription.AudioFile {
	return transcription.FileFromBytes("clip.wav", "audio/wav", make([]byte, 2<<20))
}

type viewLog struct {
	mu    sync.Mutex
	views []render.View
}

func (l *viewLog) add(v render.View) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.views = append(l.views, v)
}

func (l *viewLog) all() []render.View {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]render.View(nil), l.views...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestBeginAndFollow_Scenario(t *testing.T) {
	svc := testutil.NewFakeService("abc123",
		testutil.Processing(40),
		testutil.Succeeded(transcription.Segment{Start: 0, End: 2.5, Text: "hello", Confidence: 0.98}),
	)
	mgr := newManager(t, svc, poller.WithSleep(noSleep))
	ctx := context.Background()

	id, err := mgr.Begin(ctx, wavFile(), transcription.DefaultOptions())
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if id != "abc123" {
		t.Fatalf("id = %q, want abc123", id)
	}
	e, ok := mgr.Store().Get(id)
	if !ok || e.FileName != "clip.wav" || e.Following() {
		t.Fatalf("entry = %+v, %v", e, ok)
	}

	var log viewLog
	if err := mgr.Follow(ctx, id, log.add); err != nil {
		t.Fatalf("Follow() error = %v", err)
	}

	views := log.all()
	if len(views) != 3 {
		t.Fatalf("got %d views, want 3", len(views))
	}
	if views[0].Mode != render.ModeLoading {
		t.Errorf("views[0].Mode = %q, want loading", views[0].Mode)
	}
	if views[1].Mode != render.ModeProgress || views[1].Progress != 40 {
		t.Errorf("views[1] = %+v, want progress 40", views[1])
	}
	last := views[2]
	if last.Mode != render.ModeSegments || !last.Settled || len(last.Rows) != 1 {
		t.Fatalf("views[2] = %+v", last)
	}
	if last.Rows[0].Range != "00:00:00 - 00:00:02" || last.Rows[0].Text != "hello" {
		t.Errorf("row = %+v", last.Rows[0])
	}
	if e.Following() {
		t.Error("entry still marked as followed after Follow returned")
	}
}

func TestBegin_RejectedFileTracksNothing(t *testing.T) {
	svc := testutil.NewFakeService("never")
	mgr := newManager(t, svc)

	png := transcription.FileFromBytes("image.png", "image/png", []byte("x"))
	_, err := mgr.Begin(context.Background(), png, transcription.DefaultOptions())
	if !errors.IsCode(err, errors.ErrCodeUnsupportedFileType) {
		t.Fatalf("Begin() error = %v, want UNSUPPORTED_FILE_TYPE", err)
	}
	if svc.Uploads() != 0 || len(mgr.Store().Jobs()) != 0 {
		t.Errorf("uploads = %d, jobs = %v", svc.Uploads(), mgr.Store().Jobs())
	}
}

func TestBegin_UploadFailureTracksNothing(t *testing.T) {
	svc := testutil.NewFakeService("x").FailUploads(fmt.Errorf("connection refused"))
	mgr := newManager(t, svc)

	_, err := mgr.Begin(context.Background(), wavFile(), transcription.DefaultOptions())
	if !errors.IsCode(err, errors.ErrCodeUploadFailed) {
		t.Fatalf("Begin() error = %v, want UPLOAD_FAILED", err)
	}
	if len(mgr.Store().Jobs()) != 0 {
		t.Errorf("jobs = %v, want none", mgr.Store().Jobs())
	}
}

func TestBegin_StoreNotStarted(t *testing.T) {
	svc := testutil.NewFakeService("id")
	mgr := NewManager(NewStore(), svc, WithLogger(logger.Nop()))
	if _, err := mgr.Begin(context.Background(), wavFile(), transcription.DefaultOptions()); err != ErrNotStarted {
		t.Errorf("Begin() error = %v, want ErrNotStarted", err)
	}
	if n := svc.Uploads(); n != 0 {
		t.Errorf("uploads = %d, want none while the store is stopped", n)
	}
}

func TestBegin_UntrackedJobIsCancelled(t *testing.T) {
	svc := testutil.NewFakeService("dup")
	mgr := newManager(t, svc)
	ctx := context.Background()

	if _, err := mgr.Begin(ctx, wavFile(), transcription.DefaultOptions()); err != nil {
		t.Fatalf("first Begin() error = %v", err)
	}
	_, err := mgr.Begin(ctx, wavFile(), transcription.DefaultOptions())
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("second Begin() error = %v, want INVALID_INPUT", err)
	}
	if got := svc.Cancels(); len(got) != 1 || got[0] != "dup" {
		t.Errorf("remote cancels = %v, want the refused job cancelled", got)
	}
}

func TestFollow_UnknownJob(t *testing.T) {
	mgr := newManager(t, testutil.NewFakeService("id"))
	err := mgr.Follow(context.Background(), "missing", nil)
	if !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("Follow() error = %v, want NOT_FOUND", err)
	}
	if err := mgr.Cancel(context.Background(), "missing"); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("Cancel() error = %v, want NOT_FOUND", err)
	}
}

func TestFollow_JobError(t *testing.T) {
	svc := testutil.NewFakeService("j1", testutil.Failed("unsupported codec"))
	mgr := newManager(t, svc, poller.WithSleep(noSleep))
	ctx := context.Background()

	id, _ := mgr.Begin(ctx, wavFile(), transcription.DefaultOptions())
	var log viewLog
	err := mgr.Follow(ctx, id, log.add)
	if !errors.IsCode(err, errors.ErrCodeJobError) {
		t.Fatalf("Follow() error = %v, want JOB_ERROR", err)
	}
	views := log.all()
	if last := views[len(views)-1]; last.Mode != render.ModeJobError || last.Message != "unsupported codec" {
		t.Errorf("last view = %+v", last)
	}
}

func startFollowing(t *testing.T, mgr *Manager, svc *testutil.FakeService, id string) <-chan error {
	t.Helper()
	errc := make(chan error, 1)
	go func() { errc <- mgr.Follow(context.Background(), id, nil) }()
	waitFor(t, "first fetch", func() bool { return svc.StatusCalls() >= 1 })
	return errc
}

func TestCancel_StopsPollerThenCancelsRemotely(t *testing.T) {
	svc := testutil.NewFakeService("j2", testutil.Processing(10))
	mgr := newManager(t, svc, poller.WithInterval(time.Hour))
	ctx := context.Background()

	id, _ := mgr.Begin(ctx, wavFile(), transcription.DefaultOptions())
	errc := startFollowing(t, mgr, svc, id)

	if err := mgr.Cancel(ctx, id); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	select {
	case err := <-errc:
		if err != ErrCancelled {
			t.Errorf("Follow() error = %v, want ErrCancelled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Follow did not return after Cancel")
	}

	calls := svc.StatusCalls()
	if got := svc.Cancels(); len(got) != 1 || got[0] != id {
		t.Errorf("remote cancels = %v", got)
	}
	if err := mgr.Follow(ctx, id, nil); err != ErrCancelled {
		t.Errorf("Follow() after cancel error = %v, want ErrCancelled", err)
	}
	if svc.StatusCalls() != calls {
		t.Errorf("fetches continued after cancel: %d -> %d", calls, svc.StatusCalls())
	}
}

func TestCancel_RemoteFailureKeepsLocalStop(t *testing.T) {
	svc := testutil.NewFakeService("j3", testutil.Processing(10)).FailCancels(fmt.Errorf("HTTP 500"))
	mgr := newManager(t, svc, poller.WithInterval(time.Hour))
	ctx := context.Background()

	id, _ := mgr.Begin(ctx, wavFile(), transcription.DefaultOptions())
	errc := startFollowing(t, mgr, svc, id)

	err := mgr.Cancel(ctx, id)
	if !errors.IsCode(err, errors.ErrCodeCancelFailed) {
		t.Fatalf("Cancel() error = %v, want CANCEL_FAILED", err)
	}
	if err := <-errc; err != ErrCancelled {
		t.Errorf("Follow() error = %v, want ErrCancelled", err)
	}
	e, _ := mgr.Store().Get(id)
	if !e.Cancelled() {
		t.Error("entry should stay cancelled after a failed remote cancel")
	}
}

func TestCancel_SlowFetchDoesNotBlockRemoteCancel(t *testing.T) {
	svc := testutil.NewFakeService("j7", testutil.Processing(10))
	release := make(chan struct{})
	inFlight := make(chan struct{})
	svc.OnStatus = func(_ context.Context, call int) {
		if call == 2 {
			close(inFlight)
			<-release
		}
	}
	mgr := newManager(t, svc, poller.WithSleep(noSleep))
	id, _ := mgr.Begin(context.Background(), wavFile(), transcription.DefaultOptions())
	errc := make(chan error, 1)
	go func() { errc <- mgr.Follow(context.Background(), id, nil) }()
	<-inFlight

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := mgr.Cancel(ctx, id); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if got := svc.Cancels(); len(got) != 1 || got[0] != id {
		t.Errorf("remote cancels = %v, want %q", got, id)
	}

	close(release)
	select {
	case err := <-errc:
		if err != ErrCancelled {
			t.Errorf("Follow() error = %v, want ErrCancelled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Follow did not return after the fetch finished")
	}
}

func TestFollow_AlreadyFollowing(t *testing.T) {
	svc := testutil.NewFakeService("j4", testutil.Processing(10))
	mgr := newManager(t, svc, poller.WithInterval(time.Hour))
	ctx := context.Background()

	id, _ := mgr.Begin(ctx, wavFile(), transcription.DefaultOptions())
	errc := startFollowing(t, mgr, svc, id)

	if err := mgr.Follow(ctx, id, nil); err != ErrAlreadyFollowing {
		t.Errorf("second Follow() error = %v, want ErrAlreadyFollowing", err)
	}
	_ = mgr.Cancel(ctx, id)
	<-errc
}

func TestStoreStop_HaltsFollowers(t *testing.T) {
	svc := testutil.NewFakeService("j5", testutil.Processing(10))
	store := NewStore()
	ctx := context.Background()
	if err := store.Start(ctx); err != nil {
		t.Fatal(err)
	}
	mgr := NewManager(store, svc, WithLogger(logger.Nop()), WithPollerOptions(poller.WithInterval(time.Hour)))

	id, _ := mgr.Begin(ctx, wavFile(), transcription.DefaultOptions())
	errc := startFollowing(t, mgr, svc, id)

	if err := store.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := <-errc; err != context.Canceled {
		t.Errorf("Follow() error = %v, want context.Canceled", err)
	}
	if len(store.Jobs()) != 0 {
		t.Errorf("jobs = %v, want none after Stop", store.Jobs())
	}
	if len(svc.Cancels()) != 0 {
		t.Error("stopping the store must not cancel jobs remotely")
	}
}

func TestStore_HealthAndRemove(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	if h := store.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("Health() before Start = %+v", h)
	}
	testutil.Start(t, store)
	if h := store.Health(ctx); h.Status != component.StatusHealthy || h.Message != "0 jobs, 0 following" {
		t.Errorf("Health() = %+v", h)
	}
	if store.ID() == "" || store.ID() == NewStore().ID() {
		t.Error("sessions should get distinct ids")
	}

	mgr := NewManager(store, testutil.NewFakeService("j6"), WithLogger(logger.Nop()))
	id, err := mgr.Begin(ctx, wavFile(), transcription.DefaultOptions())
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if h := store.Health(ctx); h.Message != "1 jobs, 0 following" {
		t.Errorf("Health() = %+v", h)
	}
	if err := store.Remove(ctx, id); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, ok := store.Get(id); ok {
		t.Error("entry still present after Remove")
	}
	if err := store.Remove(ctx, id); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("Remove() again error = %v, want NOT_FOUND", err)
	}
}

package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/audioscript/errors"
	"github.com/kbukum/audioscript/logger"
	"github.com/kbukum/audioscript/observability"
	"github.com/kbukum/audioscript/transcription"
)

// DefaultInterval is the delay between the end of one fetch and the start
// of the next.
const DefaultInterval = time.Second

// Fetcher returns the current state of a job.
type Fetcher interface {
	Status(ctx context.Context, jobID string) (*transcription.Job, error)
}

// SleepFunc waits for d or until ctx is done, returning ctx.Err() in the
// latter case.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc, backed by a timer.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval overrides DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithSleep replaces the scheduling function.
func WithSleep(fn SleepFunc) Option {
	return func(p *Poller) {
		if fn != nil {
			p.sleep = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Poller) { p.log = l }
}

// WithMetrics records poll metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Poller) { p.metrics = m }
}

// WithObserver registers fn to receive every new snapshot. Calls are made
// sequentially from the polling goroutine.
func WithObserver(fn func(Snapshot)) Option {
	return func(p *Poller) { p.observe = fn }
}

// Poller follows a single job.
type Poller struct {
	fetcher  Fetcher
	jobID    string
	interval time.Duration
	sleep    SleepFunc
	log      *logger.Logger
	metrics  *observability.Metrics
	observe  func(Snapshot)

	// fetchMu serializes Poll so fetches never overlap.
	fetchMu sync.Mutex

	mu   sync.RWMutex
	snap Snapshot
}

// New creates an idle poller for jobID.
func New(fetcher Fetcher, jobID string, opts ...Option) (*Poller, error) {
	if fetcher == nil {
		return nil, errors.InvalidInput("fetcher", "fetcher is required")
	}
	if jobID == "" {
		return nil, errors.InvalidInput("job_id", "job id is required")
	}
	p := &Poller{
		fetcher:  fetcher,
		jobID:    jobID,
		interval: DefaultInterval,
		sleep:    Sleep,
		snap:     Snapshot{JobID: jobID, State: StateIdle},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.WithComponent("poller")
	}
	p.log = p.log.WithJob(jobID)
	return p, nil
}

// JobID returns the job being followed.
func (p *Poller) JobID() string { return p.jobID }

// Snapshot returns a copy of the latest snapshot.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap.clone()
}

// State returns the current state.
func (p *Poller) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap.State
}

// Run polls until the job settles or ctx is done. It returns nil when the
// job succeeds, a JOB_ERROR AppError carrying the service's message when it
// fails, and ctx.Err() when cancelled. Fetch failures are never returned;
// they are recorded on the snapshot and polling continues.
func (p *Poller) Run(ctx context.Context) error {
	p.metrics.PollerStarted(ctx)
	defer p.metrics.PollerStopped(context.WithoutCancel(ctx))

	for {
		snap, _ := p.Poll(ctx)
		if snap.Settled() {
			return settledError(snap)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.sleep(ctx, p.interval); err != nil {
			return err
		}
	}
}

// Poll performs one fetch and returns the resulting snapshot. Once settled
// it returns the settled snapshot without fetching. The returned error is
// the fetch error, a retryable STATUS_FETCH_FAILED, or ctx.Err() when the
// poller was cancelled before or during the fetch; in the latter case the
// snapshot is left unchanged.
func (p *Poller) Poll(ctx context.Context) (Snapshot, error) {
	p.fetchMu.Lock()
	defer p.fetchMu.Unlock()

	if p.State() == StateSettled {
		return p.Snapshot(), nil
	}
	if err := ctx.Err(); err != nil {
		return p.Snapshot(), err
	}
	p.setState(StatePolling)

	ctx, span := observability.StartSpan(ctx, observability.SpanPoll)
	span.SetAttributes(attribute.String(observability.AttrJobID, p.jobID))

	start := time.Now()
	job, err := p.fetcher.Status(context.WithoutCancel(ctx), p.jobID)
	elapsed := time.Since(start)
	if err == nil && job == nil {
		err = fmt.Errorf("empty status response")
	}

	if ctx.Err() != nil {
		p.log.Debug("discarding fetch result after cancellation")
		p.metrics.RecordPoll(ctx, observability.OutcomeDropped, elapsed)
		observability.EndSpan(span, ctx.Err())
		return p.Snapshot(), ctx.Err()
	}

	var snap Snapshot
	if err != nil {
		fetchErr := errors.StatusFetchFailed(p.jobID, err)
		snap = p.recordFailure(fetchErr)
		p.log.Warn("status fetch failed", logger.Fields(
			logger.FieldAttempt, snap.Fetches,
			logger.FieldError, err.Error(),
		))
		p.metrics.RecordPoll(ctx, observability.OutcomeFailed, elapsed)
		observability.EndSpan(span, err)
		p.notify(snap)
		return snap, fetchErr
	}

	snap = p.recordJob(job)
	p.metrics.RecordPoll(ctx, observability.OutcomeOK, elapsed)
	span.SetAttributes(attribute.String(observability.AttrStatus, string(snap.Job.Status)))
	if snap.Job.Progress != nil {
		span.SetAttributes(attribute.Int(observability.AttrProgress, *snap.Job.Progress))
	}
	observability.EndSpan(span, nil)

	fields := logger.Fields(
		logger.FieldAttempt, snap.Fetches,
		logger.FieldStatus, string(snap.Job.Status),
		logger.FieldDuration, elapsed.Milliseconds(),
	)
	if snap.Job.Progress != nil {
		fields[logger.FieldProgress] = *snap.Job.Progress
	}
	p.log.Debug("status fetched", fields)
	if !transcription.SegmentsOrdered(snap.Job.Segments) {
		p.log.Warn("segments out of order", logger.Fields("segments", len(snap.Job.Segments)))
	}
	if snap.Settled() {
		p.log.Info("job settled", logger.Fields(
			logger.FieldStatus, string(snap.Job.Status),
			"segments", len(snap.Job.Segments),
		))
		p.metrics.RecordSettled(ctx, string(snap.Job.Status))
	}

	p.notify(snap)
	return snap, nil
}

func (p *Poller) setState(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.State = s
}

func (p *Poller) recordFailure(err error) Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Err = err
	p.snap.Fetches++
	return p.snap.clone()
}

// recordJob replaces the held job. A processing response without progress
// keeps the last known progress.
func (p *Poller) recordJob(job *transcription.Job) Snapshot {
	job = job.Clone()
	if job.ID == "" {
		job.ID = p.jobID
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if job.Progress == nil && job.Status == transcription.StatusProcessing && p.snap.Job != nil && p.snap.Job.Progress != nil {
		last := *p.snap.Job.Progress
		job.Progress = &last
	}
	p.snap.Job = job
	p.snap.Err = nil
	p.snap.Fetches++
	if job.Terminal() {
		p.snap.State = StateSettled
	}
	return p.snap.clone()
}

func (p *Poller) notify(snap Snapshot) {
	if p.observe != nil {
		p.observe(snap)
	}
}

func settledError(snap Snapshot) error {
	if snap.Job != nil && snap.Job.Status == transcription.StatusError {
		return errors.JobFailed(snap.JobID, snap.Job.Error)
	}
	return nil
}

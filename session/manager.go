package session

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/kbukum/audioscript/errors"
	"github.com/kbukum/audioscript/logger"
	"github.com/kbukum/audioscript/observability"
	"github.com/kbukum/audioscript/poller"
	"github.com/kbukum/audioscript/render"
	"github.com/kbukum/audioscript/transcription"
	"github.com/kbukum/audioscript/upload"
)

// ErrCancelled is returned by Follow for a job cancelled through Cancel.
var ErrCancelled = errors.New("session: job cancelled")

// ErrAlreadyFollowing is returned by Follow while another Follow call is
// polling the same job.
var ErrAlreadyFollowing = errors.New("session: job already followed")

// Manager runs the submit, follow and cancel steps against a Store.
type Manager struct {
	store      *Store
	svc        transcription.Service
	submitter  *upload.Submitter
	pollerOpts []poller.Option
	base       *logger.Logger
	log        *logger.Logger
	metrics    *observability.Metrics
	now        func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithPollerOptions applies opts to every poller the manager creates.
func WithPollerOptions(opts ...poller.Option) ManagerOption {
	return func(m *Manager) { m.pollerOpts = append(m.pollerOpts, opts...) }
}

// WithLogger sets the base logger for the manager and the components it
// creates. Each derives its own component-tagged logger from it.
func WithLogger(l *logger.Logger) ManagerOption {
	return func(m *Manager) { m.base = l }
}

// WithMetrics records workflow metrics.
func WithMetrics(metrics *observability.Metrics) ManagerOption {
	return func(m *Manager) { m.metrics = metrics }
}

// NewManager creates a Manager. The submitter and pollers it creates share
// its logger and metrics.
func NewManager(store *Store, svc transcription.Service, opts ...ManagerOption) *Manager {
	m := &Manager{store: store, svc: svc, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	if m.base == nil {
		m.base = logger.GetGlobalLogger()
	}
	m.base = m.base.WithFields(logger.Fields(logger.FieldSessionID, store.ID()))
	m.log = m.base.WithComponent("session")
	m.submitter = upload.NewSubmitter(svc,
		upload.WithLogger(m.base.WithComponent("upload")),
		upload.WithMetrics(m.metrics),
	)
	return m
}

// Store returns the manager's store.
func (m *Manager) Store() *Store { return m.store }

// Begin submits file and, once the service assigns a job id, tracks the job
// in the store with an idle poller. Nothing is uploaded while the store is
// stopped, and nothing is tracked when the submit fails.
func (m *Manager) Begin(ctx context.Context, file transcription.AudioFile, options transcription.Options) (string, error) {
	if !m.store.Started() {
		return "", ErrNotStarted
	}
	jobID, err := m.submitter.Submit(ctx, file, options)
	if err != nil {
		return "", err
	}

	e := &Entry{
		JobID:     jobID,
		FileName:  file.Name,
		Options:   options,
		CreatedAt: m.now(),
	}
	popts := append([]poller.Option{
		poller.WithLogger(m.base.WithComponent("poller")),
		poller.WithMetrics(m.metrics),
	}, m.pollerOpts...)
	popts = append(popts, poller.WithObserver(e.emit))
	p, err := poller.New(m.svc, jobID, popts...)
	if err != nil {
		return "", err
	}
	e.poller = p

	if err := m.store.put(e); err != nil {
		m.abandon(ctx, jobID, err)
		return "", err
	}
	return jobID, nil
}

// Follow polls jobID until it settles, calling onView with the initial view
// and then after every fetch. It returns nil on success, a JOB_ERROR
// AppError when the job failed, ErrCancelled when Cancel stopped it, and
// ctx.Err() when ctx ends first.
func (m *Manager) Follow(ctx context.Context, jobID string, onView func(render.View)) error {
	e, ok := m.store.Get(jobID)
	if !ok {
		return apperrors.NotFound("job", jobID)
	}
	if e.Cancelled() {
		return ErrCancelled
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	done, ok := e.attach(stop, onView)
	if !ok {
		if e.Cancelled() {
			return ErrCancelled
		}
		return ErrAlreadyFollowing
	}
	defer e.detach(done)

	if onView != nil {
		onView(e.View())
	}
	err := e.poller.Run(runCtx)
	if err != nil && ctx.Err() == nil && e.Cancelled() {
		return ErrCancelled
	}
	return err
}

// Cancel stops the local poller for jobID, then asks the service to cancel
// the job. The remote cancel is sent without waiting for an in-flight fetch
// to finish, so a slow status call cannot use up ctx first. A failed remote
// cancel is returned as CANCEL_FAILED; the local poller stays stopped
// either way.
func (m *Manager) Cancel(ctx context.Context, jobID string) (err error) {
	e, ok := m.store.Get(jobID)
	if !ok {
		return apperrors.NotFound("job", jobID)
	}
	log := m.log.WithContext(ctx).WithJob(jobID)
	done := e.interrupt(true)

	ctx, span := observability.StartSpan(ctx, observability.SpanCancel)
	span.SetAttributes(attribute.String(observability.AttrJobID, jobID))
	defer func() { observability.EndSpan(span, err) }()

	if cerr := m.svc.Cancel(ctx, jobID); cerr != nil {
		log.Warn("remote cancel failed", logger.ErrorFields("cancel", cerr))
		return apperrors.CancelFailed(jobID, cerr)
	}
	log.Info("job cancelled")

	if werr := wait(ctx, done); werr != nil {
		log.Warn("poller did not stop in time", logger.Fields(logger.FieldError, werr.Error()))
	}
	return nil
}

// abandon cancels a job the store refused after it was uploaded, so it is
// not left running with no local handle.
func (m *Manager) abandon(ctx context.Context, jobID string, cause error) {
	log := m.log.WithContext(ctx).WithJob(jobID)
	log.Warn("uploaded job could not be tracked", logger.Fields(logger.FieldError, cause.Error()))
	if err := m.svc.Cancel(context.WithoutCancel(ctx), jobID); err != nil {
		log.Warn("remote cancel of untracked job failed", logger.ErrorFields("cancel", err))
	}
}

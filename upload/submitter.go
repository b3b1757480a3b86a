package upload

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/audioscript/errors"
	"github.com/kbukum/audioscript/httpclient"
	"github.com/kbukum/audioscript/logger"
	"github.com/kbukum/audioscript/observability"
	"github.com/kbukum/audioscript/transcription"
)

// Submitter validates and submits uploads.
type Submitter struct {
	svc     transcription.Service
	maxSize int64
	log     *logger.Logger
	metrics *observability.Metrics
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Submitter) { s.log = l }
}

// WithMetrics records upload metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Submitter) { s.metrics = m }
}

// WithMaxSize overrides transcription.MaxFileSize.
func WithMaxSize(n int64) Option {
	return func(s *Submitter) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// NewSubmitter creates a Submitter backed by svc.
func NewSubmitter(svc transcription.Service, opts ...Option) *Submitter {
	s := &Submitter{
		svc:     svc,
		maxSize: transcription.MaxFileSize,
		log:     logger.WithComponent("upload"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check runs the pre-flight checks without submitting.
func (s *Submitter) Check(file transcription.AudioFile, options transcription.Options) error {
	if !transcription.IsSupportedType(file.MIMEType) {
		return errors.UnsupportedFileType(file.MIMEType)
	}
	if file.Size > s.maxSize {
		return errors.FileTooLarge(file.Size, s.maxSize)
	}
	return options.Validate()
}

// Submit uploads file with the effective form of options and returns the
// job id assigned by the service. Pre-flight failures return
// UNSUPPORTED_FILE_TYPE, FILE_TOO_LARGE or INVALID_INPUT without any
// network call; a failed upload returns UPLOAD_FAILED.
func (s *Submitter) Submit(ctx context.Context, file transcription.AudioFile, options transcription.Options) (jobID string, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanUpload)
	span.SetAttributes(
		attribute.String(observability.AttrFileName, file.Name),
		attribute.String(observability.AttrMIMEType, file.MIMEType),
		attribute.Int64(observability.AttrSizeBytes, file.Size),
	)
	defer func() { observability.EndSpan(span, err) }()

	log := s.log.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldFileName, file.Name,
		logger.FieldMIMEType, file.MIMEType,
		logger.FieldSize, file.Size,
	))

	if err := s.Check(file, options); err != nil {
		log.Warn("upload rejected", logger.Fields(logger.FieldError, err.Error()))
		s.metrics.RecordUpload(ctx, observability.OutcomeRejected, file.Size, 0)
		return "", err
	}

	start := time.Now()
	id, uerr := s.svc.Upload(ctx, file, transcription.Effective(options))
	elapsed := time.Since(start)
	if uerr != nil {
		appErr := errors.UploadFailed(uerr)
		if status := httpclient.StatusCode(uerr); status != 0 {
			appErr = appErr.WithStatus(status)
		}
		log.Error("upload failed", logger.ErrorFields("upload", uerr))
		s.metrics.RecordUpload(ctx, observability.OutcomeFailed, file.Size, elapsed)
		return "", appErr
	}

	span.SetAttributes(attribute.String(observability.AttrJobID, id))
	log.Info("upload submitted", logger.Fields(
		logger.FieldJobID, id,
		logger.FieldDuration, elapsed.Milliseconds(),
	))
	s.metrics.RecordUpload(ctx, observability.OutcomeOK, file.Size, elapsed)
	return id, nil
}

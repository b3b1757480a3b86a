package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/audioscript/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider should be shut down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Outcome labels recorded with upload and poll metrics.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomeDropped  = "dropped"
)

// Metrics holds the instruments for the upload-and-poll workflow.
type Metrics struct {
	uploadTotal    metric.Int64Counter
	uploadDuration metric.Float64Histogram
	uploadBytes    metric.Int64Counter
	pollTotal      metric.Int64Counter
	pollDuration   metric.Float64Histogram
	pollersActive  metric.Int64UpDownCounter
	jobsSettled    metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	uploadTotal, err := meter.Int64Counter("transcription.upload.total",
		metric.WithDescription("Upload attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.upload.total counter: %w", err)
	}

	uploadDuration, err := meter.Float64Histogram("transcription.upload.duration",
		metric.WithDescription("Duration of upload requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.upload.duration histogram: %w", err)
	}

	uploadBytes, err := meter.Int64Counter("transcription.upload.bytes",
		metric.WithDescription("Bytes of audio accepted for upload"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.upload.bytes counter: %w", err)
	}

	pollTotal, err := meter.Int64Counter("transcription.poll.total",
		metric.WithDescription("Status fetches by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.poll.total counter: %w", err)
	}

	pollDuration, err := meter.Float64Histogram("transcription.poll.duration",
		metric.WithDescription("Duration of status fetches in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.poll.duration histogram: %w", err)
	}

	pollersActive, err := meter.Int64UpDownCounter("transcription.pollers.active",
		metric.WithDescription("Number of pollers currently running"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.pollers.active gauge: %w", err)
	}

	jobsSettled, err := meter.Int64Counter("transcription.jobs.settled",
		metric.WithDescription("Jobs observed reaching a terminal status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.jobs.settled counter: %w", err)
	}

	return &Metrics{
		uploadTotal:    uploadTotal,
		uploadDuration: uploadDuration,
		uploadBytes:    uploadBytes,
		pollTotal:      pollTotal,
		pollDuration:   pollDuration,
		pollersActive:  pollersActive,
		jobsSettled:    jobsSettled,
	}, nil
}

// RecordUpload records one submit attempt. Rejected attempts never reached
// the network and carry no duration.
func (m *Metrics) RecordUpload(ctx context.Context, outcome string, size int64, duration time.Duration) {
	if m == nil {
		return
	}
	m.uploadTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	if outcome == OutcomeRejected {
		return
	}
	m.uploadDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("outcome", outcome)))
	if outcome == OutcomeOK {
		m.uploadBytes.Add(ctx, size)
	}
}

// RecordPoll records one status fetch.
func (m *Metrics) RecordPoll(ctx context.Context, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.pollTotal.Add(ctx, 1, attrs)
	m.pollDuration.Record(ctx, duration.Seconds(), attrs)
}

// PollerStarted increments the active poller count.
func (m *Metrics) PollerStarted(ctx context.Context) {
	if m == nil {
		return
	}
	m.pollersActive.Add(ctx, 1)
}

// PollerStopped decrements the active poller count.
func (m *Metrics) PollerStopped(ctx context.Context) {
	if m == nil {
		return
	}
	m.pollersActive.Add(ctx, -1)
}

// RecordSettled records a job reaching a terminal status.
func (m *Metrics) RecordSettled(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.jobsSettled.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

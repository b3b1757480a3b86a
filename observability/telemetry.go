package observability

import (
	"context"
	"errors"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/audioscript/component"
)

// Config selects whether telemetry is exported and where to.
type Config struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

// Telemetry is a component owning the tracer and meter providers. When
// disabled, Start and Stop do nothing and the global no-op providers stay
// in place.
type Telemetry struct {
	cfg         Config
	service     string
	version     string
	environment string

	mu sync.Mutex
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

var _ component.Component = (*Telemetry)(nil)

// NewTelemetry creates the telemetry component for a service.
func NewTelemetry(cfg Config, service, version, environment string) *Telemetry {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4318"
	}
	return &Telemetry{cfg: cfg, service: service, version: version, environment: environment}
}

// Name implements component.Component.
func (t *Telemetry) Name() string { return "telemetry" }

// Start installs the OTLP tracer and meter providers.
func (t *Telemetry) Start(ctx context.Context) error {
	if !t.cfg.Enabled {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	tc := DefaultTracerConfig(t.service)
	tc.ServiceVersion, tc.Environment = t.version, t.environment
	tc.Endpoint, tc.Insecure = t.cfg.Endpoint, t.cfg.Insecure
	tp, err := InitTracer(ctx, tc)
	if err != nil {
		return err
	}

	mc := DefaultMeterConfig(t.service)
	mc.ServiceVersion, mc.Environment = t.version, t.environment
	mc.Endpoint, mc.Insecure = t.cfg.Endpoint, t.cfg.Insecure
	mp, err := InitMeter(ctx, mc)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return err
	}

	t.tp, t.mp = tp, mp
	return nil
}

// Stop flushes and shuts down both providers.
func (t *Telemetry) Stop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error
	if t.tp != nil {
		errs = append(errs, t.tp.Shutdown(ctx))
		t.tp = nil
	}
	if t.mp != nil {
		errs = append(errs, t.mp.Shutdown(ctx))
		t.mp = nil
	}
	return errors.Join(errs...)
}

// Health reports whether exporters are running.
func (t *Telemetry) Health(_ context.Context) component.Health {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := component.Health{Name: t.Name(), Status: component.StatusHealthy}
	switch {
	case !t.cfg.Enabled:
		h.Message = "disabled"
	case t.tp == nil:
		h.Status, h.Message = component.StatusUnhealthy, "not started"
	default:
		h.Message = "exporting to " + t.cfg.Endpoint
	}
	return h
}

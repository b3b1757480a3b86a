package bootstrap

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"time"

	"github.com/kbukum/audioscript/component"
	"github.com/kbukum/audioscript/logger"
)

// App owns the lifecycle of a binary. C is the typed config.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	opts            *appOptions
}

// NewApp applies the config's defaults, validates it and initializes the
// logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()

	o := resolveOptions(opts)
	log := o.logger
	if log == nil {
		logger.Init(base.Logging)
		log = logger.GetGlobalLogger()
	}

	return &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		Logger:          log,
		gracefulTimeout: o.gracefulTimeout,
		opts:            o,
	}, nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// ReadyCheck reports an error naming every component that is not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		detail := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			detail += "(" + h.Message + ")"
		}
		unhealthy = append(unhealthy, detail)
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %s", strings.Join(unhealthy, ", "))
	}
	return nil
}

// RunTask starts the components, runs task and shuts down when it returns.
// A configured signal cancels the context passed to task; task decides
// how to wind down. The task's error wins over a shutdown error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	start := time.Now()
	a.Logger.Debug("starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		if stopErr := a.Shutdown(); stopErr != nil {
			a.Logger.Warn("shutdown after failed start", logger.ErrorFields("shutdown", stopErr))
		}
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	a.Logger.Debug("application ready", logger.DurationFields("startup", time.Since(start)))

	taskCtx := ctx
	if len(a.opts.signals) > 0 {
		var stop context.CancelFunc
		taskCtx, stop = signal.NotifyContext(ctx, a.opts.signals...)
		defer stop()
	}

	taskErr := task(taskCtx)
	if stopErr := a.Shutdown(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// Shutdown stops all components within the graceful timeout.
func (a *App[C]) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		return err
	}
	a.Logger.Debug("application shutdown complete")
	return nil
}

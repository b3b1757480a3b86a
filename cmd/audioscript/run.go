package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/kbukum/audioscript/bootstrap"
	"github.com/kbukum/audioscript/config"
	"github.com/kbukum/audioscript/errors"
	"github.com/kbukum/audioscript/logger"
	"github.com/kbukum/audioscript/observability"
	"github.com/kbukum/audioscript/poller"
	"github.com/kbukum/audioscript/session"
	"github.com/kbukum/audioscript/transcription"
	"github.com/kbukum/audioscript/transcription/remote"
	"github.com/kbukum/audioscript/version"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailed      = 1
	exitUsage       = 2
	exitInterrupted = 130
)

// errInterrupted reports a job cancelled because the process was signalled.
var errInterrupted = stderrors.New("interrupted")

// run executes the command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := newFlags(stderr)
	if err := flags.parse(args); err != nil {
		if stderrors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if flags.showVersion {
		fmt.Fprintln(stdout, version.Get())
		return exitOK
	}
	if flags.set.NArg() != 1 {
		flags.set.Usage()
		return exitUsage
	}

	out := newPrinter(stdout, flags.jsonOutput)
	options, err := flags.options()
	if err != nil {
		out.Error(err)
		return exitUsage
	}

	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, flags.loaderOptions()...); err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitFailed
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().String()
	}
	if !isTerminal(stderr) {
		cfg.Logging.NoColor = true
	}

	file, err := transcription.DetectFile(flags.set.Arg(0))
	if err != nil {
		out.Error(err)
		return exitFailed
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitFailed
	}
	client, err := remote.New(cfg.API)
	if err != nil {
		out.Error(err)
		return exitFailed
	}
	defer client.Close(context.Background())

	store := session.NewStore()
	if err := app.RegisterComponent(observability.NewTelemetry(cfg.Telemetry, cfg.Name, cfg.Version, cfg.Environment)); err != nil {
		out.Error(err)
		return exitFailed
	}
	if err := app.RegisterComponent(store); err != nil {
		out.Error(err)
		return exitFailed
	}

	err = app.RunTask(ctx, func(ctx context.Context) error {
		return transcribe(ctx, app.Logger, &cfg, session.NewManager(store, client,
			session.WithLogger(app.Logger),
			session.WithMetrics(newMetrics(app.Logger)),
			session.WithPollerOptions(poller.WithInterval(cfg.Poll.Interval)),
		), file, options, out)
	})
	return exitCode(err, out)
}

// transcribe uploads file and follows the job. When ctx ends first, the job
// is cancelled on the service before returning errInterrupted.
func transcribe(ctx context.Context, log *logger.Logger, cfg *Config, mgr *session.Manager,
	file transcription.AudioFile, options transcription.Options, out *printer) error {
	jobID, err := mgr.Begin(ctx, file, options)
	if err != nil {
		return err
	}
	out.Info("uploaded %s as job %s", file.Name, jobID)

	err = mgr.Follow(ctx, jobID, out.View)
	if ctx.Err() == nil {
		return err
	}

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Poll.CancelTimeout)
	defer cancel()
	if cerr := mgr.Cancel(cctx, jobID); cerr != nil {
		log.Warn("job left running on the service", logger.Fields(logger.FieldJobID, jobID, logger.FieldError, cerr.Error()))
		return cerr
	}
	return errInterrupted
}

func newMetrics(log *logger.Logger) *observability.Metrics {
	metrics, err := observability.NewMetrics(observability.Meter(serviceName))
	if err != nil {
		log.Warn("metrics disabled", logger.ErrorFields("metrics", err))
		return nil
	}
	return metrics
}

// exitCode reports err and maps it to an exit code. A failed job has already
// been shown through its settled view.
func exitCode(err error, out *printer) int {
	switch {
	case err == nil:
		return exitOK
	case stderrors.Is(err, errInterrupted), stderrors.Is(err, session.ErrCancelled):
		out.Info("cancelled")
		return exitInterrupted
	case errors.IsCode(err, errors.ErrCodeJobError):
		return exitFailed
	case errors.IsCode(err, errors.ErrCodeCancelFailed):
		out.Error(err)
		return exitInterrupted
	default:
		out.Error(err)
		return exitFailed
	}
}

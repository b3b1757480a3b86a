// Package observability wires OpenTelemetry tracing and metrics into the
// upload-and-poll workflow.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("audioscript"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanUpload)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("audioscript"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("audioscript"))
//	metrics.RecordUpload(ctx, observability.OutcomeOK, elapsed)
//
// Without Init* calls the global OpenTelemetry providers are no-ops, so
// instrumented code runs unchanged when telemetry is disabled. A nil
// *Metrics is also valid and records nothing.
package observability

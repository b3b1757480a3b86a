// Package resilience provides a circuit breaker for calls to the
// transcription service. When the service keeps failing, calls fail fast
// with ErrCircuitOpen until a cool-down elapses and a probe call succeeds.
package resilience

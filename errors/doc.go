// Package errors provides the structured error type shared by the audioscript
// workflow. Every failure surfaced to a caller carries a machine-readable
// ErrorCode, a human-readable message, a retryable flag and, optionally, the
// transport error that caused it.
package errors

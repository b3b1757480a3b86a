// Package upload submits an audio file and its options to the transcription
// service.
//
// Submit checks the file type and size before anything touches the network,
// then makes exactly one upload call with the effective options. Failures
// are never retried.
package upload

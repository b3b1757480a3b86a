// Package transcription holds the data model shared by every stage of the
// upload-and-poll workflow: the user-editable Options and its Form, the
// server-bound EffectiveOptions derived from them, the AudioFile being
// submitted, and the Job, Segment and Tone projections returned by the
// transcription service.
//
// The Service interface is the contract with the remote service; the
// transcription/remote package implements it over HTTP.
package transcription

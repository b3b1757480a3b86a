// Package remote implements transcription.Service against the HTTP
// transcription API:
//
//	POST /upload        multipart "file" + "options" JSON, returns {"id": ...}
//	GET  /status/{id}   returns the job
//	POST /cancel/{id}   asks the service to stop the job
//
// Requests go through an httpclient.Adapter, so every call carries an
// X-Request-ID header and is guarded by a circuit breaker when one is
// configured. The client never retries.
package remote

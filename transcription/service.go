package transcription

import "context"

// Service is the remote transcription service.
type Service interface {
	// Upload sends the file with its effective options and returns the
	// job id the service assigned.
	Upload(ctx context.Context, file AudioFile, opts EffectiveOptions) (string, error)
	// Status returns the current state of a job.
	Status(ctx context.Context, jobID string) (*Job, error)
	// Cancel asks the service to stop working on a job.
	Cancel(ctx context.Context, jobID string) error
}

package testutil

import (
	"context"
	"sync"

	"github.com/kbukum/audioscript/transcription"
)

// StatusStep is one scripted response to a Status call.
type StatusStep struct {
	Job *transcription.Job
	Err error
}

// Processing scripts a processing snapshot. A negative progress leaves it unset.
func Processing(progress int) StatusStep {
	job := &transcription.Job{Status: transcription.StatusProcessing}
	if progress >= 0 {
		job.Progress = &progress
	}
	return StatusStep{Job: job}
}

// Succeeded scripts a successful snapshot.
func Succeeded(segments ...transcription.Segment) StatusStep {
	return StatusStep{Job: &transcription.Job{Status: transcription.StatusSuccess, Segments: segments}}
}

// Failed scripts a job that ended in error.
func Failed(message string) StatusStep {
	return StatusStep{Job: &transcription.Job{Status: transcription.StatusError, Error: message}}
}

// FetchError scripts a failed status fetch.
func FetchError(err error) StatusStep {
	return StatusStep{Err: err}
}

// FakeService is a scripted transcription.Service. Status returns the
// scripted steps in order and repeats the last one once they run out.
// It is safe for concurrent use.
type FakeService struct {
	mu          sync.Mutex
	jobID       string
	uploadErr   error
	cancelErr   error
	steps       []StatusStep
	uploads     int
	statusCalls int
	cancels     []string
	lastOptions transcription.EffectiveOptions
	lastFile    transcription.AudioFile

	// OnStatus, when set, runs at the start of every Status call.
	OnStatus func(ctx context.Context, call int)
}

var _ transcription.Service = (*FakeService)(nil)

// NewFakeService returns a service that assigns jobID on upload and answers
// status requests with steps.
func NewFakeService(jobID string, steps ...StatusStep) *FakeService {
	return &FakeService{jobID: jobID, steps: steps}
}

// FailUploads makes every Upload return err.
func (f *FakeService) FailUploads(err error) *FakeService {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadErr = err
	return f
}

// FailCancels makes every Cancel return err.
func (f *FakeService) FailCancels(err error) *FakeService {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelErr = err
	return f
}

// Upload implements transcription.Service.
func (f *FakeService) Upload(_ context.Context, file transcription.AudioFile, opts transcription.EffectiveOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	f.lastFile, f.lastOptions = file, opts
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.jobID, nil
}

// Status implements transcription.Service.
func (f *FakeService) Status(ctx context.Context, jobID string) (*transcription.Job, error) {
	f.mu.Lock()
	f.statusCalls++
	call := f.statusCalls
	hook := f.OnStatus
	var step StatusStep
	if n := len(f.steps); n > 0 {
		step = f.steps[min(call, n)-1]
	}
	f.mu.Unlock()

	if hook != nil {
		hook(ctx, call)
	}
	if step.Err != nil {
		return nil, step.Err
	}
	if step.Job == nil {
		return &transcription.Job{ID: jobID, Status: transcription.StatusProcessing}, nil
	}
	job := step.Job.Clone()
	job.ID = jobID
	return job, nil
}

// Cancel implements transcription.Service. Like a real request, it is not
// sent once ctx is done.
func (f *FakeService) Cancel(ctx context.Context, jobID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels = append(f.cancels, jobID)
	return f.cancelErr
}

// Uploads returns the number of Upload calls.
func (f *FakeService) Uploads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploads
}

// StatusCalls returns the number of Status calls.
func (f *FakeService) StatusCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls
}

// Cancels returns the job ids passed to Cancel.
func (f *FakeService) Cancels() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.cancels...)
}

// LastUpload returns the file and options of the most recent Upload call.
func (f *FakeService) LastUpload() (transcription.AudioFile, transcription.EffectiveOptions) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastFile, f.lastOptions
}

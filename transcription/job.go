package transcription

import (
	"encoding/json"
	"math"
	"strings"
)

// Status is the lifecycle stage of a transcription job.
type Status string

const (
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// ParseStatus normalizes a status reported by the service. Matching is
// case-insensitive. Unrecognized values are returned lower-cased and are
// treated as non-terminal.
func ParseStatus(s string) Status {
	return Status(strings.ToLower(strings.TrimSpace(s)))
}

// IsTerminal reports whether no further status change can follow.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusError
}

// Tone is the emotional tone detected for a segment.
type Tone struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// Segment is a contiguous span of transcribed speech. Start and End are
// seconds from the beginning of the audio.
type Segment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Language   string  `json:"language,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Tone       *Tone   `json:"tone,omitempty"`
}

// Job is the client-side projection of a remote transcription job.
// Progress is nil when the service did not report one.
type Job struct {
	ID       string    `json:"id"`
	Status   Status    `json:"status"`
	Progress *int      `json:"progress,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
	Error    string    `json:"error,omitempty"`
}

type wireJob struct {
	ID       string    `json:"id"`
	Status   string    `json:"status"`
	Progress *float64  `json:"progress"`
	Segments []Segment `json:"segments"`
	Error    string    `json:"error"`
}

// UnmarshalJSON decodes a job as reported by the service, normalizing the
// status case and rounding progress into 0..100.
func (j *Job) UnmarshalJSON(data []byte) error {
	var w wireJob
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*j = Job{
		ID:       w.ID,
		Status:   ParseStatus(w.Status),
		Segments: w.Segments,
		Error:    w.Error,
	}
	if w.Progress != nil {
		p := ClampProgress(*w.Progress)
		j.Progress = &p
	}
	return nil
}

// ClampProgress rounds p to the nearest integer within 0..100.
func ClampProgress(p float64) int {
	if math.IsNaN(p) {
		return 0
	}
	r := math.Round(p)
	switch {
	case r < 0:
		return 0
	case r > 100:
		return 100
	default:
		return int(r)
	}
}

// Terminal reports whether the job has reached success or error.
func (j *Job) Terminal() bool {
	return j != nil && j.Status.IsTerminal()
}

// Clone returns a deep copy of j.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	if j.Progress != nil {
		p := *j.Progress
		c.Progress = &p
	}
	if j.Segments != nil {
		c.Segments = make([]Segment, len(j.Segments))
		for i, s := range j.Segments {
			if s.Tone != nil {
				t := *s.Tone
				s.Tone = &t
			}
			c.Segments[i] = s
		}
	}
	return &c
}

// SegmentsOrdered reports whether every segment has End > Start and starts
// no earlier than its predecessor.
func SegmentsOrdered(segs []Segment) bool {
	prev := math.Inf(-1)
	for _, s := range segs {
		if s.End <= s.Start || s.Start < prev {
			return false
		}
		prev = s.Start
	}
	return true
}

package render

import (
	"github.com/samber/lo"

	"github.com/kbukum/audioscript/poller"
	"github.com/kbukum/audioscript/transcription"
)

// Mode is the kind of display a snapshot calls for.
type Mode string

const (
	// ModeLoading means no status has been fetched yet.
	ModeLoading Mode = "loading"
	// ModeFetchError means the latest status fetch failed.
	ModeFetchError Mode = "fetch_error"
	// ModeProgress means the job is still running.
	ModeProgress Mode = "progress"
	// ModeJobError means the service reported the job as failed.
	ModeJobError Mode = "job_error"
	// ModeSegments means the job finished and its segments are final.
	ModeSegments Mode = "segments"
)

const (
	fetchErrorMessage = "Failed to load transcription status."
	jobErrorFallback  = "Transcription failed."
)

// Row is one rendered segment.
type Row struct {
	Range          string  `json:"range"`
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	Text           string  `json:"text"`
	Confidence     float64 `json:"confidence,omitempty"`
	Language       string  `json:"language,omitempty"`
	Tone           string  `json:"tone,omitempty"`
	ToneConfidence float64 `json:"tone_confidence,omitempty"`
}

// View is the display derived from one snapshot. Rows are filled whenever
// the job carries segments, including partial ones while processing.
type View struct {
	Mode     Mode                 `json:"mode"`
	JobID    string               `json:"job_id"`
	Status   transcription.Status `json:"status,omitempty"`
	Progress int                  `json:"progress"`
	Message  string               `json:"message,omitempty"`
	Rows     []Row                `json:"rows,omitempty"`
	Settled  bool                 `json:"settled"`
}

// Project derives the View for snap.
func Project(snap poller.Snapshot) View {
	v := View{JobID: snap.JobID, Settled: snap.Settled()}
	job := snap.Job
	if job != nil {
		v.Status = job.Status
		if job.Progress != nil {
			v.Progress = *job.Progress
		}
		v.Rows = Rows(job.Segments)
	}

	switch {
	case snap.Err != nil:
		v.Mode, v.Message = ModeFetchError, fetchErrorMessage
	case job == nil:
		v.Mode = ModeLoading
	case job.Status == transcription.StatusError:
		v.Mode, v.Message = ModeJobError, job.Error
		if v.Message == "" {
			v.Message = jobErrorFallback
		}
	case job.Status == transcription.StatusSuccess:
		v.Mode, v.Progress = ModeSegments, 100
	default:
		v.Mode = ModeProgress
	}
	return v
}

// Rows converts segments to rows, keeping their order.
func Rows(segs []transcription.Segment) []Row {
	if len(segs) == 0 {
		return nil
	}
	return lo.Map(segs, func(s transcription.Segment, _ int) Row {
		r := Row{
			Range:      FormatRange(s.Start, s.End),
			Start:      s.Start,
			End:        s.End,
			Text:       s.Text,
			Confidence: s.Confidence,
			Language:   s.Language,
		}
		if s.Tone != nil {
			r.Tone, r.ToneConfidence = s.Tone.Type, s.Tone.Confidence
		}
		return r
	})
}

package poller

import (
	"github.com/kbukum/audioscript/transcription"
)

// State is the poller's lifecycle state.
type State int

const (
	StateIdle State = iota
	StatePolling
	StateSettled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Snapshot is what the poller knows about its job at one point in time.
type Snapshot struct {
	// JobID is the job being followed.
	JobID string
	// Job is the latest successfully fetched job, nil before the first one.
	Job *transcription.Job
	// Err is the error of the most recent fetch, cleared by the next
	// successful one.
	Err error
	// State is the poller state after the fetch that produced this snapshot.
	State State
	// Fetches counts completed fetches, successful or not.
	Fetches int
}

// Settled reports whether the job reached a terminal status.
func (s Snapshot) Settled() bool {
	return s.State == StateSettled
}

func (s Snapshot) clone() Snapshot {
	s.Job = s.Job.Clone()
	return s
}

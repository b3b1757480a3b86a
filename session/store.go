package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/kbukum/audioscript/component"
	apperrors "github.com/kbukum/audioscript/errors"
	"github.com/kbukum/audioscript/logger"
)

// ErrNotStarted is returned when a Store is used outside Start and Stop.
var ErrNotStarted = errors.New("session: store not started")

// Store keeps the entries of one application session, keyed by job id.
type Store struct {
	id  string
	log *logger.Logger

	mu      sync.RWMutex
	started bool
	entries map[string]*Entry
}

var _ component.Component = (*Store)(nil)

// NewStore creates a stopped store with a fresh session id.
func NewStore() *Store {
	id := uuid.NewString()
	return &Store{
		id:      id,
		log:     logger.WithComponent("session").WithFields(logger.Fields(logger.FieldSessionID, id)),
		entries: make(map[string]*Entry),
	}
}

// ID returns the session id.
func (s *Store) ID() string { return s.id }

// Name implements component.Component.
func (s *Store) Name() string { return "sessions" }

// Start opens the store for use.
func (s *Store) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	s.log.Debug("session started")
	return nil
}

// Stop halts every follower and drops all entries.
func (s *Store) Stop(ctx context.Context) error {
	s.mu.Lock()
	entries := s.entries
	s.entries = make(map[string]*Entry)
	s.started = false
	s.mu.Unlock()

	var errs []error
	for id, e := range entries {
		if err := e.halt(ctx, false); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", id, err))
		}
	}
	s.log.Debug("session stopped", logger.Fields("jobs", len(entries)))
	return errors.Join(errs...)
}

// Started reports whether the store is between Start and Stop.
func (s *Store) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Health reports the number of jobs held and followed.
func (s *Store) Health(_ context.Context) component.Health {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := component.Health{Name: s.Name(), Status: component.StatusHealthy}
	if !s.started {
		h.Status, h.Message = component.StatusUnhealthy, "not started"
		return h
	}
	following := 0
	for _, e := range s.entries {
		if e.Following() {
			following++
		}
	}
	h.Message = fmt.Sprintf("%d jobs, %d following", len(s.entries), following)
	return h
}

// Get returns the entry for jobID.
func (s *Store) Get(jobID string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[jobID]
	return e, ok
}

// Jobs returns the ids of all held jobs, sorted.
func (s *Store) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Remove halts and drops the entry for jobID.
func (s *Store) Remove(ctx context.Context, jobID string) error {
	s.mu.Lock()
	e, ok := s.entries[jobID]
	delete(s.entries, jobID)
	s.mu.Unlock()
	if !ok {
		return apperrors.NotFound("job", jobID)
	}
	return e.halt(ctx, false)
}

func (s *Store) put(e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	if _, exists := s.entries[e.JobID]; exists {
		return apperrors.InvalidInput("job_id", "job "+e.JobID+" already tracked")
	}
	s.entries[e.JobID] = e
	return nil
}

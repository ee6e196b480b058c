// Package narration sequences stored dispatch records for a playback
// consumer.
//
// A session holds a point-in-time snapshot of the store. It never mutates
// stored records; all state here is process-local to the session.
package narration

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/fortsentinel/dispatch/internal/adapters/repository"
	"github.com/fortsentinel/dispatch/pkg/logger"
	"github.com/fortsentinel/dispatch/pkg/metrics"
)

// State is the playback state of a single session entry.
type State string

const (
	StatePending    State = "pending"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateSkipped    State = "skipped"
)

// Scope selects which records a session enumerates. Exactly one selector
// must be set.
type Scope struct {
	// Latest selects the single most recent record.
	Latest bool
	// BatchLimit selects the N most recent records.
	BatchLimit int
	// FilterTag selects all records carrying the tag, most recent first.
	FilterTag string
}

func (s Scope) validate() error {
	n := 0
	if s.Latest {
		n++
	}
	if s.BatchLimit > 0 {
		n++
	}
	if s.FilterTag != "" {
		n++
	}
	if n != 1 {
		return fmt.Errorf("%w: exactly one of latest, batch_limit, filter_tag", ErrInvalidScope)
	}
	return nil
}

// Entry is one enumerated record with its playback state.
type Entry struct {
	Record repository.Record
	State  State
}

// Session drives dispatch records through pending -> in_progress ->
// (completed | skipped). At most one entry is in progress at a time.
type Session struct {
	id    string
	store repository.Store
	log   logger.Logger

	mu      sync.Mutex
	entries []Entry
	current int // index of the in-progress entry, -1 when none
}

// NewSession creates a session over the given store.
func NewSession(store repository.Store, opts ...Option) *Session {
	s := &Session{
		id:      uuid.New().String(),
		store:   store,
		current: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("narration")
	}
	return s
}

// ID returns the session identifier used for log correlation.
func (s *Session) ID() string { return s.id }

// Enumerate snapshots the store according to scope and resets the session
// over the result. Records come back created_at descending.
//
// Latest on an empty store is an error: "latest" has no defined value there.
// A batch larger than the store or a tag matching nothing is not.
func (s *Session) Enumerate(ctx context.Context, scope Scope) ([]repository.Record, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}

	filter := repository.Filter{Tag: scope.FilterTag}
	records, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	switch {
	case scope.Latest:
		if len(records) == 0 {
			return nil, ErrNoDispatches
		}
		records = records[:1]
	case scope.BatchLimit > 0 && len(records) > scope.BatchLimit:
		records = records[:scope.BatchLimit]
	}

	s.mu.Lock()
	s.entries = make([]Entry, len(records))
	for i, rec := range records {
		s.entries[i] = Entry{Record: rec, State: StatePending}
	}
	s.current = -1
	s.mu.Unlock()

	metrics.UpdateSessionEntries(len(records))
	s.log.Info(ctx, "session enumerated",
		logger.String("session", s.id),
		logger.Int("entries", len(records)))
	return records, nil
}

// Next marks the next pending entry in progress and returns its record.
// Returns ErrEntryInProgress while an entry is unresolved and ErrExhausted
// once every entry has reached a terminal state.
func (s *Session) Next(ctx context.Context) (repository.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current >= 0 {
		return repository.Record{}, ErrEntryInProgress
	}
	for i := range s.entries {
		if s.entries[i].State == StatePending {
			s.entries[i].State = StateInProgress
			s.current = i
			metrics.RecordSessionTransition(string(StateInProgress))
			return s.entries[i].Record, nil
		}
	}
	return repository.Record{}, ErrExhausted
}

// Complete marks the in-progress entry completed.
func (s *Session) Complete(ctx context.Context) error {
	return s.finish(ctx, StateCompleted)
}

// Skip marks the in-progress entry skipped. With nothing in progress it
// skips the next pending entry instead; skipping never happens implicitly.
func (s *Session) Skip(ctx context.Context) error {
	s.mu.Lock()
	if s.current < 0 {
		for i := range s.entries {
			if s.entries[i].State == StatePending {
				s.entries[i].State = StateSkipped
				s.mu.Unlock()
				metrics.RecordSessionTransition(string(StateSkipped))
				return nil
			}
		}
		s.mu.Unlock()
		return ErrExhausted
	}
	s.mu.Unlock()
	return s.finish(ctx, StateSkipped)
}

func (s *Session) finish(ctx context.Context, terminal State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current < 0 {
		return ErrNoEntryInProgress
	}
	s.entries[s.current].State = terminal
	s.log.Debug(ctx, "entry resolved",
		logger.String("session", s.id),
		logger.String("id", s.entries[s.current].Record.ID),
		logger.String("state", string(terminal)))
	s.current = -1
	metrics.RecordSessionTransition(string(terminal))
	return nil
}

// Abort resolves the session: the in-progress entry and every remaining
// pending entry become skipped, never completed.
func (s *Session) Abort(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	skipped := 0
	for i := range s.entries {
		if s.entries[i].State == StatePending || s.entries[i].State == StateInProgress {
			s.entries[i].State = StateSkipped
			skipped++
			metrics.RecordSessionTransition(string(StateSkipped))
		}
	}
	s.current = -1
	s.log.Info(ctx, "session aborted",
		logger.String("session", s.id),
		logger.Int("skipped", skipped))
}

// Entries returns a snapshot of the session's entries and states.
func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

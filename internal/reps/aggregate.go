package reps

import (
	"time"

	"github.com/google/uuid"

	"github.com/itsmardochee/SmartFit-Coach/internal/timeutil"
)

// Snapshot is an immutable, value-copied view of a session's tallies. It is
// the only thing handed across the processing boundary: a UI polling
// concurrently with frame processing never sees the live mutable state.
type Snapshot struct {
	SessionID     string        `json:"session_id"`
	Exercise      string        `json:"exercise"`
	RepCount      int           `json:"rep_count"`
	ValidRepCount int           `json:"valid_rep_count"`
	SuccessRate   float64       `json:"success_rate"`
	Duration      time.Duration `json:"duration"`
}

// Aggregator accumulates rep events for one session. It is owned by a single
// processing context; snapshots are produced by value at commit points so no
// locking discipline is needed for readers.
type Aggregator struct {
	id       uuid.UUID
	exercise string
	started  time.Time
	last     time.Time
	reps     []RepEvent
	valid    int
	clock    timeutil.Clock
}

// NewAggregator starts a fresh session tally for the given exercise.
func NewAggregator(exercise string, clock timeutil.Clock) *Aggregator {
	now := clock.Now()
	return &Aggregator{
		id:       uuid.New(),
		exercise: exercise,
		started:  now,
		last:     now,
		clock:    clock,
	}
}

// ID returns the session identifier.
func (a *Aggregator) ID() uuid.UUID { return a.id }

// StartedAt returns the session start time.
func (a *Aggregator) StartedAt() time.Time { return a.started }

// Record appends a rep event and updates the tallies. The rep count
// increases by exactly one per event and never decreases; the valid count
// trails it.
func (a *Aggregator) Record(ev RepEvent) {
	a.reps = append(a.reps, ev)
	if ev.Valid {
		a.valid++
	}
	a.last = a.clock.Now()
}

// Reps returns a copy of the session's rep log.
func (a *Aggregator) Reps() []RepEvent {
	out := make([]RepEvent, len(a.reps))
	copy(out, a.reps)
	return out
}

// Snapshot returns the current tallies by value.
func (a *Aggregator) Snapshot() Snapshot {
	s := Snapshot{
		SessionID:     a.id.String(),
		Exercise:      a.exercise,
		RepCount:      len(a.reps),
		ValidRepCount: a.valid,
		Duration:      a.clock.Since(a.started),
	}
	if s.RepCount > 0 {
		s.SuccessRate = float64(s.ValidRepCount) / float64(s.RepCount)
	}
	return s
}

// Reset clears all counters and the rep log, producing a fresh session with
// a new identifier and start timestamp.
func (a *Aggregator) Reset() {
	now := a.clock.Now()
	a.id = uuid.New()
	a.started = now
	a.last = now
	a.reps = nil
	a.valid = 0
}

// Package session owns the lifecycle of the active workout session: start,
// per-frame processing, stop-and-persist.
package session

import (
	"fmt"
	"log"
	"sync"

	"github.com/itsmardochee/SmartFit-Coach/internal/config"
	"github.com/itsmardochee/SmartFit-Coach/internal/db"
	"github.com/itsmardochee/SmartFit-Coach/internal/pose"
	"github.com/itsmardochee/SmartFit-Coach/internal/reps"
	"github.com/itsmardochee/SmartFit-Coach/internal/timeutil"
)

// Manager serialises access to the active engine. Frames arrive from the
// source pump while the HTTP API starts, stops and snapshots sessions
// concurrently; everything funnels through one mutex.
type Manager struct {
	mu     sync.Mutex
	engine *reps.Engine
	last   reps.Update

	cfg   *config.TuningConfig
	store *db.DB
	clock timeutil.Clock
}

// NewManager returns a manager with no active session. store may be nil, in
// which case stopped sessions are not persisted.
func NewManager(cfg *config.TuningConfig, store *db.DB, clock timeutil.Clock) *Manager {
	return &Manager{cfg: cfg, store: store, clock: clock}
}

// Start begins a session for the named exercise. Starting while a session is
// active is an error; the caller must stop the previous one first.
func (m *Manager) Start(exercise string) (reps.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.engine != nil {
		return reps.Snapshot{}, fmt.Errorf("session %s already active", m.engine.Aggregator().ID())
	}

	engine, err := reps.NewEngine(exercise, m.cfg, m.clock)
	if err != nil {
		return reps.Snapshot{}, err
	}
	m.engine = engine
	m.last = reps.Update{}

	snap := engine.Aggregator().Snapshot()
	log.Printf("session %s started: exercise=%s", snap.SessionID, exercise)
	return snap, nil
}

// Stop ends the active session, persists it and returns its final snapshot.
func (m *Manager) Stop() (reps.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.engine == nil {
		return reps.Snapshot{}, fmt.Errorf("no active session")
	}

	agg := m.engine.Aggregator()
	snap := agg.Snapshot()

	if m.store != nil {
		record := db.SessionRecord{
			SessionID:     snap.SessionID,
			Exercise:      snap.Exercise,
			StartedAt:     agg.StartedAt(),
			EndedAt:       m.clock.Now(),
			RepCount:      snap.RepCount,
			ValidRepCount: snap.ValidRepCount,
			SuccessRate:   snap.SuccessRate,
		}
		var repRecords []db.RepRecord
		for _, ev := range agg.Reps() {
			repRecords = append(repRecords, db.RepRecord{
				SessionID: snap.SessionID,
				Sequence:  ev.Sequence,
				Valid:     ev.Valid,
				MinAngle:  ev.MinAngle,
				Duration:  ev.Duration.Milliseconds(),
				Timestamp: ev.Timestamp,
			})
		}
		if err := m.store.SaveSession(record, repRecords); err != nil {
			return reps.Snapshot{}, fmt.Errorf("failed to save session %s: %w", snap.SessionID, err)
		}
	}

	log.Printf("session %s stopped: reps=%d valid=%d", snap.SessionID, snap.RepCount, snap.ValidRepCount)
	m.engine = nil
	m.last = reps.Update{}
	return snap, nil
}

// ProcessFrame feeds one frame to the active session. Frames arriving with no
// active session are dropped silently; the detector keeps streaming between
// sessions.
func (m *Manager) ProcessFrame(f pose.Frame) (reps.Update, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.engine == nil {
		return reps.Update{}, false, nil
	}

	update, err := m.engine.ProcessFrame(f)
	if err != nil {
		return reps.Update{}, true, err
	}
	m.last = update
	return update, true, nil
}

// Live returns the latest per-frame update and session tallies.
// ok is false when no session is active.
func (m *Manager) Live() (reps.Update, reps.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.engine == nil {
		return reps.Update{}, reps.Snapshot{}, false
	}
	return m.last, m.engine.Aggregator().Snapshot(), true
}

// Active reports whether a session is running.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine != nil
}

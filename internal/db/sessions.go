package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SessionRecord is one completed workout session as stored.
type SessionRecord struct {
	SessionID     string    `json:"session_id"`
	Exercise      string    `json:"exercise"`
	StartedAt     time.Time `json:"started_at"`
	EndedAt       time.Time `json:"ended_at"`
	RepCount      int       `json:"rep_count"`
	ValidRepCount int       `json:"valid_rep_count"`
	SuccessRate   float64   `json:"success_rate"`
}

// RepRecord is one rep event as stored, keyed by session and sequence.
type RepRecord struct {
	SessionID string    `json:"session_id"`
	Sequence  int       `json:"sequence"`
	Valid     bool      `json:"valid"`
	MinAngle  float64   `json:"min_angle"`
	Duration  int64     `json:"duration_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// SaveSession writes a session and its rep events in one transaction. A
// session with zero reps is still saved; the history is the record of the
// user having trained, not only of having succeeded.
func (db *DB) SaveSession(s SessionRecord, reps []RepRecord) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sessions (
			session_id, exercise, started_at, ended_at,
			rep_count, valid_rep_count, success_rate
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.SessionID, s.Exercise, s.StartedAt, s.EndedAt,
		s.RepCount, s.ValidRepCount, s.SuccessRate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	for _, r := range reps {
		_, err = tx.Exec(
			`INSERT INTO rep_events (
				session_id, sequence, valid, min_angle, duration_ms, timestamp
			) VALUES (?, ?, ?, ?, ?, ?)`,
			s.SessionID, r.Sequence, r.Valid, r.MinAngle, r.Duration, r.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to insert rep %d: %w", r.Sequence, err)
		}
	}

	return tx.Commit()
}

// Sessions returns recent sessions, newest first.
func (db *DB) Sessions(limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(
		`SELECT session_id, exercise, started_at, ended_at,
			rep_count, valid_rep_count, success_rate
		FROM sessions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []SessionRecord
	for rows.Next() {
		var s SessionRecord
		if err := rows.Scan(
			&s.SessionID, &s.Exercise, &s.StartedAt, &s.EndedAt,
			&s.RepCount, &s.ValidRepCount, &s.SuccessRate,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Session returns one session by id, or sql.ErrNoRows when absent.
func (db *DB) Session(id string) (SessionRecord, error) {
	var s SessionRecord
	err := db.QueryRow(
		`SELECT session_id, exercise, started_at, ended_at,
			rep_count, valid_rep_count, success_rate
		FROM sessions WHERE session_id = ?`, id).Scan(
		&s.SessionID, &s.Exercise, &s.StartedAt, &s.EndedAt,
		&s.RepCount, &s.ValidRepCount, &s.SuccessRate,
	)
	if err != nil {
		return SessionRecord{}, err
	}
	return s, nil
}

// SessionReps returns the rep events of a session in sequence order.
func (db *DB) SessionReps(id string) ([]RepRecord, error) {
	rows, err := db.Query(
		`SELECT session_id, sequence, valid, min_angle, duration_ms, timestamp
		FROM rep_events WHERE session_id = ? ORDER BY sequence`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reps []RepRecord
	for rows.Next() {
		var r RepRecord
		if err := rows.Scan(
			&r.SessionID, &r.Sequence, &r.Valid, &r.MinAngle, &r.Duration, &r.Timestamp,
		); err != nil {
			return nil, err
		}
		reps = append(reps, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reps, nil
}

// IsNotFound reports whether err is the no-rows sentinel.
func IsNotFound(err error) bool {
	return err == sql.ErrNoRows
}

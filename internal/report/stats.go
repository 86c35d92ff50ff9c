// Package report derives summary statistics and debug charts from stored
// workout sessions.
package report

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/itsmardochee/SmartFit-Coach/internal/db"
)

// SessionStats summarises one session for reporting.
type SessionStats struct {
	SessionID     string  `json:"session_id"`
	Exercise      string  `json:"exercise"`
	RepCount      int     `json:"rep_count"`
	ValidRepCount int     `json:"valid_rep_count"`
	SuccessRate   float64 `json:"success_rate"`
	RepsPerMinute float64 `json:"reps_per_minute"`

	// Depth and pace distribution over the session's reps. Durations are in
	// milliseconds.
	MeanMinAngle float64 `json:"mean_min_angle"`
	BestMinAngle float64 `json:"best_min_angle"`
	P50Duration  float64 `json:"p50_duration_ms"`
	P85Duration  float64 `json:"p85_duration_ms"`
	P98Duration  float64 `json:"p98_duration_ms"`
}

// Compute derives SessionStats from a stored session and its rep events.
func Compute(s db.SessionRecord, reps []db.RepRecord) SessionStats {
	stats := SessionStats{
		SessionID:     s.SessionID,
		Exercise:      s.Exercise,
		RepCount:      s.RepCount,
		ValidRepCount: s.ValidRepCount,
		SuccessRate:   s.SuccessRate,
	}

	if minutes := s.EndedAt.Sub(s.StartedAt).Minutes(); minutes > 0 {
		stats.RepsPerMinute = float64(s.RepCount) / minutes
	}

	if len(reps) == 0 {
		return stats
	}

	angles := make([]float64, 0, len(reps))
	durations := make([]float64, 0, len(reps))
	best := 180.0
	for _, r := range reps {
		angles = append(angles, r.MinAngle)
		durations = append(durations, float64(r.Duration))
		if r.MinAngle < best {
			best = r.MinAngle
		}
	}

	stats.MeanMinAngle = stat.Mean(angles, nil)
	stats.BestMinAngle = best

	// stat.Quantile requires sorted input.
	sort.Float64s(durations)
	stats.P50Duration = stat.Quantile(0.50, stat.Empirical, durations, nil)
	stats.P85Duration = stat.Quantile(0.85, stat.Empirical, durations, nil)
	stats.P98Duration = stat.Quantile(0.98, stat.Empirical, durations, nil)

	return stats
}

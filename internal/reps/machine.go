package reps

import (
	"time"

	"github.com/itsmardochee/SmartFit-Coach/internal/geom"
)

// RepEvent is emitted exactly once per completed cycle, on the
// Ascending -> Up transition.
type RepEvent struct {
	Sequence  int           `json:"sequence"`
	Valid     bool          `json:"valid"`
	MinAngle  float64       `json:"min_angle"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// Machine is the cyclic-motion detector: a finite state machine over the
// four phases, driven by the combined joint angle. Hysteresis (two distinct
// thresholds) prevents oscillation when the angle hovers near a boundary;
// the dwell count suppresses single-frame noise.
//
// A Machine is not safe for concurrent use; it is owned by one session's
// processing context.
type Machine struct {
	profile Profile

	phase     Phase
	downDwell int // consecutive frames below DownThreshold
	upDwell   int // consecutive frames above UpThreshold

	// minAngle is tracked through Descending and Down and reset when a new
	// Descending leg starts. It decides rep validity.
	minAngle float64

	// reachedDown guards against counting a cycle that never traversed Down
	// (e.g. the detector losing the person mid-motion and regaining Up).
	reachedDown bool

	cycleStart time.Time
	seq        int
}

// NewMachine validates the profile and returns a machine in the Up phase.
func NewMachine(p Profile) (*Machine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Machine{profile: p, phase: PhaseUp}, nil
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// MinAngle returns the minimum combined angle seen in the current cycle.
func (m *Machine) MinAngle() float64 { return m.minAngle }

// Update advances the machine with one combined angle sample. It returns a
// RepEvent exactly when a full cycle completes, nil otherwise. An invalid
// measurement holds the current state: the machine neither advances nor
// regresses on missing data.
func (m *Machine) Update(a geom.Measurement, ts time.Time) *RepEvent {
	if !a.Valid {
		return nil
	}
	angle := geom.Clamp(a.Degrees)

	switch m.phase {
	case PhaseUp:
		if angle < m.profile.UpThreshold {
			m.enterDescending(angle, ts)
		}

	case PhaseDescending:
		if angle < m.minAngle {
			m.minAngle = angle
		}
		switch {
		case angle < m.profile.DownThreshold:
			m.upDwell = 0
			m.downDwell++
			if m.downDwell >= m.profile.MinDwellFrames {
				m.phase = PhaseDown
				m.reachedDown = true
				m.downDwell = 0
			}
		case angle > m.profile.UpThreshold:
			// Aborted descent: back to Up without a rep.
			m.downDwell = 0
			m.upDwell++
			if m.upDwell >= m.profile.MinDwellFrames {
				m.phase = PhaseUp
				m.upDwell = 0
			}
		default:
			m.downDwell = 0
			m.upDwell = 0
		}

	case PhaseDown:
		if angle < m.minAngle {
			m.minAngle = angle
		}
		if angle > m.profile.DownThreshold {
			m.phase = PhaseAscending
			m.downDwell = 0
			m.upDwell = 0
		}

	case PhaseAscending:
		if angle > m.profile.UpThreshold {
			m.upDwell++
			if m.upDwell >= m.profile.MinDwellFrames {
				m.phase = PhaseUp
				m.upDwell = 0
				if m.reachedDown {
					m.seq++
					ev := &RepEvent{
						Sequence:  m.seq,
						Valid:     m.minAngle <= m.profile.DepthThreshold,
						MinAngle:  m.minAngle,
						Duration:  ts.Sub(m.cycleStart),
						Timestamp: ts,
					}
					m.reachedDown = false
					return ev
				}
			}
		} else {
			m.upDwell = 0
		}
	}

	return nil
}

func (m *Machine) enterDescending(angle float64, ts time.Time) {
	m.phase = PhaseDescending
	m.minAngle = angle
	m.reachedDown = false
	m.cycleStart = ts
	m.downDwell = 0
	m.upDwell = 0
}

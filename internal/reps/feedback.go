package reps

import (
	"fmt"
	"time"

	"github.com/itsmardochee/SmartFit-Coach/internal/timeutil"
)

// Severity classifies a feedback message.
type Severity string

const (
	SeverityInfo    Severity = "info"    // phase acknowledgment
	SeverityWarn    Severity = "warn"    // corrective (insufficient depth)
	SeveritySuccess Severity = "success" // valid rep completed
)

// FeedbackEvent is one coaching message for the user.
type FeedbackEvent struct {
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

// FeedbackGenerator maps phase transitions and rep outcomes to rate-limited
// coaching messages. Messages of the same severity class are spaced at least
// the cool-down apart so the user is not flooded at frame rate. The
// generator owns its own rate-limit state; it is not part of the machine's.
type FeedbackGenerator struct {
	cooldown time.Duration
	clock    timeutil.Clock
	lastSent map[Severity]time.Time
}

// NewFeedbackGenerator returns a generator with the given cool-down. A zero
// or negative cool-down disables rate limiting.
func NewFeedbackGenerator(cooldown time.Duration, clock timeutil.Clock) *FeedbackGenerator {
	return &FeedbackGenerator{
		cooldown: cooldown,
		clock:    clock,
		lastSent: make(map[Severity]time.Time),
	}
}

var phaseMessages = map[Phase]string{
	PhaseUp:         "Ready for the next rep",
	PhaseDescending: "Going down, keep control",
	PhaseDown:       "Hold, now drive back up",
	PhaseAscending:  "Good, push all the way up",
}

// Generate produces at most one feedback event for the frame just processed.
// A completed rep takes priority over a plain phase acknowledgment. Returns
// nil when there is nothing to say or the severity class is cooling down.
func (g *FeedbackGenerator) Generate(phase Phase, transitioned bool, rep *RepEvent) *FeedbackEvent {
	if rep != nil {
		if rep.Valid {
			return g.emit(SeveritySuccess, fmt.Sprintf("Rep %d, good depth!", rep.Sequence))
		}
		return g.emit(SeverityWarn,
			fmt.Sprintf("Rep %d too shallow, only reached %.0f deg. Go lower", rep.Sequence, rep.MinAngle))
	}

	if transitioned {
		if msg, ok := phaseMessages[phase]; ok {
			return g.emit(SeverityInfo, msg)
		}
	}

	return nil
}

func (g *FeedbackGenerator) emit(sev Severity, msg string) *FeedbackEvent {
	now := g.clock.Now()
	if g.cooldown > 0 {
		if last, ok := g.lastSent[sev]; ok && now.Sub(last) < g.cooldown {
			return nil
		}
	}
	g.lastSent[sev] = now
	return &FeedbackEvent{Message: msg, Severity: sev, Timestamp: now}
}

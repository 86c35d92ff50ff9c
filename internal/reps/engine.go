package reps

import (
	"errors"
	"fmt"
	"time"

	"github.com/itsmardochee/SmartFit-Coach/internal/config"
	"github.com/itsmardochee/SmartFit-Coach/internal/geom"
	"github.com/itsmardochee/SmartFit-Coach/internal/pose"
	"github.com/itsmardochee/SmartFit-Coach/internal/timeutil"
)

// ErrFrameOutOfOrder reports a frame whose timestamp precedes the last one
// processed. The frame is dropped and the engine state is untouched.
var ErrFrameOutOfOrder = errors.New("frame timestamp precedes previous frame")

// Update is the result of processing one frame: the combined angle, the phase
// after the frame, and the optional rep and feedback events it produced.
type Update struct {
	Angle        geom.Measurement `json:"angle"`
	Phase        Phase            `json:"phase"`
	Transitioned bool             `json:"transitioned"`
	Rep          *RepEvent        `json:"rep,omitempty"`
	Feedback     *FeedbackEvent   `json:"feedback,omitempty"`
}

// Engine binds the angle computation, the phase machine, feedback and the
// session aggregator for one exercise session. ProcessFrame is synchronous;
// the caller serialises frames (one engine, one goroutine).
type Engine struct {
	profile   Profile
	floor     float64
	machine   *Machine
	feedback  *FeedbackGenerator
	agg       *Aggregator
	lastFrame time.Time
}

// NewEngine builds an engine for the named exercise using cfg's thresholds.
func NewEngine(exercise string, cfg *config.TuningConfig, clock timeutil.Clock) (*Engine, error) {
	profile, err := ProfileFor(exercise, cfg)
	if err != nil {
		return nil, err
	}
	machine, err := NewMachine(profile)
	if err != nil {
		return nil, err
	}
	return &Engine{
		profile:  profile,
		floor:    cfg.GetConfidenceFloor(),
		machine:  machine,
		feedback: NewFeedbackGenerator(cfg.GetFeedbackCooldown(), clock),
		agg:      NewAggregator(exercise, clock),
	}, nil
}

// Profile returns the engine's exercise profile.
func (e *Engine) Profile() Profile { return e.profile }

// Aggregator exposes the session tally for persistence and snapshots.
func (e *Engine) Aggregator() *Aggregator { return e.agg }

// ProcessFrame advances the session with one keypoint frame. Frames must
// arrive in non-decreasing timestamp order; a violation returns
// ErrFrameOutOfOrder and changes nothing.
func (e *Engine) ProcessFrame(f pose.Frame) (Update, error) {
	if !e.lastFrame.IsZero() && f.Timestamp.Before(e.lastFrame) {
		return Update{}, fmt.Errorf("%w: %s before %s",
			ErrFrameOutOfOrder, f.Timestamp.Format(time.RFC3339Nano), e.lastFrame.Format(time.RFC3339Nano))
	}
	e.lastFrame = f.Timestamp

	angle := e.measure(f)
	before := e.machine.Phase()
	rep := e.machine.Update(angle, f.Timestamp)
	after := e.machine.Phase()

	if rep != nil {
		e.agg.Record(*rep)
	}

	transitioned := after != before
	fb := e.feedback.Generate(after, transitioned, rep)

	return Update{
		Angle:        angle,
		Phase:        after,
		Transitioned: transitioned,
		Rep:          rep,
		Feedback:     fb,
	}, nil
}

// measure computes the per-side angles for the profile's triples and combines
// them into the single signal the machine consumes.
func (e *Engine) measure(f pose.Frame) geom.Measurement {
	ms := make([]geom.Measurement, 0, len(e.profile.Triples))
	for _, t := range e.profile.Triples {
		a, okA := f.Keypoint(t.A)
		b, okB := f.Keypoint(t.B)
		c, okC := f.Keypoint(t.C)
		if !okA || !okB || !okC {
			ms = append(ms, geom.Measurement{A: t.A, B: t.B, C: t.C})
			continue
		}
		ms = append(ms, geom.Angle(a, b, c, e.floor))
	}
	return geom.Combine(ms...)
}

package reps

import (
	"fmt"

	"github.com/itsmardochee/SmartFit-Coach/internal/config"
	"github.com/itsmardochee/SmartFit-Coach/internal/pose"
)

// Triple names the three landmarks whose angle is tracked; the angle is at
// vertex B.
type Triple struct {
	A, B, C int
}

// Profile is the per-exercise configuration consumed by the state machine.
// Profiles are plain data: new exercises are added by supplying a new
// profile, never by specialising the machine.
type Profile struct {
	Exercise string

	// Triples lists the tracked joints (typically left and right side); the
	// per-frame signal is the mean of the valid sides.
	Triples []Triple

	// DownThreshold < UpThreshold creates the hysteresis band that prevents
	// phase flicker around a single boundary.
	DownThreshold float64
	UpThreshold   float64

	// DepthThreshold is the angle at or below which a rep counts as valid.
	DepthThreshold float64

	// MinDwellFrames is how many consecutive frames a threshold crossing
	// must hold before the machine commits to Down or Up.
	MinDwellFrames int
}

// Validate rejects degenerate configurations at session-start time.
func (p Profile) Validate() error {
	if p.Exercise == "" {
		return fmt.Errorf("profile has no exercise name")
	}
	if len(p.Triples) == 0 {
		return fmt.Errorf("profile %q has no angle triples", p.Exercise)
	}
	for _, v := range []float64{p.DownThreshold, p.UpThreshold, p.DepthThreshold} {
		if v < 0 || v > 180 {
			return fmt.Errorf("profile %q threshold %f outside [0,180]", p.Exercise, v)
		}
	}
	if p.DownThreshold >= p.UpThreshold {
		return fmt.Errorf("profile %q down_threshold (%f) must be below up_threshold (%f)",
			p.Exercise, p.DownThreshold, p.UpThreshold)
	}
	if p.MinDwellFrames < 1 {
		return fmt.Errorf("profile %q min_dwell_frames must be at least 1, got %d",
			p.Exercise, p.MinDwellFrames)
	}
	return nil
}

// SquatProfile tracks the averaged left/right knee angle (hip-knee-ankle).
func SquatProfile(cfg *config.TuningConfig) Profile {
	return Profile{
		Exercise: "squat",
		Triples: []Triple{
			{A: pose.LeftHip, B: pose.LeftKnee, C: pose.LeftAnkle},
			{A: pose.RightHip, B: pose.RightKnee, C: pose.RightAnkle},
		},
		DownThreshold:  cfg.GetSquatDownThreshold(),
		UpThreshold:    cfg.GetSquatUpThreshold(),
		DepthThreshold: cfg.GetSquatDepthThreshold(),
		MinDwellFrames: cfg.GetMinDwellFrames(),
	}
}

// PushupProfile tracks the averaged left/right elbow angle
// (shoulder-elbow-wrist).
func PushupProfile(cfg *config.TuningConfig) Profile {
	return Profile{
		Exercise: "pushup",
		Triples: []Triple{
			{A: pose.LeftShoulder, B: pose.LeftElbow, C: pose.LeftWrist},
			{A: pose.RightShoulder, B: pose.RightElbow, C: pose.RightWrist},
		},
		DownThreshold:  cfg.GetPushupDownThreshold(),
		UpThreshold:    cfg.GetPushupUpThreshold(),
		DepthThreshold: cfg.GetPushupDepthThreshold(),
		MinDwellFrames: cfg.GetMinDwellFrames(),
	}
}

// ProfileFor returns the profile for a named exercise.
func ProfileFor(exercise string, cfg *config.TuningConfig) (Profile, error) {
	switch exercise {
	case "squat":
		return SquatProfile(cfg), nil
	case "pushup", "push-up":
		return PushupProfile(cfg), nil
	default:
		return Profile{}, fmt.Errorf("unknown exercise %q", exercise)
	}
}

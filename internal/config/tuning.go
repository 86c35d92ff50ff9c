package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig holds the counting engine's tuning parameters. All fields are
// pointers so a partial JSON file only overrides what it names; the Get*
// accessors supply defaults for the rest. The thresholds are starting points
// measured against recorded sessions, not physiological constants; tune per
// deployment.
type TuningConfig struct {
	// Shared params
	ConfidenceFloor  *float64 `json:"confidence_floor,omitempty"`
	MinDwellFrames   *int     `json:"min_dwell_frames,omitempty"`
	FeedbackCooldown *string  `json:"feedback_cooldown,omitempty"` // duration string like "3s"

	// Squat thresholds (knee angle, degrees)
	SquatDownThreshold  *float64 `json:"squat_down_threshold,omitempty"`
	SquatUpThreshold    *float64 `json:"squat_up_threshold,omitempty"`
	SquatDepthThreshold *float64 `json:"squat_depth_threshold,omitempty"`

	// Push-up thresholds (elbow angle, degrees)
	PushupDownThreshold  *float64 `json:"pushup_down_threshold,omitempty"`
	PushupUpThreshold    *float64 `json:"pushup_up_threshold,omitempty"`
	PushupDepthThreshold *float64 `json:"pushup_depth_threshold,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset, i.e. pure
// defaults.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must have
// a .json extension and stay under the max file size. Fields omitted from
// the JSON retain their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable. A degenerate
// threshold shape (down >= up, values outside [0,180]) is a fatal
// construction error: a session must not start with it.
func (c *TuningConfig) Validate() error {
	if c.ConfidenceFloor != nil {
		if *c.ConfidenceFloor < 0 || *c.ConfidenceFloor > 1 {
			return fmt.Errorf("confidence_floor must be between 0 and 1, got %f", *c.ConfidenceFloor)
		}
	}

	if c.MinDwellFrames != nil && *c.MinDwellFrames < 1 {
		return fmt.Errorf("min_dwell_frames must be at least 1, got %d", *c.MinDwellFrames)
	}

	if c.FeedbackCooldown != nil && *c.FeedbackCooldown != "" {
		if _, err := time.ParseDuration(*c.FeedbackCooldown); err != nil {
			return fmt.Errorf("invalid feedback_cooldown '%s': %w", *c.FeedbackCooldown, err)
		}
	}

	type thresholds struct {
		name            string
		down, up, depth *float64
	}
	for _, t := range []thresholds{
		{"squat", c.SquatDownThreshold, c.SquatUpThreshold, c.SquatDepthThreshold},
		{"pushup", c.PushupDownThreshold, c.PushupUpThreshold, c.PushupDepthThreshold},
	} {
		for _, v := range []*float64{t.down, t.up, t.depth} {
			if v != nil && (*v < 0 || *v > 180) {
				return fmt.Errorf("%s threshold %f outside [0,180]", t.name, *v)
			}
		}
		down, up := defaultFloat(t.down, defaultDownThreshold), defaultFloat(t.up, defaultUpThreshold)
		if down >= up {
			return fmt.Errorf("%s down_threshold (%f) must be below up_threshold (%f)", t.name, down, up)
		}
	}

	return nil
}

// Default values. Squat thresholds are knee angles, push-up thresholds are
// elbow angles; both exercises share the same hysteresis shape.
const (
	defaultConfidenceFloor  = 0.5
	defaultMinDwellFrames   = 2
	defaultDownThreshold    = 100.0
	defaultUpThreshold      = 160.0
	defaultSquatDepth       = 90.0
	defaultPushupDepth      = 95.0
	defaultFeedbackCooldown = 3 * time.Second
)

func defaultFloat(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// GetConfidenceFloor returns the confidence_floor value or the default.
func (c *TuningConfig) GetConfidenceFloor() float64 {
	return defaultFloat(c.ConfidenceFloor, defaultConfidenceFloor)
}

// GetMinDwellFrames returns the min_dwell_frames value or the default.
func (c *TuningConfig) GetMinDwellFrames() int {
	if c.MinDwellFrames == nil {
		return defaultMinDwellFrames
	}
	return *c.MinDwellFrames
}

// GetFeedbackCooldown parses and returns the feedback cool-down duration.
func (c *TuningConfig) GetFeedbackCooldown() time.Duration {
	if c.FeedbackCooldown == nil || *c.FeedbackCooldown == "" {
		return defaultFeedbackCooldown
	}
	d, err := time.ParseDuration(*c.FeedbackCooldown)
	if err != nil {
		return defaultFeedbackCooldown
	}
	return d
}

// GetSquatDownThreshold returns the squat down threshold or the default.
func (c *TuningConfig) GetSquatDownThreshold() float64 {
	return defaultFloat(c.SquatDownThreshold, defaultDownThreshold)
}

// GetSquatUpThreshold returns the squat up threshold or the default.
func (c *TuningConfig) GetSquatUpThreshold() float64 {
	return defaultFloat(c.SquatUpThreshold, defaultUpThreshold)
}

// GetSquatDepthThreshold returns the squat depth threshold or the default.
func (c *TuningConfig) GetSquatDepthThreshold() float64 {
	return defaultFloat(c.SquatDepthThreshold, defaultSquatDepth)
}

// GetPushupDownThreshold returns the push-up down threshold or the default.
func (c *TuningConfig) GetPushupDownThreshold() float64 {
	return defaultFloat(c.PushupDownThreshold, defaultDownThreshold)
}

// GetPushupUpThreshold returns the push-up up threshold or the default.
func (c *TuningConfig) GetPushupUpThreshold() float64 {
	return defaultFloat(c.PushupUpThreshold, defaultUpThreshold)
}

// GetPushupDepthThreshold returns the push-up depth threshold or the default.
func (c *TuningConfig) GetPushupDepthThreshold() float64 {
	return defaultFloat(c.PushupDepthThreshold, defaultPushupDepth)
}

// Package pose defines the keypoint frame model produced by the external
// pose detector and the NDJSON wire format it is received in.
package pose

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// Keypoint is a single detected body landmark. Coordinates are normalised to
// the image ([0,1] on x/y); Z is a relative depth and may be zero when the
// detector does not estimate it. Visibility is the detector's confidence in
// [0,1]. Keypoints are immutable once received.
type Keypoint struct {
	ID         int     `json:"id"`
	Name       string  `json:"name,omitempty"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z,omitempty"`
	Visibility float64 `json:"visibility"`
}

// Visible reports whether the keypoint's confidence clears the given floor.
func (k Keypoint) Visible(floor float64) bool {
	return k.Visibility >= floor
}

// Frame is one timestamped set of keypoints, ordered by landmark id.
type Frame struct {
	Timestamp time.Time
	Keypoints []Keypoint
}

// Keypoint returns the keypoint with the given landmark id.
func (f Frame) Keypoint(id int) (Keypoint, bool) {
	// Frames are ordered by id after ParseFrame, so a direct index hit is the
	// common case; fall back to a scan for sparse frames.
	if id >= 0 && id < len(f.Keypoints) && f.Keypoints[id].ID == id {
		return f.Keypoints[id], true
	}
	for _, k := range f.Keypoints {
		if k.ID == id {
			return k, true
		}
	}
	return Keypoint{}, false
}

// frameWire is the NDJSON shape emitted by the detector: one object per line
// with a unix timestamp in seconds.
type frameWire struct {
	Timestamp float64    `json:"timestamp"`
	Keypoints []Keypoint `json:"keypoints"`
}

// ParseFrame decodes a single NDJSON frame payload. Keypoints are sorted by
// id; out-of-range coordinates or visibilities are rejected rather than
// clamped so a misbehaving detector is caught at the boundary.
func ParseFrame(payload []byte) (Frame, error) {
	var w frameWire
	if err := json.Unmarshal(payload, &w); err != nil {
		return Frame{}, fmt.Errorf("failed to unmarshal frame: %w", err)
	}
	if len(w.Keypoints) == 0 {
		return Frame{}, fmt.Errorf("frame has no keypoints")
	}
	if w.Timestamp <= 0 || math.IsNaN(w.Timestamp) {
		return Frame{}, fmt.Errorf("frame has invalid timestamp %v", w.Timestamp)
	}
	for _, k := range w.Keypoints {
		if k.ID < 0 || k.ID >= NumLandmarks {
			return Frame{}, fmt.Errorf("keypoint id %d out of range", k.ID)
		}
		if k.Visibility < 0 || k.Visibility > 1 || math.IsNaN(k.Visibility) {
			return Frame{}, fmt.Errorf("keypoint %d visibility %v out of range", k.ID, k.Visibility)
		}
	}
	sort.Slice(w.Keypoints, func(i, j int) bool { return w.Keypoints[i].ID < w.Keypoints[j].ID })

	sec, frac := math.Modf(w.Timestamp)
	return Frame{
		Timestamp: time.Unix(int64(sec), int64(frac*1e9)).UTC(),
		Keypoints: w.Keypoints,
	}, nil
}

// MarshalFrame encodes a frame back to its NDJSON wire shape (without the
// trailing newline). Used by the fixture generator and tests.
func MarshalFrame(f Frame) ([]byte, error) {
	w := frameWire{
		Timestamp: float64(f.Timestamp.UnixNano()) / 1e9,
		Keypoints: f.Keypoints,
	}
	return json.Marshal(w)
}

package pose

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"
)

func TestParseFrame(t *testing.T) {
	payload := `{"timestamp": 1717236000.5, "keypoints": [
		{"id": 25, "x": 0.5, "y": 0.6, "visibility": 0.9},
		{"id": 23, "x": 0.5, "y": 0.4, "visibility": 0.8}
	]}`

	frame, err := ParseFrame([]byte(payload))
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}

	if got := frame.Timestamp.Unix(); got != 1717236000 {
		t.Errorf("expected unix 1717236000, got %d", got)
	}
	if frame.Timestamp.Nanosecond() == 0 {
		t.Error("expected fractional second to be preserved")
	}

	// keypoints are sorted by id
	if frame.Keypoints[0].ID != 23 || frame.Keypoints[1].ID != 25 {
		t.Errorf("expected keypoints sorted by id, got %d, %d",
			frame.Keypoints[0].ID, frame.Keypoints[1].ID)
	}
}

func TestParseFrameRejectsEmpty(t *testing.T) {
	_, err := ParseFrame([]byte(`{"timestamp": 1, "keypoints": []}`))
	if err == nil {
		t.Error("expected error for frame with no keypoints")
	}
}

func TestParseFrameRejectsBadTimestamp(t *testing.T) {
	for _, ts := range []string{"0", "-5"} {
		payload := fmt.Sprintf(`{"timestamp": %s, "keypoints": [{"id": 0, "x": 0, "y": 0, "visibility": 1}]}`, ts)
		if _, err := ParseFrame([]byte(payload)); err == nil {
			t.Errorf("expected error for timestamp %s", ts)
		}
	}
}

func TestParseFrameRejectsBadKeypoints(t *testing.T) {
	cases := map[string]string{
		"id out of range":      `{"timestamp": 1, "keypoints": [{"id": 33, "x": 0, "y": 0, "visibility": 1}]}`,
		"negative id":          `{"timestamp": 1, "keypoints": [{"id": -1, "x": 0, "y": 0, "visibility": 1}]}`,
		"visibility above one": `{"timestamp": 1, "keypoints": [{"id": 0, "x": 0, "y": 0, "visibility": 1.5}]}`,
		"negative visibility":  `{"timestamp": 1, "keypoints": [{"id": 0, "x": 0, "y": 0, "visibility": -0.1}]}`,
		"not json":             `not json`,
	}
	for name, payload := range cases {
		if _, err := ParseFrame([]byte(payload)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	ts := time.Date(2025, 6, 1, 10, 0, 0, 500e6, time.UTC)
	frame, err := SyntheticFrame("squat", 90, ts)
	if err != nil {
		t.Fatalf("SyntheticFrame failed: %v", err)
	}

	payload, err := MarshalFrame(frame)
	if err != nil {
		t.Fatalf("MarshalFrame failed: %v", err)
	}
	if strings.Contains(string(payload), "\n") {
		t.Error("marshalled frame must be a single NDJSON line")
	}

	parsed, err := ParseFrame(payload)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if !parsed.Timestamp.Equal(frame.Timestamp) {
		t.Errorf("timestamp drifted: %v != %v", parsed.Timestamp, frame.Timestamp)
	}
	if len(parsed.Keypoints) != NumLandmarks {
		t.Errorf("expected %d keypoints, got %d", NumLandmarks, len(parsed.Keypoints))
	}
}

func TestFrameKeypointLookup(t *testing.T) {
	frame := Frame{Keypoints: []Keypoint{
		{ID: 11}, {ID: 25},
	}}

	if _, ok := frame.Keypoint(25); !ok {
		t.Error("expected to find keypoint 25 via scan")
	}
	if _, ok := frame.Keypoint(12); ok {
		t.Error("did not expect to find keypoint 12")
	}
}

func TestSyntheticFrameAngles(t *testing.T) {
	frame, err := SyntheticFrame("pushup", 120, time.Now())
	if err != nil {
		t.Fatalf("SyntheticFrame failed: %v", err)
	}

	b, _ := frame.Keypoint(LeftElbow)
	a, _ := frame.Keypoint(LeftShoulder)
	c, _ := frame.Keypoint(LeftWrist)

	// verify the placed geometry produces the requested angle
	ba := [2]float64{a.X - b.X, a.Y - b.Y}
	bc := [2]float64{c.X - b.X, c.Y - b.Y}
	dot := ba[0]*bc[0] + ba[1]*bc[1]
	na := math.Hypot(ba[0], ba[1])
	nc := math.Hypot(bc[0], bc[1])
	deg := math.Acos(dot/(na*nc)) * 180 / math.Pi

	if math.Abs(deg-120) > 0.01 {
		t.Errorf("expected 120 degree elbow, got %f", deg)
	}
}

func TestSyntheticFrameUnknownExercise(t *testing.T) {
	if _, err := SyntheticFrame("deadlift", 90, time.Now()); err == nil {
		t.Error("expected error for unknown exercise")
	}
}

func TestLandmarkName(t *testing.T) {
	if got := LandmarkName(LeftKnee); got != "left_knee" {
		t.Errorf("expected left_knee, got %q", got)
	}
	if got := LandmarkName(99); got != "" {
		t.Errorf("expected empty name for unknown id, got %q", got)
	}
}

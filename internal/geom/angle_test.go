package geom

import (
	"math"
	"testing"
	"time"

	"github.com/itsmardochee/SmartFit-Coach/internal/pose"
)

func testTime() time.Time {
	return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
}

func kp(id int, x, y, vis float64) pose.Keypoint {
	return pose.Keypoint{ID: id, X: x, Y: y, Visibility: vis}
}

// TestAngleRightAngle verifies the dot-product formula on a known geometry
func TestAngleRightAngle(t *testing.T) {
	a := kp(0, 0.5, 0.3, 1)
	b := kp(1, 0.5, 0.5, 1)
	c := kp(2, 0.7, 0.5, 1)

	m := Angle(a, b, c, DefaultConfidenceFloor)
	if !m.Valid {
		t.Fatal("expected valid measurement")
	}
	if math.Abs(m.Degrees-90) > 1e-9 {
		t.Errorf("expected 90 degrees, got %f", m.Degrees)
	}
}

func TestAngleStraightLine(t *testing.T) {
	a := kp(0, 0.5, 0.2, 1)
	b := kp(1, 0.5, 0.5, 1)
	c := kp(2, 0.5, 0.8, 1)

	m := Angle(a, b, c, DefaultConfidenceFloor)
	if !m.Valid {
		t.Fatal("expected valid measurement")
	}
	if math.Abs(m.Degrees-180) > 1e-9 {
		t.Errorf("expected 180 degrees, got %f", m.Degrees)
	}
}

func TestAngleLowVisibility(t *testing.T) {
	a := kp(0, 0.5, 0.3, 0.2) // below floor
	b := kp(1, 0.5, 0.5, 1)
	c := kp(2, 0.7, 0.5, 1)

	m := Angle(a, b, c, DefaultConfidenceFloor)
	if m.Valid {
		t.Error("expected invalid measurement for low-visibility keypoint")
	}
}

func TestAngleCoincidentPoints(t *testing.T) {
	b := kp(1, 0.5, 0.5, 1)
	m := Angle(kp(0, 0.5, 0.5, 1), b, kp(2, 0.7, 0.5, 1), DefaultConfidenceFloor)
	if m.Valid {
		t.Error("expected invalid measurement when a coincides with b")
	}
}

// TestAngleVisibilityAtFloor verifies the floor is inclusive
func TestAngleVisibilityAtFloor(t *testing.T) {
	a := kp(0, 0.5, 0.3, 0.5)
	b := kp(1, 0.5, 0.5, 0.5)
	c := kp(2, 0.7, 0.5, 0.5)

	m := Angle(a, b, c, 0.5)
	if !m.Valid {
		t.Error("visibility exactly at floor should count as visible")
	}
}

func TestCombineBothSides(t *testing.T) {
	left := Measurement{A: 0, B: 1, C: 2, Degrees: 90, Valid: true}
	right := Measurement{A: 3, B: 4, C: 5, Degrees: 100, Valid: true}

	m := Combine(left, right)
	if !m.Valid {
		t.Fatal("expected valid combined measurement")
	}
	if math.Abs(m.Degrees-95) > 1e-9 {
		t.Errorf("expected mean of 95, got %f", m.Degrees)
	}
}

func TestCombineOneSideInvalid(t *testing.T) {
	left := Measurement{Degrees: 90, Valid: true}
	right := Measurement{Valid: false}

	m := Combine(left, right)
	if !m.Valid {
		t.Fatal("expected valid measurement from single valid side")
	}
	if m.Degrees != 90 {
		t.Errorf("expected 90 from the valid side alone, got %f", m.Degrees)
	}
}

func TestCombineNoValidSides(t *testing.T) {
	m := Combine(Measurement{}, Measurement{})
	if m.Valid {
		t.Error("expected invalid measurement when no side is valid")
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{-5, 0},
		{0, 0},
		{90, 90},
		{180, 180},
		{185, 180},
	}
	for _, c := range cases {
		if got := Clamp(c.in); got != c.want {
			t.Errorf("Clamp(%f) = %f, want %f", c.in, got, c.want)
		}
	}
}

// TestAngleAgainstSyntheticFrames checks the full path from frame generation
// to angle measurement over a sweep of target angles.
func TestAngleAgainstSyntheticFrames(t *testing.T) {
	for _, want := range []float64{30, 60, 90, 120, 150, 175} {
		frame, err := pose.SyntheticFrame("squat", want, testTime())
		if err != nil {
			t.Fatalf("SyntheticFrame failed: %v", err)
		}
		a, _ := frame.Keypoint(pose.LeftHip)
		b, _ := frame.Keypoint(pose.LeftKnee)
		c, _ := frame.Keypoint(pose.LeftAnkle)

		m := Angle(a, b, c, DefaultConfidenceFloor)
		if !m.Valid {
			t.Fatalf("expected valid angle at %f degrees", want)
		}
		if math.Abs(m.Degrees-want) > 0.01 {
			t.Errorf("expected %f degrees, got %f", want, m.Degrees)
		}
	}
}

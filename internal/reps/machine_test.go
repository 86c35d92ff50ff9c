package reps

import (
	"testing"
	"time"

	"github.com/itsmardochee/SmartFit-Coach/internal/geom"
)

func testProfile(dwell int) Profile {
	return Profile{
		Exercise:       "squat",
		Triples:        []Triple{{A: 23, B: 25, C: 27}},
		DownThreshold:  100,
		UpThreshold:    160,
		DepthThreshold: 90,
		MinDwellFrames: dwell,
	}
}

func valid(deg float64) geom.Measurement {
	return geom.Measurement{Degrees: deg, Valid: true}
}

// feed runs a sequence of angles through the machine at 50ms per frame and
// returns all emitted rep events.
func feed(t *testing.T, m *Machine, angles []float64) []*RepEvent {
	t.Helper()
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	var events []*RepEvent
	for _, a := range angles {
		if ev := m.Update(valid(a), ts); ev != nil {
			events = append(events, ev)
		}
		ts = ts.Add(50 * time.Millisecond)
	}
	return events
}

func TestFullCycleCountsOneRep(t *testing.T) {
	m, err := NewMachine(testProfile(1))
	if err != nil {
		t.Fatalf("NewMachine failed: %v", err)
	}

	events := feed(t, m, []float64{170, 150, 120, 90, 70, 90, 120, 150, 170})
	if len(events) != 1 {
		t.Fatalf("expected exactly 1 rep, got %d", len(events))
	}

	ev := events[0]
	if !ev.Valid {
		t.Error("rep reaching 70 degrees should be valid against a 90 degree depth threshold")
	}
	if ev.MinAngle != 70 {
		t.Errorf("expected min angle 70, got %f", ev.MinAngle)
	}
	if ev.Sequence != 1 {
		t.Errorf("expected sequence 1, got %d", ev.Sequence)
	}
	if m.Phase() != PhaseUp {
		t.Errorf("expected machine back in Up, got %s", m.Phase())
	}
}

func TestShallowRepIsInvalid(t *testing.T) {
	m, _ := NewMachine(testProfile(1))

	// bottoms out at 95, above the 90 degree depth threshold
	events := feed(t, m, []float64{170, 140, 95, 95, 140, 170})
	if len(events) != 1 {
		t.Fatalf("expected 1 rep, got %d", len(events))
	}
	if events[0].Valid {
		t.Error("rep bottoming at 95 degrees should be invalid")
	}
	if events[0].MinAngle != 95 {
		t.Errorf("expected min angle 95, got %f", events[0].MinAngle)
	}
}

func TestAbortedDescentCountsNothing(t *testing.T) {
	m, _ := NewMachine(testProfile(1))

	// dips below Up but never crosses Down, then returns
	events := feed(t, m, []float64{170, 150, 130, 150, 170, 170})
	if len(events) != 0 {
		t.Fatalf("expected no reps for aborted descent, got %d", len(events))
	}
	if m.Phase() != PhaseUp {
		t.Errorf("expected machine back in Up, got %s", m.Phase())
	}
}

func TestDwellSuppressesSingleFrameNoise(t *testing.T) {
	m, _ := NewMachine(testProfile(2))

	// a single frame below the down threshold must not commit to Down
	feed(t, m, []float64{170, 150, 95})
	if m.Phase() != PhaseDescending {
		t.Errorf("one frame below threshold should stay Descending, got %s", m.Phase())
	}

	// the second consecutive frame commits
	feed(t, m, []float64{95})
	if m.Phase() != PhaseDown {
		t.Errorf("two consecutive frames should commit to Down, got %s", m.Phase())
	}
}

func TestDwellResetOnBounce(t *testing.T) {
	m, _ := NewMachine(testProfile(2))

	// cross down, bounce back into the hysteresis band, cross again: the
	// dwell count must restart
	feed(t, m, []float64{170, 150, 95, 120, 95})
	if m.Phase() != PhaseDescending {
		t.Errorf("bounce should reset the dwell count, got %s", m.Phase())
	}
}

func TestInvalidAngleHoldsState(t *testing.T) {
	m, _ := NewMachine(testProfile(1))
	ts := time.Now()

	m.Update(valid(170), ts)
	m.Update(valid(120), ts)
	phase := m.Phase()

	if ev := m.Update(geom.Measurement{}, ts); ev != nil {
		t.Error("invalid measurement must not emit a rep")
	}
	if m.Phase() != phase {
		t.Errorf("invalid measurement changed phase from %s to %s", phase, m.Phase())
	}
}

func TestMinAngleResetsPerCycle(t *testing.T) {
	m, _ := NewMachine(testProfile(1))

	// first rep goes deep
	events := feed(t, m, []float64{170, 120, 70, 120, 170})
	if len(events) != 1 || events[0].MinAngle != 70 {
		t.Fatalf("expected first rep at min 70, got %+v", events)
	}

	// second rep is shallower; its min must not inherit the first rep's 70
	events = feed(t, m, []float64{140, 95, 140, 170})
	if len(events) != 1 {
		t.Fatalf("expected second rep, got %d", len(events))
	}
	if events[0].MinAngle != 95 {
		t.Errorf("expected min angle 95 for second cycle, got %f", events[0].MinAngle)
	}
	if events[0].Valid {
		t.Error("second rep at 95 should be invalid")
	}
}

func TestMultipleReps(t *testing.T) {
	m, _ := NewMachine(testProfile(1))

	cycle := []float64{150, 120, 85, 120, 150, 170}
	var angles []float64
	angles = append(angles, 170)
	for i := 0; i < 5; i++ {
		angles = append(angles, cycle...)
	}

	events := feed(t, m, angles)
	if len(events) != 5 {
		t.Fatalf("expected 5 reps, got %d", len(events))
	}
	for i, ev := range events {
		if ev.Sequence != i+1 {
			t.Errorf("rep %d has sequence %d", i, ev.Sequence)
		}
		if !ev.Valid {
			t.Errorf("rep %d should be valid", i)
		}
	}
}

func TestRepDuration(t *testing.T) {
	m, _ := NewMachine(testProfile(1))

	// 8 frames at 50ms each: descent starts on frame 2, rep lands on frame 8
	events := feed(t, m, []float64{170, 170, 150, 90, 70, 90, 150, 170})
	if len(events) != 1 {
		t.Fatalf("expected 1 rep, got %d", len(events))
	}
	want := 250 * time.Millisecond
	if events[0].Duration != want {
		t.Errorf("expected duration %v, got %v", want, events[0].Duration)
	}
}

func TestHoverInHysteresisBand(t *testing.T) {
	m, _ := NewMachine(testProfile(1))

	// hovering between the thresholds commits to neither extreme
	feed(t, m, []float64{170, 130, 120, 130, 125, 130})
	if m.Phase() != PhaseDescending {
		t.Errorf("expected Descending while hovering in the band, got %s", m.Phase())
	}
}

func TestStartMidCycle(t *testing.T) {
	m, _ := NewMachine(testProfile(1))

	// stream starts with the user already at the bottom; the first ascent
	// completes a cycle that did traverse Down
	events := feed(t, m, []float64{85, 85, 120, 150, 170})
	if len(events) != 1 {
		t.Fatalf("expected the mid-cycle start to produce one rep, got %d", len(events))
	}
}

func TestNewMachineRejectsBadProfile(t *testing.T) {
	p := testProfile(1)
	p.DownThreshold = 170 // above up threshold
	if _, err := NewMachine(p); err == nil {
		t.Error("expected error for down >= up thresholds")
	}

	p = testProfile(0)
	if _, err := NewMachine(p); err == nil {
		t.Error("expected error for zero dwell")
	}
}

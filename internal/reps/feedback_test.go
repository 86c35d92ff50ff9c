package reps

import (
	"strings"
	"testing"
	"time"

	"github.com/itsmardochee/SmartFit-Coach/internal/timeutil"
)

func TestFeedbackValidRep(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	g := NewFeedbackGenerator(3*time.Second, clock)

	rep := &RepEvent{Sequence: 1, Valid: true, MinAngle: 80}
	fb := g.Generate(PhaseUp, true, rep)
	if fb == nil {
		t.Fatal("expected feedback for a completed rep")
	}
	if fb.Severity != SeveritySuccess {
		t.Errorf("expected success severity, got %s", fb.Severity)
	}
}

func TestFeedbackShallowRep(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	g := NewFeedbackGenerator(3*time.Second, clock)

	rep := &RepEvent{Sequence: 2, Valid: false, MinAngle: 104}
	fb := g.Generate(PhaseUp, true, rep)
	if fb == nil {
		t.Fatal("expected feedback for a shallow rep")
	}
	if fb.Severity != SeverityWarn {
		t.Errorf("expected warn severity, got %s", fb.Severity)
	}
	if !strings.Contains(fb.Message, "104") {
		t.Errorf("warn message should name the reached angle: %q", fb.Message)
	}
}

func TestFeedbackCooldown(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	g := NewFeedbackGenerator(3*time.Second, clock)

	if fb := g.Generate(PhaseDescending, true, nil); fb == nil {
		t.Fatal("expected first phase message")
	}

	// a second info message inside the cool-down is suppressed
	clock.Advance(1 * time.Second)
	if fb := g.Generate(PhaseDown, true, nil); fb != nil {
		t.Errorf("expected cool-down to suppress message, got %q", fb.Message)
	}

	// after the cool-down elapses the next message goes through
	clock.Advance(2500 * time.Millisecond)
	if fb := g.Generate(PhaseAscending, true, nil); fb == nil {
		t.Error("expected message after cool-down elapsed")
	}
}

func TestFeedbackCooldownPerSeverity(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	g := NewFeedbackGenerator(3*time.Second, clock)

	if fb := g.Generate(PhaseDescending, true, nil); fb == nil {
		t.Fatal("expected info message")
	}

	// a success message is a different class and is not suppressed by the
	// info cool-down
	rep := &RepEvent{Sequence: 1, Valid: true, MinAngle: 85}
	if fb := g.Generate(PhaseUp, true, rep); fb == nil {
		t.Error("success message should not share the info cool-down")
	}
}

func TestFeedbackNoTransitionNoMessage(t *testing.T) {
	clock := timeutil.NewMockClock(time.Now())
	g := NewFeedbackGenerator(0, clock)

	if fb := g.Generate(PhaseDescending, false, nil); fb != nil {
		t.Errorf("expected no message without a transition, got %q", fb.Message)
	}
}

func TestFeedbackZeroCooldownDisablesRateLimit(t *testing.T) {
	clock := timeutil.NewMockClock(time.Now())
	g := NewFeedbackGenerator(0, clock)

	for i := 0; i < 3; i++ {
		if fb := g.Generate(PhaseDescending, true, nil); fb == nil {
			t.Fatalf("message %d suppressed despite disabled cool-down", i)
		}
	}
}

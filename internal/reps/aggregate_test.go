package reps

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/itsmardochee/SmartFit-Coach/internal/timeutil"
)

func TestAggregatorTallies(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	a := NewAggregator("squat", clock)

	a.Record(RepEvent{Sequence: 1, Valid: true, MinAngle: 80})
	clock.Advance(30 * time.Second)
	a.Record(RepEvent{Sequence: 2, Valid: false, MinAngle: 100})
	clock.Advance(30 * time.Second)
	a.Record(RepEvent{Sequence: 3, Valid: true, MinAngle: 85})

	snap := a.Snapshot()
	want := Snapshot{
		SessionID:     a.ID().String(),
		Exercise:      "squat",
		RepCount:      3,
		ValidRepCount: 2,
		SuccessRate:   2.0 / 3.0,
		Duration:      time.Minute,
	}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregatorEmptySnapshot(t *testing.T) {
	clock := timeutil.NewMockClock(time.Now())
	a := NewAggregator("pushup", clock)

	snap := a.Snapshot()
	if snap.RepCount != 0 || snap.ValidRepCount != 0 {
		t.Errorf("expected zero counts, got %+v", snap)
	}
	if snap.SuccessRate != 0 {
		t.Errorf("success rate with no reps must be 0, got %f", snap.SuccessRate)
	}
}

func TestAggregatorRepsCopy(t *testing.T) {
	clock := timeutil.NewMockClock(time.Now())
	a := NewAggregator("squat", clock)
	a.Record(RepEvent{Sequence: 1, Valid: true})

	reps := a.Reps()
	reps[0].Sequence = 99

	if a.Reps()[0].Sequence != 1 {
		t.Error("Reps must return a copy, not the live slice")
	}
}

func TestAggregatorReset(t *testing.T) {
	clock := timeutil.NewMockClock(time.Now())
	a := NewAggregator("squat", clock)
	a.Record(RepEvent{Sequence: 1, Valid: true})
	oldID := a.ID()

	clock.Advance(time.Second)
	a.Reset()

	if a.ID() == oldID {
		t.Error("reset must assign a new session id")
	}
	if snap := a.Snapshot(); snap.RepCount != 0 || snap.Duration != 0 {
		t.Errorf("expected fresh counters after reset, got %+v", snap)
	}
}

// Package geom computes joint angles from keypoint triples. All functions
// are pure; indeterminate geometry is reported through the Valid flag rather
// than errors so a noisy frame never aborts the pipeline.
package geom

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/itsmardochee/SmartFit-Coach/internal/pose"
)

// DefaultConfidenceFloor is the visibility below which a keypoint is treated
// as missing.
const DefaultConfidenceFloor = 0.5

// Measurement is the angle at a joint, in degrees within [0,180]. When Valid
// is false the numeric fields are undefined and must not be consumed.
type Measurement struct {
	A, B, C int // landmark ids: the angle is at vertex B
	Degrees float64
	Valid   bool
}

// Angle computes the angle at vertex b formed by the vectors b->a and b->c,
// via the dot-product/arccosine formula, in degrees. The measurement is
// invalid when any keypoint's visibility is below floor or when two points
// coincide (zero-length vector).
func Angle(a, b, c pose.Keypoint, floor float64) Measurement {
	m := Measurement{A: a.ID, B: b.ID, C: c.ID}
	if !a.Visible(floor) || !b.Visible(floor) || !c.Visible(floor) {
		return m
	}

	ba := []float64{a.X - b.X, a.Y - b.Y}
	bc := []float64{c.X - b.X, c.Y - b.Y}

	normBA := floats.Norm(ba, 2)
	normBC := floats.Norm(bc, 2)
	if normBA == 0 || normBC == 0 {
		// True coincidence: the angle is undefined.
		return m
	}

	cos := floats.Dot(ba, bc) / (normBA * normBC)
	// Guard the arccos domain against floating-point drift.
	cos = math.Max(-1, math.Min(1, cos))

	deg := math.Acos(cos) * 180 / math.Pi
	if math.IsNaN(deg) {
		return m
	}

	m.Degrees = Clamp(deg)
	m.Valid = true
	return m
}

// Combine aggregates bilateral measurements into one by taking the arithmetic
// mean of the valid sides. The result is invalid when no side is valid. The
// vertex ids of the first measurement are carried through for labelling.
func Combine(ms ...Measurement) Measurement {
	var degrees []float64
	out := Measurement{}
	if len(ms) > 0 {
		out.A, out.B, out.C = ms[0].A, ms[0].B, ms[0].C
	}
	for _, m := range ms {
		if m.Valid {
			degrees = append(degrees, m.Degrees)
		}
	}
	if len(degrees) == 0 {
		return out
	}
	out.Degrees = Clamp(stat.Mean(degrees, nil))
	out.Valid = true
	return out
}

// Clamp forces an angle into [0,180] degrees.
func Clamp(deg float64) float64 {
	if deg < 0 {
		return 0
	}
	if deg > 180 {
		return 180
	}
	return deg
}

// Package reps implements the repetition-counting engine: a phase state
// machine driven by one joint-angle signal, per-exercise profiles, coaching
// feedback and session aggregation.
package reps

// Phase is a discrete stage of a repetition cycle. Up and Down are the
// stable extremes; Descending and Ascending are transitional. Transitions
// only ever follow the cycle Up -> Descending -> Down -> Ascending -> Up.
type Phase string

const (
	PhaseUp         Phase = "up"
	PhaseDescending Phase = "descending"
	PhaseDown       Phase = "down"
	PhaseAscending  Phase = "ascending"
)

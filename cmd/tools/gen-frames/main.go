// Command gen-frames emits a synthetic NDJSON workout stream for fixtures and
// load testing. Each rep sweeps the tracked joint angle from the top angle
// down to the bottom angle and back in even steps.
package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"time"

	"github.com/itsmardochee/SmartFit-Coach/internal/pose"
)

var (
	exercise  = flag.String("exercise", "squat", "Exercise to generate (squat or pushup)")
	repCount  = flag.Int("reps", 10, "Number of reps to generate")
	topAngle  = flag.Float64("top", 170, "Angle at the top of the movement (degrees)")
	lowAngle  = flag.Float64("bottom", 75, "Angle at the bottom of the movement (degrees)")
	steps     = flag.Int("steps", 12, "Frames per half-rep")
	frameRate = flag.Float64("fps", 20, "Frames per second of the generated stream")
	output    = flag.String("o", "", "Output file (default stdout)")
)

func main() {
	flag.Parse()

	if *lowAngle >= *topAngle {
		log.Fatalf("bottom angle (%.0f) must be below top angle (%.0f)", *lowAngle, *topAngle)
	}
	if *steps < 2 {
		log.Fatal("steps must be at least 2")
	}

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("failed to create output file: %v", err)
		}
		defer f.Close()
		out = f
	}

	w := bufio.NewWriter(out)
	defer w.Flush()

	ts := time.Now().UTC()
	frameInterval := time.Duration(float64(time.Second) / *frameRate)

	emit := func(angle float64) {
		frame, err := pose.SyntheticFrame(*exercise, angle, ts)
		if err != nil {
			log.Fatalf("failed to build frame: %v", err)
		}
		payload, err := pose.MarshalFrame(frame)
		if err != nil {
			log.Fatalf("failed to marshal frame: %v", err)
		}
		w.Write(payload)
		w.WriteByte('\n')
		ts = ts.Add(frameInterval)
	}

	span := *topAngle - *lowAngle
	step := span / float64(*steps)

	// settle at the top before the first rep
	for i := 0; i < *steps/2; i++ {
		emit(*topAngle)
	}

	for rep := 0; rep < *repCount; rep++ {
		for a := *topAngle; a > *lowAngle; a -= step {
			emit(a)
		}
		emit(*lowAngle)
		for a := *lowAngle; a < *topAngle; a += step {
			emit(a)
		}
		emit(*topAngle)
	}

	log.Printf("generated %d reps of %s", *repCount, *exercise)
}

package pose

import (
	"fmt"
	"math"
	"time"
)

// SyntheticFrame builds a complete 33-landmark frame in which the tracked
// joints of the given exercise form the requested angle (degrees) on both
// sides of the body. Landmarks the exercise does not track are present with
// zero visibility. Used by the fixture generator and tests.
func SyntheticFrame(exercise string, angleDeg float64, ts time.Time) (Frame, error) {
	kps := make([]Keypoint, NumLandmarks)
	for i := range kps {
		kps[i] = Keypoint{ID: i, Name: LandmarkName(i), X: 0.5, Y: 0.5}
	}

	switch exercise {
	case "squat":
		placeJoint(kps, LeftHip, LeftKnee, LeftAnkle, 0.45, angleDeg)
		placeJoint(kps, RightHip, RightKnee, RightAnkle, 0.55, angleDeg)
	case "pushup":
		placeJoint(kps, LeftShoulder, LeftElbow, LeftWrist, 0.45, angleDeg)
		placeJoint(kps, RightShoulder, RightElbow, RightWrist, 0.55, angleDeg)
	default:
		return Frame{}, fmt.Errorf("unknown exercise %q", exercise)
	}

	return Frame{Timestamp: ts, Keypoints: kps}, nil
}

// placeJoint positions landmarks a (upper), b (vertex) and c (lower) in a
// column at the given x so that the angle at b is exactly angleDeg: b->a
// points straight up and b->c is rotated angleDeg away from it.
func placeJoint(kps []Keypoint, a, b, c int, x, angleDeg float64) {
	const limb = 0.15
	rad := angleDeg * math.Pi / 180

	kps[b].X, kps[b].Y = x, 0.5
	kps[b].Visibility = 1

	kps[a].X, kps[a].Y = x, 0.5-limb
	kps[a].Visibility = 1

	kps[c].X = x + limb*math.Sin(rad)
	kps[c].Y = 0.5 - limb*math.Cos(rad)
	kps[c].Visibility = 1
}

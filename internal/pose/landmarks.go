package pose

// Landmark indexes follow the MediaPipe Pose 33-point layout, which is what
// the external detector emits. Only a subset is used for counting but the
// full table is kept so frames can be validated and named in debug output.
const (
	Nose          = 0
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftHip       = 23
	RightHip      = 24
	LeftKnee      = 25
	RightKnee     = 26
	LeftAnkle     = 27
	RightAnkle    = 28
)

// NumLandmarks is the number of keypoints in a complete detector frame.
const NumLandmarks = 33

// LandmarkNames maps landmark index to its semantic name.
var LandmarkNames = [NumLandmarks]string{
	"nose",
	"left_eye_inner", "left_eye", "left_eye_outer",
	"right_eye_inner", "right_eye", "right_eye_outer",
	"left_ear", "right_ear",
	"mouth_left", "mouth_right",
	"left_shoulder", "right_shoulder",
	"left_elbow", "right_elbow",
	"left_wrist", "right_wrist",
	"left_pinky", "right_pinky",
	"left_index", "right_index",
	"left_thumb", "right_thumb",
	"left_hip", "right_hip",
	"left_knee", "right_knee",
	"left_ankle", "right_ankle",
	"left_heel", "right_heel",
	"left_foot_index", "right_foot_index",
}

// LandmarkName returns the semantic name for a landmark index, or "" when the
// index is outside the table.
func LandmarkName(id int) string {
	if id < 0 || id >= NumLandmarks {
		return ""
	}
	return LandmarkNames[id]
}

// Package detector provides hand detection interfaces and types for gesture recognition.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a detector-space landmark coordinate. X and Y are normalized
// to [0,1] relative to the image; Z is relative depth with the wrist near 0.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand is one detected hand: the 21 MediaPipe landmarks in fixed index
// order, plus the handedness tag reported by the detector. The index order
// is semantically meaningful and must never be rearranged.
type Hand struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// HandFromSlice builds a Hand from a variable-length landmark slice.
// Any length other than NumLandmarks is a malformed detection and is
// rejected rather than padded or truncated: a classifier must never see
// guessed or silently dropped joints.
func HandFromSlice(points []Point3D, handedness string, score float64) (Hand, bool) {
	if len(points) != NumLandmarks {
		return Hand{}, false
	}

	h := Hand{
		Handedness: handedness,
		Score:      score,
	}
	copy(h.Points[:], points)
	return h, true
}

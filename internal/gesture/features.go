package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

// StaticVectorSize is the length of a shape feature vector: 21 landmarks
// flattened to interleaved x,y pairs.
const StaticVectorSize = 2 * detector.NumLandmarks

// MotionVectorSize is the length of a motion feature vector: HistoryLength
// tracked points flattened to interleaved x,y pairs.
const MotionVectorSize = 2 * HistoryLength

// StaticVector is a translation- and scale-invariant encoding of one hand
// pose. The fixed size guarantees the shape classifier never receives a
// partial input.
type StaticVector [StaticVectorSize]float64

// MotionVector is the flattened, normalized fingertip trajectory over a
// full point history window.
type MotionVector [MotionVectorSize]float64

// StaticFeatures converts pixel-space landmarks into a StaticVector.
//
// Every landmark is translated so the wrist sits at the origin, the points
// are flattened in index order, and all components are divided by the
// maximum absolute component. The division cancels hand size and distance
// from the camera; the translation cancels hand position. Rotation is
// deliberately not cancelled: classifiers are trained on this
// representation as-is.
//
// A degenerate hand where every landmark coincides with the wrist yields
// the zero vector rather than dividing by zero.
func StaticFeatures(landmarks LandmarkSet) StaticVector {
	var vec StaticVector

	base := landmarks[detector.Wrist]
	for i, p := range landmarks {
		vec[2*i] = float64(p.X - base.X)
		vec[2*i+1] = float64(p.Y - base.Y)
	}

	var maxAbs float64
	for _, v := range vec {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs == 0 {
		return vec
	}

	for i := range vec {
		vec[i] /= maxAbs
	}
	return vec
}

// MotionFeatures converts a fingertip history into a MotionVector for an
// image of the given dimensions. Each point is expressed as an offset from
// the history's first (oldest) point, scaled by image width and height,
// and the pairs are flattened oldest first.
//
// It reports ok=false until the history holds exactly HistoryLength
// points: the motion classifier is trained on fixed-length input, and a
// shorter vector would silently corrupt its input layout.
func MotionFeatures(history *PointHistory, width, height int) (MotionVector, bool) {
	var vec MotionVector

	points := history.Points()
	if len(points) != HistoryLength || width <= 0 || height <= 0 {
		return vec, false
	}

	base := points[0]
	for i, p := range points {
		vec[2*i] = float64(p.X-base.X) / float64(width)
		vec[2*i+1] = float64(p.Y-base.Y) / float64(height)
	}
	return vec, true
}

// Package gesture implements the landmark preprocessing and gesture
// recognition pipeline: pixel-space projection, translation- and
// scale-invariant feature extraction, fingertip point history, and the
// dispatcher that fuses shape and motion classification into one result.
package gesture

import (
	"errors"
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

// ErrIncompleteHand is returned when a detection carries fewer than the
// 21 landmarks required by the classification pipeline.
var ErrIncompleteHand = errors.New("incomplete hand detection")

// ErrBadDimensions is returned when the source image dimensions are not positive.
var ErrBadDimensions = errors.New("image dimensions must be positive")

// Point is a landmark coordinate in pixel space.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// LandmarkSet holds the 21 pixel-space landmarks of one hand in one frame,
// in MediaPipe index order.
type LandmarkSet [detector.NumLandmarks]Point

// BoundingRect is the tight axis-aligned pixel box enclosing a LandmarkSet.
type BoundingRect struct {
	MinX int `json:"x_min"`
	MinY int `json:"y_min"`
	MaxX int `json:"x_max"`
	MaxY int `json:"y_max"`
}

// ProjectHand converts a hand's normalized [0,1] detector coordinates into
// pixel space for an image of the given dimensions. Each coordinate is
// rounded to the nearest pixel and clamped to the image bounds.
func ProjectHand(hand *detector.Hand, width, height int) (LandmarkSet, error) {
	if width <= 0 || height <= 0 {
		return LandmarkSet{}, ErrBadDimensions
	}

	var set LandmarkSet
	for i, p := range hand.Points {
		set[i] = Point{
			X: clamp(int(math.Round(p.X*float64(width))), 0, width-1),
			Y: clamp(int(math.Round(p.Y*float64(height))), 0, height-1),
		}
	}
	return set, nil
}

// ProjectPoints is ProjectHand for a variable-length landmark slice, as
// received on the API boundary. Slices without exactly 21 entries are
// rejected so incomplete detections never enter the pipeline.
func ProjectPoints(points []detector.Point3D, width, height int) (LandmarkSet, error) {
	if len(points) != detector.NumLandmarks {
		return LandmarkSet{}, ErrIncompleteHand
	}

	hand := detector.Hand{}
	copy(hand.Points[:], points)
	return ProjectHand(&hand, width, height)
}

// Bounds returns the tight bounding rectangle over all landmarks,
// with no added margin.
func (s LandmarkSet) Bounds() BoundingRect {
	rect := BoundingRect{
		MinX: s[0].X, MinY: s[0].Y,
		MaxX: s[0].X, MaxY: s[0].Y,
	}

	for _, p := range s[1:] {
		if p.X < rect.MinX {
			rect.MinX = p.X
		}
		if p.X > rect.MaxX {
			rect.MaxX = p.X
		}
		if p.Y < rect.MinY {
			rect.MinY = p.Y
		}
		if p.Y > rect.MaxY {
			rect.MaxY = p.Y
		}
	}
	return rect
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []Hand
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []Hand) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PointingHand returns a preset Hand with the index finger extended upward
// and the remaining fingers curled, the pose used for motion tracing.
func PointingHand() Hand {
	hand := Hand{
		Handedness: "Right",
		Score:      0.95,
	}

	// Wrist at the base of the frame
	hand.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb folded across the palm
	hand.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	hand.Points[ThumbMCP] = Point3D{X: 0.57, Y: 0.70, Z: -0.02}
	hand.Points[ThumbIP] = Point3D{X: 0.55, Y: 0.66, Z: -0.04}
	hand.Points[ThumbTip] = Point3D{X: 0.52, Y: 0.64, Z: -0.05}

	// Index finger extended upward (Y decreases going up)
	hand.Points[IndexMCP] = Point3D{X: 0.54, Y: 0.66, Z: 0.0}
	hand.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.54, Z: 0.0}
	hand.Points[IndexDIP] = Point3D{X: 0.55, Y: 0.44, Z: 0.0}
	hand.Points[IndexTip] = Point3D{X: 0.55, Y: 0.34, Z: 0.0}

	// Middle finger curled
	hand.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: -0.02}
	hand.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.62, Z: -0.05}
	hand.Points[MiddleDIP] = Point3D{X: 0.48, Y: 0.66, Z: -0.04}
	hand.Points[MiddleTip] = Point3D{X: 0.46, Y: 0.70, Z: -0.02}

	// Ring finger curled
	hand.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: -0.02}
	hand.Points[RingPIP] = Point3D{X: 0.45, Y: 0.64, Z: -0.05}
	hand.Points[RingDIP] = Point3D{X: 0.43, Y: 0.68, Z: -0.04}
	hand.Points[RingTip] = Point3D{X: 0.41, Y: 0.72, Z: -0.02}

	// Pinky finger curled
	hand.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}
	hand.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.68, Z: -0.05}
	hand.Points[PinkyDIP] = Point3D{X: 0.38, Y: 0.72, Z: -0.04}
	hand.Points[PinkyTip] = Point3D{X: 0.36, Y: 0.74, Z: -0.02}

	return hand
}

// OpenPalmHand returns a preset Hand representing an open palm.
// All fingers are extended outward.
func OpenPalmHand() Hand {
	hand := Hand{
		Handedness: "Right",
		Score:      0.95,
	}

	// Wrist at base
	hand.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	hand.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	hand.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	hand.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	hand.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	// Index finger extended upward
	hand.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	hand.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	hand.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	hand.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Middle finger extended upward (slightly longer)
	hand.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	hand.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	hand.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	hand.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	// Ring finger extended upward
	hand.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	hand.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	hand.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	hand.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	// Pinky finger extended upward
	hand.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	hand.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	hand.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	hand.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return hand
}

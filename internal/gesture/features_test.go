package gesture

import (
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

const epsilon = 1e-9

// spreadLandmarks returns a landmark set with distinct coordinates so the
// normalizers have something meaningful to work with.
func spreadLandmarks() LandmarkSet {
	var set LandmarkSet
	for i := range set {
		set[i] = Point{X: 100 + 7*i, Y: 300 - 11*i}
	}
	return set
}

func TestStaticFeatures_WristAtOrigin(t *testing.T) {
	vec := StaticFeatures(spreadLandmarks())

	if vec[0] != 0 || vec[1] != 0 {
		t.Errorf("wrist components = (%f, %f), want (0, 0)", vec[0], vec[1])
	}
}

func TestStaticFeatures_MaxComponentIsOne(t *testing.T) {
	vec := StaticFeatures(spreadLandmarks())

	var maxAbs float64
	for _, v := range vec {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}

	if math.Abs(maxAbs-1.0) > epsilon {
		t.Errorf("max absolute component = %f, want 1.0", maxAbs)
	}
}

func TestStaticFeatures_TranslationInvariance(t *testing.T) {
	base := spreadLandmarks()

	shifted := base
	for i := range shifted {
		shifted[i].X += 37
		shifted[i].Y -= 81
	}

	vecA := StaticFeatures(base)
	vecB := StaticFeatures(shifted)

	for i := range vecA {
		if math.Abs(vecA[i]-vecB[i]) > epsilon {
			t.Fatalf("component %d differs after translation: %f vs %f", i, vecA[i], vecB[i])
		}
	}
}

func TestStaticFeatures_ScaleInvariance(t *testing.T) {
	base := spreadLandmarks()

	scaled := base
	for i := range scaled {
		scaled[i].X *= 3
		scaled[i].Y *= 3
	}

	vecA := StaticFeatures(base)
	vecB := StaticFeatures(scaled)

	for i := range vecA {
		if math.Abs(vecA[i]-vecB[i]) > epsilon {
			t.Fatalf("component %d differs after scaling: %f vs %f", i, vecA[i], vecB[i])
		}
	}
}

func TestStaticFeatures_DegenerateHand(t *testing.T) {
	// All landmarks coincide: maxAbs is zero and normalization must
	// short-circuit to the zero vector instead of dividing by zero.
	var set LandmarkSet
	for i := range set {
		set[i] = Point{X: 42, Y: 42}
	}

	vec := StaticFeatures(set)
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("component %d = %f, want 0 for degenerate hand", i, v)
		}
	}
}

func TestStaticFeatures_KnownScenario(t *testing.T) {
	// Wrist at (100,100), index tip at (150,100): the index tip offset is
	// (50,0) and the max component 50, so the tip normalizes to (1.0, 0.0).
	var set LandmarkSet
	for i := range set {
		set[i] = Point{X: 100, Y: 100}
	}
	set[detector.IndexTip] = Point{X: 150, Y: 100}

	vec := StaticFeatures(set)

	if vec[0] != 0 || vec[1] != 0 {
		t.Errorf("wrist components = (%f, %f), want (0, 0)", vec[0], vec[1])
	}

	tipX := vec[2*detector.IndexTip]
	tipY := vec[2*detector.IndexTip+1]
	if math.Abs(tipX-1.0) > epsilon || tipY != 0 {
		t.Errorf("index tip components = (%f, %f), want (1.0, 0.0)", tipX, tipY)
	}
}

func TestMotionFeatures_ReadinessGate(t *testing.T) {
	h := NewPointHistory(HistoryLength)

	for i := 0; i < HistoryLength-1; i++ {
		h.Push(Point{X: i, Y: i})
		if _, ok := MotionFeatures(h, 640, 480); ok {
			t.Fatalf("expected not ready with %d points", h.Len())
		}
	}

	h.Push(Point{X: 99, Y: 99})
	vec, ok := MotionFeatures(h, 640, 480)
	if !ok {
		t.Fatal("expected ready with a full history")
	}
	if len(vec) != MotionVectorSize {
		t.Fatalf("vector length %d, want %d", len(vec), MotionVectorSize)
	}
}

func TestMotionFeatures_StationaryFingertip(t *testing.T) {
	// Sixteen identical points: all base-relative offsets are zero.
	h := NewPointHistory(HistoryLength)
	for i := 0; i < HistoryLength; i++ {
		h.Push(Point{X: 10, Y: 10})
	}

	vec, ok := MotionFeatures(h, 640, 480)
	if !ok {
		t.Fatal("expected ready with a full history")
	}
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("component %d = %f, want 0 for stationary fingertip", i, v)
		}
	}
}

func TestMotionFeatures_BaseRelativeScaling(t *testing.T) {
	h := NewPointHistory(HistoryLength)
	for i := 0; i < HistoryLength; i++ {
		h.Push(Point{X: 100 + 10*i, Y: 200 + 5*i})
	}

	vec, ok := MotionFeatures(h, 400, 100)
	if !ok {
		t.Fatal("expected ready with a full history")
	}

	// First point is the base: zero offset.
	if vec[0] != 0 || vec[1] != 0 {
		t.Errorf("base components = (%f, %f), want (0, 0)", vec[0], vec[1])
	}

	// Second point offset (10,5) scaled by width 400 and height 100.
	if math.Abs(vec[2]-0.025) > epsilon {
		t.Errorf("second X component = %f, want 0.025", vec[2])
	}
	if math.Abs(vec[3]-0.05) > epsilon {
		t.Errorf("second Y component = %f, want 0.05", vec[3])
	}
}

package gesture

// ShapeClassifier maps a static hand-shape feature vector to a class
// index. Implementations are synchronous pure functions: no I/O, no
// suspension points, no error path. Out-of-range indices are tolerated
// downstream and mapped to LabelUnknown.
type ShapeClassifier interface {
	Classify(vec StaticVector) int
}

// MotionClassifier maps a fingertip motion feature vector to a class
// index under the same contract as ShapeClassifier.
type MotionClassifier interface {
	Classify(vec MotionVector) int
}

// ShapeClassifierFunc adapts a plain function to the ShapeClassifier interface.
type ShapeClassifierFunc func(vec StaticVector) int

// Classify calls f(vec).
func (f ShapeClassifierFunc) Classify(vec StaticVector) int { return f(vec) }

// MotionClassifierFunc adapts a plain function to the MotionClassifier interface.
type MotionClassifierFunc func(vec MotionVector) int

// Classify calls f(vec).
func (f MotionClassifierFunc) Classify(vec MotionVector) int { return f(vec) }

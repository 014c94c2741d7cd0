package gesture

import (
	"errors"
	"sync"

	"github.com/ayusman/mudra/internal/detector"
)

// ErrNoClassifier is returned by New when a classifier is missing. There
// is no safe fallback output for an unconfigured classifier, so this is a
// hard construction-time failure rather than a per-frame sentinel.
var ErrNoClassifier = errors.New("classifier not configured")

// Frame is one frame's worth of detector output for a session.
type Frame struct {
	Width  int
	Height int
	Hands  []detector.Hand
}

// Result is the recognition outcome for one hand in one frame. It is
// created fresh per frame and never mutated after construction.
type Result struct {
	ShapeID     int          `json:"shape_id"`
	ShapeLabel  string       `json:"shape_label"`
	MotionID    int          `json:"motion_id"`
	MotionLabel string       `json:"motion_label"`
	Handedness  string       `json:"handedness"`
	Rect        BoundingRect `json:"bounding_rect"`
	Landmarks   LandmarkSet  `json:"landmarks"`
}

// Config holds the classifiers and label lists a Recognizer dispatches to.
type Config struct {
	Shape        ShapeClassifier
	Motion       MotionClassifier
	ShapeLabels  LabelSet
	MotionLabels LabelSet
}

// Recognizer runs the per-frame recognition pipeline and owns the
// fingertip point histories for every tracked session+hand. Histories are
// keyed so that no two sessions, and no two hands within a session, ever
// share a buffer.
type Recognizer struct {
	config Config

	mu        sync.Mutex
	histories map[string]map[string]*PointHistory // session -> handedness -> history
}

// New creates a Recognizer. Both classifiers must be configured.
func New(config Config) (*Recognizer, error) {
	if config.Shape == nil || config.Motion == nil {
		return nil, ErrNoClassifier
	}

	return &Recognizer{
		config:    config,
		histories: make(map[string]map[string]*PointHistory),
	}, nil
}

// ShapeLabels returns the ordered shape label list.
func (r *Recognizer) ShapeLabels() LabelSet { return r.config.ShapeLabels }

// MotionLabels returns the ordered motion label list.
func (r *Recognizer) MotionLabels() LabelSet { return r.config.MotionLabels }

// Process runs one frame through the pipeline for the given session and
// returns one Result per detected hand.
//
// For each hand: project to pixel space, classify the static shape, push
// the index fingertip into that hand's history, and classify the motion
// window once the history is full. Hands absent from the frame have their
// histories reset, so a hand that reappears starts a fresh trajectory.
func (r *Recognizer) Process(sessionID string, frame Frame) []Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := r.histories[sessionID]
	if session == nil {
		session = make(map[string]*PointHistory)
		r.histories[sessionID] = session
	}

	seen := make(map[string]bool, len(frame.Hands))
	results := make([]Result, 0, len(frame.Hands))

	for i := range frame.Hands {
		hand := &frame.Hands[i]

		landmarks, err := ProjectHand(hand, frame.Width, frame.Height)
		if err != nil {
			// Malformed frame geometry: drop this hand, leave others alone.
			continue
		}

		shapeVec := StaticFeatures(landmarks)
		shapeID := r.config.Shape.Classify(shapeVec)

		history := session[hand.Handedness]
		if history == nil {
			history = NewPointHistory(HistoryLength)
			session[hand.Handedness] = history
		}
		history.Push(landmarks[detector.IndexTip])
		seen[hand.Handedness] = true

		motionID := -1
		motionLabel := LabelNoMotion
		if motionVec, ok := MotionFeatures(history, frame.Width, frame.Height); ok {
			motionID = r.config.Motion.Classify(motionVec)
			motionLabel = r.config.MotionLabels.Lookup(motionID)
		}

		results = append(results, Result{
			ShapeID:     shapeID,
			ShapeLabel:  r.config.ShapeLabels.Lookup(shapeID),
			MotionID:    motionID,
			MotionLabel: motionLabel,
			Handedness:  hand.Handedness,
			Rect:        landmarks.Bounds(),
			Landmarks:   landmarks,
		})
	}

	// Tracking continuity broke for any hand not seen this frame.
	for handedness, history := range session {
		if !seen[handedness] {
			history.Reset()
		}
	}

	return results
}

// HistoryLen reports the current history length for a session+hand.
// Intended for diagnostics and tests.
func (r *Recognizer) HistoryLen(sessionID, handedness string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session := r.histories[sessionID]; session != nil {
		if history := session[handedness]; history != nil {
			return history.Len()
		}
	}
	return 0
}

// DropSession discards all histories owned by a session. Dropping a
// session that was never seen is a no-op.
func (r *Recognizer) DropSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.histories, sessionID)
}

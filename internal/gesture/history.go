package gesture

// HistoryLength is the number of tracked fingertip points kept per hand.
// The motion classifier is trained on exactly this window size.
const HistoryLength = 16

// PointHistory is a bounded FIFO of the tracked fingertip point across
// recent frames. Insertion order defines temporal order; the oldest point
// is evicted once the buffer is full. One PointHistory exists per tracked
// session+hand and is never shared.
type PointHistory struct {
	points   []Point
	capacity int
}

// NewPointHistory creates a PointHistory with the given capacity.
// Capacities below 1 fall back to HistoryLength.
func NewPointHistory(capacity int) *PointHistory {
	if capacity < 1 {
		capacity = HistoryLength
	}
	return &PointHistory{
		points:   make([]Point, 0, capacity),
		capacity: capacity,
	}
}

// Push appends a point, evicting the oldest point when the buffer is full.
func (h *PointHistory) Push(p Point) {
	if len(h.points) >= h.capacity {
		copy(h.points, h.points[1:])
		h.points = h.points[:h.capacity-1]
	}
	h.points = append(h.points, p)
}

// Points returns the held points, oldest first. The returned slice is the
// buffer's backing storage and must not be retained across Push calls.
func (h *PointHistory) Points() []Point {
	return h.points
}

// Len returns the number of points currently held.
func (h *PointHistory) Len() int {
	return len(h.points)
}

// Full reports whether the buffer has reached capacity.
func (h *PointHistory) Full() bool {
	return len(h.points) == h.capacity
}

// Reset empties the buffer. Called when tracking continuity breaks: the
// hand disappeared from detection or the session ended.
func (h *PointHistory) Reset() {
	h.points = h.points[:0]
}

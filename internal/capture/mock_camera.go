package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera is a test double that plays back a fixed sequence of frames.
type MockCamera struct {
	mu      sync.Mutex
	frames  []gocv.Mat
	index   int
	open    bool
	fps     int
	loop    bool
	readErr error
}

// NewMockCamera creates a mock camera with no frames loaded.
func NewMockCamera() *MockCamera {
	return &MockCamera{fps: DefaultFPS, loop: true}
}

// SetFrames replaces the playback sequence. The mock takes ownership of
// the mats and closes them when it is closed.
func (m *MockCamera) SetFrames(frames []gocv.Mat) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.frames {
		m.frames[i].Close()
	}
	m.frames = frames
	m.index = 0
}

// SetLoop controls whether playback wraps around after the last frame.
func (m *MockCamera) SetLoop(loop bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loop = loop
}

// SetReadError makes the next ReadFrame calls return err.
func (m *MockCamera) SetReadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// Reset rewinds playback to the first frame.
func (m *MockCamera) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = 0
}

func (m *MockCamera) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = true
	return nil
}

func (m *MockCamera) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.open = false
	for i := range m.frames {
		m.frames[i].Close()
	}
	m.frames = nil
	m.index = 0
	return nil
}

// ReadFrame returns a clone of the next frame in the sequence.
func (m *MockCamera) ReadFrame() (*gocv.Mat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return nil, ErrCameraNotOpen
	}
	if m.readErr != nil {
		return nil, m.readErr
	}
	if len(m.frames) == 0 {
		return nil, ErrCameraNotOpen
	}

	if m.index >= len(m.frames) {
		if !m.loop {
			return nil, ErrCameraNotOpen
		}
		m.index = 0
	}

	frame := m.frames[m.index].Clone()
	m.index++
	return &frame, nil
}

func (m *MockCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fps = fps
}

func (m *MockCamera) FPS() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fps
}

func (m *MockCamera) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestMockCamera_OpenClose(t *testing.T) {
	cam := NewMockCamera()

	if cam.IsOpen() {
		t.Error("mock camera should not be open initially")
	}

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	if err := cam.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}

func TestMockCamera_ReadFrame_NotOpen(t *testing.T) {
	cam := NewMockCamera()

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() on closed mock = %v, want ErrCameraNotOpen", err)
	}
}

func TestMockCamera_Playback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	cam := NewMockCamera()
	defer cam.Close()

	frames := []gocv.Mat{
		gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3),
		gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3),
	}
	cam.SetFrames(frames)

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	first, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() failed: %v", err)
	}
	if first.Rows() != 480 || first.Cols() != 640 {
		t.Errorf("first frame = %dx%d, want 640x480", first.Cols(), first.Rows())
	}
	first.Close()

	second, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() failed: %v", err)
	}
	if second.Rows() != 240 || second.Cols() != 320 {
		t.Errorf("second frame = %dx%d, want 320x240", second.Cols(), second.Rows())
	}
	second.Close()

	// Loop wraps back to the first frame
	third, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() failed: %v", err)
	}
	if third.Rows() != 480 {
		t.Errorf("looped frame rows = %d, want 480", third.Rows())
	}
	third.Close()
}

func TestMockCamera_NoLoop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	cam := NewMockCamera()
	defer cam.Close()
	cam.SetLoop(false)
	cam.SetFrames([]gocv.Mat{gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)})

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	frame, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() failed: %v", err)
	}
	frame.Close()

	if _, err := cam.ReadFrame(); err == nil {
		t.Error("ReadFrame() past end without loop should fail")
	}
}

func TestMockCamera_ReadError(t *testing.T) {
	cam := NewMockCamera()
	defer cam.Close()

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	wantErr := errors.New("device gone")
	cam.SetReadError(wantErr)

	if _, err := cam.ReadFrame(); !errors.Is(err, wantErr) {
		t.Errorf("ReadFrame() = %v, want injected error", err)
	}
}

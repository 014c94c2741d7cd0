// Package app wires the capture, detection and recognition components
// into the long-running Mudra service.
package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active recognition.
	ActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds without motion before
	// switching back to idle mode.
	IdleTimeoutMs = 2000
	// ActionCooldown is the minimum interval between repeated plugin
	// triggers for the same shape label.
	ActionCooldown = 2 * time.Second
)

// CameraSession is the well-known session id used by the local camera
// pipeline. API clients use their own ids and never share fingertip
// history with the camera.
const CameraSession = "camera"

// Broadcaster receives recognition results for fan-out to clients.
type Broadcaster interface {
	Broadcast(sessionID string, results []gesture.Result)
}

// Publisher pushes recognition results to an external consumer.
type Publisher interface {
	Publish(ctx context.Context, sessionID string, result gesture.Result)
}

// Config holds configuration options for the application.
type Config struct {
	Store           *store.Store
	Recognizer      *gesture.Recognizer
	Camera          capture.Camera    // optional, defaults to the local camera device
	Detector        detector.Detector // optional, defaults to MediaPipe with mock fallback
	Publisher       Publisher         // optional
	Broadcaster     Broadcaster       // optional
	CameraID        int
	MotionThresh    float64
	PluginDir       string
	PluginTimeoutMs int
	DetectorConfig  detector.Config
}

// App orchestrates the camera pipeline, recognition and action execution.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	recognizer *gesture.Recognizer
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}

	lastFired map[string]time.Time // shape label -> last trigger time
}

// New creates a new App instance with the given configuration.
// Config.Recognizer must be set.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}

	timeoutMs := config.PluginTimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = 5000
	}

	a := &App{
		config:     config,
		camera:     config.Camera,
		motion:     capture.NewMotionDetector(motionThreshold),
		detector:   config.Detector,
		recognizer: config.Recognizer,
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(timeoutMs),
		lastFired:  make(map[string]time.Time),
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(config.CameraID)
	}

	if a.detector == nil {
		detCfg := config.DetectorConfig
		if detCfg.MaxHands == 0 {
			detCfg = detector.DefaultConfig()
		}
		if mp, err := detector.NewMediaPipeDetector(detCfg); err == nil {
			a.detector = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			a.detector = detector.NewMockDetector()
		}
	}

	return a
}

// SetEnabled enables or disables gesture recognition.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture recognition is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Recognition pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	a.recognizer.DropSession(CameraSession)

	log.Println("Recognition pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Recognizer returns the gesture recognizer.
func (a *App) Recognizer() *gesture.Recognizer {
	return a.recognizer
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

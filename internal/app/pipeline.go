package app

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// runPipeline is the main recognition loop. It manages transitions
// between idle and active modes based on motion detection.
//
// Pipeline logic:
// 1. Start in idle mode (IdleFPS)
// 2. On motion detected, switch to active mode (ActiveFPS)
// 3. Run hand detection and the recognition pipeline
// 4. Persist, publish and broadcast results, trigger bound actions
// 5. After 2s without motion, switch back to idle mode
func (a *App) runPipeline(stopCh <-chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	// Shape label last recorded per handedness, for edge-triggered
	// event persistence
	lastShape := make(map[string]string)

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					a.recognizer.DropSession(CameraSession)
					lastShape = make(map[string]string)
					log.Println("Switched to idle mode")
				}
			}

			if !activeMode || a.detector == nil {
				frame.Close()
				continue
			}

			width := frame.Cols()
			height := frame.Rows()

			hands, err := a.detector.Detect(frame)
			frame.Close()

			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			results := a.recognizer.Process(CameraSession, gesture.Frame{
				Width:  width,
				Height: height,
				Hands:  hands,
			})

			if len(results) > 0 {
				a.handleResults(results, lastShape)
			}
		}
	}
}

// handleResults persists, publishes and broadcasts one frame's results
// and triggers any bound plugin actions.
func (a *App) handleResults(results []gesture.Result, lastShape map[string]string) {
	for i := range results {
		result := &results[i]

		if a.config.Publisher != nil {
			a.config.Publisher.Publish(context.Background(), CameraSession, *result)
		}

		// Record events edge-triggered: only when a hand's shape
		// changes, so a held pose produces one event rather than
		// fifteen per second.
		if result.ShapeLabel != lastShape[result.Handedness] {
			lastShape[result.Handedness] = result.ShapeLabel
			a.recordEvent(result)

			if result.ShapeLabel != gesture.LabelUnknown {
				a.executeAction(result)
			}
		}
	}

	if a.config.Broadcaster != nil {
		a.config.Broadcaster.Broadcast(CameraSession, results)
	}
}

// recordEvent persists a recognition result to the event log.
func (a *App) recordEvent(result *gesture.Result) {
	if a.config.Store == nil {
		return
	}

	event := &store.Event{
		ID:          uuid.New().String(),
		SessionID:   CameraSession,
		Handedness:  result.Handedness,
		ShapeLabel:  result.ShapeLabel,
		MotionLabel: result.MotionLabel,
		XMin:        result.Rect.MinX,
		YMin:        result.Rect.MinY,
		XMax:        result.Rect.MaxX,
		YMax:        result.Rect.MaxY,
	}

	if err := a.config.Store.Events().Create(event); err != nil {
		log.Printf("Failed to record event: %v", err)
	}
}

// executeAction looks up the action bound to a shape label and runs the
// plugin it names. Repeated triggers for the same label are rate
// limited by ActionCooldown.
func (a *App) executeAction(result *gesture.Result) {
	if a.config.Store == nil {
		return
	}

	a.mu.Lock()
	if last, ok := a.lastFired[result.ShapeLabel]; ok && time.Since(last) < ActionCooldown {
		a.mu.Unlock()
		return
	}
	a.lastFired[result.ShapeLabel] = time.Now()
	a.mu.Unlock()

	action, err := a.config.Store.Actions().GetByShapeLabel(result.ShapeLabel)
	if err != nil {
		log.Printf("Failed to look up action for %s: %v", result.ShapeLabel, err)
		return
	}
	if action == nil {
		return // No binding for this label
	}

	p, err := a.pluginMgr.Get(action.PluginName)
	if err != nil {
		log.Printf("Plugin %s not found for action %s", action.PluginName, action.ID)
		return
	}

	req := &plugin.Request{
		Action:     action.ActionName,
		Shape:      result.ShapeLabel,
		Motion:     result.MotionLabel,
		Handedness: result.Handedness,
		Config:     action.Config,
	}

	resp, err := a.pluginExec.Execute(p, req)
	if err != nil {
		log.Printf("Plugin %s execution failed: %v", action.PluginName, err)
		return
	}
	if !resp.Success {
		log.Printf("Plugin %s reported failure: %s", action.PluginName, resp.Error)
		return
	}

	log.Printf("Executed %s/%s for gesture %s", action.PluginName, action.ActionName, result.ShapeLabel)
}

package e2e

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

func newRecognizer(t *testing.T) *gesture.Recognizer {
	t.Helper()

	r, err := gesture.New(gesture.Config{
		Shape:        gesture.ShapeClassifierFunc(func(gesture.StaticVector) int { return 2 }),
		Motion:       gesture.MotionClassifierFunc(func(gesture.MotionVector) int { return 3 }),
		ShapeLabels:  gesture.NewLabelSet(gesture.DefaultShapeLabels),
		MotionLabels: gesture.NewLabelSet(gesture.DefaultMotionLabels),
	})
	if err != nil {
		t.Fatalf("gesture.New() error = %v", err)
	}
	return r
}

func encodeFrame(t *testing.T) string {
	t.Helper()

	mat := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer mat.Close()

	buf, err := gocv.IMEncode(".jpg", mat)
	if err != nil {
		t.Fatalf("IMEncode failed: %v", err)
	}
	defer buf.Close()

	return base64.StdEncoding.EncodeToString(buf.GetBytes())
}

func TestE2E_RecognitionWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	if err := s.Labels().Replace(store.LabelKindShape, gesture.DefaultShapeLabels); err != nil {
		t.Fatalf("failed to seed labels: %v", err)
	}
	if err := s.Labels().Replace(store.LabelKindMotion, gesture.DefaultMotionLabels); err != nil {
		t.Fatalf("failed to seed labels: %v", err)
	}

	mockDetector := detector.NewMockDetector()
	mockDetector.SetHands([]detector.Hand{detector.PointingHand()})

	recognizer := newRecognizer(t)

	srv := server.New(server.Config{
		Store:      s,
		Detector:   mockDetector,
		Recognizer: recognizer,
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()
	image := encodeFrame(t)

	var sessionID string

	t.Run("CreateSession", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/sessions", "application/json", nil)
		if err != nil {
			t.Fatalf("create session error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}

		var created struct {
			SessionID string `json:"session_id"`
		}
		json.NewDecoder(resp.Body).Decode(&created)
		if created.SessionID == "" {
			t.Fatal("session_id is empty")
		}
		sessionID = created.SessionID
	})

	t.Run("RecognizeShape", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"session_id": sessionID, "image": image})
		resp, err := client.Post(ts.URL+"/api/recognize", "application/json", strings.NewReader(string(body)))
		if err != nil {
			t.Fatalf("recognize error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var recognized struct {
			Results []gesture.Result `json:"results"`
		}
		json.NewDecoder(resp.Body).Decode(&recognized)

		if len(recognized.Results) != 1 {
			t.Fatalf("len(results) = %d, want 1", len(recognized.Results))
		}
		if recognized.Results[0].ShapeLabel != "Pointer" {
			t.Errorf("shape = %s, want Pointer", recognized.Results[0].ShapeLabel)
		}
		if recognized.Results[0].MotionLabel != gesture.LabelNoMotion {
			t.Errorf("motion after one frame = %s, want %s",
				recognized.Results[0].MotionLabel, gesture.LabelNoMotion)
		}
	})

	t.Run("MotionAfterFullHistory", func(t *testing.T) {
		// Submit enough frames to fill the fingertip history window
		body, _ := json.Marshal(map[string]string{"session_id": sessionID, "image": image})

		var last struct {
			Results []gesture.Result `json:"results"`
		}
		for i := 0; i < gesture.HistoryLength; i++ {
			resp, err := client.Post(ts.URL+"/api/recognize", "application/json", strings.NewReader(string(body)))
			if err != nil {
				t.Fatalf("recognize error = %v", err)
			}
			last.Results = nil
			json.NewDecoder(resp.Body).Decode(&last)
			resp.Body.Close()
		}

		if len(last.Results) != 1 {
			t.Fatalf("len(results) = %d, want 1", len(last.Results))
		}
		if last.Results[0].MotionLabel != "Move" {
			t.Errorf("motion with full history = %s, want Move", last.Results[0].MotionLabel)
		}
	})

	t.Run("LabelsEndpoint", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/labels")
		if err != nil {
			t.Fatalf("labels error = %v", err)
		}
		defer resp.Body.Close()

		var labels struct {
			Shape  []string `json:"shape"`
			Motion []string `json:"motion"`
		}
		json.NewDecoder(resp.Body).Decode(&labels)

		if len(labels.Shape) != 4 || labels.Shape[2] != "Pointer" {
			t.Errorf("shape labels = %v", labels.Shape)
		}
		if len(labels.Motion) != 4 || labels.Motion[3] != "Move" {
			t.Errorf("motion labels = %v", labels.Motion)
		}
	})

	t.Run("DropSession", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/sessions/"+sessionID, nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("drop session error = %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
		}

		// History is gone: the next frame reports no motion again
		body, _ := json.Marshal(map[string]string{"session_id": sessionID, "image": image})
		resp, err = client.Post(ts.URL+"/api/recognize", "application/json", strings.NewReader(string(body)))
		if err != nil {
			t.Fatalf("recognize error = %v", err)
		}
		defer resp.Body.Close()

		var recognized struct {
			Results []gesture.Result `json:"results"`
		}
		json.NewDecoder(resp.Body).Decode(&recognized)

		if len(recognized.Results) != 1 || recognized.Results[0].MotionLabel != gesture.LabelNoMotion {
			t.Errorf("expected fresh session to report %s, got %+v", gesture.LabelNoMotion, recognized.Results)
		}
	})

	t.Run("HealthStillWorks", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("health error = %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Error("health check failed after recognition operations")
		}
	})
}

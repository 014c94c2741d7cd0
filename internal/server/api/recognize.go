package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// RecognizeHandler runs the recognition pipeline on a client-supplied
// frame. The frame is either a base64 image to run the server-side
// detector on, or pre-detected normalized landmarks plus the image
// dimensions they were detected in.
type RecognizeHandler struct {
	detector   detector.Detector
	recognizer *gesture.Recognizer
}

// NewRecognizeHandler creates a new RecognizeHandler.
func NewRecognizeHandler(d detector.Detector, r *gesture.Recognizer) *RecognizeHandler {
	return &RecognizeHandler{detector: d, recognizer: r}
}

type recognizeRequest struct {
	SessionID string `json:"session_id"`
	// Image is a base64-encoded JPEG or PNG frame.
	Image string `json:"image,omitempty"`
	// Hands carries externally detected landmarks instead of an image.
	// Width and Height are the dimensions of the source image the
	// normalized coordinates refer to.
	Hands  []recognizeHand `json:"hands,omitempty"`
	Width  int             `json:"width,omitempty"`
	Height int             `json:"height,omitempty"`
}

type recognizeHand struct {
	Points     []detector.Point3D `json:"points"`
	Handedness string             `json:"handedness"`
	Score      float64            `json:"score"`
}

type recognizeResponse struct {
	SessionID string           `json:"session_id"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Results   []gesture.Result `json:"results"`
}

// ServeHTTP handles POST /api/recognize.
//
// Repeated calls with the same session_id accumulate fingertip history,
// so motion classification becomes available once enough frames of the
// same session have been submitted. Omitting session_id starts a new
// session whose id is returned in the response.
func (h *RecognizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req recognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	switch {
	case req.Image != "" && len(req.Hands) > 0:
		writeError(w, http.StatusBadRequest, "Provide either image or hands, not both")
	case req.Image != "":
		h.recognizeImage(w, sessionID, &req)
	case len(req.Hands) > 0:
		h.recognizeLandmarks(w, sessionID, &req)
	default:
		writeError(w, http.StatusBadRequest, "Image or hands is required")
	}
}

func (h *RecognizeHandler) recognizeImage(w http.ResponseWriter, sessionID string, req *recognizeRequest) {
	imgBytes, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Image must be base64 encoded")
		return
	}

	mat, err := gocv.IMDecode(imgBytes, gocv.IMReadColor)
	if err != nil || mat.Empty() {
		if err == nil {
			mat.Close()
		}
		writeError(w, http.StatusBadRequest, "Image could not be decoded")
		return
	}
	defer mat.Close()

	hands, err := h.detector.Detect(&mat)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Hand detection failed")
		return
	}

	results := h.recognizer.Process(sessionID, gesture.Frame{
		Width:  mat.Cols(),
		Height: mat.Rows(),
		Hands:  hands,
	})

	writeJSON(w, http.StatusOK, recognizeResponse{
		SessionID: sessionID,
		Width:     mat.Cols(),
		Height:    mat.Rows(),
		Results:   results,
	})
}

func (h *RecognizeHandler) recognizeLandmarks(w http.ResponseWriter, sessionID string, req *recognizeRequest) {
	hands := make([]detector.Hand, 0, len(req.Hands))
	for i, rh := range req.Hands {
		// Validate geometry before anything reaches the pipeline. A
		// projection failure here pins down which submitted hand was bad.
		if _, err := gesture.ProjectPoints(rh.Points, req.Width, req.Height); err != nil {
			if errors.Is(err, gesture.ErrBadDimensions) {
				writeError(w, http.StatusBadRequest, "Width and height must be positive")
				return
			}
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("Hand %d has %d landmarks, want %d", i, len(rh.Points), detector.NumLandmarks))
			return
		}

		hand, ok := detector.HandFromSlice(rh.Points, rh.Handedness, rh.Score)
		if !ok {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("Hand %d has %d landmarks, want %d", i, len(rh.Points), detector.NumLandmarks))
			return
		}
		hands = append(hands, hand)
	}

	results := h.recognizer.Process(sessionID, gesture.Frame{
		Width:  req.Width,
		Height: req.Height,
		Hands:  hands,
	})

	writeJSON(w, http.StatusOK, recognizeResponse{
		SessionID: sessionID,
		Width:     req.Width,
		Height:    req.Height,
		Results:   results,
	})
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// SamplesHandler manages recorded training samples.
type SamplesHandler struct {
	store *store.Store
}

// NewSamplesHandler creates a new SamplesHandler with the given store.
func NewSamplesHandler(s *store.Store) *SamplesHandler {
	return &SamplesHandler{store: s}
}

type createSampleRequest struct {
	Kind       string `json:"kind"`
	LabelIndex int    `json:"label_index"`
	// Vector is a pre-computed feature vector, recorded as-is.
	Vector []float64 `json:"vector,omitempty"`
	// Landmarks plus image dimensions record a shape sample from raw
	// detector output; the feature vector is computed server-side.
	Landmarks []detector.Point3D `json:"landmarks,omitempty"`
	// Points plus image dimensions record a motion sample from a full
	// fingertip trajectory in pixel space.
	Points []gesture.Point `json:"points,omitempty"`
	Width  int             `json:"width,omitempty"`
	Height int             `json:"height,omitempty"`
}

type listSamplesResponse struct {
	Samples []store.Sample `json:"samples"`
	Count   int            `json:"count"`
}

// ServeHTTP routes /api/samples requests.
func (h *SamplesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// sampleKind validates the kind query or body field.
func sampleKind(raw string) (store.LabelKind, bool) {
	kind := store.LabelKind(raw)
	if kind != store.LabelKindShape && kind != store.LabelKindMotion {
		return "", false
	}
	return kind, true
}

// create handles POST /api/samples and records one feature vector.
// Clients either submit raw landmarks (shape) or a fingertip
// trajectory (motion) and have the vector computed here with the same
// normalization the live pipeline applies, or submit a pre-computed
// vector whose length must match the feature size for its kind.
func (h *SamplesHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	kind, ok := sampleKind(req.Kind)
	if !ok {
		writeError(w, http.StatusBadRequest, "Kind must be 'shape' or 'motion'")
		return
	}
	if req.LabelIndex < 0 {
		writeError(w, http.StatusBadRequest, "Label index must not be negative")
		return
	}

	vector, errMsg := sampleVector(kind, &req)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	sample := &store.Sample{
		Kind:       kind,
		LabelIndex: req.LabelIndex,
		Vector:     vector,
	}
	if err := h.store.Samples().Create(sample); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create sample")
		return
	}

	writeJSON(w, http.StatusCreated, sample)
}

// sampleVector resolves the feature vector for a create request,
// computing it from raw geometry when no pre-computed vector is given.
// It returns a non-empty message on validation failure.
func sampleVector(kind store.LabelKind, req *createSampleRequest) ([]float64, string) {
	if len(req.Vector) > 0 {
		want := gesture.StaticVectorSize
		if kind == store.LabelKindMotion {
			want = gesture.MotionVectorSize
		}
		if len(req.Vector) != want {
			return nil, "Vector has the wrong length for its kind"
		}
		return req.Vector, ""
	}

	switch kind {
	case store.LabelKindShape:
		if len(req.Landmarks) == 0 {
			return nil, "Shape samples need a vector or landmarks"
		}
		landmarks, err := gesture.ProjectPoints(req.Landmarks, req.Width, req.Height)
		if err != nil {
			return nil, "Landmarks must be 21 points with positive width and height"
		}
		vec := gesture.StaticFeatures(landmarks)
		return vec[:], ""

	default: // store.LabelKindMotion
		if len(req.Points) != gesture.HistoryLength {
			return nil, fmt.Sprintf("Motion samples need a vector or exactly %d points", gesture.HistoryLength)
		}
		history := gesture.NewPointHistory(gesture.HistoryLength)
		for _, p := range req.Points {
			history.Push(p)
		}
		vec, ok := gesture.MotionFeatures(history, req.Width, req.Height)
		if !ok {
			return nil, "Width and height must be positive"
		}
		return vec[:], ""
	}
}

// list handles GET /api/samples?kind={kind}&label_index={n}.
func (h *SamplesHandler) list(w http.ResponseWriter, r *http.Request) {
	kind, ok := sampleKind(r.URL.Query().Get("kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Query parameter 'kind' must be 'shape' or 'motion'")
		return
	}

	var (
		samples []store.Sample
		err     error
	)
	if raw := r.URL.Query().Get("label_index"); raw != "" {
		labelIndex, convErr := strconv.Atoi(raw)
		if convErr != nil || labelIndex < 0 {
			writeError(w, http.StatusBadRequest, "Invalid label_index")
			return
		}
		samples, err = h.store.Samples().ListByLabel(kind, labelIndex)
	} else {
		samples, err = h.store.Samples().ListByKind(kind)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list samples")
		return
	}

	writeJSON(w, http.StatusOK, listSamplesResponse{Samples: samples, Count: len(samples)})
}

// delete handles DELETE /api/samples?kind={kind}&label_index={n} and
// removes all samples recorded for one label.
func (h *SamplesHandler) delete(w http.ResponseWriter, r *http.Request) {
	kind, ok := sampleKind(r.URL.Query().Get("kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Query parameter 'kind' must be 'shape' or 'motion'")
		return
	}

	labelIndex, err := strconv.Atoi(r.URL.Query().Get("label_index"))
	if err != nil || labelIndex < 0 {
		writeError(w, http.StatusBadRequest, "Invalid label_index")
		return
	}

	if err := h.store.Samples().DeleteByLabel(kind, labelIndex); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete samples")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/mudra/internal/store"
)

// LabelsHandler serves the shape and motion label lists.
type LabelsHandler struct {
	store *store.Store
}

// NewLabelsHandler creates a new LabelsHandler with the given store.
func NewLabelsHandler(s *store.Store) *LabelsHandler {
	return &LabelsHandler{store: s}
}

type labelsResponse struct {
	Shape  []string `json:"shape"`
	Motion []string `json:"motion"`
}

type replaceLabelsRequest struct {
	Kind   string   `json:"kind"`
	Labels []string `json:"labels"`
}

// ServeHTTP routes /api/labels requests.
func (h *LabelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPut:
		h.replace(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// list handles GET /api/labels and returns both ordered label lists.
func (h *LabelsHandler) list(w http.ResponseWriter, r *http.Request) {
	shape, err := h.store.Labels().List(store.LabelKindShape)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shape labels")
		return
	}

	motion, err := h.store.Labels().List(store.LabelKindMotion)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list motion labels")
		return
	}

	writeJSON(w, http.StatusOK, labelsResponse{Shape: shape, Motion: motion})
}

// replace handles PUT /api/labels and replaces one label list.
// Classifier output indices map positionally onto the stored order, so
// the whole list is replaced atomically rather than edited in place.
func (h *LabelsHandler) replace(w http.ResponseWriter, r *http.Request) {
	var req replaceLabelsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	kind := store.LabelKind(req.Kind)
	if kind != store.LabelKindShape && kind != store.LabelKindMotion {
		writeError(w, http.StatusBadRequest, "Kind must be 'shape' or 'motion'")
		return
	}
	if len(req.Labels) == 0 {
		writeError(w, http.StatusBadRequest, "Labels must not be empty")
		return
	}

	if err := h.store.Labels().Replace(kind, req.Labels); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to replace labels")
		return
	}

	h.list(w, r)
}

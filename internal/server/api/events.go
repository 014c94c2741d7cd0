package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/store"
)

// EventsHandler serves the recognition event log.
type EventsHandler struct {
	store *store.Store
}

// NewEventsHandler creates a new EventsHandler with the given store.
func NewEventsHandler(s *store.Store) *EventsHandler {
	return &EventsHandler{store: s}
}

type eventResponse struct {
	ID          string `json:"id"`
	SessionID   string `json:"session_id"`
	Handedness  string `json:"handedness"`
	ShapeLabel  string `json:"shape_label"`
	MotionLabel string `json:"motion_label"`
	XMin        int    `json:"x_min"`
	YMin        int    `json:"y_min"`
	XMax        int    `json:"x_max"`
	YMax        int    `json:"y_max"`
	CreatedAt   string `json:"created_at"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
}

type pruneEventsResponse struct {
	Pruned int64 `json:"pruned"`
}

func eventToResponse(e *store.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		SessionID:   e.SessionID,
		Handedness:  e.Handedness,
		ShapeLabel:  e.ShapeLabel,
		MotionLabel: e.MotionLabel,
		XMin:        e.XMin,
		YMin:        e.YMin,
		XMax:        e.XMax,
		YMax:        e.YMax,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}

// ServeHTTP routes /api/events requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/events")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodDelete:
			h.prune(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	h.get(w, r, path)
}

// list handles GET /api/events with optional session and limit query params.
func (h *EventsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	var (
		events []*store.Event
		err    error
	)
	if session := r.URL.Query().Get("session"); session != "" {
		events, err = h.store.Events().ListBySession(session, limit)
	} else {
		events, err = h.store.Events().ListRecent(limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	response := listEventsResponse{Events: make([]eventResponse, 0, len(events))}
	for _, e := range events {
		response.Events = append(response.Events, eventToResponse(e))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/events/{id}.
func (h *EventsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	event, err := h.store.Events().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get event")
		return
	}

	writeJSON(w, http.StatusOK, eventToResponse(event))
}

// prune handles DELETE /api/events?before={RFC3339} and removes old events.
func (h *EventsHandler) prune(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("before")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "Query parameter 'before' is required")
		return
	}

	cutoff, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid 'before' timestamp, expected RFC3339")
		return
	}

	pruned, err := h.store.Events().PruneBefore(cutoff)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to prune events")
		return
	}

	writeJSON(w, http.StatusOK, pruneEventsResponse{Pruned: pruned})
}

package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/gesture"
)

// SessionsHandler manages recognition sessions.
type SessionsHandler struct {
	recognizer *gesture.Recognizer
}

// NewSessionsHandler creates a new SessionsHandler.
func NewSessionsHandler(r *gesture.Recognizer) *SessionsHandler {
	return &SessionsHandler{recognizer: r}
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

// ServeHTTP routes /api/sessions requests.
// POST /api/sessions allocates a new session id; DELETE /api/sessions/{id}
// discards the session's fingertip histories.
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		writeJSON(w, http.StatusCreated, sessionResponse{SessionID: uuid.New().String()})
		return
	}

	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	h.recognizer.DropSession(path)
	w.WriteHeader(http.StatusNoContent)
}

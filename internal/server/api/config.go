package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/ayusman/mudra/internal/config"
)

// ConfigHandler exposes the service configuration over HTTP.
type ConfigHandler struct {
	mu       sync.RWMutex
	cfg      config.Config
	path     string
	onChange func(config.Config)
}

// NewConfigHandler creates a new ConfigHandler. The onChange callback is
// invoked after a successful update and may be nil. Changes to camera,
// detector or model settings take effect on restart.
func NewConfigHandler(cfg config.Config, path string, onChange func(config.Config)) *ConfigHandler {
	return &ConfigHandler{cfg: cfg, path: path, onChange: onChange}
}

// ServeHTTP routes /api/config requests.
func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.put(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// get handles GET /api/config.
func (h *ConfigHandler) get(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	cfg := h.cfg
	h.mu.RUnlock()

	writeJSON(w, http.StatusOK, cfg)
}

// put handles PUT /api/config. The body is a partial config document;
// absent fields keep their current values. The merged result is written
// back to disk.
func (h *ConfigHandler) put(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	updated := h.cfg
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if h.path != "" {
		if err := config.Save(h.path, updated); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save configuration")
			return
		}
	}

	h.cfg = updated
	if h.onChange != nil {
		h.onChange(updated)
	}

	writeJSON(w, http.StatusOK, updated)
}

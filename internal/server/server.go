// Package server provides the HTTP server for the Mudra gesture
// recognition service.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the server configuration. Nil components disable the
// routes that depend on them.
type Config struct {
	StaticDir  string
	Store      *store.Store
	Camera     capture.Camera
	Detector   detector.Detector
	Recognizer *gesture.Recognizer
	Plugins    *plugin.Manager
	Hub        *ResultsHub
	AppConfig  config.Config
	ConfigPath string
	OnConfig   func(config.Config)
}

// Server is the HTTP server for the Mudra application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		labelsHandler := api.NewLabelsHandler(s.config.Store)
		eventsHandler := api.NewEventsHandler(s.config.Store)
		samplesHandler := api.NewSamplesHandler(s.config.Store)
		actionsHandler := api.NewActionsHandler(s.config.Store, s.config.Plugins)

		s.mux.Handle("/api/labels", labelsHandler)
		s.mux.Handle("/api/events", eventsHandler)
		s.mux.Handle("/api/events/", eventsHandler)
		s.mux.Handle("/api/samples", samplesHandler)
		s.mux.Handle("/api/actions", actionsHandler)
		s.mux.Handle("/api/actions/", actionsHandler)
	}

	if s.config.Recognizer != nil {
		sessionsHandler := api.NewSessionsHandler(s.config.Recognizer)
		s.mux.Handle("/api/sessions", sessionsHandler)
		s.mux.Handle("/api/sessions/", sessionsHandler)

		if s.config.Detector != nil {
			recognizeHandler := api.NewRecognizeHandler(s.config.Detector, s.config.Recognizer)
			s.mux.Handle("/api/recognize", recognizeHandler)
		}
	}

	configHandler := api.NewConfigHandler(s.config.AppConfig, s.config.ConfigPath, s.config.OnConfig)
	s.mux.Handle("/api/config", configHandler)

	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera))
	}

	if s.config.Hub != nil {
		s.mux.Handle("/api/results", s.config.Hub)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status":           "ok",
		"uptime":           time.Since(s.start).String(),
		"classifier_ready": s.config.Recognizer != nil,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

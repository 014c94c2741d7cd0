package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/gesture"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ResultsHub broadcasts recognition results to WebSocket clients.
// The capture pipeline pushes into the hub; clients connected to
// /api/results receive one message per processed frame with hands.
type ResultsHub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewResultsHub creates an empty hub.
func NewResultsHub() *ResultsHub {
	return &ResultsHub{clients: make(map[*websocket.Conn]bool)}
}

// ResultsMessage is the wire format broadcast to clients.
type ResultsMessage struct {
	SessionID string           `json:"session_id"`
	Results   []gesture.Result `json:"results"`
	Timestamp int64            `json:"timestamp"`
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *ResultsHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep the connection alive by reading until the client goes away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Broadcast sends a batch of results to every connected client.
// It is a no-op with no clients, so the pipeline can call it per frame.
func (h *ResultsHub) Broadcast(sessionID string, results []gesture.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	msg := ResultsMessage{
		SessionID: sessionID,
		Results:   results,
		Timestamp: time.Now().UnixMilli(),
	}

	for conn := range h.clients {
		if err := conn.WriteJSON(msg); err != nil {
			// Dropped on the next read loop iteration
			continue
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *ResultsHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Package http handles the viewer WebSocket entry point.
package http

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	"github.com/frankieli/bingo_live/internal/modules/gateway/ws"
	"github.com/frankieli/bingo_live/pkg/logger"
)

// Handler handles WebSocket subscription requests
type Handler struct {
	manager  *ws.Manager
	notifier domain.Notifier
}

// NewHandler creates a new WebSocket handler. The notifier is used to
// push an initial snapshot to a freshly subscribed viewer.
func NewHandler(manager *ws.Manager, notifier domain.Notifier) *Handler {
	return &Handler{manager: manager, notifier: notifier}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Viewer screens are served from arbitrary origins
		return true
	},
}

// HandleWebSocket upgrades the connection and subscribes it to a game.
// Viewers are anonymous; no token is required.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WebSocketContext(r)

	gameID := r.URL.Query().Get("game_id")
	if gameID == "" {
		http.Error(w, "game_id is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("WebSocket upgrade failed")
		return
	}

	logger.Info(ctx).
		Str("game_id", gameID).
		Str("remote_addr", r.RemoteAddr).
		Msg("viewer subscribed")

	client := h.manager.Register(conn, gameID)

	go client.WritePump()
	go client.ReadPump()

	// Prime the new viewer with the current state so it renders without
	// waiting for the next host action
	h.notifier.GameStateChanged(ctx, gameID)
}

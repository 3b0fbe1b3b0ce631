package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"wordbomb/internal/app"
	"wordbomb/internal/config"
)

// Handler handles WebSocket connections
type Handler struct {
	registry *app.Registry
	cfg      config.GameConfig
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(registry *app.Registry, cfg config.GameConfig, logger *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		cfg:      cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development
				// In production, you should validate the origin
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests. A fresh connection carries
// no identity; the client issues create or join as its first meaningful
// message.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	h.logger.Debug("websocket connected", "remote", r.RemoteAddr)

	client := NewClient(conn, h.registry, h.cfg, h.logger)
	client.Run()
}

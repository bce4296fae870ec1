package telemetry

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"physbridge/internal/physics"

	"github.com/gorilla/websocket"
)

// WebSocketHub upgrades HTTP requests and writes every batch to each
// connection as a JSON text message.
type WebSocketHub struct {
	upgrader websocket.Upgrader
	log      *slog.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewWebSocketHub(logger *slog.Logger) *WebSocketHub {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log:   logger.With("component", "telemetry", "transport", "websocket"),
		conns: make(map[*websocket.Conn]struct{}),
	}
}

func (h *WebSocketHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	h.log.Info("telemetry client connected", "remote", conn.RemoteAddr())

	// The stream is one way; reading only notices when the client goes away.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()
}

func (h *WebSocketHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		conn.Close()
	}
}

// Len returns the number of connected clients.
func (h *WebSocketHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *WebSocketHub) Publish(batch physics.ResponseBatch) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(batch); err != nil {
			h.log.Info("dropping telemetry client", "remote", conn.RemoteAddr(), "err", err)
			delete(h.conns, conn)
			conn.Close()
		}
	}
	return nil
}

func (h *WebSocketHub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
	}
	clear(h.conns)
	return nil
}

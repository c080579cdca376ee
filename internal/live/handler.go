package live

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/goliatone/go-formbuilder/internal/service"
)

// Message is the envelope written to feed clients.
type Message struct {
	Type string         `json:"type"`
	Data *service.Event `json:"data,omitempty"`
}

// MessageReady is sent once the connection is subscribed.
const MessageReady = "ready"

// DefaultWriteTimeout bounds a single message write to a feed client.
const DefaultWriteTimeout = 10 * time.Second

// Handler streams hub events over a websocket. Authorization happens before
// the request reaches it.
type Handler struct {
	hub          *Hub
	origins      []string
	logger       *slog.Logger
	writeTimeout time.Duration
}

// NewHandler builds a feed handler. origins are passed to the websocket
// origin check; empty means same origin only.
func NewHandler(hub *Hub, origins []string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{hub: hub, origins: origins, logger: logger, writeTimeout: DefaultWriteTimeout}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// the feed outlives the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.origins})
	if err != nil {
		h.logger.Warn("live: websocket accept", "error", err)
		return
	}
	defer conn.CloseNow()

	events, cancel := h.hub.Subscribe()
	defer cancel()

	// the feed is write only; CloseRead handles control frames and cancels
	// ctx once the client goes away.
	ctx := conn.CloseRead(r.Context())
	if err := h.write(ctx, conn, Message{Type: MessageReady}); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := h.write(ctx, conn, Message{Type: event.Type, Data: &event}); err != nil {
				if websocket.CloseStatus(err) == -1 {
					h.logger.Warn("live: write", "error", err)
				}
				return
			}
		}
	}
}

// write gives up on clients that stop reading; a timed out write closes
// the connection.
func (h *Handler) write(ctx context.Context, conn *websocket.Conn, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, h.writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, msg)
}

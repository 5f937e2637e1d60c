package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"timekeeper/internal/hub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms
)

// Upgrader for HTTP -> WebSocket. Widgets are served from any local origin.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Widget stream
// @Description  WebSocket. Pushes state, clock, notification, title and permission_request envelopes; accepts focus, blur, visibility and permission messages. Clock interval via ?interval=500ms or ?interval_ms=500.
// @Tags         state
// @Param        interval     query  string  false  "Clock push interval (Go duration, max 10s)"
// @Param        interval_ms  query  int     false  "Clock push interval in milliseconds"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)
	ctx := c.Request.Context()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	client := h.hub.Register()
	defer h.hub.Unregister(client)

	// Reader goroutine applies client messages and detects disconnects.
	done := make(chan struct{})
	rejected := make(chan string, 1)
	go h.startReader(ctx, conn, client, done, rejected)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	// Send the full state immediately.
	if err := writeEnvelope(conn, hub.Envelope{Type: hub.TypeState, Data: h.snapshot()}); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		var env hub.Envelope
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case msg, ok := <-client.Messages():
			if !ok {
				// dropped by the hub
				return
			}
			env = msg
		case reason := <-rejected:
			env = hub.Envelope{Type: hub.TypeError, Error: reason}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
			continue
		case <-ticker.C:
			env = hub.Envelope{Type: hub.TypeClock, Data: h.services.ClockFace.Now()}
		}
		if err := writeEnvelope(conn, env); err != nil {
			if h.log != nil {
				h.log.Infow("ws_write_failed", "type", env.Type, "err", err)
			}
			return
		}
	}
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return interval
}

// Helper: startReader applies incoming client messages until the connection closes.
// A rejected message is reported back to the writer loop, never fatal.
func (h *Handler) startReader(ctx context.Context, conn *websocket.Conn, client *hub.Client, done chan<- struct{}, rejected chan<- string) {
	defer close(done)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
		if err := h.hub.Handle(ctx, client, raw); err != nil {
			if h.log != nil {
				h.log.Infow("ws_client_message_rejected", "err", err)
			}
			select {
			case rejected <- err.Error():
			default:
			}
		}
	}
}

// Helper: writeEnvelope writes one envelope with a write deadline.
func writeEnvelope(conn *websocket.Conn, env hub.Envelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}

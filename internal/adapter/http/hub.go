package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/parade-weather-service/internal/domain"
	"github.com/couchcryptid/parade-weather-service/internal/observability"
	"github.com/couchcryptid/parade-weather-service/internal/pipeline"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// ErrHubClosed is returned by Notify after Close.
var ErrHubClosed = errors.New("notification hub closed")

// Hub streams notifications and state changes to connected dashboards.
// It implements pipeline.Notifier.
type Hub struct {
	upgrader  websocket.Upgrader
	clients   sync.Map
	count     atomic.Int64
	broadcast chan []byte
	done      chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
	metrics   *observability.Metrics
}

type envelope struct {
	Type         string                   `json:"type"`
	Level        domain.NotificationLevel `json:"level,omitempty"`
	Message      string                   `json:"message,omitempty"`
	DurationMs   int64                    `json:"duration_ms,omitempty"`
	AssessmentID string                   `json:"assessment_id,omitempty"`
	State        string                   `json:"state,omitempty"`
}

// NewHub creates a hub. Call Run to start delivering messages.
func NewHub(logger *slog.Logger, metrics *observability.Metrics) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		broadcast: make(chan []byte, 256),
		done:      make(chan struct{}),
		logger:    logger,
		metrics:   metrics,
	}
}

// Run delivers queued messages to every client until Close.
func (h *Hub) Run() {
	for {
		select {
		case message := <-h.broadcast:
			h.clients.Range(func(key, _ any) bool {
				conn, ok := key.(*websocket.Conn)
				if !ok {
					return true
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Debug("websocket write failed", "error", err)
					h.drop(conn)
				}
				return true
			})
		case <-h.done:
			return
		}
	}
}

// Close stops Run and disconnects every client.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.clients.Range(func(key, _ any) bool {
			if conn, ok := key.(*websocket.Conn); ok {
				h.drop(conn)
			}
			return true
		})
	})
}

// Clients reports the number of connected dashboards.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// ServeWS upgrades the request and holds the connection until the client
// goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.clients.Store(conn, true)
	h.count.Add(1)
	h.metrics.WebsocketClients.Inc()
	h.logger.Debug("websocket client connected", "clients", h.Clients())
	defer h.drop(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	if _, loaded := h.clients.LoadAndDelete(conn); loaded {
		h.count.Add(-1)
		h.metrics.WebsocketClients.Dec()
	}
	conn.Close()
}

// Notify queues a notification for every connected client.
func (h *Hub) Notify(ctx context.Context, n domain.Notification) error {
	msg, err := json.Marshal(envelope{
		Type:         "notification",
		Level:        n.Level,
		Message:      n.Message,
		DurationMs:   n.DurationMillis(),
		AssessmentID: n.AssessmentID,
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}
	select {
	case h.broadcast <- msg:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BroadcastState announces a state transition. It never blocks; when the
// queue is full the update is dropped.
func (h *Hub) BroadcastState(_, to pipeline.State) {
	msg, err := json.Marshal(envelope{Type: "state", State: to.String()})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("state broadcast dropped", "state", to)
	}
}

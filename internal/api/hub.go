package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"FoodExpress/internal/bus"
	"FoodExpress/internal/store"
)

const (
	EventSnapshotChanged = "snapshot_changed"

	sendBuffer = 16
	writeWait  = 5 * time.Second
)

type Event struct {
	Event   string `json:"event"`
	Version uint64 `json:"version"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub pushes a snapshot_changed event to every connected websocket after
// each reload of the store it is attached to. Broadcast never blocks: a
// client that falls behind loses events, and the next one carries the
// latest version anyway.
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	version func() uint64
	closed  bool
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Attach subscribes the hub to s. Listeners run under the origin lock, so
// the callback only enqueues.
func (h *Hub) Attach(s *store.Store) *bus.Subscription {
	h.mu.Lock()
	h.version = s.Version
	h.mu.Unlock()

	return s.Subscribe(func() {
		h.Broadcast(Event{Event: EventSnapshotChanged, Version: s.Version()})
	})
}

func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("marshal hub event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.log.Debug("hub client lagging, event dropped", zap.String("remote", c.conn.RemoteAddr().String()))
		}
	}
}

// Len is the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request and greets the client with the current
// version. Incoming messages are read and discarded.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.register(c) {
		_ = conn.Close()
		return
	}

	go h.writeLoop(c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister(c)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}

	if h.version != nil {
		if data, err := json.Marshal(Event{Event: EventSnapshotChanged, Version: h.version()}); err == nil {
			c.send <- data
		}
	}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) writeLoop(c *client) {
	defer func() { _ = c.conn.Close() }()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Debug("websocket write failed", zap.Error(err))
			return
		}
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

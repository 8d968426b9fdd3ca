package application

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	ChannelGrid string = "grid"
)

// InvalidationEvent tells connected grids that server-side state they may be
// showing (bookmarks, counts) has changed.
type InvalidationEvent struct {
	Channel string `json:"channel"`
	Kind    string `json:"kind"`
	Payload any    `json:"payload,omitempty"`
}

type Huber interface {
	http.Handler
	Broadcast(channel string, event InvalidationEvent)
	ConnectionCount() int
	Close()
}

type HuberOptions struct {
	Logger      *logrus.Logger
	CheckOrigin func(r *http.Request) bool
}

func NewHub(opts *HuberOptions) Huber {
	return &huber{
		logger: opts.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     opts.CheckOrigin,
		},
		connections: make(map[*wsConnection]struct{}),
	}
}

type huber struct {
	logger      *logrus.Logger
	upgrader    websocket.Upgrader
	mu          sync.RWMutex
	connections map[*wsConnection]struct{}
	closed      bool
}

type wsConnection struct {
	conn *websocket.Conn
	// WriteJSON is not safe for concurrent use.
	writeMu sync.Mutex
}

func (h *huber) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.WithError(err).Warn("websocket upgrade failed")
		}
		return
	}

	c := &wsConnection{conn: conn}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.connections[c] = struct{}{}
	h.mu.Unlock()

	go h.readPump(c)
}

// readPump drains the connection so pings are answered; inbound payloads are
// ignored, the hub is broadcast-only.
func (h *huber) readPump(c *wsConnection) {
	defer h.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *huber) drop(c *wsConnection) {
	h.mu.Lock()
	delete(h.connections, c)
	h.mu.Unlock()
	_ = c.conn.Close()
}

func (h *huber) Broadcast(channel string, event InvalidationEvent) {
	event.Channel = channel
	payload, err := json.Marshal(event)
	if err != nil {
		if h.logger != nil {
			h.logger.WithError(err).Error("failed to marshal invalidation event")
		}
		return
	}

	h.mu.RLock()
	conns := make([]*wsConnection, 0, len(h.connections))
	for c := range h.connections {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.writeMu.Lock()
		err := c.conn.WriteMessage(websocket.TextMessage, payload)
		c.writeMu.Unlock()
		if err != nil {
			h.drop(c)
		}
	}
}

func (h *huber) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (h *huber) Close() {
	h.mu.Lock()
	h.closed = true
	conns := make([]*wsConnection, 0, len(h.connections))
	for c := range h.connections {
		conns = append(conns, c)
	}
	h.connections = make(map[*wsConnection]struct{})
	h.mu.Unlock()

	for _, c := range conns {
		_ = c.conn.Close()
	}
}

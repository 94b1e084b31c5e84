package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Hub tracks live connections and the channels they subscribe to.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]*Connection             // conn_id -> connection
	channels    map[string]map[uuid.UUID]*Connection // channel -> subscribers
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]*Connection),
		channels:    make(map[string]map[uuid.UUID]*Connection),
		logger:      logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[conn.ID] = conn
	h.logger.Debug().Str("conn_id", conn.ID.String()).Msg("connection registered")
}

// Unregister closes the connection and drops all of its subscriptions.
func (h *Hub) Unregister(connID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, exists := h.connections[connID]
	if !exists {
		return
	}
	conn.Close()
	delete(h.connections, connID)

	for channel, subs := range h.channels {
		delete(subs, connID)
		if len(subs) == 0 {
			delete(h.channels, channel)
		}
	}
	h.logger.Debug().Str("conn_id", connID.String()).Msg("connection unregistered")
}

// Subscribe attaches a registered connection to a channel.
func (h *Hub) Subscribe(channel string, connID uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, exists := h.connections[connID]
	if !exists {
		return ErrConnectionNotFound
	}
	subs, ok := h.channels[channel]
	if !ok {
		subs = make(map[uuid.UUID]*Connection)
		h.channels[channel] = subs
	}
	subs[connID] = conn
	return nil
}

// Unsubscribe detaches a connection from a channel.
func (h *Hub) Unsubscribe(channel string, connID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.channels[channel]; ok {
		delete(subs, connID)
		if len(subs) == 0 {
			delete(h.channels, channel)
		}
	}
}

// BroadcastToChannel queues msg for every subscriber. A slow subscriber never
// blocks the others; the first send error is returned after all were tried.
func (h *Hub) BroadcastToChannel(channel string, msg Message) error {
	h.mu.RLock()
	subs := make([]*Connection, 0, len(h.channels[channel]))
	for _, conn := range h.channels[channel] {
		subs = append(subs, conn)
	}
	h.mu.RUnlock()

	var firstErr error
	for _, conn := range subs {
		if err := conn.Send(msg); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			h.logger.Warn().Err(err).Str("conn_id", conn.ID.String()).Str("channel", channel).Msg("channel send failed")
		}
	}
	return firstErr
}

// SendTo delivers a message to one connection.
func (h *Hub) SendTo(connID uuid.UUID, msg Message) error {
	h.mu.RLock()
	conn, exists := h.connections[connID]
	h.mu.RUnlock()

	if !exists {
		return ErrConnectionNotFound
	}
	return conn.Send(msg)
}

// SubscriberCount reports how many connections listen on channel.
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// Connection represents a WebSocket connection with send queue.
type Connection struct {
	ID     uuid.UUID
	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps a WebSocket connection.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	id := uuid.New()
	return &Connection{
		ID:     id,
		conn:   conn,
		sendCh: make(chan Message, 256),
		logger: logger.With().Str("conn_id", id.String()).Logger(),
	}
}

// Send queues a message for delivery.
func (c *Connection) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close shuts down the connection.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.sendCh)
	if c.conn != nil {
		c.conn.Close()
	}
}

// WritePump sends queued messages and keeps the peer alive with pings.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Warn().Err(err).Msg("write error")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump receives messages and calls the handler until the peer goes away.
func (c *Connection) ReadPump(handler func(Message) error) {
	defer c.conn.Close()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("read error")
			}
			break
		}

		if err := handler(msg); err != nil {
			c.logger.Warn().Err(err).Msg("message handler error")
		}
	}
}

var (
	ErrConnectionNotFound = &Error{Code: "connection_not_found", Message: "Connection not found"}
	ErrConnectionClosed   = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull      = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

package server

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"battlecode-client/internal/protocol"
	"battlecode-client/internal/version"
	"battlecode-client/pkg/logger"
)

// frame is one websocket message: text JSON or a binary replay event.
type frame struct {
	kind int
	data []byte
}

func textFrame(msgType protocol.MessageType, payload interface{}) (frame, error) {
	data, err := protocol.Encode(msgType, payload)
	if err != nil {
		return frame{}, err
	}
	return frame{kind: websocket.TextMessage, data: data}, nil
}

func binaryFrame(data []byte) frame {
	return frame{kind: websocket.BinaryMessage, data: data}
}

// Hub maintains the set of live viewers and broadcasts batches of frames
// to them. A batch is delivered whole and in order.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []frame
	done       chan struct{}

	mu sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []frame, 16),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. All clients are closed when ctx ends.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.sendWelcome(client)

		case client := <-h.unregister:
			h.drop(client)

		case batch := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for client := range h.clients {
				select {
				case client.send <- batch:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range slow {
				logger.Component("hub").Warn("dropping slow live viewer")
				h.drop(client)
			}

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a batch for every live viewer.
func (h *Hub) Broadcast(batch ...frame) {
	select {
	case h.broadcast <- batch:
	case <-h.done:
	}
}

// Count returns the number of live viewers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) sendWelcome(client *Client) {
	f, err := textFrame(protocol.TypeWelcome, protocol.WelcomePayload{ServerVersion: version.Version})
	if err != nil {
		return
	}
	select {
	case client.send <- []frame{f}:
	default:
	}
}

func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
}

// Client is a live viewer connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []frame
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// NewClient creates a new client.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []frame, 32),
	}
}

// ReadPump watches the connection for close. Viewers only listen.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logger.Component("hub").WithError(err).Debug("websocket error")
			}
			return
		}
		if kind == websocket.TextMessage {
			if msg, err := protocol.Decode(data); err == nil {
				logger.Component("hub").WithField("type", msg.Type).Debug("ignoring viewer message")
			}
		}
	}
}

// WritePump writes queued batches and keeps the connection alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case batch, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			for _, f := range batch {
				if err := c.conn.WriteMessage(f.kind, f.data); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// writeWait bounds every write to a client.
var writeWait = 2 * time.Second

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type WSClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *WSClient) Send(msg WSMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

// WSHub fans reading messages out to every connected client.
type WSHub struct {
	mu      sync.RWMutex
	clients map[*WSClient]struct{}
}

func NewWSHub() *WSHub {
	return &WSHub{clients: make(map[*WSClient]struct{})}
}

func (h *WSHub) Add(conn *websocket.Conn) *WSClient {
	c := &WSClient{conn: conn}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *WSHub) Remove(c *WSClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		_ = c.conn.Close()
	}
}

func (h *WSHub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast writes msg to all clients and drops the ones that fail.
func (h *WSHub) Broadcast(msg WSMessage) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	var dead []*WSClient
	h.mu.RLock()
	for c := range h.clients {
		c.mu.Lock()
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			dead = append(dead, c)
		}
		c.mu.Unlock()
	}
	h.mu.RUnlock()
	for _, c := range dead {
		h.Remove(c)
	}
}

// CloseAll disconnects every client.
func (h *WSHub) CloseAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*WSClient]struct{})
	h.mu.Unlock()
	for c := range clients {
		c.mu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		c.mu.Unlock()
		_ = c.conn.Close()
	}
}

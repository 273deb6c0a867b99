package web

import (
	"encoding/json"
	"sync"
	"time"

	"auxbox/helpers/logs"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// sendBuffer is the per-connection backlog; a client that falls this
	// far behind is dropped rather than blocking the broadcast.
	sendBuffer = 64
)

// Client is one live push connection, bound to a single session at
// handshake time.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	session string
	send    chan []byte
	once    sync.Once
}

// Hub maps live connections to their sessions and fans out events. It owns
// the connection registry; connect and disconnect mutate it from arbitrary
// goroutines while every Emit reads it, so access goes through the RWMutex.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *logrus.Entry
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logs.GetLogger().WithField("module", "hub"),
	}
}

// Register binds an upgraded connection to its session and starts its
// write pump.
func (h *Hub) Register(conn *websocket.Conn, sessionID string) *Client {
	client := &Client{
		hub:     h,
		conn:    conn,
		session: sessionID,
		send:    make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	go client.writePump()

	h.logger.WithFields(logrus.Fields{
		"session":       sessionID,
		"total_clients": total,
	}).Info("Client connected")
	return client
}

// Unregister removes a client and releases its connection. Safe to call
// more than once.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}

	client.once.Do(func() { close(client.send) })

	h.logger.WithFields(logrus.Fields{
		"session":       client.session,
		"total_clients": total,
	}).Info("Client disconnected")
}

// Emit delivers an event to every live connection of the session, in the
// order Emit was called. Delivery is best effort: a client whose buffer is
// full is dropped, nothing is queued for replay.
func (h *Hub) Emit(sessionID string, kind EventKind, payload interface{}) {
	data, err := json.Marshal(Envelope{Event: kind, Payload: payload})
	if err != nil {
		h.logger.WithError(err).WithField("event", kind).Error("Failed to marshal event")
		return
	}

	var slow []*Client

	h.mu.RLock()
	for client := range h.clients {
		if client.session != sessionID {
			continue
		}
		select {
		case client.send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.WithField("session", client.session).Warn("Send buffer full, dropping client")
		h.Unregister(client)
	}

	h.logger.WithFields(logrus.Fields{
		"session": sessionID,
		"event":   kind,
	}).Debug("Event emitted")
}

// CountForSession returns the number of live connections of one session.
func (h *Hub) CountForSession(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for client := range h.clients {
		if client.session == sessionID {
			count++
		}
	}
	return count
}

// writePump drains the send channel onto the wire and keeps the connection
// alive with pings. It exits when the channel closes or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.Unregister(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.Unregister(c)
				return
			}
		}
	}
}

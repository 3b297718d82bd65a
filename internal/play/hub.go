package play

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vytor/workshop/internal/logger"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512

	sendBuffer      = 64
	broadcastBuffer = 256
)

// Publisher delivers messages to everyone watching a topic.
type Publisher interface {
	Publish(topic string, msg Message)
}

// Message is one push to a watching client.
type Message struct {
	SessionID string `json:"session_id"`
	Event     string `json:"event"`
	State     any    `json:"state,omitempty"`
	Data      any    `json:"data,omitempty"`
}

type envelope struct {
	topic string
	data  []byte
}

type client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	topic string
}

// Hub fans messages out to websocket clients grouped by topic. All client
// bookkeeping happens on the Run goroutine.
type Hub struct {
	topics     map[string]map[*client]bool
	broadcast  chan envelope
	register   chan *client
	unregister chan *client
	inspect    chan func()
	done       chan struct{}
	upgrader   websocket.Upgrader
	log        *logger.Logger
}

func NewHub() *Hub {
	return &Hub{
		topics:     make(map[string]map[*client]bool),
		broadcast:  make(chan envelope, broadcastBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		inspect:    make(chan func()),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: logger.Default().WithPrefix("hub"),
	}
}

// Run processes registrations and broadcasts until ctx is done, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.topics {
				for c := range clients {
					h.unregisterClient(c)
				}
			}
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case env := <-h.broadcast:
			for c := range h.topics[env.topic] {
				select {
				case c.send <- env.data:
				default:
					h.unregisterClient(c)
				}
			}

		case fn := <-h.inspect:
			fn()
		}
	}
}

// Publish queues msg for topic. It never blocks; when the queue is full
// the message is dropped.
func (h *Hub) Publish(topic string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("failed to marshal %s message: %v", msg.Event, err)
		return
	}
	select {
	case h.broadcast <- envelope{topic: topic, data: data}:
	default:
		h.log.Warn("broadcast queue full, dropping %s for %s", msg.Event, topic)
	}
}

// ClientCount returns how many clients watch topic.
func (h *Hub) ClientCount(ctx context.Context, topic string) int {
	result := make(chan int, 1)
	select {
	case h.inspect <- func() { result <- len(h.topics[topic]) }:
		return <-result
	case <-ctx.Done():
		return 0
	case <-h.done:
		return 0
	}
}

// ServeWS upgrades the request and subscribes the connection to topic.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, topic string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed: %v", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), topic: topic}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (h *Hub) registerClient(c *client) {
	if h.topics[c.topic] == nil {
		h.topics[c.topic] = make(map[*client]bool)
	}
	h.topics[c.topic][c] = true
	h.log.Debug("client registered for %s (total clients: %d)", c.topic, len(h.topics[c.topic]))
}

func (h *Hub) unregisterClient(c *client) {
	clients, ok := h.topics[c.topic]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.topics, c.topic)
	}
	h.log.Debug("client unregistered from %s (remaining clients: %d)", c.topic, len(clients))
}

// readPump only keeps the connection alive; clients act through the REST
// endpoints.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("websocket error: %v", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

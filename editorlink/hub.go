// Package editorlink mirrors engine changes to external editors over
// websockets and feeds their commands back into the frame loop.
//
// The engine is only touched from the frame goroutine: engine events are
// encoded there and queued per client, and inbound commands wait in a channel
// until HubSystem drains them during a tick.
package editorlink

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/plus3/ember3d/ecs"
	"go.uber.org/zap"
)

const (
	clientBuffer = 256
	writeWait    = 5 * time.Second
)

var ErrHubClosed = errors.New("editor link closed")

// Message is a change notification sent to every connected editor.
type Message struct {
	Type      string `json:"type"`
	Client    string `json:"client,omitempty"`
	Entity    string `json:"entity,omitempty"`
	Component string `json:"component,omitempty"`
	Index     *int   `json:"index,omitempty"`
	Previous  string `json:"previous,omitempty"`
}

// Command is a request received from an editor.
type Command struct {
	Client string `json:"-"`
	Type   string `json:"type"`
	Entity string `json:"entity"`
}

const (
	CommandSelect = "select"
	CommandRemove = "remove"
)

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub accepts editor connections and broadcasts engine events to them.
type Hub struct {
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client
	closed  bool

	commands chan Command
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger: logger.Named("editorlink"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients:  make(map[string]*client),
		commands: make(chan Command, clientBuffer),
	}
}

// Commands delivers editor commands in arrival order.
func (h *Hub) Commands() <-chan Command {
	return h.commands
}

// Clients returns the number of connected editors.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and registers the editor. The first message
// an editor receives is a "hello" carrying its client id.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, clientBuffer),
	}

	hello, _ := json.Marshal(Message{Type: "hello", Client: c.id})
	c.send <- hello

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c.id] = c
	h.mu.Unlock()

	h.logger.Info("Editor connected", zap.String("client", c.id), zap.String("remote", r.RemoteAddr))

	go h.writeLoop(c)
	go h.readLoop(c)
}

func (h *Hub) writeLoop(c *client) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("Editor write failed", zap.String("client", c.id), zap.Error(err))
			h.drop(c)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
}

func (h *Hub) readLoop(c *client) {
	defer h.drop(c)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			h.logger.Warn("Malformed editor command", zap.String("client", c.id), zap.Error(err))
			continue
		}
		cmd.Client = c.id

		select {
		case h.commands <- cmd:
		default:
			h.logger.Warn("Editor command queue full, dropping command",
				zap.String("client", c.id), zap.String("type", cmd.Type))
		}
	}
}

// drop unregisters the client; its writer closes the connection.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	h.logger.Info("Editor disconnected", zap.String("client", c.id))
}

// Broadcast queues msg for every editor. Editors that cannot keep up are
// disconnected rather than blocking the caller.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Encoding editor message", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("Editor too slow, disconnecting", zap.String("client", id))
			delete(h.clients, id)
			close(c.send)
		}
	}
}

// Close disconnects every editor. Later connections are refused.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}
	h.closed = true
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
	return nil
}

// EventMessage converts an engine event to its wire form.
func EventMessage(ev ecs.Event) Message {
	msg := Message{
		Type:      ev.Kind.String(),
		Component: string(ev.Component),
	}
	if ev.Entity != nil {
		msg.Entity = ev.Entity.Id()
	}
	switch ev.Kind {
	case ecs.EntityAdded, ecs.EntityRemoved:
		index := ev.Index
		msg.Index = &index
	case ecs.SelectionChanged:
		if ev.Previous != nil {
			msg.Previous = ev.Previous.Id()
		}
	}
	return msg
}

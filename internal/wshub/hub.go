package wshub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"ballpop/internal/broadcast"

	"github.com/coder/websocket"
)

// Client message types.
const (
	TypeClick       = "click"
	TypeRestart     = "restart"
	TypeContextMenu = "contextmenu"
	TypeAudio       = "audio"
)

// ClientMessage is the JSON structure received from clients.
type ClientMessage struct {
	Type   string `json:"t"`
	BallID *int   `json:"id,omitempty"` // nil when the message carries no id
	OK     bool   `json:"ok,omitempty"`
}

// ServerMessage is the JSON structure sent to clients.
type ServerMessage struct {
	Type string          `json:"t"`
	View json.RawMessage `json:"v,omitempty"`
	Tone json.RawMessage `json:"tone,omitempty"`
}

// Client represents a single WebSocket connection in the hub.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	audio atomic.Bool
}

func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		Conn: conn,
		Send: make(chan []byte, 16),
	}
}

// SetAudio records whether the client can play tone cues.
func (c *Client) SetAudio(ok bool) {
	c.audio.Store(ok)
}

func (c *Client) Audio() bool {
	return c.audio.Load()
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// ReadPump decodes client messages and hands them to handle until the
// connection fails or ctx ends. Malformed messages are skipped.
func (c *Client) ReadPump(ctx context.Context, logger *slog.Logger, handle func(ClientMessage)) error {
	for {
		_, data, err := c.Conn.Read(ctx)
		if err != nil {
			return err
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debug("dropping malformed message", "client", c.ID, "error", err)
			continue
		}
		handle(msg)
	}
}

// Hub manages the WebSocket connections of one game session.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger.With("component", "wshub"),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

// Unregister removes a client and closes its Send channel.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		close(c.Send)
		delete(h.clients, id)
	}
}

// CloseAll disconnects every client with StatusGoingAway. Clients stay
// registered until their handler unregisters them.
func (h *Hub) CloseAll(reason string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.Conn == nil {
			continue
		}
		// Close waits for the peer's close frame, so it must not hold up the caller.
		go c.Conn.Close(websocket.StatusGoingAway, reason)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every client, or only to audio-capable ones
// when audioOnly is set. Non-blocking: drops if a channel is full.
func (h *Hub) Broadcast(msg ServerMessage, audioOnly bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal error", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		if audioOnly && !c.Audio() {
			continue
		}
		select {
		case c.Send <- data:
		default:
			// Drop message if channel full
		}
	}
}

// Forward relays broadcaster messages to the connected clients until ch is
// closed or ctx ends.
func (h *Hub) Forward(ctx context.Context, ch <-chan broadcast.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			switch msg.Event {
			case broadcast.EventState:
				h.Broadcast(ServerMessage{Type: broadcast.EventState, View: msg.Data}, false)
			case broadcast.EventTone:
				h.Broadcast(ServerMessage{Type: broadcast.EventTone, Tone: msg.Data}, true)
			}
		}
	}
}

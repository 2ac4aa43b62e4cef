package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"sysdash/internal/sampler"
)

// Message is the envelope pushed to WebSocket clients.
type Message struct {
	Type  string          `json:"type"`
	Data  *sampler.Update `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

const (
	MessageUpdate = "update"
	MessageError  = "error"
)

// Hub fans published updates out to every connected WebSocket client. It is a
// sampler.Consumer; OnUpdate and OnError never block the loop.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	connected  atomic.Int64

	log *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 16),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run owns the client set until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.connected.Store(0)
			return

		case client := <-h.register:
			h.clients[client] = true
			h.connected.Store(int64(len(h.clients)))
			h.log.Info("ws: client registered", "id", client.ID, "total_clients", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.connected.Store(int64(len(h.clients)))
				h.log.Info("ws: client unregistered", "id", client.ID, "total_clients", len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow reader; drop it rather than stall everyone else.
					delete(h.clients, client)
					close(client.send)
					h.log.Warn("ws: dropping slow client", "id", client.ID)
				}
			}
			h.connected.Store(int64(len(h.clients)))
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	return int(h.connected.Load())
}

// add registers c; it reports false once the hub has stopped.
func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) OnUpdate(u sampler.Update) {
	h.publish(Message{Type: MessageUpdate, Data: &u})
}

func (h *Hub) OnError(err error) {
	h.publish(Message{Type: MessageError, Error: err.Error()})
}

func (h *Hub) publish(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("ws: encode message", "type", msg.Type, "error", err)
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn("ws: broadcast queue full, message dropped", "type", msg.Type)
	}
}

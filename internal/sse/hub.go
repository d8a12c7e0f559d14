package sse

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/guildledger/internal/metrics"
)

// Event represents an event sent over SSE
type Event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Payload   any    `json:"payload"`
}

// Client represents a connected SSE client
type Client struct {
	ID           string
	EventChannel chan Event
	// EventFilter is nil for every event type.
	EventFilter map[string]bool
	// ItemType restricts market updates to one resource when set.
	ItemType string
}

func (c *Client) wants(event Event) bool {
	if c.EventFilter != nil && !c.EventFilter[event.Type] {
		return false
	}
	if c.ItemType == "" {
		return true
	}
	p, ok := event.Payload.(MarketUpdatePayload)
	return !ok || string(p.ItemType) == c.ItemType
}

// Hub manages SSE client connections and event broadcasting
type Hub struct {
	clients    map[string]*Client
	broadcast  chan Event
	register   chan *Client
	unregister chan string
	mu         sync.RWMutex
	shutdown   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// NewHub creates a new SSE Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan Event, BroadcastBufferSize),
		register:   make(chan *Client, ClientChannelBuffer),
		unregister: make(chan string, ClientChannelBuffer),
		shutdown:   make(chan struct{}),
	}
}

// Start starts the hub's broadcast loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop shuts down the hub and closes every client channel. It is safe to call twice.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		for _, client := range h.clients {
			close(client.EventChannel)
		}
		h.clients = make(map[string]*Client)
		h.mu.Unlock()
		metrics.SSEClients.Set(0)
	})
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			metrics.SSEClients.Set(float64(len(h.clients)))
			h.mu.Unlock()

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[clientID]; ok {
				close(client.EventChannel)
				delete(h.clients, clientID)
			}
			metrics.SSEClients.Set(float64(len(h.clients)))
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				if !client.wants(event) {
					continue
				}
				// Slow clients miss events rather than stall the hub.
				select {
				case client.EventChannel <- event:
				default:
				}
			}
			h.mu.RUnlock()

		case <-h.shutdown:
			return
		}
	}
}

// Register adds a new client to the hub. eventTypes and itemType narrow what
// the client receives; empty values mean everything.
func (h *Hub) Register(eventTypes []string, itemType string) *Client {
	client := &Client{
		ID:           uuid.NewString(),
		EventChannel: make(chan Event, ClientEventBuffer),
		ItemType:     itemType,
	}

	if len(eventTypes) > 0 {
		client.EventFilter = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			client.EventFilter[t] = true
		}
	}

	h.register <- client
	return client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.shutdown:
	}
}

// Broadcast queues an event for every interested client. It never blocks.
func (h *Hub) Broadcast(eventType string, payload any) {
	event := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}

	select {
	case h.broadcast <- event:
	default:
		slog.Warn(LogMsgEventDropped, "event_type", eventType)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSEMessage formats an SSE event for transmission
func FormatSSEMessage(event Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Type, data), nil
}

// keepaliveMessage is an SSE comment line; clients ignore it.
var keepaliveMessage = []byte(": keepalive\n\n")

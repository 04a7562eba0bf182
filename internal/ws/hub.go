package ws

import (
	"encoding/json"
	"sync"
)

// Client represents a single WebSocket connection with user context.
type Client struct {
	UserID uint
	Role   string
	Send   chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(userID uint, role string) *Client {
	return &Client{UserID: userID, Role: role, Send: make(chan []byte, 256)}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// deliver enqueues one frame. The closed check and the send share the client
// mutex with Close, so a concurrent Close can never race a send onto the
// closed channel.
func (c *Client) deliver(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
		// Slow consumer; drop rather than block the publisher.
	}
}

// Room is one consultation's notification channel; both participants may hold
// several connections at once.
type Room struct {
	Name    string
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func newRoom(name string) *Room {
	return &Room{Name: name, clients: make(map[*Client]struct{})}
}

func (r *Room) Join(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c] = struct{}{}
}

func (r *Room) Leave(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, c)
}

func (r *Room) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

func (r *Room) broadcast(data []byte) {
	r.mu.RLock()
	clients := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		clients = append(clients, c)
	}
	r.mu.RUnlock()
	for _, c := range clients {
		c.deliver(data)
	}
}

// Hub holds all notification rooms by name and implements service.Notifier.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]*Room)}
}

func (h *Hub) GetOrCreateRoom(name string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[name]; ok {
		return r
	}
	r := newRoom(name)
	h.rooms[name] = r
	return r
}

func (h *Hub) getRoom(name string) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[name]
}

// RemoveRoomIfEmpty drops a room once its last client left.
func (h *Hub) RemoveRoomIfEmpty(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[name]; ok && r.ClientCount() == 0 {
		delete(h.rooms, name)
	}
}

// Publish sends an event to every client in the room. A room with no
// listeners is not an error; fan-out is best-effort.
func (h *Hub) Publish(room, event string, payload interface{}) error {
	data, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  payload,
	})
	if err != nil {
		return err
	}
	if r := h.getRoom(room); r != nil {
		r.broadcast(data)
	}
	return nil
}

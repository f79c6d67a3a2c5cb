package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/Cloud-Net-Park/Gravel/models"
)

// Hub maintains the set of active subscribers and fans change events out to
// the ones watching the changed table.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Outbound change events.
	broadcast chan models.ChangeEvent

	// Closed when Run returns.
	done chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan models.ChangeEvent, 256),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
	}
}

// Join registers client. It reports false once the hub has stopped, in which
// case the caller owns the connection and should close it.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Leave unregisters client. It returns immediately once the hub has stopped.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

// Run serves register, unregister and broadcast requests until ctx is done.
// Remaining clients have their send channel closed on the way out, and later
// Join and Leave calls return without waiting. Run must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for client := range h.clients {
			delete(h.clients, client)
			close(client.Send)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.Register:
			h.clients[client] = true
			log.Printf("Realtime subscriber joined %s (%d connected)", client.Table, len(h.clients))
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
		case event := <-h.broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				log.Printf("Error marshalling change event: %v", err)
				continue
			}
			for client := range h.clients {
				if client.Table != event.Table {
					continue
				}
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Publish queues a change event for delivery. It never blocks the caller:
// when the queue is full the event is dropped, since subscribers also poll.
func (h *Hub) Publish(event models.ChangeEvent) {
	select {
	case h.broadcast <- event:
	default:
		log.Printf("Realtime queue full, dropping %s event on %s", event.Type, event.Table)
	}
}

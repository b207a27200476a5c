package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains the set of active clients keyed by profile id and fans
// notification and message events out to them. It replaces the SPA's
// fixed-interval polling as the low-latency delivery path; the REST
// endpoints stay available for clients that still poll.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Inbound events to deliver to every connected client.
	Broadcast chan []byte

	// Map to quickly find clients by profile id (one user, many tabs).
	profileClients map[uint][]*Client

	// Mutex to protect the profileClients map
	mutex sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Broadcast:      make(chan []byte),
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		clients:        make(map[*Client]bool),
		profileClients: make(map[uint][]*Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			h.trackClient(client)
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.untrackClient(client)
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
					h.untrackClient(client)
				}
			}
		}
	}
}

func (h *Hub) trackClient(client *Client) {
	h.mutex.Lock()
	h.profileClients[client.ProfileID] = append(h.profileClients[client.ProfileID], client)
	count := len(h.profileClients[client.ProfileID])
	h.mutex.Unlock()

	log.Printf("Profile %d connected. Total connections for profile: %d", client.ProfileID, count)
}

func (h *Hub) untrackClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	conns := h.profileClients[client.ProfileID]
	for i, conn := range conns {
		if conn == client {
			h.profileClients[client.ProfileID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.profileClients[client.ProfileID]) == 0 {
		delete(h.profileClients, client.ProfileID)
		log.Printf("Profile %d disconnected", client.ProfileID)
	}
}

// SendToProfile delivers an event to every active connection of one profile.
// A profile with no connections is a no-op; the event is still persisted in
// the notifications table, so nothing is lost.
func (h *Hub) SendToProfile(profileID uint, message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if clients, ok := h.profileClients[profileID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- message:
			default:
				// Slow consumer. Run owns the client set and the Send
				// channel close, so hand the drop back to it.
				go func(c *Client) { h.Unregister <- c }(client)
			}
		}
	}
}

// SendEventToProfile marshals an event envelope and pushes it.
func (h *Hub) SendEventToProfile(profileID uint, eventType string, payload interface{}) {
	message, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": payload,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}
	h.SendToProfile(profileID, message)
}

// IsProfileOnline checks for any active connection (in-memory check).
func (h *Hub) IsProfileOnline(profileID uint) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	clients, ok := h.profileClients[profileID]
	return ok && len(clients) > 0
}

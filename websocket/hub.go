package websocket

import (
	"encoding/json"
	"sync"
)

type Hub struct {
	clients    map[string]*Client
	userConns  map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type ClientMessage struct {
	Action string `json:"action"`
}

var HubInstance *Hub

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		userConns:  make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			if h.userConns[client.UserID] == nil {
				h.userConns[client.UserID] = make(map[*Client]bool)
			}
			h.userConns[client.UserID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				if h.userConns[client.UserID] != nil {
					delete(h.userConns[client.UserID], client)
					if len(h.userConns[client.UserID]) == 0 {
						delete(h.userConns, client.UserID)
					}
				}
				close(client.Send)
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) SendToUser(userID string, msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := h.userConns[userID]
	for client := range clients {
		select {
		case client.Send <- data:
		default:
		}
	}
	h.mu.RUnlock()
}

func (h *Hub) SendToAll(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
		}
	}
	h.mu.RUnlock()
}

// PushNewMessage fans a freshly posted chat message out to connected PDAs:
// direct messages go to the recipient's connections, global messages to
// everyone.
func PushNewMessage(recipientID string, data interface{}) {
	if HubInstance == nil {
		return
	}

	msg := &Message{Event: "new_message", Data: data}
	if recipientID == "" {
		HubInstance.SendToAll(msg)
		return
	}
	HubInstance.SendToUser(recipientID, msg)
}

func InitHub() {
	HubInstance = NewHub()
	go HubInstance.Run()
}

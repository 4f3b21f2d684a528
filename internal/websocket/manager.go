package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"
)

var ErrSendBufferFull = errors.New("client send buffer full")

type ClientMessage struct {
	Client  *Client
	Message []byte
}

// Manager is the hub owning every live connection. Register, unregister and
// inbound messages are serialised through Run.
type Manager struct {
	clients        map[string]*Client
	userIndex      map[string]map[string]*Client
	clientsMutex   sync.RWMutex
	Register       chan *Client
	Unregister     chan *Client
	Incoming       chan *ClientMessage
	maxConnPerUser int
	maxMessageSize int64
	writeWait      time.Duration
	pongWait       time.Duration
	pingPeriod     time.Duration
	messageHandler MessageHandler
	done           chan struct{}
}

type MessageHandler interface {
	HandleWebSocketMessage(client *Client, msg *Message) error
}

func NewManager(maxConnPerUser int, maxMessageSize int64, writeWait, pongWait, pingPeriod time.Duration) *Manager {
	return &Manager{
		clients:        make(map[string]*Client),
		userIndex:      make(map[string]map[string]*Client),
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		Incoming:       make(chan *ClientMessage),
		maxConnPerUser: maxConnPerUser,
		maxMessageSize: maxMessageSize,
		writeWait:      writeWait,
		pongWait:       pongWait,
		pingPeriod:     pingPeriod,
		done:           make(chan struct{}),
	}
}

func (m *Manager) SetMessageHandler(handler MessageHandler) {
	m.messageHandler = handler
}

// Run serves the hub until ctx is done, then drops every client and stops
// their feeds.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case client := <-m.Register:
			m.registerClient(client)

		case client := <-m.Unregister:
			m.unregisterClient(client)

		case clientMsg := <-m.Incoming:
			m.processMessage(clientMsg)

		case <-ctx.Done():
			close(m.done)
			m.closeAll()
			return
		}
	}
}

// Join, leave and deliver hand client events to Run without blocking once
// the hub has stopped.
func (m *Manager) Join(client *Client) bool {
	select {
	case m.Register <- client:
		return true
	case <-m.done:
		return false
	}
}

func (m *Manager) leave(client *Client) {
	select {
	case m.Unregister <- client:
	case <-m.done:
	}
}

func (m *Manager) deliver(msg *ClientMessage) bool {
	select {
	case m.Incoming <- msg:
		return true
	case <-m.done:
		return false
	}
}

func (m *Manager) registerClient(client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	conns := m.userIndex[client.UserID]
	if len(conns) >= m.maxConnPerUser {
		log.Printf("[WebSocket] Max connections reached for user %s", client.UserID)
		close(client.Send)
		return
	}

	if conns == nil {
		conns = make(map[string]*Client)
		m.userIndex[client.UserID] = conns
	}
	m.clients[client.ID] = client
	conns[client.ID] = client

	log.Printf("[WebSocket] Client registered: %s (user: %s)", client.ID, client.UserID)
}

func (m *Manager) unregisterClient(client *Client) {
	client.StopSubscription()

	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	m.remove(client)
}

// remove must be called with clientsMutex held.
func (m *Manager) remove(client *Client) {
	if _, ok := m.clients[client.ID]; !ok {
		return
	}

	delete(m.clients, client.ID)
	delete(m.userIndex[client.UserID], client.ID)
	if len(m.userIndex[client.UserID]) == 0 {
		delete(m.userIndex, client.UserID)
	}

	close(client.Send)
	log.Printf("[WebSocket] Client unregistered: %s", client.ID)
}

func (m *Manager) closeAll() {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	for _, client := range m.clients {
		client.StopSubscription()
		m.remove(client)
	}
	log.Println("[WebSocket] Hub stopped")
}

func (m *Manager) processMessage(clientMsg *ClientMessage) {
	var msg Message
	if err := json.Unmarshal(clientMsg.Message, &msg); err != nil {
		log.Printf("[WebSocket] Malformed message from %s: %v", clientMsg.Client.ID, err)
		if reply, err := NewMessage(TypeError, &ErrorPayload{Message: "malformed message"}); err == nil {
			m.SendToClient(clientMsg.Client.ID, reply)
		}
		return
	}

	if m.messageHandler != nil {
		if err := m.messageHandler.HandleWebSocketMessage(clientMsg.Client, &msg); err != nil {
			log.Printf("[WebSocket] Error handling %s message: %v", msg.Type, err)
		}
	}
}

// SendToClient queues message for a registered client. Messages for clients
// that already left are dropped.
func (m *Manager) SendToClient(clientID string, message *Message) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	client, exists := m.clients[clientID]
	if !exists {
		return nil
	}

	select {
	case client.Send <- messageBytes:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (m *Manager) GetUserConnections(userID string) int {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	return len(m.userIndex[userID])
}

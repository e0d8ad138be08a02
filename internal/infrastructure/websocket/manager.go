package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents a WebSocket connection client
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
	done   chan struct{}
}

// NewClient creates a client for an upgraded connection. The Send channel is
// never closed; shutdown is signalled through done so concurrent senders can
// never hit a closed channel.
func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		done:   make(chan struct{}),
	}
}

// trySend queues a frame unless the client is shutting down or its buffer is
// full. It never blocks.
func (c *Client) trySend(message []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.Send <- message:
		return true
	default:
		return false
	}
}

// Manager manages all active WebSocket connections and chat room membership
type Manager struct {
	clients    map[string]*Client
	rooms      map[string]map[string]bool // chatID -> set of userIDs
	roomGen    map[string]uint64          // chatID -> snapshot generation
	feed       FeedProvider
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

// NewManager creates a new WebSocket connection manager
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]bool),
		roomGen:    make(map[string]uint64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// SetFeedProvider wires the chat feed source. Set once at startup, before
// any client connects; the provider also broadcasts through this manager,
// so it cannot be a constructor argument.
func (m *Manager) SetFeedProvider(feed FeedProvider) {
	m.feed = feed
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				log.Printf("Client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.removeClient(client)
				log.Printf("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// removeClient drops the client from the manager and every room and signals
// its shutdown. Send stays open: in-flight publishes may still attempt a
// send, and trySend drops those on the closed done channel instead.
func (m *Manager) removeClient(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.clients[client.UserID]; ok {
		delete(m.clients, client.UserID)
		for chatID := range m.rooms {
			delete(m.rooms[chatID], client.UserID)
		}
		close(client.done)
	}
}

// SendToUser sends a message to a specific user
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if ok && !client.trySend(message) {
		log.Printf("SendToUser: Dropping message for client %s", userID)
	}
}

func (m *Manager) joinRoom(chatID string, client *Client) uint64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.rooms[chatID] == nil {
		m.rooms[chatID] = make(map[string]bool)
	}
	m.rooms[chatID][client.UserID] = true
	return m.roomGen[chatID]
}

func (m *Manager) leaveRoom(chatID string, client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.rooms[chatID] != nil {
		delete(m.rooms[chatID], client.UserID)
	}
}

func (m *Manager) roomClients(chatID string) []*Client {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var clients []*Client
	for userID := range m.rooms[chatID] {
		if client, ok := m.clients[userID]; ok {
			clients = append(clients, client)
		}
	}
	return clients
}

// generation returns the current snapshot generation for a chat.
func (m *Manager) generation(chatID string) uint64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.roomGen[chatID]
}

func (m *Manager) bumpGeneration(chatID string) uint64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.roomGen[chatID]++
	return m.roomGen[chatID]
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}

		m.HandleClientMessage(c, message)
	}
}

// WritePump sends messages to the WebSocket connection
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		select {
		case message := <-c.Send:
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("error: %v", err)
				return
			}

		case <-c.done:
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

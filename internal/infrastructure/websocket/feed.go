package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"thriftfinder/internal/domain/entity"
)

// WebSocket Message Types
const (
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
	MessageTypeSubscribe   = "subscribe"
	MessageTypeUnsubscribe = "unsubscribe"
	MessageTypeSnapshot    = "snapshot"
	MessageTypeError       = "error"
)

// WSMessage is the envelope for every frame in both directions.
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	ChatID    string      `json:"chat_id,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// Snapshot is the complete, ascending-ordered state of a thread at a point
// in time. The feed always replaces, never patches: every emission carries
// the full message list.
type Snapshot struct {
	ChatID   string            `json:"chat_id"`
	Messages []*entity.Message `json:"messages"`
}

// HasUnreadFor reports whether the snapshot contains a message addressed
// to uid that is still unread.
func (s *Snapshot) HasUnreadFor(uid string) bool {
	for _, msg := range s.Messages {
		if msg.UnreadFor(uid) {
			return true
		}
	}
	return false
}

// FeedProvider supplies thread snapshots and the read-receipt side effect.
// Implemented by the chat usecase.
type FeedProvider interface {
	ThreadSnapshot(ctx context.Context, userID, chatID string) (*Snapshot, error)
	MarkThreadRead(ctx context.Context, userID, chatID string) (int, error)
}

type subscribeData struct {
	ChatID string `json:"chat_id"`
}

// HandleClientMessage processes incoming WebSocket frames.
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	var wsMessage WSMessage

	if err := json.Unmarshal(messageBytes, &wsMessage); err != nil {
		log.Printf("WebSocket: Failed to unmarshal message from client %s: %v", client.UserID, err)
		m.sendErrorToClient(client, "", "Invalid message format")
		return
	}

	switch wsMessage.Type {
	case MessageTypePing:
		m.handlePing(client)

	case MessageTypeSubscribe:
		m.handleSubscribe(client, wsMessage)

	case MessageTypeUnsubscribe:
		m.handleUnsubscribe(client, wsMessage)

	default:
		log.Printf("WebSocket: Unknown message type '%s' from client %s", wsMessage.Type, client.UserID)
		m.sendErrorToClient(client, "", "Unknown message type")
	}
}

func (m *Manager) handlePing(client *Client) {
	m.sendToClient(client, WSMessage{
		Type:      MessageTypePong,
		Data:      map[string]string{"status": "alive"},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (m *Manager) handleSubscribe(client *Client, wsMessage WSMessage) {
	chatID := m.chatIDFrom(wsMessage)
	if chatID == "" {
		m.sendErrorToClient(client, "", "Missing chat_id")
		return
	}

	// Snapshot is fetched before joining so a failed subscription (chat not
	// found, not a participant) never leaves the client in the room.
	fetchGen := m.generation(chatID)
	snapshot, err := m.feed.ThreadSnapshot(context.Background(), client.UserID, chatID)
	if err != nil {
		log.Printf("WebSocket: Subscribe to chat %s failed for client %s: %v", chatID, client.UserID, err)
		m.sendErrorToClient(client, chatID, err.Error())
		return
	}

	// A publish that lands between the fetch and the join is delivered to
	// room members only, which does not yet include this client. Refetch on
	// a generation mismatch so the first delivered snapshot is current.
	if m.joinRoom(chatID, client) != fetchGen {
		snapshot, err = m.feed.ThreadSnapshot(context.Background(), client.UserID, chatID)
		if err != nil {
			log.Printf("WebSocket: Snapshot refetch for chat %s failed for client %s: %v", chatID, client.UserID, err)
			m.leaveRoom(chatID, client)
			m.sendErrorToClient(client, chatID, err.Error())
			return
		}
	}

	log.Printf("WebSocket: Client %s subscribed to chat %s", client.UserID, chatID)

	m.deliverSnapshot(client, snapshot)
}

func (m *Manager) handleUnsubscribe(client *Client, wsMessage WSMessage) {
	chatID := m.chatIDFrom(wsMessage)
	if chatID == "" {
		m.sendErrorToClient(client, "", "Missing chat_id")
		return
	}

	m.leaveRoom(chatID, client)
	log.Printf("WebSocket: Client %s unsubscribed from chat %s", client.UserID, chatID)
}

func (m *Manager) chatIDFrom(wsMessage WSMessage) string {
	if wsMessage.ChatID != "" {
		return wsMessage.ChatID
	}

	dataBytes, err := json.Marshal(wsMessage.Data)
	if err != nil {
		return ""
	}
	var data subscribeData
	if err := json.Unmarshal(dataBytes, &data); err != nil {
		return ""
	}
	return data.ChatID
}

// PublishSnapshot re-fetches the thread for every subscribed client and
// delivers the full result set. Each publish bumps the chat's generation;
// a fetch that completes after a newer publish is dropped rather than
// delivered stale.
func (m *Manager) PublishSnapshot(chatID string) {
	gen := m.bumpGeneration(chatID)

	for _, client := range m.roomClients(chatID) {
		client := client
		go func() {
			snapshot, err := m.feed.ThreadSnapshot(context.Background(), client.UserID, chatID)
			if err != nil {
				log.Printf("WebSocket: Snapshot refresh for chat %s failed for client %s: %v", chatID, client.UserID, err)
				m.sendErrorToClient(client, chatID, err.Error())
				return
			}

			if m.generation(chatID) != gen {
				// A newer snapshot is already on its way.
				return
			}

			m.deliverSnapshot(client, snapshot)
		}()
	}
}

// deliverSnapshot sends the snapshot frame and, when the snapshot contains
// unread messages addressed to the client, issues exactly one best-effort
// mark-as-read. A mark failure is logged and surfaced as a non-blocking
// error frame; the subscription stays up and is never retried automatically.
func (m *Manager) deliverSnapshot(client *Client, snapshot *Snapshot) {
	m.sendToClient(client, WSMessage{
		Type:      MessageTypeSnapshot,
		ChatID:    snapshot.ChatID,
		Data:      snapshot,
		Timestamp: time.Now().Format(time.RFC3339),
	})

	if !snapshot.HasUnreadFor(client.UserID) {
		return
	}

	flipped, err := m.feed.MarkThreadRead(context.Background(), client.UserID, snapshot.ChatID)
	if err != nil {
		log.Printf("WebSocket: Mark-as-read for chat %s failed for client %s: %v", snapshot.ChatID, client.UserID, err)
		m.sendErrorToClient(client, snapshot.ChatID, "Failed to mark thread as read: "+err.Error())
		return
	}
	if flipped > 0 {
		log.Printf("WebSocket: Marked %d messages read in chat %s for client %s", flipped, snapshot.ChatID, client.UserID)
	}
}

func (m *Manager) sendToClient(client *Client, message WSMessage) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		log.Printf("WebSocket: Failed to marshal message for client %s: %v", client.UserID, err)
		return
	}

	if !client.trySend(messageBytes) {
		log.Printf("WebSocket: Dropping frame for client %s", client.UserID)
	}
}

func (m *Manager) sendErrorToClient(client *Client, chatID, message string) {
	m.sendToClient(client, WSMessage{
		Type:      MessageTypeError,
		ChatID:    chatID,
		Data:      map[string]string{"message": message},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

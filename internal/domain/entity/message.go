package entity

import "time"

// Message is append-only: after creation only the Read flag ever changes.
type Message struct {
	ID         string    `json:"id" firestore:"id"`
	ChatID     string    `json:"chat_id" firestore:"chatId"`
	SenderID   string    `json:"sender_id" firestore:"senderId"`
	ReceiverID string    `json:"receiver_id" firestore:"receiverId"`
	Message    string    `json:"message" firestore:"message"`
	Read       bool      `json:"read" firestore:"read"`
	ItemID     string    `json:"item_id,omitempty" firestore:"itemId,omitempty"`
	StoreID    string    `json:"store_id,omitempty" firestore:"storeId,omitempty"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}

// UnreadFor reports whether the message is addressed to uid and still unread.
func (m *Message) UnreadFor(uid string) bool {
	return m.ReceiverID == uid && !m.Read
}

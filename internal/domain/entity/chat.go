package entity

import (
	"sort"
	"strings"
	"time"
)

// Chat is a conversation thread between exactly two users. Its ID is the
// canonical join of the two participant UIDs, so both sides always derive
// the same key.
type Chat struct {
	ID            string         `json:"id" firestore:"id"`
	Participants  []string       `json:"participants" firestore:"participants"`
	ItemID        string         `json:"item_id,omitempty" firestore:"itemId,omitempty"`
	StoreID       string         `json:"store_id,omitempty" firestore:"storeId,omitempty"`
	LastMessage   string         `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt time.Time      `json:"last_message_at" firestore:"lastMessageAt"`
	UnreadCount   map[string]int `json:"unread_count" firestore:"unreadCount"`
	CreatedAt     time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time      `json:"updated_at" firestore:"updatedAt"`
}

// DeriveChatID returns the canonical chat id for two users: the UIDs joined
// with "_" in sorted order, identical regardless of argument order.
func DeriveChatID(uid1, uid2 string) string {
	ids := []string{uid1, uid2}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}

// OtherParticipant returns the participant that is not uid, or "" when uid
// is not part of the chat.
func (c *Chat) OtherParticipant(uid string) string {
	for _, p := range c.Participants {
		if p != uid {
			return p
		}
	}
	return ""
}

// HasParticipant reports whether uid belongs to the chat.
func (c *Chat) HasParticipant(uid string) bool {
	for _, p := range c.Participants {
		if p == uid {
			return true
		}
	}
	return false
}

// Valid checks the canonicalization invariant: exactly two participants
// whose sorted join equals the chat id.
func (c *Chat) Valid() bool {
	if len(c.Participants) != 2 {
		return false
	}
	return DeriveChatID(c.Participants[0], c.Participants[1]) == c.ID
}

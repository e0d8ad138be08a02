package usecase

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"thriftfinder/internal/domain/entity"
	"thriftfinder/internal/domain/repository"
	"thriftfinder/internal/infrastructure/ratelimit"
	ws "thriftfinder/internal/infrastructure/websocket"
	"thriftfinder/pkg/errors"
)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	itemRepo    repository.ItemRepository
	storeRepo   repository.StoreRepository
	wsManager   *ws.Manager
	rateLimiter *ratelimit.RateLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	itemRepo repository.ItemRepository,
	storeRepo repository.StoreRepository,
	wsManager *ws.Manager,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChatUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		itemRepo:    itemRepo,
		storeRepo:   storeRepo,
		wsManager:   wsManager,
		rateLimiter: rateLimiter,
	}
}

type SendMessageInput struct {
	ReceiverID string
	Message    string
	ItemID     string
	StoreID    string
}

type MessageResponse struct {
	MessageID string          `json:"messageId"`
	ChatID    string          `json:"chatId"`
	Message   *entity.Message `json:"message"`
}

// ChatDetailResponse carries the chat plus its independently loaded
// context. A failure loading one section lands in Errors under its own key
// and never blocks the others.
type ChatDetailResponse struct {
	*entity.Chat
	OtherUser *entity.User      `json:"other_user,omitempty"`
	Item      *entity.Item      `json:"item,omitempty"`
	Store     *entity.Store     `json:"store,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

type ChatSummary struct {
	*entity.Chat
	OtherUser *entity.User `json:"other_user,omitempty"`
}

// SendMessage appends a message to the thread between the sender and
// receiver, creating the chat lazily on first contact. The chat id is
// always the canonical derivation, never caller-supplied.
func (uc *ChatUseCase) SendMessage(ctx context.Context, userID string, input SendMessageInput) (*MessageResponse, error) {
	text := strings.TrimSpace(input.Message)
	if text == "" {
		return nil, errors.BadRequest("Message text is required", nil)
	}

	if userID == input.ReceiverID {
		log.Printf("SendMessage Error: User %s attempted to message themselves", userID)
		return nil, errors.BadRequest("You cannot send a message to yourself", nil)
	}

	allowed, waitTime := uc.rateLimiter.Allow(userID, "send_message")
	if !allowed {
		log.Printf("SendMessage Rate Limited: User %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before sending another message", waitTime)
	}

	receiver, err := uc.userRepo.GetByID(ctx, input.ReceiverID)
	if err != nil {
		log.Printf("SendMessage Error: Receiver %s not found: %v", input.ReceiverID, err)
		return nil, errors.NotFound("Receiver", err)
	}

	chatID := entity.DeriveChatID(userID, input.ReceiverID)

	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			log.Printf("SendMessage Error: Failed to load chat %s: %v", chatID, err)
			return nil, err
		}

		chat = &entity.Chat{
			ID:            chatID,
			Participants:  []string{userID, input.ReceiverID},
			ItemID:        input.ItemID,
			StoreID:       input.StoreID,
			UnreadCount:   make(map[string]int),
			LastMessageAt: time.Now(),
		}
		if err := uc.chatRepo.Create(ctx, chat); err != nil {
			log.Printf("SendMessage Error: Failed to create chat %s: %v", chatID, err)
			return nil, err
		}
	}

	message := &entity.Message{
		ChatID:     chatID,
		SenderID:   userID,
		ReceiverID: input.ReceiverID,
		Message:    text,
		Read:       false,
		ItemID:     input.ItemID,
		StoreID:    input.StoreID,
		CreatedAt:  time.Now(),
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		log.Printf("SendMessage Error: Failed to create message for chat %s: %v", chatID, err)
		return nil, err
	}

	// Denormalized summary fields. These are display-only; ordering always
	// comes from the message timestamps.
	chat.LastMessage = text
	chat.LastMessageAt = message.CreatedAt
	if chat.UnreadCount == nil {
		chat.UnreadCount = make(map[string]int)
	}
	chat.UnreadCount[input.ReceiverID]++
	if input.ItemID != "" {
		chat.ItemID = input.ItemID
	}
	if input.StoreID != "" {
		chat.StoreID = input.StoreID
	}

	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		log.Printf("SendMessage Error: Failed to update chat %s with last message: %v", chatID, err)
		return nil, err
	}

	uc.wsManager.PublishSnapshot(chatID)

	chatListUpdate := map[string]interface{}{
		"type":            "chat_list_update",
		"chat_id":         chatID,
		"last_message":    message.Message,
		"last_message_at": message.CreatedAt.Format(time.RFC3339),
		"sender_id":       userID,
		"sender_name":     displayNameFor(ctx, uc.userRepo, userID),
		"receiver_id":     receiver.ID,
	}
	chatListUpdateJSON, _ := json.Marshal(chatListUpdate)
	uc.wsManager.SendToUser(input.ReceiverID, chatListUpdateJSON)

	return &MessageResponse{
		MessageID: message.ID,
		ChatID:    chatID,
		Message:   message,
	}, nil
}

func displayNameFor(ctx context.Context, userRepo repository.UserRepository, userID string) string {
	user, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		return ""
	}
	return user.DisplayName
}

// GetChatByID loads the chat plus the other participant's profile and the
// linked item and store. Item and store loads are best-effort: each failure
// is reported in its own scoped error entry without blocking the rest.
func (uc *ChatUseCase) GetChatByID(ctx context.Context, userID, chatID string) (*ChatDetailResponse, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		log.Printf("GetChatByID Error: Chat %s not found: %v", chatID, err)
		return nil, err
	}

	if !chat.HasParticipant(userID) {
		log.Printf("GetChatByID Error: User %s is not a participant in chat %s", userID, chatID)
		return nil, errors.Forbidden("User is not a participant in this chat", nil)
	}

	resp := &ChatDetailResponse{Chat: chat, Errors: make(map[string]string)}

	otherID := chat.OtherParticipant(userID)
	if otherID != "" {
		otherUser, err := uc.userRepo.GetByID(ctx, otherID)
		if err == nil {
			resp.OtherUser = otherUser
		} else {
			log.Printf("GetChatByID Warning: Other user %s not found for chat %s: %v", otherID, chatID, err)
			resp.Errors["other_user"] = "Participant not found"
		}
	}

	if chat.ItemID != "" {
		item, err := uc.itemRepo.GetByID(ctx, chat.ItemID)
		if err == nil {
			resp.Item = item
		} else {
			log.Printf("GetChatByID Warning: Item %s not found for chat %s: %v", chat.ItemID, chatID, err)
			resp.Errors["item"] = "No linked item available"
		}
	}

	if chat.StoreID != "" {
		store, err := uc.storeRepo.GetByID(ctx, chat.StoreID)
		if err == nil {
			resp.Store = store
		} else {
			log.Printf("GetChatByID Warning: Store %s not found for chat %s: %v", chat.StoreID, chatID, err)
			resp.Errors["store"] = "Store not found: " + err.Error()
		}
	}

	if len(resp.Errors) == 0 {
		resp.Errors = nil
	}

	return resp, nil
}

func (uc *ChatUseCase) GetChatMessages(ctx context.Context, userID, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		log.Printf("GetChatMessages Error: Chat %s not found: %v", chatID, err)
		return nil, 0, err
	}

	if !chat.HasParticipant(userID) {
		log.Printf("GetChatMessages Error: User %s is not a participant in chat %s", userID, chatID)
		return nil, 0, errors.Forbidden("User is not a participant in this chat", nil)
	}

	messages, total, err := uc.chatRepo.GetMessagesByChat(ctx, chatID, limit, offset)
	if err != nil {
		log.Printf("GetChatMessages Error: Failed to get messages for chat %s: %v", chatID, err)
		return nil, 0, err
	}

	return messages, total, nil
}

func (uc *ChatUseCase) GetUserChats(ctx context.Context, userID string, limit, offset int) ([]*ChatSummary, int64, error) {
	chats, total, err := uc.chatRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		log.Printf("GetUserChats Error: Failed to list chats for user %s: %v", userID, err)
		return nil, 0, err
	}

	var summaries []*ChatSummary
	for _, chat := range chats {
		summary := &ChatSummary{Chat: chat}

		otherID := chat.OtherParticipant(userID)
		if otherID != "" {
			otherUser, err := uc.userRepo.GetByID(ctx, otherID)
			if err == nil {
				summary.OtherUser = otherUser
			} else {
				log.Printf("GetUserChats Warning: Other user %s not found for chat %s: %v", otherID, chat.ID, err)
			}
		}

		summaries = append(summaries, summary)
	}

	return summaries, total, nil
}

// MarkChatAsRead flips every unread message addressed to userID and returns
// how many were flipped. Calling it again for an already-read thread is a
// no-op, which is what makes the feed's per-snapshot read receipt safe.
func (uc *ChatUseCase) MarkChatAsRead(ctx context.Context, userID, chatID string) (int, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		log.Printf("MarkChatAsRead Error: Chat %s not found: %v", chatID, err)
		return 0, err
	}

	if !chat.HasParticipant(userID) {
		log.Printf("MarkChatAsRead Error: User %s is not a participant in chat %s", userID, chatID)
		return 0, errors.Forbidden("User is not a participant in this chat", nil)
	}

	flipped, err := uc.chatRepo.MarkMessagesRead(ctx, chatID, userID)
	if err != nil {
		log.Printf("MarkChatAsRead Error: Failed to mark messages read in chat %s for user %s: %v", chatID, userID, err)
		return flipped, err
	}

	if flipped == 0 {
		return 0, nil
	}

	if chat.UnreadCount == nil {
		chat.UnreadCount = make(map[string]int)
	}
	chat.UnreadCount[userID] = 0

	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		log.Printf("MarkChatAsRead Error: Failed to update chat %s unread count for user %s: %v", chatID, userID, err)
		return flipped, err
	}

	// Read flips change message state, so subscribers get a fresh snapshot.
	uc.wsManager.PublishSnapshot(chatID)

	return flipped, nil
}

// ThreadSnapshot implements websocket.FeedProvider: the complete, ordered
// thread as the subscription delivers it.
func (uc *ChatUseCase) ThreadSnapshot(ctx context.Context, userID, chatID string) (*ws.Snapshot, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !chat.HasParticipant(userID) {
		return nil, errors.Forbidden("User is not a participant in this chat", nil)
	}

	messages, _, err := uc.chatRepo.GetMessagesByChat(ctx, chatID, 0, 0)
	if err != nil {
		return nil, err
	}

	return &ws.Snapshot{
		ChatID:   chatID,
		Messages: messages,
	}, nil
}

// MarkThreadRead implements websocket.FeedProvider.
func (uc *ChatUseCase) MarkThreadRead(ctx context.Context, userID, chatID string) (int, error) {
	return uc.MarkChatAsRead(ctx, userID, chatID)
}

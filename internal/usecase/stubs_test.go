package usecase

import (
	"context"
	"fmt"
	"sort"

	"thriftfinder/internal/domain/entity"
	"thriftfinder/pkg/errors"
)

// In-memory repositories backing the use case tests.

type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	repo := &memUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	delete(r.users, id)
	return nil
}

type memStoreRepo struct {
	stores map[string]*entity.Store
	nextID int
}

func newMemStoreRepo(stores ...*entity.Store) *memStoreRepo {
	repo := &memStoreRepo{stores: make(map[string]*entity.Store)}
	for _, s := range stores {
		repo.stores[s.ID] = s
	}
	return repo
}

func (r *memStoreRepo) Create(ctx context.Context, store *entity.Store) error {
	r.nextID++
	store.ID = fmt.Sprintf("store-%d", r.nextID)
	r.stores[store.ID] = store
	return nil
}

func (r *memStoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	store, ok := r.stores[id]
	if !ok {
		return nil, errors.NotFound("Store", nil)
	}
	return store, nil
}

func (r *memStoreRepo) GetByOwnerID(ctx context.Context, ownerID string) (*entity.Store, error) {
	for _, store := range r.stores {
		if store.OwnerID == ownerID {
			return store, nil
		}
	}
	return nil, errors.NotFound("Store", nil)
}

func (r *memStoreRepo) List(ctx context.Context, limit, offset int) ([]*entity.Store, int64, error) {
	var stores []*entity.Store
	for _, store := range r.stores {
		stores = append(stores, store)
	}
	return stores, int64(len(stores)), nil
}

func (r *memStoreRepo) Update(ctx context.Context, store *entity.Store) error {
	r.stores[store.ID] = store
	return nil
}

func (r *memStoreRepo) Delete(ctx context.Context, id string) error {
	delete(r.stores, id)
	return nil
}

type memItemRepo struct {
	items   map[string]*entity.Item
	updates int
	nextID  int
}

func newMemItemRepo(items ...*entity.Item) *memItemRepo {
	repo := &memItemRepo{items: make(map[string]*entity.Item)}
	for _, i := range items {
		repo.items[i.ID] = i
	}
	return repo
}

func (r *memItemRepo) Create(ctx context.Context, item *entity.Item) error {
	r.nextID++
	item.ID = fmt.Sprintf("item-%d", r.nextID)
	r.items[item.ID] = item
	return nil
}

func (r *memItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, errors.NotFound("Item", nil)
	}
	return item, nil
}

func (r *memItemRepo) ListByStoreID(ctx context.Context, storeID string, status string, limit, offset int) ([]*entity.Item, int64, error) {
	var items []*entity.Item
	for _, item := range r.items {
		if item.StoreID != storeID {
			continue
		}
		if status != "" && item.Status != status {
			continue
		}
		items = append(items, item)
	}
	return items, int64(len(items)), nil
}

func (r *memItemRepo) Update(ctx context.Context, item *entity.Item) error {
	r.updates++
	r.items[item.ID] = item
	return nil
}

func (r *memItemRepo) Delete(ctx context.Context, id string) error {
	delete(r.items, id)
	return nil
}

type memChatRepo struct {
	chats    map[string]*entity.Chat
	messages []*entity.Message
	nextID   int
}

func newMemChatRepo() *memChatRepo {
	return &memChatRepo{chats: make(map[string]*entity.Chat)}
}

func (r *memChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	if chat.ID == "" {
		return errors.BadRequest("Chat id is required", nil)
	}
	r.chats[chat.ID] = chat
	return nil
}

func (r *memChatRepo) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	chat, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	return chat, nil
}

func (r *memChatRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	var chats []*entity.Chat
	for _, chat := range r.chats {
		if chat.HasParticipant(userID) {
			chats = append(chats, chat)
		}
	}
	sort.Slice(chats, func(i, j int) bool {
		return chats[i].LastMessageAt.After(chats[j].LastMessageAt)
	})
	return chats, int64(len(chats)), nil
}

func (r *memChatRepo) Update(ctx context.Context, chat *entity.Chat) error {
	r.chats[chat.ID] = chat
	return nil
}

func (r *memChatRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.nextID++
	message.ID = fmt.Sprintf("msg-%d", r.nextID)
	r.messages = append(r.messages, message)
	return nil
}

func (r *memChatRepo) GetMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	var messages []*entity.Message
	for _, msg := range r.messages {
		if msg.ChatID == chatID {
			messages = append(messages, msg)
		}
	}
	total := int64(len(messages))
	if offset > 0 {
		if offset >= len(messages) {
			return nil, total, nil
		}
		messages = messages[offset:]
	}
	if limit > 0 && limit < len(messages) {
		messages = messages[:limit]
	}
	return messages, total, nil
}

func (r *memChatRepo) MarkMessagesRead(ctx context.Context, chatID, userID string) (int, error) {
	flipped := 0
	for _, msg := range r.messages {
		if msg.ChatID == chatID && msg.UnreadFor(userID) {
			msg.Read = true
			flipped++
		}
	}
	return flipped, nil
}

func (r *memChatRepo) messagesIn(chatID string) []*entity.Message {
	var messages []*entity.Message
	for _, msg := range r.messages {
		if msg.ChatID == chatID {
			messages = append(messages, msg)
		}
	}
	return messages
}

type memReservationRepo struct {
	reservations map[string]*entity.Reservation
	nextID       int
}

func newMemReservationRepo() *memReservationRepo {
	return &memReservationRepo{reservations: make(map[string]*entity.Reservation)}
}

func (r *memReservationRepo) Create(ctx context.Context, reservation *entity.Reservation) error {
	r.nextID++
	reservation.ID = fmt.Sprintf("res-%d", r.nextID)
	r.reservations[reservation.ID] = reservation
	return nil
}

func (r *memReservationRepo) GetByID(ctx context.Context, id string) (*entity.Reservation, error) {
	reservation, ok := r.reservations[id]
	if !ok {
		return nil, errors.NotFound("Reservation", nil)
	}
	return reservation, nil
}

func (r *memReservationRepo) ListByStoreID(ctx context.Context, storeID string, limit, offset int) ([]*entity.Reservation, int64, error) {
	var reservations []*entity.Reservation
	for _, res := range r.reservations {
		if res.StoreID == storeID {
			reservations = append(reservations, res)
		}
	}
	return reservations, int64(len(reservations)), nil
}

func (r *memReservationRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Reservation, int64, error) {
	var reservations []*entity.Reservation
	for _, res := range r.reservations {
		if res.UserID == userID {
			reservations = append(reservations, res)
		}
	}
	return reservations, int64(len(reservations)), nil
}

func (r *memReservationRepo) Update(ctx context.Context, reservation *entity.Reservation) error {
	if _, ok := r.reservations[reservation.ID]; !ok {
		return errors.NotFound("Reservation", nil)
	}
	r.reservations[reservation.ID] = reservation
	return nil
}

func (r *memReservationRepo) GetActiveByItemID(ctx context.Context, itemID string) (*entity.Reservation, error) {
	for _, res := range r.reservations {
		if res.ItemID == itemID && !res.Terminal() {
			return res, nil
		}
	}
	return nil, errors.NotFound("Reservation", nil)
}

type stubFirebaseAuth struct {
	nextUID    string
	createErr  error
	deletedUID string
}

func (s *stubFirebaseAuth) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	return s.nextUID, nil
}

func (s *stubFirebaseAuth) VerifyToken(ctx context.Context, token string) (string, error) {
	return s.nextUID, nil
}

func (s *stubFirebaseAuth) DeleteUser(ctx context.Context, uid string) error {
	s.deletedUID = uid
	return nil
}

package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"thriftfinder/internal/domain/entity"
	"thriftfinder/internal/domain/repository"
	"thriftfinder/internal/infrastructure/ratelimit"
	"thriftfinder/pkg/errors"
	"thriftfinder/pkg/logger"
)

type ReservationUseCase struct {
	reservationRepo repository.ReservationRepository
	itemRepo        repository.ItemRepository
	storeRepo       repository.StoreRepository
	chatUseCase     *ChatUseCase
	rateLimiter     *ratelimit.RateLimiter
}

func NewReservationUseCase(
	reservationRepo repository.ReservationRepository,
	itemRepo repository.ItemRepository,
	storeRepo repository.StoreRepository,
	chatUseCase *ChatUseCase,
) *ReservationUseCase {
	return &ReservationUseCase{
		reservationRepo: reservationRepo,
		itemRepo:        itemRepo,
		storeRepo:       storeRepo,
		chatUseCase:     chatUseCase,
		rateLimiter:     ratelimit.NewRateLimiter(),
	}
}

type ReserveResult struct {
	ReservationID string `json:"reservationId"`
	ChatID        string `json:"chatId"`
}

type EnquireResult struct {
	MessageID string `json:"messageId"`
	ChatID    string `json:"chatId"`
}

// Reserve places a Pending reservation on an Available item, flips the item
// to Reserved, and returns the canonical chat id so the caller can land in
// the conversation with the store owner.
func (uc *ReservationUseCase) Reserve(ctx context.Context, userID, itemID, storeID string) (*ReserveResult, error) {
	allowed, waitTime := uc.rateLimiter.Allow(userID, "reserve")
	if !allowed {
		log.Printf("Reserve Rate Limited: User %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before reserving another item", waitTime)
	}

	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		log.Printf("Reserve Error: Item %s not found: %v", itemID, err)
		return nil, err
	}

	if item.StoreID != storeID {
		log.Printf("Reserve Error: Item %s does not belong to store %s", itemID, storeID)
		return nil, errors.BadRequest("Item does not belong to the given store", nil)
	}

	store, err := uc.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		log.Printf("Reserve Error: Store %s not found: %v", storeID, err)
		return nil, err
	}

	if store.OwnerID == userID {
		return nil, errors.BadRequest("You cannot reserve an item from your own store", nil)
	}

	if item.Status != entity.ItemStatusAvailable {
		return nil, errors.Conflict("Item is not available for reservation")
	}

	// The item status write is not transactional with the reservation, so an
	// item can briefly read Available while a reservation is still active.
	if existing, err := uc.reservationRepo.GetActiveByItemID(ctx, itemID); err == nil && existing != nil {
		return nil, errors.Conflict("Item already has an active reservation")
	}

	reservation := &entity.Reservation{
		ItemID:     itemID,
		UserID:     userID,
		StoreID:    storeID,
		Status:     entity.ReservationStatusPending,
		ReservedAt: time.Now(),
	}

	if err := uc.reservationRepo.Create(ctx, reservation); err != nil {
		log.Printf("Reserve Error: Failed to create reservation for item %s: %v", itemID, err)
		return nil, err
	}

	item.Status = entity.ItemStatusReserved
	if err := uc.itemRepo.Update(ctx, item); err != nil {
		log.Printf("Reserve Error: Failed to mark item %s reserved: %v", itemID, err)
		return nil, err
	}

	chatID := entity.DeriveChatID(userID, store.OwnerID)

	// Seed the conversation so the owner sees the reservation in their
	// inbox. Best-effort: a failed seed does not undo the reservation.
	seed := fmt.Sprintf("I just reserved \"%s\". When can I pick it up?", item.Name)
	if _, err := uc.chatUseCase.SendMessage(ctx, userID, SendMessageInput{
		ReceiverID: store.OwnerID,
		Message:    seed,
		ItemID:     itemID,
		StoreID:    storeID,
	}); err != nil {
		logger.LogReservationError(reservation.ID, "seed_chat", err)
	}

	return &ReserveResult{
		ReservationID: reservation.ID,
		ChatID:        chatID,
	}, nil
}

// Enquire sends a templated enquiry about an item to the store owner and
// returns the canonical chat id. A single message create backs the whole
// action, so from the caller's perspective it either happened or it didn't.
func (uc *ReservationUseCase) Enquire(ctx context.Context, userID, itemID, storeID string) (*EnquireResult, error) {
	allowed, waitTime := uc.rateLimiter.Allow(userID, "enquire")
	if !allowed {
		log.Printf("Enquire Rate Limited: User %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before sending another enquiry", waitTime)
	}

	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		log.Printf("Enquire Error: Item %s not found: %v", itemID, err)
		return nil, err
	}

	if item.StoreID != storeID {
		log.Printf("Enquire Error: Item %s does not belong to store %s", itemID, storeID)
		return nil, errors.BadRequest("Item does not belong to the given store", nil)
	}

	store, err := uc.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		log.Printf("Enquire Error: Store %s not found: %v", storeID, err)
		return nil, err
	}

	if store.OwnerID == userID {
		return nil, errors.BadRequest("You cannot enquire about an item from your own store", nil)
	}

	enquiry := fmt.Sprintf("Hi! I'm interested in \"%s\". Is it still available?", item.Name)

	resp, err := uc.chatUseCase.SendMessage(ctx, userID, SendMessageInput{
		ReceiverID: store.OwnerID,
		Message:    enquiry,
		ItemID:     itemID,
		StoreID:    storeID,
	})
	if err != nil {
		log.Printf("Enquire Error: Failed to send enquiry for item %s: %v", itemID, err)
		return nil, err
	}

	return &EnquireResult{
		MessageID: resp.MessageID,
		ChatID:    resp.ChatID,
	}, nil
}

// UpdateStatus moves a reservation through the owner workflow. Completing
// sets soldAt and flips the item to sold; cancelling releases the item.
func (uc *ReservationUseCase) UpdateStatus(ctx context.Context, ownerID, reservationID, newStatus string) (*entity.Reservation, error) {
	reservation, err := uc.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		log.Printf("UpdateStatus Error: Reservation %s not found: %v", reservationID, err)
		return nil, err
	}

	store, err := uc.storeRepo.GetByID(ctx, reservation.StoreID)
	if err != nil {
		log.Printf("UpdateStatus Error: Store %s not found: %v", reservation.StoreID, err)
		return nil, err
	}
	if store.OwnerID != ownerID {
		return nil, errors.Forbidden("Only the store owner can update this reservation", nil)
	}

	if !reservation.CanTransitionTo(newStatus) {
		return nil, errors.Conflict(fmt.Sprintf("Cannot move reservation from %s to %s", reservation.Status, newStatus))
	}

	reservation.Status = newStatus
	if newStatus == entity.ReservationStatusCompleted {
		now := time.Now()
		reservation.SoldAt = &now
	}

	if err := uc.reservationRepo.Update(ctx, reservation); err != nil {
		log.Printf("UpdateStatus Error: Failed to update reservation %s: %v", reservationID, err)
		return nil, err
	}

	// Keep the item status in step with the workflow. Non-atomic with the
	// reservation write; a failure here is logged and surfaced without
	// rolling the reservation back.
	switch newStatus {
	case entity.ReservationStatusCompleted:
		uc.updateItemStatus(ctx, reservation, entity.ItemStatusSold)
	case entity.ReservationStatusCancelled:
		uc.updateItemStatus(ctx, reservation, entity.ItemStatusAvailable)
	}

	return reservation, nil
}

func (uc *ReservationUseCase) updateItemStatus(ctx context.Context, reservation *entity.Reservation, status string) {
	item, err := uc.itemRepo.GetByID(ctx, reservation.ItemID)
	if err != nil {
		logger.LogReservationError(reservation.ID, "load_item", err)
		return
	}

	if !item.CanTransitionTo(status) {
		logger.LogReservationError(reservation.ID, "item_transition", fmt.Errorf("item %s cannot move from %s to %s", item.ID, item.Status, status))
		return
	}

	item.Status = status
	if err := uc.itemRepo.Update(ctx, item); err != nil {
		logger.LogReservationError(reservation.ID, "update_item", err)
	}
}

func (uc *ReservationUseCase) ListByStore(ctx context.Context, ownerID, storeID string, limit, offset int) ([]*entity.Reservation, int64, error) {
	store, err := uc.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, 0, err
	}
	if store.OwnerID != ownerID {
		return nil, 0, errors.Forbidden("Only the store owner can list reservations", nil)
	}

	return uc.reservationRepo.ListByStoreID(ctx, storeID, limit, offset)
}

func (uc *ReservationUseCase) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Reservation, int64, error) {
	return uc.reservationRepo.ListByUserID(ctx, userID, limit, offset)
}

package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thriftfinder/internal/domain/entity"
	ws "thriftfinder/internal/infrastructure/websocket"
	"thriftfinder/pkg/errors"
)

type reservationTestEnv struct {
	reservationRepo *memReservationRepo
	itemRepo        *memItemRepo
	storeRepo       *memStoreRepo
	chatRepo        *memChatRepo
	uc              *ReservationUseCase
}

func newReservationTestEnv() *reservationTestEnv {
	userRepo := newMemUserRepo(
		&entity.User{ID: "buyer", Email: "buyer@example.com", DisplayName: "Buyer", Role: entity.RoleCustomer},
		&entity.User{ID: "owner", Email: "owner@example.com", DisplayName: "Owner", Role: entity.RoleStoreOwner},
	)
	storeRepo := newMemStoreRepo(&entity.Store{
		ID:        "store-1",
		StoreName: "Second Chance Finds",
		OwnerID:   "owner",
	})
	itemRepo := newMemItemRepo(&entity.Item{
		ID:      "item-1",
		StoreID: "store-1",
		Name:    "Vintage Lamp",
		Price:   25,
		Status:  entity.ItemStatusAvailable,
	})
	chatRepo := newMemChatRepo()
	reservationRepo := newMemReservationRepo()

	chatUseCase := NewChatUseCase(chatRepo, userRepo, itemRepo, storeRepo, ws.NewManager())
	uc := NewReservationUseCase(reservationRepo, itemRepo, storeRepo, chatUseCase)

	return &reservationTestEnv{
		reservationRepo: reservationRepo,
		itemRepo:        itemRepo,
		storeRepo:       storeRepo,
		chatRepo:        chatRepo,
		uc:              uc,
	}
}

func TestReserve(t *testing.T) {
	env := newReservationTestEnv()
	ctx := context.Background()

	result, err := env.uc.Reserve(ctx, "buyer", "item-1", "store-1")
	require.NoError(t, err)

	assert.NotEmpty(t, result.ReservationID)
	assert.Equal(t, entity.DeriveChatID("buyer", "owner"), result.ChatID)

	reservation, err := env.reservationRepo.GetByID(ctx, result.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusPending, reservation.Status)
	assert.Equal(t, "buyer", reservation.UserID)
	assert.False(t, reservation.ReservedAt.IsZero())

	item, err := env.itemRepo.GetByID(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusReserved, item.Status)

	// The reservation seeds the conversation with the store owner.
	messages := env.chatRepo.messagesIn(result.ChatID)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].Message, "Vintage Lamp")
	assert.Equal(t, "owner", messages[0].ReceiverID)
}

func TestReserveUnavailableItem(t *testing.T) {
	env := newReservationTestEnv()
	ctx := context.Background()

	item, err := env.itemRepo.GetByID(ctx, "item-1")
	require.NoError(t, err)
	item.Status = entity.ItemStatusReserved

	_, err = env.uc.Reserve(ctx, "buyer", "item-1", "store-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))

	// Nothing was written.
	assert.Empty(t, env.reservationRepo.reservations)
	assert.Empty(t, env.chatRepo.messages)
}

func TestReserveRejectsActiveReservation(t *testing.T) {
	env := newReservationTestEnv()
	ctx := context.Background()

	// Item reads Available but an active reservation is still open.
	require.NoError(t, env.reservationRepo.Create(ctx, &entity.Reservation{
		ItemID:  "item-1",
		UserID:  "someone",
		StoreID: "store-1",
		Status:  entity.ReservationStatusConfirmed,
	}))

	_, err := env.uc.Reserve(ctx, "buyer", "item-1", "store-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestReserveOwnStore(t *testing.T) {
	env := newReservationTestEnv()

	_, err := env.uc.Reserve(context.Background(), "owner", "item-1", "store-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestReserveItemStoreMismatch(t *testing.T) {
	env := newReservationTestEnv()

	_, err := env.uc.Reserve(context.Background(), "buyer", "item-1", "other-store")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestEnquireSendsTemplatedMessage(t *testing.T) {
	env := newReservationTestEnv()
	ctx := context.Background()

	result, err := env.uc.Enquire(ctx, "buyer", "item-1", "store-1")
	require.NoError(t, err)

	assert.NotEmpty(t, result.MessageID)
	assert.Equal(t, entity.DeriveChatID("buyer", "owner"), result.ChatID)

	messages := env.chatRepo.messagesIn(result.ChatID)
	require.Len(t, messages, 1)
	assert.Equal(t, "Hi! I'm interested in \"Vintage Lamp\". Is it still available?", messages[0].Message)
	assert.Equal(t, "item-1", messages[0].ItemID)
	assert.Equal(t, "store-1", messages[0].StoreID)
}

func TestEnquireOwnStore(t *testing.T) {
	env := newReservationTestEnv()

	_, err := env.uc.Enquire(context.Background(), "owner", "item-1", "store-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestUpdateStatusWorkflow(t *testing.T) {
	env := newReservationTestEnv()
	ctx := context.Background()

	result, err := env.uc.Reserve(ctx, "buyer", "item-1", "store-1")
	require.NoError(t, err)

	reservation, err := env.uc.UpdateStatus(ctx, "owner", result.ReservationID, entity.ReservationStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusConfirmed, reservation.Status)
	assert.Nil(t, reservation.SoldAt)

	reservation, err = env.uc.UpdateStatus(ctx, "owner", result.ReservationID, entity.ReservationStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusCompleted, reservation.Status)
	require.NotNil(t, reservation.SoldAt)

	item, err := env.itemRepo.GetByID(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusSold, item.Status)
}

func TestUpdateStatusCancelReleasesItem(t *testing.T) {
	env := newReservationTestEnv()
	ctx := context.Background()

	result, err := env.uc.Reserve(ctx, "buyer", "item-1", "store-1")
	require.NoError(t, err)

	_, err = env.uc.UpdateStatus(ctx, "owner", result.ReservationID, entity.ReservationStatusCancelled)
	require.NoError(t, err)

	item, err := env.itemRepo.GetByID(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusAvailable, item.Status)
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	env := newReservationTestEnv()
	ctx := context.Background()

	result, err := env.uc.Reserve(ctx, "buyer", "item-1", "store-1")
	require.NoError(t, err)

	// Completing a Pending reservation skips confirmation.
	_, err = env.uc.UpdateStatus(ctx, "owner", result.ReservationID, entity.ReservationStatusCompleted)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))

	// Terminal states never move again.
	_, err = env.uc.UpdateStatus(ctx, "owner", result.ReservationID, entity.ReservationStatusCancelled)
	require.NoError(t, err)
	_, err = env.uc.UpdateStatus(ctx, "owner", result.ReservationID, entity.ReservationStatusConfirmed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestUpdateStatusNonOwner(t *testing.T) {
	env := newReservationTestEnv()
	ctx := context.Background()

	result, err := env.uc.Reserve(ctx, "buyer", "item-1", "store-1")
	require.NoError(t, err)

	_, err = env.uc.UpdateStatus(ctx, "buyer", result.ReservationID, entity.ReservationStatusConfirmed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestListByStoreOwnerGate(t *testing.T) {
	env := newReservationTestEnv()
	ctx := context.Background()

	_, err := env.uc.Reserve(ctx, "buyer", "item-1", "store-1")
	require.NoError(t, err)

	reservations, total, err := env.uc.ListByStore(ctx, "owner", "store-1", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, reservations, 1)

	_, _, err = env.uc.ListByStore(ctx, "buyer", "store-1", 20, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

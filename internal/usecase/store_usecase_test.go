package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thriftfinder/internal/domain/entity"
	"thriftfinder/pkg/errors"
)

func newStoreTestEnv() (*memStoreRepo, *memItemRepo, *StoreUseCase) {
	userRepo := newMemUserRepo(
		&entity.User{ID: "owner", Role: entity.RoleStoreOwner},
		&entity.User{ID: "customer", Role: entity.RoleCustomer},
	)
	storeRepo := newMemStoreRepo()
	itemRepo := newMemItemRepo()

	return storeRepo, itemRepo, NewStoreUseCase(storeRepo, itemRepo, userRepo)
}

func TestCreateStoreRoleGate(t *testing.T) {
	_, _, uc := newStoreTestEnv()

	_, err := uc.CreateStore(context.Background(), "customer", CreateStoreInput{
		StoreName: "Nope",
		Address:   "1 Main St",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestCreateStoreOnePerOwner(t *testing.T) {
	_, _, uc := newStoreTestEnv()
	ctx := context.Background()

	store, err := uc.CreateStore(ctx, "owner", CreateStoreInput{
		StoreName: "Second Chance Finds",
		Address:   "1 Main St",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, store.ID)
	assert.Equal(t, "owner", store.OwnerID)

	_, err = uc.CreateStore(ctx, "owner", CreateStoreInput{
		StoreName: "Another One",
		Address:   "2 Main St",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestCreateItem(t *testing.T) {
	_, itemRepo, uc := newStoreTestEnv()
	ctx := context.Background()

	store, err := uc.CreateStore(ctx, "owner", CreateStoreInput{
		StoreName: "Second Chance Finds",
		Address:   "1 Main St",
	})
	require.NoError(t, err)

	item, err := uc.CreateItem(ctx, "owner", store.ID, CreateItemInput{
		Name:  "Vintage Lamp",
		Price: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusAvailable, item.Status)
	assert.Equal(t, store.ID, item.StoreID)

	stored, err := itemRepo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vintage Lamp", stored.Name)

	// Only the owner can stock their store.
	_, err = uc.CreateItem(ctx, "customer", store.ID, CreateItemInput{
		Name:  "Sneaky Chair",
		Price: 10,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestUpdateItemOwnerGate(t *testing.T) {
	_, _, uc := newStoreTestEnv()
	ctx := context.Background()

	store, err := uc.CreateStore(ctx, "owner", CreateStoreInput{
		StoreName: "Second Chance Finds",
		Address:   "1 Main St",
	})
	require.NoError(t, err)

	item, err := uc.CreateItem(ctx, "owner", store.ID, CreateItemInput{Name: "Lamp", Price: 25})
	require.NoError(t, err)

	updated, err := uc.UpdateItem(ctx, "owner", item.ID, CreateItemInput{Name: "Brass Lamp", Price: 30})
	require.NoError(t, err)
	assert.Equal(t, "Brass Lamp", updated.Name)
	assert.Equal(t, float64(30), updated.Price)
	assert.Equal(t, entity.ItemStatusAvailable, updated.Status)

	_, err = uc.UpdateItem(ctx, "customer", item.ID, CreateItemInput{Name: "Hijacked", Price: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestListItemsByStoreUnknownStore(t *testing.T) {
	_, _, uc := newStoreTestEnv()

	_, _, err := uc.ListItemsByStore(context.Background(), "missing", "", 20, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestListItemsByStoreStatusFilter(t *testing.T) {
	_, itemRepo, uc := newStoreTestEnv()
	ctx := context.Background()

	store, err := uc.CreateStore(ctx, "owner", CreateStoreInput{
		StoreName: "Second Chance Finds",
		Address:   "1 Main St",
	})
	require.NoError(t, err)

	lamp, err := uc.CreateItem(ctx, "owner", store.ID, CreateItemInput{Name: "Lamp", Price: 25})
	require.NoError(t, err)
	_, err = uc.CreateItem(ctx, "owner", store.ID, CreateItemInput{Name: "Chair", Price: 40})
	require.NoError(t, err)

	lamp.Status = entity.ItemStatusReserved
	require.NoError(t, itemRepo.Update(ctx, lamp))

	items, total, err := uc.ListItemsByStore(ctx, store.ID, entity.ItemStatusAvailable, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Chair", items[0].Name)
}

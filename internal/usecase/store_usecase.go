package usecase

import (
	"context"
	"log"

	"thriftfinder/internal/domain/entity"
	"thriftfinder/internal/domain/repository"
	"thriftfinder/pkg/errors"
)

type StoreUseCase struct {
	storeRepo repository.StoreRepository
	itemRepo  repository.ItemRepository
	userRepo  repository.UserRepository
}

func NewStoreUseCase(
	storeRepo repository.StoreRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
) *StoreUseCase {
	return &StoreUseCase{
		storeRepo: storeRepo,
		itemRepo:  itemRepo,
		userRepo:  userRepo,
	}
}

type CreateStoreInput struct {
	StoreName       string
	Description     string
	Address         string
	ProfileImageURL string
	Hours           map[string]entity.StoreHours
}

type CreateItemInput struct {
	Name        string
	Description string
	Price       float64
	Images      []entity.ItemImage
}

func (uc *StoreUseCase) ListStores(ctx context.Context, limit, offset int) ([]*entity.Store, int64, error) {
	return uc.storeRepo.List(ctx, limit, offset)
}

func (uc *StoreUseCase) GetStoreByID(ctx context.Context, id string) (*entity.Store, error) {
	return uc.storeRepo.GetByID(ctx, id)
}

func (uc *StoreUseCase) GetItemByID(ctx context.Context, id string) (*entity.Item, error) {
	return uc.itemRepo.GetByID(ctx, id)
}

func (uc *StoreUseCase) ListItemsByStore(ctx context.Context, storeID, status string, limit, offset int) ([]*entity.Item, int64, error) {
	// Validate the store first so a bad id reads as "store not found"
	// rather than an empty catalog.
	if _, err := uc.storeRepo.GetByID(ctx, storeID); err != nil {
		return nil, 0, err
	}

	return uc.itemRepo.ListByStoreID(ctx, storeID, status, limit, offset)
}

func (uc *StoreUseCase) CreateStore(ctx context.Context, ownerID string, input CreateStoreInput) (*entity.Store, error) {
	owner, err := uc.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.Role != entity.RoleStoreOwner && owner.Role != entity.RoleAdmin {
		return nil, errors.Forbidden("Only store owners can create a store", nil)
	}

	if existing, err := uc.storeRepo.GetByOwnerID(ctx, ownerID); err == nil && existing != nil {
		return nil, errors.Conflict("Owner already has a store")
	}

	store := &entity.Store{
		StoreName:       input.StoreName,
		Description:     input.Description,
		Address:         input.Address,
		OwnerID:         ownerID,
		ProfileImageURL: input.ProfileImageURL,
		Hours:           input.Hours,
	}

	if err := uc.storeRepo.Create(ctx, store); err != nil {
		log.Printf("CreateStore Error: Failed to create store for owner %s: %v", ownerID, err)
		return nil, err
	}

	return store, nil
}

func (uc *StoreUseCase) UpdateStore(ctx context.Context, ownerID, storeID string, input CreateStoreInput) (*entity.Store, error) {
	store, err := uc.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store.OwnerID != ownerID {
		return nil, errors.Forbidden("You can only update your own store", nil)
	}

	store.StoreName = input.StoreName
	store.Description = input.Description
	store.Address = input.Address
	store.ProfileImageURL = input.ProfileImageURL
	store.Hours = input.Hours

	if err := uc.storeRepo.Update(ctx, store); err != nil {
		log.Printf("UpdateStore Error: Failed to update store %s: %v", storeID, err)
		return nil, err
	}

	return store, nil
}

func (uc *StoreUseCase) CreateItem(ctx context.Context, ownerID, storeID string, input CreateItemInput) (*entity.Item, error) {
	store, err := uc.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store.OwnerID != ownerID {
		return nil, errors.Forbidden("You can only add items to your own store", nil)
	}

	item := &entity.Item{
		StoreID:     storeID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Images:      input.Images,
		Status:      entity.ItemStatusAvailable,
	}

	if err := uc.itemRepo.Create(ctx, item); err != nil {
		log.Printf("CreateItem Error: Failed to create item in store %s: %v", storeID, err)
		return nil, err
	}

	return item, nil
}

// UpdateItem edits an item's listing fields. Status is not editable here;
// it only moves through the reservation workflow.
func (uc *StoreUseCase) UpdateItem(ctx context.Context, ownerID, itemID string, input CreateItemInput) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	store, err := uc.storeRepo.GetByID(ctx, item.StoreID)
	if err != nil {
		return nil, err
	}
	if store.OwnerID != ownerID {
		return nil, errors.Forbidden("You can only update items in your own store", nil)
	}

	item.Name = input.Name
	item.Description = input.Description
	item.Price = input.Price
	item.Images = input.Images

	if err := uc.itemRepo.Update(ctx, item); err != nil {
		log.Printf("UpdateItem Error: Failed to update item %s: %v", itemID, err)
		return nil, err
	}

	return item, nil
}

package repository

import (
	"context"

	"thriftfinder/internal/domain/entity"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	GetByID(ctx context.Context, id string) (*entity.Reservation, error)
	ListByStoreID(ctx context.Context, storeID string, limit, offset int) ([]*entity.Reservation, int64, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Reservation, int64, error)
	GetActiveByItemID(ctx context.Context, itemID string) (*entity.Reservation, error)
	Update(ctx context.Context, reservation *entity.Reservation) error
}

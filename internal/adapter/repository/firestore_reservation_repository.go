package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"thriftfinder/internal/domain/entity"
	"thriftfinder/internal/domain/repository"
	"thriftfinder/pkg/errors"
)

type firestoreReservationRepository struct {
	client *firestore.Client
}

func NewFirestoreReservationRepository(client *firestore.Client) repository.ReservationRepository {
	return &firestoreReservationRepository{
		client: client,
	}
}

func (r *firestoreReservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	if reservation.ID == "" {
		reservation.ID = uuid.New().String()
	}
	if reservation.ReservedAt.IsZero() {
		reservation.ReservedAt = time.Now()
	}

	_, err := r.client.Collection("reservations").Doc(reservation.ID).Set(ctx, reservation)
	if err != nil {
		return errors.Internal("Failed to create reservation", err)
	}

	return nil
}

func (r *firestoreReservationRepository) GetByID(ctx context.Context, id string) (*entity.Reservation, error) {
	doc, err := r.client.Collection("reservations").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Reservation", err)
		}
		return nil, errors.Internal("Failed to get reservation", err)
	}

	var reservation entity.Reservation
	if err := doc.DataTo(&reservation); err != nil {
		return nil, errors.Internal("Failed to parse reservation data", err)
	}

	return &reservation, nil
}

func (r *firestoreReservationRepository) GetActiveByItemID(ctx context.Context, itemID string) (*entity.Reservation, error) {
	query := r.client.Collection("reservations").
		Where("itemId", "==", itemID).
		Where("status", "in", []string{entity.ReservationStatusPending, entity.ReservationStatusConfirmed}).
		Limit(1)

	iter := query.Documents(ctx)
	doc, err := iter.Next()

	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Reservation", nil)
		}
		return nil, errors.Internal("Failed to query reservation by item", err)
	}

	var reservation entity.Reservation
	if err := doc.DataTo(&reservation); err != nil {
		return nil, errors.Internal("Failed to parse reservation data", err)
	}

	return &reservation, nil
}

func (r *firestoreReservationRepository) ListByStoreID(ctx context.Context, storeID string, limit, offset int) ([]*entity.Reservation, int64, error) {
	query := r.client.Collection("reservations").Where("storeId", "==", storeID).OrderBy("reservedAt", firestore.Desc)
	return r.list(ctx, query, limit, offset, "store "+storeID)
}

func (r *firestoreReservationRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Reservation, int64, error) {
	query := r.client.Collection("reservations").Where("userId", "==", userID).OrderBy("reservedAt", firestore.Desc)
	return r.list(ctx, query, limit, offset, "user "+userID)
}

func (r *firestoreReservationRepository) list(ctx context.Context, query firestore.Query, limit, offset int, scope string) ([]*entity.Reservation, int64, error) {
	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while counting reservations for %s: %v", scope, err)
		return nil, 0, errors.Internal("Failed to count reservations", err)
	}
	total := int64(len(allDocs))

	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	var reservations []*entity.Reservation

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Firestore error while iterating reservations for %s: %v", scope, err)
			return nil, 0, errors.Internal("Failed to iterate reservations", err)
		}

		var reservation entity.Reservation
		if err := doc.DataTo(&reservation); err != nil {
			log.Printf("Error parsing reservation data for %s: %v", scope, err)
			continue
		}

		reservations = append(reservations, &reservation)
	}

	return reservations, total, nil
}

func (r *firestoreReservationRepository) Update(ctx context.Context, reservation *entity.Reservation) error {
	_, err := r.client.Collection("reservations").Doc(reservation.ID).Set(ctx, reservation)
	if err != nil {
		return errors.Internal("Failed to update reservation", err)
	}

	return nil
}

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

type firestoreStoreRepository struct {
	client *firestore.Client
}

func NewFirestoreStoreRepository(client *firestore.Client) repository.StoreRepository {
	return &firestoreStoreRepository{
		client: client,
	}
}

func (r *firestoreStoreRepository) Create(ctx context.Context, store *entity.Store) error {
	if store.ID == "" {
		store.ID = uuid.New().String()
	}

	now := time.Now()
	store.CreatedAt = now
	store.UpdatedAt = now

	_, err := r.client.Collection("stores").Doc(store.ID).Set(ctx, store)
	if err != nil {
		return errors.Internal("Failed to create store", err)
	}

	return nil
}

func (r *firestoreStoreRepository) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	doc, err := r.client.Collection("stores").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Store", err)
		}
		return nil, errors.Internal("Failed to get store", err)
	}

	var store entity.Store
	if err := doc.DataTo(&store); err != nil {
		return nil, errors.Internal("Failed to parse store data", err)
	}

	return &store, nil
}

func (r *firestoreStoreRepository) GetByOwnerID(ctx context.Context, ownerID string) (*entity.Store, error) {
	query := r.client.Collection("stores").Where("ownerId", "==", ownerID).Limit(1)
	iter := query.Documents(ctx)
	doc, err := iter.Next()

	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Store", nil)
		}
		return nil, errors.Internal("Failed to query store by owner", err)
	}

	var store entity.Store
	if err := doc.DataTo(&store); err != nil {
		return nil, errors.Internal("Failed to parse store data", err)
	}

	return &store, nil
}

func (r *firestoreStoreRepository) List(ctx context.Context, limit, offset int) ([]*entity.Store, int64, error) {
	query := r.client.Collection("stores").OrderBy("storeName", firestore.Asc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while counting stores: %v", err)
		return nil, 0, errors.Internal("Failed to count stores", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var stores []*entity.Store

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Firestore error while iterating stores: %v", err)
			return nil, 0, errors.Internal("Failed to iterate stores", err)
		}

		var store entity.Store
		if err := doc.DataTo(&store); err != nil {
			log.Printf("Error parsing store data: %v", err)
			continue
		}

		stores = append(stores, &store)
	}

	return stores, total, nil
}

func (r *firestoreStoreRepository) Update(ctx context.Context, store *entity.Store) error {
	store.UpdatedAt = time.Now()

	_, err := r.client.Collection("stores").Doc(store.ID).Set(ctx, store)
	if err != nil {
		return errors.Internal("Failed to update store", err)
	}

	return nil
}

func (r *firestoreStoreRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("stores").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete store", err)
	}

	return nil
}

package entity

import (
	"time"
)

type StoreHours struct {
	Open  string `json:"open" firestore:"open"`
	Close string `json:"close" firestore:"close"`
}

type Store struct {
	ID              string                `json:"id" firestore:"id"`
	StoreName       string                `json:"store_name" firestore:"storeName"`
	Description     string                `json:"description,omitempty" firestore:"description,omitempty"`
	Address         string                `json:"address" firestore:"address"`
	OwnerID         string                `json:"owner_id" firestore:"ownerId"`
	ProfileImageURL string                `json:"profile_image_url,omitempty" firestore:"profileImageURL,omitempty"`
	Hours           map[string]StoreHours `json:"hours,omitempty" firestore:"hours,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

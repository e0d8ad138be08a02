package entity

import (
	"time"
)

const (
	ItemStatusAvailable = "Available"
	ItemStatusReserved  = "Reserved"
	ItemStatusSold      = "Sold/Out of Stock"
)

type ItemImage struct {
	ID           string `json:"id" firestore:"id"`
	URL          string `json:"url" firestore:"url"`
	DisplayOrder int    `json:"display_order" firestore:"displayOrder"`
}

type Item struct {
	ID          string      `json:"id" firestore:"id"`
	StoreID     string      `json:"store_id" firestore:"storeId"`
	Name        string      `json:"name" firestore:"name"`
	Description string      `json:"description,omitempty" firestore:"description,omitempty"`
	Price       float64     `json:"price" firestore:"price"`
	Images      []ItemImage `json:"images" firestore:"images"`
	Status      string      `json:"status" firestore:"status"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// CanTransitionTo reports whether an item status change is allowed.
// Available -> Reserved (reserve), Reserved -> Available (cancel),
// Reserved -> Sold (completed reservation).
func (i *Item) CanTransitionTo(status string) bool {
	switch i.Status {
	case ItemStatusAvailable:
		return status == ItemStatusReserved
	case ItemStatusReserved:
		return status == ItemStatusAvailable || status == ItemStatusSold
	default:
		return false
	}
}

package entity

import "time"

const (
	ReservationStatusPending   = "Pending"
	ReservationStatusConfirmed = "Confirmed"
	ReservationStatusCompleted = "Completed"
	ReservationStatusCancelled = "Cancelled"
)

type Reservation struct {
	ID         string     `json:"id" firestore:"id"`
	ItemID     string     `json:"item_id" firestore:"itemId"`
	UserID     string     `json:"user_id" firestore:"userId"`
	StoreID    string     `json:"store_id" firestore:"storeId"`
	Status     string     `json:"status" firestore:"status"`
	ReservedAt time.Time  `json:"reserved_at" firestore:"reservedAt"`
	SoldAt     *time.Time `json:"sold_at,omitempty" firestore:"soldAt,omitempty"`
}

// CanTransitionTo enforces the reservation workflow:
// Pending -> Confirmed -> Completed, with Cancelled reachable from
// Pending or Confirmed. Completed and Cancelled are terminal.
func (r *Reservation) CanTransitionTo(status string) bool {
	switch r.Status {
	case ReservationStatusPending:
		return status == ReservationStatusConfirmed || status == ReservationStatusCancelled
	case ReservationStatusConfirmed:
		return status == ReservationStatusCompleted || status == ReservationStatusCancelled
	default:
		return false
	}
}

// Terminal reports whether the reservation can no longer change status.
func (r *Reservation) Terminal() bool {
	return r.Status == ReservationStatusCompleted || r.Status == ReservationStatusCancelled
}

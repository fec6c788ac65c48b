package models

import "time"

// Reservation statuses. A reservation is immutable after creation except for
// an explicit cancel.
const (
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
)

// Reservation is a committed, conflict-checked booking for a member. At most
// one confirmed reservation may exist per member for any overlapping interval;
// the ledger enforces this.
type Reservation struct {
	ID             string    `bson:"id" json:"id"`
	MemberID       string    `bson:"member_id" json:"member_id"`
	Interval       Interval  `bson:"interval" json:"interval"`
	GuestName      string    `bson:"guest_name" json:"guest_name"`
	GuestEmail     string    `bson:"guest_email" json:"guest_email"`
	Notes          string    `bson:"notes,omitempty" json:"notes,omitempty"`
	IdempotencyKey string    `bson:"idempotency_key" json:"idempotency_key"`
	Status         string    `bson:"status" json:"status"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

// GuestInfo carries the guest-supplied fields of a booking request.
type GuestInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Notes string `json:"notes,omitempty"`
}

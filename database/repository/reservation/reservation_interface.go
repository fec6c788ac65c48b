package reservationRepo

import (
	"context"
	"time"

	"slotbook/models"
)

// ReservationRepository defines data access for confirmed reservations. The
// overlap guarantee itself lives in the booking ledger's per-member exclusive
// section; the repository's uniqueness constraints are an additional safety
// net, not a substitute.
type ReservationRepository interface {
	// Insert stores a new reservation. Implementations must reject a second
	// reservation carrying the same (member, idempotency key) pair.
	Insert(ctx context.Context, reservation *models.Reservation) error

	GetByID(ctx context.Context, id string) (*models.Reservation, error)

	// FindByIdempotencyKey returns the reservation previously committed under
	// the key, or ErrNotFound.
	FindByIdempotencyKey(ctx context.Context, memberID, key string) (*models.Reservation, error)

	// ListConfirmedInRange returns the member's confirmed reservations whose
	// interval overlaps [from, until), ordered by start time.
	ListConfirmedInRange(ctx context.Context, memberID string, from, until time.Time) ([]models.Reservation, error)

	// Cancel marks a reservation cancelled. Cancelled reservations stop
	// occluding slots.
	Cancel(ctx context.Context, id string) error
}

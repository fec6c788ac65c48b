package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	reservationRepo "slotbook/database/repository/reservation"
	"slotbook/models"
	"slotbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationLedger is the single serialization point for reservation writes.
// For a fixed member, no two ReserveIfFree calls may both succeed with
// overlapping intervals, regardless of arrival order or concurrency.
type ReservationLedger interface {
	// ReserveIfFree atomically commits the interval for the member if it
	// overlaps no existing confirmed reservation. A retry carrying the same
	// idempotency key returns the originally committed reservation instead of
	// creating a duplicate or conflicting.
	ReserveIfFree(ctx context.Context, memberID string, interval models.Interval, guest models.GuestInfo, idempotencyKey string) (*models.Reservation, error)

	// ConfirmedInRange lists the member's confirmed reservations overlapping
	// [from, until), ordered by start time.
	ConfirmedInRange(ctx context.Context, memberID string, from, until time.Time) ([]models.Reservation, error)

	// Lookup returns the reservation previously committed under the
	// idempotency key, or reservationRepo.ErrNotFound.
	Lookup(ctx context.Context, memberID, idempotencyKey string) (*models.Reservation, error)

	// Cancel releases a reservation so its interval becomes bookable again.
	Cancel(ctx context.Context, reservationID string) error
}

// DefaultReservationLedger implements ReservationLedger over a reservation
// repository.
//
// The exclusive section is a per-member mutex: member A's commit never blocks
// member B's. The section is held only for the read-check-write of the commit
// path; the storage-level unique index on (member_id, idempotency_key) is a
// safety net underneath it, never a substitute.
type DefaultReservationLedger struct {
	Repo  reservationRepo.ReservationRepository
	locks sync.Map // memberID -> *sync.Mutex
}

// NewDefaultReservationLedger constructs a ledger over the repository.
func NewDefaultReservationLedger(repo reservationRepo.ReservationRepository) *DefaultReservationLedger {
	return &DefaultReservationLedger{Repo: repo}
}

func (l *DefaultReservationLedger) memberLock(memberID string) *sync.Mutex {
	lock, _ := l.locks.LoadOrStore(memberID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (l *DefaultReservationLedger) ReserveIfFree(
	ctx context.Context,
	memberID string,
	interval models.Interval,
	guest models.GuestInfo,
	idempotencyKey string,
) (*models.Reservation, error) {
	logger := utils.GetLogger()

	if _, err := models.NewInterval(interval.Start, interval.End); err != nil {
		return nil, NewInvalidInputError(err.Error())
	}
	if idempotencyKey == "" {
		return nil, NewInvalidInputError("idempotency key is required")
	}

	lock := l.memberLock(memberID)
	lock.Lock()
	defer lock.Unlock()

	// Idempotency first, inside the section: a duplicate submission must be
	// answered deterministically rather than racing a concurrent conflicting
	// booking.
	existing, err := l.Repo.FindByIdempotencyKey(ctx, memberID, idempotencyKey)
	if err == nil {
		logger.Info("returning reservation for replayed idempotency key",
			zap.String("memberID", memberID), zap.String("reservationID", existing.ID))
		return existing, nil
	}
	if !errors.Is(err, reservationRepo.ErrNotFound) {
		return nil, fmt.Errorf("idempotency lookup failed: %w", err)
	}

	// Re-read current state inside the section and overlap-check against
	// every confirmed reservation.
	current, err := l.Repo.ListConfirmedInRange(ctx, memberID, interval.Start, interval.End)
	if err != nil {
		return nil, fmt.Errorf("failed to read current reservations: %w", err)
	}
	for _, r := range current {
		if r.Interval.Overlaps(interval) {
			return nil, NewConflictError(fmt.Sprintf(
				"interval [%s, %s) overlaps reservation %s",
				interval.Start.Format(time.RFC3339), interval.End.Format(time.RFC3339), r.ID))
		}
	}

	reservation := &models.Reservation{
		ID:             uuid.New().String(),
		MemberID:       memberID,
		Interval:       models.Interval{Start: interval.Start.UTC(), End: interval.End.UTC()},
		GuestName:      guest.Name,
		GuestEmail:     guest.Email,
		Notes:          guest.Notes,
		IdempotencyKey: idempotencyKey,
		Status:         models.ReservationConfirmed,
		CreatedAt:      time.Now().UTC(),
	}

	if err := l.Repo.Insert(ctx, reservation); err != nil {
		if errors.Is(err, reservationRepo.ErrDuplicateKey) {
			// The storage net caught a replay the lookup missed.
			if stored, lookupErr := l.Repo.FindByIdempotencyKey(ctx, memberID, idempotencyKey); lookupErr == nil {
				return stored, nil
			}
		}
		return nil, fmt.Errorf("failed to insert reservation: %w", err)
	}

	logger.Info("reservation committed",
		zap.String("memberID", memberID),
		zap.String("reservationID", reservation.ID),
		zap.Time("start", reservation.Interval.Start),
		zap.Time("end", reservation.Interval.End))
	return reservation, nil
}

func (l *DefaultReservationLedger) Lookup(ctx context.Context, memberID, idempotencyKey string) (*models.Reservation, error) {
	return l.Repo.FindByIdempotencyKey(ctx, memberID, idempotencyKey)
}

func (l *DefaultReservationLedger) ConfirmedInRange(ctx context.Context, memberID string, from, until time.Time) ([]models.Reservation, error) {
	return l.Repo.ListConfirmedInRange(ctx, memberID, from, until)
}

func (l *DefaultReservationLedger) Cancel(ctx context.Context, reservationID string) error {
	reservation, err := l.Repo.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}

	lock := l.memberLock(reservation.MemberID)
	lock.Lock()
	defer lock.Unlock()

	return l.Repo.Cancel(ctx, reservationID)
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	memberRepo "slotbook/database/repository/member"
	reservationRepo "slotbook/database/repository/reservation"
	"slotbook/models"
	"slotbook/services/notification"
	"slotbook/utils"

	"go.uber.org/zap"
)

// ReservationService orchestrates the slot resolver and the reservation
// ledger: it answers "list slots" and "book slot" and owns the validation
// discipline between them.
type ReservationService interface {
	ListSlots(ctx context.Context, memberID string, rangeStart, rangeEnd time.Time, slotDuration time.Duration, callerTZ string) (SlotListResult, error)

	// BookSlot commits the requested interval for the member. The interval
	// must exactly match a currently offered slot (a stale client-side list is
	// rejected); only then is the ledger asked to reserve. On success the
	// deterministic confirmation content is returned and handed to the
	// notification collaborator asynchronously.
	BookSlot(ctx context.Context, memberID string, interval models.Interval, guest models.GuestInfo, idempotencyKey, callerTZ string) (*models.Confirmation, error)

	CancelReservation(ctx context.Context, reservationID string) error
}

// DefaultReservationService implements ReservationService.
type DefaultReservationService struct {
	Resolver SlotResolver
	Ledger   ReservationLedger
	Members  memberRepo.MemberRepository
	Notifier notification.Dispatcher // optional; nil skips delivery
}

func (s *DefaultReservationService) ListSlots(ctx context.Context, memberID string, rangeStart, rangeEnd time.Time, slotDuration time.Duration, callerTZ string) (SlotListResult, error) {
	return s.Resolver.ListSlots(ctx, memberID, rangeStart, rangeEnd, slotDuration, callerTZ)
}

// A booking attempt moves Requested -> Validating -> {Reserved | Conflict |
// Invalid}. The transient states are internal; only terminal outcomes are
// observable by the caller.
func (s *DefaultReservationService) BookSlot(
	ctx context.Context,
	memberID string,
	interval models.Interval,
	guest models.GuestInfo,
	idempotencyKey, callerTZ string,
) (*models.Confirmation, error) {
	logger := utils.GetLogger()

	if err := validateGuest(guest); err != nil {
		return nil, err
	}
	if idempotencyKey == "" {
		return nil, NewInvalidInputError("idempotency key is required")
	}
	if _, err := models.NewInterval(interval.Start, interval.End); err != nil {
		return nil, NewInvalidInputError(err.Error())
	}

	member, err := s.Members.GetMemberByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load member %s: %w", memberID, err)
	}

	// A replayed idempotency key short-circuits before any validation: the
	// original commit occupies the slot, and the member may have been disabled
	// since. Either would wrongly reject a retry of an already-committed
	// booking.
	if prior, err := s.Ledger.Lookup(ctx, memberID, idempotencyKey); err == nil {
		logger.Info("replaying confirmation for duplicate booking submission",
			zap.String("memberID", memberID), zap.String("reservationID", prior.ID))
		return BuildConfirmation(prior, member, callerTZ)
	} else if !errors.Is(err, reservationRepo.ErrNotFound) {
		return nil, fmt.Errorf("idempotency lookup failed: %w", err)
	}

	if member.Disabled {
		return nil, NewInvalidSlotError("member is not bookable")
	}

	// Validating: the interval must be exactly one of the currently offered
	// slots, computed fresh. The slot grid is anchored at availability-window
	// starts, never at the resolution range, so resolving over a window one
	// day wide of the interval yields the same slots any listing offered.
	duration := interval.Duration()
	resolved, err := s.Resolver.ListSlots(ctx, memberID,
		interval.Start.Add(-24*time.Hour), interval.End.Add(24*time.Hour),
		duration, callerTZ)
	if err != nil {
		return nil, err
	}
	if !containsSlot(resolved.Slots, interval) {
		return nil, NewInvalidSlotError("requested interval does not match any currently free slot; re-fetch slots")
	}
	if resolved.Degraded {
		logger.Warn("booking while external calendar is unavailable",
			zap.String("memberID", memberID))
	}

	reservation, err := s.Ledger.ReserveIfFree(ctx, memberID, interval, guest, idempotencyKey)
	if err != nil {
		return nil, err
	}

	confirmation, err := BuildConfirmation(reservation, member, callerTZ)
	if err != nil {
		return nil, err
	}

	// Delivery is decoupled from the booking path: an enqueue failure is
	// logged, never surfaced, and never rolls back the reservation.
	if s.Notifier != nil {
		if err := s.Notifier.EnqueueConfirmation(ctx, *confirmation); err != nil {
			logger.Error("failed to enqueue confirmation delivery",
				zap.String("reservationID", reservation.ID), zap.Error(err))
		}
	}
	return confirmation, nil
}

func (s *DefaultReservationService) CancelReservation(ctx context.Context, reservationID string) error {
	return s.Ledger.Cancel(ctx, reservationID)
}

func validateGuest(guest models.GuestInfo) error {
	if strings.TrimSpace(guest.Name) == "" {
		return NewInvalidInputError("guest name is required")
	}
	if !strings.Contains(guest.Email, "@") {
		return NewInvalidInputError("guest email is invalid")
	}
	return nil
}

func containsSlot(slots []models.Slot, interval models.Interval) bool {
	for _, s := range slots {
		if s.Interval.Start.Equal(interval.Start) && s.Interval.End.Equal(interval.End) {
			return true
		}
	}
	return false
}

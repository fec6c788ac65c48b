package booking

import (
	"context"
	"fmt"
	"time"

	memberRepo "slotbook/database/repository/member"
	"slotbook/models"
	"slotbook/services/availability"
	"slotbook/services/calendar"
	"slotbook/utils"

	"go.uber.org/zap"
)

// SlotListResult carries the offerable slots plus a degraded-mode flag: when
// the external busy-calendar lookup fails, slots are still offered but are
// unverified against the member's external calendar, and the caller must be
// told so.
type SlotListResult struct {
	Slots          []models.Slot `json:"slots"`
	Degraded       bool          `json:"degraded"`
	DegradedReason string        `json:"degraded_reason,omitempty"`
}

// SlotResolver computes the currently offerable slots for a member.
type SlotResolver interface {
	// ListSlots computes free slots of slotDuration within
	// [rangeStart, rangeEnd), freshly on every call. Display fields are
	// rendered in callerTZ; the underlying instants stay UTC.
	ListSlots(ctx context.Context, memberID string, rangeStart, rangeEnd time.Time, slotDuration time.Duration, callerTZ string) (SlotListResult, error)
}

// DefaultSlotResolver implements SlotResolver as a pure pipeline over its
// collaborators. Slots lie on a fixed grid anchored at each availability
// window's start; a grid slot is offered when it falls inside the requested
// range and intersects no busy interval and no confirmed reservation. The
// grid is independent of the requested range, so the same instant is offered
// (or not) regardless of how a caller windows the listing. Nothing is cached
// between calls; busy data and reservations are time-varying.
type DefaultSlotResolver struct {
	Members      memberRepo.MemberRepository
	Availability availability.AvailabilityService
	BusySource   calendar.BusySource
	Ledger       ReservationLedger
}

func (r *DefaultSlotResolver) ListSlots(
	ctx context.Context,
	memberID string,
	rangeStart, rangeEnd time.Time,
	slotDuration time.Duration,
	callerTZ string,
) (SlotListResult, error) {
	logger := utils.GetLogger()

	if slotDuration <= 0 {
		return SlotListResult{}, NewInvalidInputError("slot duration must be positive")
	}
	loc, err := time.LoadLocation(callerTZ)
	if err != nil {
		return SlotListResult{}, NewInvalidInputError(fmt.Sprintf("unknown timezone %q", callerTZ))
	}

	member, err := r.Members.GetMemberByID(ctx, memberID)
	if err != nil {
		return SlotListResult{}, fmt.Errorf("failed to load member %s: %w", memberID, err)
	}
	if member.Disabled {
		return SlotListResult{}, nil
	}

	// Candidates are computed one day wide of the range so that an availability
	// window reaching across a range edge keeps its true start. Rule windows
	// never exceed 24 hours, so no window overlapping the range is truncated,
	// and the grid anchor stays the same for every caller-chosen range.
	candidates, err := r.Availability.CandidateIntervals(ctx, memberID,
		rangeStart.Add(-24*time.Hour), rangeEnd.Add(24*time.Hour))
	if err != nil {
		return SlotListResult{}, fmt.Errorf("failed to compute candidate intervals: %w", err)
	}

	result := SlotListResult{}

	var busy []models.Interval
	if member.CalendarRef != "" {
		busy, err = r.BusySource.BusyIntervals(ctx, member.CalendarRef, rangeStart, rangeEnd)
		if err != nil {
			// Degrade rather than block: slots stay offered, flagged as
			// unverified. The ledger still guards against double-booking our
			// own reservations at commit time.
			logger.Warn("busy calendar lookup failed, offering unverified slots",
				zap.String("memberID", memberID), zap.Error(err))
			result.Degraded = true
			result.DegradedReason = "external calendar unavailable; slots not checked against it"
			busy = nil
		}
	}

	reservations, err := r.Ledger.ConfirmedInRange(ctx, memberID, rangeStart, rangeEnd)
	if err != nil {
		return SlotListResult{}, fmt.Errorf("failed to load reservations: %w", err)
	}
	reserved := make([]models.Interval, 0, len(reservations))
	for _, res := range reservations {
		reserved = append(reserved, res.Interval)
	}

	bounds := models.Interval{Start: rangeStart.UTC(), End: rangeEnd.UTC()}
	blocked := models.MergeIntervals(append(busy, reserved...))

	for _, candidate := range candidates {
		for _, slot := range QuantizeInterval(candidate, slotDuration) {
			if !bounds.Contains(slot) || overlapsAny(slot, blocked) {
				continue
			}
			result.Slots = append(result.Slots, models.Slot{
				MemberID:   memberID,
				Interval:   slot,
				Date:       slot.Start.In(loc).Format(models.DateLayout),
				StartLabel: slot.Start.In(loc).Format("15:04"),
				EndLabel:   slot.End.In(loc).Format("15:04"),
				Timezone:   callerTZ,
			})
		}
	}
	return result, nil
}

func overlapsAny(iv models.Interval, others []models.Interval) bool {
	for _, other := range others {
		if iv.Overlaps(other) {
			return true
		}
	}
	return false
}

// QuantizeInterval cuts a free interval into non-overlapping slots of the
// given duration, starting at the interval's start and stepping by the
// duration. A trailing remainder shorter than the duration is discarded.
func QuantizeInterval(iv models.Interval, duration time.Duration) []models.Interval {
	var slots []models.Interval
	for start := iv.Start; !start.Add(duration).After(iv.End); start = start.Add(duration) {
		slots = append(slots, models.Interval{Start: start, End: start.Add(duration)})
	}
	return slots
}

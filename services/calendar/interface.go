package calendar

import (
	"context"
	"time"

	"slotbook/models"
)

// BusySource supplies externally-held busy intervals for a member's connected
// calendar. The engine only consults it per query and never stores or caches
// the results: freshness matters for booking correctness, not just
// performance.
//
// A lookup failure is not fatal to slot listing — the resolver degrades and
// flags the slots as unverified against the external calendar.
type BusySource interface {
	// BusyIntervals returns busy ranges overlapping [from, until) for the
	// given external calendar reference, in UTC.
	BusyIntervals(ctx context.Context, calendarRef string, from, until time.Time) ([]models.Interval, error)
}

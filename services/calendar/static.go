package calendar

import (
	"context"
	"time"

	"slotbook/models"
)

// NoopBusySource reports no busy intervals. Used when a member has no
// connected calendar.
type NoopBusySource struct{}

func (NoopBusySource) BusyIntervals(context.Context, string, time.Time, time.Time) ([]models.Interval, error) {
	return nil, nil
}

// StaticBusySource serves a fixed set of busy intervals, or a fixed error.
// Used by tests.
type StaticBusySource struct {
	Busy []models.Interval
	Err  error
}

func (s StaticBusySource) BusyIntervals(_ context.Context, _ string, from, until time.Time) ([]models.Interval, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	bounds := models.Interval{Start: from.UTC(), End: until.UTC()}
	var out []models.Interval
	for _, iv := range s.Busy {
		if clamped, ok := iv.ClampTo(bounds); ok {
			out = append(out, clamped)
		}
	}
	return out, nil
}

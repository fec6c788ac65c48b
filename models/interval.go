package models

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInvalidInterval is returned when an interval would be empty or inverted.
var ErrInvalidInterval = errors.New("interval start must be before end")

// Interval is a half-open time range [Start, End). Both instants are held in UTC;
// comparisons are therefore safe across callers in different time zones.
type Interval struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

// NewInterval builds a validated Interval. Zero-length and inverted ranges are rejected.
func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("%w: got [%s, %s)", ErrInvalidInterval,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Interval{Start: start.UTC(), End: end.UTC()}, nil
}

// Duration returns the length of the interval.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching endpoints (a.End == b.Start) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether other lies entirely within iv.
func (iv Interval) Contains(other Interval) bool {
	return !other.Start.Before(iv.Start) && !other.End.After(iv.End)
}

// ClampTo trims the interval to the given bounds. The second return value is
// false when nothing of the interval survives the clamp.
func (iv Interval) ClampTo(bounds Interval) (Interval, bool) {
	start := iv.Start
	if start.Before(bounds.Start) {
		start = bounds.Start
	}
	end := iv.End
	if end.After(bounds.End) {
		end = bounds.End
	}
	if !start.Before(end) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// Subtract removes other from iv. The result has zero, one, or two pieces:
// two when other splits iv down the middle.
func (iv Interval) Subtract(other Interval) []Interval {
	if !iv.Overlaps(other) {
		return []Interval{iv}
	}
	var out []Interval
	if iv.Start.Before(other.Start) {
		out = append(out, Interval{Start: iv.Start, End: other.Start})
	}
	if other.End.Before(iv.End) {
		out = append(out, Interval{Start: other.End, End: iv.End})
	}
	return out
}

// MergeIntervals sorts the given intervals by start time and coalesces any
// overlapping or adjacent ones. The input slice is not modified.
func MergeIntervals(ivs []Interval) []Interval {
	if len(ivs) == 0 {
		return nil
	}
	sorted := make([]Interval, len(ivs))
	copy(sorted, ivs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// SubtractAll removes every interval in busy from every interval in free and
// returns the surviving pieces, sorted by start time.
func SubtractAll(free, busy []Interval) []Interval {
	if len(busy) == 0 {
		return MergeIntervals(free)
	}
	remaining := MergeIntervals(free)
	for _, b := range MergeIntervals(busy) {
		var next []Interval
		for _, f := range remaining {
			next = append(next, f.Subtract(b)...)
		}
		remaining = next
	}
	return remaining
}

package models

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the wire and storage format for calendar dates.
	DateLayout = "2006-01-02"

	minutesPerDay = 24 * 60
)

// AvailabilityRule is a recurring weekly availability window owned by a member.
// Start/End are minutes from local midnight in the rule's own timezone; the
// UTC projection of a rule therefore shifts across DST boundaries. Rules never
// span midnight: a cross-midnight window is expressed as two rules.
type AvailabilityRule struct {
	ID             string       `bson:"id" json:"id"`
	MemberID       string       `bson:"member_id" json:"member_id"`
	DayOfWeek      time.Weekday `bson:"day_of_week" json:"day_of_week"` // 0=Sunday .. 6=Saturday
	StartMinute    int          `bson:"start_minute" json:"start_minute"`
	EndMinute      int          `bson:"end_minute" json:"end_minute"`
	Timezone       string       `bson:"timezone" json:"timezone"`
	EffectiveFrom  string       `bson:"effective_from" json:"effective_from"`                       // DateLayout
	EffectiveUntil string       `bson:"effective_until,omitempty" json:"effective_until,omitempty"` // DateLayout, exclusive; empty = open-ended
	CreatedAt      time.Time    `bson:"created_at" json:"created_at"`
}

// Validate rejects malformed rules before they are ever stored.
func (r AvailabilityRule) Validate() error {
	if r.DayOfWeek < time.Sunday || r.DayOfWeek > time.Saturday {
		return fmt.Errorf("invalid day of week %d", r.DayOfWeek)
	}
	if r.StartMinute < 0 || r.EndMinute > minutesPerDay || r.StartMinute >= r.EndMinute {
		return fmt.Errorf("invalid time window [%d, %d): rules must start before they end and stay within one day", r.StartMinute, r.EndMinute)
	}
	if _, err := time.LoadLocation(r.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", r.Timezone, err)
	}
	if _, err := time.Parse(DateLayout, r.EffectiveFrom); err != nil {
		return fmt.Errorf("invalid effective_from date %q: %w", r.EffectiveFrom, err)
	}
	if r.EffectiveUntil != "" {
		until, err := time.Parse(DateLayout, r.EffectiveUntil)
		if err != nil {
			return fmt.Errorf("invalid effective_until date %q: %w", r.EffectiveUntil, err)
		}
		from, _ := time.Parse(DateLayout, r.EffectiveFrom)
		if !until.After(from) {
			return fmt.Errorf("effective_until %s must be after effective_from %s", r.EffectiveUntil, r.EffectiveFrom)
		}
	}
	return nil
}

// CoversDate reports whether the rule is in effect on the given date.
func (r AvailabilityRule) CoversDate(date string) bool {
	if date < r.EffectiveFrom {
		return false
	}
	if r.EffectiveUntil != "" && date >= r.EffectiveUntil {
		return false
	}
	return true
}

// OverrideKind distinguishes the two override behaviours.
type OverrideKind string

const (
	// OverrideAdd unions extra availability into a specific date.
	OverrideAdd OverrideKind = "add"
	// OverrideRemove carves availability out of a specific date, splitting or
	// deleting any rule-derived window it touches.
	OverrideRemove OverrideKind = "remove"
)

// AvailabilityOverride is a one-off adjustment for a single date. It takes
// precedence over recurring rules on that date. The interval is absolute UTC.
type AvailabilityOverride struct {
	ID        string       `bson:"id" json:"id"`
	MemberID  string       `bson:"member_id" json:"member_id"`
	Date      string       `bson:"date" json:"date"` // DateLayout, in the member's rule timezone
	Kind      OverrideKind `bson:"kind" json:"kind"`
	Interval  Interval     `bson:"interval" json:"interval"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
}

// Validate rejects malformed overrides before they are ever stored.
func (o AvailabilityOverride) Validate() error {
	if o.Kind != OverrideAdd && o.Kind != OverrideRemove {
		return fmt.Errorf("invalid override kind %q", o.Kind)
	}
	if _, err := time.Parse(DateLayout, o.Date); err != nil {
		return fmt.Errorf("invalid override date %q: %w", o.Date, err)
	}
	if _, err := NewInterval(o.Interval.Start, o.Interval.End); err != nil {
		return err
	}
	return nil
}

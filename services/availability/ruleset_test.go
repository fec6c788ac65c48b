package availability

import (
	"testing"
	"time"

	"slotbook/models"
)

func at(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return parsed
}

func weeklyRule(day time.Weekday, startMinute, endMinute int, tz string) models.AvailabilityRule {
	return models.AvailabilityRule{
		ID:            "rule-1",
		MemberID:      "member-1",
		DayOfWeek:     day,
		StartMinute:   startMinute,
		EndMinute:     endMinute,
		Timezone:      tz,
		EffectiveFrom: "2020-01-01",
	}
}

func TestCandidateIntervals_WeeklyRule(t *testing.T) {
	t.Parallel()

	// 2026-03-02 is a Monday.
	rangeStart := at(t, "2026-03-02T00:00:00Z")
	rangeEnd := at(t, "2026-03-09T00:00:00Z")

	rules := []models.AvailabilityRule{weeklyRule(time.Monday, 9*60, 12*60, "UTC")}

	out, err := CandidateIntervals(rules, nil, rangeStart, rangeEnd)
	if err != nil {
		t.Fatalf("CandidateIntervals failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected exactly one Monday window in the week, got %v", out)
	}
	if !out[0].Start.Equal(at(t, "2026-03-02T09:00:00Z")) || !out[0].End.Equal(at(t, "2026-03-02T12:00:00Z")) {
		t.Fatalf("unexpected window: %v", out[0])
	}
}

func TestCandidateIntervals_ClampsToRange(t *testing.T) {
	t.Parallel()

	rules := []models.AvailabilityRule{weeklyRule(time.Monday, 9*60, 12*60, "UTC")}

	// Range starts mid-window.
	out, err := CandidateIntervals(rules, nil,
		at(t, "2026-03-02T10:00:00Z"), at(t, "2026-03-03T00:00:00Z"))
	if err != nil {
		t.Fatalf("CandidateIntervals failed: %v", err)
	}
	if len(out) != 1 || !out[0].Start.Equal(at(t, "2026-03-02T10:00:00Z")) {
		t.Fatalf("expected window clamped to range start, got %v", out)
	}
}

func TestCandidateIntervals_MergesOverlappingRules(t *testing.T) {
	t.Parallel()

	rules := []models.AvailabilityRule{
		weeklyRule(time.Monday, 9*60, 11*60, "UTC"),
		weeklyRule(time.Monday, 10*60, 13*60, "UTC"),
	}

	out, err := CandidateIntervals(rules, nil,
		at(t, "2026-03-02T00:00:00Z"), at(t, "2026-03-03T00:00:00Z"))
	if err != nil {
		t.Fatalf("CandidateIntervals failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected overlapping rules to merge into one window, got %v", out)
	}
	if !out[0].Start.Equal(at(t, "2026-03-02T09:00:00Z")) || !out[0].End.Equal(at(t, "2026-03-02T13:00:00Z")) {
		t.Fatalf("unexpected merged window: %v", out[0])
	}
}

func TestCandidateIntervals_EffectiveWindow(t *testing.T) {
	t.Parallel()

	rule := weeklyRule(time.Monday, 9*60, 12*60, "UTC")
	rule.EffectiveFrom = "2026-03-03" // after the Monday in range
	out, err := CandidateIntervals([]models.AvailabilityRule{rule}, nil,
		at(t, "2026-03-02T00:00:00Z"), at(t, "2026-03-03T00:00:00Z"))
	if err != nil {
		t.Fatalf("CandidateIntervals failed: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no windows before effective_from, got %v", out)
	}

	rule.EffectiveFrom = "2020-01-01"
	rule.EffectiveUntil = "2026-03-02" // exclusive, Monday excluded
	out, err = CandidateIntervals([]models.AvailabilityRule{rule}, nil,
		at(t, "2026-03-02T00:00:00Z"), at(t, "2026-03-03T00:00:00Z"))
	if err != nil {
		t.Fatalf("CandidateIntervals failed: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no windows on or after effective_until, got %v", out)
	}
}

func TestCandidateIntervals_Overrides(t *testing.T) {
	t.Parallel()

	rules := []models.AvailabilityRule{weeklyRule(time.Monday, 9*60, 12*60, "UTC")}
	rangeStart := at(t, "2026-03-02T00:00:00Z")
	rangeEnd := at(t, "2026-03-03T00:00:00Z")

	t.Run("add override unions extra availability", func(t *testing.T) {
		t.Parallel()
		overrides := []models.AvailabilityOverride{{
			MemberID: "member-1",
			Date:     "2026-03-02",
			Kind:     models.OverrideAdd,
			Interval: models.Interval{Start: at(t, "2026-03-02T14:00:00Z"), End: at(t, "2026-03-02T16:00:00Z")},
		}}
		out, err := CandidateIntervals(rules, overrides, rangeStart, rangeEnd)
		if err != nil {
			t.Fatalf("CandidateIntervals failed: %v", err)
		}
		if len(out) != 2 {
			t.Fatalf("expected rule window plus added window, got %v", out)
		}
	})

	t.Run("remove override splits a rule window", func(t *testing.T) {
		t.Parallel()
		overrides := []models.AvailabilityOverride{{
			MemberID: "member-1",
			Date:     "2026-03-02",
			Kind:     models.OverrideRemove,
			Interval: models.Interval{Start: at(t, "2026-03-02T10:00:00Z"), End: at(t, "2026-03-02T11:00:00Z")},
		}}
		out, err := CandidateIntervals(rules, overrides, rangeStart, rangeEnd)
		if err != nil {
			t.Fatalf("CandidateIntervals failed: %v", err)
		}
		if len(out) != 2 {
			t.Fatalf("expected the window split in two, got %v", out)
		}
		if !out[0].End.Equal(at(t, "2026-03-02T10:00:00Z")) || !out[1].Start.Equal(at(t, "2026-03-02T11:00:00Z")) {
			t.Fatalf("unexpected split: %v", out)
		}
	})

	t.Run("remove override can erase a whole day", func(t *testing.T) {
		t.Parallel()
		overrides := []models.AvailabilityOverride{{
			MemberID: "member-1",
			Date:     "2026-03-02",
			Kind:     models.OverrideRemove,
			Interval: models.Interval{Start: at(t, "2026-03-02T00:00:00Z"), End: at(t, "2026-03-03T00:00:00Z")},
		}}
		out, err := CandidateIntervals(rules, overrides, rangeStart, rangeEnd)
		if err != nil {
			t.Fatalf("CandidateIntervals failed: %v", err)
		}
		if len(out) != 0 {
			t.Fatalf("expected no availability, got %v", out)
		}
	})
}

func TestCandidateIntervals_DSTSpringForward(t *testing.T) {
	t.Parallel()

	// US DST starts 2026-03-08: America/New_York goes from UTC-5 to UTC-4.
	rules := []models.AvailabilityRule{{
		ID:            "rule-1",
		MemberID:      "member-1",
		DayOfWeek:     time.Monday,
		StartMinute:   9 * 60,
		EndMinute:     17 * 60,
		Timezone:      "America/New_York",
		EffectiveFrom: "2020-01-01",
	}}

	out, err := CandidateIntervals(rules, nil,
		at(t, "2026-03-02T00:00:00Z"), at(t, "2026-03-10T00:00:00Z"))
	if err != nil {
		t.Fatalf("CandidateIntervals failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected two Mondays, got %v", out)
	}
	// Before the transition 09:00 local is 14:00 UTC; after it is 13:00 UTC.
	if !out[0].Start.Equal(at(t, "2026-03-02T14:00:00Z")) {
		t.Fatalf("pre-DST Monday should start 14:00 UTC, got %v", out[0].Start)
	}
	if !out[1].Start.Equal(at(t, "2026-03-09T13:00:00Z")) {
		t.Fatalf("post-DST Monday should start 13:00 UTC, got %v", out[1].Start)
	}
}

func TestCandidateIntervals_ZoneAheadOfUTC(t *testing.T) {
	t.Parallel()

	// A Tokyo morning window projects into the previous UTC date; the day walk
	// must still find it when the UTC range starts exactly at the window.
	rules := []models.AvailabilityRule{weeklyRule(time.Monday, 9*60, 12*60, "Asia/Tokyo")}

	out, err := CandidateIntervals(rules, nil,
		at(t, "2026-03-02T00:00:00Z"), at(t, "2026-03-02T06:00:00Z"))
	if err != nil {
		t.Fatalf("CandidateIntervals failed: %v", err)
	}
	// Monday 09:00-12:00 JST is Monday 00:00-03:00 UTC.
	if len(out) != 1 || !out[0].Start.Equal(at(t, "2026-03-02T00:00:00Z")) || !out[0].End.Equal(at(t, "2026-03-02T03:00:00Z")) {
		t.Fatalf("unexpected Tokyo projection: %v", out)
	}
}

func TestCandidateIntervals_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := CandidateIntervals(nil, nil, at(t, "2026-03-02T00:00:00Z"), at(t, "2026-03-02T00:00:00Z")); err == nil {
		t.Fatal("expected error for empty range")
	}
	rules := []models.AvailabilityRule{weeklyRule(time.Monday, 9*60, 12*60, "Not/AZone")}
	if _, err := CandidateIntervals(rules, nil, at(t, "2026-03-02T00:00:00Z"), at(t, "2026-03-03T00:00:00Z")); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

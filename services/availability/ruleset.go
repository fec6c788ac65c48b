package availability

import (
	"fmt"
	"time"

	"slotbook/models"
)

// CandidateIntervals evaluates a member's recurring rules and one-off
// overrides over [rangeStart, rangeEnd) and returns the merged candidate
// availability in UTC, sorted by start time.
//
// The evaluation is a pure function of its inputs so it can be property-tested
// without storage. For each calendar day in the range, every weekly rule whose
// weekday and effective window cover that day is materialized as local
// wall-clock times in the rule's own timezone; time.Date in the loaded
// Location resolves the UTC offset per date, so a 09:00-17:00 rule projects to
// different UTC instants across a DST transition. Add-overrides are unioned in
// and remove-overrides subtracted (splitting intervals where needed) before
// the final merge.
func CandidateIntervals(
	rules []models.AvailabilityRule,
	overrides []models.AvailabilityOverride,
	rangeStart, rangeEnd time.Time,
) ([]models.Interval, error) {
	if !rangeStart.Before(rangeEnd) {
		return nil, fmt.Errorf("%w: range [%s, %s)", models.ErrInvalidInterval,
			rangeStart.Format(time.RFC3339), rangeEnd.Format(time.RFC3339))
	}
	bounds := models.Interval{Start: rangeStart.UTC(), End: rangeEnd.UTC()}

	locations := make(map[string]*time.Location)
	loadLocation := func(name string) (*time.Location, error) {
		if loc, ok := locations[name]; ok {
			return loc, nil
		}
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
		}
		locations[name] = loc
		return loc, nil
	}

	var raw, removes []models.Interval

	for _, rule := range rules {
		loc, err := loadLocation(rule.Timezone)
		if err != nil {
			return nil, err
		}

		// Walk one day beyond each edge of the range in the rule's zone: a
		// rule window on an adjacent local date can still project into the
		// requested UTC range.
		dayCursor := rangeStart.In(loc).AddDate(0, 0, -1)
		dayCursor = time.Date(dayCursor.Year(), dayCursor.Month(), dayCursor.Day(), 0, 0, 0, 0, loc)
		lastDay := rangeEnd.In(loc).AddDate(0, 0, 1)

		for day := dayCursor; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
			if day.Weekday() != rule.DayOfWeek {
				continue
			}
			if !rule.CoversDate(day.Format(models.DateLayout)) {
				continue
			}
			start := time.Date(day.Year(), day.Month(), day.Day(),
				rule.StartMinute/60, rule.StartMinute%60, 0, 0, loc)
			end := time.Date(day.Year(), day.Month(), day.Day(),
				rule.EndMinute/60, rule.EndMinute%60, 0, 0, loc)
			if !start.Before(end) {
				// A DST transition can swallow the whole window.
				continue
			}
			iv, ok := models.Interval{Start: start.UTC(), End: end.UTC()}.ClampTo(bounds)
			if !ok {
				continue
			}
			raw = append(raw, iv)
		}
	}

	for _, o := range overrides {
		switch o.Kind {
		case models.OverrideAdd:
			if iv, ok := o.Interval.ClampTo(bounds); ok {
				raw = append(raw, iv)
			}
		case models.OverrideRemove:
			// Remove-overrides are stored as absolute intervals; they can only
			// touch candidates on their own date, so a global subtraction is
			// equivalent to per-date precedence.
			removes = append(removes, o.Interval)
		}
	}

	result := models.SubtractAll(raw, removes)
	return models.MergeIntervals(result), nil
}

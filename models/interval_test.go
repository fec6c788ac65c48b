package models

import (
	"errors"
	"testing"
	"time"
)

func mustInterval(t *testing.T, start, end time.Time) Interval {
	t.Helper()
	iv, err := NewInterval(start, end)
	if err != nil {
		t.Fatalf("NewInterval(%v, %v) failed: %v", start, end, err)
	}
	return iv
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return parsed
}

func TestNewInterval(t *testing.T) {
	t.Parallel()

	start := at(t, "2026-03-02T09:00:00Z")

	if _, err := NewInterval(start, start); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval for zero-length interval, got %v", err)
	}
	if _, err := NewInterval(start.Add(time.Hour), start); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval for inverted interval, got %v", err)
	}

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	iv, err := NewInterval(start.In(loc), start.Add(time.Hour).In(loc))
	if err != nil {
		t.Fatalf("NewInterval failed: %v", err)
	}
	if iv.Start.Location() != time.UTC || iv.End.Location() != time.UTC {
		t.Fatalf("expected interval normalized to UTC, got %v / %v", iv.Start.Location(), iv.End.Location())
	}
}

func TestIntervalOverlaps(t *testing.T) {
	t.Parallel()

	nine := at(t, "2026-03-02T09:00:00Z")
	ten := nine.Add(time.Hour)
	eleven := ten.Add(time.Hour)

	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", mustInterval(t, nine, ten), mustInterval(t, eleven, eleven.Add(time.Hour)), false},
		{"touching endpoints do not overlap", mustInterval(t, nine, ten), mustInterval(t, ten, eleven), false},
		{"partial overlap", mustInterval(t, nine, eleven), mustInterval(t, ten, eleven.Add(time.Hour)), true},
		{"containment", mustInterval(t, nine, eleven.Add(time.Hour)), mustInterval(t, ten, eleven), true},
		{"identical", mustInterval(t, nine, ten), mustInterval(t, nine, ten), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Fatalf("Overlaps is not symmetric: reversed = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIntervalSubtract(t *testing.T) {
	t.Parallel()

	nine := at(t, "2026-03-02T09:00:00Z")
	full := mustInterval(t, nine, nine.Add(3*time.Hour)) // 09:00-12:00

	t.Run("no overlap returns the original", func(t *testing.T) {
		t.Parallel()
		out := full.Subtract(mustInterval(t, nine.Add(4*time.Hour), nine.Add(5*time.Hour)))
		if len(out) != 1 || out[0] != full {
			t.Fatalf("expected original interval back, got %v", out)
		}
	})

	t.Run("middle split yields two pieces", func(t *testing.T) {
		t.Parallel()
		out := full.Subtract(mustInterval(t, nine.Add(time.Hour), nine.Add(2*time.Hour)))
		if len(out) != 2 {
			t.Fatalf("expected 2 pieces, got %v", out)
		}
		if !out[0].End.Equal(nine.Add(time.Hour)) || !out[1].Start.Equal(nine.Add(2*time.Hour)) {
			t.Fatalf("unexpected split: %v", out)
		}
	})

	t.Run("full cover yields nothing", func(t *testing.T) {
		t.Parallel()
		out := full.Subtract(mustInterval(t, nine.Add(-time.Hour), nine.Add(4*time.Hour)))
		if len(out) != 0 {
			t.Fatalf("expected empty result, got %v", out)
		}
	})
}

func TestMergeIntervals(t *testing.T) {
	t.Parallel()

	nine := at(t, "2026-03-02T09:00:00Z")

	out := MergeIntervals([]Interval{
		mustInterval(t, nine.Add(2*time.Hour), nine.Add(3*time.Hour)),
		mustInterval(t, nine, nine.Add(time.Hour)),
		mustInterval(t, nine.Add(time.Hour), nine.Add(2*time.Hour)), // adjacent, coalesces
		mustInterval(t, nine.Add(5*time.Hour), nine.Add(6*time.Hour)),
	})
	if len(out) != 2 {
		t.Fatalf("expected 2 merged intervals, got %v", out)
	}
	if !out[0].Start.Equal(nine) || !out[0].End.Equal(nine.Add(3*time.Hour)) {
		t.Fatalf("unexpected first merged interval: %v", out[0])
	}
}

func TestSubtractAll(t *testing.T) {
	t.Parallel()

	nine := at(t, "2026-03-02T09:00:00Z")
	free := []Interval{mustInterval(t, nine, nine.Add(3*time.Hour))}
	busy := []Interval{
		mustInterval(t, nine.Add(30*time.Minute), nine.Add(time.Hour)),
		mustInterval(t, nine.Add(2*time.Hour), nine.Add(150*time.Minute)),
	}

	out := SubtractAll(free, busy)
	if len(out) != 3 {
		t.Fatalf("expected 3 free pieces, got %v", out)
	}
	for i, piece := range out {
		for _, b := range busy {
			if piece.Overlaps(b) {
				t.Fatalf("piece %d %v overlaps busy %v", i, piece, b)
			}
		}
	}
}

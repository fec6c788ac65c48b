package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"slotbook/models"
	"slotbook/services/calendar"
)

// dispatcherStub records enqueued confirmations.
type dispatcherStub struct {
	mu       sync.Mutex
	enqueued []models.Confirmation
	err      error
}

func (d *dispatcherStub) EnqueueConfirmation(_ context.Context, confirmation models.Confirmation) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.enqueued = append(d.enqueued, confirmation)
	return nil
}

func (d *dispatcherStub) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.enqueued)
}

func newServiceFixture(t *testing.T) (*DefaultReservationService, *resolverFixture, *dispatcherStub) {
	t.Helper()
	f := newResolverFixture(t, calendar.NoopBusySource{})
	notifier := &dispatcherStub{}
	svc := &DefaultReservationService{
		Resolver: f.resolver,
		Ledger:   f.ledger,
		Members:  f.resolver.Members,
		Notifier: notifier,
	}
	return svc, f, notifier
}

func firstOfferedSlot(t *testing.T, svc *DefaultReservationService, f *resolverFixture) models.Interval {
	t.Helper()
	from, until := f.mondayRange(t)
	result, err := svc.ListSlots(context.Background(), f.memberID, from, until, 30*time.Minute, "UTC")
	if err != nil {
		t.Fatalf("ListSlots failed: %v", err)
	}
	if len(result.Slots) == 0 {
		t.Fatal("expected at least one offered slot")
	}
	return result.Slots[0].Interval
}

func TestBookSlot(t *testing.T) {
	t.Parallel()

	t.Run("books an offered slot and enqueues the confirmation", func(t *testing.T) {
		t.Parallel()
		svc, f, notifier := newServiceFixture(t)
		slot := firstOfferedSlot(t, svc, f)

		confirmation, err := svc.BookSlot(context.Background(), f.memberID, slot, testGuest(), "key-1", "UTC")
		if err != nil {
			t.Fatalf("BookSlot failed: %v", err)
		}
		if confirmation.UID == "" {
			t.Fatal("expected a confirmation UID")
		}
		if confirmation.GuestEmail != "ada@example.com" || confirmation.MemberName != "Grace Hopper" {
			t.Fatalf("unexpected confirmation content: %+v", confirmation)
		}
		if !confirmation.Start.Equal(slot.Start) || !confirmation.End.Equal(slot.End) {
			t.Fatalf("confirmation interval mismatch: %+v", confirmation)
		}
		if notifier.count() != 1 {
			t.Fatalf("expected one enqueued confirmation, got %d", notifier.count())
		}
	})

	t.Run("booked slot disappears from subsequent listings", func(t *testing.T) {
		t.Parallel()
		svc, f, _ := newServiceFixture(t)
		slot := firstOfferedSlot(t, svc, f)

		if _, err := svc.BookSlot(context.Background(), f.memberID, slot, testGuest(), "key-1", "UTC"); err != nil {
			t.Fatalf("BookSlot failed: %v", err)
		}

		from, until := f.mondayRange(t)
		result, err := svc.ListSlots(context.Background(), f.memberID, from, until, 30*time.Minute, "UTC")
		if err != nil {
			t.Fatalf("ListSlots failed: %v", err)
		}
		for _, s := range result.Slots {
			if s.Interval.Start.Equal(slot.Start) {
				t.Fatalf("booked slot still offered: %+v", s)
			}
		}
	})

	t.Run("rejects an interval that matches no offered slot", func(t *testing.T) {
		t.Parallel()
		svc, f, notifier := newServiceFixture(t)
		slot := firstOfferedSlot(t, svc, f)

		// Shifted off the quantization grid.
		misaligned := models.Interval{Start: slot.Start.Add(10 * time.Minute), End: slot.End.Add(10 * time.Minute)}
		_, err := svc.BookSlot(context.Background(), f.memberID, misaligned, testGuest(), "key-1", "UTC")
		if !IsCode(err, CodeInvalidSlot) {
			t.Fatalf("expected invalid slot error, got %v", err)
		}
		if notifier.count() != 0 {
			t.Fatal("nothing should be enqueued for a failed booking")
		}
	})

	t.Run("second guest taking the same slot is rejected", func(t *testing.T) {
		t.Parallel()
		svc, f, _ := newServiceFixture(t)
		slot := firstOfferedSlot(t, svc, f)

		if _, err := svc.BookSlot(context.Background(), f.memberID, slot, testGuest(), "key-1", "UTC"); err != nil {
			t.Fatalf("first BookSlot failed: %v", err)
		}
		_, err := svc.BookSlot(context.Background(), f.memberID, slot,
			models.GuestInfo{Name: "Alan Turing", Email: "alan@example.com"}, "key-2", "UTC")
		if !IsCode(err, CodeInvalidSlot) && !IsCode(err, CodeConflict) {
			t.Fatalf("expected the second booking rejected, got %v", err)
		}
	})

	t.Run("replayed idempotency key returns the same confirmation without revalidation", func(t *testing.T) {
		t.Parallel()
		svc, f, notifier := newServiceFixture(t)
		slot := firstOfferedSlot(t, svc, f)

		first, err := svc.BookSlot(context.Background(), f.memberID, slot, testGuest(), "key-1", "UTC")
		if err != nil {
			t.Fatalf("first BookSlot failed: %v", err)
		}
		// The slot is now occupied by the original commit; the retry must still
		// succeed and return identical content.
		second, err := svc.BookSlot(context.Background(), f.memberID, slot, testGuest(), "key-1", "UTC")
		if err != nil {
			t.Fatalf("replayed BookSlot failed: %v", err)
		}
		if second.UID != first.UID {
			t.Fatalf("expected identical confirmation UID, got %s and %s", first.UID, second.UID)
		}
		if f.repo.Count() != 1 {
			t.Fatalf("expected one stored reservation, got %d", f.repo.Count())
		}
		if notifier.count() != 1 {
			t.Fatalf("a replay must not enqueue another delivery, got %d", notifier.count())
		}
	})

	t.Run("every offered slot is bookable when the window crosses midnight UTC", func(t *testing.T) {
		t.Parallel()
		// Monday 00:30-08:00 Berlin starts on Sunday in UTC; booking resolves
		// over a different window than the listing did and must still arrive
		// at the same slot grid.
		f := newResolverFixtureWithRule(t, calendar.NoopBusySource{}, &models.AvailabilityRule{
			DayOfWeek:     time.Monday,
			StartMinute:   30,
			EndMinute:     8 * 60,
			Timezone:      "Europe/Berlin",
			EffectiveFrom: "2020-01-01",
		})
		svc := &DefaultReservationService{
			Resolver: f.resolver,
			Ledger:   f.ledger,
			Members:  f.resolver.Members,
		}

		from, until := f.mondayRange(t)
		result, err := svc.ListSlots(context.Background(), f.memberID, from, until, time.Hour, "UTC")
		if err != nil {
			t.Fatalf("ListSlots failed: %v", err)
		}
		if len(result.Slots) == 0 {
			t.Fatal("expected slots from the cross-midnight window")
		}
		slot := result.Slots[0].Interval
		confirmation, err := svc.BookSlot(context.Background(), f.memberID, slot, testGuest(), "key-1", "UTC")
		if err != nil {
			t.Fatalf("an offered slot must be bookable, got %v", err)
		}
		if !confirmation.Start.Equal(slot.Start) {
			t.Fatalf("confirmation interval mismatch: %+v", confirmation)
		}
	})

	t.Run("replay succeeds after the member is disabled", func(t *testing.T) {
		t.Parallel()
		svc, f, _ := newServiceFixture(t)
		slot := firstOfferedSlot(t, svc, f)

		first, err := svc.BookSlot(context.Background(), f.memberID, slot, testGuest(), "key-1", "UTC")
		if err != nil {
			t.Fatalf("BookSlot failed: %v", err)
		}
		if err := svc.Members.SetMemberDisabled(context.Background(), f.memberID, true); err != nil {
			t.Fatalf("failed to disable member: %v", err)
		}

		// A retry of the committed booking still replays its confirmation.
		second, err := svc.BookSlot(context.Background(), f.memberID, slot, testGuest(), "key-1", "UTC")
		if err != nil {
			t.Fatalf("replay after disable failed: %v", err)
		}
		if second.UID != first.UID {
			t.Fatalf("expected UID %s, got %s", first.UID, second.UID)
		}

		// A fresh booking against the disabled member is still rejected.
		if _, err := svc.BookSlot(context.Background(), f.memberID, slot, testGuest(), "key-2", "UTC"); !IsCode(err, CodeInvalidSlot) {
			t.Fatalf("expected invalid slot for a disabled member, got %v", err)
		}
	})

	t.Run("validates guest input", func(t *testing.T) {
		t.Parallel()
		svc, f, _ := newServiceFixture(t)
		slot := firstOfferedSlot(t, svc, f)

		cases := []struct {
			name  string
			guest models.GuestInfo
			key   string
		}{
			{"empty name", models.GuestInfo{Name: " ", Email: "a@b.c"}, "key-1"},
			{"bad email", models.GuestInfo{Name: "Ada", Email: "not-an-email"}, "key-1"},
			{"missing idempotency key", testGuest(), ""},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := svc.BookSlot(context.Background(), f.memberID, slot, tc.guest, tc.key, "UTC"); !IsCode(err, CodeInvalidInput) {
					t.Fatalf("expected invalid input, got %v", err)
				}
			})
		}
	})

	t.Run("enqueue failure never fails the booking", func(t *testing.T) {
		t.Parallel()
		svc, f, notifier := newServiceFixture(t)
		notifier.err = errors.New("queue down")
		slot := firstOfferedSlot(t, svc, f)

		if _, err := svc.BookSlot(context.Background(), f.memberID, slot, testGuest(), "key-1", "UTC"); err != nil {
			t.Fatalf("BookSlot should succeed despite enqueue failure: %v", err)
		}
		if f.repo.Count() != 1 {
			t.Fatalf("expected the reservation committed, got %d", f.repo.Count())
		}
	})
}

func TestCancelReservation(t *testing.T) {
	t.Parallel()

	svc, f, _ := newServiceFixture(t)
	slot := firstOfferedSlot(t, svc, f)

	confirmation, err := svc.BookSlot(context.Background(), f.memberID, slot, testGuest(), "key-1", "UTC")
	if err != nil {
		t.Fatalf("BookSlot failed: %v", err)
	}
	if err := svc.CancelReservation(context.Background(), confirmation.UID); err != nil {
		t.Fatalf("CancelReservation failed: %v", err)
	}

	// The slot is offerable again.
	from, until := f.mondayRange(t)
	result, err := svc.ListSlots(context.Background(), f.memberID, from, until, 30*time.Minute, "UTC")
	if err != nil {
		t.Fatalf("ListSlots failed: %v", err)
	}
	found := false
	for _, s := range result.Slots {
		if s.Interval.Start.Equal(slot.Start) {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the cancelled slot to be offered again")
	}
}

func TestBuildConfirmationDeterminism(t *testing.T) {
	t.Parallel()

	reservation := &models.Reservation{
		ID:         "res-1",
		MemberID:   "member-1",
		Interval:   models.Interval{Start: at(t, "2026-03-02T14:00:00Z"), End: at(t, "2026-03-02T14:30:00Z")},
		GuestName:  "Ada Lovelace",
		GuestEmail: "ada@example.com",
		Notes:      "bring the difference engine",
		Status:     models.ReservationConfirmed,
		CreatedAt:  at(t, "2026-03-01T08:00:00Z"),
	}
	member := &models.Member{ID: "member-1", Name: "Grace Hopper", DisplayEmail: "grace@example.com"}

	first, err := BuildConfirmation(reservation, member, "America/New_York")
	if err != nil {
		t.Fatalf("BuildConfirmation failed: %v", err)
	}
	second, err := BuildConfirmation(reservation, member, "America/New_York")
	if err != nil {
		t.Fatalf("BuildConfirmation failed: %v", err)
	}
	if *first != *second {
		t.Fatalf("confirmation not deterministic:\n%+v\n%+v", first, second)
	}
	if first.UID != reservation.ID {
		t.Fatalf("expected UID to be the reservation ID, got %q", first.UID)
	}
	// 14:00 UTC is 09:00 in New York before DST.
	if first.LocalStart != "09:00" || first.LocalDate != "2026-03-02" {
		t.Fatalf("unexpected localized fields: %+v", first)
	}

	if _, err := BuildConfirmation(reservation, member, "Not/AZone"); !IsCode(err, CodeInvalidInput) {
		t.Fatalf("expected invalid input for unknown timezone, got %v", err)
	}
}

package reservationRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"slotbook/models"
)

// MemoryReservationRepo is an in-memory ReservationRepository for tests and
// local development without a database. It mirrors the mongo repository's
// uniqueness behaviour on (member_id, idempotency_key).
type MemoryReservationRepo struct {
	mu           sync.RWMutex
	reservations map[string]models.Reservation
}

// NewMemoryReservationRepo constructs an empty in-memory repository.
func NewMemoryReservationRepo() *MemoryReservationRepo {
	return &MemoryReservationRepo{
		reservations: make(map[string]models.Reservation),
	}
}

func (repo *MemoryReservationRepo) Insert(_ context.Context, reservation *models.Reservation) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, r := range repo.reservations {
		if r.MemberID == reservation.MemberID && r.IdempotencyKey == reservation.IdempotencyKey {
			return ErrDuplicateKey
		}
	}
	repo.reservations[reservation.ID] = *reservation
	return nil
}

func (repo *MemoryReservationRepo) GetByID(_ context.Context, id string) (*models.Reservation, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	r, ok := repo.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (repo *MemoryReservationRepo) FindByIdempotencyKey(_ context.Context, memberID, key string) (*models.Reservation, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	for _, r := range repo.reservations {
		if r.MemberID == memberID && r.IdempotencyKey == key {
			out := r
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (repo *MemoryReservationRepo) ListConfirmedInRange(_ context.Context, memberID string, from, until time.Time) ([]models.Reservation, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	var out []models.Reservation
	for _, r := range repo.reservations {
		if r.MemberID != memberID || r.Status != models.ReservationConfirmed {
			continue
		}
		if r.Interval.Start.Before(until) && r.Interval.End.After(from) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Interval.Start.Before(out[j].Interval.Start)
	})
	return out, nil
}

func (repo *MemoryReservationRepo) Cancel(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	r, ok := repo.reservations[id]
	if !ok || r.Status != models.ReservationConfirmed {
		return ErrNotFound
	}
	r.Status = models.ReservationCancelled
	repo.reservations[id] = r
	return nil
}

// Count returns the number of stored reservations regardless of status.
func (repo *MemoryReservationRepo) Count() int {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return len(repo.reservations)
}

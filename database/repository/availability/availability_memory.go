package availabilityRepo

import (
	"context"
	"sync"

	"slotbook/models"
)

// MemoryAvailabilityRepo is an in-memory AvailabilityRepository for tests and
// local development without a database.
type MemoryAvailabilityRepo struct {
	mu        sync.RWMutex
	rules     map[string]models.AvailabilityRule
	overrides map[string]models.AvailabilityOverride
}

// NewMemoryAvailabilityRepo constructs an empty in-memory repository.
func NewMemoryAvailabilityRepo() *MemoryAvailabilityRepo {
	return &MemoryAvailabilityRepo{
		rules:     make(map[string]models.AvailabilityRule),
		overrides: make(map[string]models.AvailabilityOverride),
	}
}

func (repo *MemoryAvailabilityRepo) CreateRule(_ context.Context, rule *models.AvailabilityRule) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.rules[rule.ID] = *rule
	return nil
}

func (repo *MemoryAvailabilityRepo) DeleteRule(_ context.Context, memberID, ruleID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	rule, ok := repo.rules[ruleID]
	if !ok || rule.MemberID != memberID {
		return ErrNotFound
	}
	delete(repo.rules, ruleID)
	return nil
}

func (repo *MemoryAvailabilityRepo) ListRulesByMember(_ context.Context, memberID string) ([]models.AvailabilityRule, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	var out []models.AvailabilityRule
	for _, r := range repo.rules {
		if r.MemberID == memberID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (repo *MemoryAvailabilityRepo) CreateOverride(_ context.Context, override *models.AvailabilityOverride) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.overrides[override.ID] = *override
	return nil
}

func (repo *MemoryAvailabilityRepo) DeleteOverride(_ context.Context, memberID, overrideID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	override, ok := repo.overrides[overrideID]
	if !ok || override.MemberID != memberID {
		return ErrNotFound
	}
	delete(repo.overrides, overrideID)
	return nil
}

func (repo *MemoryAvailabilityRepo) ListOverridesInRange(_ context.Context, memberID, from, until string) ([]models.AvailabilityOverride, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	var out []models.AvailabilityOverride
	for _, o := range repo.overrides {
		if o.MemberID == memberID && o.Date >= from && o.Date < until {
			out = append(out, o)
		}
	}
	return out, nil
}

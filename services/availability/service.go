package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	availabilityRepo "slotbook/database/repository/availability"
	"slotbook/models"
	"slotbook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const rulesCacheTTL = 5 * time.Minute

// AvailabilityService manages availability rules and evaluates candidate
// intervals for the slot resolver.
type AvailabilityService interface {
	// CandidateIntervals returns the member's merged availability in UTC for
	// [rangeStart, rangeEnd), sorted by start time.
	CandidateIntervals(ctx context.Context, memberID string, rangeStart, rangeEnd time.Time) ([]models.Interval, error)

	DefineRule(ctx context.Context, rule *models.AvailabilityRule) error
	RemoveRule(ctx context.Context, memberID, ruleID string) error
	ListRules(ctx context.Context, memberID string) ([]models.AvailabilityRule, error)

	DefineOverride(ctx context.Context, override *models.AvailabilityOverride) error
	RemoveOverride(ctx context.Context, memberID, overrideID string) error
}

// DefaultAvailabilityService implements AvailabilityService. Rules are
// read-mostly, so they are cached in Redis; the cache is invalidated on every
// write. Reservation and busy data are never cached here.
type DefaultAvailabilityService struct {
	Repo  availabilityRepo.AvailabilityRepository
	Cache *redis.Client // optional; nil disables caching
}

func (s *DefaultAvailabilityService) CandidateIntervals(ctx context.Context, memberID string, rangeStart, rangeEnd time.Time) ([]models.Interval, error) {
	rules, err := s.rulesForMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	// Overrides are fetched one day wide of the range: an override interval in
	// a distant zone can belong to an adjacent local date.
	from := rangeStart.UTC().AddDate(0, 0, -1).Format(models.DateLayout)
	until := rangeEnd.UTC().AddDate(0, 0, 1).Format(models.DateLayout)
	overrides, err := s.Repo.ListOverridesInRange(ctx, memberID, from, until)
	if err != nil {
		return nil, fmt.Errorf("failed to load overrides for member %s: %w", memberID, err)
	}

	return CandidateIntervals(rules, overrides, rangeStart, rangeEnd)
}

func (s *DefaultAvailabilityService) DefineRule(ctx context.Context, rule *models.AvailabilityRule) error {
	if err := rule.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	rule.CreatedAt = time.Now().UTC()
	if err := s.Repo.CreateRule(ctx, rule); err != nil {
		return err
	}
	s.invalidateRules(ctx, rule.MemberID)
	return nil
}

func (s *DefaultAvailabilityService) RemoveRule(ctx context.Context, memberID, ruleID string) error {
	if err := s.Repo.DeleteRule(ctx, memberID, ruleID); err != nil {
		return err
	}
	s.invalidateRules(ctx, memberID)
	return nil
}

func (s *DefaultAvailabilityService) ListRules(ctx context.Context, memberID string) ([]models.AvailabilityRule, error) {
	return s.rulesForMember(ctx, memberID)
}

func (s *DefaultAvailabilityService) DefineOverride(ctx context.Context, override *models.AvailabilityOverride) error {
	if err := override.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	if override.ID == "" {
		override.ID = uuid.New().String()
	}
	override.CreatedAt = time.Now().UTC()
	return s.Repo.CreateOverride(ctx, override)
}

func (s *DefaultAvailabilityService) RemoveOverride(ctx context.Context, memberID, overrideID string) error {
	return s.Repo.DeleteOverride(ctx, memberID, overrideID)
}

func rulesCacheKey(memberID string) string {
	return "availability:rules:" + memberID
}

func (s *DefaultAvailabilityService) rulesForMember(ctx context.Context, memberID string) ([]models.AvailabilityRule, error) {
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, rulesCacheKey(memberID)).Result(); err == nil {
			var rules []models.AvailabilityRule
			if err := json.Unmarshal([]byte(cached), &rules); err == nil {
				return rules, nil
			}
		}
	}

	rules, err := s.Repo.ListRulesByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules for member %s: %w", memberID, err)
	}

	if s.Cache != nil {
		if data, err := json.Marshal(rules); err == nil {
			if err := s.Cache.Set(ctx, rulesCacheKey(memberID), data, rulesCacheTTL).Err(); err != nil {
				utils.GetLogger().Warn("failed to cache availability rules",
					zap.String("memberID", memberID), zap.Error(err))
			}
		}
	}
	return rules, nil
}

func (s *DefaultAvailabilityService) invalidateRules(ctx context.Context, memberID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, rulesCacheKey(memberID)).Err(); err != nil {
		utils.GetLogger().Warn("failed to invalidate availability rule cache",
			zap.String("memberID", memberID), zap.Error(err))
	}
}

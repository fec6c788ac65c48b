package availabilityRepo

import (
	"context"

	"slotbook/models"
)

// AvailabilityRepository defines data access for recurring rules and one-off
// overrides. Both are validated by the service layer before they reach here.
type AvailabilityRepository interface {
	CreateRule(ctx context.Context, rule *models.AvailabilityRule) error
	DeleteRule(ctx context.Context, memberID, ruleID string) error
	ListRulesByMember(ctx context.Context, memberID string) ([]models.AvailabilityRule, error)

	CreateOverride(ctx context.Context, override *models.AvailabilityOverride) error
	DeleteOverride(ctx context.Context, memberID, overrideID string) error
	// ListOverridesInRange returns overrides whose date falls in [from, until),
	// both formatted as models.DateLayout.
	ListOverridesInRange(ctx context.Context, memberID, from, until string) ([]models.AvailabilityOverride, error)
}

package memberRepo

import (
	"context"

	"slotbook/models"
)

// MemberRepository defines data access for teams and their members.
type MemberRepository interface {
	CreateTeam(ctx context.Context, team *models.Team) error
	GetTeamByID(ctx context.Context, teamID string) (*models.Team, error)

	CreateMember(ctx context.Context, member *models.Member) error
	GetMemberByID(ctx context.Context, memberID string) (*models.Member, error)
	ListMembersByTeam(ctx context.Context, teamID string) ([]models.Member, error)
	// SetMemberDisabled soft-disables a member. Members are never hard-deleted
	// while reservations reference them.
	SetMemberDisabled(ctx context.Context, memberID string, disabled bool) error
}

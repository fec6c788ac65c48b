package memberRepo

import (
	"context"
	"sync"

	"slotbook/models"
)

// MemoryMemberRepo is an in-memory MemberRepository for tests and local
// development without a database.
type MemoryMemberRepo struct {
	mu      sync.RWMutex
	teams   map[string]models.Team
	members map[string]models.Member
}

// NewMemoryMemberRepo constructs an empty in-memory repository.
func NewMemoryMemberRepo() *MemoryMemberRepo {
	return &MemoryMemberRepo{
		teams:   make(map[string]models.Team),
		members: make(map[string]models.Member),
	}
}

func (repo *MemoryMemberRepo) CreateTeam(_ context.Context, team *models.Team) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.teams[team.ID] = *team
	return nil
}

func (repo *MemoryMemberRepo) GetTeamByID(_ context.Context, teamID string) (*models.Team, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	team, ok := repo.teams[teamID]
	if !ok {
		return nil, ErrNotFound
	}
	return &team, nil
}

func (repo *MemoryMemberRepo) CreateMember(_ context.Context, member *models.Member) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.members[member.ID] = *member
	return nil
}

func (repo *MemoryMemberRepo) GetMemberByID(_ context.Context, memberID string) (*models.Member, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	member, ok := repo.members[memberID]
	if !ok {
		return nil, ErrNotFound
	}
	return &member, nil
}

func (repo *MemoryMemberRepo) ListMembersByTeam(_ context.Context, teamID string) ([]models.Member, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	var out []models.Member
	for _, m := range repo.members {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (repo *MemoryMemberRepo) SetMemberDisabled(_ context.Context, memberID string, disabled bool) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	member, ok := repo.members[memberID]
	if !ok {
		return ErrNotFound
	}
	member.Disabled = disabled
	repo.members[memberID] = member
	return nil
}

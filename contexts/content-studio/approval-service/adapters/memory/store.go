package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"contentflow/contexts/content-studio/approval-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/approval-service/domain/errors"
	"contentflow/contexts/content-studio/approval-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter for local runtime and tests.
// It is not intended as production persistence.
type Store struct {
	mu          sync.RWMutex
	contents    map[string]entities.ContentObject
	teams       map[string]entities.Team
	memberships map[string]entities.Membership
}

func NewStore() *Store {
	return &Store{
		contents:    make(map[string]entities.ContentObject),
		teams:       make(map[string]entities.Team),
		memberships: make(map[string]entities.Membership),
	}
}

// SeedTeam registers a team and its memberships; team CRUD lives outside this service.
func (s *Store) SeedTeam(team entities.Team, members ...entities.Membership) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[team.TeamID] = team
	for _, member := range members {
		member.TeamID = team.TeamID
		s.memberships[membershipKey(team.TeamID, member.ActorID)] = member
	}
}

func (s *Store) CreateContent(_ context.Context, content entities.ContentObject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.contents[content.ContentID]; exists {
		return domainerrors.ErrContentExists
	}
	s.contents[content.ContentID] = content
	return nil
}

func (s *Store) GetContent(_ context.Context, contentID string) (entities.ContentObject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.contents[contentID]
	if !ok {
		return entities.ContentObject{}, domainerrors.ErrContentNotFound
	}
	return content, nil
}

func (s *Store) ListContent(_ context.Context, filter ports.ContentFilter) ([]entities.ContentObject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.ContentObject, 0)
	for _, content := range s.contents {
		if filter.TeamID != "" && content.TeamID != filter.TeamID {
			continue
		}
		if filter.OwnerActorID != "" && (content.OwnerActorID != filter.OwnerActorID || !content.IsPersonal()) {
			continue
		}
		if filter.Status != "" && content.Status != filter.Status {
			continue
		}
		items = append(items, content)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ContentID < items[j].ContentID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (s *Store) UpdateStatus(_ context.Context, update ports.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.contents[update.ContentID]
	if !ok {
		return domainerrors.ErrContentNotFound
	}
	current, _ := entities.ParseStatus(string(content.Status))
	if current != update.Expected {
		return domainerrors.ErrStaleStatus
	}
	content.Status = update.Next
	content.RequestedBy = update.RequestedBy
	content.ApprovedBy = update.ApprovedBy
	content.ScheduledFor = update.ScheduledFor
	content.UpdatedAt = update.UpdatedAt.UTC()
	s.contents[update.ContentID] = content
	return nil
}

func (s *Store) SetDerivativeKey(_ context.Context, contentID string, derivativeKey string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.contents[contentID]
	if !ok {
		return domainerrors.ErrContentNotFound
	}
	content.DerivativeKey = derivativeKey
	content.UpdatedAt = updatedAt.UTC()
	s.contents[contentID] = content
	return nil
}

func (s *Store) GetTeam(_ context.Context, teamID string) (entities.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, ok := s.teams[teamID]
	if !ok {
		return entities.Team{}, domainerrors.ErrTeamNotFound
	}
	return team, nil
}

func (s *Store) GetMembership(_ context.Context, teamID string, actorID string) (entities.Membership, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	membership, ok := s.memberships[membershipKey(teamID, actorID)]
	return membership, ok, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func membershipKey(teamID string, actorID string) string {
	return teamID + "|" + actorID
}

package services

import (
	"strings"

	"contentflow/contexts/content-studio/approval-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/approval-service/domain/errors"
)

// TeamAccess is the membership snapshot needed to authorize an actor against a team.
type TeamAccess struct {
	Team            entities.Team
	TeamFound       bool
	Membership      entities.Membership
	MembershipFound bool
}

// Authority is the effective standing of an actor over one content object.
type Authority struct {
	Role entities.Role
	// Owner of personal content: role gates do not apply.
	Personal bool
}

// ResolveTeamRole returns the effective role of actorID within a team.
// The team owner is always OWNER; a paused membership counts as none.
func ResolveTeamRole(actorID string, access TeamAccess) (entities.Role, error) {
	if strings.TrimSpace(actorID) == "" {
		return "", domainerrors.ErrActorRequired
	}
	if access.TeamFound && access.Team.OwnerActorID == actorID {
		return entities.RoleOwner, nil
	}
	if !access.MembershipFound || access.Membership.ActorID != actorID {
		return "", domainerrors.ErrNotTeamMember
	}
	if !access.Membership.IsActive() {
		return "", domainerrors.ErrMembershipPaused
	}
	role, ok := entities.ParseRole(string(access.Membership.Role))
	if !ok {
		return "", domainerrors.ErrNotTeamMember
	}
	return role, nil
}

// ResolveAuthority decides how actorID may act on content.
func ResolveAuthority(content entities.ContentObject, actorID string, access TeamAccess) (Authority, error) {
	if strings.TrimSpace(actorID) == "" {
		return Authority{}, domainerrors.ErrActorRequired
	}
	if content.IsPersonal() {
		if content.OwnerActorID != actorID {
			return Authority{}, domainerrors.ErrNotContentOwner
		}
		return Authority{Role: entities.RoleOwner, Personal: true}, nil
	}
	role, err := ResolveTeamRole(actorID, access)
	if err != nil {
		return Authority{}, err
	}
	return Authority{Role: role}, nil
}

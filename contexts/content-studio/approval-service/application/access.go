package application

import (
	"context"
	"errors"
	"strings"

	domainerrors "contentflow/contexts/content-studio/approval-service/domain/errors"
	"contentflow/contexts/content-studio/approval-service/domain/services"
	"contentflow/contexts/content-studio/approval-service/ports"
)

// LoadTeamAccess reads the team and the actor's membership. A missing team is
// not an error here: the policy rejects the actor as a non-member.
func LoadTeamAccess(
	ctx context.Context,
	directory ports.MembershipDirectory,
	teamID string,
	actorID string,
) (services.TeamAccess, error) {
	var access services.TeamAccess
	if strings.TrimSpace(teamID) == "" || directory == nil {
		return access, nil
	}

	team, err := directory.GetTeam(ctx, teamID)
	switch {
	case err == nil:
		access.Team = team
		access.TeamFound = true
	case errors.Is(err, domainerrors.ErrTeamNotFound):
	default:
		return services.TeamAccess{}, err
	}

	membership, found, err := directory.GetMembership(ctx, teamID, actorID)
	if err != nil {
		return services.TeamAccess{}, err
	}
	access.Membership = membership
	access.MembershipFound = found
	return access, nil
}

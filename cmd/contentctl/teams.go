package main

import (
	"fmt"
	"strings"

	"contentflow/contexts/content-studio/approval-service/domain/entities"

	"github.com/spf13/cobra"
)

func newTeamsCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Load teams and memberships into the directory",
	}
	cmd.AddCommand(newTeamsAddCmd(state))
	cmd.AddCommand(newTeamsAddMemberCmd(state))
	return cmd
}

func newTeamsAddCmd(state *cliState) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "add <team-id>",
		Short: "Create or update a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(owner) == "" {
				return fmt.Errorf("--owner is required")
			}
			if err := state.app.AddTeam(cmd.Context(), entities.Team{TeamID: args[0], OwnerActorID: owner}); err != nil {
				return fmt.Errorf("add team %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Team %s owned by %s\n", args[0], owner)
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner actor id")
	return cmd
}

func newTeamsAddMemberCmd(state *cliState) *cobra.Command {
	var (
		role   string
		status string
	)
	cmd := &cobra.Command{
		Use:   "add-member <team-id> <actor-id>",
		Short: "Create or update a team membership",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			membership, err := parseMembership(args[0], args[1], role, status)
			if err != nil {
				return err
			}
			if err := state.app.AddMember(cmd.Context(), membership); err != nil {
				return fmt.Errorf("add member %s to %s: %w", args[1], args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is %s (%s) in team %s\n", membership.ActorID, membership.Role, membership.Status, membership.TeamID)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(entities.RoleEditor), "EDITOR, MANAGER, ADMIN or OWNER")
	cmd.Flags().StringVar(&status, "status", string(entities.MembershipStatusActive), "active or paused")
	return cmd
}

func parseMembership(teamID string, actorID string, rawRole string, rawStatus string) (entities.Membership, error) {
	role, ok := entities.ParseRole(rawRole)
	if !ok {
		return entities.Membership{}, fmt.Errorf("unknown role %q", rawRole)
	}
	status := entities.MembershipStatus(strings.ToLower(strings.TrimSpace(rawStatus)))
	if status != entities.MembershipStatusActive && status != entities.MembershipStatusPaused {
		return entities.Membership{}, fmt.Errorf("unknown membership status %q", rawStatus)
	}
	return entities.Membership{TeamID: teamID, ActorID: actorID, Role: role, Status: status}, nil
}

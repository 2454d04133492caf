package main

import (
	"fmt"
	"strconv"
	"time"

	uploadqueries "contentflow/contexts/content-studio/upload-service/application/queries"
	"contentflow/contexts/content-studio/upload-service/domain/entities"

	"github.com/spf13/cobra"
)

func newSessionsCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and reap upload sessions",
	}
	cmd.AddCommand(newSessionsListCmd(state))
	cmd.AddCommand(newSessionsReapCmd(state))
	return cmd
}

func newSessionsListCmd(state *cliState) *cobra.Command {
	var query uploadqueries.ListSessionsQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List upload sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions, err := state.app.Sessions.Execute(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No upload sessions found")
				return nil
			}
			headers, rows, aligns := sessionTable(sessions)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}
	cmd.Flags().StringVar(&query.OwnerActorID, "owner", "", "only sessions owned by this actor")
	cmd.Flags().StringVar(&query.Status, "status", "", "open, completing, completed or aborted")
	cmd.Flags().IntVar(&query.Limit, "limit", 50, "maximum sessions to show")
	return cmd
}

func newSessionsReapCmd(state *cliState) *cobra.Command {
	var maxAge time.Duration
	cmd := &cobra.Command{
		Use:   "reap",
		Short: "Abort open or completing sessions older than the max age",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reaper := state.app.Reaper
			if maxAge > 0 {
				reaper.MaxAge = maxAge
			}
			reaped, err := reaper.RunOnce(cmd.Context())
			if err != nil {
				return fmt.Errorf("reap sessions: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reaped %d abandoned upload session(s)\n", reaped)
			return nil
		},
	}
	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "override SESSION_MAX_AGE for this run")
	return cmd
}

func sessionTable(sessions []entities.UploadSession) ([]string, [][]string, []columnAlignment) {
	headers := []string{"Session", "Owner", "Team", "File", "Kind", "Status", "Parts", "Updated"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
	rows := make([][]string, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, []string{
			session.SessionID,
			session.OwnerActorID,
			orDash(session.TeamID),
			session.Filename,
			string(session.Kind),
			string(session.Status),
			strconv.Itoa(len(session.Parts)),
			formatAge(session.UpdatedAt),
		})
	}
	return headers, rows, aligns
}

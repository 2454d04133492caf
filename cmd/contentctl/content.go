package main

import (
	"fmt"
	"time"

	"contentflow/contexts/content-studio/approval-service/domain/entities"
	"contentflow/contexts/content-studio/approval-service/ports"

	"github.com/spf13/cobra"
)

func newContentCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Inspect content objects",
	}
	cmd.AddCommand(newContentShowCmd(state))
	cmd.AddCommand(newContentListCmd(state))
	return cmd
}

func newContentShowCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "show <content-id>",
		Short: "Show one content object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := state.app.Contents.GetContent(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get content %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderDetails(contentDetails(content)))
			return nil
		},
	}
}

func newContentListCmd(state *cliState) *cobra.Command {
	var (
		filter ports.ContentFilter
		status string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List content across teams and owners",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if status != "" {
				parsed, ok := entities.ParseStatus(status)
				if !ok {
					return fmt.Errorf("unknown status %q", status)
				}
				filter.Status = parsed
			}
			items, err := state.app.Contents.ListContent(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("list content: %w", err)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No content found")
				return nil
			}
			headers, rows, aligns := contentTable(items)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.TeamID, "team", "", "only content in this team")
	cmd.Flags().StringVar(&filter.OwnerActorID, "owner", "", "only content owned by this actor")
	cmd.Flags().StringVar(&status, "status", "", "draft, processing, pending, approved, scheduled or published")
	cmd.Flags().IntVar(&filter.Limit, "limit", 50, "maximum items to show")
	return cmd
}

func contentTable(items []entities.ContentObject) ([]string, [][]string, []columnAlignment) {
	headers := []string{"Content", "Owner", "Team", "Kind", "Status", "Size", "Updated"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ContentID,
			item.OwnerActorID,
			orDash(item.TeamID),
			string(item.Kind),
			string(item.Status),
			formatSize(item.SizeBytes),
			formatAge(item.UpdatedAt),
		})
	}
	return headers, rows, aligns
}

func contentDetails(content entities.ContentObject) [][2]string {
	scheduled := "-"
	if content.ScheduledFor != nil {
		scheduled = content.ScheduledFor.UTC().Format(time.RFC3339)
	}
	return [][2]string{
		{"Content", content.ContentID},
		{"Owner", content.OwnerActorID},
		{"Team", orDash(content.TeamID)},
		{"Kind", string(content.Kind)},
		{"Status", string(content.Status)},
		{"Content type", orDash(content.ContentType)},
		{"Size", formatSize(content.SizeBytes)},
		{"Object", content.ObjectKey},
		{"Derivative", orDash(content.DerivativeKey)},
		{"Requested by", orDash(content.RequestedBy)},
		{"Approved by", orDash(content.ApprovedBy)},
		{"Scheduled for", scheduled},
		{"Created", content.CreatedAt.UTC().Format(time.RFC3339)},
		{"Updated", formatAge(content.UpdatedAt)},
	}
}

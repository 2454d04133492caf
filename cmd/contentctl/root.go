package main

import (
	"contentflow/internal/app/bootstrap"

	"github.com/spf13/cobra"
)

type cliState struct {
	app *bootstrap.AdminApp
}

func newRootCmd() *cobra.Command {
	state := &cliState{}
	root := &cobra.Command{
		Use:           "contentctl",
		Short:         "Operate a contentflow deployment",
		Long:          "Inspect upload sessions and content, reap abandoned uploads and manage the team directory.\nConfiguration comes from the same environment and CONTENTFLOW_CONFIG file as the api and worker.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			app, err := bootstrap.BuildAdmin(cmd.Context())
			if err != nil {
				return err
			}
			state.app = app
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if state.app == nil {
				return nil
			}
			return state.app.Close()
		},
	}
	root.AddCommand(newSessionsCmd(state))
	root.AddCommand(newContentCmd(state))
	root.AddCommand(newTeamsCmd(state))
	return root
}

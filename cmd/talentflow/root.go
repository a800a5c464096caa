package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the talentflow CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "talentflow",
		Short: "TalentFlow authentication service",
		Long: `TalentFlow registers freelancers, clients and admins and issues
signed session tokens on login. Configuration is read from the environment.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewHashPasswordCmd())

	return cmd
}

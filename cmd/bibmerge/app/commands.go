package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/bibmerge/cmd/bibmerge/cmd/merge"
	"github.com/agentstation/bibmerge/cmd/bibmerge/cmd/parse"
	"github.com/agentstation/bibmerge/cmd/bibmerge/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(merge.NewCommand(a))
	rootCmd.AddCommand(parse.NewCommand(a))
	rootCmd.AddCommand(version.NewCommand(a))
}

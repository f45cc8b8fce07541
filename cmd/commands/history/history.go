// Package history implements commands over the stored query history.
package history

import "github.com/spf13/cobra"

// NewCommand returns the "history" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "View and manage query history",
		Long: "View past DNS queries, their outcomes and latencies, and prune old entries.\n\n" +
			"History is stored locally in ~/.config/digger/digger.db.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(StatsCommand())
	cmd.AddCommand(PruneCommand())
	cmd.AddCommand(ClearCommand())

	return cmd
}

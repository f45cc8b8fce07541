package cmd

import (
	"os"

	"diggercli/digger/cmd/commands/batch"
	"diggercli/digger/cmd/commands/compare"
	cfgcmd "diggercli/digger/cmd/commands/config"
	"diggercli/digger/cmd/commands/export"
	historycmd "diggercli/digger/cmd/commands/history"
	"diggercli/digger/cmd/commands/query"
	"diggercli/digger/cmd/commands/types"
	whoiscmd "diggercli/digger/cmd/commands/whois"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "digger",
		Short: "A CLI workbench for DNS lookups built on dig and whois",
		Long: `digger wraps the dig and whois tools with typed results, a local query
history, and deterministic command generation. It parses the tools' text
output into structured records and can reconstruct the exact dig or curl
(DNS-over-HTTPS) invocation for any query.

Quick start:
  digger query example.com           # Look up A records
  digger query                       # Interactive query wizard
  digger query example.com --watch   # Live re-query view
  digger whois example.com           # Registration data (cached)
  digger export curl example.com     # curl DoH equivalent
  digger history stats               # Local query statistics`,
	}

	cmd.AddCommand(query.NewCommand())
	cmd.AddCommand(whoiscmd.NewCommand())
	cmd.AddCommand(batch.NewCommand())
	cmd.AddCommand(compare.NewCommand())
	cmd.AddCommand(export.NewCommand())
	cmd.AddCommand(historycmd.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(types.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}

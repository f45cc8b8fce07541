package export

import (
	"fmt"

	"diggercli/digger/internal/config"
	"diggercli/digger/internal/dns/command"

	"github.com/spf13/cobra"
)

// DigCommand returns the "export dig" cobra command.
func DigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dig <domain>",
		Short: "Render the native dig command for a query",
		Long: `Render the dig invocation digger would run for a query.

Examples:
  # The default A lookup
  digger export dig example.com

  # MX via a specific server with DNSSEC
  digger export dig example.com -t MX -s 1.1.1.1 --dnssec

  # Reverse lookup
  digger export dig -x 8.8.8.8`,
		Args:         cobra.ExactArgs(1),
		RunE:         runDig,
		SilenceUsage: true,
	}

	addSpecFlags(cmd)

	return cmd
}

func runDig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	spec, err := specFromFlags(cmd, args[0], cfg)
	if err != nil {
		return err
	}

	inv, err := command.Generate(spec)
	if err != nil {
		return err
	}

	if inv.Advisory != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: %s\n", inv.Advisory)
	}
	fmt.Fprintln(cmd.OutOrStdout(), inv.Command)
	return nil
}

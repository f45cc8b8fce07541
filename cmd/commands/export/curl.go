package export

import (
	"fmt"

	"diggercli/digger/internal/config"
	"diggercli/digger/internal/dns/command"

	"github.com/spf13/cobra"
)

// CurlCommand returns the "export curl" cobra command.
func CurlCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curl <domain>",
		Short: "Render the curl DNS-over-HTTPS equivalent of a query",
		Long: `Render a curl command that performs the query over DNS-over-HTTPS.

The endpoint defaults to Cloudflare's JSON API; "google" and custom https
URLs are also accepted, and a default can be set with
'digger config set doh-endpoint'.

Examples:
  # A lookup via Cloudflare
  digger export curl example.com

  # TXT lookup via Google
  digger export curl example.com -t TXT --endpoint google

  # DNSSEC data included in the response
  digger export curl example.com --dnssec`,
		Args:         cobra.ExactArgs(1),
		RunE:         runCurl,
		SilenceUsage: true,
	}

	addSpecFlags(cmd)
	cmd.Flags().String("endpoint", "", "DoH endpoint: cloudflare, google, or an https URL (default from config)")

	return cmd
}

func runCurl(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	spec, err := specFromFlags(cmd, args[0], cfg)
	if err != nil {
		return err
	}

	selector := cfg.DoHEndpoint
	if cmd.Flags().Changed("endpoint") {
		selector, _ = cmd.Flags().GetString("endpoint")
	}
	endpoint, err := command.EndpointFor(selector)
	if err != nil {
		return err
	}

	inv, err := command.GenerateDoH(spec, endpoint)
	if err != nil {
		return err
	}

	if inv.Advisory != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: %s\n", inv.Advisory)
	}
	fmt.Fprintln(cmd.OutOrStdout(), inv.Command)
	return nil
}

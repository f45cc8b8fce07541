// Package export renders query specs as runnable dig or curl commands and
// batch scripts, without executing anything.
package export

import (
	"fmt"
	"strings"

	"diggercli/digger/internal/config"
	"diggercli/digger/internal/dns/domain"

	"github.com/spf13/cobra"
)

// NewCommand returns the "export" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render queries as runnable dig or curl commands",
		Long: `Render queries as runnable commands instead of executing them.

The dig dialect produces exactly the invocation digger itself would run, so
a rendered command reproduces the query verbatim. The curl dialect produces
the DNS-over-HTTPS equivalent against a JSON API endpoint. The script
dialect composes many dig invocations into a shell script.`,
	}

	cmd.AddCommand(DigCommand())
	cmd.AddCommand(CurlCommand())
	cmd.AddCommand(ScriptCommand())

	return cmd
}

// addSpecFlags registers the query-shaping flags shared by the dig and curl
// dialects.
func addSpecFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("type", "t", "", "Record type (default from config, else A)")
	cmd.Flags().StringP("server", "s", "", "DNS server to target (default from config)")
	cmd.Flags().BoolP("reverse", "x", false, "Reverse lookup of an IP address")
	cmd.Flags().Bool("trace", false, "Trace delegation from the root servers")
	cmd.Flags().Bool("short", false, "Minimal answer-only output")
	cmd.Flags().Bool("dnssec", false, "Request DNSSEC records")
}

// specFromFlags builds the query spec for one domain argument from the
// shared flags, falling back to configured defaults.
func specFromFlags(cmd *cobra.Command, domainArg string, cfg *config.Config) (domain.QuerySpec, error) {
	spec := domain.QuerySpec{
		Domain: strings.TrimSpace(domainArg),
		Type:   cfg.QueryType(),
		Server: cfg.DefaultServer,
	}

	if cmd.Flags().Changed("type") {
		raw, _ := cmd.Flags().GetString("type")
		typ, err := domain.ParseRecordType(raw)
		if err != nil {
			return domain.QuerySpec{}, fmt.Errorf("unknown record type %q (see 'digger types')", raw)
		}
		spec.Type = typ
	}
	if cmd.Flags().Changed("server") {
		server, _ := cmd.Flags().GetString("server")
		spec.Server = strings.TrimSpace(server)
	}

	spec.Reverse, _ = cmd.Flags().GetBool("reverse")
	spec.Trace, _ = cmd.Flags().GetBool("trace")
	spec.Short, _ = cmd.Flags().GetBool("short")
	spec.DNSSEC, _ = cmd.Flags().GetBool("dnssec")

	if spec.Reverse {
		spec.Type = domain.RecordTypePTR
	}

	return spec, nil
}

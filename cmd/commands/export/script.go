package export

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"diggercli/digger/internal/batchfile"
	"diggercli/digger/internal/config"
	"diggercli/digger/internal/dns/command"
	"diggercli/digger/internal/dns/domain"

	"github.com/spf13/cobra"
)

// ScriptCommand returns the "export script" cobra command.
func ScriptCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script [domain...]",
		Short: "Render a shell script of dig commands for many domains",
		Long: `Render a shell script that runs one dig invocation per domain.

Domains come from the arguments, from a file (one per line with an optional
record type), or both. With --out the script is written executable;
otherwise it goes to stdout.

Examples:
  # Script for three domains
  digger export script example.com example.org example.net

  # From a file, written ready to run
  digger export script --file domains.txt --out check-dns.sh

  # MX checks via a specific server, without comment lines
  digger export script --file domains.txt -t MX -s 1.1.1.1 --comments=false`,
		Args:         cobra.ArbitraryArgs,
		RunE:         runScript,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("file", "f", "", "File with one domain per line (optional per-line type)")
	cmd.Flags().StringP("type", "t", "", "Record type for domains without one (default from config, else A)")
	cmd.Flags().StringP("server", "s", "", "DNS server to target (default from config)")
	cmd.Flags().Bool("short", false, "Minimal answer-only output")
	cmd.Flags().Bool("dnssec", false, "Request DNSSEC records")
	cmd.Flags().Bool("comments", true, "Precede each command with a comment line")
	cmd.Flags().String("out", "", "Write the script to this path, marked executable")

	return cmd
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	defaultType := cfg.QueryType()
	if cmd.Flags().Changed("type") {
		raw, _ := cmd.Flags().GetString("type")
		defaultType, err = domain.ParseRecordType(raw)
		if err != nil {
			return fmt.Errorf("unknown record type %q (see 'digger types')", raw)
		}
	}

	var entries []command.BatchEntry
	for _, arg := range args {
		entries = append(entries, command.BatchEntry{Domain: arg, Type: defaultType})
	}
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		fromFile, err := batchfile.ReadFile(path, defaultType)
		if err != nil {
			return err
		}
		for _, e := range fromFile {
			entries = append(entries, command.BatchEntry{Domain: e.Domain, Type: e.Type})
		}
	}
	if len(entries) == 0 {
		return errors.New("no domains to export (pass domains as arguments or --file)")
	}

	base := domain.QuerySpec{Server: cfg.DefaultServer}
	if cmd.Flags().Changed("server") {
		server, _ := cmd.Flags().GetString("server")
		base.Server = strings.TrimSpace(server)
	}
	base.Short, _ = cmd.Flags().GetBool("short")
	base.DNSSEC, _ = cmd.Flags().GetBool("dnssec")

	comments, _ := cmd.Flags().GetBool("comments")
	script, err := command.Script(entries, base, comments)
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := os.WriteFile(out, []byte(script), 0o755); err != nil {
			return fmt.Errorf("failed to write script: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d command(s) to %s\n", len(entries), out)
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), script)
	return nil
}

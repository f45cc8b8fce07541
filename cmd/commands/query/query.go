package query

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"diggercli/digger/internal/config"
	"diggercli/digger/internal/dns/command"
	"diggercli/digger/internal/dns/domain"
	"diggercli/digger/internal/dns/runner"
	"diggercli/digger/internal/history"
	"diggercli/digger/internal/tui"
	"diggercli/digger/internal/whoiscache"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// querier is the slice of the runner this command uses.
type querier interface {
	Query(ctx context.Context, spec domain.QuerySpec) *domain.QueryResult
	Whois(ctx context.Context, name string) (*domain.WhoisData, error)
	Available() bool
}

// newRunner builds the query executor. Tests replace it to stay process-free.
var newRunner = func(timeout time.Duration) querier { return runner.New(timeout) }

// NewCommand returns the "query" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [domain]",
		Short: "Run a DNS query",
		Long: `Run one DNS query through dig and display the parsed result.

With no domain and a terminal, an interactive wizard collects the query
parameters. With --watch the query re-runs on an interval in a live view.

Examples:
  digger query example.com
  digger query example.com --type MX --server 8.8.8.8
  digger query 8.8.8.8 --reverse
  digger query example.com --dnssec -o json
  digger query example.com --watch --interval 10s
  digger query example.com --whois`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runQuery,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("type", "t", "", "Record type (A, AAAA, MX, ...; see 'digger types')")
	cmd.Flags().StringP("server", "s", "", "Nameserver to query (IP or hostname)")
	cmd.Flags().BoolP("reverse", "x", false, "Reverse lookup: treat the argument as an IP address")
	cmd.Flags().Bool("trace", false, "Trace the delegation path from the root servers")
	cmd.Flags().Bool("short", false, "Print answer values only")
	cmd.Flags().Bool("dnssec", false, "Request DNSSEC records with the answer")
	cmd.Flags().Bool("verbose", false, "Keep the tool's commentary in the raw output")
	cmd.Flags().Bool("whois", false, "Attach registration data for the domain")
	cmd.Flags().Bool("watch", false, "Re-run the query on an interval in a live view")
	cmd.Flags().Duration("interval", tui.DefaultWatchInterval, "Refresh interval for --watch")
	cmd.Flags().Int("timeout", 0, "Per-query timeout in seconds (overrides config)")
	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	spec, err := buildSpec(cmd, args, cfg)
	if err != nil {
		return err
	}

	r := newRunner(queryTimeout(cmd, cfg))

	interactive := spec.Domain == ""
	if interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("a domain argument is required in non-interactive mode")
		}
		if !r.Available() {
			return errDigMissing
		}

		final, err := tui.QueryForm(spec)
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Query cancelled.")
				return nil
			}
			return err
		}
		spec = *final
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		if !r.Available() {
			return errDigMissing
		}
		interval, _ := cmd.Flags().GetDuration("interval")
		return tui.RunWatch(r, spec, interval)
	}

	if inv, err := command.Generate(spec); err == nil && inv.Advisory != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: %s\n", inv.Advisory)
	}

	ctx := context.Background()
	var res *domain.QueryResult
	if interactive {
		accessible := os.Getenv("ACCESSIBLE") != ""
		spinErr := spinner.New().
			Title("Querying " + spec.Domain + "...").
			Accessible(accessible).
			Output(cmd.ErrOrStderr()).
			Action(func() {
				res = r.Query(ctx, spec)
			}).
			Run()
		if spinErr != nil {
			return spinErr
		}
	} else {
		res = r.Query(ctx, spec)
	}

	if wantWhois, _ := cmd.Flags().GetBool("whois"); wantWhois && !spec.Reverse {
		attachWhois(cmd, r, res)
	}

	recordHistory(cmd, cfg, res)

	if output, _ := cmd.Flags().GetString("output"); output == "json" {
		return printResultJSON(cmd, res)
	}
	printResultText(cmd, res)
	return nil
}

var errDigMissing = errors.New("dig binary not found on PATH (install bind-utils or dnsutils)")

// buildSpec assembles the query spec from the argument, flags, and config
// defaults. Explicitly set flags win over config; a reverse lookup forces
// the PTR type.
func buildSpec(cmd *cobra.Command, args []string, cfg *config.Config) (domain.QuerySpec, error) {
	spec := domain.QuerySpec{Type: cfg.QueryType(), Server: cfg.DefaultServer}

	if len(args) > 0 {
		spec.Domain = strings.TrimSpace(args[0])
	}

	if cmd.Flags().Changed("type") {
		raw, _ := cmd.Flags().GetString("type")
		rt, err := domain.ParseRecordType(raw)
		if err != nil {
			return domain.QuerySpec{}, fmt.Errorf("unknown record type %q (see 'digger types')", raw)
		}
		spec.Type = rt
	}
	if cmd.Flags().Changed("server") {
		server, _ := cmd.Flags().GetString("server")
		spec.Server = strings.TrimSpace(server)
	}

	spec.Reverse, _ = cmd.Flags().GetBool("reverse")
	spec.Trace, _ = cmd.Flags().GetBool("trace")
	spec.Short, _ = cmd.Flags().GetBool("short")
	spec.DNSSEC, _ = cmd.Flags().GetBool("dnssec")
	spec.Verbose, _ = cmd.Flags().GetBool("verbose")

	if spec.Reverse {
		spec.Type = domain.RecordTypePTR
	}

	return spec, nil
}

// queryTimeout picks the per-query timeout: the --timeout flag when set,
// else the configured default, else zero (the runner substitutes its own).
func queryTimeout(cmd *cobra.Command, cfg *config.Config) time.Duration {
	if cmd.Flags().Changed("timeout") {
		secs, _ := cmd.Flags().GetInt("timeout")
		if secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return cfg.Timeout()
}

// attachWhois adds registration data to the result, served from the local
// cache when possible. A failed lookup degrades to a stderr note; the DNS
// result still prints.
func attachWhois(cmd *cobra.Command, r querier, res *domain.QueryResult) {
	data, err := whoisCache().Lookup(context.Background(), res.Domain, r.Whois)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: whois lookup failed: %v\n", err)
		return
	}
	res.Whois = data
}

func whoisCache() *whoiscache.Cache {
	if os.Getenv("DIGGER_DISABLE_WHOIS_CACHE") == "1" {
		return nil
	}
	return whoiscache.NewDefault()
}

// recordHistory saves the completed query when history is enabled and trims
// the store to the configured cap. History failures never fail the query.
func recordHistory(cmd *cobra.Command, cfg *config.Config, res *domain.QueryResult) {
	if !cfg.HistoryEnabled() {
		return
	}

	repo, err := history.Open()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: history unavailable: %v\n", err)
		return
	}
	defer repo.Close()

	if err := repo.Save(history.FromResult(res)); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: history save failed: %v\n", err)
		return
	}
	if _, err := repo.EnforceLimit(cfg.HistoryMax()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: history trim failed: %v\n", err)
	}
}

// Package batch implements bulk DNS lookups across many domains.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"diggercli/digger/internal/batchfile"
	"diggercli/digger/internal/config"
	"diggercli/digger/internal/dns/domain"
	"diggercli/digger/internal/dns/runner"
	"diggercli/digger/internal/history"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// batchRunner is the slice of the runner the batch command needs.
type batchRunner interface {
	RunBatch(ctx context.Context, specs []domain.QuerySpec, parallelism int) []*domain.QueryResult
	Available() bool
}

// newRunner builds the live runner. Swapped out in tests.
var newRunner = func(timeout time.Duration) batchRunner {
	return runner.New(timeout)
}

// NewCommand returns the "batch" cobra command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [domain...]",
		Short: "Run DNS lookups for many domains at once",
		Long: `Run DNS lookups for many domains with bounded parallelism.

Domains come from the arguments, from a file (one domain per line, with an
optional per-line record type), from recent history, or any mix of the three.
File lines starting with # are comments.

Examples:
  # Query several domains for A records
  digger batch example.com example.org example.net

  # Query from a file, 10 lookups at a time
  digger batch --file domains.txt --parallel 10

  # A file may override the record type per line:
  #   example.com
  #   example.org MX
  #   example.net TXT

  # Re-check the 5 most recently queried domains
  digger batch --recent 5

  # Machine-readable output
  digger batch --file domains.txt -o json`,
		Args:         cobra.ArbitraryArgs,
		RunE:         runBatch,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("file", "f", "", "File with one domain per line (optional per-line type)")
	cmd.Flags().Int("recent", 0, "Also query the N most recent domains from history")
	cmd.Flags().StringP("type", "t", "", "Record type for domains without one (default from config, else A)")
	cmd.Flags().StringP("server", "s", "", "DNS server to query (default from config, else system resolver)")
	cmd.Flags().Int("parallel", runner.DefaultParallelism, "Maximum concurrent lookups")
	cmd.Flags().Int("timeout", 0, "Per-query timeout in seconds (overrides config)")
	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")

	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
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

	targets, err := collectTargets(cmd, args, defaultType)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return errors.New("no domains to query (pass domains as arguments, --file, or --recent)")
	}

	server := cfg.DefaultServer
	if cmd.Flags().Changed("server") {
		server, _ = cmd.Flags().GetString("server")
		server = strings.TrimSpace(server)
	}

	specs := make([]domain.QuerySpec, len(targets))
	for i, tgt := range targets {
		specs[i] = domain.QuerySpec{Domain: tgt.Domain, Type: tgt.Type, Server: server}
	}

	r := newRunner(queryTimeout(cmd, cfg))
	if !r.Available() {
		return errors.New("dig binary not found on PATH (install bind-utils or dnsutils)")
	}

	parallel, _ := cmd.Flags().GetInt("parallel")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	var results []*domain.QueryResult
	if term.IsTerminal(int(os.Stdout.Fd())) {
		accessible := os.Getenv("ACCESSIBLE") != ""
		spinErr := spinner.New().
			Title(fmt.Sprintf("Querying %d domains...", len(specs))).
			Accessible(accessible).
			Output(cmd.ErrOrStderr()).
			Action(func() {
				results = r.RunBatch(ctx, specs, parallel)
			}).
			Run()
		if spinErr != nil {
			return spinErr
		}
	} else {
		results = r.RunBatch(ctx, specs, parallel)
	}
	elapsed := time.Since(start)

	recordHistory(cmd, cfg, results)

	output, _ := cmd.Flags().GetString("output")
	if output == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	printBatchTable(cmd, results, elapsed)
	return nil
}

// collectTargets gathers domains from arguments, the --file flag, and
// --recent history, in that order.
func collectTargets(cmd *cobra.Command, args []string, defaultType domain.RecordType) ([]batchfile.Entry, error) {
	var targets []batchfile.Entry

	for _, arg := range args {
		targets = append(targets, batchfile.Entry{Domain: arg, Type: defaultType})
	}

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		fromFile, err := batchfile.ReadFile(path, defaultType)
		if err != nil {
			return nil, err
		}
		targets = append(targets, fromFile...)
	}

	if n, _ := cmd.Flags().GetInt("recent"); n > 0 {
		recent, err := recentTargets(n, defaultType)
		if err != nil {
			return nil, err
		}
		targets = append(targets, recent...)
	}

	return targets, nil
}

// recentTargets pulls the n most recently queried distinct domains from
// history.
func recentTargets(n int, defaultType domain.RecordType) ([]batchfile.Entry, error) {
	repo, err := history.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	defer repo.Close()

	domains, err := repo.RecentDomains(n)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent domains: %w", err)
	}

	targets := make([]batchfile.Entry, len(domains))
	for i, d := range domains {
		targets[i] = batchfile.Entry{Domain: d, Type: defaultType}
	}
	return targets, nil
}

// queryTimeout resolves the per-query timeout from the flag, then config,
// then the runner default.
func queryTimeout(cmd *cobra.Command, cfg *config.Config) time.Duration {
	if cmd.Flags().Changed("timeout") {
		if secs, _ := cmd.Flags().GetInt("timeout"); secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return cfg.Timeout()
}

// recordHistory persists every completed result. Failures only warn.
func recordHistory(cmd *cobra.Command, cfg *config.Config, results []*domain.QueryResult) {
	if !cfg.HistoryEnabled() {
		return
	}

	repo, err := history.Open()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: history unavailable: %v\n", err)
		return
	}
	defer repo.Close()

	for _, res := range results {
		if err := repo.Save(history.FromResult(res)); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Note: history not recorded: %v\n", err)
			return
		}
	}
	if _, err := repo.EnforceLimit(cfg.HistoryMax()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: history limit not enforced: %v\n", err)
	}
}

func printBatchTable(cmd *cobra.Command, results []*domain.QueryResult, elapsed time.Duration) {
	out := cmd.OutOrStdout()

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tTYPE\tSTATUS\tRECORDS\tTIME")
	fmt.Fprintln(w, "------\t----\t------\t-------\t----")

	ok := 0
	for _, res := range results {
		if res.IsSuccessful() {
			ok++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			res.Domain,
			res.Type,
			res.Status.Label(),
			res.TotalRecords(),
			formatMillis(res.ElapsedMs),
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\n%d queries in %s: %d ok, %d failed\n",
		len(results), elapsed.Round(time.Millisecond), ok, len(results)-ok)
}

// formatMillis renders a query time, or a dash when none was measured.
func formatMillis(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return fmt.Sprintf("%dms", ms)
}

// Package compare implements querying one domain across several resolvers.
package compare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"diggercli/digger/internal/config"
	"diggercli/digger/internal/dns/domain"
	"diggercli/digger/internal/dns/runner"
	"diggercli/digger/internal/tui/styles"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// defaultServers are the resolvers consulted when --server is not given.
var defaultServers = []string{"1.1.1.1", "8.8.8.8"}

// comparer is the slice of the runner the compare command needs.
type comparer interface {
	Compare(ctx context.Context, base domain.QuerySpec, servers []string) []*domain.QueryResult
	Available() bool
}

// newRunner builds the live runner. Swapped out in tests.
var newRunner = func(timeout time.Duration) comparer {
	return runner.New(timeout)
}

// NewCommand returns the "compare" cobra command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <domain>",
		Short: "Query one domain across several DNS servers",
		Long: `Run the same lookup against several DNS servers and diff the answers.

Useful for catching propagation lag after a record change, or a resolver
serving stale data. Without --server the lookup runs against Cloudflare
(1.1.1.1) and Google (8.8.8.8).

Examples:
  # Compare the default resolvers
  digger compare example.com

  # Compare specific resolvers for an MX lookup
  digger compare example.com -t MX --server 1.1.1.1 --server 9.9.9.9 --server 8.8.8.8

  # Machine-readable output
  digger compare example.com -o json`,
		Args:         cobra.ExactArgs(1),
		RunE:         runCompare,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("type", "t", "", "Record type to query (default from config, else A)")
	cmd.Flags().StringArray("server", nil, "DNS server to include (repeatable)")
	cmd.Flags().Int("timeout", 0, "Per-query timeout in seconds (overrides config)")
	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	typ := cfg.QueryType()
	if cmd.Flags().Changed("type") {
		raw, _ := cmd.Flags().GetString("type")
		typ, err = domain.ParseRecordType(raw)
		if err != nil {
			return fmt.Errorf("unknown record type %q (see 'digger types')", raw)
		}
	}

	servers, _ := cmd.Flags().GetStringArray("server")
	if len(servers) == 0 {
		servers = defaultServers
	}
	if len(servers) < 2 {
		return errors.New("compare needs at least two servers (repeat --server)")
	}

	r := newRunner(queryTimeout(cmd, cfg))
	if !r.Available() {
		return errors.New("dig binary not found on PATH (install bind-utils or dnsutils)")
	}

	base := domain.QuerySpec{Domain: args[0], Type: typ}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var results []*domain.QueryResult
	if term.IsTerminal(int(os.Stdout.Fd())) {
		accessible := os.Getenv("ACCESSIBLE") != ""
		spinErr := spinner.New().
			Title(fmt.Sprintf("Comparing %d servers...", len(servers))).
			Accessible(accessible).
			Output(cmd.ErrOrStderr()).
			Action(func() {
				results = r.Compare(ctx, base, servers)
			}).
			Run()
		if spinErr != nil {
			return spinErr
		}
	} else {
		results = r.Compare(ctx, base, servers)
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	printComparison(cmd, base, servers, results)
	return nil
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

func printComparison(cmd *cobra.Command, base domain.QuerySpec, servers []string, results []*domain.QueryResult) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s %s\n\n",
		styles.Value.Render(base.Domain),
		styles.MutedText.Render(string(base.Type)))

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "SERVER\tSTATUS\tTIME\tANSWERS")
	fmt.Fprintln(w, "------\t------\t----\t-------")
	for i, res := range results {
		answers := answerSet(res)
		display := strings.Join(answers, ", ")
		if display == "" {
			display = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			servers[i],
			res.Status.Label(),
			formatMillis(res.ElapsedMs),
			display,
		)
	}
	w.Flush()

	fmt.Fprintln(out)
	if agree(results) {
		fmt.Fprintln(out, styles.SuccessText.Render("All servers agree."))
	} else {
		fmt.Fprintln(out, styles.WarningText.Render("Servers returned different answers."))
	}
}

// answerSet returns the answer values sorted, so ordering differences
// between resolvers do not count as disagreement.
func answerSet(res *domain.QueryResult) []string {
	values := make([]string, 0, len(res.Answer))
	for _, rec := range res.Answer {
		values = append(values, rec.DisplayValue())
	}
	sort.Strings(values)
	return values
}

// agree reports whether every result has the same status and the same
// answer value set.
func agree(results []*domain.QueryResult) bool {
	if len(results) < 2 {
		return true
	}
	first := resultKey(results[0])
	for _, res := range results[1:] {
		if resultKey(res) != first {
			return false
		}
	}
	return true
}

func resultKey(res *domain.QueryResult) string {
	return string(res.Status) + "|" + strings.Join(answerSet(res), "\n")
}

// formatMillis renders a query time, or a dash when none was measured.
func formatMillis(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return fmt.Sprintf("%dms", ms)
}

package history

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"diggercli/digger/internal/history"
	"diggercli/digger/internal/tui/components"

	"github.com/spf13/cobra"
)

// latencyPoints is how many recent query times feed the latency chart.
const latencyPoints = 30

// chartWidth is the rendered width of the latency chart.
const chartWidth = 72

// StatsCommand returns the "history stats" cobra command.
func StatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the stored query history",
		Long: `Summarize the stored query history: totals, success rate, the record
type distribution, and a latency chart of recent successful queries.

Examples:
  digger history stats
  digger history stats -o json`,
		RunE:         runStats,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	repo, err := history.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	stats, err := repo.Stats()
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(stats)
	}

	if stats.TotalQueries == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No history recorded yet.")
		return nil
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Total queries:\t%d\n", stats.TotalQueries)
	fmt.Fprintf(w, "  Unique domains:\t%d\n", stats.UniqueDomains)
	fmt.Fprintf(w, "  Success rate:\t%.1f%%\n", stats.SuccessRate)
	if stats.MostCommonType != "" {
		fmt.Fprintf(w, "  Most common type:\t%s\n", stats.MostCommonType)
	}
	w.Flush()

	if len(stats.TypeDistribution) > 0 {
		fmt.Fprintln(out)
		printTypeDistribution(cmd, stats)
	}

	latencies, err := repo.RecentLatencies(latencyPoints)
	if err != nil {
		return err
	}
	if len(latencies) >= 2 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, components.LatencyChart("Recent query latency", latencies, chartWidth))
	}

	return nil
}

// printTypeDistribution renders per-type counts, most common first. Ties
// order alphabetically so output is stable.
func printTypeDistribution(cmd *cobra.Command, stats *history.Stats) {
	type typeCount struct {
		name  string
		count int
	}
	counts := make([]typeCount, 0, len(stats.TypeDistribution))
	for typ, count := range stats.TypeDistribution {
		counts = append(counts, typeCount{name: string(typ), count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].name < counts[j].name
	})

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tQUERIES")
	fmt.Fprintln(w, "----\t-------")
	for _, tc := range counts {
		fmt.Fprintf(w, "%s\t%d\n", tc.name, tc.count)
	}
	w.Flush()
}

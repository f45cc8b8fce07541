package history

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"diggercli/digger/internal/history"

	"github.com/spf13/cobra"
)

// ListCommand returns the "history list" cobra command.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent queries",
		Long: `List recent queries stored locally.

Examples:
  digger history list
  digger history list --limit 50
  digger history list --search example.com
  digger history list -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().String("search", "", "Filter by domain substring")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	search, _ := cmd.Flags().GetString("search")
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}

	repo, err := history.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	var entries []history.Entry
	if search != "" {
		entries, err = repo.Search(search, limit)
	} else {
		entries, err = repo.List(limit)
	}
	if err != nil {
		return err
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}
	if output != "table" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No history entries found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tDOMAIN\tTYPE\tSERVER\tSTATUS\tDURATION")
	fmt.Fprintln(w, "----\t------\t----\t------\t------\t--------")
	for _, entry := range entries {
		timeStr := entry.Timestamp.Local().Format("2006-01-02 15:04:05")
		server := entry.Server
		if server == "" {
			server = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			timeStr,
			entry.Domain,
			entry.Type,
			server,
			entry.Status.Label(),
			formatDuration(entry.ElapsedMs),
		)
	}
	w.Flush()
	return nil
}

func formatDuration(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	d := time.Duration(ms) * time.Millisecond
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}

package query

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"diggercli/digger/internal/dns/domain"
	"diggercli/digger/internal/tui/styles"

	"github.com/spf13/cobra"
)

// printResultJSON encodes a result as indented JSON to the command's stdout.
func printResultJSON(cmd *cobra.Command, res *domain.QueryResult) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// printResultText renders a result for terminal reading: a status line, the
// parsed sections, and a timing footer. Short mode prints bare answer
// values; trace mode prints the raw delegation path untouched.
func printResultText(cmd *cobra.Command, res *domain.QueryResult) {
	out := cmd.OutOrStdout()

	if res.Short && res.IsSuccessful() {
		if len(res.Answer) == 0 {
			fmt.Fprintln(out, "No records returned.")
			return
		}
		for _, rec := range res.Answer {
			fmt.Fprintln(out, rec.DisplayValue())
		}
		return
	}

	fmt.Fprintln(out, headline(res))

	if res.Status == domain.StatusToolUnavailable {
		fmt.Fprintln(out, "Install bind-utils (or dnsutils) to provide the dig binary.")
		return
	}

	if res.Trace {
		fmt.Fprintln(out)
		fmt.Fprintln(out, strings.TrimRight(res.Raw, "\n"))
		return
	}

	printSection(cmd, "Answer", res.Answer)
	printSection(cmd, "Authority", res.Authority)
	printSection(cmd, "Additional", res.Additional)

	if res.IsSuccessful() && res.TotalRecords() == 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "No records returned.")
	}

	if res.ElapsedMs > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, styles.MutedText.Render(fmt.Sprintf("%d record(s) in %dms", res.TotalRecords(), res.ElapsedMs)))
	}

	if res.Whois != nil {
		printWhoisSummary(cmd, res.Whois)
	}
}

// headline is the one-line verdict: status indicator, query target, and the
// resolver that answered.
func headline(res *domain.QueryResult) string {
	target := res.Domain + " " + res.Type.String()
	if res.Reverse {
		target = res.Domain + " (reverse)"
	}

	line := styles.StatusIndicator(res.Status) + "  " + styles.Value.Render(target)
	if res.Server != "" {
		line += styles.MutedText.Render("  @" + res.Server)
	}
	return line
}

func printSection(cmd *cobra.Command, label string, records []domain.Record) {
	if len(records) == 0 {
		return
	}

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), styles.Label.Render(label))

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, rec := range records {
		fmt.Fprintf(w, "  %s\t%d\t%s\t%s\n", rec.Name, rec.TTL, rec.Type, rec.DisplayValue())
	}
	w.Flush()
}

// printWhoisSummary renders the registration block attached by --whois.
// The full detail view lives under 'digger whois'; this is the short form.
func printWhoisSummary(cmd *cobra.Command, data *domain.WhoisData) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	label := "Registration"
	if data.FromCache {
		label += " (cached)"
	}
	fmt.Fprintln(out, styles.Label.Render(label))

	if !data.HasParsedData() {
		fmt.Fprintln(out, "  No structured registration data recognized.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if data.Registrar != "" {
		fmt.Fprintf(w, "  Registrar:\t%s\n", data.Registrar)
	}
	if data.CreatedDate != "" {
		fmt.Fprintf(w, "  Created:\t%s\n", data.CreatedDate)
	}
	if data.ExpiryDate != "" {
		fmt.Fprintf(w, "  Expires:\t%s\n", data.ExpiryDate)
	}
	if len(data.NameServers) > 0 {
		fmt.Fprintf(w, "  Name servers:\t%s\n", strings.Join(data.NameServers, ", "))
	}
	if data.PrivacyProtected {
		fmt.Fprintf(w, "  Privacy:\tregistrant data withheld\n")
	}
	w.Flush()
}

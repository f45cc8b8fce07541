// Package whois implements the registrant lookup command.
package whois

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"diggercli/digger/internal/config"
	"diggercli/digger/internal/dns/domain"
	"diggercli/digger/internal/dns/runner"
	"diggercli/digger/internal/tui/styles"
	"diggercli/digger/internal/util"
	"diggercli/digger/internal/whoiscache"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// fetcher is the slice of the runner the whois command needs.
type fetcher interface {
	Whois(ctx context.Context, name string) (*domain.WhoisData, error)
}

// newFetcher builds the live runner. Swapped out in tests.
var newFetcher = func(timeout time.Duration) fetcher {
	return runner.New(timeout)
}

// NewCommand returns the "whois" cobra command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whois <domain>",
		Short: "Look up domain registration data",
		Long: `Look up registration data for a domain via the system whois tool.

Responses are cached for an hour under the user cache directory, so repeated
lookups do not hammer the registry. Slightly older entries are served from the
cache while a refresh runs in the background.

Examples:
  # Registration summary for a domain
  digger whois example.com

  # Force a fresh lookup, replacing the cached entry
  digger whois example.com --refresh

  # Skip the cache entirely for this invocation
  digger whois example.com --no-cache

  # Full machine-readable output
  digger whois example.com -o json`,
		Args:         cobra.ExactArgs(1),
		RunE:         runWhois,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("no-cache", false, "Bypass the whois cache for this lookup")
	cmd.Flags().Bool("refresh", false, "Invalidate the cached entry and fetch fresh data")
	cmd.Flags().Int("timeout", 0, "Lookup timeout in seconds (overrides config)")
	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")

	return cmd
}

func runWhois(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	name := util.NormalizeDomain(args[0])
	if err := util.ValidateDomain(name); err != nil {
		return err
	}

	noCache, _ := cmd.Flags().GetBool("no-cache")
	refresh, _ := cmd.Flags().GetBool("refresh")
	output, _ := cmd.Flags().GetString("output")

	f := newFetcher(lookupTimeout(cmd, cfg))

	cache := whoisCache(noCache)
	if refresh {
		if err := cache.Invalidate(name); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Note: could not invalidate cache entry: %v\n", err)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var data *domain.WhoisData
	var lookupErr error
	if term.IsTerminal(int(os.Stdout.Fd())) {
		accessible := os.Getenv("ACCESSIBLE") != ""
		spinErr := spinner.New().
			Title(fmt.Sprintf("Looking up %s...", name)).
			Accessible(accessible).
			Output(cmd.ErrOrStderr()).
			Action(func() {
				data, lookupErr = cache.Lookup(ctx, name, f.Whois)
			}).
			Run()
		if spinErr != nil {
			return spinErr
		}
	} else {
		data, lookupErr = cache.Lookup(ctx, name, f.Whois)
	}

	if lookupErr != nil {
		if errors.Is(lookupErr, domain.ErrToolUnavailable) {
			return errors.New("whois binary not found on PATH (install whois)")
		}
		if errors.Is(lookupErr, context.DeadlineExceeded) {
			return fmt.Errorf("whois lookup for %s timed out", name)
		}
		return lookupErr
	}

	if output == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}

	printWhois(cmd, data)
	return nil
}

// whoisCache returns the cache to consult, or nil to go straight to the
// registry. Lookup on a nil cache is a plain passthrough.
func whoisCache(noCache bool) *whoiscache.Cache {
	if noCache || os.Getenv("DIGGER_DISABLE_WHOIS_CACHE") == "1" {
		return nil
	}
	return whoiscache.NewDefault()
}

// lookupTimeout resolves the timeout from the flag, then config, then the
// runner default.
func lookupTimeout(cmd *cobra.Command, cfg *config.Config) time.Duration {
	if cmd.Flags().Changed("timeout") {
		if secs, _ := cmd.Flags().GetInt("timeout"); secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return cfg.Timeout()
}

func printWhois(cmd *cobra.Command, data *domain.WhoisData) {
	out := cmd.OutOrStdout()

	header := styles.Value.Render(data.Domain)
	if data.FromCache {
		header += styles.MutedText.Render("  (cached)")
	}
	fmt.Fprintln(out, header)

	if !data.HasParsedData() {
		fmt.Fprintln(out, "No structured registration data recognized; raw response follows.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, strings.TrimRight(data.Raw, "\n"))
		return
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	writeRow(w, "Registrar", data.Registrar)
	writeRow(w, "Created", data.CreatedDate)
	writeRow(w, "Updated", data.UpdatedDate)
	writeRow(w, "Expires", data.ExpiryDate)
	writeRow(w, "Name servers", strings.Join(data.NameServers, ", "))
	writeRow(w, "Status", strings.Join(data.Status, ", "))
	writeRow(w, "Registrant", registrantLine(data))
	if data.PrivacyProtected {
		writeRow(w, "Privacy", "registrant data withheld")
	}
	w.Flush()
}

// writeRow emits one label/value row, skipping empty values.
func writeRow(w *tabwriter.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "  %s:\t%s\n", label, value)
}

// registrantLine joins whatever registrant contact fields were parsed.
func registrantLine(data *domain.WhoisData) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{data.RegistrantName, data.RegistrantOrg, data.RegistrantEmail} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

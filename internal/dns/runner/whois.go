package runner

import (
	"context"
	"errors"
	"fmt"

	"diggercli/digger/internal/dns/domain"
	"diggercli/digger/internal/dns/parser"
	"diggercli/digger/internal/retry"
	"diggercli/digger/internal/util"
)

// errLookupFailed marks a whois attempt that is worth retrying: port-43
// servers drop connections and rate-limit aggressively.
var errLookupFailed = errors.New("whois lookup failed")

// Whois runs a registrant lookup with retries and parses the response.
// Unlike Query this returns an error, since there is no status enum on
// WhoisData to carry failures.
func (r *Runner) Whois(ctx context.Context, name string) (*domain.WhoisData, error) {
	name = util.NormalizeDomain(name)
	if err := util.ValidateDomain(name); err != nil {
		return nil, fmt.Errorf("runner: %w", err)
	}

	var output string
	err := r.whoisPolicy.Do(ctx, whoisRetryable, func() error {
		wctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		out, exitCode, runErr := r.run(wctx, whoisBinary, name)
		switch {
		case exitCode == 127:
			return fmt.Errorf("runner: whois binary not found: %w", domain.ErrToolUnavailable)
		case wctx.Err() != nil:
			return fmt.Errorf("runner: whois %s: %w", name, context.DeadlineExceeded)
		case runErr != nil && out == "":
			return fmt.Errorf("runner: whois %s exited %d: %w", name, exitCode, errLookupFailed)
		}

		// Some registries exit non-zero while still printing a usable
		// response; keep whatever text came back.
		output = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	return parser.ParseWhois(output, name), nil
}

// whoisRetryable retries failed attempts and deadline overruns, but never a
// missing binary or a canceled context.
func whoisRetryable(err error) bool {
	if errors.Is(err, domain.ErrToolUnavailable) {
		return false
	}
	return errors.Is(err, errLookupFailed) || retry.Transient(err)
}

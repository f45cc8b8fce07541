package domain

// QueryStatus classifies the outcome of a completed query attempt.
// Exactly one status is attached to every result; it is derived from the
// resolver's output and exit signal, never set by callers.
type QueryStatus string

const (
	// StatusSuccess means the resolver answered without error (NOERROR).
	// The answer section may still legitimately be empty.
	StatusSuccess QueryStatus = "success"

	// StatusNameNotFound means the queried domain does not exist (NXDOMAIN).
	StatusNameNotFound QueryStatus = "nxdomain"

	// StatusServerFailure means the upstream resolver failed (SERVFAIL).
	StatusServerFailure QueryStatus = "servfail"

	// StatusRefused means the resolver refused to answer (REFUSED).
	StatusRefused QueryStatus = "refused"

	// StatusTimeout means the query was canceled on its deadline. Timeout is
	// authoritative: it applies even when partial output was captured.
	StatusTimeout QueryStatus = "timeout"

	// StatusNetworkError means the tool exited non-zero without any
	// recognizable response marker (unreachable network, bad server, ...).
	StatusNetworkError QueryStatus = "network-error"

	// StatusInvalidDomain means the domain argument was empty or malformed
	// and the query was never worth sending.
	StatusInvalidDomain QueryStatus = "invalid-domain"

	// StatusToolUnavailable means the external tool binary is not installed
	// or not on PATH.
	StatusToolUnavailable QueryStatus = "tool-unavailable"
)

// String returns the machine-readable status token.
func (s QueryStatus) String() string { return string(s) }

// Label returns a short human-readable phrase for display.
func (s QueryStatus) Label() string {
	switch s {
	case StatusSuccess:
		return "OK"
	case StatusNameNotFound:
		return "No such domain"
	case StatusServerFailure:
		return "Server failure"
	case StatusRefused:
		return "Query refused"
	case StatusTimeout:
		return "Timed out"
	case StatusNetworkError:
		return "Network error"
	case StatusInvalidDomain:
		return "Invalid domain"
	case StatusToolUnavailable:
		return "Tool not installed"
	default:
		return string(s)
	}
}

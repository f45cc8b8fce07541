package domain

// QuerySpec is a validated description of one lookup. It is built by the CLI
// layer (flags or the interactive form), rendered into an argv by the
// command package and executed by the runner. A spec never mutates after
// construction.
type QuerySpec struct {
	// Domain is the name to resolve, or an IP literal when Reverse is set.
	Domain string `json:"domain"`

	// Type selects the record type. Ignored when Reverse is set (reverse
	// lookups imply PTR).
	Type RecordType `json:"type"`

	// Server is an explicit resolver to query. Empty means the system
	// resolver.
	Server string `json:"server,omitempty"`

	// Reverse requests a PTR lookup of an IP address.
	Reverse bool `json:"reverse,omitempty"`

	// Trace requests full delegation tracing from the root.
	Trace bool `json:"trace,omitempty"`

	// Short requests minimal answer-only output.
	Short bool `json:"short,omitempty"`

	// DNSSEC requests signature records alongside the answer.
	DNSSEC bool `json:"dnssec,omitempty"`

	// Verbose keeps the tool's default commentary instead of trimming the
	// output down to the answer section.
	Verbose bool `json:"verbose,omitempty"`
}

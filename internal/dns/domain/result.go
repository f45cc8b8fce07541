package domain

import "time"

// QueryResult is the complete outcome of one resolver invocation. It is
// built by the parser from a single text blob plus exit signals and is
// immutable afterwards: nothing else in the system legitimately mutates a
// result once it exists.
type QueryResult struct {
	// Domain is the name that was queried (the IP address for reverse
	// lookups).
	Domain string `json:"domain"`

	// Type is the record type that was requested.
	Type RecordType `json:"type"`

	// Server is the resolver address the answer came from: the SERVER
	// marker in the output when present, otherwise the address the query
	// was sent to. Empty when the system default resolver was used and the
	// output did not say.
	Server string `json:"server,omitempty"`

	// ElapsedMs is the query time in milliseconds, from the "Query time"
	// marker when present, else the measured wall time, else 0 (short
	// output suppresses the marker).
	ElapsedMs int64 `json:"elapsed_ms"`

	// Status classifies the overall outcome.
	Status QueryStatus `json:"status"`

	// Timestamp is when the result was constructed.
	Timestamp time.Time `json:"timestamp"`

	// Answer, Authority and Additional hold the parsed record sections in
	// the order the resolver returned them.
	Answer     []Record `json:"answer"`
	Authority  []Record `json:"authority"`
	Additional []Record `json:"additional"`

	// Reverse, Trace, Short and DNSSEC record which query modes were
	// requested, so presentation and export layers can reconstruct the
	// invocation.
	Reverse bool `json:"reverse,omitempty"`
	Trace   bool `json:"trace,omitempty"`
	Short   bool `json:"short,omitempty"`
	DNSSEC  bool `json:"dnssec,omitempty"`

	// Raw is the unparsed tool output, retained for diagnostics.
	Raw string `json:"raw,omitempty"`

	// Whois is an optional registrant lookup attached to the same session.
	Whois *WhoisData `json:"whois,omitempty"`
}

// TotalRecords returns the record count across all three sections.
func (r *QueryResult) TotalRecords() int {
	return len(r.Answer) + len(r.Authority) + len(r.Additional)
}

// HasAnswer reports whether the answer section is non-empty.
func (r *QueryResult) HasAnswer() bool { return len(r.Answer) > 0 }

// IsSuccessful reports whether the query completed without error. A
// successful query may still have an empty answer section.
func (r *QueryResult) IsSuccessful() bool { return r.Status == StatusSuccess }

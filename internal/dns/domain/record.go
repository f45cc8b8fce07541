package domain

import "fmt"

// Record represents a single DNS resource record parsed from resolver output.
// Records are constructed once by the parser and treated as read-only
// afterwards.
type Record struct {
	// Name is the owning name with any trailing dot stripped
	// (e.g. "example.com").
	Name string `json:"name"`

	// Type is the DNS record type (A, AAAA, MX, ...).
	Type RecordType `json:"type"`

	// TTL is the time-to-live in seconds. Always non-negative; lines with an
	// unparseable TTL never become records.
	TTL int `json:"ttl"`

	// Value is the record data rendered as text (IP address, hostname,
	// quoted TXT payload, signature, ...).
	Value string `json:"value"`

	// Priority is the MX preference value. It is NoPriority (-1) for every
	// non-MX record, and for MX lines that did not carry a distinct
	// priority token.
	Priority int `json:"priority"`

	// Sig holds the RRSIG signature metadata. Nil for all other types, and
	// for RRSIG lines too short to carry the full field set.
	Sig *SigMetadata `json:"sig,omitempty"`
}

// NoPriority marks the Priority field of records that have none.
const NoPriority = -1

// SigMetadata is the positional metadata of an RRSIG record.
type SigMetadata struct {
	// TypeCovered is the record type the signature covers.
	TypeCovered RecordType `json:"type_covered"`

	// Algorithm is the DNSSEC algorithm number (e.g. 13 = ECDSA P-256).
	Algorithm int `json:"algorithm"`

	// Labels is the label count of the signed owner name.
	Labels int `json:"labels"`

	// OriginalTTL is the TTL of the covered record set at signing time.
	OriginalTTL int `json:"original_ttl"`

	// Expiration and Inception are the signature validity bounds as printed
	// by the resolver (YYYYMMDDHHmmSS).
	Expiration string `json:"expiration"`
	Inception  string `json:"inception"`

	// KeyTag identifies the DNSKEY that produced the signature.
	KeyTag int `json:"key_tag"`

	// SignerName is the zone that signed, trailing dot stripped.
	SignerName string `json:"signer_name"`
}

// HasPriority reports whether the record carries an MX priority.
func (r Record) HasPriority() bool { return r.Priority != NoPriority }

// DisplayValue renders the record data for display, restoring the priority
// token the parser split off MX lines.
func (r Record) DisplayValue() string {
	if r.HasPriority() {
		return fmt.Sprintf("%d %s", r.Priority, r.Value)
	}
	return r.Value
}

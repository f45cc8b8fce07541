package domain

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// RecordType represents a DNS record type.
type RecordType string

const (
	RecordTypeA      RecordType = "A"
	RecordTypeAAAA   RecordType = "AAAA"
	RecordTypeCNAME  RecordType = "CNAME"
	RecordTypeMX     RecordType = "MX"
	RecordTypeNS     RecordType = "NS"
	RecordTypePTR    RecordType = "PTR"
	RecordTypeTXT    RecordType = "TXT"
	RecordTypeSOA    RecordType = "SOA"
	RecordTypeSRV    RecordType = "SRV"
	RecordTypeDNSKEY RecordType = "DNSKEY"
	RecordTypeDS     RecordType = "DS"
	RecordTypeRRSIG  RecordType = "RRSIG"
	RecordTypeNSEC   RecordType = "NSEC"
	RecordTypeNSEC3  RecordType = "NSEC3"
	RecordTypeANY    RecordType = "ANY"
)

// RecordTypes lists every supported record type in display order.
var RecordTypes = []RecordType{
	RecordTypeA,
	RecordTypeAAAA,
	RecordTypeCNAME,
	RecordTypeMX,
	RecordTypeNS,
	RecordTypePTR,
	RecordTypeTXT,
	RecordTypeSOA,
	RecordTypeSRV,
	RecordTypeDNSKEY,
	RecordTypeDS,
	RecordTypeRRSIG,
	RecordTypeNSEC,
	RecordTypeNSEC3,
	RecordTypeANY,
}

// supportedTypes is the membership set backing the lenient and strict lookups.
var supportedTypes = func() map[RecordType]bool {
	m := make(map[RecordType]bool, len(RecordTypes))
	for _, t := range RecordTypes {
		m[t] = true
	}
	return m
}()

// String returns the canonical uppercase textual form.
func (t RecordType) String() string { return string(t) }

// IsValid reports whether t is one of the supported record types.
func (t RecordType) IsValid() bool { return supportedTypes[t] }

// WireType returns the IANA RR type number for t (e.g. A = 1, AAAA = 28).
// The numbering comes from the miekg/dns registry so it stays aligned with
// the values the resolver itself speaks.
func (t RecordType) WireType() uint16 {
	if code, ok := dns.StringToType[string(t)]; ok {
		return code
	}
	return dns.TypeA
}

// RecordTypeFromString maps a textual record type to its RecordType,
// case-insensitively. Unrecognized input falls back to A rather than
// failing; callers that need strict validation should use ParseRecordType.
func RecordTypeFromString(s string) RecordType {
	t := RecordType(strings.ToUpper(strings.TrimSpace(s)))
	if supportedTypes[t] {
		return t
	}
	return RecordTypeA
}

// RecordTypeFromWire maps an IANA RR type number to its RecordType.
// Unrecognized or unsupported codes fall back to A, mirroring
// RecordTypeFromString.
func RecordTypeFromWire(code uint16) RecordType {
	name, ok := dns.TypeToString[code]
	if !ok {
		return RecordTypeA
	}
	t := RecordType(name)
	if supportedTypes[t] {
		return t
	}
	return RecordTypeA
}

// ParseRecordType is the strict variant of RecordTypeFromString: it returns
// an error for input outside the supported set instead of coercing to A.
func ParseRecordType(s string) (RecordType, error) {
	t := RecordType(strings.ToUpper(strings.TrimSpace(s)))
	if !supportedTypes[t] {
		return "", fmt.Errorf("unsupported record type %q: %w", s, ErrInvalidSpec)
	}
	return t, nil
}

// Description returns a one-line explanation of what the record type holds,
// used in help text and the interactive wizard.
func (t RecordType) Description() string {
	switch t {
	case RecordTypeA:
		return "IPv4 address"
	case RecordTypeAAAA:
		return "IPv6 address"
	case RecordTypeCNAME:
		return "Canonical name (alias)"
	case RecordTypeMX:
		return "Mail exchange"
	case RecordTypeNS:
		return "Authoritative name server"
	case RecordTypePTR:
		return "Pointer (reverse lookup)"
	case RecordTypeTXT:
		return "Text (SPF, DKIM, verification)"
	case RecordTypeSOA:
		return "Start of authority"
	case RecordTypeSRV:
		return "Service locator"
	case RecordTypeDNSKEY:
		return "DNSSEC public key"
	case RecordTypeDS:
		return "DNSSEC delegation signer"
	case RecordTypeRRSIG:
		return "DNSSEC record signature"
	case RecordTypeNSEC:
		return "DNSSEC denial of existence"
	case RecordTypeNSEC3:
		return "DNSSEC hashed denial of existence"
	case RecordTypeANY:
		return "All record types (deprecated, often filtered)"
	default:
		return ""
	}
}

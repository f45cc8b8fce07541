package domain

import "time"

// WhoisData is one registrant-lookup result. Like QueryResult it is built
// once from raw tool output and read-only afterwards. Individual registries
// format their responses differently, so every field except Domain, Raw and
// Timestamp is best-effort.
type WhoisData struct {
	// Domain is the name that was looked up.
	Domain string `json:"domain"`

	// Registrar is the sponsoring registrar, when the registry said.
	Registrar string `json:"registrar,omitempty"`

	// CreatedDate, UpdatedDate and ExpiryDate are the registration dates as
	// printed by the registry (formats vary; no reparsing is attempted).
	CreatedDate string `json:"created_date,omitempty"`
	UpdatedDate string `json:"updated_date,omitempty"`
	ExpiryDate  string `json:"expiry_date,omitempty"`

	// NameServers lists the delegated name servers in response order,
	// lowercased.
	NameServers []string `json:"name_servers,omitempty"`

	// Status lists the EPP status tokens in response order.
	Status []string `json:"status,omitempty"`

	// Registrant contact details, when not withheld.
	RegistrantName  string `json:"registrant_name,omitempty"`
	RegistrantEmail string `json:"registrant_email,omitempty"`
	RegistrantOrg   string `json:"registrant_org,omitempty"`

	// PrivacyProtected is set when the response indicates the registrant is
	// behind a privacy/proxy service.
	PrivacyProtected bool `json:"privacy_protected,omitempty"`

	// Raw is the unparsed tool output, retained for diagnostics.
	Raw string `json:"raw,omitempty"`

	// Timestamp is when the lookup completed.
	Timestamp time.Time `json:"timestamp"`

	// FromCache marks a value served from the local cache rather than
	// freshly fetched. The cache itself lives outside this package; only
	// the flag is carried here.
	FromCache bool `json:"from_cache,omitempty"`
}

// HasParsedData reports whether the parser extracted anything structured:
// at least one of registrar, creation date, name servers or status tokens.
// False usually means an unrecognized registry format or a "no match"
// response, in which case Raw is all there is to show.
func (w *WhoisData) HasParsedData() bool {
	return w.Registrar != "" || w.CreatedDate != "" ||
		len(w.NameServers) > 0 || len(w.Status) > 0
}

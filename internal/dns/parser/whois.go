package parser

import (
	"strings"
	"time"

	"diggercli/digger/internal/dns/domain"
)

// Label sets for the "known label, colon-separated value" fields of whois
// output. Registries differ in wording, so each field accepts several
// spellings; matching is case-insensitive on the label.
var (
	registrarLabels = []string{"registrar"}
	createdLabels   = []string{"creation date", "created", "registered on", "registration date"}
	updatedLabels   = []string{"updated date", "last updated", "modified", "changed"}
	expiryLabels    = []string{"registry expiry date", "expiry date", "expiration date", "expires", "paid-till"}
	serverLabels    = []string{"name server", "nserver", "nameserver"}
	statusLabels    = []string{"domain status", "status"}
	regNameLabels   = []string{"registrant name"}
	regEmailLabels  = []string{"registrant email"}
	regOrgLabels    = []string{"registrant organization", "registrant organisation"}
)

// privacyMarkers flag a registrant hidden behind a privacy or proxy
// service.
var privacyMarkers = []string{
	"redacted for privacy",
	"privacy protect",
	"whoisguard",
	"withheld for privacy",
	"domains by proxy",
	"identity protection",
}

// ParseWhois builds a WhoisData from raw whois output. Like ParseQuery it
// is best-effort: unrecognized registry formats produce a value carrying
// only the raw text, which HasParsedData reports as unparsed.
func ParseWhois(output, domainName string) *domain.WhoisData {
	data := &domain.WhoisData{
		Domain:    strings.TrimSuffix(strings.ToLower(domainName), "."),
		Raw:       output,
		Timestamp: time.Now(),
	}

	seenServers := map[string]bool{}
	seenStatus := map[string]bool{}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%") || strings.HasPrefix(line, ">>>") {
			continue
		}

		label, value, ok := splitLabelValue(line)
		if !ok {
			continue
		}

		switch {
		case matchLabel(label, registrarLabels):
			setFirst(&data.Registrar, value)
		case matchLabel(label, createdLabels):
			setFirst(&data.CreatedDate, value)
		case matchLabel(label, updatedLabels):
			setFirst(&data.UpdatedDate, value)
		case matchLabel(label, expiryLabels):
			setFirst(&data.ExpiryDate, value)
		case matchLabel(label, serverLabels):
			// Some registries append metadata after the host name.
			host := strings.ToLower(strings.Fields(value)[0])
			host = strings.TrimSuffix(host, ".")
			if !seenServers[host] {
				seenServers[host] = true
				data.NameServers = append(data.NameServers, host)
			}
		case matchLabel(label, statusLabels):
			// EPP status lines carry a trailing ICANN URL; keep the token.
			token := strings.Fields(value)[0]
			if !seenStatus[token] {
				seenStatus[token] = true
				data.Status = append(data.Status, token)
			}
		case matchLabel(label, regNameLabels):
			setFirst(&data.RegistrantName, value)
		case matchLabel(label, regEmailLabels):
			setFirst(&data.RegistrantEmail, value)
		case matchLabel(label, regOrgLabels):
			setFirst(&data.RegistrantOrg, value)
		}
	}

	lower := strings.ToLower(output)
	for _, marker := range privacyMarkers {
		if strings.Contains(lower, marker) {
			data.PrivacyProtected = true
			break
		}
	}

	return data
}

// splitLabelValue splits "Label: value" into its halves. Lines without a
// colon, or with an empty value, are not field lines.
func splitLabelValue(line string) (label, value string, ok bool) {
	i := strings.Index(line, ":")
	if i <= 0 {
		return "", "", false
	}
	label = strings.TrimSpace(line[:i])
	value = strings.TrimSpace(line[i+1:])
	if value == "" {
		return "", "", false
	}
	return label, value, true
}

func matchLabel(label string, candidates []string) bool {
	label = strings.ToLower(label)
	for _, c := range candidates {
		if label == c {
			return true
		}
	}
	return false
}

// setFirst assigns value only if the destination is still empty, so the
// registry section wins over later registrar-supplied repeats.
func setFirst(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

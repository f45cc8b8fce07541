package command

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"

	"diggercli/digger/internal/dns/domain"
)

// Endpoint is a DNS-over-HTTPS resolver endpoint for the curl dialect.
type Endpoint struct {
	Name string
	URL  string
}

// Well-known JSON API endpoints. Both expect the application/dns-json
// accept header and the name=&type= parameter style.
var (
	EndpointCloudflare = Endpoint{Name: "cloudflare", URL: "https://cloudflare-dns.com/dns-query"}
	EndpointGoogle     = Endpoint{Name: "google", URL: "https://dns.google/resolve"}
)

// curlLineWidth is the readability threshold for the rendered curl command.
// Longer commands split after the header flag with a backslash
// continuation.
const curlLineWidth = 120

// curlPrefix is the fixed start of every curl-dialect command.
const curlPrefix = "curl -H 'accept: application/dns-json'"

// EndpointFor resolves an endpoint selector: the well-known names
// "cloudflare" and "google", or a custom https URL.
func EndpointFor(selector string) (Endpoint, error) {
	switch strings.ToLower(strings.TrimSpace(selector)) {
	case "", EndpointCloudflare.Name:
		return EndpointCloudflare, nil
	case EndpointGoogle.Name:
		return EndpointGoogle, nil
	}
	if strings.HasPrefix(selector, "https://") {
		return Endpoint{Name: "custom", URL: selector}, nil
	}
	return Endpoint{}, fmt.Errorf("command: unknown DoH endpoint %q (want cloudflare, google, or an https URL): %w", selector, domain.ErrInvalidSpec)
}

// GenerateDoH renders the curl DNS-over-HTTPS equivalent of a spec. Reverse
// lookups become PTR queries for the reverse-mapping name, since the JSON
// API has no -x shorthand.
func GenerateDoH(spec domain.QuerySpec, endpoint Endpoint) (Invocation, error) {
	if err := validate(spec); err != nil {
		return Invocation{}, err
	}

	name := spec.Domain
	qtype := spec.Type
	if spec.Reverse {
		arpa, err := dns.ReverseAddr(spec.Domain)
		if err != nil {
			return Invocation{}, fmt.Errorf("command: reverse name for %q: %w", spec.Domain, domain.ErrInvalidSpec)
		}
		name = strings.TrimSuffix(arpa, ".")
		qtype = domain.RecordTypePTR
	}

	// Parameter order is part of the rendered surface; url.Values would
	// re-sort it alphabetically.
	params := fmt.Sprintf("name=%s&type=%s", name, qtype)
	if spec.DNSSEC {
		params += "&do=1"
	}

	url := fmt.Sprintf("'%s?%s'", endpoint.URL, params)

	cmd := curlPrefix + " " + url
	if len(cmd) > curlLineWidth {
		cmd = curlPrefix + " \\\n    " + url
	}

	return Invocation{
		Command:  cmd,
		Advisory: advisoryFor(spec),
	}, nil
}

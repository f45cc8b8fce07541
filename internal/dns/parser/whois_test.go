package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const exampleWhois = `   Domain Name: EXAMPLE.COM
   Registry Domain ID: 2336799_DOMAIN_COM-VRSN
   Registrar WHOIS Server: whois.iana.org
   Updated Date: 2024-08-14T07:01:34Z
   Creation Date: 1995-08-14T04:00:00Z
   Registry Expiry Date: 2025-08-13T04:00:00Z
   Registrar: RESERVED-Internet Assigned Numbers Authority
   Domain Status: clientDeleteProhibited https://icann.org/epp#clientDeleteProhibited
   Domain Status: clientTransferProhibited https://icann.org/epp#clientTransferProhibited
   Name Server: A.IANA-SERVERS.NET
   Name Server: B.IANA-SERVERS.NET
   DNSSEC: signedDelegation
>>> Last update of whois database: 2024-08-20T09:00:00Z <<<`

func TestParseWhois_StandardResponse(t *testing.T) {
	data := ParseWhois(exampleWhois, "example.com")

	if data.Domain != "example.com" {
		t.Errorf("Domain = %q, want %q", data.Domain, "example.com")
	}
	if data.Registrar != "RESERVED-Internet Assigned Numbers Authority" {
		t.Errorf("Registrar = %q", data.Registrar)
	}
	if data.CreatedDate != "1995-08-14T04:00:00Z" {
		t.Errorf("CreatedDate = %q", data.CreatedDate)
	}
	if data.UpdatedDate != "2024-08-14T07:01:34Z" {
		t.Errorf("UpdatedDate = %q", data.UpdatedDate)
	}
	if data.ExpiryDate != "2025-08-13T04:00:00Z" {
		t.Errorf("ExpiryDate = %q", data.ExpiryDate)
	}

	wantServers := []string{"a.iana-servers.net", "b.iana-servers.net"}
	if diff := cmp.Diff(wantServers, data.NameServers); diff != "" {
		t.Errorf("name servers mismatch (-want +got):\n%s", diff)
	}

	wantStatus := []string{"clientDeleteProhibited", "clientTransferProhibited"}
	if diff := cmp.Diff(wantStatus, data.Status); diff != "" {
		t.Errorf("status tokens mismatch (-want +got):\n%s", diff)
	}

	if !data.HasParsedData() {
		t.Error("HasParsedData() = false, want true")
	}
	if data.PrivacyProtected {
		t.Error("PrivacyProtected = true, want false")
	}
}

func TestParseWhois_FirstValueWinsOnRepeats(t *testing.T) {
	output := `Registrar: Registry Operator
Creation Date: 2000-01-01T00:00:00Z

Registrar: Reseller Inc
Creation Date: 2000-01-02T00:00:00Z`

	data := ParseWhois(output, "example.com")

	if data.Registrar != "Registry Operator" {
		t.Errorf("Registrar = %q, want first occurrence", data.Registrar)
	}
	if data.CreatedDate != "2000-01-01T00:00:00Z" {
		t.Errorf("CreatedDate = %q, want first occurrence", data.CreatedDate)
	}
}

func TestParseWhois_DeduplicatesServers(t *testing.T) {
	output := `Name Server: NS1.EXAMPLE.NET
Name Server: ns1.example.net
nserver: ns2.example.net 192.0.2.1`

	data := ParseWhois(output, "example.com")

	want := []string{"ns1.example.net", "ns2.example.net"}
	if diff := cmp.Diff(want, data.NameServers); diff != "" {
		t.Errorf("name servers mismatch (-want +got):\n%s", diff)
	}
}

func TestParseWhois_RegistrantFields(t *testing.T) {
	output := `Registrant Name: Jane Admin
Registrant Organization: Example Org LLC
Registrant Email: hostmaster@example.com`

	data := ParseWhois(output, "example.com")

	if data.RegistrantName != "Jane Admin" {
		t.Errorf("RegistrantName = %q", data.RegistrantName)
	}
	if data.RegistrantOrg != "Example Org LLC" {
		t.Errorf("RegistrantOrg = %q", data.RegistrantOrg)
	}
	if data.RegistrantEmail != "hostmaster@example.com" {
		t.Errorf("RegistrantEmail = %q", data.RegistrantEmail)
	}
}

func TestParseWhois_PrivacyDetection(t *testing.T) {
	output := `Registrar: Example Registrar
Registrant Name: REDACTED FOR PRIVACY
Registrant Organization: Privacy Protect, LLC`

	data := ParseWhois(output, "example.com")

	if !data.PrivacyProtected {
		t.Error("PrivacyProtected = false, want true")
	}
}

func TestParseWhois_NoMatch(t *testing.T) {
	output := `No match for domain "DEFINITELY-NOT-REGISTERED-12345.COM".
>>> Last update of whois database: 2024-08-20T09:00:00Z <<<`

	data := ParseWhois(output, "definitely-not-registered-12345.com")

	if data.HasParsedData() {
		t.Error("HasParsedData() = true for a no-match response, want false")
	}
	if data.Raw != output {
		t.Error("Raw should retain the unparsed output")
	}
}

func TestParseWhois_IgnoresCommentLines(t *testing.T) {
	output := `% This is a RIPE-style comment: not a field
Registrar: Example Registrar`

	data := ParseWhois(output, "example.com")

	if data.Registrar != "Example Registrar" {
		t.Errorf("Registrar = %q, want %q", data.Registrar, "Example Registrar")
	}
}

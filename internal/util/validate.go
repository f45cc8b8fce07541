package util

import (
	"fmt"
	"regexp"
	"strings"
)

// maxDomainLength is the RFC 1035 limit on a full domain name.
const maxDomainLength = 253

// validDomainChars matches alphanumeric characters, hyphens, periods, and
// underscores. Underscores are accepted for service labels such as
// _dmarc.example.com and _sip._tcp.example.com.
var validDomainChars = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)

// ValidateDomain checks that a domain name is well-formed enough to hand to
// the resolver tool:
//   - Non-empty, at most 253 characters
//   - Only alphanumeric characters, hyphens (-), periods (.), and
//     underscores (_)
//   - No empty labels (consecutive periods)
//   - First character alphanumeric or underscore, last character alphanumeric
func ValidateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain name is required")
	}

	if len(domain) > maxDomainLength {
		return fmt.Errorf("domain name exceeds %d characters, got %d", maxDomainLength, len(domain))
	}

	if !validDomainChars.MatchString(domain) {
		return fmt.Errorf("domain %q contains invalid characters (only a-z, A-Z, 0-9, hyphens, periods, and underscores are allowed)", domain)
	}

	if strings.Contains(domain, "..") {
		return fmt.Errorf("domain %q contains an empty label", domain)
	}

	first := domain[0]
	if !isAlphanumeric(first) && first != '_' {
		return fmt.Errorf("domain must start with an alphanumeric character or underscore, got %q", string(first))
	}

	last := domain[len(domain)-1]
	if !isAlphanumeric(last) {
		return fmt.Errorf("domain must end with an alphanumeric character, got %q", string(last))
	}

	return nil
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

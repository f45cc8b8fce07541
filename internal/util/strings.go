package util

import "strings"

// NormalizeDomain lowercases, trims, and strips the trailing dot from a
// domain name for use as a consistent lookup key.
func NormalizeDomain(s string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
}

package domain

import "errors"

// Sentinel errors shared across the dns packages. Callers match with
// errors.Is; wrapped messages carry the specifics.
var (
	// ErrInvalidSpec indicates a query spec that cannot be turned into a
	// command: bad domain, unknown record type, reverse lookup without an
	// IP literal.
	ErrInvalidSpec = errors.New("invalid query spec")

	// ErrToolUnavailable indicates the external lookup tool is not
	// installed or not on PATH.
	ErrToolUnavailable = errors.New("lookup tool unavailable")

	// ErrNotFound indicates the requested stored resource does not exist.
	ErrNotFound = errors.New("not found")
)

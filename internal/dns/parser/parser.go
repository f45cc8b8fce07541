// Package parser turns raw resolver and whois tool output into typed
// results. Parsing is pure and best-effort: malformed lines are skipped,
// never fatal, so a partially garbled response still yields a usable result
// with however many records could be extracted.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"diggercli/digger/internal/dns/domain"
)

// Input carries one finished tool invocation: its combined output, exit
// signals, and what the runner measured. The parser never launches
// processes; whoever did hands this in.
type Input struct {
	// Output is the tool's combined stdout text. May be empty.
	Output string

	// ExitCode is the process exit status. 0 means clean exit.
	ExitCode int

	// TimedOut marks an invocation canceled by its deadline. Authoritative:
	// it overrides whatever partial Output says.
	TimedOut bool

	// Elapsed is the measured wall time, used when the output carries no
	// "Query time" marker (short output suppresses it). Zero means
	// unmeasured.
	Elapsed time.Duration

	// InvalidDomain marks a query whose domain argument failed validation
	// before execution.
	InvalidDomain bool
}

// Patterns for the metadata markers dig prints in its comment lines.
var (
	queryTimePattern = regexp.MustCompile(`Query time:\s*(\d+)\s*msec`)
	serverPattern    = regexp.MustCompile(`SERVER:\s*(\S+)`)
)

// Section headers inside dig's comment output.
const (
	answerHeader     = "ANSWER SECTION:"
	authorityHeader  = "AUTHORITY SECTION:"
	additionalHeader = "ADDITIONAL SECTION:"
)

// Record classes accepted in record lines. Anything else means the line is
// not a resource record.
var recordClasses = map[string]bool{"IN": true, "CH": true, "HS": true}

// rrsigFieldCount is the number of positional metadata fields an RRSIG
// value carries before the signature itself.
const rrsigFieldCount = 8

// ParseQuery builds a QueryResult from one resolver invocation. It always
// returns a well-formed result; degraded input shows up as a non-success
// status or missing records, never as an error.
func ParseQuery(in Input, spec domain.QuerySpec) *domain.QueryResult {
	result := &domain.QueryResult{
		Domain:    strings.TrimSuffix(spec.Domain, "."),
		Type:      spec.Type,
		Server:    spec.Server,
		Status:    classify(in),
		Timestamp: time.Now(),
		Reverse:   spec.Reverse,
		Trace:     spec.Trace,
		Short:     spec.Short,
		DNSSEC:    spec.DNSSEC,
		Raw:       in.Output,
	}

	if server := extractServer(in.Output); server != "" {
		result.Server = server
	}

	if ms, ok := extractQueryTime(in.Output); ok {
		result.ElapsedMs = ms
	} else if in.Elapsed > 0 {
		result.ElapsedMs = in.Elapsed.Milliseconds()
	}

	result.Answer, result.Authority, result.Additional = parseSections(in.Output)
	return result
}

// classify derives the query status from exit signals and output markers.
// First match wins; the order is load-bearing (a timeout beats any marker in
// partial text, and an NXDOMAIN marker beats a non-zero exit).
func classify(in Input) domain.QueryStatus {
	switch {
	case in.TimedOut:
		return domain.StatusTimeout
	case in.ExitCode != 0 && toolMissing(in):
		return domain.StatusToolUnavailable
	case strings.Contains(in.Output, "NXDOMAIN"):
		return domain.StatusNameNotFound
	case strings.Contains(in.Output, "SERVFAIL"):
		return domain.StatusServerFailure
	case strings.Contains(in.Output, "REFUSED"):
		return domain.StatusRefused
	case in.InvalidDomain:
		return domain.StatusInvalidDomain
	case in.ExitCode != 0:
		return domain.StatusNetworkError
	default:
		return domain.StatusSuccess
	}
}

// toolMissing reports whether the exit signals look like "no such program"
// rather than a failed query. Shells report exit 127 for an unknown
// command; Go's exec layer prints "executable file not found".
func toolMissing(in Input) bool {
	if in.ExitCode == 127 {
		return true
	}
	out := strings.ToLower(in.Output)
	return strings.Contains(out, "executable file not found") ||
		strings.Contains(out, "command not found")
}

// parseSections walks the output once, switching the destination section on
// each header marker and collecting record lines in source order.
func parseSections(output string) (answer, authority, additional []domain.Record) {
	var current *[]domain.Record

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Comment lines carry the section headers; everything else
		// commented is metadata we extract separately.
		if strings.HasPrefix(line, ";") {
			switch {
			case strings.Contains(line, answerHeader):
				current = &answer
			case strings.Contains(line, authorityHeader):
				current = &authority
			case strings.Contains(line, additionalHeader):
				current = &additional
			}
			continue
		}

		if current == nil {
			continue
		}
		if rec, ok := parseRecordLine(line); ok {
			*current = append(*current, rec)
		}
	}
	return answer, authority, additional
}

// parseRecordLine tokenizes one candidate resource record line:
//
//	name  ttl  class  type  value...
//
// Lines with too few fields, a non-integer TTL, an unknown class, or a
// record type outside the supported set are skipped.
func parseRecordLine(line string) (domain.Record, bool) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return domain.Record{}, false
	}

	ttl, err := strconv.Atoi(fields[1])
	if err != nil || ttl < 0 {
		return domain.Record{}, false
	}
	if !recordClasses[fields[2]] {
		return domain.Record{}, false
	}

	rtype, err := domain.ParseRecordType(fields[3])
	if err != nil {
		return domain.Record{}, false
	}

	rec := domain.Record{
		Name:     strings.TrimSuffix(fields[0], "."),
		Type:     rtype,
		TTL:      ttl,
		Priority: domain.NoPriority,
	}

	value := fields[4:]
	switch rtype {
	case domain.RecordTypeMX:
		rec.Priority, rec.Value = parseMXValue(value)
	case domain.RecordTypeRRSIG:
		rec.Sig, rec.Value = parseRRSIGValue(value)
	default:
		rec.Value = strings.TrimSuffix(strings.Join(value, " "), ".")
	}
	return rec, true
}

// parseMXValue splits an MX value into priority and mail server. An MX line
// whose first token is not an integer keeps the whole value and reports no
// priority.
func parseMXValue(fields []string) (int, string) {
	if len(fields) >= 2 {
		if prio, err := strconv.Atoi(fields[0]); err == nil {
			return prio, strings.TrimSuffix(strings.Join(fields[1:], " "), ".")
		}
	}
	return domain.NoPriority, strings.TrimSuffix(strings.Join(fields, " "), ".")
}

// parseRRSIGValue extracts the eight positional metadata fields of an RRSIG
// value:
//
//	type-covered  algorithm  labels  original-ttl  expiration  inception  key-tag  signer  signature...
//
// Values too short or with non-integer numeric fields yield no metadata;
// the record keeps the joined value either way.
func parseRRSIGValue(fields []string) (*domain.SigMetadata, string) {
	value := strings.Join(fields, " ")
	if len(fields) < rrsigFieldCount {
		return nil, value
	}

	algorithm, err1 := strconv.Atoi(fields[1])
	labels, err2 := strconv.Atoi(fields[2])
	originalTTL, err3 := strconv.Atoi(fields[3])
	keyTag, err4 := strconv.Atoi(fields[6])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return nil, value
	}

	sig := &domain.SigMetadata{
		TypeCovered: domain.RecordTypeFromString(fields[0]),
		Algorithm:   algorithm,
		Labels:      labels,
		OriginalTTL: originalTTL,
		Expiration:  fields[4],
		Inception:   fields[5],
		KeyTag:      keyTag,
		SignerName:  strings.TrimSuffix(fields[7], "."),
	}
	return sig, value
}

// extractQueryTime pulls the millisecond duration from dig's
// ";; Query time: N msec" marker.
func extractQueryTime(output string) (int64, bool) {
	m := queryTimePattern.FindStringSubmatch(output)
	if m == nil {
		return 0, false
	}
	ms, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return ms, true
}

// extractServer pulls the resolver address from dig's ";; SERVER:" marker,
// dropping the "#port" suffix when present.
func extractServer(output string) string {
	m := serverPattern.FindStringSubmatch(output)
	if m == nil {
		return ""
	}
	server := m[1]
	if i := strings.Index(server, "#"); i >= 0 {
		server = server[:i]
	}
	return strings.TrimSpace(server)
}

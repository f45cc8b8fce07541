package history

import (
	"time"

	"diggercli/digger/internal/dns/domain"
)

// DedupWindow is how far back Save looks for an identical query before
// refreshing the existing row instead of inserting a near-duplicate.
const DedupWindow = 5 * time.Minute

// Entry is one persisted query.
type Entry struct {
	ID        int64              `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Domain    string             `json:"domain"`
	Type      domain.RecordType  `json:"type"`
	Server    string             `json:"server,omitempty"`
	Status    domain.QueryStatus `json:"status"`
	ElapsedMs int64              `json:"elapsed_ms"`
}

// FromResult builds a history entry from a completed query.
func FromResult(res *domain.QueryResult) *Entry {
	return &Entry{
		Timestamp: res.Timestamp,
		Domain:    res.Domain,
		Type:      res.Type,
		Server:    res.Server,
		Status:    res.Status,
		ElapsedMs: res.ElapsedMs,
	}
}

// Stats summarizes the stored history.
type Stats struct {
	TotalQueries   int               `json:"total_queries"`
	UniqueDomains  int               `json:"unique_domains"`
	MostCommonType domain.RecordType `json:"most_common_type,omitempty"`

	// SuccessRate is the percentage of stored queries whose status is
	// success, in the range 0 to 100.
	SuccessRate float64 `json:"success_rate"`

	// TypeDistribution counts stored queries per record type.
	TypeDistribution map[domain.RecordType]int `json:"type_distribution"`
}

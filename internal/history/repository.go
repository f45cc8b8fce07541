package history

import (
	"database/sql"
	"fmt"
	"slices"
	"time"

	"diggercli/digger/internal/database"
	"diggercli/digger/internal/dns/domain"
)

// Repository defines the persistence interface for query history.
type Repository interface {
	Save(entry *Entry) error
	List(limit int) ([]Entry, error)
	Search(term string, limit int) ([]Entry, error)
	RecentDomains(limit int) ([]string, error)
	RecentLatencies(limit int) ([]float64, error)
	Stats() (*Stats, error)
	Prune(olderThan time.Duration) (int64, error)
	EnforceLimit(max int) (int64, error)
	Clear() error
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open creates or opens the history repository at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS query_history (
            id          INTEGER PRIMARY KEY AUTOINCREMENT,
            timestamp   TEXT    NOT NULL,
            domain      TEXT    NOT NULL,
            record_type TEXT    NOT NULL,
            server      TEXT    NOT NULL DEFAULT '',
            status      TEXT    NOT NULL DEFAULT '',
            elapsed_ms  INTEGER NOT NULL DEFAULT 0
        );
        CREATE INDEX IF NOT EXISTS idx_query_history_timestamp ON query_history(timestamp);
        CREATE INDEX IF NOT EXISTS idx_query_history_domain ON query_history(domain);
    `
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("history: migration failed: %w", err)
	}
	return nil
}

// Save records a completed query. When the same domain, type and server
// combination was queried within DedupWindow, the existing row gets the
// new timestamp, status and elapsed time instead of a duplicate insert.
// Domain comparison is case-insensitive.
func (r *SQLiteRepository) Save(entry *Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	// Stored as UTC RFC 3339 so lexicographic ORDER BY matches time order.
	entry.Timestamp = entry.Timestamp.UTC()
	ts := entry.Timestamp.Format(time.RFC3339Nano)
	cutoff := entry.Timestamp.Add(-DedupWindow).Format(time.RFC3339Nano)

	var id int64
	err := r.db.QueryRow(`
        SELECT id FROM query_history
        WHERE lower(domain) = lower(?) AND record_type = ? AND server = ? AND timestamp >= ?
        ORDER BY timestamp DESC LIMIT 1`,
		entry.Domain, string(entry.Type), entry.Server, cutoff,
	).Scan(&id)
	if err == nil {
		_, err = r.db.Exec(`UPDATE query_history SET timestamp = ?, status = ?, elapsed_ms = ? WHERE id = ?`,
			ts, string(entry.Status), entry.ElapsedMs, id)
		if err != nil {
			return fmt.Errorf("history: update failed: %w", err)
		}
		entry.ID = id
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("history: lookup failed: %w", err)
	}

	result, err := r.db.Exec(`
        INSERT INTO query_history (timestamp, domain, record_type, server, status, elapsed_ms)
        VALUES (?, ?, ?, ?, ?, ?)`,
		ts, entry.Domain, string(entry.Type), entry.Server, string(entry.Status), entry.ElapsedMs,
	)
	if err != nil {
		return fmt.Errorf("history: insert failed: %w", err)
	}

	id, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("history: failed to get last insert ID: %w", err)
	}
	entry.ID = id
	return nil
}

// List returns the most recent entries, newest first. A limit of zero or
// less returns everything.
func (r *SQLiteRepository) List(limit int) ([]Entry, error) {
	rows, err := r.db.Query(`
        SELECT id, timestamp, domain, record_type, server, status, elapsed_ms
        FROM query_history ORDER BY timestamp DESC LIMIT ?`, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("history: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Search returns entries whose domain contains the term, newest first.
// Matching is a case-insensitive substring test.
func (r *SQLiteRepository) Search(term string, limit int) ([]Entry, error) {
	rows, err := r.db.Query(`
        SELECT id, timestamp, domain, record_type, server, status, elapsed_ms
        FROM query_history WHERE instr(lower(domain), lower(?)) > 0
        ORDER BY timestamp DESC LIMIT ?`, term, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("history: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// RecentDomains returns distinct lowercased domains ordered from most to
// least recently queried.
func (r *SQLiteRepository) RecentDomains(limit int) ([]string, error) {
	rows, err := r.db.Query(`
        SELECT lower(domain), MAX(timestamp) AS latest
        FROM query_history GROUP BY lower(domain)
        ORDER BY latest DESC LIMIT ?`, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("history: query failed: %w", err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var name, latest string
		if err := rows.Scan(&name, &latest); err != nil {
			return nil, fmt.Errorf("history: scan failed: %w", err)
		}
		domains = append(domains, name)
	}
	return domains, rows.Err()
}

// RecentLatencies returns the elapsed times of the most recent successful
// queries, oldest first so they plot left to right. Queries without a
// measured time are skipped.
func (r *SQLiteRepository) RecentLatencies(limit int) ([]float64, error) {
	rows, err := r.db.Query(`
        SELECT elapsed_ms FROM query_history
        WHERE status = ? AND elapsed_ms > 0
        ORDER BY timestamp DESC LIMIT ?`, string(domain.StatusSuccess), sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("history: query failed: %w", err)
	}
	defer rows.Close()

	var latencies []float64
	for rows.Next() {
		var ms int64
		if err := rows.Scan(&ms); err != nil {
			return nil, fmt.Errorf("history: scan failed: %w", err)
		}
		latencies = append(latencies, float64(ms))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.Reverse(latencies)
	return latencies, nil
}

// Stats summarizes the stored history. Ties for the most common type go
// to the alphabetically first type so the result is stable.
func (r *SQLiteRepository) Stats() (*Stats, error) {
	s := &Stats{TypeDistribution: map[domain.RecordType]int{}}

	err := r.db.QueryRow(`SELECT COUNT(*), COUNT(DISTINCT lower(domain)) FROM query_history`).
		Scan(&s.TotalQueries, &s.UniqueDomains)
	if err != nil {
		return nil, fmt.Errorf("history: stats query failed: %w", err)
	}
	if s.TotalQueries == 0 {
		return s, nil
	}

	var successes int
	err = r.db.QueryRow(`SELECT COUNT(*) FROM query_history WHERE status = ?`, string(domain.StatusSuccess)).
		Scan(&successes)
	if err != nil {
		return nil, fmt.Errorf("history: stats query failed: %w", err)
	}
	s.SuccessRate = float64(successes) / float64(s.TotalQueries) * 100

	rows, err := r.db.Query(`SELECT record_type, COUNT(*) FROM query_history GROUP BY record_type`)
	if err != nil {
		return nil, fmt.Errorf("history: stats query failed: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("history: scan failed: %w", err)
		}
		s.TypeDistribution[domain.RecordType(typ)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	best := 0
	for typ, n := range s.TypeDistribution {
		if n > best || (n == best && typ < s.MostCommonType) {
			best, s.MostCommonType = n, typ
		}
	}
	return s, nil
}

// Prune deletes entries older than the given duration.
func (r *SQLiteRepository) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339Nano)
	result, err := r.db.Exec(`DELETE FROM query_history WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("history: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// EnforceLimit trims the history to the newest max entries. A limit of
// zero or less keeps everything.
func (r *SQLiteRepository) EnforceLimit(max int) (int64, error) {
	if max <= 0 {
		return 0, nil
	}
	result, err := r.db.Exec(`
        DELETE FROM query_history WHERE id NOT IN (
            SELECT id FROM query_history ORDER BY timestamp DESC LIMIT ?)`, max)
	if err != nil {
		return 0, fmt.Errorf("history: trim failed: %w", err)
	}
	return result.RowsAffected()
}

// Clear deletes all stored entries.
func (r *SQLiteRepository) Clear() error {
	if _, err := r.db.Exec(`DELETE FROM query_history`); err != nil {
		return fmt.Errorf("history: clear failed: %w", err)
	}
	return nil
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// sqlLimit maps "no limit" onto SQLite's negative LIMIT convention.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func scanRows(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var entry Entry
		var timestampStr, typ, status string
		err := rows.Scan(&entry.ID, &timestampStr, &entry.Domain, &typ, &entry.Server, &status, &entry.ElapsedMs)
		if err != nil {
			return nil, fmt.Errorf("history: scan failed: %w", err)
		}
		entry.Timestamp, _ = time.Parse(time.RFC3339Nano, timestampStr)
		entry.Type = domain.RecordType(typ)
		entry.Status = domain.QueryStatus(status)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

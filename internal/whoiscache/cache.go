// Package whoiscache stores whois lookups as JSON files with
// stale-while-revalidate semantics. Registration data changes rarely, so a
// recent lookup is served as-is, a stale one is served while a background
// refresh runs, and only an expired one forces a synchronous refetch.
package whoiscache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"diggercli/digger/internal/dns/domain"
	"diggercli/digger/internal/util"
)

const (
	defaultFreshTTL = time.Hour
	defaultMaxStale = 24 * time.Hour
	refreshTimeout  = 30 * time.Second
)

// FetchFunc performs a live whois lookup for a domain.
type FetchFunc func(ctx context.Context, domainName string) (*domain.WhoisData, error)

// Cache provides file-backed caching of whois lookups.
type Cache struct {
	dir      string
	freshTTL time.Duration
	maxStale time.Duration
}

// New returns a cache rooted at dir with default TTLs.
func New(dir string) *Cache {
	return &Cache{dir: dir, freshTTL: defaultFreshTTL, maxStale: defaultMaxStale}
}

// NewDefault returns a cache rooted at the OS user cache dir.
func NewDefault() *Cache {
	return New(defaultDir())
}

// WithTTLs returns a new cache rooted at dir with custom TTLs.
func WithTTLs(dir string, freshTTL, maxStale time.Duration) *Cache {
	return &Cache{dir: dir, freshTTL: freshTTL, maxStale: maxStale}
}

// Lookup returns whois data for a domain, serving from the cache when
// possible. Cached responses are marked FromCache; live responses are not.
// The domain is normalized first, so differently cased or dotted spellings
// share one entry.
func (c *Cache) Lookup(ctx context.Context, domainName string, fetch FetchFunc) (*domain.WhoisData, error) {
	if c == nil || c.dir == "" {
		return fetch(ctx, domainName)
	}
	key := util.NormalizeDomain(domainName)

	entry, ok, err := c.readEntry(key)
	if err != nil || !ok || entry.Data == nil || entry.FetchedAt.IsZero() {
		return c.fetchAndStore(ctx, key, fetch)
	}

	age := time.Since(entry.FetchedAt)
	if age < 0 {
		return c.fetchAndStore(ctx, key, fetch)
	}

	if age <= c.freshTTL {
		entry.Data.FromCache = true
		return entry.Data, nil
	}

	if c.maxStale <= 0 || age <= c.maxStale {
		c.revalidate(key, fetch)
		entry.Data.FromCache = true
		return entry.Data, nil
	}

	return c.fetchAndStore(ctx, key, fetch)
}

// Invalidate removes the cached entry for a domain.
func (c *Cache) Invalidate(domainName string) error {
	if c == nil || c.dir == "" {
		return nil
	}

	err := os.Remove(c.pathForKey(util.NormalizeDomain(domainName)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes all cached entries in the cache directory.
func (c *Cache) Clear() error {
	if c == nil || c.dir == "" {
		return nil
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

// entry wraps cached whois data with its fetch time.
type entry struct {
	Data      *domain.WhoisData `json:"data"`
	FetchedAt time.Time         `json:"fetched_at"`
}

func (c *Cache) fetchAndStore(ctx context.Context, key string, fetch FetchFunc) (*domain.WhoisData, error) {
	data, err := fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	_ = c.writeEntry(key, entry{Data: data, FetchedAt: time.Now()})
	return data, nil
}

func (c *Cache) revalidate(key string, fetch FetchFunc) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		data, err := fetch(ctx, key)
		if err != nil {
			return
		}
		_ = c.writeEntry(key, entry{Data: data, FetchedAt: time.Now()})
	}()
}

func (c *Cache) readEntry(key string) (entry, bool, error) {
	var zero entry
	data, err := os.ReadFile(c.pathForKey(key))
	if err != nil {
		if os.IsNotExist(err) {
			return zero, false, nil
		}
		return zero, false, err
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return zero, false, nil
	}

	return e, true, nil
}

func (c *Cache) writeEntry(key string, e entry) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, sanitizeKey(key)+".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}

	return os.Rename(name, c.pathForKey(key))
}

func (c *Cache) pathForKey(key string) string {
	return filepath.Join(c.dir, sanitizeKey(key)+".json")
}

func defaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "digger", "whois")
}

func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "whois"
	}

	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-' || ch == '_' || ch == '.' {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}

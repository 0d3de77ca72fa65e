package investments

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/qk4l/investments/date"
	"github.com/shopspring/decimal"
)

// Cache is a durable store of daily rate series with a time-to-live, scoped
// to one directory. Entries older than the TTL, unreadable entries, and
// entries of an unconfigured (empty-directory) cache all read as misses:
// the cache holds derived data only, never the source of truth.
//
// It assumes a single writer per run; concurrent writers sharing a key are
// not supported.
type Cache struct {
	dir string
	ttl time.Duration
}

// NewCache returns a cache writing under dir. With an empty dir every Get
// misses and Put does nothing, so series live only in resolver memory.
func NewCache(dir string, ttl time.Duration) *Cache {
	return &Cache{dir: dir, ttl: ttl}
}

// cacheEntry is the persisted form of a series. The format is
// implementation-private: it is rewritten wholesale on every refetch and is
// not a compatibility surface.
type cacheEntry struct {
	Written time.Time `json:"written"`
	First   date.Date `json:"first"`
	Rates   []string  `json:"rates"`
}

// Get returns the cached series for the key, or a miss if the entry is
// absent, stale, or unreadable. A corrupt entry is logged and treated as a
// miss, never escalated: the next Put overwrites it.
func (c *Cache) Get(key string) (*RateSeries, bool) {
	if c.dir == "" {
		return nil, false
	}
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(content, &entry); err != nil {
		log.Printf("ignoring corrupt cache entry %q: %v", key, err)
		return nil, false
	}
	if time.Since(entry.Written) > c.ttl {
		return nil, false
	}
	if entry.First.IsZero() || len(entry.Rates) == 0 {
		log.Printf("ignoring corrupt cache entry %q: empty series", key)
		return nil, false
	}

	s := &RateSeries{first: entry.First, rates: make([]decimal.Decimal, len(entry.Rates))}
	for i, r := range entry.Rates {
		v, err := decimal.NewFromString(r)
		if err != nil {
			log.Printf("ignoring corrupt cache entry %q: %v", key, err)
			return nil, false
		}
		s.rates[i] = v
	}
	return s, true
}

// Put overwrites the cached series for the key.
func (c *Cache) Put(key string, s *RateSeries) error {
	if c.dir == "" {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}

	entry := cacheEntry{
		Written: time.Now(),
		First:   s.first,
		Rates:   make([]string, len(s.rates)),
	}
	for i, r := range s.rates {
		entry.Rates[i] = r.String()
	}
	content, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o644)
}

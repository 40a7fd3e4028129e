package availcache

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"watchfilter/internal/availability"
	"watchfilter/internal/logging"
)

// DefaultTTL is used when New receives a non-positive TTL.
const DefaultTTL = 5 * time.Minute

// Entry is a cached TierSet with the time it was fetched.
type Entry struct {
	Key       availability.ItemIdentity `json:"key"`
	Value     availability.TierSet      `json:"value"`
	FetchedAt time.Time                 `json:"fetched_at"`
}

// Stats summarizes lookups since the cache was created or last reset.
type Stats struct {
	Entries int           `json:"entries"`
	Hits    uint64        `json:"hits"`
	Misses  uint64        `json:"misses"`
	Stale   uint64        `json:"stale"`
	TTL     time.Duration `json:"ttl"`
}

// Cache is a TTL-bounded map from ItemIdentity to TierSet.
type Cache struct {
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[availability.ItemIdentity]Entry

	statsMu sync.Mutex
	hits    uint64
	misses  uint64
	stale   uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source. Tests use it to step past the TTL.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger attaches a logger for debug-level cache events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logging.NewComponentLogger(logger, "availcache")
	}
}

// New creates an empty cache.
func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		ttl:     ttl,
		now:     time.Now,
		logger:  logging.NewNop(),
		entries: make(map[availability.ItemIdentity]Entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the freshness window applied to every entry.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns the cached TierSet for key while it is younger than the TTL.
func (c *Cache) Get(key availability.ItemIdentity) (availability.TierSet, bool) {
	now := c.now()

	c.mu.RLock()
	entry, found := c.entries[key]
	c.mu.RUnlock()

	switch {
	case !found:
		c.record(&c.misses)
		return availability.TierSet{}, false
	case now.Sub(entry.FetchedAt) >= c.ttl:
		c.record(&c.misses)
		c.record(&c.stale)
		c.logger.Debug("stale availability entry",
			logging.Item(key),
			logging.Duration("age", now.Sub(entry.FetchedAt)))
		return availability.TierSet{}, false
	default:
		c.record(&c.hits)
		return entry.Value.Clone(), true
	}
}

// Put stores value for key stamped with the current time.
func (c *Cache) Put(key availability.ItemIdentity, value availability.TierSet) {
	c.PutAt(key, value, c.now())
}

// PutAt stores value for key stamped with fetchedAt. An existing entry with a
// later timestamp is kept, so FetchedAt never moves backwards for a key. It
// reports whether the value was stored.
func (c *Cache) PutAt(key availability.ItemIdentity, value availability.TierSet, fetchedAt time.Time) bool {
	entry := Entry{Key: key, Value: value.Clone(), FetchedAt: fetchedAt}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok && existing.FetchedAt.After(fetchedAt) {
		return false
	}
	c.entries[key] = entry
	return true
}

// Len returns the number of entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entries returns a snapshot of every entry sorted newest first.
func (c *Cache) Entries() []Entry {
	c.mu.RLock()
	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entry.Value = entry.Value.Clone()
		entries = append(entries, entry)
	}
	c.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].FetchedAt.Equal(entries[j].FetchedAt) {
			return entries[i].Key.String() < entries[j].Key.String()
		}
		return entries[i].FetchedAt.After(entries[j].FetchedAt)
	})
	return entries
}

// Reset drops every entry and zeroes the counters.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.entries = make(map[availability.ItemIdentity]Entry)
	c.mu.Unlock()

	c.statsMu.Lock()
	c.hits, c.misses, c.stale = 0, 0, 0
	c.statsMu.Unlock()

	c.logger.Debug("cleared availability cache")
}

// Stats returns lookup counters and the current entry count.
func (c *Cache) Stats() Stats {
	entries := c.Len()
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return Stats{
		Entries: entries,
		Hits:    c.hits,
		Misses:  c.misses,
		Stale:   c.stale,
		TTL:     c.ttl,
	}
}

func (c *Cache) record(counter *uint64) {
	c.statsMu.Lock()
	*counter++
	c.statsMu.Unlock()
}

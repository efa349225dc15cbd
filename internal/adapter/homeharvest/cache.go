package homeharvest

import (
	"context"
	"sync"
	"time"

	"github.com/couchcryptid/realestate-search-service/internal/domain"
	"github.com/couchcryptid/realestate-search-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// CachedScraper wraps a Scraper with an in-memory LRU cache whose entries
// expire after a fixed TTL. Cached tables are shared between requests, which
// is safe because normalization never mutates its input.
type CachedScraper struct {
	inner   domain.Scraper
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedScraper creates a cache decorator around a scraper.
func NewCachedScraper(inner domain.Scraper, maxEntries int, ttl time.Duration, metrics *observability.Metrics) *CachedScraper {
	return newCachedScraper(inner, maxEntries, ttl, metrics, clockwork.NewRealClock())
}

func newCachedScraper(inner domain.Scraper, maxEntries int, ttl time.Duration, metrics *observability.Metrics, clock clockwork.Clock) *CachedScraper {
	return &CachedScraper{
		inner:   inner,
		cache:   newLRUCache(maxEntries, ttl, clock),
		metrics: metrics,
	}
}

func (c *CachedScraper) Scrape(ctx context.Context, req domain.ScrapeRequest) (domain.RawTable, error) {
	key := req.CacheKey()
	if table, ok := c.cache.get(key); ok {
		c.metrics.ScraperCache.WithLabelValues("hit").Inc()
		return table, nil
	}
	c.metrics.ScraperCache.WithLabelValues("miss").Inc()

	table, err := c.inner.Scrape(ctx, req)
	if err != nil {
		return nil, err
	}
	// Only cache non-empty results so an empty answer can be retried.
	if len(table) > 0 && key != "" {
		c.cache.put(key, table)
	}
	return table, nil
}

// Ping forwards to the wrapped scraper when it supports health checks.
func (c *CachedScraper) Ping(ctx context.Context) error {
	if p, ok := c.inner.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// lruCache is a thread-safe LRU cache of scrape results with expiry.
type lruCache struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     domain.RawTable
	expiresAt time.Time
	prev      *entry
	next      *entry
}

func newLRUCache(maxEntries int, ttl time.Duration, clock clockwork.Clock) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.RawTable, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.clock.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		c.remove(e)
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.RawTable) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock.Now().Add(c.ttl)
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}

package homeharvest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/couchcryptid/realestate-search-service/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingScraper struct {
	calls int
	table domain.RawTable
	err   error
}

func (m *countingScraper) Scrape(_ context.Context, _ domain.ScrapeRequest) (domain.RawTable, error) {
	m.calls++
	return m.table, m.err
}

func request(location string) domain.ScrapeRequest {
	return domain.ScrapeRequest{Args: map[string]any{"location": location, "listing_type": "for_sale"}}
}

func oneRow() domain.RawTable {
	return domain.RawTable{{"property_id": "1"}}
}

// --- CachedScraper tests ---

func TestCachedScraper_CacheHit(t *testing.T) {
	inner := &countingScraper{table: oneRow()}
	cached := newCachedScraper(inner, 10, time.Minute, testMetrics(), clockwork.NewFakeClock())

	t1, err := cached.Scrape(context.Background(), request("Austin, TX"))
	require.NoError(t, err)
	t2, err := cached.Scrape(context.Background(), request("Austin, TX"))
	require.NoError(t, err)

	assert.Equal(t, t1, t2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
}

func TestCachedScraper_DifferentArgsMiss(t *testing.T) {
	inner := &countingScraper{table: oneRow()}
	cached := newCachedScraper(inner, 10, time.Minute, testMetrics(), clockwork.NewFakeClock())

	_, _ = cached.Scrape(context.Background(), request("Austin, TX"))
	_, _ = cached.Scrape(context.Background(), request("Dallas, TX"))

	assert.Equal(t, 2, inner.calls)
}

func TestCachedScraper_EntriesExpire(t *testing.T) {
	clock := clockwork.NewFakeClock()
	inner := &countingScraper{table: oneRow()}
	cached := newCachedScraper(inner, 10, time.Minute, testMetrics(), clock)

	_, _ = cached.Scrape(context.Background(), request("Austin, TX"))
	clock.Advance(59 * time.Second)
	_, _ = cached.Scrape(context.Background(), request("Austin, TX"))
	assert.Equal(t, 1, inner.calls)

	clock.Advance(time.Second)
	_, _ = cached.Scrape(context.Background(), request("Austin, TX"))
	assert.Equal(t, 2, inner.calls)
}

func TestCachedScraper_DoesNotCacheErrors(t *testing.T) {
	inner := &countingScraper{err: errors.New("upstream down")}
	cached := newCachedScraper(inner, 10, time.Minute, testMetrics(), clockwork.NewFakeClock())

	_, err := cached.Scrape(context.Background(), request("Austin, TX"))
	require.Error(t, err)
	_, err = cached.Scrape(context.Background(), request("Austin, TX"))
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedScraper_DoesNotCacheEmpty(t *testing.T) {
	inner := &countingScraper{table: domain.RawTable{}}
	cached := newCachedScraper(inner, 10, time.Minute, testMetrics(), clockwork.NewFakeClock())

	_, _ = cached.Scrape(context.Background(), request("Nowhere"))
	_, _ = cached.Scrape(context.Background(), request("Nowhere"))

	assert.Equal(t, 2, inner.calls)
}

func TestCachedScraper_Ping(t *testing.T) {
	cached := NewCachedScraper(&countingScraper{}, 10, time.Minute, testMetrics())
	assert.NoError(t, cached.Ping(context.Background()))
}

// --- LRU eviction tests ---

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2, time.Minute, clockwork.NewFakeClock())

	c.put("a", oneRow())
	c.put("b", oneRow())
	c.put("c", oneRow()) // should evict "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")
	_, ok = c.get("b")
	assert.True(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.size())
}

func TestLRUCache_AccessPromotes(t *testing.T) {
	c := newLRUCache(2, time.Minute, clockwork.NewFakeClock())

	c.put("a", oneRow())
	c.put("b", oneRow())
	c.get("a")           // promote "a"
	c.put("c", oneRow()) // should evict "b"

	_, ok := c.get("a")
	assert.True(t, ok, "a should still be cached")
	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateRefreshesExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := newLRUCache(2, time.Minute, clock)

	c.put("a", oneRow())
	clock.Advance(45 * time.Second)
	c.put("a", domain.RawTable{{"property_id": "2"}})
	clock.Advance(45 * time.Second)

	v, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, "2", v[0]["property_id"])
}

func TestLRUCache_ExpiredEntryIsRemoved(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := newLRUCache(2, time.Minute, clock)

	c.put("a", oneRow())
	clock.Advance(2 * time.Minute)

	_, ok := c.get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.size())
}

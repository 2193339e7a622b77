package cache

import (
	"context"
	"strings"
	"sync"

	"github.com/civicsignal/econdash/internal/catalog"
	"github.com/civicsignal/econdash/internal/domain"
	"github.com/civicsignal/econdash/internal/observability"
)

// Fetcher wraps a domain.Fetcher with an in-memory LRU cache keyed by
// (source, location, year, codes). Upstream values change at most yearly, so
// repeat views of the same selection skip the network entirely.
type Fetcher struct {
	inner   domain.Fetcher
	cache   *lruCache
	metrics *observability.Metrics
}

// NewFetcher creates a cache decorator around an upstream fetcher.
func NewFetcher(inner domain.Fetcher, maxEntries int, metrics *observability.Metrics) *Fetcher {
	return &Fetcher{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// Source implements domain.Fetcher.
func (f *Fetcher) Source() catalog.Source { return f.inner.Source() }

// FetchYear returns the cached result when present, otherwise delegates and
// caches the success. Failed fetches are never cached so transient upstream
// errors can be retried by the user.
func (f *Fetcher) FetchYear(ctx context.Context, loc domain.Location, year string, codes []string) (domain.YearResult, error) {
	source := string(f.inner.Source())
	key := cacheKey(source, loc, year, codes)

	if result, ok := f.cache.get(key); ok {
		f.metrics.CacheLookups.WithLabelValues(source, "hit").Inc()
		return result, nil
	}
	f.metrics.CacheLookups.WithLabelValues(source, "miss").Inc()

	result, err := f.inner.FetchYear(ctx, loc, year, codes)
	if err != nil {
		return result, err
	}
	f.cache.put(key, result)
	return result, nil
}

func cacheKey(source string, loc domain.Location, year string, codes []string) string {
	return strings.Join([]string{source, loc.StateCode, loc.CountyFIPS, loc.Name, year, strings.Join(codes, ",")}, "|")
}

// lruCache is a simple thread-safe LRU cache for year results.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.YearResult
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.YearResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.YearResult{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.YearResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
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

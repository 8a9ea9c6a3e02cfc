package chabad

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/couchcryptid/zmanim-etl/internal/domain"
	"github.com/couchcryptid/zmanim-etl/internal/observability"
)

// CachedSource wraps a WindowSource with an in-memory LRU cache keyed by
// location and date range.
type CachedSource struct {
	inner   domain.WindowSource
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator holding at most maxEntries responses.
func NewCachedSource(inner domain.WindowSource, maxEntries int, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedSource) FetchWindow(ctx context.Context, req domain.WindowRequest) (domain.UpstreamResponse, error) {
	key := cacheKey(req)
	if resp, ok := c.cache.get(key); ok {
		c.metrics.UpstreamCache.WithLabelValues("hit").Inc()
		return resp, nil
	}
	c.metrics.UpstreamCache.WithLabelValues("miss").Inc()

	resp, err := c.inner.FetchWindow(ctx, req)
	if err != nil {
		return resp, err
	}
	// Empty responses are not cached so the next run asks again.
	if len(resp.Days) > 0 {
		c.cache.put(key, resp)
	}
	return resp, nil
}

func cacheKey(req domain.WindowRequest) string {
	return req.Location.Key() + "|" + req.Start.Format(time.DateOnly) + "|" + req.End.Format(time.DateOnly)
}

// lruCache is a thread-safe LRU of upstream responses.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List // front is most recently used
	entries    map[string]*list.Element
}

type cacheEntry struct {
	key   string
	value domain.UpstreamResponse
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) (domain.UpstreamResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return domain.UpstreamResponse{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).value, true
}

func (c *lruCache) put(key string, value domain.UpstreamResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).value = value
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, value: value})
	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

package earthengine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xunialabs/carbon-dashboard/internal/domain"
	"github.com/xunialabs/carbon-dashboard/internal/observability"
)

// CachedImagery wraps an ImageryService with an in-memory LRU cache over the
// two immutable lookups: regional reductions and image capture dates. Both
// are deterministic for a given key, so repeated dashboard refreshes of an
// unchanged window skip the remote round trips. Listings and map layers pass
// through untouched.
type CachedImagery struct {
	inner   domain.ImageryService
	reduces *lruCache[float64]
	dates   *lruCache[time.Time]
	metrics *observability.Metrics
}

// NewCachedImagery creates a cache decorator around an imagery service.
func NewCachedImagery(inner domain.ImageryService, maxEntries int, metrics *observability.Metrics) *CachedImagery {
	return &CachedImagery{
		inner:   inner,
		reduces: newLRUCache[float64](maxEntries),
		dates:   newLRUCache[time.Time](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedImagery) VerifyCredentials(ctx context.Context) error {
	return c.inner.VerifyCredentials(ctx)
}

func (c *CachedImagery) ListImages(ctx context.Context, region domain.Region, window domain.DateRange) ([]domain.ImageRecord, error) {
	return c.inner.ListImages(ctx, region, window)
}

func (c *CachedImagery) ImageDate(ctx context.Context, image string) (time.Time, error) {
	if date, ok := c.dates.get(image); ok {
		c.metrics.ReduceCache.WithLabelValues("hit").Inc()
		return date, nil
	}
	c.metrics.ReduceCache.WithLabelValues("miss").Inc()

	date, err := c.inner.ImageDate(ctx, image)
	if err != nil {
		return date, err
	}
	c.dates.put(image, date)
	return date, nil
}

func (c *CachedImagery) ReduceRegion(ctx context.Context, req domain.ReduceRequest) (float64, error) {
	key := reduceKey(req)
	if value, ok := c.reduces.get(key); ok {
		c.metrics.ReduceCache.WithLabelValues("hit").Inc()
		return value, nil
	}
	c.metrics.ReduceCache.WithLabelValues("miss").Inc()

	value, err := c.inner.ReduceRegion(ctx, req)
	if err != nil {
		return value, err
	}
	c.reduces.put(key, value)
	return value, nil
}

func (c *CachedImagery) CreateMap(ctx context.Context, req domain.MapRequest) (domain.MapLayer, error) {
	return c.inner.CreateMap(ctx, req)
}

func reduceKey(req domain.ReduceRequest) string {
	window := ""
	if req.Window != nil {
		window = req.Window.String()
	}
	return fmt.Sprintf("%s|%s|%s|%g|%g", req.Image, window, req.Region.BBox(), req.Scale, req.Multiplier)
}

// lruCache is a simple thread-safe LRU cache.
type lruCache[V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key   string
	value V
	prev  *entry[V]
	next  *entry[V]
}

func newLRUCache[V any](maxEntries int) *lruCache[V] {
	return &lruCache[V]{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[V]) addToFront(e *entry[V]) {
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

func (c *lruCache[V]) remove(e *entry[V]) {
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

func (c *lruCache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}

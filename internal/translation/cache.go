package translation

import (
	"context"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/feed"
)

// Cache stores translated item sequences keyed by language code. An entry is
// valid only for the item set it was computed from, so the owner must call
// InvalidateAll on every feed re-fetch.
//
// Concurrent requests for the same not-yet-cached language coalesce into one
// in-flight computation.
type Cache struct {
	store *gocache.Cache

	mu       sync.Mutex
	epoch    uint64
	inflight map[string]*inflightCall
}

type inflightCall struct {
	done  chan struct{}
	items []feed.Item
}

// NewCache creates an empty translation cache. Entries never expire on their
// own; invalidation is explicit and wholesale.
func NewCache() *Cache {
	return &Cache{
		store:    gocache.New(gocache.NoExpiration, 0),
		inflight: make(map[string]*inflightCall),
	}
}

// Get returns the cached sequence for a language.
func (c *Cache) Get(language string) ([]feed.Item, bool) {
	v, ok := c.store.Get(language)
	if !ok {
		return nil, false
	}
	return v.([]feed.Item), true
}

// GetOrCompute returns the cached sequence for language, or runs compute to
// produce and cache it. A concurrent caller for the same language waits for
// the in-flight computation instead of issuing a second call.
func (c *Cache) GetOrCompute(ctx context.Context, language string, compute func(ctx context.Context) []feed.Item) []feed.Item {
	if items, ok := c.Get(language); ok {
		return items
	}

	c.mu.Lock()
	if call, ok := c.inflight[language]; ok {
		c.mu.Unlock()
		<-call.done
		return call.items
	}
	call := &inflightCall{done: make(chan struct{})}
	c.inflight[language] = call
	epoch := c.epoch
	c.mu.Unlock()

	call.items = compute(ctx)

	c.mu.Lock()
	// An InvalidateAll during compute makes the result stale: it must not be
	// written back over the flush.
	if c.epoch == epoch {
		c.store.Set(language, call.items, gocache.NoExpiration)
	}
	if c.inflight[language] == call {
		delete(c.inflight, language)
	}
	c.mu.Unlock()
	close(call.done)

	return call.items
}

// InvalidateAll discards every cached entry and detaches any in-flight
// computations, so callers arriving afterwards compute fresh instead of
// coalescing onto a result for the old item set. Selective invalidation is
// deliberately not offered: a re-fetched feed invalidates all languages.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.epoch++
	c.inflight = make(map[string]*inflightCall)
	c.mu.Unlock()
	c.store.Flush()
}

// Len returns the number of cached languages.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}

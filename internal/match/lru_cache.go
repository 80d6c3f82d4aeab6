package match

import (
	"container/list"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/lsc/internal/types"
)

// resultCache is a thread-safe least-recently-used cache sitting in front of
// the per-text classify call. Entries are keyed by the xxhash of the record
// text; the original text is kept alongside the result so a hash collision
// can never surface a wrong classification.
type resultCache struct {
	maxSize int
	mu      sync.Mutex
	items   map[uint64]*list.Element
	order   *list.List
}

// cacheEntry represents an entry in the cache
type cacheEntry struct {
	key    uint64
	text   string
	result types.MatchResult
}

// newResultCache creates an LRU result cache with the specified maximum size.
// A size of zero or less disables caching; callers get a nil cache.
func newResultCache(maxSize int) *resultCache {
	if maxSize <= 0 {
		return nil
	}
	return &resultCache{
		maxSize: maxSize,
		items:   make(map[uint64]*list.Element),
		order:   list.New(),
	}
}

// get retrieves a cached result and marks it as recently used
func (c *resultCache) get(text string) (types.MatchResult, bool) {
	if c == nil {
		return types.MatchResult{}, false
	}

	key := xxhash.Sum64String(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*cacheEntry)
		if entry.text != text {
			// Hash collision; treat as a miss
			return types.MatchResult{}, false
		}
		c.order.MoveToFront(elem)
		return entry.result, true
	}
	return types.MatchResult{}, false
}

// set adds or updates a cached result
func (c *resultCache) set(text string, result types.MatchResult) {
	if c == nil {
		return
	}

	key := xxhash.Sum64String(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		entry.text = text
		entry.result = result
		return
	}

	entry := &cacheEntry{key: key, text: text, result: result}
	elem := c.order.PushFront(entry)
	c.items[key] = elem

	// Evict oldest if over capacity
	if c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
}

// size returns the current number of cached results
func (c *resultCache) size() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

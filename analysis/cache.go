package analysis

import (
	"sync"
	"sync/atomic"

	"hex/game"
)

const DefaultCacheCapacity = 1 << 16

type cacheKey struct {
	player game.Player
	cells  string
}

// ChainCache memoizes Chains by board contents. Keys are derived from the
// cells, never from board identity, so an entry can never go stale. The cache
// is cleared wholesale once it holds more than its capacity.
type ChainCache struct {
	mu       sync.RWMutex
	entries  map[cacheKey][]Chain
	capacity int
	hits     atomic.Int64
	misses   atomic.Int64
}

func NewChainCache(capacity int) *ChainCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &ChainCache{
		entries:  make(map[cacheKey][]Chain),
		capacity: capacity,
	}
}

// Chains returns p's chains on b. A nil cache computes them directly. The
// returned slice is shared with the cache and must not be modified.
func (c *ChainCache) Chains(b *game.Board, p game.Player) []Chain {
	if c == nil {
		return Chains(b, p)
	}
	key := cacheKey{player: p, cells: b.Key()}

	c.mu.RLock()
	chains, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return chains
	}

	c.misses.Add(1)
	chains = Chains(b, p)

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.capacity {
		c.entries = make(map[cacheKey][]Chain)
	}
	c.entries[key] = chains
	return chains
}

func (c *ChainCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Stats returns the number of hits and misses so far.
func (c *ChainCache) Stats() (hits, misses int64) {
	if c == nil {
		return 0, 0
	}
	return c.hits.Load(), c.misses.Load()
}

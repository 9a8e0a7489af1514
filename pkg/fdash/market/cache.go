package market

import (
	"context"
	"sync"
	"time"

	"github.com/komsit37/fdash/pkg/fdash/types"
)

// CacheQuoter decorates a Quoter with a TTL+LRU cache. Errors are not cached.
type CacheQuoter struct {
	next Quoter
	ttl  time.Duration
	size int
	now  func() time.Time

	mu    sync.Mutex
	items map[string]cacheEntry
	order []string // oldest first
}

type cacheEntry struct {
	at  time.Time
	rec types.PriceRecord
}

// NewCacheQuoter wraps next. A non-positive size means one entry per ticker
// with no eviction.
func NewCacheQuoter(next Quoter, ttl time.Duration, size int) *CacheQuoter {
	return &CacheQuoter{
		next:  next,
		ttl:   ttl,
		size:  size,
		now:   time.Now,
		items: make(map[string]cacheEntry),
	}
}

func (c *CacheQuoter) Quote(ctx context.Context, ticker string) (types.PriceRecord, error) {
	now := c.now()

	c.mu.Lock()
	if ent, ok := c.items[ticker]; ok {
		if now.Sub(ent.at) <= c.ttl {
			c.touchLocked(ticker)
			rec := ent.rec
			c.mu.Unlock()
			return rec.Tagged(rec.Symbol), nil
		}
		delete(c.items, ticker)
		c.removeLocked(ticker)
	}
	c.mu.Unlock()

	rec, err := c.next.Quote(ctx, ticker)
	if err != nil {
		return rec, err
	}

	c.mu.Lock()
	c.items[ticker] = cacheEntry{at: now, rec: rec}
	c.removeLocked(ticker)
	c.order = append(c.order, ticker)
	for c.size > 0 && len(c.items) > c.size && len(c.order) > 0 {
		old := c.order[0]
		c.order = c.order[1:]
		delete(c.items, old)
	}
	c.mu.Unlock()
	return rec, nil
}

// Len returns the number of cached tickers.
func (c *CacheQuoter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *CacheQuoter) touchLocked(k string) {
	c.removeLocked(k)
	c.order = append(c.order, k)
}

func (c *CacheQuoter) removeLocked(k string) {
	for i, v := range c.order {
		if v == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

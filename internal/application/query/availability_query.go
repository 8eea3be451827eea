// internal/application/query/availability_query.go
package query

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

var ErrAvailabilityInvalidArgument = errors.New("availability_query: productId is empty")

// StockReader is the narrow read port the cache needs from the ledger.
type StockReader interface {
	ReadAllForProduct(ctx context.Context, productID string) (map[string]int, error)
}

// AvailabilityCache memoizes per-product size->stock maps for display
// surfaces ("is this product orderable").
//
// Stale-but-fast by design: populated on first miss, never invalidated (no
// TTL, no push). Checkout never reads through here; authoritative stock is
// re-read inside the decrement transaction.
//
// Concurrent misses for the same product collapse into a single underlying
// fetch. Errors are not memoized: the next call fetches again.
type AvailabilityCache struct {
	reader StockReader

	group singleflight.Group

	mu   sync.RWMutex
	memo map[string]map[string]int
}

func NewAvailabilityCache(reader StockReader) *AvailabilityCache {
	return &AvailabilityCache{
		reader: reader,
		memo:   map[string]map[string]int{},
	}
}

// Get returns size -> stock for productId, fetching at most once per product
// for the lifetime of this instance. The returned map is a copy; callers may
// not mutate cache state.
func (c *AvailabilityCache) Get(ctx context.Context, productID string) (map[string]int, error) {
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return nil, ErrAvailabilityInvalidArgument
	}

	c.mu.RLock()
	cached, ok := c.memo[pid]
	c.mu.RUnlock()
	if ok {
		return copyStock(cached), nil
	}

	v, err, _ := c.group.Do(pid, func() (any, error) {
		// Re-check: a concurrent caller may have populated the memo between
		// the RUnlock above and entering the flight.
		c.mu.RLock()
		got, ok := c.memo[pid]
		c.mu.RUnlock()
		if ok {
			return got, nil
		}

		fetched, err := c.reader.ReadAllForProduct(ctx, pid)
		if err != nil {
			return nil, err
		}
		if fetched == nil {
			fetched = map[string]int{}
		}

		c.mu.Lock()
		c.memo[pid] = fetched
		c.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}

	return copyStock(v.(map[string]int)), nil
}

// InStock reports whether any size of productId has stock.
func (c *AvailabilityCache) InStock(ctx context.Context, productID string) (bool, error) {
	stock, err := c.Get(ctx, productID)
	if err != nil {
		return false, err
	}
	for _, n := range stock {
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

func copyStock(src map[string]int) map[string]int {
	out := make(map[string]int, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

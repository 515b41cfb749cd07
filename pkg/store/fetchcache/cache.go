package fetchcache

import (
	"context"
	"sync"

	"github.com/nitshaW/sales-analytics/pkg/models/store"
	"github.com/nitshaW/sales-analytics/pkg/store/warehouse"
	"github.com/rs/zerolog"
)

// Cache memoizes warehouse fetches keyed by the exact query text, so one
// broad fetch serves every subsequent interaction on a report. A new query
// text means a new entry; Clear drops everything. A failed fetch leaves any
// previously cached recordset intact for display.
type Cache struct {
	fetcher warehouse.Store

	mu      sync.Mutex
	entries map[string]store.Recordset
}

func New(fetcher warehouse.Store) *Cache {
	return &Cache{
		fetcher: fetcher,
		entries: make(map[string]store.Recordset),
	}
}

// Get returns the cached recordset for the query, fetching on a miss.
func (c *Cache) Get(ctx context.Context, query string) (store.Recordset, error) {
	c.mu.Lock()
	rs, ok := c.entries[query]
	c.mu.Unlock()
	if ok {
		return rs, nil
	}

	rs, err := c.fetcher.Fetch(ctx, query)
	if err != nil {
		return store.Recordset{}, err
	}

	zerolog.Ctx(ctx).Info().
		Int("rows", len(rs.Rows)).
		Msg("cached warehouse fetch")

	c.mu.Lock()
	c.entries[query] = rs
	c.mu.Unlock()
	return rs, nil
}

// Cached reports whether a query has a live entry.
func (c *Cache) Cached(query string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[query]
	return ok
}

// Clear invalidates every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]store.Recordset)
}

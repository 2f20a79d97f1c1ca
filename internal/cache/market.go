// Package cache holds the lookup tables the trade path depends on. All of
// them are populated by subscription callbacks, so writes race with reads
// and with each other; every cache resolves a duplicate write as a no-op
// (first write wins) under its own lock.
package cache

import (
	"log/slog"
	"sync"

	"sniper_go/internal/domain"
)

// MarketCache maps an order-book market id to its minimal market record.
// Populated exactly once per market id by the market subscription.
type MarketCache struct {
	mu      sync.RWMutex
	markets map[string]*domain.MinimalMarket
}

// NewMarketCache creates an empty market cache.
func NewMarketCache() *MarketCache {
	return &MarketCache{
		markets: make(map[string]*domain.MinimalMarket),
	}
}

// Save inserts the market record unless the id is already present.
func (c *MarketCache) Save(marketID string, market *domain.MinimalMarket) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.markets[marketID]; ok {
		return
	}
	slog.Debug("Caching new market", slog.String("market", marketID))
	c.markets[marketID] = market
}

// Get returns the cached market record for the id.
func (c *MarketCache) Get(marketID string) (*domain.MinimalMarket, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	market, ok := c.markets[marketID]
	return market, ok
}

// Len reports the number of cached markets.
func (c *MarketCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.markets)
}

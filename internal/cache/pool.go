package cache

import (
	"log/slog"
	"sync"

	"sniper_go/internal/domain"

	"github.com/gagliardetto/solana-go"
)

// PoolEntry pairs a pool account id with its decoded state record.
type PoolEntry struct {
	ID    solana.PublicKey
	State *domain.LiquidityStateV4
}

// PoolCache maps the pool's tradable (base) mint to the pool record, so
// the sell path can resolve the pool a wallet token came from. Keyed by
// base mint on purpose: the wallet subscription hands the sell path a
// mint, not a pool id.
type PoolCache struct {
	mu    sync.RWMutex
	pools map[string]PoolEntry
}

// NewPoolCache creates an empty pool cache.
func NewPoolCache() *PoolCache {
	return &PoolCache{
		pools: make(map[string]PoolEntry),
	}
}

// Save inserts the pool record unless its base mint is already present.
func (c *PoolCache) Save(id solana.PublicKey, state *domain.LiquidityStateV4) {
	mint := state.BaseMint.String()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pools[mint]; ok {
		return
	}
	slog.Debug("Caching new pool", slog.String("mint", mint), slog.String("pool", id.String()))
	c.pools[mint] = PoolEntry{ID: id, State: state}
}

// Get returns the cached pool record for a base mint.
func (c *PoolCache) Get(mint string) (PoolEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.pools[mint]
	return entry, ok
}

// Has reports whether a pool is already cached for the mint.
func (c *PoolCache) Has(mint string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.pools[mint]
	return ok
}

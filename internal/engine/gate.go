package engine

import (
	"sync"
	"sync/atomic"
)

// Gate enforces the single-flight invariant: buys are mutually exclusive
// with each other and with any in-flight sell; sells only exclude new
// buys, never each other. With single-flight mode off every method is a
// no-op and workflows interleave freely.
type Gate struct {
	enabled bool

	mu     sync.Mutex
	locked atomic.Bool

	sellsInFlight atomic.Int64
}

// NewGate creates a gate. enabled=false turns it into a pass-through.
func NewGate(enabled bool) *Gate {
	return &Gate{enabled: enabled}
}

// TryEnterBuy attempts to start a buy workflow. It denies immediately
// (without blocking) when the lock is held or a sell is in flight. Two
// buys racing past that check both block on the mutex; the loser waits
// its turn rather than failing. Every granted entry must be paired with
// exactly one ExitBuy.
func (g *Gate) TryEnterBuy() bool {
	if !g.enabled {
		return true
	}
	if g.locked.Load() || g.sellsInFlight.Load() > 0 {
		return false
	}
	g.mu.Lock()
	g.locked.Store(true)
	return true
}

// ExitBuy releases the buy lock. Must run on every exit path of a
// granted buy, including failures.
func (g *Gate) ExitBuy() {
	if !g.enabled {
		return
	}
	g.locked.Store(false)
	g.mu.Unlock()
}

// EnterSell marks a sell workflow in flight.
func (g *Gate) EnterSell() {
	if !g.enabled {
		return
	}
	g.sellsInFlight.Add(1)
}

// ExitSell unmarks a sell workflow. Must run on every exit path of a
// sell, including early returns.
func (g *Gate) ExitSell() {
	if !g.enabled {
		return
	}
	g.sellsInFlight.Add(-1)
}

// SellsInFlight reports the current sell count.
func (g *Gate) SellsInFlight() int64 {
	return g.sellsInFlight.Load()
}

// BuyLocked reports whether a buy currently holds the lock.
func (g *Gate) BuyLocked() bool {
	return g.locked.Load()
}

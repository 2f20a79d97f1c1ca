package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	buysAttempted  atomic.Uint64
	buysSkipped    atomic.Uint64
	sellsAttempted atomic.Uint64
	fillsConfirmed atomic.Uint64
	rpcErrors      atomic.Uint64
	priceFetches   atomic.Uint64

	// Gauges
	subscriptionsActive atomic.Int32
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordBuyAttempt records a buy workflow reaching the executor.
func (m *Metrics) RecordBuyAttempt() {
	m.buysAttempted.Add(1)
}

// RecordBuySkipped records a buy denied by the gate or the entry band.
func (m *Metrics) RecordBuySkipped() {
	m.buysSkipped.Add(1)
}

// RecordSellAttempt records a sell workflow reaching the executor.
func (m *Metrics) RecordSellAttempt() {
	m.sellsAttempted.Add(1)
}

// RecordFillConfirmed records a confirmed swap.
func (m *Metrics) RecordFillConfirmed() {
	m.fillsConfirmed.Add(1)
}

// RecordRPCError records a failed RPC or relay call.
func (m *Metrics) RecordRPCError() {
	m.rpcErrors.Add(1)
}

// RecordPriceFetch records an upstream reference-price fetch.
func (m *Metrics) RecordPriceFetch() {
	m.priceFetches.Add(1)
}

// IncrementSubscriptions increments active subscription count by 1.
func (m *Metrics) IncrementSubscriptions() {
	m.subscriptionsActive.Add(1)
}

// DecrementSubscriptions decrements active subscription count by 1.
func (m *Metrics) DecrementSubscriptions() {
	m.subscriptionsActive.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	BuysAttempted       uint64
	BuysSkipped         uint64
	SellsAttempted      uint64
	FillsConfirmed      uint64
	RPCErrors           uint64
	PriceFetches        uint64
	SubscriptionsActive int32
	Timestamp           time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		BuysAttempted:       m.buysAttempted.Load(),
		BuysSkipped:         m.buysSkipped.Load(),
		SellsAttempted:      m.sellsAttempted.Load(),
		FillsConfirmed:      m.fillsConfirmed.Load(),
		RPCErrors:           m.rpcErrors.Load(),
		PriceFetches:        m.priceFetches.Load(),
		SubscriptionsActive: m.subscriptionsActive.Load(),
		Timestamp:           time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.buysAttempted.Store(0)
	m.buysSkipped.Store(0)
	m.sellsAttempted.Store(0)
	m.fillsConfirmed.Store(0)
	m.rpcErrors.Store(0)
	m.priceFetches.Store(0)
	m.subscriptionsActive.Store(0)
}

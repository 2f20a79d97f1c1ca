package infra

import (
	"sync"
	"testing"
)

func TestMetrics_Counters(t *testing.T) {
	m := &Metrics{}

	m.RecordBuyAttempt()
	m.RecordBuyAttempt()
	m.RecordBuySkipped()
	m.RecordSellAttempt()
	m.RecordFillConfirmed()

	snap := m.Snapshot()

	if snap.BuysAttempted != 2 {
		t.Errorf("Expected 2 buy attempts, got %d", snap.BuysAttempted)
	}
	if snap.BuysSkipped != 1 {
		t.Errorf("Expected 1 buy skipped, got %d", snap.BuysSkipped)
	}
	if snap.SellsAttempted != 1 {
		t.Errorf("Expected 1 sell attempt, got %d", snap.SellsAttempted)
	}
	if snap.FillsConfirmed != 1 {
		t.Errorf("Expected 1 fill confirmed, got %d", snap.FillsConfirmed)
	}
}

func TestMetrics_Subscriptions(t *testing.T) {
	m := &Metrics{}

	m.IncrementSubscriptions()
	m.IncrementSubscriptions()
	m.IncrementSubscriptions()

	snap := m.Snapshot()
	if snap.SubscriptionsActive != 3 {
		t.Errorf("Expected 3 subscriptions, got %d", snap.SubscriptionsActive)
	}

	m.DecrementSubscriptions()
	snap = m.Snapshot()
	if snap.SubscriptionsActive != 2 {
		t.Errorf("Expected 2 subscriptions, got %d", snap.SubscriptionsActive)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := &Metrics{}

	m.RecordBuyAttempt()
	m.RecordRPCError()
	m.RecordPriceFetch()
	m.Reset()

	snap := m.Snapshot()
	if snap.BuysAttempted != 0 || snap.RPCErrors != 0 || snap.PriceFetches != 0 {
		t.Errorf("Expected all counters cleared after reset, got %+v", snap)
	}
}

func TestMetrics_ConcurrentAccess(t *testing.T) {
	m := &Metrics{}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordBuyAttempt()
			m.RecordRPCError()
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	if snap.BuysAttempted != 100 {
		t.Errorf("Expected 100 buy attempts, got %d", snap.BuysAttempted)
	}
	if snap.RPCErrors != 100 {
		t.Errorf("Expected 100 rpc errors, got %d", snap.RPCErrors)
	}
}

package engine

import (
	"sync"
	"testing"
)

func TestGate_BuyDeniedWhileBuyInFlight(t *testing.T) {
	g := NewGate(true)

	if !g.TryEnterBuy() {
		t.Fatal("first buy must be granted")
	}
	if g.TryEnterBuy() {
		t.Error("second buy must be denied while the first holds the lock")
	}

	g.ExitBuy()
	if !g.TryEnterBuy() {
		t.Error("buy must be granted again after release")
	}
	g.ExitBuy()
}

func TestGate_BuyDeniedWhileSellInFlight(t *testing.T) {
	g := NewGate(true)

	g.EnterSell()
	if g.TryEnterBuy() {
		t.Error("buy must be denied while a sell is in flight")
	}

	g.ExitSell()
	if !g.TryEnterBuy() {
		t.Error("buy must be granted after the sell finishes")
	}
	g.ExitBuy()
}

func TestGate_SellsRunConcurrently(t *testing.T) {
	g := NewGate(true)

	g.EnterSell()
	g.EnterSell()
	g.EnterSell()
	if g.SellsInFlight() != 3 {
		t.Errorf("expected 3 sells in flight, got %d", g.SellsInFlight())
	}

	g.ExitSell()
	g.ExitSell()
	g.ExitSell()
	if g.SellsInFlight() != 0 {
		t.Errorf("expected 0 sells in flight, got %d", g.SellsInFlight())
	}
}

func TestGate_DisabledIsPassThrough(t *testing.T) {
	g := NewGate(false)

	if !g.TryEnterBuy() {
		t.Error("disabled gate must grant every buy")
	}
	if !g.TryEnterBuy() {
		t.Error("disabled gate must grant concurrent buys")
	}

	g.EnterSell()
	if !g.TryEnterBuy() {
		t.Error("disabled gate must grant buys during sells")
	}
	if g.SellsInFlight() != 0 {
		t.Error("disabled gate must not count sells")
	}
}

func TestGate_ConcurrentSellCounterBalance(t *testing.T) {
	g := NewGate(true)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.EnterSell()
			g.ExitSell()
		}()
	}
	wg.Wait()

	if g.SellsInFlight() != 0 {
		t.Errorf("expected counter back at 0, got %d", g.SellsInFlight())
	}
}

package cache

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"sniper_go/internal/domain"

	"github.com/shopspring/decimal"
)

// PriceOracle caches the reference asset's external price behind a
// per-window request budget. When the budget for the current window is
// spent, or the upstream fetch fails, callers get the last fetched price
// back: a stale price is preferred over failing the valuation path.
//
// The window reset runs on its own ticker, independent of call volume.
// Start it once at engine initialization and Stop it at shutdown.
type PriceOracle struct {
	source  domain.PriceSource
	ceiling int64
	window  time.Duration

	requests atomic.Int64

	mu   sync.RWMutex
	last decimal.Decimal

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPriceOracle creates an oracle allowing up to ceiling upstream
// fetches per window.
func NewPriceOracle(source domain.PriceSource, ceiling int, window time.Duration) *PriceOracle {
	return &PriceOracle{
		source:  source,
		ceiling: int64(ceiling),
		window:  window,
		last:    decimal.Zero,
	}
}

// Start launches the window-reset ticker.
func (o *PriceOracle) Start(ctx context.Context) {
	ctx, o.cancel = context.WithCancel(ctx)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()

		ticker := time.NewTicker(o.window)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				o.requests.Store(0)
			}
		}
	}()
}

// Stop cancels the reset ticker and waits for it to exit.
func (o *PriceOracle) Stop() {
	if o.cancel != nil {
		o.cancel()
		o.wg.Wait()
	}
}

// Price returns the reference price. At most ceiling upstream fetches are
// issued per window; beyond that, and on any fetch error, the previous
// price is returned unchanged.
func (o *PriceOracle) Price(ctx context.Context) decimal.Decimal {
	if o.requests.Add(1) > o.ceiling {
		return o.cached()
	}

	price, err := o.source.FetchPrice(ctx)
	if err != nil {
		slog.Debug("Reference price fetch failed, serving cached", slog.Any("error", err))
		return o.cached()
	}

	o.mu.Lock()
	o.last = price
	o.mu.Unlock()
	return price
}

func (o *PriceOracle) cached() decimal.Decimal {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.last
}

package engine

import (
	"context"
	"log/slog"
	"time"

	"sniper_go/internal/domain"

	"github.com/shopspring/decimal"
)

// PriceQuoter serves the reference asset price. Implemented by
// cache.PriceOracle; it never fails, only goes stale.
type PriceQuoter interface {
	Price(ctx context.Context) decimal.Decimal
}

// ValuationConfig holds the entry/exit thresholds and the exit polling
// cadence. All values come from startup config and are not re-validated
// per call.
type ValuationConfig struct {
	EntryFloor decimal.Decimal
	EntryCeil  decimal.Decimal
	ExitTarget decimal.Decimal

	CheckInterval time.Duration
	CheckDuration time.Duration
}

// ValuationGate estimates a pool's market cap and decides whether it
// justifies entering or exiting a position.
type ValuationGate struct {
	reserves domain.ReserveSource
	supply   domain.SupplySource
	price    PriceQuoter
	cfg      ValuationConfig
}

// NewValuationGate wires the gate to its data sources.
func NewValuationGate(reserves domain.ReserveSource, supply domain.SupplySource, price PriceQuoter, cfg ValuationConfig) *ValuationGate {
	return &ValuationGate{
		reserves: reserves,
		supply:   supply,
		price:    price,
		cfg:      cfg,
	}
}

// EstimateMarketCap computes (quote reserve / base reserve), both
// normalized by their decimals, times the reference price, times total
// supply. Any failure in the chain yields zero: zero fails every
// threshold check, so a broken fetch can never let a trade through.
func (g *ValuationGate) EstimateMarketCap(ctx context.Context, keys *domain.PoolKeys) decimal.Decimal {
	reserves, err := g.reserves.PoolReserves(ctx, keys)
	if err != nil {
		slog.Debug("Reserve fetch failed", slog.String("pool", keys.ID.String()), slog.Any("error", err))
		return decimal.Zero
	}
	if reserves.Base == 0 {
		return decimal.Zero
	}

	baseUI := decimal.NewFromUint64(reserves.Base).Shift(-int32(keys.BaseDecimals))
	quoteUI := decimal.NewFromUint64(reserves.Quote).Shift(-int32(keys.QuoteDecimals))
	if baseUI.IsZero() {
		return decimal.Zero
	}

	tokenPrice := quoteUI.Div(baseUI).Mul(g.price.Price(ctx))

	supply, err := g.supply.TokenSupplyUI(ctx, keys.BaseMint)
	if err != nil {
		slog.Debug("Supply fetch failed", slog.String("mint", keys.BaseMint.String()), slog.Any("error", err))
		return decimal.Zero
	}

	return tokenPrice.Mul(supply)
}

// PassesEntry reports whether a valuation sits inside the configured
// entry band. Both bounds are inclusive.
func (g *ValuationGate) PassesEntry(value decimal.Decimal) bool {
	return value.GreaterThanOrEqual(g.cfg.EntryFloor) && value.LessThanOrEqual(g.cfg.EntryCeil)
}

// WaitForExit polls the pool valuation until it crosses the exit target
// or the configured duration elapses. Either way the caller proceeds to
// sell when this returns: the loop is advisory timing, never a hard gate
// that could pin a position forever. A zero interval or duration skips
// the wait entirely (sell unconditionally). A valuation-fetch failure
// reads as zero and silently consumes one polling slot.
func (g *ValuationGate) WaitForExit(ctx context.Context, keys *domain.PoolKeys) {
	if g.cfg.CheckInterval == 0 || g.cfg.CheckDuration == 0 {
		return
	}

	maxChecks := int(g.cfg.CheckDuration / g.cfg.CheckInterval)
	for i := 0; i < maxChecks; i++ {
		marketCap := g.EstimateMarketCap(ctx, keys)
		slog.Debug("Exit poll",
			slog.String("mint", keys.BaseMint.String()),
			slog.String("market_cap", marketCap.String()),
			slog.String("target", g.cfg.ExitTarget.String()),
		)
		if marketCap.GreaterThanOrEqual(g.cfg.ExitTarget) {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(g.cfg.CheckInterval):
		}
	}
}

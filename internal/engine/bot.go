package engine

import (
	"context"
	"log/slog"

	"sniper_go/internal/cache"
	"sniper_go/internal/domain"
	"sniper_go/internal/infra"

	"github.com/gagliardetto/solana-go"
)

// BotConfig is the per-process trade configuration, validated at startup.
type BotConfig struct {
	Wallet   solana.PrivateKey
	QuoteAta solana.PublicKey

	// QuoteAmount is the quote spent per buy, in lamports.
	QuoteAmount uint64

	MaxBuyRetries  int
	MaxSellRetries int

	BuySlippageBps  uint64
	SellSlippageBps uint64

	// SingleFlight enforces at most one buy workflow at a time.
	SingleFlight bool

	// Network tag used only for explorer links in logs.
	Network string
}

// Bot composes the gate, the caches, the valuation gate and the swap
// executor into the two public workflows. Buy and Sell are safe to call
// from concurrent subscription callbacks.
type Bot struct {
	cfg BotConfig

	gate      *Gate
	executor  *SwapExecutor
	valuation *ValuationGate
	markets   *cache.MarketCache
	pools     *cache.PoolCache
	fills     domain.FillRecorder
}

// NewBot assembles the orchestrator.
func NewBot(
	cfg BotConfig,
	executor *SwapExecutor,
	valuation *ValuationGate,
	markets *cache.MarketCache,
	pools *cache.PoolCache,
	fills domain.FillRecorder,
) *Bot {
	return &Bot{
		cfg:       cfg,
		gate:      NewGate(cfg.SingleFlight),
		executor:  executor,
		valuation: valuation,
		markets:   markets,
		pools:     pools,
		fills:     fills,
	}
}

// Gate exposes the concurrency gate for observability and tests.
func (b *Bot) Gate() *Gate {
	return b.gate
}

// Buy runs the entry workflow for a newly seen pool. A gate denial is an
// expected skip, not an error. The gate is released on every exit path.
func (b *Bot) Buy(ctx context.Context, accountID solana.PublicKey, state *domain.LiquidityStateV4) {
	mint := state.BaseMint.String()

	if !b.gate.TryEnterBuy() {
		slog.Debug("Skipping buy, single flight and a trade is already in progress", slog.String("mint", mint))
		infra.GlobalMetrics.RecordBuySkipped()
		return
	}
	defer b.gate.ExitBuy()

	market, ok := b.markets.Get(state.MarketID.String())
	if !ok {
		slog.Debug("Market data not cached yet, skipping buy",
			slog.String("mint", mint),
			slog.String("market", state.MarketID.String()),
		)
		return
	}

	keys := DerivePoolKeys(accountID, state, market)
	mintAta, _, err := solana.FindAssociatedTokenAddress(b.cfg.Wallet.PublicKey(), state.BaseMint)
	if err != nil {
		slog.Error("Failed to derive token account", slog.String("mint", mint), slog.Any("error", err))
		return
	}

	marketCap := b.valuation.EstimateMarketCap(ctx, keys)
	slog.Info("Market cap estimated", slog.String("mint", mint), slog.String("market_cap", marketCap.String()))

	if !b.valuation.PassesEntry(marketCap) {
		slog.Debug("Market cap outside entry band, skipping buy",
			slog.String("mint", mint),
			slog.String("market_cap", marketCap.String()),
		)
		infra.GlobalMetrics.RecordBuySkipped()
		return
	}

	infra.GlobalMetrics.RecordBuyAttempt()
	result := Retry(b.cfg.MaxBuyRetries, func(i int) domain.TradeResult {
		slog.Info("Send buy transaction attempt",
			slog.String("mint", mint),
			slog.Int("attempt", i+1),
			slog.Int("max", b.cfg.MaxBuyRetries),
		)
		res := b.executor.Execute(ctx, SwapRequest{
			Keys:        keys,
			ATAIn:       b.cfg.QuoteAta,
			ATAOut:      mintAta,
			MintOut:     state.BaseMint,
			AmountIn:    b.cfg.QuoteAmount,
			SlippageBps: b.cfg.BuySlippageBps,
			Signer:      b.cfg.Wallet,
			Direction:   domain.DirectionBuy,
		})
		if !res.Confirmed {
			slog.Debug("Error confirming buy transaction",
				slog.String("mint", mint),
				slog.String("signature", res.Signature.String()),
				slog.Any("error", res.Err),
			)
		}
		return res
	})

	if !result.Confirmed {
		slog.Info("Failed to buy token, retries exhausted", slog.String("mint", mint))
		return
	}

	infra.GlobalMetrics.RecordFillConfirmed()
	if err := b.fills.RecordBuy(mint, accountID.String(), result.Signature.String(), b.cfg.QuoteAmount); err != nil {
		slog.Error("Failed to persist buy fill", slog.String("mint", mint), slog.Any("error", err))
	}
	slog.Info("Confirmed buy tx",
		slog.String("mint", mint),
		slog.String("signature", result.Signature.String()),
		slog.String("url", b.explorerURL(result.Signature)),
	)
}

// Sell runs the exit workflow for a wallet token account. The in-flight
// counter is decremented on every exit path, early returns included.
func (b *Bot) Sell(ctx context.Context, accountID solana.PublicKey, account *domain.TokenAccount) {
	b.gate.EnterSell()
	defer b.gate.ExitSell()

	mint := account.Mint.String()
	slog.Debug("Processing wallet token", slog.String("mint", mint))

	entry, ok := b.pools.Get(mint)
	if !ok {
		slog.Debug("Token pool data is not found, can't sell", slog.String("mint", mint))
		return
	}

	if account.Amount == 0 {
		slog.Debug("Empty balance, can't sell", slog.String("mint", mint))
		return
	}

	market, ok := b.markets.Get(entry.State.MarketID.String())
	if !ok {
		slog.Debug("Market data not cached, can't sell",
			slog.String("mint", mint),
			slog.String("market", entry.State.MarketID.String()),
		)
		return
	}

	keys := DerivePoolKeys(entry.ID, entry.State, market)

	b.valuation.WaitForExit(ctx, keys)

	infra.GlobalMetrics.RecordSellAttempt()
	result := Retry(b.cfg.MaxSellRetries, func(i int) domain.TradeResult {
		slog.Debug("Send sell transaction attempt",
			slog.String("mint", mint),
			slog.Int("attempt", i+1),
			slog.Int("max", b.cfg.MaxSellRetries),
		)
		res := b.executor.Execute(ctx, SwapRequest{
			Keys:        keys,
			ATAIn:       accountID,
			ATAOut:      b.cfg.QuoteAta,
			MintOut:     keys.QuoteMint,
			AmountIn:    account.Amount,
			SlippageBps: b.cfg.SellSlippageBps,
			Signer:      b.cfg.Wallet,
			Direction:   domain.DirectionSell,
		})
		if !res.Confirmed {
			slog.Debug("Error confirming sell transaction",
				slog.String("mint", mint),
				slog.String("signature", res.Signature.String()),
				slog.Any("error", res.Err),
			)
		}
		return res
	})

	if !result.Confirmed {
		slog.Info("Failed to sell token, retries exhausted", slog.String("mint", mint))
		return
	}

	infra.GlobalMetrics.RecordFillConfirmed()
	if err := b.fills.RecordSell(mint, entry.ID.String(), result.Signature.String(), account.Amount); err != nil {
		slog.Error("Failed to persist sell fill", slog.String("mint", mint), slog.Any("error", err))
	}
	slog.Info("Confirmed sell tx",
		slog.String("mint", mint),
		slog.String("signature", result.Signature.String()),
		slog.String("url", b.explorerURL(result.Signature)),
	)
}

func (b *Bot) explorerURL(sig solana.Signature) string {
	return "https://solscan.io/tx/" + sig.String() + "?cluster=" + b.cfg.Network
}

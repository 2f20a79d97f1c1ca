package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"

	"sniper_go/internal/cache"
	"sniper_go/internal/domain"
	"sniper_go/internal/engine"
	"sniper_go/internal/infra/solanarpc"
	"sniper_go/internal/infra/storage"
)

// accountReader reads raw account data; implemented by solanarpc.Client.
type accountReader interface {
	AccountData(ctx context.Context, account solana.PublicKey) ([]byte, error)
}

// Dispatcher routes account notifications to the bot. It owns the
// admission filters: only pools opened after process start, never the
// same pool twice, and only tokens whose metadata update authority
// matches the configured one.
type Dispatcher struct {
	bot     *engine.Bot
	client  accountReader
	store   *storage.Storage
	pools   *cache.PoolCache
	markets *cache.MarketCache

	quoteMint solana.PublicKey
	authority solana.PublicKey // zero value disables the metadata check
	startedAt time.Time
}

func NewDispatcher(
	bot *engine.Bot,
	client accountReader,
	store *storage.Storage,
	pools *cache.PoolCache,
	markets *cache.MarketCache,
	quoteMint solana.PublicKey,
	updateAuthority solana.PublicKey,
) *Dispatcher {
	return &Dispatcher{
		bot:       bot,
		client:    client,
		store:     store,
		pools:     pools,
		markets:   markets,
		quoteMint: quoteMint,
		authority: updateAuthority,
		startedAt: time.Now(),
	}
}

// OnPool handles a fresh liquidity pool notification.
func (d *Dispatcher) OnPool(ctx context.Context) solanarpc.PoolHandler {
	return func(accountID solana.PublicKey, state *domain.LiquidityStateV4) {
		mint := state.BaseMint.String()
		if d.pools.Has(mint) {
			return
		}

		openAt := time.Unix(int64(state.PoolOpenTime), 0)
		if !openAt.After(d.startedAt) {
			slog.Debug("Ignoring pre-existing pool",
				slog.String("pool", accountID.String()),
				slog.Time("open_time", openAt))
			return
		}

		if !d.authority.IsZero() && !d.hasUpdateAuthority(ctx, state.BaseMint) {
			slog.Debug("Skipping pool, metadata authority mismatch",
				slog.String("mint", mint))
			return
		}

		d.pools.Save(accountID, state)
		slog.Info("New pool detected",
			slog.String("pool", accountID.String()),
			slog.String("mint", mint))

		go d.bot.Buy(ctx, accountID, state)
	}
}

// OnMarket caches OpenBook market accounts ahead of pool creation.
func (d *Dispatcher) OnMarket() solanarpc.MarketHandler {
	return func(accountID solana.PublicKey, state *domain.MarketStateV3) {
		d.markets.Save(accountID.String(), state.Minimal())
	}
}

// OnWallet handles token account changes on the trading wallet.
func (d *Dispatcher) OnWallet(ctx context.Context) solanarpc.WalletHandler {
	return func(accountID solana.PublicKey, account *domain.TokenAccount) {
		if account.Mint.Equals(d.quoteMint) {
			return
		}
		notForSale, err := d.store.IsNotForSale(account.Mint.String())
		if err != nil {
			slog.Error("Not-for-sale lookup failed",
				slog.String("mint", account.Mint.String()),
				slog.Any("error", err))
		}
		if notForSale {
			slog.Info("Holding token marked not for sale",
				slog.String("mint", account.Mint.String()))
			return
		}

		go d.bot.Sell(ctx, accountID, account)
	}
}

// hasUpdateAuthority reads the token metadata account and compares its
// update authority against the configured one.
func (d *Dispatcher) hasUpdateAuthority(ctx context.Context, mint solana.PublicKey) bool {
	metadata := engine.DeriveMetadataAccount(mint)
	data, err := d.client.AccountData(ctx, metadata)
	if err != nil {
		slog.Warn("Metadata fetch failed",
			slog.String("mint", mint.String()),
			slog.Any("error", err))
		return false
	}
	// Metadata layout: key (1 byte) then update authority (32 bytes).
	if len(data) < 33 {
		return false
	}
	return solana.PublicKeyFromBytes(data[1:33]).Equals(d.authority)
}

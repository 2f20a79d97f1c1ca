package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"sniper_go/internal/app"
	"sniper_go/internal/cache"
	"sniper_go/internal/engine"
	"sniper_go/internal/infra"
	"sniper_go/internal/infra/solanarpc"
	"sniper_go/internal/server"
)

func main() {
	// 1. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	// 2. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. RPC Client & Relay
	client := solanarpc.NewClient(cfg.RPC.Endpoint, cfg.RPC.RequestsPerSecond)

	exists, err := client.AccountExists(ctx, bootstrap.QuoteAta)
	if err != nil {
		slog.Error("❌ Failed to check quote token account", slog.Any("error", err))
		os.Exit(1)
	}
	if !exists {
		slog.Error("❌ Quote token account does not exist, create a WSOL account and fund it first",
			slog.String("quote_ata", bootstrap.QuoteAta.String()))
		os.Exit(1)
	}

	var relay *solanarpc.Relay
	tipAccount := solana.PublicKey{}
	if cfg.Relay.TipAccount != "" {
		tipAccount, err = solana.PublicKeyFromBase58(cfg.Relay.TipAccount)
		if err != nil {
			slog.Error("❌ Invalid relay tip account", slog.Any("error", err))
			os.Exit(1)
		}
	}
	relay = solanarpc.NewRelay(client, tipAccount, cfg.Relay.TipLamports,
		time.Duration(cfg.Relay.ConfirmPollMS)*time.Millisecond)

	// 4. Price Oracle (windowed request budget over the reference pool)
	priceClient := infra.NewSolPriceClient(cfg.Price.URL, cfg.Price.PoolID)
	oracle := cache.NewPriceOracle(priceClient, cfg.Price.RequestCeiling,
		time.Duration(cfg.Price.WindowSec)*time.Second)
	oracle.Start(ctx)
	defer oracle.Stop()

	// 5. Caches, Valuation & Executor
	markets := cache.NewMarketCache()
	pools := cache.NewPoolCache()

	valuation := engine.NewValuationGate(client, client, oracle, engine.ValuationConfig{
		EntryFloor:    decimal.NewFromFloat(cfg.Valuation.EntryFloorUSD),
		EntryCeil:     decimal.NewFromFloat(cfg.Valuation.EntryCeilUSD),
		ExitTarget:    decimal.NewFromFloat(cfg.Valuation.ExitTargetUSD),
		CheckInterval: time.Duration(cfg.Valuation.CheckIntervalMS) * time.Millisecond,
		CheckDuration: time.Duration(cfg.Valuation.CheckDurationMS) * time.Millisecond,
	})

	executor := engine.NewSwapExecutor(client, client, relay)

	bot := engine.NewBot(engine.BotConfig{
		Wallet:          bootstrap.Wallet,
		QuoteAta:        bootstrap.QuoteAta,
		QuoteAmount:     cfg.Trade.QuoteAmountLamports,
		MaxBuyRetries:   cfg.Trade.MaxBuyRetries,
		MaxSellRetries:  cfg.Trade.MaxSellRetries,
		BuySlippageBps:  cfg.Trade.BuySlippageBps,
		SellSlippageBps: cfg.Trade.SellSlippageBps,
		SingleFlight:    cfg.Trade.SingleFlight,
		Network:         cfg.App.Network,
	}, executor, valuation, markets, pools, bootstrap.Storage)

	// 6. Not-for-sale API
	api := server.New(cfg.Server.Addr, bootstrap.Storage)
	go api.Start(ctx)

	// 7. Subscription Listener
	updateAuthority := solana.PublicKey{}
	if cfg.Listener.UpdateAuthority != "" {
		updateAuthority, err = solana.PublicKeyFromBase58(cfg.Listener.UpdateAuthority)
		if err != nil {
			slog.Error("❌ Invalid update authority", slog.Any("error", err))
			os.Exit(1)
		}
	}

	dispatcher := app.NewDispatcher(bot, client, bootstrap.Storage, pools, markets,
		solana.WrappedSol, updateAuthority)

	listener := solanarpc.NewListener(cfg.RPC.WSEndpoint,
		solana.WrappedSol, bootstrap.Wallet.PublicKey(),
		dispatcher.OnPool(ctx), dispatcher.OnMarket(), dispatcher.OnWallet(ctx))
	if err := listener.Connect(ctx); err != nil {
		slog.Error("❌ Failed to connect listener", slog.Any("error", err))
		os.Exit(1)
	}
	defer listener.Disconnect()
	slog.InfoContext(ctx, "✅ Subscriptions started")

	slog.InfoContext(ctx, "✨ Sniper fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")
}

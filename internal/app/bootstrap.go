package app

import (
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"sniper_go/internal/infra"
	"sniper_go/internal/infra/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config   *infra.Config
	Storage  *storage.Storage
	Wallet   solana.PrivateKey
	QuoteAta solana.PublicKey
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logger, DB, wallet)
func (b *Bootstrap) Initialize() error {
	slog.Info("🚀 Bootstrapping Sniper Go...")

	// 1. Load Config
	cfg, err := infra.LoadConfig("configs/config.yaml")
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (DB)
	store, err := storage.NewStorage(cfg.Storage.Path)
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("✅ Database initialized")

	// 4. Load Wallet
	wallet, err := solana.PrivateKeyFromBase58(cfg.Wallet.PrivateKey)
	if err != nil {
		return fmt.Errorf("invalid wallet private key: %w", err)
	}
	b.Wallet = wallet

	quoteAta, _, err := solana.FindAssociatedTokenAddress(wallet.PublicKey(), solana.WrappedSol)
	if err != nil {
		return fmt.Errorf("failed to derive quote token account: %w", err)
	}
	b.QuoteAta = quoteAta
	slog.Info("✅ Wallet loaded",
		slog.String("pubkey", wallet.PublicKey().String()),
		slog.String("quote_ata", quoteAta.String()))

	return nil
}

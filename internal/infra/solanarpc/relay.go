package solanarpc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sniper_go/internal/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
)

// maxConfirmFailures bounds consecutive failed status/height polls.
// Without it a dead RPC would pin the attempt until ctx cancellation,
// since the blockhash-expiry exit needs a successful height read.
const maxConfirmFailures = 5

// relayClient is the slice of the RPC client the relay needs.
type relayClient interface {
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	SignatureStatus(ctx context.Context, sig solana.Signature) (confirmed bool, txErr error, err error)
	BlockHeight(ctx context.Context) (uint64, error)
}

// Relay submits signed transactions with a priority tip and waits for
// confirmation. It implements domain.TxRelay. Confirmation is bounded by
// the blockhash lifetime, not wall-clock: once the chain passes the
// transaction's last valid block height the attempt is dead and the
// caller may retry with a fresh blockhash.
type Relay struct {
	client       relayClient
	tipAccount   solana.PublicKey
	tipLamports  uint64
	pollInterval time.Duration
}

// NewRelay creates a relay. tipLamports=0 disables tipping.
func NewRelay(client *Client, tipAccount solana.PublicKey, tipLamports uint64, pollInterval time.Duration) *Relay {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &Relay{
		client:       client,
		tipAccount:   tipAccount,
		tipLamports:  tipLamports,
		pollInterval: pollInterval,
	}
}

// TipInstruction returns the tip transfer to include in the transaction,
// or nil when tipping is disabled.
func (r *Relay) TipInstruction(payer solana.PublicKey) solana.Instruction {
	if r.tipLamports == 0 || r.tipAccount.IsZero() {
		return nil
	}
	return system.NewTransferInstruction(r.tipLamports, payer, r.tipAccount).Build()
}

// SubmitAndConfirm sends the transaction and polls its status until it
// confirms, fails on chain, or its blockhash expires.
func (r *Relay) SubmitAndConfirm(ctx context.Context, tx *solana.Transaction, lastValidHeight uint64) domain.TradeResult {
	sig, err := r.client.SendTransaction(ctx, tx)
	if err != nil {
		return domain.TradeResult{Err: err}
	}

	failures := 0
	var lastErr error
	for {
		confirmed, txErr, err := r.client.SignatureStatus(ctx, sig)
		if err != nil {
			failures++
			lastErr = err
			slog.Debug("Signature status fetch failed", slog.String("signature", sig.String()), slog.Any("error", err))
		} else {
			failures = 0
			if txErr != nil {
				return domain.TradeResult{Signature: sig, Err: txErr}
			}
			if confirmed {
				return domain.TradeResult{Confirmed: true, Signature: sig}
			}
		}

		height, err := r.client.BlockHeight(ctx)
		switch {
		case err != nil:
			failures++
			lastErr = err
		case height > lastValidHeight:
			return domain.TradeResult{Signature: sig, Err: domain.ErrBlockhashExpired}
		}

		if failures >= maxConfirmFailures {
			return domain.TradeResult{Signature: sig, Err: domain.NewNetworkError("confirmTransaction", fmt.Errorf("gave up after %d consecutive poll failures: %w", failures, lastErr))}
		}

		select {
		case <-ctx.Done():
			return domain.TradeResult{Signature: sig, Err: ctx.Err()}
		case <-time.After(r.pollInterval):
		}
	}
}

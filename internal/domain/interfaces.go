package domain

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// ReserveSource reads live pool vault balances.
type ReserveSource interface {
	PoolReserves(ctx context.Context, keys *PoolKeys) (PoolReserves, error)
}

// SupplySource reads the circulating supply of a mint, in UI units.
type SupplySource interface {
	TokenSupplyUI(ctx context.Context, mint solana.PublicKey) (decimal.Decimal, error)
}

// BlockhashSource fetches a fresh recent blockhash and the last block
// height it is valid for. The swap path re-fetches per attempt; stale
// blockhashes are rejected on submission.
type BlockhashSource interface {
	RecentBlockhash(ctx context.Context) (solana.Hash, uint64, error)
}

// PriceSource fetches the reference asset's external price.
type PriceSource interface {
	FetchPrice(ctx context.Context) (decimal.Decimal, error)
}

// TxRelay submits a signed transaction through the priority relay and
// waits for confirmation. A non-confirmed result is returned as a value,
// never as a panic or a swallowed error.
type TxRelay interface {
	// TipInstruction returns the relay tip transfer to include in the
	// transaction, or nil when no tip is configured.
	TipInstruction(payer solana.PublicKey) solana.Instruction
	SubmitAndConfirm(ctx context.Context, tx *solana.Transaction, lastValidHeight uint64) TradeResult
}

// FillRecorder persists confirmed fills. Fire and forget: callers log a
// failure and keep going, persistence never vetoes a trade.
type FillRecorder interface {
	RecordBuy(mint, pool, signature string, lamportsIn uint64) error
	RecordSell(mint, pool, signature string, amountIn uint64) error
}

package domain

import "github.com/gagliardetto/solana-go"

// Direction of a swap relative to the sniped token.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// TradeResult is the terminal value of one swap attempt. A failed attempt
// is a value, not an error: Confirmed=false with Err set is the normal
// shape of a rejected or expired submission, and callers retry on it the
// same way they retry on a transport error.
type TradeResult struct {
	Confirmed bool
	Signature solana.Signature
	Err       error
}

// PoolReserves is a point-in-time read of the pool vault balances, in raw
// base units.
type PoolReserves struct {
	Base  uint64
	Quote uint64
}

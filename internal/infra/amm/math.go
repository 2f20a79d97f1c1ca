// Package amm carries the Raydium v4 swap math and instruction builders
// the executor calls into.
package amm

import "math/big"

// Raydium v4 charges a flat 25 bps swap fee on the input amount.
const (
	swapFeeNumerator   = 25
	swapFeeDenominator = 10000

	bpsDenominator = 10000
)

// ComputeAmountOut prices a fixed-in swap against the constant-product
// curve after the input fee: out = Rout * inFee / (Rin + inFee).
// Intermediate products exceed uint64, hence big.Int.
func ComputeAmountOut(amountIn, reserveIn, reserveOut uint64) uint64 {
	if reserveIn == 0 || reserveOut == 0 {
		return 0
	}

	inAfterFee := new(big.Int).Mul(
		new(big.Int).SetUint64(amountIn),
		big.NewInt(swapFeeDenominator-swapFeeNumerator),
	)
	inAfterFee.Div(inAfterFee, big.NewInt(swapFeeDenominator))

	numerator := new(big.Int).Mul(new(big.Int).SetUint64(reserveOut), inAfterFee)
	denominator := new(big.Int).Add(new(big.Int).SetUint64(reserveIn), inAfterFee)

	out := numerator.Div(numerator, denominator)
	if !out.IsUint64() {
		return 0
	}
	return out.Uint64()
}

// MinAmountOut bounds the computed output by the tolerated slippage, in
// basis points. This is the floor the swap instruction enforces on chain.
func MinAmountOut(amountIn, reserveIn, reserveOut, slippageBps uint64) uint64 {
	out := ComputeAmountOut(amountIn, reserveIn, reserveOut)
	if slippageBps == 0 {
		return out
	}
	if slippageBps >= bpsDenominator {
		return 0
	}

	bounded := new(big.Int).Mul(
		new(big.Int).SetUint64(out),
		new(big.Int).SetUint64(bpsDenominator-slippageBps),
	)
	bounded.Div(bounded, big.NewInt(bpsDenominator))
	return bounded.Uint64()
}

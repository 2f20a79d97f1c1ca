package amm

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestComputeAmountOut_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	reserveGen := gen.UInt64Range(1, 1<<48)
	amountGen := gen.UInt64Range(0, 1<<40)

	properties.Property("output never drains the pool", prop.ForAll(
		func(amountIn, reserveIn, reserveOut uint64) bool {
			return ComputeAmountOut(amountIn, reserveIn, reserveOut) < reserveOut
		},
		amountGen, reserveGen, reserveGen,
	))

	properties.Property("output grows with input", prop.ForAll(
		func(amountIn, reserveIn, reserveOut uint64) bool {
			small := ComputeAmountOut(amountIn, reserveIn, reserveOut)
			large := ComputeAmountOut(amountIn*2, reserveIn, reserveOut)
			return large >= small
		},
		gen.UInt64Range(1, 1<<39), reserveGen, reserveGen,
	))

	properties.Property("fee keeps output under the ideal curve", prop.ForAll(
		func(amountIn, reserveIn, reserveOut uint64) bool {
			out := ComputeAmountOut(amountIn, reserveIn, reserveOut)
			// Ideal (fee-free) constant product output, computed the
			// same truncating way.
			ideal := ComputeAmountOut(amountIn*swapFeeDenominator/(swapFeeDenominator-swapFeeNumerator), reserveIn, reserveOut)
			return out <= ideal
		},
		gen.UInt64Range(1, 1<<40), reserveGen, reserveGen,
	))

	properties.Property("slippage bound never exceeds the quote", prop.ForAll(
		func(amountIn, reserveIn, reserveOut, slippageBps uint64) bool {
			out := ComputeAmountOut(amountIn, reserveIn, reserveOut)
			return MinAmountOut(amountIn, reserveIn, reserveOut, slippageBps) <= out
		},
		amountGen, reserveGen, reserveGen, gen.UInt64Range(0, 10000),
	))

	properties.TestingRun(t)
}

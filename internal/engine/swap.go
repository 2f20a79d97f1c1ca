package engine

import (
	"context"

	"sniper_go/internal/domain"
	"sniper_go/internal/infra/amm"

	"github.com/gagliardetto/solana-go"
)

// SwapRequest describes one swap attempt. Built fresh per attempt, never
// persisted.
type SwapRequest struct {
	Keys        *domain.PoolKeys
	ATAIn       solana.PublicKey
	ATAOut      solana.PublicKey
	MintOut     solana.PublicKey
	AmountIn    uint64
	SlippageBps uint64
	Signer      solana.PrivateKey
	Direction   domain.Direction
}

// SwapExecutor builds, signs, submits and confirms a single swap
// transaction. Retrying is the caller's job; one Execute call is one
// attempt.
type SwapExecutor struct {
	reserves  domain.ReserveSource
	blockhash domain.BlockhashSource
	relay     domain.TxRelay
}

// NewSwapExecutor wires the executor to its collaborators.
func NewSwapExecutor(reserves domain.ReserveSource, blockhash domain.BlockhashSource, relay domain.TxRelay) *SwapExecutor {
	return &SwapExecutor{
		reserves:  reserves,
		blockhash: blockhash,
		relay:     relay,
	}
}

// Execute performs one attempt: fetch live reserves, bound the output by
// slippage, fetch a fresh blockhash (stale ones fail on submission, so
// this is per attempt), assemble the instruction set, sign and hand off
// to the relay. A buy prepends an idempotent create for the destination
// token account; a sell appends a close of the source account to reclaim
// its rent. Failures come back inside the TradeResult.
func (e *SwapExecutor) Execute(ctx context.Context, req SwapRequest) domain.TradeResult {
	reserves, err := e.reserves.PoolReserves(ctx, req.Keys)
	if err != nil {
		return domain.TradeResult{Err: domain.NewNetworkError("getPoolReserves", err)}
	}

	reserveIn, reserveOut := reserves.Base, reserves.Quote
	if req.Direction == domain.DirectionBuy {
		reserveIn, reserveOut = reserves.Quote, reserves.Base
	}
	minAmountOut := amm.MinAmountOut(req.AmountIn, reserveIn, reserveOut, req.SlippageBps)

	blockhash, lastValidHeight, err := e.blockhash.RecentBlockhash(ctx)
	if err != nil {
		return domain.TradeResult{Err: domain.NewNetworkError("getLatestBlockhash", err)}
	}

	owner := req.Signer.PublicKey()

	var instructions []solana.Instruction
	if tip := e.relay.TipInstruction(owner); tip != nil {
		instructions = append(instructions, tip)
	}
	if req.Direction == domain.DirectionBuy {
		create, err := amm.CreateATAIdempotentInstruction(owner, owner, req.MintOut)
		if err != nil {
			return domain.TradeResult{Err: err}
		}
		instructions = append(instructions, create)
	}

	swap := amm.SwapBaseInInstruction(req.Keys, req.ATAIn, req.ATAOut, owner, req.AmountIn, minAmountOut)
	instructions = append(instructions, swap)

	if req.Direction == domain.DirectionSell {
		instructions = append(instructions, amm.CloseAccountInstruction(req.ATAIn, owner))
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(owner))
	if err != nil {
		return domain.TradeResult{Err: err}
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(owner) {
			return &req.Signer
		}
		return nil
	}); err != nil {
		return domain.TradeResult{Err: err}
	}

	return e.relay.SubmitAndConfirm(ctx, tx, lastValidHeight)
}

// Package engine implements the trade execution core: pool key
// derivation, the valuation gate, the single-flight concurrency gate, the
// swap executor and the orchestrating bot.
package engine

import (
	"encoding/binary"

	"sniper_go/internal/domain"

	"github.com/gagliardetto/solana-go"
)

var ammAuthoritySeed = []byte("amm authority")

// DerivePoolKeys resolves the full pool descriptor from a raw pool record
// and its market's order-book addresses. Pure and deterministic: identical
// inputs always yield an identical descriptor, and no network calls occur.
// Malformed records are a caller responsibility.
func DerivePoolKeys(id solana.PublicKey, state *domain.LiquidityStateV4, market *domain.MinimalMarket) *domain.PoolKeys {
	return &domain.PoolKeys{
		ID:               id,
		BaseMint:         state.BaseMint,
		QuoteMint:        state.QuoteMint,
		LpMint:           state.LpMint,
		BaseDecimals:     uint8(state.BaseDecimal),
		QuoteDecimals:    uint8(state.QuoteDecimal),
		Authority:        deriveAmmAuthority(domain.RaydiumAMMV4ProgramID),
		OpenOrders:       state.OpenOrders,
		TargetOrders:     state.TargetOrders,
		BaseVault:        state.BaseVault,
		QuoteVault:       state.QuoteVault,
		WithdrawQueue:    state.WithdrawQueue,
		LpVault:          state.LpVault,
		MarketProgramID:  state.MarketProgramID,
		MarketID:         state.MarketID,
		MarketAuthority:  deriveMarketAuthority(state.MarketProgramID, state.MarketID),
		MarketBaseVault:  state.BaseVault,
		MarketQuoteVault: state.QuoteVault,
		MarketBids:       market.Bids,
		MarketAsks:       market.Asks,
		MarketEventQueue: market.EventQueue,
	}
}

// deriveAmmAuthority returns the AMM program's pool authority PDA.
func deriveAmmAuthority(program solana.PublicKey) solana.PublicKey {
	authority, _, err := solana.FindProgramAddress([][]byte{ammAuthoritySeed}, program)
	if err != nil {
		// Unreachable for the fixed seed; FindProgramAddress walks bump
		// seeds until one lands off-curve.
		return solana.PublicKey{}
	}
	return authority
}

// deriveMarketAuthority returns the market's vault signer: the first
// program address of (marketID, nonce) for nonce in [0, 100).
func deriveMarketAuthority(program, marketID solana.PublicKey) solana.PublicKey {
	seed := make([]byte, 8)
	for nonce := uint64(0); nonce < 100; nonce++ {
		binary.LittleEndian.PutUint64(seed, nonce)
		authority, err := solana.CreateProgramAddress([][]byte{marketID.Bytes(), seed}, program)
		if err == nil {
			return authority
		}
	}
	return solana.PublicKey{}
}

// DeriveMetadataAccount returns the token metadata PDA for a mint.
func DeriveMetadataAccount(mint solana.PublicKey) solana.PublicKey {
	account, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("metadata"), domain.MetadataProgramID.Bytes(), mint.Bytes()},
		domain.MetadataProgramID,
	)
	if err != nil {
		return solana.PublicKey{}
	}
	return account
}

package amm

import (
	"encoding/binary"

	"sniper_go/internal/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
)

// Raydium v4 swap-base-in instruction tag.
const swapBaseInTag = 9

// SwapBaseInInstruction builds the Raydium v4 fixed-in swap. The account
// order is fixed by the program; userSource/userDest are the trader's
// token accounts for the input and output side.
func SwapBaseInInstruction(keys *domain.PoolKeys, userSource, userDest, owner solana.PublicKey, amountIn, minAmountOut uint64) solana.Instruction {
	data := make([]byte, 17)
	data[0] = swapBaseInTag
	binary.LittleEndian.PutUint64(data[1:9], amountIn)
	binary.LittleEndian.PutUint64(data[9:17], minAmountOut)

	accounts := solana.AccountMetaSlice{
		solana.Meta(solana.TokenProgramID),
		solana.Meta(keys.ID).WRITE(),
		solana.Meta(keys.Authority),
		solana.Meta(keys.OpenOrders).WRITE(),
		solana.Meta(keys.TargetOrders).WRITE(),
		solana.Meta(keys.BaseVault).WRITE(),
		solana.Meta(keys.QuoteVault).WRITE(),
		solana.Meta(keys.MarketProgramID),
		solana.Meta(keys.MarketID).WRITE(),
		solana.Meta(keys.MarketBids).WRITE(),
		solana.Meta(keys.MarketAsks).WRITE(),
		solana.Meta(keys.MarketEventQueue).WRITE(),
		solana.Meta(keys.MarketBaseVault).WRITE(),
		solana.Meta(keys.MarketQuoteVault).WRITE(),
		solana.Meta(keys.MarketAuthority),
		solana.Meta(userSource).WRITE(),
		solana.Meta(userDest).WRITE(),
		solana.Meta(owner).SIGNER().WRITE(),
	}

	return solana.NewInstruction(domain.RaydiumAMMV4ProgramID, accounts, data)
}

// CreateATAIdempotentInstruction builds the associated-token-account
// CreateIdempotent instruction: a no-op when the account already exists,
// so the buy path can always prepend it.
func CreateATAIdempotentInstruction(payer, owner, mint solana.PublicKey) (solana.Instruction, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.Meta(payer).SIGNER().WRITE(),
		solana.Meta(ata).WRITE(),
		solana.Meta(owner),
		solana.Meta(mint),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.TokenProgramID),
	}

	// CreateIdempotent discriminator.
	return solana.NewInstruction(solana.SPLAssociatedTokenAccountProgramID, accounts, []byte{1}), nil
}

// CloseAccountInstruction closes a token account and refunds its rent to
// the owner. Appended on the sell side only.
func CloseAccountInstruction(account, owner solana.PublicKey) solana.Instruction {
	return token.NewCloseAccountInstruction(account, owner, owner, nil).Build()
}

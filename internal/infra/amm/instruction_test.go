package amm

import (
	"encoding/binary"
	"testing"

	"sniper_go/internal/domain"

	"github.com/gagliardetto/solana-go"
)

func TestSwapBaseInInstruction_Layout(t *testing.T) {
	keys := &domain.PoolKeys{
		ID:               solana.NewWallet().PublicKey(),
		Authority:        solana.NewWallet().PublicKey(),
		OpenOrders:       solana.NewWallet().PublicKey(),
		TargetOrders:     solana.NewWallet().PublicKey(),
		BaseVault:        solana.NewWallet().PublicKey(),
		QuoteVault:       solana.NewWallet().PublicKey(),
		MarketProgramID:  domain.OpenBookProgramID,
		MarketID:         solana.NewWallet().PublicKey(),
		MarketAuthority:  solana.NewWallet().PublicKey(),
		MarketBaseVault:  solana.NewWallet().PublicKey(),
		MarketQuoteVault: solana.NewWallet().PublicKey(),
		MarketBids:       solana.NewWallet().PublicKey(),
		MarketAsks:       solana.NewWallet().PublicKey(),
	}
	source := solana.NewWallet().PublicKey()
	dest := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	inst := SwapBaseInInstruction(keys, source, dest, owner, 12345, 678)

	if !inst.ProgramID().Equals(domain.RaydiumAMMV4ProgramID) {
		t.Errorf("wrong program id: %s", inst.ProgramID())
	}

	data, err := inst.Data()
	if err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	if len(data) != 17 {
		t.Fatalf("expected 17 data bytes, got %d", len(data))
	}
	if data[0] != 9 {
		t.Errorf("expected instruction tag 9, got %d", data[0])
	}
	if got := binary.LittleEndian.Uint64(data[1:9]); got != 12345 {
		t.Errorf("expected amountIn 12345, got %d", got)
	}
	if got := binary.LittleEndian.Uint64(data[9:17]); got != 678 {
		t.Errorf("expected minAmountOut 678, got %d", got)
	}

	accounts := inst.Accounts()
	if len(accounts) != 18 {
		t.Fatalf("expected 18 accounts, got %d", len(accounts))
	}
	if !accounts[0].PublicKey.Equals(solana.TokenProgramID) {
		t.Error("account 0 must be the token program")
	}
	last := accounts[17]
	if !last.PublicKey.Equals(owner) || !last.IsSigner {
		t.Error("last account must be the signing owner")
	}
}

func TestCreateATAIdempotentInstruction(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	inst, err := CreateATAIdempotentInstruction(owner, owner, mint)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if !inst.ProgramID().Equals(solana.SPLAssociatedTokenAccountProgramID) {
		t.Errorf("wrong program id: %s", inst.ProgramID())
	}

	data, err := inst.Data()
	if err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	if len(data) != 1 || data[0] != 1 {
		t.Errorf("expected CreateIdempotent discriminator [1], got %v", data)
	}

	ata, _, _ := solana.FindAssociatedTokenAddress(owner, mint)
	accounts := inst.Accounts()
	if len(accounts) != 6 {
		t.Fatalf("expected 6 accounts, got %d", len(accounts))
	}
	if !accounts[1].PublicKey.Equals(ata) {
		t.Error("account 1 must be the derived associated token account")
	}
}

func TestCloseAccountInstruction(t *testing.T) {
	account := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	inst := CloseAccountInstruction(account, owner)

	if !inst.ProgramID().Equals(solana.TokenProgramID) {
		t.Errorf("wrong program id: %s", inst.ProgramID())
	}
	accounts := inst.Accounts()
	if len(accounts) < 3 {
		t.Fatalf("expected at least 3 accounts, got %d", len(accounts))
	}
	if !accounts[0].PublicKey.Equals(account) {
		t.Error("account 0 must be the account being closed")
	}
}

package cache

import (
	"testing"

	"sniper_go/internal/domain"

	"github.com/gagliardetto/solana-go"
)

func TestPoolCache_KeyedByBaseMint(t *testing.T) {
	c := NewPoolCache()

	mint := solana.NewWallet().PublicKey()
	poolID := solana.NewWallet().PublicKey()
	c.Save(poolID, &domain.LiquidityStateV4{BaseMint: mint})

	entry, ok := c.Get(mint.String())
	if !ok {
		t.Fatal("expected pool to be cached under its base mint")
	}
	if !entry.ID.Equals(poolID) {
		t.Errorf("expected pool id %s, got %s", poolID, entry.ID)
	}

	if _, ok := c.Get(poolID.String()); ok {
		t.Error("pool must not be reachable by pool id")
	}
}

func TestPoolCache_FirstWriteWins(t *testing.T) {
	c := NewPoolCache()

	mint := solana.NewWallet().PublicKey()
	firstID := solana.NewWallet().PublicKey()
	secondID := solana.NewWallet().PublicKey()

	c.Save(firstID, &domain.LiquidityStateV4{BaseMint: mint})
	c.Save(secondID, &domain.LiquidityStateV4{BaseMint: mint})

	entry, _ := c.Get(mint.String())
	if !entry.ID.Equals(firstID) {
		t.Error("expected the first pool for the mint to be kept")
	}
}

func TestPoolCache_Has(t *testing.T) {
	c := NewPoolCache()

	mint := solana.NewWallet().PublicKey()
	if c.Has(mint.String()) {
		t.Error("expected empty cache to report miss")
	}

	c.Save(solana.NewWallet().PublicKey(), &domain.LiquidityStateV4{BaseMint: mint})
	if !c.Has(mint.String()) {
		t.Error("expected hit after save")
	}
}

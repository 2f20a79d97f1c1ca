package storage

import (
	"os"
	"testing"

	"sniper_go/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *Storage {
	dbName := "test.db"
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.AutoMigrate(&domain.BuyFill{}, &domain.SellFill{}, &domain.NotForSale{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	t.Cleanup(func() {
		os.Remove(dbName)
	})

	return &Storage{db: db}
}

func TestRecordBuyAndList(t *testing.T) {
	s := setupTestDB(t)

	// 1. Record
	if err := s.RecordBuy("MintA", "PoolA", "Sig1", 10_000_000); err != nil {
		t.Fatalf("RecordBuy failed: %v", err)
	}

	// 2. List
	fills, err := s.BuyFills()
	if err != nil {
		t.Fatalf("BuyFills failed: %v", err)
	}
	if len(fills) != 1 {
		t.Fatalf("expected 1 buy fill, got %d", len(fills))
	}
	if fills[0].MintAddress != "MintA" {
		t.Errorf("expected mint MintA, got %s", fills[0].MintAddress)
	}
	if fills[0].LamportsIn != 10_000_000 {
		t.Errorf("expected 10000000 lamports, got %d", fills[0].LamportsIn)
	}
}

func TestRecordBuyDuplicateSignature(t *testing.T) {
	s := setupTestDB(t)

	if err := s.RecordBuy("MintA", "PoolA", "SigDup", 1); err != nil {
		t.Fatalf("first RecordBuy failed: %v", err)
	}
	// Same tx hash must be rejected by the unique index.
	if err := s.RecordBuy("MintA", "PoolA", "SigDup", 1); err == nil {
		t.Error("expected duplicate tx hash to fail")
	}
}

func TestRecordSellAndList(t *testing.T) {
	s := setupTestDB(t)

	if err := s.RecordSell("MintB", "PoolB", "Sig2", 42); err != nil {
		t.Fatalf("RecordSell failed: %v", err)
	}

	fills, err := s.SellFills()
	if err != nil {
		t.Fatalf("SellFills failed: %v", err)
	}
	if len(fills) != 1 {
		t.Fatalf("expected 1 sell fill, got %d", len(fills))
	}
	if fills[0].AmountIn != 42 {
		t.Errorf("expected amount 42, got %d", fills[0].AmountIn)
	}
}

func TestNotForSaleLifecycle(t *testing.T) {
	s := setupTestDB(t)

	// 1. Add
	if err := s.AddNotForSale("MintC"); err != nil {
		t.Fatalf("AddNotForSale failed: %v", err)
	}

	// 2. Adding twice is not an error
	if err := s.AddNotForSale("MintC"); err != nil {
		t.Fatalf("duplicate AddNotForSale should be a no-op, got: %v", err)
	}

	listed, err := s.IsNotForSale("MintC")
	if err != nil {
		t.Fatalf("IsNotForSale failed: %v", err)
	}
	if !listed {
		t.Error("expected MintC to be listed")
	}

	mints, err := s.NotForSaleList()
	if err != nil {
		t.Fatalf("NotForSaleList failed: %v", err)
	}
	if len(mints) != 1 || mints[0] != "MintC" {
		t.Errorf("unexpected list: %v", mints)
	}

	// 3. Remove
	if err := s.RemoveNotForSale("MintC"); err != nil {
		t.Fatalf("RemoveNotForSale failed: %v", err)
	}
	listed, _ = s.IsNotForSale("MintC")
	if listed {
		t.Error("expected MintC to be unlisted")
	}
}

func TestIsNotForSaleUnknownMint(t *testing.T) {
	s := setupTestDB(t)

	listed, err := s.IsNotForSale("Unknown")
	if err != nil {
		t.Fatalf("IsNotForSale failed: %v", err)
	}
	if listed {
		t.Error("unknown mint must not be listed")
	}
}

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sniper_go/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage persists trade fills and the not-for-sale list.
type Storage struct {
	db *gorm.DB
}

// NewStorage opens (and migrates) the SQLite database at path. An empty
// path defaults to data/sniper.db next to the binary.
func NewStorage(path string) (*Storage, error) {
	if path == "" {
		path = filepath.Join("data", "sniper.db")
	}

	dbDir := filepath.Dir(path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Pure Go SQLite
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.BuyFill{}, &domain.SellFill{}, &domain.NotForSale{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// ======================================================================================
// Fill Operations
// ======================================================================================

// RecordBuy persists a confirmed buy fill.
func (s *Storage) RecordBuy(mint, pool, signature string, lamportsIn uint64) error {
	fill := domain.BuyFill{
		MintAddress: mint,
		PoolAddress: pool,
		TxHash:      signature,
		LamportsIn:  lamportsIn,
	}
	return s.db.Create(&fill).Error
}

// RecordSell persists a confirmed sell fill.
func (s *Storage) RecordSell(mint, pool, signature string, amountIn uint64) error {
	fill := domain.SellFill{
		MintAddress: mint,
		PoolAddress: pool,
		TxHash:      signature,
		AmountIn:    amountIn,
	}
	return s.db.Create(&fill).Error
}

// BuyFills returns all recorded buy fills.
func (s *Storage) BuyFills() ([]domain.BuyFill, error) {
	var fills []domain.BuyFill
	err := s.db.Find(&fills).Error
	return fills, err
}

// SellFills returns all recorded sell fills.
func (s *Storage) SellFills() ([]domain.SellFill, error) {
	var fills []domain.SellFill
	err := s.db.Find(&fills).Error
	return fills, err
}

// ======================================================================================
// Not-for-sale Operations
// ======================================================================================

// AddNotForSale marks a mint as untouchable by the sell path.
func (s *Storage) AddNotForSale(mint string) error {
	entry := domain.NotForSale{MintAddress: mint}
	err := s.db.Create(&entry).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil // already listed
	}
	return err
}

// RemoveNotForSale unlists a mint.
func (s *Storage) RemoveNotForSale(mint string) error {
	return s.db.Where("mint_address = ?", mint).Delete(&domain.NotForSale{}).Error
}

// NotForSaleList returns every listed mint.
func (s *Storage) NotForSaleList() ([]string, error) {
	var entries []domain.NotForSale
	if err := s.db.Find(&entries).Error; err != nil {
		return nil, err
	}
	mints := make([]string, 0, len(entries))
	for _, e := range entries {
		mints = append(mints, e.MintAddress)
	}
	return mints, nil
}

// IsNotForSale reports whether a mint is listed.
func (s *Storage) IsNotForSale(mint string) (bool, error) {
	var count int64
	err := s.db.Model(&domain.NotForSale{}).Where("mint_address = ?", mint).Count(&count).Error
	return count > 0, err
}

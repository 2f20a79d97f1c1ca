package domain

import (
	"time"
)

// BuyFill records a confirmed entry swap.
type BuyFill struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MintAddress string    `json:"mint_address" gorm:"index"`
	PoolAddress string    `json:"pool_address"`
	TxHash      string    `json:"tx_hash" gorm:"uniqueIndex"`
	LamportsIn  uint64    `json:"lamports_in"` // quote spent, in lamports
	CreatedAt   time.Time `json:"created_at"`
}

// SellFill records a confirmed exit swap.
type SellFill struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MintAddress string    `json:"mint_address" gorm:"index"`
	PoolAddress string    `json:"pool_address"`
	TxHash      string    `json:"tx_hash" gorm:"uniqueIndex"`
	AmountIn    uint64    `json:"amount_in"` // token sold, in raw base units
	CreatedAt   time.Time `json:"created_at"`
}

// NotForSale marks a mint the sell path must never touch.
type NotForSale struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MintAddress string    `json:"mint_address" gorm:"uniqueIndex"`
	CreatedAt   time.Time `json:"created_at"`
}

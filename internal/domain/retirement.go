package domain

import "time"

// CreditRetirement records a quantity of a credit retired against a wallet
type CreditRetirement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	WalletAddress string    `gorm:"size:64;index;not null" json:"walletAddress"`
	TokenID       string    `gorm:"size:128" json:"tokenId"`
	Quantity      string    `gorm:"not null" json:"quantity"`
	CreatedAt     time.Time `json:"createdAt"`
}

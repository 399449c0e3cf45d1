package domain

import "time"

// Wallet Model, keyed externally by its blockchain address
type Wallet struct {
	ID                uint               `gorm:"primaryKey" json:"id"`                        // Primary key
	Address           string             `gorm:"size:64;uniqueIndex;not null" json:"address"` // Blockchain address
	UserID            uint               `gorm:"index" json:"userId"`                         // Foreign key to User
	NFTs              []NFT              `gorm:"foreignKey:WalletAddress;references:Address" json:"nfts"`
	CreditRetirements []CreditRetirement `gorm:"foreignKey:WalletAddress;references:Address" json:"creditRetirement,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"` // Link time
}

package domain

import "time"

// Transaction Model, one row per completed marketplace sale; never updated
type Transaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                       // Primary key
	BuyerWallet  string    `gorm:"size:64;index;not null" json:"buyerWallet"`  // Buyer wallet address
	SellerWallet string    `gorm:"size:64;index;not null" json:"sellerWallet"` // Seller wallet address
	NFTID        uint      `gorm:"index;not null" json:"nftId"`                // Internal NFT id
	Price        *string   `json:"price"`                                      // Sale price, optional
	CreatedAt    time.Time `json:"createdAt"`                                  // Timestamp of creation
}

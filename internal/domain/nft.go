package domain

import "time"

// NFT is the cached database view of one tokenized carbon credit.
// TokenID is the on-chain identity; WalletAddress is a back-reference to
// Wallet.Address and may lag the chain until the next synchronization.
type NFT struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	TokenID        string     `gorm:"size:128;uniqueIndex;not null" json:"tokenId"`
	WalletAddress  *string    `gorm:"size:64;index" json:"walletAddress"`
	TypeofCredit   string     `json:"typeofCredit"`
	Quantity       string     `json:"quantity"`
	CertificateURI string     `json:"certificateURI"`
	ExpiryDate     *time.Time `json:"expiryDate"`
	Price          string     `json:"price"`
	IsAuction      bool       `gorm:"not null;default:false" json:"isAuction"`
	IsDirectSale   bool       `gorm:"not null;default:false" json:"isDirectSale"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Sale types accepted when setting an NFT status
const (
	SaleTypeDirectSell = "directSell"
	SaleTypeAuction    = "auction"
)

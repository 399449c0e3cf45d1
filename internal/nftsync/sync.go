// Package nftsync reconciles on-chain credit state into the NFT table.
//
// A sync pass is sequential and not transactional: each credit costs one
// rate read and one upsert, and rows upserted before a failure stay written.
// Running the pass again converges the table, so callers may simply retry.
package nftsync

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"carbon_market/internal/chain"
	"carbon_market/internal/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrInvalidArgument is returned for an empty wallet address.
	ErrInvalidArgument = errors.New("wallet address is required")
	// ErrSyncFailed wraps any contract or persistence failure during a pass.
	ErrSyncFailed = errors.New("failed to process NFTs")
)

// Synchronizer upserts NFT rows from the contract's view of a wallet.
type Synchronizer struct {
	db       *gorm.DB
	contract chain.CreditReader
}

// New returns a Synchronizer reading from contract and writing to db.
func New(db *gorm.DB, contract chain.CreditReader) *Synchronizer {
	return &Synchronizer{db: db, contract: contract}
}

// Sync refreshes every NFT the contract reports as owned by walletAddress and
// returns how many credits were processed.
func (s *Synchronizer) Sync(ctx context.Context, walletAddress string) (int, error) {
	if walletAddress == "" {
		return 0, ErrInvalidArgument
	}
	if !common.IsHexAddress(walletAddress) {
		return 0, fmt.Errorf("%w: %q is not an address", ErrInvalidArgument, walletAddress)
	}
	walletAddress = common.HexToAddress(walletAddress).Hex() // wallets are stored checksummed
	log := logrus.WithField("wallet_address", walletAddress)

	credits, err := s.contract.CreditsByOwner(ctx, walletAddress)
	if err != nil {
		log.WithError(err).Error("Error reading credits")
		return 0, fmt.Errorf("%w: %w", ErrSyncFailed, err)
	}

	for i, credit := range credits {
		if credit.Id == nil {
			return i, fmt.Errorf("%w: credit %d has no token id", ErrSyncFailed, i)
		}
		rate, err := s.contract.Rate(ctx, credit.Id)
		if err != nil {
			log.WithError(err).WithField("token_id", credit.Id.String()).Error("Error reading rate")
			return i, fmt.Errorf("%w: %w", ErrSyncFailed, err)
		}
		if err := s.upsert(ctx, walletAddress, credit, rate); err != nil {
			log.WithError(err).WithField("token_id", credit.Id.String()).Error("Error processing NFTs")
			return i, fmt.Errorf("%w: %w", ErrSyncFailed, err)
		}
	}

	log.WithField("credits", len(credits)).Info("NFTs updated successfully")
	return len(credits), nil
}

func (s *Synchronizer) upsert(ctx context.Context, walletAddress string, credit chain.Credit, rate *big.Int) error {
	db := s.db.WithContext(ctx)
	tokenID := credit.Id.String()

	expiresAt, err := expiry(credit.ExpiryDate)
	if err != nil {
		return err
	}
	var wallet domain.Wallet
	if err := db.Where("address = ?", walletAddress).First(&wallet).Error; err != nil {
		return fmt.Errorf("wallet %s: %w", walletAddress, err)
	}
	addr := wallet.Address

	var existing domain.NFT
	err = db.Where("token_id = ?", tokenID).First(&existing).Error
	switch {
	case err == nil:
		// map form so false flags and nil expiry are written too
		return db.Model(&existing).Updates(map[string]any{
			"wallet_address":  addr,
			"typeof_credit":   credit.Typeofcredit,
			"quantity":        bigString(credit.Quantity),
			"certificate_uri": credit.CertificateURI,
			"expiry_date":     expiresAt,
			"is_auction":      credit.Retired,
			"price":           bigString(rate),
		}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return db.Create(&domain.NFT{
			TokenID:        tokenID,
			WalletAddress:  &addr,
			TypeofCredit:   credit.Typeofcredit,
			Quantity:       bigString(credit.Quantity),
			CertificateURI: credit.CertificateURI,
			ExpiryDate:     expiresAt,
			IsAuction:      credit.Retired,
			Price:          bigString(rate),
		}).Error
	default:
		return err
	}
}

// bigString keeps full precision of uint256 values.
func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// expiry converts epoch seconds; zero means the credit never expires.
func expiry(v *big.Int) (*time.Time, error) {
	if v == nil || v.Sign() == 0 {
		return nil, nil
	}
	if !v.IsInt64() {
		return nil, fmt.Errorf("expiry date %s out of range", v.String())
	}
	t := time.Unix(v.Int64(), 0).UTC()
	return &t, nil
}

// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"carbon_market/internal/db"
	"carbon_market/internal/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a per-test in-memory sqlite database with the full schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a per-test in-memory database to avoid cross-test interference
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	g, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(g))
	sqlDB, err := g.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return g
}

// SeedWallet creates a user owning a wallet at address.
func SeedWallet(t *testing.T, g *gorm.DB, username, address string) (domain.User, domain.Wallet) {
	t.Helper()
	user := domain.User{Username: username, Password: "x"}
	require.NoError(t, g.Create(&user).Error)
	wallet := domain.Wallet{Address: address, UserID: user.ID}
	require.NoError(t, g.Create(&wallet).Error)
	return user, wallet
}

// SeedNFT stores an NFT owned by address.
func SeedNFT(t *testing.T, g *gorm.DB, tokenID, address, creditType string) domain.NFT {
	t.Helper()
	addr := address
	nft := domain.NFT{
		TokenID:        tokenID,
		WalletAddress:  &addr,
		TypeofCredit:   creditType,
		Quantity:       "10",
		CertificateURI: "ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
		Price:          "100",
	}
	require.NoError(t, g.Create(&nft).Error)
	return nft
}

package api

import (
	"errors"   // Sentinel errors
	"net/http" // HTTP status codes

	"carbon_market/internal/domain"     // Importing domain models
	"carbon_market/internal/middleware" // Authenticated user lookup
	"carbon_market/internal/nftsync"    // Chain to database sync

	"github.com/ethereum/go-ethereum/common" // Address validation
	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/redis/go-redis/v9"           // Redis client
	"github.com/sirupsen/logrus"             // Logging library
	"gorm.io/gorm"                           // GORM ORM library
)

var errWalletConflict = errors.New("wallet is linked to another user")

// WalletUpdateRequest carries the connected wallet; null means disconnected
type WalletUpdateRequest struct {
	WalletAddress *string `json:"wallet_address"` // Connected address or null
}

// WalletUpdateHandler links the connected wallet to the user and syncs its NFTs
func WalletUpdateHandler(db *gorm.DB, syncer *nftsync.Synchronizer, rdb *redis.Client, owner string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Resolved by the auth middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req WalletUpdateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		// Disconnect keeps the existing link; the wallet still owns its NFTs
		if req.WalletAddress == nil || *req.WalletAddress == "" {
			c.JSON(http.StatusOK, gin.H{"message": "Wallet disconnected"})
			return
		}
		if !common.IsHexAddress(*req.WalletAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid wallet address"})
			return
		}
		address := common.HexToAddress(*req.WalletAddress).Hex() // Checksummed form

		ctx := c.Request.Context()
		fields := logrus.Fields{"user_id": user.ID, "wallet_address": address}
		wallet, err := linkWallet(db.WithContext(ctx), user.ID, address)
		if errors.Is(err, errWalletConflict) {
			c.JSON(http.StatusConflict, gin.H{"message": "Wallet already linked to another account"})
			return
		}
		if err != nil {
			logrus.WithFields(fields).WithError(err).Error("Failed to link wallet")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update wallet"})
			return
		}

		processed, err := syncer.Sync(ctx, address) // Pull the wallet's credits from chain
		invalidateNFTCache(ctx, rdb, owner)         // Partial syncs still change rows
		if err != nil {
			logrus.WithFields(fields).WithError(err).Error("Wallet sync failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process NFTs."})
			return
		}
		logrus.WithFields(fields).WithField("credits", processed).Info("Wallet updated")
		c.JSON(http.StatusOK, gin.H{"message": "Wallet updated", "wallet": wallet, "synced": processed})
	}
}

// linkWallet returns the user's wallet at address, creating it if needed
func linkWallet(db *gorm.DB, userID uint, address string) (domain.Wallet, error) {
	var wallet domain.Wallet
	err := db.Where("address = ?", address).First(&wallet).Error
	switch {
	case err == nil:
		if wallet.UserID != userID {
			return wallet, errWalletConflict // Owned by someone else
		}
		return wallet, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		wallet = domain.Wallet{Address: address, UserID: userID} // First link of this address
		return wallet, db.Create(&wallet).Error
	default:
		return wallet, err
	}
}

// SyncRequest names the wallet to resynchronize
type SyncRequest struct {
	WalletAddress string `json:"walletAddress"` // Wallet to resync
}

// SyncWalletHandler runs a synchronization pass on demand
func SyncWalletHandler(syncer *nftsync.Synchronizer, rdb *redis.Client, owner string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SyncRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		if req.WalletAddress == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Wallet address is required."})
			return
		}
		if !common.IsHexAddress(req.WalletAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid wallet address"})
			return
		}
		address := common.HexToAddress(req.WalletAddress).Hex() // Checksummed form
		ctx := c.Request.Context()
		processed, err := syncer.Sync(ctx, address)
		invalidateNFTCache(ctx, rdb, owner)
		if err != nil {
			logrus.WithField("wallet_address", address).WithError(err).Error("Manual sync failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process NFTs."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "NFTs updated successfully.", "processed": processed})
	}
}

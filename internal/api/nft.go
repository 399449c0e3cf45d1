package api

import (
	"errors"   // Sentinel errors
	"net/http" // HTTP status codes

	"carbon_market/internal/domain"     // Importing domain models
	"carbon_market/internal/middleware" // Authenticated user lookup
	"carbon_market/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

var (
	errWalletNotFound = errors.New("wallet not found")
	errNFTNotFound    = errors.New("NFT not found")
)

// SaleRequest records a completed marketplace sale
type SaleRequest struct {
	BuyerID  string            `json:"buyerId" binding:"required"`  // Buyer wallet address
	SellerID string            `json:"sellerId" binding:"required"` // Seller wallet address
	NFTID    uint              `json:"nftId" binding:"required"`    // Internal NFT id
	Price    domain.FlexString `json:"price"`                       // Sale price, optional
}

// RecordSaleHandler moves an NFT from the seller's wallet to the buyer's and
// stores the Transaction row. Seller ownership is not checked against the chain.
func RecordSaleHandler(db *gorm.DB, rdb *redis.Client, owner string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SaleRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide all the required fields"})
			return
		}
		ctx := c.Request.Context()
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var buyer, seller domain.Wallet
			if err := tx.Where("address = ?", req.BuyerID).First(&buyer).Error; err != nil {
				return notFoundAs(err, errWalletNotFound)
			}
			if err := tx.Where("address = ?", req.SellerID).First(&seller).Error; err != nil {
				return notFoundAs(err, errWalletNotFound)
			}
			var nft domain.NFT // NFT being sold
			if err := tx.First(&nft, req.NFTID).Error; err != nil {
				return notFoundAs(err, errNFTNotFound)
			}
			// Disconnect from seller, a no-op when the seller no longer holds it
			if err := tx.Model(&domain.NFT{}).
				Where("id = ? AND wallet_address = ?", nft.ID, seller.Address).
				Update("wallet_address", nil).Error; err != nil {
				return err
			}
			// Connect to buyer
			if err := tx.Model(&domain.NFT{}).Where("id = ?", nft.ID).Update("wallet_address", buyer.Address).Error; err != nil {
				return err
			}
			// Record the sale
			record := domain.Transaction{
				BuyerWallet:  buyer.Address,   // Buyer wallet address
				SellerWallet: seller.Address,  // Seller wallet address
				NFTID:        nft.ID,          // Internal NFT id
				Price:        req.Price.Ptr(), // Optional sale price
			}
			return tx.Create(&record).Error
		})
		fields := logrus.Fields{
			"buyer":  req.BuyerID,  // Buyer wallet
			"seller": req.SellerID, // Seller wallet
			"nft_id": req.NFTID,    // Internal NFT id
		}
		switch {
		case errors.Is(err, errWalletNotFound), errors.Is(err, errNFTNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		case err != nil:
			logrus.WithFields(fields).WithError(err).Error("Sale transaction failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Transaction failed"})
			return
		}
		logrus.WithFields(fields).Info("Sale transaction")
		invalidateNFTCache(ctx, rdb, owner)
		c.JSON(http.StatusOK, gin.H{"message": "Transaction successful"})
	}
}

// GetOwnedNFTsHandler returns the authenticated user with wallets and their NFTs
func GetOwnedNFTsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, ok := middleware.CurrentUser(c) // Resolved by the auth middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user domain.User
		if err := db.WithContext(c.Request.Context()).Preload("Wallets.NFTs").First(&user, current.ID).Error; err != nil {
			logrus.WithField("user_id", current.ID).WithError(err).Error("Failed to fetch owned NFTs")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch NFTs"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GetNFTRequest names an NFT by its token id
type GetNFTRequest struct {
	NFTID domain.FlexString `json:"nftId"` // Token id, despite the field name
}

// GetNFTHandler looks an NFT up by token id; an unknown id yields null
func GetNFTHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GetNFTRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.NFTID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide an NFT id"})
			return
		}
		var nft domain.NFT
		err := db.WithContext(c.Request.Context()).Where("token_id = ?", req.NFTID.String()).First(&nft).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusOK, nil)
		case err != nil:
			logrus.WithField("token_id", req.NFTID).WithError(err).Error("Failed to fetch NFT")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch NFT"})
		default:
			c.JSON(http.StatusOK, nft)
		}
	}
}

// GetAllNFTsHandler returns every stored NFT
func GetAllNFTsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		listNFTs(c, db, rdb, cacheKeyAllNFTs, nil)
	}
}

// GetMarketplaceNFTsHandler returns the unsold inventory held by the platform wallet
func GetMarketplaceNFTsHandler(db *gorm.DB, rdb *redis.Client, owner string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if owner == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide an owner address"})
			return
		}
		listNFTs(c, db, rdb, marketplaceCacheKey(owner), func(q *gorm.DB) *gorm.DB {
			return q.Where("wallet_address = ?", owner)
		})
	}
}

// listNFTs serves a read-through cached NFT list
func listNFTs(c *gin.Context, db *gorm.DB, rdb *redis.Client, cacheKey string, scope func(*gorm.DB) *gorm.DB) {
	ctx := c.Request.Context()
	nfts := []domain.NFT{}
	found, err := utils.GetCache(ctx, rdb, cacheKey, &nfts) // Try to get from cache
	if err == nil && found {
		c.JSON(http.StatusOK, nfts)
		return
	}
	query := db.WithContext(ctx).Model(&domain.NFT{})
	if scope != nil {
		query = scope(query)
	}
	if err := query.Order("id").Find(&nfts).Error; err != nil {
		logrus.WithField("cache_key", cacheKey).WithError(err).Error("Failed to fetch NFTs")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch NFTs"})
		return
	}
	_ = utils.SetCache(ctx, rdb, cacheKey, nfts, cacheTTL) // Cache the list for 60 seconds
	c.JSON(http.StatusOK, nfts)
}

// notFoundAs maps gorm's not-found error onto a handler sentinel
func notFoundAs(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

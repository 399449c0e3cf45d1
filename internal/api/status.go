package api

import (
	"errors"   // Sentinel errors
	"net/http" // HTTP status codes

	"carbon_market/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// StatusResponse reports the sale mode flags of an NFT
type StatusResponse struct {
	IsDirectSale bool `json:"isDirectSale"` // Listed for direct sale
	IsAuction    bool `json:"isAuction"`    // Listed for auction
}

// GetNFTStatusHandler returns the sale flags for ?tokenId=
func GetNFTStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenID := c.Query("tokenId") // On-chain token id
		if tokenID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide an NFT id"})
			return
		}
		var nft domain.NFT
		err := db.WithContext(c.Request.Context()).
			Select("is_direct_sale", "is_auction"). // Only the flags are needed
			Where("token_id = ?", tokenID).
			First(&nft).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "NFT not found"}) // Unknown token id
		case err != nil:
			logrus.WithField("token_id", tokenID).WithError(err).Error("Failed to fetch NFT status")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch NFT status"})
		default:
			c.JSON(http.StatusOK, StatusResponse{IsDirectSale: nft.IsDirectSale, IsAuction: nft.IsAuction})
		}
	}
}

// SetStatusRequest selects the sale mode of an NFT
type SetStatusRequest struct {
	TokenID domain.FlexString `json:"tokenId" binding:"required"` // On-chain token id
	Type    string            `json:"type" binding:"required"`    // directSell or auction
}

// SaleFlags derives the two stored booleans from a sale type. Any value other
// than directSell or auction clears both.
func SaleFlags(saleType string) StatusResponse {
	return StatusResponse{
		IsDirectSale: saleType == domain.SaleTypeDirectSell,
		IsAuction:    saleType == domain.SaleTypeAuction,
	}
}

// SetNFTStatusHandler writes the sale flags and returns the updated NFT
func SetNFTStatusHandler(db *gorm.DB, rdb *redis.Client, owner string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SetStatusRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide all the required fields"})
			return
		}
		ctx := c.Request.Context()
		var nft domain.NFT
		// Look the NFT up first so an unknown id is a 404, not an empty update
		if err := db.WithContext(ctx).Where("token_id = ?", req.TokenID.String()).First(&nft).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "NFT not found"})
				return
			}
			logrus.WithField("token_id", req.TokenID).WithError(err).Error("Failed to fetch NFT")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update NFT status"})
			return
		}
		flags := SaleFlags(req.Type)
		// Map form so false values are written
		if err := db.WithContext(ctx).Model(&nft).Updates(map[string]any{
			"is_direct_sale": flags.IsDirectSale,
			"is_auction":     flags.IsAuction,
		}).Error; err != nil {
			logrus.WithField("token_id", req.TokenID).WithError(err).Error("Failed to update NFT status")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update NFT status"})
			return
		}
		nft.IsDirectSale, nft.IsAuction = flags.IsDirectSale, flags.IsAuction // Reflect the write
		logrus.WithFields(logrus.Fields{
			"token_id": nft.TokenID, // On-chain token id
			"type":     req.Type,    // Requested sale type
		}).Info("NFT status updated")
		invalidateNFTCache(ctx, rdb, owner) // Listings changed
		c.JSON(http.StatusOK, nft)
	}
}

package api

import (
	"math/big" // Exact sums of uint256 quantities
	"net/http" // HTTP status codes

	"carbon_market/internal/domain" // Importing domain models
	"carbon_market/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// RetirementSummary totals the retirements recorded against one wallet
type RetirementSummary struct {
	WalletAddress        string   `json:"walletAddress"`        // Wallet address
	TotalRetiredCount    int      `json:"totalRetiredCount"`    // Number of retirement records
	TotalQuantityRetired *big.Int `json:"totalQuantityRetired"` // Sum of retired quantities
}

// SummarizeRetirements aggregates per wallet. Quantities that are not integers
// are counted but not summed.
func SummarizeRetirements(wallets []domain.Wallet) []RetirementSummary {
	out := make([]RetirementSummary, 0, len(wallets))
	for _, w := range wallets {
		total := new(big.Int) // Running sum for this wallet
		for _, r := range w.CreditRetirements {
			q, ok := new(big.Int).SetString(r.Quantity, 10)
			if !ok {
				logrus.WithFields(logrus.Fields{
					"wallet_address": w.Address,  // Wallet address
					"retirement_id":  r.ID,       // Offending row
					"quantity":       r.Quantity, // Raw stored value
				}).Warn("Skipping unparsable retirement quantity")
				continue
			}
			total.Add(total, q)
		}
		out = append(out, RetirementSummary{
			WalletAddress:        w.Address,
			TotalRetiredCount:    len(w.CreditRetirements),
			TotalQuantityRetired: total,
		})
	}
	return out
}

// RetirementReportHandler returns retirement totals for every wallet
func RetirementReportHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached []RetirementSummary
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKeyRetirements, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		var wallets []domain.Wallet
		// Preload retirement records for every wallet
		if err := db.WithContext(ctx).Preload("CreditRetirements").Order("id").Find(&wallets).Error; err != nil {
			logrus.WithError(err).Error("Error fetching retired NFTs")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch retired NFTs"})
			return
		}
		report := SummarizeRetirements(wallets)
		_ = utils.SetCache(ctx, rdb, cacheKeyRetirements, report, cacheTTL) // Cache the response for future requests
		c.JSON(http.StatusOK, report)
	}
}

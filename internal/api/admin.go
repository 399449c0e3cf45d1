package api

import (
	"carbon_market/internal/domain" // Importing domain models
	"carbon_market/internal/utils"  // Utility functions
	"net/http"                      // HTTP status codes
	"strconv"                       // String conversion
	"strings"                       // String manipulation

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// Page is one page of an admin listing
type Page[T any] struct {
	Items      []T   `json:"items"`       // Items on this page
	Page       int   `json:"page"`        // Current page
	PageSize   int   `json:"page_size"`   // Page size
	Total      int64 `json:"total"`       // Total number of items
	TotalPages int   `json:"total_pages"` // Total pages
}

// pagination reads page and page_size, defaulting to 1 and 20 (max 100)
func pagination(c *gin.Context) (page, pageSize int) {
	page, pageSize = 1, 20 // Defaults
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size if valid
		}
	}
	return page, pageSize
}

// paginate counts and fetches one page of query into a Page
func paginate[T any](query *gorm.DB, page, pageSize int, order string, preloads ...string) (Page[T], error) {
	out := Page[T]{Items: []T{}, Page: page, PageSize: pageSize}
	if err := query.Session(&gorm.Session{}).Count(&out.Total).Error; err != nil {
		return out, err
	}
	offset := (page - 1) * pageSize // Calculate offset for pagination
	find := query.Session(&gorm.Session{})
	for _, p := range preloads {
		find = find.Preload(p)
	}
	if err := find.Order(order).Offset(offset).Limit(pageSize).Find(&out.Items).Error; err != nil {
		return out, err
	}
	out.TotalPages = (int(out.Total) + pageSize - 1) / pageSize // Calculate total pages
	return out, nil
}

// ListUsersHandler returns all users with their wallets
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page, pageSize := pagination(c)
		// Create a cache key based on pagination parameters
		cacheKey := "admin:users:page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
		var cached Page[domain.User]
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		query := db.WithContext(ctx).Model(&domain.User{})
		resp, err := paginate[domain.User](query, page, pageSize, "id", "Wallets") // Preload Wallet relation
		if err != nil {
			logrus.WithError(err).Error("Failed to fetch users")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch users"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, cacheTTL) // Cache the response for future requests
		c.JSON(http.StatusOK, resp)
	}
}

// ListTransactionsHandler returns recorded sales, optionally filtered by wallet, NFT or date
func ListTransactionsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page, pageSize := pagination(c)
		// Build cache key from all query params
		var keyParts []string
		for _, k := range []string{"wallet", "nft_id", "from", "to"} {
			keyParts = append(keyParts, k+"="+c.Query(k)) // Append key-value pair
		}
		keyParts = append(keyParts, "page="+strconv.Itoa(page), "size="+strconv.Itoa(pageSize))
		cacheKey := "admin:txs:" + strings.Join(keyParts, ":")
		var cached Page[domain.Transaction]
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		query := db.WithContext(ctx).Model(&domain.Transaction{}) // Start building the query
		if wallet := c.Query("wallet"); wallet != "" {
			query = query.Where("buyer_wallet = ? OR seller_wallet = ?", wallet, wallet) // Filter by wallet
		}
		if nftID := c.Query("nft_id"); nftID != "" {
			query = query.Where("nft_id = ?", nftID) // Filter by NFT
		}
		if from := c.Query("from"); from != "" {
			query = query.Where("created_at >= ?", from) // Filter by start date
		}
		if to := c.Query("to"); to != "" {
			query = query.Where("created_at <= ?", to) // Filter by end date
		}
		resp, err := paginate[domain.Transaction](query, page, pageSize, "created_at desc")
		if err != nil {
			logrus.WithError(err).Error("Failed to fetch transactions")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch transactions"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, cacheTTL)
		c.JSON(http.StatusOK, resp)
	}
}

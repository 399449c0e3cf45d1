package api

import (
	"context" // Request-scoped cache calls
	"time"    // Cache TTL

	"carbon_market/internal/utils" // Cache helpers

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

const (
	cacheTTL            = 60 * time.Second // Lifetime of cached listings
	cacheKeyAllNFTs     = "nft:all"        // GET /nft/getAllNFTs
	cacheKeyRetirements = "nft:retired"    // GET /nft/retired
)

func marketplaceCacheKey(owner string) string {
	return "nft:marketplace:" + owner
}

// invalidateNFTCache drops every cached listing after NFT rows change
func invalidateNFTCache(ctx context.Context, rdb *redis.Client, owner string) {
	if err := utils.DeleteCache(ctx, rdb, cacheKeyAllNFTs, marketplaceCacheKey(owner)); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate NFT cache")
	}
}

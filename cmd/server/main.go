package main

import (
	"context" // context package is needed for Redis and RPC calls

	"carbon_market/internal/api"     // Custom package for API handlers
	"carbon_market/internal/chain"   // Custom package for contract access
	"carbon_market/internal/config"  // Custom package for configuration
	"carbon_market/internal/db"      // Custom package for database setup
	"carbon_market/internal/nftsync" // Custom package for chain to database sync

	"github.com/ethereum/go-ethereum/common" // Address checksumming
	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/redis/go-redis/v9"           // Redis client
	"github.com/sirupsen/logrus"             // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Fail fast on missing collaborators
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()

	// Connect to the database and make sure the schema exists
	gdb, err := db.Open(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.AutoMigrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}

	// Setup Redis client, caching stays off without an address
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(ctx).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	} else {
		logrus.Warn("REDIS_ADDR not set, response caching disabled")
	}

	// Bind the carbon credit contract
	contract, err := chain.Dial(ctx, chain.Options{
		RPCURL:          cfg.RPCURL,
		ContractAddress: cfg.ContractAddress,
		PrivateKey:      cfg.PrivateKey,
		ABIPath:         cfg.ContractABIPath,
	})
	if err != nil {
		logrus.Fatalf("failed to bind contract: %v", err)
	}
	defer contract.Close()

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	api.RegisterRoutes(r, api.Deps{
		DB:                     gdb,
		Redis:                  redisClient,
		Contract:               contract,
		Syncer:                 nftsync.New(gdb, contract),
		JWTSecret:              cfg.JWTSecret,
		OwnerAddress:           common.HexToAddress(cfg.OwnerAddress).Hex(), // Stored addresses are checksummed
		SecureCookie:           cfg.IsProd,
		ReconcileAfterTransfer: cfg.ReconcileAfterTransfer,
	})

	logrus.WithField("port", cfg.AppPort).Info("Server running") // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {             // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}

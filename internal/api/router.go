package api

import (
	"carbon_market/internal/chain"      // Contract access
	"carbon_market/internal/middleware" // Auth middleware
	"carbon_market/internal/nftsync"    // Synchronization routine

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Deps holds the process-wide handles the handlers are built from
type Deps struct {
	DB                     *gorm.DB
	Redis                  *redis.Client // nil disables caching
	Contract               chain.Contract
	Syncer                 *nftsync.Synchronizer
	JWTSecret              string
	OwnerAddress           string // Platform holding wallet
	SecureCookie           bool
	ReconcileAfterTransfer bool
}

// RegisterRoutes mounts every endpoint on r
func RegisterRoutes(r *gin.Engine, d Deps) {
	auth := middleware.CookieAuthMiddleware(d.DB, d.JWTSecret)

	// Session and wallet routes
	user := r.Group("/user")
	user.POST("/signup", RegisterHandler(d.DB))
	user.POST("/login", LoginHandler(d.DB, d.JWTSecret, d.SecureCookie))
	user.POST("/logout", LogoutHandler(d.SecureCookie))
	user.PUT("/walletUpdate", auth, WalletUpdateHandler(d.DB, d.Syncer, d.Redis, d.OwnerAddress))

	// Public NFT reads
	nft := r.Group("/nft")
	nft.GET("/getAllNFTs", GetAllNFTsHandler(d.DB, d.Redis))
	nft.GET("/marketplace", GetMarketplaceNFTsHandler(d.DB, d.Redis, d.OwnerAddress))
	nft.POST("/getNFT", GetNFTHandler(d.DB))
	nft.GET("/status", GetNFTStatusHandler(d.DB))
	nft.GET("/retired", RetirementReportHandler(d.DB, d.Redis))

	// NFT routes (protected by the session cookie)
	protected := nft.Group("", auth)
	protected.GET("/owned", GetOwnedNFTsHandler(d.DB))
	protected.POST("/transaction", RecordSaleHandler(d.DB, d.Redis, d.OwnerAddress))
	protected.POST("/status", SetNFTStatusHandler(d.DB, d.Redis, d.OwnerAddress))
	protected.POST("/transfer", TransferNFTHandler(d.Contract, d.Syncer, d.Redis, d.OwnerAddress, d.ReconcileAfterTransfer))

	// Admin routes (protected, admin only)
	admin := r.Group("/admin", auth, middleware.AdminOnlyMiddleware())
	admin.GET("/users", ListUsersHandler(d.DB, d.Redis))
	admin.GET("/transactions", ListTransactionsHandler(d.DB, d.Redis))
	admin.POST("/nft/sync", SyncWalletHandler(d.Syncer, d.Redis, d.OwnerAddress))
}

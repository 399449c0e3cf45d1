package api

import (
	"math/big" // Token ids are uint256
	"net/http" // HTTP status codes

	"carbon_market/internal/chain"   // Contract access
	"carbon_market/internal/domain"  // Importing domain models
	"carbon_market/internal/nftsync" // Chain to database sync

	"github.com/ethereum/go-ethereum/common" // Address validation
	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/redis/go-redis/v9"           // Redis client
	"github.com/sirupsen/logrus"             // Logging library
)

const transferFailedMessage = "Failed to transfer NFT. Please check the input data and try again."

// TransferRequest moves a token on chain
type TransferRequest struct {
	From    string            `json:"from" binding:"required"`    // Current holder
	To      string            `json:"to" binding:"required"`      // Receiving wallet
	TokenID domain.FlexString `json:"tokenId" binding:"required"` // On-chain token id
}

// TransferNFTHandler sends safeTransferFrom and answers once the transaction is
// mined. Stored ownership is left alone unless reconcile is set, in which case
// the receiving wallet is synced afterwards.
func TransferNFTHandler(contract chain.Transferer, syncer *nftsync.Synchronizer, rdb *redis.Client, owner string, reconcile bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TransferRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide all the required fields"})
			return
		}
		if !common.IsHexAddress(req.From) || !common.IsHexAddress(req.To) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid wallet address"})
			return
		}
		from := common.HexToAddress(req.From).Hex() // Checksummed sender
		to := common.HexToAddress(req.To).Hex()     // Checksummed receiver
		tokenID, ok := new(big.Int).SetString(req.TokenID.String(), 10)
		if !ok || tokenID.Sign() < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid token id"})
			return
		}

		ctx := c.Request.Context()
		fields := logrus.Fields{"from": from, "to": to, "token_id": tokenID.String()}
		receipt, err := contract.SafeTransferFrom(ctx, from, to, tokenID) // Blocks until mined
		if err != nil {
			logrus.WithFields(fields).WithError(err).Error("Transfer Error")
			message := chain.RevertReason(err) // Contract's own message when present
			if message == "" {
				message = transferFailedMessage
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": message})
			return
		}
		logrus.WithFields(fields).WithField("tx_hash", receipt.TxHash.Hex()).Info("Token transferred")

		if reconcile && syncer != nil {
			// Best effort, the transfer itself already succeeded
			if _, err := syncer.Sync(ctx, to); err != nil {
				logrus.WithFields(fields).WithError(err).Warn("Post-transfer sync failed")
			}
			invalidateNFTCache(ctx, rdb, owner)
		}

		c.JSON(http.StatusOK, gin.H{
			"message":         "Token transferred successfully",
			"transactionHash": receipt.TxHash.Hex(), // Mined transaction hash
			"receipt":         receipt,              // Full confirmation receipt
		})
	}
}

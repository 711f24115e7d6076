package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes

	"simplebanking/internal/bank"
	"simplebanking/internal/middleware"
	"simplebanking/internal/utils" // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// TransferRequest names both legs explicitly: the destination account id
// and its expected owner must match, which rejects mismatched id pairs.
type TransferRequest struct {
	FromAccountID uint  `json:"fromAccountId"`
	ToAccountID   uint  `json:"toAccountId"`
	ToUserID      uint  `json:"toUserId"`
	Amount        int64 `json:"amount"`
}

// TransferHandler moves funds between two accounts of the same currency
func TransferHandler(svc *bank.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req TransferRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		err := svc.Transfer(c.Request.Context(), p, req.FromAccountID, req.ToAccountID, req.ToUserID, req.Amount)
		if err != nil {
			writeError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"from_user_id":    p.UserID,
			"from_account_id": req.FromAccountID,
			"to_account_id":   req.ToAccountID,
			"to_user_id":      req.ToUserID,
			"amount":          req.Amount,
			"type":            "transfer",
		}).Info("Transfer completed")
		if rdb != nil {
			_ = utils.DeleteCache(context.Background(), rdb,
				accountCacheKey(req.FromAccountID, p.UserID),
				accountCacheKey(req.ToAccountID, req.ToUserID),
				userListCacheKey)
		}
		c.JSON(http.StatusOK, gin.H{})
	}
}

package api

import (
	"context"  // Context for Redis operations
	"fmt"      // Cache key formatting
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"simplebanking/internal/bank"
	"simplebanking/internal/middleware"
	"simplebanking/internal/utils" // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// BalanceChangeRequest carries the amount for a deposit or withdrawal. The
// amount is deliberately unvalidated at the binding layer so the engine's
// own check produces the canonical message for zero and negative values.
type BalanceChangeRequest struct {
	Amount int64 `json:"amount"`
}

// accountCacheKey scopes cached snapshots to the requesting user, so a
// cache hit can never leak an account to a non-owner.
func accountCacheKey(accountID, userID uint) string {
	return fmt.Sprintf("account:%d:user:%d", accountID, userID)
}

func accountParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account id"})
		return 0, false
	}
	return uint(id), true
}

// GetAccountHandler returns the caller's snapshot of one account
func GetAccountHandler(svc *bank.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		accountID, ok := accountParam(c)
		if !ok {
			return
		}
		ctx := context.Background()
		cacheKey := accountCacheKey(accountID, p.UserID)
		if rdb != nil {
			var snap bank.AccountSnapshot
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &snap); err == nil && found {
				c.JSON(http.StatusOK, snap)
				return
			}
		}
		snap, err := svc.GetAccount(c.Request.Context(), p, accountID)
		if err != nil {
			writeError(c, err)
			return
		}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, snap, 60*time.Second)
		}
		c.JSON(http.StatusOK, snap)
	}
}

// DepositHandler adds funds to one of the caller's accounts
func DepositHandler(svc *bank.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		accountID, ok := accountParam(c)
		if !ok {
			return
		}
		var req BalanceChangeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		snap, err := svc.Deposit(c.Request.Context(), p, accountID, req.Amount)
		if err != nil {
			writeError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":    p.UserID,
			"account_id": accountID,
			"amount":     req.Amount,
			"type":       "deposit",
		}).Info("Balance changed")
		if rdb != nil {
			_ = utils.DeleteCache(context.Background(), rdb,
				accountCacheKey(accountID, p.UserID), userListCacheKey)
		}
		c.JSON(http.StatusOK, snap)
	}
}

// WithdrawHandler removes funds from one of the caller's accounts
func WithdrawHandler(svc *bank.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		accountID, ok := accountParam(c)
		if !ok {
			return
		}
		var req BalanceChangeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		snap, err := svc.Withdraw(c.Request.Context(), p, accountID, req.Amount)
		if err != nil {
			writeError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":    p.UserID,
			"account_id": accountID,
			"amount":     req.Amount,
			"type":       "withdraw",
		}).Info("Balance changed")
		if rdb != nil {
			_ = utils.DeleteCache(context.Background(), rdb,
				accountCacheKey(accountID, p.UserID), userListCacheKey)
		}
		c.JSON(http.StatusOK, snap)
	}
}

package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"time"     // Time durations

	"simplebanking/internal/bank"
	"simplebanking/internal/middleware"
	"simplebanking/internal/utils" // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"golang.org/x/crypto/bcrypt"   // Password hashing
)

const userListCacheKey = "users:list"

// CreateUserRequest carries the credentials for a new user
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// LoginRequest carries the credentials for a session
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued JWT token
type AuthResponse struct {
	Token string `json:"token"`
}

// UserResponse is the user view returned by the user endpoints
type UserResponse struct {
	ID       uint                   `json:"id"`
	Username string                 `json:"username"`
	Accounts []bank.AccountSnapshot `json:"accounts"`
}

// ProfileResponse is the view returned by /user/me
type ProfileResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// CreateUserHandler registers a new user with one zero-balance account per
// currency. Admin only; the route is additionally gated by middleware.
func CreateUserHandler(svc *bank.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(c, bank.Internal(err))
			return
		}
		user, err := svc.CreateUser(c.Request.Context(), p, req.Username, string(hash))
		if err != nil {
			writeError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"username": user.Username,
		}).Info("User created")
		if rdb != nil {
			_ = utils.DeleteCache(context.Background(), rdb, userListCacheKey)
		}
		accounts := make([]bank.AccountSnapshot, len(user.Accounts))
		for i, a := range user.Accounts {
			accounts[i] = bank.AccountSnapshot{ID: a.ID, Amount: a.Balance, Currency: a.Currency}
		}
		c.JSON(http.StatusOK, UserResponse{ID: user.ID, Username: user.Username, Accounts: accounts})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(svc *bank.Service, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := svc.FindUser(c.Request.Context(), req.Username)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		token, err := utils.GenerateJWT(user.ID, user.Role, jwtSecret)
		if err != nil {
			writeError(c, bank.Internal(err))
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}

// ListUsersHandler returns every user with account snapshots
func ListUsersHandler(svc *bank.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		if rdb != nil {
			var cached []UserResponse
			if found, err := utils.GetCache(ctx, rdb, userListCacheKey, &cached); err == nil && found {
				c.JSON(http.StatusOK, cached)
				return
			}
		}
		users, err := svc.Users(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		resp := make([]UserResponse, len(users))
		for i, u := range users {
			accounts := make([]bank.AccountSnapshot, len(u.Accounts))
			for j, a := range u.Accounts {
				accounts[j] = bank.AccountSnapshot{ID: a.ID, Amount: a.Balance, Currency: a.Currency}
			}
			resp[i] = UserResponse{ID: u.ID, Username: u.Username, Accounts: accounts}
		}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, userListCacheKey, resp, 60*time.Second)
		}
		c.JSON(http.StatusOK, resp)
	}
}

// MeHandler returns the authenticated user's profile. The service principal
// behind the admin key has no user identity and is rejected.
func MeHandler(svc *bank.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if p.Service {
			writeError(c, bank.ErrForbidden)
			return
		}
		user, err := svc.User(c.Request.Context(), p.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.JSON(http.StatusOK, ProfileResponse{ID: user.ID, Username: user.Username})
	}
}

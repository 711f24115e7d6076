package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"simplebanking/internal/bank"
	"simplebanking/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

const principalKey = "principal"

// AdminKeyHeader authenticates the bootstrap service principal, which may
// create users but has no user identity of its own.
const AdminKeyHeader = "X-SECURITY-ADMIN-KEY"

// AuthMiddleware resolves the request principal. The admin key header wins
// when present; otherwise a Bearer JWT is required and its user id and role
// claims become the principal.
func AuthMiddleware(secret, adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader(AdminKeyHeader); key != "" {
			if adminToken == "" || key != adminToken {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin key"})
				return
			}
			c.Set(principalKey, bank.Principal{Service: true})
			c.Next()
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseJWT(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(principalKey, bank.Principal{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by AuthMiddleware.
func PrincipalFrom(c *gin.Context) (bank.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return bank.Principal{}, false
	}
	p, ok := v.(bank.Principal)
	return p, ok
}

package middleware

import (
	"net/http" // HTTP status codes

	"simplebanking/internal/bank"
	"simplebanking/internal/domain"

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware lets the service principal through and re-checks a
// user principal's role against the store on each request, so a revoked
// admin loses access as soon as the row changes.
func AdminOnlyMiddleware(svc *bank.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if p.Service {
			c.Next()
			return
		}
		user, err := svc.User(c.Request.Context(), p.UserID)
		if err != nil || user.Role != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		// The store is authoritative for the role; refresh the principal in
		// case the token was issued before a role change.
		c.Set(principalKey, bank.Principal{UserID: p.UserID, Role: domain.RoleAdmin})
		c.Next()
	}
}

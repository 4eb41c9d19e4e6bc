package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmate/internal/authz"
)

// RequireRoles rejects requests whose principal holds none of the allowed
// roles.
func RequireRoles(allowed ...authz.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(PrincipalKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no principal in context"})
			return
		}
		principal, ok := v.(authz.Principal)
		if !ok || !principal.HasAnyRole(allowed...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

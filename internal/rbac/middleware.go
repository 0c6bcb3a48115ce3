package rbac

import (
	"net/http"

	"commerce-platform/internal/auth"
	"commerce-platform/internal/users"

	"github.com/gin-gonic/gin"
)

// RequireAnyRole allows the request through if the user resolved by the
// access token guard holds any of the provided roles. Routes without a
// RequireAnyRole in their chain are open to any authenticated caller.
func RequireAnyRole(allowed ...users.Role) gin.HandlerFunc {
	allowedSet := make(map[users.Role]struct{}, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		u, ok := auth.CurrentUser(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if _, ok := allowedSet[u.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

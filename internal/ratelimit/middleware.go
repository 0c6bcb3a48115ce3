package ratelimit

import (
	"net/http"

	"commerce-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Limit enforces the tier's fixed-window budget per client IP. It runs
// before guards and handlers, so a rejected request consumes no token
// verification, hashing or storage work.
//
// Store errors fail open: a broken counter backend must not take the API
// down with it.
func Limit(store Store, tier Tier) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := tier.Name + ":" + c.ClientIP()

		n, err := store.Incr(c.Request.Context(), key, tier.Window)
		if err != nil {
			logger.FromGin(c).Warn("rate limit store unavailable", "tier", tier.Name, "err", err)
			c.Next()
			return
		}
		if n > tier.Limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

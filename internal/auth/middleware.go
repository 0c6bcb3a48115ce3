package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"commerce-platform/internal/users"
	"commerce-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

func bearerToken(c *gin.Context) (string, bool) {
	raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
	if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
		return "", false
	}
	tok := strings.TrimSpace(strings.TrimPrefix(raw, bearerPrefix))
	return tok, tok != ""
}

// RequireAccessToken verifies a bearer access token and resolves it to the
// live user record, which it injects into the request context. The fresh
// lookup makes deletions and role changes take effect immediately instead of
// at token expiry. RBAC checks belong to internal/rbac.
func RequireAccessToken(m *Manager, repo users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := m.VerifyAccess(tok, time.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		u, err := repo.FindByID(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			logger.FromGin(c).Error("user lookup failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), u.Profile()))
		c.Next()
	}
}

// RequireRefreshToken verifies a bearer refresh token: signature and expiry
// first (no storage access on failure), then that the presented token matches
// the fingerprint stored for the claimed user. On success the resolved user
// is injected into the request context for the refresh handler.
func RequireRefreshToken(m *Manager, repo users.Repository, h Hasher) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "refresh token not provided"})
			return
		}

		claims, err := m.VerifyRefresh(tok, time.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		u, err := repo.FindByID(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
				return
			}
			logger.FromGin(c).Error("user lookup failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if u.RefreshTokenHash == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		if !h.VerifyToken(tok, u.RefreshTokenHash) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "refresh token does not match"})
			return
		}

		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), u.Profile()))
		c.Next()
	}
}

package httpapi

import (
	"errors"
	"net/http"

	"commerce-platform/internal/auth"
	"commerce-platform/internal/catalog"
	"commerce-platform/internal/users"
	"commerce-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Auth    *auth.Service
	Users   *users.Service
	Catalog *catalog.Service
}

// respondError maps domain errors to HTTP responses. Business-rule failures
// carry their own message; anything unexpected is logged and surfaced as a
// generic 500 body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, users.ErrEmailTaken),
		errors.Is(err, catalog.ErrSlugTaken):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrUnauthorized),
		errors.Is(err, users.ErrWrongPassword):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, users.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, users.ErrInvalidArgument),
		errors.Is(err, catalog.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.FromGin(c).Error("request failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// currentUser is a convenience wrapper for handlers behind the access or
// refresh guard.
func currentUser(c *gin.Context) (users.Profile, bool) {
	u, ok := auth.CurrentUser(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return users.Profile{}, false
	}
	return u, true
}

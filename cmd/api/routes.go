package main

import (
	"commerce-platform/internal/auth"
	"commerce-platform/internal/httpapi"
	"commerce-platform/internal/ratelimit"
	"commerce-platform/internal/rbac"
	"commerce-platform/internal/users"

	"github.com/gin-gonic/gin"
)

type apiDeps struct {
	Handlers httpapi.Handlers
	Tokens   *auth.Manager
	UserRepo users.Repository
	Limits   ratelimit.Store
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
//
// Rate limit tiers: auth routes are strict, mutations moderate, public
// catalog reads relaxed. Limiters run before the guards so rejected
// requests never reach token verification or storage.
func registerRoutes(r *gin.Engine, d apiDeps) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	requireAccess := auth.RequireAccessToken(d.Tokens, d.UserRepo)
	requireRefresh := auth.RequireRefreshToken(d.Tokens, d.UserRepo, auth.Hasher{})
	adminOnly := rbac.RequireAnyRole(users.RoleAdmin)

	v1 := r.Group("/v1")

	// AUTH routes
	authGroup := v1.Group("/auth")
	authGroup.Use(ratelimit.Limit(d.Limits, ratelimit.Strict))
	{
		authGroup.POST("/register", d.Handlers.Register)
		authGroup.POST("/login", d.Handlers.Login)
		authGroup.POST("/refresh", requireRefresh, d.Handlers.Refresh)
		authGroup.POST("/logout", requireAccess, d.Handlers.Logout)
	}

	// USERS routes
	usersGroup := v1.Group("/users")
	usersGroup.Use(ratelimit.Limit(d.Limits, ratelimit.Moderate), requireAccess)
	{
		usersGroup.GET("/me", d.Handlers.Me)
		usersGroup.PATCH("/me", d.Handlers.UpdateMe)
		usersGroup.PATCH("/me/password", d.Handlers.ChangePassword)
		usersGroup.DELETE("/me", d.Handlers.DeleteMe)

		// Admin user management
		admin := usersGroup.Group("")
		admin.Use(adminOnly)
		{
			admin.GET("", d.Handlers.ListUsers)
			admin.GET("/:id", d.Handlers.GetUser)
			admin.DELETE("/:id", d.Handlers.DeleteUser)
		}
	}

	// CATALOG routes: reads are public, writes are admin-only.
	relaxed := ratelimit.Limit(d.Limits, ratelimit.Relaxed)

	categories := v1.Group("/categories")
	{
		categories.GET("", relaxed, d.Handlers.ListCategories)
		categories.GET("/slug/:slug", relaxed, d.Handlers.GetCategoryBySlug)
		categories.GET("/:id", relaxed, d.Handlers.GetCategory)

		write := categories.Group("")
		write.Use(ratelimit.Limit(d.Limits, ratelimit.Moderate), requireAccess, adminOnly)
		{
			write.POST("", d.Handlers.CreateCategory)
			write.PUT("/:id", d.Handlers.UpdateCategory)
			write.DELETE("/:id", d.Handlers.DeleteCategory)
		}
	}

	products := v1.Group("/products")
	{
		products.GET("", relaxed, d.Handlers.ListProducts)
		products.GET("/:id", relaxed, d.Handlers.GetProduct)

		write := products.Group("")
		write.Use(ratelimit.Limit(d.Limits, ratelimit.Moderate), requireAccess, adminOnly)
		{
			write.POST("", d.Handlers.CreateProduct)
			write.PUT("/:id", d.Handlers.UpdateProduct)
			write.DELETE("/:id", d.Handlers.DeleteProduct)
		}
	}
}

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/middleware"
	"blog-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	// sitemap.xml lives at the site root for crawlers, and uploaded post
	// images are served from the upload directory.
	router.GET("/sitemap.xml", c.SitemapHandler.XML)
	router.Static("/uploads", c.Config.Blog.UploadDir)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupPostRoutes(v1, c)
		setupTagRoutes(v1, c)
		setupSitemapRoutes(v1, c)
	}

	return router
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.AuthHandler.Login)
		auth.POST("/logout", c.AuthHandler.Logout)
		auth.GET("/me",
			middleware.SessionAuth(c.AuthService, c.Config.Auth.CookieName),
			c.AuthHandler.Me)
	}
}

func setupPostRoutes(v1 *gin.RouterGroup, c *container.Container) {
	posts := v1.Group("/posts")
	{
		// Public reads
		posts.GET("", c.PostHandler.List)
		posts.GET("/:slug", c.PostHandler.GetBySlug)
		posts.GET("/by-id/:id", c.PostHandler.GetByID)

		// Admin-gated writes
		adminOnly := []gin.HandlerFunc{
			middleware.SessionAuth(c.AuthService, c.Config.Auth.CookieName),
			middleware.RequireAdmin(),
		}
		posts.POST("", append(adminOnly, c.PostHandler.Create)...)
		posts.POST("/draft", append(adminOnly, c.PostHandler.CreateDraft)...)
		posts.PUT("/:slug", append(adminOnly, c.PostHandler.Update)...)
		posts.PUT("/by-id/:id", append(adminOnly, c.PostHandler.UpdateByID)...)
		posts.POST("/by-id/:id/images", append(adminOnly, c.PostHandler.UploadImage)...)
		posts.DELETE("/:slug", append(adminOnly, c.PostHandler.Delete)...)
	}
}

func setupTagRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/tags", c.TagHandler.List)
}

func setupSitemapRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/sitemap/urls", c.SitemapHandler.URLs)
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.Store.HealthCheck(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"status":  "degraded",
				"error":   err.Error(),
			})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{
			"success": true,
			"status":  "ok",
			"version": c.Config.App.Version,
		})
	}
}

package handlers

import (
	"sniplink/internal/middleware"
	"sniplink/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics())

	if rateLimiter != nil {
		r.Use(h.RateLimitMiddleware(rateLimiter))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Management API. Identity arrives from the upstream auth layer.
	api := r.Group("/api/v1")
	api.Use(h.OwnerRequired())
	{
		api.POST("/links", h.CreateLink)
		api.PATCH("/links/:id", h.UpdateLink)
		api.DELETE("/links/:id", h.DeleteLink)
		api.GET("/links/:id/stats", h.LinkStats)
	}

	// Public redirect surface.
	r.GET("/", h.Root)
	r.GET("/:short_code", h.Redirect)
	r.GET("/:short_code/qr", h.LinkQR)

	return r
}

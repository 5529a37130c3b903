package handlers

import (
	"net/http"

	"sniplink/internal/services"

	"github.com/gin-gonic/gin"
)

// ownerKey is the context key the auth middleware fills for management
// endpoints.
const ownerKey = "owner_id"

// ownerHeader is set by the upstream auth proxy after it has verified the
// caller's session; this service only trusts and compares it. Auth itself
// is an external collaborator.
const ownerHeader = "X-Owner-Id"

func (h *Handler) OwnerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := c.GetHeader(ownerHeader)
		if owner == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(ownerKey, owner)
		c.Next()
	}
}

func (h *Handler) RateLimitMiddleware(limiter *services.IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := clientIP(c)
		l := limiter.GetLimiter(ip)
		if !l.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

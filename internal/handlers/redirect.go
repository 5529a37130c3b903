package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"sniplink/internal/middleware"
	"sniplink/internal/services"

	"github.com/gin-gonic/gin"
)

// Redirect serves GET /:short_code, the latency-critical path. Resolution
// failures are normal branches sent back to the app host as a 302 with a
// stable error reason; only an unreachable link store is a server error.
func (h *Handler) Redirect(c *gin.Context) {
	shortCode := c.Param("short_code")

	outcome, err := h.resolver.Resolve(c.Request.Context(), shortCode, requestMeta(c))
	if err != nil {
		h.logger.Error("Resolution failed", "short_code", shortCode, "error", err)
		middleware.RecordRedirect("error")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
		return
	}

	middleware.RecordRedirect(string(outcome.Status))

	switch outcome.Status {
	case services.StatusRedirect:
		c.Redirect(http.StatusFound, outcome.DestinationURL)
	case services.StatusReserved:
		c.Status(http.StatusNotFound)
	default:
		c.Redirect(http.StatusFound, h.fallbackURL(outcome.Status, shortCode))
	}
}

// Root redirects the bare domain to the main application.
func (h *Handler) Root(c *gin.Context) {
	c.Redirect(http.StatusFound, "https://"+h.cfg.AppHost)
}

func (h *Handler) fallbackURL(status services.ResolutionStatus, shortCode string) string {
	return fmt.Sprintf("https://%s/?error=%s&code=%s",
		h.cfg.AppHost, status, url.QueryEscape(shortCode))
}

// requestMeta captures the untrusted request context the click pipeline
// classifies later. Everything here may be absent or garbage.
func requestMeta(c *gin.Context) services.RequestMeta {
	return services.RequestMeta{
		UserAgent:   c.Request.UserAgent(),
		Referer:     c.Request.Referer(),
		RemoteIP:    clientIP(c),
		CountryHint: c.GetHeader("CF-IPCountry"),
	}
}

// clientIP prefers the edge-supplied header over whatever the proxy chain
// reports.
func clientIP(c *gin.Context) string {
	if ip := c.GetHeader("CF-Connecting-IP"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

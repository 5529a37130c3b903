package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LinkStats handles GET /api/v1/links/:id/stats?period=7d|30d|90d|all.
// Not on the redirect hot path; reads click events only.
func (h *Handler) LinkStats(c *gin.Context) {
	id := c.Param("id")
	if !h.requireOwnership(c, id) {
		return
	}

	stats, err := h.stats.LinkStats(c.Request.Context(), id, c.DefaultQuery("period", "7d"))
	if err != nil {
		h.logger.Error("Stats aggregation failed", "link_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

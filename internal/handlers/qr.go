package handlers

import (
	"net/http"
	"strconv"

	"sniplink/internal/services"

	"github.com/gin-gonic/gin"
)

// LinkQR handles GET /:short_code/qr. The QR encodes the public short URL,
// not the destination, so scanning still goes through click recording.
func (h *Handler) LinkQR(c *gin.Context) {
	shortCode := c.Param("short_code")

	// Existence check only: rendering a QR code is not a click.
	if _, err := h.shortener.LinkByShortCode(c.Request.Context(), shortCode); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "link not found"})
		return
	}

	size, _ := strconv.Atoi(c.DefaultQuery("size", "256"))
	opts := services.QROptions{
		Content: "https://" + c.Request.Host + "/" + shortCode,
		Size:    size,
		FgColor: c.Query("fg"),
		BgColor: c.Query("bg"),
	}

	if c.Query("format") == "svg" {
		svg, err := h.qr.SVG(opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render QR code"})
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
		return
	}

	img, err := h.qr.PNG(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

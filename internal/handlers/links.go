package handlers

import (
	"errors"
	"net/http"
	"time"

	"sniplink/internal/repository"
	"sniplink/internal/services"

	"github.com/gin-gonic/gin"
)

type CreateLinkRequest struct {
	DestinationURL string     `json:"destination_url" binding:"required"`
	CustomAlias    string     `json:"custom_alias,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	ClickLimit     *int       `json:"click_limit,omitempty"`
}

type UpdateLinkRequest struct {
	DestinationURL *string    `json:"destination_url,omitempty"`
	IsActive       *bool      `json:"is_active,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	ClearExpiry    bool       `json:"clear_expiry,omitempty"`
	ClickLimit     *int       `json:"click_limit,omitempty"`
}

// CreateLink handles POST /api/v1/links.
func (h *Handler) CreateLink(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.shortener.CreateLink(c.Request.Context(), services.CreateLinkInput{
		OwnerID:        c.GetString(ownerKey),
		DestinationURL: req.DestinationURL,
		CustomAlias:    req.CustomAlias,
		ExpiresAt:      req.ExpiresAt,
		ClickLimit:     req.ClickLimit,
	})
	if err != nil {
		if errors.Is(err, services.ErrAliasTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"link":      link,
		"short_url": c.Request.Host + "/" + link.ShortCode,
	})
}

// UpdateLink handles PATCH /api/v1/links/:id.
func (h *Handler) UpdateLink(c *gin.Context) {
	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	if !h.requireOwnership(c, id) {
		return
	}

	link, err := h.shortener.UpdateLink(c.Request.Context(), id, services.UpdateLinkInput{
		DestinationURL: req.DestinationURL,
		IsActive:       req.IsActive,
		ExpiresAt:      req.ExpiresAt,
		ClearExpiry:    req.ClearExpiry,
		ClickLimit:     req.ClickLimit,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"link": link})
}

// DeleteLink handles DELETE /api/v1/links/:id.
func (h *Handler) DeleteLink(c *gin.Context) {
	id := c.Param("id")
	if !h.requireOwnership(c, id) {
		return
	}

	if err := h.shortener.DeleteLink(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// requireOwnership loads the link and verifies the caller owns it, writing
// the error response itself when not. Identity was asserted upstream.
func (h *Handler) requireOwnership(c *gin.Context, id string) bool {
	_, err := h.shortener.LinkForOwner(c.Request.Context(), id, c.GetString(ownerKey))
	switch {
	case errors.Is(err, repository.ErrLinkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "link not found"})
		return false
	case errors.Is(err, services.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return false
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return false
	}
	return true
}

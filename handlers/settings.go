package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sushi-shop-api/models"
)

// GetSettings returns the site settings singleton for the admin form
func (h *Handler) GetSettings(c *gin.Context) {
	snapshot, err := h.Repo.GetSiteSnapshot(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// UpdateSettings persists the site settings singleton
func (h *Handler) UpdateSettings(c *gin.Context) {
	var site models.SiteSettings
	if err := c.ShouldBindJSON(&site); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.Repo.UpdateSiteSettings(c.Request.Context(), site, actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

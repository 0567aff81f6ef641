package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sushi-shop-api/models"
	"sushi-shop-api/repository"
)

// AdminListCategories returns all categories, inactive ones included on request
func (h *Handler) AdminListCategories(c *gin.Context) {
	includeInactive := c.Query("includeInactive") != "false"
	categories, err := h.Repo.ListCategories(c.Request.Context(), includeInactive)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(categories), "categories": categories})
}

// UpsertCategory creates or updates a category; duplicate codes are rejected
func (h *Handler) UpsertCategory(c *gin.Context) {
	var input models.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.Repo.UpsertCategory(c.Request.Context(), input, actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory removes a category unless products still reference it
func (h *Handler) DeleteCategory(c *gin.Context) {
	deleted, err := h.Repo.DeleteCategory(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// AdminGetProducts returns the catalog for the admin console, unavailable
// products included
func (h *Handler) AdminGetProducts(c *gin.Context) {
	query := repository.ProductQuery{
		Page:         intQuery(c, "page"),
		PageSize:     intQuery(c, "pageSize"),
		Search:       c.Query("search"),
		CategoryCode: c.Query("category"),
	}
	page, err := h.Repo.GetProducts(c.Request.Context(), query)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// AdminGetProduct loads one product for the edit form
func (h *Handler) AdminGetProduct(c *gin.Context) {
	product, err := h.Repo.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// UpsertProduct creates or updates a product; duplicate codes are rejected
func (h *Handler) UpsertProduct(c *gin.Context) {
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.Repo.UpsertProduct(c.Request.Context(), input, actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct removes a product by id
func (h *Handler) DeleteProduct(c *gin.Context) {
	deleted, err := h.Repo.DeleteProduct(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// ResetDemoData re-seeds the local dataset; the remote provider reports the
// capability as unsupported
func (h *Handler) ResetDemoData(c *gin.Context) {
	if err := h.Repo.ResetDemoData(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Demo data reset"})
}

// ProviderInfo reports which provider is active and whether a fallback happened
func (h *Handler) ProviderInfo(c *gin.Context) {
	info := gin.H{"mode": h.Repo.Mode()}
	if err := h.Repo.FallbackErr(); err != nil {
		info["fallback"] = err.Error()
	}
	c.JSON(http.StatusOK, info)
}

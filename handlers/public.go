package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sushi-shop-api/models"
	"sushi-shop-api/repository"
)

// GetSite returns the public site snapshot: settings, banners, theme
func (h *Handler) GetSite(c *gin.Context) {
	snapshot, err := h.Repo.GetSiteSnapshot(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// ListCategories returns active categories for the storefront
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.Repo.ListCategories(c.Request.Context(), false)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(categories), "categories": categories})
}

func intQuery(c *gin.Context, name string) int {
	value, _ := strconv.Atoi(c.Query(name))
	return value
}

// GetProducts returns the paginated catalog with category/search filters
func (h *Handler) GetProducts(c *gin.Context) {
	query := repository.ProductQuery{
		Page:          intQuery(c, "page"),
		PageSize:      intQuery(c, "pageSize"),
		Search:        c.Query("search"),
		CategoryCode:  c.Query("category"),
		OnlyAvailable: c.Query("onlyAvailable") == "true",
	}

	page, err := h.Repo.GetProducts(c.Request.Context(), query)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetProductByCode returns a single product for the product page
func (h *Handler) GetProductByCode(c *gin.Context) {
	product, err := h.Repo.GetProductByCode(c.Request.Context(), c.Param("code"))
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

// CreateOrder places a public order. The delivery address requirement is
// enforced here, not by the provider.
func (h *Handler) CreateOrder(c *gin.Context) {
	var input models.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order must contain at least one item"})
		return
	}
	if input.Method == models.MethodDelivery && input.Address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address is required for delivery orders"})
		return
	}

	order, err := h.Repo.CreateOrder(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed", "order": order})
}

// GetOrder returns a single order with its line items
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.Repo.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

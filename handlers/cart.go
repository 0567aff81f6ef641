package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"sushi-shop-api/models"
)

// GetCart returns the caller's cart lines with totals
func (h *Handler) GetCart(c *gin.Context) {
	store := h.cartStore(c)
	c.JSON(http.StatusOK, gin.H{
		"items": store.Items(),
		"count": store.Count(),
		"total": store.Total(),
	})
}

type CartAddRequest struct {
	ProductID string          `json:"productId" binding:"required"`
	Qty       int             `json:"qty"`
	Modifiers json.RawMessage `json:"modifiers"`
}

// AddToCart merges a product (with its modifier selection) into the cart
func (h *Handler) AddToCart(c *gin.Context) {
	var req CartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Qty == 0 {
		req.Qty = 1
	}

	product, err := h.Repo.GetProductByID(c.Request.Context(), req.ProductID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	store := h.cartStore(c)
	if err := store.Add(*product, req.Qty, req.Modifiers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": store.Items(), "count": store.Count(), "total": store.Total()})
}

type CartQtyRequest struct {
	Key string `json:"key" binding:"required"`
	Qty int    `json:"qty"`
}

// SetCartQty sets a line's quantity; zero removes the line
func (h *Handler) SetCartQty(c *gin.Context) {
	var req CartQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	store := h.cartStore(c)
	if err := store.SetQty(req.Key, req.Qty); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": store.Items(), "count": store.Count(), "total": store.Total()})
}

// RemoveFromCart drops a line entirely
func (h *Handler) RemoveFromCart(c *gin.Context) {
	store := h.cartStore(c)
	if err := store.Remove(c.Param("key")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": store.Items(), "count": store.Count(), "total": store.Total()})
}

// ClearCart empties the cart
func (h *Handler) ClearCart(c *gin.Context) {
	store := h.cartStore(c)
	if err := store.Clear(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": store.Items(), "count": 0, "total": 0})
}

type CheckoutRequest struct {
	CustomerName string             `json:"customerName" binding:"required"`
	Phone        string             `json:"phone" binding:"required"`
	Comment      string             `json:"comment"`
	Method       models.OrderMethod `json:"method"`
	Address      string             `json:"address"`
}

// Checkout copies the cart snapshot into an order and clears the cart only
// after the provider confirms creation.
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Method == models.MethodDelivery && req.Address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address is required for delivery orders"})
		return
	}

	store := h.cartStore(c)
	items := store.Snapshot()
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	order, err := h.Repo.CreateOrder(c.Request.Context(), models.OrderInput{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Comment:      req.Comment,
		Method:       req.Method,
		Address:      req.Address,
		Items:        items,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := store.Clear(); err != nil {
		// The order exists; a stale cart is recoverable by the client.
		c.JSON(http.StatusCreated, gin.H{"message": "Order placed", "order": order})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed", "order": order})
}

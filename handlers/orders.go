package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sushi-shop-api/models"
	"sushi-shop-api/repository"
)

// AdminListOrders returns orders newest-first with status/search filters
func (h *Handler) AdminListOrders(c *gin.Context) {
	query := repository.OrderQuery{
		Page:     intQuery(c, "page"),
		PageSize: intQuery(c, "pageSize"),
		Status:   models.OrderStatus(c.Query("status")),
		Search:   c.Query("search"),
	}
	page, err := h.Repo.ListOrders(c.Request.Context(), query)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

type OrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus sets a new status; the total is never recomputed
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status: " + string(req.Status)})
		return
	}

	order, err := h.Repo.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status, actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

type OrderPaymentRequest struct {
	IsPaid *bool `json:"isPaid" binding:"required"`
}

// UpdateOrderPayment toggles the paid flag
func (h *Handler) UpdateOrderPayment(c *gin.Context) {
	var req OrderPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Repo.UpdateOrderPayment(c.Request.Context(), c.Param("id"), *req.IsPaid, actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

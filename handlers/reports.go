package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"sushi-shop-api/repository"
)

func reportQuery(c *gin.Context) repository.ReportQuery {
	query := repository.ReportQuery{Period: c.DefaultQuery("period", repository.PeriodToday)}
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			query.From = &t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			query.To = &t
		}
	}
	return query
}

// GetSalesReport returns the aggregated report for a period
func (h *Handler) GetSalesReport(c *gin.Context) {
	report, err := h.Repo.GetSalesReport(c.Request.Context(), reportQuery(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportSalesReport streams the in-range orders as a CSV download
func (h *Handler) ExportSalesReport(c *gin.Context) {
	report, err := h.Repo.GetSalesReport(c.Request.Context(), reportQuery(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	filename := fmt.Sprintf("sales_%s.csv", report.Range.From.Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"number", "createdAt", "customerName", "phone", "status", "isPaid", "total"})
	for _, order := range report.Orders {
		_ = w.Write([]string{
			order.Number,
			order.CreatedAt.Format(time.RFC3339),
			order.CustomerName,
			order.Phone,
			string(order.Status),
			strconv.FormatBool(order.IsPaid),
			strconv.Itoa(order.Total),
		})
	}
	w.Flush()
}

// GetDashboardKpi returns today's dashboard numbers
func (h *Handler) GetDashboardKpi(c *gin.Context) {
	kpi, err := h.Repo.GetDashboardKpi(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, kpi)
}

// ListActionLogs returns the audit trail newest-first
func (h *Handler) ListActionLogs(c *gin.Context) {
	query := repository.LogQuery{
		Page:     intQuery(c, "page"),
		PageSize: intQuery(c, "pageSize"),
	}
	page, err := h.Repo.ListActionLogs(c.Request.Context(), query)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

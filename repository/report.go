package repository

import (
	"sort"
	"time"

	"sushi-shop-api/models"
)

const (
	PeriodToday  = "today"
	PeriodWeek   = "week"
	PeriodMonth  = "month"
	PeriodCustom = "custom"
)

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// PeriodRange resolves a period keyword to a concrete [from, to] range.
// week is a 7-day inclusive window ending today; month runs from the first of
// the current calendar month; custom bounds default to today when absent.
func PeriodRange(period string, customFrom, customTo *time.Time, now time.Time) (time.Time, time.Time) {
	switch period {
	case PeriodToday:
		return StartOfDay(now), EndOfDay(now)
	case PeriodWeek:
		return StartOfDay(now).AddDate(0, 0, -6), EndOfDay(now)
	case PeriodMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first, EndOfDay(now)
	}
	from := StartOfDay(now)
	if customFrom != nil {
		from = StartOfDay(*customFrom)
	}
	to := EndOfDay(now)
	if customTo != nil {
		to = EndOfDay(*customTo)
	}
	return from, to
}

// InRange reports whether an order's creation time falls in [from, to].
func InRange(order models.Order, from, to time.Time) bool {
	return !order.CreatedAt.Before(from) && !order.CreatedAt.After(to)
}

// IsSalesOrder reports whether an order counts toward revenue:
// not canceled and marked paid.
func IsSalesOrder(order models.Order) bool {
	return order.Status != models.StatusCanceled && order.IsPaid
}

// BuildSalesReport aggregates the given in-range orders: revenue and top
// items come from sales orders only, ordersTotal counts everything in range.
func BuildSalesReport(orders []models.Order, from, to time.Time) *models.SalesReport {
	var salesOrders []models.Order
	for _, order := range orders {
		if IsSalesOrder(order) {
			salesOrders = append(salesOrders, order)
		}
	}

	revenue := 0
	for _, order := range salesOrders {
		revenue += order.Total
	}

	sold := map[string]*models.TopItem{}
	var productIDs []string
	for _, order := range salesOrders {
		for _, item := range order.Items {
			row, ok := sold[item.ProductID]
			if !ok {
				row = &models.TopItem{ProductID: item.ProductID, Name: item.NameSnapshot}
				sold[item.ProductID] = row
				productIDs = append(productIDs, item.ProductID)
			}
			row.Qty += item.Qty
			row.Revenue += item.Qty * item.PriceAtOrderTime
		}
	}

	topItems := make([]models.TopItem, 0, len(productIDs))
	for _, id := range productIDs {
		topItems = append(topItems, *sold[id])
	}
	sort.SliceStable(topItems, func(i, j int) bool {
		return topItems[i].Qty > topItems[j].Qty
	})
	if len(topItems) > 20 {
		topItems = topItems[:20]
	}

	return &models.SalesReport{
		Range: models.ReportRange{From: from, To: to},
		Kpi: models.ReportKpi{
			OrdersTotal: len(orders),
			PaidOrders:  len(salesOrders),
			Revenue:     revenue,
		},
		TopItems: topItems,
		Orders:   orders,
	}
}

// BuildDashboardKpi reshapes a today-report: all in-range orders count toward
// newOrdersToday, only sales orders toward revenueToday.
func BuildDashboardKpi(report *models.SalesReport) *models.DashboardKpi {
	top := report.TopItems
	if len(top) > 5 {
		top = top[:5]
	}
	return &models.DashboardKpi{
		NewOrdersToday: report.Kpi.OrdersTotal,
		RevenueToday:   report.Kpi.Revenue,
		TopToday:       top,
	}
}

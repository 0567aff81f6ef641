package models

import "time"

type ReportRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type ReportKpi struct {
	OrdersTotal int `json:"ordersTotal"`
	PaidOrders  int `json:"paidOrders"`
	Revenue     int `json:"revenue"`
}

type TopItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	Revenue   int    `json:"revenue"`
}

type SalesReport struct {
	Range    ReportRange `json:"range"`
	Kpi      ReportKpi   `json:"kpi"`
	TopItems []TopItem   `json:"topItems"`
	// Orders echoes every in-range order for the recent-orders table.
	Orders []Order `json:"orders"`
}

// DashboardKpi counts every order placed today in NewOrdersToday while
// RevenueToday covers only paid, non-canceled orders. The asymmetry is
// intentional.
type DashboardKpi struct {
	NewOrdersToday int       `json:"newOrdersToday"`
	RevenueToday   int       `json:"revenueToday"`
	TopToday       []TopItem `json:"topToday"`
}

// Package repository owns all persisted storefront state. Two Provider
// implementations exist: a local JSON-blob store seeded from a bundled
// dataset, and a remote SQL database. Both must expose identical observable
// behavior; the shared filtering, pagination and report aggregation lives in
// paging.go and report.go so neither implementation drifts.
package repository

import (
	"context"
	"errors"
	"time"

	"sushi-shop-api/models"
)

var (
	// ErrNotFound is returned by update/delete operations on a missing id.
	// Plain lookups return nil instead.
	ErrNotFound = errors.New("record not found")
	// ErrConflict covers duplicate unique codes and blocked category deletes.
	ErrConflict = errors.New("conflict")
	// ErrAuth covers bad credentials and insufficient role.
	ErrAuth = errors.New("unauthorized")
	// ErrInit means the seed source was unreachable with no prior state.
	ErrInit = errors.New("initialization failed")
	// ErrUnsupported marks capabilities a provider does not implement.
	ErrUnsupported = errors.New("unsupported operation")
)

type ProductQuery struct {
	Page          int
	PageSize      int
	Search        string
	CategoryCode  string
	OnlyAvailable bool
}

type OrderQuery struct {
	Page     int
	PageSize int
	Status   models.OrderStatus
	Search   string
}

type LogQuery struct {
	Page     int
	PageSize int
}

type ReportQuery struct {
	Period string
	From   *time.Time
	To     *time.Time
}

// Provider is the capability set both backends satisfy.
type Provider interface {
	// Init is idempotent; the first call establishes or loads the store.
	Init(ctx context.Context) error

	GetSiteSnapshot(ctx context.Context) (*models.SiteSnapshot, error)
	UpdateSiteSettings(ctx context.Context, site models.SiteSettings, user string) (*models.SiteSnapshot, error)

	ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error)
	UpsertCategory(ctx context.Context, input models.CategoryInput, user string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id, user string) (bool, error)

	GetProducts(ctx context.Context, query ProductQuery) (*models.ProductPage, error)
	GetProductByCode(ctx context.Context, code string) (*models.Product, error)
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	UpsertProduct(ctx context.Context, input models.ProductInput, user string) (*models.Product, error)
	DeleteProduct(ctx context.Context, id, user string) (bool, error)

	CreateOrder(ctx context.Context, input models.OrderInput) (*models.Order, error)
	ListOrders(ctx context.Context, query OrderQuery) (*models.OrderPage, error)
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, user string) (*models.Order, error)
	UpdateOrderPayment(ctx context.Context, id string, isPaid bool, user string) (*models.Order, error)

	ListActionLogs(ctx context.Context, query LogQuery) (*models.ActionLogPage, error)
	GetSalesReport(ctx context.Context, query ReportQuery) (*models.SalesReport, error)
	GetDashboardKpi(ctx context.Context) (*models.DashboardKpi, error)

	LoginAdmin(ctx context.Context, login, password string) (*models.AdminSession, error)
	LogoutAdmin(ctx context.Context) error
	GetCurrentAdmin(ctx context.Context) (*models.AdminSession, error)

	ResetDemoData(ctx context.Context) error
}

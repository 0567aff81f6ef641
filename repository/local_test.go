package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"sushi-shop-api/models"
	"sushi-shop-api/storage"
)

func testSeed() *Seed {
	return &Seed{
		Site: models.SiteSettings{Brand: "King Kong Sushi", City: "Бишкек"},
		Banners: []models.Banner{
			{Title: "Скидка 20%"},
		},
		Theme: map[string]string{"primary": "#e53935"},
		Categories: []models.Category{
			{ID: "cat_rolls", Code: "rolls", Name: "Роллы", SortOrder: 1, IsActive: true},
			{ID: "cat_drinks", Code: "drinks", Name: "Напитки", SortOrder: 2, IsActive: true},
			{ID: "cat_archive", Code: "archive", Name: "Архив", SortOrder: 99, IsActive: false},
		},
		Products: []models.Product{
			{ID: "p1", Code: "philadelphia", Name: "Филадельфия", CategoryCode: "rolls", Price: 899, IsAvailable: true, SortOrder: 1},
			{ID: "p2", Code: "california", Name: "Калифорния", CategoryCode: "rolls", Price: 749, IsAvailable: true, SortOrder: 2},
			{ID: "p3", Code: "cola-05", Name: "Кола 0.5", CategoryCode: "drinks", Price: 120, IsAvailable: false, SortOrder: 1},
		},
	}
}

func newTestLocal(t *testing.T, store storage.Storage) *LocalProvider {
	t.Helper()
	p := NewLocalProvider(store, StaticSeed(testSeed()), LocalConfig{
		AdminLogin:    "admin",
		AdminPassword: "admin123",
		PageSize:      2,
		AdminPageSize: 2,
	})
	p.SetNow(func() time.Time { return time.Date(2024, 11, 15, 14, 30, 0, 0, time.UTC) })
	if err := p.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return p
}

func TestLocalInitSeedsData(t *testing.T) {
	ctx := context.Background()
	p := newTestLocal(t, storage.NewMemoryStorage())

	categories, err := p.ListCategories(ctx, false)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != 2 {
		t.Errorf("active categories = %d, want 2", len(categories))
	}

	all, _ := p.ListCategories(ctx, true)
	if len(all) != 3 {
		t.Errorf("all categories = %d, want 3", len(all))
	}

	snapshot, err := p.GetSiteSnapshot(ctx)
	if err != nil {
		t.Fatalf("GetSiteSnapshot: %v", err)
	}
	if snapshot.Site.Brand != "King Kong Sushi" {
		t.Errorf("brand = %q", snapshot.Site.Brand)
	}
	if len(snapshot.Banners) != 1 || snapshot.Theme["primary"] != "#e53935" {
		t.Error("banners/theme not seeded")
	}
}

func TestLocalProductPagination(t *testing.T) {
	ctx := context.Background()
	p := newTestLocal(t, storage.NewMemoryStorage())

	page, err := p.GetProducts(ctx, ProductQuery{Page: 1})
	if err != nil {
		t.Fatalf("GetProducts: %v", err)
	}
	if page.Pagination.Total != 3 || page.Pagination.TotalPages != 2 {
		t.Errorf("pagination = %+v, want total=3 totalPages=2", page.Pagination)
	}
	if len(page.Items) != 2 {
		t.Errorf("page 1 items = %d, want 2", len(page.Items))
	}

	// Asking far past the end lands on the last page, never an empty one.
	page, _ = p.GetProducts(ctx, ProductQuery{Page: 50})
	if page.Pagination.Page != 2 || len(page.Items) != 1 {
		t.Errorf("clamped page = %d with %d items, want page 2 with 1 item", page.Pagination.Page, len(page.Items))
	}

	page, _ = p.GetProducts(ctx, ProductQuery{OnlyAvailable: true, PageSize: 10})
	if len(page.Items) != 2 {
		t.Errorf("available products = %d, want 2", len(page.Items))
	}
}

func TestLocalUpsertProductConflict(t *testing.T) {
	ctx := context.Background()
	p := newTestLocal(t, storage.NewMemoryStorage())

	_, err := p.UpsertProduct(ctx, models.ProductInput{
		Code:         "philadelphia",
		Name:         "Дубликат",
		CategoryCode: "rolls",
	}, "admin")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	// A failed upsert must leave the store untouched.
	page, _ := p.GetProducts(ctx, ProductQuery{PageSize: 50})
	if page.Pagination.Total != 3 {
		t.Errorf("total after failed upsert = %d, want 3", page.Pagination.Total)
	}

	// Same code with the same id is an update, not a conflict.
	updated, err := p.UpsertProduct(ctx, models.ProductInput{
		ID:           "p1",
		Code:         "philadelphia",
		Name:         "Филадельфия Люкс",
		CategoryCode: "rolls",
		Price:        999,
	}, "admin")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Филадельфия Люкс" || updated.Price != 999 {
		t.Errorf("updated = %+v", updated)
	}

	got, _ := p.GetProductByCode(ctx, "philadelphia")
	if got == nil || got.Name != "Филадельфия Люкс" {
		t.Error("update not visible through GetProductByCode")
	}
}

func TestLocalUpsertProductDefaults(t *testing.T) {
	ctx := context.Background()
	p := newTestLocal(t, storage.NewMemoryStorage())

	created, err := p.UpsertProduct(ctx, models.ProductInput{
		Code:         "set-dragon",
		Name:         "Сет Дракон",
		CategoryCode: "rolls",
		ImageURL:     "/img/dragon.jpg",
	}, "admin")
	if err != nil {
		t.Fatalf("UpsertProduct: %v", err)
	}
	if created.ID == "" {
		t.Error("id must be generated")
	}
	if !created.IsAvailable {
		t.Error("isAvailable must default to true")
	}
	if created.SortOrder != 9999 {
		t.Errorf("sortOrder = %d, want 9999", created.SortOrder)
	}
	if len(created.Images) != 1 || created.Images[0] != "/img/dragon.jpg" {
		t.Errorf("images = %v, want fallback to imageUrl", created.Images)
	}
	if len(created.CategoryCodes) != 1 || created.CategoryCodes[0] != "rolls" {
		t.Errorf("categoryCodes = %v", created.CategoryCodes)
	}
}

func TestLocalDeleteCategory(t *testing.T) {
	ctx := context.Background()
	p := newTestLocal(t, storage.NewMemoryStorage())

	_, err := p.DeleteCategory(ctx, "cat_rolls", "admin")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("deleting a category with products: err = %v, want ErrConflict", err)
	}

	ok, err := p.DeleteCategory(ctx, "cat_archive", "admin")
	if err != nil || !ok {
		t.Fatalf("deleting an empty category: ok=%v err=%v", ok, err)
	}

	ok, err = p.DeleteCategory(ctx, "missing", "admin")
	if err != nil || ok {
		t.Fatalf("deleting a missing category: ok=%v err=%v, want false,nil", ok, err)
	}
}

func TestLocalCreateOrder(t *testing.T) {
	ctx := context.Background()
	p := newTestLocal(t, storage.NewMemoryStorage())

	order, err := p.CreateOrder(ctx, models.OrderInput{
		CustomerName: "  Иван  ",
		Phone:        "+7 (999) 000-11-22",
		Method:       models.MethodDelivery,
		Address:      "ул. Киевская 95",
		Items: []models.OrderItemInput{
			{ProductID: "p1", Qty: 2, Price: 899, Name: "Филадельфия"},
			{ProductID: "p3", Qty: 0, Price: 120, Name: "Кола 0.5"}, // qty floors to 1
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if order.Number != "TK23-1001" {
		t.Errorf("number = %q, want TK23-1001", order.Number)
	}
	if order.Status != models.StatusNew {
		t.Errorf("status = %q, want new", order.Status)
	}
	if want := 2*899 + 120; order.Total != want {
		t.Errorf("total = %d, want %d", order.Total, want)
	}
	if order.CustomerName != "Иван" {
		t.Errorf("customerName = %q, want trimmed", order.CustomerName)
	}
	if order.Phone != "+79990001122" {
		t.Errorf("phone = %q, want normalized", order.Phone)
	}

	second, _ := p.CreateOrder(ctx, models.OrderInput{
		CustomerName: "Мария",
		Phone:        "+79995553344",
		Items:        []models.OrderItemInput{{ProductID: "p2", Qty: 1, Price: 749}},
	})
	if second.Number != "TK23-1002" {
		t.Errorf("counter must advance: number = %q", second.Number)
	}
	if second.Method != models.MethodPickup {
		t.Errorf("method = %q, want pickup default", second.Method)
	}

	page, _ := p.ListOrders(ctx, OrderQuery{PageSize: 10})
	if len(page.Items) != 2 {
		t.Fatalf("orders = %d, want 2", len(page.Items))
	}
}

func TestLocalOrderStatusAndPayment(t *testing.T) {
	ctx := context.Background()
	p := newTestLocal(t, storage.NewMemoryStorage())

	order, _ := p.CreateOrder(ctx, models.OrderInput{
		CustomerName: "Иван",
		Phone:        "+79990001122",
		Items:        []models.OrderItemInput{{ProductID: "p1", Qty: 1, Price: 899, Name: "Филадельфия"}},
	})

	// Revenue appears only once the order is paid.
	report, _ := p.GetSalesReport(ctx, ReportQuery{Period: PeriodToday})
	if report.Kpi.Revenue != 0 || report.Kpi.OrdersTotal != 1 {
		t.Errorf("before payment: kpi = %+v", report.Kpi)
	}

	if _, err := p.UpdateOrderPayment(ctx, order.ID, true, "admin"); err != nil {
		t.Fatalf("UpdateOrderPayment: %v", err)
	}
	report, _ = p.GetSalesReport(ctx, ReportQuery{Period: PeriodToday})
	if report.Kpi.Revenue != 899 || report.Kpi.PaidOrders != 1 {
		t.Errorf("after payment: kpi = %+v", report.Kpi)
	}

	// Canceling removes the order from revenue but not from the order count.
	if _, err := p.UpdateOrderStatus(ctx, order.ID, models.StatusCanceled, "admin"); err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
	report, _ = p.GetSalesReport(ctx, ReportQuery{Period: PeriodToday})
	if report.Kpi.Revenue != 0 || report.Kpi.OrdersTotal != 1 {
		t.Errorf("after cancel: kpi = %+v", report.Kpi)
	}

	kpi, _ := p.GetDashboardKpi(ctx)
	if kpi.NewOrdersToday != 1 || kpi.RevenueToday != 0 {
		t.Errorf("dashboard = %+v", kpi)
	}

	if _, err := p.UpdateOrderStatus(ctx, "missing", models.StatusReady, "admin"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing order: err = %v, want ErrNotFound", err)
	}
}

func TestLocalReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()

	p := newTestLocal(t, store)
	order, _ := p.CreateOrder(ctx, models.OrderInput{
		CustomerName: "Иван",
		Phone:        "+79990001122",
		Items:        []models.OrderItemInput{{ProductID: "p1", Qty: 1, Price: 899}},
	})
	if _, err := p.UpsertProduct(ctx, models.ProductInput{
		Code: "custom", Name: "Свой товар", CategoryCode: "rolls",
	}, "admin"); err != nil {
		t.Fatalf("UpsertProduct: %v", err)
	}

	// A fresh provider over the same storage sees everything, and seed merge
	// never overwrites user-created data.
	reloaded := newTestLocal(t, store)
	got, err := reloaded.GetOrderByID(ctx, order.ID)
	if err != nil || got == nil {
		t.Fatalf("order lost after reload: %v", err)
	}
	if got.Number != order.Number || got.Total != order.Total {
		t.Errorf("reloaded order = %+v", got)
	}
	if prod, _ := reloaded.GetProductByCode(ctx, "custom"); prod == nil {
		t.Error("custom product lost after reload")
	}

	next, _ := reloaded.CreateOrder(ctx, models.OrderInput{
		CustomerName: "Мария",
		Phone:        "+79995553344",
		Items:        []models.OrderItemInput{{ProductID: "p2", Qty: 1, Price: 749}},
	})
	if next.Number != "TK23-1002" {
		t.Errorf("counter must survive reload: number = %q", next.Number)
	}
}

func TestLocalLoginLogout(t *testing.T) {
	ctx := context.Background()
	p := newTestLocal(t, storage.NewMemoryStorage())

	if _, err := p.LoginAdmin(ctx, "admin", "wrong"); !errors.Is(err, ErrAuth) {
		t.Fatalf("wrong password: err = %v, want ErrAuth", err)
	}

	session, err := p.LoginAdmin(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("LoginAdmin: %v", err)
	}
	if session.Role != models.RoleAdmin || session.Login != "admin" {
		t.Errorf("session = %+v", session)
	}

	current, _ := p.GetCurrentAdmin(ctx)
	if current == nil || current.Login != "admin" {
		t.Error("session must persist after login")
	}

	if err := p.LogoutAdmin(ctx); err != nil {
		t.Fatalf("LogoutAdmin: %v", err)
	}
	if current, _ := p.GetCurrentAdmin(ctx); current != nil {
		t.Error("session must be gone after logout")
	}
}

func TestLocalActionLogs(t *testing.T) {
	ctx := context.Background()
	p := newTestLocal(t, storage.NewMemoryStorage())

	for i := 0; i < 3; i++ {
		if _, err := p.UpsertProduct(ctx, models.ProductInput{
			Code: fmt.Sprintf("extra-%d", i), Name: "Товар", CategoryCode: "rolls",
		}, "manager"); err != nil {
			t.Fatalf("UpsertProduct: %v", err)
		}
	}

	page, err := p.ListActionLogs(ctx, LogQuery{PageSize: 2})
	if err != nil {
		t.Fatalf("ListActionLogs: %v", err)
	}
	if page.Pagination.Total != 3 || page.Pagination.TotalPages != 2 {
		t.Errorf("pagination = %+v", page.Pagination)
	}
	if len(page.Items) != 2 {
		t.Fatalf("page items = %d, want 2", len(page.Items))
	}
	// Newest first.
	if page.Items[0].EntityID == page.Items[1].EntityID {
		t.Error("log entries must be distinct")
	}
	first := page.Items[0]
	if first.Action != models.ActionProductCreate || first.User != "manager" {
		t.Errorf("log entry = %+v", first)
	}
}

func TestLocalResetDemoData(t *testing.T) {
	ctx := context.Background()
	p := newTestLocal(t, storage.NewMemoryStorage())

	if _, err := p.UpsertProduct(ctx, models.ProductInput{
		Code: "custom", Name: "Свой товар", CategoryCode: "rolls",
	}, "admin"); err != nil {
		t.Fatalf("UpsertProduct: %v", err)
	}
	if _, err := p.CreateOrder(ctx, models.OrderInput{
		CustomerName: "Иван", Phone: "+79990001122",
		Items: []models.OrderItemInput{{ProductID: "p1", Qty: 1, Price: 899}},
	}); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if err := p.ResetDemoData(ctx); err != nil {
		t.Fatalf("ResetDemoData: %v", err)
	}

	if prod, _ := p.GetProductByCode(ctx, "custom"); prod != nil {
		t.Error("custom product must be gone after reset")
	}
	page, _ := p.ListOrders(ctx, OrderQuery{PageSize: 10})
	if len(page.Items) != 0 {
		t.Errorf("orders after reset = %d, want 0", len(page.Items))
	}
	products, _ := p.GetProducts(ctx, ProductQuery{PageSize: 50})
	if products.Pagination.Total != 3 {
		t.Errorf("seed products after reset = %d, want 3", products.Pagination.Total)
	}
}

func TestLocalUpdateSiteSettings(t *testing.T) {
	ctx := context.Background()
	p := newTestLocal(t, storage.NewMemoryStorage())

	snapshot, err := p.UpdateSiteSettings(ctx, models.SiteSettings{Brand: "Новый бренд", Phone: "+70000000000"}, "admin")
	if err != nil {
		t.Fatalf("UpdateSiteSettings: %v", err)
	}
	if snapshot.Site.Brand != "Новый бренд" {
		t.Errorf("brand = %q", snapshot.Site.Brand)
	}
	// Banners and theme survive a settings update.
	if len(snapshot.Banners) != 1 {
		t.Error("banners must survive a settings update")
	}

	logs, _ := p.ListActionLogs(ctx, LogQuery{PageSize: 5})
	if len(logs.Items) == 0 || logs.Items[0].Action != models.ActionSettingsUpdate {
		t.Error("settings update must be logged")
	}
}

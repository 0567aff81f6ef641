package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sushi-shop-api/models"
)

type RemoteConfig struct {
	Driver        string // "mysql" or "sqlite"
	DSN           string
	PageSize      int
	AdminPageSize int
}

// RemoteProvider keeps all state in a relational database. Domain fields map
// to snake_case columns (categoryCode ↔ category_code) for interoperability
// with existing remote data.
type RemoteProvider struct {
	cfg     RemoteConfig
	db      *gorm.DB
	nowFunc func() time.Time

	sessionMu sync.Mutex
	session   *models.AdminSession
}

func NewRemoteProvider(cfg RemoteConfig) *RemoteProvider {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 18
	}
	if cfg.AdminPageSize <= 0 {
		cfg.AdminPageSize = 20
	}
	return &RemoteProvider{cfg: cfg, nowFunc: time.Now}
}

// SetNow overrides the clock; used by tests.
func (p *RemoteProvider) SetNow(now func() time.Time) {
	p.nowFunc = now
}

func (p *RemoteProvider) Init(ctx context.Context) error {
	if p.db != nil {
		return nil
	}

	var dialector gorm.Dialector
	switch p.cfg.Driver {
	case "mysql":
		dialector = mysql.Open(p.cfg.DSN)
	case "sqlite", "":
		dialector = sqlite.Open(p.cfg.DSN)
	default:
		return fmt.Errorf("unknown db driver %q", p.cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.ActionLog{},
		&models.Profile{},
		&models.Setting{},
	); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	p.db = db
	return nil
}

func (p *RemoteProvider) GetSiteSnapshot(ctx context.Context) (*models.SiteSnapshot, error) {
	var rows []models.Setting
	if err := p.db.WithContext(ctx).Where("`key` IN ?", []string{"site", "banners", "theme"}).Find(&rows).Error; err != nil {
		return nil, err
	}

	snapshot := &models.SiteSnapshot{Banners: []models.Banner{}, Theme: map[string]string{}}
	for _, row := range rows {
		switch row.Key {
		case "site":
			_ = json.Unmarshal(row.Value, &snapshot.Site)
		case "banners":
			_ = json.Unmarshal(row.Value, &snapshot.Banners)
		case "theme":
			_ = json.Unmarshal(row.Value, &snapshot.Theme)
		}
	}
	return snapshot, nil
}

func (p *RemoteProvider) UpdateSiteSettings(ctx context.Context, site models.SiteSettings, user string) (*models.SiteSnapshot, error) {
	value, err := json.Marshal(site)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	if err := p.db.WithContext(ctx).Save(&models.Setting{Key: "site", Value: value}).Error; err != nil {
		return nil, err
	}
	if err := p.addActionLog(ctx, models.ActionSettingsUpdate, "settings", "site", user, map[string]any{"brand": site.Brand}); err != nil {
		return nil, err
	}
	return p.GetSiteSnapshot(ctx)
}

func (p *RemoteProvider) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	query := p.db.WithContext(ctx).Order("sort_order asc, name asc")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (p *RemoteProvider) UpsertCategory(ctx context.Context, input models.CategoryInput, user string) (*models.Category, error) {
	now := p.nowFunc()
	payload := categoryFromInput(input, now)

	var conflict models.Category
	err := p.db.WithContext(ctx).Where("code = ? AND id <> ?", payload.Code, payload.ID).First(&conflict).Error
	if err == nil {
		return nil, fmt.Errorf("%w: категория с таким кодом уже существует", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var existing models.Category
	err = p.db.WithContext(ctx).Where("id = ?", payload.ID).First(&existing).Error
	if err == nil {
		payload.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := p.db.WithContext(ctx).Save(&payload).Error; err != nil {
		return nil, err
	}
	if err := p.addActionLog(ctx, models.ActionCategoryUpsert, "category", payload.ID, user, map[string]any{"code": payload.Code}); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (p *RemoteProvider) DeleteCategory(ctx context.Context, id, user string) (bool, error) {
	var category models.Category
	err := p.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// The reference check runs before the delete is applied.
	var count int64
	if err := p.db.WithContext(ctx).Model(&models.Product{}).Where("category_code = ?", category.Code).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, fmt.Errorf("%w: нельзя удалить категорию, пока в ней есть товары", ErrConflict)
	}

	if err := p.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error; err != nil {
		return false, err
	}
	if err := p.addActionLog(ctx, models.ActionCategoryDelete, "category", id, user, map[string]any{"code": category.Code}); err != nil {
		return false, err
	}
	return true, nil
}

func (p *RemoteProvider) GetProducts(ctx context.Context, query ProductQuery) (*models.ProductPage, error) {
	if query.PageSize <= 0 {
		query.PageSize = p.cfg.PageSize
	}

	build := func() *gorm.DB {
		q := p.db.WithContext(ctx).Model(&models.Product{})
		if query.CategoryCode != "" {
			q = q.Where("category_code = ?", query.CategoryCode)
		}
		if query.OnlyAvailable {
			q = q.Where("is_available = ?", true)
		}
		if search := query.Search; search != "" {
			pattern := "%" + search + "%"
			q = q.Where("name LIKE ? OR description LIKE ? OR code LIKE ?", pattern, pattern, pattern)
		}
		return q
	}

	var total int64
	if err := build().Count(&total).Error; err != nil {
		return nil, err
	}

	start, _, pagination := Paginate(int(total), query.Page, query.PageSize)
	var items []models.Product
	if err := build().Order("sort_order asc, name asc").Offset(start).Limit(query.PageSize).Find(&items).Error; err != nil {
		return nil, err
	}
	return &models.ProductPage{Items: items, Pagination: pagination}, nil
}

func (p *RemoteProvider) GetProductByCode(ctx context.Context, code string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).Where("code = ?", code).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *RemoteProvider) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *RemoteProvider) UpsertProduct(ctx context.Context, input models.ProductInput, user string) (*models.Product, error) {
	now := p.nowFunc()
	payload := productFromInput(input, now)
	if payload.ID == "" {
		payload.ID = NewID("prd")
	}

	// Validation before any write so a failed upsert leaves the store as-is.
	var conflict models.Product
	err := p.db.WithContext(ctx).Where("code = ? AND id <> ?", payload.Code, payload.ID).First(&conflict).Error
	if err == nil {
		return nil, fmt.Errorf("%w: товар с таким кодом уже существует", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var existing models.Product
	err = p.db.WithContext(ctx).Where("id = ?", payload.ID).First(&existing).Error
	if err == nil {
		payload.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := p.db.WithContext(ctx).Save(&payload).Error; err != nil {
		return nil, err
	}
	if err := p.addActionLog(ctx, models.ActionProductUpsert, "product", payload.ID, user, map[string]any{"code": payload.Code}); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (p *RemoteProvider) DeleteProduct(ctx context.Context, id, user string) (bool, error) {
	result := p.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	if err := p.addActionLog(ctx, models.ActionProductDelete, "product", id, user, map[string]any{}); err != nil {
		return false, err
	}
	return true, nil
}

// CreateOrder runs as three independent writes (order row, item rows, total
// update) with no transaction. A failure partway can leave a partial order;
// accepted risk, kept for parity with the existing remote schema usage.
func (p *RemoteProvider) CreateOrder(ctx context.Context, input models.OrderInput) (*models.Order, error) {
	now := p.nowFunc()
	millis := fmt.Sprintf("%d", now.UnixMilli())
	number := "KG-" + millis[len(millis)-7:]

	order := orderFromInput(input, NewID("ord"), number, now)
	items := order.Items
	total := order.Total
	order.Items = nil
	order.Total = 0

	if err := p.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := p.db.WithContext(ctx).Create(&items).Error; err != nil {
			return nil, err
		}
	}
	if err := p.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID).
		Updates(map[string]any{"total": total, "updated_at": p.nowFunc()}).Error; err != nil {
		return nil, err
	}

	order.Total = total
	order.Items = items
	return &order, nil
}

func (p *RemoteProvider) ListOrders(ctx context.Context, query OrderQuery) (*models.OrderPage, error) {
	if query.PageSize <= 0 {
		query.PageSize = p.cfg.AdminPageSize
	}

	build := func() *gorm.DB {
		q := p.db.WithContext(ctx).Model(&models.Order{})
		if query.Status != "" {
			q = q.Where("status = ?", query.Status)
		}
		if search := query.Search; search != "" {
			pattern := "%" + search + "%"
			q = q.Where("number LIKE ? OR customer_name LIKE ? OR phone LIKE ?", pattern, pattern, pattern)
		}
		return q
	}

	var total int64
	if err := build().Count(&total).Error; err != nil {
		return nil, err
	}

	start, _, pagination := Paginate(int(total), query.Page, query.PageSize)
	var items []models.Order
	if err := build().Preload("Items").Order("created_at desc").Offset(start).Limit(query.PageSize).Find(&items).Error; err != nil {
		return nil, err
	}
	return &models.OrderPage{Items: items, Pagination: pagination}, nil
}

func (p *RemoteProvider) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := p.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (p *RemoteProvider) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, user string) (*models.Order, error) {
	order, err := p.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: заказ не найден", ErrNotFound)
	}

	if err := p.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": p.nowFunc()}).Error; err != nil {
		return nil, err
	}
	if err := p.addActionLog(ctx, models.ActionOrderStatusUpdate, "order", id, user, map[string]any{"status": string(status)}); err != nil {
		return nil, err
	}
	return p.GetOrderByID(ctx, id)
}

func (p *RemoteProvider) UpdateOrderPayment(ctx context.Context, id string, isPaid bool, user string) (*models.Order, error) {
	order, err := p.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: заказ не найден", ErrNotFound)
	}

	if err := p.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]any{"is_paid": isPaid, "updated_at": p.nowFunc()}).Error; err != nil {
		return nil, err
	}
	if err := p.addActionLog(ctx, models.ActionOrderPaymentUpdate, "order", id, user, map[string]any{"isPaid": isPaid}); err != nil {
		return nil, err
	}
	return p.GetOrderByID(ctx, id)
}

func (p *RemoteProvider) addActionLog(ctx context.Context, action, entityType, entityID, user string, details map[string]any) error {
	if user == "" {
		user = "admin"
	}
	entry := models.ActionLog{
		ID:         NewID("log"),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		User:       user,
		Details:    logDetails(details),
		CreatedAt:  p.nowFunc(),
	}
	return p.db.WithContext(ctx).Create(&entry).Error
}

func (p *RemoteProvider) ListActionLogs(ctx context.Context, query LogQuery) (*models.ActionLogPage, error) {
	if query.PageSize <= 0 {
		query.PageSize = p.cfg.AdminPageSize
	}

	var total int64
	if err := p.db.WithContext(ctx).Model(&models.ActionLog{}).Count(&total).Error; err != nil {
		return nil, err
	}

	start, _, pagination := Paginate(int(total), query.Page, query.PageSize)
	var items []models.ActionLog
	if err := p.db.WithContext(ctx).Order("created_at desc").Offset(start).Limit(query.PageSize).Find(&items).Error; err != nil {
		return nil, err
	}
	return &models.ActionLogPage{Items: items, Pagination: pagination}, nil
}

func (p *RemoteProvider) GetSalesReport(ctx context.Context, query ReportQuery) (*models.SalesReport, error) {
	from, to := PeriodRange(query.Period, query.From, query.To, p.nowFunc())

	orders := []models.Order{}
	if err := p.db.WithContext(ctx).Preload("Items").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return BuildSalesReport(orders, from, to), nil
}

func (p *RemoteProvider) GetDashboardKpi(ctx context.Context) (*models.DashboardKpi, error) {
	report, err := p.GetSalesReport(ctx, ReportQuery{Period: PeriodToday})
	if err != nil {
		return nil, err
	}
	return BuildDashboardKpi(report), nil
}

func (p *RemoteProvider) LoginAdmin(ctx context.Context, login, password string) (*models.AdminSession, error) {
	var profile models.Profile
	err := p.db.WithContext(ctx).Where("login = ?", login).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: неверный логин или пароль", ErrAuth)
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: неверный логин или пароль", ErrAuth)
	}

	// The role gate is a separate profile lookup concern: authenticated but
	// non-admin principals are rejected.
	if profile.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: недостаточно прав", ErrAuth)
	}

	session := models.AdminSession{
		ID:        profile.ID,
		Role:      profile.Role,
		Name:      profile.Name,
		Login:     profile.Login,
		CreatedAt: p.nowFunc(),
	}
	p.sessionMu.Lock()
	p.session = &session
	p.sessionMu.Unlock()
	return &session, nil
}

func (p *RemoteProvider) LogoutAdmin(ctx context.Context) error {
	p.sessionMu.Lock()
	p.session = nil
	p.sessionMu.Unlock()
	return nil
}

func (p *RemoteProvider) GetCurrentAdmin(ctx context.Context) (*models.AdminSession, error) {
	p.sessionMu.Lock()
	defer p.sessionMu.Unlock()
	if p.session == nil {
		return nil, nil
	}
	session := *p.session
	return &session, nil
}

// ResetDemoData is a local-only capability.
func (p *RemoteProvider) ResetDemoData(ctx context.Context) error {
	return fmt.Errorf("%w: reset is only available in local mode", ErrUnsupported)
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"sushi-shop-api/models"
	"sushi-shop-api/storage"
)

// localDatabase is the single blob persisted under storage.KeyDB.
type localDatabase struct {
	Meta       localMeta          `json:"meta"`
	Users      []models.AdminUser `json:"users"`
	Categories []models.Category  `json:"categories"`
	Products   []models.Product   `json:"products"`
	Orders     []models.Order     `json:"orders"`
	ActionLogs []models.ActionLog `json:"actionLogs"`
}

type localMeta struct {
	Version      int                 `json:"version"`
	OrderCounter int                 `json:"orderCounter"`
	Site         models.SiteSettings `json:"site"`
	Banners      []models.Banner     `json:"banners"`
	Theme        map[string]string   `json:"theme"`
	GeneratedAt  *time.Time          `json:"generatedAt"`
}

type LocalConfig struct {
	AdminLogin    string
	AdminPassword string
	PageSize      int
	AdminPageSize int
}

// LocalProvider keeps the whole dataset in memory and rewrites the blob
// synchronously after every mutation, so a read following a write always
// observes it.
type LocalProvider struct {
	mu      sync.Mutex
	store   storage.Storage
	seed    SeedSource
	cfg     LocalConfig
	nowFunc func() time.Time
	db      *localDatabase
}

func NewLocalProvider(store storage.Storage, seed SeedSource, cfg LocalConfig) *LocalProvider {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 18
	}
	if cfg.AdminPageSize <= 0 {
		cfg.AdminPageSize = 20
	}
	return &LocalProvider{
		store:   store,
		seed:    seed,
		cfg:     cfg,
		nowFunc: time.Now,
	}
}

// SetNow overrides the clock; used by tests.
func (p *LocalProvider) SetNow(now func() time.Time) {
	p.nowFunc = now
}

func (p *LocalProvider) Init(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initLocked(ctx)
}

func (p *LocalProvider) initLocked(ctx context.Context) error {
	if p.db != nil {
		return nil
	}

	if raw, ok := p.store.Get(storage.KeyDB); ok {
		var db localDatabase
		if err := json.Unmarshal(raw, &db); err == nil {
			p.db = &db
			// Newly shipped seed content fills gaps in existing state but
			// never overwrites user-created data.
			if seed, err := p.seed(ctx); err == nil {
				p.mergeWithSeed(seed)
			} else {
				p.ensureAdminUser()
			}
			return p.save()
		}
	}

	seed, err := p.seed(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInit, err)
	}
	p.db = p.defaultDatabase(seed)
	return p.save()
}

func (p *LocalProvider) defaultDatabase(seed *Seed) *localDatabase {
	now := p.nowFunc()
	categories := SortCategories(seed.Categories)
	for i := range categories {
		if categories[i].ID == "" {
			categories[i].ID = categories[i].Code
		}
		if categories[i].SortOrder == 0 {
			categories[i].SortOrder = 9999
		}
		categories[i].CreatedAt = now
		categories[i].UpdatedAt = now
	}

	products := SortProducts(seed.Products)
	for i := range products {
		if products[i].ID == "" {
			products[i].ID = products[i].Code
		}
		if products[i].ID == "" {
			products[i].ID = NewID("prd")
		}
		if products[i].Code == "" {
			products[i].Code = NewID("code")
		}
		if products[i].CategoryCode == "" && len(categories) > 0 {
			products[i].CategoryCode = categories[0].Code
		}
		if len(products[i].CategoryCodes) == 0 {
			products[i].CategoryCodes = []string{products[i].CategoryCode}
		}
		if products[i].SortOrder == 0 {
			products[i].SortOrder = i + 1
		}
		products[i].CreatedAt = now
		products[i].UpdatedAt = now
	}

	return &localDatabase{
		Meta: localMeta{
			Version:      1,
			OrderCounter: 1000,
			Site:         seed.Site,
			Banners:      seed.Banners,
			Theme:        seed.Theme,
			GeneratedAt:  seed.GeneratedAt,
		},
		Users: []models.AdminUser{{
			ID:       "local-admin",
			Role:     models.RoleAdmin,
			Login:    p.cfg.AdminLogin,
			Password: p.cfg.AdminPassword,
			Name:     "Администратор",
		}},
		Categories: categories,
		Products:   products,
		Orders:     []models.Order{},
		ActionLogs: []models.ActionLog{},
	}
}

func (p *LocalProvider) mergeWithSeed(seed *Seed) {
	fallback := p.defaultDatabase(seed)

	if p.db.Meta.Version == 0 {
		p.db.Meta = fallback.Meta
	} else {
		if p.db.Meta.Site == (models.SiteSettings{}) {
			p.db.Meta.Site = fallback.Meta.Site
		}
		if p.db.Meta.Banners == nil {
			p.db.Meta.Banners = fallback.Meta.Banners
		}
		if p.db.Meta.Theme == nil {
			p.db.Meta.Theme = fallback.Meta.Theme
		}
	}

	if len(p.db.Categories) == 0 {
		p.db.Categories = fallback.Categories
	}
	if len(p.db.Products) == 0 {
		p.db.Products = fallback.Products
	}
	if p.db.Orders == nil {
		p.db.Orders = []models.Order{}
	}
	if p.db.ActionLogs == nil {
		p.db.ActionLogs = []models.ActionLog{}
	}

	p.ensureAdminUser()
}

// ensureAdminUser reconciles the built-in admin with the configured
// credentials, keeping any additional users intact.
func (p *LocalProvider) ensureAdminUser() {
	for i := range p.db.Users {
		if p.db.Users[i].ID == "local-admin" {
			p.db.Users[i].Role = models.RoleAdmin
			p.db.Users[i].Login = p.cfg.AdminLogin
			p.db.Users[i].Password = p.cfg.AdminPassword
			if p.db.Users[i].Name == "" {
				p.db.Users[i].Name = "Администратор"
			}
			return
		}
	}
	p.db.Users = append([]models.AdminUser{{
		ID:       "local-admin",
		Role:     models.RoleAdmin,
		Login:    p.cfg.AdminLogin,
		Password: p.cfg.AdminPassword,
		Name:     "Администратор",
	}}, p.db.Users...)
}

func (p *LocalProvider) save() error {
	data, err := json.Marshal(p.db)
	if err != nil {
		return fmt.Errorf("marshal local db: %w", err)
	}
	return p.store.Set(storage.KeyDB, data)
}

func (p *LocalProvider) GetSiteSnapshot(ctx context.Context) (*models.SiteSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &models.SiteSnapshot{
		Site:        p.db.Meta.Site,
		Banners:     p.db.Meta.Banners,
		Theme:       p.db.Meta.Theme,
		GeneratedAt: p.db.Meta.GeneratedAt,
	}, nil
}

func (p *LocalProvider) UpdateSiteSettings(ctx context.Context, site models.SiteSettings, user string) (*models.SiteSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.db.Meta.Site = site
	p.logAction(models.ActionSettingsUpdate, "settings", "site", user, map[string]any{"brand": site.Brand})
	if err := p.save(); err != nil {
		return nil, err
	}
	return &models.SiteSnapshot{
		Site:        p.db.Meta.Site,
		Banners:     p.db.Meta.Banners,
		Theme:       p.db.Meta.Theme,
		GeneratedAt: p.db.Meta.GeneratedAt,
	}, nil
}

func (p *LocalProvider) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Category, 0, len(p.db.Categories))
	for _, category := range SortCategories(p.db.Categories) {
		if includeInactive || category.IsActive {
			out = append(out, category)
		}
	}
	return out, nil
}

func (p *LocalProvider) UpsertCategory(ctx context.Context, input models.CategoryInput, user string) (*models.Category, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.nowFunc()
	payload := categoryFromInput(input, now)

	for _, existing := range p.db.Categories {
		if existing.Code == payload.Code && existing.ID != payload.ID {
			return nil, fmt.Errorf("%w: категория с таким кодом уже существует", ErrConflict)
		}
	}

	for i, existing := range p.db.Categories {
		if existing.ID == payload.ID || existing.Code == payload.Code {
			payload.CreatedAt = existing.CreatedAt
			p.db.Categories[i] = payload
			p.logAction(models.ActionCategoryUpdate, "category", payload.ID, user, map[string]any{"code": payload.Code})
			if err := p.save(); err != nil {
				return nil, err
			}
			return &payload, nil
		}
	}

	p.db.Categories = append(p.db.Categories, payload)
	p.logAction(models.ActionCategoryCreate, "category", payload.ID, user, map[string]any{"code": payload.Code})
	if err := p.save(); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (p *LocalProvider) DeleteCategory(ctx context.Context, id, user string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	index := -1
	for i, category := range p.db.Categories {
		if category.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return false, nil
	}

	code := p.db.Categories[index].Code
	for _, product := range p.db.Products {
		if product.CategoryCode == code {
			return false, fmt.Errorf("%w: нельзя удалить категорию, пока в ней есть товары", ErrConflict)
		}
	}

	p.db.Categories = append(p.db.Categories[:index], p.db.Categories[index+1:]...)
	p.logAction(models.ActionCategoryDelete, "category", id, user, map[string]any{"code": code})
	if err := p.save(); err != nil {
		return false, err
	}
	return true, nil
}

func (p *LocalProvider) GetProducts(ctx context.Context, query ProductQuery) (*models.ProductPage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if query.PageSize <= 0 {
		query.PageSize = p.cfg.PageSize
	}
	items := FilterProducts(SortProducts(p.db.Products), query)
	start, end, pagination := Paginate(len(items), query.Page, query.PageSize)
	page := make([]models.Product, end-start)
	copy(page, items[start:end])
	return &models.ProductPage{Items: page, Pagination: pagination}, nil
}

func (p *LocalProvider) GetProductByCode(ctx context.Context, code string) (*models.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, product := range p.db.Products {
		if product.Code == code {
			out := product
			return &out, nil
		}
	}
	return nil, nil
}

func (p *LocalProvider) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, product := range p.db.Products {
		if product.ID == id {
			out := product
			return &out, nil
		}
	}
	return nil, nil
}

func (p *LocalProvider) UpsertProduct(ctx context.Context, input models.ProductInput, user string) (*models.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.nowFunc()
	payload := productFromInput(input, now)
	if payload.ID == "" {
		payload.ID = NewID("prd")
	}

	// Validation before any write: a failed upsert must leave the store
	// untouched.
	for _, existing := range p.db.Products {
		if existing.Code == payload.Code && existing.ID != payload.ID {
			return nil, fmt.Errorf("%w: товар с таким кодом уже существует", ErrConflict)
		}
	}

	for i, existing := range p.db.Products {
		if existing.ID == payload.ID {
			payload.CreatedAt = existing.CreatedAt
			p.db.Products[i] = payload
			p.logAction(models.ActionProductUpdate, "product", payload.ID, user, map[string]any{"code": payload.Code})
			if err := p.save(); err != nil {
				return nil, err
			}
			return &payload, nil
		}
	}

	p.db.Products = append(p.db.Products, payload)
	p.logAction(models.ActionProductCreate, "product", payload.ID, user, map[string]any{"code": payload.Code})
	if err := p.save(); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (p *LocalProvider) DeleteProduct(ctx context.Context, id, user string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, product := range p.db.Products {
		if product.ID == id {
			p.db.Products = append(p.db.Products[:i], p.db.Products[i+1:]...)
			p.logAction(models.ActionProductDelete, "product", id, user, map[string]any{"code": product.Code})
			if err := p.save(); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func (p *LocalProvider) CreateOrder(ctx context.Context, input models.OrderInput) (*models.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.db.Meta.OrderCounter++
	number := fmt.Sprintf("TK23-%d", p.db.Meta.OrderCounter)
	order := orderFromInput(input, NewID("ord"), number, p.nowFunc())

	p.db.Orders = append([]models.Order{order}, p.db.Orders...)
	if err := p.save(); err != nil {
		return nil, err
	}
	return &order, nil
}

func (p *LocalProvider) ListOrders(ctx context.Context, query OrderQuery) (*models.OrderPage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if query.PageSize <= 0 {
		query.PageSize = p.cfg.AdminPageSize
	}

	items := make([]models.Order, len(p.db.Orders))
	copy(items, p.db.Orders)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	items = FilterOrders(items, query)

	start, end, pagination := Paginate(len(items), query.Page, query.PageSize)
	page := make([]models.Order, end-start)
	copy(page, items[start:end])
	return &models.OrderPage{Items: page, Pagination: pagination}, nil
}

func (p *LocalProvider) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, order := range p.db.Orders {
		if order.ID == id {
			out := order
			return &out, nil
		}
	}
	return nil, nil
}

func (p *LocalProvider) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, user string) (*models.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.db.Orders {
		if p.db.Orders[i].ID == id {
			p.db.Orders[i].Status = status
			p.db.Orders[i].UpdatedAt = p.nowFunc()
			p.logAction(models.ActionOrderStatusUpdate, "order", id, user, map[string]any{"status": string(status)})
			if err := p.save(); err != nil {
				return nil, err
			}
			out := p.db.Orders[i]
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: заказ не найден", ErrNotFound)
}

func (p *LocalProvider) UpdateOrderPayment(ctx context.Context, id string, isPaid bool, user string) (*models.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.db.Orders {
		if p.db.Orders[i].ID == id {
			p.db.Orders[i].IsPaid = isPaid
			p.db.Orders[i].UpdatedAt = p.nowFunc()
			p.logAction(models.ActionOrderPaymentUpdate, "order", id, user, map[string]any{"isPaid": isPaid})
			if err := p.save(); err != nil {
				return nil, err
			}
			out := p.db.Orders[i]
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: заказ не найден", ErrNotFound)
}

func (p *LocalProvider) logAction(action, entityType, entityID, user string, details map[string]any) {
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
	p.db.ActionLogs = append([]models.ActionLog{entry}, p.db.ActionLogs...)
}

func (p *LocalProvider) ListActionLogs(ctx context.Context, query LogQuery) (*models.ActionLogPage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if query.PageSize <= 0 {
		query.PageSize = p.cfg.AdminPageSize
	}
	start, end, pagination := Paginate(len(p.db.ActionLogs), query.Page, query.PageSize)
	page := make([]models.ActionLog, end-start)
	copy(page, p.db.ActionLogs[start:end])
	return &models.ActionLogPage{Items: page, Pagination: pagination}, nil
}

func (p *LocalProvider) GetSalesReport(ctx context.Context, query ReportQuery) (*models.SalesReport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	from, to := PeriodRange(query.Period, query.From, query.To, p.nowFunc())
	inRange := []models.Order{}
	for _, order := range p.db.Orders {
		if InRange(order, from, to) {
			inRange = append(inRange, order)
		}
	}
	return BuildSalesReport(inRange, from, to), nil
}

func (p *LocalProvider) GetDashboardKpi(ctx context.Context) (*models.DashboardKpi, error) {
	report, err := p.GetSalesReport(ctx, ReportQuery{Period: PeriodToday})
	if err != nil {
		return nil, err
	}
	return BuildDashboardKpi(report), nil
}

func (p *LocalProvider) LoginAdmin(ctx context.Context, login, password string) (*models.AdminSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, user := range p.db.Users {
		if user.Login == login && user.Password == password && user.Role == models.RoleAdmin {
			session := models.AdminSession{
				ID:        user.ID,
				Role:      user.Role,
				Name:      user.Name,
				Login:     user.Login,
				CreatedAt: p.nowFunc(),
			}
			data, err := json.Marshal(session)
			if err != nil {
				return nil, fmt.Errorf("marshal session: %w", err)
			}
			if err := p.store.Set(storage.KeyAdminSession, data); err != nil {
				return nil, err
			}
			return &session, nil
		}
	}
	return nil, fmt.Errorf("%w: неверный логин или пароль", ErrAuth)
}

func (p *LocalProvider) LogoutAdmin(ctx context.Context) error {
	return p.store.Delete(storage.KeyAdminSession)
}

func (p *LocalProvider) GetCurrentAdmin(ctx context.Context) (*models.AdminSession, error) {
	raw, ok := p.store.Get(storage.KeyAdminSession)
	if !ok {
		return nil, nil
	}
	var session models.AdminSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, nil
	}
	return &session, nil
}

// ResetDemoData clears persisted state and re-seeds from scratch.
func (p *LocalProvider) ResetDemoData(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.Delete(storage.KeyDB); err != nil {
		return err
	}
	p.db = nil
	return p.initLocked(ctx)
}

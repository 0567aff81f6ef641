package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sushi-shop-api/handlers"
	"sushi-shop-api/middleware"
	"sushi-shop-api/models"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, jwtSecret []byte) {
	// ── Public storefront routes ───────────────────────────────────
	public := r.Group("/api")
	{
		public.GET("/site", h.GetSite)
		public.GET("/categories", h.ListCategories)
		public.GET("/products", h.GetProducts)
		public.GET("/products/:code", h.GetProductByCode)
		public.POST("/orders", h.CreateOrder)
		public.GET("/orders/:id", h.GetOrder)

		// Cart (cookie-scoped)
		public.GET("/cart", h.GetCart)
		public.POST("/cart/items", h.AddToCart)
		public.PUT("/cart/items", h.SetCartQty)
		public.DELETE("/cart/items/:key", h.RemoveFromCart)
		public.DELETE("/cart", h.ClearCart)
		public.POST("/cart/checkout", h.Checkout)
	}

	// ── Admin console routes ───────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.POST("/login", h.Login)

	protected := admin.Group("")
	protected.Use(middleware.AuthRequired(jwtSecret), middleware.RoleRequired(models.RoleAdmin))
	{
		protected.POST("/logout", h.Logout)
		protected.GET("/me", h.Me)
		protected.GET("/provider", h.ProviderInfo)

		// Menu management
		protected.GET("/categories", h.AdminListCategories)
		protected.POST("/categories", h.UpsertCategory)
		protected.DELETE("/categories/:id", h.DeleteCategory)
		protected.GET("/products", h.AdminGetProducts)
		protected.GET("/products/:id", h.AdminGetProduct)
		protected.POST("/products", h.UpsertProduct)
		protected.DELETE("/products/:id", h.DeleteProduct)
		protected.POST("/uploads/photo", h.UploadProductPhoto)

		// Order management
		protected.GET("/orders", h.AdminListOrders)
		protected.GET("/orders/:id", h.GetOrder)
		protected.PUT("/orders/:id/status", h.UpdateOrderStatus)
		protected.PUT("/orders/:id/payment", h.UpdateOrderPayment)

		// Reports & audit
		protected.GET("/dashboard", h.GetDashboardKpi)
		protected.GET("/reports/sales", h.GetSalesReport)
		protected.GET("/reports/sales/export", h.ExportSalesReport)
		protected.GET("/logs", h.ListActionLogs)

		// Settings & demo data
		protected.GET("/settings", h.GetSettings)
		protected.PUT("/settings", h.UpdateSettings)
		protected.POST("/reset", h.ResetDemoData)
	}

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

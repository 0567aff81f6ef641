package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"sushi-shop-api/config"
	"sushi-shop-api/handlers"
	"sushi-shop-api/middleware"
	"sushi-shop-api/repository"
	"sushi-shop-api/routes"
	"sushi-shop-api/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	gin.SetMode(cfg.Server.GinMode)
	middleware.InitMetrics()

	store, err := storage.NewFileStorage(cfg.Storage.DataDir)
	if err != nil {
		log.Fatal("Failed to open data dir:", err)
	}

	seed := repository.FileSeed(cfg.Seed.Path)
	if cfg.Seed.URL != "" {
		seed = repository.HTTPSeed(cfg.Seed.URL)
	}

	local := repository.NewLocalProvider(store, seed, repository.LocalConfig{
		AdminLogin:    cfg.Admin.Login,
		AdminPassword: cfg.Admin.Password,
		PageSize:      cfg.Shop.PageSize,
		AdminPageSize: cfg.Shop.AdminPageSize,
	})

	var remote repository.Provider
	if cfg.RemoteConfigured() {
		remote = repository.NewRemoteProvider(repository.RemoteConfig{
			Driver:        cfg.DB.Driver,
			DSN:           cfg.DB.DSN,
			PageSize:      cfg.Shop.PageSize,
			AdminPageSize: cfg.Shop.AdminPageSize,
		})
	}

	repo, err := repository.New(context.Background(), local, remote)
	if err != nil {
		log.Fatal("Failed to initialize repository:", err)
	}
	log.Printf("✅ Repository ready (provider=%s)", repo.Mode())

	h, err := handlers.New(repo, cfg, store)
	if err != nil {
		log.Fatal("Failed to build handlers:", err)
	}

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()
	r.Use(middleware.PrometheusMiddleware())

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"service":  cfg.Shop.Name + " API",
			"provider": repo.Mode(),
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "🍣 Welcome to the " + cfg.Shop.Name + " ordering API",
			"health":  "/health",
			"phone":   cfg.Shop.SupportPhone,
		})
	})

	// Register all routes
	routes.SetupRoutes(r, h, []byte(cfg.Server.JWTSecret))

	// Start server
	log.Printf("🚀 Server running on http://localhost:%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

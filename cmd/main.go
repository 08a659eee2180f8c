package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"picktrack/internal/analytics"
	"picktrack/internal/caching"
	"picktrack/internal/config"
	"picktrack/internal/handlers"
	"picktrack/internal/jobs/background"
	"picktrack/internal/middleware"
	"picktrack/internal/migrations"
	"picktrack/internal/repositories"
	"picktrack/internal/services"
	"picktrack/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load(os.Getenv("PICKTRACK_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := migrations.Run(ctx, pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	auditRepo := repositories.NewPickingAuditRepo(pool)
	userRepo := repositories.NewUserRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// Create services
	authSvc := services.NewAuthService(cacheSvc, cfg.Auth.JWTSecret, cfg.Auth.TokenTTLSeconds)
	orderSource := services.NewOrderSource(cfg.SourcePath())
	pickingSvc := services.NewPickingService(orderSource, auditRepo)
	analyticsSvc := analytics.NewAnalyticsService(auditRepo, cacheSvc)

	var syncSvc services.SourceSyncService
	if cfg.Minio.Endpoint != "" {
		object := cfg.Minio.Object
		if object == "" {
			object = cfg.Picking.SourceFile
		}
		syncSvc, err = services.NewSourceSyncService(
			cfg.Minio.Endpoint,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
			cfg.Minio.Bucket,
			object,
			cfg.SourcePath(),
		)
		if err != nil {
			log.Fatalf("Failed to initialize source sync service: %v", err)
		}
	}

	// Create handlers
	pickingHandlers := handlers.NewPickingHandlers(pickingSvc, analyticsSvc, syncSvc)
	authHandlers := handlers.NewAuthHandlers(authSvc, userRepo)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	api := e.Group("/api")

	// Authentication routes (no JWT required for signup/login)
	api.POST("/auth/signup", authHandlers.Signup)
	api.POST("/auth/login", authHandlers.Login)

	// The order lookup is read-only and stays open, matching the upstream
	// tool it replaces.
	api.GET("/picking/order/:order_number/:despatch_number", pickingHandlers.GetPickingOrder)

	// Protected routes (require JWT)
	protected := api.Group("")
	protected.Use(echojwt.WithConfig(middleware.JWTConfig(cfg.Auth.JWTSecret)))

	protected.GET("/me", authHandlers.Me)
	protected.POST("/save_picking_audit", pickingHandlers.SavePickingAudit)
	protected.GET("/picking/audits", pickingHandlers.ListAudits)
	protected.GET("/picking/audits/:id", pickingHandlers.GetAudit)
	protected.GET("/picking/summary", pickingHandlers.GetAuditSummary)
	protected.POST("/picking/sync", pickingHandlers.SyncSource)

	// Background jobs
	scheduler := background.NewJobScheduler(
		analyticsSvc,
		syncSvc,
		time.Duration(cfg.Picking.SummaryRefreshMinutes)*time.Minute,
		time.Duration(cfg.Picking.SyncIntervalMinutes)*time.Minute,
	)
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop scheduler: %v", err)
		}
	}()

	log.Printf("Picktrack server v%s starting on port %d", version, cfg.Server.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Server.Port)))
}

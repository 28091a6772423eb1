package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/energypac/erp-backend/internal/application/billing"
	catalogapp "github.com/energypac/erp-backend/internal/application/catalog"
	procurementapp "github.com/energypac/erp-backend/internal/application/procurement"
	workorderapp "github.com/energypac/erp-backend/internal/application/workorder"
	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/energypac/erp-backend/internal/infrastructure/cache"
	"github.com/energypac/erp-backend/internal/infrastructure/config"
	"github.com/energypac/erp-backend/internal/infrastructure/event"
	"github.com/energypac/erp-backend/internal/infrastructure/logger"
	"github.com/energypac/erp-backend/internal/infrastructure/persistence"
	"github.com/energypac/erp-backend/internal/interfaces/http/handler"
	"github.com/energypac/erp-backend/internal/interfaces/http/middleware"
	"github.com/energypac/erp-backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database with a GORM logger bridged to zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	// Catalog reads and writes go straight through the product repository;
	// everything else works through the transaction scope below
	productRepo := persistence.NewGormProductRepository(db.DB)

	// Transaction scope shared by the write paths that span aggregates
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	productService := catalogapp.NewProductService(productRepo)
	workOrderService := workorderapp.NewWorkOrderService(txScope.WorkOrderScope())
	billService := billingapp.NewBillService(txScope)
	purchaseOrderService := procurementapp.NewPurchaseOrderService(txScope.ProcurementScope())

	// Event bus with domain event handlers
	eventBus := event.NewInMemoryEventBus(log)
	lowStockHandler := catalogapp.NewLowStockHandler(log)
	eventBus.Subscribe(lowStockHandler, lowStockHandler.EventTypes()...)

	ctx := context.Background()
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("failed to stop event bus", zap.Error(err))
		}
	}()

	productService.SetEventPublisher(eventBus)
	workOrderService.SetEventPublisher(eventBus)
	billService.SetEventPublisher(eventBus)
	purchaseOrderService.SetEventPublisher(eventBus)

	// Idempotency store for payment recording. Falls back to in-memory
	// when Redis is disabled or unreachable.
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("failed to create idempotency store", zap.Error(err))
	}
	billService.SetIdempotencyStore(idempotencyStore, shared.IdempotencyConfig{
		TTL:     cfg.Idempotency.KeyTTL,
		Enabled: true,
	})

	// HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	workOrderHandler := handler.NewWorkOrderHandler(workOrderService)
	billHandler := handler.NewBillHandler(billService)
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(purchaseOrderService)
	systemHandler := handler.NewSystemHandler()

	// Gin setup
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("failed to set trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if cfg.HTTP.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	engine.GET("/health", healthHandler(db))

	// API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	catalogGroup := router.NewDomainGroup("catalog", "/products").
		POST("", productHandler.Create).
		GET("", productHandler.List).
		GET("/low-stock", productHandler.ListLowStock).
		GET("/code/:code", productHandler.GetByCode).
		GET("/:id", productHandler.GetByID).
		PUT("/:id", productHandler.Update)

	workOrderGroup := router.NewDomainGroup("workorder", "/work-orders").
		POST("", workOrderHandler.Create).
		GET("", workOrderHandler.List).
		GET("/:id", workOrderHandler.GetByID).
		GET("/:id/delivery-status", workOrderHandler.DeliveryStatus).
		GET("/:id/bills", billHandler.ListByWorkOrder).
		POST("/:id/advance", workOrderHandler.RecordAdvance).
		POST("/:id/cancel", workOrderHandler.Cancel).
		DELETE("/:id", workOrderHandler.Delete)

	billingGroup := router.NewDomainGroup("billing", "/bills").
		POST("", billHandler.Create).
		GET("", billHandler.List).
		POST("/validate-stock", billHandler.ValidateStock).
		GET("/pending-payment", billHandler.ListPendingPayment).
		GET("/:id", billHandler.GetByID).
		GET("/:id/payments", billHandler.PaymentHistory).
		POST("/:id/mark-paid", billHandler.MarkPaid).
		POST("/:id/cancel", billHandler.Cancel).
		DELETE("/:id", billHandler.Delete)

	procurementGroup := router.NewDomainGroup("procurement", "/purchase-orders").
		POST("", purchaseOrderHandler.Create).
		GET("", purchaseOrderHandler.List).
		GET("/:id", purchaseOrderHandler.GetByID).
		POST("/:id/items/:item_id/mark-purchased", purchaseOrderHandler.MarkItemPurchased).
		POST("/:id/mark-all-purchased", purchaseOrderHandler.MarkAllPurchased).
		POST("/:id/cancel", purchaseOrderHandler.Cancel).
		DELETE("/:id", purchaseOrderHandler.Delete)

	systemGroup := router.NewDomainGroup("system", "/system").
		GET("/info", systemHandler.GetSystemInfo).
		GET("/ping", systemHandler.Ping)

	r.Register(catalogGroup).
		Register(workOrderGroup).
		Register(billingGroup).
		Register(procurementGroup).
		Register(systemGroup).
		Setup()

	// HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}

// healthHandler reports liveness and database connectivity
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Error("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

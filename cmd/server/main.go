package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erp/reorder/internal/application/agent"
	appreorder "github.com/erp/reorder/internal/application/reorder"
	"github.com/erp/reorder/internal/domain/audit"
	"github.com/erp/reorder/internal/domain/identity"
	"github.com/erp/reorder/internal/domain/inventory"
	"github.com/erp/reorder/internal/domain/notify"
	"github.com/erp/reorder/internal/domain/reorder"
	"github.com/erp/reorder/internal/domain/requisition"
	"github.com/erp/reorder/internal/infrastructure/auth"
	"github.com/erp/reorder/internal/infrastructure/config"
	"github.com/erp/reorder/internal/infrastructure/logger"
	"github.com/erp/reorder/internal/infrastructure/persistence"
	"github.com/erp/reorder/internal/interfaces/http/handler"
	"github.com/erp/reorder/internal/interfaces/http/middleware"
	"github.com/erp/reorder/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting reorder engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// In development the schema is synced directly; production deploys
	// run the migrate command against migrations/ instead.
	if cfg.App.Env == "development" {
		if err := db.DB.AutoMigrate(
			&inventory.InventoryItem{},
			&inventory.StockRecord{},
			&reorder.DraftPurchaseRequest{},
			&reorder.DraftLine{},
			&requisition.Requisition{},
			&requisition.RequisitionLine{},
			&identity.User{},
			&notify.Notification{},
			&audit.AuditLog{},
		); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
		log.Info("Schema synchronized")
	}

	// Repositories
	itemRepo := persistence.NewGormInventoryItemRepository(db.DB)
	stockRepo := persistence.NewGormStockRecordRepository(db.DB)
	draftRepo := persistence.NewGormDraftRepository(db.DB)
	requisitionRepo := persistence.NewGormRequisitionRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	auditRepo := persistence.NewGormAuditLogRepository(db.DB)

	// Approval policy from configuration
	policy, err := rolePolicyFromConfig(cfg.Approval)
	if err != nil {
		log.Fatal("Invalid approval configuration", zap.Error(err))
	}

	defaultBudget := cfg.Reorder.DefaultBudgetCapDecimal()

	// Application services
	aggregator := inventory.NewStockAggregator(stockRepo, log)
	engineService := appreorder.NewEngineService(
		itemRepo, aggregator, draftRepo, userRepo, notificationRepo, auditRepo,
		policy,
		appreorder.EngineOptions{DefaultBudgetCap: defaultBudget},
		log,
	)
	draftService := appreorder.NewDraftService(
		draftRepo, itemRepo, stockRepo, requisitionRepo,
		db,
		policy,
		appreorder.DraftOptions{
			DefaultLocation: cfg.Reorder.DefaultLocation,
			BatchExpiry:     cfg.Reorder.BatchExpiry,
		},
		log,
	)
	executor := agent.NewExecutor(engineService, log)

	// JWT service
	jwtService := auth.NewJWTService(cfg.JWT)

	// Gin engine and middleware chain
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.JWTAuthMiddleware(jwtService))

	// Routes
	r := router.NewRouter(engine)
	r.Register(handler.NewReorderHandler(engineService, draftService, executor))
	r.Register(handler.NewSystemHandler(db, version))
	r.Setup()

	// Unversioned liveness probe, skipped by auth middleware
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// rolePolicyFromConfig builds the approval policy tables from their
// config representation
func rolePolicyFromConfig(cfg config.ApprovalConfig) (*reorder.RolePolicy, error) {
	if len(cfg.RoleRanks) == 0 || len(cfg.CostTiers) == 0 {
		return reorder.DefaultRolePolicy(), nil
	}

	ranks := make(map[string]int, len(cfg.RoleRanks))
	for role, rank := range cfg.RoleRanks {
		ranks[role] = rank
	}

	tiers := make([]reorder.CostTier, 0, len(cfg.CostTiers))
	for _, tier := range cfg.CostTiers {
		threshold, err := decimal.NewFromString(tier.Threshold)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, reorder.CostTier{Threshold: threshold, Role: tier.Role})
	}

	return reorder.NewRolePolicy(ranks, tiers), nil
}

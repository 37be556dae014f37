package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/condoledger/backend/internal/application/billing"
	paymentsapp "github.com/condoledger/backend/internal/application/payments"
	pettycashapp "github.com/condoledger/backend/internal/application/pettycash"
	"github.com/condoledger/backend/internal/infrastructure/auth"
	"github.com/condoledger/backend/internal/infrastructure/cache"
	"github.com/condoledger/backend/internal/infrastructure/config"
	"github.com/condoledger/backend/internal/infrastructure/logger"
	"github.com/condoledger/backend/internal/infrastructure/persistence"
	"github.com/condoledger/backend/internal/infrastructure/spreadsheet"
	"github.com/condoledger/backend/internal/infrastructure/storage"
	"github.com/condoledger/backend/internal/interfaces/http/handler"
	"github.com/condoledger/backend/internal/interfaces/http/middleware"
	"github.com/condoledger/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	log.Info("Starting condoledger backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	allocationRepo := persistence.NewGormAllocationRepository(db)
	fundRepo := persistence.NewGormFundRepository(db)
	fundTxRepo := persistence.NewGormFundTransactionRepository(db)
	unitRepo := persistence.NewGormUnitRepository(db)
	buildingRepo := persistence.NewGormBuildingRepository(db)
	roleRepo := persistence.NewGormRoleRepository(db)
	txManager := persistence.NewGormTransactionManager(db)

	// Solvency cache is optional; a missing Redis only costs recomputation
	var solvencyCache paymentsapp.SolvencyCache
	redisCache, err := cache.NewRedisSolvencyCache(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, solvency summaries will not be cached", zap.Error(err))
	} else {
		solvencyCache = redisCache
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
		log.Info("Solvency cache connected")
	}

	// Object storage for payment proofs
	var proofService *paymentsapp.ProofService
	proofStorage, err := storage.NewS3ProofStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Warn("Object storage unavailable, payment proof endpoints disabled", zap.Error(err))
	} else {
		if err := proofStorage.EnsureBucket(context.Background()); err != nil {
			log.Warn("Failed to ensure proof bucket", zap.Error(err))
		}
		proofService = paymentsapp.NewProofService(proofStorage, log)
	}

	// Application services
	debtService := billingapp.NewDebtService(invoiceRepo, unitRepo)
	balanceService := billingapp.NewBalanceService(invoiceRepo)
	ledgerParser := spreadsheet.NewLedgerParser()
	importService := billingapp.NewLedgerImportService(ledgerParser, invoiceRepo, unitRepo, txManager, log)
	settlementService := billingapp.NewSettlementService(invoiceRepo)
	paymentService := paymentsapp.NewPaymentService(paymentRepo, allocationRepo, settlementService, unitRepo, txManager, solvencyCache, log)
	approvalService := paymentsapp.NewApprovalService(
		paymentRepo, allocationRepo, invoiceRepo, unitRepo, roleRepo, fundRepo, fundTxRepo, txManager, solvencyCache, log,
	)
	solvencyService := paymentsapp.NewSolvencyService(paymentRepo, unitRepo, solvencyCache, log)
	fundService := pettycashapp.NewFundService(fundRepo, fundTxRepo, unitRepo, buildingRepo, invoiceRepo, txManager, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Handlers
	billingHandler := handler.NewBillingHandler(debtService, balanceService, importService)
	paymentHandler := handler.NewPaymentHandler(paymentService, approvalService, solvencyService, proofService)
	pettyCashHandler := handler.NewPettyCashHandler(fundService)
	systemHandler := handler.NewSystemHandler(db, version)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Liveness endpoint outside API versioning
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths:  []string{"/api/v1/health"},
		Logger:     log,
	}))
	r.Register(systemHandler, billingHandler, paymentHandler, pettyCashHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

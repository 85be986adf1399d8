// Package main is the entry point for the stockledger API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"stockledger/internal/config"
	"stockledger/internal/domain/catalogs/counterparty"
	"stockledger/internal/domain/catalogs/item"
	"stockledger/internal/domain/ledger"
	"stockledger/internal/domain/movements/adjustment"
	"stockledger/internal/domain/movements/dispatch"
	"stockledger/internal/domain/movements/receipt"
	"stockledger/internal/domain/stock"
	v1 "stockledger/internal/infrastructure/http/v1"
	"stockledger/internal/infrastructure/storage/postgres"
	"stockledger/pkg/logger"
	"stockledger/pkg/numerator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.Env == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	log.Info("starting stockledger server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.ConnectionString())
	if cfg.DB.MaxConns > 0 {
		poolCfg.MaxConns = cfg.DB.MaxConns
	}
	if cfg.DB.MinConns > 0 {
		poolCfg.MinConns = cfg.DB.MinConns
	}
	if cfg.DB.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.DB.MaxConnLifetime
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	itemRepo := postgres.NewItemRepo(txManager)
	counterpartyRepo := postgres.NewCounterpartyRepo(txManager)
	receiptRepo := postgres.NewReceiptRepo(txManager)
	dispatchRepo := postgres.NewDispatchRepo(txManager)
	adjustmentRepo := postgres.NewAdjustmentRepo(txManager)
	ledgerRepo := postgres.NewLedgerRepo(txManager)

	auditStore, err := postgres.NewAuditStore(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit store", "error", err)
	}

	// --- Services ---
	mutator := stock.NewMutator(itemRepo)
	numeratorService := numerator.New(pool)

	itemService := item.NewService(itemRepo, txManager)
	counterpartyService := counterparty.NewService(counterpartyRepo, txManager)
	receiptService := receipt.NewService(receiptRepo, counterpartyRepo, mutator, numeratorService, auditStore, txManager)
	dispatchService := dispatch.NewService(dispatchRepo, counterpartyRepo, mutator, numeratorService, auditStore, txManager)
	adjustmentService := adjustment.NewService(adjustmentRepo, mutator, auditStore, txManager)
	ledgerService := ledger.NewService(ledgerRepo, itemRepo, txManager)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:         log,
		Items:          itemService,
		Counterparties: counterpartyService,
		Receipts:       receiptService,
		Dispatches:     dispatchService,
		Adjustments:    adjustmentService,
		Ledger:         ledgerService,
		Ready: func(c *gin.Context) error {
			return pool.Ping(c.Request.Context())
		},
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

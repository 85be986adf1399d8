// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockledger/internal/domain/catalogs/counterparty"
	"stockledger/internal/domain/catalogs/item"
	"stockledger/internal/domain/ledger"
	"stockledger/internal/domain/movements/adjustment"
	"stockledger/internal/domain/movements/dispatch"
	"stockledger/internal/domain/movements/receipt"
	"stockledger/internal/infrastructure/http/v1/handlers"
	"stockledger/internal/infrastructure/http/v1/middleware"
	"stockledger/pkg/logger"
)

// RouterConfig holds the services the router exposes.
type RouterConfig struct {
	Logger *logger.Logger

	Items          *item.Service
	Counterparties *counterparty.Service
	Receipts       *receipt.Service
	Dispatches     *dispatch.Service
	Adjustments    *adjustment.Service
	Ledger         *ledger.Service

	// Ready reports whether the storage backend is reachable.
	Ready func(c *gin.Context) error
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Actor())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Ready)
	router.GET("/healthz", healthHandler.Live)
	router.GET("/readyz", healthHandler.Ready)

	base := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	{
		items := api.Group("/items")
		handlers.NewItemHandler(base, cfg.Items).RegisterRoutes(items)
		handlers.NewStockHandler(base, cfg.Adjustments, cfg.Ledger).RegisterRoutes(items)

		counterparties := api.Group("/counterparties")
		handlers.NewCounterpartyHandler(base, cfg.Counterparties).RegisterRoutes(counterparties)

		receipts := api.Group("/receipts")
		handlers.NewReceiptHandler(base, cfg.Receipts).RegisterRoutes(receipts)

		dispatches := api.Group("/dispatches")
		handlers.NewDispatchHandler(base, cfg.Dispatches).RegisterRoutes(dispatches)
	}

	return router
}

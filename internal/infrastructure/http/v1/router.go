// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockledger/internal/domain/pipeline"
	"stockledger/internal/domain/profit"
	"stockledger/internal/domain/records"
	"stockledger/internal/infrastructure/http/v1/handlers"
	"stockledger/internal/infrastructure/http/v1/middleware"
	"stockledger/internal/infrastructure/storage/postgres"
	"stockledger/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// Records manages the raw bookkeeping collections
	Records *records.Service

	// Pipeline recomputes the derived views
	Pipeline *pipeline.Service

	// Profit serves persisted monthly snapshots
	Profit *profit.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	baseHandler := handlers.NewBaseHandler()

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	healthHandler.RegisterRoutes(router.Group("/health"))

	api := router.Group("/api/v1")
	{
		recordsHandler := handlers.NewRecordsHandler(baseHandler, cfg.Records)
		recordsHandler.RegisterRoutes(api)

		reportsHandler := handlers.NewReportsHandler(baseHandler, cfg.Pipeline, cfg.Profit)
		reportsHandler.RegisterRoutes(api.Group("/reports"))
	}

	return router
}

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

	"stockledger/internal/domain/pipeline"
	"stockledger/internal/domain/pricing"
	"stockledger/internal/domain/profit"
	"stockledger/internal/domain/records"
	v1 "stockledger/internal/infrastructure/http/v1"
	"stockledger/internal/infrastructure/storage/postgres"
	"stockledger/internal/infrastructure/storage/postgres/derived_repo"
	"stockledger/internal/infrastructure/storage/postgres/record_repo"
	"stockledger/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting stockledger server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalw("failed to ensure schema", "error", err)
	}

	txManager := postgres.NewTxManager(pool)

	changeLog, err := postgres.NewChangeLog(txManager)
	if err != nil {
		log.Fatalw("failed to initialize change log", "error", err)
	}

	// --- Repositories ---
	expenseRepo := record_repo.NewExpenseRepo(txManager)
	incomeRepo := record_repo.NewIncomeRepo(txManager)
	receiptRepo := record_repo.NewStockReceiptRepo(txManager)
	unitCostRepo := record_repo.NewUnitCostRepo(txManager)
	saleRepo := record_repo.NewSaleRepo(txManager)

	avgCostRepo := derived_repo.NewAverageCostRepo(txManager)
	purchaseRepo := derived_repo.NewPurchaseSummaryRepo(txManager, changeLog)
	profitRepo := derived_repo.NewMonthlyProfitRepo(txManager, changeLog)

	// --- Services ---
	recordsService := records.NewService(expenseRepo, incomeRepo, receiptRepo, unitCostRepo, saleRepo)
	pricingService := pricing.NewService(avgCostRepo, purchaseRepo)
	profitService := profit.NewService(profitRepo)
	pipelineService := pipeline.NewService(
		expenseRepo,
		incomeRepo,
		receiptRepo,
		unitCostRepo,
		saleRepo,
		pricingService,
		profitService,
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:     pool,
		Logger:   log,
		Records:  recordsService,
		Pipeline: pipelineService,
		Profit:   profitService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

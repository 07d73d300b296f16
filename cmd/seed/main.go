// Package main provides a CLI tool for seeding the database with sample data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"stockledger/internal/core/types"
	"stockledger/internal/domain/pipeline"
	"stockledger/internal/domain/pricing"
	"stockledger/internal/domain/profit"
	"stockledger/internal/domain/records"
	"stockledger/internal/infrastructure/storage/postgres"
	"stockledger/internal/infrastructure/storage/postgres/derived_repo"
	"stockledger/internal/infrastructure/storage/postgres/record_repo"
	"stockledger/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalw("failed to ensure schema", "error", err)
	}

	txManager := postgres.NewTxManager(pool)
	service := records.NewService(
		record_repo.NewExpenseRepo(txManager),
		record_repo.NewIncomeRepo(txManager),
		record_repo.NewStockReceiptRepo(txManager),
		record_repo.NewUnitCostRepo(txManager),
		record_repo.NewSaleRepo(txManager),
	)

	if err := seedSampleData(ctx, service, log); err != nil {
		log.Fatalw("failed to seed sample data", "error", err)
	}

	if os.Getenv("SEED_RUN_PIPELINE") == "true" {
		if err := runPipeline(ctx, txManager, log); err != nil {
			log.Fatalw("failed to run aggregation pipeline", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// seedSampleData loads a small June 2024 dataset: one expense, one
// income entry, one priced stock receipt and one delivered sale.
func seedSampleData(ctx context.Context, service *records.Service, log *logger.Logger) error {
	existing, err := service.ListExpenses(ctx)
	if err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if len(existing) > 0 {
		log.Info("sample data already present, skipping")
		return nil
	}

	if _, err := service.AddExpense(ctx, "2024-06-05", types.NewMoney(100)); err != nil {
		return fmt.Errorf("seed expense: %w", err)
	}

	if _, err := service.AddIncome(ctx, "2024-06-10", types.NewMoney(500)); err != nil {
		return fmt.Errorf("seed income: %w", err)
	}

	receipt, err := service.AddStockReceipt(ctx, records.StockReceipt{
		Date:           "2024-06-01",
		ProductCode:    "P1",
		ProductDetails: "sample product",
		Quantity:       10,
	})
	if err != nil {
		return fmt.Errorf("seed stock receipt: %w", err)
	}

	if err := service.SetUnitCost(ctx, receipt.ID, types.NewMoney(5)); err != nil {
		return fmt.Errorf("seed unit cost: %w", err)
	}

	if _, err := service.AddSale(ctx, records.Sale{
		Date:         "2024-06-15",
		Status:       records.StatusDelivered,
		CustomerName: "Sample Customer",
		Phone:        "555-0100",
		Address:      "1 Sample St",
		Products: []records.SaleLine{
			{ProductCode: "P1", Quantity: 4},
		},
	}); err != nil {
		return fmt.Errorf("seed sale: %w", err)
	}

	log.Info("sample data seeded")
	return nil
}

// runPipeline recomputes the derived views for June 2024 so the report
// tables are populated right after seeding.
func runPipeline(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	changeLog, err := postgres.NewChangeLog(txManager)
	if err != nil {
		return fmt.Errorf("init change log: %w", err)
	}

	expenseRepo := record_repo.NewExpenseRepo(txManager)
	incomeRepo := record_repo.NewIncomeRepo(txManager)
	receiptRepo := record_repo.NewStockReceiptRepo(txManager)
	unitCostRepo := record_repo.NewUnitCostRepo(txManager)
	saleRepo := record_repo.NewSaleRepo(txManager)

	pricingService := pricing.NewService(
		derived_repo.NewAverageCostRepo(txManager),
		derived_repo.NewPurchaseSummaryRepo(txManager, changeLog),
	)
	profitService := profit.NewService(derived_repo.NewMonthlyProfitRepo(txManager, changeLog))

	pipelineService := pipeline.NewService(
		expenseRepo,
		incomeRepo,
		receiptRepo,
		unitCostRepo,
		saleRepo,
		pricingService,
		profitService,
	)

	month := types.Month{Year: 2024, Month: time.June}
	res, err := pipelineService.Run(ctx, month)
	if err != nil {
		return err
	}

	log.Infow("pipeline run finished",
		"month", month.Key(),
		"average_costs", len(res.AverageCosts),
		"purchase_total", res.Purchase.TotalCost.StringFixed(2),
		"profit_loss", res.Profit.ProfitLoss.StringFixed(2),
	)
	return nil
}

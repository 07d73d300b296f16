// Package pipeline orchestrates the aggregation runs: concurrent source
// reads, the two-level derived-view dependency graph, and serialized
// latest-wins persistence.
//
// The five source reads are independent snapshots taken at slightly
// different instants; a record written concurrently with a run may or may
// not be included (accepted read skew, not a correctness bug).
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
	"stockledger/internal/domain/pricing"
	"stockledger/internal/domain/profit"
	"stockledger/internal/domain/records"
	"stockledger/pkg/logger"
)

var tracer = otel.Tracer("stockledger/pipeline")

// Derived-view document keys used for write serialization.
const (
	keyAverageCosts    = "averageCosts"
	keyPurchaseSummary = "purchaseSummary"
	keyMonthlyProfit   = "monthlyProfit/" // + month key
)

// RunResult carries the in-memory outputs of one run, returned for
// display regardless of which persistence steps ran.
type RunResult struct {
	Run          uint64                  `json:"-"`
	Month        types.Month             `json:"-"`
	AverageCosts []pricing.AverageCost   `json:"averageCosts"`
	Purchase     pricing.PurchaseSummary `json:"purchase"`
	Profit       profit.Result           `json:"monthlyProfit"`

	// Persistence outcomes; false means skipped (unchanged, empty month,
	// or superseded by a newer run), not failure.
	WroteAverageCosts bool `json:"-"`
	WrotePurchase     bool `json:"-"`
	WroteProfit       bool `json:"-"`
}

// Service runs the aggregation pipeline.
type Service struct {
	expenses records.ExpenseRepository
	income   records.IncomeRepository
	receipts records.StockReceiptRepository
	costs    records.UnitCostRepository
	sales    records.SaleRepository

	pricing *pricing.Service
	profit  *profit.Service

	seq  atomic.Uint64
	gate *writeGate
}

// NewService creates a new pipeline service.
func NewService(
	expenses records.ExpenseRepository,
	income records.IncomeRepository,
	receipts records.StockReceiptRepository,
	costs records.UnitCostRepository,
	sales records.SaleRepository,
	pricingSvc *pricing.Service,
	profitSvc *profit.Service,
) *Service {
	return &Service{
		expenses: expenses,
		income:   income,
		receipts: receipts,
		costs:    costs,
		sales:    sales,
		pricing:  pricingSvc,
		profit:   profitSvc,
		gate:     newWriteGate(),
	}
}

// sources holds one run's raw collection snapshots.
type sources struct {
	expenses []records.Expense
	income   []records.Income
	receipts []records.StockReceipt
	costs    map[id.ID]types.Money
	sales    []records.Sale
}

// Run executes one aggregation run for the given month.
//
// Level 0 reads the five collections concurrently; a read failure aborts
// the run with persisted state untouched. Level 1 computes and persists
// average costs and the purchase summary (independent siblings: one
// failing does not block the other). Level 2 reconciles monthly profit
// from the level-1 average cost output. Persistence failures of sibling
// views are joined into one error; the in-memory result is still
// returned whenever computation succeeded.
func (s *Service) Run(ctx context.Context, month types.Month) (*RunResult, error) {
	run := s.seq.Add(1)

	ctx, span := tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			attribute.String("month", month.Key()),
			attribute.Int64("run", int64(run)),
		))
	defer span.End()

	src, err := s.readSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	res := &RunResult{Run: run, Month: month}
	var errs []error

	// Level 1: independent derivations from the same receipt/cost pair.
	res.AverageCosts = pricing.ComputeAverageCosts(src.receipts, src.costs)
	res.Purchase = pricing.ComputePurchaseSummary(src.receipts, src.costs)

	wrote, err := s.gate.persist(keyAverageCosts, run, func() error {
		return s.pricing.PersistAverageCosts(ctx, res.AverageCosts)
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("persist average costs: %w", err))
	}
	res.WroteAverageCosts = wrote

	var purchaseWrote bool
	wrote, err = s.gate.persist(keyPurchaseSummary, run, func() error {
		w, err := s.pricing.PersistPurchaseTotal(ctx, res.Purchase.TotalCost)
		purchaseWrote = w
		return err
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("persist purchase total: %w", err))
	}
	res.WrotePurchase = wrote && purchaseWrote

	// Level 2: monthly profit depends on the computed average costs, not
	// on their persistence, so an average-cost write failure does not
	// block it.
	avgMap := make(map[string]types.Money, len(res.AverageCosts))
	for _, e := range res.AverageCosts {
		avgMap[e.ProductCode] = e.AvgCost
	}

	res.Profit = profit.Reconcile(profit.Input{
		Month:        month,
		Expenses:     src.expenses,
		Income:       src.income,
		Sales:        src.sales,
		AverageCosts: avgMap,
	})
	if res.Profit.SkippedRecords > 0 {
		logger.Debug(ctx, "records excluded for unparseable dates",
			"month", month.Key(),
			"count", res.Profit.SkippedRecords,
		)
	}

	var profitWrote bool
	wrote, err = s.gate.persist(keyMonthlyProfit+month.Key(), run, func() error {
		w, err := s.profit.Persist(ctx, res.Profit)
		profitWrote = w
		return err
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("persist monthly profit: %w", err))
	}
	res.WroteProfit = wrote && profitWrote

	logger.Info(ctx, "pipeline run finished",
		"run", run,
		"month", month.Key(),
		"wrote_average_costs", res.WroteAverageCosts,
		"wrote_purchase", res.WrotePurchase,
		"wrote_profit", res.WroteProfit,
		"errors", len(errs),
	)

	return res, errors.Join(errs...)
}

// readSources scans the five raw collections concurrently.
func (s *Service) readSources(ctx context.Context) (*sources, error) {
	ctx, span := tracer.Start(ctx, "pipeline.read_sources")
	defer span.End()

	var src sources
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if src.expenses, err = s.expenses.List(gctx); err != nil {
			return fmt.Errorf("expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if src.income, err = s.income.List(gctx); err != nil {
			return fmt.Errorf("income: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if src.receipts, err = s.receipts.List(gctx); err != nil {
			return fmt.Errorf("stock receipts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if src.costs, err = s.costs.Map(gctx); err != nil {
			return fmt.Errorf("unit costs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if src.sales, err = s.sales.List(gctx); err != nil {
			return fmt.Errorf("sales: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &src, nil
}

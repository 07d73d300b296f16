package profit

import (
	"context"
	"fmt"
	"sort"
	"time"

	"stockledger/internal/core/types"
	"stockledger/internal/domain/records"
	"stockledger/pkg/logger"
)

// Input carries everything Reconcile needs: the raw month-independent
// collections plus the current average cost set. Average costs are taken
// at computation time, not preserved per sale.
type Input struct {
	Month        types.Month
	Expenses     []records.Expense
	Income       []records.Income
	Sales        []records.Sale
	AverageCosts map[string]types.Money
}

// Reconcile computes the monthly profit view. Pure: no I/O.
//
// Records whose date does not parse are silently excluded from the month
// window (counted in Result.SkippedRecords). Delivered sales match on
// month+year equality. A sold product code with no average cost entry
// values at zero.
func Reconcile(in Input) Result {
	first, last := in.Month.Window()

	res := Result{
		Month:      in.Month,
		MonthKey:   in.Month.Key(),
		MonthLabel: in.Month.Label(),
		Expenses:   types.Zero(),
		Income:     types.Zero(),
	}

	for _, e := range in.Expenses {
		d, ok := types.ParseDate(e.Date)
		if !ok {
			res.SkippedRecords++
			continue
		}
		if !d.Before(first) && !d.After(last) {
			res.Expenses = res.Expenses.Add(e.Amount)
		}
	}

	for _, inc := range in.Income {
		d, ok := types.ParseDate(inc.Date)
		if !ok {
			res.SkippedRecords++
			continue
		}
		if !d.Before(first) && !d.After(last) {
			res.Income = res.Income.Add(inc.Amount)
		}
	}

	// Accumulate delivered quantities per product, valued at the current
	// average cost.
	type productAcc struct {
		quantity int
		avgCost  types.Money
	}
	acc := make(map[string]*productAcc)
	var order []string

	for _, sale := range in.Sales {
		if !sale.Status.IsDelivered() {
			continue
		}
		d, ok := types.ParseDate(sale.Date)
		if !ok {
			res.SkippedRecords++
			continue
		}
		if !in.Month.Contains(d) {
			continue
		}
		for _, line := range sale.Products {
			p, exists := acc[line.ProductCode]
			if !exists {
				p = &productAcc{avgCost: in.AverageCosts[line.ProductCode]} // absent -> zero
				acc[line.ProductCode] = p
				order = append(order, line.ProductCode)
			}
			p.quantity += line.Quantity
		}
	}

	sort.Strings(order)
	total := types.Zero()
	for _, code := range order {
		p := acc[code]
		lineTotal := p.avgCost.Mul(types.MoneyFromInt(int64(p.quantity)))
		res.Products = append(res.Products, ProductCost{
			ProductCode: code,
			Quantity:    p.quantity,
			AvgCost:     p.avgCost,
			Total:       lineTotal,
		})
		total = total.Add(lineTotal)
	}

	res.TotalProductCost = total
	res.ProfitLoss = res.Income.Sub(res.Expenses.Add(total))
	return res
}

// Service persists monthly profit snapshots with change detection and
// serves the snapshot history.
type Service struct {
	repo Repository

	// now is replaceable in tests for deterministic timestamps.
	now func() time.Time
}

// NewService creates a new profit service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Persist applies change-detection persistence to a reconciliation
// result. An all-zero month is never persisted. When a snapshot for the
// month exists and the four monitored fields are unchanged, the stored
// snapshot (and its timestamp) is left untouched. Returns whether a
// write happened.
func (s *Service) Persist(ctx context.Context, res Result) (bool, error) {
	if res.IsEmpty() {
		logger.Debug(ctx, "empty month, snapshot not persisted", "month", res.MonthKey)
		return false, nil
	}

	fresh := &Snapshot{
		MonthKey:         res.MonthKey,
		Month:            res.MonthLabel,
		Expenses:         res.Expenses,
		Income:           res.Income,
		ProfitLoss:       res.ProfitLoss,
		TotalProductCost: res.TotalProductCost,
		Products:         res.Products,
		Timestamp:        s.now(),
	}

	existing, err := s.repo.GetSnapshot(ctx, res.MonthKey)
	if err != nil {
		return false, fmt.Errorf("read snapshot %s: %w", res.MonthKey, err)
	}
	if existing != nil && existing.sameTotals(fresh) {
		logger.Debug(ctx, "snapshot unchanged, skipping write", "month", res.MonthKey)
		return false, nil
	}

	if err := s.repo.UpsertSnapshot(ctx, fresh); err != nil {
		return false, fmt.Errorf("upsert snapshot %s: %w", res.MonthKey, err)
	}

	logger.Info(ctx, "monthly profit snapshot written",
		"month", res.MonthKey,
		"income", res.Income,
		"expenses", res.Expenses,
		"profit_loss", res.ProfitLoss,
	)
	return true, nil
}

// History returns all persisted snapshots, newest first.
func (s *Service) History(ctx context.Context) ([]Snapshot, error) {
	snaps, err := s.repo.ListSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snaps, nil
}

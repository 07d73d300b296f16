package pricing

import (
	"context"
	"fmt"
	"sort"

	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
	"stockledger/internal/domain/records"
	"stockledger/pkg/logger"
)

// ComputeAverageCosts joins receipts with unit cost overrides and returns
// the quantity-weighted average cost per product code, rounded to 2
// places, sorted by product code. A receipt without an override
// contributes zero cost; a product whose quantity sum is zero gets zero.
func ComputeAverageCosts(receipts []records.StockReceipt, costs map[id.ID]types.Money) []AverageCost {
	costSum := make(map[string]types.Money)
	qtySum := make(map[string]int64)

	for _, r := range receipts {
		unitCost := costs[r.ID] // absent -> zero
		lineCost := unitCost.Mul(types.MoneyFromInt(int64(r.Quantity)))
		costSum[r.ProductCode] = costSum[r.ProductCode].Add(lineCost)
		qtySum[r.ProductCode] += int64(r.Quantity)
	}

	entries := make([]AverageCost, 0, len(costSum))
	for code, total := range costSum {
		avg := types.Zero()
		if qty := qtySum[code]; qty > 0 {
			avg = total.Div(types.MoneyFromInt(qty)).Round(2)
		}
		entries = append(entries, AverageCost{ProductCode: code, AvgCost: avg})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ProductCode < entries[j].ProductCode
	})
	return entries
}

// ComputePurchaseSummary returns one row per receipt (in receipt order)
// with lineCost = unitCostOrZero * quantity, and the grand total.
func ComputePurchaseSummary(receipts []records.StockReceipt, costs map[id.ID]types.Money) PurchaseSummary {
	lines := make([]PurchaseLine, 0, len(receipts))
	total := types.Zero()

	for _, r := range receipts {
		unitCost := costs[r.ID]
		lineCost := unitCost.Mul(types.MoneyFromInt(int64(r.Quantity)))
		lines = append(lines, PurchaseLine{
			ReceiptID:   r.ID,
			ProductCode: r.ProductCode,
			Quantity:    r.Quantity,
			UnitCost:    unitCost,
			LineCost:    lineCost,
		})
		total = total.Add(lineCost)
	}

	return PurchaseSummary{Lines: lines, TotalCost: total}
}

// Service persists the derived cost views.
type Service struct {
	avgRepo      AverageCostRepository
	purchaseRepo PurchaseRepository
}

// NewService creates a new pricing service.
func NewService(avgRepo AverageCostRepository, purchaseRepo PurchaseRepository) *Service {
	return &Service{avgRepo: avgRepo, purchaseRepo: purchaseRepo}
}

// PersistAverageCosts fully replaces the averageCosts collection.
func (s *Service) PersistAverageCosts(ctx context.Context, entries []AverageCost) error {
	if err := s.avgRepo.ReplaceAverageCosts(ctx, entries); err != nil {
		return fmt.Errorf("replace average costs: %w", err)
	}
	logger.Info(ctx, "average costs replaced", "products", len(entries))
	return nil
}

// PersistPurchaseTotal upserts the purchaseSummary scalar. The write is
// skipped when the value is unchanged so repeated recomputation does not
// thrash storage. Returns whether a write happened.
func (s *Service) PersistPurchaseTotal(ctx context.Context, total types.Money) (bool, error) {
	existing, found, err := s.purchaseRepo.GetPurchaseTotal(ctx)
	if err != nil {
		return false, fmt.Errorf("read purchase total: %w", err)
	}
	if found && existing.Equal(total) {
		logger.Debug(ctx, "purchase total unchanged, skipping write", "total", total)
		return false, nil
	}

	if err := s.purchaseRepo.UpsertPurchaseTotal(ctx, total); err != nil {
		return false, fmt.Errorf("upsert purchase total: %w", err)
	}
	logger.Info(ctx, "purchase total updated", "total", total)
	return true, nil
}

// AverageCostMap reads the persisted average cost set keyed by product
// code, for consumers valuing sold quantities outside a pipeline run.
func (s *Service) AverageCostMap(ctx context.Context) (map[string]types.Money, error) {
	entries, err := s.avgRepo.ListAverageCosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list average costs: %w", err)
	}
	m := make(map[string]types.Money, len(entries))
	for _, e := range entries {
		m[e.ProductCode] = e.AvgCost
	}
	return m, nil
}

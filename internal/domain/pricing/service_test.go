package pricing

import (
	"context"
	"testing"

	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
	"stockledger/internal/domain/records"
)

func receipt(code string, qty int) records.StockReceipt {
	return records.StockReceipt{ID: id.New(), ProductCode: code, Quantity: qty}
}

func TestComputeAverageCosts_WeightedByQuantity(t *testing.T) {
	r1 := receipt("P1", 10)
	r2 := receipt("P1", 5)

	costs := map[id.ID]types.Money{
		r1.ID: types.NewMoney(5), // 50
		r2.ID: types.NewMoney(8), // 40
	}

	got := ComputeAverageCosts([]records.StockReceipt{r1, r2}, costs)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	// (50 + 40) / 15 = 6.00
	if !got[0].AvgCost.Equal(types.NewMoney(6)) {
		t.Errorf("avg cost = %s, want 6", got[0].AvgCost)
	}
}

func TestComputeAverageCosts_RoundsToTwoPlaces(t *testing.T) {
	r := receipt("P1", 3)
	costs := map[id.ID]types.Money{
		r.ID: types.MustMoney("3.333"),
	}

	got := ComputeAverageCosts([]records.StockReceipt{r}, costs)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].AvgCost.String() != "3.33" {
		t.Errorf("avg cost = %s, want 3.33", got[0].AvgCost)
	}
}

func TestComputeAverageCosts_MissingOverrideContributesZero(t *testing.T) {
	r1 := receipt("P1", 10)
	r2 := receipt("P1", 10) // no unit cost entered yet

	costs := map[id.ID]types.Money{
		r1.ID: types.NewMoney(4),
	}

	got := ComputeAverageCosts([]records.StockReceipt{r1, r2}, costs)
	// 40 / 20 = 2.00
	if !got[0].AvgCost.Equal(types.NewMoney(2)) {
		t.Errorf("avg cost = %s, want 2", got[0].AvgCost)
	}
}

func TestComputeAverageCosts_SortedByProductCode(t *testing.T) {
	rb := receipt("B2", 1)
	ra := receipt("A1", 1)

	got := ComputeAverageCosts([]records.StockReceipt{rb, ra}, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].ProductCode != "A1" || got[1].ProductCode != "B2" {
		t.Errorf("entries not sorted: %v", got)
	}
}

func TestComputePurchaseSummary(t *testing.T) {
	r1 := receipt("P1", 10)
	r2 := receipt("P2", 2)

	costs := map[id.ID]types.Money{
		r1.ID: types.NewMoney(5),
		// r2 has no override
	}

	got := ComputePurchaseSummary([]records.StockReceipt{r1, r2}, costs)
	if len(got.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got.Lines))
	}
	if got.Lines[0].ReceiptID != r1.ID || got.Lines[1].ReceiptID != r2.ID {
		t.Error("lines not in receipt order")
	}
	if !got.Lines[0].LineCost.Equal(types.NewMoney(50)) {
		t.Errorf("line 0 cost = %s, want 50", got.Lines[0].LineCost)
	}
	if !got.Lines[1].LineCost.IsZero() {
		t.Errorf("line 1 cost = %s, want 0", got.Lines[1].LineCost)
	}
	if !got.TotalCost.Equal(types.NewMoney(50)) {
		t.Errorf("total = %s, want 50", got.TotalCost)
	}
}

// --- PersistPurchaseTotal change detection ---

type mockPurchaseRepo struct {
	stored  types.Money
	found   bool
	upserts int
}

func (m *mockPurchaseRepo) GetPurchaseTotal(ctx context.Context) (types.Money, bool, error) {
	return m.stored, m.found, nil
}

func (m *mockPurchaseRepo) UpsertPurchaseTotal(ctx context.Context, total types.Money) error {
	m.stored = total
	m.found = true
	m.upserts++
	return nil
}

type mockAvgRepo struct {
	entries []AverageCost
}

func (m *mockAvgRepo) ReplaceAverageCosts(ctx context.Context, entries []AverageCost) error {
	m.entries = entries
	return nil
}

func (m *mockAvgRepo) ListAverageCosts(ctx context.Context) ([]AverageCost, error) {
	return m.entries, nil
}

func TestPersistPurchaseTotal_SkipsUnchanged(t *testing.T) {
	repo := &mockPurchaseRepo{}
	svc := NewService(&mockAvgRepo{}, repo)
	ctx := context.Background()

	wrote, err := svc.PersistPurchaseTotal(ctx, types.NewMoney(50))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !wrote {
		t.Error("expected first persist to write")
	}

	wrote, err = svc.PersistPurchaseTotal(ctx, types.NewMoney(50))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wrote {
		t.Error("expected unchanged persist to skip")
	}
	if repo.upserts != 1 {
		t.Errorf("upserts = %d, want 1", repo.upserts)
	}

	wrote, err = svc.PersistPurchaseTotal(ctx, types.NewMoney(75))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !wrote {
		t.Error("expected changed persist to write")
	}
	if repo.upserts != 2 {
		t.Errorf("upserts = %d, want 2", repo.upserts)
	}
}

func TestPersistPurchaseTotal_ZeroIsPersisted(t *testing.T) {
	// A stored zero must count as "found", not as absent: persisting zero
	// twice writes once.
	repo := &mockPurchaseRepo{}
	svc := NewService(&mockAvgRepo{}, repo)
	ctx := context.Background()

	if _, err := svc.PersistPurchaseTotal(ctx, types.Zero()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wrote, err := svc.PersistPurchaseTotal(ctx, types.Zero())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wrote {
		t.Error("expected repeated zero persist to skip")
	}
}

func TestAverageCostMap(t *testing.T) {
	avgRepo := &mockAvgRepo{entries: []AverageCost{
		{ProductCode: "P1", AvgCost: types.NewMoney(5)},
		{ProductCode: "P2", AvgCost: types.MustMoney("3.33")},
	}}
	svc := NewService(avgRepo, &mockPurchaseRepo{})

	m, err := svc.AverageCostMap(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(m))
	}
	if !m["P1"].Equal(types.NewMoney(5)) {
		t.Errorf("P1 = %s, want 5", m["P1"])
	}
}

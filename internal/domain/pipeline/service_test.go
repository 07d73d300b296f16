package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
	"stockledger/internal/domain/pricing"
	"stockledger/internal/domain/profit"
	"stockledger/internal/domain/records"
)

// Source stubs returning fixed snapshots.

type stubExpenses struct {
	items []records.Expense
	err   error
}

func (s *stubExpenses) Create(ctx context.Context, e *records.Expense) error { return nil }
func (s *stubExpenses) List(ctx context.Context) ([]records.Expense, error)  { return s.items, s.err }

type stubIncome struct{ items []records.Income }

func (s *stubIncome) Create(ctx context.Context, in *records.Income) error { return nil }
func (s *stubIncome) List(ctx context.Context) ([]records.Income, error)   { return s.items, nil }

type stubReceipts struct{ items []records.StockReceipt }

func (s *stubReceipts) Create(ctx context.Context, r *records.StockReceipt) error { return nil }
func (s *stubReceipts) GetByID(ctx context.Context, receiptID id.ID) (*records.StockReceipt, error) {
	return nil, errors.New("not implemented")
}
func (s *stubReceipts) List(ctx context.Context) ([]records.StockReceipt, error) {
	return s.items, nil
}

type stubCosts struct{ costs map[id.ID]types.Money }

func (s *stubCosts) Set(ctx context.Context, receiptID id.ID, cost types.Money) error { return nil }
func (s *stubCosts) Map(ctx context.Context) (map[id.ID]types.Money, error)           { return s.costs, nil }

type stubSales struct{ items []records.Sale }

func (s *stubSales) Create(ctx context.Context, sale *records.Sale) error { return nil }
func (s *stubSales) Update(ctx context.Context, sale *records.Sale) error { return nil }
func (s *stubSales) GetByID(ctx context.Context, saleID id.ID) (*records.Sale, error) {
	return nil, errors.New("not implemented")
}
func (s *stubSales) List(ctx context.Context) ([]records.Sale, error) { return s.items, nil }

// Derived-view repo fakes.

type fakeAvgRepo struct {
	entries  []pricing.AverageCost
	replaces int
	err      error
}

func (f *fakeAvgRepo) ReplaceAverageCosts(ctx context.Context, entries []pricing.AverageCost) error {
	if f.err != nil {
		return f.err
	}
	f.entries = entries
	f.replaces++
	return nil
}

func (f *fakeAvgRepo) ListAverageCosts(ctx context.Context) ([]pricing.AverageCost, error) {
	return f.entries, nil
}

type fakePurchaseRepo struct {
	total   types.Money
	found   bool
	upserts int
}

func (f *fakePurchaseRepo) GetPurchaseTotal(ctx context.Context) (types.Money, bool, error) {
	return f.total, f.found, nil
}

func (f *fakePurchaseRepo) UpsertPurchaseTotal(ctx context.Context, total types.Money) error {
	f.total = total
	f.found = true
	f.upserts++
	return nil
}

type fakeProfitRepo struct {
	snapshots map[string]*profit.Snapshot
	upserts   int
}

func newFakeProfitRepo() *fakeProfitRepo {
	return &fakeProfitRepo{snapshots: make(map[string]*profit.Snapshot)}
}

func (f *fakeProfitRepo) GetSnapshot(ctx context.Context, monthKey string) (*profit.Snapshot, error) {
	return f.snapshots[monthKey], nil
}

func (f *fakeProfitRepo) UpsertSnapshot(ctx context.Context, snap *profit.Snapshot) error {
	f.snapshots[snap.MonthKey] = snap
	f.upserts++
	return nil
}

func (f *fakeProfitRepo) ListSnapshots(ctx context.Context) ([]profit.Snapshot, error) {
	out := make([]profit.Snapshot, 0, len(f.snapshots))
	for _, s := range f.snapshots {
		out = append(out, *s)
	}
	return out, nil
}

type fixture struct {
	svc      *Service
	avg      *fakeAvgRepo
	purchase *fakePurchaseRepo
	profit   *fakeProfitRepo
	expenses *stubExpenses
}

// newFixture wires a pipeline over a June 2024 dataset: one expense of
// 100, one income of 500, a 10-unit receipt of P1 at unit cost 5, and a
// delivered 4-unit sale.
func newFixture() *fixture {
	receiptID := id.New()

	f := &fixture{
		avg:      &fakeAvgRepo{},
		purchase: &fakePurchaseRepo{},
		profit:   newFakeProfitRepo(),
		expenses: &stubExpenses{items: []records.Expense{
			{ID: id.New(), Date: "2024-06-05", Amount: types.NewMoney(100)},
		}},
	}

	f.svc = NewService(
		f.expenses,
		&stubIncome{items: []records.Income{
			{ID: id.New(), Date: "2024-06-10", Amount: types.NewMoney(500)},
		}},
		&stubReceipts{items: []records.StockReceipt{
			{ID: receiptID, Date: "2024-06-01", ProductCode: "P1", Quantity: 10},
		}},
		&stubCosts{costs: map[id.ID]types.Money{
			receiptID: types.NewMoney(5),
		}},
		&stubSales{items: []records.Sale{
			{
				ID:       id.New(),
				Date:     "2024-06-15",
				Status:   records.StatusDelivered,
				Products: []records.SaleLine{{ProductCode: "P1", Quantity: 4}},
			},
		}},
		pricing.NewService(f.avg, f.purchase),
		profit.NewService(f.profit),
	)
	return f
}

func june2024() types.Month {
	return types.Month{Year: 2024, Month: time.June}
}

func TestRun_PersistsAllViews(t *testing.T) {
	f := newFixture()

	res, err := f.svc.Run(context.Background(), june2024())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.WroteAverageCosts || !res.WrotePurchase || !res.WroteProfit {
		t.Errorf("writes = avg:%v purchase:%v profit:%v, want all true",
			res.WroteAverageCosts, res.WrotePurchase, res.WroteProfit)
	}

	if len(res.AverageCosts) != 1 || !res.AverageCosts[0].AvgCost.Equal(types.NewMoney(5)) {
		t.Errorf("average costs = %v", res.AverageCosts)
	}
	if !res.Purchase.TotalCost.Equal(types.NewMoney(50)) {
		t.Errorf("purchase total = %s, want 50", res.Purchase.TotalCost)
	}
	if !res.Profit.ProfitLoss.Equal(types.NewMoney(380)) {
		t.Errorf("profit = %s, want 380", res.Profit.ProfitLoss)
	}

	snap := f.profit.snapshots["2024-6"]
	if snap == nil {
		t.Fatal("monthly snapshot not persisted")
	}
	if !snap.TotalProductCost.Equal(types.NewMoney(20)) {
		t.Errorf("snapshot product cost = %s, want 20", snap.TotalProductCost)
	}
}

func TestRun_UnchangedRunSkipsChangeDetectedWrites(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Run(ctx, june2024()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := f.svc.Run(ctx, june2024())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Average costs are replaced unconditionally; the scalar and the
	// snapshot are change-detected.
	if !res.WroteAverageCosts {
		t.Error("expected average costs to be rewritten")
	}
	if res.WrotePurchase {
		t.Error("expected purchase total write to be skipped")
	}
	if res.WroteProfit {
		t.Error("expected profit snapshot write to be skipped")
	}
	if f.purchase.upserts != 1 {
		t.Errorf("purchase upserts = %d, want 1", f.purchase.upserts)
	}
	if f.profit.upserts != 1 {
		t.Errorf("profit upserts = %d, want 1", f.profit.upserts)
	}
}

func TestRun_SourceReadFailureAborts(t *testing.T) {
	f := newFixture()
	f.expenses.err = errors.New("connection refused")

	_, err := f.svc.Run(context.Background(), june2024())
	if err == nil {
		t.Fatal("expected error")
	}
	if f.avg.replaces != 0 || f.purchase.upserts != 0 || f.profit.upserts != 0 {
		t.Error("no view may be written when a source read fails")
	}
}

func TestRun_SiblingFailureDoesNotBlockOthers(t *testing.T) {
	f := newFixture()
	f.avg.err = errors.New("disk full")

	res, err := f.svc.Run(context.Background(), june2024())
	if err == nil {
		t.Fatal("expected joined error from failed sibling")
	}

	if res.WroteAverageCosts {
		t.Error("failed average cost persist reported as written")
	}
	if f.purchase.upserts != 1 {
		t.Errorf("purchase upserts = %d, want 1", f.purchase.upserts)
	}

	// Profit is valued from the computed averages, so it still persists.
	if f.profit.upserts != 1 {
		t.Errorf("profit upserts = %d, want 1", f.profit.upserts)
	}
	if !res.Profit.ProfitLoss.Equal(types.NewMoney(380)) {
		t.Errorf("profit = %s, want 380", res.Profit.ProfitLoss)
	}
}

func TestRun_EmptyMonthNotPersisted(t *testing.T) {
	f := &fixture{
		avg:      &fakeAvgRepo{},
		purchase: &fakePurchaseRepo{},
		profit:   newFakeProfitRepo(),
		expenses: &stubExpenses{},
	}
	f.svc = NewService(
		f.expenses,
		&stubIncome{},
		&stubReceipts{},
		&stubCosts{},
		&stubSales{},
		pricing.NewService(f.avg, f.purchase),
		profit.NewService(f.profit),
	)

	res, err := f.svc.Run(context.Background(), june2024())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.WroteProfit {
		t.Error("all-zero month must not produce a snapshot")
	}
	if f.profit.upserts != 0 {
		t.Errorf("profit upserts = %d, want 0", f.profit.upserts)
	}
}

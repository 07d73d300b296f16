package records

import (
	"context"
	"testing"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

// In-memory repositories for service validation tests.

type memExpenseRepo struct{ items []Expense }

func (m *memExpenseRepo) Create(ctx context.Context, e *Expense) error {
	m.items = append(m.items, *e)
	return nil
}
func (m *memExpenseRepo) List(ctx context.Context) ([]Expense, error) { return m.items, nil }

type memIncomeRepo struct{ items []Income }

func (m *memIncomeRepo) Create(ctx context.Context, in *Income) error {
	m.items = append(m.items, *in)
	return nil
}
func (m *memIncomeRepo) List(ctx context.Context) ([]Income, error) { return m.items, nil }

type memReceiptRepo struct{ items map[id.ID]StockReceipt }

func newMemReceiptRepo() *memReceiptRepo {
	return &memReceiptRepo{items: make(map[id.ID]StockReceipt)}
}

func (m *memReceiptRepo) Create(ctx context.Context, r *StockReceipt) error {
	m.items[r.ID] = *r
	return nil
}

func (m *memReceiptRepo) GetByID(ctx context.Context, receiptID id.ID) (*StockReceipt, error) {
	r, ok := m.items[receiptID]
	if !ok {
		return nil, apperror.NewNotFound("stock receipt", receiptID)
	}
	return &r, nil
}

func (m *memReceiptRepo) List(ctx context.Context) ([]StockReceipt, error) {
	out := make([]StockReceipt, 0, len(m.items))
	for _, r := range m.items {
		out = append(out, r)
	}
	return out, nil
}

type memUnitCostRepo struct{ costs map[id.ID]types.Money }

func newMemUnitCostRepo() *memUnitCostRepo {
	return &memUnitCostRepo{costs: make(map[id.ID]types.Money)}
}

func (m *memUnitCostRepo) Set(ctx context.Context, receiptID id.ID, cost types.Money) error {
	m.costs[receiptID] = cost
	return nil
}

func (m *memUnitCostRepo) Map(ctx context.Context) (map[id.ID]types.Money, error) {
	return m.costs, nil
}

type memSaleRepo struct{ items map[id.ID]Sale }

func newMemSaleRepo() *memSaleRepo { return &memSaleRepo{items: make(map[id.ID]Sale)} }

func (m *memSaleRepo) Create(ctx context.Context, s *Sale) error {
	m.items[s.ID] = *s
	return nil
}

func (m *memSaleRepo) Update(ctx context.Context, s *Sale) error {
	if _, ok := m.items[s.ID]; !ok {
		return apperror.NewNotFound("sale", s.ID)
	}
	m.items[s.ID] = *s
	return nil
}

func (m *memSaleRepo) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	s, ok := m.items[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID)
	}
	return &s, nil
}

func (m *memSaleRepo) List(ctx context.Context) ([]Sale, error) {
	out := make([]Sale, 0, len(m.items))
	for _, s := range m.items {
		out = append(out, s)
	}
	return out, nil
}

func newTestService() *Service {
	return NewService(
		&memExpenseRepo{},
		&memIncomeRepo{},
		newMemReceiptRepo(),
		newMemUnitCostRepo(),
		newMemSaleRepo(),
	)
}

func TestAddExpense_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name    string
		date    string
		amount  types.Money
		wantErr bool
	}{
		{"valid", "2024-06-05", types.NewMoney(100), false},
		{"zero amount allowed", "2024-06-05", types.Zero(), false},
		{"bad date", "05/06/2024", types.NewMoney(100), true},
		{"empty date", "", types.NewMoney(100), true},
		{"negative amount", "2024-06-05", types.NewMoney(-5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddExpense(ctx, tt.date, tt.amount)
			if (err != nil) != tt.wantErr {
				t.Errorf("AddExpense(%q, %s) error = %v, wantErr %v", tt.date, tt.amount, err, tt.wantErr)
			}
		})
	}
}

func TestAddStockReceipt_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name    string
		receipt StockReceipt
		wantErr bool
	}{
		{"valid", StockReceipt{Date: "2024-06-01", ProductCode: "P1", Quantity: 10}, false},
		{"missing code", StockReceipt{Date: "2024-06-01", ProductCode: "  ", Quantity: 10}, true},
		{"zero quantity", StockReceipt{Date: "2024-06-01", ProductCode: "P1", Quantity: 0}, true},
		{"negative quantity", StockReceipt{Date: "2024-06-01", ProductCode: "P1", Quantity: -1}, true},
		{"bad date", StockReceipt{Date: "June 1", ProductCode: "P1", Quantity: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddStockReceipt(ctx, tt.receipt)
			if (err != nil) != tt.wantErr {
				t.Errorf("AddStockReceipt error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetUnitCost(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	receipt, err := svc.AddStockReceipt(ctx, StockReceipt{
		Date: "2024-06-01", ProductCode: "P1", Quantity: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.SetUnitCost(ctx, receipt.ID, types.NewMoney(5)); err != nil {
		t.Errorf("SetUnitCost failed: %v", err)
	}

	// Re-entry overwrites (last write wins).
	if err := svc.SetUnitCost(ctx, receipt.ID, types.NewMoney(6)); err != nil {
		t.Errorf("SetUnitCost re-entry failed: %v", err)
	}

	if err := svc.SetUnitCost(ctx, receipt.ID, types.NewMoney(-1)); err == nil {
		t.Error("expected error for negative unit cost")
	}

	if err := svc.SetUnitCost(ctx, id.New(), types.NewMoney(5)); err == nil {
		t.Error("expected error for unknown receipt")
	}
}

func TestAddSale_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	valid := Sale{
		Date:   "2024-06-15",
		Status: StatusProcessing,
		Products: []SaleLine{
			{ProductCode: "P1", Quantity: 4},
		},
	}

	if _, err := svc.AddSale(ctx, valid); err != nil {
		t.Errorf("AddSale(valid) failed: %v", err)
	}

	bad := valid
	bad.Status = "Shipped"
	if _, err := svc.AddSale(ctx, bad); err == nil {
		t.Error("expected error for unknown status")
	}

	bad = valid
	bad.Products = nil
	if _, err := svc.AddSale(ctx, bad); err == nil {
		t.Error("expected error for sale without lines")
	}

	bad = valid
	bad.Products = []SaleLine{{ProductCode: "P1", Quantity: 0}}
	if _, err := svc.AddSale(ctx, bad); err == nil {
		t.Error("expected error for non-positive line quantity")
	}
}

func TestUpdateSale(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.AddSale(ctx, Sale{
		Date:     "2024-06-15",
		Status:   StatusProcessing,
		Products: []SaleLine{{ProductCode: "P1", Quantity: 4}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated := *created
	updated.Status = StatusDelivered
	got, err := svc.UpdateSale(ctx, updated)
	if err != nil {
		t.Fatalf("UpdateSale failed: %v", err)
	}
	if got.Status != StatusDelivered {
		t.Errorf("status = %s, want Delivered", got.Status)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Error("UpdateSale must preserve CreatedAt")
	}

	missing := updated
	missing.ID = id.New()
	if _, err := svc.UpdateSale(ctx, missing); err == nil {
		t.Error("expected error for unknown sale id")
	}

	noID := updated
	noID.ID = id.Nil()
	if _, err := svc.UpdateSale(ctx, noID); err == nil {
		t.Error("expected error for missing sale id")
	}
}

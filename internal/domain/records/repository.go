package records

import (
	"context"

	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

// Repositories expose full-scan reads (no filtering or pagination; the
// collections are small) plus the write paths used by data entry.

// ExpenseRepository persists expense records.
type ExpenseRepository interface {
	Create(ctx context.Context, e *Expense) error
	List(ctx context.Context) ([]Expense, error)
}

// IncomeRepository persists income records.
type IncomeRepository interface {
	Create(ctx context.Context, in *Income) error
	List(ctx context.Context) ([]Income, error)
}

// StockReceiptRepository persists stock-in entries.
type StockReceiptRepository interface {
	Create(ctx context.Context, r *StockReceipt) error
	GetByID(ctx context.Context, receiptID id.ID) (*StockReceipt, error)
	List(ctx context.Context) ([]StockReceipt, error)
}

// UnitCostRepository persists unit cost overrides keyed by receipt id.
type UnitCostRepository interface {
	// Set upserts the cost for a receipt (last write wins).
	Set(ctx context.Context, receiptID id.ID, cost types.Money) error

	// Map returns all overrides keyed by receipt id.
	Map(ctx context.Context) (map[id.ID]types.Money, error)
}

// SaleRepository persists sale orders.
type SaleRepository interface {
	Create(ctx context.Context, s *Sale) error
	Update(ctx context.Context, s *Sale) error
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)
	List(ctx context.Context) ([]Sale, error)
}

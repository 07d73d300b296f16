package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
	"stockledger/pkg/logger"
)

// Service provides validated write and list operations for the raw
// collections. Dates are validated on entry; reads still tolerate
// malformed stored dates (aggregation excludes them silently).
type Service struct {
	expenses ExpenseRepository
	income   IncomeRepository
	receipts StockReceiptRepository
	costs    UnitCostRepository
	sales    SaleRepository
}

// NewService creates a new records service.
func NewService(
	expenses ExpenseRepository,
	income IncomeRepository,
	receipts StockReceiptRepository,
	costs UnitCostRepository,
	sales SaleRepository,
) *Service {
	return &Service{
		expenses: expenses,
		income:   income,
		receipts: receipts,
		costs:    costs,
		sales:    sales,
	}
}

// AddExpense validates and stores an expense record.
func (s *Service) AddExpense(ctx context.Context, date string, amount types.Money) (*Expense, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, apperror.NewValidation("amount must not be negative")
	}

	e := &Expense{
		ID:        id.New(),
		Date:      date,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.expenses.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	logger.Info(ctx, "expense recorded", "id", e.ID, "date", date, "amount", amount)
	return e, nil
}

// AddIncome validates and stores an income record.
func (s *Service) AddIncome(ctx context.Context, date string, amount types.Money) (*Income, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, apperror.NewValidation("amount must not be negative")
	}

	in := &Income{
		ID:        id.New(),
		Date:      date,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.income.Create(ctx, in); err != nil {
		return nil, fmt.Errorf("create income: %w", err)
	}

	logger.Info(ctx, "income recorded", "id", in.ID, "date", date, "amount", amount)
	return in, nil
}

// AddStockReceipt validates and stores a stock-in entry.
func (s *Service) AddStockReceipt(ctx context.Context, r StockReceipt) (*StockReceipt, error) {
	if err := validateDate(r.Date); err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.ProductCode) == "" {
		return nil, apperror.NewValidation("productCode is required")
	}
	if r.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be a positive integer")
	}

	r.ID = id.New()
	r.ProductCode = strings.TrimSpace(r.ProductCode)
	r.ProductDetails = strings.TrimSpace(r.ProductDetails)
	r.CreatedAt = time.Now().UTC()

	if err := s.receipts.Create(ctx, &r); err != nil {
		return nil, fmt.Errorf("create stock receipt: %w", err)
	}

	logger.Info(ctx, "stock receipt recorded",
		"id", r.ID,
		"product_code", r.ProductCode,
		"quantity", r.Quantity,
	)
	return &r, nil
}

// SetUnitCost upserts the unit cost override for a stock receipt.
// The receipt must exist; the cost may be re-entered any number of times.
func (s *Service) SetUnitCost(ctx context.Context, receiptID id.ID, cost types.Money) error {
	if cost.IsNegative() {
		return apperror.NewValidation("unitCost must not be negative")
	}

	if _, err := s.receipts.GetByID(ctx, receiptID); err != nil {
		return fmt.Errorf("resolve receipt: %w", err)
	}

	if err := s.costs.Set(ctx, receiptID, cost); err != nil {
		return fmt.Errorf("set unit cost: %w", err)
	}

	logger.Info(ctx, "unit cost set", "receipt_id", receiptID, "unit_cost", cost)
	return nil
}

// AddSale validates and stores a sale order.
func (s *Service) AddSale(ctx context.Context, sale Sale) (*Sale, error) {
	if err := validateSale(&sale); err != nil {
		return nil, err
	}

	sale.ID = id.New()
	now := time.Now().UTC()
	sale.CreatedAt = now
	sale.UpdatedAt = now

	if err := s.sales.Create(ctx, &sale); err != nil {
		return nil, fmt.Errorf("create sale: %w", err)
	}

	logger.Info(ctx, "sale recorded",
		"id", sale.ID,
		"status", sale.Status,
		"lines", len(sale.Products),
	)
	return &sale, nil
}

// UpdateSale replaces an existing sale order (status changes, line edits).
func (s *Service) UpdateSale(ctx context.Context, sale Sale) (*Sale, error) {
	if id.IsNil(sale.ID) {
		return nil, apperror.NewValidation("sale id is required")
	}
	if err := validateSale(&sale); err != nil {
		return nil, err
	}

	existing, err := s.sales.GetByID(ctx, sale.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve sale: %w", err)
	}

	sale.CreatedAt = existing.CreatedAt
	sale.UpdatedAt = time.Now().UTC()

	if err := s.sales.Update(ctx, &sale); err != nil {
		return nil, fmt.Errorf("update sale: %w", err)
	}

	logger.Info(ctx, "sale updated", "id", sale.ID, "status", sale.Status)
	return &sale, nil
}

// ListExpenses returns all expense records.
func (s *Service) ListExpenses(ctx context.Context) ([]Expense, error) {
	return s.expenses.List(ctx)
}

// ListIncome returns all income records.
func (s *Service) ListIncome(ctx context.Context) ([]Income, error) {
	return s.income.List(ctx)
}

// ListStockReceipts returns all stock-in entries.
func (s *Service) ListStockReceipts(ctx context.Context) ([]StockReceipt, error) {
	return s.receipts.List(ctx)
}

// ListSales returns all sale orders.
func (s *Service) ListSales(ctx context.Context) ([]Sale, error) {
	return s.sales.List(ctx)
}

func validateSale(sale *Sale) error {
	if err := validateDate(sale.Date); err != nil {
		return err
	}
	if !sale.Status.Valid() {
		return apperror.NewValidation("unknown sale status").WithDetail("status", sale.Status)
	}
	if len(sale.Products) == 0 {
		return apperror.NewValidation("sale must have at least one product line")
	}
	for i, line := range sale.Products {
		if strings.TrimSpace(line.ProductCode) == "" {
			return apperror.NewValidation(fmt.Sprintf("line %d: productCode is required", i))
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation(fmt.Sprintf("line %d: quantity must be a positive integer", i))
		}
	}
	return nil
}

func validateDate(date string) error {
	if _, ok := types.ParseDate(date); !ok {
		return apperror.NewValidation("date must be formatted YYYY-MM-DD").WithDetail("date", date)
	}
	return nil
}

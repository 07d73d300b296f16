package record_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/domain/records"
	"stockledger/internal/infrastructure/storage/postgres"
)

const stockInTable = "stock_in"

// StockReceiptRepo implements records.StockReceiptRepository.
type StockReceiptRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewStockReceiptRepo creates a new stock receipt repository.
func NewStockReceiptRepo(txm *postgres.TxManager) *StockReceiptRepo {
	return &StockReceiptRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new stock-in entry.
func (r *StockReceiptRepo) Create(ctx context.Context, rec *records.StockReceipt) error {
	q := r.builder.Insert(stockInTable).
		Columns("id", "date", "product_code", "product_details", "quantity", "created_at").
		Values(rec.ID, rec.Date, rec.ProductCode, rec.ProductDetails, rec.Quantity, rec.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert stock receipt: %w", err)
	}
	return nil
}

// GetByID returns a single stock-in entry.
func (r *StockReceiptRepo) GetByID(ctx context.Context, receiptID id.ID) (*records.StockReceipt, error) {
	q := r.builder.Select("id", "date", "product_code", "product_details", "quantity", "created_at").
		From(stockInTable).
		Where(squirrel.Eq{"id": receiptID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rec records.StockReceipt
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &rec, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("stock receipt", receiptID)
		}
		return nil, fmt.Errorf("get stock receipt: %w", err)
	}
	return &rec, nil
}

// List returns all stock-in entries in creation order.
func (r *StockReceiptRepo) List(ctx context.Context) ([]records.StockReceipt, error) {
	q := r.builder.Select("id", "date", "product_code", "product_details", "quantity", "created_at").
		From(stockInTable).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var out []records.StockReceipt
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("scan stock receipts: %w", err)
	}
	return out, nil
}

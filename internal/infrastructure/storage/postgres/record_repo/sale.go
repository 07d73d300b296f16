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

const salesTable = "sales"

var saleColumns = []string{
	"id", "date", "status", "customer_name", "phone", "address",
	"products", "created_at", "updated_at",
}

// SaleRepo implements records.SaleRepository. Product lines are stored
// as a JSONB document on the sale row, like the source collection.
type SaleRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new sale order.
func (r *SaleRepo) Create(ctx context.Context, s *records.Sale) error {
	q := r.builder.Insert(salesTable).
		Columns(saleColumns...).
		Values(s.ID, s.Date, s.Status, s.CustomerName, s.Phone, s.Address,
			s.Products, s.CreatedAt, s.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// Update replaces an existing sale order.
func (r *SaleRepo) Update(ctx context.Context, s *records.Sale) error {
	q := r.builder.Update(salesTable).
		Set("date", s.Date).
		Set("status", s.Status).
		Set("customer_name", s.CustomerName).
		Set("phone", s.Phone).
		Set("address", s.Address).
		Set("products", s.Products).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("sale", s.ID)
	}
	return nil
}

// GetByID returns a single sale order.
func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*records.Sale, error) {
	q := r.builder.Select(saleColumns...).
		From(salesTable).
		Where(squirrel.Eq{"id": saleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var s records.Sale
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("sale", saleID)
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// List returns all sale orders, newest date first.
func (r *SaleRepo) List(ctx context.Context) ([]records.Sale, error) {
	q := r.builder.Select(saleColumns...).
		From(salesTable).
		OrderBy("date DESC", "created_at DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var out []records.Sale
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("scan sales: %w", err)
	}
	return out, nil
}

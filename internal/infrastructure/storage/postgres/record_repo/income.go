package record_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockledger/internal/domain/records"
	"stockledger/internal/infrastructure/storage/postgres"
)

const incomeTable = "income"

// IncomeRepo implements records.IncomeRepository.
type IncomeRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewIncomeRepo creates a new income repository.
func NewIncomeRepo(txm *postgres.TxManager) *IncomeRepo {
	return &IncomeRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new income record.
func (r *IncomeRepo) Create(ctx context.Context, in *records.Income) error {
	q := r.builder.Insert(incomeTable).
		Columns("id", "date", "amount", "created_at").
		Values(in.ID, in.Date, in.Amount, in.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert income: %w", err)
	}
	return nil
}

// List returns all income records.
func (r *IncomeRepo) List(ctx context.Context) ([]records.Income, error) {
	q := r.builder.Select("id", "date", "amount", "created_at").
		From(incomeTable).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var out []records.Income
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("scan income: %w", err)
	}
	return out, nil
}

// Package record_repo provides PostgreSQL implementations for the raw
// record collection repositories. All reads are full scans; the
// collections are small and externally written.
package record_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockledger/internal/domain/records"
	"stockledger/internal/infrastructure/storage/postgres"
)

const expensesTable = "expenses"

// ExpenseRepo implements records.ExpenseRepository.
type ExpenseRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewExpenseRepo creates a new expense repository.
func NewExpenseRepo(txm *postgres.TxManager) *ExpenseRepo {
	return &ExpenseRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new expense record.
func (r *ExpenseRepo) Create(ctx context.Context, e *records.Expense) error {
	q := r.builder.Insert(expensesTable).
		Columns("id", "date", "amount", "created_at").
		Values(e.ID, e.Date, e.Amount, e.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// List returns all expense records.
func (r *ExpenseRepo) List(ctx context.Context) ([]records.Expense, error) {
	q := r.builder.Select("id", "date", "amount", "created_at").
		From(expensesTable).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var out []records.Expense
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("scan expenses: %w", err)
	}
	return out, nil
}

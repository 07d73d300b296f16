package derived_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stockledger/internal/domain/profit"
	"stockledger/internal/infrastructure/storage/postgres"
	"stockledger/pkg/logger"
)

const monthlyProfitTable = "monthly_profit"

var monthlyProfitColumns = []string{
	"month_key", "month", "expenses", "income",
	"profit_loss", "total_product_cost", "product_data", "timestamp",
}

// MonthlyProfitRepo persists monthlyProfit snapshots keyed "YYYY-M".
type MonthlyProfitRepo struct {
	txm       *postgres.TxManager
	changeLog *postgres.ChangeLog
	builder   squirrel.StatementBuilderType
}

// NewMonthlyProfitRepo creates a new monthly profit repository.
func NewMonthlyProfitRepo(txm *postgres.TxManager, changeLog *postgres.ChangeLog) *MonthlyProfitRepo {
	return &MonthlyProfitRepo{
		txm:       txm,
		changeLog: changeLog,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetSnapshot returns the snapshot for a month key, or nil when absent.
func (r *MonthlyProfitRepo) GetSnapshot(ctx context.Context, monthKey string) (*profit.Snapshot, error) {
	q := r.builder.Select(monthlyProfitColumns...).
		From(monthlyProfitTable).
		Where(squirrel.Eq{"month_key": monthKey})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var snap profit.Snapshot
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &snap, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return &snap, nil
}

// UpsertSnapshot writes the snapshot under its month key and appends a
// changelog entry with the field-level diff.
func (r *MonthlyProfitRepo) UpsertSnapshot(ctx context.Context, snap *profit.Snapshot) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := r.GetSnapshot(ctx, snap.MonthKey)
		if err != nil {
			return err
		}

		q := r.builder.Insert(monthlyProfitTable).
			Columns(monthlyProfitColumns...).
			Values(snap.MonthKey, snap.Month, snap.Expenses, snap.Income,
				snap.ProfitLoss, snap.TotalProductCost, snap.Products, snap.Timestamp).
			Suffix(`ON CONFLICT (month_key) DO UPDATE SET
				month = EXCLUDED.month,
				expenses = EXCLUDED.expenses,
				income = EXCLUDED.income,
				profit_loss = EXCLUDED.profit_loss,
				total_product_cost = EXCLUDED.total_product_cost,
				product_data = EXCLUDED.product_data,
				timestamp = EXCLUDED.timestamp`)

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build upsert: %w", err)
		}
		if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("upsert snapshot: %w", err)
		}

		oldState := map[string]any{}
		if old != nil {
			oldState = snapshotState(old)
		}
		changes := postgres.Diff(oldState, snapshotState(snap))
		if err := r.changeLog.Record(ctx, "monthlyProfit", snap.MonthKey, changes); err != nil {
			// The changelog is a trail, not the source of truth.
			logger.Warn(ctx, "changelog write failed", "view", "monthlyProfit", "error", err)
		}
		return nil
	})
}

// ListSnapshots returns all snapshots sorted by timestamp descending.
func (r *MonthlyProfitRepo) ListSnapshots(ctx context.Context) ([]profit.Snapshot, error) {
	q := r.builder.Select(monthlyProfitColumns...).
		From(monthlyProfitTable).
		OrderBy("timestamp DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var out []profit.Snapshot
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("scan snapshots: %w", err)
	}
	return out, nil
}

func snapshotState(s *profit.Snapshot) map[string]any {
	return map[string]any{
		"expenses":         s.Expenses.String(),
		"income":           s.Income.String(),
		"profitLoss":       s.ProfitLoss.String(),
		"totalProductCost": s.TotalProductCost.String(),
	}
}

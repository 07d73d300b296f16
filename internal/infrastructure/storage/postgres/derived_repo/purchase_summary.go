package derived_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"stockledger/internal/core/types"
	"stockledger/internal/infrastructure/storage/postgres"
	"stockledger/pkg/logger"
)

const (
	purchaseSummaryTable = "purchase_summary"

	// purchaseTotalDocID is the fixed key of the single scalar document.
	purchaseTotalDocID = "totalPurchaseCost"
)

// PurchaseSummaryRepo persists the purchaseSummary scalar.
type PurchaseSummaryRepo struct {
	txm       *postgres.TxManager
	changeLog *postgres.ChangeLog
	builder   squirrel.StatementBuilderType
}

// NewPurchaseSummaryRepo creates a new purchase summary repository.
func NewPurchaseSummaryRepo(txm *postgres.TxManager, changeLog *postgres.ChangeLog) *PurchaseSummaryRepo {
	return &PurchaseSummaryRepo{
		txm:       txm,
		changeLog: changeLog,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetPurchaseTotal returns the persisted total and whether it exists.
func (r *PurchaseSummaryRepo) GetPurchaseTotal(ctx context.Context) (types.Money, bool, error) {
	q := r.builder.Select("value").
		From(purchaseSummaryTable).
		Where(squirrel.Eq{"doc_id": purchaseTotalDocID})

	sql, args, err := q.ToSql()
	if err != nil {
		return types.Zero(), false, fmt.Errorf("build select: %w", err)
	}

	var value types.Money
	err = r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Zero(), false, nil
	}
	if err != nil {
		return types.Zero(), false, fmt.Errorf("get purchase total: %w", err)
	}
	return value, true, nil
}

// UpsertPurchaseTotal writes the scalar and appends a changelog entry.
func (r *PurchaseSummaryRepo) UpsertPurchaseTotal(ctx context.Context, total types.Money) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		old, found, err := r.GetPurchaseTotal(ctx)
		if err != nil {
			return err
		}

		q := r.builder.Insert(purchaseSummaryTable).
			Columns("doc_id", "value").
			Values(purchaseTotalDocID, total).
			Suffix("ON CONFLICT (doc_id) DO UPDATE SET value = EXCLUDED.value")

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build upsert: %w", err)
		}
		if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("upsert purchase total: %w", err)
		}

		oldState := map[string]any{}
		if found {
			oldState["value"] = old.String()
		}
		changes := postgres.Diff(oldState, map[string]any{"value": total.String()})
		if err := r.changeLog.Record(ctx, "purchaseSummary", purchaseTotalDocID, changes); err != nil {
			// The changelog is a trail, not the source of truth.
			logger.Warn(ctx, "changelog write failed", "view", "purchaseSummary", "error", err)
		}
		return nil
	})
}

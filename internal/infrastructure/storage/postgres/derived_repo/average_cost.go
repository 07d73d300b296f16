// Package derived_repo provides PostgreSQL implementations for the
// derived-view repositories (averageCosts, purchaseSummary,
// monthlyProfit). Writes use upsert-by-key with last-write-wins
// semantics, mirroring the external document contract.
package derived_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockledger/internal/domain/pricing"
	"stockledger/internal/infrastructure/storage/postgres"
)

const averageCostsTable = "average_costs"

// AverageCostRepo persists the averageCosts collection.
type AverageCostRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewAverageCostRepo creates a new average cost repository.
func NewAverageCostRepo(txm *postgres.TxManager) *AverageCostRepo {
	return &AverageCostRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ReplaceAverageCosts atomically replaces the collection: product codes
// absent from the fresh set are removed, present ones upserted.
func (r *AverageCostRepo) ReplaceAverageCosts(ctx context.Context, entries []pricing.AverageCost) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		querier := r.txm.GetQuerier(ctx)

		if len(entries) == 0 {
			if _, err := querier.Exec(ctx, "DELETE FROM "+averageCostsTable); err != nil {
				return fmt.Errorf("clear average costs: %w", err)
			}
			return nil
		}

		codes := make([]string, 0, len(entries))
		for _, e := range entries {
			codes = append(codes, e.ProductCode)
		}

		del := r.builder.Delete(averageCostsTable).
			Where(squirrel.NotEq{"product_code": codes})
		sql, args, err := del.ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("delete stale average costs: %w", err)
		}

		ins := r.builder.Insert(averageCostsTable).
			Columns("product_code", "avg_cost")
		for _, e := range entries {
			ins = ins.Values(e.ProductCode, e.AvgCost)
		}
		ins = ins.Suffix("ON CONFLICT (product_code) DO UPDATE SET avg_cost = EXCLUDED.avg_cost")

		sql, args, err = ins.ToSql()
		if err != nil {
			return fmt.Errorf("build upsert: %w", err)
		}
		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("upsert average costs: %w", err)
		}
		return nil
	})
}

// ListAverageCosts returns the persisted set ordered by product code.
func (r *AverageCostRepo) ListAverageCosts(ctx context.Context) ([]pricing.AverageCost, error) {
	q := r.builder.Select("product_code", "avg_cost").
		From(averageCostsTable).
		OrderBy("product_code")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var out []pricing.AverageCost
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("scan average costs: %w", err)
	}
	return out, nil
}

package record_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
	"stockledger/internal/domain/records"
	"stockledger/internal/infrastructure/storage/postgres"
)

const unitCostsTable = "unit_costs"

// UnitCostRepo implements records.UnitCostRepository. The collection is
// keyed by stock receipt id with last-write-wins upserts, mirroring the
// external document contract.
type UnitCostRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewUnitCostRepo creates a new unit cost repository.
func NewUnitCostRepo(txm *postgres.TxManager) *UnitCostRepo {
	return &UnitCostRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Set upserts the cost for a receipt.
func (r *UnitCostRepo) Set(ctx context.Context, receiptID id.ID, cost types.Money) error {
	q := r.builder.Insert(unitCostsTable).
		Columns("receipt_id", "unit_cost", "updated_at").
		Values(receiptID, cost, time.Now().UTC()).
		Suffix("ON CONFLICT (receipt_id) DO UPDATE SET unit_cost = EXCLUDED.unit_cost, updated_at = EXCLUDED.updated_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert unit cost: %w", err)
	}
	return nil
}

// Map returns all overrides keyed by receipt id.
func (r *UnitCostRepo) Map(ctx context.Context) (map[id.ID]types.Money, error) {
	q := r.builder.Select("receipt_id", "unit_cost", "updated_at").
		From(unitCostsTable)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []records.UnitCost
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("scan unit costs: %w", err)
	}

	out := make(map[id.ID]types.Money, len(rows))
	for _, row := range rows {
		out[row.ReceiptID] = row.UnitCost
	}
	return out, nil
}

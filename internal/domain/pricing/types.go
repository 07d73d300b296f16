// Package pricing derives product cost views from stock receipts and
// unit cost overrides: the per-product weighted average cost and the
// purchase cost summary.
package pricing

import (
	"context"

	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

// AverageCost is one derived row of the averageCosts collection.
// The set is fully recomputed and replaced on every run.
type AverageCost struct {
	ProductCode string      `db:"product_code" json:"productCode"`
	AvgCost     types.Money `db:"avg_cost" json:"avgCost"`
}

// PurchaseLine is one per-receipt row of the purchase cost report.
type PurchaseLine struct {
	ReceiptID   id.ID       `json:"receiptId"`
	ProductCode string      `json:"productCode"`
	Quantity    int         `json:"quantity"`
	UnitCost    types.Money `json:"unitCost"`
	LineCost    types.Money `json:"lineCost"`
}

// PurchaseSummary is the purchase cost report: one row per receipt in
// receipt order, plus the grand total persisted as a single scalar.
type PurchaseSummary struct {
	Lines     []PurchaseLine `json:"lines"`
	TotalCost types.Money    `json:"totalPurchaseCost"`
}

// AverageCostRepository persists the averageCosts collection.
type AverageCostRepository interface {
	// ReplaceAverageCosts upserts all entries and removes product codes
	// no longer present (full replacement, no partial merge).
	ReplaceAverageCosts(ctx context.Context, entries []AverageCost) error

	// ListAverageCosts returns the persisted average cost set.
	ListAverageCosts(ctx context.Context) ([]AverageCost, error)
}

// PurchaseRepository persists the purchaseSummary scalar.
type PurchaseRepository interface {
	// GetPurchaseTotal returns the persisted total and whether it exists.
	GetPurchaseTotal(ctx context.Context) (types.Money, bool, error)

	// UpsertPurchaseTotal writes the scalar under its fixed key.
	UpsertPurchaseTotal(ctx context.Context, total types.Money) error
}

// Package profit derives the monthly profit/loss view: expenses and
// income filtered to a calendar-month window, delivered sale lines
// valued at the current average cost, persisted as one snapshot per
// month with change detection.
package profit

import (
	"context"
	"time"

	"stockledger/internal/core/types"
)

// ProductCost is the per-product breakdown of a month's cost of goods.
type ProductCost struct {
	ProductCode string      `json:"productCode"`
	Quantity    int         `json:"quantity"`
	AvgCost     types.Money `json:"avgCost"`
	Total       types.Money `json:"total"`
}

// Snapshot is the persisted monthlyProfit document, keyed "YYYY-M".
// Snapshots append across months and update in place within a month.
type Snapshot struct {
	MonthKey         string        `db:"month_key" json:"monthKey"`
	Month            string        `db:"month" json:"month"` // display label, e.g. "June 2024"
	Expenses         types.Money   `db:"expenses" json:"expenses"`
	Income           types.Money   `db:"income" json:"income"`
	ProfitLoss       types.Money   `db:"profit_loss" json:"profitLoss"`
	TotalProductCost types.Money   `db:"total_product_cost" json:"totalProductCost"`
	Products         []ProductCost `db:"product_data" json:"productData"`
	Timestamp        time.Time     `db:"timestamp" json:"timestamp"`
}

// sameTotals reports whether the four monitored numeric fields match.
// Timestamp and breakdown are deliberately not compared: a snapshot is
// rewritten only when a monitored number actually changed.
func (s *Snapshot) sameTotals(other *Snapshot) bool {
	return s.Expenses.Equal(other.Expenses) &&
		s.Income.Equal(other.Income) &&
		s.TotalProductCost.Equal(other.TotalProductCost) &&
		s.ProfitLoss.Equal(other.ProfitLoss)
}

// Result is the in-memory reconciliation output, returned for display
// regardless of whether persistence happened.
type Result struct {
	Month            types.Month   `json:"-"`
	MonthKey         string        `json:"monthKey"`
	MonthLabel       string        `json:"month"`
	Expenses         types.Money   `json:"expenses"`
	Income           types.Money   `json:"income"`
	TotalProductCost types.Money   `json:"totalProductCost"`
	ProfitLoss       types.Money   `json:"profitLoss"`
	Products         []ProductCost `json:"productData"`

	// SkippedRecords counts expense/income/sale records excluded because
	// their date failed to parse. Kept observable without changing the
	// silent-exclusion behavior.
	SkippedRecords int `json:"-"`
}

// IsEmpty reports the all-zero month condition: treated as "no data
// yet", never persisted as a legitimate zero snapshot.
func (r *Result) IsEmpty() bool {
	return r.Income.IsZero() && r.Expenses.IsZero() && r.TotalProductCost.IsZero()
}

// Repository persists monthly profit snapshots.
type Repository interface {
	// GetSnapshot returns the snapshot for a month key, or nil when absent.
	GetSnapshot(ctx context.Context, monthKey string) (*Snapshot, error)

	// UpsertSnapshot writes the snapshot under its month key.
	UpsertSnapshot(ctx context.Context, snap *Snapshot) error

	// ListSnapshots returns all snapshots sorted by timestamp descending.
	ListSnapshots(ctx context.Context) ([]Snapshot, error)
}

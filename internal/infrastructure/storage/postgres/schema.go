package postgres

import (
	"context"
	"fmt"
)

// Collection schemas mirror the external document contract: record dates
// stay TEXT because externally written documents may carry malformed
// date strings, and those must round-trip unchanged.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS expenses (
		id UUID PRIMARY KEY,
		date TEXT NOT NULL,
		amount NUMERIC(15,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS income (
		id UUID PRIMARY KEY,
		date TEXT NOT NULL,
		amount NUMERIC(15,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stock_in (
		id UUID PRIMARY KEY,
		date TEXT NOT NULL,
		product_code TEXT NOT NULL,
		product_details TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS unit_costs (
		receipt_id UUID PRIMARY KEY REFERENCES stock_in(id),
		unit_cost NUMERIC(15,2) NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id UUID PRIMARY KEY,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		customer_name TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		products JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS average_costs (
		product_code TEXT PRIMARY KEY,
		avg_cost NUMERIC(15,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS purchase_summary (
		doc_id TEXT PRIMARY KEY,
		value NUMERIC(15,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS monthly_profit (
		month_key TEXT PRIMARY KEY,
		month TEXT NOT NULL,
		expenses NUMERIC(15,2) NOT NULL,
		income NUMERIC(15,2) NOT NULL,
		profit_loss NUMERIC(15,2) NOT NULL,
		total_product_cost NUMERIC(15,2) NOT NULL,
		product_data JSONB NOT NULL DEFAULT '[]',
		timestamp TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_monthly_profit_timestamp
		ON monthly_profit (timestamp DESC)`,
	`CREATE TABLE IF NOT EXISTS sys_recompute_log (
		id UUID PRIMARY KEY,
		view TEXT NOT NULL,
		doc_key TEXT NOT NULL,
		changes JSONB,
		changes_compressed BYTEA,
		compression_algo TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recompute_log_view_key
		ON sys_recompute_log (view, doc_key, created_at DESC)`,
}

// EnsureSchema creates all collections if they do not exist. Idempotent;
// runs at startup.
func EnsureSchema(ctx context.Context, pool *Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

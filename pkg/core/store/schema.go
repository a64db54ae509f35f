package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// statement tables, one row per extracted (label, value) pair
const (
	tableFilings      = "sec_filing_id"
	tableBalanceSheet = "sec_bal_sheet_data"
	tableOperations   = "sec_stmt_of_ops_data"
	tableCashFlows    = "sec_cash_flows_data"
)

const schemaDDL = `
CREATE SCHEMA IF NOT EXISTS %[1]s;

CREATE TABLE IF NOT EXISTS %[1]s.sec_filing_id (
	filing_id          BIGSERIAL PRIMARY KEY,
	cik                TEXT NOT NULL,
	company_name       TEXT NOT NULL,
	file_name          TEXT NOT NULL,
	symbol             TEXT NOT NULL DEFAULT '',
	sic                TEXT NOT NULL,
	form_type          TEXT NOT NULL,
	date_filed         DATE NOT NULL,
	period_ending      DATE NOT NULL,
	shares_outstanding BIGINT NOT NULL DEFAULT -1,
	UNIQUE (cik, form_type, period_ending)
);

CREATE TABLE IF NOT EXISTS %[1]s.sec_bal_sheet_data (
	filing_id  BIGINT NOT NULL REFERENCES %[1]s.sec_filing_id (filing_id) ON DELETE CASCADE,
	html_label TEXT NOT NULL,
	html_value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS %[1]s.sec_stmt_of_ops_data (
	filing_id  BIGINT NOT NULL REFERENCES %[1]s.sec_filing_id (filing_id) ON DELETE CASCADE,
	html_label TEXT NOT NULL,
	html_value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS %[1]s.sec_cash_flows_data (
	filing_id  BIGINT NOT NULL REFERENCES %[1]s.sec_filing_id (filing_id) ON DELETE CASCADE,
	html_label TEXT NOT NULL,
	html_value TEXT NOT NULL
);
`

// EnsureSchema creates the extract tables if they don't exist
func (r *FilingsRepo) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return errPoolNotConfigured
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ddl := fmt.Sprintf(schemaDDL, pgx.Identifier{r.schema}.Sanitize())
	if _, err := tx.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", r.schema, err)
	}
	return tx.Commit(ctx)
}

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"filing_extract/pkg/logger"
	"filing_extract/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var errPoolNotConfigured = errors.New("database pool not configured")

// txBeginner is the part of *pgxpool.Pool the repo needs
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// FilingsRepo stores extracted statements, one live record per
// (cik, form_type, period_ending).
type FilingsRepo struct {
	db     txBeginner
	schema string
	log    *logger.Logger
}

// NewFilingsRepo creates a repository writing to the given schema
func NewFilingsRepo(pool *pgxpool.Pool, schema string, l *logger.Logger) *FilingsRepo {
	r := &FilingsRepo{schema: schema, log: l}
	if pool != nil {
		r.db = pool
	}
	return r
}

func (r *FilingsRepo) table(name string) string {
	return pgx.Identifier{r.schema, name}.Sanitize()
}

// Replace atomically swaps any stored record sharing rec's key for rec.
// The old parent row is deleted and the new parent and its statement rows
// are inserted inside one transaction.
func (r *FilingsRepo) Replace(ctx context.Context, rec *models.FilingRecord) (err error) {
	if r.db == nil {
		return errPoolNotConfigured
	}
	start := time.Now()
	rows := 0
	defer func() {
		if r.log != nil {
			r.log.LogDbOperation("replace", time.Since(start), rows, err)
		}
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// no-op once committed
	defer tx.Rollback(ctx)

	exists, err := r.exists(ctx, tx, rec.Key())
	if err != nil {
		return err
	}
	if exists {
		query := fmt.Sprintf(`DELETE FROM %s WHERE cik = $1 AND form_type = $2 AND period_ending = $3`, r.table(tableFilings))
		if _, err := tx.Exec(ctx, query, rec.CIK, rec.FormType, rec.PeriodEnding); err != nil {
			return fmt.Errorf("failed to delete filing %s: %w", rec.Key(), err)
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			cik, company_name, file_name, symbol, sic, form_type,
			date_filed, period_ending, shares_outstanding
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING filing_id
	`, r.table(tableFilings))

	var filingID int64
	err = tx.QueryRow(ctx, query,
		rec.CIK, rec.CompanyName, rec.FileName, rec.Symbol, rec.SIC, rec.FormType,
		rec.DateFiled, rec.PeriodEnding, rec.OutstandingShares,
	).Scan(&filingID)
	if err != nil {
		return fmt.Errorf("failed to insert filing %s: %w", rec.Key(), err)
	}

	children := []struct {
		table  string
		values []models.LabelValue
	}{
		{tableBalanceSheet, rec.BalanceSheet},
		{tableOperations, rec.Operations},
		{tableCashFlows, rec.CashFlows},
	}
	for _, c := range children {
		n, err := r.copyValues(ctx, tx, c.table, filingID, c.values)
		if err != nil {
			return err
		}
		rows += int(n)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit filing %s: %w", rec.Key(), err)
	}
	return nil
}

func (r *FilingsRepo) copyValues(ctx context.Context, tx pgx.Tx, table string, filingID int64, values []models.LabelValue) (int64, error) {
	if len(values) == 0 {
		return 0, nil
	}
	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{r.schema, table},
		[]string{"filing_id", "html_label", "html_value"},
		pgx.CopyFromSlice(len(values), func(i int) ([]any, error) {
			return []any{filingID, values[i].Label, values[i].Value}, nil
		}),
	)
	if err != nil {
		return n, fmt.Errorf("failed to copy rows into %s: %w", table, err)
	}
	return n, nil
}

func (r *FilingsRepo) exists(ctx context.Context, tx pgx.Tx, key models.FilingKey) (bool, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE cik = $1 AND form_type = $2 AND period_ending = $3`, r.table(tableFilings))
	var count int
	if err := tx.QueryRow(ctx, query, key.CIK, key.FormType, key.PeriodEnding).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check filing %s: %w", key, err)
	}
	return count > 0, nil
}

// UpdateOutstandingShares stores shares for an existing record when it
// differs from the stored value. It reports whether a row changed.
// A shares value of -1 (not found) is never written.
func (r *FilingsRepo) UpdateOutstandingShares(ctx context.Context, key models.FilingKey, fileName string, shares int64) (bool, error) {
	if shares == -1 {
		log.Debug().Str("file", fileName).Msg("can't find shares outstanding, skipping")
		return false, nil
	}
	if r.db == nil {
		return false, errPoolNotConfigured
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	exists, err := r.exists(ctx, tx, key)
	if err != nil {
		return false, err
	}
	if !exists {
		log.Debug().Str("file", fileName).Msg("can't find data in DB, skipping")
		return false, nil
	}

	query := fmt.Sprintf(`SELECT shares_outstanding FROM %s WHERE cik = $1 AND form_type = $2 AND period_ending = $3`, r.table(tableFilings))
	var stored int64
	if err := tx.QueryRow(ctx, query, key.CIK, key.FormType, key.PeriodEnding).Scan(&stored); err != nil {
		return false, fmt.Errorf("failed to read shares for %s: %w", key, err)
	}
	if stored == shares {
		log.Debug().Str("file", fileName).Msg("shares match, no changes made")
		return false, nil
	}

	query = fmt.Sprintf(`UPDATE %s SET shares_outstanding = $4 WHERE cik = $1 AND form_type = $2 AND period_ending = $3`, r.table(tableFilings))
	if _, err := tx.Exec(ctx, query, key.CIK, key.FormType, key.PeriodEnding, shares); err != nil {
		return false, fmt.Errorf("failed to update shares for %s: %w", key, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit shares for %s: %w", key, err)
	}

	log.Info().Str("file", fileName).Int64("from", stored).Int64("to", shares).
		Msgf("Updated DB for file: %s. Changed shares outstanding from: %d to: %d", fileName, stored, shares)
	return true, nil
}

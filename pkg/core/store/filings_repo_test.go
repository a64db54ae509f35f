package store

import (
	"context"
	"errors"
	"testing"

	"filing_extract/pkg/logger"
	"filing_extract/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(db *fakeDB) *FilingsRepo {
	r := NewFilingsRepo(nil, "html_extracts", logger.New(logger.Config{Level: "none"}))
	r.db = db
	return r
}

func testRecord(shares int64, cash string) *models.FilingRecord {
	return &models.FilingRecord{
		CIK:               "0000123456",
		CompanyName:       "ACME CORP",
		FileName:          "0000123456-20-000001.txt",
		SIC:               "7372",
		FormType:          "10-Q",
		DateFiled:         "2020-05-05",
		PeriodEnding:      "2020-03-31",
		OutstandingShares: shares,
		BalanceSheet:      []models.LabelValue{{Label: "cash", Value: cash}, {Label: "total assets", Value: "9,000"}},
		Operations:        []models.LabelValue{{Label: "net income", Value: "2,000"}},
		CashFlows:         []models.LabelValue{{Label: "net cash used in financing activities", Value: "(200)"}},
	}
}

func TestFilingsRepo_Replace(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	repo := newTestRepo(db)

	require.NoError(t, repo.Replace(ctx, testRecord(100, "1,000")))
	first := db.get(testRecord(0, "").Key())
	require.NotNil(t, first)

	// same key again: the old record is swapped out, not duplicated
	require.NoError(t, repo.Replace(ctx, testRecord(200, "1,500")))
	assert.Len(t, db.filings, 1)

	got := db.get(testRecord(0, "").Key())
	require.NotNil(t, got)
	assert.NotEqual(t, first.id, got.id)
	assert.Equal(t, int64(200), got.rec.OutstandingShares)
	assert.Equal(t, []models.LabelValue{
		{Label: "cash", Value: "1,500"},
		{Label: "total assets", Value: "9,000"},
	}, got.children[tableBalanceSheet])
	assert.Len(t, got.children[tableOperations], 1)
	assert.Len(t, got.children[tableCashFlows], 1)
	assert.Equal(t, 2, db.commits)
}

func TestFilingsRepo_ReplaceIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	repo := newTestRepo(db)

	require.NoError(t, repo.Replace(ctx, testRecord(100, "1,000")))

	db.copyErr = errors.New("connection reset")
	err := repo.Replace(ctx, testRecord(200, "1,500"))
	assert.ErrorIs(t, err, db.copyErr)

	// the failed replacement left the previous record intact
	got := db.get(testRecord(0, "").Key())
	require.NotNil(t, got)
	assert.Equal(t, int64(100), got.rec.OutstandingShares)
	assert.Equal(t, "1,000", got.children[tableBalanceSheet][0].Value)
	assert.Equal(t, 1, db.commits)
}

func TestFilingsRepo_DifferentKeys(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	repo := newTestRepo(db)

	q1 := testRecord(100, "1")
	q2 := testRecord(100, "2")
	q2.PeriodEnding = "2020-06-30"

	require.NoError(t, repo.Replace(ctx, q1))
	require.NoError(t, repo.Replace(ctx, q2))
	assert.Len(t, db.filings, 2)
}

func TestFilingsRepo_UpdateOutstandingShares(t *testing.T) {
	ctx := context.Background()
	key := testRecord(0, "").Key()

	tests := []struct {
		name        string
		stored      bool
		shares      int64
		wantUpdated bool
		wantShares  int64
		wantBegins  int
	}{
		{name: "not found is never written", stored: true, shares: -1, wantShares: 100, wantBegins: 0},
		{name: "no stored record", stored: false, shares: 500, wantBegins: 1},
		{name: "same value", stored: true, shares: 100, wantShares: 100, wantBegins: 1},
		{name: "changed value", stored: true, shares: 500, wantUpdated: true, wantShares: 500, wantBegins: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newFakeDB()
			repo := newTestRepo(db)
			if tt.stored {
				require.NoError(t, repo.Replace(ctx, testRecord(100, "1")))
			}

			before := db.begins

			updated, err := repo.UpdateOutstandingShares(ctx, key, "a.txt", tt.shares)
			require.NoError(t, err)
			assert.Equal(t, tt.wantUpdated, updated)

			if tt.stored {
				assert.Equal(t, tt.wantShares, db.get(key).rec.OutstandingShares)
				assert.Len(t, db.get(key).children[tableBalanceSheet], 2, "statement rows are untouched")
			} else {
				assert.Nil(t, db.get(key))
			}
			assert.Equal(t, tt.wantBegins, db.begins-before)
		})
	}
}

func TestFilingsRepo_NoPool(t *testing.T) {
	ctx := context.Background()
	repo := NewFilingsRepo(nil, "html_extracts", nil)

	assert.ErrorIs(t, repo.Replace(ctx, testRecord(1, "1")), errPoolNotConfigured)
	assert.ErrorIs(t, repo.EnsureSchema(ctx), errPoolNotConfigured)

	_, err := repo.UpdateOutstandingShares(ctx, testRecord(1, "1").Key(), "a.txt", 5)
	assert.ErrorIs(t, err, errPoolNotConfigured)

	// nothing to write, so no pool is needed
	updated, err := repo.UpdateOutstandingShares(ctx, testRecord(1, "1").Key(), "a.txt", -1)
	assert.NoError(t, err)
	assert.False(t, updated)
}

func TestFilingsRepo_EnsureSchema(t *testing.T) {
	db := newFakeDB()
	repo := newTestRepo(db)

	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.Len(t, db.ddl, 1)
	assert.Contains(t, db.ddl[0], `CREATE SCHEMA IF NOT EXISTS "html_extracts"`)
	assert.Contains(t, db.ddl[0], `"html_extracts".sec_cash_flows_data`)
}

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"filing_extract/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeDB is an in-memory stand-in for the extract tables. Each transaction
// works on a private copy that replaces the shared state on commit.
type fakeDB struct {
	mu       sync.Mutex
	nextID   int64
	filings  map[models.FilingKey]*fakeFiling
	ddl      []string
	copyErr  error
	begins   int
	commits  int
}

type fakeFiling struct {
	id       int64
	rec      models.FilingRecord
	children map[string][]models.LabelValue
}

func newFakeDB() *fakeDB {
	return &fakeDB{nextID: 1, filings: map[models.FilingKey]*fakeFiling{}}
}

func (db *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.begins++
	return &fakeTx{db: db, nextID: db.nextID, filings: cloneFilings(db.filings)}, nil
}

func (db *fakeDB) get(key models.FilingKey) *fakeFiling {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.filings[key]
}

func cloneFilings(in map[models.FilingKey]*fakeFiling) map[models.FilingKey]*fakeFiling {
	out := make(map[models.FilingKey]*fakeFiling, len(in))
	for k, f := range in {
		c := &fakeFiling{id: f.id, rec: f.rec, children: map[string][]models.LabelValue{}}
		for table, rows := range f.children {
			c.children[table] = append([]models.LabelValue(nil), rows...)
		}
		out[k] = c
	}
	return out
}

type fakeTx struct {
	pgx.Tx // methods the repo never calls

	db      *fakeDB
	nextID  int64
	filings map[models.FilingKey]*fakeFiling
	done    bool
}

func keyFromArgs(args []any) models.FilingKey {
	return models.FilingKey{CIK: args[0].(string), FormType: args[1].(string), PeriodEnding: args[2].(string)}
}

func (tx *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	sql = strings.TrimSpace(sql)
	switch {
	case strings.HasPrefix(sql, "CREATE"):
		tx.db.ddl = append(tx.db.ddl, sql)
		return pgconn.NewCommandTag("CREATE"), nil
	case strings.HasPrefix(sql, "DELETE"):
		key := keyFromArgs(args)
		if _, ok := tx.filings[key]; !ok {
			return pgconn.NewCommandTag("DELETE 0"), nil
		}
		delete(tx.filings, key)
		return pgconn.NewCommandTag("DELETE 1"), nil
	case strings.HasPrefix(sql, "UPDATE"):
		f, ok := tx.filings[keyFromArgs(args)]
		if !ok {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		}
		f.rec.OutstandingShares = args[3].(int64)
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	return pgconn.CommandTag{}, fmt.Errorf("unexpected statement: %s", sql)
}

func (tx *fakeTx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	sql = strings.TrimSpace(sql)
	switch {
	case strings.HasPrefix(sql, "SELECT count(*)"):
		n := 0
		if _, ok := tx.filings[keyFromArgs(args)]; ok {
			n = 1
		}
		return fakeRow{vals: []any{n}}
	case strings.HasPrefix(sql, "SELECT shares_outstanding"):
		f, ok := tx.filings[keyFromArgs(args)]
		if !ok {
			return fakeRow{err: pgx.ErrNoRows}
		}
		return fakeRow{vals: []any{f.rec.OutstandingShares}}
	case strings.HasPrefix(sql, "INSERT"):
		rec := models.FilingRecord{
			CIK: args[0].(string), CompanyName: args[1].(string), FileName: args[2].(string),
			Symbol: args[3].(string), SIC: args[4].(string), FormType: args[5].(string),
			DateFiled: args[6].(string), PeriodEnding: args[7].(string), OutstandingShares: args[8].(int64),
		}
		if _, ok := tx.filings[rec.Key()]; ok {
			return fakeRow{err: errors.New("duplicate key value violates unique constraint")}
		}
		id := tx.nextID
		tx.nextID++
		tx.filings[rec.Key()] = &fakeFiling{id: id, rec: rec, children: map[string][]models.LabelValue{}}
		return fakeRow{vals: []any{id}}
	}
	return fakeRow{err: fmt.Errorf("unexpected query: %s", sql)}
}

func (tx *fakeTx) CopyFrom(_ context.Context, table pgx.Identifier, _ []string, src pgx.CopyFromSource) (int64, error) {
	if tx.db.copyErr != nil {
		return 0, tx.db.copyErr
	}
	var n int64
	for src.Next() {
		vals, err := src.Values()
		if err != nil {
			return n, err
		}
		f := tx.byID(vals[0].(int64))
		if f == nil {
			return n, errors.New("foreign key violation")
		}
		name := table[len(table)-1]
		f.children[name] = append(f.children[name], models.LabelValue{Label: vals[1].(string), Value: vals[2].(string)})
		n++
	}
	return n, src.Err()
}

func (tx *fakeTx) byID(id int64) *fakeFiling {
	for _, f := range tx.filings {
		if f.id == id {
			return f
		}
	}
	return nil
}

func (tx *fakeTx) Commit(context.Context) error {
	if tx.done {
		return pgx.ErrTxClosed
	}
	tx.done = true
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	tx.db.filings = tx.filings
	tx.db.nextID = tx.nextID
	tx.db.commits++
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if tx.done {
		return pgx.ErrTxClosed
	}
	tx.done = true
	return nil
}

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int:
			*p = r.vals[i].(int)
		case *int64:
			*p = r.vals[i].(int64)
		default:
			return fmt.Errorf("unsupported scan target %T", d)
		}
	}
	return nil
}

// Package statements finds the balance sheet, statement of operations and
// cash flow statement inside an EDGAR HTML filing and turns them into
// (label, value) pairs.
package statements

import (
	"filing_extract/pkg/core/edgar"
	"filing_extract/pkg/models"
)

// StatementType is the closed set of statements the extractor knows about.
type StatementType int

const (
	BalanceSheet StatementType = iota
	StatementOfOperations
	CashFlows
	StockholdersEquity // recognised but never matched
)

// requiredStatements are the statements every filing must yield, in the
// order they are searched for.
var requiredStatements = []StatementType{BalanceSheet, StatementOfOperations, CashFlows}

func (t StatementType) String() string {
	switch t {
	case BalanceSheet:
		return "balance_sheet"
	case StatementOfOperations:
		return "statement_of_operations"
	case CashFlows:
		return "cash_flows"
	case StockholdersEquity:
		return "stockholders_equity"
	}
	return "unknown"
}

// Block is one located statement.
type Block struct {
	Type             StatementType       `json:"type"`
	Raw              edgar.Span          `json:"raw"`
	Parsed           string              `json:"-"`
	Lines            []string            `json:"-"`
	Multiplier       int                 `json:"multiplier"`
	MultiplierSuffix string              `json:"multiplier_suffix"`
	Values           []models.LabelValue `json:"values"`

	resolved bool
}

func newBlock(t StatementType, grid edgar.TableGrid) Block {
	return Block{Type: t, Raw: grid.Raw, Parsed: grid.Text, Lines: grid.Lines}
}

// Empty reports whether the statement was not found.
func (b *Block) Empty() bool {
	return b.Parsed == ""
}

func (b *Block) setMultiplier(m Multiplier) {
	b.Multiplier = m.Value
	b.MultiplierSuffix = m.Suffix
	b.resolved = true
}

// FinancialStatements is everything extracted from one filing.
type FinancialStatements struct {
	BalanceSheet Block `json:"balance_sheet"`
	Operations   Block `json:"statement_of_operations"`
	CashFlows    Block `json:"cash_flows"`

	Bounds            edgar.Span `json:"bounds"` // covers all three statements
	HTML              edgar.Span `json:"html"`   // document the statements came from
	FileName          string     `json:"file_name"`
	OutstandingShares int64      `json:"outstanding_shares"`
}

func newFinancialStatements() *FinancialStatements {
	return &FinancialStatements{OutstandingShares: -1}
}

// HasData reports whether all three required statements were found.
// Filings without data are skipped, never persisted.
func (fs *FinancialStatements) HasData() bool {
	return !fs.BalanceSheet.Empty() && !fs.Operations.Empty() && !fs.CashFlows.Empty()
}

// Block returns the block for t, or nil for statements that are not kept.
func (fs *FinancialStatements) Block(t StatementType) *Block {
	switch t {
	case BalanceSheet:
		return &fs.BalanceSheet
	case StatementOfOperations:
		return &fs.Operations
	case CashFlows:
		return &fs.CashFlows
	}
	return nil
}

// Blocks returns the three statement blocks in search order.
func (fs *FinancialStatements) Blocks() []*Block {
	return []*Block{&fs.BalanceSheet, &fs.Operations, &fs.CashFlows}
}

func (fs *FinancialStatements) blockBounds() edgar.Span {
	var bounds edgar.Span
	for _, b := range fs.Blocks() {
		bounds = bounds.Union(b.Raw)
	}
	return bounds
}

// Record flattens the statements into a persistable record.
func (fs *FinancialStatements) Record(fields models.HeaderFields) (*models.FilingRecord, error) {
	return models.NewFilingRecord(fields, fs.OutstandingShares,
		fs.BalanceSheet.Values, fs.Operations.Values, fs.CashFlows.Values)
}

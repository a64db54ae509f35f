package statements

import (
	"strings"
	"testing"

	"filing_extract/pkg/core/edgar"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	longLiabilities := "Total liabilities " + strings.Repeat("and other obligations ", 8) + "\t"

	tests := []struct {
		name string
		typ  StatementType
		grid string
		want bool
	}{
		{
			name: "balance sheet with all topics",
			typ:  BalanceSheet,
			grid: edgar.TableText(balanceTable),
			want: true,
		},
		{
			name: "balance sheet with three of four topics",
			typ:  BalanceSheet,
			grid: "Total assets\t10\t\nTotal liabilities\t5\t\nCommon stock\t5\t\n",
			want: true,
		},
		{
			name: "balance sheet with two topics",
			typ:  BalanceSheet,
			grid: "Total assets\t10\t\nTotal liabilities\t5\t\n",
			want: false,
		},
		{
			name: "liabilities only in a narrative line",
			typ:  BalanceSheet,
			grid: "Total assets\t10\t\n" + longLiabilities + "\nCommon stock\t5\t\n",
			want: false,
		},
		{
			name: "statement of operations",
			typ:  StatementOfOperations,
			grid: edgar.TableText(operationsTable),
			want: true,
		},
		{
			name: "operations without per share data",
			typ:  StatementOfOperations,
			grid: "Total revenue\t1\t\nOperating expenses\t1\t\nNet income\t1\t\n",
			want: false,
		},
		{
			name: "cash flows",
			typ:  CashFlows,
			grid: edgar.TableText(cashFlowsTable),
			want: true,
		},
		{
			name: "cash flows missing financing",
			typ:  CashFlows,
			grid: "Net cash provided by operating activities\t1\t\n",
			want: false,
		},
		{
			name: "balance sheet is not a cash flow statement",
			typ:  CashFlows,
			grid: edgar.TableText(balanceTable),
			want: false,
		},
		{
			name: "stockholders equity never matches",
			typ:  StockholdersEquity,
			grid: edgar.TableText(balanceTable),
			want: false,
		},
		{
			name: "unknown type",
			typ:  StatementType(42),
			grid: edgar.TableText(balanceTable),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.typ, tt.grid))
		})
	}
}

func TestStatementTypeString(t *testing.T) {
	assert.Equal(t, "balance_sheet", BalanceSheet.String())
	assert.Equal(t, "cash_flows", CashFlows.String())
	assert.Equal(t, "unknown", StatementType(-1).String())
}

package statements

import (
	"testing"

	"filing_extract/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestApplyMultiplier(t *testing.T) {
	tests := []struct {
		value, suffix, want string
	}{
		{"1,234", ",000", "1,234,000"},
		{"(1,234)", ",000", "(1,234,000)"},
		{"(500", ",000", "(500,000)"},
		{"-7", ",000,000", "-7,000,000"},
		{"42", "", "42"},
		{"(42)", "", "(42)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ApplyMultiplier(tt.value, tt.suffix), tt.value)
	}
}

func TestCleanLabel(t *testing.T) {
	tests := []struct {
		label, want string
	}{
		{"Cash & cash equivalents, end of period", "cash cash equivalents end of period"},
		{"  (Loss) income  ", "loss income"},
		{"Accounts payable - related party", "accounts payable related party"},
		{"...", ""},
	}
	for _, tt := range tests {
		got := CleanLabel(tt.label)
		assert.Equal(t, tt.want, got, tt.label)
		assert.Equal(t, got, CleanLabel(got), "cleaning must be idempotent")
	}
}

func TestCollectValues(t *testing.T) {
	lines := []string{
		"(In thousands)\t",
		"Revenue\t$\t1,000\t",
		"Net loss per share\t(0.12)\t",
		"Total\t\t",
		"2019\t2020\t",
		"...\t5\t",
		"Accounts receivable, net\t(1,234)\t999\t",
	}

	got := CollectValues(lines, ",000")

	want := []models.LabelValue{
		{Label: "revenue", Value: "1,000,000"},
		{Label: "net loss per share", Value: "(0.12)"},
		{Label: "accounts receivable net", Value: "(1,234,000)"},
	}
	assert.Equal(t, want, got)
}

// Package report renders extracted statements as Markdown and HTML.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"filing_extract/pkg/models"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var renderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown renders a record as a heading, an identity list and one table per statement
func Markdown(rec *models.FilingRecord) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s %s\n\n", rec.CompanyName, rec.FormType)
	fmt.Fprintf(&sb, "- CIK: %s\n", rec.CIK)
	fmt.Fprintf(&sb, "- Period ending: %s\n", rec.PeriodEnding)
	fmt.Fprintf(&sb, "- Filed: %s\n", rec.DateFiled)
	if rec.OutstandingShares >= 0 {
		fmt.Fprintf(&sb, "- Shares outstanding: %d\n", rec.OutstandingShares)
	} else {
		sb.WriteString("- Shares outstanding: not found\n")
	}

	writeTable(&sb, "Balance Sheet", rec.BalanceSheet)
	writeTable(&sb, "Statement of Operations", rec.Operations)
	writeTable(&sb, "Cash Flows", rec.CashFlows)
	return sb.String()
}

func writeTable(sb *strings.Builder, title string, values []models.LabelValue) {
	fmt.Fprintf(sb, "\n## %s\n\n", title)
	if len(values) == 0 {
		sb.WriteString("_no values_\n")
		return
	}
	sb.WriteString("| Label | Value |\n")
	sb.WriteString("| --- | ---: |\n")
	for _, v := range values {
		fmt.Fprintf(sb, "| %s | %s |\n", cleanCellText(v.Label), cleanCellText(v.Value))
	}
}

func cleanCellText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "|", "&#124;")
	if text == "" {
		return " "
	}
	return text
}

// HTML converts Markdown produced by this package to an HTML fragment
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

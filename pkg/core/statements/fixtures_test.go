package statements

import (
	"strings"

	"filing_extract/pkg/core/edgar"
)

const balanceTable = `<table>
<tr><td colspan="3">(In thousands)</td></tr>
<tr><td>Cash</td><td>$</td><td>1,234</td></tr>
<tr><td>Prepaid expenses</td><td>56</td></tr>
<tr><td>Total current assets</td><td>1,290</td></tr>
<tr><td>Total liabilities</td><td>(500</td><td>)</td></tr>
<tr><td>Common stock, $0.01 par value</td><td>10</td></tr>
</table>`

const operationsTable = `<table>
<tr><td>Total revenue</td><td>5,000</td></tr>
<tr><td>Operating expenses</td><td>3,000</td></tr>
<tr><td>Net income</td><td>2,000</td></tr>
<tr><td>Net income per share</td><td>0.50</td></tr>
</table>`

const cashFlowsTable = `<table>
<tr><td>Net cash provided by operating activities</td><td>700</td></tr>
<tr><td>Net cash used in financing activities</td><td>(200)</td></tr>
</table>`

const coverTable = `<table><tr><td>Commission file number</td><td>001-12345</td></tr></table>`

// anchoredHTML links to each statement from a table of contents.
func anchoredHTML() string {
	return `<html><body>
<p><a href="#fs">Financial Statements</a></p>
<p><a href="#bs">Condensed Consolidated Balance Sheets</a></p>
<p><a href="#ops">Condensed Consolidated Statements of Operations</a></p>
<p><a href="#cf">Condensed Consolidated Statements of Cash Flows</a></p>
` + coverTable + `
<p><a name="fs"></a>PART I. FINANCIAL INFORMATION</p>
<p><a name="bs"></a>BALANCE SHEETS</p>
` + balanceTable + `
<p><a name="ops"></a>STATEMENTS OF OPERATIONS</p>
` + operationsTable + `
<p><a name="cf"></a>STATEMENTS OF CASH FLOWS</p>
` + cashFlowsTable + `
</body></html>`
}

// plainHTML holds the statements with no links to them.
func plainHTML(tables ...string) string {
	return "<html><body>\n<p>Consolidated Financial Statements</p>\n" +
		"<p>Statements of Operations</p>\n<p>Statements of Cash Flows</p>\n" +
		strings.Join(tables, "\n<p>continued</p>\n") + "\n</body></html>"
}

type testDocument struct {
	Type, FileName, HTML string
}

func submission(docs ...testDocument) string {
	var sb strings.Builder
	sb.WriteString("<SEC-DOCUMENT>\n<SEC-HEADER>\nCONFORMED SUBMISSION TYPE:\t10-Q\n</SEC-HEADER>\n")
	for i, d := range docs {
		sb.WriteString("<DOCUMENT>\n<TYPE>" + d.Type + "\n<SEQUENCE>")
		sb.WriteByte(byte('1' + i))
		sb.WriteString("\n<FILENAME>" + d.FileName + "\n<TEXT>\n")
		sb.WriteString(d.HTML)
		sb.WriteString("\n</TEXT>\n</DOCUMENT>\n")
	}
	sb.WriteString("</SEC-DOCUMENT>\n")
	return sb.String()
}

// singleDocument wraps html as the whole buffer.
func singleDocument(html string) (string, *edgar.HTMLDocument) {
	return html, edgar.NewHTMLDocument(html, edgar.Span{Len: len(html)})
}

type fakeShares struct {
	shares int64
	err    error
	html   string
}

func (f *fakeShares) Extract(html string) (int64, error) {
	f.html = html
	return f.shares, f.err
}

package edgar

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// HTMLDocument is a parsed view over one HTML payload of a submission.
// Tables and anchors keep offsets into the source buffer; the tokenizer pass
// that finds them runs once, on first use.
type HTMLDocument struct {
	buf     string
	payload Span

	scanned bool
	tables  []TableGrid
	anchors []Anchor
}

// NewHTMLDocument wraps the payload span of buf.
func NewHTMLDocument(buf string, payload Span) *HTMLDocument {
	return &HTMLDocument{buf: buf, payload: payload}
}

// Payload returns the span of the HTML inside the raw buffer.
func (d *HTMLDocument) Payload() Span {
	return d.payload
}

// HTML returns the payload text.
func (d *HTMLDocument) HTML() string {
	return d.payload.Text(d.buf)
}

// Tables returns the outermost tables of the document in source order.
func (d *HTMLDocument) Tables() []TableGrid {
	d.scan()
	return d.tables
}

// Anchors returns every <a> element of the document in source order.
func (d *HTMLDocument) Anchors() []Anchor {
	d.scan()
	return d.anchors
}

// scan walks the token stream, tracking byte offsets so that tables and
// anchors can be mapped back to the raw buffer.
func (d *HTMLDocument) scan() {
	if d.scanned {
		return
	}
	d.scanned = true

	z := html.NewTokenizer(strings.NewReader(d.HTML()))
	base := d.payload.Start
	offset := 0

	tableDepth, tableStart := 0, 0
	var open *Anchor
	anchorStart := 0

	closeAnchor := func(end int) {
		if open == nil {
			return
		}
		open.Content = Span{Start: base + anchorStart, Len: end - anchorStart}
		d.anchors = append(d.anchors, *open)
		open = nil
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		start := offset
		offset += len(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch atom.Lookup(name) {
			case atom.Table:
				if tt == html.SelfClosingTagToken {
					continue
				}
				if tableDepth == 0 {
					tableStart = start
				}
				tableDepth++
			case atom.A:
				// anchors don't nest; a new <a> closes the previous one
				closeAnchor(start)
				a := &Anchor{}
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					switch string(key) {
					case "name":
						a.Name = strings.TrimSpace(string(val))
					case "id":
						a.ID = strings.TrimSpace(string(val))
					case "href":
						a.Href = strings.TrimSpace(string(val))
					}
				}
				open, anchorStart = a, start
				if tt == html.SelfClosingTagToken {
					closeAnchor(offset)
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Table:
				if tableDepth == 0 {
					continue
				}
				tableDepth--
				if tableDepth == 0 {
					d.addTable(Span{Start: base + tableStart, Len: offset - tableStart})
				}
			case atom.A:
				closeAnchor(offset)
			}
		}
	}
	closeAnchor(offset)
}

func (d *HTMLDocument) addTable(raw Span) {
	text := TableText(raw.Text(d.buf))
	if text == "" {
		return
	}
	d.tables = append(d.tables, TableGrid{
		Raw:   raw,
		Text:  text,
		Lines: strings.Split(strings.TrimSuffix(text, "\n"), "\n"),
	})
}

// TableText flattens an HTML table: each non-empty cell becomes "text\t" and
// each non-empty row ends with a newline.
func TableText(tableHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		wrote := false
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			text := NormalizeText(cell.Text())
			if text == "" {
				return
			}
			sb.WriteString(text)
			sb.WriteByte('\t')
			wrote = true
		})
		if wrote {
			sb.WriteByte('\n')
		}
	})
	return sb.String()
}

// NormalizeText folds compatibility characters (non-breaking spaces, full
// width digits) to their plain forms and collapses whitespace.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

// PlainText returns the text content of at most maxHTML bytes of src.
// Collection stops once maxText bytes have been gathered, in which case
// truncated is true. A zero limit means unlimited.
func PlainText(src string, maxHTML, maxText int) (text string, truncated bool, err error) {
	if maxHTML > 0 && len(src) > maxHTML {
		src = src[:maxHTML]
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return "", false, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var sb strings.Builder
	for _, n := range doc.Nodes {
		if collectText(n, &sb, maxText) {
			return sb.String(), true, nil
		}
	}
	return sb.String(), false, nil
}

// collectText appends text nodes below n. It returns true once the limit is reached.
func collectText(n *html.Node, sb *strings.Builder, limit int) bool {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
		if limit > 0 && sb.Len() >= limit {
			return true
		}
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return false
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if collectText(c, sb, limit) {
			return true
		}
	}
	return false
}

package statements

import (
	"fmt"
	"regexp"
	"strings"

	"filing_extract/pkg/core/edgar"
)

var (
	// link text that names each statement
	anchorPatterns = map[StatementType]*regexp.Regexp{
		BalanceSheet:          regexp.MustCompile(`(?is)(?:balance\s+sheet)|(?:financial.*?position)`),
		StatementOfOperations: regexp.MustCompile(`(?is)(?:statement|statements)\s+?of.*?(?:oper|loss|income|earning)`),
		CashFlows:             regexp.MustCompile(`(?is)(?:cash\s+flow)|(?:statement.+?cash)|(?:cashflow)`),
	}

	regexTopLevelAnchor = regexp.MustCompile(`(?is)(?:<a>|<a |<a\n).*?(?:financ.+?statement)|(?:financ.+?information)|(?:financial.*?position).*?</a`)

	// a document with several of these links is likely the one holding the statements
	documentAnchorPatterns = []*regexp.Regexp{
		regexTopLevelAnchor,
		regexp.MustCompile(`(?is)(?:<a>|<a |<a\n).*?(?:statement|statements)\s+?of.*?(?:cash\s+flow).*?</a`),
		regexp.MustCompile(`(?is)(?:<a>|<a |<a\n).*?((?:statement|statements)\s+?of.*?(?:oper|loss|income|earning)).*?</a`),
		regexp.MustCompile(`(?is)(?:<a>|<a |<a\n).*?(?:balance\s+sheet).*?</a`),
	}
)

// minDocumentAnchors is the number of statement links a document needs
// before it is preferred by FindFinancialContentUsingAnchors.
const minDocumentAnchors = 3

// anchorMatches reports whether a is an in-document link whose markup matches re.
func anchorMatches(re *regexp.Regexp, a edgar.Anchor, buf string) bool {
	if !a.IsLink() {
		return false
	}
	return re.MatchString(a.Content.Text(buf))
}

// FindDestinationAnchor resolves a "#name" link to the anchor it points at.
// Both name and id attributes are compared, case-insensitively.
func FindDestinationAnchor(link edgar.Anchor, anchors []edgar.Anchor) (edgar.Anchor, error) {
	target := strings.TrimPrefix(link.Href, "#")
	for _, a := range anchors {
		if a.Names(target) {
			return a, nil
		}
	}
	return edgar.Anchor{}, fmt.Errorf("can't find destination for %q: %w", link.Href, edgar.ErrDestinationNotFound)
}

// tableAt returns the table holding pos, or else the first table starting
// after it.
func tableAt(tables []edgar.TableGrid, pos int) (edgar.TableGrid, bool) {
	for _, t := range tables {
		if t.Raw.Start <= pos && pos < t.Raw.End() {
			return t, true
		}
		if t.Raw.Start >= pos {
			return t, true
		}
	}
	return edgar.TableGrid{}, false
}

// findStatementContent follows the links naming statement t and returns the
// first destination table that classifies as t. An empty block means none did.
func findStatementContent(buf string, t StatementType, anchors []edgar.Anchor, tables []edgar.TableGrid) (Block, error) {
	re := anchorPatterns[t]
	for _, a := range anchors {
		if !anchorMatches(re, a, buf) {
			continue
		}
		dest, err := FindDestinationAnchor(a, anchors)
		if err != nil {
			return Block{}, err
		}
		grid, ok := tableAt(tables, dest.Content.Start)
		if ok && Classify(t, grid.Text) {
			return newBlock(t, grid), nil
		}
	}
	return Block{}, nil
}

// findTopLevelAnchor returns the destination of the "financial statements"
// link, if the document has one.
func findTopLevelAnchor(buf string, anchors []edgar.Anchor) (edgar.Span, bool) {
	for _, a := range anchors {
		if !anchorMatches(regexTopLevelAnchor, a, buf) {
			continue
		}
		dest, err := FindDestinationAnchor(a, anchors)
		if err != nil {
			return edgar.Span{}, false
		}
		return dest.Content, true
	}
	return edgar.Span{}, false
}

// ExtractUsingAnchors locates the statements by following the document's
// internal links. ErrDestinationNotFound is returned when a statement link
// points nowhere; callers fall back to ExtractUsingContent.
func ExtractUsingAnchors(buf string, doc *edgar.HTMLDocument) (*FinancialStatements, error) {
	fs := newFinancialStatements()
	fs.HTML = doc.Payload()

	anchors := doc.Anchors()
	tables := doc.Tables()

	for _, t := range requiredStatements {
		block, err := findStatementContent(buf, t, anchors, tables)
		if err != nil {
			return fs, err
		}
		if block.Empty() {
			return fs, nil
		}
		*fs.Block(t) = block
	}

	fs.Bounds = fs.blockBounds()
	if top, ok := findTopLevelAnchor(buf, anchors); ok {
		fs.Bounds = fs.Bounds.Union(top)
	}
	return fs, nil
}

// ExtractUsingContent scans the tables in order: the first balance sheet,
// then the first statement of operations after it, then the first cash flow
// statement after that. It never searches backwards.
func ExtractUsingContent(buf string, doc *edgar.HTMLDocument) *FinancialStatements {
	fs := newFinancialStatements()
	fs.HTML = doc.Payload()

	tables := doc.Tables()
	pos := 0
	for _, t := range requiredStatements {
		found := -1
		for i := pos; i < len(tables); i++ {
			if Classify(t, tables[i].Text) {
				found = i
				break
			}
		}
		if found < 0 {
			return newFinancialStatements()
		}
		*fs.Block(t) = newBlock(t, tables[found])
		pos = found + 1
	}

	fs.Bounds = fs.blockBounds()
	return fs
}

// FindFinancialContentUsingAnchors picks the first HTML section with at least
// minDocumentAnchors links naming a financial statement.
func FindFinancialContentUsingAnchors(buf string, sections []edgar.HTMLSection) (edgar.HTMLSection, bool) {
	for _, sec := range sections {
		doc := edgar.NewHTMLDocument(buf, sec.HTML)
		found := 0
		for _, a := range doc.Anchors() {
			if matchesAny(documentAnchorPatterns, a, buf) {
				found++
				if found >= minDocumentAnchors {
					return sec, true
				}
			}
		}
	}
	return edgar.HTMLSection{}, false
}

func matchesAny(patterns []*regexp.Regexp, a edgar.Anchor, buf string) bool {
	for _, re := range patterns {
		if anchorMatches(re, a, buf) {
			return true
		}
	}
	return false
}

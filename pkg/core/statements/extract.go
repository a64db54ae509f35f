package statements

import (
	"errors"
	"fmt"
	"regexp"

	"filing_extract/pkg/core/edgar"

	"github.com/rs/zerolog/log"
)

var (
	// a document must mention all of these to be scanned as a last resort
	regexFinanceStatements = regexp.MustCompile(`(?is)financ.+?statement`)
	regexOperations        = anchorPatterns[StatementOfOperations]
	regexCashFlowStatement = regexp.MustCompile(`(?is)(?:statement|statements)\s+?of\s+?cash\sflow`)
)

// SharesFinder extracts the outstanding share count from an HTML document.
// It returns -1 when nothing qualifies.
type SharesFinder interface {
	Extract(html string) (int64, error)
}

// Extractor runs the full statement search over one submission.
type Extractor struct {
	Forms  []string // document types searched first, e.g. "10-Q"
	Shares SharesFinder
}

// NewExtractor creates an extractor for the given forms.
func NewExtractor(forms []string, shares SharesFinder) *Extractor {
	return &Extractor{Forms: forms, Shares: shares}
}

// Extract locates and extracts the financial statements of a submission.
//
// The document whose type is in Forms is tried first, then the document with
// the most statement links, each with anchors and then by content. As a last
// resort every HTML document mentioning all three statements is scanned.
// A result without data is not an error; check HasData.
func (e *Extractor) Extract(buf string) (*FinancialStatements, error) {
	sections := edgar.HTMLSections(buf)

	tried := map[int]bool{}
	var candidates []edgar.HTMLSection

	isForm := edgar.FormsFilter(e.Forms)
	for _, sec := range sections {
		if isForm(sec) {
			candidates = append(candidates, sec)
			break
		}
	}
	if sec, ok := FindFinancialContentUsingAnchors(buf, sections); ok {
		candidates = append(candidates, sec)
	}

	for _, sec := range candidates {
		if tried[sec.HTML.Start] {
			continue
		}
		tried[sec.HTML.Start] = true

		if fs := extractFromDocument(buf, sec); fs.HasData() {
			return e.finish(buf, sec, fs)
		}
	}

	// do it the hard way
	for _, sec := range sections {
		if tried[sec.HTML.Start] {
			continue
		}
		html := sec.HTML.Text(buf)
		if !regexFinanceStatements.MatchString(html) ||
			!regexOperations.MatchString(html) ||
			!regexCashFlowStatement.MatchString(html) {
			continue
		}
		fs := ExtractUsingContent(buf, edgar.NewHTMLDocument(buf, sec.HTML))
		if fs.HasData() {
			return e.finish(buf, sec, fs)
		}
	}

	return newFinancialStatements(), nil
}

// extractFromDocument tries the anchor tier and falls back to the content scan.
func extractFromDocument(buf string, sec edgar.HTMLSection) *FinancialStatements {
	doc := edgar.NewHTMLDocument(buf, sec.HTML)

	fs, err := ExtractUsingAnchors(buf, doc)
	if err != nil {
		if !errors.Is(err, edgar.ErrNotFound) {
			return newFinancialStatements()
		}
		log.Info().Str("file", sec.FileName).Err(err).Msg("problem with anchors, continuing with the long way")
	}
	if fs.HasData() {
		return fs
	}
	return ExtractUsingContent(buf, doc)
}

// finish resolves multipliers, collects values and looks up shares outstanding.
func (e *Extractor) finish(buf string, sec edgar.HTMLSection, fs *FinancialStatements) (*FinancialStatements, error) {
	fs.HTML = sec.HTML
	fs.FileName = sec.FileName
	fs.ResolveMultipliers(buf)
	fs.CollectAllValues()

	if e.Shares != nil {
		shares, err := e.Shares.Extract(sec.HTML.Text(buf))
		if err != nil {
			return fs, fmt.Errorf("shares outstanding for %s: %w", sec.FileName, err)
		}
		fs.OutstandingShares = shares
	}
	return fs, nil
}

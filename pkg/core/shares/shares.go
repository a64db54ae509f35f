// Package shares finds the number of shares outstanding on a filing's cover page.
package shares

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"filing_extract/pkg/core/edgar"

	"golang.org/x/text/unicode/norm"
)

const (
	DefaultMaxHTML = 1_000_000
	DefaultMaxText = 20_000

	// how far past an "as of"/"number of" match to look for a shares keyword
	keywordWindow = 100
)

const bigNumber = `[1-9](?:[0-9]{0,2})(?:,[0-9]{3})+`

var (
	regexHighASCII      = regexp.MustCompile(`[^\x00-\x7f]`)
	regexMultipleSpaces = regexp.MustCompile(` {2,}`)
	regexNewlines       = regexp.MustCompile(`\n+`)
	regexPadNumber      = regexp.MustCompile(`(` + bigNumber + `)`)
	regexDollarNumber   = regexp.MustCompile(`\$ +\b` + bigNumber + `\b`)

	// cover page checkbox: "Yes [X] No [ ] ... 12,345,678"
	regexYesNo = regexp.MustCompile(`(?i)\byes\b.{1,10}?no.{1,1000}?\b` + bigNumber + `\b`)
	// "indicate the number of shares ... as of ..."
	regexAsOf     = regexp.MustCompile(`(?i)(?:\bindicate\b|\bas of \b|\bnumber of\b).{1,200}?\b` + bigNumber + `\b`)
	regexKeywords = regexp.MustCompile(`(?i)(?:\bshares|outstanding|common\b)`)

	regexNumber = regexp.MustCompile(`\b` + bigNumber + `\b`)
)

// ConversionError reports a share count that matched but could not be parsed.
type ConversionError struct {
	Text string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("can't convert %q to shares outstanding: %v", e.Text, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Extractor bounds how much of a document is examined.
type Extractor struct {
	MaxHTML int // bytes of HTML parsed
	MaxText int // characters of text kept
}

// NewExtractor returns an extractor with the default limits.
func NewExtractor() *Extractor {
	return &Extractor{MaxHTML: DefaultMaxHTML, MaxText: DefaultMaxText}
}

// Extract returns the shares outstanding stated in html, or -1 if none is found.
func (e *Extractor) Extract(html string) (int64, error) {
	text, _, err := edgar.PlainText(html, e.MaxHTML, e.MaxText)
	if err != nil {
		return -1, err
	}
	return FromText(CleanText(text))
}

// CleanText prepares extracted text for the candidate search: non-ASCII
// becomes space, whitespace collapses, big numbers are padded with spaces and
// dollar amounts are blanked so they can't pass for share counts.
func CleanText(text string) string {
	text = norm.NFKC.String(text)
	text = regexHighASCII.ReplaceAllString(text, " ")
	text = regexMultipleSpaces.ReplaceAllString(text, " ")
	text = regexNewlines.ReplaceAllString(text, " ")
	text = regexPadNumber.ReplaceAllString(text, " $1 ")
	text = regexDollarNumber.ReplaceAllString(text, " ")
	return text
}

// FindCandidates returns the text windows likely to hold the share count,
// shortest first.
func FindCandidates(text string) []string {
	candidates := regexYesNo.FindAllString(text, -1)

	if len(candidates) == 0 {
		for _, loc := range regexAsOf.FindAllStringIndex(text, -1) {
			end := min(loc[1]+keywordWindow, len(text))
			if regexKeywords.MatchString(text[loc[0]:end]) {
				candidates = append(candidates, text[loc[0]:loc[1]])
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i]) < len(candidates[j])
	})
	return candidates
}

// FromText picks the share count out of cleaned text.
func FromText(text string) (int64, error) {
	for _, c := range FindCandidates(text) {
		m := regexNumber.FindString(c)
		if m == "" {
			continue
		}
		digits := strings.ReplaceAll(m, ",", "")
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return -1, &ConversionError{Text: m, Err: err}
		}
		return n, nil
	}
	return -1, nil
}

// Package edgar splits EDGAR submission files into their sub-documents and
// exposes a parsed, offset-preserving view over their HTML.
package edgar

import "strings"

// Span is a (start, length) window into the raw filing buffer.
// Every section, anchor, table and line handed out by this package is a Span,
// so nothing outlives or copies the buffer it was cut from.
type Span struct {
	Start int `json:"start"`
	Len   int `json:"len"`
}

// End returns the offset one past the last byte of the span.
func (s Span) End() int {
	return s.Start + s.Len
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool {
	return s.Len == 0
}

// Text returns the slice of buf covered by the span.
// Out of range spans are clamped rather than panicking.
func (s Span) Text(buf string) string {
	start, end := s.Start, s.End()
	if start < 0 {
		start = 0
	}
	if end > len(buf) {
		end = len(buf)
	}
	if start >= end {
		return ""
	}
	return buf[start:end]
}

// Union returns the smallest span covering both s and o. An empty operand is ignored.
func (s Span) Union(o Span) Span {
	if s.Empty() {
		return o
	}
	if o.Empty() {
		return s
	}
	start := min(s.Start, o.Start)
	end := max(s.End(), o.End())
	return Span{Start: start, Len: end - start}
}

// Section is one <DOCUMENT>...</DOCUMENT> region of a submission.
type Section struct {
	Span
}

// HTMLSection is an HTML exhibit inside a submission
type HTMLSection struct {
	FileName string `json:"file_name"`
	FileType string `json:"file_type"` // e.g. "10-Q", "EX-101.INS"
	HTML     Span   `json:"html"`      // payload between <TEXT> and </TEXT>
}

// Anchor is an <a> element. Destinations carry Name or ID, links carry Href.
type Anchor struct {
	Name    string `json:"name,omitempty"`
	ID      string `json:"id,omitempty"`
	Href    string `json:"href,omitempty"`
	Content Span   `json:"content"` // raw "<a ...>...</a>" markup
}

// Names reports whether the anchor is a destination called target, by
// either its name or its id, ignoring case.
func (a Anchor) Names(target string) bool {
	if target == "" {
		return false
	}
	return strings.EqualFold(a.Name, target) || strings.EqualFold(a.ID, target)
}

// IsLink reports whether the anchor points inside the same document.
func (a Anchor) IsLink() bool {
	return len(a.Href) > 1 && a.Href[0] == '#'
}

// TableGrid is a table flattened to tab separated cells, one row per line.
type TableGrid struct {
	Raw   Span     `json:"raw"`
	Text  string   `json:"text"`
	Lines []string `json:"lines"`
}

package edgar

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	regexDocument = regexp.MustCompile(`(?s)<DOCUMENT>.*?</DOCUMENT>`)
	regexFileName = regexp.MustCompile(`(?m)^<FILENAME>(.*?)$`)
	regexFileType = regexp.MustCompile(`(?m)^<TYPE>(.*?)$`)
)

// LocateSections returns every <DOCUMENT> region of the submission in file order.
func LocateSections(buf string) []Section {
	locs := regexDocument.FindAllStringIndex(buf, -1)
	sections := make([]Section, 0, len(locs))
	for _, loc := range locs {
		sections = append(sections, Section{Span{Start: loc[0], Len: loc[1] - loc[0]}})
	}
	return sections
}

// Name returns the declared <FILENAME> of the section.
func (s Section) Name(buf string) (string, error) {
	return findMarker(regexFileName, s.Text(buf), "file name")
}

// Type returns the declared <TYPE> of the section.
func (s Section) Type(buf string) (string, error) {
	return findMarker(regexFileType, s.Text(buf), "file type")
}

func findMarker(re *regexp.Regexp, text, what string) (string, error) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", fmt.Errorf("can't find %s: %w", what, ErrNotFound)
	}
	return strings.TrimSpace(m[1]), nil
}

// ExtractHTML returns the payload of the section: everything after the line
// holding <TEXT> up to the last </TEXT>.
func ExtractHTML(buf string, s Section) (Span, error) {
	text := s.Text(buf)

	begin := strings.Index(text, "<TEXT>")
	if begin < 0 {
		return Span{}, fmt.Errorf("can't find <TEXT> marker: %w", ErrNotFound)
	}
	// skip the rest of the marker line
	nl := strings.IndexByte(text[begin:], '\n')
	if nl < 0 {
		return Span{}, fmt.Errorf("can't find start of content: %w", ErrNotFound)
	}
	begin += nl + 1

	end := strings.LastIndex(text, "</TEXT>")
	if end < begin {
		return Span{}, fmt.Errorf("can't find end of content: %w", ErrNotFound)
	}
	return Span{Start: s.Start + begin, Len: end - begin}, nil
}

// HTMLSections lists the HTML exhibits of the submission. Sections without a
// usable file name or payload are skipped.
func HTMLSections(buf string) []HTMLSection {
	var result []HTMLSection
	for _, s := range LocateSections(buf) {
		name, err := s.Name(buf)
		if err != nil || !isHTMLFile(name) {
			continue
		}
		fileType, _ := s.Type(buf)
		payload, err := ExtractHTML(buf, s)
		if err != nil {
			continue
		}
		result = append(result, HTMLSection{FileName: name, FileType: fileType, HTML: payload})
	}
	return result
}

func isHTMLFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".htm", ".html":
		return true
	}
	return false
}

// FormsFilter returns a predicate accepting HTML sections whose type is in forms.
func FormsFilter(forms []string) func(HTMLSection) bool {
	return func(h HTMLSection) bool {
		for _, f := range forms {
			if h.FileType == f {
				return true
			}
		}
		return false
	}
}

// FormIsInFileName reports whether path contains one of the forms as a
// directory component, e.g. ".../10-Q/...".
func FormIsInFileName(forms []string, path string) bool {
	path = filepath.ToSlash(path)
	for _, f := range forms {
		if strings.Contains(path, "/"+f+"/") {
			return true
		}
	}
	return false
}

package edgar

import (
	"regexp"
	"strings"
	"time"

	"filing_extract/pkg/models"
)

var (
	regexSECHeader = regexp.MustCompile(`(?s)<SEC-HEADER>.*?</SEC-HEADER>`)
	regexSICCode   = regexp.MustCompile(`\[(\d+)\]`)

	headerPatterns = map[string]*regexp.Regexp{
		models.FieldCIK:           headerLine("CENTRAL INDEX KEY"),
		models.FieldCompanyName:   headerLine("COMPANY CONFORMED NAME"),
		models.FieldFormType:      headerLine("CONFORMED SUBMISSION TYPE"),
		models.FieldDateFiled:     headerLine("FILED AS OF DATE"),
		models.FieldQuarterEnding: headerLine("CONFORMED PERIOD OF REPORT"),
		models.FieldSIC:           headerLine("STANDARD INDUSTRIAL CLASSIFICATION"),
	}
)

func headerLine(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*` + label + `:[ \t]*(.+?)[ \t\r]*$`)
}

// ParseHeader reads the identity fields from the <SEC-HEADER> block.
// Fields that are absent are left out of the map; callers use Require to
// enforce the ones they need. Dates are returned as YYYY-MM-DD.
func ParseHeader(buf string) models.HeaderFields {
	header := regexSECHeader.FindString(buf)
	if header == "" {
		// older submissions have no explicit block; stop at the first document
		header = buf
		if i := strings.Index(buf, "<DOCUMENT>"); i >= 0 {
			header = buf[:i]
		}
	}

	fields := models.HeaderFields{}
	for key, re := range headerPatterns {
		m := re.FindStringSubmatch(header)
		if m == nil {
			continue
		}
		value := m[1]
		switch key {
		case models.FieldDateFiled, models.FieldQuarterEnding:
			value = normalizeDate(value)
		case models.FieldSIC:
			if code := regexSICCode.FindStringSubmatch(value); code != nil {
				value = code[1]
			}
		}
		fields[key] = value
	}
	return fields
}

func normalizeDate(s string) string {
	t, err := time.Parse("20060102", s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}

package statements

import (
	"regexp"
	"strings"

	"filing_extract/pkg/models"
)

var (
	regexValue       = regexp.MustCompile(`^([()"'A-Za-z ,.-]+)[^\t]*\t\$?\s*([(-]? ?[.,0-9]+[)]?)[^\t]*\t`)
	regexPerShare    = regexp.MustCompile(`(?i)per.*?share`)
	regexPunctuation = regexp.MustCompile(`[[:punct:]]`)
)

// CollectValues extracts (label, value) pairs from the lines of a statement.
// Lines without a value are skipped, as are pairs whose label cleans to nothing.
func CollectValues(lines []string, suffix string) []models.LabelValue {
	var values []models.LabelValue
	for _, line := range lines {
		m := regexValue.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		label, value := m[1], m[2]
		if !regexPerShare.MatchString(label) {
			value = ApplyMultiplier(value, suffix)
		}
		label = CleanLabel(label)
		if label == "" {
			continue
		}
		values = append(values, models.LabelValue{Label: label, Value: value})
	}
	return values
}

// ApplyMultiplier appends suffix to the digits of value. A parenthesised
// (negative) value keeps its parentheses: "(1,234)" becomes "(1,234,000)".
func ApplyMultiplier(value, suffix string) string {
	value = strings.TrimSuffix(value, ")")
	value += suffix
	if strings.HasPrefix(value, "(") {
		value += ")"
	}
	return value
}

// CleanLabel turns punctuation into spaces, collapses whitespace and lowercases.
func CleanLabel(label string) string {
	label = regexPunctuation.ReplaceAllString(label, " ")
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

// CollectAllValues fills in the values of every block using its multiplier.
func (fs *FinancialStatements) CollectAllValues() {
	for _, b := range fs.Blocks() {
		b.Values = CollectValues(b.Lines, b.MultiplierSuffix)
	}
}

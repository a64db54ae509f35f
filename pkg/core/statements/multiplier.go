package statements

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

var regexMultiplier = regexp.MustCompile(`(?is)[(][^)]*?in (thousands|millions|billions|dollars).*?[)]`)

// Multiplier is the scale declared for a statement, e.g. "(in thousands)".
type Multiplier struct {
	Suffix string // appended to every non per-share value
	Value  int
}

var identityMultiplier = Multiplier{Suffix: "", Value: 1}

// TranslateMultiplier maps a scale word to its multiplier. Unknown words scale by one.
func TranslateMultiplier(word string) Multiplier {
	switch strings.ToLower(word) {
	case "thousands":
		return Multiplier{Suffix: ",000", Value: 1_000}
	case "millions":
		return Multiplier{Suffix: ",000,000", Value: 1_000_000}
	case "billions":
		return Multiplier{Suffix: ",000,000,000", Value: 1_000_000_000}
	}
	return identityMultiplier
}

// FindMultiplier looks for the first scale declaration in text.
func FindMultiplier(text string) (Multiplier, bool) {
	m := regexMultiplier.FindStringSubmatch(text)
	if m == nil {
		return Multiplier{}, false
	}
	return TranslateMultiplier(m[1]), true
}

// ResolveMultipliers sets the scale of every block. Each block is first
// searched on its own; blocks still unset after that share the first
// declaration found anywhere within the statements' bounds, or scale by one.
func (fs *FinancialStatements) ResolveMultipliers(buf string) {
	found := 0
	for _, b := range fs.Blocks() {
		if m, ok := FindMultiplier(b.Parsed); ok {
			b.setMultiplier(m)
			found++
			log.Debug().Str("statement", b.Type.String()).Str("multiplier", m.Suffix).Msg("block multiplier")
		}
	}
	if found == len(fs.Blocks()) {
		return
	}

	m, ok := FindMultiplier(fs.Bounds.Text(buf))
	if !ok {
		m = identityMultiplier
	}
	for _, b := range fs.Blocks() {
		if !b.resolved {
			b.setMultiplier(m)
		}
	}
}

package statements

import (
	"regexp"
	"strings"
)

// maxLineLength disqualifies narrative paragraphs that merely mention a keyword.
const maxLineLength = 150

type ruleSet struct {
	topics   []*regexp.Regexp
	required int
}

// rules is the static dispatch table used by Classify. The second topic of
// each set must also match a single short line.
var rules = map[StatementType]ruleSet{
	BalanceSheet: {
		topics: []*regexp.Regexp{
			regexp.MustCompile(`(?i)total[^\t]+?asset[^\t]*\t`),
			regexp.MustCompile(`(?i)total[^\t]+?liabilities[^\t]*\t`),
			regexp.MustCompile(`(?i)(?:(?:members|holders)[^\t]+?(?:equity|defici))|(?:common[^\t]+?share)|(?:common[^\t]+?stock)[^\t]*\t`),
			regexp.MustCompile(`(?i)prepaid[^\t]+?expense[^\t]*\t`),
		},
		required: 3,
	},
	StatementOfOperations: {
		topics: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:total|other|net|operat)[^\t]*?(?:income|revenue|sales|loss)[^\t]*\t`),
			regexp.MustCompile(`(?i)(?:operat|total|general|administ)[^\t]*?(?:expense|costs|loss|admin|general)[^\t]*\t`),
			regexp.MustCompile(`(?i)net[^\t]*?(?:gain|loss|income|earning)[^\t]*\t`),
			regexp.MustCompile(`(?i)(?:member[^\t]+?interest)|(?:share[^\t]*outstanding)|(?:per[^\t]+?share)|(?:number[^\t]*?share)[^\t]*\t`),
		},
		required: 4,
	},
	CashFlows: {
		topics: []*regexp.Regexp{
			regexp.MustCompile(`(?i)operating activities|(?:cash (?:flow[s]?|used|provided)[^\t]*?(?:from|in|by)[^\t]+?operating)[^\t]*\t`),
			regexp.MustCompile(`(?i)financing activities|(?:cash (?:flow[s]?|used|provided)[^\t]*?(?:from|in|by)[^\t]+?financing)[^\t]*\t`),
		},
		required: 2,
	},
	// StockholdersEquity has no rules: the heuristic was never worked out, so
	// Classify always rejects it.
}

// Classify reports whether grid, a table flattened to tab separated lines,
// looks like a statement of type t.
func Classify(t StatementType, grid string) bool {
	rs, ok := rules[t]
	if !ok || len(rs.topics) < 2 {
		return false
	}

	matched := 0
	for _, re := range rs.topics {
		if re.MatchString(grid) {
			matched++
		}
	}
	if matched < rs.required {
		return false
	}

	for _, line := range strings.Split(grid, "\n") {
		if len(line) < maxLineLength && rs.topics[1].MatchString(line) {
			return true
		}
	}
	return false
}

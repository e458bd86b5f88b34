package rank

import (
	"sort"

	"github.com/blue0513/git-complete/query"
)

// separator is the group divider git grep emits between context groups.
const separator = "--"

// Rank tallies raw grep output lines into distinct trimmed candidates,
// filters them by relative frequency and returns them most frequent first.
// Ties keep first-seen order. A threshold of 1.0 or more disables results
// entirely.
//
// When multiline is set, lines arrive from a line-numbered context search:
// match lines read "<num>:<text>", the following lines "<num>-<text>",
// blocks divided by separators. Only the following lines are tallied.
func Rank(rawLines []string, multiline bool, threshold float64, opts query.TrimOptions) []string {
	if threshold >= 1.0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	total := 0

	tally := func(line string) {
		t := query.Trim(line, opts)
		if t == "" {
			return
		}
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
		total++
	}

	if multiline {
		// Keying off the marker instead of line alternation keeps
		// adjacent blocks correct: grep merges them without a separator.
		for _, line := range rawLines {
			if line == separator {
				continue
			}
			if text, ok := contextText(line); ok {
				tally(text)
			}
		}
	} else {
		for _, line := range rawLines {
			tally(line)
		}
	}

	if total == 0 {
		return nil
	}

	var kept []string
	for _, c := range order {
		if float64(counts[c]) >= threshold*float64(total) {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return counts[kept[i]] > counts[kept[j]]
	})
	return kept
}

// contextText strips the "<num>-" marker from a context line, reporting
// false for match lines ("<num>:") and anything unmarked.
func contextText(line string) (string, bool) {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) || line[i] != '-' {
		return "", false
	}
	return line[i+1:], true
}

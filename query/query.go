package query

import (
	"regexp"
	"strings"

	"github.com/blue0513/git-complete/paren"
)

// Mode selects how the query text is taken from the buffer.
type Mode int

const (
	// SameLine completes the current line from its start up to the cursor.
	SameLine Mode = iota
	// NextLine completes a fresh line using the full previous line as the
	// query, asking the search for one trailing context line per match.
	NextLine
	// OmniShortened is the fallback that progressively drops leading
	// tokens from a same-line query that found nothing.
	OmniShortened
)

func (m Mode) String() string {
	switch m {
	case SameLine:
		return "SameLine"
	case NextLine:
		return "NextLine"
	case OmniShortened:
		return "OmniShortened"
	default:
		return "Unknown"
	}
}

// TrimOptions control the trimming rule shared by query extraction and
// candidate ranking.
type TrimOptions struct {
	// Anchor, when non-empty, discards everything before its first
	// occurrence. The whole string becomes empty when it is absent.
	Anchor string
	// Delimited additionally cuts the string at the first bracket that
	// closes a group the string never opened.
	Delimited bool
}

// Trim applies the shared trimming rule: the anchor cut, the delimited cut,
// then surrounding whitespace.
func Trim(s string, opts TrimOptions) string {
	if opts.Anchor != "" {
		i := strings.Index(s, opts.Anchor)
		if i < 0 {
			return ""
		}
		s = s[i:]
	}
	if opts.Delimited {
		s = paren.CutAtStrayClose(s)
	}
	return strings.TrimSpace(s)
}

// A Query is the text searched for in repository history, plus where in
// the cursor line that text starts.
type Query struct {
	Text     string
	StartCol int // byte offset into the cursor line where Text begins
	Mode     Mode
}

// Extract builds the query for the given cursor context. line is the
// cursor line and col the cursor's byte column; prevLine is the full line
// above. anchor, when non-empty, is the query text of a preceding chained
// completion and pins the extraction to its first occurrence.
func Extract(line string, col int, prevLine string, mode Mode, anchor string) Query {
	if mode == NextLine {
		return Query{Text: Trim(prevLine, TrimOptions{}), Mode: NextLine}
	}

	if col > len(line) {
		col = len(line)
	}
	raw := line[:col]
	start := 0
	if anchor != "" {
		i := strings.Index(raw, anchor)
		if i < 0 {
			return Query{Mode: mode}
		}
		start = i
		raw = raw[i:]
	}
	trimmed := strings.TrimLeft(raw, " \t")
	start += len(raw) - len(trimmed)
	trimmed = strings.TrimRight(trimmed, " \t")
	return Query{Text: trimmed, StartCol: start, Mode: mode}
}

var tokenStart = regexp.MustCompile(`^\w*\W+`)

// NextShorteningPoint returns the offset of the next identifier-like token
// in s, or -1 when no further shortening point exists. Each call strictly
// advances, so shortening a query of n tokens terminates within n steps.
func NextShorteningPoint(s string) int {
	loc := tokenStart.FindStringIndex(s)
	if loc == nil || loc[1] >= len(s) {
		return -1
	}
	return loc[1]
}

// Shorten drops the leading token from q with delimited trimming active,
// reporting false when no shortening point remains.
func Shorten(q Query) (Query, bool) {
	adv := NextShorteningPoint(q.Text)
	if adv < 0 {
		return q, false
	}
	text := Trim(q.Text[adv:], TrimOptions{Delimited: true})
	return Query{Text: text, StartCol: q.StartCol + adv, Mode: OmniShortened}, true
}

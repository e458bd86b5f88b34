package paren

// DiffResult is the balance-correction plan between a removed and an
// inserted piece of text.
type DiffResult struct {
	// MissingCloses are closers that must be appended after the inserted
	// text: groups the new text opens, plus closers the removed text used
	// to provide for opens that live elsewhere.
	MissingCloses []Token
	// ExtraCloses are closers the edit made redundant. Each is either
	// deleted from the text following the edit, or compensated by
	// re-inserting its opener in front of the replacement.
	ExtraCloses []Token
}

// Diff compares the unmatched brackets of the removed text with those of
// the inserted text and returns the minimal plan that keeps the
// surrounding buffer's balance unchanged.
func Diff(before, after State) DiffResult {
	deletedOpens, addedOpens := dropCommonPrefix(before.UnmatchedOpens, after.UnmatchedOpens)
	deletedCloses, addedCloses := dropCommonPrefix(before.UnmatchedCloses, after.UnmatchedCloses)

	// Opens added by the new text are closed innermost first so the
	// emitted closers nest correctly.
	missing := append([]Token{}, deletedCloses...)
	missing = append(missing, reversed(addedOpens)...)

	// Opens the removed text provided go innermost first too: their
	// leftover closers appear in that order in the text that follows.
	extra := append([]Token{}, reversed(deletedOpens)...)
	extra = append(extra, addedCloses...)

	return DiffResult{MissingCloses: missing, ExtraCloses: extra}
}

// dropCommonPrefix consumes tokens shared by both lists from the outermost
// end and returns what survives the edit on each side.
func dropCommonPrefix(before, after []Token) (fromBefore, fromAfter []Token) {
	i := 0
	for i < len(before) && i < len(after) && before[i].Char == after[i].Char {
		i++
	}
	return before[i:], after[i:]
}

func reversed(tokens []Token) []Token {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]Token, len(tokens))
	for i, t := range tokens {
		out[len(tokens)-1-i] = t
	}
	return out
}

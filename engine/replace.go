package engine

import (
	"strings"

	"github.com/blue0513/git-complete/paren"
	"github.com/blue0513/git-complete/types"
)

// Replace computes the buffer edit that substitutes replacement for the
// span [startCol,endCol) of row, inserting or deleting closers so the
// edit leaves the buffer's bracket balance unchanged. lispy allows the
// trailing closers to sit directly below the inserted line instead of
// leaving a blank line in between.
func Replace(lines []string, row, startCol, endCol int, replacement string, lispy bool) *types.BufferEdit {
	if row < 1 {
		row = 1
	}
	if row > len(lines)+1 {
		row = len(lines) + 1
	}
	var cur string
	if row <= len(lines) {
		cur = lines[row-1]
	}
	tail := row
	if tail > len(lines) {
		tail = len(lines)
	}
	if startCol > len(cur) {
		startCol = len(cur)
	}
	if endCol > len(cur) {
		endCol = len(cur)
	}
	if endCol < startCol {
		endCol = startCol
	}

	removed := cur[startCol:endCol]
	plan := paren.Diff(paren.Scan(removed), paren.Scan(replacement))

	seg := replacement
	brokeLine := false
	if len(plan.MissingCloses) > 0 {
		sep := "\n\n"
		if lispy {
			sep = "\n"
		}
		var closers strings.Builder
		for _, t := range plan.MissingCloses {
			closers.WriteByte(t.Closer())
		}
		seg += sep + closers.String()
		brokeLine = true
	}

	// Everything after the insertion point: the rest of the cursor line
	// plus all later lines.
	followParts := append([]string{cur[endCol:]}, lines[tail:]...)
	following := strings.Join(followParts, "\n")

	var openers []byte
	for _, t := range plan.ExtraCloses {
		if i := nextNonBlank(following); i >= 0 && following[i] == t.Closer() {
			// the removed text's open is gone, so its closer is redundant
			following = following[:i] + following[i+1:]
			continue
		}
		// No redundant closer ahead: the removed text closed an open that
		// still matters. Restore that opener in front of the replacement.
		openers = append([]byte{t.Opener()}, openers...)
	}

	if !brokeLine {
		seg += "\n"
	}

	full := cur[:startCol] + string(openers) + seg + following
	newLines := strings.Split(full, "\n")

	cursorRow := row + strings.Count(replacement, "\n") + 1

	return &types.BufferEdit{
		StartRow:      row,
		Lines:         newLines,
		CursorRow:     cursorRow,
		ReindentStart: row,
		ReindentEnd:   row + strings.Count(seg, "\n"),
	}
}

// nextNonBlank returns the index of the first byte of s that is neither
// whitespace nor a line break, or -1.
func nextNonBlank(s string) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return i
		}
	}
	return -1
}

package engine

import (
	"strings"

	"github.com/blue0513/git-complete/logger"
	"github.com/blue0513/git-complete/types"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// history accumulates every completion applied over one editor connection,
// in application order. It outlives individual Complete invocations and is
// exposed through the gitcomplete_history request.
type history struct {
	entries []*types.DiffEntry
	dmp     *diffmatchpatch.DiffMatchPatch
}

func newHistory() *history {
	return &history{dmp: diffmatchpatch.New()}
}

// record appends an applied completion and logs a compact character diff
// of the change.
func (h *history) record(original, updated string) {
	h.entries = append(h.entries, &types.DiffEntry{Original: original, Updated: updated})

	diffs := h.dmp.DiffMain(original, updated, false)
	diffs = h.dmp.DiffCleanupSemantic(diffs)
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-")
			b.WriteString(d.Text)
			b.WriteString("-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("[+")
			b.WriteString(d.Text)
			b.WriteString("+]")
		default:
			b.WriteString(d.Text)
		}
	}
	logger.Debug("completion %d applied: %s", len(h.entries), b.String())
}

// History returns the completions applied since the connection opened.
func (e *Engine) History() []*types.DiffEntry {
	return e.hist.entries
}

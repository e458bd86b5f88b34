package buffer

import (
	"errors"
	"fmt"

	"github.com/blue0513/git-complete/logger"
	"github.com/blue0513/git-complete/types"

	"github.com/neovim/go-client/nvim"
)

// ErrPickerCancelled reports that the user dismissed the candidate picker
// without choosing. The pending completion aborts silently on it.
var ErrPickerCancelled = errors.New("picker cancelled")

// NvimBuffer mirrors the current Neovim buffer and performs every
// editor-side operation of a completion: state sync, the interactive pick,
// the tail rewrite, re-indentation and cursor motion.
type NvimBuffer struct {
	client *nvim.Nvim

	lines    []string
	row      int // 1-indexed
	col      int // 0-indexed byte column
	path     string
	filetype string
	id       nvim.Buffer
}

func New(client *nvim.Nvim) *NvimBuffer {
	return &NvimBuffer{client: client, row: 1}
}

// Sync reads the buffer state from the editor with a single batched
// round-trip.
func (b *NvimBuffer) Sync() error {
	defer logger.Trace("buffer.Sync")()
	if b.client == nil {
		return fmt.Errorf("nvim client not set")
	}

	batch := b.client.NewBatch()

	var currentBuf nvim.Buffer
	var path string
	var lines [][]byte
	var cursor [2]int
	var filetype string

	batch.CurrentBuffer(&currentBuf)
	batch.BufferName(nvim.Buffer(0), &path)
	batch.BufferLines(nvim.Buffer(0), 0, -1, false, &lines)
	batch.WindowCursor(nvim.Window(0), &cursor)
	batch.ExecLua(`return vim.bo.filetype`, &filetype, nil)

	if err := batch.Execute(); err != nil {
		logger.Error("error executing sync batch: %v", err)
		return err
	}

	linesStr := make([]string, len(lines))
	for i, line := range lines {
		linesStr[i] = string(line)
	}

	b.id = currentBuf
	b.lines = linesStr
	b.row = cursor[0]
	b.col = cursor[1]
	b.path = path
	b.filetype = filetype
	return nil
}

// Accessor methods implementing the engine.Buffer interface.

func (b *NvimBuffer) Lines() []string { return b.lines }

func (b *NvimBuffer) Row() int { return b.row }

func (b *NvimBuffer) Col() int { return b.col }

func (b *NvimBuffer) Path() string { return b.path }

func (b *NvimBuffer) Filetype() string { return b.filetype }

// Line returns the cursor line's content.
func (b *NvimBuffer) Line() string {
	if b.row >= 1 && b.row-1 < len(b.lines) {
		return b.lines[b.row-1]
	}
	return ""
}

// PrevLine returns the full content of the line above the cursor.
func (b *NvimBuffer) PrevLine() string {
	if b.row >= 2 && b.row-2 < len(b.lines) {
		return b.lines[b.row-2]
	}
	return ""
}

// ApplyEdit replaces the buffer's tail with the edit's lines and keeps the
// local mirror consistent without another round-trip.
func (b *NvimBuffer) ApplyEdit(edit *types.BufferEdit) error {
	replacement := make([][]byte, len(edit.Lines))
	for i, l := range edit.Lines {
		replacement[i] = []byte(l)
	}
	if err := b.client.SetBufferLines(b.id, edit.StartRow-1, -1, false, replacement); err != nil {
		return fmt.Errorf("set buffer lines: %w", err)
	}
	b.lines = append(b.lines[:edit.StartRow-1], edit.Lines...)
	return nil
}

// Pick presents candidates through inputlist() and returns the chosen one.
// Answering 0, out of range, or aborting maps to ErrPickerCancelled.
func (b *NvimBuffer) Pick(candidates []string) (string, error) {
	items := make([]string, 0, len(candidates)+1)
	items = append(items, "git-complete:")
	for i, c := range candidates {
		items = append(items, fmt.Sprintf("%d: %s", i+1, c))
	}

	var choice int
	if err := b.client.ExecLua(`return vim.fn.inputlist(...)`, &choice, items); err != nil {
		return "", fmt.Errorf("inputlist: %w", err)
	}
	if choice < 1 || choice > len(candidates) {
		return "", ErrPickerCancelled
	}
	return candidates[choice-1], nil
}

// Reindent reformats the indentation of rows startRow..endRow in place.
func (b *NvimBuffer) Reindent(startRow, endRow int) error {
	if endRow < startRow {
		endRow = startRow
	}
	return b.client.Command(fmt.Sprintf("silent! %d,%dnormal! ==", startRow, endRow))
}

// MoveCursor places the cursor on the first non-blank column of row.
func (b *NvimBuffer) MoveCursor(row int) error {
	if err := b.client.Command(fmt.Sprintf("call cursor(%d, 1)", row)); err != nil {
		return err
	}
	return b.client.Command("normal! ^")
}

// Echo shows a message in the command area.
func (b *NvimBuffer) Echo(msg string) {
	if err := b.client.WriteOut(msg + "\n"); err != nil {
		logger.Debug("echo failed: %v", err)
	}
}

package engine

import (
	"context"

	"github.com/blue0513/git-complete/gitsearch"
	"github.com/blue0513/git-complete/types"
)

// mockBuffer is an in-memory Buffer whose picker and cursor behave like
// the editor's, recording every mutation for assertions.
type mockBuffer struct {
	lines    []string
	row      int
	col      int
	path     string
	filetype string

	syncCount int
	edits     []*types.BufferEdit
	reindents [][2]int
	echoes    []string
	pickCalls [][]string
	pickFunc  func(candidates []string) (string, error)
}

func newMockBuffer(lines []string, row, col int) *mockBuffer {
	return &mockBuffer{
		lines: lines,
		row:   row,
		col:   col,
		path:  "/repo/script.pl",
		pickFunc: func(candidates []string) (string, error) {
			return candidates[0], nil
		},
	}
}

func (b *mockBuffer) Sync() error {
	b.syncCount++
	return nil
}

func (b *mockBuffer) Lines() []string { return b.lines }
func (b *mockBuffer) Row() int        { return b.row }
func (b *mockBuffer) Col() int        { return b.col }
func (b *mockBuffer) Path() string    { return b.path }
func (b *mockBuffer) Filetype() string {
	return b.filetype
}

func (b *mockBuffer) Line() string {
	if b.row >= 1 && b.row-1 < len(b.lines) {
		return b.lines[b.row-1]
	}
	return ""
}

func (b *mockBuffer) PrevLine() string {
	if b.row >= 2 && b.row-2 < len(b.lines) {
		return b.lines[b.row-2]
	}
	return ""
}

func (b *mockBuffer) ApplyEdit(edit *types.BufferEdit) error {
	b.edits = append(b.edits, edit)
	b.lines = append(b.lines[:edit.StartRow-1], edit.Lines...)
	return nil
}

func (b *mockBuffer) Pick(candidates []string) (string, error) {
	b.pickCalls = append(b.pickCalls, candidates)
	return b.pickFunc(candidates)
}

func (b *mockBuffer) Reindent(startRow, endRow int) error {
	b.reindents = append(b.reindents, [2]int{startRow, endRow})
	return nil
}

func (b *mockBuffer) MoveCursor(row int) error {
	b.row = row
	b.col = 0
	if row >= 1 && row-1 < len(b.lines) {
		line := b.lines[row-1]
		for i := 0; i < len(line); i++ {
			if line[i] != ' ' && line[i] != '\t' {
				b.col = i
				break
			}
		}
	}
	return nil
}

func (b *mockBuffer) Echo(msg string) {
	b.echoes = append(b.echoes, msg)
}

// grepCall records one search the engine issued.
type grepCall struct {
	query string
	opts  gitsearch.GrepOptions
}

// mockSearcher replays scripted responses in call order, repeating the
// last one when the script runs out.
type mockSearcher struct {
	calls     []grepCall
	responses [][]string
}

func (s *mockSearcher) Grep(_ context.Context, _ string, q string, opts gitsearch.GrepOptions) ([]string, error) {
	s.calls = append(s.calls, grepCall{query: q, opts: opts})
	if len(s.responses) == 0 {
		return nil, nil
	}
	resp := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return resp, nil
}

type mockResolver struct {
	root string
	err  error
}

func (r *mockResolver) Root(_ context.Context, _ string) (string, error) {
	return r.root, r.err
}

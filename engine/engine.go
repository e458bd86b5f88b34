package engine

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/blue0513/git-complete/buffer"
	"github.com/blue0513/git-complete/gitsearch"
	"github.com/blue0513/git-complete/logger"
	"github.com/blue0513/git-complete/query"
	"github.com/blue0513/git-complete/rank"
	"github.com/blue0513/git-complete/types"
)

// Buffer is the editor surface the engine completes into.
// Implemented by buffer.NvimBuffer for Neovim integration.
type Buffer interface {
	Sync() error
	Lines() []string
	Line() string
	PrevLine() string
	Row() int
	Col() int
	Path() string
	Filetype() string
	ApplyEdit(edit *types.BufferEdit) error
	Pick(candidates []string) (string, error)
	Reindent(startRow, endRow int) error
	MoveCursor(row int) error
	Echo(msg string)
}

// Searcher runs literal searches over the repository's tracked content.
// Implemented by gitsearch.Searcher.
type Searcher interface {
	Grep(ctx context.Context, root, q string, opts gitsearch.GrepOptions) ([]string, error)
}

// Resolver locates the repository root enclosing a file.
// Implemented by gitsearch.Resolver.
type Resolver interface {
	Root(ctx context.Context, path string) (string, error)
}

// Engine drives one completion invocation end to end: query extraction,
// the repository search, ranking, the interactive pick and the balanced
// replacement, chaining into multi-line continuation while candidates stay
// confident.
type Engine struct {
	buffer   Buffer
	searcher Searcher
	resolver Resolver
	config   types.Config
	hist     *history
}

func New(buf Buffer, searcher Searcher, resolver Resolver, config types.Config) *Engine {
	return &Engine{buffer: buf, searcher: searcher, resolver: resolver, config: config, hist: newHistory()}
}

// Complete runs the completion state machine to termination. Every failure
// mode of the completion itself is a terminal state reported to the user,
// not an error; only editor RPC failures propagate.
func (e *Engine) Complete(ctx context.Context) error {
	defer logger.Trace("engine.Complete")()

	if err := e.buffer.Sync(); err != nil {
		return err
	}

	root, err := e.resolver.Root(ctx, e.buffer.Path())
	if err != nil {
		if errors.Is(err, gitsearch.ErrNotInRepository) {
			e.buffer.Echo("git-complete: not inside a git repository")
			return nil
		}
		return err
	}

	omniAllowed := e.config.OmniCompletion
	continuation := false
	anchor := ""
	quiet := false

	st := stateIdle
	var q query.Query
	var candidates []string

	for {
		logger.Debug("state=%s", st)
		switch st {
		case stateIdle:
			q = e.buildQuery(anchor)
			if q.Text == "" {
				// an empty query is a silent no-match
				quiet = true
				st = stateNoMatch
				break
			}
			st = stateQueryBuilt

		case stateQueryBuilt:
			candidates, err = e.fetchCandidates(ctx, root, q, e.thresholdFor(q.Mode, continuation))
			if err != nil {
				return err
			}
			st = stateCandidatesFetched

		case stateCandidatesFetched:
			switch {
			case len(candidates) > 0:
				st = stateSelected
			case omniAllowed && q.Mode != query.NextLine:
				st = stateOmniRetry
			default:
				st = stateNoMatch
			}

		case stateOmniRetry:
			shortened, ok := query.Shorten(q)
			if !ok || shortened.Text == "" {
				st = stateNoMatch
				break
			}
			q = shortened
			logger.Debug("omni retry: query=%q anchor col=%d", q.Text, q.StartCol)
			st = stateQueryBuilt

		case stateSelected:
			choice, err := e.buffer.Pick(candidates)
			if err != nil {
				if errors.Is(err, buffer.ErrPickerCancelled) {
					// user aborted: nothing was mutated, end silently
					return nil
				}
				return err
			}
			if err := e.applyChoice(q, choice); err != nil {
				return err
			}
			if !e.config.RepeatCompletion {
				return nil
			}
			if err := e.buffer.Sync(); err != nil {
				return err
			}
			continuation = true
			omniAllowed = false
			anchor = ""
			quiet = true
			st = stateIdle

		case stateNoMatch:
			if !quiet {
				e.buffer.Echo("git-complete: no completions found")
			}
			return nil
		}
	}
}

// buildQuery extracts the query for the current cursor context. A cursor
// with nothing but whitespace before it completes a fresh line from the
// line above.
func (e *Engine) buildQuery(anchor string) query.Query {
	line, col, row := e.buffer.Line(), e.buffer.Col(), e.buffer.Row()
	mode := query.SameLine
	if e.config.NextLineCompletion && row > 1 && atLineStart(line, col) {
		mode = query.NextLine
	}
	q := query.Extract(line, col, e.buffer.PrevLine(), mode, anchor)
	logger.Debug("query: mode=%s text=%q col=%d", q.Mode, q.Text, q.StartCol)
	return q
}

func atLineStart(line string, col int) bool {
	if col > len(line) {
		col = len(line)
	}
	return strings.TrimSpace(line[:col]) == ""
}

func (e *Engine) thresholdFor(mode query.Mode, continuation bool) float64 {
	if continuation {
		return e.config.RepeatThreshold
	}
	if mode == query.NextLine {
		return e.config.NextLineThreshold
	}
	return e.config.Threshold
}

// fetchCandidates runs the repository search for q and ranks the output.
func (e *Engine) fetchCandidates(ctx context.Context, root string, q query.Query, threshold float64) ([]string, error) {
	opts := gitsearch.GrepOptions{
		WithContext: q.Mode == query.NextLine,
		IgnoreCase:  e.ignoreCase(q.Text),
	}
	if e.config.LimitExtension {
		if ext := strings.TrimPrefix(filepath.Ext(e.buffer.Path()), "."); ext != "" {
			opts.Extension = ext
		}
	}

	raw, err := e.searcher.Grep(ctx, root, q.Text, opts)
	if err != nil {
		return nil, err
	}

	trim := query.TrimOptions{}
	if q.Mode == query.OmniShortened {
		trim = query.TrimOptions{Anchor: q.Text, Delimited: true}
	}
	candidates := rank.Rank(raw, opts.WithContext, threshold, trim)
	logger.Debug("candidates: %d raw, %d ranked (threshold %.2f)", len(raw), len(candidates), threshold)
	return candidates, nil
}

func (e *Engine) ignoreCase(q string) bool {
	switch e.config.IgnoreCase {
	case types.IgnoreCaseAlways:
		return true
	case types.IgnoreCaseDwim:
		return gitsearch.DwimIgnoreCase(q)
	default:
		return false
	}
}

// applyChoice splices the chosen candidate over the query span, keeps the
// bracket balance intact, re-indents the affected rows and advances the
// cursor to the following line.
func (e *Engine) applyChoice(q query.Query, choice string) error {
	row, col := e.buffer.Row(), e.buffer.Col()
	startCol := q.StartCol
	if q.Mode == query.NextLine {
		// nothing of the fresh line is kept; the pick replaces it whole
		startCol = 0
	}

	before := e.buffer.Line()
	lispy := e.config.IsLispy(e.buffer.Filetype())
	edit := Replace(e.buffer.Lines(), row, startCol, col, choice, lispy)

	if err := e.buffer.ApplyEdit(edit); err != nil {
		return err
	}
	if err := e.buffer.Reindent(edit.ReindentStart, edit.ReindentEnd); err != nil {
		return err
	}
	if err := e.buffer.MoveCursor(edit.CursorRow); err != nil {
		return err
	}

	e.hist.record(before, edit.Lines[0])
	return nil
}

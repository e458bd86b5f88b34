package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/blue0513/git-complete/buffer"
	"github.com/blue0513/git-complete/gitsearch"
	"github.com/blue0513/git-complete/paren"
	"github.com/blue0513/git-complete/types"
	"github.com/stretchr/testify/assert"
)

func testConfig() types.Config {
	config := types.DefaultConfig()
	config.IgnoreCase = types.IgnoreCaseNone
	return config
}

func unmatchedOpens(lines []string) int {
	return len(paren.Scan(strings.Join(lines, "\n")).UnmatchedOpens)
}

func TestCompleteEndToEnd(t *testing.T) {
	// Five occurrences of the popular line, one unrelated hit.
	hits := []string{
		"use Digest::SHA qw/sha1_base64/;",
		"use Digest::SHA qw/sha1_base64/;",
		"use Digest::SHA qw/sha1_base64/;",
		"unrelated ::SHA mention",
		"use Digest::SHA qw/sha1_base64/;",
		"use Digest::SHA qw/sha1_base64/;",
	}
	buf := newMockBuffer([]string{"::SHA"}, 1, 5)
	searcher := &mockSearcher{responses: [][]string{hits, nil}}
	eng := New(buf, searcher, &mockResolver{root: "/repo"}, testConfig())

	balanceBefore := unmatchedOpens(buf.lines)
	err := eng.Complete(context.Background())
	assert.NoError(t, err, "complete")

	// The 5-occurrence line ranks first and gets picked.
	assert.Len(t, buf.pickCalls, 1, "one pick")
	assert.Equal(t, "use Digest::SHA qw/sha1_base64/;", buf.pickCalls[0][0], "top candidate")
	assert.Len(t, buf.edits, 1, "one edit applied")
	assert.Equal(t, "use Digest::SHA qw/sha1_base64/;", buf.lines[0], "query replaced by the pick")
	assert.Equal(t, balanceBefore, unmatchedOpens(buf.lines), "bracket balance unchanged")

	// The continuation pass queried the inserted line with a context line.
	assert.Len(t, searcher.calls, 2, "initial search plus one continuation")
	assert.Equal(t, "::SHA", searcher.calls[0].query, "initial query")
	assert.False(t, searcher.calls[0].opts.WithContext, "same-line search has no context lines")
	assert.Equal(t, "use Digest::SHA qw/sha1_base64/;", searcher.calls[1].query, "continuation queries the inserted line")
	assert.True(t, searcher.calls[1].opts.WithContext, "continuation asks for the following line")

	// Nothing matched at the continuation threshold: the chain ends
	// silently.
	assert.Len(t, buf.echoes, 0, "no message after a successful completion")
}

func TestCompleteNotInRepository(t *testing.T) {
	buf := newMockBuffer([]string{"foo"}, 1, 3)
	searcher := &mockSearcher{}
	eng := New(buf, searcher, &mockResolver{err: gitsearch.ErrNotInRepository}, testConfig())

	err := eng.Complete(context.Background())
	assert.NoError(t, err, "abort is not an error")
	assert.Len(t, searcher.calls, 0, "no search runs outside a repository")
	assert.Len(t, buf.edits, 0, "no mutation")
	assert.Len(t, buf.echoes, 1, "user is told")
	assert.Contains(t, buf.echoes[0], "not inside a git repository", "message")
}

func TestCompleteEmptyQueryIsSilent(t *testing.T) {
	buf := newMockBuffer([]string{""}, 1, 0)
	searcher := &mockSearcher{}
	eng := New(buf, searcher, &mockResolver{root: "/repo"}, testConfig())

	err := eng.Complete(context.Background())
	assert.NoError(t, err, "complete")
	assert.Len(t, searcher.calls, 0, "nothing to search for")
	assert.Len(t, buf.echoes, 0, "empty query aborts without a message")
}

func TestCompleteNoCandidates(t *testing.T) {
	config := testConfig()
	config.OmniCompletion = false
	buf := newMockBuffer([]string{"zzz_nowhere"}, 1, 11)
	eng := New(buf, &mockSearcher{}, &mockResolver{root: "/repo"}, config)

	err := eng.Complete(context.Background())
	assert.NoError(t, err, "complete")
	assert.Len(t, buf.edits, 0, "no mutation")
	assert.Len(t, buf.echoes, 1, "user is told")
	assert.Contains(t, buf.echoes[0], "no completions found", "message")
}

func TestCompletePickerCancelled(t *testing.T) {
	buf := newMockBuffer([]string{"::SHA"}, 1, 5)
	buf.pickFunc = func([]string) (string, error) {
		return "", buffer.ErrPickerCancelled
	}
	searcher := &mockSearcher{responses: [][]string{{"use Digest::SHA;", "use Digest::SHA;"}}}
	eng := New(buf, searcher, &mockResolver{root: "/repo"}, testConfig())

	err := eng.Complete(context.Background())
	assert.NoError(t, err, "cancellation is not an error")
	assert.Len(t, buf.edits, 0, "cancellation leaves the buffer untouched")
	assert.Len(t, buf.reindents, 0, "no re-indent either")
	assert.Len(t, buf.echoes, 0, "silent abort")
	assert.Equal(t, []string{"::SHA"}, buf.lines, "buffer unchanged")
}

func TestCompleteOmniShortening(t *testing.T) {
	config := testConfig()
	config.RepeatCompletion = false
	// "if (x) sha1(" finds nothing; the shortened query is bounded at the
	// enclosing group and becomes "x".
	line := "if (x) sha1("
	buf := newMockBuffer([]string{line}, 1, len(line))
	searcher := &mockSearcher{responses: [][]string{nil}}
	eng := New(buf, searcher, &mockResolver{root: "/repo"}, config)

	err := eng.Complete(context.Background())
	assert.NoError(t, err, "complete")
	assert.Len(t, buf.edits, 0, "nothing ever matched")
	assert.Equal(t, 2, len(searcher.calls), "one retry before shortening is exhausted")
	assert.Equal(t, "if (x) sha1(", searcher.calls[0].query, "full query first")
	assert.Equal(t, "x", searcher.calls[1].query, "shortened query is cut at the stray closer")
	assert.Len(t, buf.echoes, 1, "no-match is reported once")
}

func TestCompleteOmniSuccessRestoresOpener(t *testing.T) {
	config := testConfig()
	config.RepeatCompletion = false
	line := "foo sha1_base64("
	buf := newMockBuffer([]string{line}, 1, len(line))
	searcher := &mockSearcher{responses: [][]string{
		nil, // full query misses
		{"my $x = sha1_base64($data);", "return sha1_base64($data);"},
	}}
	eng := New(buf, searcher, &mockResolver{root: "/repo"}, config)

	balanceBefore := unmatchedOpens(buf.lines)
	err := eng.Complete(context.Background())
	assert.NoError(t, err, "complete")

	assert.Equal(t, "sha1_base64(", searcher.calls[1].query, "shortened to the call token")
	// Candidates collapse onto the anchored suffix.
	assert.Equal(t, []string{"sha1_base64($data);"}, buf.pickCalls[0], "anchored candidate")
	// The replacement closes the paren the removed text opened, so the
	// opener is restored in front of it.
	assert.Equal(t, "foo (sha1_base64($data);", buf.lines[0], "opener restored before the insertion")
	assert.Equal(t, balanceBefore, unmatchedOpens(buf.lines), "bracket balance unchanged")
}

func TestCompleteNextLineMode(t *testing.T) {
	config := testConfig()
	config.RepeatCompletion = false
	buf := newMockBuffer([]string{"use strict;", ""}, 2, 0)
	searcher := &mockSearcher{responses: [][]string{{
		"3:use strict;", "4-use warnings;", "--",
		"9:use strict;", "10-use warnings;",
	}}}
	eng := New(buf, searcher, &mockResolver{root: "/repo"}, config)

	err := eng.Complete(context.Background())
	assert.NoError(t, err, "complete")
	assert.True(t, searcher.calls[0].opts.WithContext, "fresh-line completion wants context lines")
	assert.Equal(t, "use strict;", searcher.calls[0].query, "previous line is the query")
	assert.Equal(t, "use warnings;", buf.lines[1], "following line inserted")
}

func TestHistoryAccumulatesAcrossInvocations(t *testing.T) {
	config := testConfig()
	config.RepeatCompletion = false
	buf := newMockBuffer([]string{"::SHA"}, 1, 5)
	searcher := &mockSearcher{responses: [][]string{
		{"use Digest::SHA;", "use Digest::SHA;"},
		{"3:use Digest::SHA;", "4-use warnings;"},
	}}
	eng := New(buf, searcher, &mockResolver{root: "/repo"}, config)

	assert.NoError(t, eng.Complete(context.Background()), "first completion")
	assert.Len(t, eng.History(), 1, "one entry recorded")
	assert.Equal(t, "::SHA", eng.History()[0].Original, "replaced text")
	assert.Equal(t, "use Digest::SHA;", eng.History()[0].Updated, "inserted text")

	// A second invocation on the same connection appends rather than
	// starting over.
	assert.NoError(t, eng.Complete(context.Background()), "second completion")
	assert.Len(t, eng.History(), 2, "history outlives the invocation")
	assert.Equal(t, "use warnings;", eng.History()[1].Updated, "second entry")
}

func TestCompleteExtensionLimit(t *testing.T) {
	config := testConfig()
	config.LimitExtension = true
	config.OmniCompletion = false
	buf := newMockBuffer([]string{"::SHA"}, 1, 5)
	searcher := &mockSearcher{}
	eng := New(buf, searcher, &mockResolver{root: "/repo"}, config)

	err := eng.Complete(context.Background())
	assert.NoError(t, err, "complete")
	assert.Equal(t, "pl", searcher.calls[0].opts.Extension, "search scoped to the file's extension")
}

func TestCompleteDwimIgnoreCase(t *testing.T) {
	config := testConfig()
	config.IgnoreCase = types.IgnoreCaseDwim
	config.OmniCompletion = false

	buf := newMockBuffer([]string{"select"}, 1, 6)
	searcher := &mockSearcher{}
	eng := New(buf, searcher, &mockResolver{root: "/repo"}, config)
	assert.NoError(t, eng.Complete(context.Background()), "complete")
	assert.True(t, searcher.calls[0].opts.IgnoreCase, "lowercase query searches case-insensitively")

	buf = newMockBuffer([]string{"Select"}, 1, 6)
	searcher = &mockSearcher{}
	eng = New(buf, searcher, &mockResolver{root: "/repo"}, config)
	assert.NoError(t, eng.Complete(context.Background()), "complete")
	assert.False(t, searcher.calls[0].opts.IgnoreCase, "capitalized query keeps exact case")
}

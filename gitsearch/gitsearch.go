package gitsearch

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/blue0513/git-complete/logger"
)

// ErrNotInRepository reports that the completed file is not inside a git
// work tree. The whole completion aborts on it, before any search runs.
var ErrNotInRepository = errors.New("not inside a git repository")

// Resolver locates and caches the repository root enclosing a file. Roots
// are resolved at most once per directory and never invalidated; the cache
// lives as long as the process.
type Resolver struct {
	roots map[string]string
}

func NewResolver() *Resolver {
	return &Resolver{roots: make(map[string]string)}
}

// Root returns the repository root for path.
func (r *Resolver) Root(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", ErrNotInRepository
	}
	dir := filepath.Dir(path)
	if root, ok := r.roots[dir]; ok {
		return root, nil
	}

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		logger.Debug("gitsearch: rev-parse failed in %s: %v", dir, err)
		return "", ErrNotInRepository
	}

	root := strings.TrimSpace(string(out))
	r.roots[dir] = root
	logger.Debug("gitsearch: resolved root %s for %s", root, dir)
	return root, nil
}

// GrepOptions control a single search.
type GrepOptions struct {
	// WithContext asks for one trailing context line per match.
	WithContext bool
	// IgnoreCase makes the match case-insensitive.
	IgnoreCase bool
	// Extension, when non-empty, restricts the search to files with this
	// extension (no leading dot).
	Extension string
}

// Searcher runs literal fixed-string searches over a repository's tracked
// content via git grep.
type Searcher struct{}

// Grep returns the raw output lines for a literal query. A query with no
// matches yields an empty result, not an error.
func (s *Searcher) Grep(ctx context.Context, root, q string, opts GrepOptions) ([]string, error) {
	defer logger.Trace("gitsearch.Grep")()

	cmd := exec.CommandContext(ctx, "git", GrepArgs(q, opts)...)
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		// git grep exits 1 when nothing matched
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return nil, nil
		}
		return nil, fmt.Errorf("git grep: %w", err)
	}

	lines := strings.Split(strings.TrimSuffix(string(out), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	return lines, nil
}

// GrepArgs builds the git grep argument list for a query.
func GrepArgs(q string, opts GrepOptions) []string {
	args := []string{"grep", "-F", "-h", "--no-color"}
	if opts.IgnoreCase {
		args = append(args, "--ignore-case")
	}
	if opts.WithContext {
		// -n marks matches "<num>:" and context lines "<num>-", so the
		// ranker can tell them apart even when adjacent blocks merge.
		args = append(args, "-n", "-A", "1")
	}
	args = append(args, "-e", q)
	if opts.Extension != "" {
		args = append(args, "--", "*."+opts.Extension)
	}
	return args
}

// DwimIgnoreCase reports whether a dwim-cased search should ignore case:
// only when the query carries no uppercase letters.
func DwimIgnoreCase(q string) bool {
	return strings.ToLower(q) == q
}

package types

// Ignore-case behavior for repository searches.
const (
	IgnoreCaseNone   = "none"
	IgnoreCaseDwim   = "dwim" // case-insensitive only for all-lowercase queries
	IgnoreCaseAlways = "always"
)

// Config is the runtime configuration, read as JSON from the
// GITCOMPLETE_CONFIG environment variable.
type Config struct {
	Threshold          float64  `json:"threshold"`            // candidate cutoff for the initial same-line search
	NextLineThreshold  float64  `json:"next_line_threshold"`  // cutoff when completing a fresh line from the line above
	RepeatThreshold    float64  `json:"repeat_threshold"`     // cutoff for automatic multi-line continuation
	OmniCompletion     bool     `json:"omni_completion"`      // shorten the query when nothing matches
	NextLineCompletion bool     `json:"next_line_completion"` // complete fresh lines using the previous line
	RepeatCompletion   bool     `json:"repeat_completion"`    // keep completing subsequent lines after a success
	IgnoreCase         string   `json:"ignore_case"`          // "none", "dwim" or "always"
	LimitExtension     bool     `json:"limit_extension"`      // restrict the search to the current file's extension
	LispyFiletypes     []string `json:"lispy_filetypes"`      // filetypes whose closers may share the inserted line
	LogLevel           string   `json:"log_level"`            // trace, debug, info, warn, error

	DebugImmediateShutdown bool `json:"debug_immediate_shutdown"`
}

// DefaultConfig returns the configuration used when a field is absent from
// GITCOMPLETE_CONFIG.
func DefaultConfig() Config {
	return Config{
		Threshold:          0.05,
		NextLineThreshold:  0.3,
		RepeatThreshold:    0.4,
		OmniCompletion:     true,
		NextLineCompletion: true,
		RepeatCompletion:   true,
		IgnoreCase:         IgnoreCaseDwim,
		LispyFiletypes:     []string{"lisp", "scheme", "clojure", "fennel"},
		LogLevel:           "info",
	}
}

// IsLispy reports whether trailing closers may sit directly below the
// completed line for the given filetype.
func (c *Config) IsLispy(filetype string) bool {
	for _, ft := range c.LispyFiletypes {
		if ft == filetype {
			return true
		}
	}
	return false
}

// DiffEntry records one applied completion as before/after content.
type DiffEntry struct {
	// Original is the content before the change.
	Original string
	// Updated is the content after the change.
	Updated string
}

// BufferEdit is a computed replacement of the buffer from StartRow to its
// end, plus where the cursor and the re-indent pass go afterwards.
// Rows are 1-indexed.
type BufferEdit struct {
	StartRow      int      // first replaced row
	Lines         []string // replacement for rows StartRow..end of buffer
	CursorRow     int      // row the cursor moves to, at its first non-blank column
	ReindentStart int      // first row handed to the re-indent pass
	ReindentEnd   int      // last row handed to the re-indent pass
}

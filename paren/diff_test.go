package paren

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func closers(tokens []Token) string {
	out := make([]byte, len(tokens))
	for i, t := range tokens {
		out[i] = t.Closer()
	}
	return string(out)
}

func TestDiffSelfIsNoOp(t *testing.T) {
	for _, s := range []string{"", "foo", "(foo", "a)b", "([{", ")]", "f(a[b", `\(x)`} {
		got := Diff(Scan(s), Scan(s))
		assert.Len(t, got.MissingCloses, 0, "missing closes for %q", s)
		assert.Len(t, got.ExtraCloses, 0, "extra closes for %q", s)
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name        string
		removed     string
		inserted    string
		wantMissing string // closer characters, emission order
		wantExtra   string // closer characters, processing order
	}{
		{"both balanced", "foo()", "bar[]", "", ""},
		{"open added", "foo", "(bar", ")", ""},
		{"nested opens added close innermost first", "foo", "([bar", "])", ""},
		{"open deleted", "(foo", "bar", "", ")"},
		{"nested opens deleted innermost first", "([foo", "bar", "", "])"},
		{"close deleted must be restored", "a)b", "ab", ")", ""},
		{"close added is now redundant", "ab", "a)b", "", ")"},
		{"shared outer open survives", "(foo", "(bar", "", ""},
		{"shared prefix then divergence", "((a", "([a", "]", ")"},
		{"open swapped for close", "(a", "a)", "", "))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(Scan(tt.removed), Scan(tt.inserted))
			assert.Equal(t, tt.wantMissing, closers(got.MissingCloses), "missing closes")
			assert.Equal(t, tt.wantExtra, closers(got.ExtraCloses), "extra closes")
		})
	}
}

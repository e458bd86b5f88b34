package paren

// Role classifies a bracket token as opening or closing.
type Role int

const (
	Open Role = iota
	Close
)

// Token is a single unmatched bracket character found by Scan.
type Token struct {
	Char    byte
	Partner byte
	Role    Role
}

// Closer returns the closing character this token corresponds to.
func (t Token) Closer() byte {
	if t.Role == Close {
		return t.Char
	}
	return t.Partner
}

// Opener returns the opening character this token corresponds to.
func (t Token) Opener() byte {
	if t.Role == Open {
		return t.Char
	}
	return t.Partner
}

// escape consumes the character that follows it entirely; the escaped
// character can never open, close or escape.
const escape = '\\'

var openPartners = map[byte]byte{'(': ')', '[': ']', '{': '}'}
var closePartners = map[byte]byte{')': '(', ']': '[', '}': '{'}

// State holds the genuinely unbalanced brackets of a scanned string.
// UnmatchedOpens is ordered outermost first (innermost last);
// UnmatchedCloses keeps left-to-right encounter order.
type State struct {
	UnmatchedOpens  []Token
	UnmatchedCloses []Token
}

// Scan classifies the brackets of s. Matched pairs are discarded; only
// tokens that found no partner within s remain. A closer only matches the
// current innermost open: one that matches an outer open instead is still
// recorded as a stray. That asymmetry decides which side of a later diff a
// token lands on, so it is deliberate.
func Scan(s string) State {
	var stack []Token
	var strays []Token
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == escape:
			i++
		case openPartners[c] != 0:
			stack = append(stack, Token{Char: c, Partner: openPartners[c], Role: Open})
		case closePartners[c] != 0:
			if n := len(stack); n > 0 && stack[n-1].Partner == c {
				stack = stack[:n-1]
				break
			}
			strays = append(strays, Token{Char: c, Partner: closePartners[c], Role: Close})
		}
	}
	return State{UnmatchedOpens: stack, UnmatchedCloses: strays}
}

// CutAtStrayClose truncates s at the first closer that ends a group s never
// opened, leaving s untouched when every closer is balanced. Used to bound
// shortened queries and their candidates at the enclosing group's end.
func CutAtStrayClose(s string) string {
	var stack []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == escape:
			i++
		case openPartners[c] != 0:
			stack = append(stack, openPartners[c])
		case closePartners[c] != 0:
			if n := len(stack); n > 0 && stack[n-1] == c {
				stack = stack[:n-1]
			} else {
				return s[:i]
			}
		}
	}
	return s
}

package argv

// Cursor walks an immutable list of tokens. The read position only moves
// forward, except for the single-step undo provided by Back.
type Cursor struct {
	tokens  []string
	pos     int
	canBack bool
}

// New returns a Cursor positioned at the first of tokens. The slice is
// copied so later changes by the caller are not observed.
func New(tokens []string) *Cursor {
	owned := make([]string, len(tokens))
	copy(owned, tokens)
	return &Cursor{tokens: owned}
}

// Peek returns the current token without consuming it. The boolean is false
// once the cursor is exhausted.
func (c *Cursor) Peek() (string, bool) {
	if c.pos >= len(c.tokens) {
		return "", false
	}
	return c.tokens[c.pos], true
}

// Next consumes and returns the current token. On an exhausted cursor it
// returns false and leaves the position untouched.
func (c *Cursor) Next() (string, bool) {
	if c.pos >= len(c.tokens) {
		c.canBack = false
		return "", false
	}
	tok := c.tokens[c.pos]
	c.pos++
	c.canBack = true
	return tok, true
}

// Back undoes the immediately preceding successful Next. Calling it at any
// other time is a programming error and panics.
func (c *Cursor) Back() {
	if !c.canBack {
		panic("argv: Back called without a preceding Next")
	}
	c.pos--
	c.canBack = false
}

// Match consumes one token if, and only if, the current token equals literal.
func (c *Cursor) Match(literal string) bool {
	tok, ok := c.Peek()
	if !ok || tok != literal {
		return false
	}
	c.Next()
	return true
}

// IsFlag reports, without consuming anything, whether the current token
// selects the flag with the given short letter or long name.
//
// A short token ("-d", "-dr") matches when short appears among its letters.
// A long token ("--debug") matches when its name equals long exactly. A zero
// short letter or an empty long name never matches.
func (c *Cursor) IsFlag(short byte, long string) bool {
	tok, ok := c.Peek()
	if !ok {
		return false
	}
	switch {
	case IsShort(tok):
		if short == 0 {
			return false
		}
		for i := 1; i < len(tok); i++ {
			if tok[i] == short {
				return true
			}
		}
		return false
	case IsLong(tok):
		return long != "" && tok[2:] == long
	default:
		return false
	}
}

// Len returns the number of tokens not yet consumed.
func (c *Cursor) Len() int {
	return len(c.tokens) - c.pos
}

// Done reports whether every token has been consumed.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.tokens)
}

// Rest returns a copy of the tokens not yet consumed.
func (c *Cursor) Rest() []string {
	rest := make([]string, len(c.tokens)-c.pos)
	copy(rest, c.tokens[c.pos:])
	return rest
}

// IsShort reports whether tok is a single dash followed by one or more
// ASCII letters.
func IsShort(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	for i := 1; i < len(tok); i++ {
		if !isLetter(tok[i]) {
			return false
		}
	}
	return true
}

// IsLong reports whether tok is two dashes followed by a non-empty name.
func IsLong(tok string) bool {
	return len(tok) > 2 && tok[0] == '-' && tok[1] == '-'
}

func isLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

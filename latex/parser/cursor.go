package parser

import "fmt"

// Cursor reads tokens from a Source one at a time, tracking the offset of
// the next unread input. The offset never moves backwards.
type Cursor struct {
	src Source
	pos int

	// closing math delimiter expected by the enclosing math region
	expect string
}

func NewCursor(src Source) *Cursor {
	return &Cursor{src: src}
}

func (c *Cursor) Pos() int {
	return c.pos
}

// Next reads the token at the current offset and advances past it.
func (c *Cursor) Next() (Token, error) {
	tok, err := c.peek()
	if err != nil {
		return Token{}, err
	}
	if tok.Pos < c.pos || tok.Len <= 0 {
		return Token{}, &ParseError{
			Err: ErrMalformedToken,
			Msg: fmt.Sprintf("token %s does not advance past offset %d", tok, c.pos),
			Pos: c.pos,
		}
	}
	c.pos = tok.End()
	return tok, nil
}

func (c *Cursor) peek() (Token, error) {
	if src, ok := c.src.(ExpectingSource); ok && c.expect != "" {
		return src.TokenAtExpecting(c.pos, c.expect)
	}
	return c.src.TokenAt(c.pos)
}

// Expect makes the cursor prefer closeDelim whenever it appears at the read
// offset. An empty closeDelim clears the expectation.
func (c *Cursor) Expect(closeDelim string) {
	c.expect = closeDelim
}

// AdvanceTo moves the cursor forward to pos.
func (c *Cursor) AdvanceTo(pos int) error {
	if pos < c.pos {
		return fmt.Errorf("cursor: cannot move back from %d to %d", c.pos, pos)
	}
	c.pos = pos
	return nil
}

// Fork returns an independent cursor at the same offset over the same
// source, with the same expected closing delimiter.
func (c *Cursor) Fork() *Cursor {
	return &Cursor{src: c.src, pos: c.pos, expect: c.expect}
}

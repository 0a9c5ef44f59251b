package parser

import "strings"

// pendingChars accumulates consecutive char tokens into one run.
type pendingChars struct {
	pos  int
	text strings.Builder
	size int
}

func (p *pendingChars) empty() bool {
	return p.size == 0
}

func (p *pendingChars) end() int {
	return p.pos + p.size
}

func (p *pendingChars) push(tok Token) {
	if p.empty() {
		p.pos = tok.Pos
	}
	p.text.WriteString(tok.Text)
	p.size += tok.Len
}

// flush returns the accumulated run as a chars node and resets the buffer,
// or nil if nothing is pending.
func (p *pendingChars) flush() *Node {
	if p.empty() {
		return nil
	}
	node := &Node{
		Kind: KindChars,
		Pos:  p.pos,
		End:  p.pos + p.size,
		Text: p.text.String(),
	}
	p.text.Reset()
	p.pos = 0
	p.size = 0
	return node
}

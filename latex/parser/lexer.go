package parser

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/rivo/uniseg"
)

// Lexer is the tokenizer behind a Collector. It keeps no read position of
// its own: TokenAt is a pure function of the input, so one Lexer can serve
// any number of cursors.
type Lexer struct {
	input []byte
	file  string
	ctx   *Context
	table lexTable
}

func NewLexer(input []byte, file string, ctx *Context) *Lexer {
	if ctx == nil {
		ctx = DefaultContext()
	}
	return &Lexer{
		input: input,
		file:  file,
		ctx:   ctx,
		table: newLexTable(ctx),
	}
}

func (l *Lexer) File() string {
	return l.file
}

func (l *Lexer) Input() []byte {
	return l.input
}

func (l *Lexer) Context() *Context {
	return l.ctx
}

func (l *Lexer) hasPrefixAt(pos int, s string) bool {
	return s != "" && bytes.HasPrefix(l.input[pos:], []byte(s))
}

func (l *Lexer) TokenAt(pos int) (Token, error) {
	if pos < 0 {
		pos = 0
	}
	if pos >= len(l.input) {
		return Token{}, ErrEndOfStream
	}

	for _, d := range l.table.math {
		if l.hasPrefixAt(pos, d.text) {
			return l.token(d.kind, pos, len(d.text), d.text, ""), nil
		}
	}

	if l.hasPrefixAt(pos, l.ctx.EscapeChar) {
		return l.scanEscape(pos)
	}

	if l.ctx.Comments && l.hasPrefixAt(pos, l.ctx.CommentStart) {
		return l.scanComment(pos), nil
	}

	for _, d := range l.table.groups {
		if l.hasPrefixAt(pos, d.text) {
			return l.token(d.kind, pos, len(d.text), d.text, ""), nil
		}
	}

	for _, s := range l.table.specials {
		if l.hasPrefixAt(pos, s) {
			return l.token(TokenSpecials, pos, len(s), s, ""), nil
		}
	}

	cluster, _, _, _ := uniseg.FirstGraphemeCluster(l.input[pos:], -1)
	return l.token(TokenChar, pos, len(cluster), string(cluster), ""), nil
}

// TokenAtExpecting is TokenAt for input inside a math region closed by
// closeDelim: closeDelim is matched before any longer math delimiter.
func (l *Lexer) TokenAtExpecting(pos int, closeDelim string) (Token, error) {
	if pos >= 0 && pos < len(l.input) && l.hasPrefixAt(pos, closeDelim) {
		kind := TokenMathInline
		for _, d := range l.table.math {
			if d.text == closeDelim {
				kind = d.kind
				break
			}
		}
		return l.token(kind, pos, len(closeDelim), closeDelim, ""), nil
	}
	return l.TokenAt(pos)
}

// Tokens reads every token of the input in order.
func (l *Lexer) Tokens() ([]Token, error) {
	var tokens []Token
	pos := 0
	for {
		tok, err := l.TokenAt(pos)
		if errors.Is(err, ErrEndOfStream) {
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		pos = tok.End()
	}
}

func (l *Lexer) token(kind TokenKind, pos, length int, arg, postSpace string) Token {
	return Token{
		Kind:      kind,
		Text:      string(l.input[pos : pos+length]),
		Arg:       arg,
		Pos:       pos,
		Len:       length,
		PostSpace: postSpace,
	}
}

func (l *Lexer) scanEscape(pos int) (Token, error) {
	nameStart := pos + len(l.ctx.EscapeChar)
	if nameStart >= len(l.input) {
		placeholder := l.token(TokenChar, pos, nameStart-pos, l.ctx.EscapeChar, "")
		return Token{}, &ParseError{
			Err:         ErrMalformedToken,
			Msg:         fmt.Sprintf("expected macro name after %q", l.ctx.EscapeChar),
			Pos:         nameStart,
			Placeholder: &placeholder,
			RecoveryPos: nameStart,
		}
	}

	if !isMacroLetter(l.input[nameStart]) {
		// control symbol: exactly one character, no trailing space
		cluster, _, _, _ := uniseg.FirstGraphemeCluster(l.input[nameStart:], -1)
		end := nameStart + len(cluster)
		return l.token(TokenMacro, pos, end-pos, string(cluster), ""), nil
	}

	end := nameStart
	for end < len(l.input) && isMacroLetter(l.input[end]) {
		end++
	}
	name := string(l.input[nameStart:end])

	if l.ctx.Environments && (name == "begin" || name == "end") {
		return l.scanEnvironment(pos, end, name)
	}

	spaceEnd := l.skipPostSpace(end)
	return l.token(TokenMacro, pos, spaceEnd-pos, name, string(l.input[end:spaceEnd])), nil
}

func (l *Lexer) scanEnvironment(pos, nameEnd int, beginEnd string) (Token, error) {
	kind := TokenBeginEnvironment
	if beginEnd == "end" {
		kind = TokenEndEnvironment
	}

	p := nameEnd
	for p < len(l.input) && isBlank(l.input[p]) {
		p++
	}

	malformed := func(at int, msg string) (Token, error) {
		placeholder := l.token(TokenMacro, pos, nameEnd-pos, beginEnd, "")
		return Token{}, &ParseError{
			Err:         ErrMalformedToken,
			Msg:         msg,
			Pos:         at,
			Placeholder: &placeholder,
			RecoveryPos: nameEnd,
		}
	}

	if p >= len(l.input) || l.input[p] != '{' {
		return malformed(p, fmt.Sprintf(`expected "{" after %s%s`, l.ctx.EscapeChar, beginEnd))
	}

	nameLen := bytes.IndexAny(l.input[p+1:], "}\n")
	if nameLen < 0 || l.input[p+1+nameLen] != '}' {
		return malformed(p, fmt.Sprintf("unterminated environment name after %s%s", l.ctx.EscapeChar, beginEnd))
	}

	name := string(l.input[p+1 : p+1+nameLen])
	end := p + 1 + nameLen + 1
	return l.token(kind, pos, end-pos, name, ""), nil
}

func (l *Lexer) scanComment(pos int) Token {
	textStart := pos + len(l.ctx.CommentStart)
	lineEnd := textStart
	for lineEnd < len(l.input) && l.input[lineEnd] != '\n' {
		lineEnd++
	}
	text := bytes.TrimSuffix(l.input[textStart:lineEnd], []byte("\r"))
	textEnd := textStart + len(text)

	end := l.skipLineBreak(textEnd)
	return l.token(TokenComment, pos, end-pos, string(text), string(l.input[textEnd:end]))
}

// skipPostSpace returns the offset past the blanks that follow a control
// word, including at most one line break.
func (l *Lexer) skipPostSpace(pos int) int {
	for pos < len(l.input) && isBlank(l.input[pos]) {
		pos++
	}
	return l.skipLineBreak(pos)
}

// skipLineBreak returns the offset past a line break at pos and the
// indentation of the next line. A line break followed by a blank line is
// not consumed, so paragraph breaks stay visible as text.
func (l *Lexer) skipLineBreak(pos int) int {
	var next int
	switch {
	case bytes.HasPrefix(l.input[pos:], []byte("\r\n")):
		next = pos + 2
	case pos < len(l.input) && l.input[pos] == '\n':
		next = pos + 1
	default:
		return pos
	}

	for next < len(l.input) && isBlank(l.input[next]) {
		next++
	}
	if next < len(l.input) && (l.input[next] == '\n' || l.input[next] == '\r') {
		return pos
	}
	return next
}

func isMacroLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t'
}
